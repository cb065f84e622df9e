package engine

import (
	"fmt"
	"math/rand"
)

// Narration phrase pools. Attack lines and block lines come from
// separate pools; the picked phrase is cosmetic, the numbers are not.
var attackPhrases = []string{
	"%s strikes %s in the %s for %d damage.",
	"%s lands a heavy blow to %s's %s for %d damage.",
	"%s cuts %s across the %s for %d damage.",
	"%s drives the blade into %s's %s for %d damage.",
}

var blockPhrases = []string{
	"%s aims at the %s, but %s turns the blow aside.",
	"%s goes for the %s and %s catches it on the shield.",
	"%s swings at the %s; %s parries.",
}

var partialBlockPhrases = []string{
	"%s aims at the %s; %s blocks, but %d damage bleeds through.",
	"%s hammers the %s into %s's guard for %d damage.",
}

// NarrateAttack describes one resolved attack direction. Both battle
// modes share the phrase pools.
func NarrateAttack(rng *rand.Rand, attacker, defender, zone string, v Verdict) string {
	if v.Blocked {
		if v.Damage > 0 {
			p := partialBlockPhrases[rng.Intn(len(partialBlockPhrases))]
			return fmt.Sprintf(p, attacker, zone, defender, v.Damage)
		}
		p := blockPhrases[rng.Intn(len(blockPhrases))]
		return fmt.Sprintf(p, attacker, zone, defender)
	}
	p := attackPhrases[rng.Intn(len(attackPhrases))]
	return fmt.Sprintf(p, attacker, defender, zone, v.Damage)
}
