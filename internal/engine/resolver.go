package engine

import (
	"math"
	"math/rand"

	"github.com/MERCY1912/oddrealm-sub000/internal/game"
)

// Verdict is the outcome of a single attack direction.
type Verdict struct {
	Damage  int  `json:"damage"`
	Blocked bool `json:"blocked"`
}

// Block severity intentionally differs between the two battle modes: a
// PvE block negates the hit entirely while a PvP block still lets 30%
// of the raw damage through. Keep both as named constants; do not
// unify without a product decision.
const (
	PvEBlockFactor = 0.0
	PvPBlockFactor = 0.3
)

// Noise bounds per mode. Noise is a non-negative perturbation added to
// the raw damage before the minimum-damage floor.
const (
	PvENoisePlayerMax = 15
	PvENoiseEnemyMax  = 12
	PvPNoiseMax       = 10
)

// PvP power derivation: a flat base plus twice the combatant's level.
const pvpBasePower = 20

// PvPAttackPower returns the attack power a combatant of the given
// level brings to a PvP exchange.
func PvPAttackPower(level int) int { return pvpBasePower + 2*level }

// PvPDefensePower returns the mitigation a defender of the given level
// subtracts from incoming raw damage.
func PvPDefensePower(level int) int { return 2 * level }

// Noise draws a bounded non-negative perturbation in [0, max].
func Noise(rng *rand.Rand, max int) int {
	if max <= 0 {
		return 0
	}
	return rng.Intn(max + 1)
}

// Resolve computes one attack direction. Raw damage is
// max(1, attackerPower-defenderPower+noise); when the defender guessed
// the attack zone the hit is blocked and raw damage is scaled by
// blockFactor (rounded). It never fails and never returns a negative
// damage value. Zones outside the five-element set are a programming
// error, not a runtime condition.
func Resolve(attackZone, defenseZone game.Zone, attackerPower, defenderPower, noise int, blockFactor float64) Verdict {
	raw := attackerPower - defenderPower + noise
	if raw < 1 {
		raw = 1
	}
	if attackZone == defenseZone {
		return Verdict{
			Damage:  int(math.Round(blockFactor * float64(raw))),
			Blocked: true,
		}
	}
	return Verdict{Damage: raw}
}
