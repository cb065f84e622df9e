package engine

import (
	"fmt"
	"math/rand"

	"github.com/MERCY1912/oddrealm-sub000/internal/game"
)

// ResolveBattleRound applies the current round of a PvP battle once
// both combatants' moves are present. It computes both attack
// directions against pre-round health, appends narrated log lines,
// clears pending moves, and either advances the round or finishes the
// battle. Returns true when a round was actually resolved.
//
// The function is idempotent per round: after resolution the pending
// moves are cleared, so invoking it again for the same battle state is
// a no-op. Callers must only persist the result through the store's
// atomic update so exactly one writer performs the transition.
func ResolveBattleRound(b *game.Battle, rng *rand.Rand) bool {
	if b == nil || len(b.Combatants) != 2 {
		return false
	}
	if b.Status != game.BattleStatusAwaitingMoves {
		return false
	}
	a := &b.Combatants[0]
	c := &b.Combatants[1]
	moveA, okA := a.PendingMove(b.Round)
	moveC, okC := c.PendingMove(b.Round)
	if !okA || !okC {
		return false
	}

	b.Status = game.BattleStatusResolving

	// Both damages are computed against pre-round health, never a
	// partially updated value.
	preA := a.CurrentHealth
	preC := c.CurrentHealth

	verdictAtoC := Resolve(moveA.AttackZone, moveC.DefenseZone,
		PvPAttackPower(a.Level), PvPDefensePower(c.Level), Noise(rng, PvPNoiseMax), PvPBlockFactor)
	verdictCtoA := Resolve(moveC.AttackZone, moveA.DefenseZone,
		PvPAttackPower(c.Level), PvPDefensePower(a.Level), Noise(rng, PvPNoiseMax), PvPBlockFactor)

	a.CurrentHealth = floorZero(preA - verdictCtoA.Damage)
	c.CurrentHealth = floorZero(preC - verdictAtoC.Damage)

	b.AppendLog(
		fmt.Sprintf("Round %d:", b.Round),
		NarrateAttack(rng, a.Name, c.Name, string(moveA.AttackZone), verdictAtoC),
		NarrateAttack(rng, c.Name, a.Name, string(moveC.AttackZone), verdictCtoA),
	)

	a.ClearPendingMove()
	c.ClearPendingMove()

	aDown := a.CurrentHealth <= 0
	cDown := c.CurrentHealth <= 0
	if aDown || cDown {
		b.Status = game.BattleStatusFinished
		switch {
		case aDown && cDown:
			b.AppendLog("Both fighters fall. The duel ends with no victor.")
		case cDown:
			finishWithWinner(b, a, c)
		default:
			finishWithWinner(b, c, a)
		}
		return true
	}

	b.Round++
	b.Status = game.BattleStatusAwaitingMoves
	b.TurnOwnerUUID = a.CombatantUUID
	return true
}

func finishWithWinner(b *game.Battle, winner, loser *game.Combatant) {
	b.WinnerUUID = winner.CombatantUUID
	b.WinnerRewards, b.LoserRewards = PvPRewards()
	b.AppendLog(fmt.Sprintf("%s is victorious over %s!", winner.Name, loser.Name))
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
