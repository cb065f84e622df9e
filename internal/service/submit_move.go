package service

import (
	"errors"
	"math/rand"

	"github.com/MERCY1912/oddrealm-sub000/internal/engine"
	"github.com/MERCY1912/oddrealm-sub000/internal/game"
	"github.com/MERCY1912/oddrealm-sub000/internal/storage"
)

var (
	ErrBattleNotFound       = errors.New("battle not found")
	ErrCombatantNotInBattle = errors.New("combatant not in this battle")
	ErrInvalidMove          = errors.New("move names an unknown zone")
	ErrStoreContention      = errors.New("battle update kept conflicting; try again")
)

// BattleRepo is the slice of the store move submission needs.
type BattleRepo interface {
	GetBattleByUUID(string) (*game.Battle, error)
	UpdateBattle(*game.Battle) error
	ApplyBattleRewards(*game.Battle) error
}

// MoveValidator is a pluggable hook run before a move is written to the
// store. The default checks structure only; an authoritative
// stat/ownership check can be swapped in without touching the
// synchronizer or the engine.
type MoveValidator func(b *game.Battle, combatantUUID string, m game.Move) error

// DefaultMoveValidator accepts any structurally valid move from a
// battle participant.
func DefaultMoveValidator(b *game.Battle, combatantUUID string, m game.Move) error {
	if !m.Valid() {
		return ErrInvalidMove
	}
	if b.CombatantByUUID(combatantUUID) == nil {
		return ErrCombatantNotInBattle
	}
	return nil
}

// casAttempts bounds the read-modify-write retry loop. Conflicts are
// expected when both clients submit near-simultaneously; more than a
// few in a row means something is wrong with the store.
const casAttempts = 3

// SubmitMove stores a combatant's move for the current round and
// resolves the round once both moves are present. The resolution is
// persisted through the store's compare-and-swap update, so two clients
// that independently observe "both moves present" can never both apply
// damage: the loser's write conflicts, reloads, and finds the round
// already advanced.
//
// Idempotent by design: a duplicate move for an already-submitted round
// and a move against a finished battle are both no-ops, never errors.
// Returns the updated battle and whether this call resolved a round.
func SubmitMove(repo BattleRepo, rng *rand.Rand, battleUUID, combatantUUID string, m game.Move, validate MoveValidator) (*game.Battle, bool, error) {
	if validate == nil {
		validate = DefaultMoveValidator
	}
	intendedRound := 0
	for attempt := 0; attempt < casAttempts; attempt++ {
		b, err := repo.GetBattleByUUID(battleUUID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, false, ErrBattleNotFound
			}
			return nil, false, err
		}
		if b.Finished() {
			return b, false, nil
		}
		if err := validate(b, combatantUUID, m); err != nil {
			return nil, false, err
		}
		if intendedRound == 0 {
			intendedRound = b.Round
		}
		if b.Round != intendedRound {
			// The round the caller was aiming at already resolved while we
			// were retrying; do not re-target the move at a newer round.
			return b, false, nil
		}

		me := b.CombatantByUUID(combatantUUID)
		if _, already := me.PendingMove(b.Round); already {
			return b, false, nil
		}
		me.SetPendingMove(b.Round, m)
		if opp := b.OpponentOf(combatantUUID); opp != nil {
			b.TurnOwnerUUID = opp.CombatantUUID
		}

		resolved := false
		if opp := b.OpponentOf(combatantUUID); opp != nil {
			if _, ok := opp.PendingMove(b.Round); ok {
				resolved = engine.ResolveBattleRound(b, rng)
			}
		}

		if err := repo.UpdateBattle(b); err != nil {
			if errors.Is(err, storage.ErrConflict) {
				continue
			}
			return nil, false, err
		}
		if resolved && b.Status == game.BattleStatusFinished {
			_ = repo.ApplyBattleRewards(b)
		}
		return b, resolved, nil
	}
	return nil, false, ErrStoreContention
}

// EndBattle resigns the caller out of an in-progress battle. The
// opponent is declared winner with the standard bundles; ending an
// already-finished battle is a no-op.
func EndBattle(repo BattleRepo, battleUUID, resignerUUID string) (*game.Battle, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		b, err := repo.GetBattleByUUID(battleUUID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, ErrBattleNotFound
			}
			return nil, err
		}
		if b.Finished() {
			return b, nil
		}
		resigner := b.CombatantByUUID(resignerUUID)
		if resigner == nil {
			return nil, ErrCombatantNotInBattle
		}
		opp := b.OpponentOf(resignerUUID)

		b.Status = game.BattleStatusFinished
		if opp != nil {
			b.WinnerUUID = opp.CombatantUUID
			b.WinnerRewards, b.LoserRewards = engine.PvPRewards()
			b.AppendLog(resigner.Name + " yields. " + opp.Name + " takes the victory.")
		} else {
			b.AppendLog(resigner.Name + " abandons the battle.")
		}

		if err := repo.UpdateBattle(b); err != nil {
			if errors.Is(err, storage.ErrConflict) {
				continue
			}
			return nil, err
		}
		_ = repo.ApplyBattleRewards(b)
		return b, nil
	}
	return nil, ErrStoreContention
}
