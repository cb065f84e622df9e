package service

import (
	"errors"
	"time"

	"github.com/MERCY1912/oddrealm-sub000/internal/game"
	"github.com/MERCY1912/oddrealm-sub000/internal/logging"
	"github.com/MERCY1912/oddrealm-sub000/internal/storage"
)

// ExpireOpenRequests marks every waiting challenge request past its
// deadline as expired. Clients also discover expiry lazily on read;
// this keeps the table tidy for everyone else.
func ExpireOpenRequests(repo interface {
	ExpireRequests(time.Time) (int64, error)
}, now time.Time) {
	n, err := repo.ExpireRequests(now)
	if err != nil {
		logging.Error("request expiry sweep failed", err, nil)
		return
	}
	if n > 0 {
		logging.Info("expired challenge requests", logging.Fields{"count": n})
	}
}

// HandleStaleBattle finishes a battle both clients walked away from.
// No winner is declared and no rewards are granted. A conflict on the
// guarded update means another writer (a returning client or another
// scanner) acted first, which is fine.
func HandleStaleBattle(repo interface {
	UpdateBattle(*game.Battle) error
}, b *game.Battle) error {
	if b.Status != game.BattleStatusAwaitingMoves {
		return nil
	}
	b.Status = game.BattleStatusFinished
	b.AppendLog("The battle ended due to inactivity.")
	if err := repo.UpdateBattle(b); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil
		}
		return err
	}
	return nil
}
