package main

import (
	"time"

	"github.com/MERCY1912/oddrealm-sub000/internal/constants"
	"github.com/MERCY1912/oddrealm-sub000/internal/logging"
	"github.com/MERCY1912/oddrealm-sub000/internal/service"
	"github.com/MERCY1912/oddrealm-sub000/internal/storage"
)

// startExpiryScanner runs the background sweep: waiting challenge
// requests past their deadline are marked expired, and battles both
// players walked away from are finished with no winner. Clients also
// discover expiry lazily; the scanner just keeps the tables tidy.
func startExpiryScanner(repo storage.Repository, idleTimeout time.Duration) {
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			service.ExpireOpenRequests(repo, now)

			stale, err := repo.FindStaleBattles(now.Add(-idleTimeout), 20)
			if err != nil {
				logging.Error("stale battle scan failed", err, nil)
				continue
			}
			for i := range stale {
				b := stale[i]
				if err := service.HandleStaleBattle(repo, &b); err != nil {
					logging.Error("failed to expire battle", err,
						logging.Fields{constants.LogFieldBattleUUID: b.BattleUUID})
				}
			}
		}
	}()
}
