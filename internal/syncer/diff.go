package syncer

import (
	"fmt"

	"github.com/MERCY1912/oddrealm-sub000/internal/game"
)

// Notice is a user-facing message about a single watched field that
// changed between the local battle copy and the store's copy.
type Notice struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// diffBattles compares the watched fields of the two copies and returns
// one notice per differing field. Object identity is never trusted; a
// nil local copy means the remote is being adopted for the first time.
func diffBattles(local, remote *game.Battle) []Notice {
	if remote == nil {
		return nil
	}
	if local == nil {
		return []Notice{{Field: "battle", Message: "battle loaded"}}
	}

	var notices []Notice
	if local.Round != remote.Round {
		notices = append(notices, Notice{
			Field:   "round",
			Message: fmt.Sprintf("round %d started", remote.Round),
		})
	}
	for i := range remote.Combatants {
		rc := &remote.Combatants[i]
		lc := local.CombatantByUUID(rc.CombatantUUID)
		if lc == nil {
			notices = append(notices, Notice{
				Field:   "combatants",
				Message: rc.Name + " joined the battle",
			})
			continue
		}
		if lc.CurrentHealth != rc.CurrentHealth {
			notices = append(notices, Notice{
				Field:   "health",
				Message: fmt.Sprintf("%s is at %d health", rc.Name, rc.CurrentHealth),
			})
		}
		if lc.MaxHealth != rc.MaxHealth {
			notices = append(notices, Notice{
				Field:   "max_health",
				Message: fmt.Sprintf("%s's maximum health is now %d", rc.Name, rc.MaxHealth),
			})
		}
	}
	if len(local.LogLines()) != len(remote.LogLines()) {
		notices = append(notices, Notice{Field: "log", Message: "the battle log was updated"})
	}
	if local.TurnOwnerUUID != remote.TurnOwnerUUID {
		msg := "waiting for the opponent"
		if c := remote.CombatantByUUID(remote.TurnOwnerUUID); c != nil {
			msg = "it is " + c.Name + "'s turn"
		}
		notices = append(notices, Notice{Field: "turn_owner", Message: msg})
	}
	if local.Status != remote.Status {
		msg := "battle is " + remote.Status
		if remote.Status == game.BattleStatusFinished {
			msg = "battle finished"
		}
		notices = append(notices, Notice{Field: "status", Message: msg})
	}
	return notices
}
