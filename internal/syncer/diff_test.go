package syncer

import (
	"testing"

	"github.com/MERCY1912/oddrealm-sub000/internal/game"
)

func watchedBattle() *game.Battle {
	return &game.Battle{
		BattleUUID:    "b-1",
		Round:         2,
		Status:        game.BattleStatusAwaitingMoves,
		TurnOwnerUUID: "a",
		Log:           "Round 1:\nAldric strikes.",
		Combatants: []game.Combatant{
			{CombatantUUID: "a", Name: "Aldric", CurrentHealth: 80, MaxHealth: 100},
			{CombatantUUID: "c", Name: "Cedric", CurrentHealth: 70, MaxHealth: 100},
		},
	}
}

func noticeFields(notices []Notice) map[string]bool {
	fields := make(map[string]bool, len(notices))
	for _, n := range notices {
		fields[n.Field] = true
	}
	return fields
}

func TestDiffBattles_IdenticalCopiesAreQuiet(t *testing.T) {
	if got := diffBattles(watchedBattle(), watchedBattle()); len(got) != 0 {
		t.Fatalf("identical copies must produce no notices, got %v", got)
	}
}

func TestDiffBattles_FirstAdoption(t *testing.T) {
	got := diffBattles(nil, watchedBattle())
	if len(got) != 1 || got[0].Field != "battle" {
		t.Fatalf("expected a single adoption notice, got %v", got)
	}
}

func TestDiffBattles_NamesEveryChangedField(t *testing.T) {
	local := watchedBattle()
	remote := watchedBattle()
	remote.Round = 3
	remote.Status = game.BattleStatusFinished
	remote.TurnOwnerUUID = "c"
	remote.Log += "\nRound 2:\nCedric strikes back."
	remote.Combatants[0].CurrentHealth = 55
	remote.Combatants[1].MaxHealth = 120

	got := diffBattles(local, remote)
	fields := noticeFields(got)
	for _, want := range []string{"round", "status", "turn_owner", "log", "health", "max_health"} {
		if !fields[want] {
			t.Fatalf("missing notice for %q in %v", want, got)
		}
	}
	if len(got) != 6 {
		t.Fatalf("expected 6 notices, got %d: %v", len(got), got)
	}
}

func TestDiffBattles_RoundNoticeNamesNewRound(t *testing.T) {
	local := watchedBattle()
	remote := watchedBattle()
	remote.Round = 3

	got := diffBattles(local, remote)
	if len(got) != 1 || got[0].Message != "round 3 started" {
		t.Fatalf("expected %q, got %v", "round 3 started", got)
	}
}

func TestDiffBattles_FinishedStatusNotice(t *testing.T) {
	local := watchedBattle()
	remote := watchedBattle()
	remote.Status = game.BattleStatusFinished

	got := diffBattles(local, remote)
	if len(got) != 1 || got[0].Message != "battle finished" {
		t.Fatalf("expected %q, got %v", "battle finished", got)
	}
}
