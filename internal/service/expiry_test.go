package service

import (
	"testing"
	"time"

	"github.com/MERCY1912/oddrealm-sub000/internal/game"
)

type mockExpiryRepo struct {
	expiredAt []time.Time
	updated   *game.Battle
}

func (m *mockExpiryRepo) ExpireRequests(now time.Time) (int64, error) {
	m.expiredAt = append(m.expiredAt, now)
	return 2, nil
}

func (m *mockExpiryRepo) UpdateBattle(b *game.Battle) error {
	m.updated = b
	return nil
}

func TestExpireOpenRequests_Sweeps(t *testing.T) {
	m := &mockExpiryRepo{}
	now := time.Now()
	ExpireOpenRequests(m, now)
	if len(m.expiredAt) != 1 || !m.expiredAt[0].Equal(now) {
		t.Fatalf("expected one sweep at %v, got %v", now, m.expiredAt)
	}
}

func TestHandleStaleBattle_FinishesWithoutWinner(t *testing.T) {
	m := &mockExpiryRepo{}
	b := &game.Battle{
		BattleUUID: "b-1",
		Status:     game.BattleStatusAwaitingMoves,
		Round:      4,
		Combatants: []game.Combatant{
			{CombatantUUID: "a", CurrentHealth: 50, MaxHealth: 100},
			{CombatantUUID: "c", CurrentHealth: 60, MaxHealth: 100},
		},
	}
	if err := HandleStaleBattle(m, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.updated == nil {
		t.Fatalf("expected battle update")
	}
	if b.Status != game.BattleStatusFinished || b.WinnerUUID != "" {
		t.Fatalf("expected finished with no winner, got status=%s winner=%q", b.Status, b.WinnerUUID)
	}
}

func TestHandleStaleBattle_FinishedIsUntouched(t *testing.T) {
	m := &mockExpiryRepo{}
	b := &game.Battle{BattleUUID: "b-1", Status: game.BattleStatusFinished}
	if err := HandleStaleBattle(m, b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.updated != nil {
		t.Fatalf("finished battle must not be rewritten")
	}
}
