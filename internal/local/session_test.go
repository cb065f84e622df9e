package local

import (
	"math/rand"
	"testing"

	"github.com/MERCY1912/oddrealm-sub000/internal/game"
)

func fixedEnemyMove(attack, defense game.Zone) func(*Session) game.Move {
	return func(*Session) game.Move {
		return game.Move{AttackZone: attack, DefenseZone: defense}
	}
}

func testSession(opts ...Option) *Session {
	player := Fighter{Name: "Hero", Level: 4, CurrentHealth: 80, MaxHealth: 80, AttackPower: 40, DefensePower: 10}
	enemy := Enemy{
		Fighter:         Fighter{Name: "Bandit", Level: 3, CurrentHealth: 60, MaxHealth: 60, AttackPower: 25, DefensePower: 8},
		ExperienceValue: 35,
		GoldValue:       21,
	}
	base := []Option{WithRand(rand.New(rand.NewSource(1))), WithRevealDelay(0)}
	return NewSession(player, enemy, append(base, opts...)...)
}

func TestPlayRound_PlayerHitsAndEnemyAnswers(t *testing.T) {
	s := testSession(WithEnemyMove(fixedEnemyMove(game.ZoneLegs, game.ZoneLegs)))

	res, err := s.PlayRound(game.Move{AttackZone: game.ZoneHead, DefenseZone: game.ZoneChest})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PlayerHit.Blocked {
		t.Fatalf("head vs legs should not be blocked")
	}
	if res.PlayerHit.Damage < 30 { // 40-8+noise, noise >= 0
		t.Fatalf("expected at least 30 damage, got %d", res.PlayerHit.Damage)
	}
	if s.Enemy.CurrentHealth >= 60 {
		t.Fatalf("enemy health not reduced: %d", s.Enemy.CurrentHealth)
	}
	if s.Player.CurrentHealth >= 80 {
		t.Fatalf("player should take the counter-hit, health=%d", s.Player.CurrentHealth)
	}
	if s.Round != 2 || s.Status != StatusAwaitingInput {
		t.Fatalf("expected round 2 awaiting input, got round=%d status=%s", s.Round, s.Status)
	}
	if len(res.LogLines) < 2 {
		t.Fatalf("expected narration for both directions, got %v", res.LogLines)
	}
}

func TestPlayRound_BlockZeroesDamage(t *testing.T) {
	s := testSession(WithEnemyMove(fixedEnemyMove(game.ZoneLegs, game.ZoneChest)))

	res, err := s.PlayRound(game.Move{AttackZone: game.ZoneChest, DefenseZone: game.ZoneLegs})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.PlayerHit.Blocked || res.PlayerHit.Damage != 0 {
		t.Fatalf("expected fully blocked player hit, got %+v", res.PlayerHit)
	}
	if !res.EnemyHit.Blocked || res.EnemyHit.Damage != 0 {
		t.Fatalf("expected fully blocked enemy hit, got %+v", res.EnemyHit)
	}
	if s.Enemy.CurrentHealth != 60 || s.Player.CurrentHealth != 80 {
		t.Fatalf("blocked round must not change health: %d / %d",
			s.Enemy.CurrentHealth, s.Player.CurrentHealth)
	}
}

func TestPlayRound_VictoryRewards(t *testing.T) {
	s := testSession(WithEnemyMove(fixedEnemyMove(game.ZoneLegs, game.ZoneLegs)))
	s.Enemy.CurrentHealth = 5

	res, err := s.PlayRound(game.Move{AttackZone: game.ZoneHead, DefenseZone: game.ZoneChest})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Finished || res.Outcome != OutcomeVictory {
		t.Fatalf("expected victory, got %+v", res)
	}
	if res.Rewards.Experience != 35 {
		t.Fatalf("expected full enemy experience 35, got %d", res.Rewards.Experience)
	}
	if res.Rewards.Gold != 10 { // half of 21, integer rounding
		t.Fatalf("expected gold 10, got %d", res.Rewards.Gold)
	}
	// A downed enemy never answers.
	if res.EnemyHit.Damage != 0 {
		t.Fatalf("defeated enemy must not strike back, got %+v", res.EnemyHit)
	}
}

func TestPlayRound_DefeatAwardsNothing(t *testing.T) {
	s := testSession(WithEnemyMove(fixedEnemyMove(game.ZoneHead, game.ZoneLegs)))
	s.Player.CurrentHealth = 1
	s.Player.AttackPower = 1
	s.Enemy.DefensePower = 100

	res, err := s.PlayRound(game.Move{AttackZone: game.ZoneChest, DefenseZone: game.ZoneLegs})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Finished || res.Outcome != OutcomeDefeat {
		t.Fatalf("expected defeat, got %+v", res)
	}
	if res.Rewards != (game.RewardBundle{}) {
		t.Fatalf("defeat must award nothing, got %+v", res.Rewards)
	}
}

func TestPlayRound_FinishedSessionRejectsMoves(t *testing.T) {
	s := testSession()
	s.Status = StatusFinished

	if _, err := s.PlayRound(game.Move{AttackZone: game.ZoneHead, DefenseZone: game.ZoneLegs}); err != ErrSessionFinished {
		t.Fatalf("expected ErrSessionFinished, got %v", err)
	}
}

func TestPlayRound_InvalidZoneRejected(t *testing.T) {
	s := testSession()
	if _, err := s.PlayRound(game.Move{AttackZone: "elbow", DefenseZone: game.ZoneLegs}); err != ErrInvalidMove {
		t.Fatalf("expected ErrInvalidMove, got %v", err)
	}
}
