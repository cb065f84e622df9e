// Package local drives a single-process battle against a
// computer-controlled opponent. Both sides' moves are available
// synchronously in the same call, so there is no pending-move state and
// no turn ownership: the session is the PvE analogue of a Battle record.
package local

import (
	"errors"
	"math/rand"
	"time"

	"github.com/MERCY1912/oddrealm-sub000/internal/engine"
	"github.com/MERCY1912/oddrealm-sub000/internal/game"
)

var (
	ErrSessionFinished = errors.New("battle session already finished")
	ErrInvalidMove     = errors.New("move names an unknown zone")
)

// Session statuses.
const (
	StatusAwaitingInput = "awaiting_input"
	StatusFinished      = "finished"
)

// Outcomes of a finished session.
const (
	OutcomeVictory = "victory"
	OutcomeDefeat  = "defeat"
)

// Fighter is one side of a local battle.
type Fighter struct {
	Name          string
	Level         int
	Class         string
	CurrentHealth int
	MaxHealth     int
	AttackPower   int
	DefensePower  int
}

// Enemy is a computer-controlled fighter with fixed reward values.
type Enemy struct {
	Fighter
	ExperienceValue int
	GoldValue       int
}

// Session owns one local battle's lifecycle from first round to
// victory or defeat.
type Session struct {
	Player  Fighter
	Enemy   Enemy
	Round   int
	Status  string
	Outcome string
	Rewards game.RewardBundle
	Log     []string

	rng         *rand.Rand
	enemyMove   func(*Session) game.Move
	revealDelay time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithRand sets the random source, used by tests for determinism.
func WithRand(rng *rand.Rand) Option {
	return func(s *Session) { s.rng = rng }
}

// WithEnemyMove overrides how the opponent's move is synthesized.
func WithEnemyMove(pick func(*Session) game.Move) Option {
	return func(s *Session) { s.enemyMove = pick }
}

// WithRevealDelay sets the pause the presentation layer should leave
// between submitting a move and revealing the exchange.
func WithRevealDelay(d time.Duration) Option {
	return func(s *Session) { s.revealDelay = d }
}

// NewSession starts a local battle at round 1.
func NewSession(player Fighter, enemy Enemy, opts ...Option) *Session {
	s := &Session{
		Player:      player,
		Enemy:       enemy,
		Round:       1,
		Status:      StatusAwaitingInput,
		revealDelay: time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.enemyMove == nil {
		s.enemyMove = randomEnemyMove
	}
	return s
}

// RoundResult reports one resolved exchange back to the caller.
type RoundResult struct {
	Round      int
	PlayerHit  engine.Verdict
	EnemyHit   engine.Verdict
	EnemyMove  game.Move
	Finished   bool
	Outcome    string
	Rewards    game.RewardBundle
	LogLines   []string
}

// PlayRound takes the human's zone choice, synthesizes the opponent's
// choice and resolves one full exchange. The player's attack lands
// first; the enemy only answers if still standing.
func (s *Session) PlayRound(playerMove game.Move) (RoundResult, error) {
	if s.Status == StatusFinished {
		return RoundResult{}, ErrSessionFinished
	}
	if !playerMove.Valid() {
		return RoundResult{}, ErrInvalidMove
	}

	enemyMove := s.enemyMove(s)
	res := RoundResult{Round: s.Round, EnemyMove: enemyMove}

	res.PlayerHit = engine.Resolve(playerMove.AttackZone, enemyMove.DefenseZone,
		s.Player.AttackPower, s.Enemy.DefensePower,
		engine.Noise(s.rng, engine.PvENoisePlayerMax), engine.PvEBlockFactor)
	s.Enemy.CurrentHealth = floorZero(s.Enemy.CurrentHealth - res.PlayerHit.Damage)
	s.appendLog(&res, engine.NarrateAttack(s.rng, s.Player.Name, s.Enemy.Name,
		string(playerMove.AttackZone), res.PlayerHit))

	if s.Enemy.CurrentHealth > 0 {
		res.EnemyHit = engine.Resolve(enemyMove.AttackZone, playerMove.DefenseZone,
			s.Enemy.AttackPower, s.Player.DefensePower,
			engine.Noise(s.rng, engine.PvENoiseEnemyMax), engine.PvEBlockFactor)
		s.Player.CurrentHealth = floorZero(s.Player.CurrentHealth - res.EnemyHit.Damage)
		s.appendLog(&res, engine.NarrateAttack(s.rng, s.Enemy.Name, s.Player.Name,
			string(enemyMove.AttackZone), res.EnemyHit))
	}

	switch {
	case s.Enemy.CurrentHealth <= 0:
		s.Status = StatusFinished
		s.Outcome = OutcomeVictory
		s.Rewards = game.RewardBundle{
			Experience: s.Enemy.ExperienceValue,
			Gold:       s.Enemy.GoldValue / 2,
		}
		s.appendLog(&res, s.Enemy.Name+" collapses. "+s.Player.Name+" wins the fight!")
	case s.Player.CurrentHealth <= 0:
		s.Status = StatusFinished
		s.Outcome = OutcomeDefeat
		s.appendLog(&res, s.Player.Name+" falls. The fight is lost.")
	default:
		s.Round++
	}

	res.Finished = s.Status == StatusFinished
	res.Outcome = s.Outcome
	res.Rewards = s.Rewards
	return res, nil
}

// RevealDelay is the pause the UI should honor before showing a
// resolved exchange.
func (s *Session) RevealDelay() time.Duration { return s.revealDelay }

// ScheduleReveal runs fn after the reveal delay. The returned timer can
// be stopped when the user leaves the battle screen before the reveal
// fires. A zero delay runs fn synchronously and returns nil.
func (s *Session) ScheduleReveal(fn func()) *time.Timer {
	if s.revealDelay <= 0 {
		fn()
		return nil
	}
	return time.AfterFunc(s.revealDelay, fn)
}

func (s *Session) appendLog(res *RoundResult, line string) {
	s.Log = append(s.Log, line)
	res.LogLines = append(res.LogLines, line)
}

func floorZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
