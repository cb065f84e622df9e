// Package syncer keeps a client's local battle copy converged with the
// store's authoritative copy. Two independently-clocked clients poll the
// same record with no channel between them, so every reconciliation step
// replaces the local copy wholesale from the latest successful read;
// the synchronizer never patches health or log lines incrementally.
package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/MERCY1912/oddrealm-sub000/internal/dedupe"
	"github.com/MERCY1912/oddrealm-sub000/internal/game"
	"github.com/MERCY1912/oddrealm-sub000/internal/logging"
	"github.com/MERCY1912/oddrealm-sub000/internal/storage"
)

// Store is the read side the synchronizer polls. Satisfied by
// storage.Repository and by any HTTP client exposing the same lookup.
type Store interface {
	GetBattleByCombatant(combatantUUID string) (*game.Battle, error)
}

// Config holds the polling cadence. Zero values are replaced by
// DefaultConfig's; tests compress the intervals.
type Config struct {
	// SteadyInterval is the normal poll period.
	SteadyInterval time.Duration
	// CriticalInterval takes over once either combatant drops to
	// CriticalHealthPercent of max health or below. The endgame moves
	// fast and is worth the extra read load.
	CriticalInterval      time.Duration
	CriticalHealthPercent int
	// RefetchDelays are extra out-of-band reads scheduled after a local
	// move, bounding worst-case staleness without waiting for the next
	// steady tick.
	RefetchDelays []time.Duration
}

// DefaultConfig returns the production cadence.
func DefaultConfig() Config {
	return Config{
		SteadyInterval:        time.Second,
		CriticalInterval:      500 * time.Millisecond,
		CriticalHealthPercent: 20,
		RefetchDelays: []time.Duration{
			500 * time.Millisecond,
			1500 * time.Millisecond,
			3 * time.Second,
		},
	}
}

// Synchronizer owns every timer for one battle session. It is started on
// entering a battle and torn down on leaving it or on the battle
// finishing, so no timer outlives the session and mutates state after
// the player navigated away.
type Synchronizer struct {
	store         Store
	combatantUUID string
	cfg           Config

	// onChange receives a copy of the adopted battle plus one notice per
	// field that differed. onGone fires when the record disappeared from
	// the store mid-fight.
	onChange func(*game.Battle, []Notice)
	onGone   func()

	mu     sync.Mutex
	local  *game.Battle
	timers []*time.Timer

	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// New builds a synchronizer for one combatant's view of their battle.
// Either callback may be nil.
func New(store Store, combatantUUID string, cfg Config, onChange func(*game.Battle, []Notice), onGone func()) *Synchronizer {
	def := DefaultConfig()
	if cfg.SteadyInterval <= 0 {
		cfg.SteadyInterval = def.SteadyInterval
	}
	if cfg.CriticalInterval <= 0 {
		cfg.CriticalInterval = def.CriticalInterval
	}
	if cfg.CriticalHealthPercent <= 0 {
		cfg.CriticalHealthPercent = def.CriticalHealthPercent
	}
	if cfg.RefetchDelays == nil {
		cfg.RefetchDelays = def.RefetchDelays
	}
	return &Synchronizer{
		store:         store,
		combatantUUID: combatantUUID,
		cfg:           cfg,
		onChange:      onChange,
		onGone:        onGone,
		done:          make(chan struct{}),
	}
}

// Start begins the polling loop. The first fetch happens immediately.
func (s *Synchronizer) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	go s.loop()
}

// Stop cancels the polling loop and every pending forced re-fetch. Safe
// to call more than once and from inside callbacks.
func (s *Synchronizer) Stop() {
	s.stopOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.mu.Lock()
		for _, t := range s.timers {
			t.Stop()
		}
		s.timers = nil
		s.mu.Unlock()
	})
}

// Done is closed once the polling loop has exited.
func (s *Synchronizer) Done() <-chan struct{} { return s.done }

// Snapshot returns a copy of the current local battle, or nil before the
// first successful poll.
func (s *Synchronizer) Snapshot() *game.Battle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.local == nil {
		return nil
	}
	return copyBattle(s.local)
}

// SubmitMove applies the move to the local copy immediately so the UI
// reflects the action before the store confirms it, runs the caller's
// submit function (the actual store write), then schedules the forced
// re-fetches. The optimistic copy is provisional: the next authoritative
// read overwrites it wholesale, whatever it says.
func (s *Synchronizer) SubmitMove(m game.Move, submit func(game.Move) error) error {
	s.mu.Lock()
	if s.local != nil && !s.local.Finished() {
		if me := s.local.CombatantByUUID(s.combatantUUID); me != nil {
			me.SetPendingMove(s.local.Round, m)
			if opp := s.local.OpponentOf(s.combatantUUID); opp != nil {
				s.local.TurnOwnerUUID = opp.CombatantUUID
			}
			s.local.AppendLog(me.Name + " has made a move. Waiting for the opponent...")
		}
	}
	s.mu.Unlock()

	err := submit(m)
	s.scheduleRefetches()
	return err
}

func (s *Synchronizer) loop() {
	defer close(s.done)
	s.pollOnce()
	for {
		t := time.NewTimer(s.interval())
		select {
		case <-s.ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
		s.pollOnce()
	}
}

// interval picks the adaptive poll period from the local copy's healths.
func (s *Synchronizer) interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.local != nil {
		for i := range s.local.Combatants {
			c := &s.local.Combatants[i]
			if c.MaxHealth > 0 && c.CurrentHealth*100 <= s.cfg.CriticalHealthPercent*c.MaxHealth {
				return s.cfg.CriticalInterval
			}
		}
	}
	return s.cfg.SteadyInterval
}

// pollOnce fetches the battle, diffs it against the local copy and
// replaces the copy wholesale on any difference. Concurrent polls for
// the same combatant (a forced re-fetch landing on a steady tick) are
// collapsed into one store read.
func (s *Synchronizer) pollOnce() {
	if s.ctx != nil && s.ctx.Err() != nil {
		return
	}
	v, err, _ := dedupe.BattleGroup.Do("battle:"+s.combatantUUID, func() (interface{}, error) {
		return s.store.GetBattleByCombatant(s.combatantUUID)
	})
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// The record disappeared mid-fight. Surface "battle gone"
			// instead of crashing, and tear the session down.
			s.Stop()
			if s.onGone != nil {
				s.onGone()
			}
			return
		}
		// Transient store trouble must not interrupt the fight: keep the
		// current copy and retry on the next tick.
		logging.Error("battle poll failed", err, logging.Fields{"combatant": s.combatantUUID})
		return
	}
	remote := copyBattle(v.(*game.Battle))

	s.mu.Lock()
	notices := diffBattles(s.local, remote)
	if len(notices) > 0 {
		s.local = remote
	}
	finished := s.local != nil && s.local.Finished()
	s.mu.Unlock()

	if len(notices) > 0 && s.onChange != nil {
		s.onChange(copyBattle(remote), notices)
	}
	if finished {
		s.Stop()
	}
}

func (s *Synchronizer) scheduleRefetches() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil || s.ctx.Err() != nil {
		return
	}
	for _, d := range s.cfg.RefetchDelays {
		s.timers = append(s.timers, time.AfterFunc(d, s.pollOnce))
	}
}

func copyBattle(b *game.Battle) *game.Battle {
	if b == nil {
		return nil
	}
	cp := *b
	cp.Combatants = make([]game.Combatant, len(b.Combatants))
	copy(cp.Combatants, b.Combatants)
	return &cp
}
