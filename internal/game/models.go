package game

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Battle statuses. The battle record moves awaiting_moves -> resolving ->
// (awaiting_moves with round+1) | finished. The resolving state only
// exists inside the store's atomic update; clients read either
// awaiting_moves or finished.
const (
	BattleStatusAwaitingMoves = "awaiting_moves"
	BattleStatusResolving     = "resolving"
	BattleStatusFinished      = "finished"
)

// ChallengeRequest statuses.
const (
	RequestStatusWaiting   = "waiting"
	RequestStatusAccepted  = "accepted"
	RequestStatusExpired   = "expired"
	RequestStatusCancelled = "cancelled"
)

// Combatant is the per-battle snapshot of a fighter. Health is mutated
// only by the combat engine during round resolution; presentation code
// never writes to it directly.
type Combatant struct {
	gorm.Model
	BattleID      uint   `json:"-"`
	CombatantUUID string `json:"combatant_uuid" gorm:"index"`
	Name          string `json:"name"`
	Level         int    `json:"level"`
	Class         string `json:"class"`
	CurrentHealth int    `json:"current_health"`
	MaxHealth     int    `json:"max_health"`

	// Pending move for the current round. At most one move per combatant
	// per round: a second submission for the same round is a no-op.
	HasSubmittedMove   bool `json:"has_submitted_move"`
	PendingMoveRound   int  `json:"-"`
	PendingAttackZone  Zone `json:"-"`
	PendingDefenseZone Zone `json:"-"`
}

// Store per-battle participants in a dedicated table for clarity.
func (Combatant) TableName() string { return "battle_combatants" }

// PendingMove returns the combatant's declared move for the given round,
// or false when none was submitted for that round.
func (c *Combatant) PendingMove(round int) (Move, bool) {
	if !c.HasSubmittedMove || c.PendingMoveRound != round {
		return Move{}, false
	}
	return Move{AttackZone: c.PendingAttackZone, DefenseZone: c.PendingDefenseZone}, true
}

// SetPendingMove records the combatant's move for the given round.
func (c *Combatant) SetPendingMove(round int, m Move) {
	c.HasSubmittedMove = true
	c.PendingMoveRound = round
	c.PendingAttackZone = m.AttackZone
	c.PendingDefenseZone = m.DefenseZone
}

// ClearPendingMove resets the combatant's declared move after resolution.
func (c *Combatant) ClearPendingMove() {
	c.HasSubmittedMove = false
	c.PendingMoveRound = 0
	c.PendingAttackZone = ""
	c.PendingDefenseZone = ""
}

// RewardBundle is what a combatant takes away from a finished battle.
type RewardBundle struct {
	Experience  int `json:"experience"`
	Gold        int `json:"gold"`
	RatingDelta int `json:"rating_delta"`
}

// Battle is the authoritative record of an in-progress or finished PvP
// fight. Both clients poll this record and replace their local copy
// wholesale whenever the store's copy differs.
type Battle struct {
	gorm.Model
	BattleUUID string      `json:"battle_uuid" gorm:"uniqueIndex"`
	Combatants []Combatant `json:"combatants"`

	TurnOwnerUUID string `json:"turn_owner_uuid"`
	Round         int    `json:"round"`
	Status        string `json:"status"`
	WinnerUUID    string `json:"winner_uuid"`

	// Log is the narrated battle log, newline-separated in storage.
	Log string `json:"log"`

	WinnerRewards RewardBundle `json:"winner_rewards" gorm:"embedded;embeddedPrefix:winner_reward_"`
	LoserRewards  RewardBundle `json:"loser_rewards" gorm:"embedded;embeddedPrefix:loser_reward_"`

	// Version backs the store's compare-and-swap update. Every successful
	// update increments it; an update against a stale version is rejected
	// as a conflict instead of silently overwriting.
	Version int `json:"version"`
}

// CombatantByUUID returns the participant with the given identity.
func (b *Battle) CombatantByUUID(uuid string) *Combatant {
	for i := range b.Combatants {
		if b.Combatants[i].CombatantUUID == uuid {
			return &b.Combatants[i]
		}
	}
	return nil
}

// OpponentOf returns the other participant, or nil for a malformed record.
func (b *Battle) OpponentOf(uuid string) *Combatant {
	for i := range b.Combatants {
		if b.Combatants[i].CombatantUUID != uuid {
			return &b.Combatants[i]
		}
	}
	return nil
}

// AppendLog appends narrated lines to the battle log.
func (b *Battle) AppendLog(lines ...string) {
	for _, l := range lines {
		if l == "" {
			continue
		}
		if b.Log != "" {
			b.Log += "\n"
		}
		b.Log += l
	}
}

// LogLines splits the stored log back into its ordered lines.
func (b *Battle) LogLines() []string {
	if b.Log == "" {
		return nil
	}
	return strings.Split(b.Log, "\n")
}

// Finished reports terminal state redundantly: either the status says so
// or a combatant is out of health. The two can become visible at
// different times depending on which write landed first in the store.
func (b *Battle) Finished() bool {
	if b.Status == BattleStatusFinished {
		return true
	}
	for i := range b.Combatants {
		if b.Combatants[i].CurrentHealth <= 0 {
			return true
		}
	}
	return false
}

// ChallengeRequest is an open offer to fight, not yet matched to an
// opponent. It expires passively: clients discover expiry lazily on the
// next list or read.
type ChallengeRequest struct {
	gorm.Model
	RequestUUID string `json:"request_uuid" gorm:"uniqueIndex"`

	ChallengerUUID  string `json:"challenger_uuid" gorm:"index"`
	ChallengerName  string `json:"challenger_name"`
	ChallengerLevel int    `json:"challenger_level"`
	ChallengerClass string `json:"challenger_class"`

	WaitSeconds int       `json:"wait_seconds"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (ChallengeRequest) TableName() string { return "challenge_requests" }

// Active reports whether the request can still be accepted at the given
// time. Status alone is not enough: a waiting request past its deadline
// is already dead even if no writer marked it expired yet.
func (r *ChallengeRequest) Active(now time.Time) bool {
	return r.Status == RequestStatusWaiting && now.Before(r.ExpiresAt)
}

// Profile stores a player's identity, persistent health and aggregate
// combat record. Battle combatants are snapshotted from it.
type Profile struct {
	gorm.Model
	CombatantUUID string `gorm:"uniqueIndex"`
	Name          string
	Level         int
	Class         string
	CurrentHealth int
	MaxHealth     int
	Experience    int
	Gold          int
	Rating        int
	Wins          int
	Losses        int
}

// CanChallenge reports whether the player is healthy enough to open a
// challenge request: at least half of max health.
func (p *Profile) CanChallenge() bool {
	return p.MaxHealth > 0 && 2*p.CurrentHealth >= p.MaxHealth
}

// AsCombatant snapshots the profile into a battle participant.
func (p *Profile) AsCombatant() Combatant {
	return Combatant{
		CombatantUUID: p.CombatantUUID,
		Name:          p.Name,
		Level:         p.Level,
		Class:         p.Class,
		CurrentHealth: p.CurrentHealth,
		MaxHealth:     p.MaxHealth,
	}
}

func (Profile) TableName() string { return "player_profiles" }
