package storage

import (
	"errors"
	"time"

	"github.com/MERCY1912/oddrealm-sub000/internal/game"
)

// ErrConflict is returned when a guarded update loses the race: the
// record changed underneath the caller (compare-and-swap on the battle
// version, or a status guard on a challenge request).
var ErrConflict = errors.New("storage: conflicting update")

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("storage: record not found")

// Repository is the store contract the combat core consumes. Battles
// and challenge requests are the only shared mutable records; all
// cross-client coordination goes through the guarded updates here.
type Repository interface {
	// Battles
	CreateBattle(b *game.Battle) error
	GetBattleByUUID(uuid string) (*game.Battle, error)
	// GetBattleByCombatant returns the combatant's most recent battle,
	// finished or not. The poll read model is built on this call.
	GetBattleByCombatant(combatantUUID string) (*game.Battle, error)
	// UpdateBattle persists the battle iff its version still matches the
	// stored one; on success the version is incremented. Returns
	// ErrConflict when another writer got there first. This is the only
	// operation allowed to carry the awaiting_moves -> resolving ->
	// next-state transition.
	UpdateBattle(b *game.Battle) error
	DeleteBattle(uuid string) error
	// FindStaleBattles returns in-progress battles untouched since the
	// cutoff, for the background abandonment scanner.
	FindStaleBattles(cutoff time.Time, limit int) ([]game.Battle, error)

	// Challenge requests
	CreateRequest(r *game.ChallengeRequest) error
	GetRequestByUUID(uuid string) (*game.ChallengeRequest, error)
	ListWaitingRequests(now time.Time) ([]game.ChallengeRequest, error)
	// MarkRequestStatus transitions a request from one status to another
	// with a guard on the current status; ErrConflict when the guard
	// does not hold.
	MarkRequestStatus(uuid, from, to string) error
	// AcceptRequestAndCreateBattle atomically transitions the request
	// from waiting to accepted and creates the battle, in one
	// transaction. Exactly one acceptor wins; losers get ErrConflict.
	AcceptRequestAndCreateBattle(requestUUID string, b *game.Battle) error
	// ExpireRequests marks every waiting request past its deadline as
	// expired and reports how many were affected.
	ExpireRequests(now time.Time) (int64, error)

	// Player profiles
	UpsertProfile(p *game.Profile) error
	GetProfileByUUID(combatantUUID string) (*game.Profile, error)
	GetProfileByName(name string) (*game.Profile, error)
	// SaveProfile persists every field of an existing profile, including
	// health, experience, gold and the win/loss record.
	SaveProfile(p *game.Profile) error
	// ApplyBattleRewards credits the winner and debits the loser of a
	// finished battle. A battle without a winner changes nothing.
	ApplyBattleRewards(b *game.Battle) error
	GetTopProfiles(limit int) ([]game.Profile, error)
}
