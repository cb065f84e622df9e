package service

import (
	"errors"
	"iter"
	"time"

	"github.com/MERCY1912/oddrealm-sub000/internal/game"
	"github.com/MERCY1912/oddrealm-sub000/internal/storage"

	"github.com/google/uuid"
)

var (
	ErrInsufficientHealth = errors.New("challenger health below half of max")
	ErrSelfAcceptance     = errors.New("cannot accept own challenge request")
	ErrAlreadyAccepted    = errors.New("challenge request is no longer open")
	ErrNotCancellable     = errors.New("challenge request cannot be cancelled")
	ErrRequestNotFound    = errors.New("challenge request not found")
)

// RequestRepo is the slice of the store the challenge broker needs.
type RequestRepo interface {
	CreateRequest(*game.ChallengeRequest) error
	GetRequestByUUID(string) (*game.ChallengeRequest, error)
	ListWaitingRequests(time.Time) ([]game.ChallengeRequest, error)
	MarkRequestStatus(uuid, from, to string) error
	AcceptRequestAndCreateBattle(string, *game.Battle) error
	GetProfileByUUID(string) (*game.Profile, error)
}

// CreateRequest opens a challenge for anyone to accept. The challenger
// must hold at least half of max health; the request expires passively
// once its wait window elapses.
func CreateRequest(repo RequestRepo, challenger *game.Profile, waitWindow time.Duration) (*game.ChallengeRequest, error) {
	if !challenger.CanChallenge() {
		return nil, ErrInsufficientHealth
	}
	now := time.Now()
	req := &game.ChallengeRequest{
		RequestUUID:     uuid.NewString(),
		ChallengerUUID:  challenger.CombatantUUID,
		ChallengerName:  challenger.Name,
		ChallengerLevel: challenger.Level,
		ChallengerClass: challenger.Class,
		WaitSeconds:     int(waitWindow.Seconds()),
		Status:          game.RequestStatusWaiting,
		ExpiresAt:       now.Add(waitWindow),
	}
	if err := repo.CreateRequest(req); err != nil {
		return nil, err
	}
	return req, nil
}

// CancelRequest withdraws a waiting request. Only the creator may
// cancel, and only while the request is still waiting.
func CancelRequest(repo RequestRepo, requestUUID, callerUUID string) error {
	req, err := repo.GetRequestByUUID(requestUUID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrRequestNotFound
		}
		return err
	}
	if req.ChallengerUUID != callerUUID || req.Status != game.RequestStatusWaiting {
		return ErrNotCancellable
	}
	if err := repo.MarkRequestStatus(requestUUID, game.RequestStatusWaiting, game.RequestStatusCancelled); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			// Raced an acceptor or the expiry scanner.
			return ErrNotCancellable
		}
		return err
	}
	return nil
}

// ListActiveRequests returns a lazy, restartable sequence of requests
// that can still be accepted right now, excluding the caller's own.
// Each iteration re-reads the store, so expired requests drop out
// without any explicit expiry call.
func ListActiveRequests(repo RequestRepo, excludeChallengerUUID string) iter.Seq2[game.ChallengeRequest, error] {
	return func(yield func(game.ChallengeRequest, error) bool) {
		now := time.Now()
		reqs, err := repo.ListWaitingRequests(now)
		if err != nil {
			yield(game.ChallengeRequest{}, err)
			return
		}
		for _, r := range reqs {
			if !r.Active(now) || r.ChallengerUUID == excludeChallengerUUID {
				continue
			}
			if !yield(r, nil) {
				return
			}
		}
	}
}

// AcceptRequest claims a waiting request and constructs the battle.
// Exactly one acceptor wins under concurrent acceptance: the store's
// guarded waiting->accepted update decides, and a lost race surfaces as
// ErrAlreadyAccepted rather than a blind retry.
func AcceptRequest(repo RequestRepo, requestUUID string, acceptor *game.Profile) (*game.Battle, error) {
	req, err := repo.GetRequestByUUID(requestUUID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	if req.ChallengerUUID == acceptor.CombatantUUID {
		return nil, ErrSelfAcceptance
	}
	now := time.Now()
	if !req.Active(now) {
		if req.Status == game.RequestStatusWaiting {
			// Past its deadline but never marked; tidy it up in passing.
			_ = repo.MarkRequestStatus(requestUUID, game.RequestStatusWaiting, game.RequestStatusExpired)
		}
		return nil, ErrAlreadyAccepted
	}

	challengerSnapshot, err := challengerCombatant(repo, req)
	if err != nil {
		return nil, err
	}
	b := &game.Battle{
		BattleUUID:    uuid.NewString(),
		Round:         1,
		Status:        game.BattleStatusAwaitingMoves,
		TurnOwnerUUID: req.ChallengerUUID,
		Combatants: []game.Combatant{
			challengerSnapshot,
			acceptor.AsCombatant(),
		},
	}
	b.AppendLog(req.ChallengerName + " and " + acceptor.Name + " enter the arena.")

	if err := repo.AcceptRequestAndCreateBattle(requestUUID, b); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, ErrAlreadyAccepted
		}
		return nil, err
	}
	return b, nil
}

// challengerCombatant rebuilds the challenger's battle snapshot from
// their live profile, falling back to the request's own snapshot fields
// when the profile is gone.
func challengerCombatant(repo RequestRepo, req *game.ChallengeRequest) (game.Combatant, error) {
	p, err := repo.GetProfileByUUID(req.ChallengerUUID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return game.Combatant{
				CombatantUUID: req.ChallengerUUID,
				Name:          req.ChallengerName,
				Level:         req.ChallengerLevel,
				Class:         req.ChallengerClass,
				CurrentHealth: 100,
				MaxHealth:     100,
			}, nil
		}
		return game.Combatant{}, err
	}
	return p.AsCombatant(), nil
}
