package service

import (
	"sync"
	"testing"
	"time"

	"github.com/MERCY1912/oddrealm-sub000/internal/game"
	"github.com/MERCY1912/oddrealm-sub000/internal/storage"
)

type mockRequestRepo struct {
	mu       sync.Mutex
	requests map[string]*game.ChallengeRequest
	profiles map[string]*game.Profile
	battles  []*game.Battle
}

func newMockRequestRepo() *mockRequestRepo {
	return &mockRequestRepo{
		requests: make(map[string]*game.ChallengeRequest),
		profiles: make(map[string]*game.Profile),
	}
}

func (m *mockRequestRepo) CreateRequest(r *game.ChallengeRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *r
	m.requests[r.RequestUUID] = &cp
	return nil
}

func (m *mockRequestRepo) GetRequestByUUID(uuid string) (*game.ChallengeRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[uuid]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockRequestRepo) ListWaitingRequests(now time.Time) ([]game.ChallengeRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []game.ChallengeRequest
	for _, r := range m.requests {
		if r.Status == game.RequestStatusWaiting && now.Before(r.ExpiresAt) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockRequestRepo) MarkRequestStatus(uuid, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[uuid]
	if !ok || r.Status != from {
		return storage.ErrConflict
	}
	r.Status = to
	return nil
}

func (m *mockRequestRepo) AcceptRequestAndCreateBattle(uuid string, b *game.Battle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[uuid]
	if !ok || r.Status != game.RequestStatusWaiting {
		return storage.ErrConflict
	}
	r.Status = game.RequestStatusAccepted
	m.battles = append(m.battles, b)
	return nil
}

func (m *mockRequestRepo) GetProfileByUUID(uuid string) (*game.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[uuid]
	if !ok {
		return nil, storage.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func healthyProfile(uuid, name string) *game.Profile {
	return &game.Profile{
		CombatantUUID: uuid, Name: name, Level: 3, Class: "knight",
		CurrentHealth: 90, MaxHealth: 100,
	}
}

func TestCreateRequest_InsufficientHealth(t *testing.T) {
	repo := newMockRequestRepo()
	p := healthyProfile("c1", "Aldric")
	p.CurrentHealth = 49
	if _, err := CreateRequest(repo, p, 5*time.Minute); err != ErrInsufficientHealth {
		t.Fatalf("expected ErrInsufficientHealth, got %v", err)
	}
}

func TestCreateRequest_HalfHealthBoundary(t *testing.T) {
	repo := newMockRequestRepo()
	p := healthyProfile("c1", "Aldric")
	p.CurrentHealth = 50
	req, err := CreateRequest(repo, p, 5*time.Minute)
	if err != nil {
		t.Fatalf("exactly half health must be allowed: %v", err)
	}
	if req.Status != game.RequestStatusWaiting {
		t.Fatalf("expected waiting, got %s", req.Status)
	}
	if !req.ExpiresAt.After(time.Now()) {
		t.Fatalf("expiry must lie in the future")
	}
}

func TestCancelRequest_OnlyCreatorWhileWaiting(t *testing.T) {
	repo := newMockRequestRepo()
	req, err := CreateRequest(repo, healthyProfile("c1", "Aldric"), time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := CancelRequest(repo, req.RequestUUID, "someone-else"); err != ErrNotCancellable {
		t.Fatalf("non-creator cancel: expected ErrNotCancellable, got %v", err)
	}
	if err := CancelRequest(repo, req.RequestUUID, "c1"); err != nil {
		t.Fatalf("creator cancel failed: %v", err)
	}
	if err := CancelRequest(repo, req.RequestUUID, "c1"); err != ErrNotCancellable {
		t.Fatalf("double cancel: expected ErrNotCancellable, got %v", err)
	}
}

func TestListActiveRequests_ExcludesExpiredAndOwn(t *testing.T) {
	repo := newMockRequestRepo()
	mine, _ := CreateRequest(repo, healthyProfile("me", "Aldric"), 5*time.Minute)
	other, _ := CreateRequest(repo, healthyProfile("c2", "Cedric"), 5*time.Minute)
	stale, _ := CreateRequest(repo, healthyProfile("c3", "Gorm"), 5*time.Minute)
	// Simulate the wait window having elapsed with no explicit expiry call.
	repo.requests[stale.RequestUUID].ExpiresAt = time.Now().Add(-time.Second)

	var seen []string
	for r, err := range ListActiveRequests(repo, "me") {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen = append(seen, r.RequestUUID)
	}
	if len(seen) != 1 || seen[0] != other.RequestUUID {
		t.Fatalf("expected only %s, got %v (own=%s stale=%s)",
			other.RequestUUID, seen, mine.RequestUUID, stale.RequestUUID)
	}

	// Restartable: a second range must see the same snapshot.
	count := 0
	for _, err := range ListActiveRequests(repo, "me") {
		if err != nil {
			t.Fatalf("unexpected error on restart: %v", err)
		}
		count++
	}
	if count != 1 {
		t.Fatalf("expected 1 request on restart, got %d", count)
	}
}

func TestAcceptRequest_SelfAcceptance(t *testing.T) {
	repo := newMockRequestRepo()
	creator := healthyProfile("c1", "Aldric")
	repo.profiles["c1"] = creator
	req, _ := CreateRequest(repo, creator, time.Minute)

	if _, err := AcceptRequest(repo, req.RequestUUID, creator); err != ErrSelfAcceptance {
		t.Fatalf("expected ErrSelfAcceptance, got %v", err)
	}
}

func TestAcceptRequest_ExpiredRequest(t *testing.T) {
	repo := newMockRequestRepo()
	creator := healthyProfile("c1", "Aldric")
	repo.profiles["c1"] = creator
	req, _ := CreateRequest(repo, creator, time.Minute)
	repo.requests[req.RequestUUID].ExpiresAt = time.Now().Add(-time.Second)

	if _, err := AcceptRequest(repo, req.RequestUUID, healthyProfile("c2", "Cedric")); err != ErrAlreadyAccepted {
		t.Fatalf("expected ErrAlreadyAccepted, got %v", err)
	}
	if got := repo.requests[req.RequestUUID].Status; got != game.RequestStatusExpired {
		t.Fatalf("expected lazy expiry to mark the request, got %s", got)
	}
}

func TestAcceptRequest_CreatesBattle(t *testing.T) {
	repo := newMockRequestRepo()
	creator := healthyProfile("c1", "Aldric")
	repo.profiles["c1"] = creator
	req, _ := CreateRequest(repo, creator, time.Minute)

	b, err := AcceptRequest(repo, req.RequestUUID, healthyProfile("c2", "Cedric"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Round != 1 || b.Status != game.BattleStatusAwaitingMoves {
		t.Fatalf("fresh battle state wrong: round=%d status=%s", b.Round, b.Status)
	}
	if len(b.Combatants) != 2 {
		t.Fatalf("expected 2 combatants, got %d", len(b.Combatants))
	}
	if b.CombatantByUUID("c1") == nil || b.CombatantByUUID("c2") == nil {
		t.Fatalf("both parties must be in the battle")
	}
	if b.TurnOwnerUUID != "c1" {
		t.Fatalf("expected challenger as initial turn owner, got %s", b.TurnOwnerUUID)
	}
}

func TestAcceptRequest_ConcurrentOneWinner(t *testing.T) {
	repo := newMockRequestRepo()
	creator := healthyProfile("c1", "Aldric")
	repo.profiles["c1"] = creator
	req, _ := CreateRequest(repo, creator, time.Minute)

	type result struct {
		b   *game.Battle
		err error
	}
	results := make(chan result, 2)
	var wg sync.WaitGroup
	for _, acceptor := range []*game.Profile{healthyProfile("c2", "Cedric"), healthyProfile("c3", "Gorm")} {
		wg.Add(1)
		go func(p *game.Profile) {
			defer wg.Done()
			b, err := AcceptRequest(repo, req.RequestUUID, p)
			results <- result{b, err}
		}(acceptor)
	}
	wg.Wait()
	close(results)

	wins, losses := 0, 0
	for r := range results {
		switch {
		case r.err == nil && r.b != nil:
			wins++
		case r.err == ErrAlreadyAccepted:
			losses++
		default:
			t.Fatalf("unexpected result: %+v", r)
		}
	}
	if wins != 1 || losses != 1 {
		t.Fatalf("expected exactly one winner and one AlreadyAccepted, got %d/%d", wins, losses)
	}
	if len(repo.battles) != 1 {
		t.Fatalf("expected exactly one battle created, got %d", len(repo.battles))
	}
}
