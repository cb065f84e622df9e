package api

import (
	"errors"
	"net/http"
	"sync"

	"github.com/MERCY1912/oddrealm-sub000/internal/constants"
	"github.com/MERCY1912/oddrealm-sub000/internal/engine"
	"github.com/MERCY1912/oddrealm-sub000/internal/game"
	"github.com/MERCY1912/oddrealm-sub000/internal/local"
	"github.com/MERCY1912/oddrealm-sub000/internal/logging"
	"github.com/MERCY1912/oddrealm-sub000/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// trainingRegistry holds the in-memory PvE bouts. Training fights are
// single-process by design: nothing about them needs the shared store
// until the rewards are credited.
type trainingRegistry struct {
	mu    sync.Mutex
	bouts map[string]*trainingBout
}

type trainingBout struct {
	ownerUUID string
	session   *local.Session
}

func newTrainingRegistry() *trainingRegistry {
	return &trainingRegistry{bouts: make(map[string]*trainingBout)}
}

func (r *trainingRegistry) add(ownerUUID string, s *local.Session) string {
	id := uuid.NewString()
	r.mu.Lock()
	r.bouts[id] = &trainingBout{ownerUUID: ownerUUID, session: s}
	r.mu.Unlock()
	return id
}

func (r *trainingRegistry) get(id, ownerUUID string) (*trainingBout, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bouts[id]
	if !ok || b.ownerUUID != ownerUUID {
		return nil, false
	}
	return b, true
}

func (r *trainingRegistry) remove(id string) {
	r.mu.Lock()
	delete(r.bouts, id)
	r.mu.Unlock()
}

type trainingState struct {
	TrainingUUID string        `json:"training_uuid"`
	Player       local.Fighter `json:"player"`
	Enemy        local.Enemy   `json:"enemy"`
	Round        int           `json:"round"`
	Status       string        `json:"status"`
	Outcome      string        `json:"outcome,omitempty"`
	Log          []string      `json:"log"`
}

func boutState(id string, b *trainingBout) trainingState {
	s := b.session
	return trainingState{
		TrainingUUID: id,
		Player:       s.Player,
		Enemy:        s.Enemy,
		Round:        s.Round,
		Status:       s.Status,
		Outcome:      s.Outcome,
		Log:          s.Log,
	}
}

// StartTraining opens a PvE bout against a random configured enemy.
func (h *Handler) StartTraining(c *gin.Context) {
	p, err := h.repo.GetProfileByUUID(sessionCombatantUUID(c))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrProfileNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStartBout})
		return
	}
	if len(h.cfg.Enemies) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedStartBout})
		return
	}

	rng := newRNG()
	enemy := h.cfg.Enemies[rng.Intn(len(h.cfg.Enemies))]
	player := local.Fighter{
		Name:          p.Name,
		Level:         p.Level,
		Class:         p.Class,
		CurrentHealth: p.CurrentHealth,
		MaxHealth:     p.MaxHealth,
		AttackPower:   engine.PvPAttackPower(p.Level),
		DefensePower:  engine.PvPDefensePower(p.Level),
	}
	session := local.NewSession(player, enemy, local.WithRand(rng))
	id := h.trainings.add(p.CombatantUUID, session)

	c.JSON(http.StatusCreated, boutState(id, &trainingBout{ownerUUID: p.CombatantUUID, session: session}))
}

// TrainingMove plays one round of a PvE bout. On a terminal round the
// bout is closed and the profile is settled: remaining health always,
// experience and gold only on victory.
func (h *Handler) TrainingMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	attack, okA := game.ParseZone(req.AttackZone)
	defense, okD := game.ParseZone(req.DefenseZone)
	if !okA || !okD {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidZone})
		return
	}

	id := c.Param("trainingUUID")
	bout, ok := h.trainings.get(id, sessionCombatantUUID(c))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrTrainingNotFound})
		return
	}

	res, err := bout.session.PlayRound(game.Move{AttackZone: attack, DefenseZone: defense})
	if err != nil {
		switch err {
		case local.ErrSessionFinished:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrTrainingFinished})
		case local.ErrInvalidMove:
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidZone})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedSubmitMove})
		}
		return
	}

	if res.Finished {
		h.trainings.remove(id)
		h.settleTraining(bout)
	}

	c.JSON(http.StatusOK, gin.H{
		"result": res,
		"state":  boutState(id, bout),
	})
}

// settleTraining writes the bout's outcome back to the profile.
func (h *Handler) settleTraining(bout *trainingBout) {
	p, err := h.repo.GetProfileByUUID(bout.ownerUUID)
	if err != nil {
		logging.Error("failed to load profile after training bout", err,
			logging.Fields{constants.LogFieldCombatantUUID: bout.ownerUUID})
		return
	}
	s := bout.session
	p.CurrentHealth = s.Player.CurrentHealth
	if s.Outcome == local.OutcomeVictory {
		p.Experience += s.Rewards.Experience
		p.Gold += s.Rewards.Gold
	}
	if err := h.repo.SaveProfile(p); err != nil {
		logging.Error("failed to settle training bout", err,
			logging.Fields{constants.LogFieldCombatantUUID: bout.ownerUUID})
	}
}
