package api

import (
	"errors"
	"net/http"

	"github.com/MERCY1912/oddrealm-sub000/internal/constants"
	"github.com/MERCY1912/oddrealm-sub000/internal/game"
	"github.com/MERCY1912/oddrealm-sub000/internal/service"
	"github.com/MERCY1912/oddrealm-sub000/internal/storage"

	"github.com/gin-gonic/gin"
)

// syncHints is handed to clients alongside the battle so their polling
// loop runs at the server-configured cadence.
type syncHints struct {
	SteadyMs              int   `json:"steady_ms"`
	CriticalMs            int   `json:"critical_ms"`
	CriticalHealthPercent int   `json:"critical_health_percent"`
	RefetchDelaysMs       []int `json:"refetch_delays_ms"`
}

func (h *Handler) syncHints() syncHints {
	delays := make([]int, 0, len(h.cfg.Sync.RefetchDelays))
	for _, d := range h.cfg.Sync.RefetchDelays {
		delays = append(delays, int(d.Milliseconds()))
	}
	return syncHints{
		SteadyMs:              int(h.cfg.Sync.SteadyInterval.Milliseconds()),
		CriticalMs:            int(h.cfg.Sync.CriticalInterval.Milliseconds()),
		CriticalHealthPercent: h.cfg.Sync.CriticalHealthPercent,
		RefetchDelaysMs:       delays,
	}
}

// GetCurrentBattle returns the session player's most recent battle,
// finished or not. This is the poll read model: clients call it on
// every tick and reconcile locally.
func (h *Handler) GetCurrentBattle(c *gin.Context) {
	b, err := h.repo.GetBattleByCombatant(sessionCombatantUUID(c))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBattle})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(b)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBattle})
		return
	}
	c.JSON(http.StatusOK, gin.H{"battle": out, "sync": h.syncHints()})
}

type moveRequest struct {
	AttackZone  string `json:"attack_zone"`
	DefenseZone string `json:"defense_zone"`
}

// SubmitMove stores the session player's move for the current round and
// resolves the round when the opponent's move is already present.
func (h *Handler) SubmitMove(c *gin.Context) {
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
	mv := game.Move{AttackZone: attack, DefenseZone: defense}

	b, resolved, err := service.SubmitMove(h.repo, newRNG(), c.Param("battleUUID"), sessionCombatantUUID(c), mv, nil)
	if err != nil {
		switch err {
		case service.ErrBattleNotFound:
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		case service.ErrCombatantNotInBattle:
			c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotInBattle})
		case service.ErrInvalidMove:
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidZone})
		case service.ErrStoreContention:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrStoreContention})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedSubmitMove})
		}
		return
	}

	if resolved {
		c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Round resolved", constants.LogFieldRound: b.Round})
	} else {
		c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Move stored. Waiting for opponent."})
	}
}

// EndBattle resigns the session player out of the battle; the opponent
// takes the win.
func (h *Handler) EndBattle(c *gin.Context) {
	b, err := service.EndBattle(h.repo, c.Param("battleUUID"), sessionCombatantUUID(c))
	if err != nil {
		switch err {
		case service.ErrBattleNotFound:
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
		case service.ErrCombatantNotInBattle:
			c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: constants.ErrNotInBattle})
		case service.ErrStoreContention:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrStoreContention})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedEndBattle})
		}
		return
	}
	out, err := MarshalIntoSnakeTimestamps(b)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedEndBattle})
		return
	}
	c.JSON(http.StatusOK, out)
}
