package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MERCY1912/oddrealm-sub000/internal/constants"
	"github.com/MERCY1912/oddrealm-sub000/internal/game"
	"github.com/MERCY1912/oddrealm-sub000/internal/logging"
	"github.com/MERCY1912/oddrealm-sub000/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionTTL = 30 * 24 * time.Hour

type sessionRequest struct {
	Name  string `json:"name"`
	Class string `json:"class"`
}

// CreateSession finds or creates the profile for the given display name
// and issues the session cookie. Returning players get their existing
// profile back; the class field only matters on first creation.
func (h *Handler) CreateSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrNameRequired})
		return
	}
	if len(name) > 32 {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrNameExceeds})
		return
	}

	p, err := h.repo.GetProfileByName(name)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateUser})
			return
		}
		cl, ok := h.cfg.Class(req.Class)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrUnknownClass})
			return
		}
		p = &game.Profile{
			CombatantUUID: uuid.NewString(),
			Name:          name,
			Level:         1,
			Class:         cl.Name,
			CurrentHealth: cl.MaxHealth,
			MaxHealth:     cl.MaxHealth,
		}
		if err := h.repo.UpsertProfile(p); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateUser})
			return
		}
		logging.Info("profile created", logging.Fields{
			constants.LogFieldCombatantUUID: p.CombatantUUID,
			"class":                         p.Class,
		})
	}

	token, err := createSessionToken(p.CombatantUUID, p.Name, sessionTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateSession})
		return
	}
	setSessionCookie(c, token, sessionTTL)

	out, err := MarshalIntoSnakeTimestamps(p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateSession})
		return
	}
	c.JSON(http.StatusOK, out)
}

// DeleteSession logs the player out by clearing the session cookie.
func (h *Handler) DeleteSession(c *gin.Context) {
	clearSessionCookie(c)
	c.Status(http.StatusNoContent)
}
