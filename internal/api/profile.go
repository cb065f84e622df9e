package api

import (
	"errors"
	"net/http"

	"github.com/MERCY1912/oddrealm-sub000/internal/constants"
	"github.com/MERCY1912/oddrealm-sub000/internal/storage"

	"github.com/gin-gonic/gin"
)

// GetProfile returns the authenticated player's profile and combat record.
func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.repo.GetProfileByUUID(sessionCombatantUUID(c))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrProfileNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchStats})
		return
	}
	c.JSON(http.StatusOK, out)
}

// ListLeaderboard returns the top profiles by rating, then wins.
func (h *Handler) ListLeaderboard(c *gin.Context) {
	profiles, err := h.repo.GetTopProfiles(10)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedLeaderboard})
		return
	}
	out, err := MarshalIntoSnakeTimestamps(profiles)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedLeaderboard})
		return
	}
	c.JSON(http.StatusOK, out)
}
