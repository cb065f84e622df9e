package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/MERCY1912/oddrealm-sub000/internal/constants"
	"github.com/MERCY1912/oddrealm-sub000/internal/game"
	"github.com/MERCY1912/oddrealm-sub000/internal/service"
	"github.com/MERCY1912/oddrealm-sub000/internal/storage"

	"github.com/gin-gonic/gin"
)

type createRequestBody struct {
	WaitSeconds int `json:"wait_seconds"`
}

// CreateRequest opens a challenge request on behalf of the session player.
func (h *Handler) CreateRequest(c *gin.Context) {
	p, err := h.repo.GetProfileByUUID(sessionCombatantUUID(c))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrProfileNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateRequest})
		return
	}

	var body createRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	wait := time.Duration(body.WaitSeconds) * time.Second
	if body.WaitSeconds == 0 {
		wait = h.cfg.MinWaitWindow
	}
	if wait < h.cfg.MinWaitWindow || wait > h.cfg.MaxWaitWindow {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrWaitWindowOutOfRange})
		return
	}

	req, err := service.CreateRequest(h.repo, p, wait)
	if err != nil {
		switch err {
		case service.ErrInsufficientHealth:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrInsufficientHealth})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateRequest})
		}
		return
	}
	out, err := MarshalIntoSnakeTimestamps(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedCreateRequest})
		return
	}
	c.JSON(http.StatusCreated, out)
}

// ListRequests returns the open requests the session player could accept.
func (h *Handler) ListRequests(c *gin.Context) {
	reqs := make([]game.ChallengeRequest, 0)
	for r, err := range service.ListActiveRequests(h.repo, sessionCombatantUUID(c)) {
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedListRequests})
			return
		}
		reqs = append(reqs, r)
	}
	out, err := MarshalIntoSnakeTimestamps(reqs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedListRequests})
		return
	}
	c.JSON(http.StatusOK, out)
}

// CancelRequest withdraws the session player's own waiting request.
func (h *Handler) CancelRequest(c *gin.Context) {
	err := service.CancelRequest(h.repo, c.Param("requestUUID"), sessionCombatantUUID(c))
	if err != nil {
		switch err {
		case service.ErrRequestNotFound:
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRequestNotFound})
		case service.ErrNotCancellable:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrNotCancellable})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedListRequests})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{constants.JSONKeyMessage: "Request cancelled"})
}

// AcceptRequest claims a waiting request for the session player and
// returns the freshly created battle.
func (h *Handler) AcceptRequest(c *gin.Context) {
	p, err := h.repo.GetProfileByUUID(sessionCombatantUUID(c))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrProfileNotFound})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBattle})
		return
	}

	b, err := service.AcceptRequest(h.repo, c.Param("requestUUID"), p)
	if err != nil {
		switch err {
		case service.ErrRequestNotFound:
			c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrRequestNotFound})
		case service.ErrSelfAcceptance:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrSelfAcceptance})
		case service.ErrAlreadyAccepted:
			c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrAlreadyAccepted})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBattle})
		}
		return
	}
	out, err := MarshalIntoSnakeTimestamps(b)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: constants.ErrFailedFetchBattle})
		return
	}
	c.JSON(http.StatusCreated, out)
}
