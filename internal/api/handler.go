package api

import (
	"math/rand"
	"time"

	"github.com/MERCY1912/oddrealm-sub000/internal/config"
	"github.com/MERCY1912/oddrealm-sub000/internal/storage"
)

// Handler groups all HTTP handlers around the repository and the loaded
// configuration.
type Handler struct {
	repo storage.Repository
	cfg  *config.LoadedConfig

	trainings *trainingRegistry
}

// NewHandler creates a Handler with the given repository and configuration.
func NewHandler(repo storage.Repository, cfg *config.LoadedConfig) *Handler {
	return &Handler{
		repo:      repo,
		cfg:       cfg,
		trainings: newTrainingRegistry(),
	}
}

// newRNG seeds a fresh source per call; handlers run concurrently and
// *rand.Rand is not safe for shared use.
func newRNG() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}
