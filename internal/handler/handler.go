package handler

import (
	"errors"
	"net/http"

	"github.com/JustAdi10/MomentumTracker/internal/cache"
	"github.com/JustAdi10/MomentumTracker/internal/engine"
	"github.com/JustAdi10/MomentumTracker/internal/store"
	"github.com/JustAdi10/MomentumTracker/internal/utils"
)

// Handler bundles the dependencies every endpoint needs.
type Handler struct {
	Engine *engine.Engine
	Store  store.Store
	Cache  *cache.Leaderboard
}

func New(e *engine.Engine, s store.Store, c *cache.Leaderboard) *Handler {
	return &Handler{Engine: e, Store: s, Cache: c}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.Message(w, "ok")
}

// respondError maps engine and store errors onto HTTP statuses.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrForbidden):
		utils.Error(w, http.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrAlreadyCheered),
		errors.Is(err, store.ErrAlreadyUnlocked),
		errors.Is(err, store.ErrAlreadyExists):
		utils.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrValidation):
		utils.Error(w, http.StatusBadRequest, err.Error())
	default:
		utils.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
