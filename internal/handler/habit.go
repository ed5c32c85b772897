package handler

import (
	"net/http"

	"github.com/JustAdi10/MomentumTracker/internal/engine"
	"github.com/JustAdi10/MomentumTracker/internal/middleware"
	"github.com/JustAdi10/MomentumTracker/internal/utils"
)

// CreateHabit registers a new habit for the authenticated user.
func (h *Handler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var input engine.CreateHabitInput
	if err := utils.DecodeJSON(r, &input); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	habit, err := h.Engine.CreateHabit(r.Context(), user.ID, input)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.Created(w, habit)
}

// GetHabits lists the authenticated user's habits with their logs.
func (h *Handler) GetHabits(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	habits, err := h.Engine.UserHabits(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.Success(w, habits)
}

// CompleteHabit logs a completion and runs the progression unit.
func (h *Handler) CompleteHabit(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	habitID, err := utils.PathID(r, "habitId")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.Engine.CompleteHabit(r.Context(), habitID, user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	// Streaks may have moved; drop any cached boards.
	h.Cache.Invalidate(r.Context())

	utils.Success(w, result)
}
