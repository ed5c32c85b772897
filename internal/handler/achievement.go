package handler

import (
	"net/http"

	"github.com/JustAdi10/MomentumTracker/internal/middleware"
	"github.com/JustAdi10/MomentumTracker/internal/utils"
)

// GetAchievements returns the catalog with the caller's unlock state.
func (h *Handler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	achievements, err := h.Engine.AchievementsFor(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.Success(w, achievements)
}

// UnlockAchievement grants an achievement directly. Conflicts when the
// user already holds it.
func (h *Handler) UnlockAchievement(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	achievementID, err := utils.PathID(r, "achievementId")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	unlocked, err := h.Engine.UnlockAchievement(r.Context(), user.ID, achievementID)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.Success(w, unlocked)
}
