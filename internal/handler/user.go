package handler

import (
	"net/http"

	"github.com/JustAdi10/MomentumTracker/internal/middleware"
	"github.com/JustAdi10/MomentumTracker/internal/utils"
)

// GetUserStats returns the caller's aggregate progression stats.
func (h *Handler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	stats, err := h.Engine.UserStats(r.Context(), user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.Success(w, stats)
}
