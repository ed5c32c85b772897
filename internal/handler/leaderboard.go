package handler

import (
	"net/http"

	"github.com/JustAdi10/MomentumTracker/internal/middleware"
	"github.com/JustAdi10/MomentumTracker/internal/utils"
)

// GetLeaderboard returns the ranked board. ?global=true serves the global
// view (cacheable); otherwise the friends view, which always includes the
// requesting user.
func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	global := utils.QueryBool(r, "global")
	limit := utils.QueryInt(r, "limit", 0)

	// Only the global board is shared between users, so only it is cached.
	if global {
		if entries, ok := h.Cache.Get(r.Context(), limit); ok {
			utils.Success(w, entries)
			return
		}
	}

	entries, err := h.Engine.Leaderboard(r.Context(), global, user.ID, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	if global {
		h.Cache.Set(r.Context(), limit, entries)
	}

	utils.Success(w, entries)
}
