package handler

import (
	"net/http"

	"github.com/JustAdi10/MomentumTracker/internal/utils"
)

// Root lists the available API routes.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	routes := map[string]interface{}{
		"name":    "Momentum API",
		"version": "1.0.0",
		"status":  "running",
		"routes": map[string]interface{}{
			"auth": []map[string]string{
				{"method": "POST", "path": "/auth/register", "description": "Create an account"},
				{"method": "POST", "path": "/auth/login", "description": "Log in"},
				{"method": "POST", "path": "/auth/logout", "description": "Revoke the current session"},
				{"method": "GET", "path": "/auth/me", "description": "Current user profile"},
			},
			"habits": []map[string]string{
				{"method": "GET", "path": "/api/habits", "description": "List your habits with logs"},
				{"method": "POST", "path": "/api/habits", "description": "Create a habit"},
				{"method": "POST", "path": "/api/habits/{habitId}/complete", "description": "Log today's completion"},
			},
			"achievements": []map[string]string{
				{"method": "GET", "path": "/api/achievements", "description": "Achievement catalog with unlock state"},
				{"method": "POST", "path": "/api/achievements/{achievementId}/unlock", "description": "Unlock an achievement"},
			},
			"community": []map[string]string{
				{"method": "GET", "path": "/api/community/activity", "description": "Activity feed, newest first"},
				{"method": "POST", "path": "/api/community/posts", "description": "Publish a post"},
				{"method": "POST", "path": "/api/community/posts/{postId}/cheer", "description": "Cheer a post (once)"},
			},
			"leaderboard": []map[string]string{
				{"method": "GET", "path": "/api/leaderboard", "description": "Ranked board (params: global, limit)"},
			},
			"user": []map[string]string{
				{"method": "GET", "path": "/api/user/stats", "description": "Aggregate progression stats"},
			},
			"health": []map[string]string{
				{"method": "GET", "path": "/health", "description": "Health check"},
			},
		},
	}

	utils.Success(w, routes)
}
