package api

import (
	"net/http"

	"github.com/fatih/color"
	"github.com/gorilla/mux"

	"github.com/JustAdi10/MomentumTracker/internal/handler"
	"github.com/JustAdi10/MomentumTracker/internal/middleware"
	"github.com/JustAdi10/MomentumTracker/internal/store"
	"github.com/JustAdi10/MomentumTracker/internal/utils"
)

func SetupRouter(h *handler.Handler, s store.Store) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Logger)

	authenticated := r.PathPrefix("/").Subrouter()
	authenticated.Use(middleware.Auth(s))

	// Root - API documentation
	r.HandleFunc("/", h.Root).Methods(http.MethodGet)
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet)

	// Auth
	r.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	authenticated.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)
	authenticated.HandleFunc("/auth/me", h.GetMe).Methods(http.MethodGet)

	// Habits
	authenticated.HandleFunc("/api/habits", h.CreateHabit).Methods(http.MethodPost)
	authenticated.HandleFunc("/api/habits", h.GetHabits).Methods(http.MethodGet)
	authenticated.HandleFunc("/api/habits/{habitId}/complete", h.CompleteHabit).Methods(http.MethodPost)

	// Achievements
	authenticated.HandleFunc("/api/achievements", h.GetAchievements).Methods(http.MethodGet)
	authenticated.HandleFunc("/api/achievements/{achievementId}/unlock", h.UnlockAchievement).Methods(http.MethodPost)

	// Community
	authenticated.HandleFunc("/api/community/activity", h.GetActivity).Methods(http.MethodGet)
	authenticated.HandleFunc("/api/community/posts", h.CreatePost).Methods(http.MethodPost)
	authenticated.HandleFunc("/api/community/posts/{postId}/cheer", h.CheerPost).Methods(http.MethodPost)

	// Leaderboard
	authenticated.HandleFunc("/api/leaderboard", h.GetLeaderboard).Methods(http.MethodGet)

	// User
	authenticated.HandleFunc("/api/user/stats", h.GetUserStats).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		color.Yellow("[404] %s %s", r.Method, r.URL.Path)
		utils.Error(w, http.StatusNotFound, "route not found")
	})

	return r
}
