package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/JustAdi10/MomentumTracker/internal/middleware"
	model "github.com/JustAdi10/MomentumTracker/internal/models"
	"github.com/JustAdi10/MomentumTracker/internal/utils"
)

const sessionTTL = 30 * 24 * time.Hour

type registerRequest struct {
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	Email       *string `json:"email"`
	DisplayName string  `json:"displayName"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

// Register creates an account and opens a session for it.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" {
		utils.Error(w, http.StatusBadRequest, "username is required")
		return
	}
	if len(req.Password) < 8 {
		utils.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}
	if req.DisplayName == "" {
		req.DisplayName = req.Username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not hash password")
		return
	}

	user, err := h.Store.CreateUser(r.Context(), model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		CreatedAt:    time.Now(),
		Level:        1,
		XP:           0,
		Division:     model.DivisionBronze,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	session, err := h.openSession(r, user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.Created(w, authResponse{User: user, Token: session.Token})
}

// Login checks credentials and opens a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.Store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		// Same response for unknown user and bad password.
		utils.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		utils.Error(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	session, err := h.openSession(r, user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.Success(w, authResponse{User: user, Token: session.Token})
}

// Logout revokes the caller's session token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := middleware.GetTokenFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.Store.DeleteSession(r.Context(), token); err != nil {
		respondError(w, err)
		return
	}

	utils.Message(w, "logged out")
}

// GetMe returns the authenticated user's profile.
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	utils.Success(w, user)
}

func (h *Handler) openSession(r *http.Request, userID int64) (model.Session, error) {
	now := time.Now()
	return h.Store.CreateSession(r.Context(), model.Session{
		UserID:    userID,
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(sessionTTL),
		CreatedAt: now,
	})
}
