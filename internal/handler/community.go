package handler

import (
	"net/http"

	"github.com/JustAdi10/MomentumTracker/internal/middleware"
	model "github.com/JustAdi10/MomentumTracker/internal/models"
	"github.com/JustAdi10/MomentumTracker/internal/utils"
)

// GetActivity returns the global feed, newest first.
func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := h.Engine.Activity(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	utils.Success(w, activity)
}

type createPostRequest struct {
	Content   string         `json:"content"`
	Type      model.PostType `json:"type"`
	RelatedID *int64         `json:"relatedId"`
}

// CreatePost publishes a user-authored feed entry.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req createPostRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	activity, err := h.Engine.PostActivity(r.Context(), user.ID, req.Content, req.Type, req.RelatedID)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.Created(w, activity)
}

// CheerPost adds a one-time cheer to a post.
func (h *Handler) CheerPost(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.GetUserFromContext(r)
	if err != nil {
		utils.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	postID, err := utils.PathID(r, "postId")
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	cheer, err := h.Engine.CheerPost(r.Context(), user.ID, postID)
	if err != nil {
		respondError(w, err)
		return
	}

	utils.Success(w, cheer)
}
