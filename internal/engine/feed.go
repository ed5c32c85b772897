package engine

import (
	"context"
	"fmt"
	"time"

	model "github.com/JustAdi10/MomentumTracker/internal/models"
	"github.com/JustAdi10/MomentumTracker/internal/store"
)

// maxPostLength caps user-authored feed content.
const maxPostLength = 500

// writePost appends a feed entry with a server timestamp and zero cheers.
func (e *Engine) writePost(ctx context.Context, s store.Store, userID int64, content string, postType model.PostType, relatedID *int64) (model.CommunityPost, error) {
	return s.CreatePost(ctx, model.CommunityPost{
		UserID:    userID,
		Content:   content,
		Type:      postType,
		RelatedID: relatedID,
		CreatedAt: e.now(),
	})
}

// PostActivity publishes a user-authored feed entry.
func (e *Engine) PostActivity(ctx context.Context, userID int64, content string, postType model.PostType, relatedID *int64) (model.CommunityActivity, error) {
	if content == "" {
		return model.CommunityActivity{}, fmt.Errorf("%w: post content is required", ErrValidation)
	}
	if len(content) > maxPostLength {
		return model.CommunityActivity{}, fmt.Errorf("%w: post content exceeds %d characters", ErrValidation, maxPostLength)
	}
	if postType == "" {
		postType = model.PostTypeGeneral
	}
	if !postType.Valid() {
		return model.CommunityActivity{}, fmt.Errorf("%w: unknown post type %q", ErrValidation, postType)
	}

	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return model.CommunityActivity{}, err
	}
	post, err := e.writePost(ctx, e.store, userID, content, postType, relatedID)
	if err != nil {
		return model.CommunityActivity{}, err
	}

	return model.CommunityActivity{
		CommunityPost: post,
		User:          user.Summary(),
		Timestamp:     humanizeTimestamp(post.CreatedAt, e.now()),
	}, nil
}

// Activity returns the global feed, newest first, with authors attached.
func (e *Engine) Activity(ctx context.Context) ([]model.CommunityActivity, error) {
	posts, err := e.store.ListPosts(ctx)
	if err != nil {
		return nil, err
	}

	now := e.now()
	users := map[int64]model.User{}
	out := make([]model.CommunityActivity, 0, len(posts))
	for _, p := range posts {
		user, ok := users[p.UserID]
		if !ok {
			user, err = e.store.GetUser(ctx, p.UserID)
			if err != nil {
				return nil, fmt.Errorf("load author of post %d: %w", p.ID, err)
			}
			users[p.UserID] = user
		}
		out = append(out, model.CommunityActivity{
			CommunityPost: p,
			User:          user.Summary(),
			Timestamp:     humanizeTimestamp(p.CreatedAt, now),
		})
	}
	return out, nil
}

// CheerPost records a one-time cheer. The second attempt for the same
// (user, post) pair fails with store.ErrAlreadyCheered.
func (e *Engine) CheerPost(ctx context.Context, userID, postID int64) (model.UserCheer, error) {
	return e.store.CreateCheer(ctx, model.UserCheer{
		UserID:    userID,
		PostID:    postID,
		CreatedAt: e.now(),
	})
}

// humanizeTimestamp renders a post age the way the feed displays it.
func humanizeTimestamp(at, now time.Time) string {
	mins := int(now.Sub(at).Minutes())
	switch {
	case mins < 1:
		return "just now"
	case mins == 1:
		return "1 minute ago"
	case mins < 60:
		return fmt.Sprintf("%d minutes ago", mins)
	}

	hours := mins / 60
	switch {
	case hours == 1:
		return "1 hour ago"
	case hours < 24:
		return fmt.Sprintf("%d hours ago", hours)
	}

	days := hours / 24
	switch {
	case days == 1:
		return "1 day ago"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	}
	return at.Format("1/2/2006")
}
