package model

import "time"

// PostType is the closed set of feed entry kinds.
type PostType string

const (
	PostTypeAchievement PostType = "achievement"
	PostTypeStreak      PostType = "streak"
	PostTypeMilestone   PostType = "milestone"
	PostTypeGeneral     PostType = "general"
)

func (t PostType) Valid() bool {
	switch t {
	case PostTypeAchievement, PostTypeStreak, PostTypeMilestone, PostTypeGeneral:
		return true
	}
	return false
}

// CommunityPost is an append-only feed entry.
type CommunityPost struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Content   string    `json:"content"`
	Type      PostType  `json:"type"`
	RelatedID *int64    `json:"relatedId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Cheers    int       `json:"cheers"`
}

// UserCheer records a one-time cheer. Unique per (user, post).
type UserCheer struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	PostID    int64     `json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommunityActivity is a post enriched with its author and a humanized age.
type CommunityActivity struct {
	CommunityPost
	User      UserSummary `json:"user"`
	Timestamp string      `json:"timestamp"`
}
