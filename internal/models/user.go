package model

import (
	"time"
)

// Division tiers derived from level. The division field is never set
// directly; it always follows the level thresholds below.
const (
	DivisionBronze = "Bronze"
	DivisionSilver = "Silver"
	DivisionGold   = "Gold"

	SilverLevel = 7
	GoldLevel   = 15
)

// DivisionForLevel maps a level to its division tier.
func DivisionForLevel(level int) string {
	switch {
	case level >= GoldLevel:
		return DivisionGold
	case level >= SilverLevel:
		return DivisionSilver
	default:
		return DivisionBronze
	}
}

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        *string   `json:"email,omitempty"`
	DisplayName  string    `json:"displayName"`
	ProfileImage *string   `json:"profileImage,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	Level        int       `json:"level"`
	XP           int       `json:"xp"`
	Division     string    `json:"division"`
}

// UserSummary is the slimmed-down user shape embedded in feed entries.
type UserSummary struct {
	ID           int64   `json:"id"`
	Username     string  `json:"username"`
	DisplayName  string  `json:"displayName"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		ProfileImage: u.ProfileImage,
	}
}

type XPProgress struct {
	Current    int `json:"current"`
	Total      int `json:"total"`
	Remaining  int `json:"remaining"`
	Percentage int `json:"percentage"`
}

type HabitsCount struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// UserStats is the aggregate returned by /api/user/stats.
type UserStats struct {
	CompletionPercentage int         `json:"completionPercentage"`
	LongestStreak        int         `json:"longestStreak"`
	Level                int         `json:"level"`
	Division             string      `json:"division"`
	XP                   XPProgress  `json:"xp"`
	HabitsCount          HabitsCount `json:"habitsCount"`
}

// Session ties an opaque bearer token to a user.
type Session struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
