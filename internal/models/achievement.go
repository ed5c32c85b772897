package model

import "time"

// UnlockCondition is the closed set of achievement trigger kinds.
type UnlockCondition string

const (
	// ConditionLevel unlocks when the user reaches a level.
	ConditionLevel UnlockCondition = "level"
	// ConditionHabitStreak unlocks when any single habit reaches a streak.
	ConditionHabitStreak UnlockCondition = "habit_streak"
	// ConditionStreak is an aggregate multi-habit streak. It exists in the
	// catalog but no evaluator fires it yet.
	ConditionStreak UnlockCondition = "streak"
)

func (c UnlockCondition) Valid() bool {
	switch c {
	case ConditionLevel, ConditionHabitStreak, ConditionStreak:
		return true
	}
	return false
}

// AchievementIcon is the closed set of icons the client can render.
type AchievementIcon string

const (
	IconLock  AchievementIcon = "lock"
	IconChart AchievementIcon = "chart"
	IconFlame AchievementIcon = "flame"
)

func (i AchievementIcon) Valid() bool {
	switch i {
	case IconLock, IconChart, IconFlame:
		return true
	}
	return false
}

// Achievement is a static catalog entry, read-only after seeding.
type Achievement struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Icon            AchievementIcon `json:"icon"`
	XPReward        int             `json:"xpReward"`
	UnlockCondition UnlockCondition `json:"unlockCondition"`
	UnlockValue     int             `json:"unlockValue"`
}

// UserAchievement records a single unlock. Unique per (user, achievement).
type UserAchievement struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"userId"`
	AchievementID int64     `json:"achievementId"`
	UnlockedAt    time.Time `json:"unlockedAt"`
}

// AchievementStatus is a catalog entry decorated with the caller's unlock state.
type AchievementStatus struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlockedAt"`
}
