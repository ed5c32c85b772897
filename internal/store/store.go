package store

import (
	"context"
	"errors"
	"time"

	model "github.com/JustAdi10/MomentumTracker/internal/models"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrAlreadyExists   = errors.New("record already exists")
	ErrAlreadyCheered  = errors.New("post already cheered by this user")
	ErrAlreadyUnlocked = errors.New("achievement already unlocked")
)

// Store is the persistence boundary of the progression engine. Every
// implementation must keep the junction uniqueness guarantees (one cheer
// per (user, post), one unlock per (user, achievement)) inside the store
// itself, not in calling code.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u model.User) (model.User, error)
	GetUser(ctx context.Context, id int64) (model.User, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	// UpdateUserProgress persists the gamification fields only.
	UpdateUserProgress(ctx context.Context, id int64, xp, level int, division string) (model.User, error)

	// Sessions
	CreateSession(ctx context.Context, s model.Session) (model.Session, error)
	GetSessionUser(ctx context.Context, token string, now time.Time) (model.User, error)
	DeleteSession(ctx context.Context, token string) error

	// Habits
	CreateHabit(ctx context.Context, h model.Habit) (model.Habit, error)
	GetHabit(ctx context.Context, id int64) (model.Habit, error)
	ListUserHabits(ctx context.Context, userID int64) ([]model.Habit, error)
	ListHabits(ctx context.Context) ([]model.Habit, error)
	UpdateHabitStreak(ctx context.Context, habitID int64, streak int, updatedAt time.Time) (model.Habit, error)

	// Habit logs, newest first
	CreateHabitLog(ctx context.Context, l model.HabitLog) (model.HabitLog, error)
	ListHabitLogs(ctx context.Context, habitID int64) ([]model.HabitLog, error)
	ListLogsSince(ctx context.Context, since time.Time) ([]model.HabitLog, error)

	// Achievement catalog, read-only after seeding
	SeedAchievements(ctx context.Context, list []model.Achievement) error
	ListAchievements(ctx context.Context) ([]model.Achievement, error)
	GetAchievement(ctx context.Context, id int64) (model.Achievement, error)
	ListUserAchievements(ctx context.Context, userID int64) ([]model.UserAchievement, error)
	HasAchievement(ctx context.Context, userID, achievementID int64) (bool, error)
	CreateUserAchievement(ctx context.Context, ua model.UserAchievement) (model.UserAchievement, error)

	// Community feed, newest first
	CreatePost(ctx context.Context, p model.CommunityPost) (model.CommunityPost, error)
	GetPost(ctx context.Context, id int64) (model.CommunityPost, error)
	ListPosts(ctx context.Context) ([]model.CommunityPost, error)
	// CreateCheer records the cheer and bumps the post counter in one step.
	CreateCheer(ctx context.Context, c model.UserCheer) (model.UserCheer, error)

	// WithUnit runs fn as a single serialized unit of work. The Postgres
	// implementation opens a transaction; the memory implementation takes a
	// write lock so concurrent completions cannot interleave streak or XP
	// read-modify-write cycles.
	WithUnit(ctx context.Context, fn func(Store) error) error
}
