package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/JustAdi10/MomentumTracker/internal/logger"
	model "github.com/JustAdi10/MomentumTracker/internal/models"
	"github.com/JustAdi10/MomentumTracker/internal/store"
)

// CompletionXP is the XP granted for a single habit completion.
const CompletionXP = 10

// Engine owns every progression rule: streaks, the XP ledger, achievement
// unlocks, the activity feed and the leaderboard. It is storage-agnostic;
// all state goes through the injected Store.
type Engine struct {
	store store.Store
	now   func() time.Time
}

func New(s store.Store) *Engine {
	return NewWithClock(s, time.Now)
}

// NewWithClock injects a deterministic clock for tests.
func NewWithClock(s store.Store, now func() time.Time) *Engine {
	return &Engine{store: s, now: now}
}

// CreateHabitInput carries the client-settable habit fields.
type CreateHabitInput struct {
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	Frequency    model.Frequency `json:"frequency"`
	Icon         *string         `json:"icon"`
	Color        *string         `json:"color"`
	TargetDays   *int            `json:"targetDays"`
	ReminderTime *string         `json:"reminderTime"`
}

func (e *Engine) CreateHabit(ctx context.Context, userID int64, in CreateHabitInput) (model.Habit, error) {
	if in.Name == "" {
		return model.Habit{}, fmt.Errorf("%w: habit name is required", ErrValidation)
	}
	if !in.Frequency.Valid() {
		return model.Habit{}, fmt.Errorf("%w: frequency must be daily, weekly or monthly", ErrValidation)
	}

	now := e.now()
	return e.store.CreateHabit(ctx, model.Habit{
		UserID:       userID,
		Name:         in.Name,
		Description:  in.Description,
		Frequency:    in.Frequency,
		Icon:         in.Icon,
		Color:        in.Color,
		TargetDays:   in.TargetDays,
		ReminderTime: in.ReminderTime,
		Streak:       0,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// UserHabits returns the caller's habits with their logs and a flag for
// whether each was already completed today.
func (e *Engine) UserHabits(ctx context.Context, userID int64) ([]model.HabitWithLogs, error) {
	habits, err := e.store.ListUserHabits(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	out := make([]model.HabitWithLogs, 0, len(habits))
	for _, h := range habits {
		logs, err := e.store.ListHabitLogs(ctx, h.ID)
		if err != nil {
			return nil, err
		}
		completedToday := len(logs) > 0 && sameDay(logs[0].CompletedAt, now)
		out = append(out, model.HabitWithLogs{
			Habit:            h,
			Logs:             logs,
			IsCompletedToday: completedToday,
		})
	}
	return out, nil
}

// CompletionResult is the response shape of a habit completion.
type CompletionResult struct {
	Log   model.HabitLog `json:"log"`
	Habit model.Habit    `json:"habit"`
}

// CompleteHabit logs a completion and runs the whole progression unit:
// streak update, completion XP, achievement evaluation and feed posts.
// Completing the same habit twice on one calendar day is idempotent: the
// existing log and habit are returned and no XP is granted.
func (e *Engine) CompleteHabit(ctx context.Context, habitID, userID int64) (CompletionResult, error) {
	var result CompletionResult

	err := e.store.WithUnit(ctx, func(s store.Store) error {
		habit, err := s.GetHabit(ctx, habitID)
		if err != nil {
			return err
		}
		if habit.UserID != userID {
			return fmt.Errorf("%w: habit %d belongs to another user", ErrForbidden, habitID)
		}

		now := e.now()
		logs, err := s.ListHabitLogs(ctx, habitID)
		if err != nil {
			return err
		}

		if len(logs) > 0 && sameDay(logs[0].CompletedAt, now) {
			result = CompletionResult{Log: logs[0], Habit: habit}
			return nil
		}

		var lastCompleted time.Time
		if len(logs) > 0 {
			lastCompleted = logs[0].CompletedAt
		}
		newStreak := NextStreak(lastCompleted, habit.Streak, now)

		habit, err = s.UpdateHabitStreak(ctx, habitID, newStreak, now)
		if err != nil {
			return err
		}

		log, err := s.CreateHabitLog(ctx, model.HabitLog{
			HabitID:     habitID,
			UserID:      userID,
			CompletedAt: now,
			Streak:      newStreak,
		})
		if err != nil {
			return err
		}

		user, err := s.GetUser(ctx, userID)
		if err != nil {
			return err
		}

		queue := []trigger{{condition: model.ConditionHabitStreak, value: newStreak, habit: &habit}}
		if err := e.creditXP(ctx, s, &user, CompletionXP, &queue); err != nil {
			return err
		}
		if err := e.drainTriggers(ctx, s, &user, queue); err != nil {
			return err
		}

		logger.Info("habit %d completed by user %d (streak %d)", habitID, userID, newStreak)
		result = CompletionResult{Log: log, Habit: habit}
		return nil
	})
	if err != nil {
		return CompletionResult{}, err
	}
	return result, nil
}

// CreditXP applies an XP delta to a user and runs any resulting level-ups
// and level achievements.
func (e *Engine) CreditXP(ctx context.Context, userID int64, amount int) (model.User, error) {
	if amount < 0 {
		return model.User{}, fmt.Errorf("%w: XP amount must be non-negative", ErrValidation)
	}

	var updated model.User
	err := e.store.WithUnit(ctx, func(s store.Store) error {
		user, err := s.GetUser(ctx, userID)
		if err != nil {
			return err
		}

		var queue []trigger
		if err := e.creditXP(ctx, s, &user, amount, &queue); err != nil {
			return err
		}
		if err := e.drainTriggers(ctx, s, &user, queue); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return model.User{}, err
	}
	return updated, nil
}

// UserStats aggregates the profile header numbers for a user.
func (e *Engine) UserStats(ctx context.Context, userID int64) (model.UserStats, error) {
	user, err := e.store.GetUser(ctx, userID)
	if err != nil {
		return model.UserStats{}, err
	}
	habits, err := e.UserHabits(ctx, userID)
	if err != nil {
		return model.UserStats{}, err
	}

	completedToday := 0
	longestStreak := 0
	for _, h := range habits {
		if h.IsCompletedToday {
			completedToday++
		}
		if h.Streak > longestStreak {
			longestStreak = h.Streak
		}
	}

	completionPercentage := 0
	if len(habits) > 0 {
		completionPercentage = int(float64(completedToday)/float64(len(habits))*100 + 0.5)
	}

	xpForNextLevel := user.Level * xpPerLevel
	return model.UserStats{
		CompletionPercentage: completionPercentage,
		LongestStreak:        longestStreak,
		Level:                user.Level,
		Division:             user.Division,
		XP: model.XPProgress{
			Current:    user.XP,
			Total:      xpForNextLevel,
			Remaining:  xpForNextLevel - user.XP,
			Percentage: int(float64(user.XP)/float64(xpForNextLevel)*100 + 0.5),
		},
		HabitsCount: model.HabitsCount{
			Total:     len(habits),
			Completed: completedToday,
		},
	}, nil
}
