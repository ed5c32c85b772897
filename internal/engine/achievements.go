package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/JustAdi10/MomentumTracker/internal/logger"
	model "github.com/JustAdi10/MomentumTracker/internal/models"
	"github.com/JustAdi10/MomentumTracker/internal/store"
)

// DefaultAchievements is the catalog seeded on first start.
func DefaultAchievements() []model.Achievement {
	return []model.Achievement{
		{
			Name:            "Consistency Pro",
			Description:     "Completed 3 habits for 7 days in a row",
			Icon:            model.IconLock,
			XPReward:        100,
			UnlockCondition: model.ConditionStreak,
			UnlockValue:     7,
		},
		{
			Name:            "Rising Star",
			Description:     "Reached Level 5 in Momentum",
			Icon:            model.IconChart,
			XPReward:        75,
			UnlockCondition: model.ConditionLevel,
			UnlockValue:     5,
		},
		{
			Name:            "10-Day Streak",
			Description:     "Maintained any habit for 10 days",
			Icon:            model.IconFlame,
			XPReward:        50,
			UnlockCondition: model.ConditionHabitStreak,
			UnlockValue:     10,
		},
		{
			Name:            "Silver Division",
			Description:     "Reach Level 10 to unlock",
			Icon:            model.IconLock,
			XPReward:        200,
			UnlockCondition: model.ConditionLevel,
			UnlockValue:     10,
		},
	}
}

// trigger is one pending achievement evaluation. habit is set only for
// habit_streak triggers, to name the habit in the feed post.
type trigger struct {
	condition model.UnlockCondition
	value     int
	habit     *model.Habit
}

// drainTriggers evaluates queued triggers until none remain. Unlock
// rewards credit XP, which can queue further level triggers; the visited
// set keyed by (condition, value) bounds the cascade, and unlocks are
// at-most-once anyway, so the loop always terminates.
func (e *Engine) drainTriggers(ctx context.Context, s store.Store, user *model.User, queue []trigger) error {
	type visitKey struct {
		condition model.UnlockCondition
		value     int
	}
	seen := map[visitKey]bool{}

	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]

		k := visitKey{t.condition, t.value}
		if seen[k] {
			continue
		}
		seen[k] = true

		if err := e.evaluateTrigger(ctx, s, user, t, &queue); err != nil {
			return err
		}
	}
	return nil
}

// evaluateTrigger unlocks every catalog entry matching the trigger that
// the user does not hold yet.
func (e *Engine) evaluateTrigger(ctx context.Context, s store.Store, user *model.User, t trigger, queue *[]trigger) error {
	catalog, err := s.ListAchievements(ctx)
	if err != nil {
		return err
	}

	for _, a := range catalog {
		if a.UnlockCondition != t.condition || a.UnlockValue > t.value {
			continue
		}

		unlocked, err := s.HasAchievement(ctx, user.ID, a.ID)
		if err != nil {
			return err
		}
		if unlocked {
			continue
		}

		_, err = s.CreateUserAchievement(ctx, model.UserAchievement{
			UserID:        user.ID,
			AchievementID: a.ID,
			UnlockedAt:    e.now(),
		})
		if errors.Is(err, store.ErrAlreadyUnlocked) {
			continue
		}
		if err != nil {
			return err
		}
		logger.Success("user %d unlocked achievement %q", user.ID, a.Name)

		if err := e.postUnlock(ctx, s, user, a, t); err != nil {
			return err
		}
		if a.XPReward > 0 {
			if err := e.creditXP(ctx, s, user, a.XPReward, queue); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *Engine) postUnlock(ctx context.Context, s store.Store, user *model.User, a model.Achievement, t trigger) error {
	var content string
	var postType model.PostType
	var relatedID int64

	switch t.condition {
	case model.ConditionHabitStreak:
		if t.habit == nil {
			return fmt.Errorf("habit_streak trigger without habit for achievement %d", a.ID)
		}
		content = fmt.Sprintf("maintained the %q habit for %d days in a row!", t.habit.Name, t.value)
		postType = model.PostTypeStreak
		relatedID = t.habit.ID
	default:
		content = fmt.Sprintf("reached Level %d and unlocked the %q achievement!", user.Level, a.Name)
		postType = model.PostTypeAchievement
		relatedID = a.ID
	}

	_, err := e.writePost(ctx, s, user.ID, content, postType, &relatedID)
	return err
}

// UnlockAchievement grants a specific achievement directly. A second call
// for the same pair fails with store.ErrAlreadyUnlocked and grants no XP.
func (e *Engine) UnlockAchievement(ctx context.Context, userID, achievementID int64) (model.UserAchievement, error) {
	var unlocked model.UserAchievement

	err := e.store.WithUnit(ctx, func(s store.Store) error {
		a, err := s.GetAchievement(ctx, achievementID)
		if err != nil {
			return err
		}
		user, err := s.GetUser(ctx, userID)
		if err != nil {
			return err
		}

		unlocked, err = s.CreateUserAchievement(ctx, model.UserAchievement{
			UserID:        userID,
			AchievementID: achievementID,
			UnlockedAt:    e.now(),
		})
		if err != nil {
			return err
		}

		var queue []trigger
		if a.XPReward > 0 {
			if err := e.creditXP(ctx, s, &user, a.XPReward, &queue); err != nil {
				return err
			}
		}
		relatedID := a.ID
		if _, err := e.writePost(ctx, s, userID, fmt.Sprintf("unlocked the %q achievement!", a.Name), model.PostTypeAchievement, &relatedID); err != nil {
			return err
		}
		return e.drainTriggers(ctx, s, &user, queue)
	})
	if err != nil {
		return model.UserAchievement{}, err
	}
	return unlocked, nil
}

// AchievementsFor returns the whole catalog flagged with the user's
// unlock state. A user achievement pointing at a missing catalog entry is
// corrupted state and aborts the call.
func (e *Engine) AchievementsFor(ctx context.Context, userID int64) ([]model.AchievementStatus, error) {
	catalog, err := e.store.ListAchievements(ctx)
	if err != nil {
		return nil, err
	}
	userAchievements, err := e.store.ListUserAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]model.Achievement, len(catalog))
	for _, a := range catalog {
		byID[a.ID] = a
	}
	for _, ua := range userAchievements {
		if _, ok := byID[ua.AchievementID]; !ok {
			return nil, fmt.Errorf("user %d holds unknown achievement %d", userID, ua.AchievementID)
		}
	}

	out := make([]model.AchievementStatus, 0, len(catalog))
	for _, a := range catalog {
		status := model.AchievementStatus{Achievement: a}
		for _, ua := range userAchievements {
			if ua.AchievementID == a.ID {
				status.Unlocked = true
				t := ua.UnlockedAt
				status.UnlockedAt = &t
				break
			}
		}
		out = append(out, status)
	}
	return out, nil
}
