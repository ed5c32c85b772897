package engine

import (
	"context"
	"fmt"

	"github.com/JustAdi10/MomentumTracker/internal/logger"
	model "github.com/JustAdi10/MomentumTracker/internal/models"
	"github.com/JustAdi10/MomentumTracker/internal/store"
)

// xpPerLevel scales the level-up threshold: level N requires N*1000 XP.
const xpPerLevel = 1000

// creditXP mutates user in place, cascading as many level-ups as the grant
// covers. Each pass re-reads the threshold from the new level, so a single
// large grant subtracts 1000 for level 1→2 and then needs a full 2000 more
// for level 2→3. Every level gained queues a level trigger and posts a
// milestone entry. The caller is responsible for draining the queue.
func (e *Engine) creditXP(ctx context.Context, s store.Store, user *model.User, amount int, queue *[]trigger) error {
	user.XP += amount

	leveled := false
	for user.XP >= user.Level*xpPerLevel {
		user.XP -= user.Level * xpPerLevel
		user.Level++
		leveled = true

		*queue = append(*queue, trigger{condition: model.ConditionLevel, value: user.Level})
		if _, err := e.writePost(ctx, s, user.ID, fmt.Sprintf("reached Level %d!", user.Level), model.PostTypeMilestone, nil); err != nil {
			return err
		}
		logger.Success("user %d leveled up to %d", user.ID, user.Level)
	}
	if leveled {
		user.Division = model.DivisionForLevel(user.Level)
	}

	updated, err := s.UpdateUserProgress(ctx, user.ID, user.XP, user.Level, user.Division)
	if err != nil {
		return fmt.Errorf("persist XP for user %d: %w", user.ID, err)
	}
	*user = updated
	return nil
}
