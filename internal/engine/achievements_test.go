package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/JustAdi10/MomentumTracker/internal/models"
	"github.com/JustAdi10/MomentumTracker/internal/store"
)

func seedCatalog(t *testing.T, s *store.MemoryStore) []model.Achievement {
	t.Helper()
	require.NoError(t, s.SeedAchievements(context.Background(), DefaultAchievements()))
	catalog, err := s.ListAchievements(context.Background())
	require.NoError(t, err)
	return catalog
}

func findAchievement(t *testing.T, catalog []model.Achievement, name string) model.Achievement {
	t.Helper()
	for _, a := range catalog {
		if a.Name == name {
			return a
		}
	}
	t.Fatalf("achievement %q not in catalog", name)
	return model.Achievement{}
}

func TestLevelAchievementUnlocksOnLevelUp(t *testing.T) {
	e, s, _ := newTestEngine(t)
	catalog := seedCatalog(t, s)
	user := seedUser(t, s, "alice")

	// 10000 XP covers levels 1 through 4, landing on level 5.
	updated, err := e.CreditXP(context.Background(), user.ID, 10000)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Level)
	// Rising Star pays 75 XP on top.
	assert.Equal(t, 75, updated.XP)

	unlocked, err := s.ListUserAchievements(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	risingStar := findAchievement(t, catalog, "Rising Star")
	assert.Equal(t, risingStar.ID, unlocked[0].AchievementID)

	posts, err := s.ListPosts(context.Background())
	require.NoError(t, err)
	var achievementPosts []model.CommunityPost
	for _, p := range posts {
		if p.Type == model.PostTypeAchievement {
			achievementPosts = append(achievementPosts, p)
		}
	}
	require.Len(t, achievementPosts, 1)
	assert.Equal(t, `reached Level 5 and unlocked the "Rising Star" achievement!`, achievementPosts[0].Content)
}

func TestLevelAchievementUnlocksAtMostOnce(t *testing.T) {
	e, s, _ := newTestEngine(t)
	seedCatalog(t, s)
	user := seedUser(t, s, "alice")

	_, err := e.CreditXP(context.Background(), user.ID, 10000)
	require.NoError(t, err)
	before, err := s.ListUserAchievements(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, before, 1)

	// Crossing level 6 re-fires level triggers but grants nothing new.
	updated, err := e.CreditXP(context.Background(), user.ID, 5000)
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Level)
	assert.Equal(t, 75, updated.XP)

	after, err := s.ListUserAchievements(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, after, 1)
}

func TestStreakAchievementUnlocksAtTenDays(t *testing.T) {
	e, s, clock := newTestEngine(t)
	catalog := seedCatalog(t, s)
	user := seedUser(t, s, "alice")
	habit := seedHabit(t, e, user.ID)

	for day := 1; day <= 10; day++ {
		res, err := e.CompleteHabit(context.Background(), habit.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, day, res.Habit.Streak)
		clock.NextDay()
	}

	unlocked, err := s.ListUserAchievements(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	tenDay := findAchievement(t, catalog, "10-Day Streak")
	assert.Equal(t, tenDay.ID, unlocked[0].AchievementID)

	// 10 completions plus the 50 XP reward.
	updated, err := s.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 10*CompletionXP+50, updated.XP)

	posts, err := s.ListPosts(context.Background())
	require.NoError(t, err)
	var streakPosts []model.CommunityPost
	for _, p := range posts {
		if p.Type == model.PostTypeStreak {
			streakPosts = append(streakPosts, p)
		}
	}
	require.Len(t, streakPosts, 1)
	assert.Equal(t, `maintained the "Morning run" habit for 10 days in a row!`, streakPosts[0].Content)
	require.NotNil(t, streakPosts[0].RelatedID)
	assert.Equal(t, habit.ID, *streakPosts[0].RelatedID)
}

func TestUnlockAchievementDirect(t *testing.T) {
	e, s, _ := newTestEngine(t)
	catalog := seedCatalog(t, s)
	user := seedUser(t, s, "alice")
	risingStar := findAchievement(t, catalog, "Rising Star")

	ua, err := e.UnlockAchievement(context.Background(), user.ID, risingStar.ID)
	require.NoError(t, err)
	assert.Equal(t, risingStar.ID, ua.AchievementID)

	updated, err := s.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, updated.XP)

	// The second unlock attempt conflicts and grants nothing.
	_, err = e.UnlockAchievement(context.Background(), user.ID, risingStar.ID)
	assert.ErrorIs(t, err, store.ErrAlreadyUnlocked)

	unchanged, err := s.GetUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, 75, unchanged.XP)
}

func TestUnlockAchievementUnknownID(t *testing.T) {
	e, s, _ := newTestEngine(t)
	seedCatalog(t, s)
	user := seedUser(t, s, "alice")

	_, err := e.UnlockAchievement(context.Background(), user.ID, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRewardXPCanCascadeFurtherUnlocks(t *testing.T) {
	e, s, _ := newTestEngine(t)
	user := seedUser(t, s, "alice")

	// The level 2 reward is large enough to push the user to level 3,
	// which unlocks the second entry in the same pass.
	require.NoError(t, s.SeedAchievements(context.Background(), []model.Achievement{
		{Name: "First Step", XPReward: 2000, UnlockCondition: model.ConditionLevel, UnlockValue: 2},
		{Name: "Climber", XPReward: 0, UnlockCondition: model.ConditionLevel, UnlockValue: 3},
	}))

	updated, err := e.CreditXP(context.Background(), user.ID, 1000)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Level)
	assert.Equal(t, 0, updated.XP)

	unlocked, err := s.ListUserAchievements(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Len(t, unlocked, 2)
}

func TestAchievementsForFlagsUnlockState(t *testing.T) {
	e, s, _ := newTestEngine(t)
	catalog := seedCatalog(t, s)
	user := seedUser(t, s, "alice")
	risingStar := findAchievement(t, catalog, "Rising Star")

	_, err := e.UnlockAchievement(context.Background(), user.ID, risingStar.ID)
	require.NoError(t, err)

	statuses, err := e.AchievementsFor(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, statuses, len(catalog))

	for _, st := range statuses {
		if st.ID == risingStar.ID {
			assert.True(t, st.Unlocked)
			assert.NotNil(t, st.UnlockedAt)
		} else {
			assert.False(t, st.Unlocked, st.Name)
			assert.Nil(t, st.UnlockedAt)
		}
	}
}
