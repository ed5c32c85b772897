package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/JustAdi10/MomentumTracker/internal/models"
	"github.com/JustAdi10/MomentumTracker/internal/store"
)

func seedRankedUser(t *testing.T, s *store.MemoryStore, username string, streak, weeklyCompletions int, at time.Time) model.User {
	t.Helper()
	ctx := context.Background()

	user := seedUser(t, s, username)
	habit, err := s.CreateHabit(ctx, model.Habit{
		UserID:    user.ID,
		Name:      username + "'s habit",
		Frequency: model.FrequencyDaily,
		Streak:    streak,
	})
	require.NoError(t, err)

	for i := 0; i < weeklyCompletions; i++ {
		_, err := s.CreateHabitLog(ctx, model.HabitLog{
			HabitID:     habit.ID,
			UserID:      user.ID,
			CompletedAt: at.Add(time.Duration(i) * time.Hour),
			Streak:      streak,
		})
		require.NoError(t, err)
	}
	return user
}

func TestSortEntriesOrdering(t *testing.T) {
	entries := []model.LeaderboardEntry{
		{UserID: 1, Streak: 3, WeeklyXP: 50, Level: 2},
		{UserID: 2, Streak: 7, WeeklyXP: 10, Level: 1},
		{UserID: 3, Streak: 3, WeeklyXP: 70, Level: 1},
		{UserID: 4, Streak: 3, WeeklyXP: 50, Level: 5},
	}

	SortEntries(entries)

	got := []int64{entries[0].UserID, entries[1].UserID, entries[2].UserID, entries[3].UserID}
	// Streak first, then weekly XP, then level.
	assert.Equal(t, []int64{2, 3, 4, 1}, got)
}

func TestSortEntriesIsStableOnFullTies(t *testing.T) {
	entries := []model.LeaderboardEntry{
		{UserID: 1, Streak: 2, WeeklyXP: 20, Level: 3},
		{UserID: 2, Streak: 2, WeeklyXP: 20, Level: 3},
		{UserID: 3, Streak: 2, WeeklyXP: 20, Level: 3},
	}

	for i := 0; i < 5; i++ {
		SortEntries(entries)
		assert.Equal(t, int64(1), entries[0].UserID)
		assert.Equal(t, int64(2), entries[1].UserID)
		assert.Equal(t, int64(3), entries[2].UserID)
	}
}

func TestAssignRanksAreDense(t *testing.T) {
	entries := []model.LeaderboardEntry{
		{UserID: 1, Streak: 5},
		{UserID: 2, Streak: 5},
		{UserID: 3, Streak: 1},
	}

	AssignRanks(entries)

	// Equal scores still get distinct consecutive ranks.
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestLeaderboardGlobal(t *testing.T) {
	e, s, clock := newTestEngine(t)
	now := clock.Now()

	alice := seedRankedUser(t, s, "alice", 7, 3, now.Add(-2*time.Hour))
	bob := seedRankedUser(t, s, "bob", 7, 1, now.Add(-2*time.Hour))
	carol := seedRankedUser(t, s, "carol", 2, 5, now.Add(-2*time.Hour))

	board, err := e.Leaderboard(context.Background(), true, alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, board, 3)

	assert.Equal(t, alice.ID, board[0].UserID)
	assert.Equal(t, 3*CompletionXP, board[0].WeeklyXP)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, bob.ID, board[1].UserID)
	assert.Equal(t, 2, board[1].Rank)
	assert.Equal(t, carol.ID, board[2].UserID)
	assert.Equal(t, 3, board[2].Rank)
}

func TestLeaderboardWeeklyWindowExcludesOldLogs(t *testing.T) {
	e, s, clock := newTestEngine(t)
	now := clock.Now()
	lastWeek := StartOfWeek(now).AddDate(0, 0, -2)

	// All of alice's completions predate the current week.
	alice := seedRankedUser(t, s, "alice", 4, 3, lastWeek)
	bob := seedRankedUser(t, s, "bob", 4, 1, now.Add(-time.Hour))

	board, err := e.Leaderboard(context.Background(), true, alice.ID, 10)
	require.NoError(t, err)
	require.Len(t, board, 2)

	// Same streak, so bob's in-week XP wins the tiebreak.
	assert.Equal(t, bob.ID, board[0].UserID)
	assert.Equal(t, CompletionXP, board[0].WeeklyXP)
	assert.Equal(t, alice.ID, board[1].UserID)
	assert.Equal(t, 0, board[1].WeeklyXP)
}

func TestLeaderboardGlobalTruncates(t *testing.T) {
	e, s, clock := newTestEngine(t)
	now := clock.Now()

	seedRankedUser(t, s, "alice", 9, 0, now)
	seedRankedUser(t, s, "bob", 8, 0, now)
	carol := seedRankedUser(t, s, "carol", 1, 0, now)

	board, err := e.Leaderboard(context.Background(), true, carol.ID, 2)
	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, 2, board[1].Rank)
}

func TestLeaderboardFriendsViewIncludesRequester(t *testing.T) {
	e, s, clock := newTestEngine(t)
	now := clock.Now()

	alice := seedRankedUser(t, s, "alice", 9, 0, now)
	bob := seedRankedUser(t, s, "bob", 8, 0, now)
	carol := seedRankedUser(t, s, "carol", 1, 0, now)

	board, err := e.Leaderboard(context.Background(), false, carol.ID, 2)
	require.NoError(t, err)
	require.Len(t, board, 3)

	assert.Equal(t, alice.ID, board[0].UserID)
	assert.Equal(t, bob.ID, board[1].UserID)
	assert.Equal(t, carol.ID, board[2].UserID)
	// Ranks stay dense after the requester is appended.
	assert.Equal(t, []int{1, 2, 3}, []int{board[0].Rank, board[1].Rank, board[2].Rank})
}

func TestLeaderboardDefaultLimit(t *testing.T) {
	e, s, clock := newTestEngine(t)
	now := clock.Now()

	var requester model.User
	for _, name := range []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7", "u8", "u9", "u10", "u11", "u12"} {
		requester = seedRankedUser(t, s, name, 1, 0, now)
	}

	board, err := e.Leaderboard(context.Background(), true, requester.ID, 0)
	require.NoError(t, err)
	assert.Len(t, board, 10)
}
