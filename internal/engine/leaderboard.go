package engine

import (
	"context"
	"sort"
	"time"

	model "github.com/JustAdi10/MomentumTracker/internal/models"
)

// defaultLeaderboardLimit matches the board size shown in the app.
const defaultLeaderboardLimit = 10

// StartOfWeek returns the most recent Sunday 00:00 in t's location. Weekly
// XP counts completions from this instant onward.
func StartOfWeek(t time.Time) time.Time {
	t = t.AddDate(0, 0, -int(t.Weekday()))
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// BuildEntries computes the per-user leaderboard fields from a snapshot:
// streak is the best streak across the user's habits, weeklyXP is 10 per
// completion logged since windowStart. Ranks are left unset.
func BuildEntries(users []model.User, habits []model.Habit, weeklyLogs []model.HabitLog) []model.LeaderboardEntry {
	bestStreak := map[int64]int{}
	for _, h := range habits {
		if h.Streak > bestStreak[h.UserID] {
			bestStreak[h.UserID] = h.Streak
		}
	}
	weeklyXP := map[int64]int{}
	for _, l := range weeklyLogs {
		weeklyXP[l.UserID] += CompletionXP
	}

	entries := make([]model.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, model.LeaderboardEntry{
			UserID:       u.ID,
			Username:     u.Username,
			DisplayName:  u.DisplayName,
			ProfileImage: u.ProfileImage,
			Level:        u.Level,
			Division:     u.Division,
			Streak:       bestStreak[u.ID],
			WeeklyXP:     weeklyXP[u.ID],
		})
	}
	return entries
}

// SortEntries orders entries by streak, then weekly XP, then level, all
// descending. The sort is stable so full ties keep encounter order and
// repeated calls over the same snapshot rank identically.
func SortEntries(entries []model.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Streak != b.Streak {
			return a.Streak > b.Streak
		}
		if a.WeeklyXP != b.WeeklyXP {
			return a.WeeklyXP > b.WeeklyXP
		}
		return a.Level > b.Level
	})
}

// AssignRanks numbers sorted entries 1..n with no gaps or shared ranks.
func AssignRanks(entries []model.LeaderboardEntry) {
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

// Leaderboard produces the ranked board. The friends view (global=false)
// always includes the requesting user: if they fall outside the top
// window their row is appended and the whole board is re-sorted and
// re-ranked so the rank set stays consistent.
func (e *Engine) Leaderboard(ctx context.Context, global bool, userID int64, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}

	users, err := e.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	habits, err := e.store.ListHabits(ctx)
	if err != nil {
		return nil, err
	}
	weeklyLogs, err := e.store.ListLogsSince(ctx, StartOfWeek(e.now()))
	if err != nil {
		return nil, err
	}

	entries := BuildEntries(users, habits, weeklyLogs)
	SortEntries(entries)

	board := entries
	if len(board) > limit {
		board = append([]model.LeaderboardEntry{}, board[:limit]...)
	}

	if !global {
		present := false
		for _, entry := range board {
			if entry.UserID == userID {
				present = true
				break
			}
		}
		if !present {
			for _, entry := range entries {
				if entry.UserID == userID {
					board = append(board, entry)
					SortEntries(board)
					break
				}
			}
		}
	}

	AssignRanks(board)
	return board, nil
}
