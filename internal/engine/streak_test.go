package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextStreak(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		lastCompleted time.Time
		prevStreak    int
		want          int
	}{
		{"first completion starts at one", time.Time{}, 0, 1},
		{"same day keeps streak", now.Add(-2 * time.Hour), 4, 4},
		{"consecutive day extends", now.AddDate(0, 0, -1), 4, 5},
		{"two day gap resets", now.AddDate(0, 0, -2), 4, 1},
		{"long gap resets", now.AddDate(0, 0, -30), 12, 1},
		{"day boundary counts as consecutive", time.Date(2025, 3, 9, 23, 59, 0, 0, time.UTC), 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextStreak(tt.lastCompleted, tt.prevStreak, now))
		})
	}
}

func TestSameDayNormalizesToUTC(t *testing.T) {
	paris := time.FixedZone("CET", 3600)
	// 00:30 CET is 23:30 UTC the previous day.
	a := time.Date(2025, 3, 10, 0, 30, 0, 0, paris)
	b := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.False(t, sameDay(a, b))
	assert.True(t, sameDay(a.Add(time.Hour), b))
}

func TestStartOfWeek(t *testing.T) {
	// Wednesday March 12th 2025.
	wed := time.Date(2025, 3, 12, 15, 30, 0, 0, time.UTC)
	got := StartOfWeek(wed)
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.Sunday, got.Weekday())

	// A Sunday is its own week start.
	sun := time.Date(2025, 3, 9, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC), StartOfWeek(sun))
}

func TestHumanizeTimestamp(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		age  time.Duration
		want string
	}{
		{30 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{45 * time.Minute, "45 minutes ago"},
		{time.Hour, "1 hour ago"},
		{5 * time.Hour, "5 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{3 * 24 * time.Hour, "3 days ago"},
		{10 * 24 * time.Hour, "2/28/2025"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, humanizeTimestamp(now.Add(-tt.age), now), "age %s", tt.age)
	}
}
