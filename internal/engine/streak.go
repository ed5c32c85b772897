package engine

import "time"

// sameDay reports whether two instants fall on the same calendar date.
// Both are normalized to UTC so the comparison is stable across servers.
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// NextStreak computes the streak value for a new completion at now, given
// the previous completion (zero time if none) and the streak before it.
//
// No prior completion starts a streak of 1. A completion the day after the
// previous one extends it. A repeat on the same day leaves it unchanged.
// Any gap of two or more days resets to 1.
func NextStreak(lastCompleted time.Time, prevStreak int, now time.Time) int {
	if lastCompleted.IsZero() {
		return 1
	}
	yesterday := now.AddDate(0, 0, -1)
	switch {
	case sameDay(lastCompleted, now):
		return prevStreak
	case sameDay(lastCompleted, yesterday):
		return prevStreak + 1
	default:
		return 1
	}
}
