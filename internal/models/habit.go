package model

import "time"

// Frequency is how often a habit is meant to be completed.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

type Habit struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	Frequency    Frequency `json:"frequency"`
	Icon         *string   `json:"icon,omitempty"`
	Color        *string   `json:"color,omitempty"`
	TargetDays   *int      `json:"targetDays,omitempty"`
	ReminderTime *string   `json:"reminderTime,omitempty"`
	Streak       int       `json:"streak"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// HabitLog is an immutable completion record. Streak stores the habit
// streak as of this completion, never recomputed afterwards.
type HabitLog struct {
	ID          int64     `json:"id"`
	HabitID     int64     `json:"habitId"`
	UserID      int64     `json:"userId"`
	CompletedAt time.Time `json:"completedAt"`
	Streak      int       `json:"streak"`
}

// HabitWithLogs is the habit list shape returned to clients.
type HabitWithLogs struct {
	Habit
	Logs             []HabitLog `json:"logs"`
	IsCompletedToday bool       `json:"isCompletedToday"`
}
