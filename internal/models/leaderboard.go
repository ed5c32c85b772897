package model

// LeaderboardEntry is one ranked row. Rank is dense, 1-based, and never
// shared between rows.
type LeaderboardEntry struct {
	UserID       int64   `json:"userId"`
	Username     string  `json:"username"`
	DisplayName  string  `json:"displayName"`
	ProfileImage *string `json:"profileImage,omitempty"`
	Level        int     `json:"level"`
	Division     string  `json:"division"`
	Streak       int     `json:"streak"`
	WeeklyXP     int     `json:"weeklyXP"`
	Rank         int     `json:"rank"`
}
