package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	model "github.com/JustAdi10/MomentumTracker/internal/models"
)

// MemoryStore keeps everything in maps behind a mutex. It backs tests and
// the no-database dev mode.
type MemoryStore struct {
	unitMu sync.Mutex
	mu     sync.RWMutex

	users            map[int64]model.User
	sessions         map[string]model.Session
	habits           map[int64]model.Habit
	habitLogs        map[int64]model.HabitLog
	achievements     map[int64]model.Achievement
	userAchievements map[int64]model.UserAchievement
	posts            map[int64]model.CommunityPost
	cheers           map[int64]model.UserCheer

	userID            int64
	sessionID         int64
	habitID           int64
	habitLogID        int64
	achievementID     int64
	userAchievementID int64
	postID            int64
	cheerID           int64
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:            map[int64]model.User{},
		sessions:         map[string]model.Session{},
		habits:           map[int64]model.Habit{},
		habitLogs:        map[int64]model.HabitLog{},
		achievements:     map[int64]model.Achievement{},
		userAchievements: map[int64]model.UserAchievement{},
		posts:            map[int64]model.CommunityPost{},
		cheers:           map[int64]model.UserCheer{},
	}
}

// WithUnit serializes units of work against each other. Data access inside
// fn still goes through the regular methods, which take the data mutex.
func (m *MemoryStore) WithUnit(ctx context.Context, fn func(Store) error) error {
	m.unitMu.Lock()
	defer m.unitMu.Unlock()
	return fn(m)
}

// Users

func (m *MemoryStore) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return model.User{}, ErrAlreadyExists
		}
	}

	m.userID++
	u.ID = m.userID
	m.users[u.ID] = u
	return u, nil
}

func (m *MemoryStore) GetUser(ctx context.Context, id int64) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryStore) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return model.User{}, ErrNotFound
}

func (m *MemoryStore) ListUsers(ctx context.Context) ([]model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) UpdateUserProgress(ctx context.Context, id int64, xp, level int, division string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return model.User{}, ErrNotFound
	}
	u.XP = xp
	u.Level = level
	u.Division = division
	m.users[id] = u
	return u, nil
}

// Sessions

func (m *MemoryStore) CreateSession(ctx context.Context, s model.Session) (model.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessionID++
	s.ID = m.sessionID
	m.sessions[s.Token] = s
	return s, nil
}

func (m *MemoryStore) GetSessionUser(ctx context.Context, token string, now time.Time) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[token]
	if !ok || now.After(s.ExpiresAt) {
		return model.User{}, ErrNotFound
	}
	u, ok := m.users[s.UserID]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryStore) DeleteSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[token]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, token)
	return nil
}

// Habits

func (m *MemoryStore) CreateHabit(ctx context.Context, h model.Habit) (model.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.habitID++
	h.ID = m.habitID
	m.habits[h.ID] = h
	return h, nil
}

func (m *MemoryStore) GetHabit(ctx context.Context, id int64) (model.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	h, ok := m.habits[id]
	if !ok {
		return model.Habit{}, ErrNotFound
	}
	return h, nil
}

func (m *MemoryStore) ListUserHabits(ctx context.Context, userID int64) ([]model.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.Habit{}
	for _, h := range m.habits {
		if h.UserID == userID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) ListHabits(ctx context.Context) ([]model.Habit, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Habit, 0, len(m.habits))
	for _, h := range m.habits {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) UpdateHabitStreak(ctx context.Context, habitID int64, streak int, updatedAt time.Time) (model.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.habits[habitID]
	if !ok {
		return model.Habit{}, ErrNotFound
	}
	h.Streak = streak
	h.UpdatedAt = updatedAt
	m.habits[habitID] = h
	return h, nil
}

// Habit logs

func (m *MemoryStore) CreateHabitLog(ctx context.Context, l model.HabitLog) (model.HabitLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.habitLogID++
	l.ID = m.habitLogID
	m.habitLogs[l.ID] = l
	return l, nil
}

func (m *MemoryStore) ListHabitLogs(ctx context.Context, habitID int64) ([]model.HabitLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.HabitLog{}
	for _, l := range m.habitLogs {
		if l.HabitID == habitID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CompletedAt.Equal(out[j].CompletedAt) {
			return out[i].CompletedAt.After(out[j].CompletedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) ListLogsSince(ctx context.Context, since time.Time) ([]model.HabitLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.HabitLog{}
	for _, l := range m.habitLogs {
		if !l.CompletedAt.Before(since) {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Achievements

func (m *MemoryStore) SeedAchievements(ctx context.Context, list []model.Achievement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.achievements) > 0 {
		return nil
	}
	for _, a := range list {
		m.achievementID++
		a.ID = m.achievementID
		m.achievements[a.ID] = a
	}
	return nil
}

func (m *MemoryStore) ListAchievements(ctx context.Context) ([]model.Achievement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.Achievement, 0, len(m.achievements))
	for _, a := range m.achievements {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetAchievement(ctx context.Context, id int64) (model.Achievement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.achievements[id]
	if !ok {
		return model.Achievement{}, ErrNotFound
	}
	return a, nil
}

func (m *MemoryStore) ListUserAchievements(ctx context.Context, userID int64) ([]model.UserAchievement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.UserAchievement{}
	for _, ua := range m.userAchievements {
		if ua.UserID == userID {
			out = append(out, ua)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) HasAchievement(ctx context.Context, userID, achievementID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, ua := range m.userAchievements {
		if ua.UserID == userID && ua.AchievementID == achievementID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) CreateUserAchievement(ctx context.Context, ua model.UserAchievement) (model.UserAchievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.achievements[ua.AchievementID]; !ok {
		return model.UserAchievement{}, ErrNotFound
	}
	for _, existing := range m.userAchievements {
		if existing.UserID == ua.UserID && existing.AchievementID == ua.AchievementID {
			return model.UserAchievement{}, ErrAlreadyUnlocked
		}
	}

	m.userAchievementID++
	ua.ID = m.userAchievementID
	m.userAchievements[ua.ID] = ua
	return ua, nil
}

// Community

func (m *MemoryStore) CreatePost(ctx context.Context, p model.CommunityPost) (model.CommunityPost, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.postID++
	p.ID = m.postID
	p.Cheers = 0
	m.posts[p.ID] = p
	return p, nil
}

func (m *MemoryStore) GetPost(ctx context.Context, id int64) (model.CommunityPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[id]
	if !ok {
		return model.CommunityPost{}, ErrNotFound
	}
	return p, nil
}

func (m *MemoryStore) ListPosts(ctx context.Context) ([]model.CommunityPost, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.CommunityPost, 0, len(m.posts))
	for _, p := range m.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) CreateCheer(ctx context.Context, c model.UserCheer) (model.UserCheer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.posts[c.PostID]
	if !ok {
		return model.UserCheer{}, ErrNotFound
	}
	for _, existing := range m.cheers {
		if existing.UserID == c.UserID && existing.PostID == c.PostID {
			return model.UserCheer{}, ErrAlreadyCheered
		}
	}

	m.cheerID++
	c.ID = m.cheerID
	m.cheers[c.ID] = c

	p.Cheers++
	m.posts[p.ID] = p
	return c, nil
}
