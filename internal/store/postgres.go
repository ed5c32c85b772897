package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	model "github.com/JustAdi10/MomentumTracker/internal/models"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so the same store
// code runs inside and outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresStore struct {
	pool *pgxpool.Pool
	db   querier
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, db: pool}
}

// Migrate creates the schema if it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			email TEXT,
			display_name TEXT NOT NULL,
			profile_image TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			level INTEGER NOT NULL DEFAULT 1,
			xp INTEGER NOT NULL DEFAULT 0,
			division TEXT NOT NULL DEFAULT 'Bronze'
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			token TEXT NOT NULL UNIQUE,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS habits (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			name TEXT NOT NULL,
			description TEXT,
			frequency TEXT NOT NULL,
			icon TEXT,
			color TEXT,
			target_days INTEGER,
			reminder_time TEXT,
			streak INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS habit_logs (
			id BIGSERIAL PRIMARY KEY,
			habit_id BIGINT NOT NULL REFERENCES habits(id),
			user_id BIGINT NOT NULL REFERENCES users(id),
			completed_at TIMESTAMPTZ NOT NULL,
			streak INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS achievements (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL,
			icon TEXT NOT NULL,
			xp_reward INTEGER NOT NULL DEFAULT 0,
			unlock_condition TEXT NOT NULL,
			unlock_value INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS user_achievements (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			achievement_id BIGINT NOT NULL REFERENCES achievements(id),
			unlocked_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, achievement_id)
		)`,
		`CREATE TABLE IF NOT EXISTS community_posts (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			content TEXT NOT NULL,
			type TEXT NOT NULL,
			related_id BIGINT,
			created_at TIMESTAMPTZ NOT NULL,
			cheers INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS user_cheers (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id),
			post_id BIGINT NOT NULL REFERENCES community_posts(id),
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (user_id, post_id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// WithUnit runs fn inside a serializable transaction so concurrent
// completions for the same habit or user cannot interleave.
func (s *PostgresStore) WithUnit(ctx context.Context, fn func(Store) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return fmt.Errorf("begin unit: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&PostgresStore{pool: s.pool, db: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

const userColumns = `id, username, password_hash, email, display_name, profile_image, created_at, level, xp, division`

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash, &u.Email, &u.DisplayName,
		&u.ProfileImage, &u.CreatedAt, &u.Level, &u.XP, &u.Division,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	return u, nil
}

// Users

func (s *PostgresStore) CreateUser(ctx context.Context, u model.User) (model.User, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, email, display_name, profile_image, created_at, level, xp, division)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+userColumns,
		u.Username, u.PasswordHash, u.Email, u.DisplayName, u.ProfileImage,
		u.CreatedAt, u.Level, u.XP, u.Division,
	)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id int64) (model.User, error) {
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	return scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER($1)`, username))
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *PostgresStore) UpdateUserProgress(ctx context.Context, id int64, xp, level int, division string) (model.User, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE users SET xp = $1, level = $2, division = $3
		WHERE id = $4
		RETURNING `+userColumns,
		xp, level, division, id,
	)
	return scanUser(row)
}

// Sessions

func (s *PostgresStore) CreateSession(ctx context.Context, sess model.Session) (model.Session, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO sessions (user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		sess.UserID, sess.Token, sess.ExpiresAt, sess.CreatedAt,
	).Scan(&sess.ID)
	if err != nil {
		return model.Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

func (s *PostgresStore) GetSessionUser(ctx context.Context, token string, now time.Time) (model.User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+prefixed(userColumns, "u.")+`
		FROM users u
		JOIN sessions s ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > $2`,
		token, now,
	)
	return scanUser(row)
}

func (s *PostgresStore) DeleteSession(ctx context.Context, token string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const habitColumns = `id, user_id, name, description, frequency, icon, color, target_days, reminder_time, streak, created_at, updated_at`

func scanHabit(row pgx.Row) (model.Habit, error) {
	var h model.Habit
	err := row.Scan(
		&h.ID, &h.UserID, &h.Name, &h.Description, &h.Frequency, &h.Icon,
		&h.Color, &h.TargetDays, &h.ReminderTime, &h.Streak, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Habit{}, ErrNotFound
		}
		return model.Habit{}, err
	}
	return h, nil
}

// Habits

func (s *PostgresStore) CreateHabit(ctx context.Context, h model.Habit) (model.Habit, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO habits (user_id, name, description, frequency, icon, color, target_days, reminder_time, streak, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+habitColumns,
		h.UserID, h.Name, h.Description, h.Frequency, h.Icon, h.Color,
		h.TargetDays, h.ReminderTime, h.Streak, h.CreatedAt, h.UpdatedAt,
	)
	created, err := scanHabit(row)
	if err != nil {
		return model.Habit{}, fmt.Errorf("create habit: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) GetHabit(ctx context.Context, id int64) (model.Habit, error) {
	return scanHabit(s.db.QueryRow(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = $1`, id))
}

func (s *PostgresStore) ListUserHabits(ctx context.Context, userID int64) ([]model.Habit, error) {
	return s.listHabits(ctx, `SELECT `+habitColumns+` FROM habits WHERE user_id = $1 ORDER BY id`, userID)
}

func (s *PostgresStore) ListHabits(ctx context.Context) ([]model.Habit, error) {
	return s.listHabits(ctx, `SELECT `+habitColumns+` FROM habits ORDER BY id`)
}

func (s *PostgresStore) listHabits(ctx context.Context, query string, args ...any) ([]model.Habit, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	habits := []model.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *PostgresStore) UpdateHabitStreak(ctx context.Context, habitID int64, streak int, updatedAt time.Time) (model.Habit, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE habits SET streak = $1, updated_at = $2
		WHERE id = $3
		RETURNING `+habitColumns,
		streak, updatedAt, habitID,
	)
	return scanHabit(row)
}

// Habit logs

func (s *PostgresStore) CreateHabitLog(ctx context.Context, l model.HabitLog) (model.HabitLog, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO habit_logs (habit_id, user_id, completed_at, streak)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		l.HabitID, l.UserID, l.CompletedAt, l.Streak,
	).Scan(&l.ID)
	if err != nil {
		return model.HabitLog{}, fmt.Errorf("create habit log: %w", err)
	}
	return l, nil
}

func (s *PostgresStore) ListHabitLogs(ctx context.Context, habitID int64) ([]model.HabitLog, error) {
	return s.listLogs(ctx, `
		SELECT id, habit_id, user_id, completed_at, streak
		FROM habit_logs WHERE habit_id = $1
		ORDER BY completed_at DESC, id DESC`, habitID)
}

func (s *PostgresStore) ListLogsSince(ctx context.Context, since time.Time) ([]model.HabitLog, error) {
	return s.listLogs(ctx, `
		SELECT id, habit_id, user_id, completed_at, streak
		FROM habit_logs WHERE completed_at >= $1
		ORDER BY id`, since)
}

func (s *PostgresStore) listLogs(ctx context.Context, query string, args ...any) ([]model.HabitLog, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list habit logs: %w", err)
	}
	defer rows.Close()

	logs := []model.HabitLog{}
	for rows.Next() {
		var l model.HabitLog
		if err := rows.Scan(&l.ID, &l.HabitID, &l.UserID, &l.CompletedAt, &l.Streak); err != nil {
			return nil, fmt.Errorf("scan habit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// Achievements

func (s *PostgresStore) SeedAchievements(ctx context.Context, list []model.Achievement) error {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM achievements`).Scan(&count); err != nil {
		return fmt.Errorf("count achievements: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, a := range list {
		_, err := s.db.Exec(ctx, `
			INSERT INTO achievements (name, description, icon, xp_reward, unlock_condition, unlock_value)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			a.Name, a.Description, a.Icon, a.XPReward, a.UnlockCondition, a.UnlockValue,
		)
		if err != nil {
			return fmt.Errorf("seed achievement %q: %w", a.Name, err)
		}
	}
	return nil
}

const achievementColumns = `id, name, description, icon, xp_reward, unlock_condition, unlock_value`

func scanAchievement(row pgx.Row) (model.Achievement, error) {
	var a model.Achievement
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.Icon, &a.XPReward, &a.UnlockCondition, &a.UnlockValue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Achievement{}, ErrNotFound
		}
		return model.Achievement{}, err
	}
	return a, nil
}

func (s *PostgresStore) ListAchievements(ctx context.Context) ([]model.Achievement, error) {
	rows, err := s.db.Query(ctx, `SELECT `+achievementColumns+` FROM achievements ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	defer rows.Close()

	achievements := []model.Achievement{}
	for rows.Next() {
		a, err := scanAchievement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

func (s *PostgresStore) GetAchievement(ctx context.Context, id int64) (model.Achievement, error) {
	return scanAchievement(s.db.QueryRow(ctx, `SELECT `+achievementColumns+` FROM achievements WHERE id = $1`, id))
}

func (s *PostgresStore) ListUserAchievements(ctx context.Context, userID int64) ([]model.UserAchievement, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, achievement_id, unlocked_at
		FROM user_achievements WHERE user_id = $1
		ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user achievements: %w", err)
	}
	defer rows.Close()

	unlocked := []model.UserAchievement{}
	for rows.Next() {
		var ua model.UserAchievement
		if err := rows.Scan(&ua.ID, &ua.UserID, &ua.AchievementID, &ua.UnlockedAt); err != nil {
			return nil, fmt.Errorf("scan user achievement: %w", err)
		}
		unlocked = append(unlocked, ua)
	}
	return unlocked, rows.Err()
}

func (s *PostgresStore) HasAchievement(ctx context.Context, userID, achievementID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM user_achievements
			WHERE user_id = $1 AND achievement_id = $2
		)`, userID, achievementID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check achievement: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) CreateUserAchievement(ctx context.Context, ua model.UserAchievement) (model.UserAchievement, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO user_achievements (user_id, achievement_id, unlocked_at)
		VALUES ($1, $2, $3)
		RETURNING id`,
		ua.UserID, ua.AchievementID, ua.UnlockedAt,
	).Scan(&ua.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.UserAchievement{}, ErrAlreadyUnlocked
		}
		return model.UserAchievement{}, fmt.Errorf("create user achievement: %w", err)
	}
	return ua, nil
}

// Community

func (s *PostgresStore) CreatePost(ctx context.Context, p model.CommunityPost) (model.CommunityPost, error) {
	err := s.db.QueryRow(ctx, `
		INSERT INTO community_posts (user_id, content, type, related_id, created_at, cheers)
		VALUES ($1, $2, $3, $4, $5, 0)
		RETURNING id, cheers`,
		p.UserID, p.Content, p.Type, p.RelatedID, p.CreatedAt,
	).Scan(&p.ID, &p.Cheers)
	if err != nil {
		return model.CommunityPost{}, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

const postColumns = `id, user_id, content, type, related_id, created_at, cheers`

func scanPost(row pgx.Row) (model.CommunityPost, error) {
	var p model.CommunityPost
	err := row.Scan(&p.ID, &p.UserID, &p.Content, &p.Type, &p.RelatedID, &p.CreatedAt, &p.Cheers)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.CommunityPost{}, ErrNotFound
		}
		return model.CommunityPost{}, err
	}
	return p, nil
}

func (s *PostgresStore) GetPost(ctx context.Context, id int64) (model.CommunityPost, error) {
	return scanPost(s.db.QueryRow(ctx, `SELECT `+postColumns+` FROM community_posts WHERE id = $1`, id))
}

func (s *PostgresStore) ListPosts(ctx context.Context) ([]model.CommunityPost, error) {
	rows, err := s.db.Query(ctx, `SELECT `+postColumns+` FROM community_posts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []model.CommunityPost{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *PostgresStore) CreateCheer(ctx context.Context, c model.UserCheer) (model.UserCheer, error) {
	if _, err := s.GetPost(ctx, c.PostID); err != nil {
		return model.UserCheer{}, err
	}

	err := s.db.QueryRow(ctx, `
		INSERT INTO user_cheers (user_id, post_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`,
		c.UserID, c.PostID, c.CreatedAt,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.UserCheer{}, ErrAlreadyCheered
		}
		return model.UserCheer{}, fmt.Errorf("create cheer: %w", err)
	}

	if _, err := s.db.Exec(ctx, `UPDATE community_posts SET cheers = cheers + 1 WHERE id = $1`, c.PostID); err != nil {
		return model.UserCheer{}, fmt.Errorf("increment cheers: %w", err)
	}
	return c, nil
}

// prefixed rewrites a comma-separated column list with a table alias.
func prefixed(columns, prefix string) string {
	cols := strings.Split(columns, ",")
	for i, col := range cols {
		cols[i] = prefix + strings.TrimSpace(col)
	}
	return strings.Join(cols, ", ")
}
