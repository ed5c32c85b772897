package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustAdi10/MomentumTracker/internal/api"
	"github.com/JustAdi10/MomentumTracker/internal/engine"
	"github.com/JustAdi10/MomentumTracker/internal/handler"
	"github.com/JustAdi10/MomentumTracker/internal/store"
	"github.com/JustAdi10/MomentumTracker/internal/utils"
)

type testServer struct {
	router http.Handler
	store  *store.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	s := store.NewMemoryStore()
	require.NoError(t, s.SeedAchievements(context.Background(), engine.DefaultAchievements()))

	e := engine.New(s)
	h := handler.New(e, s, nil)
	return &testServer{router: api.SetupRouter(h, s), store: s}
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, utils.APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	var envelope utils.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

// register creates an account and returns its session token.
func (ts *testServer) register(t *testing.T, username string) string {
	t.Helper()

	rec, envelope := ts.do(t, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"username": username,
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	token, ok := data["token"].(string)
	require.True(t, ok)
	return token
}

func (ts *testServer) createHabit(t *testing.T, token, name string) int64 {
	t.Helper()

	rec, envelope := ts.do(t, http.MethodPost, "/api/habits", token, map[string]interface{}{
		"name":      name,
		"frequency": "daily",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	data := envelope.Data.(map[string]interface{})
	return int64(data["id"].(float64))
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	rec, envelope := ts.do(t, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"username": "alice",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, envelope.Success)
}

func TestRegisterDuplicateUsernameConflicts(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	rec, _ := ts.do(t, http.MethodPost, "/auth/register", "", map[string]interface{}{
		"username": "alice",
		"password": "correct-horse",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginAndMe(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "alice")

	rec, envelope := ts.do(t, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"username": "alice",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	token := envelope.Data.(map[string]interface{})["token"].(string)

	rec, envelope = ts.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	user := envelope.Data.(map[string]interface{})
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "passwordHash")

	rec, _ = ts.do(t, http.MethodPost, "/auth/login", "", map[string]interface{}{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	rec, _ := ts.do(t, http.MethodGet, "/api/habits", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/habits", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCompleteHabitEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "alice")
	habitID := ts.createHabit(t, token, "Morning run")

	rec, envelope := ts.do(t, http.MethodPost, fmt.Sprintf("/api/habits/%d/complete", habitID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data := envelope.Data.(map[string]interface{})
	habit := data["habit"].(map[string]interface{})
	log := data["log"].(map[string]interface{})
	assert.Equal(t, float64(1), habit["streak"])
	assert.Equal(t, float64(1), log["streak"])

	// Same-day repeat returns the same log instead of an error.
	rec, envelope = ts.do(t, http.MethodPost, fmt.Sprintf("/api/habits/%d/complete", habitID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	repeat := envelope.Data.(map[string]interface{})["log"].(map[string]interface{})
	assert.Equal(t, log["id"], repeat["id"])
}

func TestCompleteHabitErrors(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")
	habitID := ts.createHabit(t, alice, "Morning run")

	rec, _ := ts.do(t, http.MethodPost, "/api/habits/999/complete", alice, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, fmt.Sprintf("/api/habits/%d/complete", habitID), bob, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateHabitRejectsBadFrequency(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "alice")

	rec, _ := ts.do(t, http.MethodPost, "/api/habits", token, map[string]interface{}{
		"name":      "Read",
		"frequency": "sometimes",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheerConflict(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")

	rec, envelope := ts.do(t, http.MethodPost, "/api/community/posts", alice, map[string]interface{}{
		"content": "shipped my streak!",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	postID := int64(envelope.Data.(map[string]interface{})["id"].(float64))

	rec, _ = ts.do(t, http.MethodPost, fmt.Sprintf("/api/community/posts/%d/cheer", postID), bob, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = ts.do(t, http.MethodPost, fmt.Sprintf("/api/community/posts/%d/cheer", postID), bob, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestActivityFeed(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "alice")

	rec, _ := ts.do(t, http.MethodPost, "/api/community/posts", token, map[string]interface{}{
		"content": "hello world",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, envelope := ts.do(t, http.MethodGet, "/api/community/activity", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	feed := envelope.Data.([]interface{})
	require.Len(t, feed, 1)
	entry := feed[0].(map[string]interface{})
	assert.Equal(t, "hello world", entry["content"])
	assert.Equal(t, "just now", entry["timestamp"])
}

func TestLeaderboardEndpoint(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.register(t, "alice")
	ts.register(t, "bob")
	habitID := ts.createHabit(t, alice, "Morning run")

	rec, _ := ts.do(t, http.MethodPost, fmt.Sprintf("/api/habits/%d/complete", habitID), alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, envelope := ts.do(t, http.MethodGet, "/api/leaderboard?global=true", alice, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board := envelope.Data.([]interface{})
	require.Len(t, board, 2)
	top := board[0].(map[string]interface{})
	assert.Equal(t, "alice", top["username"])
	assert.Equal(t, float64(1), top["rank"])
	assert.Equal(t, float64(10), top["weeklyXP"])
}

func TestUserStatsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "alice")
	habitID := ts.createHabit(t, token, "Morning run")

	rec, _ := ts.do(t, http.MethodPost, fmt.Sprintf("/api/habits/%d/complete", habitID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, envelope := ts.do(t, http.MethodGet, "/api/user/stats", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := envelope.Data.(map[string]interface{})
	assert.Equal(t, float64(100), stats["completionPercentage"])
	assert.Equal(t, float64(1), stats["longestStreak"])
	assert.Equal(t, float64(1), stats["level"])
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "alice")

	rec, _ := ts.do(t, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/habits", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
