package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addMovie 添加一部电影到片单
func addMovie(t *testing.T, s *testServer, token string, movieID int, title string) {
	t.Helper()

	w := s.do(t, http.MethodPost, "/watchlist", gin.H{
		"movie_id":           movieID,
		"movie_title":        title,
		"movie_poster_path":  "/poster.jpg",
		"movie_release_date": "2024-01-01",
		"movie_vote_average": 7.5,
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

// listIDs 获取片单并返回电影 ID 顺序
func listIDs(t *testing.T, s *testServer, token string) []int {
	t.Helper()

	w := s.do(t, http.MethodGet, "/watchlist", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var entries []struct {
		ID int `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))

	ids := make([]int, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

func TestWatchlistRequiresAuth(t *testing.T) {
	s := newTestServer(t, "")

	endpoints := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/watchlist"},
		{http.MethodPost, "/watchlist"},
		{http.MethodDelete, "/watchlist/10"},
		{http.MethodPut, "/watchlist/reorder"},
		{http.MethodGet, "/watchlist/check/10"},
	}

	for _, ep := range endpoints {
		w := s.do(t, ep.method, ep.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, ep.path)
		assert.Equal(t, "未登录或登录已过期", decodeJSON(t, w)["error"])
	}
}

// TestWatchlistFlow 覆盖添加、查询、重排、移除的完整链路
func TestWatchlistFlow(t *testing.T) {
	s := newTestServer(t, "")
	token := s.register(t, "dave", "dave@example.com", "secret123")

	// 空片单返回空数组而不是 null
	w := s.do(t, http.MethodGet, "/watchlist", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	addMovie(t, s, token, 10, "Inception")
	addMovie(t, s, token, 20, "Heat")
	addMovie(t, s, token, 30, "Alien")
	assert.Equal(t, []int{10, 20, 30}, listIDs(t, s, token))

	// 重排
	w = s.do(t, http.MethodPut, "/watchlist/reorder", gin.H{
		"movieIds": []int{30, 10, 20},
	}, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{30, 10, 20}, listIDs(t, s, token))

	// 移除
	w = s.do(t, http.MethodDelete, "/watchlist/10", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{30, 20}, listIDs(t, s, token))

	// 成员检查
	w = s.do(t, http.MethodGet, "/watchlist/check/10", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeJSON(t, w)["inWatchlist"])

	w = s.do(t, http.MethodGet, "/watchlist/check/30", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeJSON(t, w)["inWatchlist"])
}

func TestAddDuplicateMovie(t *testing.T) {
	s := newTestServer(t, "")
	token := s.register(t, "dave", "dave@example.com", "secret123")

	addMovie(t, s, token, 42, "Blade Runner")

	w := s.do(t, http.MethodPost, "/watchlist", gin.H{
		"movie_id":    42,
		"movie_title": "Blade Runner",
	}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "电影已在片单中", decodeJSON(t, w)["error"])
}

func TestAddMovieValidation(t *testing.T) {
	s := newTestServer(t, "")
	token := s.register(t, "dave", "dave@example.com", "secret123")

	// 缺少标题
	w := s.do(t, http.MethodPost, "/watchlist", gin.H{"movie_id": 42}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "电影 ID 和标题不能为空", decodeJSON(t, w)["error"])
}

func TestRemoveMissingMovie(t *testing.T) {
	s := newTestServer(t, "")
	token := s.register(t, "dave", "dave@example.com", "secret123")

	w := s.do(t, http.MethodDelete, "/watchlist/999", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "片单中没有这部电影", decodeJSON(t, w)["error"])

	w = s.do(t, http.MethodDelete, "/watchlist/abc", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReorderMismatch(t *testing.T) {
	s := newTestServer(t, "")
	token := s.register(t, "dave", "dave@example.com", "secret123")

	addMovie(t, s, token, 1, "a")
	addMovie(t, s, token, 2, "b")
	addMovie(t, s, token, 3, "c")

	// 提交的集合与当前片单不一致时整体拒绝
	w := s.do(t, http.MethodPut, "/watchlist/reorder", gin.H{
		"movieIds": []int{3, 1},
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "提交的顺序与当前片单内容不一致", decodeJSON(t, w)["error"])

	// 拒绝后原顺序不变
	assert.Equal(t, []int{1, 2, 3}, listIDs(t, s, token))

	// movieIds 缺失
	w = s.do(t, http.MethodPut, "/watchlist/reorder", gin.H{}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "movieIds 必须为数组", decodeJSON(t, w)["error"])
}

// TestWatchlistIsolation 片单按用户隔离
func TestWatchlistIsolation(t *testing.T) {
	s := newTestServer(t, "")
	tokenA := s.register(t, "alice", "alice@example.com", "secret123")
	tokenB := s.register(t, "bob", "bob@example.com", "secret123")

	addMovie(t, s, tokenA, 10, "Inception")

	assert.Equal(t, []int{10}, listIDs(t, s, tokenA))
	assert.Empty(t, listIDs(t, s, tokenB))

	// B 删不掉 A 的条目
	w := s.do(t, http.MethodDelete, "/watchlist/10", nil, tokenB)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, []int{10}, listIDs(t, s, tokenA))
}

func TestWatchlistEntryJSONShape(t *testing.T) {
	s := newTestServer(t, "")
	token := s.register(t, "dave", "dave@example.com", "secret123")
	addMovie(t, s, token, 10, "Inception")

	w := s.do(t, http.MethodGet, "/watchlist", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, float64(10), e["id"])
	assert.Equal(t, "Inception", e["title"])
	assert.Equal(t, "/poster.jpg", e["poster_path"])
	assert.Equal(t, "2024-01-01", e["release_date"])
	assert.Equal(t, 7.5, e["vote_average"])
	assert.Equal(t, float64(1), e["sort_order"])
	assert.NotEmpty(t, e["added_at"])

	// 内部字段不外泄
	_, hasUserID := e["user_id"]
	assert.False(t, hasUserID, fmt.Sprintf("响应不应包含 user_id: %v", e))
}
