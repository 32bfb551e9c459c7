package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/Cecile-Hirschauer/adaboards-api/internal/model"
	"github.com/Cecile-Hirschauer/adaboards-api/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq atomic.Int64

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Board{},
		&model.Membership{},
		&model.Task{},
		&model.MembershipOutbox{},
	))
	return InitRouter(db, nil, nil, pkg.SMTPConfig{})
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, r *gin.Engine, name, email string) (token string, userID uint64) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": name, "email": email, "password": "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID uint64 `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.User.ID
}

func createBoard(t *testing.T, r *gin.Engine, token, name string) uint64 {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/boards", token, gin.H{"name": name})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.ID
}

func TestRegisterValidationAndConflict(t *testing.T) {
	r := newTestRouter(t)

	registerUser(t, r, "Alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Alice II", "email": "alice@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Bob", "email": "bob@example.com", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{"email": "x@y.z"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginStatus(t *testing.T) {
	r := newTestRouter(t)
	registerUser(t, r, "Alice", "alice@example.com")

	w := doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

// 没带凭证是 401，带了坏凭证是 403
func TestAuthStatusAsymmetry(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/boards", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/boards", "garbage-token", nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/boards", nil)
	req.Header.Set("Authorization", "NotBearer abc")
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	require.Equal(t, http.StatusForbidden, w2.Code)
}

// 看不到的看板一律 404，不能用 403 确认存在
func TestBoardVisibilityHiding(t *testing.T) {
	r := newTestRouter(t)
	aliceToken, _ := registerUser(t, r, "Alice", "alice@example.com")
	bobToken, _ := registerUser(t, r, "Bob", "bob@example.com")

	boardID := createBoard(t, r, aliceToken, "Secret Plans")

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/boards/%d", boardID), bobToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/boards/%d", boardID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// B 的列表里没有 A 的看板
	w = doJSON(t, r, http.MethodGet, "/api/boards", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Empty(t, list)
}

func TestMemberEndpoints(t *testing.T) {
	r := newTestRouter(t)
	aliceToken, aliceID := registerUser(t, r, "Alice", "alice@example.com")
	bobToken, bobID := registerUser(t, r, "Bob", "bob@example.com")
	_, carolID := registerUser(t, r, "Carol", "carol@example.com")

	boardID := createBoard(t, r, aliceToken, "Sprint")
	base := fmt.Sprintf("/api/boards/%d/members", boardID)

	// 加成员
	w := doJSON(t, r, http.MethodPost, base, aliceToken, gin.H{"user_id": bobID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// 重复加 409
	w = doJSON(t, r, http.MethodPost, base, aliceToken, gin.H{"user_id": bobID})
	require.Equal(t, http.StatusConflict, w.Code)

	// 不存在的用户 404
	w = doJSON(t, r, http.MethodPost, base, aliceToken, gin.H{"user_id": 99999})
	require.Equal(t, http.StatusNotFound, w.Code)

	// MEMBER 不能拉人
	w = doJSON(t, r, http.MethodPost, base, bobToken, gin.H{"user_id": carolID})
	require.Equal(t, http.StatusForbidden, w.Code)

	// 非法角色 400
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("%s/%d", base, bobID), aliceToken, gin.H{"role": "ADMIN"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// 唯一 OWNER 自降级 403
	w = doJSON(t, r, http.MethodPatch, fmt.Sprintf("%s/%d", base, aliceID), aliceToken, gin.H{"role": "MEMBER"})
	require.Equal(t, http.StatusForbidden, w.Code)

	// 移除成员 204
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("%s/%d", base, bobID), aliceToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// 被移除后再看成员列表 404
	w = doJSON(t, r, http.MethodGet, base, bobToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskEndpoints(t *testing.T) {
	r := newTestRouter(t)
	aliceToken, _ := registerUser(t, r, "Alice", "alice@example.com")
	bobToken, bobID := registerUser(t, r, "Bob", "bob@example.com")
	carolToken, carolID := registerUser(t, r, "Carol", "carol@example.com")

	boardID := createBoard(t, r, aliceToken, "Sprint")
	members := fmt.Sprintf("/api/boards/%d/members", boardID)
	doJSON(t, r, http.MethodPost, members, aliceToken, gin.H{"user_id": bobID})
	doJSON(t, r, http.MethodPost, members, aliceToken, gin.H{"user_id": carolID})

	tasks := fmt.Sprintf("/api/boards/%d/tasks", boardID)

	// B（MEMBER）建任务
	w := doJSON(t, r, http.MethodPost, tasks, bobToken, gin.H{"title": "Ship it"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// 指派给非成员 400
	w = doJSON(t, r, http.MethodPost, tasks, bobToken, gin.H{"title": "x", "assigned_to": 99999})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// C（MEMBER 非创建者）删不了 B 的任务
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("%s/%d", tasks, created.ID), carolToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// A（OWNER）可以
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("%s/%d", tasks, created.ID), aliceToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	// 删完 404
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("%s/%d", tasks, created.ID), aliceToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserSearchEndpoint(t *testing.T) {
	r := newTestRouter(t)
	aliceToken, _ := registerUser(t, r, "Alice", "alice@example.com")
	registerUser(t, r, "Alina", "alina@example.com")

	w := doJSON(t, r, http.MethodGet, "/api/users/search?q=a", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []gin.H
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Empty(t, list, "single-char query returns empty")

	w = doJSON(t, r, http.MethodGet, "/api/users/search?q=ALI", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, "Alina", list[0]["name"])

	w = doJSON(t, r, http.MethodGet, "/api/users/search?q=ali", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBoardDeleteStatusCodes(t *testing.T) {
	r := newTestRouter(t)
	aliceToken, _ := registerUser(t, r, "Alice", "alice@example.com")
	bobToken, bobID := registerUser(t, r, "Bob", "bob@example.com")

	boardID := createBoard(t, r, aliceToken, "Sprint")
	doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/boards/%d/members", boardID), aliceToken,
		gin.H{"user_id": bobID, "role": "MAINTAINER"})

	// MAINTAINER 删看板 403
	w := doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/boards/%d", boardID), bobToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// OWNER 删 204，之后所有人 404
	w = doJSON(t, r, http.MethodDelete, fmt.Sprintf("/api/boards/%d", boardID), aliceToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/boards/%d", boardID), bobToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
