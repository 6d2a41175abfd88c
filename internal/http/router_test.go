package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tbourn/go-board-backend/internal/auth"
	"github.com/tbourn/go-board-backend/internal/config"
	"github.com/tbourn/go-board-backend/internal/domain"
	"github.com/tbourn/go-board-backend/internal/http/middleware"
	"github.com/tbourn/go-board-backend/internal/repo"
)

func testConfig() config.Config {
	return config.Config{
		Env:         config.EnvTest,
		APIBasePath: "/api",
		Locale:      "ko",
		JWT: config.JWTConfig{
			Secret:        "access-secret-for-tests",
			RefreshSecret: "refresh-secret-for-tests",
			Issuer:        "board-test",
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
		},
		BcryptCost: bcrypt.MinCost,
		RateRPS:    1000,
		RateBurst:  1000,
		OTEL:       config.OTELConfig{ServiceName: "board-test"},
	}
}

// newTestServer mounts the full router on a fresh SQLite file. tweaks adjust
// testConfig before routes are registered.
func newTestServer(t *testing.T, tweaks ...func(*config.Config)) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "router.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, repo.AutoMigrate(db))

	cfg := testConfig()
	for _, tweak := range tweaks {
		tweak(&cfg)
	}
	r := gin.New()
	RegisterRoutes(r, db, nil, cfg)
	return r, db
}

func do(t *testing.T, r http.Handler, method, path string, body any, hdr http.Header, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, vs := range hdr {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) middleware.ErrorResponse {
	t.Helper()
	var env middleware.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

// seedUser creates a user through the API and returns its ID.
func seedUser(t *testing.T, r http.Handler, email string) uint {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/users", gin.H{"email": email, "password": "secret1", "name": "김철수"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var u domain.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	return u.ID
}

func seedPost(t *testing.T, r http.Handler, authorID uint) uint {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/posts", gin.H{"title": "첫 글", "content": "본문", "authorId": authorID}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var p domain.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	return p.ID
}

func TestHealth_CORS_RequestID(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestServer(t)
	_ = do(t, r, http.MethodGet, "/health", nil, nil)

	w := do(t, r, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
}

func TestSwaggerDoc(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodGet, "/swagger/doc.json", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/posts/{id}"`)
	assert.Contains(t, w.Body.String(), `"basePath": "/api"`)
}

func TestNoRoute_UsesEnvelope(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodGet, "/api/nope", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	env := envelope(t, w)
	assert.Equal(t, "not_found", env.Code)
	assert.Equal(t, "요청한 경로를 찾을 수 없습니다.", env.Error)
	assert.Equal(t, []string{env.Error}, env.Errors)
	assert.Equal(t, w.Header().Get("X-Request-ID"), env.RequestID)
}

func TestInvalidPathID_RejectedBeforeBodyAndHandler(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodPut, "/api/posts/abc", gin.H{"title": "x"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := envelope(t, w)
	assert.Equal(t, "bad_request", env.Code)
	assert.Equal(t, 400, env.StatusCode)
	assert.Equal(t, []string{"올바른 게시글 ID를 입력해주세요."}, env.Errors)

	w = do(t, r, http.MethodGet, "/api/comments/0", nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"올바른 댓글 ID를 입력해주세요."}, envelope(t, w).Errors)
}

func TestValidation_ReportsEveryField(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodPost, "/api/auth/signup", gin.H{}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	env := envelope(t, w)
	assert.Equal(t, "입력 데이터 검증 실패", env.Error)
	assert.ElementsMatch(t, []string{
		"유효한 이메일 형식이 아닙니다.",
		"비밀번호는 6자 이상이어야 합니다.",
	}, env.Errors)
}

func TestCreateComment_MissingPost_NothingWritten(t *testing.T) {
	r, db := newTestServer(t)
	uid := seedUser(t, r, "writer@example.com")

	w := do(t, r, http.MethodPost, "/api/comments", gin.H{"content": "댓글", "authorId": uid, "postId": 999}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "게시글을 찾을 수 없습니다.", envelope(t, w).Error)

	var n int64
	require.NoError(t, db.Model(&domain.Comment{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestAuthFlow_Cookies(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodPost, "/api/auth/signup", gin.H{"email": "kim@example.com", "password": "secret1", "name": "김철수"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "password")

	// duplicate email
	w = do(t, r, http.MethodPost, "/api/auth/signup", gin.H{"email": "kim@example.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "이미 사용 중인 이메일입니다.", envelope(t, w).Error)

	// wrong password
	w = do(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "kim@example.com", "password": "wrong-pass"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/api/auth/login", gin.H{"email": "kim@example.com", "password": "secret1"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"로그인 성공"}`, w.Body.String())
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	access := cookieNamed(w, auth.AccessCookie)
	refresh := cookieNamed(w, auth.RefreshCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, 900, access.MaxAge)
	assert.Equal(t, 604800, refresh.MaxAge)
	assert.Equal(t, "/", access.Path)

	w = do(t, r, http.MethodGet, "/api/auth/me", nil, nil, access)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var ident domain.Identity
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ident))
	assert.Equal(t, "kim@example.com", ident.Email)

	w = do(t, r, http.MethodPost, "/api/auth/refresh", nil, nil, refresh)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotNil(t, cookieNamed(w, auth.AccessCookie))

	w = do(t, r, http.MethodPost, "/api/auth/logout", nil, nil, access)
	require.Equal(t, http.StatusOK, w.Code)
	cleared := cookieNamed(w, auth.AccessCookie)
	require.NotNil(t, cleared)
	assert.Negative(t, cleared.MaxAge)
}

func TestMe_Unauthorized(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodGet, "/api/auth/me", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	env := envelope(t, w)
	assert.Equal(t, "unauthorized", env.Code)
	assert.Equal(t, "인증 정보가 없습니다.", env.Error)

	w = do(t, r, http.MethodGet, "/api/auth/me", nil, nil, &http.Cookie{Name: auth.AccessCookie, Value: "garbage"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "인증 정보가 유효하지 않습니다.", envelope(t, w).Error)

	// refresh without its cookie
	w = do(t, r, http.MethodPost, "/api/auth/refresh", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuth_CredentialRoutesShareBudget(t *testing.T) {
	r, _ := newTestServer(t, func(c *config.Config) { c.AuthRatePerMinute = 2 })

	creds := gin.H{"email": "nobody@example.com", "password": "secret1"}
	w := do(t, r, http.MethodPost, "/api/auth/login", creds, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	w = do(t, r, http.MethodPost, "/api/auth/refresh", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, r, http.MethodPost, "/api/auth/login", creds, nil)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.Equal(t, "too_many_requests", envelope(t, w).Code)

	// other routes keep their own budget
	w = do(t, r, http.MethodGet, "/api/posts", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUsers_CRUD(t *testing.T) {
	r, _ := newTestServer(t)
	uid := seedUser(t, r, "lee@example.com")

	w := do(t, r, http.MethodPut, fmt.Sprintf("/api/users/%d", uid), gin.H{}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "수정할 항목을 하나 이상 입력해주세요.", envelope(t, w).Error)

	w = do(t, r, http.MethodPut, fmt.Sprintf("/api/users/%d", uid), gin.H{"name": "이영희"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "이영희")

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/api/users/%d", uid), nil, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, r, http.MethodGet, fmt.Sprintf("/api/users/%d", uid), nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "사용자를 찾을 수 없습니다.", envelope(t, w).Error)
}

func TestPosts_ETagNotModified(t *testing.T) {
	r, _ := newTestServer(t)
	uid := seedUser(t, r, "park@example.com")
	seedPost(t, r, uid)

	w := do(t, r, http.MethodGet, "/api/posts?page=1&limit=5", nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = do(t, r, http.MethodGet, "/api/posts?page=1&limit=5", nil, http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.Bytes())

	// a different query yields a different tag
	w = do(t, r, http.MethodGet, "/api/posts?page=2&limit=5", nil, http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPosts_InvalidSort(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(t, r, http.MethodGet, "/api/posts?sort=password", nil, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "지원하지 않는 정렬 기준입니다.", envelope(t, w).Error)
	assert.Empty(t, w.Header().Get("ETag"))
}

func TestPosts_RejectedQueryIgnoresIfNoneMatch(t *testing.T) {
	r, _ := newTestServer(t)
	seedPost(t, r, seedUser(t, r, "han@example.com"))

	w := do(t, r, http.MethodGet, "/api/posts", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	valid := w.Header().Get("ETag")
	require.True(t, strings.HasPrefix(valid, `W/"posts:`), valid)

	for _, query := range []string{"sort=bogus", "order=sideways"} {
		// the tag the list would carry for this query string
		h := fnv.New32a()
		_, _ = h.Write([]byte(query))
		tag := fmt.Sprintf(`%s:%x"`, valid[:strings.LastIndex(valid, ":")], h.Sum32())

		w = do(t, r, http.MethodGet, "/api/posts?"+query, nil, http.Header{"If-None-Match": {tag}})
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
		assert.Empty(t, w.Header().Get("ETag"), query)
	}
}

func TestComments_ListShapeFollowsPaging(t *testing.T) {
	r, _ := newTestServer(t)
	uid := seedUser(t, r, "choi@example.com")
	pid := seedPost(t, r, uid)

	w := do(t, r, http.MethodPost, "/api/comments", gin.H{"content": "좋은 글", "authorId": uid, "postId": pid}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, r, http.MethodGet, "/api/comments", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []domain.Comment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 1)

	w = do(t, r, http.MethodGet, "/api/comments?page=1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"comments"`)
	assert.Contains(t, w.Body.String(), `"pagination"`)

	w = do(t, r, http.MethodGet, fmt.Sprintf("/api/comments/post/%d/details", pid), nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/api/comments/%d", all[0].ID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"댓글이 성공적으로 삭제되었습니다."}`, w.Body.String())
}

func TestTransactions(t *testing.T) {
	r, db := newTestServer(t)
	uid := seedUser(t, r, "jung@example.com")

	w := do(t, r, http.MethodPost, "/api/transactions/posts-with-comment", gin.H{
		"authorId": uid, "title": "공지", "content": "본문", "commentContent": "첫 댓글",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Message string         `json:"message"`
		Post    domain.Post    `json:"post"`
		Comment domain.Comment `json:"comment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "게시글과 첫 댓글이 함께 생성되었습니다.", created.Message)
	assert.True(t, created.Post.Published)
	assert.Equal(t, created.Post.ID, created.Comment.PostID)

	// unknown author: neither row is written
	w = do(t, r, http.MethodPost, "/api/transactions/posts-with-comment", gin.H{
		"authorId": 999, "title": "x", "content": "y", "commentContent": "z",
	}, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	var posts int64
	require.NoError(t, db.Model(&domain.Post{}).Count(&posts).Error)
	assert.EqualValues(t, 1, posts)

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/api/transactions/posts/%d", created.Post.ID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"deletedCommentsCount":1`)

	w = do(t, r, http.MethodDelete, fmt.Sprintf("/api/transactions/posts/%d", created.Post.ID), nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORS_AllowlistWithCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(corsMiddleware([]string{"https://board.example.com"})...)
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(t, r, http.MethodGet, "/x", nil, http.Header{"Origin": {"https://board.example.com"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://board.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = do(t, r, http.MethodGet, "/x", nil, http.Header{"Origin": {"https://evil.example.com"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGroupWithPrefix_Root(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	groupWithPrefix(r, "/").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := do(t, r, http.MethodGet, "/ping", nil, nil)
	assert.Equal(t, "pong", w.Body.String())
}

func TestLimitBody_OversizedBodyIsInvalidJSON(t *testing.T) {
	r, _ := newTestServer(t)

	big := bytes.Repeat([]byte("a"), 2<<20)
	w := do(t, r, http.MethodPost, "/api/posts", gin.H{"title": string(big), "content": "c", "authorId": 1}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"요청 본문이 올바른 JSON 형식이 아닙니다."}, envelope(t, w).Errors)
}
