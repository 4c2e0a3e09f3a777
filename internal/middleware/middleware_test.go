package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonnyWalker81/moodwell/backend/internal/apierror"
	"github.com/JonnyWalker81/moodwell/backend/internal/logger"
	"github.com/JonnyWalker81/moodwell/backend/internal/models"
	"github.com/JonnyWalker81/moodwell/backend/pkg/supabase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	tokens map[string]*supabase.User
}

func (f *fakeVerifier) VerifyToken(_ context.Context, token string) (*supabase.User, error) {
	if u, ok := f.tokens[token]; ok {
		return u, nil
	}
	return nil, errors.New("invalid token")
}

func TestAuth(t *testing.T) {
	verifier := &fakeVerifier{tokens: map[string]*supabase.User{
		"good-token": {ID: "user-1", Email: "user@example.com"},
	}}

	r := gin.New()
	r.Use(Auth(verifier))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"ctx":     logger.UserIDFromContext(c.Request.Context()),
		})
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid token", "Bearer good-token", http.StatusOK},
		{"lowercase scheme", "bearer good-token", http.StatusOK},
		{"extra spaces", "  Bearer   good-token ", http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good-token", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"scheme only", "Bearer", http.StatusUnauthorized},
		{"unknown token", "Bearer bad-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user_id":"user-1","ctx":"user-1"}`, w.Body.String())
				return
			}
			assert.Equal(t, apierror.ContentTypeProblemJSON, w.Header().Get("Content-Type"))
			assert.Contains(t, w.Body.String(), apierror.TypeUnauthorized)
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(logger.Default()))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, logger.RequestIDFromContext(c.Request.Context()))
	})

	t.Run("reuses client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "req-123", w.Body.String())
	})

	t.Run("generates id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, w.Body.String())
	})
}

func TestRequestLogsCarryRoute(t *testing.T) {
	var buf strings.Builder
	base := logger.NewSlogLogger(logger.Config{Level: logger.LevelInfo, Format: "text", Output: &buf})

	r := gin.New()
	r.Use(RequestID(base), Logger())
	r.GET("/api/v1/goals/:id", func(c *gin.Context) {
		logger.Ctx(c.Request.Context()).Info("goal loaded")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/goals/g-7", nil)
	req.Header.Set(RequestIDHeader, "req-route")
	r.ServeHTTP(httptest.NewRecorder(), req)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Contains(t, line, "request_id=req-route")
		assert.Contains(t, line, "route=/api/v1/goals/:id")
	}
	assert.Contains(t, lines[1], "path=/api/v1/goals/g-7")
	assert.Equal(t, 1, strings.Count(lines[1], "route="))
}

func TestSecurityHeaders(t *testing.T) {
	// production first: its HSTS header must not leak into the shared header list
	for _, production := range []bool{true, false} {
		r := gin.New()
		r.Use(SecurityHeaders(production))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
		assert.Equal(t, "same-site", w.Header().Get("Cross-Origin-Resource-Policy"))
		if production {
			assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
		} else {
			assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
		}
	}
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://app.moodwell.dev", "https://*.moodwell-app.pages.dev"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name        string
		method      string
		origin      string
		status      int
		allowOrigin string
	}{
		{"exact origin", http.MethodGet, "https://app.moodwell.dev", http.StatusOK, "https://app.moodwell.dev"},
		{"wildcard origin", http.MethodGet, "https://preview.moodwell-app.pages.dev", http.StatusOK, "https://preview.moodwell-app.pages.dev"},
		{"preflight allowed", http.MethodOptions, "https://app.moodwell.dev", http.StatusNoContent, "https://app.moodwell.dev"},
		{"preflight rejected", http.MethodOptions, "https://evil.example.com", http.StatusForbidden, ""},
		{"simple request from unknown origin", http.MethodGet, "https://evil.example.com", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.allowOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORSAllowAll(t *testing.T) {
	r := gin.New()
	r.Use(CORS(nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://anything.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

type fakeIdempotencyRepo struct {
	mu      sync.Mutex
	records map[string]*models.IdempotencyKey
	getErr  error
}

func newFakeIdempotencyRepo() *fakeIdempotencyRepo {
	return &fakeIdempotencyRepo{records: make(map[string]*models.IdempotencyKey)}
}

func (f *fakeIdempotencyRepo) Get(_ context.Context, key, route, userID string) (*models.IdempotencyKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.records[userID+"|"+route+"|"+key], nil
}

func (f *fakeIdempotencyRepo) Store(_ context.Context, key, route, userID string, body []byte, status int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[userID+"|"+route+"|"+key] = &models.IdempotencyKey{
		Key:          key,
		Route:        route,
		UserID:       userID,
		ResponseBody: append([]byte(nil), body...),
		StatusCode:   status,
	}
	return nil
}

func newIdempotentServer(repo *fakeIdempotencyRepo, userID string, calls *int) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	})
	r.POST("/mood-entries", Idempotency(repo), func(c *gin.Context) {
		*calls++
		if strings.Contains(c.GetHeader("X-Fail"), "yes") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"call": *calls})
	})
	return r
}

func postEntry(r *gin.Engine, key string, fail bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/mood-entries", strings.NewReader(`{}`))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	if fail {
		req.Header.Set("X-Fail", "yes")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyReplay(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	calls := 0
	r := newIdempotentServer(repo, "user-1", &calls)

	first := postEntry(r, "key-1", false)
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Empty(t, first.Header().Get(IdempotencyReplayedHeader))

	second := postEntry(r, "key-1", false)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get(IdempotencyReplayedHeader))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	third := postEntry(r, "key-2", false)
	assert.Equal(t, http.StatusCreated, third.Code)
	assert.Equal(t, 2, calls)
}

func TestIdempotencySkipsWithoutKeyAndOnFailure(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	calls := 0
	r := newIdempotentServer(repo, "user-1", &calls)

	postEntry(r, "", false)
	postEntry(r, "", false)
	assert.Equal(t, 2, calls)

	failed := postEntry(r, "key-err", true)
	assert.Equal(t, http.StatusBadRequest, failed.Code)
	postEntry(r, "key-err", true)
	assert.Equal(t, 4, calls, "non-2xx responses are not stored")
}

func TestIdempotencyRepositoryErrorFallsThrough(t *testing.T) {
	repo := newFakeIdempotencyRepo()
	repo.getErr = errors.New("db down")
	calls := 0
	r := newIdempotentServer(repo, "user-1", &calls)

	w := postEntry(r, "key-1", false)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 1, calls)
}

func TestIdempotencyRequiresUser(t *testing.T) {
	calls := 0
	r := newIdempotentServer(newFakeIdempotencyRepo(), "", &calls)

	w := postEntry(r, "key-1", false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, calls)
}

func TestIdempotencyRejectsOversizedKey(t *testing.T) {
	calls := 0
	r := newIdempotentServer(newFakeIdempotencyRepo(), "user-1", &calls)

	w := postEntry(r, strings.Repeat("k", 256), false)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apierror.TypeValidation)
	assert.Contains(t, w.Body.String(), IdempotencyKeyHeader)
	assert.Equal(t, 0, calls)

	w = postEntry(r, strings.Repeat("k", 255), false)
	assert.Equal(t, http.StatusCreated, w.Code)
}
