package apierror

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRegisteredKinds(t *testing.T) {
	tests := []struct {
		typ    string
		status int
	}{
		{TypeValidation, http.StatusBadRequest},
		{TypeBadRequest, http.StatusBadRequest},
		{TypeInvalidUUID, http.StatusBadRequest},
		{TypeFutureTimestamp, http.StatusBadRequest},
		{TypeUnauthorized, http.StatusUnauthorized},
		{TypeNotFound, http.StatusNotFound},
		{TypeGoalNotActive, http.StatusConflict},
		{TypeRateLimit, http.StatusTooManyRequests},
		{TypeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			p := New("req-1", tt.typ, "detail")
			assert.Equal(t, tt.typ, p.Type)
			assert.Equal(t, tt.status, p.Status)
			assert.NotEmpty(t, p.Title)
			assert.NotEmpty(t, p.UserMessage)
			assert.Equal(t, "req-1", p.RequestID)
		})
	}
	assert.Len(t, kinds, len(tests))
}

func TestNewUnknownTypeIsInternal(t *testing.T) {
	p := New("req-1", "urn:moodwell:error:made_up", "boom")
	assert.Equal(t, TypeInternal, p.Type)
	assert.Equal(t, http.StatusInternalServerError, p.Status)
	assert.Equal(t, "boom", p.Detail)
}

func TestNewGoalNotActiveError(t *testing.T) {
	p := NewGoalNotActiveError("req-2", "0190f1d2-0000-7000-8000-000000000001")

	assert.Equal(t, TypeGoalNotActive, p.Type)
	assert.Equal(t, http.StatusConflict, p.Status)
	assert.Contains(t, p.Detail, "0190f1d2-0000-7000-8000-000000000001")
	assert.Empty(t, p.Errors)
}

func TestNewNotFoundErrorWithoutID(t *testing.T) {
	assert.Equal(t, "Mood history was not found", NewNotFoundError("", "Mood history", "").Detail)
	assert.Equal(t, "Goal with ID 'g-1' was not found", NewNotFoundError("", "Goal", "g-1").Detail)
}

func TestEntryIDProblemsNameTheField(t *testing.T) {
	invalid := NewInvalidUUIDError("req-3", "id", "not-a-uuid")
	require.Len(t, invalid.Errors, 1)
	assert.Equal(t, FieldError{Field: "id", Message: "must be a valid UUIDv7", Code: "invalid_uuid"}, invalid.Errors[0])
	assert.Contains(t, invalid.Detail, "not-a-uuid")

	future := NewFutureTimestampError("req-3", "id")
	assert.Equal(t, TypeFutureTimestamp, future.Type)
	require.Len(t, future.Errors, 1)
	assert.Equal(t, "future_timestamp", future.Errors[0].Code)
}

func TestNewRateLimitErrorFloorsRetry(t *testing.T) {
	p := NewRateLimitError("", 0)
	require.NotNil(t, p.RetryAfter)
	assert.Equal(t, 1, *p.RetryAfter)
	assert.Equal(t, "retry", p.Action)
	assert.Contains(t, p.Detail, "1 seconds")
}

func TestNewUnauthorizedErrorAsksForSignIn(t *testing.T) {
	p := NewUnauthorizedError("")
	assert.Equal(t, "authenticate", p.Action)
	assert.Nil(t, p.RetryAfter)
}

func TestProblemDetailsError(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred", NewInternalError("").Error())
	assert.Equal(t, "Goal Not Active", (&ProblemDetails{Title: "Goal Not Active"}).Error())
}

func serve(t *testing.T, path string, header http.Header, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.GET(path, handler, func(c *gin.Context) {
		c.Status(http.StatusTeapot)
	})
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWriteProblemFillsInstanceAndRetryAfter(t *testing.T) {
	w := serve(t, "/api/v1/mood-entries", nil, func(c *gin.Context) {
		WriteProblem(c, NewRateLimitError("req-4", 30))
		c.Abort()
	})

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, ContentTypeProblemJSON, w.Header().Get("Content-Type"))
	assert.Equal(t, "30", w.Header().Get("Retry-After"))

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/api/v1/mood-entries", body["instance"])
	assert.Equal(t, TypeRateLimit, body["type"])
	assert.EqualValues(t, 30, body["retry_after"])
	assert.Equal(t, "req-4", body["request_id"])
	assert.NotContains(t, body, "errors")
}

func TestWriteProblemKeepsExplicitInstance(t *testing.T) {
	w := serve(t, "/api/v1/goals/g-1/complete", nil, func(c *gin.Context) {
		p := NewGoalNotActiveError("", "g-1")
		p.Instance = "/api/v1/goals/g-1"
		WriteProblem(c, p)
		c.Abort()
	})

	var body ProblemDetails
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "/api/v1/goals/g-1", body.Instance)
	assert.Empty(t, w.Header().Get("Retry-After"))
}

func TestAbortWithProblemStopsChain(t *testing.T) {
	w := serve(t, "/api/v1/insights", nil, func(c *gin.Context) {
		AbortWithProblem(c, NewUnauthorizedError(GetRequestID(c)))
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body ProblemDetails
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, TypeUnauthorized, body.Type)
}

func TestGetRequestID(t *testing.T) {
	header := http.Header{"X-Request-Id": []string{"from-header"}}

	w := serve(t, "/", header, func(c *gin.Context) {
		c.Set("request_id", "from-middleware")
		AbortWithProblem(c, NewInternalError(GetRequestID(c)))
	})
	var body ProblemDetails
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "from-middleware", body.RequestID)

	w = serve(t, "/", header, func(c *gin.Context) {
		AbortWithProblem(c, NewInternalError(GetRequestID(c)))
	})
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "from-header", body.RequestID)
}
