package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/moodwell/backend/internal/apierror"
	"github.com/JonnyWalker81/moodwell/backend/internal/logger"
	"github.com/JonnyWalker81/moodwell/backend/internal/repository"
)

const (
	// IdempotencyKeyHeader is set by the app on every queued mood entry submission
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayedHeader marks a response served from the store
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"

	maxIdempotencyKeyLen = 255
)

// recordingWriter keeps a copy of the response body for the store
type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency makes retried submissions safe: a request repeating an Idempotency-Key
// already answered with a 2xx for the same user and route gets the stored response and
// never reaches the handler. Requests without the header pass through. A store that
// cannot be read never blocks a submission.
func Idempotency(repo repository.IdempotencyRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			apierror.AbortWithProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), []apierror.FieldError{
				{Field: IdempotencyKeyHeader, Message: "must be at most 255 characters", Code: "max"},
			}))
			return
		}

		userID := c.GetString("user_id")
		if userID == "" {
			apierror.AbortWithProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
			return
		}

		ctx := c.Request.Context()
		route := c.Request.Method + " " + c.FullPath()
		log := logger.Ctx(ctx).With(logger.String("idempotency_key", key))

		existing, err := repo.Get(ctx, key, route, userID)
		if err != nil {
			log.Error("idempotency lookup failed", logger.Err(err))
			c.Next()
			return
		}
		if existing != nil {
			log.Info("replaying stored response", logger.Int("status", existing.StatusCode))
			c.Header(IdempotencyReplayedHeader, "true")
			c.Data(existing.StatusCode, "application/json; charset=utf-8", existing.ResponseBody)
			c.Abort()
			return
		}

		rec := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		status := rec.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}
		if err := repo.Store(ctx, key, route, userID, rec.body.Bytes(), status); err != nil {
			log.Warn("idempotency store failed", logger.Err(err))
		}
	}
}
