package apierror

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the RFC 9457 media type
const ContentTypeProblemJSON = "application/problem+json"

// WriteProblem writes problem as the response. Instance defaults to the request path and
// a RetryAfter is repeated in the Retry-After header.
func WriteProblem(c *gin.Context, problem *ProblemDetails) {
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}
	if problem.RetryAfter != nil {
		c.Header("Retry-After", strconv.Itoa(*problem.RetryAfter))
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// AbortWithProblem writes problem and stops the handler chain. Middleware uses it.
func AbortWithProblem(c *gin.Context, problem *ProblemDetails) {
	WriteProblem(c, problem)
	c.Abort()
}

// GetRequestID returns the id set by the request id middleware, falling back to the
// X-Request-ID header when the middleware has not run.
func GetRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// NewValidationError reports every failed field at once
func NewValidationError(requestID string, errors []FieldError) *ProblemDetails {
	p := New(requestID, TypeValidation, "One or more fields failed validation")
	p.Errors = errors
	return p
}

// NewBadRequestError is for requests that fail before field validation, such as malformed
// JSON or a business rule the service rejects.
func NewBadRequestError(requestID, detail, userMessage string) *ProblemDetails {
	p := New(requestID, TypeBadRequest, detail)
	if userMessage != "" {
		p.UserMessage = userMessage
	}
	return p
}

func NewInvalidUUIDError(requestID, field, value string) *ProblemDetails {
	return New(requestID, TypeInvalidUUID, fmt.Sprintf("Invalid UUID format for field '%s': '%s'", field, value)).
		withField(field, "must be a valid UUIDv7", "invalid_uuid")
}

// NewFutureTimestampError rejects a client-generated id whose embedded time is ahead of
// the server clock by more than the allowed skew.
func NewFutureTimestampError(requestID, field string) *ProblemDetails {
	return New(requestID, TypeFutureTimestamp, fmt.Sprintf("Field '%s' contains a timestamp more than 1 minute in the future", field)).
		withField(field, "timestamp cannot be more than 1 minute in the future", "future_timestamp")
}

// NewUnauthorizedError tells the app to send the user back through sign-in
func NewUnauthorizedError(requestID string) *ProblemDetails {
	p := New(requestID, TypeUnauthorized, "Authentication is required to access this resource")
	p.Action = "authenticate"
	return p
}

// NewNotFoundError also covers records owned by another user; the two are not
// distinguished.
func NewNotFoundError(requestID, resource, id string) *ProblemDetails {
	detail := resource + " was not found"
	if id != "" {
		detail = fmt.Sprintf("%s with ID '%s' was not found", resource, id)
	}
	return New(requestID, TypeNotFound, detail)
}

// NewGoalNotActiveError rejects completing or abandoning a goal that already left the
// active state
func NewGoalNotActiveError(requestID, goalID string) *ProblemDetails {
	return New(requestID, TypeGoalNotActive, fmt.Sprintf("Goal '%s' is no longer active", goalID))
}

func NewRateLimitError(requestID string, retryAfter int) *ProblemDetails {
	p := New(requestID, TypeRateLimit, "").withRetryAfter(retryAfter)
	p.Detail = fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds", *p.RetryAfter)
	return p
}

// NewInternalError never carries the underlying error; callers log it instead
func NewInternalError(requestID string) *ProblemDetails {
	return New(requestID, TypeInternal, "An unexpected error occurred")
}
