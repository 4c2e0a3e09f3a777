package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JonnyWalker81/moodwell/backend/internal/apierror"
	"github.com/JonnyWalker81/moodwell/backend/internal/logger"
	"github.com/JonnyWalker81/moodwell/backend/internal/service"
)

// requireUser returns the authenticated user id, writing a 401 problem when it is missing
func requireUser(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
		return "", false
	}
	return userID, true
}

// writeBindError reports a failed ShouldBind as field-level validation errors when possible
func writeBindError(c *gin.Context, err error) {
	requestID := apierror.GetRequestID(c)
	if fieldErrors, ok := apierror.FieldErrorsFromBinding(err); ok {
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, fieldErrors))
		return
	}
	apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
}

// writeServiceError maps service sentinel errors onto problem details. Anything unknown
// is logged and hidden behind a 500.
func writeServiceError(c *gin.Context, err error, resource, id string) {
	requestID := apierror.GetRequestID(c)

	switch {
	case errors.Is(err, service.ErrNotFound):
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, resource, id))
	case errors.Is(err, service.ErrGoalNotActive):
		apierror.WriteProblem(c, apierror.NewGoalNotActiveError(requestID, id))
	case errors.Is(err, service.ErrInvalidUUID), errors.Is(err, service.ErrNotUUIDv7):
		apierror.WriteProblem(c, apierror.NewInvalidUUIDError(requestID, "id", id))
	case errors.Is(err, service.ErrFutureTimestamp):
		apierror.WriteProblem(c, apierror.NewFutureTimestampError(requestID, "id"))
	case errors.Is(err, service.ErrInvalidInput):
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Please check your input and try again"))
	default:
		logger.Ctx(c.Request.Context()).Error("request failed",
			logger.Err(err),
			logger.String("resource", resource),
		)
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
	}
}

// intQuery parses an optional integer query parameter
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), []apierror.FieldError{
			{Field: name, Message: "must be an integer", Code: "invalid_type"},
		}))
		return 0, false
	}
	return v, true
}
