package apierror

import "net/http"

// Problem type URIs. Clients switch on these, so they never change once published.
const (
	TypeValidation      = "urn:moodwell:error:validation"
	TypeBadRequest      = "urn:moodwell:error:bad_request"
	TypeInvalidUUID     = "urn:moodwell:error:invalid_uuid"
	TypeFutureTimestamp = "urn:moodwell:error:future_timestamp"
	TypeUnauthorized    = "urn:moodwell:error:unauthorized"
	TypeNotFound        = "urn:moodwell:error:not_found"
	TypeGoalNotActive   = "urn:moodwell:error:goal_not_active"
	TypeRateLimit       = "urn:moodwell:error:rate_limit"
	TypeInternal        = "urn:moodwell:error:internal"
)

// kind holds what is fixed for every problem of one type
type kind struct {
	title       string
	status      int
	userMessage string
}

var kinds = map[string]kind{
	TypeValidation:      {"Validation Error", http.StatusBadRequest, "Please check your input and try again"},
	TypeBadRequest:      {"Bad Request", http.StatusBadRequest, "Please check your input and try again"},
	TypeInvalidUUID:     {"Invalid UUID Format", http.StatusBadRequest, "Invalid identifier format"},
	TypeFutureTimestamp: {"Future Timestamp Not Allowed", http.StatusBadRequest, "The timestamp is too far in the future"},
	TypeUnauthorized:    {"Authentication Required", http.StatusUnauthorized, "Please sign in to continue"},
	TypeNotFound:        {"Resource Not Found", http.StatusNotFound, "The requested item could not be found"},
	TypeGoalNotActive:   {"Goal Not Active", http.StatusConflict, "This goal has already been completed or abandoned"},
	TypeRateLimit:       {"Rate Limit Exceeded", http.StatusTooManyRequests, "Too many requests. Please wait before trying again."},
	TypeInternal:        {"Internal Server Error", http.StatusInternalServerError, "Something went wrong. Please try again later."},
}

// New builds a problem of type typ with the title, status and user message registered
// for it. An unregistered type is reported as an internal error.
func New(requestID, typ, detail string) *ProblemDetails {
	k, ok := kinds[typ]
	if !ok {
		typ, k = TypeInternal, kinds[TypeInternal]
	}
	return &ProblemDetails{
		Type:        typ,
		Title:       k.title,
		Status:      k.status,
		Detail:      detail,
		RequestID:   requestID,
		UserMessage: k.userMessage,
	}
}
