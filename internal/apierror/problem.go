// Package apierror renders moodwell API failures as RFC 9457 problem documents
// (https://www.rfc-editor.org/rfc/rfc9457.html) under the urn:moodwell:error namespace.
package apierror

// ProblemDetails is the application/problem+json body. The first five members are the
// RFC 9457 ones; the rest are moodwell extensions.
type ProblemDetails struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Instance string `json:"instance,omitempty"`

	// RequestID echoes X-Request-ID so a report can be matched to server logs
	RequestID string `json:"request_id,omitempty"`
	// UserMessage is safe to show in the app as is
	UserMessage string `json:"user_message,omitempty"`
	// RetryAfter mirrors the Retry-After header in seconds
	RetryAfter *int         `json:"retry_after,omitempty"`
	Action     string       `json:"action,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"`
}

// FieldError points at one request field. Field is the snake_case JSON path, e.g.
// "activities[0].name".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (p *ProblemDetails) Error() string {
	if p.Detail != "" {
		return p.Detail
	}
	return p.Title
}

// withField attaches a single field error
func (p *ProblemDetails) withField(field, message, code string) *ProblemDetails {
	p.Errors = append(p.Errors, FieldError{Field: field, Message: message, Code: code})
	return p
}

// withRetryAfter sets the retry hint carried in both the body and the header
func (p *ProblemDetails) withRetryAfter(seconds int) *ProblemDetails {
	if seconds < 1 {
		seconds = 1
	}
	p.RetryAfter = &seconds
	p.Action = "retry"
	return p
}
