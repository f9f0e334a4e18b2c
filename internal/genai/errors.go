package genai

import (
	"errors"
	"fmt"
)

// Kind classifies gateway failures so handlers can map them to the right
// status code and user-facing message without string matching.
type Kind string

const (
	KindRateLimited Kind = "rate_limited"
	KindQuota       Kind = "quota_exceeded"
	KindStatus      Kind = "status"
	KindTransport   Kind = "transport"
)

// ErrInFlight is returned when a caller already has a generation running
// under the same request key.
var ErrInFlight = errors.New("genai: generation already in flight")

// Error is a classified gateway failure.
type Error struct {
	Kind   Kind
	Status int
	Body   string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRateLimited:
		return fmt.Sprintf("genai: rate limited by gateway (status %d)", e.Status)
	case KindQuota:
		return fmt.Sprintf("genai: generation quota exhausted (status %d)", e.Status)
	case KindTransport:
		return fmt.Sprintf("genai: gateway unreachable: %v", e.Err)
	default:
		return fmt.Sprintf("genai: gateway returned status %d", e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorKind extracts the Kind from err, or "" if err is not a gateway error.
func ErrorKind(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}

func classifyStatus(status int, body string) *Error {
	switch status {
	case 429:
		return &Error{Kind: KindRateLimited, Status: status, Body: body}
	case 402:
		return &Error{Kind: KindQuota, Status: status, Body: body}
	default:
		return &Error{Kind: KindStatus, Status: status, Body: body}
	}
}
