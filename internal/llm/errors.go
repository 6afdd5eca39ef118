package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorKind classifies provider failures for the retry and breaker layers.
type ErrorKind int

const (
	// KindUnavailable is a network failure or a 5xx from the backend.
	KindUnavailable ErrorKind = iota
	// KindRateLimited is a 429.
	KindRateLimited
	// KindRejected is any other 4xx: bad key, bad model, bad request.
	KindRejected
	// KindInvalidResponse means the answer was not valid for the schema.
	KindInvalidResponse
	// KindTruncated means generation stopped at the token limit.
	KindTruncated
)

func (k ErrorKind) String() string {
	switch k {
	case KindUnavailable:
		return "unavailable"
	case KindRateLimited:
		return "rate limited"
	case KindRejected:
		return "rejected"
	case KindInvalidResponse:
		return "invalid response"
	case KindTruncated:
		return "truncated"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is returned by every provider for backend failures.
type Error struct {
	Kind       ErrorKind
	Provider   string
	RetryAfter time.Duration
	// Content is the offending answer for KindInvalidResponse and
	// KindTruncated.
	Content json.RawMessage
	Err     error
}

func (e *Error) Error() string {
	msg := "llm " + e.Kind.String()
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(" (retry after %s)", e.RetryAfter)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// statusError maps an HTTP status from a backend SDK to an *Error.
// A zero status means the request never got a response.
func statusError(provider string, status int, err error) *Error {
	kind := KindUnavailable
	switch {
	case status == http.StatusTooManyRequests:
		kind = KindRateLimited
	case status >= 400 && status < 500:
		kind = KindRejected
	}
	return &Error{Kind: kind, Provider: provider, Err: err}
}
