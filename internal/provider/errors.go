package provider

import "fmt"

// ErrorKind classifies why an inference call failed.
type ErrorKind string

const (
	KindAuth              ErrorKind = "auth"
	KindTimeout           ErrorKind = "timeout"
	KindRateLimit         ErrorKind = "rate_limit"
	KindMalformedResponse ErrorKind = "malformed_response"
)

// InferenceError wraps a failed model call with its classification so
// callers can distinguish credential problems from transient ones.
type InferenceError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *InferenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *InferenceError) Unwrap() error { return e.Err }
