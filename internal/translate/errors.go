package translate

import "errors"

var (
	// ErrInvalidInput is local validation; the backend is never reached.
	ErrInvalidInput = errors.New("invalid translation input")
	// ErrServiceUnavailable is the health-gate short-circuit.
	ErrServiceUnavailable = errors.New("translation service unavailable")
	// ErrTimeout is a call that exceeded the bounded timeout.
	ErrTimeout = errors.New("translation timed out")
	// ErrBadRequest means the backend rejected the payload.
	ErrBadRequest = errors.New("translation request rejected")
	// ErrUnavailable covers any other backend failure.
	ErrUnavailable = errors.New("translation backend failure")
)
