package call

import (
	"errors"
	"fmt"
)

// ErrSessionEnded is returned for operations on a session that already
// reached its end state.
var ErrSessionEnded = errors.New("call session ended")

// SignalErrorKind splits signaling failures into the two classes the
// session cares about.
type SignalErrorKind int

const (
	// SignalFailed is any real signaling failure. Logged, session state
	// left unchanged, never fatal.
	SignalFailed SignalErrorKind = iota
	// SignalDuplicate means a payload was applied to an already-stable
	// session. Swallowed at debug level.
	SignalDuplicate
)

func (k SignalErrorKind) String() string {
	if k == SignalDuplicate {
		return "duplicate"
	}
	return "failed"
}

// SignalError tags an underlying signaling error with its class, instead
// of inspecting error strings at the call site.
type SignalError struct {
	Kind SignalErrorKind
	Err  error
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("signal %s: %v", e.Kind, e.Err)
}

func (e *SignalError) Unwrap() error { return e.Err }

// DuplicateSignal wraps err as the harmless already-stable class.
func DuplicateSignal(err error) *SignalError {
	return &SignalError{Kind: SignalDuplicate, Err: err}
}

// FailedSignal wraps err as a real signaling failure.
func FailedSignal(err error) *SignalError {
	return &SignalError{Kind: SignalFailed, Err: err}
}

// IsDuplicateSignal reports whether err is the already-stable class.
func IsDuplicateSignal(err error) bool {
	var se *SignalError
	return errors.As(err, &se) && se.Kind == SignalDuplicate
}
