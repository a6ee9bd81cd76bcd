package sshbridge

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel errors returned by the bridge. Match with errors.Is.
var (
	// ErrClosed is returned when an operation is submitted after the
	// session has been torn down.
	ErrClosed = errors.New("session closed")

	// ErrTimeout is returned when a blocking call exhausts its deadline
	// waiting for socket readiness.
	ErrTimeout = errors.New("timeout waiting for socket readiness")

	// ErrCancelled is returned when a transfer's progress callback
	// requested cancellation.
	ErrCancelled = errors.New("transfer cancelled")

	// ErrShortTransfer is returned when fewer bytes were moved than a
	// definite-size transfer expected.
	ErrShortTransfer = errors.New("short transfer")

	// ErrNoPromptHandler is returned by NopDelegate when the server asks
	// for interactive authentication.
	ErrNoPromptHandler = errors.New("no keyboard-interactive handler")
)

// Well-known protocol status codes, matching the SFTP SSH_FX_* values the
// remote side reports for definitive failures.
const (
	StatusOK               uint32 = 0
	StatusEOF              uint32 = 1
	StatusNoSuchFile       uint32 = 2
	StatusPermissionDenied uint32 = 3
	StatusFailure          uint32 = 4
	StatusBadMessage       uint32 = 5
	StatusNoConnection     uint32 = 6
	StatusConnectionLost   uint32 = 7
	StatusOpUnsupported    uint32 = 8
)

// ProtocolError is a definitive, non-transient failure reported by the
// underlying protocol call, carrying the remote-reported reason when one
// was available.
type ProtocolError struct {
	Code uint32
	Msg  string
}

func (e *ProtocolError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("protocol error %d: %s", e.Code, e.Msg)
	}
	return fmt.Sprintf("protocol error %d", e.Code)
}

// Is maps the not-found status onto fs.ErrNotExist and the
// permission-denied status onto fs.ErrPermission, so callers can test with
// the standard sentinels.
func (e *ProtocolError) Is(target error) bool {
	switch target {
	case fs.ErrNotExist:
		return e.Code == StatusNoSuchFile
	case fs.ErrPermission:
		return e.Code == StatusPermissionDenied
	}
	return false
}

// OpenError reports a failed handle creation. The wrapped error is the
// subsystem's recorded last error, which distinguishes permission-denied,
// not-found and handle-exhaustion sub-cases for diagnostics.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// transient reports whether err is the would-block signal, and if so in
// which direction the socket must become ready.
func transient(err error) (*WouldBlockError, bool) {
	var wb *WouldBlockError
	if errors.As(err, &wb) {
		return wb, true
	}
	return nil, false
}
