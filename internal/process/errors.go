package process

import (
	"context"
	"os"

	"github.com/cockroachdb/errors"
)

var (
	// ErrQueryFailed marks a failed process listing.
	ErrQueryFailed = errors.New("process query failed")
	// ErrPermissionDenied marks a listing or termination refused by the OS.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrAlreadyExited is returned when terminating a process that is gone.
	ErrAlreadyExited = errors.New("process already exited")
)

// kindError tags cause with a sentinel. Both the standard errors.Is and the
// cockroachdb one see the sentinel through Is and the cause through Unwrap.
type kindError struct {
	kind  error
	cause error
}

func (e *kindError) Error() string { return e.cause.Error() }

func (e *kindError) Unwrap() error { return e.cause }

func (e *kindError) Is(target error) bool { return target == e.kind }

// WithKind returns err tagged so that errors.Is(result, kind) holds.
func WithKind(err, kind error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, cause: err}
}

// classifyListErr marks err as ErrPermissionDenied or ErrQueryFailed.
// Context errors and already classified errors pass through unchanged.
func classifyListErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrQueryFailed) || errors.Is(err, ErrPermissionDenied) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, os.ErrPermission) {
		return WithKind(errors.Wrap(err, "list processes"), ErrPermissionDenied)
	}
	return WithKind(errors.Wrap(err, "list processes"), ErrQueryFailed)
}

func errUnknownBackend(name string) error {
	return errors.Newf("unknown process backend %q", name)
}
