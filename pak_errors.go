package pak

import (
	"fmt"

	"github.com/warpfork/go-errcat"
)

/*
	ErrorCategory and ExitCode are paired: every error a pak operation
	returns carries one of these categories, and the command exits
	with the matching code.
*/
type (
	ErrorCategory string
	ExitCode      int
)

const (
	ExitSuccess = ExitCode(0)

	ExitUsage, ErrUsage             = ExitCode(1), ErrorCategory("pak-usage-error")   // Bad arguments: relative paths, wrong kind of path for the command, bad flags.
	ExitNotFound, ErrNotFound       = ExitCode(3), ErrorCategory("pak-not-found")     // The input path doesn't exist (or is neither a file nor a directory).
	ExitFormat, ErrFormat           = ExitCode(4), ErrorCategory("pak-format-error")  // The input isn't a readable PACK archive: bad magic, wrong version, corrupt table.
	ExitIO, ErrIO                   = ExitCode(5), ErrorCategory("pak-io-error")      // Reading or writing failed, including archives truncated mid-body.
	ExitPackInvalid, ErrPackInvalid = ExitCode(6), ErrorCategory("pak-pack-invalid")  // The tree can't be represented: offsets past 2GiB, names too long in strict mode.
	ExitCancelled, ErrCancelled     = ExitCode(7), ErrorCategory("pak-cancelled")     // The context was cancelled part-way through.
	ExitTODO                        = ExitCode(254)                                   // Errors without a category.  Always a bug.
)

func ExitCodeForError(err error) ExitCode {
	if err == nil {
		return ExitSuccess
	}
	return ExitCodeForCategory(errcat.Category(err))
}

func ExitCodeForCategory(category interface{}) ExitCode {
	switch category {
	case nil:
		return ExitSuccess
	case ErrUsage:
		return ExitUsage
	case ErrNotFound:
		return ExitNotFound
	case ErrFormat:
		return ExitFormat
	case ErrIO:
		return ExitIO
	case ErrPackInvalid:
		return ExitPackInvalid
	case ErrCancelled:
		return ExitCancelled
	default:
		return ExitTODO
	}
}

/*
	Serializable description of an error: its category, message, and details.
*/
type ErrorInfo struct {
	Category string            `refmt:"category"`
	Message  string            `refmt:"message"`
	Details  map[string]string `refmt:"details,omitempty"`
}

func NewErrorInfo(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	if e2, ok := err.(errcat.Error); ok {
		return &ErrorInfo{
			Category: fmt.Sprintf("%v", e2.Category()),
			Message:  e2.Message(),
			Details:  e2.Details(),
		}
	}
	return &ErrorInfo{Message: err.Error()}
}

func (e ErrorInfo) Error() string {
	return e.Message
}
