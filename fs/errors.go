package fs

import (
	"errors"
	"io"
	"os"
	"syscall"

	. "github.com/warpfork/go-errcat"
)

type ErrorCategory string

const (
	ErrMisc          ErrorCategory = "fs-misc"           // Catchall; anything the os reports that we don't recognize.
	ErrNotExists     ErrorCategory = "fs-not-exists"     // Path does not exist.
	ErrAlreadyExists ErrorCategory = "fs-already-exists" // Path already exists (and the operation refused to clobber it).
	ErrNotDir        ErrorCategory = "fs-not-dir"        // Some segment of the path is not a directory.
	ErrPermission    ErrorCategory = "fs-permission"     // Permission denied, or a read-only filesystem.
	ErrInvalidPath   ErrorCategory = "fs-invalid-path"   // Path string can't be parsed as the kind of path required.
	ErrShortWrite    ErrorCategory = "fs-short-write"    // Fewer bytes landed than were handed over.

	/*
		Returned when operating in a confined filesystem slice
		and the path would have to traverse a symlink or a "../" segment.

		Functions returning ErrBreakout do so in a best-effort sense:
		concurrent modification of the area by another process can
		always race a check.
	*/
	ErrBreakout ErrorCategory = "fs-breakout"
)

/*
	Normalizes an error from the os package (or any billy implementation
	that mimics it) into an errcat error with an fs.ErrorCategory.

	Errors which already carry a category are returned unchanged.
*/
func NormalizeIOError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(Error); ok {
		return err
	}
	switch {
	case os.IsNotExist(err):
		return Errorf(ErrNotExists, "%s", err)
	case os.IsExist(err):
		return Errorf(ErrAlreadyExists, "%s", err)
	case os.IsPermission(err), errors.Is(err, syscall.EROFS):
		return Errorf(ErrPermission, "%s", err)
	case errors.Is(err, syscall.ENOTDIR):
		return Errorf(ErrNotDir, "%s", err)
	case errors.Is(err, io.ErrShortWrite):
		return Errorf(ErrShortWrite, "%s", err)
	default:
		return Errorf(ErrMisc, "%s", err)
	}
}
