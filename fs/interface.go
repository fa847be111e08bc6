package fs

import (
	"io"
)

/*
	Interface for all primitive functions we expect to be able to perform
	on a filesystem.

	All paths accepted are RelPath types; typically the FS instance
	is constructed with an AbsolutePath, and all further operations are
	joined with that base path.

	All errors returned are errcat errors with an fs.ErrorCategory.
*/
type FS interface {
	// The path this filesystem is rooted at, if it has one.
	// In-memory and object-backed filesystems report "/".
	BasePath() AbsolutePath

	OpenFile(path RelPath, flag int, perms Perms) (File, error)
	Mkdir(path RelPath, perms Perms) error
	Rename(fromPath, toPath RelPath) error
	Remove(path RelPath) error

	// Stat follows symlinks; LStat does not.
	Stat(path RelPath) (*Metadata, error)
	LStat(path RelPath) (*Metadata, error)

	// Names are returned in no particular order.
	ReadDirNames(path RelPath) ([]string, error)
}

type File interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
}
