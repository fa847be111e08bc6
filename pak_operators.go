package pak

import (
	"context"
)

/*
	Packs the directory at `srcPath` into an archive.

	Returns the path of the archive written and its ArchiveID.
*/
type PackFunc func(
	ctx context.Context, // Long-running call.  Cancellable.
	srcPath string, // The directory to pack (absolute path).
	opts Options, // Strictness; optionally, where to write the archive.
	mon Monitor, // Optionally: callbacks for progress monitoring.
) (archivePath string, _ ArchiveID, _ error)

/*
	Unpacks the archive at `archivePath` into a directory.

	Returns the path of the directory written.
*/
type UnpackFunc func(
	ctx context.Context, // Long-running call.  Cancellable.
	archivePath string, // The archive to read (absolute path).
	opts Options, // Strictness; optionally, where to unpack.
	mon Monitor, // Optionally: callbacks for progress monitoring.
) (outputPath string, _ error)

/*
	Reads an archive fully without writing anything, confirming every
	entry is extractable, and returns the ArchiveID of its bytes.
*/
type VerifyFunc func(
	ctx context.Context, // Long-running call.  Cancellable.
	archivePath string, // The archive to read (absolute path).
	opts Options, // Strictness.
	mon Monitor, // Optionally: callbacks for progress monitoring.
) (ArchiveID, error)
