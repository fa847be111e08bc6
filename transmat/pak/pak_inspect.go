package paktrans

import (
	"context"
	"crypto/sha512"
	"io"

	. "github.com/warpfork/go-errcat"

	"github.com/polydawn/pak"
	"github.com/polydawn/pak/format"
	"github.com/polydawn/pak/fs/nilfs"
)

var (
	_ pak.VerifyFunc = Verify
)

/*
	Reads an archive's header and table.  No bodies are read.

	Entry names are checked the same way Unpack checks them, so an
	archive that lists cleanly has a table Unpack will accept.
*/
func List(
	ctx context.Context,
	archivePath string, // The archive to read (absolute path).
	opts pak.Options, // Strictness.
) (_ pakformat.Header, _ []pakformat.Entry, err error) {
	defer RequireErrorHasCategory(&err, pak.ErrorCategory(""))

	archivePath2, err := parseAbsoluteArg(archivePath, "archive path")
	if err != nil {
		return pakformat.Header{}, nil, err
	}
	file, err := openArchive(archivePath2)
	if err != nil {
		return pakformat.Header{}, nil, err
	}
	defer file.Close()
	if ctx.Err() != nil {
		return pakformat.Header{}, nil, Errorf(pak.ErrCancelled, "cancelled")
	}
	header, entries, _, err := readArchiveTable(file, opts, pak.Monitor{})
	return header, entries, err
}

/*
	Reads an archive completely, going through every step of unpacking
	but discarding the output, and returns the archive's ID.

	Packing a tree and verifying the resulting archive yield the same ID.
*/
func Verify(
	ctx context.Context, // Long-running call.  Cancellable.
	archivePath string, // The archive to read (absolute path).
	opts pak.Options, // Strictness.
	mon pak.Monitor, // Optionally: callbacks for progress monitoring.
) (_ pak.ArchiveID, err error) {
	if mon.Chan != nil {
		defer close(mon.Chan)
	}
	defer RequireErrorHasCategory(&err, pak.ErrorCategory(""))

	archivePath2, err := parseAbsoluteArg(archivePath, "archive path")
	if err != nil {
		return pak.ArchiveID{}, err
	}
	file, err := openArchive(archivePath2)
	if err != nil {
		return pak.ArchiveID{}, err
	}
	defer file.Close()

	// Check the structure first; a bad header should say so, not report a hash.
	_, entries, paths, err := readArchiveTable(file, opts, mon)
	if err != nil {
		return pak.ArchiveID{}, err
	}
	if err := extract(ctx, file, nilfs.New(), entries, paths, "verify", mon); err != nil {
		return pak.ArchiveID{}, err
	}

	// Hash the exact bytes.
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return pak.ArchiveID{}, Errorf(pak.ErrIO, "cannot read archive: %s", err)
	}
	hasher := sha512.New384()
	if _, err := io.Copy(hasher, file); err != nil {
		return pak.ArchiveID{}, Errorf(pak.ErrIO, "cannot read archive: %s", err)
	}
	return archiveIDFromHash(hasher.Sum(nil)), nil
}
