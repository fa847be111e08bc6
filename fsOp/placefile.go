package fsOp

import (
	"fmt"
	"io"
	"os"

	. "github.com/warpfork/go-errcat"

	"github.com/polydawn/pak/fs"
)

/*
	Places a file on the filesystem.

	The path within the filesystem is `fmeta.Name` (conventionally, this means
	the filesystem will join the `fmeta.Name` with the absolute base path
	it was constructed with).  Parent dirs must already exist.

	Regular files are created or truncated, then filled from `body`;
	exactly `fmeta.Size` bytes must arrive or the result is ErrShortWrite.
	Directories are created, except the base dir, which may already exist.
	Other types are refused.

	No changes are allowed to occur outside of the filesystem's base path:
	symlinks may *not* be traversed during any part of `fmeta.Name`,
	nor may the final path itself be a symlink; either yields ErrBreakout.

	Like all filesystem operations within a lightyear of symlinks,
	validation is best-effort and only correct in the absence of
	concurrent modification of the base path.
*/
func PlaceFile(afs fs.FS, fmeta fs.Metadata, body io.Reader) error {
	// First, no part of the path may be a symlink.
	for path := fmeta.Name; path != (fs.RelPath{}); path = path.Dir() {
		stat, err := afs.LStat(path)
		switch Category(err) {
		case nil:
			if stat.Type == fs.Type_Symlink {
				return Errorf(fs.ErrBreakout, "refusing to traverse symlink at %q while placing %q in %q", path, fmeta.Name, afs.BasePath())
			}
		case fs.ErrNotExists:
			// not existing is fine.
		default:
			return err
		}
	}

	switch fmeta.Type {
	case fs.Type_Invalid:
		panic(fmt.Errorf("invalid fs.Metadata.Type; partially constructed object?"))
	case fs.Type_File:
		file, err := afs.OpenFile(fmeta.Name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fmeta.Perms)
		if err != nil {
			return err
		}
		n, err := io.Copy(file, body)
		if err != nil {
			file.Close()
			return fs.NormalizeIOError(err)
		}
		if err := file.Close(); err != nil {
			return fs.NormalizeIOError(err)
		}
		if n != fmeta.Size {
			return Errorf(fs.ErrShortWrite, "placing %q: expected %d bytes, got %d", fmeta.Name, fmeta.Size, n)
		}
	case fs.Type_Dir:
		if fmeta.Name == (fs.RelPath{}) {
			// The base dir may already exist; that's fine.
			if existing, err := afs.LStat(fmeta.Name); err == nil && existing.Type == fs.Type_Dir {
				break
			}
		}
		if err := afs.Mkdir(fmeta.Name, fmeta.Perms); err != nil {
			return err
		}
	default:
		return Errorf(fs.ErrMisc, "placefile: cannot place %q: unsupported file type %s", fmeta.Name, fmeta.Type)
	}
	return nil
}
