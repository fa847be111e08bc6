package fsOp

import (
	. "github.com/warpfork/go-errcat"

	"github.com/polydawn/pak/fs"
)

/*
	Ensures `path` and each of its ancestors is a directory, creating
	whichever are missing with `perms`.  Directories already present
	are left as they are.

	Symlinks to directories are followed.  This never reports
	ErrBreakout, so placing untrusted names should still go through
	PlaceFile, which checks.
*/
func MkdirAll(afs fs.FS, path fs.RelPath, perms fs.Perms) error {
	if _, err := afs.Stat(fs.RelPath{}); Category(err) == fs.ErrNotExists {
		return Errorf(fs.ErrNotExists, "base path %s does not exist", afs.BasePath())
	}
	if path == (fs.RelPath{}) {
		return nil
	}
	for _, step := range append(path.SplitParent(), path) {
		stat, err := afs.Stat(step)
		switch Category(err) {
		case nil:
			if stat.Type != fs.Type_Dir {
				return Errorf(fs.ErrNotDir, "%s already exists and is a %s, not a dir", afs.BasePath().Join(step), stat.Type)
			}
		case fs.ErrNotExists:
			switch err := afs.Mkdir(step, perms); Category(err) {
			case nil:
				// made it
			case fs.ErrAlreadyExists:
				// Stat found nothing but something's there: a dangling symlink.
				return Errorf(fs.ErrNotDir, "%s already exists and is a dangling symlink, not a dir", afs.BasePath().Join(step))
			default:
				return err
			}
		case fs.ErrNotDir:
			return Errorf(fs.ErrNotDir, "%s has parents which are not a directory", afs.BasePath().Join(step))
		default:
			return err
		}
	}
	return nil
}
