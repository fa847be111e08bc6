/*
	The host filesystem, seen from a base directory.
*/
package osfs

import (
	"os"

	. "github.com/warpfork/go-errcat"
	"golang.org/x/sys/unix"

	"github.com/polydawn/pak/fs"
)

func init() {
	// Unpacked files are 0644 and dirs 0755, whatever the caller's umask.
	unix.Umask(0)
}

func New(basePath fs.AbsolutePath) fs.FS {
	return hostFS{basePath}
}

type hostFS struct {
	base fs.AbsolutePath
}

func (afs hostFS) BasePath() fs.AbsolutePath {
	return afs.base
}

// Joins onto the base.  Anything that would climb above it is ErrBreakout.
func (afs hostFS) resolve(path fs.RelPath) (string, error) {
	if path.GoesUp() {
		return "", Errorf(fs.ErrBreakout, "fs: invalid path %q: must not depart basepath", path)
	}
	return afs.base.Join(path).String(), nil
}

func (afs hostFS) OpenFile(path fs.RelPath, flag int, perms fs.Perms) (fs.File, error) {
	p, err := afs.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(p, flag, os.FileMode(perms&0777))
	if err != nil {
		return nil, fs.NormalizeIOError(err)
	}
	return f, nil
}

func (afs hostFS) Mkdir(path fs.RelPath, perms fs.Perms) error {
	p, err := afs.resolve(path)
	if err != nil {
		return err
	}
	return fs.NormalizeIOError(os.Mkdir(p, os.FileMode(perms&0777)))
}

func (afs hostFS) Rename(fromPath, toPath fs.RelPath) error {
	from, err := afs.resolve(fromPath)
	if err != nil {
		return err
	}
	to, err := afs.resolve(toPath)
	if err != nil {
		return err
	}
	return fs.NormalizeIOError(os.Rename(from, to))
}

func (afs hostFS) Remove(path fs.RelPath) error {
	p, err := afs.resolve(path)
	if err != nil {
		return err
	}
	return fs.NormalizeIOError(os.Remove(p))
}

func (afs hostFS) Stat(path fs.RelPath) (*fs.Metadata, error) {
	return afs.stat(path, os.Stat)
}

func (afs hostFS) LStat(path fs.RelPath) (*fs.Metadata, error) {
	return afs.stat(path, os.Lstat)
}

func (afs hostFS) stat(path fs.RelPath, statFn func(string) (os.FileInfo, error)) (*fs.Metadata, error) {
	p, err := afs.resolve(path)
	if err != nil {
		return nil, err
	}
	fi, err := statFn(p)
	if err != nil {
		return nil, fs.NormalizeIOError(err)
	}
	return fs.MetadataFromFileInfo(path, fi), nil
}

func (afs hostFS) ReadDirNames(path fs.RelPath) ([]string, error) {
	p, err := afs.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fs.NormalizeIOError(err)
	}
	defer f.Close()
	names, err := f.Readdirnames(-1)
	if err != nil {
		return nil, fs.NormalizeIOError(err)
	}
	return names, nil
}
