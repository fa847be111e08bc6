/*
	Adapts a go-billy filesystem to fs.FS.

	Mostly used with an in-memory billy filesystem, so archives can be
	built and extracted without touching a disk.
*/
package billyfs

import (
	"os"

	. "github.com/warpfork/go-errcat"
	"gopkg.in/src-d/go-billy.v4"

	"github.com/polydawn/pak/fs"
)

func New(bfs billy.Filesystem) fs.FS {
	basePath, err := fs.ParseAbsolutePath(bfs.Root())
	if err != nil {
		basePath = fs.AbsolutePath{}
	}
	return &billyFS{bfs, basePath}
}

type billyFS struct {
	bfs      billy.Filesystem
	basePath fs.AbsolutePath
}

func (afs *billyFS) BasePath() fs.AbsolutePath {
	return afs.basePath
}

func (afs *billyFS) OpenFile(path fs.RelPath, flag int, perms fs.Perms) (fs.File, error) {
	if err := check(path); err != nil {
		return nil, err
	}
	f, err := afs.bfs.OpenFile(path.Bare(), flag, os.FileMode(perms&0777))
	if err != nil {
		return nil, fs.NormalizeIOError(err)
	}
	return f, nil
}

// Billy only offers MkdirAll, so the parent and collision checks are ours.
func (afs *billyFS) Mkdir(path fs.RelPath, perms fs.Perms) error {
	if err := check(path); err != nil {
		return err
	}
	parent, err := afs.Stat(path.Dir())
	if err != nil {
		return err
	}
	if parent.Type != fs.Type_Dir {
		return Errorf(fs.ErrNotDir, "fs: parent of %q is not a directory", path)
	}
	if _, err := afs.bfs.Lstat(path.Bare()); err == nil {
		return Errorf(fs.ErrAlreadyExists, "fs: %q already exists", path)
	}
	return fs.NormalizeIOError(afs.bfs.MkdirAll(path.Bare(), os.FileMode(perms&0777)))
}

func (afs *billyFS) Rename(fromPath, toPath fs.RelPath) error {
	if err := check(fromPath); err != nil {
		return err
	}
	if err := check(toPath); err != nil {
		return err
	}
	return fs.NormalizeIOError(afs.bfs.Rename(fromPath.Bare(), toPath.Bare()))
}

func (afs *billyFS) Remove(path fs.RelPath) error {
	if err := check(path); err != nil {
		return err
	}
	return fs.NormalizeIOError(afs.bfs.Remove(path.Bare()))
}

func (afs *billyFS) Stat(path fs.RelPath) (*fs.Metadata, error) {
	if err := check(path); err != nil {
		return nil, err
	}
	if path == (fs.RelPath{}) {
		return rootMetadata(), nil
	}
	fi, err := afs.bfs.Stat(path.Bare())
	if err != nil {
		return nil, fs.NormalizeIOError(err)
	}
	return fs.MetadataFromFileInfo(path, fi), nil
}

func (afs *billyFS) LStat(path fs.RelPath) (*fs.Metadata, error) {
	if err := check(path); err != nil {
		return nil, err
	}
	if path == (fs.RelPath{}) {
		return rootMetadata(), nil
	}
	fi, err := afs.bfs.Lstat(path.Bare())
	if err != nil {
		return nil, fs.NormalizeIOError(err)
	}
	return fs.MetadataFromFileInfo(path, fi), nil
}

func (afs *billyFS) ReadDirNames(path fs.RelPath) ([]string, error) {
	if err := check(path); err != nil {
		return nil, err
	}
	fis, err := afs.bfs.ReadDir(path.Bare())
	if err != nil {
		return nil, fs.NormalizeIOError(err)
	}
	names := make([]string, len(fis))
	for i, fi := range fis {
		names[i] = fi.Name()
	}
	return names, nil
}

func check(path fs.RelPath) error {
	if path.GoesUp() {
		return Errorf(fs.ErrBreakout, "fs: invalid path %q: must not depart basepath", path)
	}
	return nil
}

// The root of an in-memory billy fs doesn't exist until something is
// created in it, so it's always reported as a dir.
func rootMetadata() *fs.Metadata {
	return &fs.Metadata{Type: fs.Type_Dir, Perms: 0755}
}
