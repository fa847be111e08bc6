/*
	An fs.FS that takes every write and keeps none of it.

	Every path stats as an existing directory, so placing a file never
	needs its parents made first.  Verify unpacks into one of these to
	read an archive through without touching disk.
*/
package nilfs

import (
	"io"

	. "github.com/warpfork/go-errcat"

	"github.com/polydawn/pak/fs"
)

func New() fs.FS {
	return sink{}
}

type sink struct{}

func (sink) BasePath() fs.AbsolutePath {
	return fs.MustAbsolutePath("/dev/null")
}

func (sink) OpenFile(path fs.RelPath, flag int, perms fs.Perms) (fs.File, error) {
	if err := contained(path); err != nil {
		return nil, err
	}
	return discard{}, nil
}

func (sink) Mkdir(path fs.RelPath, perms fs.Perms) error { return contained(path) }
func (sink) Remove(path fs.RelPath) error                { return contained(path) }

func (sink) Rename(fromPath, toPath fs.RelPath) error {
	if err := contained(fromPath); err != nil {
		return err
	}
	return contained(toPath)
}

func (s sink) Stat(path fs.RelPath) (*fs.Metadata, error) {
	return s.LStat(path)
}

func (sink) LStat(path fs.RelPath) (*fs.Metadata, error) {
	if err := contained(path); err != nil {
		return nil, err
	}
	return &fs.Metadata{Name: path, Type: fs.Type_Dir, Perms: 0755}, nil
}

func (sink) ReadDirNames(path fs.RelPath) ([]string, error) {
	return nil, contained(path)
}

func contained(path fs.RelPath) error {
	if path.GoesUp() {
		return Errorf(fs.ErrBreakout, "fs: invalid path %q: must not depart basepath", path)
	}
	return nil
}

type discard struct{}

func (discard) Read(bs []byte) (int, error)    { return 0, io.EOF }
func (discard) Write(bs []byte) (int, error)   { return len(bs), nil }
func (discard) Seek(int64, int) (int64, error) { return 0, nil }
func (discard) Close() error                   { return nil }
