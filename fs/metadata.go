package fs

import (
	"os"
	"time"
)

/*
	Metadata describes one node of a filesystem as seen by a walk.

	Only regular files and directories are meaningful to archives;
	other types are reported so callers can skip them knowingly.
*/
type Metadata struct {
	Name  RelPath   // filename
	Type  Type      // type enum
	Perms Perms     // permission bits
	Size  int64     // length in bytes; only set for Type_File
	Mtime time.Time // modified time
}

type Type uint8

const (
	Type_Invalid Type = iota
	Type_File
	Type_Dir
	Type_Symlink
	Type_Special // fifos, sockets, and devices: nothing an archive can hold.
)

func (t Type) String() string {
	switch t {
	case Type_File:
		return "file"
	case Type_Dir:
		return "dir"
	case Type_Symlink:
		return "symlink"
	case Type_Special:
		return "special file"
	default:
		return "invalid"
	}
}

// Only the 0777 bits are carried.
type Perms uint16

/*
	Converts what os.Lstat (or anything shaped like it) reports.
	Everything that isn't a file, dir, or symlink is Type_Special.
*/
func MetadataFromFileInfo(path RelPath, fi os.FileInfo) *Metadata {
	fmeta := &Metadata{
		Name:  path,
		Perms: Perms(fi.Mode().Perm()),
		Mtime: fi.ModTime(),
	}
	switch fm := fi.Mode(); {
	case fm.IsRegular():
		fmeta.Type = Type_File
		fmeta.Size = fi.Size()
	case fm.IsDir():
		fmeta.Type = Type_Dir
	case fm&os.ModeSymlink != 0:
		fmeta.Type = Type_Symlink
	default:
		fmeta.Type = Type_Special
	}
	return fmeta
}
