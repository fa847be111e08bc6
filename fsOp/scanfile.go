package fsOp

import (
	"io"
	"os"

	"github.com/polydawn/pak/fs"
)

/*
	Lstats `path` and, if it's a regular file, opens it for reading.

	`body` is nil for every other type; when it isn't, the caller
	closes it.
*/
func ScanFile(afs fs.FS, path fs.RelPath) (fmeta *fs.Metadata, body io.ReadCloser, err error) {
	fmeta, err = afs.LStat(path)
	if err != nil || fmeta.Type != fs.Type_File {
		return fmeta, nil, err
	}
	f, err := afs.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return fmeta, nil, err
	}
	return fmeta, f, nil
}
