package main

import (
	"os"

	. "github.com/warpfork/go-errcat"

	"github.com/polydawn/pak"
)

type operation int

const (
	opPack operation = iota + 1
	opUnpack
)

/*
	Picks what `auto` does with a path: directories are packed,
	regular files are unpacked.  Anything else (including nothing at all)
	is "file not found", and nothing is touched.
*/
func demuxPath(path string) (operation, error) {
	fi, err := os.Stat(path)
	switch {
	case err == nil && fi.IsDir():
		return opPack, nil
	case err == nil && fi.Mode().IsRegular():
		return opUnpack, nil
	case err == nil || os.IsNotExist(err):
		return 0, Errorf(pak.ErrNotFound, "file not found: %s", path)
	default:
		return 0, Errorf(pak.ErrIO, "cannot read %s: %s", path, err)
	}
}
