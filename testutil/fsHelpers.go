package testutil

import (
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/smartystreets/goconvey/convey"

	"github.com/polydawn/pak/fs"
)

/*
	Runs `fn` with a fresh temp dir, removing it (and everything in it)
	afterwards.  The path handed over has symlinks resolved, so tests
	comparing paths aren't surprised by e.g. a symlinked /tmp.
*/
func WithTmpdir(fn func(tmpDir fs.AbsolutePath)) {
	dir, err := ioutil.TempDir("", "pak-test-")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(dir)
	dir, err = filepath.EvalSymlinks(dir)
	if err != nil {
		panic(err)
	}
	fn(fs.MustAbsolutePath(dir))
}

func ShouldStat(afs fs.FS, path fs.RelPath) fs.Metadata {
	stat, err := afs.LStat(path)
	convey.So(err, convey.ShouldBeNil)
	stat.Mtime = stat.Mtime.UTC()
	return *stat
}

/*
	Reads a whole file under `base`, asserting that works.
*/
func ShouldReadFile(base fs.AbsolutePath, path fs.RelPath) []byte {
	bs, err := ioutil.ReadFile(base.Join(path).String())
	convey.So(err, convey.ShouldBeNil)
	return bs
}
