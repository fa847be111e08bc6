/*
	Conformance checks every fs.FS implementation that supports writes should pass.
*/
package tests

import (
	"io/ioutil"
	"os"
	"sort"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/warpfork/go-errcat"

	"github.com/polydawn/pak/fs"
)

func CheckBaseLstat(afs fs.FS) {
	Convey("CONTRACT: lstat of the base path should be a dir", func() {
		stat, err := afs.LStat(fs.RelPath{})
		So(err, ShouldBeNil)
		So(stat.Type, ShouldEqual, fs.Type_Dir)
	})
}

func CheckMkdirLstatRoundtrip(afs fs.FS) {
	Convey("CONTRACT: mkdir and lstat should roundtrip", func() {
		d1 := fs.MustRelPath("d1")
		So(afs.Mkdir(d1, 0755), ShouldBeNil)
		stat, err := afs.LStat(d1)
		So(err, ShouldBeNil)
		So(stat.Type, ShouldEqual, fs.Type_Dir)
		So(stat.Name, ShouldResemble, d1)
	})
}

func CheckDeepMkdirError(afs fs.FS) {
	Convey("CONTRACT: deep mkdir should error", func() {
		d1d2 := fs.MustRelPath("d1/d2")
		So(afs.Mkdir(d1d2, 0755), errcat.ErrorShouldHaveCategory, fs.ErrNotExists)
		_, err := afs.LStat(d1d2)
		So(err, errcat.ErrorShouldHaveCategory, fs.ErrNotExists)
	})
}

func CheckFileRoundtrip(afs fs.FS) {
	Convey("CONTRACT: files written should read back with the same body and size", func() {
		f1 := fs.MustRelPath("f1")
		So(makeFile(afs, f1, "body"), ShouldBeNil)
		stat, err := afs.LStat(f1)
		So(err, ShouldBeNil)
		So(stat.Type, ShouldEqual, fs.Type_File)
		So(stat.Size, ShouldEqual, 4)

		f, err := afs.OpenFile(f1, os.O_RDONLY, 0)
		So(err, ShouldBeNil)
		defer f.Close()
		bs, err := ioutil.ReadAll(f)
		So(err, ShouldBeNil)
		So(string(bs), ShouldEqual, "body")
	})
	Convey("CONTRACT: opening a missing file should be ErrNotExists", func() {
		_, err := afs.OpenFile(fs.MustRelPath("nope"), os.O_RDONLY, 0)
		So(err, errcat.ErrorShouldHaveCategory, fs.ErrNotExists)
	})
}

func CheckReadDirNames(afs fs.FS) {
	Convey("CONTRACT: readdirnames should list every child", func() {
		So(afs.Mkdir(fs.MustRelPath("d"), 0755), ShouldBeNil)
		So(makeFile(afs, fs.MustRelPath("d/x"), "x"), ShouldBeNil)
		So(makeFile(afs, fs.MustRelPath("d/y"), "y"), ShouldBeNil)
		So(afs.Mkdir(fs.MustRelPath("d/z"), 0755), ShouldBeNil)
		names, err := afs.ReadDirNames(fs.MustRelPath("d"))
		So(err, ShouldBeNil)
		sort.Strings(names)
		So(names, ShouldResemble, []string{"x", "y", "z"})
	})
}

func CheckRenameAndRemove(afs fs.FS) {
	Convey("CONTRACT: rename should move a file and replace an existing target", func() {
		So(makeFile(afs, fs.MustRelPath("src"), "new"), ShouldBeNil)
		So(makeFile(afs, fs.MustRelPath("dst"), "old"), ShouldBeNil)
		So(afs.Rename(fs.MustRelPath("src"), fs.MustRelPath("dst")), ShouldBeNil)
		_, err := afs.LStat(fs.MustRelPath("src"))
		So(err, errcat.ErrorShouldHaveCategory, fs.ErrNotExists)
		stat, err := afs.LStat(fs.MustRelPath("dst"))
		So(err, ShouldBeNil)
		So(stat.Size, ShouldEqual, 3)

		Convey("CONTRACT: remove should delete it", func() {
			So(afs.Remove(fs.MustRelPath("dst")), ShouldBeNil)
			_, err := afs.LStat(fs.MustRelPath("dst"))
			So(err, errcat.ErrorShouldHaveCategory, fs.ErrNotExists)
		})
	})
}

func CheckBreakoutRejected(afs fs.FS) {
	Convey("CONTRACT: paths departing the base should be rejected", func() {
		_, err := afs.LStat(fs.MustRelPath("../escape"))
		So(err, errcat.ErrorShouldHaveCategory, fs.ErrBreakout)
		_, err = afs.OpenFile(fs.MustRelPath("../escape"), os.O_CREATE|os.O_WRONLY, 0644)
		So(err, errcat.ErrorShouldHaveCategory, fs.ErrBreakout)
	})
}

func makeFile(afs fs.FS, path fs.RelPath, body string) error {
	f, err := afs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write([]byte(body))
	return err
}
