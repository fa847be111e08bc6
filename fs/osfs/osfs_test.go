package osfs

import (
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/sys/unix"

	"github.com/polydawn/pak/fs"
	"github.com/polydawn/pak/fs/tests"
	"github.com/polydawn/pak/testutil"
)

func TestAll(t *testing.T) {
	Convey("osfs conformance tests", t, func() {
		testutil.WithTmpdir(func(tmpDir fs.AbsolutePath) {
			tfs := New(tmpDir)
			boxPath := fs.MustRelPath("sandbox")
			So(tfs.Mkdir(boxPath, 0755), ShouldBeNil)
			afs := New(tmpDir.Join(boxPath))

			tests.CheckBaseLstat(afs)
			tests.CheckMkdirLstatRoundtrip(afs)
			tests.CheckDeepMkdirError(afs)
			tests.CheckFileRoundtrip(afs)
			tests.CheckReadDirNames(afs)
			tests.CheckRenameAndRemove(afs)
			tests.CheckBreakoutRejected(afs)
		})
	})
}

func TestStatTypes(t *testing.T) {
	Convey("osfs reports node types", t, func() {
		testutil.WithTmpdir(func(tmpDir fs.AbsolutePath) {
			afs := New(tmpDir)
			So(os.Symlink("./nowhere", tmpDir.Join(fs.MustRelPath("lnk")).String()), ShouldBeNil)

			Convey("lstat sees the symlink itself", func() {
				stat, err := afs.LStat(fs.MustRelPath("lnk"))
				So(err, ShouldBeNil)
				So(stat.Type, ShouldEqual, fs.Type_Symlink)
			})
			Convey("stat follows it (and here finds nothing)", func() {
				_, err := afs.Stat(fs.MustRelPath("lnk"))
				So(err, ShouldNotBeNil)
			})
			Convey("fifos are special files", func() {
				So(unix.Mkfifo(tmpDir.Join(fs.MustRelPath("pipe")).String(), 0644), ShouldBeNil)
				stat := testutil.ShouldStat(afs, fs.MustRelPath("pipe"))
				So(stat.Type, ShouldEqual, fs.Type_Special)
				So(stat.Size, ShouldEqual, 0)
			})
			Convey("perms land exactly as requested", func() {
				f, err := afs.OpenFile(fs.MustRelPath("f"), os.O_CREATE|os.O_WRONLY, 0664)
				So(err, ShouldBeNil)
				So(f.Close(), ShouldBeNil)
				stat := testutil.ShouldStat(afs, fs.MustRelPath("f"))
				So(stat.Perms, ShouldEqual, fs.Perms(0664))
			})
		})
	})
}
