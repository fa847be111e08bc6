package fsOp

import (
	"bytes"
	"io"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/warpfork/go-errcat"

	"github.com/polydawn/pak/fs"
	"github.com/polydawn/pak/fs/osfs"
	. "github.com/polydawn/pak/testutil"
)

func TestMkdirAll(t *testing.T) {
	Convey("MkdirAll:", t, func() {
		WithTmpdir(func(tmpDir fs.AbsolutePath) {
			afs := osfs.New(tmpDir)
			shouldBeDir := func(p string) {
				So(ShouldStat(afs, fs.MustRelPath(p)).Type, ShouldEqual, fs.Type_Dir)
			}

			Convey("the base path alone is a no-op", func() {
				So(MkdirAll(afs, fs.RelPath{}, 0755), ShouldBeNil)
			})
			Convey("a dir that's already there is fine", func() {
				So(os.Mkdir(tmpDir.Join(fs.MustRelPath("sub")).String(), 0700), ShouldBeNil)
				So(MkdirAll(afs, fs.MustRelPath("sub"), 0755), ShouldBeNil)
				So(ShouldStat(afs, fs.MustRelPath("sub")).Perms, ShouldEqual, fs.Perms(0700))
			})
			Convey("every missing ancestor is made", func() {
				So(MkdirAll(afs, fs.MustRelPath("a/b/c"), 0755), ShouldBeNil)
				shouldBeDir("a")
				shouldBeDir("a/b")
				shouldBeDir("a/b/c")
				So(ShouldStat(afs, fs.MustRelPath("a/b")).Perms, ShouldEqual, fs.Perms(0755))
			})
			Convey("a file in the way is ErrNotDir", func() {
				mustPlaceFile(afs, fs.Metadata{Name: fs.MustRelPath("a.txt"), Type: fs.Type_File, Perms: 0644}, nil)
				So(MkdirAll(afs, fs.MustRelPath("a.txt"), 0755), errcat.ErrorShouldHaveCategory, fs.ErrNotDir)
				So(MkdirAll(afs, fs.MustRelPath("a.txt/sub"), 0755), errcat.ErrorShouldHaveCategory, fs.ErrNotDir)
			})
			Convey("symlinks to dirs are followed", func() {
				So(MkdirAll(afs, fs.MustRelPath("real"), 0755), ShouldBeNil)
				So(os.Symlink("./real", tmpDir.Join(fs.MustRelPath("lnk")).String()), ShouldBeNil)
				So(MkdirAll(afs, fs.MustRelPath("lnk/deeper"), 0755), ShouldBeNil)
				shouldBeDir("real/deeper")
			})
			Convey("a dangling symlink is ErrNotDir", func() {
				So(os.Symlink("./nowhere", tmpDir.Join(fs.MustRelPath("lnk")).String()), ShouldBeNil)
				So(MkdirAll(afs, fs.MustRelPath("lnk/deeper"), 0755), errcat.ErrorShouldHaveCategory, fs.ErrNotDir)
			})
			Convey("a missing base is ErrNotExists", func() {
				afs := osfs.New(tmpDir.Join(fs.MustRelPath("nope")))
				So(MkdirAll(afs, fs.MustRelPath("dir"), 0755), errcat.ErrorShouldHaveCategory, fs.ErrNotExists)
			})
		})
	})
}

func mustPlaceFile(afs fs.FS, fmeta fs.Metadata, body io.Reader) {
	if fmeta.Type == fs.Type_File && body == nil {
		body = &bytes.Buffer{}
	}
	if err := PlaceFile(afs, fmeta, body); err != nil {
		panic(err)
	}
}
