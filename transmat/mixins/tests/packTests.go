package tests

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/warpfork/go-errcat"

	"github.com/polydawn/pak"
	"github.com/polydawn/pak/fs"
	"github.com/polydawn/pak/fs/osfs"
	"github.com/polydawn/pak/testutil"
)

func CheckPackProducesConsistentArchive(pack pak.PackFunc) {
	Convey("Applying the PackFunc to a filesystem twice should produce the same archive", func() {
		for _, fixture := range AllFixtures {
			Convey(fmt.Sprintf("- Fixture %q", fixture.Name), func() {
				testutil.WithTmpdir(func(tmpDir fs.AbsolutePath) {
					fixturePath := tmpDir.Join(fs.MustRelPath("fixture"))
					PlaceFixture(osfs.New(fixturePath), fixture.Files)
					// Pack once.
					path1, archiveID1, err := pack(
						context.Background(),
						fixturePath.String(),
						pak.Options{Output: tmpDir.Join(fs.MustRelPath("one.pak")).String()},
						pak.Monitor{},
					)
					So(err, ShouldBeNil)
					// Pack from the same path a second time.
					path2, archiveID2, err := pack(
						context.Background(),
						fixturePath.String(),
						pak.Options{Output: tmpDir.Join(fs.MustRelPath("two.pak")).String()},
						pak.Monitor{},
					)
					So(err, ShouldBeNil)
					// Should be same output.
					//  This is both an assertion that the hash is consistent,
					//  and that packing isn't making arbitrary mutations during its passage.
					So(archiveID1, ShouldResemble, archiveID2)
					So(archiveID1.Kind, ShouldEqual, pak.ArchiveKind)
					bs1, err := ioutil.ReadFile(path1)
					So(err, ShouldBeNil)
					bs2, err := ioutil.ReadFile(path2)
					So(err, ShouldBeNil)
					So(bs1, ShouldResemble, bs2)
				})
			})
		}
	})
	Convey("Archives of differing content should have differing IDs", func() {
		testutil.WithTmpdir(func(tmpDir fs.AbsolutePath) {
			var ids []pak.ArchiveID
			for i, fixture := range [][]FixtureFile{FixtureAlpha, FixtureAlphaDiffContent} {
				fixturePath := tmpDir.Join(fs.MustRelPath(fmt.Sprintf("fixture%d", i)))
				PlaceFixture(osfs.New(fixturePath), fixture)
				_, archiveID, err := pack(context.Background(), fixturePath.String(), pak.Options{}, pak.Monitor{})
				So(err, ShouldBeNil)
				ids = append(ids, archiveID)
			}
			So(ids[0], ShouldNotResemble, ids[1])
		})
	})
	Convey("Packing through a symlink to a dir should match packing the dir", func() {
		testutil.WithTmpdir(func(tmpDir fs.AbsolutePath) {
			realPath := tmpDir.Join(fs.MustRelPath("real"))
			linkPath := tmpDir.Join(fs.MustRelPath("link"))
			PlaceFixture(osfs.New(realPath), FixtureWorked)
			So(os.Symlink("real", linkPath.String()), ShouldBeNil)

			path1, archiveID1, err := pack(
				context.Background(),
				realPath.String(),
				pak.Options{},
				pak.Monitor{},
			)
			So(err, ShouldBeNil)
			path2, archiveID2, err := pack(
				context.Background(),
				linkPath.String(),
				pak.Options{},
				pak.Monitor{},
			)
			So(err, ShouldBeNil)
			So(path2, ShouldEqual, tmpDir.Join(fs.MustRelPath("link.pak")).String())
			So(archiveID2, ShouldResemble, archiveID1)
			bs1, err := ioutil.ReadFile(path1)
			So(err, ShouldBeNil)
			bs2, err := ioutil.ReadFile(path2)
			So(err, ShouldBeNil)
			So(bs2, ShouldResemble, bs1)
		})
	})
}

func CheckPackErrorsGracefully(pack pak.PackFunc) {
	Convey("Packing a path that doesn't exist should fail as not found", func() {
		testutil.WithTmpdir(func(tmpDir fs.AbsolutePath) {
			_, _, err := pack(
				context.Background(),
				tmpDir.Join(fs.MustRelPath("nonexistent")).String(),
				pak.Options{},
				pak.Monitor{},
			)
			So(err, errcat.ErrorShouldHaveCategory, pak.ErrNotFound)
		})
	})
	Convey("Packing a file instead of a dir should fail as a usage error", func() {
		testutil.WithTmpdir(func(tmpDir fs.AbsolutePath) {
			So(ioutil.WriteFile(tmpDir.Join(fs.MustRelPath("plain")).String(), []byte("x"), 0644), ShouldBeNil)
			_, _, err := pack(
				context.Background(),
				tmpDir.Join(fs.MustRelPath("plain")).String(),
				pak.Options{},
				pak.Monitor{},
			)
			So(err, errcat.ErrorShouldHaveCategory, pak.ErrUsage)
		})
	})
	Convey("Packing a relative path should fail as a usage error", func() {
		_, _, err := pack(context.Background(), "some/dir", pak.Options{}, pak.Monitor{})
		So(err, errcat.ErrorShouldHaveCategory, pak.ErrUsage)
	})
	Convey("Packing into the directory being packed should be refused", func() {
		testutil.WithTmpdir(func(tmpDir fs.AbsolutePath) {
			PlaceFixture(osfs.New(tmpDir), FixtureAlpha)
			_, _, err := pack(
				context.Background(),
				tmpDir.String(),
				pak.Options{Output: tmpDir.Join(fs.MustRelPath("self.pak")).String()},
				pak.Monitor{},
			)
			So(err, errcat.ErrorShouldHaveCategory, pak.ErrUsage)
		})
	})
	Convey("Packing where the output can't be written should fail as an io error", testutil.Requires(
		testutil.RequiresFilePermsEnforced,
		func() {
			testutil.WithTmpdir(func(tmpDir fs.AbsolutePath) {
				fixturePath := tmpDir.Join(fs.MustRelPath("fixture"))
				PlaceFixture(osfs.New(fixturePath), FixtureAlpha)
				So(os.Mkdir(tmpDir.Join(fs.MustRelPath("locked")).String(), 0555), ShouldBeNil)
				_, _, err := pack(
					context.Background(),
					fixturePath.String(),
					pak.Options{Output: tmpDir.Join(fs.MustRelPath("locked/out.pak")).String()},
					pak.Monitor{},
				)
				So(err, errcat.ErrorShouldHaveCategory, pak.ErrIO)
			})
		},
	))
}
