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

func CheckRoundTrip(pack pak.PackFunc, unpack pak.UnpackFunc) {
	Convey("Round-trip pack and unpack of a directory should work...", func() {
		for _, fixture := range AllFixtures {
			Convey(fmt.Sprintf("- Fixture %q", fixture.Name), func() {
				testutil.WithTmpdir(func(tmpDir fs.AbsolutePath) {
					fixturePath := tmpDir.Join(fs.MustRelPath("fixture"))
					PlaceFixture(osfs.New(fixturePath), fixture.Files)
					// Pack beside the fixture.
					archivePath, _, err := pack(
						context.Background(),
						fixturePath.String(),
						pak.Options{},
						pak.Monitor{},
					)
					So(err, ShouldBeNil)
					So(archivePath, ShouldEqual, tmpDir.Join(fs.MustRelPath("fixture.pak")).String())
					// Unpack to a new path.
					unpackPath := tmpDir.Join(fs.MustRelPath("unpack"))
					outputPath, err := unpack(
						context.Background(),
						archivePath,
						pak.Options{Output: unpackPath.String()},
						pak.Monitor{},
					)
					Convey("...and agree on content", FailureContinues, func() {
						So(err, ShouldBeNil)
						So(outputPath, ShouldEqual, unpackPath.String())
						afs := osfs.New(unpackPath)
						for _, ff := range fixture.Files {
							switch ff.Metadata.Type {
							case fs.Type_File:
								So(testutil.ShouldReadFile(unpackPath, ff.Metadata.Name), ShouldResemble, ff.Body)
							case fs.Type_Dir:
								if ff.Metadata.Name == (fs.RelPath{}) || holdsFiles(fixture.Files, ff.Metadata.Name) {
									So(testutil.ShouldStat(afs, ff.Metadata.Name).Type, ShouldEqual, fs.Type_Dir)
								} else {
									_, err := afs.LStat(ff.Metadata.Name)
									So(err, errcat.ErrorShouldHaveCategory, fs.ErrNotExists)
								}
							}
						}
					})
				})
			})
		}
	})
}

func CheckUnpackErrorsGracefully(unpack pak.UnpackFunc) {
	Convey("Unpacking a path that doesn't exist should fail as not found", func() {
		testutil.WithTmpdir(func(tmpDir fs.AbsolutePath) {
			_, err := unpack(
				context.Background(),
				tmpDir.Join(fs.MustRelPath("nonexistent.pak")).String(),
				pak.Options{},
				pak.Monitor{},
			)
			So(err, errcat.ErrorShouldHaveCategory, pak.ErrNotFound)
		})
	})
	Convey("Unpacking a file that isn't an archive should fail before writing anything", func() {
		testutil.WithTmpdir(func(tmpDir fs.AbsolutePath) {
			archivePath := tmpDir.Join(fs.MustRelPath("junk.pak"))
			So(ioutil.WriteFile(archivePath.String(), []byte("this is not a pak file"), 0644), ShouldBeNil)
			_, err := unpack(context.Background(), archivePath.String(), pak.Options{}, pak.Monitor{})
			So(err, errcat.ErrorShouldHaveCategory, pak.ErrFormat)
			So(err.Error(), ShouldContainSubstring, "bad header")
			_, err = os.Lstat(tmpDir.Join(fs.MustRelPath("junk")).String())
			So(os.IsNotExist(err), ShouldBeTrue)
		})
	})
	Convey("Unpacking an archive of another version should fail before writing anything", func() {
		testutil.WithTmpdir(func(tmpDir fs.AbsolutePath) {
			archivePath := tmpDir.Join(fs.MustRelPath("future.pak"))
			So(ioutil.WriteFile(archivePath.String(), []byte("PACK\x02\x02\x00\x00\x00\x00"), 0644), ShouldBeNil)
			_, err := unpack(context.Background(), archivePath.String(), pak.Options{}, pak.Monitor{})
			So(err, errcat.ErrorShouldHaveCategory, pak.ErrFormat)
			So(err.Error(), ShouldContainSubstring, "version mismatch")
			_, err = os.Lstat(tmpDir.Join(fs.MustRelPath("future")).String())
			So(os.IsNotExist(err), ShouldBeTrue)
		})
	})
	Convey("Unpacking a directory should fail as a usage error", func() {
		testutil.WithTmpdir(func(tmpDir fs.AbsolutePath) {
			_, err := unpack(context.Background(), tmpDir.String(), pak.Options{}, pak.Monitor{})
			So(err, errcat.ErrorShouldHaveCategory, pak.ErrUsage)
		})
	})
	Convey("Unpacking a relative path should fail as a usage error", func() {
		_, err := unpack(context.Background(), "x.pak", pak.Options{}, pak.Monitor{})
		So(err, errcat.ErrorShouldHaveCategory, pak.ErrUsage)
	})
}
