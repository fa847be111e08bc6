package main

import (
	"bytes"
	"context"
	"io/ioutil"
	"os"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/polydawn/pak"
	"github.com/polydawn/pak/fs"
	"github.com/polydawn/pak/fs/osfs"
	"github.com/polydawn/pak/testutil"
	"github.com/polydawn/pak/transmat/mixins/tests"
)

func run(args ...string) (pak.ExitCode, string, string) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	stdin := &bytes.Buffer{}
	exitCode := Main(context.Background(), append([]string{"pak"}, args...), stdin, stdout, stderr)
	return exitCode, stdout.String(), stderr.String()
}

func TestWithoutArgs(t *testing.T) {
	Convey("pak: usage complaint printed to stderr", t, func() {
		exitCode, stdout, stderr := run()
		t.Log(stdout)
		t.Log(stderr)
		So(stdout, ShouldBeBlank)
		So(stderr, ShouldNotBeBlank)
		So(exitCode, ShouldEqual, pak.ExitUsage)
	})
}

func TestAuto(t *testing.T) {
	Convey("pak: one path argument, direction picked by what it names", t, func() {
		testutil.WithTmpdir(func(tmpDir fs.AbsolutePath) {
			srcDir := tmpDir.Join(fs.MustRelPath("worked"))
			So(os.Mkdir(srcDir.String(), 0755), ShouldBeNil)
			tests.PlaceFixture(osfs.New(srcDir), tests.FixtureWorked)
			archivePath := tmpDir.String() + "/worked.pak"

			Convey("A directory is packed beside itself", func() {
				exitCode, stdout, stderr := run(srcDir.String())
				t.Log(stderr)
				So(exitCode, ShouldEqual, pak.ExitSuccess)
				So(stdout, ShouldStartWith, archivePath+"\t")
				So(stderr, ShouldContainSubstring, "packed")

				body, err := ioutil.ReadFile(archivePath)
				So(err, ShouldBeNil)
				So(body, ShouldHaveLength, 286)
				So(string(body[:10]), ShouldEqual, "PACK\x01\x01\x10\x01\x00\x00")
				So(string(body[282:]), ShouldEqual, "abcz")

				Convey("And the archive is unpacked back into a directory", func() {
					So(os.RemoveAll(srcDir.String()), ShouldBeNil)
					exitCode, stdout, stderr := run(archivePath)
					t.Log(stderr)
					So(exitCode, ShouldEqual, pak.ExitSuccess)
					So(stdout, ShouldEqual, srcDir.String()+"\n")
					So(string(testutil.ShouldReadFile(srcDir, fs.MustRelPath("a.txt"))), ShouldEqual, "abc")
					So(string(testutil.ShouldReadFile(srcDir, fs.MustRelPath("sub/b.txt"))), ShouldEqual, "z")
				})

				Convey("And quiet mode keeps per-file logs off stderr", func() {
					exitCode, _, stderr := run("-q", srcDir.String())
					So(exitCode, ShouldEqual, pak.ExitSuccess)
					So(stderr, ShouldNotContainSubstring, "packed")
				})

				Convey("And ls in json reports the table", func() {
					exitCode, stdout, _ := run("--format=json", "ls", archivePath)
					So(exitCode, ShouldEqual, pak.ExitSuccess)
					So(strings.Count(stdout, "\n"), ShouldEqual, 1)
					So(stdout, ShouldContainSubstring, `"tableSize":272`)
					So(stdout, ShouldContainSubstring, `"name":"sub/b.txt"`)
				})

				Convey("And verify reports the same id pack did", func() {
					exitCode, verifyOut, _ := run("verify", archivePath)
					So(exitCode, ShouldEqual, pak.ExitSuccess)
					So(verifyOut, ShouldEqual, stdout)
				})
			})

			Convey("A missing path is file not found", func() {
				exitCode, stdout, stderr := run(tmpDir.String() + "/nope")
				So(exitCode, ShouldEqual, pak.ExitNotFound)
				So(stdout, ShouldBeBlank)
				So(stderr, ShouldContainSubstring, "file not found")
			})

			Convey("A file that isn't an archive is a format error", func() {
				junkPath := tmpDir.String() + "/junk.pak"
				So(ioutil.WriteFile(junkPath, []byte("not a pack file"), 0644), ShouldBeNil)
				exitCode, _, stderr := run(junkPath)
				So(exitCode, ShouldEqual, pak.ExitFormat)
				So(stderr, ShouldContainSubstring, "bad header")
				_, err := os.Stat(tmpDir.String() + "/junk")
				So(os.IsNotExist(err), ShouldBeTrue)
			})

			Convey("Errors are reported in the result object in json", func() {
				exitCode, stdout, _ := run("--format=json", tmpDir.String()+"/nope")
				So(exitCode, ShouldEqual, pak.ExitNotFound)
				So(stdout, ShouldContainSubstring, `"category":"pak-not-found"`)
			})
		})
	})
}

func TestExplicitCommands(t *testing.T) {
	Convey("pak: pack and unpack with explicit outputs", t, func() {
		testutil.WithTmpdir(func(tmpDir fs.AbsolutePath) {
			srcDir := tmpDir.Join(fs.MustRelPath("src"))
			So(os.Mkdir(srcDir.String(), 0755), ShouldBeNil)
			tests.PlaceFixture(osfs.New(srcDir), tests.FixtureWorked)
			archivePath := tmpDir.String() + "/out.bin"
			outDir := tmpDir.Join(fs.MustRelPath("dest"))

			exitCode, _, stderr := run("pack", "-o", archivePath, srcDir.String())
			t.Log(stderr)
			So(exitCode, ShouldEqual, pak.ExitSuccess)

			exitCode, stdout, stderr := run("unpack", "--output", outDir.String(), archivePath)
			t.Log(stderr)
			So(exitCode, ShouldEqual, pak.ExitSuccess)
			So(stdout, ShouldEqual, outDir.String()+"\n")
			So(string(testutil.ShouldReadFile(outDir, fs.MustRelPath("sub/b.txt"))), ShouldEqual, "z")

			Convey("Unpacking a directory is a usage error", func() {
				exitCode, _, _ := run("unpack", srcDir.String())
				So(exitCode, ShouldEqual, pak.ExitUsage)
			})
		})
	})
}
