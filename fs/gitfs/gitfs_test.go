package gitfs

import (
	"io/ioutil"
	"os"
	"sort"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/warpfork/go-errcat"
	"gopkg.in/src-d/go-git.v4"
	"gopkg.in/src-d/go-git.v4/plumbing/object"

	"github.com/polydawn/pak/fs"
	"github.com/polydawn/pak/testutil"
)

func commitFixture(repoPath fs.AbsolutePath, files map[string]string) {
	repo, err := git.PlainInit(repoPath.String(), false)
	So(err, ShouldBeNil)
	wt, err := repo.Worktree()
	So(err, ShouldBeNil)
	for name, body := range files {
		p := repoPath.Join(fs.MustRelPath(name))
		So(os.MkdirAll(p.Dir().String(), 0755), ShouldBeNil)
		So(ioutil.WriteFile(p.String(), []byte(body), 0644), ShouldBeNil)
		_, err := wt.Add(name)
		So(err, ShouldBeNil)
	}
	_, err = wt.Commit("fixture", &git.CommitOptions{
		Author: &object.Signature{Name: "fixture", Email: "fixture@example.net", When: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)},
	})
	So(err, ShouldBeNil)
}

func TestGitFS(t *testing.T) {
	Convey("gitfs over a committed tree", t, func() {
		testutil.WithTmpdir(func(tmpDir fs.AbsolutePath) {
			commitFixture(tmpDir, map[string]string{
				"a.txt":     "abc",
				"sub/b.txt": "z",
			})
			// Uncommitted; must not be visible.
			So(ioutil.WriteFile(tmpDir.Join(fs.MustRelPath("dirty.txt")).String(), []byte("nope"), 0644), ShouldBeNil)

			afs, err := Open(tmpDir, "HEAD")
			So(err, ShouldBeNil)

			Convey("the root lists committed names only", func() {
				names, err := afs.ReadDirNames(fs.RelPath{})
				So(err, ShouldBeNil)
				sort.Strings(names)
				So(names, ShouldResemble, []string{"a.txt", "sub"})
			})
			Convey("files stat with their blob size", func() {
				stat, err := afs.LStat(fs.MustRelPath("sub/b.txt"))
				So(err, ShouldBeNil)
				So(stat.Type, ShouldEqual, fs.Type_File)
				So(stat.Size, ShouldEqual, 1)
				stat, err = afs.LStat(fs.MustRelPath("sub"))
				So(err, ShouldBeNil)
				So(stat.Type, ShouldEqual, fs.Type_Dir)
			})
			Convey("files read back their committed body", func() {
				f, err := afs.OpenFile(fs.MustRelPath("a.txt"), os.O_RDONLY, 0)
				So(err, ShouldBeNil)
				bs, err := ioutil.ReadAll(f)
				So(err, ShouldBeNil)
				So(f.Close(), ShouldBeNil)
				So(string(bs), ShouldEqual, "abc")
			})
			Convey("missing names are ErrNotExists", func() {
				_, err := afs.LStat(fs.MustRelPath("dirty.txt"))
				So(err, errcat.ErrorShouldHaveCategory, fs.ErrNotExists)
			})
			Convey("writes are refused", func() {
				_, err := afs.OpenFile(fs.MustRelPath("new"), os.O_CREATE|os.O_WRONLY, 0644)
				So(err, errcat.ErrorShouldHaveCategory, fs.ErrPermission)
				So(afs.Mkdir(fs.MustRelPath("d"), 0755), errcat.ErrorShouldHaveCategory, fs.ErrPermission)
			})
		})
		Convey("unknown revisions are ErrNotExists", func() {
			testutil.WithTmpdir(func(tmpDir fs.AbsolutePath) {
				commitFixture(tmpDir, map[string]string{"a": "a"})
				_, err := Open(tmpDir, "no-such-branch")
				So(err, errcat.ErrorShouldHaveCategory, fs.ErrNotExists)
			})
		})
	})
}
