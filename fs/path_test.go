package fs

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/warpfork/go-errcat"
)

func TestParseRelPath(t *testing.T) {
	Convey("Parsing relative paths", t, func() {
		for _, tr := range []struct {
			in     string
			str    string
			bare   string
			goesUp bool
		}{
			{"", ".", ".", false},
			{".", ".", ".", false},
			{"./", ".", ".", false},
			{"a.txt", "./a.txt", "a.txt", false},
			{"sub/b.txt", "./sub/b.txt", "sub/b.txt", false},
			{"sub//b.txt", "./sub/b.txt", "sub/b.txt", false},
			{"sub/./b.txt", "./sub/b.txt", "sub/b.txt", false},
			{"a/..", ".", ".", false},
			{"..", "..", "..", true},
			{"../evil", "../evil", "../evil", true},
			{"a/../../evil", "../evil", "../evil", true},
			{"..aa", "./..aa", "..aa", false},
			{".hidden", "./.hidden", ".hidden", false},
			{`dir\file`, `./dir\file`, `dir\file`, false},
		} {
			Convey(tr.in, func() {
				p, err := ParseRelPath(tr.in)
				So(err, ShouldBeNil)
				So(p.String(), ShouldEqual, tr.str)
				So(p.Bare(), ShouldEqual, tr.bare)
				So(p.GoesUp(), ShouldEqual, tr.goesUp)
			})
		}

		Convey("Leading slashes are refused", func() {
			_, err := ParseRelPath("/etc/evil")
			So(err, errcat.ErrorShouldHaveCategory, ErrInvalidPath)
		})
	})
}

func TestRelPathParts(t *testing.T) {
	Convey("Splitting and joining relative paths", t, func() {
		p := MustRelPath("a/bb/ccc")

		Convey("Dir and Last", func() {
			So(p.Dir(), ShouldResemble, MustRelPath("a/bb"))
			So(p.Last(), ShouldEqual, "ccc")
			So(p.Dir().Dir(), ShouldResemble, MustRelPath("a"))
			So(p.Dir().Dir().Dir(), ShouldResemble, RelPath{})
			So(RelPath{}.Dir(), ShouldResemble, RelPath{})
			So(RelPath{}.Last(), ShouldEqual, ".")
		})

		Convey("SplitParent lists ancestors shallowest first", func() {
			So(p.SplitParent(), ShouldResemble, []RelPath{MustRelPath("a"), MustRelPath("a/bb")})
			So(MustRelPath("top.txt").SplitParent(), ShouldBeEmpty)
			So(RelPath{}.SplitParent(), ShouldBeEmpty)
		})

		Convey("Join", func() {
			So(MustRelPath("a").Join(MustRelPath("bb/ccc")), ShouldResemble, p)
			So(RelPath{}.Join(p), ShouldResemble, p)
			So(p.Join(RelPath{}), ShouldResemble, p)
			So(p.Join(MustRelPath("d")).Dir(), ShouldResemble, p)
		})
	})
}

func TestAbsolutePath(t *testing.T) {
	Convey("Absolute paths", t, func() {
		Convey("Parsing cleans, and refuses relative input", func() {
			p, err := ParseAbsolutePath("/tmp//work/./out.pak")
			So(err, ShouldBeNil)
			So(p.String(), ShouldEqual, "/tmp/work/out.pak")
			_, err = ParseAbsolutePath("work/out.pak")
			So(err, errcat.ErrorShouldHaveCategory, ErrInvalidPath)
		})

		Convey("Root is the zero value", func() {
			So(MustAbsolutePath("/"), ShouldResemble, AbsolutePath{})
			So(AbsolutePath{}.IsRoot(), ShouldBeTrue)
			So(AbsolutePath{}.String(), ShouldEqual, "/")
			So(MustAbsolutePath("/a/..").IsRoot(), ShouldBeTrue)
		})

		Convey("Dir, Last, and Join", func() {
			p := MustAbsolutePath("/tmp/work")
			So(p.Dir(), ShouldResemble, MustAbsolutePath("/tmp"))
			So(p.Dir().Dir(), ShouldResemble, AbsolutePath{})
			So(p.Last(), ShouldEqual, "work")
			So(p.Join(MustRelPath("sub/b.txt")).String(), ShouldEqual, "/tmp/work/sub/b.txt")
			So(p.Join(MustRelPath("sub/b.txt")).Dir().Last(), ShouldEqual, "sub")
			So(AbsolutePath{}.Join(MustRelPath("etc")).String(), ShouldEqual, "/etc")
		})
	})
}
