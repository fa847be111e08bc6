package billyfs

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"gopkg.in/src-d/go-billy.v4/memfs"

	"github.com/polydawn/pak/fs"
	"github.com/polydawn/pak/fs/tests"
)

func TestAll(t *testing.T) {
	Convey("billyfs over memfs conformance tests", t, func() {
		afs := New(memfs.New())

		So(afs.BasePath(), ShouldResemble, fs.AbsolutePath{})
		tests.CheckBaseLstat(afs)
		tests.CheckMkdirLstatRoundtrip(afs)
		tests.CheckDeepMkdirError(afs)
		tests.CheckFileRoundtrip(afs)
		tests.CheckReadDirNames(afs)
		tests.CheckBreakoutRejected(afs)
	})
}
