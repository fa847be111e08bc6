package pak

import (
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/warpfork/go-errcat"
)

func TestExitCodes(t *testing.T) {
	Convey("Every error category has its own exit code", t, func() {
		seen := map[ExitCode]ErrorCategory{}
		for _, tr := range []struct {
			cat  ErrorCategory
			code ExitCode
		}{
			{ErrUsage, ExitUsage},
			{ErrNotFound, ExitNotFound},
			{ErrFormat, ExitFormat},
			{ErrIO, ExitIO},
			{ErrPackInvalid, ExitPackInvalid},
			{ErrCancelled, ExitCancelled},
		} {
			So(ExitCodeForError(errcat.Errorf(tr.cat, "x")), ShouldEqual, tr.code)
			So(tr.code, ShouldNotEqual, ExitSuccess)
			So(seen, ShouldNotContainKey, tr.code)
			seen[tr.code] = tr.cat
		}
		So(ExitCodeForError(nil), ShouldEqual, ExitSuccess)
		So(ExitCodeForError(fmt.Errorf("uncategorized")), ShouldEqual, ExitTODO)
	})
}
