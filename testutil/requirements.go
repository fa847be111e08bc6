package testutil

import (
	"fmt"
	"strings"

	"github.com/smartystreets/goconvey/convey"

	"github.com/polydawn/pak/caps"
)

// A condition of the host that some tests can't do without.
type Requirement struct {
	Name  string
	Check func() bool
}

/*
	Satisfied when writing into a read-only directory really fails for us.
	Root (or anything holding CAP_DAC_OVERRIDE) sails through, so the
	permission-denied cases have nothing to observe.
*/
var RequiresFilePermsEnforced = Requirement{"read-only dirs refuse writes", func() bool { return caps.Probe().ReadonlyDirsHold() }}

/*
	Wraps a Convey body so it only runs when every requirement holds.
	Otherwise the body is replaced by a skipped Convey naming what was
	missing.

	Call as `Requires(reqA, reqB, func() {...})`.  The body may also take
	a `convey.C`.
*/
func Requires(reqs ...interface{}) func(c convey.C) {
	body := reqs[len(reqs)-1]
	var unmet []string
	for _, r := range reqs[:len(reqs)-1] {
		req := r.(Requirement)
		if !req.Check() {
			unmet = append(unmet, req.Name)
		}
	}
	if len(unmet) > 0 {
		return func(c convey.C) {
			convey.Convey(fmt.Sprintf("Needs: %s", strings.Join(unmet, "; ")), nil)
		}
	}
	return func(c convey.C) {
		switch body := body.(type) {
		case func():
			body()
		case func(c convey.C):
			body(c)
		default:
			panic(fmt.Errorf("testutil.Requires: last argument must be a test func, got %T", body))
		}
	}
}
