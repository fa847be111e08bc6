/*
	Answers questions about what this process is allowed to get away with
	on the host filesystem.

	Pack and unpack behave the same regardless; these answers matter to
	tests, which need to know whether a permission-denied case can be
	provoked at all.
*/
package caps

import (
	"os"
	"runtime"

	"github.com/syndtr/gocapability/capability"
)

type Host struct {
	linux bool
	uid   int
	set   capability.Capabilities // nil unless linux.
}

// Inspects the current process.  Panics if linux won't report our capability set.
func Probe() Host {
	h := Host{
		linux: runtime.GOOS == "linux",
		uid:   os.Getuid(),
	}
	if !h.linux {
		return h
	}
	set, err := capability.NewPid2(0)
	if err != nil {
		panic(err)
	}
	if err := set.Load(); err != nil {
		panic(err)
	}
	h.set = set
	return h
}

/*
	True if mode bits on files and dirs don't stop us.

	On linux that's CAP_DAC_OVERRIDE in the effective set, which root has
	unless it's been dropped; elsewhere we can only go by uid.
*/
func (h Host) IgnoresFilePerms() bool {
	if h.set == nil {
		return h.uid == 0
	}
	return h.set.Get(capability.EFFECTIVE, capability.CAP_DAC_OVERRIDE)
}

// True if a read-only directory will actually refuse new entries from us.
func (h Host) ReadonlyDirsHold() bool {
	return !h.IgnoresFilePerms()
}
