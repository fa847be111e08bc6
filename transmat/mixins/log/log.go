/*
	Helper functions for emitting structured logs to the pak.Monitor.

	These functions encompass most common lifecycle events in packing and
	unpacking, and using them A) saves typing and B) keeps the common stuff
	formatted in a common way between pack, unpack, and verify.
	Operations can of course also write their own log events raw; it is freetext.

	Every helper is a no-op when the monitor has no channel.
*/
package log

import (
	"fmt"
	"strconv"
	"time"

	"github.com/polydawn/pak"
)

func emit(mon pak.Monitor, level pak.LogLevel, msg string, detail ...[2]string) {
	if mon.Chan == nil {
		return
	}
	mon.Chan <- pak.Event{
		Log: &pak.Event_Log{
			Time:   time.Now(),
			Level:  level,
			Msg:    msg,
			Detail: detail,
		},
	}
}

func FilePacked(mon pak.Monitor, name string, offset, size int32) {
	emit(mon, pak.LogInfo, "packed "+name,
		[2]string{"name", name},
		[2]string{"offset", strconv.Itoa(int(offset))},
		[2]string{"size", strconv.Itoa(int(size))},
	)
}

func FileUnpacked(mon pak.Monitor, name string, offset, size int32) {
	emit(mon, pak.LogInfo, "unpacked "+name,
		[2]string{"name", name},
		[2]string{"offset", strconv.Itoa(int(offset))},
		[2]string{"size", strconv.Itoa(int(size))},
	)
}

// Typically for dangling symlinks and device nodes; only file contents are packed.
func FileSkipped(mon pak.Monitor, name string, kind fmt.Stringer) {
	emit(mon, pak.LogWarn, fmt.Sprintf("skipped %s: %s is not a regular file", name, kind),
		[2]string{"name", name},
		[2]string{"type", kind.String()},
	)
}

func SymlinkFollowed(mon pak.Monitor, name string) {
	emit(mon, pak.LogDebug, "followed symlink "+name,
		[2]string{"name", name},
	)
}

func DirectoryInferred(mon pak.Monitor, dir string, forName string) {
	emit(mon, pak.LogDebug, "inferred directory "+dir,
		[2]string{"dir", dir},
		[2]string{"for", forName},
	)
}

func NameTruncated(mon pak.Monitor, name string, stored string) {
	emit(mon, pak.LogWarn, fmt.Sprintf("name of %d bytes truncated to %d: %s", len(name), len(stored), name),
		[2]string{"name", name},
		[2]string{"stored", stored},
	)
}

func TableRemainderIgnored(mon pak.Monitor, tableSize int32, remainder int32) {
	emit(mon, pak.LogWarn, fmt.Sprintf("table size %d is not a whole number of entries; ignoring the last %d bytes", tableSize, remainder),
		[2]string{"tableSize", strconv.Itoa(int(tableSize))},
		[2]string{"remainder", strconv.Itoa(int(remainder))},
	)
}

func DuplicateName(mon pak.Monitor, name string) {
	emit(mon, pak.LogWarn, "entry "+name+" appears more than once; later entries overwrite earlier ones",
		[2]string{"name", name},
	)
}

func ArchiveReplaced(mon pak.Monitor, path string) {
	emit(mon, pak.LogInfo, "replaced existing archive "+path,
		[2]string{"path", path},
	)
}

func Progress(mon pak.Monitor, phase string, desc string, done, total int) {
	if mon.Chan == nil {
		return
	}
	mon.Chan <- pak.Event{
		Progress: &pak.Event_Progress{
			Phase:     phase,
			Desc:      desc,
			TotalProg: done,
			TotalWork: total,
		},
	}
}
