package pak

import (
	"time"
)

/*
	Optional event stream for long-running operations.

	Operations that accept a Monitor close `Chan` when they return,
	whether they succeed or fail.  The caller must keep draining it
	until then.  A nil `Chan` disables reporting entirely.
*/
type Monitor struct {
	Chan chan<- Event
}

/*
	A union: exactly one of the fields is set.
*/
type Event struct {
	Log      *Event_Log      `refmt:"log,omitempty"`
	Progress *Event_Progress `refmt:"prog,omitempty"`
	Result   *Event_Result   `refmt:"result,omitempty"`
}

type Event_Log struct {
	Time   time.Time   `refmt:"t"`
	Level  LogLevel    `refmt:"lvl"`
	Msg    string      `refmt:"msg"`
	Detail [][2]string `refmt:"detail,omitempty"`
}

type LogLevel int8

const (
	LogError = LogLevel(4) // Error log lines are rare and should be serious.
	LogWarn  = LogLevel(3) // Warnings are used to note anything that was tolerated but lossy, such as a truncated name.
	LogInfo  = LogLevel(2) // Info logs report each file handled.
	LogDebug = LogLevel(1) // Debug logs narrate decisions like inferring directories.
)

func (l LogLevel) String() string {
	switch l {
	case LogError:
		return "error"
	case LogWarn:
		return "warn"
	case LogInfo:
		return "info"
	case LogDebug:
		return "debug"
	default:
		return "unknown"
	}
}

type Event_Progress struct {
	Phase     string `refmt:"phase"` // "pack", "unpack", or "verify".
	Desc      string `refmt:"desc"`  // Name of the entry just handled.
	TotalProg int    `refmt:"prog"`  // Entries handled so far.
	TotalWork int    `refmt:"work"`  // Entries in total.
}

/*
	The final outcome of a command.
	Which fields are set depends on the operation:
	pack sets Path (the archive) and ArchiveID;
	unpack sets Path (the output dir);
	ls sets Listing; verify sets ArchiveID and Listing.
*/
type Event_Result struct {
	Path      string     `refmt:"path,omitempty"`
	ArchiveID ArchiveID  `refmt:"archiveID"`
	Listing   *Listing   `refmt:"listing,omitempty"`
	Error     *ErrorInfo `refmt:"error,omitempty"`
}

func (r *Event_Result) SetError(err error) {
	r.Error = NewErrorInfo(err)
}

/*
	The table of an archive, as reported by ls and verify.
*/
type Listing struct {
	TableSize int32          `refmt:"tableSize"`
	Entries   []ListingEntry `refmt:"entries"`
}

type ListingEntry struct {
	Name   string `refmt:"name"`
	Offset int32  `refmt:"offset"`
	Size   int32  `refmt:"size"`
}
