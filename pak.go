/*
	Vocabulary for pak: converting between a directory tree and a single
	PACK archive file (conventionally named `*.pak`).

	The archive layout itself lives in the `format` package;
	the operations (pack, unpack, list, verify) live in `transmat/pak`.
	This package holds the types shared between them and the command:
	archive identifiers, error categories and exit codes, the monitor
	event stream, and the refmt atlas for serializing all of it.
*/
package pak

import (
	"strings"

	. "github.com/warpfork/go-errcat"
)

/*
	Identifies an archive by the hash of its exact bytes.
	Serialized as a string "kind:hash".

	Packing the same tree twice yields the same ArchiveID,
	and verifying an archive recomputes the same ArchiveID it was packed with.
*/
type ArchiveID struct {
	Kind string
	Hash string
}

const ArchiveKind = "pak"

func (x ArchiveID) String() string {
	if x == (ArchiveID{}) {
		return ""
	}
	return x.Kind + ":" + x.Hash
}

func ParseArchiveID(x string) (ArchiveID, error) {
	if x == "" {
		return ArchiveID{}, nil
	}
	ss := strings.SplitN(x, ":", 2)
	if len(ss) < 2 || ss[0] == "" || ss[1] == "" {
		return ArchiveID{}, Errorf(ErrUsage, "archive IDs must be of the form \"kind:hash\" (not %q)", x)
	}
	return ArchiveID{ss[0], ss[1]}, nil
}

/*
	Options common to the archive operations.
*/
type Options struct {
	// Reject table sizes that aren't a whole number of entries, and names
	// longer than an entry can hold, instead of warning and carrying on.
	Strict bool

	// Absolute path overriding where output lands.
	// For pack, the archive file; for unpack, the output directory.
	// Empty means derive it from the input path.
	Output string
}
