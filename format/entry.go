package pakformat

import (
	"encoding/binary"
	"io"
	"math"

	. "github.com/warpfork/go-errcat"

	"github.com/polydawn/pak"
)

type Entry struct {
	Name   string // Relative path, "/"-separated.  Bytes past NameSize are dropped when written.
	Offset int32  // Absolute byte offset of the body in the archive.
	Size   int32  // Length of the body in bytes.
}

func (e Entry) End() int64 {
	return int64(e.Offset) + int64(e.Size)
}

func MarshalEntry(e Entry) [EntrySize]byte {
	var buf [EntrySize]byte
	copy(buf[0:NameSize], PadOrTruncate([]byte(e.Name), NameSize))
	binary.LittleEndian.PutUint32(buf[NameSize:NameSize+4], uint32(e.Offset))
	binary.LittleEndian.PutUint32(buf[NameSize+4:EntrySize], uint32(e.Size))
	return buf
}

func UnmarshalEntry(buf []byte) Entry {
	return Entry{
		Name:   DecodeName(buf[0:NameSize]),
		Offset: int32(binary.LittleEndian.Uint32(buf[NameSize : NameSize+4])),
		Size:   int32(binary.LittleEndian.Uint32(buf[NameSize+4 : EntrySize])),
	}
}

func WriteEntry(w io.Writer, e Entry) error {
	buf := MarshalEntry(e)
	if _, err := w.Write(buf[:]); err != nil {
		return Errorf(pak.ErrIO, "error writing pak table entry %q: %s", e.Name, err)
	}
	return nil
}

func WriteTable(w io.Writer, entries []Entry) error {
	for _, e := range entries {
		if err := WriteEntry(w, e); err != nil {
			return err
		}
	}
	return nil
}

/*
	Reads the table following a header.

	Only whole entries are read.  A table size that isn't a multiple of
	EntrySize is ErrFormat in strict mode; otherwise the remainder is
	ignored, and it's up to the caller to warn about it.
	A negative table size is always ErrFormat.
	The stream ending before the last whole entry is ErrIO.
*/
func ReadTable(r io.Reader, h Header, strict bool) ([]Entry, error) {
	if h.TableSize < 0 {
		return nil, Errorf(pak.ErrFormat, "corrupt pak: negative table size %d", h.TableSize)
	}
	if strict && h.Remainder() != 0 {
		return nil, Errorf(pak.ErrFormat, "table size not a multiple of %d: %d", EntrySize, h.TableSize)
	}
	n := h.EntryCount()
	// Don't trust the header with a giant allocation up front.
	entries := make([]Entry, 0, minInt(n, 4096))
	var buf [EntrySize]byte
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, Errorf(pak.ErrIO, "truncated pak: table ends at entry %d of %d: %s", i, n, err)
		}
		entries = append(entries, UnmarshalEntry(buf[:]))
	}
	return entries, nil
}

/*
	Assigns offsets for a table of files, given their names and sizes in
	table order: the first body starts right after the table,
	at `len(names)*EntrySize + HeaderSize`, and each following body
	starts where the previous one ends.

	Returns ErrPackInvalid if the table, any offset, or any size
	won't fit in an int32.
*/
func Layout(names []string, sizes []int64) ([]Entry, error) {
	if len(names) != len(sizes) {
		panic("pakformat.Layout: names and sizes must be the same length")
	}
	tableSize := int64(len(names)) * EntrySize
	if tableSize > math.MaxInt32 {
		return nil, Errorf(pak.ErrPackInvalid, "too many files for one pak: %d entries", len(names))
	}
	entries := make([]Entry, len(names))
	offset := HeaderSize + tableSize
	for i := range names {
		if sizes[i] > math.MaxInt32 {
			return nil, ErrorDetailed(pak.ErrPackInvalid, "file too large for a pak entry", map[string]string{
				"name": names[i],
			})
		}
		if offset > math.MaxInt32 {
			return nil, ErrorDetailed(pak.ErrPackInvalid, "pak would exceed the 2GiB offset range", map[string]string{
				"name": names[i],
			})
		}
		entries[i] = Entry{Name: names[i], Offset: int32(offset), Size: int32(sizes[i])}
		offset += sizes[i]
	}
	return entries, nil
}

// Table size in bytes for a given number of entries.
func TableSizeFor(entries []Entry) int32 {
	return int32(len(entries) * EntrySize)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
