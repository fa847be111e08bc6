/*
	The PACK archive layout.

	An archive is a 10-byte header, a table of fixed-size entries, and a body:

		offset 0   "PACK"                      4 bytes, ASCII
		offset 4   version 0x0101              int16, little-endian
		offset 6   table size in bytes         int32, little-endian
		offset 10  entries, 136 bytes each:
		             name    128 bytes, UTF-8, NUL-padded (or truncated)
		             offset  int32, little-endian, absolute from start of file
		             size    int32, little-endian
		then       file bodies, concatenated in table order

	Names are relative paths using "/" as the separator on every host.
	Directories are never recorded; they are implied by names.

	This package only encodes and decodes; walking directories and
	placing files is done by the transmat.
*/
package pakformat

import (
	"bytes"
	"encoding/binary"
	"io"

	. "github.com/warpfork/go-errcat"

	"github.com/polydawn/pak"
)

const (
	Magic      = "PACK"
	Version    = int16(0x0101)
	HeaderSize = 10
	NameSize   = 128
	EntrySize  = NameSize + 4 + 4
)

/*
	Returns a buffer of exactly `length` bytes: `bs` copied in,
	zero-filled if shorter, cut off if longer.
*/
func PadOrTruncate(bs []byte, length int) []byte {
	out := make([]byte, length)
	copy(out, bs)
	return out
}

/*
	Encodes a name into an entry's name field.
	`truncated` reports whether the name didn't fit; truncation is
	byte-wise, so it may split a multi-byte UTF-8 sequence.
*/
func EncodeName(name string) (field [NameSize]byte, truncated bool) {
	copy(field[:], name)
	return field, len(name) > NameSize
}

/*
	Decodes an entry's name field: everything up to the first zero byte,
	or all of it if there is none.
*/
func DecodeName(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return string(field)
}

type Header struct {
	TableSize int32 // Length of the entry table in bytes.  Should be a multiple of EntrySize.
}

// Whole entries in the table.  Any remainder is ignored.
func (h Header) EntryCount() int {
	if h.TableSize <= 0 {
		return 0
	}
	return int(h.TableSize / EntrySize)
}

// Bytes of table that don't make up a whole entry.
func (h Header) Remainder() int32 {
	if h.TableSize <= 0 {
		return 0
	}
	return h.TableSize % EntrySize
}

func WriteHeader(w io.Writer, h Header) error {
	var buf [HeaderSize]byte
	copy(buf[0:4], Magic)
	binary.LittleEndian.PutUint16(buf[4:6], uint16(Version))
	binary.LittleEndian.PutUint32(buf[6:10], uint32(h.TableSize))
	if _, err := w.Write(buf[:]); err != nil {
		return Errorf(pak.ErrIO, "error writing pak header: %s", err)
	}
	return nil
}

/*
	Reads and validates the header.

	A stream that doesn't start with the magic (including one too short
	to hold it) is ErrFormat "bad header"; the wrong version is ErrFormat
	"version mismatch"; a stream ending inside the rest of the header is ErrIO.
*/
func ReadHeader(r io.Reader) (Header, error) {
	var buf [HeaderSize]byte
	if _, err := io.ReadFull(r, buf[0:4]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return Header{}, Errorf(pak.ErrFormat, "bad header: file too short to be a pak archive")
		}
		return Header{}, Errorf(pak.ErrIO, "error reading pak header: %s", err)
	}
	if string(buf[0:4]) != Magic {
		return Header{}, ErrorDetailed(pak.ErrFormat, "bad header", map[string]string{
			"magic": string(bytes.ToValidUTF8(buf[0:4], []byte("?"))),
		})
	}
	if _, err := io.ReadFull(r, buf[4:HeaderSize]); err != nil {
		return Header{}, Errorf(pak.ErrIO, "truncated pak: header ends early: %s", err)
	}
	if v := int16(binary.LittleEndian.Uint16(buf[4:6])); v != Version {
		return Header{}, Errorf(pak.ErrFormat, "version mismatch: expected %#04x, found %#04x", Version, uint16(v))
	}
	return Header{TableSize: int32(binary.LittleEndian.Uint32(buf[6:10]))}, nil
}
