/*
	Generates short unique identifiers suitable for temp file names.

	Ids sort roughly by creation time (millisecond resolution),
	and are always `size` characters of base32hex.
*/
package guid

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/binary"
	"time"
)

const (
	timeBytes = 6
	randBytes = 9
	size      = (timeBytes + randBytes) * 8 / 5
)

func New() string {
	var buf [timeBytes + randBytes]byte
	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(time.Now().UnixNano()/int64(time.Millisecond)))
	copy(buf[:timeBytes], ts[8-timeBytes:])
	if _, err := rand.Read(buf[timeBytes:]); err != nil {
		panic(err)
	}
	return base32.HexEncoding.EncodeToString(buf[:])
}
