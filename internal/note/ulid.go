package note

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// NewID returns a ULID: 26 Crockford base32 characters, a millisecond
// timestamp followed by randomness, so ids sort by creation time. Ids minted
// in the same millisecond carry an increasing sequence.
func NewID() string {
	return idGen.next(time.Now())
}

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

var idGen ulidGenerator

type ulidGenerator struct {
	mu      sync.Mutex
	lastTS  uint64
	lastSeq uint16
}

func (g *ulidGenerator) next(now time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := uint64(now.UnixMilli())
	if ts == g.lastTS {
		g.lastSeq++
	} else {
		g.lastTS = ts
		g.lastSeq = 0
	}

	var b [16]byte
	binary.BigEndian.PutUint64(b[:8], ts<<16)
	rand.Read(b[8:])
	binary.BigEndian.PutUint16(b[6:8], g.lastSeq)
	return encodeULID(b)
}

func encodeULID(b [16]byte) string {
	hi := binary.BigEndian.Uint64(b[:8])
	lo := binary.BigEndian.Uint64(b[8:])
	var out [26]byte
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = crockford[lo&31]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
