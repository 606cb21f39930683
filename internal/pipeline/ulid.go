package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// idSource hands out monotonic ULIDs. Within one millisecond the 80-bit
// entropy of the previous id is incremented instead of redrawn.
type idSource struct {
	mu     sync.Mutex
	lastMS uint64
	hi     uint16 // top 16 bits of entropy
	lo     uint64 // low 64 bits of entropy
}

var ids idSource

// NewID returns a 26-character Crockford Base32 ULID. IDs sort by creation
// time, including IDs created in the same millisecond.
func NewID() string {
	return ids.next(uint64(time.Now().UnixMilli()))
}

func (s *idSource) next(ms uint64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ms <= s.lastMS {
		ms = s.lastMS
		s.lo++
		if s.lo == 0 {
			s.hi++
		}
	} else {
		var buf [10]byte
		rand.Read(buf[:])
		s.hi = binary.BigEndian.Uint16(buf[:2])
		s.lo = binary.BigEndian.Uint64(buf[2:])
		s.lastMS = ms
	}

	// 48-bit timestamp followed by 80 bits of entropy, as a 128-bit value.
	hi := ms<<16 | uint64(s.hi)
	return encode(hi, s.lo)
}

// encode writes the 128-bit value hi:lo as 26 base32 digits, most
// significant first. The top digit carries only 3 bits.
func encode(hi, lo uint64) string {
	var out [26]byte
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = crockford[lo&31]
		lo = lo>>5 | hi<<59
		hi >>= 5
	}
	return string(out[:])
}
