// Package matchid generates sortable match identifiers: a UUIDv7 encoded as
// 26 characters of Crockford base32.
package matchid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/coder/quartz"
)

const (
	alphabet = "0123456789abcdefghjkmnpqrstvwxyz"
	length   = 26
)

// RandSource supplies the random bits of an ID. Tests inject a seeded
// source; production uses crypto/rand.
type RandSource interface {
	Uint64() uint64
}

// Generator creates IDs from a clock and a random source.
type Generator struct {
	clock quartz.Clock
	src   RandSource
}

// NewGenerator returns a generator. A nil src uses crypto/rand.
func NewGenerator(clock quartz.Clock, src RandSource) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, src: src}
}

// New returns an ID for the current wall-clock time.
func New() string {
	return NewGenerator(nil, nil).Next()
}

// Next returns a new ID. IDs generated in later milliseconds sort after
// earlier ones.
func (g *Generator) Next() string {
	ms := uint64(g.clock.Now().UnixMilli())

	var random [10]byte
	if g.src != nil {
		binary.BigEndian.PutUint64(random[:8], g.src.Uint64())
		binary.BigEndian.PutUint16(random[8:], uint16(g.src.Uint64()))
	} else if _, err := rand.Read(random[:]); err != nil {
		panic("matchid: reading random bytes: " + err.Error())
	}

	// 48-bit timestamp, version 7, 12 random bits, variant 10, 62 random bits.
	hi := ms<<16 | 0x7000 | uint64(random[0]&0x0f)<<8 | uint64(random[1])
	lo := binary.BigEndian.Uint64(random[2:])
	lo = lo&0x3fffffffffffffff | 0x8000000000000000

	return encode(hi, lo)
}

func encode(hi, lo uint64) string {
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(alphabet[chunk(hi, lo, uint(5*(length-1-i)))])
	}
	return b.String()
}

// chunk returns the five bits of the 128-bit value hi:lo starting at shift.
func chunk(hi, lo uint64, shift uint) uint64 {
	switch {
	case shift >= 64:
		return (hi >> (shift - 64)) & 0x1f
	case shift == 0:
		return lo & 0x1f
	default:
		return (lo>>shift | hi<<(64-shift)) & 0x1f
	}
}

// Validate checks that id is 26 base32 characters of at most 128 bits.
func Validate(id string) error {
	if len(id) != length {
		return fmt.Errorf("match ID must be exactly %d characters, got %d", length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("match ID first character must be 0-7, got %c", id[0])
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("invalid character %c at position %d", id[i], i)
		}
	}
	return nil
}

// Timestamp extracts the creation time encoded in id.
func Timestamp(id string) (time.Time, error) {
	if err := Validate(id); err != nil {
		return time.Time{}, err
	}
	var hi, lo uint64
	for i := 0; i < length; i++ {
		v := uint64(strings.IndexByte(alphabet, id[i]))
		hi = hi<<5 | lo>>59
		lo = lo<<5 | v
	}
	return time.UnixMilli(int64(hi >> 16)), nil
}
