// Package stream produces the deterministic field-element sequence from which
// every Poseidon2 constant is drawn.
//
// Draw i of a generator keyed by (seed, tag) is
//
//	SHAKE256(Prefix || u32be(len(seed)) || seed || u32be(len(tag)) || tag || u64be(i))
//
// squeezed to ByteLen(p) bytes and read big-endian. Raw values at or above the
// largest multiple of p below 2^(8*ByteLen(p)) are rejected; the counter moves
// on every draw, rejected or not. The scheme is part of the output contract:
// changing any byte of it changes every derived constant.
package stream

import (
	"encoding/binary"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/eon-protocol/poseidon2gen/field"
)

// Prefix separates this stream from any other use of SHAKE256 over the same seed.
const Prefix = "poseidon2gen/stream/v1"

// Source is what the derivers consume.
type Source interface {
	Next() field.Element
}

// Generator is not safe for concurrent use; Clone it to hand a copy of the
// cursor to another goroutine.
type Generator struct {
	f       *field.Field
	key     []byte
	bound   *big.Int
	counter uint64
	buf     []byte
}

func New(f *field.Field, seed, domainTag []byte) *Generator {
	key := make([]byte, 0, len(Prefix)+8+len(seed)+len(domainTag))
	key = append(key, Prefix...)
	key = binary.BigEndian.AppendUint32(key, uint32(len(seed)))
	key = append(key, seed...)
	key = binary.BigEndian.AppendUint32(key, uint32(len(domainTag)))
	key = append(key, domainTag...)

	width := f.ByteLen()
	bound := new(big.Int).Lsh(big.NewInt(1), uint(8*width))
	p := f.Modulus()
	bound.Div(bound, p)
	bound.Mul(bound, p)

	return &Generator{
		f:     f,
		key:   key,
		bound: bound,
		buf:   make([]byte, width),
	}
}

// draw squeezes the raw output for the current counter and advances it.
func (g *Generator) draw() *big.Int {
	var ctr [8]byte
	binary.BigEndian.PutUint64(ctr[:], g.counter)
	g.counter++

	h := sha3.NewShake256()
	h.Write(g.key)
	h.Write(ctr[:])
	h.Read(g.buf)
	return new(big.Int).SetBytes(g.buf)
}

// Next returns the next accepted element.
func (g *Generator) Next() field.Element {
	for {
		raw := g.draw()
		if raw.Cmp(g.bound) < 0 {
			return g.f.Reduce(raw)
		}
	}
}

// Take returns the next n elements.
func (g *Generator) Take(n int) []field.Element {
	out := make([]field.Element, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}

// Counter is the number of raw draws so far, rejected ones included.
func (g *Generator) Counter() uint64 {
	return g.counter
}

// Reset rewinds the generator to its first draw.
func (g *Generator) Reset() {
	g.counter = 0
}

// Clone returns an independent generator positioned at the same draw.
func (g *Generator) Clone() *Generator {
	return &Generator{
		f:       g.f,
		key:     g.key,
		bound:   g.bound,
		counter: g.counter,
		buf:     make([]byte, len(g.buf)),
	}
}
