package poseidon2gen

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/eon-protocol/poseidon2gen/derive"
	"github.com/eon-protocol/poseidon2gen/field"
	"github.com/eon-protocol/poseidon2gen/params"
)

// encodingMagic opens the canonical binary encoding of a ConstantSet.
const encodingMagic = "P2CS\x01"

// ConstantSet is the assembled, read-only output of one generation job.
// Accessors return copies; nothing reachable from a ConstantSet changes after
// GenerateConstants returns it.
type ConstantSet struct {
	params   params.Parameters
	seed     []byte
	field    *field.Field
	rc       []field.Element
	external derive.Matrix
	internal derive.Matrix

	externalAttempts int
	internalAttempts int
}

func (s *ConstantSet) Parameters() params.Parameters {
	return s.params.Clone()
}

func (s *ConstantSet) Seed() []byte {
	return append([]byte(nil), s.seed...)
}

// Field is the field every constant lives in. It is stateless and may be shared.
func (s *ConstantSet) Field() *field.Field {
	return s.field
}

// RoundConstants returns all t*(RF+RP) constants, round-major then lane-minor.
func (s *ConstantSet) RoundConstants() []field.Element {
	return append([]field.Element(nil), s.rc...)
}

// RoundConstant returns the constant added to lane of round.
func (s *ConstantSet) RoundConstant(round, lane int) field.Element {
	return s.rc[round*s.params.Width+lane]
}

// ExternalMatrix is the full-round MDS layer.
func (s *ConstantSet) ExternalMatrix() derive.Matrix {
	return s.external
}

// InternalMatrix is the partial-round layer J + diag(mu).
func (s *ConstantSet) InternalMatrix() derive.Matrix {
	return s.internal
}

// InternalDiagonal returns mu.
func (s *ConstantSet) InternalDiagonal() []field.Element {
	return s.internal.Diagonal()
}

// Attempts reports how many candidates the external and internal matrix
// searches consumed.
func (s *ConstantSet) Attempts() (external, internal int) {
	return s.externalAttempts, s.internalAttempts
}

// WriteTo writes the canonical binary encoding: a magic string, the scalar
// parameters, the length-prefixed modulus, tags and seed, then every element
// on ByteLen(p) big-endian bytes in order RC, ME, MI (matrices row-major).
func (s *ConstantSet) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString(encodingMagic)
	p := s.params
	for _, v := range []uint64{uint64(p.Width), p.Degree, uint64(p.FullRounds), uint64(p.PartialRounds)} {
		if err := binary.Write(&buf, binary.BigEndian, v); err != nil {
			return 0, err
		}
	}
	tags := p.ResolvedTags()
	for _, b := range [][]byte{
		p.Modulus.Bytes(),
		p.DomainTag,
		[]byte(tags.RoundConstants),
		[]byte(tags.ExternalMatrix),
		[]byte(tags.InternalMatrix),
		s.seed,
	} {
		if err := binary.Write(&buf, binary.BigEndian, uint32(len(b))); err != nil {
			return 0, err
		}
		buf.Write(b)
	}
	elem := make([]byte, s.field.ByteLen())
	for _, group := range [][]field.Element{s.rc, s.external.Flatten(), s.internal.Flatten()} {
		for _, e := range group {
			buf.Write(e.FillBytes(elem))
		}
	}
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// Digest is the sha256 of the canonical encoding. Equal digests mean equal
// parameters, seed and constants.
func (s *ConstantSet) Digest() [32]byte {
	h := sha256.New()
	if _, err := s.WriteTo(h); err != nil {
		panic(fmt.Errorf("hash writer failed: %w", err))
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
