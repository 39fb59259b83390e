// Package params holds the immutable description of a Poseidon2 instance and
// the error kinds shared by the derivation pipeline.
package params

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"

	"github.com/eon-protocol/poseidon2gen/field"
)

var (
	ErrInvalidParameters           = errors.New("invalid parameters")
	ErrMatrixConstructionExhausted = errors.New("matrix construction exhausted its retry budget")
)

const (
	TagRoundConstants = "RC"
	TagExternalMatrix = "MEXT"
	TagInternalMatrix = "MINT"
)

// Tags name the three independent sub-streams drawn from one seed.
type Tags struct {
	RoundConstants string `yaml:"round_constants" json:"round_constants"`
	ExternalMatrix string `yaml:"external_matrix" json:"external_matrix"`
	InternalMatrix string `yaml:"internal_matrix" json:"internal_matrix"`
}

func DefaultTags() Tags {
	return Tags{
		RoundConstants: TagRoundConstants,
		ExternalMatrix: TagExternalMatrix,
		InternalMatrix: TagInternalMatrix,
	}
}

// withDefaults fills empty tags so a zero Tags means the default set.
func (t Tags) withDefaults() Tags {
	d := DefaultTags()
	if t.RoundConstants == "" {
		t.RoundConstants = d.RoundConstants
	}
	if t.ExternalMatrix == "" {
		t.ExternalMatrix = d.ExternalMatrix
	}
	if t.InternalMatrix == "" {
		t.InternalMatrix = d.InternalMatrix
	}
	return t
}

// Parameters is passed by value; Modulus must not be mutated after construction.
type Parameters struct {
	Modulus       *big.Int
	Width         int
	Degree        uint64
	FullRounds    int
	PartialRounds int
	DomainTag     []byte
	Tags          Tags
}

// Rounds is RF + RP.
func (p Parameters) Rounds() int {
	return p.FullRounds + p.PartialRounds
}

// NumRoundConstants is t * (RF + RP).
func (p Parameters) NumRoundConstants() int {
	return p.Width * p.Rounds()
}

// ResolvedTags returns the sub-tags with defaults applied.
func (p Parameters) ResolvedTags() Tags {
	return p.Tags.withDefaults()
}

// StreamTag is the domain tag of one sub-stream: DomainTag || "/" || sub.
func (p Parameters) StreamTag(sub string) []byte {
	out := make([]byte, 0, len(p.DomainTag)+1+len(sub))
	out = append(out, p.DomainTag...)
	out = append(out, '/')
	return append(out, sub...)
}

// Field returns the field of p.Modulus.
func (p Parameters) Field() (*field.Field, error) {
	f, err := field.New(p.Modulus)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParameters, err)
	}
	return f, nil
}

// Validate rejects degenerate or insecure instances: t < 2, d < 2, RF < 2,
// RP < 1, a composite modulus, or an S-box x^d that is not a bijection
// (gcd(d, p-1) != 1).
func (p Parameters) Validate() error {
	switch {
	case p.Width < 2:
		return fmt.Errorf("%w: width %d < 2", ErrInvalidParameters, p.Width)
	case p.Degree < 2:
		return fmt.Errorf("%w: s-box degree %d < 2", ErrInvalidParameters, p.Degree)
	case p.FullRounds < 2:
		return fmt.Errorf("%w: full rounds %d < 2", ErrInvalidParameters, p.FullRounds)
	case p.PartialRounds < 1:
		return fmt.Errorf("%w: partial rounds %d < 1", ErrInvalidParameters, p.PartialRounds)
	}
	f, err := p.Field()
	if err != nil {
		return err
	}
	if !f.IsCoprimeToGroupOrder(p.Degree) {
		return fmt.Errorf("%w: gcd(%d, p-1) != 1, x^%d is not a permutation", ErrInvalidParameters, p.Degree, p.Degree)
	}
	return nil
}

// ValidateVariant adds the constraints of the Poseidon2 layout on top of
// Validate: full rounds split evenly around the partial rounds, room for 2t
// distinct Cauchy points, and pairwise distinct sub-tags.
func (p Parameters) ValidateVariant() error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.FullRounds%2 != 0 {
		return fmt.Errorf("%w: full rounds %d must be even", ErrInvalidParameters, p.FullRounds)
	}
	if p.Modulus.Cmp(big.NewInt(int64(2*p.Width))) < 0 {
		return fmt.Errorf("%w: modulus too small for width %d", ErrInvalidParameters, p.Width)
	}
	tags := p.ResolvedTags()
	if tags.RoundConstants == tags.ExternalMatrix ||
		tags.RoundConstants == tags.InternalMatrix ||
		tags.ExternalMatrix == tags.InternalMatrix {
		return fmt.Errorf("%w: sub-stream tags must be distinct", ErrInvalidParameters)
	}
	return nil
}

// Clone deep-copies the parameters.
func (p Parameters) Clone() Parameters {
	out := p
	if p.Modulus != nil {
		out.Modulus = new(big.Int).Set(p.Modulus)
	}
	out.DomainTag = append([]byte(nil), p.DomainTag...)
	return out
}

func (p Parameters) String() string {
	bits := 0
	if p.Modulus != nil {
		bits = p.Modulus.BitLen()
	}
	return fmt.Sprintf("poseidon2(p=%d bits, t=%d, d=%d, RF=%d, RP=%d, tag=%q)",
		bits, p.Width, p.Degree, p.FullRounds, p.PartialRounds, p.DomainTag)
}

const (
	TestVectorSeed = "test-vector-1"
	TestVectorTag  = "poseidon2gen"
)

// TestVector1 is the BN254 instance used as the cross-implementation test vector.
func TestVector1() Parameters {
	return Parameters{
		Modulus:       ecc.BN254.ScalarField(),
		Width:         3,
		Degree:        5,
		FullRounds:    8,
		PartialRounds: 56,
		DomainTag:     []byte(TestVectorTag),
		Tags:          DefaultTags(),
	}
}
