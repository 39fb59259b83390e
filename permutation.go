package poseidon2gen

import (
	"errors"

	"github.com/eon-protocol/poseidon2gen/field"
)

var ErrInvalidSizebuffer = errors.New("the size of the input should match the permutation width")

// Permutation applies the Poseidon2 permutation described by a ConstantSet:
// an initial external layer, RF/2 full rounds, RP partial rounds and RF/2
// full rounds. Every round adds t constants; partial rounds apply the S-box
// to lane 0 only.
type Permutation struct {
	set *ConstantSet
	f   *field.Field
	// mu - 1, cached for the sparse internal layer
	diagMinusOne []field.Element
}

func NewPermutation(set *ConstantSet) *Permutation {
	f := set.field
	mu := set.InternalDiagonal()
	d := make([]field.Element, len(mu))
	for i := range mu {
		d[i] = f.Sub(mu[i], f.One())
	}
	return &Permutation{set: set, f: f, diagMinusOne: d}
}

// ConstantSet returns the constants the permutation applies.
func (h *Permutation) ConstantSet() *ConstantSet {
	return h.set
}

func (h *Permutation) Width() int {
	return h.set.params.Width
}

func (h *Permutation) sBox(index int, input []field.Element) {
	input[index] = h.f.PowUint64(input[index], h.set.params.Degree)
}

func (h *Permutation) matMulExternalInPlace(input []field.Element) {
	copy(input, h.set.external.MulVec(h.f, input))
}

// matMulInternalInPlace computes (J + diag(mu))·x as sum(x) + (mu_i - 1)·x_i.
func (h *Permutation) matMulInternalInPlace(input []field.Element) {
	sum := h.f.Zero()
	for _, v := range input {
		sum = h.f.Add(sum, v)
	}
	for i := range input {
		input[i] = h.f.Add(sum, h.f.Mul(h.diagMinusOne[i], input[i]))
	}
}

func (h *Permutation) addRoundKeyInPlace(round int, input []field.Element) {
	for i := range input {
		input[i] = h.f.Add(input[i], h.set.RoundConstant(round, i))
	}
}

// Permutation applies the permutation in place.
func (h *Permutation) Permutation(input []field.Element) error {
	p := h.set.params
	if len(input) != p.Width {
		return ErrInvalidSizebuffer
	}

	h.matMulExternalInPlace(input)

	rf := p.FullRounds / 2
	for i := 0; i < rf; i++ {
		h.addRoundKeyInPlace(i, input)
		for j := range input {
			h.sBox(j, input)
		}
		h.matMulExternalInPlace(input)
	}
	for i := rf; i < rf+p.PartialRounds; i++ {
		h.addRoundKeyInPlace(i, input)
		h.sBox(0, input)
		h.matMulInternalInPlace(input)
	}
	for i := rf + p.PartialRounds; i < p.Rounds(); i++ {
		h.addRoundKeyInPlace(i, input)
		for j := range input {
			h.sBox(j, input)
		}
		h.matMulExternalInPlace(input)
	}
	return nil
}

// Compress returns perm([x, y])[1] + y. Only defined for t = 2.
func (h *Permutation) Compress(x, y field.Element) (field.Element, error) {
	if h.Width() != 2 {
		return field.Element{}, ErrInvalidSizebuffer
	}
	vars := [2]field.Element{x, y}
	if err := h.Permutation(vars[:]); err != nil {
		return field.Element{}, err
	}
	return h.f.Add(vars[1], y), nil
}

// HashSum folds values with Compress starting from zero.
func (h *Permutation) HashSum(vals ...field.Element) (field.Element, error) {
	ret := h.f.Zero()
	for _, v := range vals {
		var err error
		if ret, err = h.Compress(ret, v); err != nil {
			return field.Element{}, err
		}
	}
	return ret, nil
}
