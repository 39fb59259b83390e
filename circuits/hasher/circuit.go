// Package hasher provides an in-circuit Poseidon2 permutation whose constants
// come from a generated ConstantSet. The circuit's native field must equal the
// set's modulus.
package hasher

import (
	"errors"
	"fmt"
	"math/big"
	"math/bits"

	"github.com/consensys/gnark/frontend"

	poseidon2gen "github.com/eon-protocol/poseidon2gen"
)

var (
	ErrInvalidSizebuffer = errors.New("the size of the input should match the size of the hash buffer")
	ErrFieldMismatch     = errors.New("constant set modulus differs from the circuit field")
)

// In-circuit Poseidon2 permutation implementation.
type Permutation struct {
	api    frontend.API
	params parameters
}

// parameters holds the constants of the set as big.Int circuit constants.
type parameters struct {
	width           int
	degreeSBox      uint64
	nbFullRounds    int
	nbPartialRounds int
	// Round keys arranged as [round][lane].
	roundKeys [][]big.Int
	// External matrix, row-major.
	external [][]big.Int
	// mu_i - 1 of the internal matrix J + diag(mu).
	internalDiagM1 []big.Int
}

// NewPermutation copies the constants of set into a gadget bound to api.
func NewPermutation(api frontend.API, set *poseidon2gen.ConstantSet) (*Permutation, error) {
	p := set.Parameters()
	if api.Compiler().Field().Cmp(p.Modulus) != 0 {
		return nil, ErrFieldMismatch
	}
	f := set.Field()

	params := parameters{
		width:           p.Width,
		degreeSBox:      p.Degree,
		nbFullRounds:    p.FullRounds,
		nbPartialRounds: p.PartialRounds,
	}

	params.roundKeys = make([][]big.Int, p.Rounds())
	for i := range params.roundKeys {
		params.roundKeys[i] = make([]big.Int, p.Width)
		for j := range params.roundKeys[i] {
			params.roundKeys[i][j].Set(set.RoundConstant(i, j).BigInt())
		}
	}

	ext := set.ExternalMatrix()
	params.external = make([][]big.Int, p.Width)
	for i := range params.external {
		params.external[i] = make([]big.Int, p.Width)
		for j := range params.external[i] {
			params.external[i][j].Set(ext.At(i, j).BigInt())
		}
	}

	mu := set.InternalDiagonal()
	params.internalDiagM1 = make([]big.Int, p.Width)
	for i := range mu {
		params.internalDiagM1[i].Set(f.Sub(mu[i], f.One()).BigInt())
	}

	return &Permutation{api: api, params: params}, nil
}

// ---------------------- permutation implementation ----------------------

func (h *Permutation) sBox(index int, input []frontend.Variable) {
	tmp := input[index]
	switch h.params.degreeSBox {
	case 3:
		input[index] = h.api.Mul(input[index], input[index])
		input[index] = h.api.Mul(tmp, input[index])
	case 5:
		input[index] = h.api.Mul(input[index], input[index])
		input[index] = h.api.Mul(input[index], input[index])
		input[index] = h.api.Mul(input[index], tmp)
	case 7:
		input[index] = h.api.Mul(input[index], input[index])
		input[index] = h.api.Mul(input[index], tmp)
		input[index] = h.api.Mul(input[index], input[index])
		input[index] = h.api.Mul(input[index], tmp)
	default:
		// left-to-right square-and-multiply over the bits of d
		d := h.params.degreeSBox
		acc := tmp
		for i := bits.Len64(d) - 2; i >= 0; i-- {
			acc = h.api.Mul(acc, acc)
			if d>>uint(i)&1 == 1 {
				acc = h.api.Mul(acc, tmp)
			}
		}
		input[index] = acc
	}
}

// matMulExternalInPlace applies the dense external MDS matrix.
func (h *Permutation) matMulExternalInPlace(input []frontend.Variable) {
	out := make([]frontend.Variable, h.params.width)
	for i := 0; i < h.params.width; i++ {
		var acc frontend.Variable = 0
		for j := 0; j < h.params.width; j++ {
			acc = h.api.Add(acc, h.api.Mul(input[j], &h.params.external[i][j]))
		}
		out[i] = acc
	}
	copy(input, out)
}

// matMulInternalInPlace applies J + diag(mu) as sum + (mu_i - 1)*x_i.
func (h *Permutation) matMulInternalInPlace(input []frontend.Variable) {
	var sum frontend.Variable = 0
	for i := 0; i < h.params.width; i++ {
		sum = h.api.Add(sum, input[i])
	}
	for i := 0; i < h.params.width; i++ {
		input[i] = h.api.Add(sum, h.api.Mul(input[i], &h.params.internalDiagM1[i]))
	}
}

func (h *Permutation) addRoundKeyInPlace(round int, input []frontend.Variable) {
	for i := 0; i < len(h.params.roundKeys[round]); i++ {
		input[i] = h.api.Add(input[i], &h.params.roundKeys[round][i])
	}
}

// Permutation applies the Poseidon2 permutation in place.
func (h *Permutation) Permutation(input []frontend.Variable) error {
	if len(input) != h.params.width {
		return ErrInvalidSizebuffer
	}

	// Pre-external MDS.
	h.matMulExternalInPlace(input)

	rf := h.params.nbFullRounds / 2
	// First half of full rounds.
	for i := 0; i < rf; i++ {
		h.addRoundKeyInPlace(i, input)
		for j := 0; j < h.params.width; j++ {
			h.sBox(j, input)
		}
		h.matMulExternalInPlace(input)
	}
	// Partial rounds (S-box applied only to lane 0).
	for i := rf; i < rf+h.params.nbPartialRounds; i++ {
		h.addRoundKeyInPlace(i, input)
		h.sBox(0, input)
		h.matMulInternalInPlace(input)
	}
	// Second half of full rounds.
	for i := rf + h.params.nbPartialRounds; i < h.params.nbFullRounds+h.params.nbPartialRounds; i++ {
		h.addRoundKeyInPlace(i, input)
		for j := 0; j < h.params.width; j++ {
			h.sBox(j, input)
		}
		h.matMulExternalInPlace(input)
	}
	return nil
}

// Compress is the two-word compression function for t=2.
// It returns perm([left,right])[1] + right.
func (h *Permutation) Compress(left, right frontend.Variable) frontend.Variable {
	if h.params.width != 2 {
		panic(fmt.Sprintf("poseidon2: Compress needs t=2, got t=%d", h.params.width))
	}
	vars := [2]frontend.Variable{left, right}
	if err := h.Permutation(vars[:]); err != nil {
		panic(err)
	}
	return h.api.Add(vars[1], right)
}

// HashSum folds values from zero using Compress.
func (h *Permutation) HashSum(vals ...frontend.Variable) frontend.Variable {
	var acc frontend.Variable = 0
	for i := range vals {
		acc = h.Compress(acc, vals[i])
	}
	return acc
}
