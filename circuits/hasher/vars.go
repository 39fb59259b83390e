// Centralizes the Poseidon2 instance shared by native and circuit code.

package hasher

import (
	"github.com/consensys/gnark/frontend"

	poseidon2gen "github.com/eon-protocol/poseidon2gen"
)

const WIDTH = poseidon2gen.HASH_T
const ROUND_FULL = poseidon2gen.HASH_RF
const ROUND_PARTIAL = poseidon2gen.HASH_RP
const SEED = poseidon2gen.HASH_SEED

// NewPoseidon2FromParameters builds a gadget for the shared BLS12-381 instance
// defined by poseidon2gen.HashParameters and SEED.
func NewPoseidon2FromParameters(api frontend.API) (*Permutation, error) {
	return NewPermutation(api, poseidon2gen.HashPermutation().ConstantSet())
}
