package hasher

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/frontend/cs/scs"

	poseidon2gen "github.com/eon-protocol/poseidon2gen"
)

// Cost is the size of one permutation in each constraint system.
type Cost struct {
	R1CS       int
	SparseR1CS int
}

type costCircuit struct {
	State []frontend.Variable

	set *poseidon2gen.ConstantSet
}

func (c *costCircuit) Define(api frontend.API) error {
	perm, err := NewPermutation(api, c.set)
	if err != nil {
		return err
	}
	return perm.Permutation(c.State)
}

// MeasureCost compiles a single permutation over the set's field with the
// R1CS and PLONK builders.
func MeasureCost(set *poseidon2gen.ConstantSet) (Cost, error) {
	p := set.Parameters()
	circuit := &costCircuit{State: make([]frontend.Variable, p.Width), set: set}

	var cost Cost
	ccs, err := frontend.Compile(p.Modulus, r1cs.NewBuilder, circuit)
	if err != nil {
		return Cost{}, fmt.Errorf("compile r1cs: %w", err)
	}
	cost.R1CS = ccs.GetNbConstraints()

	ccs, err = frontend.Compile(p.Modulus, scs.NewBuilder, circuit)
	if err != nil {
		return Cost{}, fmt.Errorf("compile scs: %w", err)
	}
	cost.SparseR1CS = ccs.GetNbConstraints()
	return cost, nil
}
