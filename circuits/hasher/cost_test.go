package hasher

import (
	"testing"

	"github.com/stretchr/testify/require"

	poseidon2gen "github.com/eon-protocol/poseidon2gen"
	"github.com/eon-protocol/poseidon2gen/params"
)

func TestMeasureCost(t *testing.T) {
	p := params.TestVector1()
	set, err := poseidon2gen.GenerateConstants(p, []byte(params.TestVectorSeed))
	require.NoError(t, err)

	cost, err := MeasureCost(set)
	require.NoError(t, err)

	// x^5 takes three multiplications
	sboxes := p.FullRounds*p.Width + p.PartialRounds
	require.GreaterOrEqual(t, cost.R1CS, 3*sboxes)
	require.GreaterOrEqual(t, cost.SparseR1CS, cost.R1CS)

	p.PartialRounds += 4
	wider, err := poseidon2gen.GenerateConstants(p, []byte(params.TestVectorSeed))
	require.NoError(t, err)
	more, err := MeasureCost(wider)
	require.NoError(t, err)
	require.Greater(t, more.R1CS, cost.R1CS)
}
