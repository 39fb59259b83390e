package config

import (
	"strings"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/stretchr/testify/require"

	"github.com/eon-protocol/poseidon2gen/field"
	"github.com/eon-protocol/poseidon2gen/params"
)

const single = `
field: bn254
width: 3
degree: 5
full_rounds: 8
partial_rounds: 56
domain_tag: poseidon2gen
seed: test-vector-1
`

func TestRead(t *testing.T) {
	c, err := Read(strings.NewReader(single))
	require.NoError(t, err)

	p, err := c.Parameters()
	require.NoError(t, err)
	require.Equal(t, params.TestVector1().String(), p.String())
	require.NoError(t, p.ValidateVariant())

	job, err := c.Job()
	require.NoError(t, err)
	require.Equal(t, []byte(params.TestVectorSeed), job.Seed)
}

func TestReadUnknownKey(t *testing.T) {
	_, err := Read(strings.NewReader(single + "rounds: 3\n"))
	require.Error(t, err)
}

func TestModulus(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want string
	}{
		{"bn254", ecc.BN254.ScalarField().String()},
		{"bls12-381", ecc.BLS12_381.ScalarField().String()},
		{"BLS12_377", ecc.BLS12_377.ScalarField().String()},
		{"13", "13"},
		{"0x11", "17"},
	} {
		p, err := Config{Field: tt.in}.Modulus()
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, p.String(), tt.in)
	}

	_, err := Config{}.Modulus()
	require.ErrorIs(t, err, ErrMissingField)
	_, err = Config{Field: "secp256k2"}.Modulus()
	require.ErrorIs(t, err, field.ErrUnknownCurve)
}

func TestJobMissingSeed(t *testing.T) {
	c, err := Read(strings.NewReader("field: 13\nwidth: 2\n"))
	require.NoError(t, err)
	_, err = c.Job()
	require.ErrorIs(t, err, ErrMissingField)
}

func TestTagsOverride(t *testing.T) {
	c, err := Read(strings.NewReader(single + "tags:\n  external_matrix: EXT\n"))
	require.NoError(t, err)
	p, err := c.Parameters()
	require.NoError(t, err)
	require.Equal(t, "EXT", p.ResolvedTags().ExternalMatrix)
	require.Equal(t, params.TagRoundConstants, p.ResolvedTags().RoundConstants)
}

const batch = `
defaults:
  field: bn254
  degree: 5
  full_rounds: 8
  domain_tag: poseidon2gen
  seed: batch
jobs:
  - name: t2
    width: 2
    partial_rounds: 56
  - width: 4
    partial_rounds: 56
    seed: other
  - width: 8
    partial_rounds: 57
    domain_tag: ""
`

func TestReadBatch(t *testing.T) {
	cfgs, err := ReadBatch(strings.NewReader(batch))
	require.NoError(t, err)
	require.Len(t, cfgs, 3)

	require.Equal(t, "t2", cfgs[0].Name)
	require.Equal(t, "job-001", cfgs[1].Name)
	require.Equal(t, "bn254", cfgs[1].Field)
	require.Equal(t, "other", *cfgs[1].Seed)
	require.Equal(t, "batch", *cfgs[0].Seed)

	// an explicit empty tag is kept
	require.NotNil(t, cfgs[2].DomainTag)
	require.Equal(t, "", *cfgs[2].DomainTag)

	for _, c := range cfgs {
		job, err := c.Job()
		require.NoError(t, err)
		require.NoError(t, job.Params.ValidateVariant(), c.Name)
	}
}

func TestReadBatchErrors(t *testing.T) {
	_, err := ReadBatch(strings.NewReader("jobs: []\n"))
	require.ErrorIs(t, err, ErrMissingField)

	_, err = ReadBatch(strings.NewReader("jobs:\n  - name: a\n  - name: a\n"))
	require.ErrorContains(t, err, "duplicate")
}

func TestTestVectorRoundTrip(t *testing.T) {
	data, err := TestVector().Marshal()
	require.NoError(t, err)
	c, err := Read(strings.NewReader(string(data)))
	require.NoError(t, err)
	p, err := c.Parameters()
	require.NoError(t, err)
	require.Equal(t, params.TestVector1().String(), p.String())
}
