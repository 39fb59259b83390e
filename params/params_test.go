package params

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/eon-protocol/poseidon2gen/field"
)

func small(p int64, d uint64) Parameters {
	return Parameters{
		Modulus:       big.NewInt(p),
		Width:         3,
		Degree:        d,
		FullRounds:    8,
		PartialRounds: 4,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, TestVector1().Validate())
	require.NoError(t, TestVector1().ValidateVariant())

	cases := map[string]Parameters{
		"p=13 d=3 shares a factor with p-1": small(13, 3),
		"composite modulus":                 small(15, 7),
		"nil modulus":                       {Width: 3, Degree: 5, FullRounds: 8, PartialRounds: 1},
		"width 1":                           func() Parameters { p := TestVector1(); p.Width = 1; return p }(),
		"degree 1":                          func() Parameters { p := TestVector1(); p.Degree = 1; return p }(),
		"one full round":                    func() Parameters { p := TestVector1(); p.FullRounds = 1; return p }(),
		"no partial round":                  func() Parameters { p := TestVector1(); p.PartialRounds = 0; return p }(),
		"bn254 with cube s-box":             func() Parameters { p := TestVector1(); p.Degree = 3; return p }(),
	}
	for name, p := range cases {
		require.ErrorIs(t, p.Validate(), ErrInvalidParameters, name)
	}
	require.NoError(t, small(13, 5).Validate())
}

func TestValidateFieldError(t *testing.T) {
	err := small(15, 7).Validate()
	require.ErrorIs(t, err, ErrInvalidParameters)
	require.ErrorIs(t, err, field.ErrInvalidModulus)
}

func TestValidateVariant(t *testing.T) {
	odd := TestVector1()
	odd.FullRounds = 7
	require.NoError(t, odd.Validate())
	require.ErrorIs(t, odd.ValidateVariant(), ErrInvalidParameters)

	tiny := small(5, 3)
	require.NoError(t, tiny.Validate())
	require.ErrorIs(t, tiny.ValidateVariant(), ErrInvalidParameters, "5 < 2t")

	clash := TestVector1()
	clash.Tags.InternalMatrix = clash.Tags.ExternalMatrix
	require.ErrorIs(t, clash.ValidateVariant(), ErrInvalidParameters)
}

func TestTags(t *testing.T) {
	p := TestVector1()
	p.Tags = Tags{}
	require.Equal(t, DefaultTags(), p.ResolvedTags())
	require.Equal(t, []byte("poseidon2gen/RC"), p.StreamTag(p.ResolvedTags().RoundConstants))
	require.Equal(t, 192, p.NumRoundConstants())
}

func TestClone(t *testing.T) {
	p := TestVector1()
	c := p.Clone()
	c.Modulus.SetInt64(7)
	c.DomainTag[0] = 'X'
	require.NotEqual(t, int64(7), p.Modulus.Int64())
	require.Equal(t, byte('p'), p.DomainTag[0])
	require.Contains(t, p.String(), "t=3")
}
