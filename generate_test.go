package poseidon2gen

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"sync/atomic"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/require"

	"github.com/eon-protocol/poseidon2gen/derive"
	"github.com/eon-protocol/poseidon2gen/field"
	"github.com/eon-protocol/poseidon2gen/params"
)

func vector(t *testing.T) *ConstantSet {
	set, err := GenerateConstants(params.TestVector1(), []byte(params.TestVectorSeed))
	require.NoError(t, err)
	return set
}

func strs(es []field.Element) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.String()
	}
	return out
}

// Pins the BN254 test vector. Any change to the stream layout, the sub-stream
// tags or the matrix acceptance rules changes these values.
func TestTestVectorKnownAnswer(t *testing.T) {
	set := vector(t)

	rc := set.RoundConstants()
	require.Equal(t, "20161522683725099572921062445768494005543744484911833898572343367365375851432", rc[0].String())
	require.Equal(t, "7633568517710536882198417371110523523118406167796814902924953804268227253807", rc[len(rc)-1].String())
	require.Equal(t, "1347149207189646624615779447719946905361248525480770137298861103772920742467", set.ExternalMatrix().At(0, 0).String())
	require.Equal(t, []string{
		"12392892409339437510272249670468865028457209378777434063020431927649910571722",
		"15745164167428010421122213026562158851748684501140285188083541059368073041429",
		"10194350710199356115976098278639084449758493595868189751739072875832965410508",
	}, strs(set.InternalDiagonal()))

	external, internal := set.Attempts()
	require.Equal(t, 1, external)
	require.Equal(t, 3, internal)

	digest := set.Digest()
	require.Equal(t, "83d6b6e6fd82563f1c286f14de094035aefb55ef398601095776dba71befb0fd", hex.EncodeToString(digest[:]))
}

func TestTestVectorIsDeterministic(t *testing.T) {
	a, b := vector(t), vector(t)

	require.Len(t, a.RoundConstants(), 192)
	require.Equal(t, 3, a.ExternalMatrix().Size())
	require.Equal(t, 3, a.InternalMatrix().Size())

	require.Equal(t, strs(a.RoundConstants()), strs(b.RoundConstants()))
	require.True(t, a.ExternalMatrix().Equal(b.ExternalMatrix()))
	require.True(t, a.InternalMatrix().Equal(b.InternalMatrix()))
	require.Equal(t, a.Digest(), b.Digest())

	var ea, eb bytes.Buffer
	_, err := a.WriteTo(&ea)
	require.NoError(t, err)
	_, err = b.WriteTo(&eb)
	require.NoError(t, err)
	require.Equal(t, ea.Bytes(), eb.Bytes())
}

func TestCanonicalRangeAndMDS(t *testing.T) {
	set := vector(t)
	p := set.Parameters().Modulus
	all := set.RoundConstants()
	all = append(all, set.ExternalMatrix().Flatten()...)
	all = append(all, set.InternalMatrix().Flatten()...)
	for i, e := range all {
		v := e.BigInt()
		require.True(t, v.Sign() >= 0 && v.Cmp(p) < 0, "element %d out of range", i)
	}
	require.True(t, derive.IsMDS(set.Field(), set.ExternalMatrix()))
}

func TestLengthInvariant(t *testing.T) {
	for _, shape := range []struct{ t, rf, rp int }{{2, 8, 56}, {3, 4, 1}, {4, 8, 22}, {5, 2, 3}} {
		p := params.TestVector1()
		p.Width, p.FullRounds, p.PartialRounds = shape.t, shape.rf, shape.rp
		set, err := GenerateConstants(p, []byte("len"))
		require.NoError(t, err)
		require.Len(t, set.RoundConstants(), shape.t*(shape.rf+shape.rp))
		require.Equal(t, shape.t, set.ExternalMatrix().Size())
	}
}

func TestSubStreamIndependence(t *testing.T) {
	base := vector(t)

	p := params.TestVector1()
	p.Tags.ExternalMatrix = "MEXT-2"
	ext, err := GenerateConstants(p, []byte(params.TestVectorSeed))
	require.NoError(t, err)
	require.Equal(t, strs(base.RoundConstants()), strs(ext.RoundConstants()))
	require.True(t, base.InternalMatrix().Equal(ext.InternalMatrix()))
	require.False(t, base.ExternalMatrix().Equal(ext.ExternalMatrix()))

	p = params.TestVector1()
	p.Tags.InternalMatrix = "MINT-2"
	in, err := GenerateConstants(p, []byte(params.TestVectorSeed))
	require.NoError(t, err)
	require.Equal(t, strs(base.RoundConstants()), strs(in.RoundConstants()))
	require.True(t, base.ExternalMatrix().Equal(in.ExternalMatrix()))
	require.False(t, base.InternalMatrix().Equal(in.InternalMatrix()))

	p = params.TestVector1()
	p.Tags.RoundConstants = "RC-2"
	rc, err := GenerateConstants(p, []byte(params.TestVectorSeed))
	require.NoError(t, err)
	require.NotEqual(t, strs(base.RoundConstants()), strs(rc.RoundConstants()))
	require.True(t, base.ExternalMatrix().Equal(rc.ExternalMatrix()))
	require.True(t, base.InternalMatrix().Equal(rc.InternalMatrix()))
}

func TestSeedChangesEverything(t *testing.T) {
	base := vector(t)
	other, err := GenerateConstants(params.TestVector1(), []byte("test-vector-2"))
	require.NoError(t, err)
	require.NotEqual(t, strs(base.RoundConstants()), strs(other.RoundConstants()))
	require.False(t, base.ExternalMatrix().Equal(other.ExternalMatrix()))
	require.NotEqual(t, base.Digest(), other.Digest())
}

func TestRejection(t *testing.T) {
	bad := params.Parameters{Modulus: big.NewInt(13), Width: 3, Degree: 3, FullRounds: 8, PartialRounds: 4}
	set, err := GenerateConstants(bad, []byte("x"))
	require.ErrorIs(t, err, params.ErrInvalidParameters)
	require.Nil(t, set)

	odd := params.TestVector1()
	odd.FullRounds = 5
	set, err = GenerateConstants(odd, []byte("x"))
	require.ErrorIs(t, err, params.ErrInvalidParameters)
	require.Nil(t, set)
}

func TestConstantSetIsReadOnly(t *testing.T) {
	set := vector(t)
	want := set.Digest()

	rc := set.RoundConstants()
	rc[0] = set.Field().Zero()
	prm := set.Parameters()
	prm.Modulus.SetInt64(1)
	prm.DomainTag[0] = 'X'
	seed := set.Seed()
	seed[0] = 'X'
	rows := set.ExternalMatrix().Rows()
	rows[0][0] = set.Field().Zero()

	require.Equal(t, want, set.Digest())
	require.Equal(t, set.RoundConstants()[0].String(), set.RoundConstant(0, 0).String())
}

func TestEncodingLayout(t *testing.T) {
	set := vector(t)
	var buf bytes.Buffer
	n, err := set.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte(encodingMagic)))

	header := len(encodingMagic) + 4*8 +
		4 + 32 + // modulus
		4 + len(params.TestVectorTag) +
		4 + 2 + 4 + 4 + 4 + 4 + // tags
		4 + len(params.TestVectorSeed)
	elements := (192 + 9 + 9) * 32
	require.Equal(t, header+elements, buf.Len())
}

func TestGenerateAll(t *testing.T) {
	good := params.TestVector1()
	bad := params.TestVector1()
	bad.Degree = 3

	jobs := []Job{
		{Name: "a", Params: good, Seed: []byte("a")},
		{Name: "bad", Params: bad, Seed: []byte("b")},
		{Name: "c", Params: good, Seed: []byte("c")},
	}
	var done atomic.Int32
	results := GenerateAll(jobs, 2, func(Result) { done.Add(1) })
	require.Len(t, results, 3)
	require.EqualValues(t, 3, done.Load())

	require.True(t, results[0].OK())
	require.Equal(t, "a", results[0].Job.Name)
	require.False(t, results[1].OK())
	require.ErrorIs(t, results[1].Err, params.ErrInvalidParameters)
	require.Nil(t, results[1].Set)
	require.True(t, results[2].OK())

	single, err := GenerateConstants(good, []byte("c"))
	require.NoError(t, err)
	require.Equal(t, single.Digest(), results[2].Set.Digest())
}

func TestPermutationInternalLayerMatchesDense(t *testing.T) {
	set := vector(t)
	f := set.Field()
	h := NewPermutation(set)

	x := []field.Element{f.FromUint64(1), f.FromUint64(2), f.FromUint64(3)}
	want := set.InternalMatrix().MulVec(f, x)
	h.matMulInternalInPlace(x)
	require.Equal(t, strs(want), strs(x))
}

func TestPermutation(t *testing.T) {
	set := vector(t)
	f := set.Field()
	h := NewPermutation(set)

	a := []field.Element{f.Zero(), f.One(), f.FromUint64(2)}
	b := []field.Element{f.Zero(), f.One(), f.FromUint64(2)}
	require.NoError(t, h.Permutation(a))
	require.NoError(t, h.Permutation(b))
	require.Equal(t, strs(a), strs(b))
	require.NotEqual(t, []string{"0", "1", "2"}, strs(a))

	c := []field.Element{f.Zero(), f.One(), f.FromUint64(3)}
	require.NoError(t, h.Permutation(c))
	require.NotEqual(t, strs(a), strs(c))

	require.ErrorIs(t, h.Permutation(a[:2]), ErrInvalidSizebuffer)
	_, err := h.Compress(f.Zero(), f.One())
	require.ErrorIs(t, err, ErrInvalidSizebuffer)
}

func TestHashCompress(t *testing.T) {
	var x, y fr.Element
	x.SetUint64(1)
	y.SetUint64(2)

	c := HashCompress(x, y)
	require.Equal(t, c, HashCompress(x, y))
	require.NotEqual(t, c, HashCompress(y, x))

	var zero fr.Element
	require.Equal(t, HashCompress(zero, x), HashSum(x))
	require.Equal(t, HashCompress(HashCompress(zero, x), y), HashSum(x, y))

	h := HashPermutation()
	native, err := h.HashSum(fromFr(h.f, x), fromFr(h.f, y))
	require.NoError(t, err)
	require.Equal(t, HashSum(x, y), toFr(native))
}
