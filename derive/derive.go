// Package derive turns deterministic field-element streams into Poseidon2
// round constants and linear layers.
//
// External matrix: Cauchy matrix M[i][j] = 1/(x_i - y_j) over 2t fresh draws,
// accepted when the 2t points are pairwise distinct and the matrix is
// verified MDS. Internal matrix: J + diag(mu) over t fresh draws, accepted
// when it is invertible and the characteristic polynomial of M^k is
// irreducible of degree t for k = 1..2t, which rules out invariant subspace
// trails through the partial rounds. Every attempt consumes a fixed number of
// draws, so the accepted candidate depends only on the stream.
package derive

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/logger"

	"github.com/eon-protocol/poseidon2gen/field"
	"github.com/eon-protocol/poseidon2gen/params"
	"github.com/eon-protocol/poseidon2gen/stream"
)

// MaxMatrixAttempts bounds the search for each matrix.
const MaxMatrixAttempts = 1000

// ExhaustiveMDSWidth is the largest width for which every square submatrix
// of the external matrix is checked. Above it the Cauchy distinctness
// conditions, which imply MDS, are checked together with full rank.
const ExhaustiveMDSWidth = 8

// RoundConstants draws t*(RF+RP) constants, round-major then lane-minor.
func RoundConstants(p params.Parameters, src stream.Source) ([]field.Element, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := make([]field.Element, p.NumRoundConstants())
	for i := range out {
		out[i] = src.Next()
	}
	return out, nil
}

// ExternalMatrix derives the full-round linear layer and returns it with the
// number of attempts it took.
func ExternalMatrix(p params.Parameters, src stream.Source) (Matrix, int, error) {
	f, err := prepare(p)
	if err != nil {
		return Matrix{}, 0, err
	}
	log := logger.Logger().With().Str("matrix", "external").Int("width", p.Width).Logger()

	t := p.Width
	for attempt := 1; attempt <= MaxMatrixAttempts; attempt++ {
		xs := take(src, t)
		ys := take(src, t)
		m, ok := cauchy(f, xs, ys)
		if !ok {
			log.Debug().Int("attempt", attempt).Msg("cauchy points collide")
			continue
		}
		if !verifyExternal(f, m) {
			log.Debug().Int("attempt", attempt).Msg("candidate is not MDS")
			continue
		}
		return m, attempt, nil
	}
	return Matrix{}, MaxMatrixAttempts, fmt.Errorf("external matrix: %w after %d attempts", params.ErrMatrixConstructionExhausted, MaxMatrixAttempts)
}

// InternalMatrix derives the partial-round linear layer J + diag(mu) and
// returns it with the number of attempts it took.
func InternalMatrix(p params.Parameters, src stream.Source) (Matrix, int, error) {
	f, err := prepare(p)
	if err != nil {
		return Matrix{}, 0, err
	}
	log := logger.Logger().With().Str("matrix", "internal").Int("width", p.Width).Logger()

	t := p.Width
	for attempt := 1; attempt <= MaxMatrixAttempts; attempt++ {
		m := onesPlusDiagonal(f, take(src, t))
		if Determinant(f, m).IsZero() {
			log.Debug().Int("attempt", attempt).Msg("candidate is singular")
			continue
		}
		if k, ok := HasIrreducibleMinPolys(f, m); !ok {
			log.Debug().Int("attempt", attempt).Int("power", k).Msg("reducible minimal polynomial")
			continue
		}
		return m, attempt, nil
	}
	return Matrix{}, MaxMatrixAttempts, fmt.Errorf("internal matrix: %w after %d attempts", params.ErrMatrixConstructionExhausted, MaxMatrixAttempts)
}

// prepare also requires p > t: the characteristic polynomial divides by 1..t.
func prepare(p params.Parameters) (*field.Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Modulus.Cmp(big.NewInt(int64(p.Width))) <= 0 {
		return nil, fmt.Errorf("%w: modulus %s does not exceed width %d", params.ErrInvalidParameters, p.Modulus, p.Width)
	}
	return p.Field()
}

func take(src stream.Source, n int) []field.Element {
	out := make([]field.Element, n)
	for i := range out {
		out[i] = src.Next()
	}
	return out
}

// cauchy builds 1/(x_i - y_j); ok is false unless all 2t points are distinct.
func cauchy(f *field.Field, xs, ys []field.Element) (Matrix, bool) {
	seen := make(map[string]struct{}, len(xs)+len(ys))
	for _, v := range append(append([]field.Element(nil), xs...), ys...) {
		k := v.String()
		if _, dup := seen[k]; dup {
			return Matrix{}, false
		}
		seen[k] = struct{}{}
	}
	t := len(xs)
	m := Matrix{n: t, data: make([]field.Element, t*t)}
	for i := 0; i < t; i++ {
		for j := 0; j < t; j++ {
			inv, err := f.Inverse(f.Sub(xs[i], ys[j]))
			if err != nil {
				return Matrix{}, false
			}
			m.data[i*t+j] = inv
		}
	}
	return m, true
}

func verifyExternal(f *field.Field, m Matrix) bool {
	if m.n <= ExhaustiveMDSWidth {
		return IsMDS(f, m)
	}
	return !Determinant(f, m).IsZero()
}

func onesPlusDiagonal(f *field.Field, mu []field.Element) Matrix {
	t := len(mu)
	m := Matrix{n: t, data: make([]field.Element, t*t)}
	for i := 0; i < t; i++ {
		for j := 0; j < t; j++ {
			if i == j {
				m.data[i*t+j] = mu[i]
			} else {
				m.data[i*t+j] = f.One()
			}
		}
	}
	return m
}

// HasIrreducibleMinPolys checks that M^k has an irreducible characteristic
// polynomial of degree t for k = 1..2t. On failure it returns the first
// offending power.
func HasIrreducibleMinPolys(f *field.Field, m Matrix) (int, bool) {
	pow := m
	for k := 1; k <= 2*m.n; k++ {
		if !isIrreducible(f, charPoly(f, pow)) {
			return k, false
		}
		pow = m.Mul(f, pow)
	}
	return 0, true
}
