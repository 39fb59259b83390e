// Package field implements arithmetic modulo a fixed prime chosen at runtime.
//
// gnark-crypto generates one element type per compiled-in modulus; the
// constant generator takes its modulus from configuration, so elements here
// are backed by math/big and every exported operation returns a canonical
// residue in [0, p).
package field

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc"
)

var (
	ErrInvalidModulus = errors.New("modulus must be a prime greater than 2")
	ErrNotInvertible  = errors.New("element is not invertible")
	ErrNotCanonical   = errors.New("value is not a canonical field element")
	ErrUnknownCurve   = errors.New("unknown curve")
)

// primality rounds for big.Int.ProbablyPrime; a Baillie-PSW test is always
// performed on top of these.
const primalityRounds = 32

// Field is stateless after construction and safe for concurrent use.
type Field struct {
	p       *big.Int
	byteLen int
}

// New returns the prime field of order p.
func New(p *big.Int) (*Field, error) {
	if p == nil || p.Cmp(big.NewInt(2)) <= 0 || !p.ProbablyPrime(primalityRounds) {
		return nil, ErrInvalidModulus
	}
	q := new(big.Int).Set(p)
	return &Field{p: q, byteLen: (q.BitLen() + 7) / 8}, nil
}

// ForCurve returns the scalar field of a curve implemented by gnark-crypto,
// e.g. "bn254" or "bls12-381".
func ForCurve(name string) (*Field, error) {
	id, err := CurveID(name)
	if err != nil {
		return nil, err
	}
	return New(id.ScalarField())
}

// CurveID resolves a curve name, accepting '-' or '_' as separator.
func CurveID(name string) (ecc.ID, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if id, err := ecc.IDFromString(key); err == nil {
		return id, nil
	}
	return ecc.UNKNOWN, fmt.Errorf("%w %q", ErrUnknownCurve, name)
}

// Modulus returns a copy of p.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.p)
}

func (f *Field) BitLen() int {
	return f.p.BitLen()
}

// ByteLen is the width of the fixed-size big-endian encoding of an element.
func (f *Field) ByteLen() int {
	return f.byteLen
}

func (f *Field) wrap(v *big.Int) Element {
	return Element{v: v}
}

// Reduce maps any integer, negative ones included, to its canonical residue.
func (f *Field) Reduce(x *big.Int) Element {
	var r big.Int
	r.Mod(x, f.p)
	return f.wrap(&r)
}

func (f *Field) FromUint64(x uint64) Element {
	return f.Reduce(new(big.Int).SetUint64(x))
}

// FromInt64 reduces x, so -1 becomes p-1.
func (f *Field) FromInt64(x int64) Element {
	return f.Reduce(big.NewInt(x))
}

// Canonical accepts x only if it already lies in [0, p).
func (f *Field) Canonical(x *big.Int) (Element, error) {
	if x.Sign() < 0 || x.Cmp(f.p) >= 0 {
		return Element{}, ErrNotCanonical
	}
	return f.wrap(new(big.Int).Set(x)), nil
}

// SetString parses a decimal literal and requires it to be canonical.
func (f *Field) SetString(s string) (Element, error) {
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Element{}, fmt.Errorf("parse %q: %w", s, ErrNotCanonical)
	}
	return f.Canonical(x)
}

func (f *Field) Zero() Element { return Element{} }

func (f *Field) One() Element { return f.wrap(big.NewInt(1)) }

func (f *Field) Add(a, b Element) Element {
	var r big.Int
	r.Add(a.big(), b.big())
	if r.Cmp(f.p) >= 0 {
		r.Sub(&r, f.p)
	}
	return f.wrap(&r)
}

func (f *Field) Sub(a, b Element) Element {
	var r big.Int
	r.Sub(a.big(), b.big())
	if r.Sign() < 0 {
		r.Add(&r, f.p)
	}
	return f.wrap(&r)
}

func (f *Field) Neg(a Element) Element {
	if a.IsZero() {
		return a
	}
	var r big.Int
	r.Sub(f.p, a.big())
	return f.wrap(&r)
}

func (f *Field) Mul(a, b Element) Element {
	var r big.Int
	r.Mul(a.big(), b.big())
	r.Mod(&r, f.p)
	return f.wrap(&r)
}

func (f *Field) Square(a Element) Element {
	return f.Mul(a, a)
}

// Pow computes base^e for e ≥ 0 by left-to-right square-and-multiply over
// every bit of e. Negative exponents are taken as powers of the inverse.
func (f *Field) Pow(base Element, e *big.Int) (Element, error) {
	if e.Sign() < 0 {
		inv, err := f.Inverse(base)
		if err != nil {
			return Element{}, err
		}
		return f.Pow(inv, new(big.Int).Neg(e))
	}
	acc := f.One()
	for i := e.BitLen() - 1; i >= 0; i-- {
		acc = f.Square(acc)
		if e.Bit(i) == 1 {
			acc = f.Mul(acc, base)
		}
	}
	return acc, nil
}

// PowUint64 is Pow for small non-negative exponents.
func (f *Field) PowUint64(base Element, e uint64) Element {
	r, _ := f.Pow(base, new(big.Int).SetUint64(e))
	return r
}

// Inverse returns a^(p-2); fails only when a ≡ 0.
func (f *Field) Inverse(a Element) (Element, error) {
	if a.IsZero() {
		return Element{}, ErrNotInvertible
	}
	return f.Pow(a, new(big.Int).Sub(f.p, big.NewInt(2)))
}

// Equal reports whether a and b denote the same residue.
func (f *Field) Equal(a, b Element) bool {
	return a.big().Cmp(b.big()) == 0
}

// IsCoprimeToGroupOrder reports gcd(d, p-1) = 1, i.e. x -> x^d permutes the field.
func (f *Field) IsCoprimeToGroupOrder(d uint64) bool {
	var g big.Int
	pm1 := new(big.Int).Sub(f.p, big.NewInt(1))
	g.GCD(nil, nil, new(big.Int).SetUint64(d), pm1)
	return g.Cmp(big.NewInt(1)) == 0
}
