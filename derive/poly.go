package derive

import (
	"math/big"

	"github.com/eon-protocol/poseidon2gen/field"
)

// poly holds coefficients lowest degree first; the zero polynomial is empty.
type poly []field.Element

func (a poly) trim() poly {
	for len(a) > 0 && a[len(a)-1].IsZero() {
		a = a[:len(a)-1]
	}
	return a
}

func (a poly) degree() int {
	return len(a.trim()) - 1
}

func polySub(f *field.Field, a, b poly) poly {
	n := max(len(a), len(b))
	out := make(poly, n)
	for i := 0; i < n; i++ {
		var x, y field.Element
		if i < len(a) {
			x = a[i]
		}
		if i < len(b) {
			y = b[i]
		}
		out[i] = f.Sub(x, y)
	}
	return out.trim()
}

func polyMul(f *field.Field, a, b poly) poly {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make(poly, len(a)+len(b)-1)
	for i := range out {
		out[i] = f.Zero()
	}
	for i, x := range a {
		if x.IsZero() {
			continue
		}
		for j, y := range b {
			out[i+j] = f.Add(out[i+j], f.Mul(x, y))
		}
	}
	return out.trim()
}

// polyMod returns a mod m; m must be nonzero.
func polyMod(f *field.Field, a, m poly) poly {
	m = m.trim()
	r := append(poly(nil), a.trim()...)
	dm := len(m) - 1
	lead, _ := f.Inverse(m[dm])
	for len(r)-1 >= dm {
		d := len(r) - 1
		q := f.Mul(r[d], lead)
		shift := d - dm
		for i := 0; i <= dm; i++ {
			r[shift+i] = f.Sub(r[shift+i], f.Mul(q, m[i]))
		}
		r = r[:d].trim()
	}
	return r
}

func polyGCD(f *field.Field, a, b poly) poly {
	a, b = a.trim(), b.trim()
	for len(b) > 0 {
		a, b = b, polyMod(f, a, b)
	}
	return a
}

// polyPowMod returns base^e mod m by square-and-multiply.
func polyPowMod(f *field.Field, base poly, e *big.Int, m poly) poly {
	acc := poly{f.One()}
	base = polyMod(f, base, m)
	for i := e.BitLen() - 1; i >= 0; i-- {
		acc = polyMod(f, polyMul(f, acc, acc), m)
		if e.Bit(i) == 1 {
			acc = polyMod(f, polyMul(f, acc, base), m)
		}
	}
	return acc
}

// primeFactors lists the distinct prime factors of n > 0.
func primeFactors(n int) []int {
	var out []int
	for q := 2; q*q <= n; q++ {
		if n%q == 0 {
			out = append(out, q)
			for n%q == 0 {
				n /= q
			}
		}
	}
	if n > 1 {
		out = append(out, n)
	}
	return out
}

// isIrreducible runs Rabin's test: a degree-n polynomial g is irreducible
// over F_p iff x^(p^n) = x mod g and gcd(x^(p^(n/q)) - x, g) = 1 for every
// prime q dividing n.
func isIrreducible(f *field.Field, g poly) bool {
	g = g.trim()
	n := len(g) - 1
	if n < 1 {
		return false
	}
	if n == 1 {
		return true
	}
	p := f.Modulus()
	x := poly{f.Zero(), f.One()}

	// frob[i] = x^(p^i) mod g
	frob := make([]poly, n+1)
	frob[0] = polyMod(f, x, g)
	for i := 1; i <= n; i++ {
		frob[i] = polyPowMod(f, frob[i-1], p, g)
	}
	if len(polySub(f, frob[n], frob[0])) != 0 {
		return false
	}
	for _, q := range primeFactors(n) {
		h := polySub(f, frob[n/q], frob[0])
		if polyGCD(f, h, g).degree() != 0 {
			return false
		}
	}
	return true
}

// charPoly returns det(xI - m) via Faddeev-LeVerrier. It divides by 1..t, so
// the field characteristic must exceed t.
func charPoly(f *field.Field, m Matrix) poly {
	n := m.n
	c := make(poly, n+1)
	c[n] = f.One()
	acc := Matrix{n: n, data: make([]field.Element, n*n)}
	for k := 1; k <= n; k++ {
		acc = m.Mul(f, acc)
		for i := 0; i < n; i++ {
			acc.data[i*n+i] = f.Add(acc.data[i*n+i], c[n-k+1])
		}
		tr := m.Mul(f, acc).trace(f)
		kinv, _ := f.Inverse(f.FromUint64(uint64(k)))
		c[n-k] = f.Neg(f.Mul(tr, kinv))
	}
	return c
}
