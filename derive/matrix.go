package derive

import (
	"fmt"
	"strings"

	"github.com/eon-protocol/poseidon2gen/field"
)

// Matrix is a square, row-major grid of canonical elements. Methods never
// modify the receiver.
type Matrix struct {
	n    int
	data []field.Element
}

// NewMatrix copies rows into a Matrix; every row must have len(rows) entries.
func NewMatrix(rows [][]field.Element) (Matrix, error) {
	n := len(rows)
	data := make([]field.Element, 0, n*n)
	for i, r := range rows {
		if len(r) != n {
			return Matrix{}, fmt.Errorf("row %d has %d entries, want %d", i, len(r), n)
		}
		data = append(data, r...)
	}
	return Matrix{n: n, data: data}, nil
}

func identity(f *field.Field, n int) Matrix {
	m := Matrix{n: n, data: make([]field.Element, n*n)}
	for i := 0; i < n; i++ {
		m.data[i*n+i] = f.One()
	}
	return m
}

// Size is the dimension t.
func (m Matrix) Size() int { return m.n }

func (m Matrix) At(i, j int) field.Element { return m.data[i*m.n+j] }

// Row returns a copy of row i.
func (m Matrix) Row(i int) []field.Element {
	return append([]field.Element(nil), m.data[i*m.n:(i+1)*m.n]...)
}

// Rows returns a copy of the grid.
func (m Matrix) Rows() [][]field.Element {
	out := make([][]field.Element, m.n)
	for i := range out {
		out[i] = m.Row(i)
	}
	return out
}

// Flatten returns a row-major copy.
func (m Matrix) Flatten() []field.Element {
	return append([]field.Element(nil), m.data...)
}

// Diagonal returns a copy of the main diagonal.
func (m Matrix) Diagonal() []field.Element {
	out := make([]field.Element, m.n)
	for i := range out {
		out[i] = m.At(i, i)
	}
	return out
}

func (m Matrix) Equal(o Matrix) bool {
	if m.n != o.n {
		return false
	}
	for i := range m.data {
		if m.data[i].Cmp(o.data[i]) != 0 {
			return false
		}
	}
	return true
}

func (m Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.n; i++ {
		sb.WriteByte('[')
		for j := 0; j < m.n; j++ {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(m.At(i, j).String())
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

// MulVec returns m·v.
func (m Matrix) MulVec(f *field.Field, v []field.Element) []field.Element {
	out := make([]field.Element, m.n)
	for i := 0; i < m.n; i++ {
		acc := f.Zero()
		for j := 0; j < m.n; j++ {
			acc = f.Add(acc, f.Mul(m.At(i, j), v[j]))
		}
		out[i] = acc
	}
	return out
}

// Mul returns m·o.
func (m Matrix) Mul(f *field.Field, o Matrix) Matrix {
	n := m.n
	out := Matrix{n: n, data: make([]field.Element, n*n)}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			acc := f.Zero()
			for k := 0; k < n; k++ {
				acc = f.Add(acc, f.Mul(m.At(i, k), o.At(k, j)))
			}
			out.data[i*n+j] = acc
		}
	}
	return out
}

func (m Matrix) trace(f *field.Field) field.Element {
	acc := f.Zero()
	for i := 0; i < m.n; i++ {
		acc = f.Add(acc, m.At(i, i))
	}
	return acc
}

// Determinant computes det(m) by Gaussian elimination.
func Determinant(f *field.Field, m Matrix) field.Element {
	n := m.n
	a := m.Flatten()
	det := f.One()
	for col := 0; col < n; col++ {
		pivot := -1
		for r := col; r < n; r++ {
			if !a[r*n+col].IsZero() {
				pivot = r
				break
			}
		}
		if pivot < 0 {
			return f.Zero()
		}
		if pivot != col {
			for c := 0; c < n; c++ {
				a[col*n+c], a[pivot*n+c] = a[pivot*n+c], a[col*n+c]
			}
			det = f.Neg(det)
		}
		pv := a[col*n+col]
		det = f.Mul(det, pv)
		inv, _ := f.Inverse(pv)
		for r := col + 1; r < n; r++ {
			factor := f.Mul(a[r*n+col], inv)
			if factor.IsZero() {
				continue
			}
			for c := col; c < n; c++ {
				a[r*n+c] = f.Sub(a[r*n+c], f.Mul(factor, a[col*n+c]))
			}
		}
	}
	return det
}

// submatrix selects rows and cols of m.
func (m Matrix) submatrix(rows, cols []int) Matrix {
	out := Matrix{n: len(rows), data: make([]field.Element, 0, len(rows)*len(cols))}
	for _, r := range rows {
		for _, c := range cols {
			out.data = append(out.data, m.At(r, c))
		}
	}
	return out
}

// combinations lists the k-subsets of {0..n-1} in lexicographic order.
func combinations(n, k int) [][]int {
	var out [][]int
	cur := make([]int, 0, k)
	var rec func(start int)
	rec = func(start int) {
		if len(cur) == k {
			out = append(out, append([]int(nil), cur...))
			return
		}
		for i := start; i <= n-(k-len(cur)); i++ {
			cur = append(cur, i)
			rec(i + 1)
			cur = cur[:len(cur)-1]
		}
	}
	rec(0)
	return out
}

// IsMDS reports whether every square submatrix of m, of every size 1..t,
// is nonsingular.
func IsMDS(f *field.Field, m Matrix) bool {
	for k := 1; k <= m.n; k++ {
		subsets := combinations(m.n, k)
		for _, rows := range subsets {
			for _, cols := range subsets {
				if Determinant(f, m.submatrix(rows, cols)).IsZero() {
					return false
				}
			}
		}
	}
	return true
}
