package field

import "math/big"

// Element is an immutable canonical residue. The zero value is 0. The backing
// integer is never mutated after construction, so copies may be shared freely.
type Element struct {
	v *big.Int
}

var zero big.Int

func (e Element) big() *big.Int {
	if e.v == nil {
		return &zero
	}
	return e.v
}

// BigInt returns a copy of the residue.
func (e Element) BigInt() *big.Int {
	return new(big.Int).Set(e.big())
}

func (e Element) IsZero() bool {
	return e.big().Sign() == 0
}

func (e Element) IsOne() bool {
	return e.big().IsInt64() && e.big().Int64() == 1
}

// String renders the decimal literal.
func (e Element) String() string {
	return e.big().String()
}

// Text renders the residue in the given base.
func (e Element) Text(base int) string {
	return e.big().Text(base)
}

// FillBytes writes the big-endian encoding into buf, left-padded with zeros.
// It panics if buf is too short, like big.Int.FillBytes.
func (e Element) FillBytes(buf []byte) []byte {
	return e.big().FillBytes(buf)
}

// Bytes returns the big-endian encoding on f.ByteLen() bytes.
func (f *Field) Bytes(e Element) []byte {
	return e.FillBytes(make([]byte, f.byteLen))
}

// Cmp compares residues as integers in [0, p).
func (e Element) Cmp(o Element) int {
	return e.big().Cmp(o.big())
}
