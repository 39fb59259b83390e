package sink

import (
	"bufio"
	"fmt"
	"io"

	poseidon2gen "github.com/eon-protocol/poseidon2gen"
	"github.com/eon-protocol/poseidon2gen/field"
)

// Circom writes a circom 2 include file exposing the constants as functions:
// POSEIDON2_T, _RF, _RP, _D return the scalar parameters, POSEIDON2_RC the
// flat round-major constant list, POSEIDON2_ME and POSEIDON2_MI the matrices
// as arrays of rows. All values are decimal literals.
func Circom(w io.Writer, set *poseidon2gen.ConstantSet) error {
	p := set.Parameters()
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "pragma circom 2.0.0;\n\n")
	fmt.Fprintf(bw, "// p = %s\n", p.Modulus.String())
	fmt.Fprintf(bw, "// seed = %q, domain tag = %q\n\n", set.Seed(), p.DomainTag)

	scalar := func(name string, v uint64) {
		fmt.Fprintf(bw, "function %s() {\n    return %d;\n}\n\n", name, v)
	}
	scalar("POSEIDON2_T", uint64(p.Width))
	scalar("POSEIDON2_RF", uint64(p.FullRounds))
	scalar("POSEIDON2_RP", uint64(p.PartialRounds))
	scalar("POSEIDON2_D", p.Degree)

	fmt.Fprintf(bw, "function POSEIDON2_RC() {\n    return [\n")
	writeList(bw, set.RoundConstants(), "        ")
	fmt.Fprintf(bw, "    ];\n}\n\n")

	matrix := func(name string, rows [][]field.Element) {
		fmt.Fprintf(bw, "function %s() {\n    return [\n", name)
		for i, row := range rows {
			fmt.Fprintf(bw, "        [\n")
			writeList(bw, row, "            ")
			if i < len(rows)-1 {
				fmt.Fprintf(bw, "        ],\n")
			} else {
				fmt.Fprintf(bw, "        ]\n")
			}
		}
		fmt.Fprintf(bw, "    ];\n}\n")
	}
	matrix("POSEIDON2_ME", set.ExternalMatrix().Rows())
	fmt.Fprintln(bw)
	matrix("POSEIDON2_MI", set.InternalMatrix().Rows())

	return bw.Flush()
}

func writeList(w io.Writer, es []field.Element, indent string) {
	for i, e := range es {
		sep := ","
		if i == len(es)-1 {
			sep = ""
		}
		fmt.Fprintf(w, "%s%s%s\n", indent, e.String(), sep)
	}
}
