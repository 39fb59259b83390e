package sink

import (
	"encoding/hex"
	"encoding/json"
	"io"

	poseidon2gen "github.com/eon-protocol/poseidon2gen"
	"github.com/eon-protocol/poseidon2gen/derive"
	"github.com/eon-protocol/poseidon2gen/field"
	"github.com/eon-protocol/poseidon2gen/stream"
)

// Document is the JSON parameter file. Field elements are decimal strings.
type Document struct {
	FieldModulusHex string     `json:"field_modulus_hex"`
	FieldModulusDec string     `json:"field_modulus_dec"`
	T               int        `json:"t"`
	D               uint64     `json:"d"`
	RF              int        `json:"RF"`
	RP              int        `json:"RP"`
	Seed            string     `json:"seed"`
	DomainTag       string     `json:"domain_tag"`
	Tags            TagsDoc    `json:"tags"`
	RoundConstants  [][]string `json:"round_constants"`
	MatrixME        [][]string `json:"matrix_ME"`
	MatrixMI        [][]string `json:"matrix_MI"`
	MuValues        []string   `json:"mu_values"`
	Digest          string     `json:"sha256"`
	Notes           NotesDoc   `json:"notes"`
}

type TagsDoc struct {
	RoundConstants string `json:"round_constants"`
	ExternalMatrix string `json:"external_matrix"`
	InternalMatrix string `json:"internal_matrix"`
}

type NotesDoc struct {
	Stream         string `json:"stream"`
	ExternalMatrix string `json:"external_matrix"`
	InternalMatrix string `json:"internal_matrix"`
	RoundConstants string `json:"round_constants"`
	MatrixAttempts [2]int `json:"matrix_attempts"`
	MaxAttempts    int    `json:"max_attempts"`
}

// NewDocument converts set into its JSON form.
func NewDocument(set *poseidon2gen.ConstantSet) Document {
	p := set.Parameters()
	tags := p.ResolvedTags()
	rc := set.RoundConstants()
	rounds := make([][]string, p.Rounds())
	for r := range rounds {
		rounds[r] = decimals(rc[r*p.Width : (r+1)*p.Width])
	}
	ext, in := set.Attempts()
	digest := set.Digest()
	return Document{
		FieldModulusHex: "0x" + p.Modulus.Text(16),
		FieldModulusDec: p.Modulus.String(),
		T:               p.Width,
		D:               p.Degree,
		RF:              p.FullRounds,
		RP:              p.PartialRounds,
		Seed:            string(set.Seed()),
		DomainTag:       string(p.DomainTag),
		Tags: TagsDoc{
			RoundConstants: tags.RoundConstants,
			ExternalMatrix: tags.ExternalMatrix,
			InternalMatrix: tags.InternalMatrix,
		},
		RoundConstants: rounds,
		MatrixME:       matrix(set.ExternalMatrix()),
		MatrixMI:       matrix(set.InternalMatrix()),
		MuValues:       decimals(set.InternalDiagonal()),
		Digest:         hex.EncodeToString(digest[:]),
		Notes: NotesDoc{
			Stream:         "SHAKE256(" + stream.Prefix + " || len||seed || len||tag || u64be counter), big-endian, rejection sampled",
			ExternalMatrix: "Cauchy 1/(x_i - y_j), verified MDS",
			InternalMatrix: "J + diag(mu), irreducible minimal polynomials of M^k for k=1..2t",
			RoundConstants: "t constants per round, full and partial rounds alike, round-major",
			MatrixAttempts: [2]int{ext, in},
			MaxAttempts:    derive.MaxMatrixAttempts,
		},
	}
}

// JSON writes the indented Document of set.
func JSON(w io.Writer, set *poseidon2gen.ConstantSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(set))
}

func decimals(es []field.Element) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.String()
	}
	return out
}

func matrix(m derive.Matrix) [][]string {
	out := make([][]string, m.Size())
	for i := range out {
		out[i] = decimals(m.Row(i))
	}
	return out
}
