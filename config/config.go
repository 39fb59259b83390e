// Package config loads generation jobs from YAML.
//
//	field: bn254            # curve name known to gnark-crypto, or a decimal/0x modulus
//	width: 3
//	degree: 5
//	full_rounds: 8
//	partial_rounds: 56
//	domain_tag: poseidon2gen
//	seed: test-vector-1
//	tags:                   # optional, defaults RC / MEXT / MINT
//	  external_matrix: MEXT
//
// A batch file holds a list of such documents under "jobs", each with a name;
// "defaults" supplies any field a job leaves empty.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"

	"gopkg.in/yaml.v3"

	poseidon2gen "github.com/eon-protocol/poseidon2gen"
	"github.com/eon-protocol/poseidon2gen/field"
	"github.com/eon-protocol/poseidon2gen/params"
)

var ErrMissingField = errors.New("missing field")

type Config struct {
	Name          string      `yaml:"name,omitempty"`
	Field         string      `yaml:"field"`
	Width         int         `yaml:"width"`
	Degree        uint64      `yaml:"degree"`
	FullRounds    int         `yaml:"full_rounds"`
	PartialRounds int         `yaml:"partial_rounds"`
	DomainTag     *string     `yaml:"domain_tag,omitempty"`
	Seed          *string     `yaml:"seed,omitempty"`
	Tags          params.Tags `yaml:"tags,omitempty"`
}

type Batch struct {
	Defaults Config   `yaml:"defaults"`
	Jobs     []Config `yaml:"jobs"`
}

// Modulus resolves the field entry.
func (c Config) Modulus() (*big.Int, error) {
	if c.Field == "" {
		return nil, fmt.Errorf("%w: field", ErrMissingField)
	}
	if p, ok := new(big.Int).SetString(c.Field, 0); ok {
		return p, nil
	}
	id, err := field.CurveID(c.Field)
	if err != nil {
		return nil, err
	}
	return id.ScalarField(), nil
}

// Parameters converts c; the result still has to pass params validation.
func (c Config) Parameters() (params.Parameters, error) {
	p, err := c.Modulus()
	if err != nil {
		return params.Parameters{}, err
	}
	var tag []byte
	if c.DomainTag != nil {
		tag = []byte(*c.DomainTag)
	}
	return params.Parameters{
		Modulus:       p,
		Width:         c.Width,
		Degree:        c.Degree,
		FullRounds:    c.FullRounds,
		PartialRounds: c.PartialRounds,
		DomainTag:     tag,
		Tags:          c.Tags,
	}, nil
}

// Job converts c into a generation job.
func (c Config) Job() (poseidon2gen.Job, error) {
	p, err := c.Parameters()
	if err != nil {
		return poseidon2gen.Job{}, fmt.Errorf("job %q: %w", c.Name, err)
	}
	if c.Seed == nil {
		return poseidon2gen.Job{}, fmt.Errorf("job %q: %w: seed", c.Name, ErrMissingField)
	}
	return poseidon2gen.Job{Name: c.Name, Params: p, Seed: []byte(*c.Seed)}, nil
}

// withDefaults fills the zero fields of c from d.
func (c Config) withDefaults(d Config) Config {
	if c.Field == "" {
		c.Field = d.Field
	}
	if c.Width == 0 {
		c.Width = d.Width
	}
	if c.Degree == 0 {
		c.Degree = d.Degree
	}
	if c.FullRounds == 0 {
		c.FullRounds = d.FullRounds
	}
	if c.PartialRounds == 0 {
		c.PartialRounds = d.PartialRounds
	}
	if c.DomainTag == nil {
		c.DomainTag = d.DomainTag
	}
	if c.Seed == nil {
		c.Seed = d.Seed
	}
	if c.Tags.RoundConstants == "" {
		c.Tags.RoundConstants = d.Tags.RoundConstants
	}
	if c.Tags.ExternalMatrix == "" {
		c.Tags.ExternalMatrix = d.Tags.ExternalMatrix
	}
	if c.Tags.InternalMatrix == "" {
		c.Tags.InternalMatrix = d.Tags.InternalMatrix
	}
	return c
}

func decode(r io.Reader, v any) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// Read decodes a single job document.
func Read(r io.Reader) (Config, error) {
	var c Config
	return c, decode(r, &c)
}

// ReadBatch decodes a batch document and applies its defaults. Jobs without
// a name are named by position.
func ReadBatch(r io.Reader) ([]Config, error) {
	var b Batch
	if err := decode(r, &b); err != nil {
		return nil, err
	}
	if len(b.Jobs) == 0 {
		return nil, fmt.Errorf("%w: jobs", ErrMissingField)
	}
	seen := make(map[string]bool, len(b.Jobs))
	out := make([]Config, len(b.Jobs))
	for i, j := range b.Jobs {
		j = j.withDefaults(b.Defaults)
		if j.Name == "" {
			j.Name = fmt.Sprintf("job-%03d", i)
		}
		if seen[j.Name] {
			return nil, fmt.Errorf("duplicate job name %q", j.Name)
		}
		seen[j.Name] = true
		out[i] = j
	}
	return out, nil
}

// Load reads a single job file; "-" reads stdin.
func Load(path string) (Config, error) {
	data, err := readFile(path)
	if err != nil {
		return Config{}, err
	}
	return Read(bytes.NewReader(data))
}

// LoadBatch reads a batch file; "-" reads stdin.
func LoadBatch(path string) ([]Config, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return ReadBatch(bytes.NewReader(data))
}

func readFile(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// TestVector returns the config of params.TestVector1.
func TestVector() Config {
	tag, seed := params.TestVectorTag, params.TestVectorSeed
	return Config{
		Name:          "test-vector-1",
		Field:         "bn254",
		Width:         3,
		Degree:        5,
		FullRounds:    8,
		PartialRounds: 56,
		DomainTag:     &tag,
		Seed:          &seed,
		Tags:          params.DefaultTags(),
	}
}

// Marshal renders c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
