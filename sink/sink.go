// Package sink renders a ConstantSet for downstream circuit tooling.
package sink

import (
	"errors"
	"fmt"
	"io"
	"strings"

	poseidon2gen "github.com/eon-protocol/poseidon2gen"
)

var ErrUnknownFormat = errors.New("unknown output format")

const (
	FormatCircom = "circom"
	FormatJSON   = "json"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{FormatCircom, FormatJSON}
}

// Extension returns the conventional file extension for format.
func Extension(format string) string {
	switch strings.ToLower(format) {
	case FormatCircom:
		return ".circom"
	case FormatJSON:
		return ".json"
	}
	return ""
}

// Write renders set in the named format.
func Write(format string, w io.Writer, set *poseidon2gen.ConstantSet) error {
	switch strings.ToLower(format) {
	case FormatCircom:
		return Circom(w, set)
	case FormatJSON:
		return JSON(w, set)
	}
	return fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
}
