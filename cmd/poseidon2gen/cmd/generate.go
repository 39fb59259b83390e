package cmd

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/consensys/gnark/logger"
	"github.com/spf13/cobra"

	poseidon2gen "github.com/eon-protocol/poseidon2gen"
	"github.com/eon-protocol/poseidon2gen/config"
	"github.com/eon-protocol/poseidon2gen/sink"
)

var generateCmdConfig string
var generateCmdFormat string
var generateCmdOut string

func init() {
	generateCmd.Flags().StringVar(&generateCmdConfig, "config", "", "job file (yaml), - for stdin")
	generateCmd.Flags().StringVar(&generateCmdFormat, "format", sink.FormatCircom, "output format: circom or json")
	generateCmd.Flags().StringVar(&generateCmdOut, "out", "-", "output file, - for stdout")
	generateCmd.MarkFlagRequired("config")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one constant set",
	RunE: func(cmd *cobra.Command, args []string) error {
		if sink.Extension(generateCmdFormat) == "" {
			return fmt.Errorf("%w: %q", sink.ErrUnknownFormat, generateCmdFormat)
		}
		cfg, err := config.Load(generateCmdConfig)
		if err != nil {
			return err
		}
		job, err := cfg.Job()
		if err != nil {
			return err
		}
		set, err := poseidon2gen.GenerateConstants(job.Params, job.Seed)
		if err != nil {
			return err
		}
		if err := writeSet(generateCmdOut, generateCmdFormat, set); err != nil {
			return err
		}
		digest := set.Digest()
		log := logger.Logger()
		log.Info().
			Str("params", job.Params.String()).
			Str("sha256", hex.EncodeToString(digest[:])).
			Msg("constants generated")
		return nil
	},
}

// writeSet renders set to path, or to stdout when path is "-".
func writeSet(path, format string, set *poseidon2gen.ConstantSet) error {
	if path == "-" {
		return sink.Write(format, os.Stdout, set)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	return closeAfter(f, func(w io.Writer) error {
		return sink.Write(format, w, set)
	})
}

func closeAfter(f *os.File, write func(io.Writer) error) error {
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", f.Name(), err)
	}
	return f.Close()
}
