package cmd

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/consensys/gnark/logger"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	poseidon2gen "github.com/eon-protocol/poseidon2gen"
	"github.com/eon-protocol/poseidon2gen/config"
	"github.com/eon-protocol/poseidon2gen/sink"
)

var ErrBatchFailed = errors.New("batch: some jobs failed")

var batchCmdConfig string
var batchCmdDir string
var batchCmdFormat string
var batchCmdJobs int

func init() {
	batchCmd.Flags().StringVar(&batchCmdConfig, "config", "", "batch file (yaml), - for stdin")
	batchCmd.Flags().StringVar(&batchCmdDir, "dir", ".", "output directory")
	batchCmd.Flags().StringVar(&batchCmdFormat, "format", sink.FormatCircom, "output format: circom or json")
	batchCmd.Flags().IntVar(&batchCmdJobs, "jobs", runtime.NumCPU(), "jobs generated in parallel")
	batchCmd.MarkFlagRequired("config")
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Generate every constant set of a batch file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ext := sink.Extension(batchCmdFormat)
		if ext == "" {
			return fmt.Errorf("%w: %q", sink.ErrUnknownFormat, batchCmdFormat)
		}
		cfgs, err := config.LoadBatch(batchCmdConfig)
		if err != nil {
			return err
		}
		jobs := make([]poseidon2gen.Job, len(cfgs))
		for i, c := range cfgs {
			if jobs[i], err = c.Job(); err != nil {
				return err
			}
		}
		if err := os.MkdirAll(batchCmdDir, 0o755); err != nil {
			return err
		}

		bar := progressbar.NewOptions(len(jobs),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("generating"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		results := poseidon2gen.GenerateAll(jobs, batchCmdJobs, func(poseidon2gen.Result) {
			bar.Add(1)
		})
		bar.Finish()

		return reportBatch(results, batchCmdDir, batchCmdFormat, ext)
	},
}

// reportBatch writes every successful set and logs one line per job.
func reportBatch(results []poseidon2gen.Result, dir, format, ext string) error {
	log := logger.Logger()
	failed := 0
	for _, r := range results {
		if r.OK() {
			path := filepath.Join(dir, r.Job.Name+ext)
			r.Err = writeSet(path, format, r.Set)
		}
		if !r.OK() {
			failed++
			log.Error().Str("job", r.Job.Name).Err(r.Err).Msg("job failed")
			continue
		}
		digest := r.Set.Digest()
		log.Info().
			Str("job", r.Job.Name).
			Str("sha256", hex.EncodeToString(digest[:])).
			Msg("job done")
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrBatchFailed, failed, len(results))
	}
	return nil
}
