package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmdVerbose bool

var rootCmd = &cobra.Command{
	Use:           "poseidon2gen",
	Short:         "Deterministic Poseidon2 constant generation",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger(rootCmdVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootCmdVerbose, "verbose", "v", false, "log every matrix attempt")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(vectorCmd)
	rootCmd.AddCommand(costCmd)
}

// setupLogger moves gnark's logger to stderr so stdout only carries output.
func setupLogger(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger.Set(zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).
		With().Timestamp().Logger())
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
