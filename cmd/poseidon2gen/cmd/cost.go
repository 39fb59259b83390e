package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	poseidon2gen "github.com/eon-protocol/poseidon2gen"
	"github.com/eon-protocol/poseidon2gen/circuits/hasher"
	"github.com/eon-protocol/poseidon2gen/config"
)

var costCmdConfig string

func init() {
	costCmd.Flags().StringVar(&costCmdConfig, "config", "", "job file (yaml), - for stdin")
	costCmd.MarkFlagRequired("config")
}

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Compile one permutation and print its constraint counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(costCmdConfig)
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
		cost, err := hasher.MeasureCost(set)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), job.Params.String())
		fmt.Fprintln(cmd.OutOrStdout(), "r1cs", cost.R1CS)
		fmt.Fprintln(cmd.OutOrStdout(), "plonk", cost.SparseR1CS)
		return nil
	},
}
