package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	poseidon2gen "github.com/eon-protocol/poseidon2gen"
	"github.com/eon-protocol/poseidon2gen/params"
)

var vectorCmd = &cobra.Command{
	Use:   "vector",
	Short: "Print the digest of the reference test vector",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := params.TestVector1()
		set, err := poseidon2gen.GenerateConstants(p, []byte(params.TestVectorSeed))
		if err != nil {
			return err
		}
		digest := set.Digest()
		fmt.Fprintln(cmd.OutOrStdout(), p.String())
		fmt.Fprintln(cmd.OutOrStdout(), "sha256", "(", "ConstantSet", "[", params.TestVectorSeed, "]", ")", "=", hex.EncodeToString(digest[:]))
		return nil
	},
}
