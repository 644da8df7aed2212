// Command safekit exposes the wallet engine's stateless operations: address
// prediction, signing-hash computation, calldata decoding and hash signing.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	cmd := &cobra.Command{
		Use:   "safekit",
		Short: "Multi-signature wallet transaction tooling",
		Long:  ``,
	}

	cmd.AddCommand(newPredictCmd())
	cmd.AddCommand(newHashCmd())
	cmd.AddCommand(newDecodeCmd())
	cmd.AddCommand(newSignCmd())
	cmd.AddCommand(newExecDataCmd())
	cmd.AddCommand(newDeployDataCmd())

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
