package main

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/proofoftom/safekit"
)

func newDecodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <calldata>",
		Short: "Decode owner-management calldata into a structured change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := hexutil.Decode(args[0])
			if err != nil {
				return fmt.Errorf("invalid calldata: %w", err)
			}

			change, err := safekit.DecodeConfigChange(data)
			if err != nil {
				return err
			}
			if change == nil {
				fmt.Println("not an owner-management call")
				return nil
			}

			out, err := json.MarshalIndent(change, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))

			return nil
		},
	}

	return cmd
}
