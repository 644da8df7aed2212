package main

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/proofoftom/safekit"
	"github.com/proofoftom/safekit/types"
)

func newExecDataCmd() *cobra.Command {
	var (
		to         string
		value      string
		data       string
		operation  uint8
		signatures string
	)

	cmd := &cobra.Command{
		Use:   "exec-data",
		Short: "Build execTransaction calldata from a payload and packed signatures",
		Long: `Build the calldata that executes a fully-signed wallet transaction.
The signatures argument is the packed blob: 65-byte r,s,v signatures
concatenated in ascending signer address order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !common.IsHexAddress(to) {
				return fmt.Errorf("invalid to address: %q", to)
			}

			amount := big.NewInt(0)
			if value != "" {
				var ok bool
				amount, ok = new(big.Int).SetString(value, 10)
				if !ok {
					return fmt.Errorf("invalid value: %q", value)
				}
			}

			var calldata []byte
			if data != "" && data != "0x" {
				var err error
				calldata, err = hexutil.Decode(data)
				if err != nil {
					return fmt.Errorf("invalid calldata: %w", err)
				}
			}

			packed, err := hexutil.Decode(signatures)
			if err != nil {
				return fmt.Errorf("invalid signatures: %w", err)
			}
			if len(packed) == 0 || len(packed)%types.SignatureBytesLength != 0 {
				return fmt.Errorf("signature blob must be a multiple of %d bytes", types.SignatureBytesLength)
			}

			encoded, err := safekit.EncodeExecTransaction(types.Payload{
				To:        common.HexToAddress(to),
				Value:     amount,
				Data:      calldata,
				Operation: types.CallOperation(operation),
			}, packed)
			if err != nil {
				return err
			}

			fmt.Println(hexutil.Encode(encoded))

			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Transaction target address")
	cmd.Flags().StringVar(&value, "value", "0", "Value in wei (decimal)")
	cmd.Flags().StringVar(&data, "data", "0x", "Calldata (0x-prefixed hex)")
	cmd.Flags().Uint8Var(&operation, "operation", 0, "0 for call, 1 for delegatecall")
	cmd.Flags().StringVar(&signatures, "signatures", "", "Packed signature blob (0x-prefixed hex)")

	return cmd
}
