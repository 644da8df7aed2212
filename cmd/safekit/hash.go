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

func newHashCmd() *cobra.Command {
	var (
		chainID   uint64
		wallet    string
		to        string
		value     string
		data      string
		operation uint8
		nonce     uint64
	)

	cmd := &cobra.Command{
		Use:   "hash",
		Short: "Compute the signing hash for a wallet transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !common.IsHexAddress(wallet) {
				return fmt.Errorf("invalid wallet address: %q", wallet)
			}
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

			hash, err := safekit.TransactionHash(chainID, common.HexToAddress(wallet), types.Payload{
				To:        common.HexToAddress(to),
				Value:     amount,
				Data:      calldata,
				Operation: types.CallOperation(operation),
			}, nonce)
			if err != nil {
				return err
			}

			fmt.Println(hash.Hex())

			return nil
		},
	}

	cmd.Flags().Uint64Var(&chainID, "chain-id", 1, "EIP-155 chain id")
	cmd.Flags().StringVar(&wallet, "wallet", "", "Deployed wallet address")
	cmd.Flags().StringVar(&to, "to", "", "Transaction target address")
	cmd.Flags().StringVar(&value, "value", "0", "Value in wei (decimal)")
	cmd.Flags().StringVar(&data, "data", "0x", "Calldata (0x-prefixed hex)")
	cmd.Flags().Uint8Var(&operation, "operation", 0, "0 for call, 1 for delegatecall")
	cmd.Flags().Uint64Var(&nonce, "nonce", 0, "Wallet transaction nonce")

	return cmd
}
