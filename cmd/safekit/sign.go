package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/proofoftom/safekit"
	"github.com/proofoftom/safekit/types"
)

func newSignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign <hash>",
		Short: "Sign a transaction hash with a raw private key",
		Long:  `Configure a private key in a .env file (using the PRIVATE_KEY var) and sign a wallet transaction hash with it.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := hexutil.Decode(args[0])
			if err != nil || len(hash) != common.HashLength {
				return fmt.Errorf("expected a 32-byte hash, got %q", args[0])
			}

			pk, err := loadPrivateKey()
			if err != nil {
				return err
			}

			raw, err := crypto.Sign(hash, pk)
			if err != nil {
				return fmt.Errorf("failed to sign: %w", err)
			}

			sig, err := types.NewSignatureFromBytes(raw)
			if err != nil {
				return err
			}
			sig = safekit.NormalizeVerificationByte(sig)

			fmt.Printf("signer: %s\n", crypto.PubkeyToAddress(pk.PublicKey).Hex())
			fmt.Printf("signature: %s\n", hexutil.Encode(sig.ToBytes()))

			return nil
		},
	}

	return cmd
}
