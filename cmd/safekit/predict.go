package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/proofoftom/safekit"
	"github.com/proofoftom/safekit/internal/utils/safecast"
)

func newPredictCmd() *cobra.Command {
	var (
		owners    []string
		threshold int
		saltNonce uint64
		factory   string
		singleton string
		handler   string
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the deterministic deployment address for a wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed := make([]common.Address, 0, len(owners))
			for _, o := range owners {
				if !common.IsHexAddress(o) {
					return fmt.Errorf("invalid owner address: %q", o)
				}
				parsed = append(parsed, common.HexToAddress(o))
			}

			t, err := safecast.IntToUint8(threshold)
			if err != nil {
				return err
			}

			addr, err := safekit.PredictAddress(safekit.DeploymentParams{
				Factory:         common.HexToAddress(factory),
				Singleton:       common.HexToAddress(singleton),
				Owners:          parsed,
				Threshold:       t,
				FallbackHandler: common.HexToAddress(handler),
				SaltNonce:       saltNonce,
			})
			if err != nil {
				return err
			}

			fmt.Println(addr.Hex())

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&owners, "owners", nil, "Owner addresses in on-chain order")
	cmd.Flags().IntVar(&threshold, "threshold", 1, "Signature threshold")
	cmd.Flags().Uint64Var(&saltNonce, "salt-nonce", 0, "Salt nonce for address derivation")
	cmd.Flags().StringVar(&factory, "factory", safekit.DefaultProxyFactory.Hex(), "Proxy factory address")
	cmd.Flags().StringVar(&singleton, "singleton", safekit.DefaultSingleton.Hex(), "Singleton address")
	cmd.Flags().StringVar(&handler, "fallback-handler", safekit.DefaultFallbackHandler.Hex(), "Fallback handler address")

	return cmd
}
