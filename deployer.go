package safekit

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proofoftom/safekit/sdk"
	"github.com/proofoftom/safekit/types"
)

// Deployer drives a pending wallet through deterministic deployment:
// predict, collision-check, submit, confirm.
type Deployer struct {
	client    sdk.ChainClient
	factory   common.Address
	singleton common.Address
	fallback  common.Address
}

// NewDeployer creates a Deployer using the canonical v1.3.0 contract
// addresses.
func NewDeployer(client sdk.ChainClient) *Deployer {
	return &Deployer{
		client:    client,
		factory:   DefaultProxyFactory,
		singleton: DefaultSingleton,
		fallback:  DefaultFallbackHandler,
	}
}

// NewDeployerWithContracts creates a Deployer against custom factory,
// singleton and fallback handler deployments.
func NewDeployerWithContracts(client sdk.ChainClient, factory, singleton, fallbackHandler common.Address) *Deployer {
	return &Deployer{
		client:    client,
		factory:   factory,
		singleton: singleton,
		fallback:  fallbackHandler,
	}
}

// params derives the deployment parameter set from the wallet's current
// owners, threshold and salt nonce.
func (d *Deployer) params(wallet *types.Wallet) DeploymentParams {
	return DeploymentParams{
		Factory:         d.factory,
		Singleton:       d.singleton,
		Owners:          wallet.Owners.Addresses(),
		Threshold:       wallet.Threshold,
		FallbackHandler: d.fallback,
		SaltNonce:       wallet.SaltNonce,
	}
}

// Predict returns the address the wallet will deploy to with its current
// owner set, threshold and salt nonce. Re-derive after any of those change;
// never cache across mutations.
func (d *Deployer) Predict(wallet *types.Wallet) (common.Address, error) {
	return PredictAddress(d.params(wallet))
}

// Deploy submits the deployment transaction for a pending wallet and moves it
// to Deploying. The collision check is re-run here, immediately before
// submission, because an identical parameter set could have been deployed
// since the address was first predicted.
func (d *Deployer) Deploy(ctx context.Context, wallet *types.Wallet) (common.Hash, error) {
	if wallet.Status != types.WalletStatusPending {
		return common.Hash{}, fmt.Errorf("wallet %s is %s, expected %s", wallet.ID, wallet.Status, types.WalletStatusPending)
	}

	predicted, err := d.Predict(wallet)
	if err != nil {
		return common.Hash{}, err
	}

	if err := CheckUndeployed(ctx, d.client, predicted); err != nil {
		return common.Hash{}, err
	}

	data, err := EncodeCreateProxyWithNonce(d.params(wallet))
	if err != nil {
		return common.Hash{}, err
	}

	if err := wallet.TransitionTo(types.WalletStatusDeploying); err != nil {
		return common.Hash{}, err
	}

	txHash, err := d.client.SubmitRawTransaction(ctx, d.factory, nil, data)
	if err != nil {
		// Submission never left the node; deployment can be retried from a
		// fresh wallet per the status machine.
		if terr := wallet.TransitionTo(types.WalletStatusError); terr != nil {
			return common.Hash{}, terr
		}

		return common.Hash{}, fmt.Errorf("failed to submit deployment: %w", err)
	}

	sdk.LoggerFrom(ctx).Infof("wallet %s deploying to %s in tx %s", wallet.ID, predicted.Hex(), txHash.Hex())

	return txHash, nil
}

// Confirm finalizes a deploying wallet from its deployment receipt: on
// success the wallet becomes Active at the predicted address, on revert it
// becomes Error.
func (d *Deployer) Confirm(ctx context.Context, wallet *types.Wallet, txHash common.Hash) error {
	if wallet.Status != types.WalletStatusDeploying {
		return fmt.Errorf("wallet %s is %s, expected %s", wallet.ID, wallet.Status, types.WalletStatusDeploying)
	}

	receipt, err := d.client.GetReceipt(ctx, txHash)
	if err != nil {
		return fmt.Errorf("failed to get deployment receipt: %w", err)
	}

	if receipt.Status != sdk.ReceiptStatusSuccess {
		return wallet.TransitionTo(types.WalletStatusError)
	}

	predicted, err := d.Predict(wallet)
	if err != nil {
		return err
	}

	wallet.Address = &predicted
	if err := wallet.TransitionTo(types.WalletStatusActive); err != nil {
		return err
	}

	sdk.LoggerFrom(ctx).Infof("wallet %s active at %s", wallet.ID, predicted.Hex())

	return nil
}
