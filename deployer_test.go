package safekit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proofoftom/safekit/internal/testutils/chainsim"
	"github.com/proofoftom/safekit/sdk"
	"github.com/proofoftom/safekit/types"
)

func newPendingWallet(t *testing.T, saltNonce uint64) *types.Wallet {
	t.Helper()

	wallet, err := types.NewWallet("wallet-1", types.NetworkMainnet, []string{testOwnerA, testOwnerB}, 2, saltNonce)
	require.NoError(t, err)

	return wallet
}

func Test_Deployer_Predict(t *testing.T) {
	t.Parallel()

	deployer := NewDeployer(chainsim.New())

	t.Run("changes with salt nonce", func(t *testing.T) {
		t.Parallel()

		first, err := deployer.Predict(newPendingWallet(t, 0))
		require.NoError(t, err)
		second, err := deployer.Predict(newPendingWallet(t, 1))
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})

	t.Run("changes with owner set", func(t *testing.T) {
		t.Parallel()

		wallet := newPendingWallet(t, 0)
		before, err := deployer.Predict(wallet)
		require.NoError(t, err)

		// A pending wallet's owner set may be edited directly; the predicted
		// address moves with it.
		require.NoError(t, wallet.Owners.Add(testOwnerC))
		after, err := deployer.Predict(wallet)
		require.NoError(t, err)
		assert.NotEqual(t, before, after)
	})
}

func Test_Deployer_Deploy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("submits createProxyWithNonce to the factory", func(t *testing.T) {
		t.Parallel()

		chain := chainsim.New()
		deployer := NewDeployer(chain)
		wallet := newPendingWallet(t, 0)

		txHash, err := deployer.Deploy(ctx, wallet)
		require.NoError(t, err)
		assert.Equal(t, types.WalletStatusDeploying, wallet.Status)

		submissions := chain.Submissions()
		require.Len(t, submissions, 1)
		assert.Equal(t, txHash, submissions[0].Hash)
		assert.Equal(t, DefaultProxyFactory, submissions[0].To)
		assert.Equal(t, selCreateProxyWithNonce, submissions[0].Data[:SelectorLength])
	})

	t.Run("failure: address already deployed", func(t *testing.T) {
		t.Parallel()

		chain := chainsim.New()
		deployer := NewDeployer(chain)
		wallet := newPendingWallet(t, 0)

		predicted, err := deployer.Predict(wallet)
		require.NoError(t, err)
		chain.SetBytecode(predicted, []byte{0x60, 0x80})

		_, err = deployer.Deploy(ctx, wallet)
		var collision *AddressAlreadyDeployedError
		require.ErrorAs(t, err, &collision)
		// The wallet stays Pending: bump the salt nonce and retry.
		assert.Equal(t, types.WalletStatusPending, wallet.Status)

		wallet.SaltNonce = 1
		_, err = deployer.Deploy(ctx, wallet)
		require.NoError(t, err)
	})

	t.Run("failure: submission error moves wallet to Error", func(t *testing.T) {
		t.Parallel()

		chain := chainsim.New()
		chain.FailSubmissions(errors.New("rpc unreachable"))
		deployer := NewDeployer(chain)
		wallet := newPendingWallet(t, 0)

		_, err := deployer.Deploy(ctx, wallet)
		require.Error(t, err)
		assert.Equal(t, types.WalletStatusError, wallet.Status)
	})

	t.Run("failure: wallet not pending", func(t *testing.T) {
		t.Parallel()

		deployer := NewDeployer(chainsim.New())
		wallet := newActiveWallet(t, []string{testOwnerA}, 1)

		_, err := deployer.Deploy(ctx, wallet)
		require.ErrorContains(t, err, "expected pending")
	})
}

func Test_Deployer_Confirm(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success activates the wallet at the predicted address", func(t *testing.T) {
		t.Parallel()

		chain := chainsim.New()
		deployer := NewDeployer(chain)
		wallet := newPendingWallet(t, 0)

		predicted, err := deployer.Predict(wallet)
		require.NoError(t, err)

		txHash, err := deployer.Deploy(ctx, wallet)
		require.NoError(t, err)
		chain.SetReceipt(txHash, sdk.ReceiptStatusSuccess)

		require.NoError(t, deployer.Confirm(ctx, wallet, txHash))
		assert.Equal(t, types.WalletStatusActive, wallet.Status)
		require.NotNil(t, wallet.Address)
		assert.Equal(t, predicted, *wallet.Address)
		assert.True(t, wallet.Deployed())
	})

	t.Run("reverted deployment moves wallet to Error", func(t *testing.T) {
		t.Parallel()

		chain := chainsim.New()
		deployer := NewDeployer(chain)
		wallet := newPendingWallet(t, 0)

		txHash, err := deployer.Deploy(ctx, wallet)
		require.NoError(t, err)
		chain.SetReceipt(txHash, sdk.ReceiptStatusReverted)

		require.NoError(t, deployer.Confirm(ctx, wallet, txHash))
		assert.Equal(t, types.WalletStatusError, wallet.Status)
		assert.Nil(t, wallet.Address)
	})

	t.Run("failure: receipt not yet available", func(t *testing.T) {
		t.Parallel()

		chain := chainsim.New()
		deployer := NewDeployer(chain)
		wallet := newPendingWallet(t, 0)

		txHash, err := deployer.Deploy(ctx, wallet)
		require.NoError(t, err)

		err = deployer.Confirm(ctx, wallet, txHash)
		require.ErrorContains(t, err, "not mined")
		assert.Equal(t, types.WalletStatusDeploying, wallet.Status)
	})

	t.Run("failure: wallet not deploying", func(t *testing.T) {
		t.Parallel()

		deployer := NewDeployer(chainsim.New())
		wallet := newPendingWallet(t, 0)

		err := deployer.Confirm(ctx, wallet, [32]byte{})
		require.ErrorContains(t, err, "expected deploying")
	})
}
