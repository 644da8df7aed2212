package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewWallet(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		giveOwners    []string
		giveThreshold uint8
		giveNetwork   NetworkID
		wantErr       string
	}{
		{
			name:          "success: threshold equals owner count",
			giveOwners:    []string{ownerA, ownerB},
			giveThreshold: 2,
			giveNetwork:   NetworkMainnet,
		},
		{
			name:          "success: threshold of one",
			giveOwners:    []string{ownerA, ownerB, ownerC},
			giveThreshold: 1,
			giveNetwork:   NetworkMainnet,
		},
		{
			name:          "failure: no owners",
			giveOwners:    nil,
			giveThreshold: 1,
			giveNetwork:   NetworkMainnet,
			wantErr:       "at least one owner",
		},
		{
			name:          "failure: zero threshold",
			giveOwners:    []string{ownerA},
			giveThreshold: 0,
			giveNetwork:   NetworkMainnet,
			wantErr:       "Threshold",
		},
		{
			name:          "failure: threshold above owner count",
			giveOwners:    []string{ownerA, ownerB},
			giveThreshold: 3,
			giveNetwork:   NetworkMainnet,
			wantErr:       "threshold 3 exceeds owner count 2",
		},
		{
			name:          "failure: duplicate owners",
			giveOwners:    []string{ownerA, ownerA},
			giveThreshold: 1,
			giveNetwork:   NetworkMainnet,
			wantErr:       "duplicate signer",
		},
		{
			name:          "failure: unknown network",
			giveOwners:    []string{ownerA},
			giveThreshold: 1,
			giveNetwork:   "testnet-9000",
			wantErr:       `unknown network "testnet-9000"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wallet, err := NewWallet("wallet-1", tt.giveNetwork, tt.giveOwners, tt.giveThreshold, 0)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, WalletStatusPending, wallet.Status)
			assert.Nil(t, wallet.Address)
			assert.False(t, wallet.Deployed())
		})
	}
}

func Test_Wallet_TransitionTo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		giveStatus WalletStatus
		giveNext   WalletStatus
		wantErr    bool
	}{
		{name: "pending to deploying", giveStatus: WalletStatusPending, giveNext: WalletStatusDeploying},
		{name: "pending to error", giveStatus: WalletStatusPending, giveNext: WalletStatusError},
		{name: "deploying to active", giveStatus: WalletStatusDeploying, giveNext: WalletStatusActive},
		{name: "deploying to error", giveStatus: WalletStatusDeploying, giveNext: WalletStatusError},
		{name: "same status is a no-op", giveStatus: WalletStatusActive, giveNext: WalletStatusActive},
		{name: "failure: pending to active skips deploying", giveStatus: WalletStatusPending, giveNext: WalletStatusActive, wantErr: true},
		{name: "failure: active is terminal", giveStatus: WalletStatusActive, giveNext: WalletStatusDeploying, wantErr: true},
		{name: "failure: error is terminal", giveStatus: WalletStatusError, giveNext: WalletStatusPending, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			wallet, err := NewWallet("wallet-1", NetworkMainnet, []string{ownerA}, 1, 0)
			require.NoError(t, err)
			wallet.Status = tt.giveStatus

			err = wallet.TransitionTo(tt.giveNext)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidWallet)
				assert.Equal(t, tt.giveStatus, wallet.Status)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.giveNext, wallet.Status)
		})
	}
}
