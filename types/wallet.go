package types

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

var ErrInvalidWallet = errors.New("invalid wallet")

// WalletStatus tracks a wallet through deployment.
type WalletStatus string

const (
	// WalletStatusPending is a wallet that exists only locally; its owner set
	// may still be edited directly.
	WalletStatusPending WalletStatus = "pending"
	// WalletStatusDeploying is a wallet whose deployment transaction has been
	// submitted but not yet confirmed.
	WalletStatusDeploying WalletStatus = "deploying"
	// WalletStatusActive is a deployed wallet; all configuration changes must
	// go through on-chain transactions from here on.
	WalletStatusActive WalletStatus = "active"
	// WalletStatusError is a wallet whose deployment failed. Terminal; the
	// wallet must be re-created to retry.
	WalletStatusError WalletStatus = "error"
)

// walletTransitions lists the permitted status transitions. Active and Error
// are terminal.
var walletTransitions = map[WalletStatus][]WalletStatus{
	WalletStatusPending:   {WalletStatusDeploying, WalletStatusError},
	WalletStatusDeploying: {WalletStatusActive, WalletStatusError},
}

// Wallet is a multi-signature smart-contract account under management.
type Wallet struct {
	ID        string          `json:"id" validate:"required"`
	Network   NetworkID       `json:"network" validate:"required"`
	Address   *common.Address `json:"address,omitempty"`
	Threshold uint8           `json:"threshold" validate:"required,min=1"`
	SaltNonce uint64          `json:"saltNonce"`
	Status    WalletStatus    `json:"status" validate:"required"`
	Owners    *OwnerList      `json:"owners" validate:"required"`
}

// NewWallet constructs a Pending wallet and validates its invariants. A wallet
// with no owners, or a threshold outside [1, owner count], is never built.
func NewWallet(id string, network NetworkID, owners []string, threshold uint8, saltNonce uint64) (*Wallet, error) {
	list, err := NewOwnerList(owners)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWallet, err)
	}

	w := &Wallet{
		ID:        id,
		Network:   network,
		Threshold: threshold,
		SaltNonce: saltNonce,
		Status:    WalletStatusPending,
		Owners:    list,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	return w, nil
}

// Validate checks the tag-based rules plus the threshold/owner-count
// invariant.
func (w *Wallet) Validate() error {
	var validate = validator.New()
	if err := validate.Struct(w); err != nil {
		return err
	}

	if w.Owners.Count() == 0 {
		return fmt.Errorf("%w: wallet must have at least one owner", ErrInvalidWallet)
	}
	if int(w.Threshold) > w.Owners.Count() {
		return fmt.Errorf("%w: threshold %d exceeds owner count %d",
			ErrInvalidWallet, w.Threshold, w.Owners.Count())
	}
	if _, ok := w.Network.ChainID(); !ok {
		return fmt.Errorf("%w: unknown network %q", ErrInvalidWallet, w.Network)
	}

	return nil
}

// Deployed reports whether the wallet has a confirmed on-chain address.
func (w *Wallet) Deployed() bool {
	return w.Address != nil && w.Status == WalletStatusActive
}

// TransitionTo moves the wallet to the given status, enforcing the
// Pending → Deploying → Active | Error machine. Re-applying the current
// status is a no-op.
func (w *Wallet) TransitionTo(status WalletStatus) error {
	if w.Status == status {
		return nil
	}

	for _, next := range walletTransitions[w.Status] {
		if next == status {
			w.Status = status
			return nil
		}
	}

	return fmt.Errorf("%w: cannot transition wallet from %s to %s", ErrInvalidWallet, w.Status, status)
}
