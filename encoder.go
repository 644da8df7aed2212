package safekit

import (
	"bytes"
	"fmt"
	"math/big"
	"slices"

	"github.com/ethereum/go-ethereum/common"

	"github.com/proofoftom/safekit/internal/utils/safecast"
	"github.com/proofoftom/safekit/types"
)

// Selectors for the wallet contract's owner-management functions. Computed
// from the canonical signatures; guarded by regression tests against the
// known constants.
var (
	selAddOwnerWithThreshold = Selector("addOwnerWithThreshold(address,uint256)")
	selRemoveOwner           = Selector("removeOwner(address,address,uint256)")
	selSwapOwner             = Selector("swapOwner(address,address,address)")
	selChangeThreshold       = Selector("changeThreshold(uint256)")
)

// ConfigEncoder builds owner-management call payloads for a deployed wallet.
// The wallet's owner list resolves the prevOwner argument that removeOwner and
// swapOwner require, so the encoder must see the list as it is on chain.
type ConfigEncoder struct {
	wallet *types.Wallet
}

// NewConfigEncoder creates a ConfigEncoder for a deployed wallet.
func NewConfigEncoder(wallet *types.Wallet) (*ConfigEncoder, error) {
	if wallet.Address == nil {
		return nil, fmt.Errorf("wallet %s has no deployed address", wallet.ID)
	}

	return &ConfigEncoder{wallet: wallet}, nil
}

// EncodeAddOwnerWithThreshold builds the calldata for
// addOwnerWithThreshold(address,uint256).
func (e *ConfigEncoder) EncodeAddOwnerWithThreshold(owner string, newThreshold uint8) (types.Payload, error) {
	if newThreshold < 1 {
		return types.Payload{}, NewInvalidThresholdError(newThreshold)
	}
	if int(newThreshold) > e.wallet.Owners.Count()+1 {
		return types.Payload{}, NewThresholdExceedsOwnerCountError(newThreshold, e.wallet.Owners.Count()+1)
	}

	ownerWord, err := EncodeAddress(owner)
	if err != nil {
		return types.Payload{}, err
	}

	data := slices.Concat(
		selAddOwnerWithThreshold,
		ownerWord,
		encodeUint64Word(uint64(newThreshold)),
	)

	return types.NewCallPayload(*e.wallet.Address, nil, data), nil
}

// EncodeRemoveOwner builds the calldata for removeOwner(address,address,uint256).
// The first argument is the owner's predecessor in the contract's linked list.
func (e *ConfigEncoder) EncodeRemoveOwner(owner common.Address, newThreshold uint8) (types.Payload, error) {
	if newThreshold < 1 {
		return types.Payload{}, NewInvalidThresholdError(newThreshold)
	}
	if int(newThreshold) > e.wallet.Owners.Count()-1 {
		return types.Payload{}, NewThresholdExceedsOwnerCountError(newThreshold, e.wallet.Owners.Count()-1)
	}

	prev, err := e.wallet.Owners.PreviousOf(owner)
	if err != nil {
		return types.Payload{}, err
	}

	data := slices.Concat(
		selRemoveOwner,
		encodeAddressWord(prev),
		encodeAddressWord(owner),
		encodeUint64Word(uint64(newThreshold)),
	)

	return types.NewCallPayload(*e.wallet.Address, nil, data), nil
}

// EncodeSwapOwner builds the calldata for swapOwner(address,address,address).
func (e *ConfigEncoder) EncodeSwapOwner(oldOwner common.Address, newOwner string) (types.Payload, error) {
	newWord, err := EncodeAddress(newOwner)
	if err != nil {
		return types.Payload{}, err
	}
	if e.wallet.Owners.Contains(common.HexToAddress(newOwner)) {
		return types.Payload{}, types.NewDuplicateSignerError(common.HexToAddress(newOwner))
	}

	prev, err := e.wallet.Owners.PreviousOf(oldOwner)
	if err != nil {
		return types.Payload{}, err
	}

	data := slices.Concat(
		selSwapOwner,
		encodeAddressWord(prev),
		encodeAddressWord(oldOwner),
		newWord,
	)

	return types.NewCallPayload(*e.wallet.Address, nil, data), nil
}

// EncodeChangeThreshold builds the calldata for changeThreshold(uint256).
func (e *ConfigEncoder) EncodeChangeThreshold(newThreshold uint8) (types.Payload, error) {
	if newThreshold < 1 {
		return types.Payload{}, NewInvalidThresholdError(newThreshold)
	}
	if int(newThreshold) > e.wallet.Owners.Count() {
		return types.Payload{}, NewThresholdExceedsOwnerCountError(newThreshold, e.wallet.Owners.Count())
	}

	data := slices.Concat(
		selChangeThreshold,
		encodeUint64Word(uint64(newThreshold)),
	)

	return types.NewCallPayload(*e.wallet.Address, nil, data), nil
}

// DecodeConfigChange matches calldata against the four owner-management
// selectors and decodes the parameter words positionally. A payload with any
// other selector is an ordinary contract call, not an error: the result is
// (nil, nil).
func DecodeConfigChange(data []byte) (*types.ConfigurationChange, error) {
	if len(data) < SelectorLength {
		return nil, nil
	}
	sel, params := data[:SelectorLength], data[SelectorLength:]

	switch {
	case bytes.Equal(sel, selAddOwnerWithThreshold):
		words, err := splitWords(params, 2)
		if err != nil {
			return nil, err
		}
		threshold, err := decodeThresholdWord(words[1])
		if err != nil {
			return nil, err
		}

		return &types.ConfigurationChange{
			Kind:         types.ChangeAddOwner,
			Owner:        common.BytesToAddress(words[0]),
			NewThreshold: threshold,
		}, nil

	case bytes.Equal(sel, selRemoveOwner):
		words, err := splitWords(params, 3)
		if err != nil {
			return nil, err
		}
		threshold, err := decodeThresholdWord(words[2])
		if err != nil {
			return nil, err
		}

		return &types.ConfigurationChange{
			Kind:         types.ChangeRemoveOwner,
			PrevOwner:    common.BytesToAddress(words[0]),
			Owner:        common.BytesToAddress(words[1]),
			NewThreshold: threshold,
		}, nil

	case bytes.Equal(sel, selSwapOwner):
		words, err := splitWords(params, 3)
		if err != nil {
			return nil, err
		}

		return &types.ConfigurationChange{
			Kind:      types.ChangeSwapOwner,
			PrevOwner: common.BytesToAddress(words[0]),
			Owner:     common.BytesToAddress(words[1]),
			NewOwner:  common.BytesToAddress(words[2]),
		}, nil

	case bytes.Equal(sel, selChangeThreshold):
		words, err := splitWords(params, 1)
		if err != nil {
			return nil, err
		}
		threshold, err := decodeThresholdWord(words[0])
		if err != nil {
			return nil, err
		}

		return &types.ConfigurationChange{
			Kind:         types.ChangeChangeThreshold,
			NewThreshold: threshold,
		}, nil
	}

	return nil, nil
}

// splitWords slices params into exactly n 32-byte words.
func splitWords(params []byte, n int) ([][]byte, error) {
	if len(params) != n*WordLength {
		return nil, NewInvalidPayloadError(
			fmt.Sprintf("expected %d parameter words, got %d bytes", n, len(params)))
	}

	words := make([][]byte, n)
	for i := range n {
		words[i] = params[i*WordLength : (i+1)*WordLength]
	}

	return words, nil
}

// decodeThresholdWord reads a uint256 word as a threshold value.
func decodeThresholdWord(word []byte) (uint8, error) {
	threshold, err := safecast.Uint64ToUint8(new(big.Int).SetBytes(word).Uint64())
	if err != nil {
		return 0, NewInvalidPayloadError(fmt.Sprintf("threshold out of range: %s", err))
	}

	return threshold, nil
}

// applyConfirmedChange updates the wallet's owner list and threshold to
// reflect a configuration change that has been confirmed executed on chain.
// It is idempotent: re-applying a change the list already reflects is a no-op.
// The change is staged on a copy and validated before anything is committed,
// so a rejected change leaves the wallet exactly as it was.
//
// The caller must have exclusive access to the wallet. Registered wallets go
// through Ledger.ApplyConfirmedChange, which holds the wallet's lock.
func applyConfirmedChange(wallet *types.Wallet, change types.ConfigurationChange) error {
	owners := wallet.Owners.Clone()
	threshold := wallet.Threshold

	switch change.Kind {
	case types.ChangeAddOwner:
		if !owners.Contains(change.Owner) {
			// The contract prepends new owners at the list head.
			if err := owners.AddFront(change.Owner.Hex()); err != nil {
				return err
			}
		}
		threshold = change.NewThreshold

	case types.ChangeRemoveOwner:
		if owners.Contains(change.Owner) {
			if err := owners.Remove(change.Owner); err != nil {
				return err
			}
		}
		threshold = change.NewThreshold

	case types.ChangeSwapOwner:
		if owners.Contains(change.Owner) {
			if err := owners.Swap(change.Owner, change.NewOwner.Hex()); err != nil {
				return err
			}
		} else if !owners.Contains(change.NewOwner) {
			return types.NewSignerNotFoundError(change.Owner)
		}

	case types.ChangeChangeThreshold:
		threshold = change.NewThreshold

	default:
		return fmt.Errorf("unknown configuration change kind: %s", change.Kind)
	}

	staged := *wallet
	staged.Owners = owners
	staged.Threshold = threshold
	if err := staged.Validate(); err != nil {
		return err
	}

	wallet.Owners = owners
	wallet.Threshold = threshold

	return nil
}

// SignerDiff is the result of comparing a wallet's current signer set against
// a desired one.
type SignerDiff struct {
	Additions []common.Address
	Removals  []common.Address
}

// DiffSigners computes the symmetric difference between the current owner list
// and a desired set of hex addresses. The wallet contract has no batch owner
// update, so callers turn the diff into one add or remove proposal per entry.
func DiffSigners(current *types.OwnerList, desired []string) (SignerDiff, error) {
	want := make(map[common.Address]struct{}, len(desired))
	var diff SignerDiff

	for _, d := range desired {
		if !common.IsHexAddress(d) {
			return SignerDiff{}, NewInvalidAddressError(d)
		}
		addr := common.HexToAddress(d)
		if _, ok := want[addr]; ok {
			return SignerDiff{}, types.NewDuplicateSignerError(addr)
		}
		want[addr] = struct{}{}

		if !current.Contains(addr) {
			diff.Additions = append(diff.Additions, addr)
		}
	}

	for _, addr := range current.Addresses() {
		if _, ok := want[addr]; !ok {
			diff.Removals = append(diff.Removals, addr)
		}
	}

	return diff, nil
}
