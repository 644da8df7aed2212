package types

import "github.com/ethereum/go-ethereum/common"

// ConfigChangeKind tags the decoded form of an owner-management call.
type ConfigChangeKind string

const (
	ChangeAddOwner        ConfigChangeKind = "AddOwner"
	ChangeRemoveOwner     ConfigChangeKind = "RemoveOwner"
	ChangeSwapOwner       ConfigChangeKind = "SwapOwner"
	ChangeChangeThreshold ConfigChangeKind = "ChangeThreshold"
)

// ConfigurationChange is the structured form of an owner-management payload.
// It is transient: always derived by encoding or decoding a proposal's
// calldata, never stored on its own.
//
// Which fields are meaningful depends on Kind:
//
//	AddOwner:        Owner, NewThreshold
//	RemoveOwner:     PrevOwner, Owner, NewThreshold
//	SwapOwner:       PrevOwner, Owner (old), NewOwner
//	ChangeThreshold: NewThreshold
type ConfigurationChange struct {
	Kind         ConfigChangeKind `json:"kind"`
	PrevOwner    common.Address   `json:"prevOwner,omitempty"`
	Owner        common.Address   `json:"owner,omitempty"`
	NewOwner     common.Address   `json:"newOwner,omitempty"`
	NewThreshold uint8            `json:"newThreshold,omitempty"`
}
