package types

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/ethereum/go-ethereum/common"
)

// SentinelOwner is the fixed head of the contract's singly-linked owner list.
// It is never a real signer; it exists so every real owner has a predecessor.
var SentinelOwner = common.HexToAddress("0x0000000000000000000000000000000000000001")

// DuplicateSignerError is returned when an address is added to an owner list
// that already contains it.
type DuplicateSignerError struct {
	Signer common.Address
}

func (e *DuplicateSignerError) Error() string {
	return fmt.Sprintf("duplicate signer: %s", e.Signer.Hex())
}

// NewDuplicateSignerError creates a new DuplicateSignerError.
func NewDuplicateSignerError(signer common.Address) *DuplicateSignerError {
	return &DuplicateSignerError{Signer: signer}
}

// SignerNotFoundError is returned when an operation references an address that
// is not in the owner list.
type SignerNotFoundError struct {
	Signer common.Address
}

func (e *SignerNotFoundError) Error() string {
	return fmt.Sprintf("signer not found: %s", e.Signer.Hex())
}

// NewSignerNotFoundError creates a new SignerNotFoundError.
func NewSignerNotFoundError(signer common.Address) *SignerNotFoundError {
	return &SignerNotFoundError{Signer: signer}
}

// OwnerList mirrors the wallet contract's sentinel-headed linked list of
// owners as an ordered slice. Slice order is authoritative: it determines each
// owner's predecessor, which removal and swap calls must name explicitly.
//
// Addresses compare as raw 20-byte values (common.Address normalizes hex
// case on parse), while the hex string each owner was originally supplied
// with is retained for display.
type OwnerList struct {
	entries []common.Address
	display map[common.Address]string
}

// NewOwnerList builds an owner list from hex addresses in on-chain order.
func NewOwnerList(owners []string) (*OwnerList, error) {
	l := &OwnerList{display: make(map[common.Address]string, len(owners))}
	for _, o := range owners {
		if !common.IsHexAddress(o) {
			return nil, fmt.Errorf("invalid owner address: %q", o)
		}
		if err := l.Add(o); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// Addresses returns the owners in list order. The slice is a copy.
func (l *OwnerList) Addresses() []common.Address {
	return slices.Clone(l.entries)
}

// Count returns the number of owners.
func (l *OwnerList) Count() int {
	return len(l.entries)
}

// Clone returns an independent copy of the list.
func (l *OwnerList) Clone() *OwnerList {
	return &OwnerList{
		entries: slices.Clone(l.entries),
		display: maps.Clone(l.display),
	}
}

// Contains reports whether the address is an owner.
func (l *OwnerList) Contains(owner common.Address) bool {
	return slices.Contains(l.entries, owner)
}

// Display returns the hex form the owner was originally supplied with, falling
// back to the EIP-55 checksummed form.
func (l *OwnerList) Display(owner common.Address) string {
	if s, ok := l.display[owner]; ok {
		return s
	}

	return owner.Hex()
}

// PreviousOf resolves the predecessor the contract's linked list requires for
// removeOwner and swapOwner calls: the sentinel for the first owner, otherwise
// the preceding entry.
func (l *OwnerList) PreviousOf(owner common.Address) (common.Address, error) {
	i := slices.Index(l.entries, owner)
	if i < 0 {
		return common.Address{}, NewSignerNotFoundError(owner)
	}
	if i == 0 {
		return SentinelOwner, nil
	}

	return l.entries[i-1], nil
}

// Add appends an owner to the end of the list.
//
// Note: the contract prepends new owners at the list head; list order here
// must be reconciled from confirmed on-chain state, and AddFront exists for
// that path.
func (l *OwnerList) Add(owner string) error {
	if !common.IsHexAddress(owner) {
		return fmt.Errorf("invalid owner address: %q", owner)
	}

	addr := common.HexToAddress(owner)
	if l.Contains(addr) {
		return NewDuplicateSignerError(addr)
	}

	l.entries = append(l.entries, addr)
	l.display[addr] = owner

	return nil
}

// AddFront inserts an owner at the head of the list, matching the position
// the contract's addOwnerWithThreshold gives new owners.
func (l *OwnerList) AddFront(owner string) error {
	if !common.IsHexAddress(owner) {
		return fmt.Errorf("invalid owner address: %q", owner)
	}

	addr := common.HexToAddress(owner)
	if l.Contains(addr) {
		return NewDuplicateSignerError(addr)
	}

	l.entries = slices.Insert(l.entries, 0, addr)
	l.display[addr] = owner

	return nil
}

// Remove deletes an owner, preserving the relative order of the rest.
func (l *OwnerList) Remove(owner common.Address) error {
	i := slices.Index(l.entries, owner)
	if i < 0 {
		return NewSignerNotFoundError(owner)
	}

	l.entries = slices.Delete(l.entries, i, i+1)
	delete(l.display, owner)

	return nil
}

// Swap replaces oldOwner with newOwner in place, keeping the list position.
func (l *OwnerList) Swap(oldOwner common.Address, newOwner string) error {
	if !common.IsHexAddress(newOwner) {
		return fmt.Errorf("invalid owner address: %q", newOwner)
	}

	addr := common.HexToAddress(newOwner)
	if l.Contains(addr) {
		return NewDuplicateSignerError(addr)
	}

	i := slices.Index(l.entries, oldOwner)
	if i < 0 {
		return NewSignerNotFoundError(oldOwner)
	}

	l.entries[i] = addr
	delete(l.display, oldOwner)
	l.display[addr] = newOwner

	return nil
}

// MarshalJSON encodes the list as an array of display-form addresses.
func (l *OwnerList) MarshalJSON() ([]byte, error) {
	out := make([]string, len(l.entries))
	for i, addr := range l.entries {
		out[i] = l.Display(addr)
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes an array of hex addresses in list order.
func (l *OwnerList) UnmarshalJSON(data []byte) error {
	var owners []string
	if err := json.Unmarshal(data, &owners); err != nil {
		return err
	}

	parsed, err := NewOwnerList(owners)
	if err != nil {
		return err
	}
	*l = *parsed

	return nil
}
