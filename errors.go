package safekit

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// InvalidAddressError is returned when a value that should be a 20-byte hex
// address is not.
type InvalidAddressError struct {
	Value string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid address: %q", e.Value)
}

// NewInvalidAddressError creates a new InvalidAddressError.
func NewInvalidAddressError(value string) *InvalidAddressError {
	return &InvalidAddressError{Value: value}
}

// OverflowError is returned when an integer does not fit a uint256 word.
type OverflowError struct {
	Value *big.Int
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("value does not fit in uint256: %s", e.Value)
}

// NewOverflowError creates a new OverflowError.
func NewOverflowError(value *big.Int) *OverflowError {
	e := &OverflowError{}
	if value != nil {
		e.Value = new(big.Int).Set(value)
	}

	return e
}

// InvalidThresholdError is returned when a proposed threshold is below 1.
type InvalidThresholdError struct {
	Threshold uint8
}

func (e *InvalidThresholdError) Error() string {
	return fmt.Sprintf("invalid threshold: %d", e.Threshold)
}

// NewInvalidThresholdError creates a new InvalidThresholdError.
func NewInvalidThresholdError(threshold uint8) *InvalidThresholdError {
	return &InvalidThresholdError{Threshold: threshold}
}

// ThresholdExceedsOwnerCountError is returned when a proposed threshold would
// exceed the signer count after the change is applied.
type ThresholdExceedsOwnerCountError struct {
	Threshold  uint8
	OwnerCount int
}

func (e *ThresholdExceedsOwnerCountError) Error() string {
	return fmt.Sprintf("threshold %d exceeds owner count %d", e.Threshold, e.OwnerCount)
}

// NewThresholdExceedsOwnerCountError creates a new ThresholdExceedsOwnerCountError.
func NewThresholdExceedsOwnerCountError(threshold uint8, ownerCount int) *ThresholdExceedsOwnerCountError {
	return &ThresholdExceedsOwnerCountError{Threshold: threshold, OwnerCount: ownerCount}
}

// UnauthorizedSignerError is returned when a signature is submitted by an
// address that is not currently an owner of the wallet.
type UnauthorizedSignerError struct {
	Signer common.Address
}

func (e *UnauthorizedSignerError) Error() string {
	return fmt.Sprintf("signer %s is not an owner of the wallet", e.Signer.Hex())
}

// NewUnauthorizedSignerError creates a new UnauthorizedSignerError.
func NewUnauthorizedSignerError(signer common.Address) *UnauthorizedSignerError {
	return &UnauthorizedSignerError{Signer: signer}
}

// MalformedSignatureError is returned when a signature is not a valid 65-byte
// r‖s‖v blob, or does not recover to the signer that submitted it.
type MalformedSignatureError struct {
	Signer common.Address
	Reason string
}

func (e *MalformedSignatureError) Error() string {
	return fmt.Sprintf("malformed signature from %s: %s", e.Signer.Hex(), e.Reason)
}

// NewMalformedSignatureError creates a new MalformedSignatureError.
func NewMalformedSignatureError(signer common.Address, reason string) *MalformedSignatureError {
	return &MalformedSignatureError{Signer: signer, Reason: reason}
}

// InsufficientSignaturesError is returned when packing is attempted before the
// threshold is met.
type InsufficientSignaturesError struct {
	Have int
	Want int
}

func (e *InsufficientSignaturesError) Error() string {
	return fmt.Sprintf("insufficient signatures: have %d, want %d", e.Have, e.Want)
}

// NewInsufficientSignaturesError creates a new InsufficientSignaturesError.
func NewInsufficientSignaturesError(have, want int) *InsufficientSignaturesError {
	return &InsufficientSignaturesError{Have: have, Want: want}
}

// AddressAlreadyDeployedError is returned when a predicted deployment address
// already holds bytecode, meaning the owners/threshold/salt combination was
// already used.
type AddressAlreadyDeployedError struct {
	Address common.Address
}

func (e *AddressAlreadyDeployedError) Error() string {
	return fmt.Sprintf("address %s already has deployed bytecode; choose a new salt nonce", e.Address.Hex())
}

// NewAddressAlreadyDeployedError creates a new AddressAlreadyDeployedError.
func NewAddressAlreadyDeployedError(addr common.Address) *AddressAlreadyDeployedError {
	return &AddressAlreadyDeployedError{Address: addr}
}

// InvalidPayloadError is returned when a proposal payload fails static
// validation before any chain interaction.
type InvalidPayloadError struct {
	Reason string
}

func (e *InvalidPayloadError) Error() string {
	return fmt.Sprintf("invalid payload: %s", e.Reason)
}

// NewInvalidPayloadError creates a new InvalidPayloadError.
func NewInvalidPayloadError(reason string) *InvalidPayloadError {
	return &InvalidPayloadError{Reason: reason}
}

// NonceOutOfOrderError is returned when execution is attempted for a proposal
// that is not the lowest non-terminal nonce of its wallet.
type NonceOutOfOrderError struct {
	Nonce     uint64
	NextNonce uint64
}

func (e *NonceOutOfOrderError) Error() string {
	return fmt.Sprintf("nonce %d is not next in sequence; next executable nonce is %d", e.Nonce, e.NextNonce)
}

// NewNonceOutOfOrderError creates a new NonceOutOfOrderError.
func NewNonceOutOfOrderError(nonce, next uint64) *NonceOutOfOrderError {
	return &NonceOutOfOrderError{Nonce: nonce, NextNonce: next}
}

// WalletNotFoundError is returned when a ledger operation references an
// unknown wallet id.
type WalletNotFoundError struct {
	WalletID string
}

func (e *WalletNotFoundError) Error() string {
	return fmt.Sprintf("wallet not found: %s", e.WalletID)
}

// NewWalletNotFoundError creates a new WalletNotFoundError.
func NewWalletNotFoundError(id string) *WalletNotFoundError {
	return &WalletNotFoundError{WalletID: id}
}

// ProposalNotFoundError is returned when a ledger operation references an
// unknown proposal id.
type ProposalNotFoundError struct {
	ProposalID string
}

func (e *ProposalNotFoundError) Error() string {
	return fmt.Sprintf("proposal not found: %s", e.ProposalID)
}

// NewProposalNotFoundError creates a new ProposalNotFoundError.
func NewProposalNotFoundError(id string) *ProposalNotFoundError {
	return &ProposalNotFoundError{ProposalID: id}
}
