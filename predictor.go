package safekit

import (
	"context"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/proofoftom/safekit/sdk"
)

// PredictAddress computes the CREATE2 deployment address the factory will
// assign to a wallet with the given parameters, before the wallet exists on
// chain.
//
// The derivation follows the factory contract exactly:
//
//	salt         = keccak256(keccak256(setupData) ++ uint256(saltNonce))
//	initCodeHash = keccak256(proxyCreationCode ++ abi.encode(singleton))
//	address      = keccak256(0xff ++ factory ++ salt ++ initCodeHash)[12:]
//
// Pure and deterministic: identical inputs always yield the identical address.
func PredictAddress(p DeploymentParams) (common.Address, error) {
	if len(p.Owners) == 0 {
		return common.Address{}, NewInvalidPayloadError("at least one owner required")
	}
	if p.Threshold < 1 {
		return common.Address{}, NewInvalidThresholdError(p.Threshold)
	}
	if int(p.Threshold) > len(p.Owners) {
		return common.Address{}, NewThresholdExceedsOwnerCountError(p.Threshold, len(p.Owners))
	}

	setupData := encodeSetupCall(p)
	salt := crypto.Keccak256(slices.Concat(
		crypto.Keccak256(setupData),
		encodeUint64Word(p.SaltNonce),
	))

	initCodeHash := crypto.Keccak256(slices.Concat(
		proxyCreationCode,
		encodeAddressWord(p.Singleton),
	))

	digest := crypto.Keccak256(slices.Concat(
		[]byte{0xff},
		p.Factory.Bytes(),
		salt,
		initCodeHash,
	))

	return common.BytesToAddress(digest[12:]), nil
}

// CheckUndeployed verifies that the predicted address holds no bytecode.
// Nonzero bytecode means the owners/threshold/saltNonce combination was
// already deployed and the caller must pick a new salt nonce.
//
// The answer is a point-in-time external read; re-check immediately before
// submitting the deployment transaction.
func CheckUndeployed(ctx context.Context, client sdk.ChainClient, addr common.Address) error {
	code, err := client.GetBytecode(ctx, addr)
	if err != nil {
		return err
	}
	if len(code) > 0 {
		return NewAddressAlreadyDeployedError(addr)
	}

	return nil
}
