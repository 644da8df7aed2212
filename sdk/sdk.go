// Package sdk defines the interfaces the transaction engine consumes from
// external collaborators: chain access, signature production and the advisory
// read-side mirror. The core depends only on these interfaces; real network
// implementations live in subpackages and test doubles in internal/testutils.
package sdk

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ReceiptStatus is the outcome of a mined transaction.
type ReceiptStatus uint8

const (
	ReceiptStatusReverted ReceiptStatus = 0
	ReceiptStatusSuccess  ReceiptStatus = 1
)

// Receipt is the chain's record of a mined transaction. Receipts are the only
// authoritative source for terminal proposal status.
type Receipt struct {
	TxHash      common.Hash
	Status      ReceiptStatus
	BlockNumber uint64
	Logs        [][]byte
}

// ChainClient is the engine's boundary to the chain. All methods are slow,
// fallible I/O; the engine never wraps them in retry or backoff policy, that
// belongs to the caller.
type ChainClient interface {
	// GetBytecode returns the code deployed at an address, empty if none.
	GetBytecode(ctx context.Context, addr common.Address) ([]byte, error)

	// SubmitRawTransaction sends a transaction and returns its hash.
	SubmitRawTransaction(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error)

	// GetReceipt returns the receipt of a mined transaction, or an error if
	// it is not yet mined.
	GetReceipt(ctx context.Context, txHash common.Hash) (*Receipt, error)
}

// SignerAgent produces signatures over 32-byte hashes. The engine never holds
// private keys; it only consumes the 65-byte r‖s‖v blobs an agent returns.
type SignerAgent interface {
	SignHash(hash common.Hash) ([]byte, error)
}

// MirrorState is a snapshot of wallet state from the read-side mirror.
type MirrorState struct {
	Owners    []common.Address
	Threshold uint8
	Nonce     uint64
}

// ReadModelMirror is an optional, advisory cache of on-chain state used for
// display. Its answers are hints: execution decisions must never trust it,
// only ChainClient receipts.
type ReadModelMirror interface {
	WalletState(ctx context.Context, wallet common.Address) (*MirrorState, error)
}
