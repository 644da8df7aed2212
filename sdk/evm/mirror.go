package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/proofoftom/safekit/sdk"
)

var _ sdk.ReadModelMirror = (*Mirror)(nil)

// Mirror reads wallet state (owners, threshold, nonce) with direct eth_call
// queries. Results are display hints; execution decisions go through receipts.
type Mirror struct {
	eth callClient
}

type callClient interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// NewMirror creates a Mirror over the given client connection.
func NewMirror(client *Client) *Mirror {
	return &Mirror{eth: client.eth}
}

var (
	selGetOwners    = crypto.Keccak256([]byte("getOwners()"))[:4]
	selGetThreshold = crypto.Keccak256([]byte("getThreshold()"))[:4]
	selNonce        = crypto.Keccak256([]byte("nonce()"))[:4]
)

// WalletState queries the wallet contract for its current owners, threshold
// and transaction nonce.
func (m *Mirror) WalletState(ctx context.Context, wallet common.Address) (*sdk.MirrorState, error) {
	owners, err := m.callAddressList(ctx, wallet, selGetOwners)
	if err != nil {
		return nil, fmt.Errorf("failed to read owners: %w", err)
	}

	threshold, err := m.callUint(ctx, wallet, selGetThreshold)
	if err != nil {
		return nil, fmt.Errorf("failed to read threshold: %w", err)
	}
	if threshold.BitLen() > 8 {
		return nil, fmt.Errorf("threshold out of range: %s", threshold)
	}

	nonce, err := m.callUint(ctx, wallet, selNonce)
	if err != nil {
		return nil, fmt.Errorf("failed to read nonce: %w", err)
	}

	return &sdk.MirrorState{
		Owners:    owners,
		Threshold: uint8(threshold.Uint64()),
		Nonce:     nonce.Uint64(),
	}, nil
}

func (m *Mirror) callUint(ctx context.Context, to common.Address, selector []byte) (*big.Int, error) {
	out, err := m.eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: selector}, nil)
	if err != nil {
		return nil, err
	}
	if len(out) != 32 {
		return nil, fmt.Errorf("unexpected return length %d", len(out))
	}

	return new(big.Int).SetBytes(out), nil
}

func (m *Mirror) callAddressList(ctx context.Context, to common.Address, selector []byte) ([]common.Address, error) {
	out, err := m.eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: selector}, nil)
	if err != nil {
		return nil, err
	}

	// Dynamic address[] return: offset word, length word, then one word per
	// element.
	if len(out) < 64 {
		return nil, fmt.Errorf("unexpected return length %d", len(out))
	}
	offset := new(big.Int).SetBytes(out[:32]).Uint64()
	if offset+32 > uint64(len(out)) {
		return nil, fmt.Errorf("array offset %d out of bounds", offset)
	}
	length := new(big.Int).SetBytes(out[offset : offset+32]).Uint64()
	if offset+32+length*32 > uint64(len(out)) {
		return nil, fmt.Errorf("array length %d out of bounds", length)
	}

	owners := make([]common.Address, length)
	for i := range owners {
		start := offset + 32 + uint64(i)*32
		owners[i] = common.BytesToAddress(out[start : start+32])
	}

	return owners, nil
}
