// Package evm implements the sdk collaborator interfaces against a real EVM
// network over JSON-RPC.
package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/proofoftom/safekit/sdk"
)

var _ sdk.ChainClient = (*Client)(nil)

// Client is a ChainClient over an ethclient connection. A private key is only
// required for submission; read-only callers may pass nil.
type Client struct {
	eth     *ethclient.Client
	chainID *big.Int
	key     *ecdsa.PrivateKey
}

// Dial connects to an RPC endpoint and reads its chain id.
func Dial(ctx context.Context, rpcURL string, key *ecdsa.PrivateKey) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", rpcURL, err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain id: %w", err)
	}

	return &Client{eth: eth, chainID: chainID, key: key}, nil
}

// GetBytecode returns the code deployed at an address at the latest block.
func (c *Client) GetBytecode(ctx context.Context, addr common.Address) ([]byte, error) {
	return c.eth.CodeAt(ctx, addr, nil)
}

// SubmitRawTransaction signs and sends a transaction with the client's key.
func (c *Client) SubmitRawTransaction(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	if c.key == nil {
		return common.Hash{}, errors.New("client has no signing key")
	}
	if value == nil {
		value = big.NewInt(0)
	}

	from := crypto.PubkeyToAddress(c.key.PublicKey)

	nonce, err := c.eth.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to suggest gas price: %w", err)
	}

	gasLimit, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to estimate gas: %w", err)
	}

	tx := gethtypes.NewTx(&gethtypes.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    value,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := gethtypes.SignTx(tx, gethtypes.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	return signed.Hash(), nil
}

// GetReceipt returns the receipt of a mined transaction.
func (c *Client) GetReceipt(ctx context.Context, txHash common.Hash) (*sdk.Receipt, error) {
	receipt, err := c.eth.TransactionReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}

	logs := make([][]byte, len(receipt.Logs))
	for i, l := range receipt.Logs {
		logs[i] = l.Data
	}

	return &sdk.Receipt{
		TxHash:      receipt.TxHash,
		Status:      sdk.ReceiptStatus(receipt.Status),
		BlockNumber: receipt.BlockNumber.Uint64(),
		Logs:        logs,
	}, nil
}
