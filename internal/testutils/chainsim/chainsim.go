// Package chainsim provides an in-memory ChainClient test double. Tests seed
// bytecode and receipts, and every submission succeeds with a deterministic
// hash unless a failure is injected.
package chainsim

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/proofoftom/safekit/sdk"
)

var _ sdk.ChainClient = (*Client)(nil)

// Submission records one SubmitRawTransaction call.
type Submission struct {
	To    common.Address
	Value *big.Int
	Data  []byte
	Hash  common.Hash
}

// Client is the in-memory chain double.
type Client struct {
	mu          sync.Mutex
	bytecode    map[common.Address][]byte
	receipts    map[common.Hash]*sdk.Receipt
	submissions []Submission
	submitErr   error
	blockNumber uint64
}

// New creates an empty simulated chain.
func New() *Client {
	return &Client{
		bytecode: make(map[common.Address][]byte),
		receipts: make(map[common.Hash]*sdk.Receipt),
	}
}

// SetBytecode seeds code at an address.
func (c *Client) SetBytecode(addr common.Address, code []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bytecode[addr] = code
}

// FailSubmissions makes every subsequent submission return err.
func (c *Client) FailSubmissions(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitErr = err
}

// SetReceipt seeds the receipt returned for a transaction hash.
func (c *Client) SetReceipt(txHash common.Hash, status sdk.ReceiptStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blockNumber++
	c.receipts[txHash] = &sdk.Receipt{
		TxHash:      txHash,
		Status:      status,
		BlockNumber: c.blockNumber,
	}
}

// Submissions returns all recorded submissions.
func (c *Client) Submissions() []Submission {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Submission, len(c.submissions))
	copy(out, c.submissions)

	return out
}

// GetBytecode implements sdk.ChainClient.
func (c *Client) GetBytecode(_ context.Context, addr common.Address) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.bytecode[addr], nil
}

// SubmitRawTransaction implements sdk.ChainClient. The returned hash is the
// keccak of the submission fields, so repeated identical submissions in one
// test are distinguishable by an appended counter.
func (c *Client) SubmitRawTransaction(_ context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitErr != nil {
		return common.Hash{}, c.submitErr
	}

	if value == nil {
		value = big.NewInt(0)
	}
	seed := fmt.Sprintf("%s-%s-%d", to.Hex(), value.String(), len(c.submissions))
	hash := common.BytesToHash(crypto.Keccak256([]byte(seed), data))

	c.submissions = append(c.submissions, Submission{To: to, Value: value, Data: data, Hash: hash})

	return hash, nil
}

// GetReceipt implements sdk.ChainClient.
func (c *Client) GetReceipt(_ context.Context, txHash common.Hash) (*sdk.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	receipt, ok := c.receipts[txHash]
	if !ok {
		return nil, fmt.Errorf("transaction %s not mined", txHash.Hex())
	}

	return receipt, nil
}
