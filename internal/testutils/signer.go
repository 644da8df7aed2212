// Package testutils provides signing helpers shared by tests.
package testutils

import (
	"bytes"
	"crypto/ecdsa"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/proofoftom/safekit/sdk"
)

var _ sdk.SignerAgent = (*ECDSASigner)(nil)

// Note: should only be used for testing purposes
type ECDSASigner struct {
	Key *ecdsa.PrivateKey
}

func NewECDSASigner() *ECDSASigner {
	key, _ := crypto.GenerateKey()
	return &ECDSASigner{Key: key}
}

func (s *ECDSASigner) Address() common.Address {
	return crypto.PubkeyToAddress(s.Key.PublicKey)
}

// SignHash produces a raw 65-byte r‖s‖v signature over the hash, with v as
// the raw recovery id (0 or 1).
func (s *ECDSASigner) SignHash(hash common.Hash) ([]byte, error) {
	return crypto.Sign(hash.Bytes(), s.Key)
}

// MakeNewECDSASigners returns n fresh signers sorted by ascending address, the
// order packed signature blobs use.
func MakeNewECDSASigners(n int) []*ECDSASigner {
	signers := make([]*ECDSASigner, n)
	for i := range n {
		signers[i] = NewECDSASigner()
	}
	slices.SortFunc(signers, func(a, b *ECDSASigner) int {
		return bytes.Compare(a.Address().Bytes(), b.Address().Bytes())
	})

	return signers
}
