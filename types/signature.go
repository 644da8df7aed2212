package types

import (
	"crypto/ecdsa"
	"fmt"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// SignatureBytesLength defines the length of the signature in bytes after
	// summing the byte values of R, S, and V.
	SignatureBytesLength = 65

	// SignatureComponentSize defines the size of each signature component
	// (R and S) in bytes.
	SignatureComponentSize = 32

	// SignatureVOffset defines the offset to adjust the recovery id (v) if
	// needed. Ethereum signatures carry 27 or 28 while secp256k1 recovery
	// expects 0 or 1.
	SignatureVOffset = 27

	// SignatureVEthSignOffset is the additional offset the wallet contract
	// applies to mark a signature as produced over an eth_sign style message
	// hash. The contract routes v in {31, 32} through prefixed-hash recovery.
	SignatureVEthSignOffset = 4
)

// Signature represents a signature that has been produced by a signer's
// private key, split into its R, S and V components.
type Signature struct {
	R common.Hash `json:"r"`
	S common.Hash `json:"s"`
	V uint8       `json:"v"`
}

// NewSignatureFromBytes creates a new Signature from a byte slice of
// concatenated R, S, and V values.
func NewSignatureFromBytes(sig []byte) (Signature, error) {
	if len(sig) != SignatureBytesLength {
		return Signature{}, fmt.Errorf("invalid signature length: %d", len(sig))
	}

	return Signature{
		R: common.BytesToHash(sig[:SignatureComponentSize]),
		S: common.BytesToHash(sig[SignatureComponentSize:(SignatureBytesLength - 1)]),
		V: sig[SignatureBytesLength-1],
	}, nil
}

// ToBytes returns the fixed 65-byte r‖s‖v representation of the signature.
func (s Signature) ToBytes() []byte {
	return slices.Concat(
		s.R.Bytes(),
		s.S.Bytes(),
		[]byte{s.V},
	)
}

// Recover returns the address recovered from the signature and the message
// hash.
func (s Signature) Recover(hash common.Hash) (common.Address, error) {
	pubKey, err := s.RecoverPublicKey(hash)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}

// RecoverPublicKey returns the public key recovered from the signature and the
// message hash. It accepts any of the v encodings the wallet contract knows
// about (0/1 raw, 27/28 Ethereum, 31/32 eth_sign-marked) and reduces them to
// the raw recovery id before recovery.
func (s Signature) RecoverPublicKey(hash common.Hash) (*ecdsa.PublicKey, error) {
	sig := s.ToBytes()

	v := sig[SignatureBytesLength-1]
	if v >= SignatureVOffset+SignatureVEthSignOffset {
		v -= SignatureVEthSignOffset
	}
	if v > 1 {
		v -= SignatureVOffset
	}
	sig[SignatureBytesLength-1] = v

	return crypto.SigToPub(hash.Bytes(), sig)
}

// CollectedSignature is a signature recorded against a proposal, keyed by the
// signer that produced it.
type CollectedSignature struct {
	Signer      common.Address `json:"signer"`
	Signature   Signature      `json:"signature"`
	CollectedAt time.Time      `json:"collectedAt"`
}
