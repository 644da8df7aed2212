package safekit

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// WordLength is the size of one ABI word.
const WordLength = 32

// SelectorLength is the size of a function selector.
const SelectorLength = 4

// EncodeAddress encodes a hex address as a 32-byte ABI word, left-padded with
// zeros. The input must be a 0x-prefixed 40-hex-char address.
func EncodeAddress(addr string) ([]byte, error) {
	if !common.IsHexAddress(addr) {
		return nil, NewInvalidAddressError(addr)
	}

	return encodeAddressWord(common.HexToAddress(addr)), nil
}

// encodeAddressWord left-pads a parsed address into an ABI word.
func encodeAddressWord(addr common.Address) []byte {
	word := make([]byte, WordLength)
	copy(word[WordLength-common.AddressLength:], addr.Bytes())

	return word
}

// EncodeUint256 encodes a non-negative integer as a big-endian 32-byte ABI
// word.
func EncodeUint256(n *big.Int) ([]byte, error) {
	if n == nil || n.Sign() < 0 || n.BitLen() > 256 {
		return nil, NewOverflowError(n)
	}

	word := make([]byte, WordLength)
	n.FillBytes(word)

	return word, nil
}

// encodeUint64Word encodes a uint64 into an ABI word. Cannot overflow.
func encodeUint64Word(n uint64) []byte {
	word := make([]byte, WordLength)
	new(big.Int).SetUint64(n).FillBytes(word)

	return word
}

// Selector computes the 4-byte function selector for a canonical signature
// string such as "addOwnerWithThreshold(address,uint256)".
//
// The hash is the Ethereum Keccak-256 variant. The NIST SHA3-256 finalization
// differs and produces unrelated digests, so crypto.Keccak256 is the only
// acceptable implementation here.
func Selector(signature string) []byte {
	return crypto.Keccak256([]byte(signature))[:SelectorLength]
}
