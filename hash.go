package safekit

import (
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/proofoftom/safekit/types"
)

// EIP-712 type hashes from the wallet contract. Computed once at init.
var (
	domainSeparatorTypehash = crypto.Keccak256(
		[]byte("EIP712Domain(uint256 chainId,address verifyingContract)"))
	safeTxTypehash = crypto.Keccak256(
		[]byte("SafeTx(address to,uint256 value,bytes data,uint8 operation," +
			"uint256 safeTxGas,uint256 baseGas,uint256 gasPrice," +
			"address gasToken,address refundReceiver,uint256 nonce)"))
)

// TransactionHash computes the EIP-712 hash the wallet contract verifies
// signatures against for a given payload and nonce. Signer agents sign this
// hash; signature recovery is checked against it.
//
// The gas-refund fields (safeTxGas, baseGas, gasPrice, gasToken,
// refundReceiver) are always zeroed. Gas refund handling is out of scope and
// the contract accepts zeroes.
func TransactionHash(chainID uint64, wallet common.Address, payload types.Payload, nonce uint64) (common.Hash, error) {
	zeroWord := make([]byte, WordLength)

	value := zeroWord
	if payload.Value != nil {
		var err error
		value, err = EncodeUint256(payload.Value)
		if err != nil {
			return common.Hash{}, err
		}
	}

	structHash := crypto.Keccak256(slices.Concat(
		safeTxTypehash,
		encodeAddressWord(payload.To),
		value,
		crypto.Keccak256(payload.Data),
		encodeUint64Word(uint64(payload.Operation)),
		zeroWord, // safeTxGas
		zeroWord, // baseGas
		zeroWord, // gasPrice
		zeroWord, // gasToken
		zeroWord, // refundReceiver
		encodeUint64Word(nonce),
	))

	domainSeparator := crypto.Keccak256(slices.Concat(
		domainSeparatorTypehash,
		encodeUint64Word(chainID),
		encodeAddressWord(wallet),
	))

	return common.BytesToHash(crypto.Keccak256(slices.Concat(
		[]byte{0x19, 0x01},
		domainSeparator,
		structHash,
	))), nil
}

// ProposalHash computes the signing hash for a ledger proposal on the given
// wallet. The wallet must be deployed; the hash binds to its address and
// network chain id.
func ProposalHash(wallet *types.Wallet, proposal *types.TransactionProposal) (common.Hash, error) {
	if wallet.Address == nil {
		return common.Hash{}, NewInvalidPayloadError("wallet has no deployed address")
	}
	chainID, ok := wallet.Network.ChainID()
	if !ok {
		return common.Hash{}, NewInvalidPayloadError("unknown network " + string(wallet.Network))
	}

	return TransactionHash(chainID, *wallet.Address, proposal.Payload, proposal.Nonce)
}
