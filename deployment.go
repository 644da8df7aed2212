package safekit

import (
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/proofoftom/safekit/types"
)

// Canonical v1.3.0 wallet contract addresses, identical across EVM chains.
var (
	DefaultSingleton       = common.HexToAddress("0xd9Db270c1B5E3Bd161E8c8503c55cEABeE709552")
	DefaultProxyFactory    = common.HexToAddress("0xa6B71E26C5e0845f74c812102Ca7114b6a896AB2")
	DefaultFallbackHandler = common.HexToAddress("0xf48f2B2d2a534e402487b3ee7C18c33Aec0Fe5e4")
)

// proxyCreationCode is the creation bytecode of the v1.3.0 proxy contract, as
// returned by the factory's proxyCreationCode(). The CREATE2 init code is this
// constant with the ABI-encoded singleton address appended, so the predicted
// address depends on it byte for byte.
var proxyCreationCode = hexutil.MustDecode("0x" +
	"608060405234801561001057600080fd5b506040516101e63803806101e68339818101604052602081101561003357600080fd5b8101908080519060200190929190505050600073ffffffffffffffffffffffffffffffffffffffff168173ffffffffffffffffffffffffffffffffffffffff1614156100ca576040517f08c379a00000000000000000000000000000000000000000000000000000000081526004018080602001828103825260228152602001806101c46022913960400191505060405180910390fd5b806000806101000a81548173ffffffffffffffffffffffffffffffffffffffff021916908373ffffffffffffffffffffffffffffffffffffffff1602179055505060ab806101196000396000f3fe" +
	"608060405273ffffffffffffffffffffffffffffffffffffffff600054167fa619486e0000000000000000000000000000000000000000000000000000000060003514156050578060005260206000f35b3660008037600080366000845af43d6000803e60008015156068573d6000fd5b3d6000f3fe" +
	"a2646970667358221220d1429297349653a4918076d650332de1a1068c5f3e07c5c82360c277770b952664736f6c63430007060033" +
	"496e76616c69642073696e676c65746f6e20616464726573732070726f7669646564")

// Selectors for the factory and singleton entry points.
var (
	selCreateProxyWithNonce = Selector("createProxyWithNonce(address,bytes,uint256)")
	selSetup                = Selector("setup(address[],uint256,address,bytes,address,address,uint256,address)")
	selExecTransaction      = Selector("execTransaction(address,uint256,bytes,uint8,uint256,uint256,uint256,address,address,bytes)")
)

// DeploymentParams are the inputs that determine a wallet's deterministic
// deployment address. The same five-tuple always yields the same address, so
// callers must re-derive after any owner-set change rather than cache.
type DeploymentParams struct {
	Factory         common.Address
	Singleton       common.Address
	Owners          []common.Address
	Threshold       uint8
	FallbackHandler common.Address
	SaltNonce       uint64
}

// encodeSetupCall builds the setup(...) initializer calldata. The shape is
// fixed: the optional delegate-call fields (to, data) and the payment fields
// (paymentToken, payment, paymentReceiver) are always zeroed.
//
// Head layout is 8 words; the two dynamic parameters are owners (index 0) and
// data (index 3), so the owners array sits at offset 256 and the empty bytes
// directly after it.
func encodeSetupCall(p DeploymentParams) []byte {
	ownersData := encodeAddressArray(p.Owners)
	ownersOffset := uint64(8 * WordLength)
	dataOffset := ownersOffset + uint64(len(ownersData))

	zeroWord := make([]byte, WordLength)

	return slices.Concat(
		selSetup,
		encodeUint64Word(ownersOffset),
		encodeUint64Word(uint64(p.Threshold)),
		zeroWord, // to
		encodeUint64Word(dataOffset),
		encodeAddressWord(p.FallbackHandler),
		zeroWord, // paymentToken
		zeroWord, // payment
		zeroWord, // paymentReceiver
		ownersData,
		zeroWord, // empty bytes: length 0
	)
}

// encodeAddressArray encodes a dynamic address[] value: length word followed
// by one word per element.
func encodeAddressArray(addrs []common.Address) []byte {
	out := make([]byte, 0, (len(addrs)+1)*WordLength)
	out = append(out, encodeUint64Word(uint64(len(addrs)))...)
	for _, a := range addrs {
		out = append(out, encodeAddressWord(a)...)
	}

	return out
}

// EncodeCreateProxyWithNonce builds the factory calldata that deploys the
// wallet whose address PredictAddress computes: createProxyWithNonce with the
// setup initializer and the salt nonce.
func EncodeCreateProxyWithNonce(p DeploymentParams) ([]byte, error) {
	if len(p.Owners) == 0 {
		return nil, NewInvalidPayloadError("at least one owner required")
	}
	if p.Threshold < 1 {
		return nil, NewInvalidThresholdError(p.Threshold)
	}
	if int(p.Threshold) > len(p.Owners) {
		return nil, NewThresholdExceedsOwnerCountError(p.Threshold, len(p.Owners))
	}

	initializer := encodeSetupCall(p)

	// Three params with initializer (bytes) as the only dynamic one, so its
	// offset is the 96-byte head size.
	return slices.Concat(
		selCreateProxyWithNonce,
		encodeAddressWord(p.Singleton),
		encodeUint64Word(uint64(3*WordLength)),
		encodeUint64Word(p.SaltNonce),
		encodeBytes(initializer),
	), nil
}

// encodeBytes encodes a dynamic bytes value: length word followed by the
// content right-padded to a word boundary.
func encodeBytes(b []byte) []byte {
	padded := len(b)
	if rem := len(b) % WordLength; rem != 0 {
		padded += WordLength - rem
	}

	out := make([]byte, 0, WordLength+padded)
	out = append(out, encodeUint64Word(uint64(len(b)))...)
	out = append(out, b...)
	out = append(out, make([]byte, padded-len(b))...)

	return out
}

// EncodeExecTransaction builds the execTransaction calldata that executes a
// fully-signed payload, with the packed signature blob as the final dynamic
// argument and zeroed gas-refund fields matching TransactionHash.
func EncodeExecTransaction(payload types.Payload, signatures []byte) ([]byte, error) {
	value := make([]byte, WordLength)
	if payload.Value != nil {
		var err error
		value, err = EncodeUint256(payload.Value)
		if err != nil {
			return nil, err
		}
	}

	zeroWord := make([]byte, WordLength)

	// Head is 10 words; data (index 2) and signatures (index 9) are dynamic.
	dataArea := encodeBytes(payload.Data)
	dataOffset := uint64(10 * WordLength)
	sigOffset := dataOffset + uint64(len(dataArea))

	return slices.Concat(
		selExecTransaction,
		encodeAddressWord(payload.To),
		value,
		encodeUint64Word(dataOffset),
		encodeUint64Word(uint64(payload.Operation)),
		zeroWord, // safeTxGas
		zeroWord, // baseGas
		zeroWord, // gasPrice
		zeroWord, // gasToken
		zeroWord, // refundReceiver
		encodeUint64Word(sigOffset),
		dataArea,
		encodeBytes(signatures),
	), nil
}
