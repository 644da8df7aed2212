package types

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// CallOperation distinguishes how the wallet contract dispatches a call.
type CallOperation uint8

const (
	// OperationCall is a regular CALL from the wallet.
	OperationCall CallOperation = 0
	// OperationDelegateCall executes the target's code in the wallet's context.
	OperationDelegateCall CallOperation = 1
)

// Valid reports whether the operation is one of the two values the contract
// accepts.
func (o CallOperation) Valid() bool {
	return o == OperationCall || o == OperationDelegateCall
}

// Payload is the raw call a wallet transaction carries: target, value, ABI
// calldata and dispatch mode.
type Payload struct {
	To        common.Address `json:"to"`
	Value     *big.Int       `json:"value"`
	Data      []byte         `json:"data"`
	Operation CallOperation  `json:"operation"`
}

// wirePayload is the JSON shape callers exchange: value as a decimal string
// (wei amounts overflow float64), data as 0x-prefixed hex.
type wirePayload struct {
	To        string        `json:"to"`
	Value     string        `json:"value"`
	Data      hexutil.Bytes `json:"data"`
	Operation CallOperation `json:"operation"`
}

// wire converts the payload to its wire shape.
func (p Payload) wire() wirePayload {
	value := p.Value
	if value == nil {
		value = big.NewInt(0)
	}

	return wirePayload{
		To:        p.To.Hex(),
		Value:     value.String(),
		Data:      p.Data,
		Operation: p.Operation,
	}
}

// fromWire decodes the wire shape back into the payload.
func (p *Payload) fromWire(w wirePayload) error {
	if !common.IsHexAddress(w.To) {
		return fmt.Errorf("invalid to address: %q", w.To)
	}

	value := big.NewInt(0)
	if w.Value != "" {
		var ok bool
		value, ok = new(big.Int).SetString(w.Value, 10)
		if !ok {
			return fmt.Errorf("invalid value: %q", w.Value)
		}
	}

	*p = Payload{
		To:        common.HexToAddress(w.To),
		Value:     value,
		Data:      w.Data,
		Operation: w.Operation,
	}

	return nil
}

// MarshalJSON encodes the payload in the wire shape.
func (p Payload) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.wire())
}

// UnmarshalJSON decodes the wire shape back into a payload.
func (p *Payload) UnmarshalJSON(data []byte) error {
	var w wirePayload
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	return p.fromWire(w)
}

// NewCallPayload returns a plain CALL payload. A nil value is treated as zero.
func NewCallPayload(to common.Address, value *big.Int, data []byte) Payload {
	if value == nil {
		value = big.NewInt(0)
	}

	return Payload{
		To:        to,
		Value:     value,
		Data:      data,
		Operation: OperationCall,
	}
}
