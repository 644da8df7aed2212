package types

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CallOperation_Valid(t *testing.T) {
	t.Parallel()

	assert.True(t, OperationCall.Valid())
	assert.True(t, OperationDelegateCall.Valid())
	assert.False(t, CallOperation(2).Valid())
	assert.False(t, CallOperation(255).Valid())
}

func Test_Payload_JSON(t *testing.T) {
	t.Parallel()

	t.Run("wei amounts round-trip as decimal strings", func(t *testing.T) {
		t.Parallel()

		// 10^21 wei does not fit a float64 mantissa.
		value, ok := new(big.Int).SetString("1000000000000000000001", 10)
		require.True(t, ok)

		payload := NewCallPayload(common.HexToAddress(ownerA), value, []byte{0xde, 0xad})

		data, err := json.Marshal(payload)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"to": "0x1111111111111111111111111111111111111111",
			"value": "1000000000000000000001",
			"data": "0xdead",
			"operation": 0
		}`, string(data))

		var decoded Payload
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Zero(t, payload.Value.Cmp(decoded.Value))
		assert.Equal(t, payload.To, decoded.To)
	})

	t.Run("nil value marshals as zero", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(Payload{To: common.HexToAddress(ownerA)})
		require.NoError(t, err)
		assert.Contains(t, string(data), `"value":"0"`)
	})

	t.Run("failure: invalid to address", func(t *testing.T) {
		t.Parallel()

		var p Payload
		err := json.Unmarshal([]byte(`{"to":"not-an-address","value":"0"}`), &p)
		require.ErrorContains(t, err, "invalid to address")
	})

	t.Run("failure: non-decimal value", func(t *testing.T) {
		t.Parallel()

		var p Payload
		err := json.Unmarshal([]byte(`{"to":"`+ownerA+`","value":"0x10"}`), &p)
		require.ErrorContains(t, err, "invalid value")
	})
}
