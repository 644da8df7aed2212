package types

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_NewSignatureFromBytes(t *testing.T) {
	t.Parallel()

	t.Run("success: splits r, s and v", func(t *testing.T) {
		t.Parallel()

		raw := make([]byte, SignatureBytesLength)
		for i := range raw {
			raw[i] = byte(i)
		}

		sig, err := NewSignatureFromBytes(raw)
		require.NoError(t, err)
		assert.Equal(t, common.BytesToHash(raw[:32]), sig.R)
		assert.Equal(t, common.BytesToHash(raw[32:64]), sig.S)
		assert.Equal(t, uint8(64), sig.V)
		assert.Equal(t, raw, sig.ToBytes())
	})

	t.Run("failure: wrong length", func(t *testing.T) {
		t.Parallel()

		for _, n := range []int{0, 64, 66} {
			_, err := NewSignatureFromBytes(make([]byte, n))
			require.ErrorContains(t, err, "invalid signature length")
		}
	})
}

func Test_Signature_Recover(t *testing.T) {
	t.Parallel()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := crypto.PubkeyToAddress(key.PublicKey)

	hash := crypto.Keccak256Hash([]byte("message"))
	raw, err := crypto.Sign(hash.Bytes(), key)
	require.NoError(t, err)

	sig, err := NewSignatureFromBytes(raw)
	require.NoError(t, err)

	// Recovery accepts every v encoding the wallet contract knows about.
	encodings := []uint8{
		sig.V,                                               // raw recovery id, 0 or 1
		sig.V + SignatureVOffset,                            // 27 or 28
		sig.V + SignatureVOffset + SignatureVEthSignOffset,  // 31 or 32
	}

	for _, v := range encodings {
		adjusted := sig
		adjusted.V = v

		recovered, err := adjusted.Recover(hash)
		require.NoError(t, err, "v=%d", v)
		assert.Equal(t, signer, recovered, "v=%d", v)
	}

	t.Run("different hash recovers a different address", func(t *testing.T) {
		t.Parallel()

		recovered, err := sig.Recover(crypto.Keccak256Hash([]byte("other message")))
		require.NoError(t, err)
		assert.NotEqual(t, signer, recovered)
	})
}
