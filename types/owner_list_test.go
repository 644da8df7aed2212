package types

import (
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ownerA = "0x1111111111111111111111111111111111111111"
	ownerB = "0x2222222222222222222222222222222222222222"
	ownerC = "0x3333333333333333333333333333333333333333"
)

func Test_NewOwnerList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		giveOwners []string
		wantErr    string
	}{
		{
			name:       "success: ordered owners",
			giveOwners: []string{ownerA, ownerB, ownerC},
		},
		{
			name:       "success: empty list",
			giveOwners: nil,
		},
		{
			name:       "failure: invalid address",
			giveOwners: []string{"0xnothex"},
			wantErr:    `invalid owner address: "0xnothex"`,
		},
		{
			name:       "failure: duplicate address",
			giveOwners: []string{ownerA, ownerA},
			wantErr:    "duplicate signer: " + common.HexToAddress(ownerA).Hex(),
		},
		{
			name:       "failure: duplicate differing only in hex case",
			giveOwners: []string{"0xaabbccddeeff00112233445566778899aabbccdd", "0xAABBCCDDEEFF00112233445566778899AABBCCDD"},
			wantErr:    "duplicate signer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			list, err := NewOwnerList(tt.giveOwners)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, len(tt.giveOwners), list.Count())
			for _, o := range tt.giveOwners {
				assert.True(t, list.Contains(common.HexToAddress(o)))
			}
		})
	}
}

func Test_OwnerList_PreviousOf(t *testing.T) {
	t.Parallel()

	list, err := NewOwnerList([]string{ownerA, ownerB, ownerC})
	require.NoError(t, err)

	tests := []struct {
		name      string
		giveOwner string
		wantPrev  common.Address
		wantErr   bool
	}{
		{name: "first owner resolves to sentinel", giveOwner: ownerA, wantPrev: SentinelOwner},
		{name: "middle owner resolves to predecessor", giveOwner: ownerB, wantPrev: common.HexToAddress(ownerA)},
		{name: "last owner resolves to predecessor", giveOwner: ownerC, wantPrev: common.HexToAddress(ownerB)},
		{name: "failure: unknown owner", giveOwner: "0x9999999999999999999999999999999999999999", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			prev, err := list.PreviousOf(common.HexToAddress(tt.giveOwner))
			if tt.wantErr {
				var notFound *SignerNotFoundError
				require.ErrorAs(t, err, &notFound)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantPrev, prev)
		})
	}
}

func Test_OwnerList_Mutations(t *testing.T) {
	t.Parallel()

	t.Run("Add appends, AddFront prepends", func(t *testing.T) {
		t.Parallel()

		list, err := NewOwnerList([]string{ownerB})
		require.NoError(t, err)

		require.NoError(t, list.Add(ownerC))
		require.NoError(t, list.AddFront(ownerA))

		assert.Equal(t, []common.Address{
			common.HexToAddress(ownerA),
			common.HexToAddress(ownerB),
			common.HexToAddress(ownerC),
		}, list.Addresses())
	})

	t.Run("Remove preserves relative order", func(t *testing.T) {
		t.Parallel()

		list, err := NewOwnerList([]string{ownerA, ownerB, ownerC})
		require.NoError(t, err)

		require.NoError(t, list.Remove(common.HexToAddress(ownerB)))
		assert.Equal(t, []common.Address{
			common.HexToAddress(ownerA),
			common.HexToAddress(ownerC),
		}, list.Addresses())

		// The removed owner's successor inherits a new predecessor.
		prev, err := list.PreviousOf(common.HexToAddress(ownerC))
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress(ownerA), prev)

		err = list.Remove(common.HexToAddress(ownerB))
		var notFound *SignerNotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("Swap keeps list position", func(t *testing.T) {
		t.Parallel()

		list, err := NewOwnerList([]string{ownerA, ownerB})
		require.NoError(t, err)

		replacement := "0x9999999999999999999999999999999999999999"
		require.NoError(t, list.Swap(common.HexToAddress(ownerA), replacement))

		assert.Equal(t, []common.Address{
			common.HexToAddress(replacement),
			common.HexToAddress(ownerB),
		}, list.Addresses())
		assert.False(t, list.Contains(common.HexToAddress(ownerA)))
	})

	t.Run("Swap rejects an existing owner as replacement", func(t *testing.T) {
		t.Parallel()

		list, err := NewOwnerList([]string{ownerA, ownerB})
		require.NoError(t, err)

		err = list.Swap(common.HexToAddress(ownerA), ownerB)
		var duplicate *DuplicateSignerError
		require.ErrorAs(t, err, &duplicate)
	})
}

func Test_OwnerList_Display(t *testing.T) {
	t.Parallel()

	mixed := "0xAaBbCcDdEeFf00112233445566778899aAbBcCdD"
	list, err := NewOwnerList([]string{mixed})
	require.NoError(t, err)

	// The supplied hex form is retained for display even though matching is
	// case-insensitive.
	addr := common.HexToAddress(mixed)
	assert.Equal(t, mixed, list.Display(addr))
	assert.Equal(t, common.HexToAddress(ownerA).Hex(), list.Display(common.HexToAddress(ownerA)))
}

func Test_OwnerList_JSON(t *testing.T) {
	t.Parallel()

	list, err := NewOwnerList([]string{ownerA, ownerB})
	require.NoError(t, err)

	data, err := json.Marshal(list)
	require.NoError(t, err)
	assert.JSONEq(t, `["0x1111111111111111111111111111111111111111","0x2222222222222222222222222222222222222222"]`, string(data))

	var decoded OwnerList
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, list.Addresses(), decoded.Addresses())
}
