package types //nolint:revive

// NetworkID identifies the chain a wallet lives on.
type NetworkID string

const (
	NetworkMainnet NetworkID = "mainnet"
	NetworkGnosis  NetworkID = "gnosis"
	NetworkSepolia NetworkID = "sepolia"
)

// ChainIDs maps each supported network to its EIP-155 chain id. The chain id
// feeds the EIP-712 domain separator, so an unknown network must never fall
// back to a default.
var ChainIDs = map[NetworkID]uint64{
	NetworkMainnet: 1,
	NetworkGnosis:  100,
	NetworkSepolia: 11155111,
}

// ChainID returns the EIP-155 chain id for the network.
func (n NetworkID) ChainID() (uint64, bool) {
	id, ok := ChainIDs[n]
	return id, ok
}
