package web3

// Chain names used to build remote endpoints.
const (
	ChainMainnet = "mainnet"
	ChainMorden  = "morden"
	ChainRopsten = "ropsten"
	ChainRinkeby = "rinkeby"
	ChainKovan   = "kovan"
)

type Network struct {
	ID   int
	Name string
}

var networkMap = map[int]Network{
	1:  {ID: 1, Name: ChainMainnet},
	2:  {ID: 2, Name: ChainMorden},
	3:  {ID: 3, Name: ChainRopsten},
	4:  {ID: 4, Name: ChainRinkeby},
	42: {ID: 42, Name: ChainKovan},
}

// ChainNameForNetwork returns the chain name for the given network ID.
// Unknown IDs map to mainnet.
func ChainNameForNetwork(networkID int) string {
	network, exists := networkMap[networkID]
	if !exists {
		return ChainMainnet
	}

	return network.Name
}
