package chain

import "context"

// Provider builds the client for one chain from its network configuration.
type Provider interface {
	Initialize(ctx context.Context) (BlockChain, error)
	Name() string
	ChainID() ID
	BlockChain() BlockChain
}
