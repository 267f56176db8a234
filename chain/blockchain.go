package chain

// BlockChain is the common surface of every chain client built by a Provider.
type BlockChain interface {
	// String returns the chain name and short id "<display name> (<name>)"
	String() string
	// Name returns the human readable name of the chain
	Name() string
	ChainID() ID
	Family() string
}
