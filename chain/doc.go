/*
Package chain provides the chain abstraction layer of the wallet core: the closed set of
supported chains and the registry that routes per-chain RPC operations to the client handle
serving that chain.

# Chain identifiers

ID is a closed enum. Every supported network is declared in this package and the zero value is
invalid, so a chain can never be constructed from arbitrary input except through ParseID:

	id, err := chain.ParseID("solana")
	if err != nil {
		return err // wraps chain.ErrUnknownChain
	}
	fmt.Println(id.Family())   // "solana"
	fmt.Println(id.Selector()) // chain-selectors selector of Solana mainnet

Operators disable chains through configuration. Active filters the supported set without removing
the enum members:

	for _, id := range chain.Active(chain.Near, chain.Cardano) {
		...
	}

# Registry

Registry is a generic container keyed by ID. The type parameter is the capability every handle
provides:

	registry := chain.NewRegistry[txstatus.ChainStatusClient]().
		Register(chain.Solana, solanaChain).
		Register(chain.Ethereum, ethChain)

	client := registry.Resolve(chain.Solana)

Resolve panics when the chain has no handle, because every active chain is expected to be wired
at startup. Lookup is the non panicking variant.

Typed access to the concrete client of a chain or a family:

	evmChains := chain.FamilyClients[*evm.Chain](registry, chain.FamilyEVM)
	sol, ok := chain.As[*solana.Chain](registry, chain.Solana)

# Providers

Each chain family package (chain/solana, chain/evm, ...) exposes a provider that validates its
configuration and builds the chain client. Providers satisfy the Provider interface:

	p := provider.NewRPCChainProvider(chain.Solana, provider.RPCChainProviderConfig{
		RPCURL: "https://api.mainnet-beta.solana.com",
	})
	blockchain, err := p.Initialize(ctx)
*/
package chain
