package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	sui_sdk "github.com/block-vision/sui-go-sdk/sui"
	chain_selectors "github.com/smartcontractkit/chain-selectors"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/chain/sui"
)

// RPCChainProviderConfig holds the configuration to initialize the RPCChainProvider.
type RPCChainProviderConfig struct {
	// Required: The RPC URL to connect to the Sui node
	RPCURL string
}

// validate checks if the RPCChainProviderConfig is valid.
func (c RPCChainProviderConfig) validate() error {
	if c.RPCURL == "" {
		return errors.New("rpc url is required")
	}
	if _, err := url.ParseRequestURI(c.RPCURL); err != nil {
		return fmt.Errorf("invalid rpc url: %w", err)
	}

	return nil
}

var _ chain.Provider = (*RPCChainProvider)(nil)

// RPCChainProvider is a chain provider that provides a chain that connects to an Sui node via RPC
type RPCChainProvider struct {
	id chain.ID

	// RPCChainProviderConfig holds the configuration for the RPCChainProvider.
	config RPCChainProviderConfig

	// chain is the Sui chain instance that this provider manages. The Initialize method
	// sets up the chain.
	chain *sui.Chain
}

// NewRPCChainProvider creates a new RPCChainProvider with the given chain and configuration.
func NewRPCChainProvider(id chain.ID, config RPCChainProviderConfig) *RPCChainProvider {
	p := &RPCChainProvider{
		id:     id,
		config: config,
	}

	return p
}

// Initialize initializes the RPCChainProvider, validating the configuration and setting up the
// Sui chain client.
func (p *RPCChainProvider) Initialize(_ context.Context) (chain.BlockChain, error) {
	if p.chain != nil {
		return *p.chain, nil // Already initialized
	}

	if p.id.Family() != chain.FamilySui {
		return nil, fmt.Errorf("chain %s is not a sui chain", p.id)
	}

	// Validate the provider configuration
	if err := p.config.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate provider config: %w", err)
	}

	// Validate that the chain selector is known
	if _, err := chain_selectors.GetChainIDFromSelector(p.id.Selector()); err != nil {
		return nil, fmt.Errorf("failed to get chain ID for %s: %w", p.id, err)
	}

	p.chain = &sui.Chain{
		ChainMetadata: sui.ChainMetadata{Chain: p.id},
		Client:        sui_sdk.NewSuiClient(p.config.RPCURL),
		URL:           p.config.RPCURL,
	}

	return *p.chain, nil
}

// Name returns the name of the RPCChainProvider.
func (*RPCChainProvider) Name() string {
	return "Sui RPC Chain Provider"
}

// ChainID returns the chain managed by this provider.
func (p *RPCChainProvider) ChainID() chain.ID {
	return p.id
}

// BlockChain returns the Sui chain instance managed by this provider. You must call Initialize
// before using this method to ensure the chain is properly set up.
func (p *RPCChainProvider) BlockChain() chain.BlockChain {
	if p.chain == nil {
		return nil
	}

	return *p.chain
}
