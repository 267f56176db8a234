package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	chain_selectors "github.com/smartcontractkit/chain-selectors"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/chain/aptos"
)

// RPCChainProviderConfig holds the configuration to initialize the RPCChainProvider.
type RPCChainProviderConfig struct {
	// Required: The RPC URL to connect to the Aptos node, including the /v1 prefix
	RPCURL string
	// Optional: The Aptos chain ID. Defaults to the chain ID known to chain-selectors.
	AptosChainID uint8
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

// RPCChainProvider is a chain provider that provides a chain that connects to an Aptos node via
// RPC.
type RPCChainProvider struct {
	id chain.ID

	// RPCChainProviderConfig holds the configuration for the RPCChainProvider.
	config RPCChainProviderConfig

	// chain is the Aptos chain instance that this provider manages. The Initialize method
	// sets up the chain.
	chain *aptos.Chain
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
// Aptos chain client.
func (p *RPCChainProvider) Initialize(_ context.Context) (chain.BlockChain, error) {
	if p.chain != nil {
		return *p.chain, nil // Already initialized
	}

	if p.id.Family() != chain.FamilyAptos {
		return nil, fmt.Errorf("chain %s is not an aptos chain", p.id)
	}

	// Validate the provider configuration
	if err := p.config.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate provider config: %w", err)
	}

	chainID, err := p.aptosChainID()
	if err != nil {
		return nil, err
	}

	client, err := aptoslib.NewNodeClient(p.config.RPCURL, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Aptos RPC client for chain %s: %w", p.id, err)
	}

	p.chain = &aptos.Chain{
		ChainMetadata: aptos.ChainMetadata{Chain: p.id},
		Client:        client,
		URL:           p.config.RPCURL,
	}

	return *p.chain, nil
}

func (p *RPCChainProvider) aptosChainID() (uint8, error) {
	if p.config.AptosChainID != 0 {
		return p.config.AptosChainID, nil
	}

	chainIDStr, err := chain_selectors.GetChainIDFromSelector(p.id.Selector())
	if err != nil {
		return 0, fmt.Errorf("failed to get chain ID for %s: %w", p.id, err)
	}

	chainID, err := strconv.ParseUint(chainIDStr, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("failed to parse chain ID %s: %w", chainIDStr, err)
	}

	return uint8(chainID), nil
}

// Name returns the name of the RPCChainProvider.
func (*RPCChainProvider) Name() string {
	return "Aptos RPC Chain Provider"
}

// ChainID returns the chain managed by this provider.
func (p *RPCChainProvider) ChainID() chain.ID {
	return p.id
}

// BlockChain returns the Aptos chain instance managed by this provider. You must call Initialize
// before using this method to ensure the chain is properly set up.
func (p *RPCChainProvider) BlockChain() chain.BlockChain {
	if p.chain == nil {
		return nil
	}

	return *p.chain
}
