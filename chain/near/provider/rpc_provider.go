package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/chain/near"
)

// RPCChainProviderConfig holds the configuration to initialize the RPCChainProvider.
type RPCChainProviderConfig struct {
	// Required: The JSON-RPC URL of the NEAR archival or regular node
	RPCURL string
	// Optional: Headers sent with every request, e.g. "Authorization" for paid RPC providers.
	Headers map[string]string
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

// RPCChainProvider is a chain provider that provides a chain that connects to a NEAR node via
// JSON-RPC.
type RPCChainProvider struct {
	id     chain.ID
	config RPCChainProviderConfig

	chain *near.Chain
}

func NewRPCChainProvider(id chain.ID, config RPCChainProviderConfig) *RPCChainProvider {
	return &RPCChainProvider{
		id:     id,
		config: config,
	}
}

// Initialize creates the JSON-RPC client. HTTP clients do not connect until the first call.
func (p *RPCChainProvider) Initialize(ctx context.Context) (chain.BlockChain, error) {
	if p.chain != nil {
		return *p.chain, nil // Already initialized
	}

	if p.id.Family() != chain.FamilyNear {
		return nil, fmt.Errorf("chain %s is not a near chain", p.id)
	}

	if err := p.config.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate provider config: %w", err)
	}

	opts := make([]rpc.ClientOption, 0, len(p.config.Headers))
	for k, v := range p.config.Headers {
		opts = append(opts, rpc.WithHeader(k, v))
	}

	client, err := rpc.DialOptions(ctx, p.config.RPCURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to dial near rpc: %w", err)
	}

	p.chain = &near.Chain{
		ChainMetadata: near.ChainMetadata{Chain: p.id},
		Client:        client,
		URL:           p.config.RPCURL,
	}

	return *p.chain, nil
}

// Name returns the name of the RPCChainProvider.
func (*RPCChainProvider) Name() string {
	return "NEAR RPC Chain Provider"
}

// ChainID returns the chain managed by this provider.
func (p *RPCChainProvider) ChainID() chain.ID {
	return p.id
}

// BlockChain returns the NEAR chain instance managed by this provider. You must call Initialize
// before using this method to ensure the chain is properly set up.
func (p *RPCChainProvider) BlockChain() chain.BlockChain {
	if p.chain == nil {
		return nil
	}

	return *p.chain
}
