package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	solrpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/chain/solana"
)

// RPCChainProviderConfig holds the configuration to initialize the RPCChainProvider.
type RPCChainProviderConfig struct {
	// Required: The HTTP RPC URL to connect to the Solana node
	HTTPURL string
	// Optional: The commitment used for status and slot queries. Defaults to confirmed.
	Commitment solrpc.CommitmentType
	// Optional: Headers sent with every RPC request, e.g. provider API keys.
	Headers map[string]string
}

// validate checks if the RPCChainProviderConfig is valid.
func (c RPCChainProviderConfig) validate() error {
	if c.HTTPURL == "" {
		return errors.New("http url is required")
	}
	if _, err := url.ParseRequestURI(c.HTTPURL); err != nil {
		return fmt.Errorf("invalid http url: %w", err)
	}

	switch c.Commitment {
	case "", solrpc.CommitmentConfirmed, solrpc.CommitmentFinalized:
	default:
		return fmt.Errorf("unsupported commitment %q: must be confirmed or finalized", c.Commitment)
	}

	return nil
}

var _ chain.Provider = (*RPCChainProvider)(nil)

// RPCChainProvider is a chain provider that provides a chain that connects to a Solana node via
// RPC.
type RPCChainProvider struct {
	id     chain.ID
	config RPCChainProviderConfig

	// chain is the Solana chain instance that this provider manages. The Initialize method
	// sets up the chain.
	chain *solana.Chain
}

func NewRPCChainProvider(id chain.ID, config RPCChainProviderConfig) *RPCChainProvider {
	return &RPCChainProvider{
		id:     id,
		config: config,
	}
}

// Initialize validates the configuration and sets up the Solana RPC client. No request is sent
// to the node.
func (p *RPCChainProvider) Initialize(_ context.Context) (chain.BlockChain, error) {
	if p.chain != nil {
		return *p.chain, nil // Already initialized
	}

	if p.id.Family() != chain.FamilySolana {
		return nil, fmt.Errorf("chain %s is not a solana chain", p.id)
	}

	if err := p.config.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate provider config: %w", err)
	}

	p.chain = &solana.Chain{
		ChainMetadata: solana.ChainMetadata{Chain: p.id},
		Client:        solrpc.NewWithHeaders(p.config.HTTPURL, p.config.Headers),
		URL:           p.config.HTTPURL,
		Commitment:    p.config.Commitment,
	}

	return *p.chain, nil
}

// Name returns the name of the RPCChainProvider.
func (*RPCChainProvider) Name() string {
	return "Solana RPC Chain Provider"
}

// ChainID returns the chain managed by this provider.
func (p *RPCChainProvider) ChainID() chain.ID {
	return p.id
}

// BlockChain returns the Solana chain instance managed by this provider. You must call Initialize
// before using this method to ensure the chain is properly set up.
func (p *RPCChainProvider) BlockChain() chain.BlockChain {
	if p.chain == nil {
		return nil
	}

	return *p.chain
}
