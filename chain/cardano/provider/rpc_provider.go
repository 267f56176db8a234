package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/chain/cardano"
	"github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
)

// RPCChainProviderConfig holds the configuration to initialize the RPCChainProvider.
type RPCChainProviderConfig struct {
	// Required: The Blockfrost API URL of the network, e.g.
	// https://cardano-mainnet.blockfrost.io/api/v0
	BlockfrostURL string
	// Required: The Blockfrost project id, sent as the project_id header.
	ProjectID string
}

// validate checks if the RPCChainProviderConfig is valid.
func (c RPCChainProviderConfig) validate() error {
	if c.BlockfrostURL == "" {
		return errors.New("blockfrost url is required")
	}
	if _, err := url.ParseRequestURI(c.BlockfrostURL); err != nil {
		return fmt.Errorf("invalid blockfrost url: %w", err)
	}
	if c.ProjectID == "" {
		return errors.New("blockfrost project id is required")
	}

	return nil
}

var _ chain.Provider = (*RPCChainProvider)(nil)

// RPCChainProvider is a chain provider that reads Cardano through Blockfrost.
type RPCChainProvider struct {
	id     chain.ID
	config RPCChainProviderConfig

	chain *cardano.Chain
}

func NewRPCChainProvider(id chain.ID, config RPCChainProviderConfig) *RPCChainProvider {
	return &RPCChainProvider{
		id:     id,
		config: config,
	}
}

// Initialize builds the Blockfrost REST client. No request is sent.
func (p *RPCChainProvider) Initialize(_ context.Context) (chain.BlockChain, error) {
	if p.chain != nil {
		return *p.chain, nil // Already initialized
	}

	if p.id.Family() != chain.FamilyCardano {
		return nil, fmt.Errorf("chain %s is not a cardano chain", p.id)
	}

	if err := p.config.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate provider config: %w", err)
	}

	p.chain = &cardano.Chain{
		ChainMetadata: cardano.ChainMetadata{Chain: p.id},
		Client:        common.NewRESTClient(p.config.BlockfrostURL, map[string]string{"project_id": p.config.ProjectID}),
		URL:           p.config.BlockfrostURL,
	}

	return *p.chain, nil
}

// Name returns the name of the RPCChainProvider.
func (*RPCChainProvider) Name() string {
	return "Cardano Blockfrost Chain Provider"
}

// ChainID returns the chain managed by this provider.
func (p *RPCChainProvider) ChainID() chain.ID {
	return p.id
}

// BlockChain returns the Cardano chain instance managed by this provider.
func (p *RPCChainProvider) BlockChain() chain.BlockChain {
	if p.chain == nil {
		return nil
	}

	return *p.chain
}
