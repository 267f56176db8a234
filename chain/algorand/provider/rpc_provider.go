package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/chain/algorand"
	"github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
)

// apiTokenHeader authenticates requests to algod.
const apiTokenHeader = "X-Algo-API-Token"

// RPCChainProviderConfig holds the configuration to initialize the RPCChainProvider.
type RPCChainProviderConfig struct {
	// Required: The algod URL.
	AlgodURL string
	// Optional: The algod API token. Public endpoints do not need one.
	APIToken string
}

// validate checks if the RPCChainProviderConfig is valid.
func (c RPCChainProviderConfig) validate() error {
	if c.AlgodURL == "" {
		return errors.New("algod url is required")
	}
	if _, err := url.ParseRequestURI(c.AlgodURL); err != nil {
		return fmt.Errorf("invalid algod url: %w", err)
	}

	return nil
}

var _ chain.Provider = (*RPCChainProvider)(nil)

// RPCChainProvider is a chain provider that reads Algorand through the algod REST API.
type RPCChainProvider struct {
	id     chain.ID
	config RPCChainProviderConfig

	chain *algorand.Chain
}

func NewRPCChainProvider(id chain.ID, config RPCChainProviderConfig) *RPCChainProvider {
	return &RPCChainProvider{
		id:     id,
		config: config,
	}
}

// Initialize builds the algod REST client. No request is sent.
func (p *RPCChainProvider) Initialize(_ context.Context) (chain.BlockChain, error) {
	if p.chain != nil {
		return *p.chain, nil // Already initialized
	}

	if p.id.Family() != chain.FamilyAlgorand {
		return nil, fmt.Errorf("chain %s is not an algorand chain", p.id)
	}

	if err := p.config.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate provider config: %w", err)
	}

	var headers map[string]string
	if p.config.APIToken != "" {
		headers = map[string]string{apiTokenHeader: p.config.APIToken}
	}

	p.chain = &algorand.Chain{
		ChainMetadata: algorand.ChainMetadata{Chain: p.id},
		Client:        common.NewRESTClient(p.config.AlgodURL, headers),
		URL:           p.config.AlgodURL,
	}

	return *p.chain, nil
}

// Name returns the name of the RPCChainProvider.
func (*RPCChainProvider) Name() string {
	return "Algorand algod Chain Provider"
}

// ChainID returns the chain managed by this provider.
func (p *RPCChainProvider) ChainID() chain.ID {
	return p.id
}

// BlockChain returns the Algorand chain instance managed by this provider.
func (p *RPCChainProvider) BlockChain() chain.BlockChain {
	if p.chain == nil {
		return nil
	}

	return *p.chain
}
