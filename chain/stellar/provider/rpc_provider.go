package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/stellar/go-stellar-sdk/clients/rpcclient"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/chain/stellar"
)

// defaultTimeout bounds every Soroban RPC request.
const defaultTimeout = 60 * time.Second

// RPCChainProviderConfig holds the configuration to initialize the RPCChainProvider.
type RPCChainProviderConfig struct {
	// Required: The Soroban RPC URL to connect to the Stellar network
	SorobanRPCURL string
	// Optional: The timeout of each RPC request. Defaults to 60 seconds.
	Timeout time.Duration
}

func (c RPCChainProviderConfig) validate() error {
	if c.SorobanRPCURL == "" {
		return errors.New("soroban RPC URL is required")
	}
	if _, err := url.ParseRequestURI(c.SorobanRPCURL); err != nil {
		return fmt.Errorf("invalid soroban RPC URL: %w", err)
	}

	return nil
}

// RPCChainProvider is a chain provider that reads the Stellar network through Soroban RPC.
type RPCChainProvider struct {
	id     chain.ID
	config RPCChainProviderConfig

	chain *stellar.Chain
}

var _ chain.Provider = (*RPCChainProvider)(nil)

func NewRPCChainProvider(id chain.ID, config RPCChainProviderConfig) *RPCChainProvider {
	return &RPCChainProvider{
		id:     id,
		config: config,
	}
}

func (p *RPCChainProvider) Initialize(_ context.Context) (chain.BlockChain, error) {
	if p.chain != nil {
		return *p.chain, nil // already initialized
	}

	if p.id.Family() != chain.FamilyStellar {
		return nil, fmt.Errorf("chain %s is not a stellar chain", p.id)
	}

	if err := p.config.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate provider config: %w", err)
	}

	timeout := p.config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	// Create the Soroban RPC client
	client := rpcclient.NewClient(p.config.SorobanRPCURL, &http.Client{
		Timeout: timeout,
	})

	p.chain = &stellar.Chain{
		ChainMetadata: stellar.ChainMetadata{Chain: p.id},
		Client:        client,
		URL:           p.config.SorobanRPCURL,
	}

	return *p.chain, nil
}

func (p *RPCChainProvider) Name() string {
	return "Stellar RPC Chain Provider"
}

func (p *RPCChainProvider) ChainID() chain.ID {
	return p.id
}

func (p *RPCChainProvider) BlockChain() chain.BlockChain {
	if p.chain == nil {
		return nil
	}

	return *p.chain
}
