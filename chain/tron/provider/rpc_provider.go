package provider

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/fbsobreira/gotron-sdk/pkg/client"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/chain/tron"
)

// defaultTimeout bounds each gRPC call made by the gotron client.
const defaultTimeout = 30 * time.Second

// RPCChainProviderConfig holds the configuration required to initialize a Tron RPC chain provider.
type RPCChainProviderConfig struct {
	FullNodeURL string        // gRPC address of the full node, host:port.
	APIKey      string        // Optional: TronGrid API key sent with every call.
	Insecure    bool          // Dial without TLS, for local nodes.
	Timeout     time.Duration // Optional: per call timeout. Defaults to 30s.
}

// validate checks whether the configuration contains all required values.
func (c RPCChainProviderConfig) validate() error {
	if c.FullNodeURL == "" {
		return errors.New("full node url is required")
	}
	if _, _, err := net.SplitHostPort(c.FullNodeURL); err != nil {
		return fmt.Errorf("full node url must be host:port: %w", err)
	}
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}

	return nil
}

// Ensure interface implementation
var _ chain.Provider = (*RPCChainProvider)(nil)

// RPCChainProvider implements the `chain.Provider` interface for reading a Tron blockchain over
// the full node gRPC API.
type RPCChainProvider struct {
	id     chain.ID               // Chain served by this provider.
	config RPCChainProviderConfig // Configuration used to set up the provider.
	chain  *tron.Chain            // Cached reference to the initialized Tron chain instance.
}

// NewRPCChainProvider creates a new Tron RPC provider instance with the given chain and configuration.
// The actual connection is deferred until Initialize is called.
func NewRPCChainProvider(id chain.ID, config RPCChainProviderConfig) *RPCChainProvider {
	return &RPCChainProvider{
		id:     id,
		config: config,
	}
}

// Initialize sets up the gRPC connection to the full node and returns a Chain instance. The
// connection is established lazily by gRPC.
func (p *RPCChainProvider) Initialize(_ context.Context) (chain.BlockChain, error) {
	// If already initialized, return cached chain
	if p.chain != nil {
		return *p.chain, nil
	}

	if p.id.Family() != chain.FamilyTron {
		return nil, fmt.Errorf("chain %s is not a tron chain", p.id)
	}

	// Validate config
	if err := p.config.validate(); err != nil {
		return nil, fmt.Errorf("invalid Tron RPC config: %w", err)
	}

	grpcClient := client.NewGrpcClient(p.config.FullNodeURL)
	grpcClient.SetTimeout(p.timeout())
	if p.config.APIKey != "" {
		if err := grpcClient.SetAPIKey(p.config.APIKey); err != nil {
			return nil, fmt.Errorf("failed to set api key: %w", err)
		}
	}

	creds := credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	if p.config.Insecure {
		creds = insecure.NewCredentials()
	}
	if err := grpcClient.Start(grpc.WithTransportCredentials(creds)); err != nil {
		return nil, fmt.Errorf("failed to start grpc client: %w", err)
	}

	// Cache the chain instance
	p.chain = &tron.Chain{
		ChainMetadata: tron.ChainMetadata{Chain: p.id},
		Client:        grpcClient,
		URL:           p.config.FullNodeURL,
	}

	return *p.chain, nil
}

func (p *RPCChainProvider) timeout() time.Duration {
	if p.config.Timeout == 0 {
		return defaultTimeout
	}

	return p.config.Timeout
}

// Name returns the name of the provider.
func (p *RPCChainProvider) Name() string {
	return "Tron RPC Chain Provider"
}

// ChainID returns the chain served by this provider.
func (p *RPCChainProvider) ChainID() chain.ID {
	return p.id
}

// BlockChain returns the initialized Tron chain instance.
func (p *RPCChainProvider) BlockChain() chain.BlockChain {
	if p.chain == nil {
		return nil
	}

	return *p.chain
}
