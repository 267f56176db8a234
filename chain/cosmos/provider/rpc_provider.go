package provider

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"

	"github.com/cosmos/cosmos-sdk/client/grpc/cmtservice"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/chain/cosmos"
)

// RPCChainProviderConfig holds the configuration to initialize the RPCChainProvider.
type RPCChainProviderConfig struct {
	// Required: gRPC address of the node, host:port.
	GRPCURL string
	// Optional: Dial without TLS, for local nodes.
	Insecure bool
	// Optional: Fee coin reported in receipts. Defaults to uatom with 6 decimals.
	FeeDenom    string
	FeeDecimals int32
}

// validate checks if the RPCChainProviderConfig is valid.
func (c RPCChainProviderConfig) validate() error {
	if c.GRPCURL == "" {
		return errors.New("grpc url is required")
	}
	if _, _, err := net.SplitHostPort(c.GRPCURL); err != nil {
		return fmt.Errorf("grpc url must be host:port: %w", err)
	}
	if c.FeeDecimals < 0 {
		return errors.New("fee decimals must not be negative")
	}

	return nil
}

var _ chain.Provider = (*RPCChainProvider)(nil)

// RPCChainProvider is a chain provider for Cosmos SDK chains read over the node gRPC services.
type RPCChainProvider struct {
	id     chain.ID
	config RPCChainProviderConfig

	chain *cosmos.Chain
}

func NewRPCChainProvider(id chain.ID, config RPCChainProviderConfig) *RPCChainProvider {
	return &RPCChainProvider{
		id:     id,
		config: config,
	}
}

// Initialize creates the gRPC client connection. The connection is established lazily on the
// first call.
func (p *RPCChainProvider) Initialize(_ context.Context) (chain.BlockChain, error) {
	if p.chain != nil {
		return *p.chain, nil // Already initialized
	}

	if p.id.Family() != chain.FamilyCosmos {
		return nil, fmt.Errorf("chain %s is not a cosmos chain", p.id)
	}

	if err := p.config.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate provider config: %w", err)
	}

	creds := credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	if p.config.Insecure {
		creds = insecure.NewCredentials()
	}

	conn, err := grpc.NewClient(p.config.GRPCURL, grpc.WithTransportCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create grpc client: %w", err)
	}

	feeDenom, feeDecimals := cosmos.DefaultFeeDenom, int32(cosmos.DefaultFeeDecimals)
	if p.config.FeeDenom != "" {
		feeDenom, feeDecimals = p.config.FeeDenom, p.config.FeeDecimals
	}

	p.chain = &cosmos.Chain{
		ChainMetadata: cosmos.ChainMetadata{Chain: p.id},
		Tx:            txtypes.NewServiceClient(conn),
		Blocks:        cmtservice.NewServiceClient(conn),
		URL:           p.config.GRPCURL,
		FeeDenom:      feeDenom,
		FeeDecimals:   feeDecimals,
	}

	return *p.chain, nil
}

// Name returns the name of the RPCChainProvider.
func (*RPCChainProvider) Name() string {
	return "Cosmos gRPC Chain Provider"
}

// ChainID returns the chain managed by this provider.
func (p *RPCChainProvider) ChainID() chain.ID {
	return p.id
}

// BlockChain returns the Cosmos chain instance managed by this provider. You must call Initialize
// before using this method to ensure the chain is properly set up.
func (p *RPCChainProvider) BlockChain() chain.BlockChain {
	if p.chain == nil {
		return nil
	}

	return *p.chain
}
