package provider

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	chainsel "github.com/smartcontractkit/chain-selectors"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/chain/evm"
	"github.com/smartcontractkit/chainlink-wallet-core/pkg/logger"
)

// RPCChainProviderConfig holds the configuration to initialize the RPCChainProvider.
type RPCChainProviderConfig struct {
	// Required: At least one RPC must be provided to connect to the EVM node. The first healthy
	// RPC is used as the primary, the others as backups.
	RPCs []evm.RPC
	// Optional: ClientOpts are additional options to configure the MultiClient used by the
	// RPCChainProvider, e.g. evm.WithRetryConfig.
	ClientOpts []func(client *evm.MultiClient)
	// Optional: Logger is the logger to use for the RPCChainProvider. If not provided, a default
	// logger will be used.
	Logger logger.Logger
}

// validate checks if the RPCChainProviderConfig is valid.
func (c RPCChainProviderConfig) validate() error {
	if len(c.RPCs) == 0 {
		return errors.New("at least one RPC is required")
	}
	for i, r := range c.RPCs {
		if r.HTTPURL == "" {
			return fmt.Errorf("rpc %d (%s): http url is required", i, r.Name)
		}
	}

	return nil
}

var _ chain.Provider = (*RPCChainProvider)(nil)

// RPCChainProvider is a chain provider that provides a chain that connects to an EVM node via RPC.
type RPCChainProvider struct {
	id     chain.ID
	config RPCChainProviderConfig

	chain *evm.Chain
}

// NewRPCChainProvider creates a new RPCChainProvider with the given chain and configuration.
func NewRPCChainProvider(id chain.ID, config RPCChainProviderConfig) *RPCChainProvider {
	return &RPCChainProvider{
		id:     id,
		config: config,
	}
}

// Initialize dials the configured RPCs and checks that the node serves the expected EVM chain id.
// It returns the initialized chain.BlockChain or an error if initialization fails.
func (p *RPCChainProvider) Initialize(ctx context.Context) (chain.BlockChain, error) {
	if p.chain != nil {
		return *p.chain, nil // Already initialized
	}

	if p.id.Family() != chain.FamilyEVM {
		return nil, fmt.Errorf("chain %s is not an evm chain", p.id)
	}

	if err := p.config.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate provider config: %w", err)
	}

	wantChainID, err := evmChainID(p.id)
	if err != nil {
		return nil, err
	}

	lggr := p.config.Logger
	if lggr == nil {
		lggr, err = logger.New()
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	client, err := evm.NewMultiClient(ctx, lggr, p.id, p.config.RPCs, p.config.ClientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-client for chain %s: %w", p.id, err)
	}

	gotChainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id for chain %s: %w", p.id, err)
	}
	if gotChainID.Cmp(wantChainID) != 0 {
		return nil, fmt.Errorf("chain %s: node reports chain id %s, expected %s", p.id, gotChainID, wantChainID)
	}

	p.chain = &evm.Chain{
		ChainMetadata: evm.ChainMetadata{Chain: p.id},
		Client:        client,
		URL:           p.config.RPCs[0].HTTPURL,
	}

	return *p.chain, nil
}

// Name returns the name of the RPCChainProvider.
func (*RPCChainProvider) Name() string {
	return "EVM RPC Chain Provider"
}

// ChainID returns the chain managed by this provider.
func (p *RPCChainProvider) ChainID() chain.ID {
	return p.id
}

// BlockChain returns the EVM chain instance managed by this provider. You must call Initialize
// before using this method to ensure the chain is properly set up.
func (p *RPCChainProvider) BlockChain() chain.BlockChain {
	if p.chain == nil {
		return nil
	}

	return *p.chain
}

func evmChainID(id chain.ID) (*big.Int, error) {
	raw, err := chainsel.GetChainIDFromSelector(id.Selector())
	if err != nil {
		return nil, fmt.Errorf("failed to get evm chain id for chain %s: %w", id, err)
	}

	chainID, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, fmt.Errorf("invalid evm chain id %q for chain %s", raw, id)
	}

	return chainID, nil
}
