package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/xssnick/tonutils-go/liteclient"
	tonlib "github.com/xssnick/tonutils-go/ton"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/chain/ton"
)

// ProofCheckPolicy selects how strictly liteserver responses are verified.
type ProofCheckPolicy string

const (
	ProofCheckPolicySecure  ProofCheckPolicy = "secure"
	ProofCheckPolicyFast    ProofCheckPolicy = "fast"
	ProofCheckPolicyDefault ProofCheckPolicy = ""
)

// RPCChainProviderConfig holds the configuration to initialize the RPCChainProvider.
type RPCChainProviderConfig struct {
	// Required: The URL of the TON global config listing the liteservers to connect to, e.g.
	// https://ton.org/global.config.json
	HTTPURL string
	// Optional: Proof check policy, secure or fast. Defaults to secure.
	ProofCheckPolicy ProofCheckPolicy
	// Optional: Number of account transactions searched per lookup. Defaults to
	// ton.DefaultScanDepth.
	ScanDepth uint32
}

// validate checks if the RPCChainProviderConfig is valid.
func (c RPCChainProviderConfig) validate() error {
	if c.HTTPURL == "" {
		return errors.New("global config url is required")
	}
	if _, err := url.ParseRequestURI(c.HTTPURL); err != nil {
		return fmt.Errorf("invalid global config url: %w", err)
	}
	if _, err := c.ProofCheckPolicy.policy(); err != nil {
		return err
	}

	return nil
}

func (p ProofCheckPolicy) policy() (tonlib.ProofCheckPolicy, error) {
	switch p {
	case ProofCheckPolicySecure, ProofCheckPolicyDefault:
		return tonlib.ProofCheckPolicySecure, nil
	case ProofCheckPolicyFast:
		return tonlib.ProofCheckPolicyFast, nil
	default:
		return 0, fmt.Errorf("unsupported proof check policy: %s", p)
	}
}

var _ chain.Provider = (*RPCChainProvider)(nil)

// RPCChainProvider is a chain provider that provides a chain that connects to TON liteservers.
type RPCChainProvider struct {
	id chain.ID

	// RPCChainProviderConfig holds the configuration for the RPCChainProvider.
	config RPCChainProviderConfig

	// chain is the Ton chain instance that this provider manages. The Initialize method
	// sets up the chain.
	chain *ton.Chain
}

func NewRPCChainProvider(id chain.ID, config RPCChainProviderConfig) *RPCChainProvider {
	return &RPCChainProvider{
		id:     id,
		config: config,
	}
}

// Initialize downloads the global config and connects to its liteservers.
func (p *RPCChainProvider) Initialize(ctx context.Context) (chain.BlockChain, error) {
	if p.chain != nil {
		return *p.chain, nil // Already initialized
	}

	if p.id.Family() != chain.FamilyTon {
		return nil, fmt.Errorf("chain %s is not a ton chain", p.id)
	}

	if err := p.config.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate provider config: %w", err)
	}

	connectionPool := liteclient.NewConnectionPool()
	if err := connectionPool.AddConnectionsFromConfigUrl(ctx, p.config.HTTPURL); err != nil {
		return nil, fmt.Errorf("failed to retrieve ton network config: %w", err)
	}

	// (No need to check the policy, already done by p.config.validate)
	policy, _ := p.config.ProofCheckPolicy.policy()
	api := tonlib.NewAPIClient(connectionPool, policy).WithRetry()

	p.chain = &ton.Chain{
		ChainMetadata: ton.ChainMetadata{Chain: p.id},
		Client:        api,
		URL:           p.config.HTTPURL,
		ScanDepth:     p.config.ScanDepth,
	}

	return *p.chain, nil
}

// Name returns the name of the RPCChainProvider.
func (*RPCChainProvider) Name() string {
	return "TON RPC Chain Provider"
}

// ChainID returns the chain managed by this provider.
func (p *RPCChainProvider) ChainID() chain.ID {
	return p.id
}

// BlockChain returns the TON chain instance managed by this provider. You must call Initialize
// before using this method to ensure the chain is properly set up.
func (p *RPCChainProvider) BlockChain() chain.BlockChain {
	if p.chain == nil {
		return nil
	}

	return *p.chain
}
