package chains

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	solrpc "github.com/gagliardetto/solana-go/rpc"
	"golang.org/x/time/rate"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	algorandprov "github.com/smartcontractkit/chainlink-wallet-core/chain/algorand/provider"
	aptosprov "github.com/smartcontractkit/chainlink-wallet-core/chain/aptos/provider"
	cardanoprov "github.com/smartcontractkit/chainlink-wallet-core/chain/cardano/provider"
	cosmosprov "github.com/smartcontractkit/chainlink-wallet-core/chain/cosmos/provider"
	"github.com/smartcontractkit/chainlink-wallet-core/chain/evm"
	evmprov "github.com/smartcontractkit/chainlink-wallet-core/chain/evm/provider"
	nearprov "github.com/smartcontractkit/chainlink-wallet-core/chain/near/provider"
	solanaprov "github.com/smartcontractkit/chainlink-wallet-core/chain/solana/provider"
	stellarprov "github.com/smartcontractkit/chainlink-wallet-core/chain/stellar/provider"
	suiprov "github.com/smartcontractkit/chainlink-wallet-core/chain/sui/provider"
	tonprov "github.com/smartcontractkit/chainlink-wallet-core/chain/ton/provider"
	tronprov "github.com/smartcontractkit/chainlink-wallet-core/chain/tron/provider"
	"github.com/smartcontractkit/chainlink-wallet-core/config"
	cfgenv "github.com/smartcontractkit/chainlink-wallet-core/config/env"
	cfgnet "github.com/smartcontractkit/chainlink-wallet-core/config/network"
	"github.com/smartcontractkit/chainlink-wallet-core/pkg/logger"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

// Loaded is the outcome of LoadRegistry.
type Loaded struct {
	// Registry holds one status client per provisioned chain.
	Registry *chain.Registry[txstatus.ChainStatusClient]
	// Depths holds the not-found depths overridden by the networks manifest.
	Depths map[chain.ID]uint64
	// Chains holds the provisioned chain clients, in chain order.
	Chains []chain.BlockChain
}

// LoadRegistry concurrently initializes a chain client for every active network of cfg and
// registers it as the status client of its chain. Networks with a rate limit get a client that
// waits on a limiter before every call.
//
// If any chain fails to load, the errors of all failed chains are joined and returned.
func LoadRegistry(ctx context.Context, lggr logger.Logger, cfg *config.Config) (*Loaded, error) {
	networks, err := cfg.ActiveNetworks()
	if err != nil {
		return nil, err
	}

	loaders := newChainLoaders(lggr, cfg.Env.Onchain)

	type chainResult struct {
		network cfgnet.Network
		chain   chain.BlockChain
		err     error
	}

	toLoad := make([]cfgnet.Network, 0)
	for _, network := range networks.Networks() {
		if _, ok := loaders[network.Chain]; !ok {
			lggr.Warnw("No chain loader available for chain, skipping", "chain", network.Chain)

			continue
		}
		toLoad = append(toLoad, network)
	}

	// Use indexed assignment to collect results (no mutex needed)
	results := make([]chainResult, len(toLoad))

	var wg sync.WaitGroup
	for i, network := range toLoad {
		wg.Add(1)

		go func(index int, network cfgnet.Network, loader ChainLoader) {
			defer wg.Done()

			lggr.Infow("Loading chain", "chain", network.Chain, "family", network.ChainFamily())

			result := chainResult{network: network}
			select {
			case <-ctx.Done():
				result.err = ctx.Err()
			default:
				if len(network.RPCs) == 0 {
					result.err = fmt.Errorf("no RPCs found for chain %s", network.Chain)
					break
				}
				result.chain, result.err = loader.Load(ctx, network)
			}

			results[index] = result
		}(i, network, loaders[network.Chain])
	}

	wg.Wait()

	loaded := &Loaded{
		Registry: chain.NewRegistry[txstatus.ChainStatusClient](),
		Depths:   make(map[chain.ID]uint64),
		Chains:   make([]chain.BlockChain, 0, len(results)),
	}

	var errs []error
	for _, result := range results {
		id := result.network.Chain
		if result.err != nil {
			lggr.Errorw("Failed to load chain", "chain", id, "error", result.err)
			errs = append(errs, fmt.Errorf("chain %s: %w", id, result.err))

			continue
		}

		client, ok := result.chain.(txstatus.ChainStatusClient)
		if !ok {
			errs = append(errs, fmt.Errorf("chain %s: %T does not support status lookups", id, result.chain))

			continue
		}

		loaded.Registry.Register(id, txstatus.RateLimited(client, limiter(result.network.RateLimit)))
		loaded.Chains = append(loaded.Chains, result.chain)
		if result.network.NotFoundDepth > 0 {
			loaded.Depths[id] = result.network.NotFoundDepth
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load %d out of %d chains: %w", len(errs), len(results), errors.Join(errs...))
	}

	lggr.Infow("Successfully loaded all chains",
		"active", len(networks.Chains()),
		"loaded", len(loaded.Chains),
	)

	return loaded, nil
}

func limiter(rl *cfgnet.RateLimit) *rate.Limiter {
	if rl == nil {
		return nil
	}

	return rate.NewLimiter(rate.Limit(rl.RPS), rl.Burst)
}

// ChainLoader builds the client of one chain from its network configuration.
type ChainLoader interface {
	Load(ctx context.Context, network cfgnet.Network) (chain.BlockChain, error)
}

// chainLoaderFunc adapts a function to the ChainLoader interface.
type chainLoaderFunc func(ctx context.Context, network cfgnet.Network) (chain.BlockChain, error)

func (f chainLoaderFunc) Load(ctx context.Context, network cfgnet.Network) (chain.BlockChain, error) {
	return f(ctx, network)
}

// secretLoaders builds the clients of chains that need credentials from the env config.
type secretLoaders struct {
	lggr    logger.Logger
	secrets cfgenv.OnchainConfig
}

// newChainLoaders returns a chain loader for each supported chain. Loaders of chains whose API
// requires a credential are omitted, with an informational log, when the credential is missing.
func newChainLoaders(lggr logger.Logger, secrets cfgenv.OnchainConfig) map[chain.ID]ChainLoader {
	l := &secretLoaders{lggr: lggr, secrets: secrets}

	loaders := map[chain.ID]ChainLoader{
		chain.Solana:   chainLoaderFunc(loadSolana),
		chain.Aptos:    chainLoaderFunc(loadAptos),
		chain.Stellar:  chainLoaderFunc(loadStellar),
		chain.Sui:      chainLoaderFunc(loadSui),
		chain.Tron:     chainLoaderFunc(l.loadTron),
		chain.Cosmos:   chainLoaderFunc(loadCosmos),
		chain.Near:     chainLoaderFunc(l.loadNear),
		chain.Ton:      chainLoaderFunc(loadTon),
		chain.Algorand: chainLoaderFunc(l.loadAlgorand),
		chain.BNBChain: chainLoaderFunc(l.loadEVM),
		chain.Ethereum: chainLoaderFunc(l.loadEVM),
	}

	if secrets.Cardano.ProjectID != "" {
		loaders[chain.Cardano] = chainLoaderFunc(l.loadCardano)
	} else {
		lggr.Info("Skipping Cardano chain, no Blockfrost project id found in secrets")
	}

	return loaders
}

func loadSolana(ctx context.Context, network cfgnet.Network) (chain.BlockChain, error) {
	md, err := cfgnet.DecodeMetadataOrZero[cfgnet.SolanaMetadata](network.Metadata)
	if err != nil {
		return nil, err
	}

	c, err := solanaprov.NewRPCChainProvider(network.Chain, solanaprov.RPCChainProviderConfig{
		HTTPURL:    network.RPCs[0].HTTPURL,
		Commitment: solrpc.CommitmentType(md.Commitment),
	}).Initialize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Solana chain: %w", err)
	}

	return c, nil
}

func loadAptos(ctx context.Context, network cfgnet.Network) (chain.BlockChain, error) {
	c, err := aptosprov.NewRPCChainProvider(network.Chain, aptosprov.RPCChainProviderConfig{
		RPCURL: network.RPCs[0].HTTPURL,
	}).Initialize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Aptos chain: %w", err)
	}

	return c, nil
}

func loadStellar(ctx context.Context, network cfgnet.Network) (chain.BlockChain, error) {
	c, err := stellarprov.NewRPCChainProvider(network.Chain, stellarprov.RPCChainProviderConfig{
		SorobanRPCURL: network.RPCs[0].HTTPURL,
	}).Initialize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Stellar chain: %w", err)
	}

	return c, nil
}

func loadSui(ctx context.Context, network cfgnet.Network) (chain.BlockChain, error) {
	c, err := suiprov.NewRPCChainProvider(network.Chain, suiprov.RPCChainProviderConfig{
		RPCURL: network.RPCs[0].HTTPURL,
	}).Initialize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Sui chain: %w", err)
	}

	return c, nil
}

func (l *secretLoaders) loadTron(ctx context.Context, network cfgnet.Network) (chain.BlockChain, error) {
	md, err := cfgnet.DecodeMetadataOrZero[cfgnet.TronMetadata](network.Metadata)
	if err != nil {
		return nil, err
	}

	c, err := tronprov.NewRPCChainProvider(network.Chain, tronprov.RPCChainProviderConfig{
		FullNodeURL: network.RPCs[0].PreferredEndpoint(),
		APIKey:      l.secrets.Tron.APIKey,
		Insecure:    md.Insecure,
		Timeout:     time.Duration(md.TimeoutSeconds) * time.Second,
	}).Initialize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Tron chain: %w", err)
	}

	return c, nil
}

func loadCosmos(ctx context.Context, network cfgnet.Network) (chain.BlockChain, error) {
	md, err := cfgnet.DecodeMetadataOrZero[cfgnet.CosmosMetadata](network.Metadata)
	if err != nil {
		return nil, err
	}

	c, err := cosmosprov.NewRPCChainProvider(network.Chain, cosmosprov.RPCChainProviderConfig{
		GRPCURL:     network.RPCs[0].PreferredEndpoint(),
		Insecure:    md.Insecure,
		FeeDenom:    md.FeeDenom,
		FeeDecimals: md.FeeDecimals,
	}).Initialize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cosmos chain: %w", err)
	}

	return c, nil
}

func (l *secretLoaders) loadNear(ctx context.Context, network cfgnet.Network) (chain.BlockChain, error) {
	var headers map[string]string
	if key := l.secrets.Near.APIKey; key != "" {
		headers = map[string]string{"Authorization": "Bearer " + key}
	}

	c, err := nearprov.NewRPCChainProvider(network.Chain, nearprov.RPCChainProviderConfig{
		RPCURL:  network.RPCs[0].HTTPURL,
		Headers: headers,
	}).Initialize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize NEAR chain: %w", err)
	}

	return c, nil
}

func loadTon(ctx context.Context, network cfgnet.Network) (chain.BlockChain, error) {
	md, err := cfgnet.DecodeMetadataOrZero[cfgnet.TonMetadata](network.Metadata)
	if err != nil {
		return nil, err
	}

	c, err := tonprov.NewRPCChainProvider(network.Chain, tonprov.RPCChainProviderConfig{
		HTTPURL:          network.RPCs[0].HTTPURL,
		ProofCheckPolicy: tonprov.ProofCheckPolicy(md.ProofCheckPolicy),
		ScanDepth:        md.ScanDepth,
	}).Initialize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize TON chain: %w", err)
	}

	return c, nil
}

func (l *secretLoaders) loadCardano(ctx context.Context, network cfgnet.Network) (chain.BlockChain, error) {
	c, err := cardanoprov.NewRPCChainProvider(network.Chain, cardanoprov.RPCChainProviderConfig{
		BlockfrostURL: network.RPCs[0].HTTPURL,
		ProjectID:     l.secrets.Cardano.ProjectID,
	}).Initialize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cardano chain: %w", err)
	}

	return c, nil
}

func (l *secretLoaders) loadAlgorand(ctx context.Context, network cfgnet.Network) (chain.BlockChain, error) {
	c, err := algorandprov.NewRPCChainProvider(network.Chain, algorandprov.RPCChainProviderConfig{
		AlgodURL: network.RPCs[0].HTTPURL,
		APIToken: l.secrets.Algorand.APIToken,
	}).Initialize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Algorand chain: %w", err)
	}

	return c, nil
}

// loadEVM builds a multi-client over every RPC of the network, in manifest order.
func (l *secretLoaders) loadEVM(ctx context.Context, network cfgnet.Network) (chain.BlockChain, error) {
	rpcs := make([]evm.RPC, 0, len(network.RPCs))
	for _, rpc := range network.RPCs {
		rpcs = append(rpcs, evm.RPC{Name: rpc.RPCName, HTTPURL: rpc.HTTPURL})
	}

	c, err := evmprov.NewRPCChainProvider(network.Chain, evmprov.RPCChainProviderConfig{
		RPCs:   rpcs,
		Logger: l.lggr,
	}).Initialize(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize EVM chain: %w", err)
	}

	return c, nil
}
