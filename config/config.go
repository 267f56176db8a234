package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	config_env "github.com/smartcontractkit/chainlink-wallet-core/config/env"
	config_network "github.com/smartcontractkit/chainlink-wallet-core/config/network"
)

// Config aggregates all configuration required to provision the chain clients of the resolver.
type Config struct {
	// Networks contains the network configurations loaded from YAML manifest files: the RPC
	// endpoints, rate limits and not-found depths of every chain.
	Networks *config_network.Config

	// Env contains process settings and the API credentials of the chain providers. It contains
	// sensitive data.
	Env *config_env.Config
}

// Load loads the networks manifests, expanding ${VAR} references in their RPC URLs from the
// environment, and the env config at envPath. A missing env file falls back to environment
// variables.
func Load(networkPaths []string, envPath string) (*Config, error) {
	if len(networkPaths) == 0 {
		return nil, errors.New("failed to load networks: no networks files given")
	}

	networks, err := config_network.Load(networkPaths, config_network.WithURLTransformer(os.ExpandEnv))
	if err != nil {
		return nil, fmt.Errorf("failed to load networks: %w", err)
	}

	var envCfg *config_env.Config
	if envPath == "" {
		envCfg, err = config_env.LoadEnv()
	} else {
		envCfg, err = config_env.Load(envPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load env config: %w", err)
	}

	return &Config{
		Networks: networks,
		Env:      envCfg,
	}, nil
}

// DisabledChains parses the chains disabled by the env config.
func (c *Config) DisabledChains() ([]chain.ID, error) {
	ids := make([]chain.ID, 0, len(c.Env.Chains.Disabled))
	for _, name := range c.Env.Chains.Disabled {
		id, err := chain.ParseID(name)
		if err != nil {
			return nil, fmt.Errorf("disabled chains: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// ActiveNetworks returns the networks to provision: enabled in the manifest and not disabled by
// the env config.
func (c *Config) ActiveNetworks() (*config_network.Config, error) {
	disabled, err := c.DisabledChains()
	if err != nil {
		return nil, err
	}

	return c.Networks.FilterWith(config_network.EnabledFilter(disabled...)), nil
}
