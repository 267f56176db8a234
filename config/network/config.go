package network

import (
	"cmp"
	"fmt"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
)

// Manifest is the YAML representation of network configuration.
type Manifest struct {
	// A YAML array of networks.
	Networks []Network `yaml:"networks"`
}

// Config represents the configuration of a collection of networks. This is loaded from the YAML
// manifest file/s.
type Config struct {
	// networks is keyed by chain so that each chain is configured at most once.
	networks map[chain.ID]Network
}

// NewConfig creates a new config from a slice of networks. A later network replaces an earlier
// one for the same chain.
func NewConfig(networks []Network) *Config {
	nmap := make(map[chain.ID]Network)

	for _, network := range networks {
		nmap[network.Chain] = network
	}

	return &Config{
		networks: nmap,
	}
}

// Validate ensures that all networks are valid.
func (c *Config) Validate() error {
	for _, network := range c.Networks() {
		if err := network.Validate(); err != nil {
			return fmt.Errorf("network %s: %w", network.Chain, err)
		}
	}

	return nil
}

// Networks returns all networks in the config ordered by chain.
func (c *Config) Networks() []Network {
	return slices.SortedFunc(maps.Values(c.networks), func(a, b Network) int {
		return cmp.Compare(a.Chain, b.Chain)
	})
}

// NetworkByChain retrieves the network of a chain. If the network is not found, an error is
// returned.
func (c *Config) NetworkByChain(id chain.ID) (Network, error) {
	network, ok := c.networks[id]
	if !ok {
		return Network{}, fmt.Errorf("network for chain %s not found in configuration", id)
	}

	return network, nil
}

// Chains returns the configured chains in order.
func (c *Config) Chains() []chain.ID {
	return slices.Sorted(maps.Keys(c.networks))
}

// Merge merges another config into the current config.
// It overwrites any networks of the same chain.
func (c *Config) Merge(other *Config) {
	maps.Copy(c.networks, other.networks)
}

// MarshalYAML implements the yaml.Marshaler interface for the Config struct.
// It converts the internal map structure to a YAML format with a top-level "networks" key.
func (c *Config) MarshalYAML() (any, error) {
	node := Manifest{
		Networks: c.Networks(),
	}

	return node, nil
}

// UnmarshalYAML implements the yaml.Unmarshaler interface for the Config struct.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	node := Manifest{}

	if err := value.Decode(&node); err != nil {
		return err
	}

	*c = *NewConfig(node.Networks)

	return nil
}

// NetworkFilter defines a function type that filters networks based on certain criteria.
type NetworkFilter func(Network) bool

// FilterWith returns a new Config containing only Networks that pass all provided filter functions.
// Filters are applied in sequence (AND logic) - a network must pass all filters to be included.
func (c *Config) FilterWith(filters ...NetworkFilter) *Config {
	networks := c.Networks()

	for _, filter := range filters {
		networks = slices.DeleteFunc(networks, func(network Network) bool {
			return !filter(network)
		})
	}

	return NewConfig(networks)
}

// TypesFilter returns a filter function that matches chains with the specified network types.
func TypesFilter(networkTypes ...NetworkType) NetworkFilter {
	return func(network Network) bool {
		return slices.Contains(networkTypes, network.Type)
	}
}

// ChainFilter returns a filter function that matches the given chains.
func ChainFilter(ids ...chain.ID) NetworkFilter {
	return func(network Network) bool {
		return slices.Contains(ids, network.Chain)
	}
}

// ChainFamilyFilter returns a filter function that matches chains with the specified chain family.
func ChainFamilyFilter(chainFamily string) NetworkFilter {
	return func(network Network) bool {
		return network.ChainFamily() == chainFamily
	}
}

// EnabledFilter matches networks that are enabled and not listed in disabled.
func EnabledFilter(disabled ...chain.ID) NetworkFilter {
	active := chain.Active(disabled...)

	return func(network Network) bool {
		return network.IsEnabled() && slices.Contains(active, network.Chain)
	}
}

// transformURLs rewrites every RPC URL of every network.
func (c *Config) transformURLs(transform URLTransformer) {
	for k, n := range c.networks {
		rpcs := make([]RPC, len(n.RPCs))
		for i, rpc := range n.RPCs {
			rpc.HTTPURL = transform(rpc.HTTPURL)
			rpc.WSURL = transform(rpc.WSURL)
			rpc.GRPCURL = transform(rpc.GRPCURL)
			rpcs[i] = rpc
		}
		n.RPCs = rpcs

		// Network is a value type, so the map entry is replaced.
		c.networks[k] = n
	}
}

// Load loads configuration from the specified file paths, and merges them into a single Config.
// Later files override networks of the same chain in earlier ones.
//
// It accepts load options to customize the loading behavior.
func Load(filePaths []string, opts ...LoadOption) (*Config, error) {
	cfg := NewConfig([]Network{})

	loadCfg := &loadConfig{}
	for _, opt := range opts {
		opt(loadCfg)
	}

	for _, fp := range filePaths {
		data, err := os.ReadFile(fp)
		if err != nil {
			return nil, fmt.Errorf("failed to read networks file: %w", err)
		}

		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal networks YAML %s: %w", fp, err)
		}

		// An empty document leaves fileCfg without a map.
		if fileCfg.networks != nil {
			cfg.Merge(&fileCfg)
		}
	}

	if loadCfg.URLTransformer != nil {
		cfg.transformURLs(loadCfg.URLTransformer)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate networks configuration: %w", err)
	}

	return cfg, nil
}

// LoadOption defines a function which modifies the load configuration.
type LoadOption func(*loadConfig)

// loadConfig holds the configuration for loading the config.
type loadConfig struct {
	URLTransformer URLTransformer
}

// URLTransformer is a function that transforms a URL.
type URLTransformer func(string) string

// WithURLTransformer transforms the RPC URLs of the networks after loading, e.g. os.ExpandEnv to
// inject API keys kept out of the manifest.
func WithURLTransformer(t URLTransformer) LoadOption {
	return func(opts *loadConfig) {
		opts.URLTransformer = t
	}
}
