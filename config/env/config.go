package config

import (
	"errors"
	"io/fs"
	"os"
	"slices"

	"github.com/spf13/viper"
)

// LogConfig is the configuration of the process logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"` // debug, info, warn or error
}

// MetricsConfig is the configuration of the Prometheus endpoint.
type MetricsConfig struct {
	ListenAddress string `mapstructure:"listen_address" yaml:"listen_address"` // e.g. :9090
}

// ChainsConfig narrows the compiled chain set at runtime.
type ChainsConfig struct {
	// Disabled lists chains, by short name, that are not provisioned even when the networks
	// manifest enables them.
	Disabled []string `mapstructure:"disabled" yaml:"disabled"`
}

// CardanoConfig is the configuration for the Cardano Blockfrost API.
//
// WARNING: This data type contains sensitive fields and should not be logged or set in file
// configuration.
type CardanoConfig struct {
	ProjectID string `mapstructure:"project_id" yaml:"project_id"` // Secret: Blockfrost project id
}

// AlgorandConfig is the configuration for the Algorand algod API.
//
// WARNING: This data type contains sensitive fields and should not be logged or set in file
// configuration.
type AlgorandConfig struct {
	APIToken string `mapstructure:"api_token" yaml:"api_token"` // Secret: algod API token
}

// TronConfig is the configuration for the Tron full node.
//
// WARNING: This data type contains sensitive fields and should not be logged or set in file
// configuration.
type TronConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"` // Secret: TronGrid API key
}

// NearConfig is the configuration for the NEAR RPC.
//
// WARNING: This data type contains sensitive fields and should not be logged or set in file
// configuration.
type NearConfig struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"` // Secret: Bearer token of a paid RPC provider
}

// OnchainConfig wraps the credentials of the chain APIs.
type OnchainConfig struct {
	Cardano  CardanoConfig  `mapstructure:"cardano" yaml:"cardano"`
	Algorand AlgorandConfig `mapstructure:"algorand" yaml:"algorand"`
	Tron     TronConfig     `mapstructure:"tron" yaml:"tron"`
	Near     NearConfig     `mapstructure:"near" yaml:"near"`
}

// Config wraps the process settings and chain API secrets.
type Config struct {
	Log     LogConfig      `mapstructure:"log" yaml:"log"`
	Metrics *MetricsConfig `mapstructure:"metrics" yaml:"metrics,omitempty"`
	Chains  ChainsConfig   `mapstructure:"chains" yaml:"chains"`
	Onchain OnchainConfig  `mapstructure:"onchain" yaml:"onchain"`
}

// Load loads the config from the file path, falling back to env vars if the file does not exist.
// If the file exists, any env vars that are set will override the values loaded from the file.
func Load(filePath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(filePath)

	// Bind environment variables
	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	// If the config file exists, we continue to read it, otherwise we fallback to using
	// environment variables
	if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}

// LoadEnv loads the config from the environment variables.
func LoadEnv() (*Config, error) {
	v := newViper()

	// Bind environment variables
	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}

// LoadFile loads the config from a file.
func LoadFile(filePath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(filePath)

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}

// newViper returns a viper instance with the defaults applied.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("log.level", "info")

	return v
}

var (
	// envBindings defines how environment variables map to configuration keys used by Viper.
	// Each entry maps a config key (as used in the struct, e.g. "onchain.cardano.project_id") to a
	// list of environment variable names that can provide its value.
	//
	// The first element in the list is the preferred environment variable name, the others are the
	// names the chain providers document for their own tooling.
	envBindings = map[string][]string{
		"log.level":                  {"LOG_LEVEL"},
		"metrics.listen_address":     {"METRICS_LISTEN_ADDRESS"},
		"chains.disabled":            {"CHAINS_DISABLED", "DISABLED_CHAINS"},
		"onchain.cardano.project_id": {"ONCHAIN_CARDANO_PROJECT_ID", "BLOCKFROST_PROJECT_ID"},
		"onchain.algorand.api_token": {"ONCHAIN_ALGORAND_API_TOKEN", "ALGOD_TOKEN"},
		"onchain.tron.api_key":       {"ONCHAIN_TRON_API_KEY", "TRON_PRO_API_KEY"},
		"onchain.near.api_key":       {"ONCHAIN_NEAR_API_KEY"},
	}
)

// bindEnvs binds the environment variables to the viper instance.
func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		// Prepend the env key to the start of the arguments
		inputs := slices.Insert(slices.Clone(envs), 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}

	return nil
}
