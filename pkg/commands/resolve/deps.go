// Package resolve provides the CLI command resolving the status of a submitted transaction.
package resolve

import (
	"context"

	"github.com/smartcontractkit/chainlink-wallet-core/config"
	"github.com/smartcontractkit/chainlink-wallet-core/engine/chains"
	"github.com/smartcontractkit/chainlink-wallet-core/pkg/logger"
)

// ConfigLoaderFunc loads the networks manifests and the env config.
type ConfigLoaderFunc func(networkPaths []string, envPath string) (*config.Config, error)

// RegistryLoaderFunc provisions the chain clients of the configured networks.
type RegistryLoaderFunc func(ctx context.Context, lggr logger.Logger, cfg *config.Config) (*chains.Loaded, error)

// Deps holds the injectable dependencies of the resolve command.
// All fields are optional; nil values will use production defaults.
type Deps struct {
	// ConfigLoader loads the configuration.
	// Default: config.Load
	ConfigLoader ConfigLoaderFunc

	// RegistryLoader provisions the chain clients.
	// Default: chains.LoadRegistry
	RegistryLoader RegistryLoaderFunc
}

// applyDefaults fills in nil dependencies with production defaults.
func (d *Deps) applyDefaults() {
	if d.ConfigLoader == nil {
		d.ConfigLoader = config.Load
	}
	if d.RegistryLoader == nil {
		d.RegistryLoader = chains.LoadRegistry
	}
}
