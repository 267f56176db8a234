// Package chains provides the CLI command listing the configured chains.
package chains

import (
	"github.com/smartcontractkit/chainlink-wallet-core/config"
)

// ConfigLoaderFunc loads the networks manifests and the env config.
type ConfigLoaderFunc func(networkPaths []string, envPath string) (*config.Config, error)

// Deps holds the injectable dependencies of the chains command.
// All fields are optional; nil values will use production defaults.
type Deps struct {
	// ConfigLoader loads the configuration.
	// Default: config.Load
	ConfigLoader ConfigLoaderFunc
}

// applyDefaults fills in nil dependencies with production defaults.
func (d *Deps) applyDefaults() {
	if d.ConfigLoader == nil {
		d.ConfigLoader = config.Load
	}
}
