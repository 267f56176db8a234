// Package commands provides the CLI command packages of the transaction status tool.
//
// There are two ways to use commands from this package:
//
// 1. Via the Commands factory (recommended for most use cases):
//
//	cmds := commands.New(lggr)
//	resolveCmd, err := cmds.Resolve()
//	chainsCmd, err := cmds.Chains()
//	app.AddCommand(resolveCmd, chainsCmd)
//
// 2. Via direct package imports (for advanced DI/testing):
//
//	import "github.com/smartcontractkit/chainlink-wallet-core/pkg/commands/resolve"
//
//	cmd, err := resolve.NewCommand(resolve.Config{
//	    Logger: lggr,
//	    Deps:   resolve.Deps{...}, // inject fakes for testing
//	})
package commands

import (
	"github.com/spf13/cobra"

	"github.com/smartcontractkit/chainlink-wallet-core/pkg/commands/chains"
	"github.com/smartcontractkit/chainlink-wallet-core/pkg/commands/resolve"
	"github.com/smartcontractkit/chainlink-wallet-core/pkg/logger"
)

// Commands provides a factory for creating CLI commands with shared configuration.
// This allows setting the logger once and reusing it across all commands.
type Commands struct {
	lggr logger.Logger
}

// New creates a new Commands factory with the given logger.
// The logger will be shared across all commands created by this factory.
func New(lggr logger.Logger) *Commands {
	return &Commands{lggr: lggr}
}

// Resolve creates the resolve command which reports the status of a single transaction.
func (c *Commands) Resolve() (*cobra.Command, error) {
	return resolve.NewCommand(resolve.Config{Logger: c.lggr})
}

// Chains creates the chains command which lists the configured chains.
func (c *Commands) Chains() (*cobra.Command, error) {
	return chains.NewCommand(chains.Config{Logger: c.lggr})
}
