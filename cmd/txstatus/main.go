// Command txstatus resolves the inclusion status of transactions on the supported chains.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/smartcontractkit/chainlink-wallet-core/pkg/commands"
	"github.com/smartcontractkit/chainlink-wallet-core/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	lggr := &lazyLogger{Logger: logger.Nop()}

	root := &cobra.Command{
		Use:           "txstatus",
		Short:         "Resolve transaction statuses across chains",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := cmd.Flags().GetString("log-level")
			if err != nil {
				return err
			}

			l, err := logger.NewWithLevel(level)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			lggr.set(l)

			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = lggr.Sync()
		},
	}
	root.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	cmds := commands.New(lggr)

	for _, build := range []func() (*cobra.Command, error){cmds.Resolve, cmds.Chains} {
		cmd, err := build()
		if err != nil {
			panic(err)
		}
		root.AddCommand(cmd)
	}

	return root
}

// lazyLogger lets the commands be built before the log level flag is parsed.
type lazyLogger struct {
	logger.Logger
}

func (l *lazyLogger) set(inner logger.Logger) {
	l.Logger = inner
}
