package resolve

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/config/network"
	"github.com/smartcontractkit/chainlink-wallet-core/pkg/commands/flags"
	"github.com/smartcontractkit/chainlink-wallet-core/pkg/commands/text"
	"github.com/smartcontractkit/chainlink-wallet-core/pkg/logger"
	"github.com/smartcontractkit/chainlink-wallet-core/pkg/metrics"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus/poll"
)

var (
	resolveShort = "Resolve the status of a submitted transaction"

	resolveLong = text.LongDesc(`
		Looks the transaction up on its chain and prints its status: pending, confirmed,
		reverted, not_found or failed.

		A transaction the chain does not know yet is reported as pending until the chain has
		advanced past the reference block by the chain's not-found depth.

		With --wait the transaction is resolved repeatedly until it is no longer pending.
	`)

	resolveExample = text.Examples(`
		# Resolve a Solana transaction once
		txstatus resolve solana 5VERv8NMvzbJMEkV8xnrLkEaWRtSz9CosKDYjCJjBRnbJLgp8uirBgmQpjKhoR4tjF3ZpRzrFmBV6UjKdiSZkQUW -n networks.yaml -r 312000000

		# Wait for a NEAR transaction, which needs its sender
		txstatus resolve near 6zgh2u9DqHHiXzdy9ouTP7oGky2T4nugqzqt9wJZwNFm -n networks.yaml -r 130000000 --sender alice.near --wait
	`)
)

// Config holds the configuration of the resolve command.
type Config struct {
	// Logger is the logger to use for command output. Required.
	Logger logger.Logger

	// Deps holds optional dependencies that can be overridden.
	// If fields are nil, production defaults are used.
	Deps Deps
}

// Validate checks that all required configuration fields are set.
func (c Config) Validate() error {
	if c.Logger == nil {
		return errors.New("resolve.Config: missing required fields: Logger")
	}

	return nil
}

// deps returns the Deps with defaults applied.
func (c *Config) deps() *Deps {
	c.Deps.applyDefaults()

	return &c.Deps
}

type resolveFlags struct {
	networks       []string
	envFile        string
	format         string
	referenceBlock string
	sender         string
	wait           bool
	interval       time.Duration
	attempts       uint
}

// NewCommand creates the "resolve" command.
func NewCommand(cfg Config) (*cobra.Command, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.deps()

	cmd := &cobra.Command{
		Use:     "resolve <chain> <hash>",
		Short:   resolveShort,
		Long:    resolveLong,
		Example: resolveExample,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			interval, _ := cmd.Flags().GetDuration("interval")
			attempts, _ := cmd.Flags().GetUint("attempts")

			f := resolveFlags{
				networks:       flags.MustStringSlice(cmd.Flags().GetStringSlice("networks")),
				envFile:        flags.MustString(cmd.Flags().GetString("env-file")),
				format:         flags.MustString(cmd.Flags().GetString("format")),
				referenceBlock: flags.MustString(cmd.Flags().GetString("reference-block")),
				sender:         flags.MustString(cmd.Flags().GetString("sender")),
				wait:           flags.MustBool(cmd.Flags().GetBool("wait")),
				interval:       interval,
				attempts:       attempts,
			}

			return runResolve(cmd, cfg, args[0], args[1], f)
		},
	}

	// Shared flags
	flags.Config(cmd)
	flags.Format(cmd)

	cmd.Flags().StringP("reference-block", "r", "", "Chain height observed when the transaction was submitted (required)")
	cmd.Flags().String("sender", "", "Submitting account, required by NEAR and TON")
	cmd.Flags().BoolP("wait", "w", false, "Resolve until the transaction is no longer pending")
	cmd.Flags().Duration("interval", 2*time.Second, "Delay between resolutions with --wait")
	cmd.Flags().Uint("attempts", 30, "Maximum resolutions with --wait, 0 for no limit")
	_ = cmd.MarkFlagRequired("reference-block")

	return cmd, nil
}

// runResolve executes the resolve command logic.
func runResolve(cmd *cobra.Command, cfg Config, chainName, hash string, f resolveFlags) error {
	ctx := cmd.Context()
	deps := cfg.deps()

	if err := flags.ValidateFormat(f.format); err != nil {
		return err
	}

	id, err := chain.ParseID(chainName)
	if err != nil {
		return err
	}

	// --- Load

	appCfg, err := deps.ConfigLoader(f.networks, f.envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Only the requested chain is provisioned.
	appCfg.Networks = appCfg.Networks.FilterWith(network.ChainFilter(id))

	loaded, err := deps.RegistryLoader(ctx, cfg.Logger, appCfg)
	if err != nil {
		return fmt.Errorf("failed to load chains: %w", err)
	}
	if !loaded.Registry.Exists(id) {
		return fmt.Errorf("chain %s is not configured or not enabled", id)
	}

	opts := []txstatus.Option{
		txstatus.WithNotFoundDepths(loaded.Depths),
		txstatus.WithLogger(cfg.Logger.Named("resolver")),
	}

	if m := appCfg.Env.Metrics; m != nil && m.ListenAddress != "" {
		reg := prometheus.NewRegistry()
		recorder, recErr := metrics.NewPrometheusRecorder(reg)
		if recErr != nil {
			return fmt.Errorf("failed to register metrics: %w", recErr)
		}
		opts = append(opts, txstatus.WithMetrics(recorder))

		go func() {
			if serveErr := metrics.Serve(ctx, m.ListenAddress, reg, cfg.Logger); serveErr != nil {
				cfg.Logger.Errorw("Metrics server failed", "error", serveErr)
			}
		}()
	}

	resolver := txstatus.NewResolver(loaded.Registry, opts...)

	// --- Execute

	req := txstatus.Request{
		Chain:          id,
		Hash:           hash,
		ReferenceBlock: f.referenceBlock,
		Sender:         f.sender,
	}

	var res txstatus.Result
	if f.wait {
		res, err = poll.UntilTerminal(ctx, resolver, req,
			poll.WithInterval(f.interval),
			poll.WithAttempts(f.attempts),
			poll.WithLogger(cfg.Logger),
		)
	} else {
		res, err = resolver.Resolve(ctx, req)
	}

	if res != nil {
		if printErr := printResult(cmd, f.format, req, res); printErr != nil {
			return printErr
		}
	}

	return err
}

// resultView is the JSON output of a resolution.
type resultView struct {
	Chain       string `json:"chain"`
	Hash        string `json:"hash"`
	Status      string `json:"status"`
	Terminal    bool   `json:"terminal"`
	BlockHeight uint64 `json:"block_height,omitempty"`
	Fee         string `json:"fee,omitempty"`
	Reason      string `json:"reason,omitempty"`
	ErrorKind   string `json:"error_kind,omitempty"`
	ErrorCode   string `json:"error_code,omitempty"`
}

func newResultView(req txstatus.Request, res txstatus.Result) resultView {
	v := resultView{
		Chain:    req.Chain.String(),
		Hash:     req.Hash,
		Status:   res.Status().String(),
		Terminal: res.Terminal(),
	}

	switch r := res.(type) {
	case txstatus.Confirmed:
		v.BlockHeight = r.BlockHeight
		v.Fee = r.Fee
	case txstatus.Reverted:
		v.Reason = r.Reason
	case txstatus.Failed:
		v.ErrorKind = r.Err.Kind.String()
		v.ErrorCode = r.Err.Code
	}

	return v
}

func printResult(cmd *cobra.Command, format string, req txstatus.Request, res txstatus.Result) error {
	if format == flags.FormatJSON {
		b, err := json.MarshalIndent(newResultView(req, res), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(b))

		return nil
	}

	cmd.Printf("%s %s\n", req, strings.TrimSpace(fmt.Sprint(res)))

	return nil
}
