package chains

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/pkg/commands/flags"
	"github.com/smartcontractkit/chainlink-wallet-core/pkg/commands/text"
	"github.com/smartcontractkit/chainlink-wallet-core/pkg/logger"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

var (
	chainsShort = "List the configured chains"

	chainsLong = text.LongDesc(`
		Lists the chains of the networks manifests with their family, network type, RPC
		endpoints and the not-found depth used when resolving their transactions.

		A chain is active when the manifest enables it and the env config does not disable it.
	`)

	chainsExample = text.Examples(`
		# List the chains of a manifest
		txstatus chains -n networks.yaml

		# Only the active chains, as JSON
		txstatus chains -n networks.yaml --active -f json
	`)
)

// Config holds the configuration of the chains command.
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
		return errors.New("chains.Config: missing required fields: Logger")
	}

	return nil
}

// deps returns the Deps with defaults applied.
func (c *Config) deps() *Deps {
	c.Deps.applyDefaults()

	return &c.Deps
}

type chainsFlags struct {
	networks []string
	envFile  string
	format   string
	active   bool
}

// NewCommand creates the "chains" command.
func NewCommand(cfg Config) (*cobra.Command, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.deps()

	cmd := &cobra.Command{
		Use:     "chains",
		Short:   chainsShort,
		Long:    chainsLong,
		Example: chainsExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := chainsFlags{
				networks: flags.MustStringSlice(cmd.Flags().GetStringSlice("networks")),
				envFile:  flags.MustString(cmd.Flags().GetString("env-file")),
				format:   flags.MustString(cmd.Flags().GetString("format")),
				active:   flags.MustBool(cmd.Flags().GetBool("active")),
			}

			return runChains(cmd, cfg, f)
		},
	}

	// Shared flags
	flags.Config(cmd)
	flags.Format(cmd)

	cmd.Flags().Bool("active", false, "Only list active chains")

	return cmd, nil
}

// chainView is one listed chain.
type chainView struct {
	Chain         string   `json:"chain"`
	Name          string   `json:"name"`
	Family        string   `json:"family"`
	Type          string   `json:"type"`
	Selector      string   `json:"selector,omitempty"`
	Active        bool     `json:"active"`
	NotFoundDepth uint64   `json:"not_found_depth"`
	RPCs          []string `json:"rpcs"`
}

// runChains executes the chains command logic.
func runChains(cmd *cobra.Command, cfg Config, f chainsFlags) error {
	deps := cfg.deps()

	if err := flags.ValidateFormat(f.format); err != nil {
		return err
	}

	appCfg, err := deps.ConfigLoader(f.networks, f.envFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	active, err := appCfg.ActiveNetworks()
	if err != nil {
		return err
	}
	activeIDs := active.Chains()

	views := make([]chainView, 0)
	for _, n := range appCfg.Networks.Networks() {
		isActive := slices.Contains(activeIDs, n.Chain)
		if f.active && !isActive {
			continue
		}

		rpcs := make([]string, 0, len(n.RPCs))
		for _, rpc := range n.RPCs {
			rpcs = append(rpcs, rpc.RPCName)
		}

		views = append(views, chainView{
			Chain:         n.Chain.String(),
			Name:          n.Chain.DisplayName(),
			Family:        n.ChainFamily(),
			Type:          string(n.Type),
			Selector:      n.Chain.SelectorName(),
			Active:        isActive,
			NotFoundDepth: txstatus.DepthFor(map[chain.ID]uint64{n.Chain: n.NotFoundDepth}, n.Chain),
			RPCs:          rpcs,
		})
	}

	if f.format == flags.FormatJSON {
		b, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal chains: %w", err)
		}
		cmd.Println(string(b))

		return nil
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Chain", "Name", "Family", "Type", "Selector", "Active", "Not found depth", "RPCs"})
	for _, v := range views {
		table.Append([]string{
			v.Chain,
			v.Name,
			v.Family,
			v.Type,
			v.Selector,
			strconv.FormatBool(v.Active),
			strconv.FormatUint(v.NotFoundDepth, 10),
			strings.Join(v.RPCs, ", "),
		})
	}
	table.Render()

	return nil
}
