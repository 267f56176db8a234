package resolve

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/config"
	cfgenv "github.com/smartcontractkit/chainlink-wallet-core/config/env"
	cfgnet "github.com/smartcontractkit/chainlink-wallet-core/config/network"
	"github.com/smartcontractkit/chainlink-wallet-core/engine/chains"
	"github.com/smartcontractkit/chainlink-wallet-core/pkg/logger"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

func testConfigLoader(_ []string, _ string) (*config.Config, error) {
	return &config.Config{
		Networks: cfgnet.NewConfig([]cfgnet.Network{
			{
				Chain: chain.Solana,
				Type:  cfgnet.NetworkTypeMainnet,
				RPCs:  []cfgnet.RPC{{RPCName: "solana", HTTPURL: "https://api.mainnet-beta.solana.com"}},
			},
			{
				Chain: chain.Near,
				Type:  cfgnet.NetworkTypeMainnet,
				RPCs:  []cfgnet.RPC{{RPCName: "near", HTTPURL: "https://rpc.mainnet.near.org"}},
			},
		}),
		Env: &cfgenv.Config{},
	}, nil
}

// registryLoader registers client for every chain it is asked to load.
func registryLoader(client txstatus.ChainStatusClient) RegistryLoaderFunc {
	return func(_ context.Context, _ logger.Logger, cfg *config.Config) (*chains.Loaded, error) {
		reg := chain.NewRegistry[txstatus.ChainStatusClient]()
		for _, id := range cfg.Networks.Chains() {
			reg.Register(id, client)
		}

		return &chains.Loaded{Registry: reg, Depths: map[chain.ID]uint64{}}, nil
	}
}

func lookupClient(lookup func() (txstatus.Lookup, error)) txstatus.ChainStatusClient {
	return txstatus.ChainStatusClientFunc{
		LookupFn: func(context.Context, string, string) (txstatus.Lookup, error) { return lookup() },
		HeightFn: func(context.Context) (uint64, error) { return 100, nil },
	}
}

func TestNewCommand_Structure(t *testing.T) {
	t.Parallel()

	cmd, err := NewCommand(Config{Logger: logger.Nop()})
	require.NoError(t, err)

	assert.Equal(t, "resolve <chain> <hash>", cmd.Use)
	assert.Equal(t, resolveShort, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotEmpty(t, cmd.Example)

	for _, name := range []string{"networks", "env-file", "format", "reference-block", "sender", "wait", "interval", "attempts"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "flag %s", name)
	}

	_, err = NewCommand(Config{})
	require.EqualError(t, err, "resolve.Config: missing required fields: Logger")
}

func TestResolve(t *testing.T) {
	t.Parallel()

	confirmed := lookupClient(func() (txstatus.Lookup, error) {
		return txstatus.IncludedLookup(txstatus.Receipt{Hash: "abc", Success: true, BlockHeight: 90, Fee: "0.000005"}), nil
	})
	reverted := lookupClient(func() (txstatus.Lookup, error) {
		return txstatus.IncludedLookup(txstatus.Receipt{Hash: "abc", RevertReason: "custom program error: 0x1"}), nil
	})
	unavailable := lookupClient(func() (txstatus.Lookup, error) {
		return txstatus.Lookup{}, &txstatus.HTTPError{StatusCode: 503}
	})

	tests := []struct {
		name       string
		args       []string
		client     txstatus.ChainStatusClient
		loader     ConfigLoaderFunc
		wantOut    string
		wantErr    string
		wantErrIs  error
		wantOutHas []string
	}{
		{
			name:    "confirmed as text",
			args:    []string{"solana", "abc", "-n", "networks.yaml", "-r", "80"},
			client:  confirmed,
			wantOut: "solana:abc confirmed (block 90, fee 0.000005)\n",
		},
		{
			name:   "reverted as json",
			args:   []string{"Solana", "abc", "-n", "networks.yaml", "-r", "80", "-f", "json"},
			client: reverted,
			wantOutHas: []string{
				`"status": "reverted"`,
				`"terminal": true`,
				`"reason": "custom program error: 0x1"`,
			},
		},
		{
			name:    "pending within depth",
			args:    []string{"near", "abc", "-n", "networks.yaml", "-r", "99", "--sender", "alice.near"},
			client:  lookupClient(func() (txstatus.Lookup, error) { return txstatus.NotFoundLookup(), nil }),
			wantOut: "near:abc pending\n",
		},
		{
			name:      "service unavailable",
			args:      []string{"solana", "abc", "-n", "networks.yaml", "-r", "80"},
			client:    unavailable,
			wantErrIs: txstatus.ErrServiceUnavailable,
		},
		{
			name:    "chain not configured",
			args:    []string{"tron", "abc", "-n", "networks.yaml", "-r", "80"},
			client:  confirmed,
			wantErr: "chain tron is not configured or not enabled",
		},
		{
			name:    "unknown chain",
			args:    []string{"dogecoin", "abc", "-n", "networks.yaml", "-r", "80"},
			client:  confirmed,
			wantErr: `unknown chain: "dogecoin"`,
		},
		{
			name:    "unsupported format",
			args:    []string{"solana", "abc", "-n", "networks.yaml", "-r", "80", "-f", "yaml"},
			client:  confirmed,
			wantErr: `unsupported output format "yaml"`,
		},
		{
			name:   "config error",
			args:   []string{"solana", "abc", "-n", "networks.yaml", "-r", "80"},
			client: confirmed,
			loader: func([]string, string) (*config.Config, error) {
				return nil, errors.New("boom")
			},
			wantErr: "failed to load config: boom",
		},
		{
			name:    "missing reference block",
			args:    []string{"solana", "abc", "-n", "networks.yaml"},
			client:  confirmed,
			wantErr: `required flag(s) "reference-block" not set`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loader := tt.loader
			if loader == nil {
				loader = testConfigLoader
			}

			cmd, err := NewCommand(Config{
				Logger: logger.Nop(),
				Deps: Deps{
					ConfigLoader:   loader,
					RegistryLoader: registryLoader(tt.client),
				},
			})
			require.NoError(t, err)

			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(tt.args)

			err = cmd.ExecuteContext(t.Context())
			switch {
			case tt.wantErr != "":
				require.ErrorContains(t, err, tt.wantErr)
			case tt.wantErrIs != nil:
				require.ErrorIs(t, err, tt.wantErrIs)
			default:
				require.NoError(t, err)
			}

			if tt.wantOut != "" {
				assert.Equal(t, tt.wantOut, out.String())
			}
			for _, want := range tt.wantOutHas {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestResolve_wait(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := lookupClient(func() (txstatus.Lookup, error) {
		if calls.Add(1) < 3 {
			return txstatus.PendingLookup(), nil
		}

		return txstatus.IncludedLookup(txstatus.Receipt{Hash: "abc", Success: true, BlockHeight: 101, Fee: "0.1"}), nil
	})

	cmd, err := NewCommand(Config{
		Logger: logger.Test(t),
		Deps: Deps{
			ConfigLoader:   testConfigLoader,
			RegistryLoader: registryLoader(client),
		},
	})
	require.NoError(t, err)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"solana", "abc", "-n", "networks.yaml", "-r", "80", "--wait", "--interval", "1ms"})

	require.NoError(t, cmd.ExecuteContext(t.Context()))
	assert.Equal(t, "solana:abc confirmed (block 101, fee 0.1)\n", out.String())
	assert.Equal(t, int32(3), calls.Load())
}

func TestResolve_waitStillPending(t *testing.T) {
	t.Parallel()

	client := lookupClient(func() (txstatus.Lookup, error) { return txstatus.PendingLookup(), nil })

	cmd, err := NewCommand(Config{
		Logger: logger.Nop(),
		Deps: Deps{
			ConfigLoader:   testConfigLoader,
			RegistryLoader: registryLoader(client),
		},
	})
	require.NoError(t, err)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"solana", "abc", "-n", "networks.yaml", "-r", "80", "-w", "--interval", "1ms", "--attempts", "2"})

	err = cmd.ExecuteContext(t.Context())
	require.Error(t, err)
	assert.Equal(t, "solana:abc pending\n", out.String())
}
