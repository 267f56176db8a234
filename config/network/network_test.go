package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
)

func Test_Network_ChainFamily(t *testing.T) {
	t.Parallel()

	network := Network{Chain: chain.BNBChain}
	assert.Equal(t, chain.FamilyEVM, network.ChainFamily())
}

func Test_Network_IsEnabled(t *testing.T) {
	t.Parallel()

	enabled, disabled := true, false

	assert.True(t, (&Network{}).IsEnabled())
	assert.True(t, (&Network{Enabled: &enabled}).IsEnabled())
	assert.False(t, (&Network{Enabled: &disabled}).IsEnabled())
}

func Test_Network_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		giveFunc func(*Network)
		wantErr  string
	}{
		{
			name:     "valid network",
			giveFunc: func(n *Network) {},
		},
		{
			name:     "missing chain",
			giveFunc: func(n *Network) { n.Chain = 0 },
			wantErr:  "chain is required",
		},
		{
			name:     "missing type",
			giveFunc: func(n *Network) { n.Type = "" },
			wantErr:  "type is required",
		},
		{
			name:     "missing RPCs",
			giveFunc: func(n *Network) { n.RPCs = []RPC{} },
			wantErr:  "at least one RPC is required",
		},
		{
			name: "preferred scheme without url",
			giveFunc: func(n *Network) {
				n.RPCs[0].PreferredURLScheme = "grpc"
			},
			wantErr: `rpc 0 (primary): no url for preferred scheme "grpc"`,
		},
		{
			name:     "invalid rate limit",
			giveFunc: func(n *Network) { n.RateLimit = &RateLimit{RPS: 10} },
			wantErr:  "rate limit: burst must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			network := Network{
				Chain: chain.Solana,
				Type:  NetworkTypeMainnet,
				RPCs: []RPC{
					{RPCName: "primary", HTTPURL: "https://api.mainnet-beta.solana.com"},
				},
			}
			tt.giveFunc(&network)

			err := network.Validate()
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func Test_RPC_PreferredEndpoint(t *testing.T) {
	t.Parallel()

	rpc := RPC{HTTPURL: "https://node", WSURL: "wss://node", GRPCURL: "node:9090"}

	tests := []struct {
		scheme string
		want   string
	}{
		{scheme: "", want: "https://node"},
		{scheme: "http", want: "https://node"},
		{scheme: "ws", want: "wss://node"},
		{scheme: "grpc", want: "node:9090"},
	}

	for _, tt := range tests {
		t.Run(tt.scheme, func(t *testing.T) {
			t.Parallel()

			r := rpc
			r.PreferredURLScheme = tt.scheme
			assert.Equal(t, tt.want, r.PreferredEndpoint())
		})
	}
}
