package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/chain/tron"
)

func Test_RPCChainProviderConfig_validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  RPCChainProviderConfig
		wantErr string
	}{
		{
			name:   "valid config",
			config: RPCChainProviderConfig{FullNodeURL: "grpc.trongrid.io:50051"},
		},
		{
			name:    "missing full node url",
			wantErr: "full node url is required",
		},
		{
			name:    "url without port",
			config:  RPCChainProviderConfig{FullNodeURL: "grpc.trongrid.io"},
			wantErr: "full node url must be host:port",
		},
		{
			name:    "negative timeout",
			config:  RPCChainProviderConfig{FullNodeURL: "localhost:50051", Timeout: -time.Second},
			wantErr: "timeout must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.config.validate()
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func Test_RPCChainProvider_Initialize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		giveID  chain.ID
		config  RPCChainProviderConfig
		wantErr string
	}{
		{
			name:   "local node",
			giveID: chain.Tron,
			config: RPCChainProviderConfig{FullNodeURL: "127.0.0.1:50051", Insecure: true},
		},
		{
			name:   "trongrid with api key",
			giveID: chain.Tron,
			config: RPCChainProviderConfig{FullNodeURL: "grpc.trongrid.io:50051", APIKey: "00000000-0000-0000-0000-000000000000"},
		},
		{
			name:    "invalid config",
			giveID:  chain.Tron,
			wantErr: "invalid Tron RPC config",
		},
		{
			name:    "not a tron chain",
			giveID:  chain.Ethereum,
			config:  RPCChainProviderConfig{FullNodeURL: "127.0.0.1:50051"},
			wantErr: "chain ethereum is not a tron chain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := NewRPCChainProvider(tt.giveID, tt.config)

			got, err := p.Initialize(t.Context())
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				assert.Nil(t, p.BlockChain())

				return
			}

			require.NoError(t, err)
			gotChain, ok := got.(tron.Chain)
			require.True(t, ok, "expected got to be of type tron.Chain")
			assert.Equal(t, chain.Tron, gotChain.ChainID())
			assert.Equal(t, tt.config.FullNodeURL, gotChain.URL)
			assert.NotNil(t, gotChain.Client)
			assert.Equal(t, got, p.BlockChain())
		})
	}
}

func Test_RPCChainProvider_Name(t *testing.T) {
	t.Parallel()

	p := &RPCChainProvider{}
	assert.Equal(t, "Tron RPC Chain Provider", p.Name())
}
