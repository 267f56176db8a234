package evm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/pkg/logger"
)

// mockRPCServer is a JSON-RPC server answering from a method to raw result table. It answers
// every request with HTTP 500 while failing is set.
type mockRPCServer struct {
	*httptest.Server

	failing atomic.Bool
	calls   atomic.Int32
}

func newMockRPCServer(t *testing.T, results map[string]string) *mockRPCServer {
	t.Helper()

	s := &mockRPCServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		if s.failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		result, ok := results[req.Method]
		if !ok {
			result = "null"
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,"result":` + result + `}`))
	}))
	t.Cleanup(s.Close)

	return s
}

func testRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts:     1,
		Delay:        time.Millisecond,
		Timeout:      2 * time.Second,
		DialAttempts: 1,
		DialDelay:    time.Millisecond,
		DialTimeout:  2 * time.Second,
	}
}

func Test_NewMultiClient(t *testing.T) {
	t.Parallel()

	healthy := newMockRPCServer(t, map[string]string{"eth_blockNumber": `"0x10"`})
	unhealthy := newMockRPCServer(t, nil)
	unhealthy.failing.Store(true)

	tests := []struct {
		name        string
		id          chain.ID
		rpcs        []RPC
		wantBackups int
		wantErr     string
	}{
		{
			name:        "primary and backup",
			id:          chain.Ethereum,
			rpcs:        []RPC{{Name: "a", HTTPURL: healthy.URL}, {Name: "b", HTTPURL: healthy.URL}},
			wantBackups: 1,
		},
		{
			name: "skips unhealthy rpc",
			id:   chain.BNBChain,
			rpcs: []RPC{{Name: "down", HTTPURL: unhealthy.URL}, {Name: "up", HTTPURL: healthy.URL}},
		},
		{
			name: "skips rpc without url",
			id:   chain.Ethereum,
			rpcs: []RPC{{Name: "empty"}, {Name: "up", HTTPURL: healthy.URL}},
		},
		{
			name:    "no rpcs",
			id:      chain.Ethereum,
			wantErr: "no RPCs provided",
		},
		{
			name:    "not an evm chain",
			id:      chain.Aptos,
			rpcs:    []RPC{{Name: "up", HTTPURL: healthy.URL}},
			wantErr: "chain aptos is not an evm chain",
		},
		{
			name:    "all rpcs unhealthy",
			id:      chain.Ethereum,
			rpcs:    []RPC{{Name: "down", HTTPURL: unhealthy.URL}},
			wantErr: "no valid RPC clients created",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mc, err := NewMultiClient(t.Context(), logger.Test(t), tt.id, tt.rpcs, WithRetryConfig(testRetryConfig()))
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotNil(t, mc.Client)
			assert.Len(t, mc.Backups, tt.wantBackups)
			assert.Equal(t, testRetryConfig(), mc.RetryConfig)
		})
	}
}

func Test_MultiClient_failover(t *testing.T) {
	t.Parallel()

	primary := newMockRPCServer(t, map[string]string{"eth_blockNumber": `"0x10"`})
	backup := newMockRPCServer(t, map[string]string{"eth_blockNumber": `"0x11"`})

	mc, err := NewMultiClient(t.Context(), logger.Test(t), chain.Ethereum,
		[]RPC{{Name: "primary", HTTPURL: primary.URL}, {Name: "backup", HTTPURL: backup.URL}},
		WithRetryConfig(testRetryConfig()),
	)
	require.NoError(t, err)

	primary.failing.Store(true)

	got, err := mc.BlockNumber(t.Context())
	require.NoError(t, err)
	assert.Equal(t, uint64(0x11), got)

	// The backup answered, so it is tried first from now on.
	primaryCalls := primary.calls.Load()
	got, err = mc.BlockNumber(t.Context())
	require.NoError(t, err)
	assert.Equal(t, uint64(0x11), got)
	assert.Equal(t, primaryCalls, primary.calls.Load())

	backup.failing.Store(true)
	_, err = mc.BlockNumber(t.Context())
	require.ErrorContains(t, err, `all backup clients failed for chain "ethereum"`)
}

func Test_MultiClient_notFoundIsFinal(t *testing.T) {
	t.Parallel()

	primary := newMockRPCServer(t, map[string]string{"eth_blockNumber": `"0x10"`})
	backup := newMockRPCServer(t, map[string]string{"eth_blockNumber": `"0x10"`})

	mc, err := NewMultiClient(t.Context(), logger.Test(t), chain.Ethereum,
		[]RPC{{Name: "primary", HTTPURL: primary.URL}, {Name: "backup", HTTPURL: backup.URL}},
		WithRetryConfig(testRetryConfig()),
	)
	require.NoError(t, err)

	backupCalls := backup.calls.Load()
	hash := common.HexToHash("0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060")

	_, err = mc.TransactionReceipt(t.Context(), hash)
	require.ErrorIs(t, err, ethereum.NotFound)

	_, _, err = mc.TransactionByHash(t.Context(), hash)
	require.ErrorIs(t, err, ethereum.NotFound)

	assert.Equal(t, backupCalls, backup.calls.Load())
}

func Test_MultiClient_reorderRPCs(t *testing.T) {
	t.Parallel()

	srv := newMockRPCServer(t, map[string]string{"eth_blockNumber": `"0x1"`})
	rpcs := []RPC{
		{Name: "a", HTTPURL: srv.URL},
		{Name: "b", HTTPURL: srv.URL},
		{Name: "c", HTTPURL: srv.URL},
		{Name: "d", HTTPURL: srv.URL},
	}

	mc, err := NewMultiClient(t.Context(), logger.Nop(), chain.Ethereum, rpcs, WithRetryConfig(testRetryConfig()))
	require.NoError(t, err)

	a, b, c, d := mc.Client, mc.Backups[0], mc.Backups[1], mc.Backups[2]

	mc.reorderRPCs(0)
	assert.Same(t, a, mc.Client)

	// c answered after a and b failed.
	mc.reorderRPCs(2)
	assert.Same(t, c, mc.Client)
	require.Len(t, mc.Backups, 3)
	assert.Same(t, d, mc.Backups[0])
	assert.Same(t, b, mc.Backups[1])
	assert.Same(t, a, mc.Backups[2])
}
