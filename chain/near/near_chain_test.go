package near

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

// newTestChain serves each JSON-RPC method from responses, which maps a method to the raw
// response members after "id", e.g. `"result":{...}` or `"error":{...}`.
func newTestChain(t *testing.T, responses map[string]string) Chain {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		resp, ok := responses[req.Method]
		if !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` + string(req.ID) + `,` + resp + `}`))
	}))
	t.Cleanup(srv.Close)

	client, err := rpc.DialHTTP(srv.URL)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return Chain{ChainMetadata: ChainMetadata{Chain: chain.Near}, Client: client, URL: srv.URL}
}

const (
	testTxHash = "9FtHUFBQsZ2MG77K3x3MJ9wjX3UT8zE1TczCrhZEcG8U"
	testSender = "alice.near"

	blockResponse = `"result":{"header":{"height":131000000,"hash":"EJ5xg7eVvpJ2YB1RyHFWBnpqAHKrvY4jUKStdiYNgLDC"}}`
)

func Test_Chain_LookupTransaction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		sender      string
		responses   map[string]string
		want        txstatus.Lookup
		wantErrKind txstatus.Kind
	}{
		{
			name:   "transfer",
			sender: testSender,
			responses: map[string]string{
				"tx": `"result":{
					"status":{"SuccessValue":""},
					"transaction_outcome":{"id":"` + testTxHash + `","block_hash":"EJ5xg7eVvpJ2YB1RyHFWBnpqAHKrvY4jUKStdiYNgLDC","outcome":{"tokens_burnt":"223182562500000000000"}},
					"receipts_outcome":[{"id":"r1","block_hash":"x","outcome":{"tokens_burnt":"223182562500000000000"}}]
				}`,
				"block": blockResponse,
			},
			want: txstatus.IncludedLookup(txstatus.Receipt{
				Hash: testTxHash, Success: true, BlockHeight: 131000000, Fee: "0.000446365125",
			}),
		},
		{
			name:   "contract panicked",
			sender: testSender,
			responses: map[string]string{
				"tx": `"result":{
					"status":{"Failure":{"ActionError":{"index":0,"kind":{"FunctionCallError":{"ExecutionError":"Smart contract panicked: not enough balance"}}}}},
					"transaction_outcome":{"id":"` + testTxHash + `","block_hash":"EJ5xg7eVvpJ2YB1RyHFWBnpqAHKrvY4jUKStdiYNgLDC","outcome":{"tokens_burnt":"1000000000000000000000"}},
					"receipts_outcome":[]
				}`,
				"block": blockResponse,
			},
			want: txstatus.IncludedLookup(txstatus.Receipt{
				Hash: testTxHash, BlockHeight: 131000000, Fee: "0.001",
				RevertReason: "FunctionCallError: Smart contract panicked: not enough balance",
			}),
		},
		{
			name:   "not started",
			sender: testSender,
			responses: map[string]string{
				"tx": `"result":{"status":"NotStarted","transaction_outcome":{},"receipts_outcome":[]}`,
			},
			want: txstatus.PendingLookup(),
		},
		{
			name:   "unknown transaction",
			sender: testSender,
			responses: map[string]string{
				"tx": `"error":{"name":"HANDLER_ERROR","cause":{"name":"UNKNOWN_TRANSACTION"},"code":-32000,"message":"Server error","data":"Transaction ` + testTxHash + ` doesn't exist"}`,
			},
			want: txstatus.NotFoundLookup(),
		},
		{
			name:        "sender required",
			wantErrKind: txstatus.KindChainRejected,
		},
		{
			name:        "rpc unavailable",
			sender:      testSender,
			responses:   map[string]string{},
			wantErrKind: txstatus.KindServiceUnavailable,
		},
		{
			name:   "handler error",
			sender: testSender,
			responses: map[string]string{
				"tx": `"error":{"name":"HANDLER_ERROR","cause":{"name":"INVALID_TRANSACTION"},"code":-32000,"message":"Server error","data":"invalid"}`,
			},
			wantErrKind: txstatus.KindChainRejected,
		},
		{
			name:   "status missing",
			sender: testSender,
			responses: map[string]string{
				"tx": `"result":{"transaction_outcome":{},"receipts_outcome":[]}`,
			},
			wantErrKind: txstatus.KindMalformedResponse,
		},
		{
			name:   "block lookup fails",
			sender: testSender,
			responses: map[string]string{
				"tx": `"result":{
					"status":{"SuccessValue":""},
					"transaction_outcome":{"id":"` + testTxHash + `","block_hash":"EJ5xg7eVvpJ2YB1RyHFWBnpqAHKrvY4jUKStdiYNgLDC","outcome":{"tokens_burnt":"0"}},
					"receipts_outcome":[]
				}`,
			},
			wantErrKind: txstatus.KindServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestChain(t, tt.responses)
			got, err := c.LookupTransaction(t.Context(), testTxHash, tt.sender)
			if tt.wantErrKind != txstatus.KindUnknown {
				require.Error(t, err)
				assert.Equal(t, tt.wantErrKind, txstatus.Classify(err).Kind)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func Test_Chain_LatestHeight(t *testing.T) {
	t.Parallel()

	c := newTestChain(t, map[string]string{
		"status": `"result":{"chain_id":"mainnet","sync_info":{"latest_block_height":131000500,"syncing":false}}`,
	})
	got, err := c.LatestHeight(t.Context())
	require.NoError(t, err)
	assert.Equal(t, uint64(131000500), got)

	c = newTestChain(t, map[string]string{"status": `"result":{"sync_info":{}}`})
	_, err = c.LatestHeight(t.Context())
	require.ErrorIs(t, err, txstatus.ErrMalformedResponse)
}

func Test_failureReason(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		give string
		want string
	}{
		{
			name: "account does not exist",
			give: `{"ActionError":{"index":0,"kind":{"AccountDoesNotExist":{"account_id":"bob.near"}}}}`,
			want: "AccountDoesNotExist",
		},
		{
			name: "unit variant",
			give: `{"ActionError":{"index":1,"kind":"DeleteActionMustBeFinal"}}`,
			want: "DeleteActionMustBeFinal",
		},
		{
			name: "invalid tx error",
			give: `{"InvalidTxError":{"InvalidNonce":{"tx_nonce":5,"ak_nonce":6}}}`,
			want: "InvalidNonce",
		},
		{
			name: "string payload",
			give: `{"InvalidTxError":"Expired"}`,
			want: "InvalidTxError: Expired",
		},
		{
			name: "not json",
			give: `{`,
			want: `{`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, failureReason(json.RawMessage(tt.give)))
		})
	}
}
