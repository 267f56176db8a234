package sui

import (
	"context"
	"errors"
	"testing"

	"github.com/block-vision/sui-go-sdk/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

type fakeClient struct {
	resp       models.SuiTransactionBlockResponse
	err        error
	checkpoint uint64
	gotReq     models.SuiGetTransactionBlockRequest
}

func (f *fakeClient) SuiGetTransactionBlock(
	_ context.Context, req models.SuiGetTransactionBlockRequest,
) (models.SuiTransactionBlockResponse, error) {
	f.gotReq = req
	return f.resp, f.err
}

func (f *fakeClient) SuiGetLatestCheckpointSequenceNumber(context.Context) (uint64, error) {
	return f.checkpoint, f.err
}

const testDigest = "5PLpTQzoN3Vc8yYfTzh7i3yPoPyUn8Gv7gEMRbhn4xsf"

func blockResponse(status, errMsg, checkpoint string) models.SuiTransactionBlockResponse {
	return models.SuiTransactionBlockResponse{
		Digest:     testDigest,
		Checkpoint: checkpoint,
		Effects: models.SuiEffects{
			Status: models.ExecutionStatus{Status: status, Error: errMsg},
			GasUsed: models.GasCostSummary{
				ComputationCost: "1000000",
				StorageCost:     "2964000",
				StorageRebate:   "978120",
			},
		},
	}
}

func newTestChain(client Client) Chain {
	return Chain{
		ChainMetadata: ChainMetadata{Chain: chain.Sui},
		Client:        client,
		URL:           "https://fullnode.example:443",
	}
}

func Test_Chain_LookupTransaction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		give        *fakeClient
		want        txstatus.Lookup
		wantErrKind txstatus.Kind
	}{
		{
			name: "success",
			give: &fakeClient{resp: blockResponse("success", "", "120000345")},
			want: txstatus.IncludedLookup(txstatus.Receipt{
				Hash: testDigest, Success: true, BlockHeight: 120000345, Fee: "0.00298588",
			}),
		},
		{
			name: "move abort",
			give: &fakeClient{resp: blockResponse("failure", "MoveAbort(MoveLocation { module: coin }, 2) in command 0", "120000345")},
			want: txstatus.IncludedLookup(txstatus.Receipt{
				Hash:         testDigest,
				BlockHeight:  120000345,
				Fee:          "0.00298588",
				RevertReason: "MoveAbort(MoveLocation { module: coin }, 2) in command 0",
			}),
		},
		{
			name: "executed but not checkpointed",
			give: &fakeClient{resp: blockResponse("success", "", "")},
			want: txstatus.PendingLookup(),
		},
		{
			name: "unknown digest",
			give: &fakeClient{err: errors.New("Could not find the referenced transaction [TransactionDigest(5PLp)].")},
			want: txstatus.NotFoundLookup(),
		},
		{
			name:        "unknown status",
			give:        &fakeClient{resp: blockResponse("exploded", "", "1")},
			wantErrKind: txstatus.KindMalformedResponse,
		},
		{
			name:        "bad checkpoint",
			give:        &fakeClient{resp: blockResponse("success", "", "latest")},
			wantErrKind: txstatus.KindMalformedResponse,
		},
		{
			name:        "empty response",
			give:        &fakeClient{},
			wantErrKind: txstatus.KindMalformedResponse,
		},
		{
			name:        "transport failure",
			give:        &fakeClient{err: context.DeadlineExceeded},
			wantErrKind: txstatus.KindNetworkUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := newTestChain(tt.give).LookupTransaction(t.Context(), testDigest, "")
			assert.Equal(t, testDigest, tt.give.gotReq.Digest)
			assert.True(t, tt.give.gotReq.Options.ShowEffects)

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

func Test_gasFee(t *testing.T) {
	t.Parallel()

	got, err := gasFee(models.GasCostSummary{ComputationCost: "10", StorageCost: "5", StorageRebate: "20"})
	require.NoError(t, err)
	assert.Equal(t, int64(-5), got.Int64())

	_, err = gasFee(models.GasCostSummary{ComputationCost: "1e3"})
	require.ErrorIs(t, err, txstatus.ErrMalformedResponse)
}

func Test_Chain_LatestHeight(t *testing.T) {
	t.Parallel()

	got, err := newTestChain(&fakeClient{checkpoint: 120000400}).LatestHeight(t.Context())
	require.NoError(t, err)
	assert.Equal(t, uint64(120000400), got)

	_, err = newTestChain(&fakeClient{err: errors.New("boom")}).LatestHeight(t.Context())
	require.ErrorContains(t, err, "get latest checkpoint: boom")
}

func Test_Chain_metadata(t *testing.T) {
	t.Parallel()

	c := newTestChain(&fakeClient{})
	assert.Equal(t, chain.Sui, c.ChainID())
	assert.Equal(t, chain.FamilySui, c.Family())
}
