package evm

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

type fakeClient struct {
	receipt    *types.Receipt
	receiptErr error
	tx         *types.Transaction
	txErr      error
	height     uint64
	heightErr  error
	callErr    error
	gotCall    *ethereum.CallMsg
}

func (f *fakeClient) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	return f.receipt, f.receiptErr
}

func (f *fakeClient) TransactionByHash(context.Context, common.Hash) (*types.Transaction, bool, error) {
	return f.tx, f.receipt == nil, f.txErr
}

func (f *fakeClient) BlockNumber(context.Context) (uint64, error) {
	return f.height, f.heightErr
}

func (f *fakeClient) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.gotCall = &call
	return nil, f.callErr
}

const testTxHash = "0x5c504ed432cb51138bcf09aa5e8a410dd4a1e204ef84bfed1be16dfba1b22060"

func newTestChain(client OnchainClient) Chain {
	return Chain{
		ChainMetadata: ChainMetadata{Chain: chain.Ethereum},
		Client:        client,
	}
}

func Test_Chain_LookupTransaction(t *testing.T) {
	t.Parallel()

	var (
		tx = types.NewTransaction(
			7, common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"), big.NewInt(0),
			60000, big.NewInt(20_000_000_000), []byte{0xa9, 0x05, 0x9c, 0xbb},
		)
		sender = "0x00000000000000000000000000000000000000aa"
	)

	tests := []struct {
		name        string
		hash        string
		sender      string
		give        *fakeClient
		want        txstatus.Lookup
		wantErrKind txstatus.Kind
		wantCall    bool
	}{
		{
			name: "successful transfer",
			hash: testTxHash,
			give: &fakeClient{receipt: &types.Receipt{
				Status:            types.ReceiptStatusSuccessful,
				BlockNumber:       big.NewInt(19000000),
				GasUsed:           21000,
				EffectiveGasPrice: big.NewInt(20_000_000_000),
			}},
			want: txstatus.IncludedLookup(txstatus.Receipt{
				Hash: testTxHash, Success: true, BlockHeight: 19000000, Fee: "0.00042",
			}),
		},
		{
			name: "reverted with reason",
			hash: testTxHash,
			give: &fakeClient{
				receipt: &types.Receipt{
					Status:            types.ReceiptStatusFailed,
					BlockNumber:       big.NewInt(19000001),
					GasUsed:           30000,
					EffectiveGasPrice: big.NewInt(10_000_000_000),
				},
				tx:      tx,
				callErr: &jsonError{Code: 3, Message: "execution reverted", Data: errorStringRevert},
			},
			sender: sender,
			want: txstatus.IncludedLookup(txstatus.Receipt{
				Hash: testTxHash, BlockHeight: 19000001, Fee: "0.0003", RevertReason: "insufficient allowance",
			}),
			wantCall: true,
		},
		{
			name: "reverted without recoverable sender",
			hash: testTxHash,
			give: &fakeClient{
				receipt: &types.Receipt{Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(19000001)},
				tx:      tx,
			},
			want: txstatus.IncludedLookup(txstatus.Receipt{Hash: testTxHash, BlockHeight: 19000001, Fee: "0"}),
		},
		{
			name: "in the pool",
			hash: testTxHash,
			give: &fakeClient{receiptErr: ethereum.NotFound, tx: tx},
			want: txstatus.PendingLookup(),
		},
		{
			name: "unknown transaction",
			hash: testTxHash,
			give: &fakeClient{receiptErr: ethereum.NotFound, txErr: ethereum.NotFound},
			want: txstatus.NotFoundLookup(),
		},
		{
			name:        "invalid hash",
			hash:        "0x1234",
			give:        &fakeClient{},
			wantErrKind: txstatus.KindChainRejected,
		},
		{
			name:        "rpc rate limited",
			hash:        testTxHash,
			give:        &fakeClient{receiptErr: rpc.HTTPError{StatusCode: 503, Status: "503 Service Unavailable", Body: []byte("busy")}},
			wantErrKind: txstatus.KindServiceUnavailable,
		},
		{
			name:        "pool lookup fails",
			hash:        testTxHash,
			give:        &fakeClient{receiptErr: ethereum.NotFound, txErr: rpc.HTTPError{StatusCode: 502, Body: []byte("bad gateway")}},
			wantErrKind: txstatus.KindServiceUnavailable,
		},
		{
			name:        "receipt without block",
			hash:        testTxHash,
			give:        &fakeClient{receipt: &types.Receipt{Status: types.ReceiptStatusSuccessful}},
			wantErrKind: txstatus.KindMalformedResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := newTestChain(tt.give).LookupTransaction(t.Context(), tt.hash, tt.sender)
			if tt.wantErrKind != txstatus.KindUnknown {
				require.Error(t, err)
				assert.Equal(t, tt.wantErrKind, txstatus.Classify(err).Kind)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.wantCall {
				require.NotNil(t, tt.give.gotCall)
				assert.Equal(t, common.HexToAddress(sender), tt.give.gotCall.From)
				assert.Equal(t, tx.Data(), tt.give.gotCall.Data)
			}
		})
	}
}

func Test_Chain_LatestHeight(t *testing.T) {
	t.Parallel()

	got, err := newTestChain(&fakeClient{height: 19000100}).LatestHeight(t.Context())
	require.NoError(t, err)
	assert.Equal(t, uint64(19000100), got)

	_, err = newTestChain(&fakeClient{heightErr: errors.New("boom")}).LatestHeight(t.Context())
	require.ErrorContains(t, err, "block number: boom")
}

func Test_isHexHash(t *testing.T) {
	t.Parallel()

	assert.True(t, isHexHash(testTxHash))
	assert.True(t, isHexHash(testTxHash[2:]))
	assert.False(t, isHexHash("0x"+testTxHash[3:]))
	assert.False(t, isHexHash(testTxHash[:65]+"z"))
}
