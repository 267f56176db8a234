package near

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

type ChainMetadata = common.ChainMetadata

// Client is a JSON-RPC client. *rpc.Client from go-ethereum satisfies it.
type Client interface {
	CallContext(ctx context.Context, result any, method string, args ...any) error
}

var _ Client = (*rpc.Client)(nil)

// Chain represents the NEAR chain read over its JSON-RPC API.
type Chain struct {
	ChainMetadata

	Client Client
	URL    string
}

// LookupTransaction queries the final execution outcome of hash. NEAR shards transactions by
// signer so sender is required.
func (c Chain) LookupTransaction(ctx context.Context, hash, sender string) (txstatus.Lookup, error) {
	if sender == "" {
		return txstatus.Lookup{}, &txstatus.ChainError{Code: "sender_required", Message: "near transaction lookups need the signer account id"}
	}

	var tx txResult
	if err := c.Client.CallContext(ctx, &tx, "tx", hash, sender); err != nil {
		if isUnknownTransaction(err) {
			return txstatus.NotFoundLookup(), nil
		}

		return txstatus.Lookup{}, fmt.Errorf("tx: %w", rpcError(err))
	}

	lookup, err := decodeTx(hash, tx)
	if err != nil || lookup.Kind != txstatus.LookupIncluded {
		return lookup, err
	}

	var blk blockResult
	if err := c.Client.CallContext(ctx, &blk, "block", tx.TransactionOutcome.BlockHash); err != nil {
		return txstatus.Lookup{}, fmt.Errorf("block %s: %w", tx.TransactionOutcome.BlockHash, rpcError(err))
	}
	if blk.Header.Height == 0 {
		return txstatus.Lookup{}, txstatus.Malformed("block %s has no height", tx.TransactionOutcome.BlockHash)
	}
	lookup.Receipt.BlockHeight = blk.Header.Height

	return lookup, nil
}

// LatestHeight returns the latest block height the node has synced.
func (c Chain) LatestHeight(ctx context.Context) (uint64, error) {
	var st statusResult
	if err := c.Client.CallContext(ctx, &st, "status"); err != nil {
		return 0, fmt.Errorf("status: %w", rpcError(err))
	}
	if st.SyncInfo.LatestBlockHeight == 0 {
		return 0, txstatus.Malformed("status has no latest block height")
	}

	return st.SyncInfo.LatestBlockHeight, nil
}

// isUnknownTransaction matches the UNKNOWN_TRANSACTION handler error. go-ethereum drops the error
// cause so the data string is inspected.
func isUnknownTransaction(err error) bool {
	var dataErr rpc.DataError
	if !errors.As(err, &dataErr) {
		return false
	}

	data, _ := dataErr.ErrorData().(string)
	msg := dataErr.Error() + " " + data

	return strings.Contains(msg, "UNKNOWN_TRANSACTION") || strings.Contains(msg, "doesn't exist")
}

func rpcError(err error) error {
	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		return &txstatus.HTTPError{StatusCode: httpErr.StatusCode, Body: string(httpErr.Body)}
	}

	return err
}

type blockResult struct {
	Header struct {
		Height uint64 `json:"height"`
	} `json:"header"`
}

type statusResult struct {
	SyncInfo struct {
		LatestBlockHeight uint64 `json:"latest_block_height"`
	} `json:"sync_info"`
}

type txResult struct {
	Status             json.RawMessage `json:"status"`
	TransactionOutcome outcomeWithID   `json:"transaction_outcome"`
	ReceiptsOutcome    []outcomeWithID `json:"receipts_outcome"`
}

type outcomeWithID struct {
	ID        string `json:"id"`
	BlockHash string `json:"block_hash"`
	Outcome   struct {
		TokensBurnt string `json:"tokens_burnt"`
	} `json:"outcome"`
}
