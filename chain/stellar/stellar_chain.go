package stellar

import (
	"context"
	"fmt"

	"github.com/stellar/go-stellar-sdk/clients/rpcclient"
	protocol "github.com/stellar/go-stellar-sdk/protocols/rpc"

	chaincommon "github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

type ChainMetadata = chaincommon.ChainMetadata

// Chain represents a Stellar network read through a Soroban RPC server.
type Chain struct {
	ChainMetadata

	Client *rpcclient.Client
	URL    string
}

// LookupTransaction fetches the transaction with getTransaction. The RPC server answers
// NOT_FOUND both for unknown transactions and for those older than its retention window.
// sender is unused.
func (c Chain) LookupTransaction(ctx context.Context, hash, _ string) (txstatus.Lookup, error) {
	resp, err := c.Client.GetTransaction(ctx, protocol.GetTransactionRequest{Hash: hash})
	if err != nil {
		return txstatus.Lookup{}, fmt.Errorf("get transaction: %w", err)
	}

	return decodeTransaction(hash, resp)
}

// LatestHeight returns the sequence of the latest ledger known to the RPC server.
func (c Chain) LatestHeight(ctx context.Context) (uint64, error) {
	resp, err := c.Client.GetLatestLedger(ctx)
	if err != nil {
		return 0, fmt.Errorf("get latest ledger: %w", err)
	}
	if resp.Sequence == 0 {
		return 0, txstatus.Malformed("latest ledger has no sequence")
	}

	return uint64(resp.Sequence), nil
}
