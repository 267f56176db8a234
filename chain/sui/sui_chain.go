package sui

import (
	"context"
	"fmt"
	"strings"

	"github.com/block-vision/sui-go-sdk/models"
	"github.com/block-vision/sui-go-sdk/sui"

	"github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

type ChainMetadata = common.ChainMetadata

// Client is the subset of the Sui JSON-RPC API used to resolve transaction status.
type Client interface {
	SuiGetTransactionBlock(
		ctx context.Context, req models.SuiGetTransactionBlockRequest,
	) (models.SuiTransactionBlockResponse, error)
	SuiGetLatestCheckpointSequenceNumber(ctx context.Context) (uint64, error)
}

var _ Client = sui.ISuiAPI(nil)

// Chain represents a Sui chain.
type Chain struct {
	ChainMetadata

	Client Client
	URL    string
}

// LookupTransaction fetches the effects of the transaction block with digest hash. sender is
// unused.
func (c Chain) LookupTransaction(ctx context.Context, hash, _ string) (txstatus.Lookup, error) {
	resp, err := c.Client.SuiGetTransactionBlock(ctx, models.SuiGetTransactionBlockRequest{
		Digest: hash,
		Options: models.SuiTransactionBlockOptions{
			ShowEffects: true,
		},
	})
	if err != nil {
		if isNotFound(err) {
			return txstatus.NotFoundLookup(), nil
		}

		return txstatus.Lookup{}, fmt.Errorf("get transaction block: %w", err)
	}

	return decodeTransactionBlock(hash, resp)
}

// LatestHeight returns the latest checkpoint sequence number.
func (c Chain) LatestHeight(ctx context.Context) (uint64, error) {
	seq, err := c.Client.SuiGetLatestCheckpointSequenceNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("get latest checkpoint: %w", err)
	}

	return seq, nil
}

// isNotFound matches the error full nodes return for digests they do not know. The client
// only surfaces the JSON-RPC error message.
func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "could not find the referenced transaction")
}
