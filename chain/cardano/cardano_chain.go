package cardano

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

type ChainMetadata = common.ChainMetadata

// Chain represents the Cardano chain read through the Blockfrost API.
type Chain struct {
	ChainMetadata

	// Client is rooted at the Blockfrost network URL and sends the project_id header.
	Client *resty.Client
	URL    string
}

// LookupTransaction fetches the transaction from the chain index. A transaction that is not
// indexed yet may still sit in the Blockfrost mempool. sender is unused.
func (c Chain) LookupTransaction(ctx context.Context, hash, _ string) (txstatus.Lookup, error) {
	body, err := common.GetJSON(ctx, c.Client, "/txs/{hash}", map[string]string{"hash": hash})
	if err == nil {
		return decodeTx(hash, body)
	}
	if !isNotFound(err) {
		return txstatus.Lookup{}, fmt.Errorf("get tx: %w", err)
	}

	_, err = common.GetJSON(ctx, c.Client, "/mempool/{hash}", map[string]string{"hash": hash})
	switch {
	case err == nil:
		return txstatus.PendingLookup(), nil
	case isNotFound(err):
		return txstatus.NotFoundLookup(), nil
	default:
		return txstatus.Lookup{}, fmt.Errorf("get mempool tx: %w", err)
	}
}

// LatestHeight returns the height of the latest block.
func (c Chain) LatestHeight(ctx context.Context) (uint64, error) {
	body, err := common.GetJSON(ctx, c.Client, "/blocks/latest", nil)
	if err != nil {
		return 0, fmt.Errorf("get latest block: %w", err)
	}

	var block struct {
		Height *uint64 `json:"height"`
	}
	if err := json.Unmarshal(body, &block); err != nil {
		return 0, fmt.Errorf("decode latest block: %w", err)
	}
	if block.Height == nil {
		return 0, txstatus.Malformed("latest block has no height")
	}

	return *block.Height, nil
}

func isNotFound(err error) bool {
	var httpErr *txstatus.HTTPError

	return errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound
}
