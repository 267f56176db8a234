package algorand

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

// Chain represents the Algorand chain read through an algod node.
type Chain struct {
	ChainMetadata

	// Client is rooted at the algod URL and sends the X-Algo-API-Token header.
	Client *resty.Client
	URL    string
}

// LookupTransaction reads txid from algod's pending transaction endpoint, which also serves
// transactions confirmed in recent rounds. sender is unused.
func (c Chain) LookupTransaction(ctx context.Context, txid, _ string) (txstatus.Lookup, error) {
	body, err := common.GetJSON(ctx, c.Client, "/v2/transactions/pending/{txid}", map[string]string{"txid": txid})
	if err != nil {
		var httpErr *txstatus.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return txstatus.NotFoundLookup(), nil
		}

		return txstatus.Lookup{}, fmt.Errorf("get pending transaction: %w", err)
	}

	return decodePendingTransaction(txid, body)
}

// LatestHeight returns the last round the node has seen.
func (c Chain) LatestHeight(ctx context.Context) (uint64, error) {
	body, err := common.GetJSON(ctx, c.Client, "/v2/status", nil)
	if err != nil {
		return 0, fmt.Errorf("get status: %w", err)
	}

	var st struct {
		LastRound *uint64 `json:"last-round"`
	}
	if err := json.Unmarshal(body, &st); err != nil {
		return 0, fmt.Errorf("decode status: %w", err)
	}
	if st.LastRound == nil {
		return 0, txstatus.Malformed("status has no last-round")
	}

	return *st.LastRound, nil
}
