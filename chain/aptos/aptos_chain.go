package aptos

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/api"

	chain_common "github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

// octasDecimals is the number of decimals of APT expressed in octas.
const octasDecimals = 8

type ChainMetadata = chain_common.ChainMetadata

// Client is the subset of the Aptos node client used to resolve transaction status.
type Client interface {
	TransactionByHash(txnHash string) (*api.Transaction, error)
	Info() (aptos.NodeInfo, error)
}

// Chain represents an Aptos chain.
type Chain struct {
	ChainMetadata

	Client Client
	URL    string
}

// LookupTransaction fetches hash from the node. Aptos answers 404 for hashes it has never
// seen and a pending_transaction body for hashes still in the mempool. sender is unused.
func (c Chain) LookupTransaction(ctx context.Context, hash, _ string) (txstatus.Lookup, error) {
	tx, err := chain_common.CallContext(ctx, func() (*api.Transaction, error) {
		return c.Client.TransactionByHash(hash)
	})
	if err != nil {
		var httpErr *aptos.HttpError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return txstatus.NotFoundLookup(), nil
		}

		return txstatus.Lookup{}, fmt.Errorf("transaction by hash: %w", nodeError(err))
	}

	return decodeTransaction(tx)
}

// LatestHeight returns the ledger version, which is what transaction versions are compared to.
func (c Chain) LatestHeight(ctx context.Context) (uint64, error) {
	info, err := chain_common.CallContext(ctx, c.Client.Info)
	if err != nil {
		return 0, fmt.Errorf("node info: %w", nodeError(err))
	}

	return info.LedgerVersion(), nil
}

// decodeTransaction maps a transactions/by_hash response onto a lookup.
func decodeTransaction(tx *api.Transaction) (txstatus.Lookup, error) {
	if tx == nil {
		return txstatus.Lookup{}, txstatus.Malformed("empty transaction response")
	}

	switch tx.Type {
	case api.TransactionVariantPending:
		return txstatus.PendingLookup(), nil
	case api.TransactionVariantUser:
	default:
		return txstatus.Lookup{}, txstatus.Malformed("unexpected transaction type %q", tx.Type)
	}

	user, err := tx.UserTransaction()
	if err != nil {
		return txstatus.Lookup{}, txstatus.Malformed("user transaction: %v", err)
	}

	receipt := txstatus.Receipt{
		Hash:        user.Hash,
		Success:     user.Success,
		BlockHeight: user.Version,
		Fee:         chain_common.FormatUnits(user.GasUsed*user.GasUnitPrice, octasDecimals),
	}
	if !user.Success {
		receipt.RevertReason = user.VmStatus
	}

	return txstatus.IncludedLookup(receipt), nil
}

// nodeError converts Aptos HTTP errors into txstatus.HTTPError.
func nodeError(err error) error {
	var httpErr *aptos.HttpError
	if errors.As(err, &httpErr) {
		return &txstatus.HTTPError{
			StatusCode: httpErr.StatusCode,
			Body:       strings.TrimSpace(string(httpErr.Body)),
		}
	}

	return err
}
