package algorand

import (
	"encoding/json"
	"fmt"

	"github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

// microAlgoDecimals is the number of decimals of ALGO expressed in microAlgos.
const microAlgoDecimals = 6

type pendingTransaction struct {
	ConfirmedRound uint64 `json:"confirmed-round"`
	PoolError      string `json:"pool-error"`
	Txn            *struct {
		Txn struct {
			Fee uint64 `json:"fee"`
		} `json:"txn"`
	} `json:"txn"`
}

// decodePendingTransaction maps an algod PendingTransactionResponse onto a lookup. Algorand only
// commits transactions that execute successfully, a rejected transaction is dropped from the pool
// with a pool error instead.
func decodePendingTransaction(txid string, body []byte) (txstatus.Lookup, error) {
	var ptx pendingTransaction
	if err := json.Unmarshal(body, &ptx); err != nil {
		return txstatus.Lookup{}, fmt.Errorf("decode pending transaction: %w", err)
	}
	if ptx.Txn == nil {
		return txstatus.Lookup{}, txstatus.Malformed("pending transaction has no txn")
	}

	switch {
	case ptx.PoolError != "":
		return txstatus.Lookup{}, &txstatus.ChainError{Code: "pool_error", Message: ptx.PoolError}
	case ptx.ConfirmedRound == 0:
		return txstatus.PendingLookup(), nil
	}

	return txstatus.IncludedLookup(txstatus.Receipt{
		Hash:        txid,
		Success:     true,
		BlockHeight: ptx.ConfirmedRound,
		Fee:         common.FormatUnits(ptx.Txn.Txn.Fee, microAlgoDecimals),
	}), nil
}
