package near

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"

	"github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

// yoctoDecimals is the number of decimals of NEAR expressed in yoctoNEAR.
const yoctoDecimals = 24

// decodeTx maps a final execution outcome onto a lookup. The block height is filled in by the
// caller.
func decodeTx(hash string, tx txResult) (txstatus.Lookup, error) {
	status := bytes.TrimSpace(tx.Status)
	if len(status) == 0 || bytes.Equal(status, []byte("null")) {
		return txstatus.Lookup{}, txstatus.Malformed("tx result has no status")
	}

	var simple string
	if err := json.Unmarshal(status, &simple); err == nil {
		switch simple {
		case "NotStarted", "Started":
			return txstatus.PendingLookup(), nil
		default:
			return txstatus.Lookup{}, txstatus.Malformed("unknown execution status %q", simple)
		}
	}

	var outcome map[string]json.RawMessage
	if err := json.Unmarshal(status, &outcome); err != nil {
		return txstatus.Lookup{}, txstatus.Malformed("execution status: %v", err)
	}
	if tx.TransactionOutcome.BlockHash == "" {
		return txstatus.Lookup{}, txstatus.Malformed("tx result has no transaction outcome block")
	}

	fee, err := tokensBurnt(tx)
	if err != nil {
		return txstatus.Lookup{}, err
	}

	receipt := txstatus.Receipt{
		Hash: hash,
		Fee:  common.FormatBigUnits(fee, yoctoDecimals),
	}

	_, okValue := outcome["SuccessValue"]
	_, okReceipt := outcome["SuccessReceiptId"]
	failure, failed := outcome["Failure"]
	switch {
	case okValue || okReceipt:
		receipt.Success = true
	case failed:
		receipt.RevertReason = failureReason(failure)
	default:
		return txstatus.Lookup{}, txstatus.Malformed("unknown execution status %s", status)
	}

	return txstatus.IncludedLookup(receipt), nil
}

// tokensBurnt sums the gas burnt by the transaction and all of its receipts.
func tokensBurnt(tx txResult) (*big.Int, error) {
	total := new(big.Int)
	for _, o := range append([]outcomeWithID{tx.TransactionOutcome}, tx.ReceiptsOutcome...) {
		if o.Outcome.TokensBurnt == "" {
			continue
		}
		n, ok := new(big.Int).SetString(o.Outcome.TokensBurnt, 10)
		if !ok {
			return nil, txstatus.Malformed("tokens_burnt %q of %s is not an integer", o.Outcome.TokensBurnt, o.ID)
		}
		total.Add(total, n)
	}

	return total, nil
}

// failureReason condenses a TxExecutionError to the name of its innermost error kind, followed
// by the contract's message for FunctionCallError, e.g.
// "FunctionCallError: Smart contract panicked: not enough balance".
func failureReason(raw json.RawMessage) string {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}

	name := ""
	for {
		m, ok := v.(map[string]any)
		if !ok || len(m) == 0 {
			if s, isStr := v.(string); isStr && s != "" {
				return s
			}
			if name != "" {
				return name
			}

			return string(raw)
		}

		if kind, ok := m["kind"]; ok {
			v = kind
			continue
		}
		if msg, ok := m["ExecutionError"].(string); ok {
			if name == "" {
				return msg
			}

			return name + ": " + msg
		}

		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		next, isMap := m[keys[0]].(map[string]any)
		if !isMap {
			if name != "" {
				return name
			}

			return fmt.Sprintf("%s: %v", keys[0], m[keys[0]])
		}
		name = keys[0]
		v = next
	}
}
