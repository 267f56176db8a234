package solana

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	solrpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"

	"github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

// lamportsDecimals is the number of decimals of SOL expressed in lamports.
const lamportsDecimals = 9

// decodeSignatureStatus maps a getSignatureStatuses response for a single signature. An
// included lookup only signals that the transaction metadata should be fetched.
func decodeSignatureStatus(res *solrpc.GetSignatureStatusesResult) (txstatus.Lookup, error) {
	if res == nil || len(res.Value) == 0 || res.Value[0] == nil {
		return txstatus.NotFoundLookup(), nil
	}

	st := res.Value[0]
	switch st.ConfirmationStatus {
	case solrpc.ConfirmationStatusProcessed:
		return txstatus.PendingLookup(), nil
	case solrpc.ConfirmationStatusConfirmed, solrpc.ConfirmationStatusFinalized:
	case "":
		// Nodes that omit the confirmation status report rooted transactions with null
		// confirmations.
		if st.Confirmations != nil {
			return txstatus.PendingLookup(), nil
		}
	default:
		return txstatus.Lookup{}, txstatus.Malformed("unknown confirmation status %q", st.ConfirmationStatus)
	}

	return txstatus.IncludedLookup(txstatus.Receipt{
		BlockHeight: st.Slot,
		Success:     st.Err == nil,
	}), nil
}

// decodeTransaction maps a getTransaction response onto a receipt.
func decodeTransaction(hash string, tx *solrpc.GetTransactionResult) (txstatus.Lookup, error) {
	if tx == nil || tx.Meta == nil {
		return txstatus.Lookup{}, txstatus.Malformed("transaction %s has no metadata", hash)
	}

	receipt := txstatus.Receipt{
		Hash:        hash,
		Success:     tx.Meta.Err == nil,
		BlockHeight: tx.Slot,
		Fee:         common.FormatUnits(tx.Meta.Fee, lamportsDecimals),
	}
	if !receipt.Success {
		receipt.RevertReason = revertReason(tx.Meta)
	}

	return txstatus.IncludedLookup(receipt), nil
}

// revertReason prefers the failing program log line and falls back to the JSON encoded
// transaction error, e.g. {"InstructionError":[0,{"Custom":1}]}.
func revertReason(meta *solrpc.TransactionMeta) string {
	for i := len(meta.LogMessages) - 1; i >= 0; i-- {
		if strings.Contains(meta.LogMessages[i], " failed: ") {
			return meta.LogMessages[i]
		}
	}

	b, err := json.Marshal(meta.Err)
	if err != nil {
		return fmt.Sprint(meta.Err)
	}

	return string(b)
}

// rpcError converts solana-go JSON-RPC and HTTP errors into their txstatus equivalents.
func rpcError(err error) error {
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		return &txstatus.ChainError{Code: strconv.Itoa(rpcErr.Code), Message: rpcErr.Message}
	}

	var httpErr *jsonrpc.HTTPError
	if errors.As(err, &httpErr) {
		return &txstatus.HTTPError{StatusCode: httpErr.Code, Body: httpErr.Error()}
	}

	return err
}
