package stellar

import (
	"fmt"
	"strings"
	"unicode"

	protocol "github.com/stellar/go-stellar-sdk/protocols/rpc"
	"github.com/stellar/go-stellar-sdk/xdr"

	chaincommon "github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

// stroopDecimals is the number of decimals of XLM expressed in stroops.
const stroopDecimals = 7

// decodeTransaction maps a getTransaction response onto a lookup. The status of the response
// decides the outcome; the fee and failure code come from the TransactionResult XDR.
func decodeTransaction(hash string, resp protocol.GetTransactionResponse) (txstatus.Lookup, error) {
	switch resp.Status {
	case protocol.TransactionStatusNotFound:
		return txstatus.NotFoundLookup(), nil
	case protocol.TransactionStatusSuccess, protocol.TransactionStatusFailed:
	default:
		return txstatus.Lookup{}, txstatus.Malformed("unknown transaction status %q", resp.Status)
	}

	if resp.Ledger == 0 {
		return txstatus.Lookup{}, txstatus.Malformed("transaction has no ledger")
	}

	var result xdr.TransactionResult
	if err := xdr.SafeUnmarshalBase64(resp.ResultXDR, &result); err != nil {
		return txstatus.Lookup{}, txstatus.Malformed("result xdr: %v", err)
	}
	if result.FeeCharged < 0 {
		return txstatus.Lookup{}, txstatus.Malformed("negative fee charged %d", result.FeeCharged)
	}

	receipt := txstatus.Receipt{
		Hash:        hash,
		Success:     resp.Status == protocol.TransactionStatusSuccess,
		BlockHeight: uint64(resp.Ledger),
		Fee:         chaincommon.FormatUnits(uint64(result.FeeCharged), stroopDecimals),
	}
	if !receipt.Success {
		receipt.RevertReason = resultCodeName(result.Result.Code)
	}

	return txstatus.IncludedLookup(receipt), nil
}

// resultCodeName renders a result code the way Horizon does, e.g. TransactionResultCodeTxBadSeq
// becomes "tx_bad_seq".
func resultCodeName(code xdr.TransactionResultCode) string {
	name := strings.TrimPrefix(code.String(), "TransactionResultCode")
	if name == "" {
		return fmt.Sprintf("tx_result_code_%d", int32(code))
	}

	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}

	return b.String()
}
