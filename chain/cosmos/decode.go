package cosmos

import (
	"fmt"
	"math/big"

	"github.com/cosmos/cosmos-sdk/client/grpc/cmtservice"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"

	"github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

// decodeTx maps a GetTx response onto a lookup. A non zero code means the transaction was
// included but its messages failed.
func decodeTx(hash string, resp *txtypes.GetTxResponse, denom string, decimals int32) (txstatus.Lookup, error) {
	if resp == nil || resp.TxResponse == nil {
		return txstatus.Lookup{}, txstatus.Malformed("get tx response has no tx_response")
	}

	txResp := resp.TxResponse
	if txResp.Height <= 0 {
		return txstatus.Lookup{}, txstatus.Malformed("tx_response height %d", txResp.Height)
	}

	receipt := txstatus.Receipt{
		Hash:        hash,
		Success:     txResp.Code == 0,
		BlockHeight: uint64(txResp.Height),
		Fee:         common.FormatBigUnits(feeAmount(resp.Tx, denom), decimals),
	}
	if !receipt.Success {
		receipt.RevertReason = txResp.RawLog
		if receipt.RevertReason == "" {
			receipt.RevertReason = fmt.Sprintf("%s error code %d", txResp.Codespace, txResp.Code)
		}
	}

	return txstatus.IncludedLookup(receipt), nil
}

// feeAmount returns the fee paid in denom. Other fee coins are ignored.
func feeAmount(tx *txtypes.Tx, denom string) *big.Int {
	if tx == nil || tx.AuthInfo == nil || tx.AuthInfo.Fee == nil {
		return new(big.Int)
	}

	total := new(big.Int)
	for _, coin := range tx.AuthInfo.Fee.Amount {
		if coin.Denom == denom && !coin.Amount.IsNil() {
			total.Add(total, coin.Amount.BigInt())
		}
	}

	return total
}

// decodeLatestHeight prefers the SDK block and falls back to the cometbft block older nodes
// return.
func decodeLatestHeight(resp *cmtservice.GetLatestBlockResponse) (uint64, error) {
	if resp == nil {
		return 0, txstatus.Malformed("empty latest block response")
	}

	var height int64
	switch {
	case resp.SdkBlock != nil:
		height = resp.SdkBlock.Header.Height
	case resp.Block != nil: //nolint:staticcheck // Block is still returned by v0.47 nodes
		height = resp.Block.Header.Height //nolint:staticcheck // see above
	default:
		return 0, txstatus.Malformed("latest block response has no block")
	}

	if height <= 0 {
		return 0, txstatus.Malformed("latest block height %d", height)
	}

	return uint64(height), nil
}
