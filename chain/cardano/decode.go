package cardano

import (
	"encoding/json"
	"fmt"

	"github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

// lovelaceDecimals is the number of decimals of ADA expressed in lovelace.
const lovelaceDecimals = 6

type blockfrostTx struct {
	Hash          string `json:"hash"`
	BlockHeight   uint64 `json:"block_height"`
	Fees          string `json:"fees"`
	ValidContract *bool  `json:"valid_contract"`
}

// decodeTx maps a Blockfrost transaction onto a lookup. A transaction whose Plutus scripts failed
// phase-2 validation is still included and forfeits its collateral.
func decodeTx(hash string, body []byte) (txstatus.Lookup, error) {
	var tx blockfrostTx
	if err := json.Unmarshal(body, &tx); err != nil {
		return txstatus.Lookup{}, fmt.Errorf("decode tx: %w", err)
	}
	if tx.BlockHeight == 0 || tx.ValidContract == nil {
		return txstatus.Lookup{}, txstatus.Malformed("tx has no block_height or valid_contract")
	}

	fee, err := common.ParseUnits(tx.Fees, lovelaceDecimals)
	if err != nil {
		return txstatus.Lookup{}, txstatus.Malformed("fees: %v", err)
	}

	receipt := txstatus.Receipt{
		Hash:        hash,
		Success:     *tx.ValidContract,
		BlockHeight: tx.BlockHeight,
		Fee:         fee,
	}
	if !receipt.Success {
		receipt.RevertReason = "script validation failed"
	}

	return txstatus.IncludedLookup(receipt), nil
}
