package sui

import (
	"math/big"
	"strconv"

	"github.com/block-vision/sui-go-sdk/models"

	"github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

// mistDecimals is the number of decimals of SUI expressed in MIST.
const mistDecimals = 9

const (
	statusSuccess = "success"
	statusFailure = "failure"
)

// decodeTransactionBlock maps a sui_getTransactionBlock response onto a lookup. A block without a
// checkpoint has been executed but not yet certified into the chain history.
func decodeTransactionBlock(hash string, resp models.SuiTransactionBlockResponse) (txstatus.Lookup, error) {
	if resp.Digest == "" {
		return txstatus.Lookup{}, txstatus.Malformed("transaction block response has no digest")
	}
	if resp.Checkpoint == "" {
		return txstatus.PendingLookup(), nil
	}

	checkpoint, err := strconv.ParseUint(resp.Checkpoint, 10, 64)
	if err != nil {
		return txstatus.Lookup{}, txstatus.Malformed("checkpoint %q: %v", resp.Checkpoint, err)
	}

	fee, err := gasFee(resp.Effects.GasUsed)
	if err != nil {
		return txstatus.Lookup{}, err
	}

	receipt := txstatus.Receipt{
		Hash:        hash,
		BlockHeight: checkpoint,
		Fee:         common.FormatBigUnits(fee, mistDecimals),
	}

	switch resp.Effects.Status.Status {
	case statusSuccess:
		receipt.Success = true
	case statusFailure:
		receipt.RevertReason = resp.Effects.Status.Error
	default:
		return txstatus.Lookup{}, txstatus.Malformed("unknown execution status %q", resp.Effects.Status.Status)
	}

	return txstatus.IncludedLookup(receipt), nil
}

// gasFee returns computation + storage - rebate, the net amount charged to the gas owner.
func gasFee(gas models.GasCostSummary) (*big.Int, error) {
	parts := []struct {
		name string
		v    string
		sign int
	}{
		{"computationCost", gas.ComputationCost, 1},
		{"storageCost", gas.StorageCost, 1},
		{"storageRebate", gas.StorageRebate, -1},
	}

	total := new(big.Int)
	for _, p := range parts {
		if p.v == "" {
			continue
		}
		n, ok := new(big.Int).SetString(p.v, 10)
		if !ok {
			return nil, txstatus.Malformed("%s %q is not an integer", p.name, p.v)
		}
		if p.sign < 0 {
			n.Neg(n)
		}
		total.Add(total, n)
	}

	return total, nil
}

