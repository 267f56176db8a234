package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"

	chaincommon "github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

// weiDecimals is the number of decimals of the native token expressed in wei.
const weiDecimals = 18

type ChainMetadata = chaincommon.ChainMetadata

// OnchainClient is the subset of the geth client used to resolve transaction status.
type OnchainClient interface {
	ContractCaller

	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	TransactionByHash(ctx context.Context, txHash common.Hash) (tx *types.Transaction, isPending bool, err error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Chain represents an EVM chain.
type Chain struct {
	ChainMetadata

	Client OnchainClient
	URL    string
}

// LookupTransaction reads the receipt of hash. Without a receipt the transaction may still sit
// in the node's pool, which TransactionByHash tells apart from an unknown hash. sender is
// only used to replay reverted calls when the transaction sender cannot be recovered.
func (c Chain) LookupTransaction(ctx context.Context, hash, sender string) (txstatus.Lookup, error) {
	if !isHexHash(hash) {
		return txstatus.Lookup{}, &txstatus.ChainError{Code: "invalid_hash", Message: fmt.Sprintf("%q is not a 32 byte hex hash", hash)}
	}
	txHash := common.HexToHash(hash)

	receipt, err := c.Client.TransactionReceipt(ctx, txHash)
	if err != nil {
		if !errors.Is(err, ethereum.NotFound) {
			return txstatus.Lookup{}, fmt.Errorf("transaction receipt: %w", rpcError(err))
		}

		// Receipts are indexed after the block, so a known transaction without one is pending.
		_, _, err = c.Client.TransactionByHash(ctx, txHash)
		switch {
		case err == nil:
			return txstatus.PendingLookup(), nil
		case errors.Is(err, ethereum.NotFound):
			return txstatus.NotFoundLookup(), nil
		default:
			return txstatus.Lookup{}, fmt.Errorf("transaction by hash: %w", rpcError(err))
		}
	}

	if receipt == nil || receipt.BlockNumber == nil {
		return txstatus.Lookup{}, txstatus.Malformed("receipt of %s has no block number", hash)
	}

	fee := new(big.Int).SetUint64(receipt.GasUsed)
	if receipt.EffectiveGasPrice != nil {
		fee.Mul(fee, receipt.EffectiveGasPrice)
	} else {
		fee.SetInt64(0)
	}

	out := txstatus.Receipt{
		Hash:        hash,
		Success:     receipt.Status == types.ReceiptStatusSuccessful,
		BlockHeight: receipt.BlockNumber.Uint64(),
		Fee:         chaincommon.FormatBigUnits(fee, weiDecimals),
	}
	if !out.Success {
		out.RevertReason = c.revertReason(ctx, txHash, receipt, sender)
	}

	return txstatus.IncludedLookup(out), nil
}

// LatestHeight returns the latest block number.
func (c Chain) LatestHeight(ctx context.Context) (uint64, error) {
	n, err := c.Client.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("block number: %w", rpcError(err))
	}

	return n, nil
}

// revertReason replays the reverted transaction at its block. A reason that cannot be obtained
// leaves the receipt without one rather than failing the lookup.
func (c Chain) revertReason(ctx context.Context, txHash common.Hash, receipt *types.Receipt, sender string) string {
	tx, _, err := c.Client.TransactionByHash(ctx, txHash)
	if err != nil || tx == nil {
		return ""
	}

	from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
	if err != nil {
		if !common.IsHexAddress(sender) {
			return ""
		}
		from = common.HexToAddress(sender)
	}

	reason, err := getErrorReasonFromTx(ctx, c.Client, from, tx, receipt)
	if err != nil {
		return ""
	}

	return reason
}

func isHexHash(hash string) bool {
	h := hash
	if len(h) >= 2 && (h[:2] == "0x" || h[:2] == "0X") {
		h = h[2:]
	}
	if len(h) != 2*common.HashLength {
		return false
	}
	for _, r := range h {
		if !('0' <= r && r <= '9' || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F') {
			return false
		}
	}

	return true
}

// rpcError converts geth HTTP errors into txstatus.HTTPError. JSON-RPC errors already expose
// their code through ErrorCode.
func rpcError(err error) error {
	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		return &txstatus.HTTPError{StatusCode: httpErr.StatusCode, Body: string(httpErr.Body)}
	}

	return err
}
