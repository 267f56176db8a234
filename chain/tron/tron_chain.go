package tron

import (
	"context"
	"fmt"
	"strings"

	"github.com/fbsobreira/gotron-sdk/pkg/client"
	"github.com/fbsobreira/gotron-sdk/pkg/proto/api"
	"github.com/fbsobreira/gotron-sdk/pkg/proto/core"

	"github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

// sunDecimals is the number of decimals of TRX expressed in SUN.
const sunDecimals = 6

// ChainMetadata = generic metadata from the framework
type ChainMetadata = common.ChainMetadata

// Client is the subset of the Tron full node gRPC client used to resolve transaction status.
type Client interface {
	GetTransactionInfoByID(id string) (*core.TransactionInfo, error)
	GetTransactionByID(id string) (*core.Transaction, error)
	GetNowBlock() (*api.BlockExtention, error)
}

var _ Client = (*client.GrpcClient)(nil)

// Chain represents a Tron chain
type Chain struct {
	ChainMetadata        // Chain identifier and metadata
	Client        Client // gRPC client to Tron full node
	URL           string // Full node gRPC address
}

// LookupTransaction reads the transaction info of hash, which only exists once the transaction
// is in a block. A transaction the node knows without info is still waiting to be packed.
// sender is unused.
func (c Chain) LookupTransaction(ctx context.Context, hash, _ string) (txstatus.Lookup, error) {
	id := strings.TrimPrefix(hash, "0x")

	info, err := common.CallContext(ctx, func() (*core.TransactionInfo, error) {
		return c.Client.GetTransactionInfoByID(id)
	})
	if err == nil {
		return decodeTransactionInfo(hash, info)
	}
	if !isNotFound(err) {
		return txstatus.Lookup{}, fmt.Errorf("get transaction info: %w", err)
	}

	_, err = common.CallContext(ctx, func() (*core.Transaction, error) {
		return c.Client.GetTransactionByID(id)
	})
	switch {
	case err == nil:
		return txstatus.PendingLookup(), nil
	case isNotFound(err):
		return txstatus.NotFoundLookup(), nil
	default:
		return txstatus.Lookup{}, fmt.Errorf("get transaction: %w", err)
	}
}

// LatestHeight returns the number of the node's current block.
func (c Chain) LatestHeight(ctx context.Context) (uint64, error) {
	block, err := common.CallContext(ctx, c.Client.GetNowBlock)
	if err != nil {
		return 0, fmt.Errorf("get now block: %w", err)
	}

	number := block.GetBlockHeader().GetRawData().GetNumber()
	if number < 0 {
		return 0, txstatus.Malformed("negative block number %d", number)
	}

	return uint64(number), nil
}

// isNotFound matches the errors gotron-sdk returns when the node answers with an empty message.
func isNotFound(err error) bool {
	msg := err.Error()

	return strings.Contains(msg, "transaction info not found") || strings.Contains(msg, "transaction not found")
}

// decodeTransactionInfo maps a GetTransactionInfoById response onto a receipt. Plain transfers
// carry no contract receipt result, so the info result decides success and the contract result
// only refines it.
func decodeTransactionInfo(hash string, info *core.TransactionInfo) (txstatus.Lookup, error) {
	if info == nil {
		return txstatus.Lookup{}, txstatus.Malformed("empty transaction info")
	}
	if info.GetBlockNumber() < 0 || info.GetFee() < 0 {
		return txstatus.Lookup{}, txstatus.Malformed("negative block number or fee")
	}

	receipt := txstatus.Receipt{
		Hash:        hash,
		Success:     true,
		BlockHeight: uint64(info.GetBlockNumber()),
		Fee:         common.FormatUnits(uint64(info.GetFee()), sunDecimals),
	}

	if info.GetResult() == core.TransactionInfo_FAILED {
		receipt.Success = false
		receipt.RevertReason = string(info.GetResMessage())
	}

	switch result := info.GetReceipt().GetResult(); result {
	case core.Transaction_Result_SUCCESS, core.Transaction_Result_DEFAULT, core.Transaction_Result_UNKNOWN:
	default:
		receipt.Success = false
		if receipt.RevertReason == "" {
			receipt.RevertReason = result.String()
		}
	}

	return txstatus.IncludedLookup(receipt), nil
}
