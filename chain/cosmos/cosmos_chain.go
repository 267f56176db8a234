package cosmos

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/cosmos/cosmos-sdk/client/grpc/cmtservice"
	txtypes "github.com/cosmos/cosmos-sdk/types/tx"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

const (
	// DefaultFeeDenom is the base denomination of the Cosmos Hub staking token.
	DefaultFeeDenom = "uatom"
	// DefaultFeeDecimals converts DefaultFeeDenom amounts to ATOM.
	DefaultFeeDecimals = 6
)

type ChainMetadata = common.ChainMetadata

// TxService is the subset of the cosmos.tx.v1beta1 gRPC service used to resolve transaction status.
type TxService interface {
	GetTx(ctx context.Context, in *txtypes.GetTxRequest, opts ...grpc.CallOption) (*txtypes.GetTxResponse, error)
}

// BlockService is the subset of the cometbft gRPC service used to read the chain head.
type BlockService interface {
	GetLatestBlock(
		ctx context.Context, in *cmtservice.GetLatestBlockRequest, opts ...grpc.CallOption,
	) (*cmtservice.GetLatestBlockResponse, error)
}

var (
	_ TxService    = txtypes.ServiceClient(nil)
	_ BlockService = cmtservice.ServiceClient(nil)
)

// Chain represents a Cosmos SDK chain read over gRPC.
type Chain struct {
	ChainMetadata

	Tx     TxService
	Blocks BlockService
	URL    string

	// FeeDenom and FeeDecimals select the fee coin reported in receipts.
	FeeDenom    string
	FeeDecimals int32
}

// LookupTransaction fetches the indexed transaction with hash. Cosmos nodes only index included
// transactions so there is no pending state. sender is unused.
func (c Chain) LookupTransaction(ctx context.Context, hash, _ string) (txstatus.Lookup, error) {
	h := strings.TrimPrefix(strings.TrimPrefix(hash, "0x"), "0X")
	if b, err := hex.DecodeString(h); err != nil || len(b) != 32 {
		return txstatus.Lookup{}, &txstatus.ChainError{Code: "invalid_hash", Message: fmt.Sprintf("%q is not a 32 byte hex hash", hash)}
	}

	resp, err := c.Tx.GetTx(ctx, &txtypes.GetTxRequest{Hash: strings.ToUpper(h)})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return txstatus.NotFoundLookup(), nil
		}

		return txstatus.Lookup{}, fmt.Errorf("get tx: %w", err)
	}

	return decodeTx(hash, resp, c.feeDenom(), c.feeDecimals())
}

// LatestHeight returns the height of the latest committed block.
func (c Chain) LatestHeight(ctx context.Context) (uint64, error) {
	resp, err := c.Blocks.GetLatestBlock(ctx, &cmtservice.GetLatestBlockRequest{})
	if err != nil {
		return 0, fmt.Errorf("get latest block: %w", err)
	}

	return decodeLatestHeight(resp)
}

func (c Chain) feeDenom() string {
	if c.FeeDenom == "" {
		return DefaultFeeDenom
	}

	return c.FeeDenom
}

func (c Chain) feeDecimals() int32 {
	if c.FeeDenom == "" {
		return DefaultFeeDecimals
	}

	return c.FeeDecimals
}
