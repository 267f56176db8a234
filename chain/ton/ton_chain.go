package ton

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xssnick/tonutils-go/address"
	"github.com/xssnick/tonutils-go/tlb"
	"github.com/xssnick/tonutils-go/ton"

	"github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

// DefaultScanDepth is the number of most recent account transactions searched for a hash.
const DefaultScanDepth = 32

// nanotonDecimals is the number of decimals of TON expressed in nanotons.
const nanotonDecimals = 9

type ChainMetadata = common.ChainMetadata

// Client is the subset of the liteserver API used to resolve transaction status.
type Client interface {
	CurrentMasterchainInfo(ctx context.Context) (*ton.BlockIDExt, error)
	GetAccount(ctx context.Context, block *ton.BlockIDExt, addr *address.Address) (*tlb.Account, error)
	ListTransactions(
		ctx context.Context, addr *address.Address, num uint32, lt uint64, txHash []byte,
	) ([]*tlb.Transaction, error)
}

var _ Client = ton.APIClientWrapped(nil)

// Chain represents a TON chain.
type Chain struct {
	ChainMetadata        // Contains canonical chain identifier
	Client        Client // Liteserver API client
	URL           string // Global config URL the liteserver pool was built from
	ScanDepth     uint32 // Transactions searched per lookup, DefaultScanDepth when zero
}

// LookupTransaction searches the latest transactions of sender for hash. Liteservers cannot
// look a transaction up by hash alone, so sender is required.
//
// TON has no pending state visible to liteservers: a transaction that is not found may still be
// in flight, which the resolver decides from the masterchain height.
func (c Chain) LookupTransaction(ctx context.Context, hash, sender string) (txstatus.Lookup, error) {
	want, err := parseHash(hash)
	if err != nil {
		return txstatus.Lookup{}, &txstatus.ChainError{Code: "invalid_hash", Message: err.Error()}
	}
	if sender == "" {
		return txstatus.Lookup{}, &txstatus.ChainError{Code: "sender_required", Message: "ton lookups are scoped to the sender account"}
	}
	addr, err := address.ParseAddr(sender)
	if err != nil {
		return txstatus.Lookup{}, &txstatus.ChainError{Code: "invalid_address", Message: err.Error()}
	}

	master, err := c.Client.CurrentMasterchainInfo(ctx)
	if err != nil {
		return txstatus.Lookup{}, fmt.Errorf("masterchain info: %w", liteError(err))
	}

	acc, err := c.Client.GetAccount(ctx, master, addr)
	if err != nil {
		return txstatus.Lookup{}, fmt.Errorf("get account: %w", liteError(err))
	}
	if acc == nil || acc.LastTxLT == 0 {
		return txstatus.NotFoundLookup(), nil
	}

	txs, err := c.Client.ListTransactions(ctx, addr, c.scanDepth(), acc.LastTxLT, acc.LastTxHash)
	if err != nil {
		if errors.Is(err, ton.ErrNoTransactionsWereFound) {
			return txstatus.NotFoundLookup(), nil
		}

		return txstatus.Lookup{}, fmt.Errorf("list transactions: %w", liteError(err))
	}

	for _, tx := range txs {
		if tx != nil && bytes.Equal(tx.Hash, want) {
			return decodeTransaction(hash, master.SeqNo, tx), nil
		}
	}

	return txstatus.NotFoundLookup(), nil
}

// LatestHeight returns the current masterchain seqno.
func (c Chain) LatestHeight(ctx context.Context) (uint64, error) {
	master, err := c.Client.CurrentMasterchainInfo(ctx)
	if err != nil {
		return 0, fmt.Errorf("masterchain info: %w", liteError(err))
	}

	return uint64(master.SeqNo), nil
}

func (c Chain) scanDepth() uint32 {
	if c.ScanDepth == 0 {
		return DefaultScanDepth
	}

	return c.ScanDepth
}

// decodeTransaction maps an account transaction onto a receipt. The block height is the
// masterchain seqno the transaction was observed at.
func decodeTransaction(hash string, seqNo uint32, tx *tlb.Transaction) txstatus.Lookup {
	receipt := txstatus.Receipt{
		Hash:        hash,
		Success:     true,
		BlockHeight: uint64(seqNo),
		Fee:         common.FormatBigUnits(tx.TotalFees.Coins.Nano(), nanotonDecimals),
	}

	if desc, ok := tx.Description.(tlb.TransactionDescriptionOrdinary); ok {
		if vm, ok := desc.ComputePhase.Phase.(tlb.ComputePhaseVM); ok && !vm.Success {
			receipt.Success = false
			receipt.RevertReason = "compute phase exit code " + strconv.Itoa(int(vm.Details.ExitCode))
		} else if desc.Aborted {
			receipt.Success = false
			receipt.RevertReason = "transaction aborted"
		}
	}

	return txstatus.IncludedLookup(receipt)
}

// parseHash accepts hex and base64 (standard or URL safe) encoded 32 byte hashes.
func parseHash(hash string) ([]byte, error) {
	h := strings.TrimPrefix(strings.TrimSpace(hash), "0x")
	if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
		return b, nil
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.URLEncoding} {
		if b, err := enc.DecodeString(h); err == nil && len(b) == 32 {
			return b, nil
		}
	}

	return nil, fmt.Errorf("%q is not a 32 byte hex or base64 hash", hash)
}

// liteError converts liteserver errors into txstatus.ChainError.
func liteError(err error) error {
	var lsErr ton.LSError
	if errors.As(err, &lsErr) {
		return &txstatus.ChainError{Code: strconv.Itoa(int(lsErr.Code)), Message: lsErr.Text}
	}

	return err
}
