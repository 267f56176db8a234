package solana

import (
	"context"
	"errors"
	"fmt"

	sollib "github.com/gagliardetto/solana-go"
	solrpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/smartcontractkit/chainlink-wallet-core/chain/internal/common"
	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

const SolDefaultCommitment = solrpc.CommitmentConfirmed

type ChainMetadata = common.ChainMetadata

// Client is the subset of the solana-go RPC client used to resolve transaction status.
type Client interface {
	GetSignatureStatuses(
		ctx context.Context, searchTransactionHistory bool, sigs ...sollib.Signature,
	) (*solrpc.GetSignatureStatusesResult, error)
	GetTransaction(
		ctx context.Context, sig sollib.Signature, opts *solrpc.GetTransactionOpts,
	) (*solrpc.GetTransactionResult, error)
	GetSlot(ctx context.Context, commitment solrpc.CommitmentType) (uint64, error)
}

var _ Client = (*solrpc.Client)(nil)

// Chain represents a Solana chain.
type Chain struct {
	ChainMetadata

	Client Client
	URL    string
	// Commitment used for transaction and slot queries. Defaults to SolDefaultCommitment.
	Commitment solrpc.CommitmentType
}

// LookupTransaction reads the signature status of hash and, once the transaction is confirmed,
// its metadata for the fee and execution error. sender is unused.
func (c Chain) LookupTransaction(ctx context.Context, hash, _ string) (txstatus.Lookup, error) {
	sig, err := sollib.SignatureFromBase58(hash)
	if err != nil {
		return txstatus.Lookup{}, &txstatus.ChainError{Code: "invalid_signature", Message: err.Error()}
	}

	statuses, err := c.Client.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		if errors.Is(err, solrpc.ErrNotFound) {
			return txstatus.NotFoundLookup(), nil
		}

		return txstatus.Lookup{}, fmt.Errorf("get signature statuses: %w", rpcError(err))
	}

	known, err := decodeSignatureStatus(statuses)
	if err != nil || known.Kind != txstatus.LookupIncluded {
		return known, err
	}

	ver := uint64(0)
	tx, err := c.Client.GetTransaction(ctx, sig, &solrpc.GetTransactionOpts{
		Commitment:                     c.commitment(),
		MaxSupportedTransactionVersion: &ver,
	})
	if err != nil {
		if errors.Is(err, solrpc.ErrNotFound) {
			// The status cache can run ahead of the node's transaction history.
			return txstatus.PendingLookup(), nil
		}

		return txstatus.Lookup{}, fmt.Errorf("get transaction: %w", rpcError(err))
	}

	return decodeTransaction(hash, tx)
}

// LatestHeight returns the current slot at the chain's commitment.
func (c Chain) LatestHeight(ctx context.Context) (uint64, error) {
	slot, err := c.Client.GetSlot(ctx, c.commitment())
	if err != nil {
		return 0, fmt.Errorf("get slot: %w", rpcError(err))
	}

	return slot, nil
}

func (c Chain) commitment() solrpc.CommitmentType {
	if c.Commitment == "" {
		return SolDefaultCommitment
	}

	return c.Commitment
}
