package txstatus

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
)

// Request identifies a submitted transaction whose status should be resolved.
type Request struct {
	Chain chain.ID
	// Hash is the chain-native transaction identifier (hash, signature, digest or txid).
	Hash string
	// ReferenceBlock is the chain height observed when the transaction was submitted, as a
	// decimal string in the chain's height unit (slot, block number, ledger, checkpoint, ...).
	// Block hashes are not accepted: Validate rejects any value that is not an unsigned
	// decimal height with ErrInvalidRequest.
	ReferenceBlock string
	// Sender is the submitting account. Only chains whose lookups are scoped to an account use it.
	Sender string
}

func (r Request) String() string {
	return fmt.Sprintf("%s:%s", r.Chain, r.Hash)
}

// Validate checks the request can be resolved.
func (r Request) Validate() error {
	if !r.Chain.Valid() {
		return fmt.Errorf("%w: unsupported chain %s", ErrInvalidRequest, r.Chain)
	}
	if strings.TrimSpace(r.Hash) == "" {
		return fmt.Errorf("%w: empty transaction hash", ErrInvalidRequest)
	}
	if _, err := r.referenceHeight(); err != nil {
		return err
	}

	return nil
}

func (r Request) referenceHeight() (uint64, error) {
	ref := strings.TrimSpace(r.ReferenceBlock)
	if ref == "" {
		return 0, fmt.Errorf("%w: reference block is required", ErrInvalidRequest)
	}

	h, err := strconv.ParseUint(ref, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: reference block %q is not a block height", ErrInvalidRequest, r.ReferenceBlock)
	}

	return h, nil
}
