package common //nolint:revive // var-naming: This is an internal package for common code that is shared between chains.

import (
	"fmt"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
)

// ChainMetadata provides metadata about a chain.
type ChainMetadata struct {
	Chain chain.ID
}

// ChainID returns the chain identifier
func (c ChainMetadata) ChainID() chain.ID {
	return c.Chain
}

// String returns chain display name and short name "<display name> (<name>)"
func (c ChainMetadata) String() string {
	if !c.Chain.Valid() {
		return ""
	}

	return fmt.Sprintf("%s (%s)", c.Chain.DisplayName(), c.Chain.Name())
}

// Name returns the human readable name of the chain
func (c ChainMetadata) Name() string {
	return c.Chain.DisplayName()
}

// Family returns the family of the chain
func (c ChainMetadata) Family() string {
	return c.Chain.Family()
}

// SelectorName returns the chain-selectors name of the chain's mainnet, e.g. "solana-mainnet".
// Chains not tracked by chain-selectors return an empty string.
func (c ChainMetadata) SelectorName() string {
	return c.Chain.SelectorName()
}
