package network

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// SolanaMetadata holds metadata specific to Solana networks.
type SolanaMetadata struct {
	Commitment string `yaml:"commitment"`
}

// TonMetadata holds metadata specific to TON networks.
type TonMetadata struct {
	ProofCheckPolicy string `yaml:"proof_check_policy"`
	ScanDepth        uint32 `yaml:"scan_depth"`
}

// CosmosMetadata holds metadata specific to Cosmos SDK networks.
type CosmosMetadata struct {
	FeeDenom    string `yaml:"fee_denom"`
	FeeDecimals int32  `yaml:"fee_decimals"`
	Insecure    bool   `yaml:"insecure"`
}

// TronMetadata holds metadata specific to Tron networks.
type TronMetadata struct {
	Insecure       bool `yaml:"insecure"`
	TimeoutSeconds int  `yaml:"timeout_seconds"`
}

// DecodeMetadata converts the metadata field from an any interface to a user-specified type using yaml marshaling.
// Use your own custom types or one of the predefined common types.
// Example usage:
//
//	md, err := DecodeMetadata[TonMetadata](network.Metadata)
//	if err != nil {
//	  // handle error
//	}
func DecodeMetadata[T any](metadata any) (T, error) {
	var target T
	if metadata == nil {
		return target, errors.New("metadata is nil")
	}

	// Marshal the metadata back to YAML bytes
	yamlBytes, err := yaml.Marshal(metadata)
	if err != nil {
		return target, fmt.Errorf("failed to marshal metadata to YAML: %w", err)
	}

	// Unmarshal into the target type
	if err := yaml.Unmarshal(yamlBytes, &target); err != nil {
		return target, fmt.Errorf("failed to unmarshal metadata to target type: %w", err)
	}

	return target, nil
}

// DecodeMetadataOrZero is DecodeMetadata for optional metadata: a network without metadata yields
// the zero value.
func DecodeMetadataOrZero[T any](metadata any) (T, error) {
	if metadata == nil {
		var zero T
		return zero, nil
	}

	return DecodeMetadata[T](metadata)
}
