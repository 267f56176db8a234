package network

import (
	"errors"
	"fmt"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
)

// NetworkType represents the type of network, which can either be mainnet or testnet.
type NetworkType string

const (
	NetworkTypeMainnet NetworkType = "mainnet"
	NetworkTypeTestnet NetworkType = "testnet"
)

// Network represents the configuration of one chain.
type Network struct {
	Chain chain.ID    `yaml:"chain"`
	Type  NetworkType `yaml:"type"`
	// Enabled defaults to true. A disabled network stays in the manifest but is not provisioned.
	Enabled *bool `yaml:"enabled,omitempty"`
	// NotFoundDepth overrides the default number of blocks after the reference block past which
	// a missing transaction is reported as not found.
	NotFoundDepth uint64     `yaml:"not_found_depth,omitempty"`
	RateLimit     *RateLimit `yaml:"rate_limit,omitempty"`
	RPCs          []RPC      `yaml:"rpcs"`
	Metadata      any        `yaml:"metadata,omitempty"`
}

// ChainFamily returns the family of the network's chain.
func (n *Network) ChainFamily() string {
	return n.Chain.Family()
}

// IsEnabled reports whether the network should be provisioned.
func (n *Network) IsEnabled() bool {
	return n.Enabled == nil || *n.Enabled
}

// Validate validates the network configuration to ensure that all required fields are set.
func (n *Network) Validate() error {
	if !n.Chain.Valid() {
		return errors.New("chain is required")
	}

	if n.Type == "" {
		return errors.New("type is required")
	}

	if len(n.RPCs) == 0 {
		return errors.New("at least one RPC is required")
	}

	for i, rpc := range n.RPCs {
		if rpc.PreferredEndpoint() == "" {
			return fmt.Errorf("rpc %d (%s): no url for preferred scheme %q", i, rpc.RPCName, rpc.scheme())
		}
	}

	if n.RateLimit != nil {
		if err := n.RateLimit.Validate(); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	return nil
}

// RateLimit caps the request rate sent to a network's RPCs.
type RateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Validate checks that the limit allows at least one request.
func (r RateLimit) Validate() error {
	if r.RPS <= 0 {
		return errors.New("rps must be positive")
	}
	if r.Burst <= 0 {
		return errors.New("burst must be positive")
	}

	return nil
}

// RPC represents an RPC configuration in the flattened structure
type RPC struct {
	RPCName            string `yaml:"rpc_name"`
	PreferredURLScheme string `yaml:"preferred_url_scheme"`
	HTTPURL            string `yaml:"http_url"`
	WSURL              string `yaml:"ws_url,omitempty"`
	GRPCURL            string `yaml:"grpc_url,omitempty"`
}

// PreferredEndpoint returns the correct endpoint based on the preferred URL scheme. By default, it
// returns the HTTP URL.
func (rpc *RPC) PreferredEndpoint() string {
	switch rpc.scheme() {
	case "ws":
		return rpc.WSURL
	case "grpc":
		return rpc.GRPCURL
	default:
		return rpc.HTTPURL
	}
}

func (rpc *RPC) scheme() string {
	if rpc.PreferredURLScheme == "" {
		return "http"
	}

	return rpc.PreferredURLScheme
}
