package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/google/uuid"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
	"github.com/smartcontractkit/chainlink-wallet-core/pkg/logger"
)

const (
	// Default retry configuration for RPC calls
	RPCDefaultRetryAttempts = 1
	RPCDefaultRetryDelay    = 1000 * time.Millisecond
	RPCDefaultRetryTimeout  = 10 * time.Second

	// Default retry configuration for dialing RPC endpoints
	RPCDefaultDialRetryAttempts = 1
	RPCDefaultDialRetryDelay    = 1000 * time.Millisecond
	RPCDefaultDialTimeout       = 10 * time.Second

	// Default timeout for health checks
	RPCDefaultHealthCheckTimeout = 2 * time.Second
)

// RPC is a named JSON-RPC endpoint.
type RPC struct {
	Name    string
	HTTPURL string
}

type RetryConfig struct {
	Attempts     uint
	Delay        time.Duration
	Timeout      time.Duration
	DialAttempts uint
	DialDelay    time.Duration
	DialTimeout  time.Duration
}

func defaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts:     RPCDefaultRetryAttempts,
		Delay:        RPCDefaultRetryDelay,
		Timeout:      RPCDefaultRetryTimeout,
		DialAttempts: RPCDefaultDialRetryAttempts,
		DialDelay:    RPCDefaultDialRetryDelay,
		DialTimeout:  RPCDefaultDialTimeout,
	}
}

// WithRetryConfig overrides the retry configuration of a MultiClient.
func WithRetryConfig(cfg RetryConfig) func(*MultiClient) {
	return func(mc *MultiClient) {
		mc.RetryConfig = cfg
	}
}

// MultiClient should comply with the OnchainClient interface
var _ OnchainClient = &MultiClient{}

// MultiClient fails over between several RPC endpoints of the same chain. The endpoint that
// last answered is tried first on the next call.
type MultiClient struct {
	*ethclient.Client
	Backups     []*ethclient.Client
	RetryConfig RetryConfig
	lggr        logger.Logger
	chainName   string
	mu          sync.RWMutex
}

// rpcHealthCheck performs a basic health check on the RPC client by calling eth_blockNumber
func (mc *MultiClient) rpcHealthCheck(ctx context.Context, client *ethclient.Client) error {
	timeoutCtx, cancel := context.WithTimeout(ctx, RPCDefaultHealthCheckTimeout)
	defer cancel()

	// Try to get the latest block number
	_, err := client.BlockNumber(timeoutCtx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	return nil
}

// NewMultiClient dials every endpoint and keeps those that pass a health check, in order.
func NewMultiClient(
	ctx context.Context, lggr logger.Logger, id chain.ID, rpcs []RPC, opts ...func(client *MultiClient),
) (*MultiClient, error) {
	if len(rpcs) == 0 {
		return nil, errors.New("no RPCs provided, need at least one")
	}
	if id.Family() != chain.FamilyEVM {
		return nil, fmt.Errorf("chain %s is not an evm chain", id)
	}

	mc := MultiClient{lggr: lggr, chainName: id.String()}
	mc.RetryConfig = defaultRetryConfig()

	for _, opt := range opts {
		opt(&mc)
	}

	clients := make([]*ethclient.Client, 0, len(rpcs))
	for i, r := range rpcs {
		client, err := mc.dialWithRetry(ctx, r)
		if err != nil {
			lggr.Warnf("failed to dial client %d for RPC '%s' - %s, trying with the next one: %v", i, r.Name, mc.chainName, err)

			continue
		}
		if err := mc.rpcHealthCheck(ctx, client); err != nil {
			lggr.Warnf("health check failed for client %d for RPC '%s' - %s, trying with the next one: %v", i, r.Name, mc.chainName, err)
			client.Close()

			continue
		}
		clients = append(clients, client)
	}

	if len(clients) == 0 {
		return nil, errors.New("no valid RPC clients created")
	}

	mc.Client = clients[0]
	mc.Backups = clients[1:]

	return &mc, nil
}

// TransactionReceipt returns the receipt of txHash. ethereum.NotFound is a definitive answer and
// is returned without trying the backups.
func (mc *MultiClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt
	err := mc.retryWithBackups(ctx, "TransactionReceipt", func(ct context.Context, client *ethclient.Client) error {
		var err error
		receipt, err = client.TransactionReceipt(ct, txHash)

		return err
	})

	return receipt, err
}

// TransactionByHash returns the transaction with hash txHash and whether it is still pending.
func (mc *MultiClient) TransactionByHash(ctx context.Context, txHash common.Hash) (*types.Transaction, bool, error) {
	var (
		tx        *types.Transaction
		isPending bool
	)
	err := mc.retryWithBackups(ctx, "TransactionByHash", func(ct context.Context, client *ethclient.Client) error {
		var err error
		tx, isPending, err = client.TransactionByHash(ct, txHash)

		return err
	})

	return tx, isPending, err
}

func (mc *MultiClient) BlockNumber(ctx context.Context) (uint64, error) {
	var n uint64
	err := mc.retryWithBackups(ctx, "BlockNumber", func(ct context.Context, client *ethclient.Client) error {
		var err error
		n, err = client.BlockNumber(ct)

		return err
	})

	return n, err
}

func (mc *MultiClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var result []byte
	err := mc.retryWithBackups(ctx, "CallContract", func(ct context.Context, client *ethclient.Client) error {
		var err error
		result, err = client.CallContract(ct, msg, blockNumber)

		return err
	})

	return result, err
}

func (mc *MultiClient) retryWithBackups(ctx context.Context, opName string, op func(context.Context, *ethclient.Client) error) error {
	var err error
	traceID := uuid.New()

	for rpcIndex, client := range mc.clients() {
		retryCount := 0
		err2 := retry.Do(func() error {
			timeoutCtx, cancel := ensureTimeout(ctx, mc.RetryConfig.Timeout)
			defer cancel()

			err = op(timeoutCtx, client)
			if errors.Is(err, ethereum.NotFound) {
				return retry.Unrecoverable(err)
			}
			if err != nil {
				mc.lggr.Warnf("traceID %q: chain %q: op: %q: client index %d: failed execution - retryable error '%s'", traceID.String(), mc.chainName, opName, rpcIndex, maybeDataErr(err))
				return err
			}

			// If the operation was successful, check if we need to reorder the RPCs
			mc.reorderRPCs(rpcIndex)

			return nil
		}, retry.Context(ctx), retry.Attempts(mc.RetryConfig.Attempts), retry.Delay(mc.RetryConfig.Delay),
			retry.OnRetry(func(n uint, err error) { retryCount++ }))
		if err2 == nil {
			if retryCount > 0 {
				mc.lggr.Infof("traceID %q: chain %q: op: %q: client index %d: successfully executed after %d retry", traceID.String(), mc.chainName, opName, rpcIndex, retryCount)
			}

			return nil
		}
		if errors.Is(err, ethereum.NotFound) {
			mc.reorderRPCs(rpcIndex)
			return err
		}
		if ctx.Err() != nil {
			return errors.Join(err, ctx.Err())
		}
		mc.lggr.Infof("traceID %q: chain %q: op: %q: client index %d: failed, trying next client", traceID.String(), mc.chainName, opName, rpcIndex)
	}

	return errors.Join(err, fmt.Errorf("all backup clients failed for chain %q", mc.chainName))
}

func (mc *MultiClient) dialWithRetry(ctx context.Context, r RPC) (*ethclient.Client, error) {
	if r.HTTPURL == "" {
		return nil, fmt.Errorf("rpc %q has no http url", r.Name)
	}

	traceID := uuid.New()
	var client *ethclient.Client
	retryCount := 0
	err := retry.Do(func() error {
		dialCtx, cancel := context.WithTimeout(ctx, mc.RetryConfig.DialTimeout)
		defer cancel()

		var err2 error
		mc.lggr.Debugf("traceID %q: chain %q: rpc: %q: dialing endpoint '%s'", traceID.String(), mc.chainName, r.Name, r.HTTPURL)
		client, err2 = ethclient.DialContext(dialCtx, r.HTTPURL)
		if err2 != nil {
			mc.lggr.Warnf("traceID %q: chain %q: rpc: %q: dialing failed - retryable error: %s: %v", traceID.String(), mc.chainName, r.Name, r.HTTPURL, err2)
			return err2
		}

		return nil
	}, retry.Context(ctx), retry.Attempts(mc.RetryConfig.DialAttempts), retry.Delay(mc.RetryConfig.DialDelay),
		retry.OnRetry(func(n uint, err error) { retryCount++ }))

	if err != nil {
		return nil, errors.Join(err, fmt.Errorf("failed to dial endpoint '%s' for RPC %s for chain %s after retries", r.HTTPURL, r.Name, mc.chainName))
	}
	if retryCount > 0 {
		mc.lggr.Infof("traceID %q: chain %q: rpc: %q: successfully dialed endpoint '%s' after %d retries", traceID.String(), mc.chainName, r.Name, r.HTTPURL, retryCount)
	}

	return client, nil
}

// ensureTimeout checks if the parent context has a deadline.
// If it does, it returns a new cancelable context using the parent's deadline.
// If it doesn't, it creates a new context with the specified timeout.
func ensureTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	// check if the parent context already has a deadline
	if _, hasDeadline := parent.Deadline(); hasDeadline {
		// derive a new cancelable context from the parent context with the same deadline
		return context.WithCancel(parent)
	}

	// create a new context with the specified timeout
	return context.WithTimeout(parent, timeout)
}

// reorderRPCs reorders the RPCs based on the latest call.
// If the default RPC failed all attempts, it will be moved to the end of the backup list.
// If backup RPCs also failed, they will be moved to the end of the backup list.
// If the primary RPC worked, it will remain the first in the list.
func (mc *MultiClient) reorderRPCs(rpcIndex int) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	if rpcIndex < 1 || len(mc.Backups) == 0 {
		return // No need to reorder if the first RPC is still the default or we don't have backups
	}

	// Find the index of the backupRPC
	newDefaultRPCIndex := rpcIndex - 1
	newDefaultRPC := mc.Backups[newDefaultRPCIndex]

	// Reorder the failed backups to the end of the list
	reordered := make([]*ethclient.Client, 0, len(mc.Backups))
	reordered = append(reordered, mc.Backups[newDefaultRPCIndex+1:]...)
	reordered = append(reordered, mc.Backups[:newDefaultRPCIndex]...)
	reordered = append(reordered, mc.Client)

	mc.Backups = reordered
	mc.Client = newDefaultRPC
}

func (mc *MultiClient) clients() []*ethclient.Client {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	return append([]*ethclient.Client{mc.Client}, mc.Backups...)
}

func maybeDataErr(err error) error {
	//revive:disable
	var d rpc.DataError
	ok := errors.As(err, &d)
	if ok {
		return fmt.Errorf("%s: %v", d.Error(), d.ErrorData())
	}

	return err
}
