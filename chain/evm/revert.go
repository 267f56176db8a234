package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// ContractCaller is an interface that defines the CallContract method. This is copied from the
// go-ethereum package method to limit the scope of dependencies provided to the functions.
type ContractCaller interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// getErrorReasonFromTx replays tx with eth_call at the block it was mined in and returns the
// reason the node reports for the revert.
func getErrorReasonFromTx(
	ctx context.Context,
	caller ContractCaller,
	from common.Address,
	tx *types.Transaction,
	receipt *types.Receipt,
) (string, error) {
	call := ethereum.CallMsg{
		From:     from,
		To:       tx.To(),
		Data:     tx.Data(),
		Value:    tx.Value(),
		Gas:      tx.Gas(),
		GasPrice: tx.GasPrice(),
	}

	_, err := caller.CallContract(ctx, call, receipt.BlockNumber)
	if err == nil {
		return "", fmt.Errorf("tx %s reverted with no reason", tx.Hash().Hex())
	}

	reason, perr := getJSONErrorData(err)
	switch {
	case perr == nil && reason != "":
		return reason, nil
	case perr != nil && strings.Contains(perr.Error(), "missing trie node"):
		return "", perr
	default:
		// Fall back to the message, e.g. "execution reverted: Ownable: caller is not the owner"
		return err.Error(), nil
	}
}

// getJSONErrorData extracts the revert data of a JSON-RPC error. Data carrying an ABI encoded
// Error(string) is decoded to the string, any other data is returned as is.
func getJSONErrorData(err error) (string, error) {
	if err == nil {
		return "", errors.New("cannot parse nil error")
	}

	// go-ethereum keeps its JSON error type private, so match on its methods.
	type jsonError interface {
		Error() string
		ErrorCode() int
		ErrorData() any
	}

	var jerr jsonError
	if !errors.As(err, &jerr) {
		return "", fmt.Errorf("error must be of type jsonError: %w", err)
	}

	var data string
	switch d := jerr.ErrorData().(type) {
	case nil:
	case string:
		data = d
	case []byte:
		data = string(d)
	default:
		data = fmt.Sprint(d)
	}

	if data == "" && strings.Contains(jerr.Error(), "missing trie node") {
		return "", errors.New("missing trie node, likely due to not using an archive node")
	}

	if raw, derr := hexutil.Decode(data); derr == nil {
		if msg, uerr := abi.UnpackRevert(raw); uerr == nil {
			return msg, nil
		}
	}

	return data, nil
}
