package txstatus

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/smartcontractkit/chainlink-wallet-core/chain"
)

var (
	// ErrServiceUnavailable is matched by resolution errors caused by transport or infrastructure
	// failures. Callers should retry with backoff.
	ErrServiceUnavailable = errors.New("service unavailable")
	// ErrMalformedResponse is wrapped by decoders when a successful response cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrInvalidRequest is returned when a Request cannot be resolved as given.
	ErrInvalidRequest = errors.New("invalid transaction status request")
)

// HTTPError is a non 2xx HTTP response returned by a REST or JSON-RPC endpoint.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return "http status " + strconv.Itoa(e.StatusCode)
	}

	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Body)
}

// ChainError is an error reported by the chain itself inside an otherwise successful response,
// e.g. a JSON-RPC error object or an error field in a REST body.
type ChainError struct {
	// Code is the chain-native error code or name, e.g. "-32009" or "UNKNOWN_TRANSACTION".
	Code    string
	Message string
	// NotFound is set by the decoder when Code is the chain's "transaction not found" marker.
	NotFound bool
}

func (e *ChainError) Error() string {
	if e.Message == "" {
		return "chain error " + e.Code
	}

	return fmt.Sprintf("chain error %s: %s", e.Code, e.Message)
}

// NotFoundError returns a ChainError flagged as the chain's "transaction not found" marker.
func NotFoundError(code, msg string) *ChainError {
	return &ChainError{Code: code, Message: msg, NotFound: true}
}

// Malformed wraps err as ErrMalformedResponse.
func Malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

// ResolveError is returned by Resolver.Resolve when the chain could not be asked about the
// transaction. It matches ErrServiceUnavailable via errors.Is.
type ResolveError struct {
	Chain chain.ID
	Hash  string
	Class Classification
	Err   error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %s transaction %s: %s: %v", e.Chain, e.Hash, e.Class, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

func (e *ResolveError) Is(target error) bool {
	return target == ErrServiceUnavailable && e.Class.Retryable()
}
