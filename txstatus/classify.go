package txstatus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Kind is a category of the error taxonomy.
type Kind uint8

const (
	// KindUnknown is an unrecognised failure. Treated as non-retryable.
	KindUnknown Kind = iota
	// KindNetworkUnavailable is a client side connectivity failure: dial errors, DNS, timeouts.
	KindNetworkUnavailable
	// KindServiceUnavailable is a remote infrastructure failure: 5xx, throttling, gRPC unavailable.
	KindServiceUnavailable
	// KindMalformedResponse is a successful transport response that could not be decoded.
	KindMalformedResponse
	// KindChainRejected is an explicit error reported by the chain. Code carries its code.
	KindChainRejected
	// KindNotFoundOnChain is the chain's "transaction not found" answer.
	KindNotFoundOnChain
)

func (k Kind) String() string {
	switch k {
	case KindNetworkUnavailable:
		return "network_unavailable"
	case KindServiceUnavailable:
		return "service_unavailable"
	case KindMalformedResponse:
		return "malformed_response"
	case KindChainRejected:
		return "chain_rejected"
	case KindNotFoundOnChain:
		return "not_found_on_chain"
	default:
		return "unknown"
	}
}

// Classification is the projection of a failure onto the error taxonomy.
type Classification struct {
	Kind Kind
	// Code is the chain or transport code behind a KindChainRejected classification.
	Code string
}

func (c Classification) String() string {
	if c.Code == "" {
		return c.Kind.String()
	}

	return fmt.Sprintf("%s{%s}", c.Kind, c.Code)
}

// Retryable reports whether the failure is transient and the caller should try again later.
func (c Classification) Retryable() bool {
	return c.Kind == KindNetworkUnavailable || c.Kind == KindServiceUnavailable
}

// codedError matches JSON-RPC errors such as go-ethereum's rpc.Error.
type codedError interface {
	ErrorCode() int
}

// JSON-RPC parse error.
const jsonRPCParseError = -32700

// Classify maps a raw failure onto the error taxonomy. raw may be an error (possibly wrapped), an
// *http.Response, or a Classification. Classify never panics and unrecognised input yields
// KindUnknown.
func Classify(raw any) Classification {
	switch v := raw.(type) {
	case nil:
		return Classification{Kind: KindUnknown}
	case Classification:
		return v
	case *http.Response:
		if v == nil {
			return Classification{Kind: KindUnknown}
		}

		return classifyHTTPStatus(v.StatusCode)
	case error:
		return classifyError(v)
	default:
		return Classification{Kind: KindUnknown}
	}
}

// classifyError recovers from error values whose methods panic, e.g. typed nil pointers.
func classifyError(err error) (c Classification) {
	defer func() {
		if r := recover(); r != nil {
			c = Classification{Kind: KindUnknown}
		}
	}()

	return classifyWrapped(err)
}

func classifyWrapped(err error) Classification {
	var (
		chainErr  *ChainError
		httpErr   *HTTPError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		coded     codedError
	)

	switch {
	case errors.Is(err, ErrMalformedResponse),
		errors.As(err, &syntaxErr),
		errors.As(err, &typeErr),
		errors.Is(err, io.ErrUnexpectedEOF):
		return Classification{Kind: KindMalformedResponse}
	case errors.As(err, &chainErr):
		if chainErr.NotFound {
			return Classification{Kind: KindNotFoundOnChain, Code: chainErr.Code}
		}

		return Classification{Kind: KindChainRejected, Code: chainErr.Code}
	case errors.As(err, &httpErr):
		return classifyHTTPStatus(httpErr.StatusCode)
	}

	if c, ok := classifyGRPC(err); ok {
		return c
	}

	if isTransport(err) {
		return Classification{Kind: KindNetworkUnavailable}
	}

	if errors.As(err, &coded) {
		if coded.ErrorCode() == jsonRPCParseError {
			return Classification{Kind: KindMalformedResponse}
		}

		return Classification{Kind: KindChainRejected, Code: strconv.Itoa(coded.ErrorCode())}
	}

	if errors.Is(err, ErrServiceUnavailable) {
		return Classification{Kind: KindServiceUnavailable}
	}

	return Classification{Kind: KindUnknown}
}

func classifyHTTPStatus(code int) Classification {
	switch {
	case code >= 200 && code < 300:
		// A successful status carries no failure of its own.
		return Classification{Kind: KindUnknown}
	case code == http.StatusNotFound:
		return Classification{Kind: KindNotFoundOnChain, Code: strconv.Itoa(code)}
	case code == http.StatusRequestTimeout,
		code == http.StatusTooManyRequests,
		code >= 500:
		return Classification{Kind: KindServiceUnavailable, Code: strconv.Itoa(code)}
	case code >= 400:
		return Classification{Kind: KindChainRejected, Code: strconv.Itoa(code)}
	default:
		return Classification{Kind: KindUnknown, Code: strconv.Itoa(code)}
	}
}

func classifyGRPC(err error) (Classification, bool) {
	st, ok := status.FromError(err)
	if !ok || st.Code() == codes.OK || st.Code() == codes.Unknown {
		return Classification{}, false
	}

	switch st.Code() {
	case codes.NotFound:
		return Classification{Kind: KindNotFoundOnChain, Code: st.Code().String()}, true
	case codes.Unavailable, codes.ResourceExhausted, codes.Aborted, codes.Internal:
		return Classification{Kind: KindServiceUnavailable, Code: st.Code().String()}, true
	case codes.DeadlineExceeded, codes.Canceled:
		return Classification{Kind: KindNetworkUnavailable, Code: st.Code().String()}, true
	case codes.DataLoss:
		return Classification{Kind: KindMalformedResponse, Code: st.Code().String()}, true
	default:
		return Classification{Kind: KindChainRejected, Code: st.Code().String()}, true
	}
}

func isTransport(err error) bool {
	var (
		netErr net.Error
		urlErr *url.Error
		opErr  *net.OpError
	)

	return errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) ||
		errors.As(err, &netErr) ||
		errors.As(err, &urlErr) ||
		errors.As(err, &opErr)
}
