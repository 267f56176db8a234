package common //nolint:revive // var-naming: This is an internal package for common code that is shared between chains.

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/smartcontractkit/chainlink-wallet-core/txstatus"
)

const (
	defaultRESTTimeout = 30 * time.Second
	maxErrorBodyLen    = 512
)

// NewRESTClient returns a resty client for a chain's JSON REST API rooted at baseURL. The headers
// are sent with every request, e.g. API keys.
func NewRESTClient(baseURL string, headers map[string]string) *resty.Client {
	return resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeaders(headers).
		SetTimeout(defaultRESTTimeout)
}

// GetJSON issues a GET for path, expanding {name} placeholders from pathParams, and returns the
// body of a 2xx response. Any other status is returned as a *txstatus.HTTPError carrying the
// (truncated) body.
func GetJSON(ctx context.Context, client *resty.Client, path string, pathParams map[string]string) ([]byte, error) {
	resp, err := client.R().
		SetContext(ctx).
		SetPathParams(pathParams).
		Get(path)
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		body := resp.String()
		if len(body) > maxErrorBodyLen {
			body = body[:maxErrorBodyLen]
		}

		return nil, &txstatus.HTTPError{StatusCode: resp.StatusCode(), Body: body}
	}

	return resp.Body(), nil
}
