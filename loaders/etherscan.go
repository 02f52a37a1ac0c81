package loaders

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const etherscanBaseURL = "https://api.etherscan.io/api"

// EtherscanLoader fetches verified-contract ABIs from the Etherscan
// contract API.
type EtherscanLoader struct {
	Client  *http.Client
	BaseURL string
	APIKey  string
}

// NewEtherscanLoader returns a loader against the public API. The key
// may be empty; Etherscan then applies its anonymous rate limits.
func NewEtherscanLoader(apiKey string) *EtherscanLoader {
	return &EtherscanLoader{BaseURL: etherscanBaseURL, APIKey: apiKey}
}

type etherscanResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

// LoadABI implements ABILoader. The returned string is the ABI JSON
// array as published by the verifying developer.
func (l *EtherscanLoader) LoadABI(ctx context.Context, addressHex string) (string, error) {
	query := url.Values{
		"module":  {"contract"},
		"action":  {"getabi"},
		"address": {addressHex},
		"apikey":  {l.APIKey},
	}
	var resp etherscanResponse
	if err := getJSON(ctx, l.Client, l.BaseURL+"?"+query.Encode(), &resp); err != nil {
		return "", err
	}
	if resp.Status != "1" {
		// Etherscan reports errors in-band with status "0".
		switch {
		case strings.Contains(resp.Result, "rate limit"):
			return "", fmt.Errorf("%w: %s", ErrRateLimited, resp.Result)
		case strings.Contains(resp.Result, "not verified"):
			return "", fmt.Errorf("%w: %s", ErrNotFound, addressHex)
		default:
			return "", fmt.Errorf("%w: %s: %s", ErrMalformedResponse, resp.Message, resp.Result)
		}
	}
	return resp.Result, nil
}
