package loaders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
)

const sourcifyBaseURL = "https://repo.sourcify.dev/contracts/partial_match"

// SourcifyLoader fetches contract metadata from the Sourcify repository
// and returns the ABI portion.
type SourcifyLoader struct {
	Client  *http.Client
	BaseURL string
	// ChainID selects the chain directory in the repository; 0 means
	// Ethereum mainnet.
	ChainID uint64
}

// NewSourcifyLoader returns a loader against the public repository for
// Ethereum mainnet.
func NewSourcifyLoader() *SourcifyLoader {
	return &SourcifyLoader{BaseURL: sourcifyBaseURL, ChainID: 1}
}

// sourcifyMetadata is the subset of the solc metadata document this
// loader needs.
type sourcifyMetadata struct {
	Output struct {
		ABI json.RawMessage `json:"abi"`
	} `json:"output"`
}

// LoadABI implements ABILoader. Sourcify stores contracts under their
// EIP-55 checksummed address, so the input address is normalised first.
func (l *SourcifyLoader) LoadABI(ctx context.Context, addressHex string) (string, error) {
	chain := l.ChainID
	if chain == 0 {
		chain = 1
	}
	checksummed := common.HexToAddress(addressHex).Hex()
	url := fmt.Sprintf("%s/%d/%s/metadata.json", l.BaseURL, chain, checksummed)

	var meta sourcifyMetadata
	if err := getJSON(ctx, l.Client, url, &meta); err != nil {
		return "", err
	}
	if len(meta.Output.ABI) == 0 {
		return "", fmt.Errorf("%w: metadata has no abi", ErrMalformedResponse)
	}
	return string(meta.Output.ABI), nil
}
