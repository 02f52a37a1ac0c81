package loaders

import (
	"context"
	"net/http"
)

const (
	fourByteFunctionURL = "https://www.4byte.directory/api/v1/signatures/?hex_signature="
	fourByteEventURL    = "https://www.4byte.directory/api/v1/event-signatures/?hex_signature="
)

// FourByteLookup queries the 4byte.directory signature database.
type FourByteLookup struct {
	Client          *http.Client
	FunctionBaseURL string
	EventBaseURL    string
}

// NewFourByteLookup returns a lookup against the public API.
func NewFourByteLookup() *FourByteLookup {
	return &FourByteLookup{
		FunctionBaseURL: fourByteFunctionURL,
		EventBaseURL:    fourByteEventURL,
	}
}

type fourByteResponse struct {
	Results []fourByteSignature `json:"results"`
}

type fourByteSignature struct {
	TextSignature string `json:"text_signature"`
}

// LoadFunctions implements SignatureLookup.
func (l *FourByteLookup) LoadFunctions(ctx context.Context, selectorHex string) ([]string, error) {
	return l.load(ctx, l.FunctionBaseURL+selectorHex)
}

// LoadEvents implements SignatureLookup.
func (l *FourByteLookup) LoadEvents(ctx context.Context, topicHashHex string) ([]string, error) {
	return l.load(ctx, l.EventBaseURL+topicHashHex)
}

func (l *FourByteLookup) load(ctx context.Context, url string) ([]string, error) {
	var resp fourByteResponse
	if err := getJSON(ctx, l.Client, url, &resp); err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, ErrNotFound
	}
	sigs := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		sigs = append(sigs, r.TextSignature)
	}
	return sigs, nil
}
