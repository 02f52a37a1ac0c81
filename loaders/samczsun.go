package loaders

import (
	"context"
	"net/http"
)

const (
	samczsunFunctionURL = "https://sig.eth.samczsun.com/api/v1/signatures?function="
	samczsunEventURL    = "https://sig.eth.samczsun.com/api/v1/signatures?event="
)

// SamczsunLookup queries the samczsun signature database.
type SamczsunLookup struct {
	// Client overrides the HTTP client; nil uses the package default.
	Client *http.Client
	// FunctionBaseURL and EventBaseURL override the API endpoints,
	// mainly for tests.
	FunctionBaseURL string
	EventBaseURL    string
}

// NewSamczsunLookup returns a lookup against the public API.
func NewSamczsunLookup() *SamczsunLookup {
	return &SamczsunLookup{
		FunctionBaseURL: samczsunFunctionURL,
		EventBaseURL:    samczsunEventURL,
	}
}

// samczsunResponse is the wire shape: signatures are grouped per
// queried identifier under "function" and "event".
type samczsunResponse struct {
	Result struct {
		Function map[string][]samczsunSignature `json:"function"`
		Event    map[string][]samczsunSignature `json:"event"`
	} `json:"result"`
}

type samczsunSignature struct {
	Name string `json:"name"`
}

// LoadFunctions implements SignatureLookup.
func (l *SamczsunLookup) LoadFunctions(ctx context.Context, selectorHex string) ([]string, error) {
	var resp samczsunResponse
	if err := getJSON(ctx, l.Client, l.FunctionBaseURL+selectorHex, &resp); err != nil {
		return nil, err
	}
	return samczsunNames(resp.Result.Function[selectorHex])
}

// LoadEvents implements SignatureLookup.
func (l *SamczsunLookup) LoadEvents(ctx context.Context, topicHashHex string) ([]string, error) {
	var resp samczsunResponse
	if err := getJSON(ctx, l.Client, l.EventBaseURL+topicHashHex, &resp); err != nil {
		return nil, err
	}
	return samczsunNames(resp.Result.Event[topicHashHex])
}

func samczsunNames(sigs []samczsunSignature) ([]string, error) {
	if sigs == nil {
		return nil, ErrNotFound
	}
	names := make([]string, 0, len(sigs))
	for _, s := range sigs {
		names = append(names, s.Name)
	}
	return names, nil
}
