package loaders

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// CodeLoader fetches deployed contract bytecode from a chain node over
// JSON-RPC.
type CodeLoader struct {
	client *ethclient.Client
}

// DialCode connects to the JSON-RPC endpoint at rawurl.
func DialCode(ctx context.Context, rawurl string) (*CodeLoader, error) {
	client, err := ethclient.DialContext(ctx, rawurl)
	if err != nil {
		return nil, fmt.Errorf("loaders: dialing %s: %w", rawurl, err)
	}
	return &CodeLoader{client: client}, nil
}

// LoadCode returns the deployed bytecode at addressHex at the latest
// block. An address with no code yields an empty slice, not an error.
func (l *CodeLoader) LoadCode(ctx context.Context, addressHex string) ([]byte, error) {
	code, err := l.client.CodeAt(ctx, common.HexToAddress(addressHex), nil)
	if err != nil {
		return nil, fmt.Errorf("loaders: fetching code: %w", err)
	}
	return code, nil
}

// Close releases the underlying RPC connection.
func (l *CodeLoader) Close() {
	l.client.Close()
}
