package loaders

import (
	"context"
	"errors"
	"sync"

	"github.com/bitrocks/whatsabi/log"
)

// MultiLookup fans one query out to several backends in parallel and
// returns the de-duplicated union of the answers. A backend failing
// only narrows the union; MultiLookup itself fails only when every
// backend failed.
type MultiLookup struct {
	lookups []SignatureLookup
	logger  *log.Logger
}

// NewMultiLookup combines the given backends.
func NewMultiLookup(lookups ...SignatureLookup) *MultiLookup {
	return &MultiLookup{
		lookups: lookups,
		logger:  log.Default().Module("loaders"),
	}
}

// LoadFunctions implements SignatureLookup.
func (m *MultiLookup) LoadFunctions(ctx context.Context, selectorHex string) ([]string, error) {
	return m.gather(ctx, selectorHex, SignatureLookup.LoadFunctions)
}

// LoadEvents implements SignatureLookup.
func (m *MultiLookup) LoadEvents(ctx context.Context, topicHashHex string) ([]string, error) {
	return m.gather(ctx, topicHashHex, SignatureLookup.LoadEvents)
}

// gather queries every backend concurrently and unions the successful
// answers in backend order, so results are deterministic regardless of
// completion order. Per-backend failures are deliberately collected
// rather than cancelling siblings.
func (m *MultiLookup) gather(ctx context.Context, id string, load func(SignatureLookup, context.Context, string) ([]string, error)) ([]string, error) {
	results := make([][]string, len(m.lookups))
	errs := make([]error, len(m.lookups))

	var wg sync.WaitGroup
	for i, lookup := range m.lookups {
		wg.Add(1)
		go func(i int, lookup SignatureLookup) {
			defer wg.Done()
			results[i], errs[i] = load(lookup, ctx, id)
		}(i, lookup)
	}
	wg.Wait()

	var union []string
	seen := make(map[string]bool)
	failed := 0
	for i := range m.lookups {
		if errs[i] != nil {
			failed++
			m.logger.Debug("signature lookup backend failed", "id", id, "err", errs[i])
			continue
		}
		for _, sig := range results[i] {
			if !seen[sig] {
				seen[sig] = true
				union = append(union, sig)
			}
		}
	}
	if failed == len(m.lookups) && len(m.lookups) > 0 {
		return nil, errors.Join(errs...)
	}
	return union, nil
}
