package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Load fetches src and returns a loaded catalog. A failing source is logged and
// yields a loaded, empty catalog; it never reaches search callers as an error.
func Load(ctx context.Context, src Source, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	items, err := src.Fetch(ctx)
	if err != nil {
		logger.Warn("catalog unavailable, continuing with empty catalog",
			zap.String("source", src.String()),
			zap.Error(err),
		)
		return New(nil, src.String())
	}
	logger.Info("catalog loaded",
		zap.String("source", src.String()),
		zap.Int("items", len(items)),
	)
	return New(items, src.String())
}

// Loader refreshes a Store from a Source. Reloads are serialized so a slow
// fetch cannot overwrite the result of a later one.
type Loader struct {
	store  *Store
	source Source
	logger *zap.Logger
	mu     sync.Mutex
}

// NewLoader creates a loader that writes into store.
func NewLoader(store *Store, src Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{store: store, source: src, logger: logger}
}

// Reload loads the source and swaps the result into the store.
func (l *Loader) Reload(ctx context.Context) *Catalog {
	l.mu.Lock()
	defer l.mu.Unlock()
	c := Load(ctx, l.source, l.logger)
	l.store.Set(c)
	return c
}

// Source returns the source the loader reads.
func (l *Loader) Source() Source {
	return l.source
}
