package taxonomy

import (
	"context"
	"log/slog"

	"github.com/c360/rubro/metric"
	"github.com/c360/rubro/pkg/retry"
	"github.com/c360/rubro/storage"
)

// Source identifies where a loaded dataset came from.
type Source string

const (
	// SourceFile means the dataset came from the primary local file store.
	SourceFile Source = "file"
	// SourceObjectStore means the primary was unavailable and the dataset
	// came from the object-store fallback.
	SourceObjectStore Source = "objectstore"
	// SourceEmbedded means both stores failed and the compiled-in snapshot
	// is in use. Degraded: the snapshot may lag the published dataset.
	SourceEmbedded Source = "embedded"
	// SourceEmpty means every source failed. All resolutions return nil.
	SourceEmpty Source = "empty"
)

// Degraded reports whether a source indicates degraded operation.
func (s Source) Degraded() bool {
	return s == SourceEmbedded || s == SourceEmpty
}

// LoadResult is the outcome of a taxonomy load. Loading never fails hard:
// a result always carries a valid (possibly empty) dataset plus the source
// it came from, so the process can start in degraded mode instead of
// crashing.
type LoadResult struct {
	Dataset *Dataset
	Index   *AliasIndex
	Source  Source
}

// Loader loads the taxonomy dataset at process start. The chain is primary
// store (local file), then fallback store (object store, with retry), then
// the embedded snapshot, then an empty dataset.
type Loader struct {
	primary  storage.Store
	fallback storage.Store
	key      string
	retryCfg retry.Config
	logger   *slog.Logger
	metrics  *metric.Metrics
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithPrimary sets the primary dataset store (normally a filestore).
func WithPrimary(s storage.Store) LoaderOption {
	return func(l *Loader) { l.primary = s }
}

// WithFallback sets the fallback dataset store (normally an object store).
func WithFallback(s storage.Store) LoaderOption {
	return func(l *Loader) { l.fallback = s }
}

// WithRetry sets the retry policy for the fallback store.
func WithRetry(cfg retry.Config) LoaderOption {
	return func(l *Loader) { l.retryCfg = cfg }
}

// WithLogger sets the loader's logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// WithLoaderMetrics attaches platform metrics for load observability.
func WithLoaderMetrics(m *metric.Metrics) LoaderOption {
	return func(l *Loader) { l.metrics = m }
}

// NewLoader creates a Loader for the dataset stored under key.
func NewLoader(key string, opts ...LoaderOption) *Loader {
	l := &Loader{
		key:      key,
		retryCfg: retry.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load runs the fallback chain and returns the best dataset it can get,
// together with a built AliasIndex. It never returns an error: a total
// failure yields an empty dataset so every resolve call deterministically
// returns nothing.
func (l *Loader) Load(ctx context.Context) *LoadResult {
	if ds := l.loadFrom(ctx, l.primary, SourceFile); ds != nil {
		return l.result(ds, SourceFile)
	}

	if ds := l.loadFallback(ctx); ds != nil {
		return l.result(ds, SourceObjectStore)
	}

	if ds, err := DefaultDataset(); err == nil {
		l.record(SourceEmbedded, "ok")
		l.logger.Warn("Taxonomy loaded from embedded snapshot; dataset may be stale",
			"key", l.key, "version", ds.Version)
		return l.result(ds, SourceEmbedded)
	}

	l.record(SourceEmpty, "ok")
	l.logger.Error("All taxonomy sources failed; starting with empty taxonomy",
		"key", l.key)
	return l.result(Empty(), SourceEmpty)
}

func (l *Loader) loadFrom(ctx context.Context, store storage.Store, source Source) *Dataset {
	if store == nil {
		return nil
	}
	data, err := store.Get(ctx, l.key)
	if err != nil {
		l.record(source, "error")
		l.logger.Warn("Taxonomy source unavailable",
			"source", string(source), "key", l.key, "error", err)
		return nil
	}
	ds, err := ParseDataset(data)
	if err != nil {
		l.record(source, "invalid")
		l.logger.Error("Taxonomy source returned invalid dataset",
			"source", string(source), "key", l.key, "error", err)
		return nil
	}
	l.record(source, "ok")
	return ds
}

func (l *Loader) loadFallback(ctx context.Context) *Dataset {
	if l.fallback == nil {
		return nil
	}
	ds, err := retry.DoWithResult(ctx, l.retryCfg, func() (*Dataset, error) {
		data, getErr := l.fallback.Get(ctx, l.key)
		if getErr != nil {
			return nil, getErr
		}
		parsed, parseErr := ParseDataset(data)
		if parseErr != nil {
			// A malformed stored dataset stays malformed; fall through now.
			return nil, retry.NonRetryable(parseErr)
		}
		return parsed, nil
	})
	if err != nil {
		l.record(SourceObjectStore, "error")
		l.logger.Warn("Taxonomy fallback store unavailable",
			"key", l.key, "error", err)
		return nil
	}
	l.record(SourceObjectStore, "ok")
	return ds
}

func (l *Loader) result(ds *Dataset, source Source) *LoadResult {
	if l.metrics != nil {
		l.metrics.TaxonomyEntries.Set(float64(ds.Len()))
		if source.Degraded() {
			l.metrics.TaxonomyDegraded.Set(1)
		} else {
			l.metrics.TaxonomyDegraded.Set(0)
		}
	}
	l.logger.Info("Taxonomy loaded",
		"source", string(source), "version", ds.Version, "entries", ds.Len())
	return &LoadResult{
		Dataset: ds,
		Index:   BuildIndex(ds),
		Source:  source,
	}
}

func (l *Loader) record(source Source, status string) {
	if l.metrics != nil {
		l.metrics.TaxonomyLoads.WithLabelValues(string(source), status).Inc()
	}
}
