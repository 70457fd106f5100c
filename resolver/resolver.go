// Package resolver implements canonical rubro resolution: the tiered lookup
// that maps heterogeneous identifiers to one canonical taxonomy entry, with
// per-session memoization.
package resolver

import (
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/c360/rubro/metric"
	"github.com/c360/rubro/pkg/cache"
	"github.com/c360/rubro/taxonomy"
)

// Resolution is the outcome of a successful resolve: the canonical entry plus
// the tier that produced it. A nil *Resolution means "no match", which is an
// ordinary outcome (a brand-new uncategorized cost line), never an error.
type Resolution struct {
	Entry *taxonomy.Entry
	Tier  Tier
}

// ID returns the canonical identifier of the resolved entry.
func (r *Resolution) ID() string { return r.Entry.ID }

// Category returns the display category of the resolved entry.
func (r *Resolution) Category() string { return r.Entry.Category }

// DisplayName returns the display name of the resolved entry.
func (r *Resolution) DisplayName() string { return r.Entry.DisplayName }

// IsLabor reports whether the resolved entry is a direct-labor cost line.
func (r *Resolution) IsLabor() bool { return r.Entry.IsLabor() }

// Resolver resolves records against one immutable alias index. A resolver
// owns its cache exclusively: its lifetime is one "load taxonomy and serve
// lookups" session. The index is read-only and may be shared; the cache is
// not.
type Resolver struct {
	index  *taxonomy.AliasIndex
	cache  cache.Cache[*Resolution]
	logger *slog.Logger
	warn   *warnOnce

	metrics *metric.Metrics

	// tolerantScans counts executions of the tolerant-match scan. Cache
	// population must keep this at one per unique candidate set.
	tolerantScans atomic.Int64
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the resolver's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) { r.logger = logger }
}

// WithCache injects the resolution cache. The resolver takes exclusive
// ownership of it.
func WithCache(c cache.Cache[*Resolution]) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithMetrics attaches platform metrics.
func WithMetrics(m *metric.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// New creates a Resolver over a fully-built alias index. The index must be
// complete before the first Resolve call; resolution never observes a
// partially-loaded index.
func New(index *taxonomy.AliasIndex, opts ...Option) (*Resolver, error) {
	r := &Resolver{
		index:  index,
		logger: slog.Default(),
		warn:   newWarnOnce(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.index == nil {
		r.index = taxonomy.BuildIndex(taxonomy.Empty())
	}
	if r.cache == nil {
		c, err := cache.NewSimple[*Resolution]()
		if err != nil {
			return nil, err
		}
		r.cache = c
	}
	return r, nil
}

// Resolve maps a record to its canonical taxonomy entry, or nil when nothing
// matches. Deterministic: a fixed index and fixed candidate order yield the
// same result on every call. Never panics for any record content.
func (r *Resolver) Resolve(record Record) *Resolution {
	return r.ResolveCandidates(record.Candidates())
}

// ResolveCandidates resolves an already-derived candidate set. Candidates
// must be normalized (Record.Candidates output); order defines priority.
func (r *Resolver) ResolveCandidates(candidates []string) *Resolution {
	if len(candidates) == 0 {
		return nil
	}

	// Tier 1 walks candidates in priority order, checking the cache and the
	// strict index per candidate. Candidate priority outranks cache history:
	// an exact match on the record's ID wins even when a lower-priority
	// sibling was cached by an earlier record. A cached negative proves the
	// key already missed every tier, so its strict lookup is skipped.
	allNegative := true
	for _, candidate := range candidates {
		if res, found := r.cache.Get(candidate); found {
			if res == nil {
				continue
			}
			r.count("cached", res)
			return res
		}
		allNegative = false
		if entry, ok := r.index.Lookup(candidate); ok {
			res := &Resolution{Entry: entry, Tier: TierStrict}
			_ = r.cache.SetAll(candidates, res)
			r.count(TierStrict.String(), res)
			return res
		}
	}

	// Every candidate is a confirmed negative: the set cannot resolve, and
	// lower tiers (including the tolerant scan) must not re-run.
	if allNegative {
		r.count("cached", nil)
		return nil
	}

	// Remaining tier strategies in order, short-circuiting on first success.
	for _, tier := range []Tier{TierLaborOverride, TierTolerant} {
		if res := r.runTier(tier, candidates); res != nil {
			// Populate every candidate, not just the one that hit, so later
			// lookups of sibling aliases are O(1).
			_ = r.cache.SetAll(candidates, res)
			r.count(tier.String(), res)
			return res
		}
	}

	// Confirmed unresolved: cache the negative under all candidates so the
	// tolerant scan never re-runs for this set, and warn once per key.
	_ = r.cache.SetAll(candidates, nil)
	r.count("none", nil)
	r.warn.Warn(r.logger, candidates[0],
		"No taxonomy match for cost line",
		slog.String("key", candidates[0]),
		slog.Int("candidates", len(candidates)))
	return nil
}

// TolerantScans returns how many times the tolerant fallback scan has run.
func (r *Resolver) TolerantScans() int64 {
	return r.tolerantScans.Load()
}

// CacheStats exposes the session cache statistics.
func (r *Resolver) CacheStats() *cache.Statistics {
	return r.cache.Stats()
}

func (r *Resolver) runTier(tier Tier, candidates []string) *Resolution {
	switch tier {
	case TierLaborOverride:
		return r.resolveLaborOverride(candidates)
	case TierTolerant:
		return r.resolveTolerant(candidates)
	default:
		return nil
	}
}

// resolveLaborOverride checks candidates against the known direct-labor keys
// and synthesizes a minimal MOD entry on a hit. The synthesized entry carries
// correct classification even when display metadata is unavailable.
func (r *Resolver) resolveLaborOverride(candidates []string) *Resolution {
	for _, candidate := range candidates {
		if id, ok := r.index.LaborKey(candidate); ok {
			entry := &taxonomy.Entry{
				ID:           id,
				Category:     taxonomy.CategoryLabor,
				CategoryCode: taxonomy.CategoryCodeLabor,
				DisplayName:  id,
			}
			return &Resolution{Entry: entry, Tier: TierLaborOverride}
		}
	}
	return nil
}

// resolveTolerant runs the substring fallback: candidates against every
// known entry's normalized aliases and descriptions. O(candidates x taxonomy
// size); the cache guarantees it runs at most once per unique candidate set.
// Entries are scanned in dataset order and candidates in priority order, so
// the first match is deterministic. Alias tokens come precomputed from the
// index, so the scan allocates nothing.
func (r *Resolver) resolveTolerant(candidates []string) *Resolution {
	r.tolerantScans.Add(1)

	for _, candidate := range candidates {
		for i, entry := range r.index.Entries() {
			for _, alias := range r.index.EntryTokens(i) {
				if strings.Contains(alias, candidate) || strings.Contains(candidate, alias) {
					return &Resolution{Entry: entry, Tier: TierTolerant}
				}
			}
		}
	}
	return nil
}

func (r *Resolver) count(tier string, res *Resolution) {
	if r.metrics == nil {
		return
	}
	status := "hit"
	if res == nil {
		status = "miss"
	}
	r.metrics.ResolutionsTotal.WithLabelValues(tier, status).Inc()
	if res == nil && tier != "cached" {
		r.metrics.UnresolvedTotal.WithLabelValues("resolver").Inc()
	}
}
