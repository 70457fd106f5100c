package resolver

import (
	"log/slog"
	"sync"
)

// warnOnce deduplicates diagnostic warnings by key for the lifetime of one
// resolver. Tolerant-tier misses are expected in normal operation (new or
// unmapped cost lines) and must not flood logs per record.
type warnOnce struct {
	seen sync.Map // key -> struct{}
}

func newWarnOnce() *warnOnce {
	return &warnOnce{}
}

// Warn emits the message at most once per unique key. Subsequent calls with
// the same key are no-ops.
func (w *warnOnce) Warn(logger *slog.Logger, key, msg string, attrs ...any) {
	if key == "" {
		return
	}
	if _, loaded := w.seen.LoadOrStore(key, struct{}{}); loaded {
		return
	}
	logger.Warn(msg, attrs...)
}
