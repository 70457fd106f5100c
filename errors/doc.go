// Package errors implements a three-class error classification system for the
// rubro platform boundaries.
//
// # Error Classes
//
//   - Transient: temporary failures (storage unavailable, timeouts) that
//     callers may retry with backoff.
//   - Invalid: malformed input or data (bad dataset JSON, duplicate IDs) that
//     no amount of retrying will fix.
//   - Fatal: unrecoverable conditions (missing configuration) that should stop
//     startup.
//
// # Usage
//
// Wrap errors at package boundaries with the classified helpers:
//
//	data, err := store.Get(ctx, key)
//	if err != nil {
//	    return errors.WrapTransient(err, "objectstore", "Get", "dataset read")
//	}
//
// Callers branch on classification, not concrete types:
//
//	if errors.IsTransient(err) {
//	    // retry with backoff
//	}
//
// Sentinel errors (ErrDatasetNotFound, ErrStorageUnavailable, ...) compose
// with the standard library's errors.Is/errors.As.
package errors
