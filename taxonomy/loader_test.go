package taxonomy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/rubro/errors"
	"github.com/c360/rubro/pkg/retry"
)

// fakeStore is an in-memory storage.Store for loader tests.
type fakeStore struct {
	data map[string][]byte
	errs map[string]error
	gets int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte), errs: make(map[string]error)}
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	s.gets++
	if err, ok := s.errs[key]; ok {
		return nil, err
	}
	if data, ok := s.data[key]; ok {
		return data, nil
	}
	return nil, errors.WrapInvalid(errors.ErrKeyNotFound, "fakestore", "Get", key)
}

func (s *fakeStore) Put(_ context.Context, key string, data []byte) error {
	s.data[key] = data
	return nil
}

func (s *fakeStore) List(_ context.Context, _ string) ([]string, error) { return nil, nil }
func (s *fakeStore) Delete(_ context.Context, _ string) error          { return nil }

const validDataset = `{
	"version": "store-1",
	"entries": [
		{"id": "MOD-LEAD", "category": "Mano de Obra Directa", "category_code": "MOD", "display_name": "Service Delivery Manager"}
	]
}`

func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond, Multiplier: 2.0}
}

func TestLoaderPrimaryHit(t *testing.T) {
	primary := newFakeStore()
	require.NoError(t, primary.Put(context.Background(), "rubros.json", []byte(validDataset)))
	fallback := newFakeStore()

	loader := NewLoader("rubros.json",
		WithPrimary(primary), WithFallback(fallback), WithRetry(fastRetry()))
	result := loader.Load(context.Background())

	assert.Equal(t, SourceFile, result.Source)
	assert.False(t, result.Source.Degraded())
	assert.Equal(t, "store-1", result.Dataset.Version)
	require.NotNil(t, result.Index)
	assert.Equal(t, 1, result.Index.Len())
	assert.Zero(t, fallback.gets, "fallback must not be consulted when primary succeeds")
}

func TestLoaderFallsBackToObjectStore(t *testing.T) {
	fallback := newFakeStore()
	require.NoError(t, fallback.Put(context.Background(), "rubros.json", []byte(validDataset)))

	loader := NewLoader("rubros.json",
		WithPrimary(newFakeStore()), WithFallback(fallback), WithRetry(fastRetry()))
	result := loader.Load(context.Background())

	assert.Equal(t, SourceObjectStore, result.Source)
	assert.False(t, result.Source.Degraded())
	assert.Equal(t, "store-1", result.Dataset.Version)
}

func TestLoaderFallbackRetriesTransientErrors(t *testing.T) {
	fallback := newFakeStore()
	fallback.errs["rubros.json"] = errors.ErrStorageUnavailable

	loader := NewLoader("rubros.json",
		WithPrimary(newFakeStore()), WithFallback(fallback), WithRetry(fastRetry()))
	result := loader.Load(context.Background())

	assert.Equal(t, SourceEmbedded, result.Source)
	assert.Equal(t, 2, fallback.gets, "transient errors retry up to MaxAttempts")
}

func TestLoaderMalformedFallbackDoesNotRetry(t *testing.T) {
	fallback := newFakeStore()
	require.NoError(t, fallback.Put(context.Background(), "rubros.json", []byte(`{broken`)))

	loader := NewLoader("rubros.json",
		WithPrimary(newFakeStore()), WithFallback(fallback), WithRetry(fastRetry()))
	result := loader.Load(context.Background())

	assert.Equal(t, SourceEmbedded, result.Source)
	assert.Equal(t, 1, fallback.gets, "parse failures are non-retryable")
}

func TestLoaderEmbeddedSnapshot(t *testing.T) {
	loader := NewLoader("rubros.json")
	result := loader.Load(context.Background())

	assert.Equal(t, SourceEmbedded, result.Source)
	assert.True(t, result.Source.Degraded())
	assert.Greater(t, result.Dataset.Len(), 0)
	// Degraded, but fully usable: canonical IDs resolve
	_, ok := result.Index.Lookup("mod-lead")
	assert.True(t, ok)
}

func TestLoaderMalformedPrimaryFallsThrough(t *testing.T) {
	primary := newFakeStore()
	require.NoError(t, primary.Put(context.Background(), "rubros.json", []byte(`not json`)))
	fallback := newFakeStore()
	require.NoError(t, fallback.Put(context.Background(), "rubros.json", []byte(validDataset)))

	loader := NewLoader("rubros.json",
		WithPrimary(primary), WithFallback(fallback), WithRetry(fastRetry()))
	result := loader.Load(context.Background())

	assert.Equal(t, SourceObjectStore, result.Source)
}

func TestSourceDegraded(t *testing.T) {
	assert.False(t, SourceFile.Degraded())
	assert.False(t, SourceObjectStore.Degraded())
	assert.True(t, SourceEmbedded.Degraded())
	assert.True(t, SourceEmpty.Degraded())
}
