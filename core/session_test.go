package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/huangsam/trendscope/internal/dataset"
	"github.com/huangsam/trendscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingLoader counts loads and optionally blocks until released.
type countingLoader struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (l *countingLoader) LoadDataset(dir string) (*schema.Dataset, error) {
	l.calls.Add(1)
	if l.release != nil {
		<-l.release
	}
	if l.err != nil {
		return nil, l.err
	}
	return &schema.Dataset{Dir: dir, Primary: &schema.SeriesTable{}, Secondary: &schema.SeriesTable{}}, nil
}

func TestSessionLoadsOnceUntilReset(t *testing.T) {
	loader := &countingLoader{}
	s := NewSession(loader, nil)
	ctx := context.Background()

	first, err := s.Dataset(ctx, "data")
	require.NoError(t, err)
	second, err := s.Dataset(ctx, "data")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), loader.calls.Load())

	_, err = s.Dataset(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, int32(2), loader.calls.Load())

	s.Reset()
	_, err = s.Dataset(ctx, "data")
	require.NoError(t, err)
	assert.Equal(t, int32(3), loader.calls.Load())
}

func TestSessionCollapsesConcurrentLoads(t *testing.T) {
	loader := &countingLoader{release: make(chan struct{})}
	s := NewSession(loader, nil)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*schema.Dataset, callers)
	for i := range callers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := s.Dataset(context.Background(), "data")
			assert.NoError(t, err)
			results[i] = ds
		}(i)
	}

	// Let every caller reach the shared load before releasing it
	time.Sleep(50 * time.Millisecond)
	close(loader.release)
	wg.Wait()

	assert.Equal(t, int32(1), loader.calls.Load())
	for _, ds := range results {
		assert.Same(t, results[0], ds)
	}
}

func TestSessionResetDuringLoad(t *testing.T) {
	loader := &countingLoader{release: make(chan struct{})}
	s := NewSession(loader, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	load := func() {
		defer wg.Done()
		_, err := s.Dataset(ctx, "data")
		assert.NoError(t, err)
	}

	wg.Add(1)
	go load()
	require.Eventually(t, func() bool { return loader.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	// A caller after Reset must not join the load that started before it
	s.Reset()
	wg.Add(1)
	go load()
	require.Eventually(t, func() bool { return loader.calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	close(loader.release)
	wg.Wait()

	_, err := s.Dataset(ctx, "data")
	require.NoError(t, err)
	assert.Equal(t, int32(2), loader.calls.Load())

	s.Reset()
	_, err = s.Dataset(ctx, "data")
	require.NoError(t, err)
	assert.Equal(t, int32(3), loader.calls.Load())
}

func TestSessionDoesNotCacheFailures(t *testing.T) {
	loader := &countingLoader{err: dataset.ErrSchema}
	s := NewSession(loader, nil)

	_, err := s.Dataset(context.Background(), "data")
	assert.ErrorIs(t, err, dataset.ErrSchema)

	loader.err = nil
	ds, err := s.Dataset(context.Background(), "data")
	require.NoError(t, err)
	assert.Equal(t, "data", ds.Dir)
	assert.Equal(t, int32(2), loader.calls.Load())
}

func TestSessionHonorsContext(t *testing.T) {
	loader := &countingLoader{release: make(chan struct{})}
	defer close(loader.release)
	s := NewSession(loader, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Dataset(ctx, "data")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSessionOpen(t *testing.T) {
	dir := t.TempDir()
	s := NewSession(&countingLoader{}, []string{dir + "/missing", dir})
	ds, err := s.Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dir, ds.Dir)

	s = NewSession(&countingLoader{}, []string{dir + "/missing"})
	_, err = s.Open(context.Background())
	assert.ErrorIs(t, err, dataset.ErrDirectoryNotFound)
}
