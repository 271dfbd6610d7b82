package core

import (
	"context"
	"strconv"
	"sync"

	"github.com/huangsam/trendscope/internal/contract"
	"github.com/huangsam/trendscope/internal/dataset"
	"github.com/huangsam/trendscope/schema"
	"golang.org/x/sync/singleflight"
)

// DatasetLoader reads both series out of one directory.
type DatasetLoader interface {
	LoadDataset(dir string) (*schema.Dataset, error)
}

// Session memoizes loaded datasets per directory.
// Concurrent first loads of the same directory share one read; failed loads are not kept.
// Loads still running when Reset is called finish but are not cached.
type Session struct {
	loader     DatasetLoader
	candidates []string

	mu    sync.RWMutex
	cache map[string]*schema.Dataset
	gen   uint64 // bumped by Reset
	group singleflight.Group
}

var _ contract.DatasetSource = &Session{} // Compile-time check

// NewSession creates a session that resolves its directory from candidates.
func NewSession(loader DatasetLoader, candidates []string) *Session {
	return &Session{
		loader:     loader,
		candidates: candidates,
		cache:      make(map[string]*schema.Dataset),
	}
}

// NewSessionFromConfig wires a session to the configured series and selection policy.
func NewSessionFromConfig(cfg *contract.Config) *Session {
	loader := dataset.NewLoader(dataset.PolicyFor(cfg.LatestBy), cfg.Primary, cfg.Secondary)
	return NewSession(loader, cfg.DataDirs)
}

// Open locates the data directory and returns its dataset.
func (s *Session) Open(ctx context.Context) (*schema.Dataset, error) {
	dir, err := dataset.Locate(s.candidates)
	if err != nil {
		return nil, err
	}
	return s.Dataset(ctx, dir)
}

// Dataset returns the cached dataset for dir, loading it on first use.
func (s *Session) Dataset(ctx context.Context, dir string) (*schema.Dataset, error) {
	s.mu.RLock()
	ds, ok := s.cache[dir]
	gen := s.gen
	s.mu.RUnlock()
	if ok {
		return ds, nil
	}

	ch := s.group.DoChan(flightKey(gen, dir), func() (any, error) {
		s.mu.RLock()
		cached, ok := s.cache[dir]
		s.mu.RUnlock()
		if ok {
			return cached, nil
		}
		loaded, err := s.loader.LoadDataset(dir)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		if s.gen == gen {
			s.cache[dir] = loaded
		}
		s.mu.Unlock()
		return loaded, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*schema.Dataset), nil
	}
}

// Reset drops every cached dataset. Callers after Reset load again even
// when an earlier load of the same directory is still running.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for dir := range s.cache {
		s.group.Forget(flightKey(s.gen, dir))
	}
	clear(s.cache)
	s.gen++
}

// flightKey scopes a shared load to one cache generation.
func flightKey(gen uint64, dir string) string {
	return strconv.FormatUint(gen, 10) + ":" + dir
}
