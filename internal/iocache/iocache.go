// Package iocache persists the history of dashboard computations.
package iocache

import (
	"sync"

	"github.com/huangsam/trendscope/internal/contract"
)

// StoreManager manages the persistent stores.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	runs         contract.RunStore
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetRunStore returns the run history store, or nil when history is disabled.
func (mgr *StoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
