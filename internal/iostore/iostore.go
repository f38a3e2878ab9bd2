// Package iostore persists pipeline runs and aggregated values.
package iostore

import (
	"sync"

	"github.com/mfofanah/dhistat/internal/contract"
)

// ResultsStoreManager manages the ResultsStore instance.
type ResultsStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	results      contract.ResultsStore
}

var _ contract.StoreManager = &ResultsStoreManager{} // Compile-time check

// GetResultsStore returns the ResultsStore, or nil when persistence is disabled.
func (mgr *ResultsStoreManager) GetResultsStore() contract.ResultsStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.results
}
