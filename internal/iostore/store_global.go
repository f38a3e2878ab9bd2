package iostore

import (
	"fmt"
	"os"
	"sync"

	"github.com/mfofanah/dhistat/internal/contract"
	"github.com/mfofanah/dhistat/schema"
)

// Manager is the global store manager used across the application.
var Manager = &ResultsStoreManager{}

var (
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStore initializes the results store based on config. With NoneBackend
// the manager stays empty and persistence is disabled. Safe to call multiple
// times, only the first call takes effect.
func InitStore(cfg *contract.Config) error {
	var initErr error

	initOnce.Do(func() {
		if cfg.StoreBackend == schema.NoneBackend {
			return
		}

		store, err := NewResultsStore(cfg.StoreBackend, cfg.StoreDBConnect)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize results store: %w", err)
			return
		}

		Manager.Lock()
		Manager.results = store
		Manager.Unlock()
	})

	return initErr
}

// CloseStore closes the results store. Safe to call multiple times.
func CloseStore() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()

		if Manager.results != nil {
			if err := Manager.results.Close(); err != nil {
				contract.LogWarn("Failed to close results store", err)
			}
			Manager.results = nil
		}
	})
}

// ClearStore removes all persisted runs and values. For the default SQLite
// file with no live connection it removes the database file outright,
// otherwise it deletes the table contents through the open store.
func ClearStore(cfg *contract.Config) error {
	store := Manager.GetResultsStore()
	if store != nil {
		return store.Clear()
	}

	if cfg.StoreBackend == schema.SQLiteBackend && cfg.StoreDBConnect == "" {
		dbPath := contract.GetStoreDBFilePath()
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove store database %s: %w", dbPath, err)
		}
		return nil
	}

	temp, err := NewResultsStore(cfg.StoreBackend, cfg.StoreDBConnect)
	if err != nil {
		return err
	}
	defer func() { _ = temp.Close() }()
	return temp.Clear()
}
