package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"dexrouter/internal/types"
)

// Export writes the full contents of store to path as a pretty-printed
// CacheSnapshot, creating parent directories as needed. Every export
// is a full rewrite; there is no partial/incremental export, and no
// cross-process locking, so concurrent writers to the same path may
// corrupt the snapshot.
func Export(store Store, path string) error {
	snapshot := types.CacheSnapshot{
		Pools:     store.All(),
		Timestamp: uint64(time.Now().Unix()),
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return &types.CacheError{Op: "export-marshal", Err: err}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &types.CacheError{Op: "export-mkdir", Err: err}
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &types.CacheError{Op: "export-write", Err: err}
	}
	return nil
}

// Import reads a CacheSnapshot from path and inserts every contained
// descriptor into store. Import is additive: it never clears existing
// entries first.
func Import(store Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, &types.CacheError{Op: "import-read", Err: err}
	}

	var snapshot types.CacheSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return 0, &types.CacheError{Op: "import-unmarshal", Err: err}
	}

	for _, pool := range snapshot.Pools {
		store.Insert(pool)
	}
	return len(snapshot.Pools), nil
}

// TryAutoImport attempts an Import and swallows any failure, returning
// only whether it succeeded; the Aggregator facade's construction-time
// cache load is advisory, not required.
func TryAutoImport(store Store, path string) bool {
	_, err := Import(store, path)
	return err == nil
}
