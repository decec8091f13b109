package memo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"github.com/klauspost/compress/s2"

	"repkit/internal/logging"
	"repkit/internal/paths"
)

const cacheExt = ".cache"

// Store holds cache entries as one file per key under a single directory.
// The on-disk form is opaque (s2-compressed gob) and not intended for
// cross-version portability: after any code change a fingerprint mismatch
// simply triggers recomputation.
//
// The store provides no locking. Concurrent writers to the same key race
// last-writer-wins; the design assumes one render session per cache dir.
type Store struct {
	dir    string
	logger *logging.Logger
}

// NewStore creates a store rooted at dir. The directory is created lazily
// on first write.
func NewStore(dir string, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Store{dir: dir, logger: logger}
}

// Dir returns the cache directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the cache file path for a key.
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, paths.SanitizeKey(key)+cacheExt)
}

// read returns the decompressed entry bytes for a key. The second return
// is false on a clean miss.
func (s *Store) read(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}

	raw, err := s2.Decode(nil, data)
	if err != nil {
		return nil, false, fmt.Errorf("cache entry %s is corrupt: %w", key, err)
	}
	return raw, true, nil
}

// write replaces the entry for a key as a single unit. The compressed
// payload is built fully in memory and placed with a temp-then-rename, so
// a crash never leaves a partially written entry.
func (s *Store) write(key string, raw []byte) error {
	if err := paths.EnsureDir(s.dir); err != nil {
		return err
	}

	compressed := s2.Encode(nil, raw)
	if err := renameio.WriteFile(s.Path(key), compressed, 0644); err != nil {
		return fmt.Errorf("failed to write cache entry %s: %w", key, err)
	}
	return nil
}

// Remove deletes the entry for a key. Removing an absent key is not an
// error.
func (s *Store) Remove(key string) error {
	if err := os.Remove(s.Path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache entry %s: %w", key, err)
	}
	return nil
}

// Clear deletes every cache entry in the store directory. Non-cache files
// are left alone.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to list cache dir %s: %w", s.dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), cacheExt) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// EntryInfo describes one stored cache entry for inspection.
type EntryInfo struct {
	Key      string
	Size     int64
	Modified time.Time
}

// List returns the entries currently in the store, sorted by directory
// order.
func (s *Store) List() ([]EntryInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list cache dir %s: %w", s.dir, err)
	}

	var infos []EntryInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), cacheExt) {
			continue
		}
		fi, err := entry.Info()
		if err != nil {
			continue
		}
		infos = append(infos, EntryInfo{
			Key:      strings.TrimSuffix(entry.Name(), cacheExt),
			Size:     fi.Size(),
			Modified: fi.ModTime(),
		})
	}
	return infos, nil
}
