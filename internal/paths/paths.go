// Package paths builds the canonical on-disk names used by the export and
// cache layers: artifact paths, timestamped backup siblings, and sanitized
// cache-entry filenames.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// BackupTimeLayout is the fixed-width year-month-day-hour-minute tag
// appended to backup filenames.
const BackupTimeLayout = "200601021504"

// ArtifactPath joins a target directory, artifact name and format extension
// into the canonical output path <dir>/<name>.<ext>.
func ArtifactPath(dir, name, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return filepath.Join(dir, name+"."+ext)
}

// BackupPath derives the backup sibling for an existing artifact path,
// inserting a timestamp tag before the extension:
// out/fig.png -> out/fig_202601291430.png
func BackupPath(path string, ts time.Time) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", stem, ts.Format(BackupTimeLayout), ext))
}

// SanitizeKey converts an arbitrary cache key into a safe, deterministic
// filename component. Path separators and other special characters collapse
// to dashes; the result is lowercase with no leading or trailing dashes.
func SanitizeKey(key string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, key)

	sanitized = strings.Trim(sanitized, "-")
	if sanitized == "" {
		sanitized = "unnamed"
	}
	return sanitized
}

// EnsureDir creates a directory and all parents if missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
