package artifact

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/renameio/v2"

	"repkit/internal/logging"
	"repkit/internal/paths"
	"repkit/internal/policy"
)

// Outcome is the result of one conflict resolution.
type Outcome int

const (
	// OutcomeWritten means new content landed at the canonical path with
	// no prior file displaced.
	OutcomeWritten Outcome = iota
	// OutcomeSkipped means the new content was discarded and the existing
	// file (if any) left untouched.
	OutcomeSkipped
	// OutcomeBackedUp means the existing file was renamed aside and the
	// new content written to the canonical path.
	OutcomeBackedUp
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeBackedUp:
		return "backedUp"
	}
	return "unknown"
}

// Choice is an operator's answer to a conflict prompt.
type Choice int

const (
	// ChoiceOverwrite replaces the existing file.
	ChoiceOverwrite Choice = iota
	// ChoiceBackup renames the existing file aside, then writes.
	ChoiceBackup
	// ChoiceSkip keeps the existing file and discards the new content.
	ChoiceSkip
)

// Prompter resolves a conflict interactively. It is the only source of
// nondeterminism in the write path.
type Prompter func(path string) (Choice, error)

// WriteResult describes how one write call was resolved.
type WriteResult struct {
	Outcome    Outcome
	Path       string
	BackupPath string // set when Outcome is OutcomeBackedUp
	Prompted   bool   // the outcome came from an interactive choice
}

// Writer applies the conflict resolution procedure to fully materialized
// content. Final content always reaches the canonical path through a
// temp-file-then-rename sequence, so a crash mid-write never leaves a
// half-written artifact there. The multi-step backup sequence assumes
// single-writer access to the target path; no file locking is performed.
type Writer struct {
	prompter Prompter
	logger   *logging.Logger
	now      func() time.Time
}

// NewWriter creates a writer. prompter may be nil if the policies used
// never prompt.
func NewWriter(prompter Prompter, logger *logging.Logger) *Writer {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Writer{
		prompter: prompter,
		logger:   logger,
		now:      time.Now,
	}
}

// Write places content at finalPath according to pol.
//
// If finalPath does not exist the content is always written. On conflict
// exactly one branch fires, in fixed order: prompt (when enabled), compare,
// overwrite, backup, skip.
func (w *Writer) Write(content []byte, finalPath string, pol policy.ExportPolicy) (WriteResult, error) {
	res := WriteResult{Path: finalPath, Outcome: OutcomeSkipped}

	if !pol.Outputs {
		w.logger.Debug("Outputs disabled, discarding content", map[string]interface{}{
			"path": finalPath,
		})
		return res, nil
	}

	existing, err := os.Stat(finalPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return res, fmt.Errorf("failed to stat %s: %w", finalPath, err)
		}
		// No conflict: always write.
		if err := w.place(content, finalPath); err != nil {
			return res, err
		}
		res.Outcome = OutcomeWritten
		return res, nil
	}

	if pol.Prompt {
		if w.prompter == nil {
			return res, fmt.Errorf("policy requires prompting but no prompter is configured for %s", finalPath)
		}
		choice, err := w.prompter(finalPath)
		if err != nil {
			return res, fmt.Errorf("conflict prompt failed for %s: %w", finalPath, err)
		}
		res.Prompted = true

		switch choice {
		case ChoiceOverwrite:
			if err := w.place(content, finalPath); err != nil {
				return res, err
			}
			res.Outcome = OutcomeWritten
		case ChoiceBackup:
			backup, err := w.backupThenPlace(content, finalPath, existing.ModTime())
			if err != nil {
				return res, err
			}
			res.Outcome = OutcomeBackedUp
			res.BackupPath = backup
		case ChoiceSkip:
			res.Outcome = OutcomeSkipped
		default:
			return res, fmt.Errorf("invalid prompt choice %d for %s", choice, finalPath)
		}
		return res, nil
	}

	if pol.Compare {
		same, err := contentEqual(content, finalPath, existing.Size())
		if err != nil {
			return res, err
		}
		if same {
			// Identical content: no-op, not even a timestamp touch.
			w.logger.Debug("Existing artifact identical, skipping", map[string]interface{}{
				"path": finalPath,
			})
			res.Outcome = OutcomeSkipped
			return res, nil
		}
	}

	if pol.Overwrite {
		if err := w.place(content, finalPath); err != nil {
			return res, err
		}
		res.Outcome = OutcomeWritten
		return res, nil
	}

	if pol.Backup {
		backup, err := w.backupThenPlace(content, finalPath, existing.ModTime())
		if err != nil {
			return res, err
		}
		res.Outcome = OutcomeBackedUp
		res.BackupPath = backup
		return res, nil
	}

	// Keep existing, discard new.
	res.Outcome = OutcomeSkipped
	return res, nil
}

// place writes content atomically: temp file in the target directory, then
// rename into the canonical path.
func (w *Writer) place(content []byte, finalPath string) error {
	if err := renameio.WriteFile(finalPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", finalPath, err)
	}
	return nil
}

// backupThenPlace renames the existing file to a timestamped sibling and
// writes the new content at the original path. The tag derives from the
// existing file's modification time; if that is unavailable the current
// time is used.
func (w *Writer) backupThenPlace(content []byte, finalPath string, mtime time.Time) (string, error) {
	if mtime.IsZero() {
		mtime = w.now()
	}

	backupPath := paths.BackupPath(finalPath, mtime)
	if err := os.Rename(finalPath, backupPath); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", finalPath, err)
	}

	w.logger.Info("Backed up existing artifact", map[string]interface{}{
		"path":   finalPath,
		"backup": backupPath,
	})

	if err := w.place(content, finalPath); err != nil {
		return backupPath, err
	}
	return backupPath, nil
}

// contentEqual reports whether the new content is byte-identical to the
// file at path. Sizes are compared first; equal sizes fall through to a
// streamed content-hash comparison.
func contentEqual(content []byte, path string, size int64) (bool, error) {
	if int64(len(content)) != size {
		return false, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("failed to open %s for comparison: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return false, fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return h.Sum64() == xxhash.Sum64(content), nil
}
