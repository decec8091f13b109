package artifact

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"repkit/internal/logging"
	"repkit/internal/paths"
	"repkit/internal/policy"
	"repkit/internal/render"
)

// Variant is one requested output format of an export call.
type Variant struct {
	// Format is the file extension, with or without a leading dot.
	Format string

	// Artifact supplies the content for this format.
	Artifact Artifact

	// Hints override the exporter's chunk hints for this variant only.
	Hints render.Hints
}

// Result describes the resolution of one variant.
type Result struct {
	Format string
	WriteResult
	Err error
}

// Exporter writes named artifacts into a target directory under a resolved
// export policy.
type Exporter struct {
	dir    string
	policy policy.ExportPolicy
	hints  render.Hints
	writer *Writer
	logger *logging.Logger
}

// NewExporter creates an exporter for one target directory and policy.
func NewExporter(dir string, pol policy.ExportPolicy, logger *logging.Logger) *Exporter {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Exporter{
		dir:    dir,
		policy: pol,
		writer: NewWriter(nil, logger),
		logger: logger,
	}
}

// SetHints installs chunk-level defaults from the rendering environment.
// Variant hints take precedence; unresolved fields fall back to package
// defaults.
func (e *Exporter) SetHints(h render.Hints) {
	e.hints = h
}

// SetPrompter installs the interactive conflict resolver.
func (e *Exporter) SetPrompter(p Prompter) {
	e.writer.prompter = p
}

// Export resolves every variant of the named artifact independently under
// the exporter's policy. Per-variant failures are collected, not
// short-circuited; the returned error joins them. Failure to create the
// target directory is fatal for all variants.
//
// With Outputs disabled no filesystem write occurs at all and every variant
// reports OutcomeSkipped.
func (e *Exporter) Export(name string, variants []Variant) ([]Result, error) {
	exportID := uuid.New().String()

	e.logger.Debug("Starting export", map[string]interface{}{
		"exportId": exportID,
		"name":     name,
		"variants": len(variants),
		"dir":      e.dir,
	})

	results := make([]Result, 0, len(variants))

	if !e.policy.Outputs {
		for _, v := range variants {
			results = append(results, Result{
				Format: v.Format,
				WriteResult: WriteResult{
					Outcome: OutcomeSkipped,
					Path:    paths.ArtifactPath(e.dir, name, v.Format),
				},
			})
		}
		e.logger.Debug("Outputs disabled, nothing written", map[string]interface{}{
			"exportId": exportID,
			"name":     name,
		})
		return results, nil
	}

	if err := paths.EnsureDir(e.dir); err != nil {
		return nil, err
	}

	var errs []error
	for _, v := range variants {
		res := e.exportVariant(name, v)
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s.%s: %w", name, v.Format, res.Err))
			e.logger.Warn("Variant export failed", map[string]interface{}{
				"exportId": exportID,
				"path":     res.Path,
				"error":    res.Err.Error(),
			})
		} else {
			e.logger.Info("Variant resolved", map[string]interface{}{
				"exportId": exportID,
				"path":     res.Path,
				"outcome":  res.Outcome.String(),
			})
		}
		results = append(results, res)
	}

	return results, errors.Join(errs...)
}

func (e *Exporter) exportVariant(name string, v Variant) Result {
	res := Result{Format: v.Format}
	res.Path = paths.ArtifactPath(e.dir, name, v.Format)

	hints := v.Hints.Merge(e.hints).Complete()
	content, err := v.Artifact.materialize(hints)
	if err != nil {
		res.Err = err
		return res
	}

	wr, err := e.writer.Write(content, res.Path, e.policy)
	res.WriteResult = wr
	res.Err = err
	return res
}
