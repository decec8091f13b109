// Package artifact exports report artifacts to disk under an export policy.
//
// An Artifact is a tagged variant over the plot-like inputs the export layer
// accepts: raw bytes, a byte stream, or a zero-argument drawing procedure.
// The variant is resolved once, at the boundary, into fully materialized
// bytes; only complete content ever reaches the conflict resolution
// procedure in Writer.
package artifact

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"repkit/internal/render"
)

type artifactKind int

const (
	kindNone artifactKind = iota
	kindBytes
	kindReader
	kindDraw
)

func (k artifactKind) String() string {
	switch k {
	case kindBytes:
		return "bytes"
	case kindReader:
		return "reader"
	case kindDraw:
		return "draw"
	}
	return "none"
}

// DrawFunc renders an artifact into a write target using the resolved
// chunk hints. It must either write complete content or return an error.
type DrawFunc func(w io.Writer, hints render.Hints) error

// Artifact is a tagged variant of the supported export inputs. The zero
// value is not a valid artifact.
type Artifact struct {
	kind artifactKind
	data []byte
	r    io.Reader
	draw DrawFunc
}

// Bytes wraps already-rendered content.
func Bytes(b []byte) Artifact {
	return Artifact{kind: kindBytes, data: b}
}

// FromReader wraps a previously-captured content stream. The reader is
// consumed exactly once, when the artifact is exported.
func FromReader(r io.Reader) Artifact {
	return Artifact{kind: kindReader, r: r}
}

// Draw wraps a drawing procedure that renders on demand.
func Draw(fn DrawFunc) Artifact {
	return Artifact{kind: kindDraw, draw: fn}
}

// FromFile wraps an existing file as a streamed artifact. The file is
// opened lazily at export time and closed on every exit path.
func FromFile(path string) Artifact {
	return Draw(func(w io.Writer, _ render.Hints) error {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open artifact source: %w", err)
		}
		defer func() {
			_ = f.Close()
		}()

		if _, err := io.Copy(w, f); err != nil {
			return fmt.Errorf("failed to read artifact source %s: %w", path, err)
		}
		return nil
	})
}

// UnsupportedShapeError reports an input the export layer cannot render.
type UnsupportedShapeError struct {
	Shape string
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("unsupported artifact shape %q (supported: raw bytes, captured reader, drawing procedure)", e.Shape)
}

// materialize resolves the variant into complete content. Drawing happens
// into an in-memory buffer acquired before the draw call and released after
// it, so a failed render never produces partial output downstream.
func (a Artifact) materialize(hints render.Hints) ([]byte, error) {
	switch a.kind {
	case kindBytes:
		return a.data, nil

	case kindReader:
		data, err := io.ReadAll(a.r)
		if err != nil {
			return nil, fmt.Errorf("failed to read artifact stream: %w", err)
		}
		return data, nil

	case kindDraw:
		var buf bytes.Buffer
		if err := a.draw(&buf, hints); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	return nil, &UnsupportedShapeError{Shape: a.kind.String()}
}
