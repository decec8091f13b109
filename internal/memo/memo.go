package memo

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
)

// Key identifies a computation. Name selects the cache slot (one file per
// name); Source is the literal, unevaluated representation of the
// computation's code; Deps is the explicit list of external values the
// computation depends on.
//
// The fingerprint is computed from Source and Deps only, never from
// captured runtime state. Callers must list every relevant external value
// in Deps or risk a silently stale cache.
type Key struct {
	Name   string
	Source string
	Deps   []string
}

// envelope is the persisted cache record: the result and the fingerprint
// it was computed under, replaced as a unit whenever the fingerprint
// changes.
type envelope[T any] struct {
	Fingerprint string
	Result      T
}

type options struct {
	parallel bool
}

// Option configures one Do call.
type Option func(*options)

// WithParallel executes the computation inside an ephemeral parallel
// worker pool, scoped strictly to the call.
func WithParallel() Option {
	return func(o *options) {
		o.parallel = true
	}
}

// Do returns the cached result for key when the stored fingerprint matches
// the freshly computed one, otherwise it executes fn exactly once and
// persists the new result.
//
// On a cache hit fn does not run at all, so callers must not rely on its
// side effects. fn runs synchronously from the caller's point of view; a
// parallel option only changes what the provided Scope fans out to. The
// scope is torn down on every exit path before Do returns. If fn fails,
// nothing is persisted (any stale entry is preserved) and the error is
// returned unmodified.
func Do[T any](ctx context.Context, store *Store, key Key, fn func(ctx context.Context, scope *Scope) (T, error), opts ...Option) (T, error) {
	var zero T

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	fp := Fingerprint(key.Source, key.Deps)

	raw, found, err := store.read(key.Name)
	if err != nil {
		// A corrupt or unreadable entry is a miss, not a failure.
		store.logger.Warn("Discarding unreadable cache entry", map[string]interface{}{
			"key":   key.Name,
			"error": err.Error(),
		})
	} else if found {
		var env envelope[T]
		if decErr := gob.NewDecoder(bytes.NewReader(raw)).Decode(&env); decErr != nil {
			store.logger.Warn("Discarding undecodable cache entry", map[string]interface{}{
				"key":   key.Name,
				"error": decErr.Error(),
			})
		} else if env.Fingerprint == fp {
			store.logger.Debug("Cache hit", map[string]interface{}{
				"key": key.Name,
			})
			return env.Result, nil
		} else {
			store.logger.Debug("Fingerprint changed, recomputing", map[string]interface{}{
				"key": key.Name,
			})
		}
	}

	scope, release := EnterScope(o.parallel, store.logger)
	defer release()

	result, err := fn(ctx, scope)
	if err != nil {
		return zero, err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(envelope[T]{Fingerprint: fp, Result: result}); err != nil {
		return result, fmt.Errorf("failed to encode cache entry %s: %w", key.Name, err)
	}
	if err := store.write(key.Name, buf.Bytes()); err != nil {
		return result, err
	}

	store.logger.Debug("Cache entry written", map[string]interface{}{
		"key": key.Name,
	})
	return result, nil
}
