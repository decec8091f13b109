// Package memo caches expensive computations on disk, keyed by a
// fingerprint of the computation's literal source text and its declared
// external dependencies.
//
// The fingerprint deliberately covers only what the caller declares. Two
// computations with identical source text but different closed-over values
// collide, and the cache is silently wrong, unless every relevant external
// value appears in the declared dependency list. This is the documented
// contract, not a defect to paper over.
package memo

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
)

// Fingerprint computes a deterministic digest over a computation's literal
// source representation and its declared dependencies. Identical inputs
// yield identical fingerprints regardless of process, machine, or prior
// state. Dependency order is significant.
func Fingerprint(source string, deps []string) string {
	h := sha256.New()
	writeField(h, []byte(source))
	for _, dep := range deps {
		writeField(h, []byte(dep))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// writeField frames each component with a length prefix so field
// boundaries are unambiguous in the hashed stream.
func writeField(h hash.Hash, data []byte) {
	var prefix [8]byte
	binary.BigEndian.PutUint64(prefix[:], uint64(len(data)))
	_, _ = h.Write(prefix[:])
	_, _ = h.Write(data)
}
