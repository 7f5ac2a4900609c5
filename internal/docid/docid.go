// Package docid derives a deterministic document ID from a file path.
package docid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "doc:"

// DocID returns a stable document ID for the given path. The same path
// always yields the same ID, so cache rows and library entries survive
// restarts without coordination.
func DocID(path string) string {
	normalized := filepath.Clean(path)
	hash := sha256.Sum256([]byte(normalized))
	return prefix + hex.EncodeToString(hash[:])
}
