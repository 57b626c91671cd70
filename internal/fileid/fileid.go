// Package fileid provides a deterministic run ID from a transcript file path.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
)

const prefix = "run:"

// RunID returns a stable run ID for the given absolute path. The same path
// always yields the same ID, so re-processing a changed transcript replaces
// its earlier run instead of accumulating duplicates.
func RunID(absolutePath string) string {
	normalized := filepath.Clean(absolutePath)
	hash := sha256.Sum256([]byte(normalized))
	return prefix + hex.EncodeToString(hash[:])
}
