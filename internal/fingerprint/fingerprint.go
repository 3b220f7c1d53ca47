// Package fingerprint computes content-derived identity keys for uploaded documents.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Fingerprint is a SHA-256 digest of raw document bytes, encoded as a
// lowercase hex string. Identical bytes always produce identical
// fingerprints, so it serves as the deduplication cache key.
type Fingerprint string

// Short returns an abbreviated form suitable for log lines.
func (f Fingerprint) Short() string {
	if len(f) < 8 {
		return string(f)
	}
	return string(f[:8]) + "..."
}

// Compute calculates the fingerprint of document content.
// It fails only on empty input, which is a caller error.
func Compute(content []byte) (Fingerprint, error) {
	if len(content) == 0 {
		return "", fmt.Errorf("document content cannot be empty")
	}

	sum := sha256.Sum256(content)
	return Fingerprint(hex.EncodeToString(sum[:])), nil
}
