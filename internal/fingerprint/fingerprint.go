// Package fingerprint computes the content digests recorded in destination
// metadata to detect when an authoritative value has changed.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Of returns the lowercase hex SHA-256 of the exact bytes of text.
// No normalization is applied: any byte change is a change.
func Of(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// Matches reports whether recorded was computed from text.
func Matches(recorded, text string) bool {
	return recorded != "" && recorded == Of(text)
}
