// Package dedupe suppresses repeated article URLs within one site pass.
package dedupe

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint returns the hex SHA-256 of the trimmed URL
func Fingerprint(url string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(url)))
	return hex.EncodeToString(sum[:])
}

// Seen is the set of fingerprints already handled in a site pass.
// It is not safe for concurrent use.
type Seen struct {
	fingerprints map[string]struct{}
}

// NewSeen returns an empty set
func NewSeen() *Seen {
	return &Seen{fingerprints: make(map[string]struct{})}
}

// Add records url and reports whether it was new.
// A false return means the candidate must be skipped.
func (s *Seen) Add(url string) bool {
	fp := Fingerprint(url)
	if _, ok := s.fingerprints[fp]; ok {
		return false
	}
	s.fingerprints[fp] = struct{}{}
	return true
}

// Len returns the number of distinct URLs recorded
func (s *Seen) Len() int {
	return len(s.fingerprints)
}
