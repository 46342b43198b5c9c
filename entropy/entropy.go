// Package entropy defines the external entropy ("CSP") collaborator
// interface consumed by drbg.CtrDrbg reseeding, along with a default
// crypto/rand-backed provider. Full entropy-source/CSP implementations are
// out of scope for this core; only the interface and a minimal default
// implementation live here so the DRBG has something to reseed from.
package entropy

import (
	"crypto/rand"
	"fmt"
)

// Source supplies cryptographically secure random bytes on demand. An
// implementation may fail (EntropySourceFailed in the error taxonomy), for
// example if the underlying OS entropy pool is unavailable.
type Source interface {
	// GetBytes fills out with random bytes, returning an error if the
	// source could not be read.
	GetBytes(out []byte) error
}

// SystemSource is the default Source, backed by crypto/rand.
type SystemSource struct{}

// NewSystemSource returns a Source backed by the operating system's CSPRNG.
func NewSystemSource() *SystemSource {
	return &SystemSource{}
}

// GetBytes fills out with random bytes from crypto/rand.
func (s *SystemSource) GetBytes(out []byte) error {
	if _, err := rand.Read(out); err != nil {
		return fmt.Errorf("system entropy source failed: %w", err)
	}
	return nil
}
