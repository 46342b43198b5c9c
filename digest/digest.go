// Package digest defines a message-digest collaborator interface for KDF
// and MAC constructions. The kdf package's HKDF and cSHAKE take their hash
// constructors directly and do not use this package. Concrete digest
// algorithms live outside this core; this
// package only specifies the interface and provides thin adapters over the
// concrete implementations the rest of the module already depends on.
package digest

import "hash"

// Digest is the external collaborator interface a KDF or MAC consumes:
// block size, digest size, streaming update, and finalize. hash.Hash
// already satisfies this shape, so stdlib and golang.org/x/crypto hash
// implementations are valid Digest providers without adaptation beyond the
// constructor wrappers below.
type Digest interface {
	hash.Hash
	// BlockSize returns the digest's internal block size in bytes.
	BlockSize() int
	// Size returns the digest's output size in bytes.
	Size() int
}

// Provider constructs a fresh Digest instance, so a holder can start each
// operation from clean state by constructing a new instance. The
// constructors in this package have this signature.
type Provider func() Digest

// Note: Skein is a plausible digest family alongside SHA-2/Keccak/Blake,
// but no actively maintained Go package implements it; rather than
// force-fit a library that does not exist, Skein is left satisfied only on
// paper by this interface: a caller with their own hash.Hash-shaped Skein
// implementation can still supply it as a Digest without any change here.
