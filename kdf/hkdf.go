package kdf

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Hkdf implements the KDF collaborator interface using HKDF-Extract-then-
// Expand (RFC 5869) over a selectable digest. It backs the
// HkdfSha256/HkdfSha512 extended key-schedule kinds.
type Hkdf struct {
	hashFunc func() hash.Hash
	reader   io.Reader
}

// NewHkdfSHA256 returns an Hkdf instance driven by SHA-256.
func NewHkdfSHA256() *Hkdf {
	return &Hkdf{hashFunc: sha256.New}
}

// NewHkdfSHA512 returns an Hkdf instance driven by SHA-512.
func NewHkdfSHA512() *Hkdf {
	return &Hkdf{hashFunc: sha512.New}
}

// Initialize binds the HKDF stream to key and info. No salt is used; the
// cipher's key already carries the entropy HKDF's salt argument would
// otherwise contribute.
func (h *Hkdf) Initialize(key, info []byte) error {
	if len(key) == 0 {
		return fmt.Errorf("hkdf: key must not be empty")
	}
	h.reader = hkdf.New(h.hashFunc, key, nil, info)
	return nil
}

// Generate fills out with the next len(out) bytes of the HKDF expand
// stream.
func (h *Hkdf) Generate(out []byte) error {
	if h.reader == nil {
		return fmt.Errorf("hkdf: not initialized")
	}
	if _, err := io.ReadFull(h.reader, out); err != nil {
		return fmt.Errorf("hkdf: generate: %w", err)
	}
	return nil
}
