// Package kdf implements the key-derivation-function collaborator
// interface consumed by the block package's extended key schedules
// (dispatched by newKdfFromSchedule): HKDF-Extract-then-Expand
// over a selectable digest, and cSHAKE-128/256 as an alternative extended
// schedule, plus a passphrase-based (Argon2id/PBKDF2) key derivation path
// for turning a user password into the key bytes the cipher core itself
// treats as caller-owned.
package kdf

// KDF is deterministic and restartable: the same (key, info) pair always
// produces the same output stream, and Generate may be called repeatedly
// to pull successive output bytes.
type KDF interface {
	// Initialize binds the KDF to a key and an optional info/context tweak.
	Initialize(key, info []byte) error
	// Generate fills out with the next len(out) bytes of KDF output.
	Generate(out []byte) error
}
