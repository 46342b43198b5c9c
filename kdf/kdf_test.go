package kdf

import (
	"bytes"
	"testing"
)

// TestHkdf_Deterministic checks that two Hkdf streams initialized with the
// same key/info produce identical output, and that distinct info strings
// diverge.
func TestHkdf_Deterministic(t *testing.T) {
	key := []byte("hkdf test key material, 32+ bytes long")

	a := NewHkdfSHA256()
	if err := a.Initialize(key, []byte("context-a")); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	b := NewHkdfSHA256()
	if err := b.Initialize(key, []byte("context-a")); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	outA := make([]byte, 64)
	outB := make([]byte, 64)
	if err := a.Generate(outA); err != nil {
		t.Fatalf("Generate a: %v", err)
	}
	if err := b.Generate(outB); err != nil {
		t.Fatalf("Generate b: %v", err)
	}
	if !bytes.Equal(outA, outB) {
		t.Fatalf("identical (key, info) produced different output")
	}

	c := NewHkdfSHA256()
	if err := c.Initialize(key, []byte("context-b")); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	outC := make([]byte, 64)
	if err := c.Generate(outC); err != nil {
		t.Fatalf("Generate c: %v", err)
	}
	if bytes.Equal(outA, outC) {
		t.Fatalf("different info tweaks produced identical output")
	}
}

// TestHkdf_SHA512Variant checks the SHA-512-backed constructor produces
// output distinct from the SHA-256 variant under the same key/info.
func TestHkdf_SHA512Variant(t *testing.T) {
	key := []byte("shared key material for variant comparison test")
	info := []byte("info")

	h256 := NewHkdfSHA256()
	if err := h256.Initialize(key, info); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	out256 := make([]byte, 32)
	if err := h256.Generate(out256); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	h512 := NewHkdfSHA512()
	if err := h512.Initialize(key, info); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	out512 := make([]byte, 32)
	if err := h512.Generate(out512); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if bytes.Equal(out256, out512) {
		t.Fatalf("SHA-256 and SHA-512 HKDF variants produced identical output")
	}
}

// TestHkdf_NotInitialized checks Generate before Initialize fails.
func TestHkdf_NotInitialized(t *testing.T) {
	h := NewHkdfSHA256()
	if err := h.Generate(make([]byte, 16)); err == nil {
		t.Fatalf("expected error from Generate before Initialize")
	}
}

// TestHkdf_EmptyKeyRejected checks Initialize rejects an empty key.
func TestHkdf_EmptyKeyRejected(t *testing.T) {
	h := NewHkdfSHA256()
	if err := h.Initialize(nil, []byte("info")); err == nil {
		t.Fatalf("expected error from Initialize with empty key")
	}
}

// TestCShake_Deterministic mirrors the HKDF determinism check for all
// three cSHAKE strength tiers.
func TestCShake_Deterministic(t *testing.T) {
	key := []byte("cshake test key material")

	for _, newFn := range []func() *CShake{NewCShake128, NewCShake256, NewCShake1024} {
		a := newFn()
		if err := a.Initialize(key, []byte("ctx")); err != nil {
			t.Fatalf("Initialize: %v", err)
		}
		b := newFn()
		if err := b.Initialize(key, []byte("ctx")); err != nil {
			t.Fatalf("Initialize: %v", err)
		}
		outA := make([]byte, 48)
		outB := make([]byte, 48)
		if err := a.Generate(outA); err != nil {
			t.Fatalf("Generate a: %v", err)
		}
		if err := b.Generate(outB); err != nil {
			t.Fatalf("Generate b: %v", err)
		}
		if !bytes.Equal(outA, outB) {
			t.Fatalf("identical (key, info) produced different cSHAKE output")
		}
	}
}

// TestCShake_StrengthsDiffer checks cSHAKE-128 and cSHAKE-256 diverge
// under the same key/info.
func TestCShake_StrengthsDiffer(t *testing.T) {
	key := []byte("cshake test key material")
	info := []byte("ctx")

	c128 := NewCShake128()
	if err := c128.Initialize(key, info); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	out128 := make([]byte, 32)
	if err := c128.Generate(out128); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	c256 := NewCShake256()
	if err := c256.Initialize(key, info); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	out256 := make([]byte, 32)
	if err := c256.Generate(out256); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if bytes.Equal(out128, out256) {
		t.Fatalf("cSHAKE-128 and cSHAKE-256 produced identical output")
	}
}

// TestCShake_1024TierMatchesCShake256 documents that the 1024 strength
// tier is not a distinct sponge construction: it reuses the cSHAKE-256
// sponge, so identical (key, info) pairs produce identical output.
func TestCShake_1024TierMatchesCShake256(t *testing.T) {
	key := []byte("cshake test key material")
	info := []byte("ctx")

	c256 := NewCShake256()
	if err := c256.Initialize(key, info); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	out256 := make([]byte, 32)
	if err := c256.Generate(out256); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	c1024 := NewCShake1024()
	if err := c1024.Initialize(key, info); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	out1024 := make([]byte, 32)
	if err := c1024.Generate(out1024); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if !bytes.Equal(out256, out1024) {
		t.Fatalf("1024 tier diverged from cSHAKE-256: got %x, want %x", out1024, out256)
	}
}

// TestCShake_NotInitialized checks Generate before Initialize fails.
func TestCShake_NotInitialized(t *testing.T) {
	c := NewCShake256()
	if err := c.Generate(make([]byte, 16)); err == nil {
		t.Fatalf("expected error from Generate before Initialize")
	}
}

// TestPassphraseProvider_Argon2RoundTrip checks that deriving a key twice
// from the same passphrase and salt yields identical key bytes, and that
// a different salt yields a different key.
func TestPassphraseProvider_Argon2RoundTrip(t *testing.T) {
	p := NewArgon2PassphraseProvider([]byte("correct horse battery staple"), Argon2Params{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltSize:    16,
		KeySize:     32,
	})
	salt, err := p.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	k1, err := p.DeriveKey(salt)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	k2, err := p.DeriveKey(salt)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("same passphrase+salt produced different keys")
	}
	if len(k1) != 32 {
		t.Fatalf("got key length %d, want 32", len(k1))
	}

	otherSalt, err := p.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	k3, err := p.DeriveKey(otherSalt)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if bytes.Equal(k1, k3) {
		t.Fatalf("different salts produced identical keys")
	}
}

// TestPassphraseProvider_PBKDF2RoundTrip mirrors the Argon2 test for the
// PBKDF2 path.
func TestPassphraseProvider_PBKDF2RoundTrip(t *testing.T) {
	p := NewPBKDF2PassphraseProvider([]byte("correct horse battery staple"), PBKDF2Params{
		Iterations: 1000,
		Hash:       PassphraseSHA256,
		SaltSize:   16,
		KeySize:    32,
	})
	salt, err := p.GenerateSalt()
	if err != nil {
		t.Fatalf("GenerateSalt: %v", err)
	}
	k1, err := p.DeriveKey(salt)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	k2, err := p.DeriveKey(salt)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("same passphrase+salt produced different keys")
	}
}

// TestPassphraseProvider_EmptyPassphraseRejected checks DeriveKey rejects
// an empty passphrase.
func TestPassphraseProvider_EmptyPassphraseRejected(t *testing.T) {
	p := NewArgon2PassphraseProvider(nil, DefaultArgon2Params())
	salt := make([]byte, 32)
	if _, err := p.DeriveKey(salt); err == nil {
		t.Fatalf("expected error from DeriveKey with empty passphrase")
	}
}
