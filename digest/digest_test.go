package digest

import (
	"bytes"
	"testing"
)

func checkDigest(t *testing.T, name string, d Digest, wantSize int) {
	t.Helper()
	if d.Size() != wantSize {
		t.Fatalf("%s: Size() = %d, want %d", name, d.Size(), wantSize)
	}
	if d.BlockSize() <= 0 {
		t.Fatalf("%s: BlockSize() = %d, want positive", name, d.BlockSize())
	}

	msg := []byte("the quick brown fox jumps over the lazy dog")
	if _, err := d.Write(msg); err != nil {
		t.Fatalf("%s: Write: %v", name, err)
	}
	sum := d.Sum(nil)
	if len(sum) != wantSize {
		t.Fatalf("%s: Sum length = %d, want %d", name, len(sum), wantSize)
	}

	// Hashing the same message twice from fresh state must agree.
	d.Reset()
	if _, err := d.Write(msg); err != nil {
		t.Fatalf("%s: Write after Reset: %v", name, err)
	}
	again := d.Sum(nil)
	if !bytes.Equal(sum, again) {
		t.Fatalf("%s: digest not deterministic across Reset", name)
	}
}

func TestDigest_SHA256(t *testing.T) { checkDigest(t, "SHA256", SHA256(), 32) }
func TestDigest_SHA512(t *testing.T) { checkDigest(t, "SHA512", SHA512(), 64) }

func TestDigest_Keccak256(t *testing.T) { checkDigest(t, "Keccak256", Keccak256(), 32) }
func TestDigest_Keccak512(t *testing.T) { checkDigest(t, "Keccak512", Keccak512(), 64) }

func TestDigest_Blake2b256(t *testing.T) { checkDigest(t, "Blake2b256", Blake2b256(), 32) }
func TestDigest_Blake2b512(t *testing.T) { checkDigest(t, "Blake2b512", Blake2b512(), 64) }

func TestDigest_Shake128(t *testing.T) { checkDigest(t, "Shake128", Shake128(32), 32) }
func TestDigest_Shake256(t *testing.T) { checkDigest(t, "Shake256", Shake256(64), 64) }

// TestDigest_DistinctMessagesDivergeForEachAlgorithm spot-checks that each
// digest actually mixes input rather than returning a fixed value.
func TestDigest_DistinctMessagesDivergeForEachAlgorithm(t *testing.T) {
	providers := map[string]func() Digest{
		"SHA256":     SHA256,
		"SHA512":     SHA512,
		"Keccak256":  Keccak256,
		"Blake2b256": Blake2b256,
		"Shake128":   func() Digest { return Shake128(32) },
	}
	for name, newFn := range providers {
		a := newFn()
		a.Write([]byte("message one"))
		sumA := a.Sum(nil)

		b := newFn()
		b.Write([]byte("message two"))
		sumB := b.Sum(nil)

		if bytes.Equal(sumA, sumB) {
			t.Fatalf("%s: distinct messages produced identical digests", name)
		}
	}
}
