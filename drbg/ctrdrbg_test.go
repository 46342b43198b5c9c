package drbg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/QRCS-CORP/CEX-sub008"
	"github.com/QRCS-CORP/CEX-sub008/entropy"
)

// countingSource deals out deterministic, distinct bytes on each call so
// reseed tests can tell whether a reseed actually happened.
type countingSource struct {
	calls int
}

func (s *countingSource) GetBytes(out []byte) error {
	s.calls++
	for i := range out {
		out[i] = byte(s.calls*31 + i)
	}
	return nil
}

// failingSource always errors, for testing EntropyError propagation.
type failingSource struct{}

func (failingSource) GetBytes(out []byte) error { return errors.New("entropy source unavailable") }

func testParams() cex.KeyParams {
	key := make([]byte, 32)
	iv := make([]byte, cex.BlockSize)
	for i := range key {
		key[i] = byte(i)
	}
	for i := range iv {
		iv[i] = byte(i + 1)
	}
	return cex.KeyParams{Key: key, IV: iv}
}

// TestCtrDrbg_Deterministic checks that two generators seeded with the
// same key/IV and never reseeded produce identical output streams.
func TestCtrDrbg_Deterministic(t *testing.T) {
	a, err := New(cex.Rijndael, &countingSource{}, DefaultReseedInterval)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := a.Init(testParams()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	b, err := New(cex.Rijndael, &countingSource{}, DefaultReseedInterval)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := b.Init(testParams()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	outA := make([]byte, 5000)
	outB := make([]byte, 5000)
	if err := a.Generate(outA); err != nil {
		t.Fatalf("Generate a: %v", err)
	}
	if err := b.Generate(outB); err != nil {
		t.Fatalf("Generate b: %v", err)
	}
	if !bytes.Equal(outA, outB) {
		t.Fatalf("identically-seeded generators diverged")
	}
}

// TestCtrDrbg_AutomaticReseed forces a small reseed interval so a single
// Generate call must split across a reseed boundary, and checks that the
// entropy source was actually consulted.
func TestCtrDrbg_AutomaticReseed(t *testing.T) {
	src := &countingSource{}
	d, err := New(cex.Rijndael, src, 64)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.Init(testParams()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	out := make([]byte, 200)
	if err := d.Generate(out); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if src.calls == 0 {
		t.Fatalf("expected at least one reseed, entropy source was never called")
	}
	if d.BytesSinceReseed() >= 64 {
		t.Fatalf("bytesSinceReseed not reset by automatic reseed: %d", d.BytesSinceReseed())
	}

	allZero := true
	for _, b := range out {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Fatalf("generated output is all zero")
	}
}

// TestCtrDrbg_ExplicitReseedChangesOutput checks that reseeding between
// two Generate calls changes the keystream.
func TestCtrDrbg_ExplicitReseedChangesOutput(t *testing.T) {
	d, err := New(cex.Rijndael, &countingSource{}, DefaultReseedInterval)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.Init(testParams()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	before := make([]byte, 64)
	if err := d.Generate(before); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if err := d.Reseed([]byte("test-tweak")); err != nil {
		t.Fatalf("Reseed: %v", err)
	}
	after := make([]byte, 64)
	if err := d.Generate(after); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if bytes.Equal(before, after) {
		t.Fatalf("reseed did not change generator output")
	}
}

// TestCtrDrbg_EntropySourceFailurePropagates checks that a failing
// entropy source surfaces as a structured EntropyError from Reseed.
func TestCtrDrbg_EntropySourceFailurePropagates(t *testing.T) {
	d, err := New(cex.Rijndael, failingSource{}, DefaultReseedInterval)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.Init(testParams()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	err = d.Reseed(nil)
	if !cex.IsEntropyError(err) {
		t.Fatalf("expected *cex.EntropyError, got %v (%T)", err, err)
	}
}

// TestCtrDrbg_NotInitializedError checks Generate before Init fails with a
// structured StateError.
func TestCtrDrbg_NotInitializedError(t *testing.T) {
	d, err := New(cex.Rijndael, &countingSource{}, DefaultReseedInterval)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	err = d.Generate(make([]byte, 16))
	if !cex.IsStateError(err) {
		t.Fatalf("expected *cex.StateError, got %v (%T)", err, err)
	}
}

var _ entropy.Source = (*countingSource)(nil)
var _ entropy.Source = failingSource{}
