package block

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/QRCS-CORP/CEX-sub008"
)

// TestSerpent_RoundTrip checks encrypt/decrypt inverse correctness across
// every legal standard key size and round count.
func TestSerpent_RoundTrip(t *testing.T) {
	for _, keySize := range []int{16, 24, 32} {
		for _, rounds := range []int{32, 40, 48, 56, 64} {
			t.Run(subtestName(keySize, rounds), func(t *testing.T) {
				c, err := New(cex.Serpent)
				if err != nil {
					t.Fatalf("New: %v", err)
				}
				key := make([]byte, keySize)
				for i := range key {
					key[i] = byte(i*7 + 1)
				}
				if err := c.Init(cex.KeyParams{Key: key}, cex.Standard, rounds); err != nil {
					t.Fatalf("Init: %v", err)
				}
				pt := make([]byte, cex.BlockSize)
				for i := range pt {
					pt[i] = byte(i * 11)
				}
				ct := make([]byte, cex.BlockSize)
				if err := c.EncryptBlock(pt, ct); err != nil {
					t.Fatalf("EncryptBlock: %v", err)
				}
				if bytes.Equal(ct, pt) {
					t.Fatalf("ciphertext equals plaintext, cipher is not mixing")
				}
				back := make([]byte, cex.BlockSize)
				if err := c.DecryptBlock(ct, back); err != nil {
					t.Fatalf("DecryptBlock: %v", err)
				}
				if !bytes.Equal(back, pt) {
					t.Fatalf("round-trip mismatch: got %x, want %x", back, pt)
				}
			})
		}
	}
}

// TestSerpent_ExtendedScheduleRoundTrip checks the KDF-driven extended
// schedule round-trips for every legal extended key size.
func TestSerpent_ExtendedScheduleRoundTrip(t *testing.T) {
	for _, keySize := range []int{32, 64, 128} {
		c, err := New(cex.Serpent)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		key := make([]byte, keySize)
		for i := range key {
			key[i] = byte(i * 5)
		}
		if err := c.Init(cex.KeyParams{Key: key}, cex.CShake256, 0); err != nil {
			t.Fatalf("Init (keySize=%d): %v", keySize, err)
		}
		pt := make([]byte, cex.BlockSize)
		ct := make([]byte, cex.BlockSize)
		if err := c.EncryptBlock(pt, ct); err != nil {
			t.Fatalf("EncryptBlock: %v", err)
		}
		back := make([]byte, cex.BlockSize)
		if err := c.DecryptBlock(ct, back); err != nil {
			t.Fatalf("DecryptBlock: %v", err)
		}
		if !bytes.Equal(back, pt) {
			t.Fatalf("round-trip mismatch (keySize=%d): got %x, want %x", keySize, back, pt)
		}
	}
}

// TestSerpent_CShake1024ScheduleRoundTrip checks the 1024 cSHAKE strength
// tier round-trips the same as the other extended schedule kinds.
func TestSerpent_CShake1024ScheduleRoundTrip(t *testing.T) {
	c, err := New(cex.Serpent)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	key := make([]byte, 64)
	for i := range key {
		key[i] = byte(i * 3)
	}
	if err := c.Init(cex.KeyParams{Key: key}, cex.CShake1024, 0); err != nil {
		t.Fatalf("Init: %v", err)
	}
	pt := make([]byte, cex.BlockSize)
	ct := make([]byte, cex.BlockSize)
	if err := c.EncryptBlock(pt, ct); err != nil {
		t.Fatalf("EncryptBlock: %v", err)
	}
	back := make([]byte, cex.BlockSize)
	if err := c.DecryptBlock(ct, back); err != nil {
		t.Fatalf("DecryptBlock: %v", err)
	}
	if !bytes.Equal(back, pt) {
		t.Fatalf("round-trip mismatch: got %x, want %x", back, pt)
	}
}

func subtestName(keySize, rounds int) string {
	return strconv.Itoa(keySize*8) + "bit/r" + strconv.Itoa(rounds)
}
