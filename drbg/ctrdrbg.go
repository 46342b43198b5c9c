// Package drbg implements a counter-mode deterministic random bit
// generator: CTR mode run with an all-zero plaintext, plus a reseed policy
// layer that refreshes the key and counter from an external entropy
// collaborator once a configurable number of output bytes has been drawn.
package drbg

import (
	"github.com/QRCS-CORP/CEX-sub008"
	"github.com/QRCS-CORP/CEX-sub008/block"
	"github.com/QRCS-CORP/CEX-sub008/entropy"
	"github.com/QRCS-CORP/CEX-sub008/kdf"
	"github.com/QRCS-CORP/CEX-sub008/mode"
)

// DefaultReseedInterval is the number of output bytes drawn between
// automatic reseeds: 2^20 blocks of 16 bytes, 16 MiB.
const DefaultReseedInterval = (1 << 20) * cex.BlockSize

// CtrDrbg is a reseedable byte generator built on cipher-mode CTR. The
// counter is 128 bits; the distance between reseeds is far smaller than
// 2^128, so counter wraparound during the life of one seed is not a
// concern this generator needs to guard against.
type CtrDrbg struct {
	cipherKind       cex.BlockCipherKind
	ctr              *mode.CTR
	source           entropy.Source
	reseedInterval   int
	bytesSinceReseed int
	initialized      bool
	keySize          int
}

// New constructs a CtrDrbg over the given block cipher kind, using source
// for (re)seeding and reseedInterval bytes between automatic reseeds. A
// zero reseedInterval selects DefaultReseedInterval.
func New(cipherKind cex.BlockCipherKind, source entropy.Source, reseedInterval int) (*CtrDrbg, error) {
	if source == nil {
		return nil, cex.NewConfigError("InvalidEntropySource", "source", "entropy source cannot be nil")
	}
	if reseedInterval <= 0 {
		reseedInterval = DefaultReseedInterval
	}
	return &CtrDrbg{cipherKind: cipherKind, source: source, reseedInterval: reseedInterval}, nil
}

// Init seeds the generator from params.Key (the generator's initial key)
// and params.IV (the initial 128-bit counter). The key size drawn from
// the entropy collaborator on reseed is fixed to len(params.Key).
func (d *CtrDrbg) Init(params cex.KeyParams) error {
	c, err := block.New(d.cipherKind)
	if err != nil {
		return err
	}
	ctr, err := mode.NewCTR(c, mode.DefaultConfig())
	if err != nil {
		return err
	}
	if err := ctr.Initialize(cex.Encrypt, params); err != nil {
		return err
	}
	d.ctr = ctr
	d.keySize = len(params.Key)
	d.bytesSinceReseed = 0
	d.initialized = true
	return nil
}

// Reseed replaces the key and counter with values derived from fresh
// entropy through HKDF-SHA256, using "drbg-reseed" followed by
// additionalInput as the HKDF info tweak. Both a new key and a new 128-bit
// counter are derived, and bytes_since_reseed resets to zero. The current
// key and counter do not enter the derivation.
func (d *CtrDrbg) Reseed(additionalInput []byte) error {
	if !d.initialized {
		return &cex.StateError{Kind: "NotInitialized", Message: "drbg not initialized", Err: cex.ErrGeneratorUninit}
	}
	seedSize := d.keySize
	if seedSize == 0 {
		seedSize = 32
	}
	fresh := make([]byte, seedSize)
	if err := d.source.GetBytes(fresh); err != nil {
		return cex.NewEntropyError("reseed", err)
	}

	h := kdf.NewHkdfSHA256()
	// Mix material is the fresh entropy; the info tweak folds in both the
	// caller's additional input and a domain label so reseed output never
	// collides with the generator's own keystream output.
	info := append([]byte("drbg-reseed"), additionalInput...)
	if err := h.Initialize(fresh, info); err != nil {
		return cex.NewEntropyError("reseed", err)
	}
	derived := make([]byte, seedSize+cex.BlockSize)
	if err := h.Generate(derived); err != nil {
		return cex.NewEntropyError("reseed", err)
	}

	params := cex.KeyParams{Key: derived[:seedSize], IV: derived[seedSize : seedSize+cex.BlockSize]}
	c, err := block.New(d.cipherKind)
	if err != nil {
		return err
	}
	ctr, err := mode.NewCTR(c, mode.DefaultConfig())
	if err != nil {
		return err
	}
	if err := ctr.Initialize(cex.Encrypt, params); err != nil {
		return err
	}
	d.ctr = ctr
	d.bytesSinceReseed = 0
	return nil
}

// Generate fills out with pseudorandom bytes, the CTR keystream applied to
// an all-zero plaintext. If the reseed interval is exceeded partway
// through the request, the request is split at that boundary: the
// generator reseeds automatically (pulling fresh entropy from the
// collaborator) and continues filling the remainder of out from the new
// state.
func (d *CtrDrbg) Generate(out []byte) error {
	if !d.initialized {
		return &cex.StateError{Kind: "NotInitialized", Message: "drbg not initialized", Err: cex.ErrGeneratorUninit}
	}
	off := 0
	for off < len(out) {
		remaining := d.reseedInterval - d.bytesSinceReseed
		chunk := len(out) - off
		if chunk > remaining {
			chunk = remaining
		}
		if chunk > 0 {
			zero := make([]byte, chunk)
			if err := d.ctr.Transform(zero, out[off:off+chunk]); err != nil {
				return err
			}
			off += chunk
			d.bytesSinceReseed += chunk
		}
		if d.bytesSinceReseed >= d.reseedInterval {
			if err := d.Reseed(nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsInitialized reports whether Init has been called successfully.
func (d *CtrDrbg) IsInitialized() bool { return d.initialized }

// BytesSinceReseed reports how many output bytes have been drawn since the
// last reseed (automatic or explicit).
func (d *CtrDrbg) BytesSinceReseed() int { return d.bytesSinceReseed }
