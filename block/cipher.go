// Package block implements the HX extended block-cipher family: Rijndael,
// Serpent, and Twofish, each selectable with either the cipher's standard
// key schedule or a KDF-driven extended schedule, plus a capability-probed
// AES-NI/software dispatch for Rijndael.
package block

import (
	"github.com/QRCS-CORP/CEX-sub008"
)

// Cipher is the block-cipher contract: a fixed 16-byte block,
// single-block encrypt/decrypt, and batched 4/8/16-block transforms whose
// output must be identical to calling the single-block primitive that many
// times. All methods fail with a *cex.StateError wrapping
// cex.ErrNotInitialized before Init has succeeded.
type Cipher interface {
	// Init binds the cipher to a key, optional info tweak, and schedule
	// kind. If rounds is 0, the cipher's default round count for the key
	// size and schedule kind is used.
	Init(params cex.KeyParams, schedule cex.KeyScheduleKind, rounds int) error

	// EncryptBlock encrypts exactly one 16-byte block.
	EncryptBlock(in, out []byte) error
	// DecryptBlock decrypts exactly one 16-byte block.
	DecryptBlock(in, out []byte) error

	// Transform512 processes 4 consecutive blocks (64 bytes).
	Transform512(dir cex.Direction, in, out []byte) error
	// Transform1024 processes 8 consecutive blocks (128 bytes).
	Transform1024(dir cex.Direction, in, out []byte) error
	// Transform2048 processes 16 consecutive blocks (256 bytes).
	Transform2048(dir cex.Direction, in, out []byte) error

	BlockSize() int
	Rounds() int
	Name() string
	LegalKeySizes() []int
	LegalRounds() []int
	IsInitialized() bool
}

// New constructs a block cipher of the given kind. For kind == Rijndael,
// New returns the AES-NI-backed implementation whenever the platform
// reports AES-NI, and the software implementation otherwise. The
// AES-NI-backed implementation uses crypto/aes only for a standard schedule
// with a 16-, 24- or 32-byte key and runs the software round function for
// every other schedule; callers never see a functional difference, only a
// performance one.
func New(kind cex.BlockCipherKind) (Cipher, error) {
	switch kind {
	case cex.Rijndael:
		return newRijndaelDispatch(), nil
	case cex.Serpent:
		return newSerpent(), nil
	case cex.Twofish:
		return newTwofish(), nil
	default:
		return nil, cex.NewConfigError("InvalidCipherKind", "kind", "unrecognized block cipher kind")
	}
}

// transformN is a shared helper implementing the batched transforms in
// terms of the single-block primitive: semantics are identical to calling
// EncryptBlock/DecryptBlock blockCount times, one call per 16-byte lane.
func transformN(c Cipher, dir cex.Direction, in, out []byte, blockCount int) error {
	want := blockCount * cex.BlockSize
	if len(in) < want {
		return cex.NewBufferError("BufferTooShort", len(in), want)
	}
	if len(out) < want {
		return cex.NewBufferError("BufferTooShort", len(out), want)
	}
	for i := 0; i < blockCount; i++ {
		off := i * cex.BlockSize
		slice := in[off : off+cex.BlockSize]
		dst := out[off : off+cex.BlockSize]
		var err error
		if dir == cex.Encrypt {
			err = c.EncryptBlock(slice, dst)
		} else {
			err = c.DecryptBlock(slice, dst)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
