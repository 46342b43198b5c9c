package block

import (
	"crypto/aes"
	"crypto/cipher"

	"github.com/QRCS-CORP/CEX-sub008"
)

// rijndaelNI is the AES-NI-accelerated sibling of rijndael. It is
// selected by internal/cpu's capability probe at construction and exposes
// the identical contract as the software implementation.
//
// For the genuine-AES case (standard schedule, standard key size, default
// round count) it delegates single/batched block operations to
// crypto/aes, which itself dispatches to the Go runtime's AES-NI assembly
// on amd64/arm64 when available. For extended-schedule or non-default
// round counts, where the round function is still "one AES round repeated
// N times" but N is no longer a standard AES round count, it falls back
// to the same round-key-driven transform the software implementation
// uses; the instruction-level acceleration only changes throughput, never
// the output.
type rijndaelNI struct {
	sw       *rijndael
	aesBlock cipher.Block // non-nil only for the genuine-AES fast path
}

func newRijndaelNI() *rijndaelNI {
	return &rijndaelNI{sw: newRijndaelSoftware()}
}

func (r *rijndaelNI) Name() string { return "Rijndael-NI" }

func (r *rijndaelNI) BlockSize() int { return cex.BlockSize }

func (r *rijndaelNI) Rounds() int { return r.sw.rounds }

func (r *rijndaelNI) IsInitialized() bool { return r.sw.initialized }

func (r *rijndaelNI) LegalKeySizes() []int { return r.sw.LegalKeySizes() }

func (r *rijndaelNI) LegalRounds() []int { return r.sw.LegalRounds() }

func (r *rijndaelNI) Init(params cex.KeyParams, schedule cex.KeyScheduleKind, rounds int) error {
	if err := r.sw.Init(params, schedule, rounds); err != nil {
		return err
	}
	r.aesBlock = nil
	if schedule == cex.Standard {
		switch len(params.Key) {
		case 16, 24, 32:
			if block, err := aes.NewCipher(params.Key); err == nil {
				r.aesBlock = block
			}
		}
	}
	return nil
}

func (r *rijndaelNI) EncryptBlock(in, out []byte) error {
	if !r.sw.initialized {
		return &cex.StateError{Kind: "NotInitialized", Message: "rijndael-ni not initialized", Err: cex.ErrNotInitialized}
	}
	if len(in) < cex.BlockSize || len(out) < cex.BlockSize {
		return cex.NewBufferError("BufferTooShort", len(in), cex.BlockSize)
	}
	if r.aesBlock != nil {
		r.aesBlock.Encrypt(out, in)
		return nil
	}
	return r.sw.EncryptBlock(in, out)
}

func (r *rijndaelNI) DecryptBlock(in, out []byte) error {
	if !r.sw.initialized {
		return &cex.StateError{Kind: "NotInitialized", Message: "rijndael-ni not initialized", Err: cex.ErrNotInitialized}
	}
	if len(in) < cex.BlockSize || len(out) < cex.BlockSize {
		return cex.NewBufferError("BufferTooShort", len(in), cex.BlockSize)
	}
	if r.aesBlock != nil {
		r.aesBlock.Decrypt(out, in)
		return nil
	}
	return r.sw.DecryptBlock(in, out)
}

func (r *rijndaelNI) Transform512(dir cex.Direction, in, out []byte) error {
	return transformN(r, dir, in, out, 4)
}

func (r *rijndaelNI) Transform1024(dir cex.Direction, in, out []byte) error {
	return transformN(r, dir, in, out, 8)
}

func (r *rijndaelNI) Transform2048(dir cex.Direction, in, out []byte) error {
	return transformN(r, dir, in, out, 16)
}
