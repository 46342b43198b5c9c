package mode

import (
	"github.com/QRCS-CORP/CEX-sub008"
	"github.com/QRCS-CORP/CEX-sub008/block"
)

// CFB implements cipher feedback mode. Both directions run the cipher's
// encrypt function only: C_j = P_j XOR E_K(F_{j-1}), P_j = C_j XOR
// E_K(F_{j-1}), where F_0 is the IV and F_j is the preceding ciphertext
// block. Decrypt is parallel for the same reason as CBC: each block's
// feedback input is the preceding ciphertext, known up front.
type CFB struct {
	*baseMode
}

// NewCFB constructs a CFB mode instance over the given block cipher.
func NewCFB(cipher block.Cipher, cfg Config) (*CFB, error) {
	b, err := newBaseMode(cipher, cfg)
	if err != nil {
		return nil, err
	}
	return &CFB{baseMode: b}, nil
}

func (m *CFB) Name() string { return "CFB" }

func (m *CFB) Initialize(dir cex.Direction, params cex.KeyParams) error {
	if err := m.cipher.Init(params, m.cfg.Schedule, m.cfg.Rounds); err != nil {
		return err
	}
	if err := m.bindIV(params); err != nil {
		return err
	}
	m.dir = dir
	return nil
}

func (m *CFB) Transform(in, out []byte) error {
	if err := m.checkInitialized(); err != nil {
		return err
	}
	if len(in) == 0 {
		return nil
	}
	bs := m.BlockSize()
	if len(in)%bs != 0 {
		return cex.NewMisalignedError(len(in), bs)
	}
	if len(out) < len(in) {
		return cex.NewBufferError("BufferTooShort", len(out), len(in))
	}

	if m.dir == cex.Encrypt {
		return m.encryptSequential(in, out)
	}
	if m.cfg.IsParallel && len(in) >= ParallelMinSize {
		return m.decryptParallel(in, out)
	}
	return m.decryptSequential(in, out)
}

func (m *CFB) encryptSequential(in, out []byte) error {
	bs := m.BlockSize()
	feedback := m.iv
	stream := make([]byte, bs)
	for off := 0; off < len(in); off += bs {
		if err := m.cipher.EncryptBlock(feedback, stream); err != nil {
			return err
		}
		xorBlock(out[off:off+bs], in[off:off+bs], stream)
		feedback = out[off : off+bs]
	}
	newIV := make([]byte, bs)
	copy(newIV, feedback)
	m.iv = newIV
	return nil
}

func (m *CFB) decryptSequential(in, out []byte) error {
	return m.decryptSegment(in, out, m.iv)
}

// decryptSegment runs the sequential decrypt chain over one contiguous
// range using localFeedback as the chain's starting feedback register;
// used directly by the non-parallel path and as the per-worker body of
// decryptParallel.
func (m *CFB) decryptSegment(in, out []byte, localFeedback []byte) error {
	bs := m.BlockSize()
	feedback := localFeedback
	stream := make([]byte, bs)
	for off := 0; off < len(in); off += bs {
		if err := m.cipher.EncryptBlock(feedback, stream); err != nil {
			return err
		}
		xorBlock(out[off:off+bs], in[off:off+bs], stream)
		feedback = in[off : off+bs]
	}
	return nil
}

func (m *CFB) decryptParallel(in, out []byte) error {
	bs := m.BlockSize()
	workers := m.cfg.workers()
	segSize := m.ParallelBlockSize()
	if segSize > 0 {
		workers = (len(in) + segSize - 1) / segSize
	}
	segs := planSegments(len(in), workers, bs)
	if segs == nil {
		return m.decryptSequential(in, out)
	}
	err := runParallel(len(segs), func(i int) error {
		seg := segs[i]
		var localFeedback []byte
		if seg.start == 0 {
			localFeedback = m.iv
		} else {
			localFeedback = in[seg.start-bs : seg.start]
		}
		return m.decryptSegment(in[seg.start:seg.end], out[seg.start:seg.end], localFeedback)
	})
	if err != nil {
		return err
	}
	newIV := make([]byte, bs)
	copy(newIV, in[len(in)-bs:])
	m.iv = newIV
	return nil
}
