package mode

import (
	"github.com/QRCS-CORP/CEX-sub008"
	"github.com/QRCS-CORP/CEX-sub008/block"
)

// OFB implements output feedback mode: O_j = E_K(F_{j-1}), F_j = O_j,
// with F_0 the IV. Unlike CFB the feedback register never depends on the
// plaintext or ciphertext, so the keystream could in principle be
// precomputed, but each block still depends on the previous one: OFB has
// no parallel path.
type OFB struct {
	*baseMode
}

// NewOFB constructs an OFB mode instance over the given block cipher.
func NewOFB(cipher block.Cipher, cfg Config) (*OFB, error) {
	b, err := newBaseMode(cipher, cfg)
	if err != nil {
		return nil, err
	}
	return &OFB{baseMode: b}, nil
}

func (m *OFB) Name() string { return "OFB" }

func (m *OFB) Initialize(dir cex.Direction, params cex.KeyParams) error {
	if err := m.cipher.Init(params, m.cfg.Schedule, m.cfg.Rounds); err != nil {
		return err
	}
	if err := m.bindIV(params); err != nil {
		return err
	}
	m.dir = dir
	return nil
}

// Transform accepts any length input, including a final sub-block tail:
// the feedback register still advances one full block at a time, but the
// last block's keystream is only partially consumed.
func (m *OFB) Transform(in, out []byte) error {
	if err := m.checkInitialized(); err != nil {
		return err
	}
	if len(in) == 0 {
		return nil
	}
	if len(out) < len(in) {
		return cex.NewBufferError("BufferTooShort", len(out), len(in))
	}

	bs := m.BlockSize()
	feedback := m.iv
	stream := make([]byte, bs)
	off := 0
	for ; off+bs <= len(in); off += bs {
		if err := m.cipher.EncryptBlock(feedback, stream); err != nil {
			return err
		}
		xorBlock(out[off:off+bs], in[off:off+bs], stream)
		newFeedback := make([]byte, bs)
		copy(newFeedback, stream)
		feedback = newFeedback
	}
	if off < len(in) {
		if err := m.cipher.EncryptBlock(feedback, stream); err != nil {
			return err
		}
		tail := len(in) - off
		for i := 0; i < tail; i++ {
			out[off+i] = in[off+i] ^ stream[i]
		}
		newFeedback := make([]byte, bs)
		copy(newFeedback, stream)
		feedback = newFeedback
	}
	m.iv = feedback
	return nil
}

// ParallelBlockSize always reports 0 for OFB: the mode never runs
// multiple workers regardless of Config.IsParallel.
func (m *OFB) ParallelBlockSize() int { return 0 }
