package mode

import (
	"github.com/QRCS-CORP/CEX-sub008"
	"github.com/QRCS-CORP/CEX-sub008/block"
)

// CBC implements cipher-block chaining. Encrypt is always sequential;
// decrypt is embarrassingly parallel because each block's XOR input
// depends only on the immediately preceding, immutable ciphertext block.
type CBC struct {
	*baseMode
	wide64  []byte // rolling 64-byte wide-block IV, lazily initialized
	wide128 []byte // rolling 128-byte wide-block IV, lazily initialized
}

// NewCBC constructs a CBC mode instance over the given block cipher.
func NewCBC(cipher block.Cipher, cfg Config) (*CBC, error) {
	b, err := newBaseMode(cipher, cfg)
	if err != nil {
		return nil, err
	}
	return &CBC{baseMode: b}, nil
}

func (m *CBC) Name() string { return "CBC" }

func (m *CBC) Initialize(dir cex.Direction, params cex.KeyParams) error {
	if err := m.cipher.Init(params, m.cfg.Schedule, m.cfg.Rounds); err != nil {
		return err
	}
	if err := m.bindIV(params); err != nil {
		return err
	}
	m.dir = dir
	m.wide64 = nil
	m.wide128 = nil
	return nil
}

func (m *CBC) Transform(in, out []byte) error {
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

func (m *CBC) encryptSequential(in, out []byte) error {
	bs := m.BlockSize()
	prev := m.iv
	chainBuf := make([]byte, bs)
	for off := 0; off < len(in); off += bs {
		xorBlock(chainBuf, in[off:off+bs], prev)
		if err := m.cipher.EncryptBlock(chainBuf, out[off:off+bs]); err != nil {
			return err
		}
		prev = out[off : off+bs]
	}
	newIV := make([]byte, bs)
	copy(newIV, prev)
	m.iv = newIV
	return nil
}

func (m *CBC) decryptSequential(in, out []byte) error {
	return m.decryptSegment(in, out, m.iv)
}

// decryptSegment runs the sequential decrypt chain over one contiguous
// range using localIV as the chain's starting value; used directly by the
// non-parallel path and as the per-worker body of decryptParallel.
func (m *CBC) decryptSegment(in, out []byte, localIV []byte) error {
	bs := m.BlockSize()
	prev := localIV
	for off := 0; off < len(in); off += bs {
		if err := m.cipher.DecryptBlock(in[off:off+bs], out[off:off+bs]); err != nil {
			return err
		}
		xorBlock(out[off:off+bs], out[off:off+bs], prev)
		prev = in[off : off+bs]
	}
	return nil
}

func (m *CBC) decryptParallel(in, out []byte) error {
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
		var localIV []byte
		if seg.start == 0 {
			localIV = m.iv
		} else {
			localIV = in[seg.start-bs : seg.start]
		}
		return m.decryptSegment(in[seg.start:seg.end], out[seg.start:seg.end], localIV)
	})
	if err != nil {
		return err
	}
	newIV := make([]byte, bs)
	copy(newIV, in[len(in)-bs:])
	m.iv = newIV
	return nil
}

// wideTransform implements the Transform64/Transform128 logical wide-block
// chaining: the full wide block of ciphertext (or, for the first block,
// the IV repeated across every lane) is XORed against the next wide
// block's input before its lanes are run through the cipher's batched
// transform. This is self-inverse for matching encrypt/decrypt calls using
// the same wide-block size.
func (m *CBC) wideTransform(dir cex.Direction, in, out []byte, wideSize int, batched func(cex.Direction, []byte, []byte) error, state *[]byte) error {
	if err := m.checkInitialized(); err != nil {
		return err
	}
	if len(in)%wideSize != 0 {
		return cex.NewMisalignedError(len(in), wideSize)
	}
	if len(out) < len(in) {
		return cex.NewBufferError("BufferTooShort", len(out), len(in))
	}
	if *state == nil {
		prev := make([]byte, wideSize)
		for i := 0; i < wideSize; i += cex.BlockSize {
			copy(prev[i:i+cex.BlockSize], m.iv)
		}
		*state = prev
	}
	prev := *state
	lane := make([]byte, wideSize)
	for off := 0; off < len(in); off += wideSize {
		chunk := in[off : off+wideSize]
		dst := out[off : off+wideSize]
		if dir == cex.Encrypt {
			for i := range lane {
				lane[i] = chunk[i] ^ prev[i]
			}
			if err := batched(cex.Encrypt, lane, dst); err != nil {
				return err
			}
			copy(prev, dst)
		} else {
			if err := batched(cex.Decrypt, chunk, dst); err != nil {
				return err
			}
			for i := range dst {
				dst[i] ^= prev[i]
			}
			copy(prev, chunk)
		}
	}
	*state = prev
	return nil
}

// Transform64 chains CBC across 64-byte (4-lane) logical wide blocks.
func (m *CBC) Transform64(dir cex.Direction, in, out []byte) error {
	return m.wideTransform(dir, in, out, 64, m.cipher.Transform512, &m.wide64)
}

// Transform128 chains CBC across 128-byte (8-lane) logical wide blocks.
func (m *CBC) Transform128(dir cex.Direction, in, out []byte) error {
	return m.wideTransform(dir, in, out, 128, m.cipher.Transform1024, &m.wide128)
}
