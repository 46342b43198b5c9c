// Package stream implements the cipher-stream driver: a chunked
// encrypt/decrypt pass over an io.Reader/io.Writer pair or a pair of
// byte slices, built on top of a mode.Mode. Block-aligned modes (CBC,
// CFB) get the final short chunk padded on encrypt and stripped on
// decrypt; CTR and OFB pass the final chunk through unmodified, relying
// on the mode's own partial-tail handling.
package stream

import (
	"io"

	"github.com/QRCS-CORP/CEX-sub008"
	"github.com/QRCS-CORP/CEX-sub008/mode"
	"github.com/QRCS-CORP/CEX-sub008/padding"
)

// DefaultChunkSize is used when the underlying mode reports no parallel
// segment size (parallelism disabled or not configured).
const DefaultChunkSize = 64 * 1024

// CipherStream drives a mode.Mode over chunked input, applying padding on
// the final block for modes that require block alignment.
type CipherStream struct {
	m            mode.Mode
	padder       padding.Scheme // nil for stream-style modes (CTR/OFB)
	blockAligned bool
	dir          cex.Direction
}

// New constructs a CipherStream over mode m. padder must be non-nil for
// CBC/CFB (block-aligned modes); it is ignored for CTR/OFB, which handle
// a short final chunk through the mode's own partial-tail support.
func New(m mode.Mode, padder padding.Scheme) (*CipherStream, error) {
	if m == nil {
		return nil, cex.NewConfigError("InvalidMode", "mode", "cipher mode cannot be nil")
	}
	blockAligned := isBlockAlignedName(m.Name())
	if blockAligned && padder == nil {
		return nil, cex.NewConfigError("InvalidPadding", "padder", "block-aligned modes require a padding scheme")
	}
	return &CipherStream{m: m, padder: padder, blockAligned: blockAligned}, nil
}

func isBlockAlignedName(name string) bool {
	return name == "CBC" || name == "CFB"
}

// Initialize binds the stream to a direction and key/IV, forwarding to
// the underlying mode.
func (s *CipherStream) Initialize(dir cex.Direction, params cex.KeyParams) error {
	if err := s.m.Initialize(dir, params); err != nil {
		return err
	}
	s.dir = dir
	return nil
}

func (s *CipherStream) chunkSize() int {
	if n := s.m.ParallelBlockSize(); n > 0 {
		return n
	}
	bs := s.m.BlockSize()
	size := DefaultChunkSize
	return (size / bs) * bs
}

// WriteReaderWriter reads r in chunks sized to the mode's parallel
// segment size (or DefaultChunkSize), transforms each chunk, and writes
// the result to w, handling the final short chunk per the mode's
// alignment requirement. It reads one chunk ahead so a chunk landing
// exactly on the boundary is still recognized as final and gets the
// same pad/strip treatment as a short one.
func (s *CipherStream) WriteReaderWriter(r io.Reader, w io.Writer) error {
	bs := s.m.BlockSize()
	chunk := s.chunkSize()
	out := make([]byte, chunk+bs)

	cur := make([]byte, chunk)
	curN, curErr := io.ReadFull(r, cur)
	if curErr == io.EOF {
		return nil
	}
	if curErr != nil && curErr != io.ErrUnexpectedEOF {
		return curErr
	}

	for {
		if curErr == io.ErrUnexpectedEOF {
			return s.writeChunk(cur[:curN], out, w, true)
		}
		next := make([]byte, chunk)
		nextN, nextErr := io.ReadFull(r, next)
		if nextErr == io.EOF {
			return s.writeChunk(cur[:curN], out, w, true)
		}
		if nextErr != nil && nextErr != io.ErrUnexpectedEOF {
			return nextErr
		}
		if err := s.writeChunk(cur[:curN], out, w, false); err != nil {
			return err
		}
		cur, curN, curErr = next, nextN, nextErr
	}
}

func (s *CipherStream) writeChunk(data []byte, scratch []byte, w io.Writer, last bool) error {
	if !last || !s.blockAligned {
		// A mid-stream chunk, or a stream-style mode (CTR/OFB) that
		// handles any length including its own final short chunk.
		dst := scratch[:len(data)]
		if err := s.m.Transform(data, dst); err != nil {
			return err
		}
		_, err := w.Write(dst)
		return err
	}

	bs := s.m.BlockSize()

	if s.dir == cex.Decrypt {
		// Ciphertext under a block-aligned mode is always a multiple of
		// bs, final chunk included; decrypt it whole and strip padding
		// from only the last block.
		if len(data) == 0 || len(data)%bs != 0 {
			return cex.NewMisalignedError(len(data), bs)
		}
		dst := scratch[:len(data)]
		if err := s.m.Transform(data, dst); err != nil {
			return err
		}
		n, err := s.stripFinalBlock(dst)
		if err != nil {
			return err
		}
		_, werr := w.Write(dst[:len(dst)-bs+n])
		return werr
	}

	// Encrypt, final chunk: the last block is always a full pad block,
	// even when data is already block-aligned (dataLen 0 still pads, so
	// a decrypter can always find an unambiguous pad marker).
	fullLen := (len(data) / bs) * bs
	residual := len(data) - fullLen
	if fullLen > 0 {
		if err := s.m.Transform(data[:fullLen], scratch[:fullLen]); err != nil {
			return err
		}
	}
	lastBlock := make([]byte, bs)
	copy(lastBlock, data[fullLen:])
	if err := s.padder.Add(lastBlock, residual); err != nil {
		return err
	}
	if err := s.m.Transform(lastBlock, scratch[fullLen:fullLen+bs]); err != nil {
		return err
	}
	_, err := w.Write(scratch[:fullLen+bs])
	return err
}

func (s *CipherStream) stripFinalBlock(dst []byte) (int, error) {
	bs := s.m.BlockSize()
	lastBlock := dst[len(dst)-bs:]
	return s.padder.Strip(lastBlock)
}

// WriteBytes transforms in into out in one pass, for callers that already
// hold the whole message in memory. out must be large enough to hold the
// result (on block-aligned encrypt, the whole blocks of in plus one full
// pad block, so a block-aligned in needs len(in)+BlockSize). It returns the number of meaningful bytes written to out,
// which on block-aligned decrypt is shorter than len(in) by the stripped
// pad length.
func (s *CipherStream) WriteBytes(in, out []byte) (int, error) {
	bs := s.m.BlockSize()
	if !s.blockAligned {
		if len(out) < len(in) {
			return 0, cex.NewBufferError("BufferTooShort", len(out), len(in))
		}
		if err := s.m.Transform(in, out[:len(in)]); err != nil {
			return 0, err
		}
		return len(in), nil
	}

	if s.dir == cex.Encrypt {
		fullLen := (len(in) / bs) * bs
		residual := len(in) - fullLen
		want := fullLen + bs
		if len(out) < want {
			return 0, cex.NewBufferError("BufferTooShort", len(out), want)
		}
		if fullLen > 0 {
			if err := s.m.Transform(in[:fullLen], out[:fullLen]); err != nil {
				return 0, err
			}
		}
		lastBlock := make([]byte, bs)
		copy(lastBlock, in[fullLen:])
		if err := s.padder.Add(lastBlock, residual); err != nil {
			return 0, err
		}
		if err := s.m.Transform(lastBlock, out[fullLen:want]); err != nil {
			return 0, err
		}
		return want, nil
	}

	if len(in) == 0 || len(in)%bs != 0 {
		return 0, cex.NewMisalignedError(len(in), bs)
	}
	if len(out) < len(in) {
		return 0, cex.NewBufferError("BufferTooShort", len(out), len(in))
	}
	if err := s.m.Transform(in, out[:len(in)]); err != nil {
		return 0, err
	}
	n, err := s.stripFinalBlock(out[:len(in)])
	if err != nil {
		return 0, err
	}
	return len(in) - bs + n, nil
}
