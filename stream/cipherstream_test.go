package stream

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/QRCS-CORP/CEX-sub008"
	"github.com/QRCS-CORP/CEX-sub008/block"
	"github.com/QRCS-CORP/CEX-sub008/mode"
	"github.com/QRCS-CORP/CEX-sub008/padding"
)

func newCipher(t *testing.T) block.Cipher {
	t.Helper()
	c, err := block.New(cex.Rijndael)
	if err != nil {
		t.Fatalf("block.New: %v", err)
	}
	return c
}

func streamKeyParams() cex.KeyParams {
	key := make([]byte, 32)
	iv := make([]byte, cex.BlockSize)
	for i := range key {
		key[i] = byte(i * 3)
	}
	for i := range iv {
		iv[i] = byte(i * 5)
	}
	return cex.KeyParams{Key: key, IV: iv}
}

func fillBytes(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*19 + 7)
	}
	return b
}

func newCBCStream(t *testing.T, dir cex.Direction) *CipherStream {
	t.Helper()
	m, err := mode.NewCBC(newCipher(t), mode.DefaultConfig())
	if err != nil {
		t.Fatalf("NewCBC: %v", err)
	}
	s, err := New(m, padding.PKCS7{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Initialize(dir, streamKeyParams()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return s
}

func newCTRStream(t *testing.T, dir cex.Direction) *CipherStream {
	t.Helper()
	m, err := mode.NewCTR(newCipher(t), mode.DefaultConfig())
	if err != nil {
		t.Fatalf("NewCTR: %v", err)
	}
	s, err := New(m, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Initialize(dir, streamKeyParams()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return s
}

// TestCipherStream_WriteBytes_CBC_RoundTrip checks one-shot slice
// round-trips across sizes that land on and off a block boundary.
func TestCipherStream_WriteBytes_CBC_RoundTrip(t *testing.T) {
	for _, size := range []int{0, 1, 15, 16, 17, 31, 32, 200} {
		t.Run(strconv.Itoa(size), func(t *testing.T) {
			enc := newCBCStream(t, cex.Encrypt)
			pt := fillBytes(size)
			ct := make([]byte, size+cex.BlockSize)
			n, err := enc.WriteBytes(pt, ct)
			if err != nil {
				t.Fatalf("WriteBytes encrypt: %v", err)
			}
			ct = ct[:n]

			dec := newCBCStream(t, cex.Decrypt)
			back := make([]byte, len(ct))
			m, err := dec.WriteBytes(ct, back)
			if err != nil {
				t.Fatalf("WriteBytes decrypt: %v", err)
			}
			back = back[:m]
			if !bytes.Equal(back, pt) {
				t.Fatalf("round-trip mismatch: got %x, want %x", back, pt)
			}
		})
	}
}

// TestCipherStream_WriteReaderWriter_CBC_RoundTrip exercises the chunked
// reader/writer path, including inputs that are an exact multiple of the
// chunk size, which previously risked losing the final pad block.
func TestCipherStream_WriteReaderWriter_CBC_RoundTrip(t *testing.T) {
	m, err := mode.NewCBC(newCipher(t), mode.DefaultConfig())
	if err != nil {
		t.Fatalf("NewCBC: %v", err)
	}
	encStream, err := New(m, padding.PKCS7{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	chunk := encStream.chunkSize()

	for _, size := range []int{0, 1, chunk - 1, chunk, chunk + 1, chunk * 2, chunk*2 + 13} {
		t.Run(strconv.Itoa(size), func(t *testing.T) {
			enc := newCBCStream(t, cex.Encrypt)
			pt := fillBytes(size)
			var ctBuf bytes.Buffer
			if err := enc.WriteReaderWriter(bytes.NewReader(pt), &ctBuf); err != nil {
				t.Fatalf("WriteReaderWriter encrypt: %v", err)
			}

			dec := newCBCStream(t, cex.Decrypt)
			var ptBuf bytes.Buffer
			if err := dec.WriteReaderWriter(bytes.NewReader(ctBuf.Bytes()), &ptBuf); err != nil {
				t.Fatalf("WriteReaderWriter decrypt: %v", err)
			}
			if !bytes.Equal(ptBuf.Bytes(), pt) {
				t.Fatalf("size=%d: round-trip mismatch: got %x, want %x", size, ptBuf.Bytes(), pt)
			}
		})
	}
}

// TestCipherStream_WriteBytes_CTR_RoundTrip checks the stream-style (no
// padding) path for a mode that accepts any length.
func TestCipherStream_WriteBytes_CTR_RoundTrip(t *testing.T) {
	for _, size := range []int{0, 1, 15, 16, 17, 1000} {
		t.Run(strconv.Itoa(size), func(t *testing.T) {
			enc := newCTRStream(t, cex.Encrypt)
			pt := fillBytes(size)
			ct := make([]byte, size)
			n, err := enc.WriteBytes(pt, ct)
			if err != nil {
				t.Fatalf("WriteBytes encrypt: %v", err)
			}
			if n != size {
				t.Fatalf("got n=%d, want %d", n, size)
			}

			dec := newCTRStream(t, cex.Decrypt)
			back := make([]byte, size)
			m, err := dec.WriteBytes(ct, back)
			if err != nil {
				t.Fatalf("WriteBytes decrypt: %v", err)
			}
			if m != size || !bytes.Equal(back, pt) {
				t.Fatalf("round-trip mismatch: got %x, want %x", back, pt)
			}
		})
	}
}

// TestCipherStream_WriteReaderWriter_CTR_RoundTrip mirrors the CBC
// reader/writer test for the stream-style CTR mode.
func TestCipherStream_WriteReaderWriter_CTR_RoundTrip(t *testing.T) {
	m, err := mode.NewCTR(newCipher(t), mode.DefaultConfig())
	if err != nil {
		t.Fatalf("NewCTR: %v", err)
	}
	probe, err := New(m, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	chunk := probe.chunkSize()

	for _, size := range []int{0, 1, chunk, chunk + 7, chunk * 2} {
		t.Run(strconv.Itoa(size), func(t *testing.T) {
			enc := newCTRStream(t, cex.Encrypt)
			pt := fillBytes(size)
			var ctBuf bytes.Buffer
			if err := enc.WriteReaderWriter(bytes.NewReader(pt), &ctBuf); err != nil {
				t.Fatalf("WriteReaderWriter encrypt: %v", err)
			}

			dec := newCTRStream(t, cex.Decrypt)
			var ptBuf bytes.Buffer
			if err := dec.WriteReaderWriter(bytes.NewReader(ctBuf.Bytes()), &ptBuf); err != nil {
				t.Fatalf("WriteReaderWriter decrypt: %v", err)
			}
			if !bytes.Equal(ptBuf.Bytes(), pt) {
				t.Fatalf("size=%d: round-trip mismatch: got %x, want %x", size, ptBuf.Bytes(), pt)
			}
		})
	}
}

// TestNew_RejectsNilPadderForBlockAlignedMode checks the constructor-time
// guard requiring a padding scheme for CBC/CFB.
func TestNew_RejectsNilPadderForBlockAlignedMode(t *testing.T) {
	m, err := mode.NewCBC(newCipher(t), mode.DefaultConfig())
	if err != nil {
		t.Fatalf("NewCBC: %v", err)
	}
	_, err = New(m, nil)
	if !cex.IsConfigError(err) {
		t.Fatalf("expected *cex.ConfigError, got %v (%T)", err, err)
	}
}

// TestNew_RejectsNilMode checks the constructor-time guard against a nil
// mode.
func TestNew_RejectsNilMode(t *testing.T) {
	_, err := New(nil, padding.PKCS7{})
	if !cex.IsConfigError(err) {
		t.Fatalf("expected *cex.ConfigError, got %v (%T)", err, err)
	}
}
