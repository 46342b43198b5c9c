// Package padding implements the block-padding schemes a caller applies
// before encrypting the final, possibly-short block of a message under a
// block-aligned cipher mode: PKCS7, ISO7816-4, TBC, and X.923. Each
// operates in place on a full 16-byte buffer whose first l bytes hold real
// data and whose remaining 16-l bytes are filled by Add and recovered by
// Strip.
package padding

import (
	"github.com/QRCS-CORP/CEX-sub008"
)

// Scheme is the padding algorithm contract. Add fills block[dataLen:] with
// scheme-specific pad bytes. Strip inspects a full, fully-decrypted block
// and returns dataLen, the byte count of the real payload; it fails with
// *cex.PaddingError wrapping cex.ErrInvalidPadding if the pad bytes don't
// pass the scheme's structural check.
type Scheme interface {
	Name() string
	Add(block []byte, dataLen int) error
	Strip(block []byte) (dataLen int, err error)
}

func checkBlock(block []byte, dataLen int) error {
	if len(block) != cex.BlockSize {
		return cex.NewConfigError("InvalidBlockSize", "block", "padding operates on exactly one 16-byte block")
	}
	if dataLen < 0 || dataLen > cex.BlockSize {
		return cex.NewConfigError("InvalidDataLen", "dataLen", "dataLen must be within [0, 16]")
	}
	return nil
}

// PKCS7 fills the pad region with the pad length repeated, per RFC 5652.
type PKCS7 struct{}

func (PKCS7) Name() string { return "PKCS7" }

func (PKCS7) Add(block []byte, dataLen int) error {
	if err := checkBlock(block, dataLen); err != nil {
		return err
	}
	padLen := byte(cex.BlockSize - dataLen)
	for i := dataLen; i < cex.BlockSize; i++ {
		block[i] = padLen
	}
	return nil
}

func (PKCS7) Strip(block []byte) (int, error) {
	if len(block) != cex.BlockSize {
		return 0, cex.NewConfigError("InvalidBlockSize", "block", "padding operates on exactly one 16-byte block")
	}
	padLen := int(block[cex.BlockSize-1])
	if padLen == 0 || padLen > cex.BlockSize {
		return 0, &cex.PaddingError{Scheme: "PKCS7", Message: "pad length out of range", Err: cex.ErrInvalidPadding}
	}
	start := cex.BlockSize - padLen
	for i := start; i < cex.BlockSize; i++ {
		if block[i] != byte(padLen) {
			return 0, &cex.PaddingError{Scheme: "PKCS7", Message: "pad bytes do not match pad length", Err: cex.ErrInvalidPadding}
		}
	}
	return start, nil
}

// ISO7816 fills the pad region with a single 0x80 marker followed by
// zeros, per ISO/IEC 7816-4.
type ISO7816 struct{}

func (ISO7816) Name() string { return "ISO7816" }

func (ISO7816) Add(block []byte, dataLen int) error {
	if err := checkBlock(block, dataLen); err != nil {
		return err
	}
	if dataLen < cex.BlockSize {
		block[dataLen] = 0x80
		for i := dataLen + 1; i < cex.BlockSize; i++ {
			block[i] = 0x00
		}
	}
	return nil
}

func (ISO7816) Strip(block []byte) (int, error) {
	if len(block) != cex.BlockSize {
		return 0, cex.NewConfigError("InvalidBlockSize", "block", "padding operates on exactly one 16-byte block")
	}
	for i := cex.BlockSize - 1; i >= 0; i-- {
		switch block[i] {
		case 0x00:
			continue
		case 0x80:
			return i, nil
		default:
			return 0, &cex.PaddingError{Scheme: "ISO7816", Message: "rightmost nonzero byte is not the 0x80 marker", Err: cex.ErrInvalidPadding}
		}
	}
	return 0, &cex.PaddingError{Scheme: "ISO7816", Message: "no 0x80 marker found in block", Err: cex.ErrInvalidPadding}
}

// TBC (trailing bit complement) fills the pad region with the bitwise
// complement of the last real data bit, repeated across every pad byte: a
// block of 0xFF if the last data bit was 0, 0x00 if it was 1.
type TBC struct{}

func (TBC) Name() string { return "TBC" }

func (TBC) Add(block []byte, dataLen int) error {
	if err := checkBlock(block, dataLen); err != nil {
		return err
	}
	if dataLen == cex.BlockSize {
		return nil
	}
	var fill byte
	if dataLen == 0 || block[dataLen-1]&0x01 == 0 {
		fill = 0xFF
	} else {
		fill = 0x00
	}
	for i := dataLen; i < cex.BlockSize; i++ {
		block[i] = fill
	}
	return nil
}

func (TBC) Strip(block []byte) (int, error) {
	if len(block) != cex.BlockSize {
		return 0, cex.NewConfigError("InvalidBlockSize", "block", "padding operates on exactly one 16-byte block")
	}
	last := block[cex.BlockSize-1]
	if last != 0x00 && last != 0xFF {
		return 0, &cex.PaddingError{Scheme: "TBC", Message: "trailing byte is neither 0x00 nor 0xFF", Err: cex.ErrInvalidPadding}
	}
	i := cex.BlockSize - 1
	for i >= 0 && block[i] == last {
		i--
	}
	return i + 1, nil
}

// X923 fills the pad region with zeros, with the final byte set to the
// pad length, per ANSI X9.23.
type X923 struct{}

func (X923) Name() string { return "X923" }

func (X923) Add(block []byte, dataLen int) error {
	if err := checkBlock(block, dataLen); err != nil {
		return err
	}
	padLen := cex.BlockSize - dataLen
	for i := dataLen; i < cex.BlockSize-1; i++ {
		block[i] = 0x00
	}
	block[cex.BlockSize-1] = byte(padLen)
	return nil
}

func (X923) Strip(block []byte) (int, error) {
	if len(block) != cex.BlockSize {
		return 0, cex.NewConfigError("InvalidBlockSize", "block", "padding operates on exactly one 16-byte block")
	}
	padLen := int(block[cex.BlockSize-1])
	if padLen == 0 || padLen > cex.BlockSize {
		return 0, &cex.PaddingError{Scheme: "X923", Message: "pad length out of range", Err: cex.ErrInvalidPadding}
	}
	start := cex.BlockSize - padLen
	for i := start; i < cex.BlockSize-1; i++ {
		if block[i] != 0x00 {
			return 0, &cex.PaddingError{Scheme: "X923", Message: "pad bytes are not zero-filled", Err: cex.ErrInvalidPadding}
		}
	}
	return start, nil
}
