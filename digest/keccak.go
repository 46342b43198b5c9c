package digest

import "golang.org/x/crypto/sha3"

// Keccak256 returns a new Keccak/SHA-3 256-bit Digest.
func Keccak256() Digest {
	return sha3.New256()
}

// Keccak512 returns a new Keccak/SHA-3 512-bit Digest.
func Keccak512() Digest {
	return sha3.New512()
}

// shakeDigest adapts golang.org/x/crypto/sha3's variable-output
// ShakeHash to the fixed-size Digest shape the kdf package expects, by
// fixing the output length at construction.
type shakeDigest struct {
	sha3.ShakeHash
	size int
}

func (s *shakeDigest) Sum(b []byte) []byte {
	out := make([]byte, s.size)
	// Clone so repeated Sum calls don't consume the underlying sponge.
	clone := s.ShakeHash.Clone()
	clone.Read(out)
	return append(b, out...)
}

func (s *shakeDigest) Size() int { return s.size }

func (s *shakeDigest) BlockSize() int {
	// SHAKE's rate depends on security strength; 168/136 bytes for
	// SHAKE128/256 respectively, matching the underlying sponge's rate.
	return s.ShakeHash.BlockSize()
}

// Shake128 returns a Digest view of SHAKE-128 fixed to outSize bytes of
// output, used where a digest-shaped interface is required instead of the
// streaming cSHAKE reader the kdf package uses directly.
func Shake128(outSize int) Digest {
	return &shakeDigest{ShakeHash: sha3.NewShake128(), size: outSize}
}

// Shake256 returns a Digest view of SHAKE-256 fixed to outSize bytes of
// output.
func Shake256(outSize int) Digest {
	return &shakeDigest{ShakeHash: sha3.NewShake256(), size: outSize}
}
