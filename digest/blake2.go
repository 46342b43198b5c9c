package digest

import "golang.org/x/crypto/blake2b"

// Blake2b256 returns a new Blake2b Digest at 256-bit output, the
// actively maintained Go ecosystem member of the Blake digest family.
func Blake2b256() Digest {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors on a bad key, and nil is always valid.
		panic(err)
	}
	return h
}

// Blake2b512 returns a new Blake2b Digest at 512-bit (full) output.
func Blake2b512() Digest {
	h, err := blake2b.New512(nil)
	if err != nil {
		panic(err)
	}
	return h
}
