package digest

import (
	"crypto/sha256"
	"crypto/sha512"
)

// SHA256 returns a new SHA-256 Digest, the digest HkdfSha256 extended key
// schedules use.
func SHA256() Digest {
	return sha256.New()
}

// SHA512 returns a new SHA-512 Digest, the digest HkdfSha512 extended key
// schedules use.
func SHA512() Digest {
	return sha512.New()
}
