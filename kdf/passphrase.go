package kdf

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// PassphraseHash selects the digest backing PBKDF2 passphrase derivation.
type PassphraseHash uint8

const (
	// PassphraseSHA256 uses SHA-256 as PBKDF2's PRF.
	PassphraseSHA256 PassphraseHash = iota
	// PassphraseSHA512 uses SHA-512 as PBKDF2's PRF.
	PassphraseSHA512
)

// Argon2Params configures Argon2id passphrase-to-key derivation.
type Argon2Params struct {
	Memory      uint32 // KiB
	Iterations  uint32
	Parallelism uint8
	SaltSize    int
	KeySize     int
}

// PBKDF2Params configures PBKDF2 passphrase-to-key derivation.
type PBKDF2Params struct {
	Iterations int
	Hash       PassphraseHash
	SaltSize   int
	KeySize    int
}

// DefaultArgon2Params returns conservative interactive-use Argon2id
// parameters: 64 MiB, 3 iterations, 4-way parallelism, 32-byte output.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
		SaltSize:    32,
		KeySize:     32,
	}
}

// DefaultPBKDF2Params returns 100,000-iteration SHA-256 PBKDF2 parameters
// producing a 32-byte key.
func DefaultPBKDF2Params() PBKDF2Params {
	return PBKDF2Params{
		Iterations: 100_000,
		Hash:       PassphraseSHA256,
		SaltSize:   32,
		KeySize:    32,
	}
}

// PassphraseProvider turns a user passphrase into key material a block
// cipher or mode can use as KeyParams.Key, the way a caller who does not
// already hold raw key bytes derives them before handing them to this
// core; the core itself still treats the resulting key as caller-owned.
type PassphraseProvider struct {
	passphrase []byte
	useArgon2  bool
	argon2     Argon2Params
	pbkdf2     PBKDF2Params
}

// NewArgon2PassphraseProvider returns a provider using Argon2id (the
// recommended default for new code).
func NewArgon2PassphraseProvider(passphrase []byte, params Argon2Params) *PassphraseProvider {
	if params.Memory == 0 {
		d := DefaultArgon2Params()
		params.Memory, params.Iterations, params.Parallelism = d.Memory, d.Iterations, d.Parallelism
	}
	if params.SaltSize == 0 {
		params.SaltSize = 32
	}
	if params.KeySize == 0 {
		params.KeySize = 32
	}
	return &PassphraseProvider{passphrase: passphrase, useArgon2: true, argon2: params}
}

// NewPBKDF2PassphraseProvider returns a provider using PBKDF2, kept for
// interoperability with callers that require FIPS-approved primitives.
func NewPBKDF2PassphraseProvider(passphrase []byte, params PBKDF2Params) *PassphraseProvider {
	if params.Iterations == 0 {
		params.Iterations = 100_000
	}
	if params.SaltSize == 0 {
		params.SaltSize = 32
	}
	if params.KeySize == 0 {
		params.KeySize = 32
	}
	return &PassphraseProvider{passphrase: passphrase, useArgon2: false, pbkdf2: params}
}

// GenerateSalt returns a new random salt sized for the configured KDF.
func (p *PassphraseProvider) GenerateSalt() ([]byte, error) {
	size := p.pbkdf2.SaltSize
	if p.useArgon2 {
		size = p.argon2.SaltSize
	}
	salt := make([]byte, size)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("passphrase provider: generate salt: %w", err)
	}
	return salt, nil
}

// DeriveKey derives key bytes from the passphrase and salt.
func (p *PassphraseProvider) DeriveKey(salt []byte) ([]byte, error) {
	if len(p.passphrase) == 0 {
		return nil, fmt.Errorf("passphrase provider: passphrase must not be empty")
	}
	if len(salt) == 0 {
		return nil, fmt.Errorf("passphrase provider: salt must not be empty")
	}

	if p.useArgon2 {
		return argon2.IDKey(p.passphrase, salt, p.argon2.Iterations, p.argon2.Memory,
			p.argon2.Parallelism, uint32(p.argon2.KeySize)), nil
	}

	var hashFunc func() hash.Hash
	switch p.pbkdf2.Hash {
	case PassphraseSHA256:
		hashFunc = sha256.New
	case PassphraseSHA512:
		hashFunc = sha512.New
	default:
		return nil, fmt.Errorf("passphrase provider: unsupported hash %v", p.pbkdf2.Hash)
	}
	return pbkdf2.Key(p.passphrase, salt, p.pbkdf2.Iterations, p.pbkdf2.KeySize, hashFunc), nil
}
