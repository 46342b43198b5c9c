package cex

// KeyParams is the symmetric key bundle shared across block, mode, and drbg
// constructors: a primary key, an IV/nonce/counter seed, and an optional
// info tweak consumed by an extended (KDF-driven) key schedule.
//
// The bundle is owned by the caller; Clear zeroes all three fields in
// place so a caller can release key material deterministically.
type KeyParams struct {
	Key  []byte
	IV   []byte
	Info []byte
}

// Clear overwrites the key bundle's byte slices with zeros.
func (k *KeyParams) Clear() {
	zero(k.Key)
	zero(k.IV)
	zero(k.Info)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// BlockCipherKind identifies one of the three HX block ciphers.
type BlockCipherKind uint8

const (
	// Rijndael selects the Rijndael/AES-derived block cipher.
	Rijndael BlockCipherKind = iota
	// Serpent selects the Serpent block cipher.
	Serpent
	// Twofish selects the Twofish block cipher.
	Twofish
)

// String returns the canonical name of the cipher kind.
func (k BlockCipherKind) String() string {
	switch k {
	case Rijndael:
		return "rijndael"
	case Serpent:
		return "serpent"
	case Twofish:
		return "twofish"
	default:
		return "unknown"
	}
}

// KeyScheduleKind selects between the published standard key schedule and
// the KDF-driven extended schedule, and which KDF backs the latter.
type KeyScheduleKind uint8

const (
	// Standard uses the cipher's published FIPS/spec key schedule.
	Standard KeyScheduleKind = iota
	// HkdfSha256 expands the key via HKDF-Extract-then-Expand with SHA-256.
	HkdfSha256
	// HkdfSha512 expands the key via HKDF-Extract-then-Expand with SHA-512.
	HkdfSha512
	// CShake128 expands the key via cSHAKE-128.
	CShake128
	// CShake256 expands the key via cSHAKE-256.
	CShake256
	// CShake1024 expands the key via cSHAKE at the 1024-bit strength tier,
	// which runs the cSHAKE-256 sponge and yields the same output as
	// CShake256.
	CShake1024
)

// String returns the canonical name of the key schedule kind.
func (k KeyScheduleKind) String() string {
	switch k {
	case Standard:
		return "standard"
	case HkdfSha256:
		return "hkdf-sha256"
	case HkdfSha512:
		return "hkdf-sha512"
	case CShake128:
		return "cshake128"
	case CShake256:
		return "cshake256"
	case CShake1024:
		return "cshake1024"
	default:
		return "unknown"
	}
}

// IsExtended reports whether the schedule kind is a KDF-driven extended
// schedule rather than the cipher's standard schedule.
func (k KeyScheduleKind) IsExtended() bool {
	return k != Standard
}

// BlockSize is the fixed block size, in bytes, operated on by every cipher
// and mode in this core.
const BlockSize = 16

// Direction selects the encrypt or decrypt transform of a mode instance.
type Direction uint8

const (
	// Encrypt configures a mode or cipher for the forward transform.
	Encrypt Direction = iota
	// Decrypt configures a mode or cipher for the inverse transform.
	Decrypt
)

func (d Direction) String() string {
	if d == Encrypt {
		return "encrypt"
	}
	return "decrypt"
}
