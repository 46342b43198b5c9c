// Package cex provides shared types and the error taxonomy for the
// CEX-sub008 symmetric cipher core: block ciphers, cipher modes, a
// counter-mode DRBG, padding schemes, and a streaming processing pipeline.
//
// # Overview
//
// The core is organized as a small set of sub-packages, each covering one
// concern of the CEX symmetric toolkit:
//
//   - block: the HX cipher family (Rijndael/Serpent/Twofish) with
//     standard and KDF-extended key schedules, plus an AES-NI accelerated
//     Rijndael variant selected transparently at construction.
//   - mode: CBC, CFB, CTR/ICM, and OFB cipher modes, including the
//     parallel-decrypt and parallel-counter pipeline.
//   - drbg: a reseedable counter-mode deterministic random bit
//     generator built on top of mode.CTR.
//   - padding: PKCS7, ISO7816-4, TBC, and X.923 padding schemes.
//   - stream: a streaming driver that chunks arbitrary byte streams
//     through a mode at its parallel block size, applying padding on the
//     final block where applicable.
//   - kdf, digest, entropy: the external collaborator interfaces (and
//     concrete providers) that the key schedule, DRBG, and passphrase-based
//     key derivation consume.
//
// # Basic usage
//
//	cipher, err := block.New(cex.Rijndael)
//	if err != nil {
//	    panic(err)
//	}
//	m, err := mode.NewCTR(cipher, mode.DefaultConfig())
//	if err != nil {
//	    panic(err)
//	}
//	if err := m.Initialize(cex.Encrypt, cex.KeyParams{Key: key, IV: iv}); err != nil {
//	    panic(err)
//	}
//	if err := m.Transform(plaintext, ciphertext); err != nil {
//	    panic(err)
//	}
//
// # Security considerations
//
// No authenticated-encryption mode is standardized here; callers that need
// integrity must compose a mode with a MAC externally. The software Rijndael
// path is table-based and makes no constant-time claims; use the AES-NI
// variant (selected automatically when the platform supports it) where
// timing side channels matter.
package cex
