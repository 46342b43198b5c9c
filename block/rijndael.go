package block

import (
	"github.com/QRCS-CORP/CEX-sub008"
	"github.com/QRCS-CORP/CEX-sub008/internal/cpu"
	"github.com/QRCS-CORP/CEX-sub008/kdf"
)

// rijndaelLegalKeySizesStd and rijndaelLegalKeySizesExt enumerate the
// legal key sizes for the standard and extended schedules.
var (
	rijndaelLegalKeySizesStd = []int{16, 24, 32}
	rijndaelLegalKeySizesExt = []int{32, 64, 128}
	rijndaelLegalRoundsStd   = []int{10, 12, 14}
	rijndaelLegalRoundsExt   = []int{22, 30, 38}
)

// rijndaelInfoTag is the single canonical HKDF/cSHAKE info string for
// Rijndael's extended schedule.
const rijndaelInfoTag = "information string RHX version 1"

// rijndael is the software, table-free (sbox + GF multiplication)
// implementation of the Rijndael cipher. No constant-time claims are made;
// it is timing-leaky like any table/branch-driven AES implementation.
type rijndael struct {
	roundKeys    []uint32 // forward schedule, 4*(rounds+1) words
	decRoundKeys []uint32 // equivalent-inverse schedule (InvMixColumns applied to w[1..rounds-1])
	rounds       int
	initialized  bool
}

func newRijndaelSoftware() *rijndael {
	return &rijndael{}
}

func (r *rijndael) Name() string { return "Rijndael" }

func (r *rijndael) BlockSize() int { return cex.BlockSize }

func (r *rijndael) Rounds() int { return r.rounds }

func (r *rijndael) IsInitialized() bool { return r.initialized }

func (r *rijndael) LegalKeySizes() []int {
	return append(append([]int{}, rijndaelLegalKeySizesStd...), rijndaelLegalKeySizesExt...)
}

func (r *rijndael) LegalRounds() []int {
	return append(append([]int{}, rijndaelLegalRoundsStd...), rijndaelLegalRoundsExt...)
}

func (r *rijndael) Init(params cex.KeyParams, schedule cex.KeyScheduleKind, rounds int) error {
	keyLen := len(params.Key)
	var defaultRounds int
	var legalSizes, legalRounds []int

	if schedule.IsExtended() {
		legalSizes = rijndaelLegalKeySizesExt
		legalRounds = rijndaelLegalRoundsExt
		switch keyLen {
		case 32:
			defaultRounds = 22
		case 64:
			defaultRounds = 30
		case 128:
			defaultRounds = 38
		default:
			return cex.NewConfigError("InvalidKeySize", "Key", "extended Rijndael requires a 32/64/128-byte key")
		}
	} else {
		legalSizes = rijndaelLegalKeySizesStd
		legalRounds = rijndaelLegalRoundsStd
		switch keyLen {
		case 16:
			defaultRounds = 10
		case 24:
			defaultRounds = 12
		case 32:
			defaultRounds = 14
		default:
			return cex.NewConfigError("InvalidKeySize", "Key", "standard Rijndael requires a 16/24/32-byte key")
		}
	}
	if !containsInt(legalSizes, keyLen) {
		return cex.NewConfigError("InvalidKeySize", "Key", "key size is not in Rijndael's legal key set")
	}
	if rounds == 0 {
		rounds = defaultRounds
	}
	if !schedule.IsExtended() && rounds != defaultRounds {
		// The standard schedule's round count is fixed by key size; only
		// the KDF-driven extended schedule exposes a user-selectable
		// round count.
		return cex.NewConfigError("InvalidRounds", "Rounds", "standard schedule round count is fixed by key size")
	}
	if !containsInt(legalRounds, rounds) {
		return cex.NewConfigError("InvalidRounds", "Rounds", "round count is not legal for this key size/schedule")
	}

	var words []uint32
	if schedule.IsExtended() {
		kw, err := expandRijndaelKdf(params, schedule, rounds)
		if err != nil {
			return err
		}
		words = kw
	} else {
		words = expandRijndaelStandard(params.Key, rounds)
	}

	r.roundKeys = words
	r.decRoundKeys = invertRijndaelSchedule(words, rounds)
	r.rounds = rounds
	r.initialized = true
	return nil
}

// expandRijndaelStandard implements the FIPS-197 key schedule
// (RotWord/SubWord/Rcon), generalized to any Nk (key words) and Nr
// (rounds); the same loop the 256-bit variant reuses at a longer
// expansion length.
func expandRijndaelStandard(key []byte, rounds int) []uint32 {
	nk := len(key) / 4
	nr := rounds
	total := 4 * (nr + 1)
	w := make([]uint32, total)

	for i := 0; i < nk; i++ {
		w[i] = beToWord(key[4*i : 4*i+4])
	}
	for i := nk; i < total; i++ {
		temp := w[i-1]
		if i%nk == 0 {
			temp = subWord(rotWord(temp)) ^ (uint32(rcon[i/nk]) << 24)
		} else if nk > 6 && i%nk == 4 {
			temp = subWord(temp)
		}
		w[i] = w[i-nk] ^ temp
	}
	return w
}

// expandRijndaelKdf implements the extended (KDF-driven) schedule: key ||
// info is fed to the selected KDF, configured for (rounds+1)*16 bytes of
// output, parsed directly as round-key material.
func expandRijndaelKdf(params cex.KeyParams, schedule cex.KeyScheduleKind, rounds int) ([]uint32, error) {
	info := params.Info
	if len(info) == 0 {
		info = []byte(rijndaelInfoTag)
	}
	k, err := newKdfFromSchedule(schedule)
	if err != nil {
		return nil, err
	}
	if err := k.Initialize(params.Key, info); err != nil {
		return nil, err
	}
	total := 4 * (rounds + 1)
	full := make([]byte, total*4)
	if err := k.Generate(full); err != nil {
		return nil, err
	}
	w := make([]uint32, total)
	for i := 0; i < total; i++ {
		w[i] = beToWord(full[4*i : 4*i+4])
	}
	return w, nil
}

func newKdfFromSchedule(schedule cex.KeyScheduleKind) (kdf.KDF, error) {
	switch schedule {
	case cex.HkdfSha256:
		return kdf.NewHkdfSHA256(), nil
	case cex.HkdfSha512:
		return kdf.NewHkdfSHA512(), nil
	case cex.CShake128:
		return kdf.NewCShake128(), nil
	case cex.CShake256:
		return kdf.NewCShake256(), nil
	case cex.CShake1024:
		return kdf.NewCShake1024(), nil
	default:
		return nil, cex.NewConfigError("InvalidKeySize", "Schedule", "extended schedule requires an HKDF or cSHAKE kind")
	}
}

// invertRijndaelSchedule builds the equivalent-inverse-cipher round-key
// array: dw[0] = w[Nr], dw[Nr] = w[0], and dw[i] for i=1..Nr-1 is w[Nr-i]
// with InvMixColumns applied to its column.
func invertRijndaelSchedule(w []uint32, rounds int) []uint32 {
	dw := make([]uint32, len(w))
	copy(dw[0:4], w[4*rounds:4*rounds+4])
	copy(dw[4*rounds:4*rounds+4], w[0:4])
	for round := 1; round < rounds; round++ {
		src := w[4*(rounds-round) : 4*(rounds-round)+4]
		for c := 0; c < 4; c++ {
			dw[4*round+c] = invMixColumnWord(src[c])
		}
	}
	return dw
}

func invMixColumnWord(word uint32) uint32 {
	b := wordToBE(word)
	var out [4]byte
	out[0] = gmul(b[0], 14) ^ gmul(b[1], 11) ^ gmul(b[2], 13) ^ gmul(b[3], 9)
	out[1] = gmul(b[0], 9) ^ gmul(b[1], 14) ^ gmul(b[2], 11) ^ gmul(b[3], 13)
	out[2] = gmul(b[0], 13) ^ gmul(b[1], 9) ^ gmul(b[2], 14) ^ gmul(b[3], 11)
	out[3] = gmul(b[0], 11) ^ gmul(b[1], 13) ^ gmul(b[2], 9) ^ gmul(b[3], 14)
	return beToWord(out[:])
}

func (r *rijndael) EncryptBlock(in, out []byte) error {
	if !r.initialized {
		return &cex.StateError{Kind: "NotInitialized", Message: "rijndael not initialized", Err: cex.ErrNotInitialized}
	}
	if len(in) < cex.BlockSize {
		return cex.NewBufferError("BufferTooShort", len(in), cex.BlockSize)
	}
	if len(out) < cex.BlockSize {
		return cex.NewBufferError("BufferTooShort", len(out), cex.BlockSize)
	}
	var state [16]byte
	copy(state[:], in[:16])
	addRoundKey(&state, r.roundKeys, 0)
	for round := 1; round < r.rounds; round++ {
		subBytes(&state)
		shiftRows(&state)
		mixColumns(&state)
		addRoundKey(&state, r.roundKeys, round)
	}
	subBytes(&state)
	shiftRows(&state)
	addRoundKey(&state, r.roundKeys, r.rounds)
	copy(out[:16], state[:])
	return nil
}

func (r *rijndael) DecryptBlock(in, out []byte) error {
	if !r.initialized {
		return &cex.StateError{Kind: "NotInitialized", Message: "rijndael not initialized", Err: cex.ErrNotInitialized}
	}
	if len(in) < cex.BlockSize {
		return cex.NewBufferError("BufferTooShort", len(in), cex.BlockSize)
	}
	if len(out) < cex.BlockSize {
		return cex.NewBufferError("BufferTooShort", len(out), cex.BlockSize)
	}
	var state [16]byte
	copy(state[:], in[:16])
	addRoundKey(&state, r.decRoundKeys, 0)
	for round := 1; round < r.rounds; round++ {
		invSubBytes(&state)
		invShiftRows(&state)
		invMixColumns(&state)
		addRoundKey(&state, r.decRoundKeys, round)
	}
	invSubBytes(&state)
	invShiftRows(&state)
	addRoundKey(&state, r.decRoundKeys, r.rounds)
	copy(out[:16], state[:])
	return nil
}

func (r *rijndael) Transform512(dir cex.Direction, in, out []byte) error {
	return transformN(r, dir, in, out, 4)
}

func (r *rijndael) Transform1024(dir cex.Direction, in, out []byte) error {
	return transformN(r, dir, in, out, 8)
}

func (r *rijndael) Transform2048(dir cex.Direction, in, out []byte) error {
	return transformN(r, dir, in, out, 16)
}

// --- round transforms ---

func subBytes(s *[16]byte) {
	for i := range s {
		s[i] = sbox[s[i]]
	}
}

func invSubBytes(s *[16]byte) {
	for i := range s {
		s[i] = invSbox[s[i]]
	}
}

// shiftRows operates on the column-major state where s[4*c+r] is row r,
// column c; row r is cyclically shifted left by r positions.
func shiftRows(s *[16]byte) {
	var t [16]byte
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			t[4*c+row] = s[4*((c+row)%4)+row]
		}
	}
	*s = t
}

func invShiftRows(s *[16]byte) {
	var t [16]byte
	for c := 0; c < 4; c++ {
		for row := 0; row < 4; row++ {
			t[4*((c+row)%4)+row] = s[4*c+row]
		}
	}
	*s = t
}

func mixColumns(s *[16]byte) {
	for c := 0; c < 4; c++ {
		a0, a1, a2, a3 := s[4*c], s[4*c+1], s[4*c+2], s[4*c+3]
		s[4*c] = xtime(a0) ^ (xtime(a1) ^ a1) ^ a2 ^ a3
		s[4*c+1] = a0 ^ xtime(a1) ^ (xtime(a2) ^ a2) ^ a3
		s[4*c+2] = a0 ^ a1 ^ xtime(a2) ^ (xtime(a3) ^ a3)
		s[4*c+3] = (xtime(a0) ^ a0) ^ a1 ^ a2 ^ xtime(a3)
	}
}

func invMixColumns(s *[16]byte) {
	for c := 0; c < 4; c++ {
		a0, a1, a2, a3 := s[4*c], s[4*c+1], s[4*c+2], s[4*c+3]
		s[4*c] = gmul(a0, 14) ^ gmul(a1, 11) ^ gmul(a2, 13) ^ gmul(a3, 9)
		s[4*c+1] = gmul(a0, 9) ^ gmul(a1, 14) ^ gmul(a2, 11) ^ gmul(a3, 13)
		s[4*c+2] = gmul(a0, 13) ^ gmul(a1, 9) ^ gmul(a2, 14) ^ gmul(a3, 11)
		s[4*c+3] = gmul(a0, 11) ^ gmul(a1, 13) ^ gmul(a2, 9) ^ gmul(a3, 14)
	}
}

func addRoundKey(s *[16]byte, w []uint32, round int) {
	for c := 0; c < 4; c++ {
		b := wordToBE(w[4*round+c])
		s[4*c] ^= b[0]
		s[4*c+1] ^= b[1]
		s[4*c+2] ^= b[2]
		s[4*c+3] ^= b[3]
	}
}

func subWord(w uint32) uint32 {
	b := wordToBE(w)
	b[0], b[1], b[2], b[3] = sbox[b[0]], sbox[b[1]], sbox[b[2]], sbox[b[3]]
	return beToWord(b[:])
}

func rotWord(w uint32) uint32 {
	return (w << 8) | (w >> 24)
}

func beToWord(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func wordToBE(w uint32) [4]byte {
	return [4]byte{byte(w >> 24), byte(w >> 16), byte(w >> 8), byte(w)}
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// newRijndaelDispatch returns the AES-NI implementation when the platform
// supports it, otherwise the software implementation.
func newRijndaelDispatch() Cipher {
	if cpu.HasAESNI() {
		return newRijndaelNI()
	}
	return newRijndaelSoftware()
}
