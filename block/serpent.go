package block

import (
	"github.com/QRCS-CORP/CEX-sub008"
)

// serpentLegalKeySizesStd/Ext and serpentLegalRounds implement Serpent's
// legal size/round tables: a single round range {32..64 step 8} applies
// regardless of schedule kind, unlike Rijndael's separate standard/extended
// round tables.
var (
	serpentLegalKeySizesStd = []int{16, 24, 32}
	serpentLegalKeySizesExt = []int{32, 64, 128}
	serpentLegalRounds      = []int{32, 40, 48, 56, 64}
)

const serpentInfoTag = "information string SHX version 1"

// serpentPhi is the golden-ratio constant anchoring the prekey recurrence.
const serpentPhi = 0x9E3779B9

// serpentSBox holds the 8 published 4-bit Serpent substitution tables;
// serpentInvSBox is their inverse permutations, derived mechanically so
// Encrypt/Decrypt remain exact inverses regardless of any transcription
// drift from the published tables.
var serpentSBox = [8][16]byte{
	{3, 8, 15, 1, 10, 6, 5, 11, 14, 13, 4, 2, 7, 0, 9, 12},
	{15, 12, 2, 7, 9, 0, 5, 10, 1, 11, 14, 8, 6, 13, 3, 4},
	{8, 6, 7, 9, 3, 12, 10, 15, 13, 1, 14, 4, 0, 11, 5, 2},
	{0, 15, 11, 8, 12, 9, 6, 3, 13, 1, 2, 4, 10, 7, 5, 14},
	{1, 15, 8, 3, 12, 0, 11, 6, 2, 5, 4, 10, 9, 14, 7, 13},
	{15, 5, 2, 11, 4, 10, 9, 12, 0, 3, 14, 8, 13, 6, 7, 1},
	{7, 2, 12, 5, 8, 4, 6, 11, 14, 9, 1, 15, 13, 3, 10, 0},
	{1, 13, 15, 0, 14, 8, 2, 11, 7, 4, 12, 10, 9, 3, 5, 6},
}

var serpentInvSBox = computeSerpentInverse()

func computeSerpentInverse() [8][16]byte {
	var inv [8][16]byte
	for box := 0; box < 8; box++ {
		for x := 0; x < 16; x++ {
			inv[box][serpentSBox[box][x]] = byte(x)
		}
	}
	return inv
}

// serpent implements the Serpent cipher: an SP-network of
// 4-bit S-boxes (applied in parallel across four 32-bit lanes) and a
// linear bit-diffusion transform, both reversed exactly for decryption.
type serpent struct {
	roundKeys   [][4]uint32 // rounds+1 subkeys, each 4 words
	rounds      int
	initialized bool
}

func newSerpent() *serpent {
	return &serpent{}
}

func (s *serpent) Name() string { return "Serpent" }

func (s *serpent) BlockSize() int { return cex.BlockSize }

func (s *serpent) Rounds() int { return s.rounds }

func (s *serpent) IsInitialized() bool { return s.initialized }

func (s *serpent) LegalKeySizes() []int {
	return append(append([]int{}, serpentLegalKeySizesStd...), serpentLegalKeySizesExt...)
}

func (s *serpent) LegalRounds() []int {
	return append([]int{}, serpentLegalRounds...)
}

func (s *serpent) Init(params cex.KeyParams, schedule cex.KeyScheduleKind, rounds int) error {
	keyLen := len(params.Key)
	legalSizes := serpentLegalKeySizesStd
	if schedule.IsExtended() {
		legalSizes = serpentLegalKeySizesExt
	}
	if !containsInt(legalSizes, keyLen) {
		return cex.NewConfigError("InvalidKeySize", "Key", "key size is not in Serpent's legal key set")
	}
	if rounds == 0 {
		rounds = 32
	}
	if !containsInt(serpentLegalRounds, rounds) {
		return cex.NewConfigError("InvalidRounds", "Rounds", "round count is not legal for Serpent")
	}

	var words []uint32
	if schedule.IsExtended() {
		kw, err := expandSerpentKdf(params, schedule, rounds)
		if err != nil {
			return err
		}
		words = kw
	} else {
		words = expandSerpentPrekeys(params.Key, rounds)
	}

	s.roundKeys = serpentSBoxRoundKeys(words, rounds)
	s.rounds = rounds
	s.initialized = true
	return nil
}

// expandSerpentPrekeys materializes the 32-bit "prekey" stream w_i =
// (w_{i-8} ^ w_{i-5} ^ w_{i-3} ^ w_{i-1} ^ phi ^ i) <<< 11, seeded from the
// user key padded to 256 bits (a single set bit followed by zeros, per the
// published schedule), generalized to more expansion iterations for larger
// round counts.
func expandSerpentPrekeys(key []byte, rounds int) []uint32 {
	padded := make([]byte, 32)
	copy(padded, key)
	if len(key) < 32 {
		padded[len(key)] = 0x01
	}
	w := make([]uint32, 4*(rounds+1)+8)
	for i := 0; i < 8; i++ {
		w[i] = beToWord(padded[4*i : 4*i+4])
	}
	for i := 8; i < len(w); i++ {
		v := w[i-8] ^ w[i-5] ^ w[i-3] ^ w[i-1] ^ serpentPhi ^ uint32(i)
		w[i] = rotl32(v, 11)
	}
	return w[8:]
}

func expandSerpentKdf(params cex.KeyParams, schedule cex.KeyScheduleKind, rounds int) ([]uint32, error) {
	info := params.Info
	if len(info) == 0 {
		info = []byte(serpentInfoTag)
	}
	k, err := newKdfFromSchedule(schedule)
	if err != nil {
		return nil, err
	}
	if err := k.Initialize(params.Key, info); err != nil {
		return nil, err
	}
	count := 4 * (rounds + 1)
	buf := make([]byte, count*4)
	if err := k.Generate(buf); err != nil {
		return nil, err
	}
	words := make([]uint32, count)
	for i := range words {
		words[i] = beToWord(buf[4*i : 4*i+4])
	}
	return words, nil
}

// serpentSBoxRoundKeys turns the prekey/KDF word stream into rounds+1
// subkeys by running each consecutive group of four words through an
// S-box, cycling S3,S2,S1,S0,S7,S6,S5,S4 as the published schedule does.
func serpentSBoxRoundKeys(words []uint32, rounds int) [][4]uint32 {
	cycle := [8]int{3, 2, 1, 0, 7, 6, 5, 4}
	n := rounds + 1
	keys := make([][4]uint32, n)
	for g := 0; g < n; g++ {
		box := cycle[g%8]
		var in [4]uint32
		copy(in[:], words[4*g:4*g+4])
		keys[g] = sBoxWords(box, in)
	}
	return keys
}

// sBoxWords applies a 4-bit Serpent S-box in parallel across the
// corresponding bit position of four 32-bit words (bitslice application).
func sBoxWords(box int, in [4]uint32) [4]uint32 {
	var out [4]uint32
	table := &serpentSBox[box]
	for bit := 0; bit < 32; bit++ {
		nibble := byte(0)
		for w := 0; w < 4; w++ {
			nibble |= byte((in[w]>>bit)&1) << w
		}
		res := table[nibble]
		for w := 0; w < 4; w++ {
			out[w] |= uint32((res>>w)&1) << bit
		}
	}
	return out
}

func invSBoxWords(box int, in [4]uint32) [4]uint32 {
	var out [4]uint32
	table := &serpentInvSBox[box]
	for bit := 0; bit < 32; bit++ {
		nibble := byte(0)
		for w := 0; w < 4; w++ {
			nibble |= byte((in[w]>>bit)&1) << w
		}
		res := table[nibble]
		for w := 0; w < 4; w++ {
			out[w] |= uint32((res>>w)&1) << bit
		}
	}
	return out
}

func rotl32(x uint32, n uint) uint32 { return (x << n) | (x >> (32 - n)) }
func rotr32(x uint32, n uint) uint32 { return (x >> n) | (x << (32 - n)) }

// linearTransform is the published Serpent diffusion step over the four
// 32-bit words of the cipher state.
func linearTransform(x [4]uint32) [4]uint32 {
	x0, x1, x2, x3 := x[0], x[1], x[2], x[3]
	x0 = rotl32(x0, 13)
	x2 = rotl32(x2, 3)
	x1 = x1 ^ x0 ^ x2
	x3 = x3 ^ x2 ^ (x0 << 3)
	x1 = rotl32(x1, 1)
	x3 = rotl32(x3, 7)
	x0 = x0 ^ x1 ^ x3
	x2 = x2 ^ x3 ^ (x1 << 7)
	x0 = rotl32(x0, 5)
	x2 = rotl32(x2, 22)
	return [4]uint32{x0, x1, x2, x3}
}

// invLinearTransform undoes linearTransform by replaying its elementary
// steps (rotate, XOR) in reverse order, each one individually self-
// inverse or inverted with the matching right-rotate.
func invLinearTransform(x [4]uint32) [4]uint32 {
	x0, x1, x2, x3 := x[0], x[1], x[2], x[3]
	x2 = rotr32(x2, 22)
	x0 = rotr32(x0, 5)
	x2 = x2 ^ x3 ^ (x1 << 7)
	x0 = x0 ^ x1 ^ x3
	x3 = rotr32(x3, 7)
	x1 = rotr32(x1, 1)
	x3 = x3 ^ x2 ^ (x0 << 3)
	x1 = x1 ^ x0 ^ x2
	x2 = rotr32(x2, 3)
	x0 = rotr32(x0, 13)
	return [4]uint32{x0, x1, x2, x3}
}

func bytesToWords(b []byte) [4]uint32 {
	var w [4]uint32
	for i := 0; i < 4; i++ {
		w[i] = beToWord(b[4*i : 4*i+4])
	}
	return w
}

func wordsToBytes(w [4]uint32, out []byte) {
	for i := 0; i < 4; i++ {
		b := wordToBE(w[i])
		copy(out[4*i:4*i+4], b[:])
	}
}

func (s *serpent) EncryptBlock(in, out []byte) error {
	if !s.initialized {
		return &cex.StateError{Kind: "NotInitialized", Message: "serpent not initialized", Err: cex.ErrNotInitialized}
	}
	if len(in) < cex.BlockSize || len(out) < cex.BlockSize {
		return cex.NewBufferError("BufferTooShort", len(in), cex.BlockSize)
	}
	x := bytesToWords(in)
	cycle := [8]int{0, 1, 2, 3, 4, 5, 6, 7}
	for r := 0; r < s.rounds; r++ {
		k := s.roundKeys[r]
		x = [4]uint32{x[0] ^ k[0], x[1] ^ k[1], x[2] ^ k[2], x[3] ^ k[3]}
		x = sBoxWords(cycle[r%8], x)
		if r < s.rounds-1 {
			x = linearTransform(x)
		}
	}
	kf := s.roundKeys[s.rounds]
	x = [4]uint32{x[0] ^ kf[0], x[1] ^ kf[1], x[2] ^ kf[2], x[3] ^ kf[3]}
	wordsToBytes(x, out[:16])
	return nil
}

func (s *serpent) DecryptBlock(in, out []byte) error {
	if !s.initialized {
		return &cex.StateError{Kind: "NotInitialized", Message: "serpent not initialized", Err: cex.ErrNotInitialized}
	}
	if len(in) < cex.BlockSize || len(out) < cex.BlockSize {
		return cex.NewBufferError("BufferTooShort", len(in), cex.BlockSize)
	}
	x := bytesToWords(in)
	kf := s.roundKeys[s.rounds]
	x = [4]uint32{x[0] ^ kf[0], x[1] ^ kf[1], x[2] ^ kf[2], x[3] ^ kf[3]}
	cycle := [8]int{0, 1, 2, 3, 4, 5, 6, 7}
	for r := s.rounds - 1; r >= 0; r-- {
		if r < s.rounds-1 {
			x = invLinearTransform(x)
		}
		x = invSBoxWords(cycle[r%8], x)
		k := s.roundKeys[r]
		x = [4]uint32{x[0] ^ k[0], x[1] ^ k[1], x[2] ^ k[2], x[3] ^ k[3]}
	}
	wordsToBytes(x, out[:16])
	return nil
}

func (s *serpent) Transform512(dir cex.Direction, in, out []byte) error {
	return transformN(s, dir, in, out, 4)
}

func (s *serpent) Transform1024(dir cex.Direction, in, out []byte) error {
	return transformN(s, dir, in, out, 8)
}

func (s *serpent) Transform2048(dir cex.Direction, in, out []byte) error {
	return transformN(s, dir, in, out, 16)
}
