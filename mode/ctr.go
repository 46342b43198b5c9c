package mode

import (
	"github.com/QRCS-CORP/CEX-sub008"
	"github.com/QRCS-CORP/CEX-sub008/block"
)

// counterMode is the shared implementation behind CTR and ICM: both are
// O_j = P_j XOR E_K(counter_j) keystream modes over a 16-byte counter
// register seeded from the bound IV and incremented by one per block.
// Both directions run the same keystream XOR and both parallelize freely,
// since any worker can compute its starting counter value from its
// segment offset without needing any other worker's output. The two modes
// differ only in which end of the register the increment carries from:
// CTR increments little-endian, ICM increments big-endian.
type counterMode struct {
	*baseMode
	counter   []byte // current 16-byte counter register
	bigEndian bool
}

func newCounterMode(cipher block.Cipher, cfg Config, bigEndian bool) (*counterMode, error) {
	b, err := newBaseMode(cipher, cfg)
	if err != nil {
		return nil, err
	}
	return &counterMode{baseMode: b, bigEndian: bigEndian}, nil
}

func (m *counterMode) Initialize(dir cex.Direction, params cex.KeyParams) error {
	if err := m.cipher.Init(params, m.cfg.Schedule, m.cfg.Rounds); err != nil {
		return err
	}
	if err := m.bindIV(params); err != nil {
		return err
	}
	m.dir = dir
	ctr := make([]byte, cex.BlockSize)
	copy(ctr, m.iv)
	m.counter = ctr
	return nil
}

func (m *counterMode) Transform(in, out []byte) error {
	if err := m.checkInitialized(); err != nil {
		return err
	}
	if len(in) == 0 {
		return nil
	}
	if len(out) < len(in) {
		return cex.NewBufferError("BufferTooShort", len(out), len(in))
	}

	if m.cfg.IsParallel && len(in) >= ParallelMinSize {
		return m.transformParallel(in, out)
	}
	return m.transformSequential(in, out, m.counter, true)
}

func (m *counterMode) increment(ctr []byte) {
	if m.bigEndian {
		incrementCounterBE(ctr)
	} else {
		incrementCounterLE(ctr)
	}
}

func (m *counterMode) advanceBy(ctr []byte, n int) {
	if m.bigEndian {
		advanceCounterByBE(ctr, n)
	} else {
		advanceCounterByLE(ctr, n)
	}
}

// transformSequential XORs in against the keystream generated from ctr,
// advancing a local copy unless advanceShared is set, in which case the
// caller's counter register is advanced in place and retained for the
// next call.
func (m *counterMode) transformSequential(in, out []byte, ctr []byte, advanceShared bool) error {
	bs := cex.BlockSize
	local := ctr
	if !advanceShared {
		local = make([]byte, bs)
		copy(local, ctr)
	}
	var streamBuf [cex.BlockSize]byte
	stream := streamBuf[:]
	off := 0
	for off+bs <= len(in) {
		if err := m.cipher.EncryptBlock(local, stream); err != nil {
			return err
		}
		xorBlock(out[off:off+bs], in[off:off+bs], stream)
		m.increment(local)
		off += bs
	}
	if off < len(in) {
		if err := m.cipher.EncryptBlock(local, stream); err != nil {
			return err
		}
		tail := len(in) - off
		for i := 0; i < tail; i++ {
			out[off+i] = in[off+i] ^ stream[i]
		}
		m.increment(local)
	}
	return nil
}

func (m *counterMode) transformParallel(in, out []byte) error {
	bs := cex.BlockSize
	workers := m.cfg.workers()
	segSize := m.ParallelBlockSize()
	if segSize > 0 {
		workers = (len(in) + segSize - 1) / segSize
	}
	segs := planSegments(len(in), workers, bs)
	if segs == nil {
		return m.transformSequential(in, out, m.counter, true)
	}
	startCounter := make([]byte, bs)
	copy(startCounter, m.counter)
	err := runParallel(len(segs), func(i int) error {
		seg := segs[i]
		blockOffset := seg.start / bs
		workerCtr := make([]byte, bs)
		copy(workerCtr, startCounter)
		m.advanceBy(workerCtr, blockOffset)
		return m.transformSequential(in[seg.start:seg.end], out[seg.start:seg.end], workerCtr, true)
	})
	if err != nil {
		return err
	}
	totalBlocks := (len(in) + bs - 1) / bs
	m.advanceBy(m.counter, totalBlocks)
	return nil
}

// incrementCounterBE adds one to a 16-byte big-endian counter register:
// the carry propagates from the last byte (the least significant) toward
// the first.
func incrementCounterBE(ctr []byte) {
	for i := len(ctr) - 1; i >= 0; i-- {
		ctr[i]++
		if ctr[i] != 0 {
			return
		}
	}
}

// incrementCounterLE adds one to a 16-byte little-endian counter register:
// the carry propagates from the first byte (the least significant) toward
// the last.
func incrementCounterLE(ctr []byte) {
	for i := 0; i < len(ctr); i++ {
		ctr[i]++
		if ctr[i] != 0 {
			return
		}
	}
}

// advanceCounterByBE adds n to a 16-byte big-endian counter register.
func advanceCounterByBE(ctr []byte, n int) {
	carry := uint64(n)
	for i := len(ctr) - 1; i >= 0 && carry > 0; i-- {
		sum := uint64(ctr[i]) + carry
		ctr[i] = byte(sum)
		carry = sum >> 8
	}
}

// advanceCounterByLE adds n to a 16-byte little-endian counter register.
func advanceCounterByLE(ctr []byte, n int) {
	carry := uint64(n)
	for i := 0; i < len(ctr) && carry > 0; i++ {
		sum := uint64(ctr[i]) + carry
		ctr[i] = byte(sum)
		carry = sum >> 8
	}
}

// CTR implements counter mode with a little-endian counter register,
// per the component's counter-mode convention: base_counter + i*S/16 with
// the increment carrying from the first (least significant) byte.
type CTR struct {
	*counterMode
}

// NewCTR constructs a CTR mode instance over the given block cipher.
func NewCTR(cipher block.Cipher, cfg Config) (*CTR, error) {
	c, err := newCounterMode(cipher, cfg, false)
	if err != nil {
		return nil, err
	}
	return &CTR{counterMode: c}, nil
}

func (m *CTR) Name() string { return "CTR" }

// ICM implements integer-counter mode: the same keystream construction as
// CTR, but with a big-endian counter register, the increment carrying from
// the last (least significant) byte.
type ICM struct {
	*counterMode
}

// NewICM constructs an ICM mode instance over the given block cipher.
func NewICM(cipher block.Cipher, cfg Config) (*ICM, error) {
	c, err := newCounterMode(cipher, cfg, true)
	if err != nil {
		return nil, err
	}
	return &ICM{counterMode: c}, nil
}

func (m *ICM) Name() string { return "ICM" }
