// Package mode implements the cipher-mode engine: CBC, CFB, CTR/ICM, and
// OFB, each wrapping a block.Cipher and sharing a fork-join parallel
// scheduler for the directions the algorithm allows to run concurrently.
package mode

import (
	"runtime"

	"github.com/QRCS-CORP/CEX-sub008"
	"github.com/QRCS-CORP/CEX-sub008/block"
)

// state tracks the per-instance lifecycle: Fresh -> Initialized -> Closed.
// Initialized also remembers the bound direction, since CFB/CTR/ICM/OFB use
// the block cipher's encrypt function in both directions while CBC does not.
type state int

const (
	stateFresh state = iota
	stateInitialized
	stateClosed
)

// Default segmentation bounds for the parallel scheduler. Below
// ParallelMinSize a transform always runs sequentially; ParallelBlockSize
// must be a multiple of the cipher's block size and at most
// ParallelMaxSize.
const (
	ParallelMinSize = 1024
	ParallelMaxSize = 1024 * 1024
)

// Config tunes the parallel scheduler shared by every mode implementation,
// plus the key-schedule knobs forwarded to the wrapped cipher's Init.
type Config struct {
	// IsParallel enables multi-worker transforms for directions that
	// support it (CBC/CFB decrypt, CTR/ICM both directions). Disabled by
	// default; callers opt in explicitly. CTR uses a little-endian counter
	// register, ICM a big-endian one; both derive each worker's starting
	// counter from its segment offset.
	IsParallel bool
	// ParallelBlockSize is the per-worker segment size in bytes. Zero
	// selects a default sized from the cipher's block size and the
	// configured worker count.
	ParallelBlockSize int
	// MaxWorkers bounds the worker pool; zero selects runtime.NumCPU().
	MaxWorkers int
	// Schedule selects the cipher's key schedule (standard or a
	// KDF-driven extended schedule) applied on every Initialize call.
	Schedule cex.KeyScheduleKind
	// Rounds overrides the cipher's default round count for the chosen
	// key size and schedule; zero keeps the cipher's default.
	Rounds int
}

// DefaultConfig returns a Config with parallelism disabled and the
// cipher's standard key schedule, matching the conservative default
// described for cipher-mode construction.
func DefaultConfig() Config {
	return Config{IsParallel: false, Schedule: cex.Standard}
}

func (c *Config) workers() int {
	if c.MaxWorkers > 0 {
		return c.MaxWorkers
	}
	return runtime.NumCPU()
}

// Validate checks the parallel tuning knobs against the mode's block size,
// returning *cex.ConfigError wrapping cex.ErrParallelBlockSize on failure.
func (c *Config) Validate(blockSize int) error {
	if c.MaxWorkers < 0 {
		return &cex.ConfigError{Kind: "ParallelBlockSizeInvalid", Field: "MaxWorkers", Message: "worker count cannot be negative", Err: cex.ErrParallelBlockSize}
	}
	if c.ParallelBlockSize == 0 {
		return nil
	}
	if c.ParallelBlockSize < ParallelMinSize || c.ParallelBlockSize > ParallelMaxSize {
		return &cex.ConfigError{Kind: "ParallelBlockSizeInvalid", Field: "ParallelBlockSize", Message: "parallel block size outside the legal range", Err: cex.ErrParallelBlockSize}
	}
	if c.ParallelBlockSize%blockSize != 0 {
		return &cex.ConfigError{Kind: "ParallelBlockSizeInvalid", Field: "ParallelBlockSize", Message: "parallel block size must be a multiple of the cipher's block size", Err: cex.ErrParallelBlockSize}
	}
	return nil
}

// Mode is the cipher-mode contract: bind a block cipher and an IV at
// Initialize, then Transform buffers in that direction until Close.
type Mode interface {
	// Initialize binds the mode to a direction, key, and IV. Callers may
	// re-key by calling Initialize again from the Initialized state; Close
	// moves the instance to Closed, after which only a fresh instance is
	// usable.
	Initialize(dir cex.Direction, params cex.KeyParams) error

	// Transform processes in into out, which must be at least as long as
	// in; in must be a multiple of BlockSize for non-stream modes. Empty
	// input is a no-op.
	Transform(in, out []byte) error

	Name() string
	BlockSize() int
	IsInitialized() bool
	// ParallelBlockSize reports the configured per-worker segment size (0
	// if parallelism is disabled).
	ParallelBlockSize() int
	// Close releases the mode; further Transform calls fail with
	// *cex.StateError wrapping cex.ErrAlreadyClosed.
	Close() error
}

// WideBlockMode is implemented only by CBC, which additionally supports
// chaining across 64- and 128-byte logical "wide blocks".
type WideBlockMode interface {
	Mode
	Transform64(dir cex.Direction, in, out []byte) error
	Transform128(dir cex.Direction, in, out []byte) error
}

// baseMode holds the fields every concrete mode shares: its cipher, IV
// register, lifecycle state, bound direction, and parallel tuning.
type baseMode struct {
	cipher    block.Cipher
	iv        []byte
	st        state
	dir       cex.Direction
	cfg       Config
}

func newBaseMode(cipher block.Cipher, cfg Config) (*baseMode, error) {
	if cipher == nil {
		return nil, &cex.ConfigError{Kind: "InvalidCipher", Message: "block cipher cannot be nil", Err: cex.ErrNilCipher}
	}
	if err := cfg.Validate(cipher.BlockSize()); err != nil {
		return nil, err
	}
	return &baseMode{cipher: cipher, cfg: cfg, st: stateFresh}, nil
}

func (b *baseMode) checkInitialized() error {
	if b.st == stateClosed {
		return &cex.StateError{Kind: "AlreadyClosed", Message: "mode instance has been closed", Err: cex.ErrAlreadyClosed}
	}
	if b.st != stateInitialized {
		return &cex.StateError{Kind: "NotInitialized", Message: "mode not initialized", Err: cex.ErrNotInitialized}
	}
	return nil
}

func (b *baseMode) bindIV(params cex.KeyParams) error {
	if len(params.IV) != cex.BlockSize {
		return cex.NewConfigError("InvalidIvSize", "IV", "iv must be exactly 16 bytes")
	}
	if b.st == stateClosed {
		return &cex.StateError{Kind: "AlreadyClosed", Message: "mode instance has been closed", Err: cex.ErrAlreadyClosed}
	}
	iv := make([]byte, cex.BlockSize)
	copy(iv, params.IV)
	b.iv = iv
	b.st = stateInitialized
	return nil
}

func (b *baseMode) IsInitialized() bool { return b.st == stateInitialized }

func (b *baseMode) BlockSize() int { return b.cipher.BlockSize() }

func (b *baseMode) Close() error {
	b.st = stateClosed
	b.iv = nil
	return nil
}

func (b *baseMode) ParallelBlockSize() int {
	if !b.cfg.IsParallel {
		return 0
	}
	if b.cfg.ParallelBlockSize > 0 {
		return b.cfg.ParallelBlockSize
	}
	return defaultSegmentSize(b.cfg.workers(), b.cipher.BlockSize())
}

// defaultSegmentSize picks a segment length, rounded down to a multiple of
// blockSize, that divides work roughly evenly across workers while staying
// at or above ParallelMinSize.
func defaultSegmentSize(workers, blockSize int) int {
	size := ParallelMinSize
	if workers > 1 {
		size = (ParallelMinSize / workers) * blockSize
		if size < ParallelMinSize {
			size = ParallelMinSize
		}
	}
	return size
}

func xorBlock(dst, a, b []byte) {
	for i := 0; i < cex.BlockSize; i++ {
		dst[i] = a[i] ^ b[i]
	}
}
