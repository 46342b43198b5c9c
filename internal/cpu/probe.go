// Package cpu probes the process's AES-NI/AVX2 capability once at first
// use. The flags are process-wide, immutable, and read-only after the
// first probe, matching the concurrency model's "no global mutable state"
// invariant: the only shared state is this idempotent, read-only probe.
package cpu

import (
	"sync"

	"golang.org/x/sys/cpu"
)

var (
	once    sync.Once
	hasAES  bool
	hasAVX2 bool
)

func probe() {
	hasAES = cpu.X86.HasAES
	hasAVX2 = cpu.X86.HasAVX2
}

// HasAESNI reports whether the platform exposes the AES-NI instruction set.
func HasAESNI() bool {
	once.Do(probe)
	return hasAES
}

// HasAVX2 reports whether the platform exposes AVX2. No code in this
// module branches on it; the batched transforms take the same path either
// way.
func HasAVX2() bool {
	once.Do(probe)
	return hasAVX2
}
