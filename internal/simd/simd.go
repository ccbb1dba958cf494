// Package simd probes the host's vector capability and sizes the
// transposition micro-tile accordingly. The kernels themselves are
// portable Go; the detected level only decides how many elements a tile
// edge holds so that a tile row matches the widest available register.
package simd

import "golang.org/x/sys/cpu"

// Level identifies the widest vector instruction set available.
type Level int

const (
	// Scalar means no usable SIMD was detected.
	Scalar Level = iota

	// SSE2 covers 128-bit vectors (x86-64 baseline).
	SSE2

	// AVX2 covers 256-bit vectors.
	AVX2

	// AVX512 covers 512-bit vectors.
	AVX512

	// NEON covers ARM 128-bit vectors.
	NEON
)

// String returns a human-readable name for the level.
func (l Level) String() string {
	switch l {
	case Scalar:
		return "scalar"
	case SSE2:
		return "sse2"
	case AVX2:
		return "avx2"
	case AVX512:
		return "avx512"
	case NEON:
		return "neon"
	default:
		return "unknown"
	}
}

// VectorBits returns the register width of the level in bits.
func (l Level) VectorBits() int {
	switch l {
	case SSE2, NEON:
		return 128
	case AVX2:
		return 256
	case AVX512:
		return 512
	default:
		return 64
	}
}

// Detect returns the widest level supported by the running CPU.
func Detect() Level {
	switch {
	case cpu.X86.HasAVX512F:
		return AVX512
	case cpu.X86.HasAVX2:
		return AVX2
	case cpu.X86.HasSSE2:
		return SSE2
	case cpu.ARM64.HasASIMD:
		return NEON
	default:
		return Scalar
	}
}

// minTileDim keeps tiles square and big enough to amortize the edge
// handling even for wide element types on narrow vector units.
const minTileDim = 4

// MaxTileDim bounds the tile edge across all levels and element types
// (512-bit registers holding 4-byte elements).
const MaxTileDim = 16

// TileDim returns the micro-tile edge length for elements of the given
// byte size: one tile row fills one vector register, floored at
// minTileDim so complex128 tiles stay square.
func TileDim(l Level, elemSize int) int {
	lanes := l.VectorBits() / 8 / elemSize
	if lanes < minTileDim {
		return minTileDim
	}
	if lanes > MaxTileDim {
		return MaxTileDim
	}
	return lanes
}
