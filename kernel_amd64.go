//go:build amd64

package tinyvecdb

import (
	"github.com/viterin/vek/vek32"
	"golang.org/x/sys/cpu"
)

// init selects the widest dot-product implementation this CPU
// supports, in the priority order spec.md §4.3 lays out: AVX2+FMA (8
// float32 lanes with fused multiply-add), then plain AVX (8 lanes, no
// FMA), falling back to the portable scalar path. vek32.Dot is itself
// internally vectorized for both cases; we gate on cpu.X86 so a CPU
// with neither extension never takes the accelerated path, matching
// the "choose once at init, store a function pointer" design note.
func init() {
	switch {
	case cpu.X86.HasAVX2 && cpu.X86.HasFMA:
		dot = avx2FMADot
	case cpu.X86.HasAVX:
		dot = avxDot
	default:
		dot = scalarDot
	}
}

func avx2FMADot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	return vek32.Dot(a[:n], b[:n])
}

func avxDot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	return vek32.Dot(a[:n], b[:n])
}
