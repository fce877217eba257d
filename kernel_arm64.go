//go:build arm64

package tinyvecdb

import "golang.org/x/sys/cpu"

// init selects the NEON-width dot product when the CPU advertises the
// ASIMD extension (present on effectively every arm64 target Go
// supports), else falls back to scalar. There is no cgo/assembly NEON
// kernel here — neonDot processes four lanes per iteration so the
// access pattern and tail handling match a real 4-lane SIMD kernel,
// and the Go compiler's auto-vectorizer can fuse the unrolled loop on
// platforms that benefit from it.
func init() {
	if cpu.ARM64.HasASIMD {
		dot = neonDot
	} else {
		dot = scalarDot
	}
}

func neonDot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var acc [4]float32
	i := 0
	for ; i+4 <= n; i += 4 {
		acc[0] += a[i] * b[i]
		acc[1] += a[i+1] * b[i+1]
		acc[2] += a[i+2] * b[i+2]
		acc[3] += a[i+3] * b[i+3]
	}
	sum := acc[0] + acc[1] + acc[2] + acc[3]
	// scalar tail for n not divisible by the lane width
	for ; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
