//go:build !amd64 && !arm64

package tinyvecdb

// On architectures with no dedicated kernel here, dot stays the
// package-level scalarDot default declared in kernel.go.
