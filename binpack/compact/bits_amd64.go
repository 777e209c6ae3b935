//go:build amd64 && !purego

package compact

import (
	"math/bits"

	"golang.org/x/sys/cpu"
)

func bmi2Supported() bool {
	return cpu.X86.HasBMI2
}

// pdep deposits the low bits of src into the set bit positions of mask.
//
//go:noescape
func pdep(src, mask uint64) uint64

func nthSetBitBMI2(v uint64, n int) int {
	return bits.TrailingZeros64(pdep(1<<uint(n), v))
}
