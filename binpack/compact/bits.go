package compact

import (
	"math/bits"
	"sync/atomic"
)

// nthBitInByte[n][b] is the index of the n-th set bit of b, 8 when b has
// fewer than n+1 bits set.
var nthBitInByte = func() (t [8][256]uint8) {
	for b := 0; b < 256; b++ {
		n := 0
		for i := 0; i < 8; i++ {
			t[i][b] = 8
		}
		for i := 0; i < 8; i++ {
			if b&(1<<i) != 0 {
				t[n][b] = uint8(i)
				n++
			}
		}
	}
	return t
}()

var useBMI2 atomic.Bool

func init() {
	useBMI2.Store(bmi2Supported())
}

// SetBMI2 turns the PDEP-based set-bit selection on or off and returns the
// previous setting. Turning it on has no effect on CPUs without BMI2.
func SetBMI2(enabled bool) bool {
	return useBMI2.Swap(enabled && bmi2Supported())
}

// UsingBMI2 reports whether NthSetBit currently uses PDEP.
func UsingBMI2() bool {
	return useBMI2.Load()
}

// NthSetBit returns the square index of the n-th (0-based) set bit of v.
// The result is 64 when v has n or fewer bits set.
func NthSetBit(v uint64, n int) int {
	if n < 0 || n > 63 {
		return 64
	}
	if useBMI2.Load() {
		return nthSetBitBMI2(v, n)
	}
	return nthSetBitPortable(v, n)
}

func nthSetBitPortable(v uint64, n int) int {
	shift := 0
	if c := bits.OnesCount32(uint32(v)); n >= c {
		n -= c
		v >>= 32
		shift += 32
	}
	if c := bits.OnesCount16(uint16(v)); n >= c {
		n -= c
		v >>= 16
		shift += 16
	}
	if c := bits.OnesCount8(uint8(v)); n >= c {
		n -= c
		v >>= 8
		shift += 8
	}
	if n > 7 {
		return 64
	}
	idx := int(nthBitInByte[n][uint8(v)])
	if idx == 8 {
		return 64
	}
	return shift + idx
}
