//go:build !amd64 || purego

package compact

func bmi2Supported() bool {
	return false
}

func nthSetBitBMI2(v uint64, n int) int {
	return nthSetBitPortable(v, n)
}
