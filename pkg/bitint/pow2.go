// SPDX-License-Identifier: MIT
//
// Package bitint provides power-of-2 helpers for buffer and transform
// sizing. All operations are O(1), allocation-free, and safe to call
// from the real-time audio path.
package bitint

import "math/bits"

// Pow2 returns 2^exp for exp >= 0. Negative exponents return 1.
func Pow2(exp int) int {
	if exp <= 0 {
		return 1
	}
	return 1 << exp
}

// NextPowerOfTwo returns the next power of 2 >= size. Powers of 2 are
// returned unchanged; zero and negative sizes return 1.
//
// The size-1 subtraction is what keeps exact powers of 2 from being
// doubled: bits.Len64(7) == 3, so 8 maps back to 8 instead of 16.
func NextPowerOfTwo(size int) int {
	if size <= 0 {
		return 1
	}
	return int(1 << bits.Len64(uint64(size-1)))
}

// IsPowerOfTwo reports whether n is a positive power of 2.
// Powers of 2 have exactly one bit set, so n&(n-1) clears n to zero.
func IsPowerOfTwo(n int) bool {
	return n > 0 && (n&(n-1)) == 0
}

// Log2 returns floor(log2(n)) for n > 0, and 0 otherwise.
func Log2(n int) int {
	if n <= 0 {
		return 0
	}
	return bits.Len64(uint64(n)) - 1
}
