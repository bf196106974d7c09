// SPDX-License-Identifier: MIT
package bitint

import "testing"

func TestPow2(t *testing.T) {
	tests := []struct {
		exp  int
		want int
	}{
		{-1, 1},
		{0, 1},
		{1, 2},
		{8, 256},
		{10, 1024},
	}

	for _, tt := range tests {
		if got := Pow2(tt.exp); got != tt.want {
			t.Errorf("Pow2(%d) = %d, want %d", tt.exp, got, tt.want)
		}
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{-4, 1},
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{4, 4},
		{5, 8},
		{255, 256},
		{256, 256},
		{257, 512},
		{1000, 1024},
	}

	for _, tt := range tests {
		if got := NextPowerOfTwo(tt.size); got != tt.want {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", tt.size, got, tt.want)
		}
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		n    int
		want bool
	}{
		{-8, false},
		{0, false},
		{1, true},
		{2, true},
		{3, false},
		{256, true},
		{255, false},
	}

	for _, tt := range tests {
		if got := IsPowerOfTwo(tt.n); got != tt.want {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestLog2(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 0},
		{1, 0},
		{2, 1},
		{255, 7},
		{256, 8},
	}

	for _, tt := range tests {
		if got := Log2(tt.n); got != tt.want {
			t.Errorf("Log2(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestZeroAllocs(t *testing.T) {
	allocs := testing.AllocsPerRun(100, func() {
		_ = Pow2(8)
		_ = NextPowerOfTwo(1000)
		_ = IsPowerOfTwo(256)
		_ = Log2(256)
	})
	if allocs > 0 {
		t.Errorf("Expected zero allocations, got %.1f", allocs)
	}
}
