// SPDX-License-Identifier: MIT
package spectrogram

// Ring is a fixed-capacity circular buffer of complex samples. It holds
// exactly capacity elements at all times (zero-initialized), and pushing
// a new element evicts the oldest. The pairwise iteration used by the
// downsampling step needs temporal order, not storage order, so logical
// indexing is exposed instead of the backing array.
type Ring struct {
	data []complex128
	head int // index of the oldest element
}

// NewRing creates a Ring with the given capacity. The caller is
// responsible for ensuring capacity is a positive power of two.
func NewRing(capacity int) *Ring {
	return &Ring{data: make([]complex128, capacity)}
}

// Len returns the fixed capacity of the ring.
func (r *Ring) Len() int {
	return len(r.data)
}

// Push appends one sample, evicting the oldest. Amortized O(1).
func (r *Ring) Push(sample complex128) {
	r.data[r.head] = sample
	r.head++
	if r.head == len(r.data) {
		r.head = 0
	}
}

// At returns the element at logical index i, oldest first.
// i must be in [0, Len()).
func (r *Ring) At(i int) complex128 {
	i += r.head
	if i >= len(r.data) {
		i -= len(r.data)
	}
	return r.data[i]
}

// Pairs iterates over adjacent non-overlapping pairs of the current
// contents in temporal order: pair k covers logical elements 2k and
// 2k+1, for k in [0, Len()/2). Iteration stops early if yield returns
// false. The sequence is re-derivable from current state at any time,
// and iterating does not consume or mutate the ring.
func (r *Ring) Pairs(yield func(k int, a, b complex128) bool) {
	for k := 0; k < len(r.data)/2; k++ {
		if !yield(k, r.At(2*k), r.At(2*k+1)) {
			return
		}
	}
}
