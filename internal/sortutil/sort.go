// Package sortutil implements the stable, in-place merge sort used by
// Array.prototype.sort (spec.md §4.7): top-down, splitting each range at
// its midpoint, with no detection of runs already in order. It is written against a
// generic comparator rather than the engine's Value type so it carries
// no dependency on the interpreter — the same shape the teacher favors
// for small, self-contained algorithms (hand-rolled rather than routed
// through a generic container abstraction) such as its bounded LEB128
// decoding helpers.
package sortutil

// Less reports whether a precedes b; it may fail (e.g. a user comparator
// threw), in which case the sort aborts and returns the error.
type Less[T any] func(a, b T) (bool, error)

const insertionThreshold = 8

// Sort stably sorts s in place using less, calling into it the minimum
// number of times a merge sort requires. An error from less aborts the
// sort immediately, leaving s in a valid but unspecified order — callers
// that need the pre-sort order on failure should pass a copy.
func Sort[T any](s []T, less Less[T]) error {
	return mergeSort(s, less)
}

func mergeSort[T any](s []T, less Less[T]) error {
	n := len(s)
	if n < 2 {
		return nil
	}
	if n < insertionThreshold {
		return insertionSort(s, less)
	}
	mid := n / 2
	if err := mergeSort(s[:mid], less); err != nil {
		return err
	}
	if err := mergeSort(s[mid:], less); err != nil {
		return err
	}
	return merge(s, mid, less)
}

func insertionSort[T any](s []T, less Less[T]) error {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0; j-- {
			lt, err := less(s[j], s[j-1])
			if err != nil {
				return err
			}
			if !lt {
				break
			}
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
	return nil
}

// merge combines the two already-sorted runs s[:mid] and s[mid:] in
// place using a sequence of block rotations, so no auxiliary buffer
// proportional to len(s) is ever allocated. Equal-key runs are left in
// their original relative order because an element is only rotated past
// another when it strictly precedes it.
func merge[T any](s []T, mid int, less Less[T]) error {
	lo, hi := 0, mid
	for lo < hi && hi < len(s) {
		lt, err := less(s[hi], s[lo])
		if err != nil {
			return err
		}
		if !lt {
			lo++
			continue
		}
		// Find the extent of the run at s[hi:] that still belongs before
		// s[lo], then rotate that whole run to the front in one pass
		// using a GCD-based in-place cyclic shift.
		end := hi + 1
		for end < len(s) {
			lt, err := less(s[end], s[lo])
			if err != nil {
				return err
			}
			if !lt {
				break
			}
			end++
		}
		rotate(s[lo:end], hi-lo)
		lo += end - hi
		hi = end
	}
	return nil
}

// rotate left-rotates s by shift positions in place in O(len(s)) time
// using the GCD-cycle algorithm: each cycle of length len(s)/gcd visits
// every element it touches exactly once.
func rotate[T any](s []T, shift int) {
	n := len(s)
	if n == 0 || shift == 0 || shift == n {
		return
	}
	g := gcd(n, shift)
	for i := 0; i < g; i++ {
		tmp := s[i]
		j := i
		for {
			k := j + shift
			if k >= n {
				k -= n
			}
			if k == i {
				break
			}
			s[j] = s[k]
			j = k
		}
		s[j] = tmp
	}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
