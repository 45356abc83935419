package rangeset

import "golang.org/x/exp/constraints"

// Iterator walks the integers of a set one by one.
type Iterator[T constraints.Integer] struct {
	rr      []Interval[T]
	current int
	value   T
	started bool
}

func (r *Iterator[T]) Value() T {
	return r.value
}

// Next moves to the next integer and reports whether there was one.
func (r *Iterator[T]) Next() bool {
	if len(r.rr) == 0 || r.current >= len(r.rr) {
		return false
	}
	if !r.started {
		r.started = true
		r.value = r.rr[0].first
		return true
	}
	if r.value < r.rr[r.current].last {
		r.value++
		return true
	}
	r.current++
	if r.current >= len(r.rr) {
		return false
	}
	r.value = r.rr[r.current].first
	return true
}

// IsConsecutive reports whether the current value directly follows the
// previous one, i.e. it is not the first value of an interval.
func (r *Iterator[T]) IsConsecutive() bool {
	if !r.started || r.current >= len(r.rr) {
		return false
	}
	return r.value != r.rr[r.current].first
}
