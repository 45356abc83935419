package rangeset

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Interval is the closed range [first, last] of integers. The zero value
// is the single element interval [0, 0].
type Interval[T constraints.Integer] struct {
	first T
	last  T
}

// NewInterval returns the interval [first, last].
func NewInterval[T constraints.Integer](first, last T) (Interval[T], error) {
	if first > last {
		return Interval[T]{}, fmt.Errorf("%w: first %d is bigger then last %d", ErrInvalidInterval, first, last)
	}
	return Interval[T]{first: first, last: last}, nil
}

// MustInterval is like NewInterval but panics if first > last.
func MustInterval[T constraints.Integer](first, last T) Interval[T] {
	iv, err := NewInterval(first, last)
	if err != nil {
		panic(err)
	}
	return iv
}

// Single returns the interval holding only v.
func Single[T constraints.Integer](v T) Interval[T] {
	return Interval[T]{first: v, last: v}
}

// First returns the lower bound of r.
func (r Interval[T]) First() T { return r.first }

// Last returns the upper bound of r, inclusive.
func (r Interval[T]) Last() T { return r.last }

// Size returns the number of integers in r. The interval spanning a full
// 64 bit domain wraps to 0.
func (r Interval[T]) Size() uint64 {
	return uint64(r.last) - uint64(r.first) + 1
}

// Contains reports whether v lies in r.
func (r Interval[T]) Contains(v T) bool {
	return r.first <= v && v <= r.last
}

// ContainsInterval reports whether both bounds of other lie in r.
func (r Interval[T]) ContainsInterval(other Interval[T]) bool {
	return r.Contains(other.first) && r.Contains(other.last)
}

func (r Interval[T]) Equal(other Interval[T]) bool {
	return r.first == other.first && r.last == other.last
}

func (r Interval[T]) String() string {
	if r.first == r.last {
		return fmt.Sprintf("%d", r.first)
	}
	return fmt.Sprintf("%d-%d", r.first, r.last)
}

// entirelyBefore returns whether r lies entirely before other, with or
// without a gap between them.
func (r Interval[T]) entirelyBefore(other Interval[T]) bool {
	return r.last < other.first
}

// touches returns whether r ends exactly one before other starts.
func (r Interval[T]) touches(other Interval[T]) bool {
	return r.last < other.first && r.last+1 == other.first
}

// coveredBy returns whether r is entirely contained within other.
func (r Interval[T]) coveredBy(other Interval[T]) bool {
	return other.first <= r.first && r.last <= other.last
}

// inMiddleOf returns whether r is inside other, but not touching the
// edges of other.
func (r Interval[T]) inMiddleOf(other Interval[T]) bool {
	return other.first < r.first && r.last < other.last
}

// overlapsStartOf returns whether r overlaps the start of other, but not
// all of other. Callers rule out the disjoint cases first.
func (r Interval[T]) overlapsStartOf(other Interval[T]) bool {
	return r.first <= other.first && r.last < other.last
}

// overlapsEndOf returns whether r overlaps the end of other, but not all
// of other. Callers rule out the disjoint cases first.
func (r Interval[T]) overlapsEndOf(other Interval[T]) bool {
	return other.first < r.first && other.last <= r.last
}
