package rangeset

import (
	"fmt"
	"strings"

	"github.com/google/btree"
	"golang.org/x/exp/constraints"
)

const degree = 8

// RangeSet is an immutable set of integers. It is stored as a canonical
// list of intervals: sorted by first, pairwise disjoint and never touching,
// so that [1-3] and [4-6] are always held as [1-6].
//
// The zero value is the empty set. Operations return new sets and never
// change their operands, so a RangeSet can be shared freely.
type RangeSet[T constraints.Integer] struct {
	// tree indexes the intervals by first. It is built once and never
	// written afterwards.
	tree *btree.BTreeG[Interval[T]]
	size uint64
}

func lessFirst[T constraints.Integer](a, b Interval[T]) bool {
	return a.first < b.first
}

// Empty returns the empty set.
func Empty[T constraints.Integer]() RangeSet[T] {
	return RangeSet[T]{}
}

// FromInterval returns the set holding exactly the integers of r.
func FromInterval[T constraints.Integer](r Interval[T]) RangeSet[T] {
	return build([]Interval[T]{r}, r.Size())
}

// FromIntervals returns the set holding the given intervals. The intervals
// must already be in canonical form; FromIntervals does not fix up its
// input. Use Normalize for arbitrary intervals.
func FromIntervals[T constraints.Integer](rr []Interval[T]) (RangeSet[T], error) {
	var size uint64
	for i, r := range rr {
		if r.first > r.last {
			return RangeSet[T]{}, fmt.Errorf("%w: interval %d has first %d bigger then last %d", ErrInvalidInterval, i, r.first, r.last)
		}
		if i > 0 {
			prev := rr[i-1]
			switch {
			case r.first <= prev.first:
				return RangeSet[T]{}, fmt.Errorf("%w: interval %s is not after %s", ErrUnsortedInput, r, prev)
			case r.first <= prev.last:
				return RangeSet[T]{}, fmt.Errorf("%w: interval %s overlaps %s", ErrUnsortedInput, r, prev)
			case prev.touches(r):
				return RangeSet[T]{}, fmt.Errorf("%w: interval %s touches %s", ErrUnsortedInput, r, prev)
			}
		}
		size += r.Size()
	}
	return build(rr, size), nil
}

// Normalize returns the set holding every integer of the given intervals,
// in any order and possibly overlapping.
func Normalize[T constraints.Integer](rr ...Interval[T]) RangeSet[T] {
	var s RangeSet[T]
	for _, r := range rr {
		s = s.Add(r)
	}
	return s
}

// build indexes canonical intervals. size is their total element count.
func build[T constraints.Integer](rr []Interval[T], size uint64) RangeSet[T] {
	if len(rr) == 0 {
		return RangeSet[T]{}
	}
	t := btree.NewG[Interval[T]](degree, lessFirst[T])
	for _, r := range rr {
		t.ReplaceOrInsert(r)
	}
	return RangeSet[T]{tree: t, size: size}
}

func fromEmitter[T constraints.Integer](e *emitter[T]) RangeSet[T] {
	return build(e.out, e.size)
}

// Size returns the number of integers in s.
func (s RangeSet[T]) Size() uint64 { return s.size }

// Len returns the number of intervals s is made of.
func (s RangeSet[T]) Len() int {
	if s.tree == nil {
		return 0
	}
	return s.tree.Len()
}

func (s RangeSet[T]) IsEmpty() bool { return s.Len() == 0 }

// floor returns the interval with the greatest first not above v.
func (s RangeSet[T]) floor(v T) (Interval[T], bool) {
	var (
		found Interval[T]
		ok    bool
	)
	if s.tree == nil {
		return found, false
	}
	s.tree.DescendLessOrEqual(Interval[T]{first: v}, func(r Interval[T]) bool {
		found, ok = r, true
		return false
	})
	return found, ok
}

// Contains reports whether v is in s.
func (s RangeSet[T]) Contains(v T) bool {
	r, ok := s.floor(v)
	return ok && r.Contains(v)
}

// ContainsInterval reports whether r lies entirely inside one interval of
// s. An r that spans two intervals of s is not contained, even when s
// covers every integer of r.
func (s RangeSet[T]) ContainsInterval(r Interval[T]) bool {
	f, ok := s.floor(r.first)
	return ok && f.ContainsInterval(r)
}

// Intervals returns the canonical intervals of s in ascending order. The
// returned slice is owned by the caller.
func (s RangeSet[T]) Intervals() []Interval[T] {
	out := make([]Interval[T], 0, s.Len())
	if s.tree == nil {
		return out
	}
	s.tree.Ascend(func(r Interval[T]) bool {
		out = append(out, r)
		return true
	})
	return out
}

// Min returns the smallest integer in s.
func (s RangeSet[T]) Min() (T, bool) {
	if s.tree == nil {
		var zero T
		return zero, false
	}
	r, ok := s.tree.Min()
	return r.first, ok
}

// Max returns the biggest integer in s.
func (s RangeSet[T]) Max() (T, bool) {
	if s.tree == nil {
		var zero T
		return zero, false
	}
	r, ok := s.tree.Max()
	return r.last, ok
}

// Union returns the set of integers in s or in other.
func (s RangeSet[T]) Union(other RangeSet[T]) RangeSet[T] {
	switch {
	case other.IsEmpty():
		return s
	case s.IsEmpty():
		return other
	}
	return fromEmitter(mergeUnion(s.Intervals(), other.Intervals()))
}

// Add returns the set of integers in s or in r.
func (s RangeSet[T]) Add(r Interval[T]) RangeSet[T] {
	if s.IsEmpty() {
		return FromInterval(r)
	}
	return fromEmitter(mergeUnion(s.Intervals(), []Interval[T]{r}))
}

// Difference returns the set of integers in s but not in other.
func (s RangeSet[T]) Difference(other RangeSet[T]) RangeSet[T] {
	if s.IsEmpty() || other.IsEmpty() {
		return s
	}
	return fromEmitter(mergeDifference(s.Intervals(), other.Intervals()))
}

// Remove returns the set of integers in s but not in r.
func (s RangeSet[T]) Remove(r Interval[T]) RangeSet[T] {
	if s.IsEmpty() {
		return s
	}
	return fromEmitter(mergeDifference(s.Intervals(), []Interval[T]{r}))
}

// Equal reports whether s and other hold the same integers.
func (s RangeSet[T]) Equal(other RangeSet[T]) bool {
	if s.size != other.size || s.Len() != other.Len() {
		return false
	}
	a, b := s.Intervals(), other.Intervals()
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// String formats s as comma separated intervals, e.g. "1-5,7,10-12".
func (s RangeSet[T]) String() string {
	var sb strings.Builder
	for i, r := range s.Intervals() {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(r.String())
	}
	return sb.String()
}

// Iterate returns an iterator over every integer of s in ascending order.
func (s RangeSet[T]) Iterate() *Iterator[T] {
	return &Iterator[T]{rr: s.Intervals()}
}
