package rangeset

import (
	"golang.org/x/exp/constraints"
)

// emitter collects the result of a sweep. Every interval handed to emit is
// coalesced with the previously emitted one when the two overlap or touch,
// so the result is canonical as long as intervals arrive sorted by first.
type emitter[T constraints.Integer] struct {
	out  []Interval[T]
	size uint64
}

func newEmitter[T constraints.Integer](capacity int) *emitter[T] {
	return &emitter[T]{out: make([]Interval[T], 0, capacity)}
}

func (e *emitter[T]) emit(r Interval[T]) {
	if len(e.out) > 0 {
		prev := &e.out[len(e.out)-1]
		if r.first <= prev.last || prev.touches(r) {
			// prev and r overlap or touch, merge them.
			//
			//   prev     r
			// f------tf-----t
			if r.last > prev.last {
				e.size += uint64(r.last) - uint64(prev.last)
				prev.last = r.last
			}
			return
		}
	}
	e.out = append(e.out, r)
	e.size += r.Size()
}

// cursor walks a sorted interval slice. cur is the pending interval, which
// may be a trimmed copy of the slice element; the slice is never written.
type cursor[T constraints.Integer] struct {
	rr  []Interval[T]
	cur Interval[T]
	ok  bool
}

func newCursor[T constraints.Integer](rr []Interval[T]) *cursor[T] {
	c := &cursor[T]{rr: rr}
	c.advance()
	return c
}

func (c *cursor[T]) advance() {
	if len(c.rr) == 0 {
		c.ok = false
		return
	}
	c.cur, c.rr, c.ok = c.rr[0], c.rr[1:], true
}

// trimFrom moves the start of the pending interval to v.
func (c *cursor[T]) trimFrom(v T) {
	c.cur.first = v
}

// drain emits the pending interval and everything after it.
func (c *cursor[T]) drain(e *emitter[T]) {
	for c.ok {
		e.emit(c.cur)
		c.advance()
	}
}

// mergeUnion returns the canonical union of two canonical interval slices.
func mergeUnion[T constraints.Integer](left, right []Interval[T]) *emitter[T] {
	e := newEmitter[T](len(left) + len(right))
	l, r := newCursor(left), newCursor(right)

	for l.ok && r.ok {
		rl, rr := l.cur, r.cur

		switch {
		case rl.entirelyBefore(rr):
			// "left" is entirely before "right".
			//
			//    left        right
			// f-------t   f-------t
			e.emit(rl)
			l.advance()
		case rr.entirelyBefore(rl):
			// "right" is entirely before "left".
			//
			//    right       left
			// f-------t   f-------t
			e.emit(rr)
			r.advance()
		case rr.coveredBy(rl):
			// "left" entirely covers "right".
			//
			//       left
			// f-------------t
			//    f------t
			//      right
			//
			// Only the part of left up to the end of right is emitted, the
			// rest stays pending since a later right may overlap it.
			e.emit(Interval[T]{first: rl.first, last: rr.last})
			if rr.last < rl.last {
				l.trimFrom(rr.last + 1)
			} else {
				l.advance()
			}
			r.advance()
		case rl.coveredBy(rr):
			// "right" entirely covers "left".
			//
			//       right
			// f-------------t
			//    f------t
			//      left
			e.emit(Interval[T]{first: rr.first, last: rl.last})
			if rl.last < rr.last {
				r.trimFrom(rl.last + 1)
			} else {
				r.advance()
			}
			l.advance()
		case rl.overlapsStartOf(rr):
			// "left" overlaps start of "right".
			//
			//   left
			// f------t
			//    f------t
			//     right
			e.emit(rl)
			r.trimFrom(rl.last + 1)
			l.advance()
		case rr.overlapsStartOf(rl):
			// "right" overlaps start of "left".
			//
			//   right
			// f------t
			//    f------t
			//      left
			e.emit(rr)
			l.trimFrom(rr.last + 1)
			r.advance()
		default:
			// The above accounts for all combinations of two overlapping
			// intervals.
			panic("unexpected overlap scenario during union")
		}
	}
	l.drain(e)
	r.drain(e)
	return e
}

// mergeDifference returns the canonical form of left minus right, both
// canonical interval slices.
func mergeDifference[T constraints.Integer](left, right []Interval[T]) *emitter[T] {
	e := newEmitter[T](len(left) + 1)
	l, r := newCursor(left), newCursor(right)

	for l.ok && r.ok {
		rl, rr := l.cur, r.cur

		switch {
		case rr.entirelyBefore(rl):
			// "right" is entirely before "left".
			//
			//    right       left
			// f-------t   f-------t
			r.advance()
		case rl.entirelyBefore(rr):
			// "left" is entirely before "right".
			//
			//    left        right
			// f-------t   f-------t
			e.emit(rl)
			l.advance()
		case rl.coveredBy(rr):
			// "right" entirely covers "left".
			//
			//       right
			// f-------------t
			//    f------t
			//      left
			l.advance()
		case rr.inMiddleOf(rl):
			// "left" entirely covers "right", which cuts it in two.
			//
			//       left
			// f-------------t
			//    f------t
			//      right
			e.emit(Interval[T]{first: rl.first, last: rr.first - 1})
			// The tail stays pending, a later right may trim it further.
			l.trimFrom(rr.last + 1)
			r.advance()
		case rr.overlapsStartOf(rl):
			// "right" overlaps start of "left".
			//
			//   right
			// f------t
			//    f------t
			//      left
			l.trimFrom(rr.last + 1)
			r.advance()
		case rr.overlapsEndOf(rl):
			// "right" overlaps end of "left".
			//
			//           right
			//        f------t
			//    f------t
			//      left
			e.emit(Interval[T]{first: rl.first, last: rr.first - 1})
			l.advance()
		default:
			panic("unexpected overlap scenario during difference")
		}
	}
	l.drain(e)
	return e
}
