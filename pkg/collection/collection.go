package collection

import (
	"fmt"
	"sync"

	"github.com/henderiw/collector/pkg/formula"
	"github.com/henderiw/collector/pkg/rangeset"
	"k8s.io/apimachinery/pkg/labels"
)

// Collection tracks which items of a numbered collection are owned. Items
// are numbered from first to last, both included.
type Collection interface {
	Name() string
	Labels() labels.Set
	Bounds() formula.Interval

	Formula() *formula.Formula
	SetFormula(f *formula.Formula) error

	Claim(id int64) error
	ClaimRange(first, last int64) error
	ClaimFormula(f *formula.Formula) error
	Release(id int64) error
	ReleaseRange(first, last int64) error

	Count() uint64
	Has(id int64) bool
	IsFree(id int64) bool

	Missing() *formula.Formula
	FindFree() (int64, error)

	Iterate() *rangeset.Iterator[int64]
}

func New(name string, first, last int64, lbls labels.Set) (Collection, error) {
	bounds, err := rangeset.NewInterval(first, last)
	if err != nil {
		return nil, fmt.Errorf("collection %s: %w", name, err)
	}
	if lbls == nil {
		lbls = labels.Set{}
	}
	return &collection{
		m:      new(sync.RWMutex),
		name:   name,
		labels: lbls,
		bounds: bounds,
	}, nil
}

type collection struct {
	m      *sync.RWMutex
	name   string
	labels labels.Set
	bounds formula.Interval
	owned  formula.Set
}

func (r *collection) Name() string { return r.name }

func (r *collection) Labels() labels.Set { return r.labels }

func (r *collection) Bounds() formula.Interval { return r.bounds }

func (r *collection) validate(id int64) error {
	if !r.bounds.Contains(id) {
		return fmt.Errorf("id %d, does not fit in the range from %d to %d", id, r.bounds.First(), r.bounds.Last())
	}
	return nil
}

func (r *collection) validateRange(first, last int64) (formula.Interval, error) {
	rng, err := rangeset.NewInterval(first, last)
	if err != nil {
		return rng, err
	}
	if !r.bounds.ContainsInterval(rng) {
		return rng, fmt.Errorf("range %s, does not fit in the range from %d to %d", rng, r.bounds.First(), r.bounds.Last())
	}
	return rng, nil
}

func (r *collection) Formula() *formula.Formula {
	r.m.RLock()
	defer r.m.RUnlock()

	return formula.New(r.owned)
}

// SetFormula replaces the owned items by the items of f.
func (r *collection) SetFormula(f *formula.Formula) error {
	r.m.Lock()
	defer r.m.Unlock()

	if err := r.validateSet(f.Set()); err != nil {
		return err
	}
	r.owned = f.Set()
	return nil
}

func (r *collection) validateSet(s formula.Set) error {
	if s.IsEmpty() {
		return nil
	}
	lo, _ := s.Min()
	hi, _ := s.Max()
	if !r.bounds.Contains(lo) || !r.bounds.Contains(hi) {
		return fmt.Errorf("items %s, do not fit in the range from %d to %d", s, r.bounds.First(), r.bounds.Last())
	}
	return nil
}

func (r *collection) Claim(id int64) error {
	r.m.Lock()
	defer r.m.Unlock()

	if err := r.validate(id); err != nil {
		return err
	}
	if r.owned.Contains(id) {
		return fmt.Errorf("id %d is already claimed", id)
	}
	r.owned = r.owned.Add(rangeset.Single(id))
	return nil
}

// ClaimRange claims every item from first to last. It fails without
// claiming anything when one of them is already owned.
func (r *collection) ClaimRange(first, last int64) error {
	r.m.Lock()
	defer r.m.Unlock()

	rng, err := r.validateRange(first, last)
	if err != nil {
		return err
	}
	if overlap := rangeset.FromInterval(rng).Difference(r.owned); overlap.Size() != rng.Size() {
		return fmt.Errorf("range %s overlaps claimed items %s", rng, r.owned)
	}
	r.owned = r.owned.Add(rng)
	return nil
}

// ClaimFormula adds the items of f to the owned items. Items already owned
// stay owned.
func (r *collection) ClaimFormula(f *formula.Formula) error {
	r.m.Lock()
	defer r.m.Unlock()

	if err := r.validateSet(f.Set()); err != nil {
		return err
	}
	r.owned = r.owned.Union(f.Set())
	return nil
}

func (r *collection) Release(id int64) error {
	r.m.Lock()
	defer r.m.Unlock()

	if err := r.validate(id); err != nil {
		return err
	}
	r.owned = r.owned.Remove(rangeset.Single(id))
	return nil
}

func (r *collection) ReleaseRange(first, last int64) error {
	r.m.Lock()
	defer r.m.Unlock()

	rng, err := r.validateRange(first, last)
	if err != nil {
		return err
	}
	r.owned = r.owned.Remove(rng)
	return nil
}

func (r *collection) Count() uint64 {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.owned.Size()
}

func (r *collection) Has(id int64) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.owned.Contains(id)
}

func (r *collection) IsFree(id int64) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	if err := r.validate(id); err != nil {
		return false
	}
	return !r.owned.Contains(id)
}

// Missing returns the items of the collection that are not owned.
func (r *collection) Missing() *formula.Formula {
	r.m.RLock()
	defer r.m.RUnlock()

	return formula.New(r.missing())
}

func (r *collection) missing() formula.Set {
	return rangeset.FromInterval(r.bounds).Difference(r.owned)
}

// FindFree returns the lowest item that is not owned.
func (r *collection) FindFree() (int64, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	id, ok := r.missing().Min()
	if !ok {
		return 0, fmt.Errorf("no free entry found")
	}
	return id, nil
}

// Iterate returns an iterator over the owned items at the time of the call.
func (r *collection) Iterate() *rangeset.Iterator[int64] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.owned.Iterate()
}
