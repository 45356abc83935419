// Package formula parses the range expressions users type to describe the
// items they own, e.g. "1-5,7,10-12", into range sets.
package formula

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/henderiw/collector/pkg/rangeset"
)

type Interval = rangeset.Interval[int64]

type Set = rangeset.RangeSet[int64]

// Formula is a parsed range expression. It keeps the text as typed next to
// its canonical set.
type Formula struct {
	source string
	set    Set
}

// Parse parses a comma separated list of items ("7") and inclusive ranges
// ("1-5"). Tokens may come in any order and may overlap. Every malformed
// token is reported in the returned error.
func Parse(s string) (*Formula, error) {
	var (
		rr   []Interval
		errs error
	)
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		r, err := ParseInterval(tok)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		rr = append(rr, r)
	}
	if errs != nil {
		return nil, errs
	}
	return &Formula{
		source: s,
		set:    rangeset.Normalize(rr...),
	}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) *Formula {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

// ParseInterval parses a single "a" or "a-b" token.
func ParseInterval(s string) (Interval, error) {
	from, to, found := strings.Cut(s, "-")
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	first, err := strconv.ParseInt(from, 10, 64)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid first item %q in range %q", from, s)
	}
	if !found {
		return rangeset.Single(first), nil
	}
	last, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid last item %q in range %q", to, s)
	}
	r, err := rangeset.NewInterval(first, last)
	if err != nil {
		return Interval{}, fmt.Errorf("range %q: %w", s, err)
	}
	return r, nil
}

// New returns the formula describing s.
func New(s Set) *Formula {
	return &Formula{source: s.String(), set: s}
}

// Source returns the text the formula was parsed from.
func (r *Formula) Source() string { return r.source }

// String returns the canonical text of the formula.
func (r *Formula) String() string { return r.set.String() }

func (r *Formula) Set() Set { return r.set }

// ElementCount returns the number of items the formula describes.
func (r *Formula) ElementCount() uint64 { return r.set.Size() }

// Ranges returns the canonical ranges of the formula, ascending.
func (r *Formula) Ranges() []Interval { return r.set.Intervals() }

// Elements returns an iterator over every item of the formula.
func (r *Formula) Elements() *rangeset.Iterator[int64] { return r.set.Iterate() }

func (r *Formula) Contains(item int64) bool { return r.set.Contains(item) }

// Add returns a formula holding the items of r and other.
func (r *Formula) Add(other *Formula) *Formula {
	return New(r.set.Union(other.set))
}

// Remove returns a formula holding the items of r that are not in other.
func (r *Formula) Remove(other *Formula) *Formula {
	return New(r.set.Difference(other.set))
}
