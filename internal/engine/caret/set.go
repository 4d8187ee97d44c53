package caret

import (
	"fmt"
	"iter"
	"sort"

	"github.com/rdleal/intervalst/interval"
)

// Set is an ordered collection of caret ranges.
// Ranges are sorted by Min and no two of them can be merged.
type Set struct {
	ranges []Range

	// selection index for hit tests, rebuilt lazily
	index      *interval.SearchTree[int, Position]
	indexStale bool
}

// NewSet creates a set with one plain caret at (0,0).
func NewSet() *Set {
	return &Set{ranges: []Range{NewCaret(Position{}, 0)}, indexStale: true}
}

// Empty creates a set without any caret. It is meant for sets under
// construction; a set handed to a view must hold at least one caret.
func Empty() *Set {
	return &Set{indexStale: true}
}

// Len returns the number of ranges.
func (s *Set) Len() int {
	return len(s.ranges)
}

// At returns the range at index i in position order.
func (s *Set) At(i int) Range {
	return s.ranges[i]
}

// All iterates over the ranges in position order.
func (s *Set) All() iter.Seq2[int, Range] {
	return func(yield func(int, Range) bool) {
		for i, r := range s.ranges {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Ranges returns a copy of all ranges.
func (s *Set) Ranges() []Range {
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Primary returns the last range in position order, the one a view keeps
// visible. It returns a zero caret for an empty set.
func (s *Set) Primary() Range {
	if len(s.ranges) == 0 {
		return Range{}
	}
	return s.ranges[len(s.ranges)-1]
}

// HasSelection returns true if any range selects text.
func (s *Set) HasSelection() bool {
	for _, r := range s.ranges {
		if !r.IsEmpty() {
			return true
		}
	}
	return false
}

// Reset replaces every range with r.
func (s *Set) Reset(r Range) {
	s.ranges = append(s.ranges[:0], r)
	s.indexStale = true
}

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	return &Set{ranges: s.Ranges(), indexStale: true}
}

// Update replaces the range at index i without re-running the merge; it
// only accepts changes that keep i's Min and collision state, such as a new
// baseline or rectangle cache. It panics otherwise.
func (s *Set) Update(i int, r Range) {
	old := s.ranges[i]
	if old.Anchor != r.Anchor || old.End != r.End {
		panic(fmt.Errorf("caret: Update may not move range %s to %s", old, r))
	}
	s.ranges[i] = r
}

// lowerBound returns the first index whose Min is not before p.
func (s *Set) lowerBound(p Position) int {
	return sort.Search(len(s.ranges), func(i int) bool {
		return !s.ranges[i].Min().Less(p)
	})
}

// upperBound returns the first index whose Min comes after p.
func (s *Set) upperBound(p Position) int {
	return sort.Search(len(s.ranges), func(i int) bool {
		return p.Less(s.ranges[i].Min())
	})
}

// Insert adds r, merging it with every range it collides with (see
// CanMerge). It returns the index of the resulting range and whether any
// existing range was absorbed.
func (s *Set) Insert(r Range) (int, bool) {
	lo, hi := r.MinMax()
	i := s.lowerBound(lo)
	if i > 0 {
		i--
	}

	res := r
	merged := false
	for i < len(s.ranges) && s.ranges[i].Min().LessEq(hi) {
		m, ok := CanMerge(res, s.ranges[i])
		if !ok {
			i++
			continue
		}
		res = m
		merged = true
		s.ranges = append(s.ranges[:i], s.ranges[i+1:]...)
		hi = MaxPos(hi, res.Max())
	}
	if merged {
		res = res.WithoutRects()
	}

	at := s.upperBound(res.Min())
	s.ranges = append(s.ranges, Range{})
	copy(s.ranges[at+1:], s.ranges[at:])
	s.ranges[at] = res
	s.indexStale = true
	return at, merged
}

// Contains returns true if p lies inside a non-empty selection, bounds
// included.
func (s *Set) Contains(p Position) bool {
	if s.indexStale {
		s.rebuildIndex()
	}
	if s.index == nil {
		return false
	}
	_, ok := s.index.AnyIntersection(p, p)
	return ok
}

func (s *Set) rebuildIndex() {
	s.indexStale = false
	s.index = nil
	for i, r := range s.ranges {
		if r.IsEmpty() {
			continue
		}
		if s.index == nil {
			s.index = newIndex()
		}
		lo, hi := r.MinMax()
		indexRange(s.index, lo, hi, i)
	}
}

func newIndex() *interval.SearchTree[int, Position] {
	return interval.NewSearchTreeWithOptions[int, Position](ComparePositions, interval.TreeWithIntervalPoint())
}

// indexRange adds range i spanning [lo, hi] to the index. A rejected
// interval means the set holds a reversed range.
func indexRange(idx *interval.SearchTree[int, Position], lo, hi Position, i int) {
	if err := idx.Insert(lo, hi, i); err != nil {
		panic(fmt.Errorf("caret: index range %d %s-%s: %w", i, lo, hi, err))
	}
}

// Validate checks the set invariants: ranges sorted by Min and no two
// neighbours mergeable.
func (s *Set) Validate() error {
	for i := 1; i < len(s.ranges); i++ {
		prev, cur := s.ranges[i-1], s.ranges[i]
		if cur.Min().Less(prev.Min()) {
			return fmt.Errorf("caret: range %d %s ordered before %d %s", i, cur, i-1, prev)
		}
		if _, ok := CanMerge(prev, cur); ok {
			return fmt.Errorf("caret: ranges %d %s and %d %s collide", i-1, prev, i, cur)
		}
	}
	return nil
}

// String returns a string representation of the set.
func (s *Set) String() string {
	return fmt.Sprint(s.ranges)
}
