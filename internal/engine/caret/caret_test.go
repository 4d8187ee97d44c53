package caret

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rdleal/intervalst/interval"
)

var cmpRange = cmp.Comparer(func(a, b Range) bool { return a.Equals(b) })

// Position Tests

func TestPositionCompare(t *testing.T) {
	tests := []struct {
		a, b Position
		want int
	}{
		{Pos(0, 0), Pos(0, 0), 0},
		{Pos(0, 5), Pos(1, 0), -1},
		{Pos(2, 0), Pos(1, 9), 1},
		{Pos(3, 4), Pos(3, 7), -1},
		{Pos(3, 8), Pos(3, 7), 1},
	}
	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%s.Compare(%s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
	if MinPos(Pos(1, 2), Pos(0, 9)) != Pos(0, 9) {
		t.Error("MinPos picked the wrong position")
	}
	if MaxPos(Pos(1, 2), Pos(0, 9)) != Pos(1, 2) {
		t.Error("MaxPos picked the wrong position")
	}
}

// Range Tests

func TestRangeMinMax(t *testing.T) {
	r := NewRange(Pos(2, 1), Pos(0, 4), 0)
	lo, hi := r.MinMax()
	if lo != Pos(0, 4) || hi != Pos(2, 1) {
		t.Errorf("MinMax() = %s, %s", lo, hi)
	}
	if r.IsForward() {
		t.Error("range should be backward")
	}
	if !r.Contains(Pos(2, 1)) || !r.Contains(Pos(0, 4)) || r.Contains(Pos(2, 2)) {
		t.Error("Contains should include both bounds only")
	}
}

func TestCanMergeCaretInsideSelection(t *testing.T) {
	sel := NewRange(Pos(1, 8), Pos(1, 2), 3)
	c := NewCaret(Pos(1, 8), 0)

	got, ok := CanMerge(c, sel)
	if !ok || !got.Equals(sel) {
		t.Errorf("caret into selection: got %s %v, want %s", got, ok, sel)
	}
	got, ok = CanMerge(sel, c)
	if !ok || !got.Equals(sel) {
		t.Errorf("selection over caret: got %s %v, want %s", got, ok, sel)
	}
}

func TestCanMergeTouchingSelections(t *testing.T) {
	a := NewRange(Pos(0, 0), Pos(0, 5), 0)
	b := NewRange(Pos(0, 5), Pos(0, 9), 0)
	if _, ok := CanMerge(a, b); ok {
		t.Error("touching selections must not merge")
	}
	if _, ok := CanMerge(b, a); ok {
		t.Error("touching selections must not merge")
	}
}

func TestCanMergeDirectionFollowsInserted(t *testing.T) {
	existing := NewRange(Pos(1, 2), Pos(1, 8), 0) // forward
	inserted := NewRange(Pos(1, 5), Pos(1, 0), 7) // backward

	got, ok := CanMerge(inserted, existing)
	if !ok {
		t.Fatal("expected merge")
	}
	want := NewRange(Pos(1, 8), Pos(1, 0), 7)
	if !got.Equals(want) {
		t.Errorf("got %s, want %s", got, want)
	}

	got, _ = CanMerge(existing, inserted)
	want = NewRange(Pos(1, 0), Pos(1, 8), 0)
	if !got.Equals(want) {
		t.Errorf("got %s, want %s", got, want)
	}
}

// Set Tests

func TestNewSet(t *testing.T) {
	s := NewSet()
	if s.Len() != 1 || !s.At(0).Equals(NewCaret(Pos(0, 0), 0)) {
		t.Errorf("NewSet() = %s", s)
	}
}

func TestSetMergeOnOverlap(t *testing.T) {
	s := Empty()
	s.Insert(NewRange(Pos(1, 2), Pos(1, 8), 0))
	_, merged := s.Insert(NewRange(Pos(1, 0), Pos(1, 5), 0))
	if !merged {
		t.Error("expected merge")
	}
	want := []Range{NewRange(Pos(1, 0), Pos(1, 8), 0)}
	if diff := cmp.Diff(want, s.Ranges(), cmpRange); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}
}

func TestSetInsertKeepsOrder(t *testing.T) {
	s := Empty()
	for _, p := range []Position{Pos(3, 0), Pos(0, 4), Pos(1, 1), Pos(0, 1)} {
		if _, merged := s.Insert(NewCaret(p, 0)); merged {
			t.Errorf("unexpected merge inserting %s", p)
		}
	}
	want := []Range{
		NewCaret(Pos(0, 1), 0),
		NewCaret(Pos(0, 4), 0),
		NewCaret(Pos(1, 1), 0),
		NewCaret(Pos(3, 0), 0),
	}
	if diff := cmp.Diff(want, s.Ranges(), cmpRange); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}
	if s.Primary().End != Pos(3, 0) {
		t.Errorf("Primary() = %s", s.Primary())
	}
}

func TestSetDuplicateCaret(t *testing.T) {
	s := Empty()
	s.Insert(NewCaret(Pos(2, 2), 1))
	idx, merged := s.Insert(NewCaret(Pos(2, 2), 5))
	if !merged || s.Len() != 1 || idx != 0 {
		t.Errorf("duplicate caret: idx %d merged %v set %s", idx, merged, s)
	}
}

func TestSetSelectionSwallowsSeveral(t *testing.T) {
	s := Empty()
	s.Insert(NewCaret(Pos(0, 1), 0))
	s.Insert(NewRange(Pos(0, 3), Pos(0, 5), 0))
	s.Insert(NewCaret(Pos(1, 0), 0))
	s.Insert(NewCaret(Pos(4, 0), 0))

	_, merged := s.Insert(NewRange(Pos(2, 0), Pos(0, 0), 0))
	if !merged {
		t.Fatal("expected merge")
	}
	want := []Range{
		NewRange(Pos(2, 0), Pos(0, 0), 0),
		NewCaret(Pos(4, 0), 0),
	}
	if diff := cmp.Diff(want, s.Ranges(), cmpRange); diff != "" {
		t.Errorf("ranges mismatch (-want +got):\n%s", diff)
	}
}

func TestSetPrecedingRangeIsConsidered(t *testing.T) {
	s := Empty()
	s.Insert(NewRange(Pos(0, 0), Pos(0, 10), 0))
	_, merged := s.Insert(NewRange(Pos(0, 4), Pos(0, 12), 0))
	if !merged || s.Len() != 1 {
		t.Fatalf("expected single merged range, got %s", s)
	}
	if !s.At(0).Equals(NewRange(Pos(0, 0), Pos(0, 12), 0)) {
		t.Errorf("got %s", s.At(0))
	}
}

func TestSetContains(t *testing.T) {
	s := Empty()
	s.Insert(NewCaret(Pos(0, 3), 0))
	s.Insert(NewRange(Pos(1, 2), Pos(2, 4), 0))

	tests := []struct {
		p    Position
		want bool
	}{
		{Pos(0, 3), false}, // plain carets are not selections
		{Pos(1, 2), true},
		{Pos(1, 90), true},
		{Pos(2, 4), true},
		{Pos(2, 5), false},
		{Pos(1, 1), false},
	}
	for _, tt := range tests {
		if got := s.Contains(tt.p); got != tt.want {
			t.Errorf("Contains(%s) = %v, want %v", tt.p, got, tt.want)
		}
	}

	s.Insert(NewRange(Pos(5, 0), Pos(5, 2), 0))
	if !s.Contains(Pos(5, 1)) {
		t.Error("index not rebuilt after insert")
	}
}

func TestSetUpdate(t *testing.T) {
	s := NewSet()
	r := s.At(0)
	r.Baseline = 12
	s.Update(0, r.WithRects([]Rect{{MaxX: 1, MaxY: 1}}))
	if s.At(0).Baseline != 12 || len(s.At(0).Rects()) != 1 {
		t.Errorf("Update did not apply: %s", s.At(0))
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic moving a range through Update")
		}
	}()
	s.Update(0, NewCaret(Pos(1, 0), 0))
}

func TestIndexRangeRejectsReversedInterval(t *testing.T) {
	idx := newIndex()
	indexRange(idx, Pos(0, 1), Pos(0, 1), 0)

	defer func() {
		err, ok := recover().(error)
		if !ok {
			t.Fatal("expected panic indexing a reversed range")
		}
		var invalid interval.InvalidIntervalError
		if !errors.As(err, &invalid) {
			t.Errorf("panic error = %v, want InvalidIntervalError", err)
		}
	}()
	indexRange(idx, Pos(1, 4), Pos(0, 2), 1)
}

func TestSetInvariantRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 200; round++ {
		s := Empty()
		for i := 0; i < 30; i++ {
			a := Pos(rng.Intn(4), rng.Intn(6))
			b := a
			if rng.Intn(2) == 0 {
				b = Pos(rng.Intn(4), rng.Intn(6))
			}
			r := NewRange(a, b, 0)
			s.Insert(r)
			if err := s.Validate(); err != nil {
				t.Fatalf("round %d insert %d (%s): %v", round, i, r, err)
			}

			found := false
			lo, hi := r.MinMax()
			for _, got := range s.All() {
				glo, ghi := got.MinMax()
				if glo.LessEq(lo) && hi.LessEq(ghi) {
					found = true
				}
			}
			if !found {
				t.Fatalf("round %d: inserted %s not covered by %s", round, r, s)
			}
		}
	}
}
