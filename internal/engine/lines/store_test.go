package lines

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	lorem "github.com/drhodes/golorem"
	"github.com/google/go-cmp/cmp"
)

func collect(s *Store) []Line {
	var out []Line
	for _, l := range s.Lines() {
		out = append(out, Line{Content: append([]rune(nil), l.Content...), Ending: l.Ending})
	}
	return out
}

func expectPanic(t *testing.T, target error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected error panic value, got %T", r)
		}
		if !errors.Is(err, target) {
			t.Errorf("expected panic wrapping %v, got %v", target, err)
		}
	}()
	fn()
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Line
	}{
		{"empty", "", []Line{{Ending: None}}},
		{"single", "abc", []Line{NewLine("abc", None)}},
		{"lf", "a\nb", []Line{NewLine("a", LF), NewLine("b", None)}},
		{"crlf", "a\r\nb", []Line{NewLine("a", CRLF), NewLine("b", None)}},
		{"cr", "a\rb", []Line{NewLine("a", CR), NewLine("b", None)}},
		{"trailing cr", "a\r", []Line{NewLine("a", CR), NewLine("", None)}},
		{"trailing lf", "a\n", []Line{NewLine("a", LF), NewLine("", None)}},
		{"cr cr", "\r\r", []Line{NewLine("", CR), NewLine("", CR), NewLine("", None)}},
		{"lf cr", "\n\r", []Line{NewLine("", LF), NewLine("", CR), NewLine("", None)}},
		{"mixed", "x\ry\r\nz\nw", []Line{NewLine("x", CR), NewLine("y", CRLF), NewLine("z", LF), NewLine("w", None)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Line
			Split([]rune(tt.text), func(content []rune, ending LineEnding) {
				got = append(got, Line{Content: content, Ending: ending})
			})
			if diff := cmp.Diff(tt.want, got, cmp.Comparer(func(a, b []rune) bool {
				return string(a) == string(b)
			})); diff != "" {
				t.Errorf("Split(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestParseLineEnding(t *testing.T) {
	for name, want := range map[string]LineEnding{"lf": LF, "CRLF": CRLF, "cr": CR} {
		got, err := ParseLineEnding(name)
		if err != nil {
			t.Fatalf("ParseLineEnding(%q): %v", name, err)
		}
		if got != want {
			t.Errorf("ParseLineEnding(%q) = %v, want %v", name, got.Name(), want.Name())
		}
	}
	if _, err := ParseLineEnding("none"); err == nil {
		t.Error("expected error for none")
	}
}

func TestNewStore(t *testing.T) {
	s := NewStore()
	if s.LineCount() != 1 {
		t.Fatalf("expected 1 line, got %d", s.LineCount())
	}
	if !s.Begin().IsLast() {
		t.Error("sole line should be last")
	}
	if s.Last().Line().Ending != None {
		t.Error("last line should have no ending")
	}
}

func TestStoreAtAndTraversal(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&sb, "line %d\n", i)
	}
	s := FromString(sb.String(), WithChunkCapacity(4))

	if s.LineCount() != 26 {
		t.Fatalf("expected 26 lines, got %d", s.LineCount())
	}
	if s.ChunkCount() != 7 {
		t.Errorf("expected 7 chunks, got %d", s.ChunkCount())
	}

	for i := 0; i < 25; i++ {
		c, err := s.At(i)
		if err != nil {
			t.Fatalf("At(%d): %v", i, err)
		}
		if got, want := c.Line().String(), fmt.Sprintf("line %d", i); got != want {
			t.Errorf("At(%d) = %q, want %q", i, got, want)
		}
		if c.Index() != i {
			t.Errorf("Index() = %d, want %d", c.Index(), i)
		}
	}

	c := s.Begin()
	for i := 1; i < 26; i++ {
		c = c.Next()
		if c.Index() != i {
			t.Fatalf("Next reached %d, want %d", c.Index(), i)
		}
	}
	if !c.IsLast() {
		t.Error("expected last line after walking forward")
	}
	for i := 24; i >= 0; i-- {
		c = c.Prev()
		if c.Index() != i {
			t.Fatalf("Prev reached %d, want %d", c.Index(), i)
		}
	}
	if !c.IsBegin() {
		t.Error("expected begin after walking back")
	}

	if got := s.Begin().Seek(13).Index(); got != 13 {
		t.Errorf("Seek(13) = %d", got)
	}
	if got := s.Last().Seek(-21).Index(); got != 4 {
		t.Errorf("Seek(-21) = %d", got)
	}
}

func TestStoreAtOutOfRange(t *testing.T) {
	s := FromString("a\nb")
	for _, idx := range []int{-1, 2, 100} {
		if _, err := s.At(idx); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("At(%d): expected ErrOutOfRange, got %v", idx, err)
		}
	}
	expectPanic(t, ErrInvariantViolation, func() { s.MustAt(5) })
}

func TestCursorBoundaries(t *testing.T) {
	s := FromString("a\nb")
	expectPanic(t, ErrInvariantViolation, func() { s.Begin().Prev() })
	expectPanic(t, ErrInvariantViolation, func() { s.Last().Next() })
}

func TestInsertAfterAndBefore(t *testing.T) {
	s := FromString("a\nc")
	c := s.MustAt(0)
	c = s.InsertAfter(c, NewLine("b", LF))
	if c.Index() != 1 || c.Line().String() != "b" {
		t.Fatalf("InsertAfter returned line %d %q", c.Index(), c.Line().String())
	}
	c = s.InsertBefore(s.Begin(), NewLine("_", LF))
	if c.Index() != 0 {
		t.Errorf("InsertBefore at begin returned index %d", c.Index())
	}
	if got := s.Text(); got != "_\na\nb\nc" {
		t.Errorf("Text() = %q", got)
	}
}

func TestStaleCursor(t *testing.T) {
	s := FromString("a\nb\nc")
	old := s.MustAt(2)
	fresh := s.InsertAfter(s.Begin(), NewLine("x", LF))
	if old.Valid() {
		t.Error("cursor should be stale after insert")
	}
	if !fresh.Valid() {
		t.Error("returned cursor should be valid")
	}
	expectPanic(t, ErrStaleCursor, func() { old.Line() })
	expectPanic(t, ErrInvariantViolation, func() { old.Next() })
}

func TestEraseReleasesChunk(t *testing.T) {
	s := FromString("a\nb\nc\nd\ne", WithChunkCapacity(2))
	if s.ChunkCount() != 3 {
		t.Fatalf("expected 3 chunks, got %d", s.ChunkCount())
	}

	c := s.Erase(s.MustAt(2)) // c
	if c.Line().String() != "d" {
		t.Errorf("Erase returned %q, want d", c.Line().String())
	}
	c = s.Erase(c) // d, chunk 2 now empty
	if s.ChunkCount() != 2 {
		t.Errorf("expected emptied chunk to be released, got %d chunks", s.ChunkCount())
	}
	if c.Line().String() != "e" || c.Index() != 2 {
		t.Errorf("Erase returned %q at %d", c.Line().String(), c.Index())
	}

	c = s.Erase(s.Last())
	if !c.IsLast() || c.Line().String() != "b" {
		t.Errorf("erasing last should return the new last, got %q", c.Line().String())
	}
	if got := s.Text(); got != "a\nb\n" {
		t.Errorf("Text() = %q", got)
	}
}

func TestEraseOnlyLinePanics(t *testing.T) {
	s := NewStore()
	expectPanic(t, ErrInvariantViolation, func() { s.Erase(s.Begin()) })
}

func TestChunkSplitOnOverflow(t *testing.T) {
	s := FromString("0\n1", WithChunkCapacity(2))
	c := s.Begin()
	for i := 0; i < 10; i++ {
		c = s.InsertAfter(c, NewLine(fmt.Sprintf("n%d", i), LF))
	}
	if s.ChunkCount() < 2 {
		t.Errorf("expected chunk split, got %d chunks", s.ChunkCount())
	}
	if c.Index() != 10 || c.Line().String() != "n9" {
		t.Errorf("cursor after splits at %d %q", c.Index(), c.Line().String())
	}
	want := []string{"0", "n0", "n1", "n2", "n3", "n4", "n5", "n6", "n7", "n8", "n9", "1"}
	for i, w := range want {
		if got := s.MustAt(i).Line().String(); got != w {
			t.Errorf("line %d = %q, want %q", i, got, w)
		}
	}
}

func TestChunkingInvisible(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 300; i++ {
		sb.WriteString(lorem.Sentence(2, 8))
		sb.WriteString("\n")
	}
	text := sb.String()
	small := FromString(text, WithChunkCapacity(7))
	big := FromString(text)
	if small.LineCount() != big.LineCount() {
		t.Fatalf("line counts differ: %d vs %d", small.LineCount(), big.LineCount())
	}
	for i := 0; i < big.LineCount(); i += 13 {
		if small.MustAt(i).Line().String() != big.MustAt(i).Line().String() {
			t.Errorf("line %d differs between chunkings", i)
		}
	}
	if small.Text() != text {
		t.Error("chunked text does not round trip")
	}
}

func TestFromLines(t *testing.T) {
	if _, err := FromLines([]Line{NewLine("a", None), NewLine("b", None)}); !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("expected invariant violation, got %v", err)
	}
	if _, err := FromLines(nil); err == nil {
		t.Error("expected error for no lines")
	}
	s, err := FromLines([]Line{NewLine("a", CRLF), NewLine("b", None)})
	if err != nil {
		t.Fatal(err)
	}
	if s.Text() != "a\r\nb" {
		t.Errorf("Text() = %q", s.Text())
	}
	if diff := cmp.Diff([]Line{NewLine("a", CRLF), NewLine("b", None)}, collect(s)); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}
}

func TestSubstring(t *testing.T) {
	s := FromString("hello\r\nbig\nworld")
	tests := []struct {
		fl, fc, tl, tc int
		want           string
	}{
		{0, 1, 0, 4, "ell"},
		{0, 3, 1, 2, "lo\r\nbi"},
		{0, 5, 2, 5, "\r\nbig\nworld"},
		{2, 0, 2, 0, ""},
	}
	for _, tt := range tests {
		got, err := s.Substring(tt.fl, tt.fc, tt.tl, tt.tc)
		if err != nil {
			t.Fatalf("Substring(%d,%d,%d,%d): %v", tt.fl, tt.fc, tt.tl, tt.tc, err)
		}
		if got != tt.want {
			t.Errorf("Substring(%d,%d,%d,%d) = %q, want %q", tt.fl, tt.fc, tt.tl, tt.tc, got, tt.want)
		}
	}
	if _, err := s.Substring(1, 0, 0, 0); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for reversed range, got %v", err)
	}
	if _, err := s.Substring(0, 0, 0, 9); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange for column past end, got %v", err)
	}
}
