package session

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/dshills/multicaret/internal/engine"
	"github.com/dshills/multicaret/internal/engine/caret"
)

var rangeOpts = cmp.Options{
	cmpopts.IgnoreUnexported(caret.Range{}),
	cmpopts.EquateNaNs(),
}

func TestEncodeDecode(t *testing.T) {
	s := Snapshot{
		DocumentID: uuid.New(),
		Path:       "notes/todo.txt",
		Overwrite:  true,
		Carets: []caret.Range{
			caret.NewRange(caret.Pos(0, 2), caret.Pos(3, 0), 0),
			caret.NewCaret(caret.Pos(4, 7), math.Inf(1)),
			caret.NewCaret(caret.Pos(5, 1), 1.5),
		},
	}
	doc, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !gjson.Valid(doc) {
		t.Fatalf("Encode() produced invalid JSON: %s", doc)
	}
	if got := gjson.Get(doc, "carets.1.eol").Bool(); !got {
		t.Errorf("expected end-of-line caret to be flagged, got %s", doc)
	}

	got, err := Decode(doc)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if diff := cmp.Diff(s, got, rangeOpts); diff != "" {
		t.Errorf("Decode(Encode()) mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeMissingBaseline(t *testing.T) {
	s, err := Decode(`{"version":1,"carets":[{"anchor":{"line":0,"col":1},"end":{"line":0,"col":1}}]}`)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if len(s.Carets) != 1 || !math.IsNaN(s.Carets[0].Baseline) {
		t.Errorf("expected one caret with NaN baseline, got %+v", s.Carets)
	}
	if s.DocumentID != uuid.Nil {
		t.Errorf("expected nil document id, got %s", s.DocumentID)
	}
}

func TestDecodeErrors(t *testing.T) {
	for _, doc := range []string{
		`{"version":1,`,
		`[1,2]`,
		`{"version":2}`,
		`{"version":1,"document":"not-a-uuid"}`,
		`{"version":1,"carets":{}}`,
		`{"version":1,"carets":[5]}`,
		`{"version":1,"carets":[{"anchor":{"line":"0","col":0},"end":{"line":0,"col":0}}]}`,
		`{"version":1,"carets":[{"anchor":{"line":0,"col":0},"end":{"line":-1,"col":0}}]}`,
	} {
		if _, err := Decode(doc); !errors.Is(err, ErrInvalidSnapshot) {
			t.Errorf("Decode(%s): expected ErrInvalidSnapshot, got %v", doc, err)
		}
	}
}

func TestTakeRestore(t *testing.T) {
	src := engine.New(engine.WithContent("alpha\nbeta\ngamma"))
	src.SetCarets([]caret.Range{
		caret.NewRange(caret.Pos(0, 1), caret.Pos(1, 2), 2),
		caret.NewCaret(caret.Pos(2, 5), 5),
	})
	src.ApplyEdit(engine.ToggleOverwrite())
	snap := Take(src, "greek.txt")

	dst := engine.New(engine.WithContent("alpha\nbeta\ngamma"), engine.WithID(snap.DocumentID))
	Restore(dst, snap)

	if dst.ID() != src.ID() {
		t.Errorf("expected id %s, got %s", src.ID(), dst.ID())
	}
	if !dst.Overwrite() {
		t.Error("expected overwrite mode to be restored")
	}
	if diff := cmp.Diff(src.Carets().Ranges(), dst.Carets().Ranges(), rangeOpts); diff != "" {
		t.Errorf("restored carets mismatch (-want +got):\n%s", diff)
	}
}

func TestRestoreClampsAndMerges(t *testing.T) {
	e := engine.New(engine.WithContent("ab\ncd"))
	Restore(e, Snapshot{Carets: []caret.Range{
		caret.NewCaret(caret.Pos(9, 9), math.NaN()),
		caret.NewCaret(caret.Pos(1, 2), math.NaN()),
		caret.NewCaret(caret.Pos(0, 1), math.NaN()),
	}})

	got := e.Carets().Ranges()
	if len(got) != 2 {
		t.Fatalf("expected 2 carets after merging, got %d", len(got))
	}
	if got[0].End != caret.Pos(0, 1) || got[1].End != caret.Pos(1, 2) {
		t.Errorf("unexpected carets %v", got)
	}
	if got[0].Baseline != 1 {
		t.Errorf("expected baseline recomputed to 1, got %g", got[0].Baseline)
	}
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := Snapshot{DocumentID: uuid.New(), Path: "a.txt", Carets: []caret.Range{caret.NewCaret(caret.Pos(1, 1), 1)}}
	if err := WriteFile(path, s); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if diff := cmp.Diff(s, got, rangeOpts); diff != "" {
		t.Errorf("ReadFile mismatch (-want +got):\n%s", diff)
	}
}
