// Package session saves and restores the caret state of a document.
//
// A snapshot is a small JSON record:
//
//	{"version":1,"document":"<uuid>","path":"main.go","overwrite":false,
//	 "carets":[{"anchor":{"line":0,"col":2},"end":{"line":3,"col":0},"baseline":0}]}
//
// A caret whose baseline is the end of line is stored with "eol":true since
// JSON has no infinity.
package session

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/multicaret/internal/engine"
	"github.com/dshills/multicaret/internal/engine/caret"
)

// Version is the snapshot format version written by Encode.
const Version = 1

// ErrInvalidSnapshot is wrapped by every Decode failure.
var ErrInvalidSnapshot = errors.New("invalid session snapshot")

// Snapshot is the restorable state of one document.
type Snapshot struct {
	DocumentID uuid.UUID
	Path       string
	Overwrite  bool
	Carets     []caret.Range
}

// Take captures the state of e. path names the file e was loaded from.
func Take(e *engine.Engine, path string) Snapshot {
	return Snapshot{
		DocumentID: e.ID(),
		Path:       path,
		Overwrite:  e.Overwrite(),
		Carets:     e.Carets().Ranges(),
	}
}

// Encode renders s as JSON.
func Encode(s Snapshot) (string, error) {
	doc := "{}"
	var err error
	set := func(path string, v any) {
		if err == nil {
			doc, err = sjson.Set(doc, path, v)
		}
	}
	set("version", Version)
	set("document", s.DocumentID.String())
	set("path", s.Path)
	set("overwrite", s.Overwrite)
	if err == nil {
		doc, err = sjson.SetRaw(doc, "carets", "[]")
	}

	for _, r := range s.Carets {
		c := "{}"
		put := func(path string, v any) {
			if err == nil {
				c, err = sjson.Set(c, path, v)
			}
		}
		put("anchor.line", r.Anchor.Line)
		put("anchor.col", r.Anchor.Column)
		put("end.line", r.End.Line)
		put("end.col", r.End.Column)
		if math.IsInf(r.Baseline, 1) {
			put("eol", true)
		} else {
			put("baseline", r.Baseline)
		}
		if err == nil {
			doc, err = sjson.SetRaw(doc, "carets.-1", c)
		}
	}
	if err != nil {
		return "", fmt.Errorf("encoding session: %w", err)
	}
	return doc, nil
}

// Decode parses a snapshot produced by Encode. A caret without a baseline
// gets NaN, which Restore replaces with the caret's current x.
func Decode(data string) (Snapshot, error) {
	var s Snapshot
	if !gjson.Valid(data) {
		return s, fmt.Errorf("%w: malformed JSON", ErrInvalidSnapshot)
	}
	root := gjson.Parse(data)
	if !root.IsObject() {
		return s, fmt.Errorf("%w: not an object", ErrInvalidSnapshot)
	}
	if v := root.Get("version").Int(); v != Version {
		return s, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, v)
	}

	if doc := root.Get("document"); doc.Exists() {
		id, err := uuid.Parse(doc.String())
		if err != nil {
			return s, fmt.Errorf("%w: document id: %v", ErrInvalidSnapshot, err)
		}
		s.DocumentID = id
	}
	s.Path = root.Get("path").String()
	s.Overwrite = root.Get("overwrite").Bool()

	carets := root.Get("carets")
	if carets.Exists() && !carets.IsArray() {
		return s, fmt.Errorf("%w: carets is not an array", ErrInvalidSnapshot)
	}
	var err error
	carets.ForEach(func(key, c gjson.Result) bool {
		var r caret.Range
		r, err = decodeRange(c)
		if err != nil {
			err = fmt.Errorf("%w: caret %d: %v", ErrInvalidSnapshot, key.Int(), err)
			return false
		}
		s.Carets = append(s.Carets, r)
		return true
	})
	return s, err
}

func decodeRange(c gjson.Result) (caret.Range, error) {
	var r caret.Range
	if !c.IsObject() {
		return r, errors.New("not an object")
	}
	var err error
	if r.Anchor, err = decodePosition(c.Get("anchor")); err != nil {
		return r, fmt.Errorf("anchor: %w", err)
	}
	if r.End, err = decodePosition(c.Get("end")); err != nil {
		return r, fmt.Errorf("end: %w", err)
	}
	switch b := c.Get("baseline"); {
	case c.Get("eol").Bool():
		r.Baseline = math.Inf(1)
	case b.Exists():
		r.Baseline = b.Float()
	default:
		r.Baseline = math.NaN()
	}
	return r, nil
}

func decodePosition(p gjson.Result) (caret.Position, error) {
	line, col := p.Get("line"), p.Get("col")
	if line.Type != gjson.Number || col.Type != gjson.Number {
		return caret.Position{}, errors.New("line and col must be numbers")
	}
	if line.Int() < 0 || col.Int() < 0 {
		return caret.Position{}, errors.New("negative position")
	}
	return caret.Pos(int(line.Int()), int(col.Int())), nil
}

// Restore puts the carets of s back into e. Ranges are clamped to the
// document and merged as they are added.
func Restore(e *engine.Engine, s Snapshot) {
	ranges := make([]caret.Range, 0, len(s.Carets))
	res := e.Resolver()
	for _, r := range s.Carets {
		if math.IsNaN(r.Baseline) {
			r.Baseline = 0
			if ln, err := e.Line(r.End.Line); err == nil {
				r.Baseline = res.ColumnToX(ln.Content, min(r.End.Column, len(ln.Content)))
			}
		}
		ranges = append(ranges, r)
	}
	e.SetCarets(ranges)
	if e.Overwrite() != s.Overwrite {
		e.ApplyEdit(engine.ToggleOverwrite())
	}
}

// WriteFile saves s to path.
func WriteFile(path string, s Snapshot) error {
	doc, err := Encode(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(doc), 0o644)
}

// ReadFile loads a snapshot saved by WriteFile.
func ReadFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	s, err := Decode(string(data))
	if err != nil {
		return s, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
