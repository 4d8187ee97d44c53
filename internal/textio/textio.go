// Package textio loads documents into a line store and saves them back
// byte for byte.
//
// Line terminators are kept per line, so a file mixing "\n", "\r\n" and
// "\r" is written back exactly as it was read. A byte-order mark selects
// the encoding: UTF-8 (the default, with or without BOM) and UTF-16 in
// either byte order are supported.
package textio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dimchansky/utfbom"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dshills/multicaret/internal/engine/lines"
)

// ErrUnsupportedEncoding indicates a byte-order mark for an encoding that
// cannot be decoded.
var ErrUnsupportedEncoding = errors.New("unsupported text encoding")

// Encoding is the character encoding of a file.
type Encoding int

// Encodings.
const (
	UTF8 Encoding = iota
	UTF16LE
	UTF16BE
)

func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "utf-8"
	case UTF16LE:
		return "utf-16le"
	case UTF16BE:
		return "utf-16be"
	default:
		return "unknown"
	}
}

// Format describes how a document was stored.
type Format struct {
	Encoding Encoding
	BOM      bool
}

// codec returns the x/text encoding for enc, nil for UTF-8.
func codec(enc Encoding) encoding.Encoding {
	switch enc {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	default:
		return nil
	}
}

// Load reads a document from r. Invalid UTF-8 sequences decode to U+FFFD.
func Load(r io.Reader, opts ...lines.Option) (*lines.Store, Format, error) {
	br, bom := utfbom.Skip(r)
	var f Format
	switch bom {
	case utfbom.Unknown:
	case utfbom.UTF8:
		f.BOM = true
	case utfbom.UTF16LittleEndian:
		f = Format{Encoding: UTF16LE, BOM: true}
	case utfbom.UTF16BigEndian:
		f = Format{Encoding: UTF16BE, BOM: true}
	default:
		return nil, f, fmt.Errorf("textio: %w: %s", ErrUnsupportedEncoding, bom.String())
	}

	data, err := io.ReadAll(br)
	if err != nil {
		return nil, f, fmt.Errorf("textio: read: %w", err)
	}
	if c := codec(f.Encoding); c != nil {
		data, err = c.NewDecoder().Bytes(data)
		if err != nil {
			return nil, f, fmt.Errorf("textio: decode %s: %w", f.Encoding, err)
		}
	}
	return lines.FromText(bytes.Runes(data), opts...), f, nil
}

// Save writes store to w in format f.
func Save(w io.Writer, store *lines.Store, f Format) error {
	var out io.Writer = w
	var tw io.WriteCloser
	if c := codec(f.Encoding); c != nil {
		tw = transform.NewWriter(w, c.NewEncoder())
		out = tw
	}
	if f.BOM {
		// U+FEFF encodes to the byte-order mark of every supported encoding
		if _, err := io.WriteString(out, "\uFEFF"); err != nil {
			return fmt.Errorf("textio: write: %w", err)
		}
	}
	for _, l := range store.Lines() {
		if _, err := io.WriteString(out, string(l.Content)+l.Ending.String()); err != nil {
			return fmt.Errorf("textio: write: %w", err)
		}
	}
	if tw != nil {
		if err := tw.Close(); err != nil {
			return fmt.Errorf("textio: encode %s: %w", f.Encoding, err)
		}
	}
	return nil
}

// LoadFile reads the document at path.
func LoadFile(path string, opts ...lines.Option) (*lines.Store, Format, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Format{}, err
	}
	defer file.Close()

	store, f, err := Load(file, opts...)
	if err != nil {
		return nil, f, fmt.Errorf("%s: %w", path, err)
	}
	return store, f, nil
}

// SaveFile writes store to path through a temporary file in the same
// directory, renamed into place once complete.
func SaveFile(path string, store *lines.Store, f Format) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := Save(tmp, store, f); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if info, err := os.Stat(path); err == nil {
		_ = os.Chmod(tmp.Name(), info.Mode().Perm())
	}
	return os.Rename(tmp.Name(), path)
}
