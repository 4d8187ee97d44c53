package lines

import (
	"fmt"
	"strings"
)

// LineEnding is the terminator recorded for a line.
type LineEnding uint8

const (
	// None marks the final line of a document, which has no terminator.
	None LineEnding = iota
	// CR is a lone carriage return (\r).
	CR
	// LF is a line feed (\n).
	LF
	// CRLF is a carriage return followed by a line feed (\r\n).
	CRLF
)

// String returns the terminator text.
func (le LineEnding) String() string {
	switch le {
	case CR:
		return "\r"
	case LF:
		return "\n"
	case CRLF:
		return "\r\n"
	default:
		return ""
	}
}

// Name returns the configuration name of the ending.
func (le LineEnding) Name() string {
	switch le {
	case CR:
		return "cr"
	case LF:
		return "lf"
	case CRLF:
		return "crlf"
	default:
		return "none"
	}
}

// Len returns the number of codepoints in the terminator.
func (le LineEnding) Len() int {
	return len(le.String())
}

// ParseLineEnding parses a configuration name into a LineEnding.
// None is not accepted since it cannot be a document's canonical ending.
func ParseLineEnding(s string) (LineEnding, error) {
	switch strings.ToLower(s) {
	case "lf", "unix", "\n":
		return LF, nil
	case "crlf", "windows", "dos", "\r\n":
		return CRLF, nil
	case "cr", "mac", "\r":
		return CR, nil
	default:
		return None, fmt.Errorf("unknown line ending %q", s)
	}
}

// Split converts a codepoint sequence into lines. fn is called once per
// line in document order: "\r\n" yields CRLF, a lone "\r" yields CR and
// "\n" yields LF. The trailing fragment is always reported with None, so a
// text ending in a terminator produces an empty last line.
//
// The content slices passed to fn are freshly allocated.
func Split(text []rune, fn func(content []rune, ending LineEnding)) {
	start := 0
	emit := func(end int, ending LineEnding) {
		content := make([]rune, end-start)
		copy(content, text[start:end])
		fn(content, ending)
	}
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				emit(i, CRLF)
				i++
			} else {
				emit(i, CR)
			}
			start = i + 1
		case '\n':
			emit(i, LF)
			start = i + 1
		}
	}
	emit(len(text), None)
}
