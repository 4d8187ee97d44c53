package lines

// Line is one line of a document.
type Line struct {
	Content []rune
	Ending  LineEnding
}

// NewLine creates a line from a string.
func NewLine(content string, ending LineEnding) Line {
	return Line{Content: []rune(content), Ending: ending}
}

// Len returns the number of codepoints in the line content.
func (l *Line) Len() int {
	return len(l.Content)
}

// String returns the line content without its terminator.
func (l *Line) String() string {
	return string(l.Content)
}

// IsLast returns true if the line has no terminator.
func (l *Line) IsLast() bool {
	return l.Ending == None
}
