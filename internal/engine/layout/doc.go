// Package layout maps between column indices and horizontal pixel offsets
// within a line.
//
// Glyph measurement is not done here: a Metrics provider supplies the
// advance width of each codepoint and the kerning between neighbours. The
// Resolver walks a line glyph by glyph, expands tabs to the next multiple
// of TabWidth space advances and rounds the distance between consecutive
// glyph origins to whole pixels.
//
// The Resolver is a pure function of (content, tab width, provider, font):
// it holds no caret or document state.
package layout
