// Package markup defines the element model produced by the markup
// scanner: tags with ordered attributes, source positions, and the
// mutable/frozen lifecycle used by rewriting passes, plus the raw text
// segments between tags. A frozen tag is safe for concurrent reads;
// mutable tags belong to a single goroutine until frozen.
package markup

// Element is a single piece of parsed markup in document order. Tags and
// raw text segments both implement it. String returns the markup text
// used when the document is reassembled, so emitting every element of a
// document in order reproduces the source.
type Element interface {
	String() string
}

// RawText is a verbatim text segment between two tags. Comments, CDATA
// sections, processing instructions, and doctype declarations are also
// carried as raw text so they survive re-emission untouched.
type RawText struct {
	// Text is the exact source substring.
	Text string
	// Pos is the index of the segment in the parsed input.
	Pos int
	// Line and Column locate the start of the segment (1-based).
	Line   int
	Column int
}

// String returns the text segment verbatim.
func (r *RawText) String() string {
	return r.Text
}
