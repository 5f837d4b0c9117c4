// Package document assembles parsed markup elements into a document and
// provides the passes that operate on the whole sequence: open/close
// pairing, well-formedness validation, verbatim re-emission, and
// canonical formatting.
package document

import (
	"io"
	"strings"

	"github.com/conneroisu/tagforge/internal/errors"
	"github.com/conneroisu/tagforge/internal/markup"
	"github.com/conneroisu/tagforge/internal/parser"
)

// Document is an ordered sequence of markup elements from a single
// source. The element order is the source order; emitting every element
// in order reproduces the original text.
type Document struct {
	name     string
	elements []markup.Element
	paired   bool
}

// Parse scans input read from the named source into a document.
func Parse(name, input string) (*Document, error) {
	elements, err := parser.NewFile(name, input).All()
	if err != nil {
		return nil, err
	}

	return &Document{name: name, elements: elements}, nil
}

// New creates a document from an already-scanned element sequence.
func New(name string, elements []markup.Element) *Document {
	return &Document{name: name, elements: elements}
}

// Name returns the source name the document was parsed from.
func (d *Document) Name() string {
	return d.name
}

// Elements returns the document's elements in source order.
func (d *Document) Elements() []markup.Element {
	return d.elements
}

// Tags returns only the tag elements, in source order.
func (d *Document) Tags() []*markup.Tag {
	var tags []*markup.Tag
	for _, element := range d.elements {
		if tag, ok := element.(*markup.Tag); ok {
			tags = append(tags, tag)
		}
	}

	return tags
}

// Pair links every close tag to the open tag it terminates, using a
// stack over the element sequence. Pairing fails on a close tag that
// matches no open tag or that closes a different name than the one on
// top of the stack. A document that parses but fails Pair is malformed
// but can still be re-emitted verbatim.
func (d *Document) Pair() error {
	if d.paired {
		return nil
	}

	var stack []*markup.Tag
	for _, element := range d.elements {
		tag, ok := element.(*markup.Tag)
		if !ok {
			continue
		}

		switch tag.Type() {
		case markup.Open:
			stack = append(stack, tag)
		case markup.Close:
			if len(stack) == 0 {
				return d.mismatch(tag, "close tag "+tag.UserDebugString()+" has no matching open tag")
			}
			open := stack[len(stack)-1]
			if !sameName(open, tag) {
				return d.mismatch(tag,
					"close tag "+tag.UserDebugString()+" does not match open tag "+open.UserDebugString())
			}
			stack = stack[:len(stack)-1]
			tag.SetOpenTag(open)
		case markup.OpenClose:
			// Self-closing, nothing to pair.
		}
	}

	if len(stack) > 0 {
		open := stack[len(stack)-1]
		return errors.NewValidationError(errors.ErrCodeUnbalancedTag,
			"open tag "+open.UserDebugString()+" is never closed").
			WithLocation(d.name, open.Line(), open.Column())
	}

	d.paired = true

	return nil
}

// Validate checks that the document is well formed. Currently that is
// exactly the pairing pass.
func (d *Document) Validate() error {
	return d.Pair()
}

// Render writes the document verbatim: every element's String in source
// order. Unmodified frozen tags reproduce their original text exactly.
func (d *Document) Render(w io.Writer) error {
	for _, element := range d.elements {
		if _, err := io.WriteString(w, element.String()); err != nil {
			return err
		}
	}

	return nil
}

// String returns the document rendered verbatim.
func (d *Document) String() string {
	var b strings.Builder
	// strings.Builder never returns a write error.
	_ = d.Render(&b)

	return b.String()
}

// Format writes the document with every tag re-serialized canonically
// and all raw text kept as is. Tag attributes come out in source order,
// double-quoted and entity-escaped.
func (d *Document) Format(w io.Writer) error {
	for _, element := range d.elements {
		text := element.String()
		if tag, ok := element.(*markup.Tag); ok {
			text = tag.XMLString()
		}
		if _, err := io.WriteString(w, text); err != nil {
			return err
		}
	}

	return nil
}

// FormatString returns the document formatted canonically.
func (d *Document) FormatString() string {
	var b strings.Builder
	_ = d.Format(&b)

	return b.String()
}

func (d *Document) mismatch(tag *markup.Tag, message string) error {
	return errors.NewValidationError(errors.ErrCodeMismatchedTag, message).
		WithLocation(d.name, tag.Line(), tag.Column())
}

// sameName reports whether two tags carry the same namespace and name.
func sameName(a, b *markup.Tag) bool {
	return a.Namespace() == b.Namespace() && a.Name() == b.Name()
}
