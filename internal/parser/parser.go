// Package parser scans raw markup text into the ordered element stream
// documents are built from: frozen tags carrying their source positions
// and original text, interleaved with verbatim raw text segments.
//
// The scanner is a pull parser: Next returns one element at a time until
// the input is exhausted. Comments, CDATA sections, processing
// instructions, and doctype declarations are passed through as raw text
// so re-emitting the element stream reproduces the source byte for byte.
package parser

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/conneroisu/tagforge/internal/errors"
	"github.com/conneroisu/tagforge/internal/markup"
)

// Parser scans a single markup input. It is not safe for concurrent use;
// a parser owns the tags it produces until it freezes and returns them.
type Parser struct {
	source string
	input  string
	pos    int
	line   int
	column int
}

// New creates a parser for the given input.
func New(input string) *Parser {
	return &Parser{input: input, line: 1, column: 1}
}

// NewFile creates a parser for input read from the named source. The
// name is attached to parse errors.
func NewFile(source, input string) *Parser {
	return &Parser{source: source, input: input, line: 1, column: 1}
}

// Parse scans the whole input and returns its elements in order.
func Parse(input string) ([]markup.Element, error) {
	return New(input).All()
}

// All drains the parser and returns the remaining elements in order.
func (p *Parser) All() ([]markup.Element, error) {
	var elements []markup.Element
	for {
		element, err := p.Next()
		if err != nil {
			return nil, err
		}
		if element == nil {
			return elements, nil
		}
		elements = append(elements, element)
	}
}

// Next returns the next element of the input, or nil when the input is
// exhausted. Tags are returned frozen; callers that want to edit a tag
// go through Tag.Mutable.
func (p *Parser) Next() (markup.Element, error) {
	if p.pos >= len(p.input) {
		return nil, nil
	}

	if p.input[p.pos] == '<' {
		switch {
		case p.lookingAt("<!--"):
			return p.scanRawSection("<!--", "-->"), nil
		case p.lookingAt("<![CDATA["):
			return p.scanRawSection("<![CDATA[", "]]>"), nil
		case p.lookingAt("<?"):
			return p.scanRawSection("<?", ">"), nil
		case p.lookingAt("<!"):
			return p.scanRawSection("<!", ">"), nil
		case p.tagStartsAt(p.pos):
			return p.scanTag()
		}
	}

	return p.scanText(), nil
}

// lookingAt reports whether the input at the current position begins
// with the given prefix.
func (p *Parser) lookingAt(prefix string) bool {
	return strings.HasPrefix(p.input[p.pos:], prefix)
}

// tagStartsAt reports whether a tag begins at index i. A '<' only opens
// a tag when followed by a name character or a '/' and a name character;
// anything else is treated as text.
func (p *Parser) tagStartsAt(i int) bool {
	if i >= len(p.input) || p.input[i] != '<' {
		return false
	}

	j := i + 1
	if j < len(p.input) && p.input[j] == '/' {
		j++
	}

	return j < len(p.input) && isNameStart(p.input[j])
}

// sectionStartsAt reports whether any non-text construct begins at
// index i. Text segments run until the next such construct.
func (p *Parser) sectionStartsAt(i int) bool {
	if p.input[i] != '<' {
		return false
	}

	rest := p.input[i:]
	if strings.HasPrefix(rest, "<!--") || strings.HasPrefix(rest, "<![CDATA[") ||
		strings.HasPrefix(rest, "<?") || strings.HasPrefix(rest, "<!") {
		return true
	}

	return p.tagStartsAt(i)
}

// scanText consumes a raw text segment up to the next tag, comment, or
// other markup construct. A stray '<' that opens nothing stays part of
// the text.
func (p *Parser) scanText() *markup.RawText {
	start := p.pos
	line, column := p.line, p.column

	i := p.pos + 1
	for i < len(p.input) {
		if p.input[i] == '<' && p.sectionStartsAt(i) {
			break
		}
		i++
	}
	p.advanceTo(i)

	return &markup.RawText{
		Text:   p.input[start:i],
		Pos:    start,
		Line:   line,
		Column: column,
	}
}

// scanRawSection consumes a bracketed construct such as a comment or
// CDATA section and returns it verbatim. An unterminated section runs to
// the end of the input.
func (p *Parser) scanRawSection(open, terminator string) *markup.RawText {
	start := p.pos
	line, column := p.line, p.column

	end := len(p.input)
	if i := strings.Index(p.input[start+len(open):], terminator); i >= 0 {
		end = start + len(open) + i + len(terminator)
	}
	p.advanceTo(end)

	return &markup.RawText{
		Text:   p.input[start:end],
		Pos:    start,
		Line:   line,
		Column: column,
	}
}

// scanTag consumes one tag occurrence and returns it frozen.
func (p *Parser) scanTag() (*markup.Tag, error) {
	start := p.pos
	line, column := p.line, p.column

	i := start + 1
	closing := false
	if p.input[i] == '/' {
		closing = true
		i++
	}

	nameStart := i
	for i < len(p.input) && isNameChar(p.input[i]) {
		i++
	}
	qualified := p.input[nameStart:i]
	if qualified == "" {
		return nil, p.errorAt(errors.ErrCodeEmptyTagName, "tag has no name", line, column)
	}

	namespace, name := splitName(qualified)

	attributes := markup.NewAttributeMap()
	selfClosing := false

	for {
		i = skipSpace(p.input, i)
		if i >= len(p.input) {
			return nil, p.errorAt(errors.ErrCodeUnterminatedTag,
				"unterminated tag <"+qualified+">", line, column)
		}

		if p.input[i] == '>' {
			i++
			break
		}

		if p.input[i] == '/' {
			if i+1 < len(p.input) && p.input[i+1] == '>' {
				selfClosing = true
				i += 2
				break
			}
			// Stray slash inside the tag, skip it.
			i++
			continue
		}

		var err error
		i, err = p.scanAttribute(i, attributes, line, column)
		if err != nil {
			return nil, err
		}
	}

	tagType := markup.Open
	switch {
	case closing:
		tagType = markup.Close
	case selfClosing:
		tagType = markup.OpenClose
	}

	p.advanceTo(i)

	tag := markup.NewParsedTag(markup.ParsedTag{
		Namespace:  namespace,
		Name:       name,
		Type:       tagType,
		Attributes: attributes,
		Pos:        start,
		Length:     i - start,
		Line:       line,
		Column:     column,
		RawText:    p.input[start:i],
	})
	tag.Freeze()

	return tag, nil
}

// scanAttribute consumes one attribute at index i and stores it in
// attrs. Values may be double-quoted, single-quoted, or bare; entity
// references in values are resolved. An attribute without a value is
// stored with the empty string.
func (p *Parser) scanAttribute(i int, attrs *markup.AttributeMap, line, column int) (int, error) {
	keyStart := i
	for i < len(p.input) && isNameChar(p.input[i]) {
		i++
	}
	key := p.input[keyStart:i]
	if key == "" {
		// Not a name character; skip it so the scan always advances.
		return i + 1, nil
	}

	j := skipSpace(p.input, i)
	if j >= len(p.input) || p.input[j] != '=' {
		// Valueless attribute like <input disabled>.
		mustSet(attrs, key, "")
		return i, nil
	}

	i = skipSpace(p.input, j+1)
	if i >= len(p.input) {
		return i, p.errorAt(errors.ErrCodeUnterminatedTag,
			"unterminated tag", line, column)
	}

	if quote := p.input[i]; quote == '"' || quote == '\'' {
		i++
		valueStart := i
		for i < len(p.input) && p.input[i] != quote {
			i++
		}
		if i >= len(p.input) {
			return i, p.errorAt(errors.ErrCodeUnterminatedQuote,
				"unterminated quoted value for attribute "+key, line, column)
		}
		mustSet(attrs, key, html.UnescapeString(p.input[valueStart:i]))
		return i + 1, nil
	}

	valueStart := i
	for i < len(p.input) && !isSpace(p.input[i]) && p.input[i] != '>' && p.input[i] != '/' {
		i++
	}
	mustSet(attrs, key, html.UnescapeString(p.input[valueStart:i]))

	return i, nil
}

// advanceTo moves the scan position to end, keeping line and column
// counters in step with the consumed text.
func (p *Parser) advanceTo(end int) {
	for ; p.pos < end; p.pos++ {
		if p.input[p.pos] == '\n' {
			p.line++
			p.column = 1
		} else {
			p.column++
		}
	}
}

func (p *Parser) errorAt(code, message string, line, column int) error {
	return errors.NewParseError(code, message).WithLocation(p.source, line, column)
}

// mustSet writes into a map the scanner still owns; the map is not
// frozen until the tag is.
func mustSet(attrs *markup.AttributeMap, key, value string) {
	if err := attrs.Set(key, value); err != nil {
		panic(err)
	}
}

// splitName splits a qualified tag name on its first colon.
func splitName(qualified string) (namespace, name string) {
	if i := strings.IndexByte(qualified, ':'); i >= 0 {
		return qualified[:i], qualified[i+1:]
	}

	return "", qualified
}

func isNameStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c >= '0' && c <= '9' || c == '-' || c == '.' || c == ':'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func skipSpace(s string, i int) int {
	for i < len(s) && isSpace(s[i]) {
		i++
	}

	return i
}
