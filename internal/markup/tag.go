package markup

import (
	"fmt"
	"strings"

	"github.com/conneroisu/tagforge/internal/errors"
)

// TagType classifies a tag occurrence.
type TagType int

const (
	// Open is an open tag, like <div class="x">.
	Open TagType = iota
	// Close is a close tag, like </div>.
	Close
	// OpenClose is a self-closing tag, like <img src="x"/>.
	OpenClose
)

// String returns the string representation of the tag type.
func (t TagType) String() string {
	switch t {
	case Open:
		return "OPEN"
	case Close:
		return "CLOSE"
	case OpenClose:
		return "OPEN_CLOSE"
	default:
		return "UNKNOWN"
	}
}

// Tag represents a single markup tag occurrence: its name and optional
// namespace, ordered attributes, position in the source, and for close
// tags a link to the open tag it terminates.
//
// A tag starts out mutable. Freeze makes it permanently read-only; after
// that the only route to mutation is Mutable, which returns a fresh
// writable copy that remembers the original it was cloned from so
// open/close links established before the clone still hold.
type Tag struct {
	namespace  string
	name       string
	tagType    TagType
	attributes *AttributeMap

	pos    int
	length int
	line   int
	column int
	text   string

	closes      *Tag
	copyOf      *Tag
	mutable     bool
	nameChanged bool
}

// NewTag creates an empty mutable tag with the given name and type.
func NewTag(name string, tagType TagType) *Tag {
	t := &Tag{
		name:       name,
		tagType:    tagType,
		attributes: NewAttributeMap(),
		mutable:    true,
	}
	t.copyOf = t

	return t
}

// ParsedTag carries everything the scanner knows about a tag occurrence.
type ParsedTag struct {
	Namespace  string
	Name       string
	Type       TagType
	Attributes *AttributeMap
	Pos        int
	Length     int
	Line       int
	Column     int
	RawText    string
}

// NewParsedTag builds a mutable tag from scanner output. The scanner
// freezes the tag once the full occurrence has been recognized.
func NewParsedTag(p ParsedTag) *Tag {
	attrs := p.Attributes
	if attrs == nil {
		attrs = NewAttributeMap()
	}

	t := &Tag{
		namespace:  p.Namespace,
		name:       p.Name,
		tagType:    p.Type,
		attributes: attrs,
		pos:        p.Pos,
		length:     p.Length,
		line:       p.Line,
		column:     p.Column,
		text:       p.RawText,
		mutable:    true,
	}
	t.copyOf = t

	return t
}

// Name returns the tag name, such as "img" or "input".
func (t *Tag) Name() string { return t.name }

// Namespace returns the tag namespace, if any, such as the "wicket" in
// <wicket:link>.
func (t *Tag) Namespace() string { return t.namespace }

// Type returns the tag type.
func (t *Tag) Type() TagType { return t.tagType }

// Attributes returns the tag's attribute map. The map is frozen together
// with the tag.
func (t *Tag) Attributes() *AttributeMap { return t.attributes }

// Pos returns the tag's index in the parsed input.
func (t *Tag) Pos() int { return t.pos }

// Length returns the length of the tag in characters.
func (t *Tag) Length() int { return t.length }

// Line returns the 1-based source line of the tag.
func (t *Tag) Line() int { return t.line }

// Column returns the 1-based source column of the tag.
func (t *Tag) Column() int { return t.column }

// RawText returns the original source substring of the tag, captured
// once at parse time. Empty for tags constructed programmatically.
func (t *Tag) RawText() string { return t.text }

// NameChanged reports whether SetName has been called on this tag.
func (t *Tag) NameChanged() bool { return t.nameChanged }

// IsMutable reports whether the tag can still be modified.
func (t *Tag) IsMutable() bool { return t.mutable }

// OpenTag returns the open tag this close tag terminates, or nil if no
// link has been established.
func (t *Tag) OpenTag() *Tag { return t.closes }

// IsOpen reports whether this is an open tag.
func (t *Tag) IsOpen() bool { return t.tagType == Open }

// IsClose reports whether this is a close tag.
func (t *Tag) IsClose() bool { return t.tagType == Close }

// IsOpenClose reports whether this is a self-closing tag.
func (t *Tag) IsOpenClose() bool { return t.tagType == OpenClose }

// IsOpenTag reports whether this is an open tag with the given name.
// The comparison is case-sensitive against the parsed name.
func (t *Tag) IsOpenTag(name string) bool {
	return t.IsOpen() && t.name == name
}

// IsOpenCloseTag reports whether this is a self-closing tag with the
// given name.
func (t *Tag) IsOpenCloseTag(name string) bool {
	return t.IsOpenClose() && t.name == name
}

// Attribute returns the value of the named attribute and whether it is
// present.
func (t *Tag) Attribute(key string) (string, bool) {
	return t.attributes.Get(key)
}

// Put stores a string attribute. Fails on a frozen tag.
func (t *Tag) Put(key, value string) error {
	if !t.mutable {
		return errors.NewImmutableError("Put", t.describe())
	}

	return t.attributes.Set(key, value)
}

// PutInt stores an int attribute. Fails on a frozen tag.
func (t *Tag) PutInt(key string, value int) error {
	if !t.mutable {
		return errors.NewImmutableError("PutInt", t.describe())
	}

	return t.attributes.SetInt(key, value)
}

// PutBool stores a bool attribute. Fails on a frozen tag.
func (t *Tag) PutBool(key string, value bool) error {
	if !t.mutable {
		return errors.NewImmutableError("PutBool", t.describe())
	}

	return t.attributes.SetBool(key, value)
}

// Remove deletes an attribute. Fails on a frozen tag.
func (t *Tag) Remove(key string) error {
	if !t.mutable {
		return errors.NewImmutableError("Remove", t.describe())
	}

	return t.attributes.Remove(key)
}

// SetName changes the tag name and records that the name changed.
// Fails on a frozen tag.
func (t *Tag) SetName(name string) error {
	if !t.mutable {
		return errors.NewImmutableError("SetName", t.describe())
	}

	t.name = name
	t.nameChanged = true

	return nil
}

// SetType changes the tag type. Fails on a frozen tag.
func (t *Tag) SetType(tagType TagType) error {
	if !t.mutable {
		return errors.NewImmutableError("SetType", t.describe())
	}

	t.tagType = tagType

	return nil
}

// SetOpenTag records the open tag this close tag terminates. The pairing
// pass calls this on close tags only; the link itself is accepted on any
// tag, and works on frozen tags, matching the original pairing behavior.
func (t *Tag) SetOpenTag(open *Tag) {
	t.closes = open
}

// Closes reports whether this tag closes the given open tag. The check
// holds across clones: it is true when the recorded link points at open
// itself or at the original open was cloned from.
func (t *Tag) Closes(open *Tag) bool {
	if open == nil {
		return false
	}

	return t.closes == open || t.closes == open.copyOf
}

// Freeze makes the tag and its attribute map immutable. Freezing is
// idempotent; a frozen tag can never be unfrozen, only copied with
// Mutable.
func (t *Tag) Freeze() {
	if t.mutable {
		t.mutable = false
		t.attributes.Freeze()
	}
}

// Mutable returns this tag if it is still mutable, or a new mutable copy
// if it is frozen. The copy records the true original tag, never an
// intermediate copy, so chains of clones stay flat and close/open links
// established against the original keep matching.
func (t *Tag) Mutable() *Tag {
	if t.mutable {
		return t
	}

	return &Tag{
		namespace:  t.namespace,
		name:       t.name,
		tagType:    t.tagType,
		attributes: t.attributes.Clone(),
		pos:        t.pos,
		length:     t.length,
		line:       t.line,
		column:     t.column,
		text:       t.text,
		closes:     t.closes,
		copyOf:     t.copyOf,
		mutable:    true,
	}
}

// XMLString rebuilds the tag as canonical markup text from its current
// fields, regardless of the originally captured raw text.
func (t *Tag) XMLString() string {
	var b strings.Builder

	b.WriteByte('<')

	if t.tagType == Close {
		b.WriteByte('/')
	}

	if t.namespace != "" {
		b.WriteString(t.namespace)
		b.WriteByte(':')
	}

	b.WriteString(t.name)

	if t.attributes.Len() > 0 {
		b.WriteByte(' ')
		b.WriteString(t.attributes.String())
	}

	if t.tagType == OpenClose {
		b.WriteByte('/')
	}

	b.WriteByte('>')

	return b.String()
}

// String returns the markup text of the tag. A frozen tag reproduces its
// captured raw text byte for byte, preserving the original formatting; a
// mutable tag always reflects its current fields via XMLString.
func (t *Tag) String() string {
	if !t.mutable && t.text != "" {
		return t.text
	}

	return t.XMLString()
}

// DebugString returns a verbose representation for diagnostics.
func (t *Tag) DebugString() string {
	return fmt.Sprintf("[Tag name = %s, pos = %d, line = %d, length = %d, attributes = [%s], type = %s]",
		t.name, t.pos, t.line, t.length, t.attributes.String(), t.tagType)
}

// UserDebugString returns the tag text with its source location, for
// messages shown to users.
func (t *Tag) UserDebugString() string {
	return fmt.Sprintf("'%s' (line %d, column %d)", t.String(), t.line, t.column)
}

func (t *Tag) describe() string {
	if t.namespace != "" {
		return "tag <" + t.namespace + ":" + t.name + ">"
	}

	return "tag <" + t.name + ">"
}
