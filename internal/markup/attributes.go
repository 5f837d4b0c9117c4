package markup

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/conneroisu/tagforge/internal/convert"
	"github.com/conneroisu/tagforge/internal/errors"
)

// AttributeMap is an insertion-ordered string-to-string mapping with a
// one-way freeze. Ordering matters: re-serializing a tag must emit its
// attributes in the order they appeared in the source.
type AttributeMap struct {
	keys   []string
	values map[string]string
	frozen bool
}

// NewAttributeMap creates an empty mutable attribute map.
func NewAttributeMap() *AttributeMap {
	return &AttributeMap{
		values: make(map[string]string),
	}
}

// Len returns the number of attributes.
func (m *AttributeMap) Len() int {
	return len(m.keys)
}

// Keys returns the attribute names in insertion order.
func (m *AttributeMap) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Get returns the value for key and whether the key is present.
func (m *AttributeMap) Get(key string) (string, bool) {
	value, ok := m.values[key]
	return value, ok
}

// GetInt returns the value for key parsed as an int. A missing key or an
// unparsable value yields a ConversionError.
func (m *AttributeMap) GetInt(key string) (int, error) {
	raw, ok := m.values[key]
	if !ok {
		return 0, convert.NewConversionError("attribute not found: " + key).
			SetTargetType("int")
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, convert.NewConversionError("invalid attribute " + key).
			SetCause(err).
			SetConverter("strconv.Atoi").
			SetSourceValue(raw).
			SetTargetType("int")
	}

	return value, nil
}

// GetBool returns the value for key parsed as a bool. A missing key or an
// unparsable value yields a ConversionError.
func (m *AttributeMap) GetBool(key string) (bool, error) {
	raw, ok := m.values[key]
	if !ok {
		return false, convert.NewConversionError("attribute not found: " + key).
			SetTargetType("bool")
	}

	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, convert.NewConversionError("invalid attribute " + key).
			SetCause(err).
			SetConverter("strconv.ParseBool").
			SetSourceValue(raw).
			SetTargetType("bool")
	}

	return value, nil
}

// Set stores a string attribute, preserving the key's original position
// when it already exists. Fails on a frozen map.
func (m *AttributeMap) Set(key, value string) error {
	if m.frozen {
		return errors.NewImmutableError("Set", "attribute map")
	}

	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value

	return nil
}

// SetInt stores an int attribute. Fails on a frozen map.
func (m *AttributeMap) SetInt(key string, value int) error {
	return m.Set(key, strconv.Itoa(value))
}

// SetBool stores a bool attribute. Fails on a frozen map.
func (m *AttributeMap) SetBool(key string, value bool) error {
	return m.Set(key, strconv.FormatBool(value))
}

// Remove deletes an attribute. Removing a missing key is a no-op.
// Fails on a frozen map.
func (m *AttributeMap) Remove(key string) error {
	if m.frozen {
		return errors.NewImmutableError("Remove", "attribute map")
	}

	if _, ok := m.values[key]; !ok {
		return nil
	}

	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}

	return nil
}

// Freeze makes the map immutable. Freezing is idempotent and cannot be
// reversed; Clone is the only way back to a writable map.
func (m *AttributeMap) Freeze() {
	m.frozen = true
}

// IsFrozen reports whether the map has been frozen.
func (m *AttributeMap) IsFrozen() bool {
	return m.frozen
}

// Clone returns a mutable copy of the map with the same keys, values,
// and ordering. The copy shares nothing with the receiver.
func (m *AttributeMap) Clone() *AttributeMap {
	clone := &AttributeMap{
		keys:   make([]string, len(m.keys)),
		values: make(map[string]string, len(m.values)),
	}
	copy(clone.keys, m.keys)
	for k, v := range m.values {
		clone.values[k] = v
	}

	return clone
}

// String returns the canonical serialized form: key="value" pairs in
// insertion order, separated by single spaces, with values HTML-escaped.
func (m *AttributeMap) String() string {
	var b strings.Builder
	for i, key := range m.keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(key)
		b.WriteString(`="`)
		b.WriteString(html.EscapeString(m.values[key]))
		b.WriteByte('"')
	}

	return b.String()
}
