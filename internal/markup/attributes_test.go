package markup

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/tagforge/internal/convert"
	"github.com/conneroisu/tagforge/internal/errors"
)

func TestAttributeMapPreservesInsertionOrder(t *testing.T) {
	m := NewAttributeMap()
	require.NoError(t, m.Set("c", "3"))
	require.NoError(t, m.Set("a", "1"))
	require.NoError(t, m.Set("b", "2"))

	assert.Equal(t, []string{"c", "a", "b"}, m.Keys())
	assert.Equal(t, `c="3" a="1" b="2"`, m.String())

	// Overwriting keeps the original position.
	require.NoError(t, m.Set("a", "9"))
	assert.Equal(t, []string{"c", "a", "b"}, m.Keys())
	assert.Equal(t, `c="3" a="9" b="2"`, m.String())
}

func TestAttributeMapRemove(t *testing.T) {
	m := NewAttributeMap()
	require.NoError(t, m.Set("a", "1"))
	require.NoError(t, m.Set("b", "2"))

	require.NoError(t, m.Remove("a"))
	assert.Equal(t, []string{"b"}, m.Keys())
	_, ok := m.Get("a")
	assert.False(t, ok)

	// Removing a missing key is a no-op.
	require.NoError(t, m.Remove("missing"))

	// A removed key re-added goes to the end.
	require.NoError(t, m.Set("a", "3"))
	assert.Equal(t, []string{"b", "a"}, m.Keys())
}

func TestAttributeMapTypedSetters(t *testing.T) {
	m := NewAttributeMap()
	require.NoError(t, m.SetInt("width", 42))
	require.NoError(t, m.SetBool("hidden", true))

	value, ok := m.Get("width")
	require.True(t, ok)
	assert.Equal(t, "42", value)

	width, err := m.GetInt("width")
	require.NoError(t, err)
	assert.Equal(t, 42, width)

	hidden, err := m.GetBool("hidden")
	require.NoError(t, err)
	assert.True(t, hidden)
}

func TestAttributeMapConversionErrors(t *testing.T) {
	m := NewAttributeMap()
	require.NoError(t, m.Set("width", "wide"))

	_, err := m.GetInt("width")
	require.Error(t, err)

	var convErr *convert.ConversionError
	require.True(t, stderrors.As(err, &convErr))
	assert.Equal(t, "wide", convErr.SourceValue())
	assert.Equal(t, "int", convErr.TargetType())
	assert.Equal(t, "strconv.Atoi", convErr.Converter())

	_, err = m.GetBool("width")
	require.True(t, stderrors.As(err, &convErr))
	assert.Equal(t, "bool", convErr.TargetType())

	// Missing keys also surface as conversion errors.
	_, err = m.GetInt("missing")
	require.True(t, stderrors.As(err, &convErr))
	assert.Equal(t, "int", convErr.TargetType())
	assert.Nil(t, convErr.SourceValue())
}

func TestAttributeMapFreeze(t *testing.T) {
	m := NewAttributeMap()
	require.NoError(t, m.Set("a", "1"))

	assert.False(t, m.IsFrozen())
	m.Freeze()
	m.Freeze()
	assert.True(t, m.IsFrozen())

	assert.ErrorIs(t, m.Set("b", "2"), errors.ErrImmutable)
	assert.ErrorIs(t, m.SetInt("n", 1), errors.ErrImmutable)
	assert.ErrorIs(t, m.SetBool("f", true), errors.ErrImmutable)
	assert.ErrorIs(t, m.Remove("a"), errors.ErrImmutable)

	// Reads still work on a frozen map.
	value, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", value)
	assert.Equal(t, 1, m.Len())
}

func TestAttributeMapClone(t *testing.T) {
	m := NewAttributeMap()
	require.NoError(t, m.Set("a", "1"))
	require.NoError(t, m.Set("b", "2"))
	m.Freeze()

	clone := m.Clone()
	assert.False(t, clone.IsFrozen(), "clones are always mutable")
	assert.Equal(t, m.Keys(), clone.Keys())

	require.NoError(t, clone.Set("a", "9"))
	require.NoError(t, clone.Remove("b"))

	value, _ := m.Get("a")
	assert.Equal(t, "1", value)
	_, ok := m.Get("b")
	assert.True(t, ok)
}

func TestAttributeMapStringEscapesValues(t *testing.T) {
	m := NewAttributeMap()
	require.NoError(t, m.Set("title", `a<b&"c"`))

	assert.Equal(t, `title="a&lt;b&amp;&#34;c&#34;"`, m.String())
}

func TestAttributeMapEmptyString(t *testing.T) {
	m := NewAttributeMap()
	assert.Equal(t, "", m.String())
	assert.Equal(t, 0, m.Len())
}
