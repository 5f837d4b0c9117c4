//go:build property
// +build property

package parser

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/conneroisu/tagforge/internal/markup"
)

// TestParserProperties tests round-trip invariants between the scanner
// and canonical tag rendering.
func TestParserProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property 1: a canonically rendered tag parses back to the same
	// name, type, and attributes.
	properties.Property("canonical render/parse round trip", prop.ForAll(
		func(name string, keys []string, values []string) bool {
			tag := markup.NewTag(name, markup.OpenClose)
			for i, key := range keys {
				value := ""
				if i < len(values) {
					value = values[i]
				}
				if err := tag.Put(key, value); err != nil {
					return false
				}
			}

			elements, err := Parse(tag.XMLString())
			if err != nil || len(elements) != 1 {
				return false
			}
			parsed, ok := elements[0].(*markup.Tag)
			if !ok {
				return false
			}

			return parsed.Name() == name &&
				parsed.Type() == markup.OpenClose &&
				parsed.Attributes().String() == tag.Attributes().String()
		},
		genName(),
		gen.SliceOf(genName()),
		gen.SliceOf(genValue()),
	))

	// Property 2: parsing never alters the source; re-emitting all
	// elements reproduces it byte for byte.
	properties.Property("verbatim re-emission", prop.ForAll(
		func(name string, text string) bool {
			input := "<" + name + ">" + text + "</" + name + ">"
			elements, err := Parse(input)
			if err != nil {
				return false
			}

			var b strings.Builder
			for _, element := range elements {
				b.WriteString(element.String())
			}

			return b.String() == input
		},
		genName(),
		genText(),
	))

	// Property 3: parsed tags are frozen, and editing a parsed tag goes
	// through a mutable copy without touching the original raw text.
	properties.Property("parsed tags frozen", prop.ForAll(
		func(name string) bool {
			input := "<" + name + ">"
			elements, err := Parse(input)
			if err != nil || len(elements) != 1 {
				return false
			}
			tag, ok := elements[0].(*markup.Tag)
			if !ok || tag.IsMutable() {
				return false
			}

			copy := tag.Mutable()
			if err := copy.SetName(name + "x"); err != nil {
				return false
			}

			return tag.String() == input
		},
		genName(),
	))

	properties.TestingRun(t)
}

func genName() gopter.Gen {
	return gen.RegexMatch(`^[a-z][a-z0-9]{0,8}$`)
}

// genValue generates attribute values including characters that need
// entity escaping.
func genValue() gopter.Gen {
	return gen.RegexMatch(`^[a-zA-Z0-9 <>&"']{0,12}$`)
}

// genText generates inter-tag text without markup constructs.
func genText() gopter.Gen {
	return gen.RegexMatch(`^[a-zA-Z0-9 .,]{0,20}$`)
}
