package document

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/tagforge/internal/errors"
	"github.com/conneroisu/tagforge/internal/markup"
)

func TestParseAndTags(t *testing.T) {
	doc, err := Parse("page.html", `<div><img src="a.png"/><span>x</span></div>`)
	require.NoError(t, err)

	assert.Equal(t, "page.html", doc.Name())

	tags := doc.Tags()
	require.Len(t, tags, 5)
	assert.Equal(t, "div", tags[0].Name())
	assert.Equal(t, "img", tags[1].Name())
	assert.Equal(t, markup.OpenClose, tags[1].Type())
	assert.Equal(t, markup.Close, tags[4].Type())
}

func TestPairLinksCloseTags(t *testing.T) {
	doc, err := Parse("page.html", `<div><span>x</span></div>`)
	require.NoError(t, err)
	require.NoError(t, doc.Pair())

	tags := doc.Tags()
	outerOpen, innerOpen := tags[0], tags[1]
	innerClose, outerClose := tags[2], tags[3]

	assert.True(t, innerClose.Closes(innerOpen))
	assert.False(t, innerClose.Closes(outerOpen))
	assert.True(t, outerClose.Closes(outerOpen))
	assert.Same(t, outerOpen, outerClose.OpenTag())

	// Pairing again is a no-op.
	require.NoError(t, doc.Pair())
}

func TestPairSurvivesOpenTagCloning(t *testing.T) {
	doc, err := Parse("page.html", `<div>x</div>`)
	require.NoError(t, err)
	require.NoError(t, doc.Pair())

	tags := doc.Tags()
	open, closeTag := tags[0], tags[1]

	// A rewriting pass clones the open tag; the close link still holds.
	clone := open.Mutable()
	require.NoError(t, clone.SetName("section"))
	assert.True(t, closeTag.Closes(clone))
}

func TestPairErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		code  string
	}{
		{"unclosed open tag", `<div><span>x</span>`, errors.ErrCodeUnbalancedTag},
		{"close without open", `x</div>`, errors.ErrCodeMismatchedTag},
		{"mismatched names", `<div>x</span>`, errors.ErrCodeMismatchedTag},
		{"mismatched namespace", `<a:div>x</div>`, errors.ErrCodeMismatchedTag},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := Parse("page.html", tc.input)
			require.NoError(t, err)

			err = doc.Validate()
			require.Error(t, err)

			var tagforgeErr *errors.TagforgeError
			require.True(t, stderrors.As(err, &tagforgeErr))
			assert.Equal(t, tc.code, tagforgeErr.Code)
			assert.Equal(t, "page.html", tagforgeErr.FilePath)
			assert.Greater(t, tagforgeErr.Line, 0)
		})
	}
}

func TestSelfClosingTagsNeedNoPairing(t *testing.T) {
	doc, err := Parse("page.html", `<br/><img src="a.png"/>`)
	require.NoError(t, err)
	assert.NoError(t, doc.Validate())
}

func TestRenderReproducesSource(t *testing.T) {
	input := "<div  class='a' >\n  <img   src=\"b.png\" />\n</div>"
	doc, err := Parse("page.html", input)
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, doc.Render(&b))
	assert.Equal(t, input, b.String())
	assert.Equal(t, input, doc.String())
}

func TestFormatCanonicalizesTags(t *testing.T) {
	doc, err := Parse("page.html", "<div  class='a' >text</div>")
	require.NoError(t, err)

	assert.Equal(t, `<div class="a">text</div>`, doc.FormatString())
}

func TestNewFromElements(t *testing.T) {
	tag := markup.NewTag("p", markup.Open)
	doc := New("built", []markup.Element{tag, &markup.RawText{Text: "x"}})

	require.Len(t, doc.Elements(), 2)
	require.Len(t, doc.Tags(), 1)
	assert.Equal(t, "<p>x", doc.String())
}
