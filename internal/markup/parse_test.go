// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindForTag(t *testing.T) {
	tests := []struct {
		tag  string
		want Kind
	}{
		{"b", KindBold},
		{"STRONG", KindBold},
		{"i", KindItalic},
		{"em", KindItalic},
		{"u", KindUnderline},
		{"p", KindParagraph},
		{"br", KindLineBreak},
		{"img", KindImage},
		{"div", KindContainer},
		{"h1", KindContainer},
		{"marquee", KindContainer},
		{"", KindContainer},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, KindForTag(tt.tag))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "bold", KindBold.String())
	assert.Equal(t, "container", KindContainer.String())
	assert.Equal(t, "unknown", Kind(99).String())
}

func TestParseParagraphWithBold(t *testing.T) {
	root, err := Parse("<p>Hello <b>World</b></p>")
	require.NoError(t, err)

	want := Root(
		Elem(KindParagraph,
			Text("Hello "),
			Elem(KindBold, Text("World")),
		),
	)
	assert.Equal(t, want, root)
}

func TestParseEmpty(t *testing.T) {
	root, err := Parse("")
	require.NoError(t, err)
	assert.Equal(t, KindContainer, root.Kind)
	assert.Empty(t, root.Children)
}

func TestParseImage(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want *Node
	}{
		{
			name: "image with source",
			src:  `<img src="https://example.com/a.png">`,
			want: Root(Image("https://example.com/a.png")),
		},
		{
			name: "image without source is dropped",
			src:  `<img alt="x">`,
			want: Root(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want.Children), len(root.Children))
			if len(tt.want.Children) > 0 {
				assert.Equal(t, tt.want.Children[0], root.Children[0])
			}
		})
	}
}

func TestParseUnknownTagsBecomeContainers(t *testing.T) {
	root, err := Parse(`<custom-tag><span>x</span></custom-tag>`)
	require.NoError(t, err)
	require.Len(t, root.Children, 1)

	outer := root.Children[0]
	assert.Equal(t, KindContainer, outer.Kind)
	require.Len(t, outer.Children, 1)
	assert.Equal(t, KindContainer, outer.Children[0].Kind)
	assert.Equal(t, "x", outer.PlainText())
}

func TestParseSkipsComments(t *testing.T) {
	root, err := Parse(`<!-- note --><p>a</p>`)
	require.NoError(t, err)
	require.Len(t, root.Children, 1)
	assert.Equal(t, KindParagraph, root.Children[0].Kind)
}

func TestParseMalformedMarkup(t *testing.T) {
	root, err := Parse(`<p>one<b>two</p>three`)
	require.NoError(t, err)
	assert.Equal(t, "onetwothree", root.PlainText())
}

func TestParserSanitize(t *testing.T) {
	src := `<p onclick="x()">safe</p><script>alert(1)</script>`

	raw, err := NewParser(false).Parse(src)
	require.NoError(t, err)
	assert.Contains(t, raw.PlainText(), "alert(1)")

	clean, err := NewParser(true).Parse(src)
	require.NoError(t, err)
	assert.Equal(t, "safe", clean.PlainText())
}
