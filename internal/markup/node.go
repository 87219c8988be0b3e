// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markup turns editor HTML into a closed-variant node tree that the
// command emitter can walk exhaustively.
package markup

import "strings"

// Kind identifies what a Node contributes to the converted document.
type Kind int

const (
	// KindContainer groups children without formatting. Unknown tags map here.
	KindContainer Kind = iota
	KindText
	KindImage
	KindBold
	KindItalic
	KindUnderline
	KindParagraph
	KindLineBreak
)

var kindNames = [...]string{
	KindContainer: "container",
	KindText:      "text",
	KindImage:     "image",
	KindBold:      "bold",
	KindItalic:    "italic",
	KindUnderline: "underline",
	KindParagraph: "paragraph",
	KindLineBreak: "linebreak",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// KindForTag maps an HTML element name to its Kind. Matching is
// case-insensitive; anything unrecognized is a container.
func KindForTag(tag string) Kind {
	switch strings.ToLower(tag) {
	case "b", "strong":
		return KindBold
	case "i", "em":
		return KindItalic
	case "u":
		return KindUnderline
	case "p":
		return KindParagraph
	case "br":
		return KindLineBreak
	case "img":
		return KindImage
	default:
		return KindContainer
	}
}

// Node is one element of a parsed document. Text is set only for KindText,
// Src only for KindImage, and Children only for the element kinds.
type Node struct {
	Kind     Kind
	Text     string
	Src      string
	Children []*Node
}

// Text returns a text node.
func Text(s string) *Node {
	return &Node{Kind: KindText, Text: s}
}

// Image returns an image node pointing at src.
func Image(src string) *Node {
	return &Node{Kind: KindImage, Src: src}
}

// Elem returns an element node of the given kind.
func Elem(kind Kind, children ...*Node) *Node {
	return &Node{Kind: kind, Children: children}
}

// Root wraps top-level nodes in a container.
func Root(children ...*Node) *Node {
	return Elem(KindContainer, children...)
}

// PlainText concatenates the text of every text node under n in document
// order. Images and separators are not included.
func (n *Node) PlainText() string {
	var b strings.Builder
	n.walk(func(c *Node) {
		if c.Kind == KindText {
			b.WriteString(c.Text)
		}
	})
	return b.String()
}

func (n *Node) walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}
