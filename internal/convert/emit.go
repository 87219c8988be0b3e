// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns a markup tree into an ordered batch of Docs API
// mutation commands.
//
// Commands in a batch are applied one after another, so each index depends
// on everything emitted before it. The emitter therefore threads a single
// cursor through a depth-first walk instead of computing offsets per node.
package convert

import (
	"strings"
	"unicode/utf16"

	"github.com/pdiddy/drivenote/internal/markup"
)

// Emit converts the tree rooted at root into commands. The cursor starts at
// index 1, the first writable position of an empty document body.
func Emit(root *markup.Node) []Command {
	cmds, _ := EmitWithCursor(root)
	return cmds
}

// EmitWithCursor is Emit that also returns the cursor after the last
// command, which equals 1 plus the number of indices the batch inserts.
func EmitWithCursor(root *markup.Node) ([]Command, int) {
	e := &emitter{cursor: 1, cmds: []Command{}}
	if root != nil {
		e.visit(root, StyleState{})
	}
	return e.cmds, e.cursor
}

// emitter is owned by a single Emit call.
type emitter struct {
	cursor int
	cmds   []Command
}

func (e *emitter) visit(n *markup.Node, style StyleState) {
	switch n.Kind {
	case markup.KindText:
		e.text(n.Text, style)

	case markup.KindImage:
		// Images are never styled.
		e.cmds = append(e.cmds, InsertImage{
			Index:  e.cursor,
			URI:    n.Src,
			Width:  ImageSizePT,
			Height: ImageSizePT,
		})
		e.cursor++

	case markup.KindParagraph, markup.KindLineBreak:
		e.children(n, style.With(n.Kind))
		e.cmds = append(e.cmds, InsertText{Index: e.cursor, Text: "\n"})
		e.cursor++

	case markup.KindBold, markup.KindItalic, markup.KindUnderline, markup.KindContainer:
		e.children(n, style.With(n.Kind))

	default:
		e.children(n, style)
	}
}

func (e *emitter) children(n *markup.Node, style StyleState) {
	for _, c := range n.Children {
		if c != nil {
			e.visit(c, style)
		}
	}
}

func (e *emitter) text(s string, style StyleState) {
	if strings.TrimSpace(s) == "" {
		return
	}
	start := e.cursor
	end := start + TextLen(s)
	e.cmds = append(e.cmds, InsertText{Index: start, Text: s})
	if style.Any() {
		e.cmds = append(e.cmds, ApplyStyle{Start: start, End: end, Style: style})
	}
	e.cursor = end
}

// TextLen returns the length of s in UTF-16 code units, the unit Docs API
// indices are measured in.
func TextLen(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
