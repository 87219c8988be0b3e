// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"strings"

	"github.com/pdiddy/drivenote/internal/markup"
)

// StyleState is the set of inline formatting flags in effect at a node.
// It is a value type; every level of the walk gets its own copy.
type StyleState struct {
	Bold      bool `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic    bool `json:"italic,omitempty" yaml:"italic,omitempty"`
	Underline bool `json:"underline,omitempty" yaml:"underline,omitempty"`
}

// With returns the state a child of a node of the given kind sees.
// Formatting only accumulates down a branch.
func (s StyleState) With(kind markup.Kind) StyleState {
	switch kind {
	case markup.KindBold:
		s.Bold = true
	case markup.KindItalic:
		s.Italic = true
	case markup.KindUnderline:
		s.Underline = true
	}
	return s
}

// Any reports whether at least one flag is set.
func (s StyleState) Any() bool {
	return s.Bold || s.Italic || s.Underline
}

// Fields returns the names of the set flags in the order bold, italic,
// underline.
func (s StyleState) Fields() []string {
	var f []string
	if s.Bold {
		f = append(f, "bold")
	}
	if s.Italic {
		f = append(f, "italic")
	}
	if s.Underline {
		f = append(f, "underline")
	}
	return f
}

// FieldMask is Fields joined with commas, the form the Docs API expects.
func (s StyleState) FieldMask() string {
	return strings.Join(s.Fields(), ",")
}

// Merge returns the union of s and o.
func (s StyleState) Merge(o StyleState) StyleState {
	return StyleState{
		Bold:      s.Bold || o.Bold,
		Italic:    s.Italic || o.Italic,
		Underline: s.Underline || o.Underline,
	}
}
