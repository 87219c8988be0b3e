// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package remote

import (
	"fmt"

	"github.com/pdiddy/drivenote/internal/convert"
)

// Request is one entry of a documents.batchUpdate call. Exactly one field is set.
type Request struct {
	InsertText         *InsertTextRequest         `json:"insertText,omitempty" yaml:"insertText,omitempty"`
	UpdateTextStyle    *UpdateTextStyleRequest    `json:"updateTextStyle,omitempty" yaml:"updateTextStyle,omitempty"`
	InsertInlineImage  *InsertInlineImageRequest  `json:"insertInlineImage,omitempty" yaml:"insertInlineImage,omitempty"`
	DeleteContentRange *DeleteContentRangeRequest `json:"deleteContentRange,omitempty" yaml:"deleteContentRange,omitempty"`
}

type Location struct {
	Index int `json:"index" yaml:"index"`
}

type Range struct {
	SegmentID  *string `json:"segmentId,omitempty" yaml:"segmentId,omitempty"`
	StartIndex int     `json:"startIndex" yaml:"startIndex"`
	EndIndex   int     `json:"endIndex" yaml:"endIndex"`
}

type InsertTextRequest struct {
	Location Location `json:"location" yaml:"location"`
	Text     string   `json:"text" yaml:"text"`
}

// TextStyle lists only the flags being set; the field mask says which ones.
type TextStyle struct {
	Bold      bool `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic    bool `json:"italic,omitempty" yaml:"italic,omitempty"`
	Underline bool `json:"underline,omitempty" yaml:"underline,omitempty"`
}

type UpdateTextStyleRequest struct {
	Range     Range     `json:"range" yaml:"range"`
	TextStyle TextStyle `json:"textStyle" yaml:"textStyle"`
	Fields    string    `json:"fields" yaml:"fields"`
}

type Dimension struct {
	Magnitude float64 `json:"magnitude" yaml:"magnitude"`
	Unit      string  `json:"unit" yaml:"unit"`
}

type Size struct {
	Height Dimension `json:"height" yaml:"height"`
	Width  Dimension `json:"width" yaml:"width"`
}

type InsertInlineImageRequest struct {
	Location   Location `json:"location" yaml:"location"`
	URI        string   `json:"uri" yaml:"uri"`
	ObjectSize Size     `json:"objectSize" yaml:"objectSize"`
}

type DeleteContentRangeRequest struct {
	Range Range `json:"range" yaml:"range"`
}

// EncodeRequests translates commands into batchUpdate requests, preserving order.
func EncodeRequests(cmds []convert.Command) ([]Request, error) {
	out := make([]Request, 0, len(cmds))
	for _, c := range cmds {
		r, err := encode(c)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func encode(c convert.Command) (Request, error) {
	switch c := c.(type) {
	case convert.InsertText:
		return Request{InsertText: &InsertTextRequest{
			Location: Location{Index: c.Index},
			Text:     c.Text,
		}}, nil
	case convert.ApplyStyle:
		return Request{UpdateTextStyle: &UpdateTextStyleRequest{
			Range: Range{StartIndex: c.Start, EndIndex: c.End},
			TextStyle: TextStyle{
				Bold:      c.Style.Bold,
				Italic:    c.Style.Italic,
				Underline: c.Style.Underline,
			},
			Fields: c.Style.FieldMask(),
		}}, nil
	case convert.InsertImage:
		return Request{InsertInlineImage: &InsertInlineImageRequest{
			Location: Location{Index: c.Index},
			URI:      c.URI,
			ObjectSize: Size{
				Height: Dimension{Magnitude: float64(c.Height), Unit: "PT"},
				Width:  Dimension{Magnitude: float64(c.Width), Unit: "PT"},
			},
		}}, nil
	case convert.DeleteRange:
		// The empty segment id addresses the document body.
		segment := ""
		return Request{DeleteContentRange: &DeleteContentRangeRequest{
			Range: Range{SegmentID: &segment, StartIndex: c.Start, EndIndex: c.End},
		}}, nil
	default:
		return Request{}, fmt.Errorf("unsupported command %T", c)
	}
}
