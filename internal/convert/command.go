// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "fmt"

// ImageSizePT is the width and height, in points, of every inserted image.
const ImageSizePT = 200

// Command is one index-addressed mutation in a batch. Indices assume every
// earlier command in the same batch has already been applied.
//
// The set of implementations is closed: InsertText, InsertImage,
// ApplyStyle and DeleteRange.
type Command interface {
	fmt.Stringer
	command()
}

// InsertText inserts Text before the character at Index.
type InsertText struct {
	Index int
	Text  string
}

// InsertImage inserts an inline image at Index. It occupies one index.
type InsertImage struct {
	Index  int
	URI    string
	Width  int
	Height int
}

// ApplyStyle sets the flags of Style on the range [Start, End).
type ApplyStyle struct {
	Start int
	End   int
	Style StyleState
}

// DeleteRange removes the range [Start, End) from the body.
type DeleteRange struct {
	Start int
	End   int
}

func (InsertText) command()  {}
func (InsertImage) command() {}
func (ApplyStyle) command()  {}
func (DeleteRange) command() {}

func (c InsertText) String() string {
	return fmt.Sprintf("InsertText(%d, %q)", c.Index, c.Text)
}

func (c InsertImage) String() string {
	return fmt.Sprintf("InsertImage(%d, %s, %dx%d)", c.Index, c.URI, c.Width, c.Height)
}

func (c ApplyStyle) String() string {
	return fmt.Sprintf("ApplyStyle(%d, %d, {%s})", c.Start, c.End, c.Style.FieldMask())
}

func (c DeleteRange) String() string {
	return fmt.Sprintf("DeleteRange(%d, %d)", c.Start, c.End)
}

// ClearRange returns the command that empties a body whose last content
// element ends at endIndex, keeping the trailing newline the body must
// always end with. ok is false when there is nothing to delete.
func ClearRange(endIndex int) (cmd DeleteRange, ok bool) {
	end := max(1, endIndex-1)
	return DeleteRange{Start: 1, End: end}, end > 1
}
