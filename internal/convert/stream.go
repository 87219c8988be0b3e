// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"unicode/utf16"
)

// ObjectReplacement stands in for an inline image in a Stream.
const ObjectReplacement = '\uFFFC'

// Stream is an in-memory model of a Docs body: an index-addressed sequence
// of UTF-16 units that always ends with a newline terminator. It applies
// command batches the way the remote API does and is used to preview and
// verify conversions.
type Stream struct {
	units  []uint16
	styles []StyleState
}

// NewStream returns a stream whose body holds text followed by the terminator.
func NewStream(text string) *Stream {
	s := &Stream{}
	s.insert(1, text)
	return s
}

// Replay applies cmds to an empty stream and returns its visible text.
func Replay(cmds []Command) (string, error) {
	s := NewStream("")
	if err := s.Apply(cmds); err != nil {
		return "", err
	}
	return s.Text(), nil
}

// EndIndex returns the end index of the body's last element, counting the
// terminator.
func (s *Stream) EndIndex() int {
	return len(s.units) + 2
}

// Text returns the body without its terminator.
func (s *Stream) Text() string {
	return string(utf16.Decode(s.units))
}

// StyleAt returns the style of the unit at index.
func (s *Stream) StyleAt(index int) StyleState {
	if index < 1 || index > len(s.styles) {
		return StyleState{}
	}
	return s.styles[index-1]
}

// Apply applies cmds in order. It stops at the first command whose indices
// fall outside the body and returns an error naming it.
func (s *Stream) Apply(cmds []Command) error {
	for i, c := range cmds {
		if err := s.apply(c); err != nil {
			return fmt.Errorf("command %d %s: %w", i, c, err)
		}
	}
	return nil
}

func (s *Stream) apply(c Command) error {
	switch c := c.(type) {
	case InsertText:
		if err := s.checkIndex(c.Index); err != nil {
			return err
		}
		s.insert(c.Index, c.Text)
	case InsertImage:
		if err := s.checkIndex(c.Index); err != nil {
			return err
		}
		s.insert(c.Index, string(ObjectReplacement))
	case ApplyStyle:
		if err := s.checkRange(c.Start, c.End); err != nil {
			return err
		}
		for i := c.Start - 1; i < c.End-1; i++ {
			s.styles[i] = s.styles[i].Merge(c.Style)
		}
	case DeleteRange:
		if err := s.checkRange(c.Start, c.End); err != nil {
			return err
		}
		if c.Start == c.End {
			return fmt.Errorf("empty range")
		}
		s.units = append(s.units[:c.Start-1], s.units[c.End-1:]...)
		s.styles = append(s.styles[:c.Start-1], s.styles[c.End-1:]...)
	default:
		return fmt.Errorf("unsupported command %T", c)
	}
	return nil
}

// checkIndex accepts any position up to and including the terminator.
func (s *Stream) checkIndex(index int) error {
	if index < 1 || index > len(s.units)+1 {
		return fmt.Errorf("index %d out of range [1, %d]", index, len(s.units)+1)
	}
	return nil
}

// checkRange rejects ranges that would touch the terminator.
func (s *Stream) checkRange(start, end int) error {
	if start < 1 || end < start || end > len(s.units)+1 {
		return fmt.Errorf("range [%d, %d) out of bounds [1, %d)", start, end, len(s.units)+1)
	}
	return nil
}

func (s *Stream) insert(index int, text string) {
	u := utf16.Encode([]rune(text))
	at := index - 1
	s.units = append(s.units[:at], append(u, s.units[at:]...)...)
	st := make([]StyleState, len(u))
	s.styles = append(s.styles[:at], append(st, s.styles[at:]...)...)
}
