// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStreamEndIndex(t *testing.T) {
	assert.Equal(t, 2, NewStream("").EndIndex())
	assert.Equal(t, 5, NewStream("abc").EndIndex())
}

func TestStreamClearKeepsTerminator(t *testing.T) {
	s := NewStream("some old content")

	del, ok := ClearRange(s.EndIndex())
	require.True(t, ok)
	require.NoError(t, s.Apply([]Command{del}))

	assert.Equal(t, "", s.Text())
	assert.Equal(t, 2, s.EndIndex())
}

func TestStreamRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
	}{
		{"insert past terminator", InsertText{Index: 5, Text: "x"}},
		{"insert at zero", InsertText{Index: 0, Text: "x"}},
		{"image past terminator", InsertImage{Index: 9, URI: "u"}},
		{"delete over terminator", DeleteRange{Start: 1, End: 5}},
		{"empty delete", DeleteRange{Start: 2, End: 2}},
		{"style past end", ApplyStyle{Start: 1, End: 9, Style: StyleState{Bold: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStream("abc")
			assert.Error(t, s.Apply([]Command{tt.cmd}))
		})
	}
}

func TestStreamDeleteMiddle(t *testing.T) {
	s := NewStream("abcdef")
	require.NoError(t, s.Apply([]Command{DeleteRange{Start: 2, End: 4}}))
	assert.Equal(t, "adef", s.Text())
}

func TestReplay(t *testing.T) {
	text, err := Replay([]Command{
		InsertText{Index: 1, Text: "world"},
		InsertText{Index: 1, Text: "hello "},
		InsertImage{Index: 12, URI: "u"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hello world\uFFFC", text)
}
