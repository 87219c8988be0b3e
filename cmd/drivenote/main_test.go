// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/drivenote/internal/auth"
	"github.com/pdiddy/drivenote/internal/secrets"
	"github.com/pdiddy/drivenote/pkg/types"
)

const sampleHTML = `<p>Hello <b>World</b></p>`

func TestWriteConversion_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeConversion(&buf, sampleHTML, formatText, true))

	out := buf.String()
	assert.Contains(t, out, "4 commands, end index 13")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 6)
}

func TestWriteConversion_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeConversion(&buf, sampleHTML, formatJSON, true))

	var body struct {
		Requests []map[string]any `json:"requests"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &body))
	require.Len(t, body.Requests, 4)
	assert.Contains(t, body.Requests[0], "insertText")
	assert.Contains(t, body.Requests[2], "updateTextStyle")
}

func TestWriteConversion_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeConversion(&buf, sampleHTML, formatYAML, true))

	var body map[string][]map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &body))
	assert.Len(t, body["requests"], 4)
}

func TestWriteConversion_Preview(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeConversion(&buf, `<p>a</p><img src="x.png"><br>`, formatPreview, false))
	assert.Equal(t, "a\n\uFFFC\n", buf.String())
}

func TestWriteConversion_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeConversion(&buf, "", formatText, false))
	assert.Contains(t, buf.String(), "0 commands, end index 1")
}

func TestWriteDocTable(t *testing.T) {
	var buf bytes.Buffer
	writeDocTable(&buf, nil)
	assert.Equal(t, "No documents.\n", buf.String())

	buf.Reset()
	now := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	writeDocTable(&buf, []types.Document{
		{ID: "01A", Title: strings.Repeat("t", 40), IsDraft: true, UpdatedAt: now},
		{ID: "01B", Title: "short", RemoteID: "drive-1", UpdatedAt: now},
	})
	out := buf.String()
	assert.Contains(t, out, strings.Repeat("t", 27)+"...")
	assert.Contains(t, out, "drive-1")
	assert.Contains(t, out, "2 documents")
}

func TestJWTSecret(t *testing.T) {
	saved := loadedSecrets
	t.Cleanup(func() { loadedSecrets = saved })

	long := strings.Repeat("k", auth.MinSecretLen)

	loadedSecrets = secrets.Set{}
	_, err := jwtSecret("")
	assert.Error(t, err)

	_, err = jwtSecret("short")
	assert.ErrorIs(t, err, auth.ErrWeakSecret)

	got, err := jwtSecret(long)
	require.NoError(t, err)
	assert.Equal(t, []byte(long), got)

	loadedSecrets = secrets.Set{secrets.JWTSecret: long}
	got, err = jwtSecret("")
	require.NoError(t, err)
	assert.Equal(t, []byte(long), got)
}
