// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials from a directory holding one file per
// key. The file name is the key; the trimmed contents are the value.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Known keys.
const (
	// JWTSecret signs and verifies API bearer tokens.
	JWTSecret = "jwt-secret"
	// GoogleAccessToken is the OAuth access token used by CLI uploads.
	GoogleAccessToken = "google-access-token"
)

// DefaultDir is where the CLI looks for secrets.
const DefaultDir = ".secrets"

// Set is a loaded secrets directory.
type Set map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty Set. Unreadable files are logged and skipped.
func Load(dir string) (Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	set := make(Set)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("skipping unreadable secret", "key", name, "error", err)
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			set[name] = v
		}
	}
	return set, nil
}

// Get returns the value for key, or fallback when the key is absent.
func (s Set) Get(key, fallback string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return fallback
}

// Require returns the value for key or an error naming the file to create.
func (s Set) Require(dir, key string) (string, error) {
	if v, ok := s[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("secret %q not set: write it to %s", key, filepath.Join(dir, key))
}
