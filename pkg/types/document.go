// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines data structures shared by the drivenote packages.
package types

import "time"

// Document is a locally-authored rich-text record. Content holds HTML markup
// produced by the editor.
type Document struct {
	// ID is a ULID assigned on creation.
	ID string `json:"_id" yaml:"id"`

	// UserID owns the record.
	UserID string `json:"userId" yaml:"user_id"`

	Title   string `json:"title" yaml:"title"`
	Content string `json:"content" yaml:"content"`
	IsDraft bool   `json:"isDraft" yaml:"is_draft"`

	// RemoteID is the Drive file id of the synced copy. Empty until the
	// first successful upload.
	RemoteID string `json:"googleDriveId,omitempty" yaml:"remote_id,omitempty"`

	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated_at"`
}

// HasRemote reports whether the document has been uploaded before.
func (d Document) HasRemote() bool {
	return d.RemoteID != ""
}

// RemoteRef identifies a remote document and the end index of its body as
// last observed.
type RemoteRef struct {
	ID       string `json:"id" yaml:"id"`
	EndIndex int    `json:"end_index" yaml:"end_index"`
}
