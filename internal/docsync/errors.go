// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docsync

import (
	"errors"
	"fmt"
)

// Kind classifies upload failures.
type Kind int

const (
	// KindAuthentication means no usable access token was supplied. No remote
	// call was made.
	KindAuthentication Kind = iota + 1
	// KindNotFound means the local document does not exist. No remote call
	// was made.
	KindNotFound
	// KindRemoteAPI means a Drive or Docs call failed. Phases that completed
	// before it are not rolled back.
	KindRemoteAPI
	// KindStore means the local document store failed.
	KindStore
	// KindConversion means the document content could not be parsed.
	KindConversion
	// KindCanceled means the context ended while waiting for another upload
	// of the same document. No remote call was made.
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not found"
	case KindRemoteAPI:
		return "remote api"
	case KindStore:
		return "store"
	case KindConversion:
		return "conversion"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error is returned by Orchestrator methods. Phase is the phase that was
// running when the failure happened; RemoteID is set once a remote document
// is known, including one created by a failed upload.
type Error struct {
	Kind     Kind
	Phase    Phase
	DocID    string
	RemoteID string
	Msg      string
	Err      error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s error during %s", e.Kind, e.Phase)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
