// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docsync

import (
	"context"
	"log/slog"
)

// Phase is a step of an upload.
//
// First upload:   Creating -> Persisting -> Inserting -> Done
// Later uploads:  UpdatingMetadata -> ReadingLength -> Clearing -> Inserting -> Persisting -> Done
//
// Any step can move to Failed, which is terminal.
type Phase int

const (
	PhaseIdle Phase = iota
	// PhaseCreating resolves the destination folder and creates the remote
	// document. Side effect: a new Drive file (and maybe folder).
	PhaseCreating
	// PhaseUpdatingMetadata renames the remote file to the local title.
	PhaseUpdatingMetadata
	// PhaseReadingLength reads the end index of the remote body. No side effect.
	PhaseReadingLength
	// PhaseClearing deletes the remote body except its final newline.
	PhaseClearing
	// PhaseInserting applies the converted commands.
	PhaseInserting
	// PhasePersisting writes the remote id or the sync time to the local store.
	PhasePersisting
	PhaseDone
	PhaseFailed
)

var phaseNames = [...]string{
	PhaseIdle:             "idle",
	PhaseCreating:         "creating",
	PhaseUpdatingMetadata: "updating-metadata",
	PhaseReadingLength:    "reading-length",
	PhaseClearing:         "clearing",
	PhaseInserting:        "inserting",
	PhasePersisting:       "persisting",
	PhaseDone:             "done",
	PhaseFailed:           "failed",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// machine tracks the phases one upload passes through.
type machine struct {
	ctx   context.Context
	log   *slog.Logger
	docID string
	phase Phase
	trail []Phase
}

func newMachine(ctx context.Context, log *slog.Logger, docID string) *machine {
	return &machine{ctx: ctx, log: log, docID: docID}
}

func (m *machine) enter(p Phase) {
	m.log.DebugContext(m.ctx, "upload phase", "doc_id", m.docID, "from", m.phase, "to", p)
	m.phase = p
	m.trail = append(m.trail, p)
}

// fail moves to PhaseFailed and returns the error describing why. The
// error keeps the phase that was running.
func (m *machine) fail(kind Kind, remoteID, msg string, err error) *Error {
	e := &Error{
		Kind:     kind,
		Phase:    m.phase,
		DocID:    m.docID,
		RemoteID: remoteID,
		Msg:      msg,
		Err:      err,
	}
	m.log.ErrorContext(m.ctx, "upload failed",
		"doc_id", m.docID, "remote_id", remoteID, "phase", m.phase, "kind", kind, "error", err)
	m.phase = PhaseFailed
	m.trail = append(m.trail, PhaseFailed)
	return e
}
