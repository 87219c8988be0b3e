// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docsync uploads local documents to Google Docs.
//
// The Docs API has no "replace body" call, so a document that was uploaded
// before is cleared with one batch and refilled with a second. The second
// batch is only sent after the first succeeded: its indices assume an
// empty body. Uploads touching the same document are serialized in-process.
package docsync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pdiddy/drivenote/internal/convert"
	"github.com/pdiddy/drivenote/internal/markup"
	"github.com/pdiddy/drivenote/internal/remote"
	"github.com/pdiddy/drivenote/internal/store"
	"github.com/pdiddy/drivenote/pkg/types"
)

const (
	defaultTitle       = "MyDocument"
	defaultCallTimeout = 30 * time.Second
)

// Remote is the set of Drive and Docs calls an upload makes.
type Remote interface {
	CreateDocument(ctx context.Context, name, folderID, cred string) (string, error)
	Rename(ctx context.Context, fileID, name, cred string) error
	EndIndex(ctx context.Context, docID, cred string) (int, error)
	BatchUpdate(ctx context.Context, docID string, cmds []convert.Command, cred string) error
	DeleteFile(ctx context.Context, fileID, cred string) error
}

// FolderResolver finds or creates the destination folder.
type FolderResolver interface {
	GetOrCreate(ctx context.Context, name, cred string) (string, error)
}

// DocumentStore reads and updates local document records.
type DocumentStore interface {
	Get(ctx context.Context, id string) (types.Document, error)
	GetForUser(ctx context.Context, id, userID string) (types.Document, error)
	SetRemoteID(ctx context.Context, id, remoteID string) error
	Touch(ctx context.Context, id string) error
	Delete(ctx context.Context, id, userID string) error
}

// Parser turns stored content into a markup tree.
type Parser interface {
	Parse(src string) (*markup.Node, error)
}

// Options configures an Orchestrator. Zero values select defaults.
type Options struct {
	// FolderName is the Drive folder new documents go into.
	FolderName string
	// DefaultTitle names remote documents whose local title is empty.
	DefaultTitle string
	// CallTimeout bounds each remote call.
	CallTimeout time.Duration
	Logger      *slog.Logger
}

// Orchestrator runs uploads and deletes against Drive and Docs.
type Orchestrator struct {
	remote  Remote
	folders FolderResolver
	store   DocumentStore
	parser  Parser
	opts    Options
	log     *slog.Logger
	locks   *keyedMutex
}

// New returns an Orchestrator.
func New(r Remote, folders FolderResolver, st DocumentStore, p Parser, opts Options) *Orchestrator {
	if opts.DefaultTitle == "" {
		opts.DefaultTitle = defaultTitle
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = defaultCallTimeout
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		remote:  r,
		folders: folders,
		store:   st,
		parser:  p,
		opts:    opts,
		log:     log,
		locks:   newKeyedMutex(),
	}
}

// Result describes a successful upload.
type Result struct {
	DocID    string
	RemoteID string
	// Created is true when this upload created the remote document.
	Created bool
	// Commands is the number of commands in the insert batch.
	Commands int
	// Phases lists the phases the upload went through, in order.
	Phases []Phase
}

// Upload syncs the local document docID to its remote copy using the
// caller's access token, creating the copy on first upload.
//
// Retrying after a failure is safe once the document has a remote id: the
// clear-then-insert sequence converges on the same content. The first
// upload records the new remote id before inserting content, so a failed
// insert is retried through the same path. If recording the id itself
// fails, the returned *Error carries the orphaned RemoteID.
func (o *Orchestrator) Upload(ctx context.Context, docID, cred string) (Result, error) {
	m := newMachine(ctx, o.log, docID)

	if cred == "" {
		return Result{}, m.fail(KindAuthentication, "", "access token is required", remote.ErrNoCredential)
	}

	unlock, err := o.locks.Lock(ctx, "doc:"+docID)
	if err != nil {
		return Result{}, m.fail(KindCanceled, "", "waiting for concurrent upload", err)
	}
	defer unlock()

	doc, err := o.store.Get(ctx, docID)
	if errors.Is(err, store.ErrNotFound) {
		return Result{}, m.fail(KindNotFound, "", "document "+docID, err)
	}
	if err != nil {
		return Result{}, m.fail(KindStore, "", "loading document", err)
	}

	root, err := o.parser.Parse(doc.Content)
	if err != nil {
		return Result{}, m.fail(KindConversion, doc.RemoteID, "", err)
	}
	cmds := convert.Emit(root)

	title := doc.Title
	if title == "" {
		title = o.opts.DefaultTitle
	}

	var res Result
	if doc.HasRemote() {
		unlockRemote, err := o.locks.Lock(ctx, "remote:"+doc.RemoteID)
		if err != nil {
			return Result{}, m.fail(KindCanceled, doc.RemoteID, "waiting for concurrent upload", err)
		}
		defer unlockRemote()
		res, err = o.replace(ctx, m, doc, title, cmds, cred)
		if err != nil {
			return Result{}, err
		}
	} else {
		res, err = o.create(ctx, m, doc, title, cmds, cred)
		if err != nil {
			return Result{}, err
		}
	}

	m.enter(PhaseDone)
	res.DocID = docID
	res.Commands = len(cmds)
	res.Phases = m.trail
	o.log.InfoContext(ctx, "document uploaded",
		"doc_id", docID, "remote_id", res.RemoteID, "created", res.Created, "commands", res.Commands)
	return res, nil
}

func (o *Orchestrator) create(ctx context.Context, m *machine, doc types.Document, title string, cmds []convert.Command, cred string) (Result, error) {
	m.enter(PhaseCreating)
	var folderID string
	err := o.call(ctx, func(ctx context.Context) (err error) {
		folderID, err = o.folders.GetOrCreate(ctx, o.opts.FolderName, cred)
		return err
	})
	if err != nil {
		return Result{}, m.fail(KindRemoteAPI, "", "resolving folder", err)
	}

	var remoteID string
	err = o.call(ctx, func(ctx context.Context) (err error) {
		remoteID, err = o.remote.CreateDocument(ctx, title, folderID, cred)
		return err
	})
	if err != nil {
		return Result{}, m.fail(KindRemoteAPI, "", "creating document", err)
	}

	m.enter(PhasePersisting)
	if err := o.store.SetRemoteID(ctx, doc.ID, remoteID); err != nil {
		return Result{}, m.fail(KindStore, remoteID, "remote document created but its id was not saved", err)
	}

	if err := o.insert(ctx, m, remoteID, cmds, cred); err != nil {
		return Result{}, err
	}
	return Result{RemoteID: remoteID, Created: true}, nil
}

func (o *Orchestrator) replace(ctx context.Context, m *machine, doc types.Document, title string, cmds []convert.Command, cred string) (Result, error) {
	id := doc.RemoteID

	m.enter(PhaseUpdatingMetadata)
	if err := o.call(ctx, func(ctx context.Context) error {
		return o.remote.Rename(ctx, id, title, cred)
	}); err != nil {
		return Result{}, m.fail(KindRemoteAPI, id, "updating metadata", err)
	}

	m.enter(PhaseReadingLength)
	var end int
	if err := o.call(ctx, func(ctx context.Context) (err error) {
		end, err = o.remote.EndIndex(ctx, id, cred)
		return err
	}); err != nil {
		return Result{}, m.fail(KindRemoteAPI, id, "reading content length", err)
	}

	m.enter(PhaseClearing)
	if del, ok := convert.ClearRange(end); ok {
		if err := o.call(ctx, func(ctx context.Context) error {
			return o.remote.BatchUpdate(ctx, id, []convert.Command{del}, cred)
		}); err != nil {
			return Result{}, m.fail(KindRemoteAPI, id, "clearing content", err)
		}
	}

	if err := o.insert(ctx, m, id, cmds, cred); err != nil {
		return Result{}, err
	}

	m.enter(PhasePersisting)
	if err := o.store.Touch(ctx, doc.ID); err != nil {
		// The remote side is complete; only the local timestamp is stale.
		o.log.WarnContext(ctx, "recording sync time failed", "doc_id", doc.ID, "remote_id", id, "error", err)
	}
	return Result{RemoteID: id}, nil
}

func (o *Orchestrator) insert(ctx context.Context, m *machine, id string, cmds []convert.Command, cred string) error {
	m.enter(PhaseInserting)
	if len(cmds) == 0 {
		return nil
	}
	if err := o.call(ctx, func(ctx context.Context) error {
		return o.remote.BatchUpdate(ctx, id, cmds, cred)
	}); err != nil {
		return m.fail(KindRemoteAPI, id, "inserting content", err)
	}
	return nil
}

// call runs fn under the per-call timeout.
func (o *Orchestrator) call(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, o.opts.CallTimeout)
	defer cancel()
	return fn(ctx)
}

// Delete removes the document owned by userID. When it has a remote copy
// and cred is set, the remote file is deleted first; a failure there is
// logged and does not stop the local delete.
func (o *Orchestrator) Delete(ctx context.Context, docID, userID, cred string) error {
	unlock, err := o.locks.Lock(ctx, "doc:"+docID)
	if err != nil {
		return &Error{Kind: KindCanceled, DocID: docID, Msg: "waiting for concurrent upload", Err: err}
	}
	defer unlock()

	doc, err := o.store.GetForUser(ctx, docID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return &Error{Kind: KindNotFound, DocID: docID, Msg: "document " + docID, Err: err}
	}
	if err != nil {
		return &Error{Kind: KindStore, DocID: docID, Msg: "loading document", Err: err}
	}

	if doc.HasRemote() && cred != "" {
		err := o.call(ctx, func(ctx context.Context) error {
			return o.remote.DeleteFile(ctx, doc.RemoteID, cred)
		})
		if err != nil {
			o.log.WarnContext(ctx, "deleting remote document failed",
				"doc_id", docID, "remote_id", doc.RemoteID, "error", err)
		}
	}

	if err := o.store.Delete(ctx, docID, userID); err != nil {
		return &Error{Kind: KindStore, DocID: docID, Msg: "deleting document", Err: err}
	}
	return nil
}
