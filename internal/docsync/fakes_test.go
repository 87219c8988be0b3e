// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docsync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pdiddy/drivenote/internal/convert"
	"github.com/pdiddy/drivenote/internal/store"
	"github.com/pdiddy/drivenote/pkg/types"
)

// fakeRemote models Drive files as convert.Streams and records every call.
type fakeRemote struct {
	mu      sync.Mutex
	docs    map[string]*convert.Stream
	names   map[string]string
	parents map[string]string
	batches map[string][][]convert.Command
	calls   []string
	fail    map[string]error
	nextID  int

	// delay holds each BatchUpdate open so overlapping uploads can be detected.
	delay   time.Duration
	active  map[string]int
	overlap bool
	// hang makes every call wait for its context.
	hang bool
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		docs:    map[string]*convert.Stream{},
		names:   map[string]string{},
		parents: map[string]string{},
		batches: map[string][][]convert.Command{},
		fail:    map[string]error{},
		active:  map[string]int{},
	}
}

// seed adds an existing remote document holding text.
func (f *fakeRemote) seed(id, text string) {
	f.docs[id] = convert.NewStream(text)
	f.names[id] = "seeded"
}

func (f *fakeRemote) record(ctx context.Context, op string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	err := f.fail[op]
	hang := f.hang
	f.mu.Unlock()
	if hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (f *fakeRemote) CreateDocument(ctx context.Context, name, folderID, cred string) (string, error) {
	if err := f.record(ctx, "create"); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("remote-%d", f.nextID)
	f.docs[id] = convert.NewStream("")
	f.names[id] = name
	f.parents[id] = folderID
	return id, nil
}

func (f *fakeRemote) Rename(ctx context.Context, fileID, name, cred string) error {
	if err := f.record(ctx, "rename"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[fileID]; !ok {
		return fmt.Errorf("file %s not found", fileID)
	}
	f.names[fileID] = name
	return nil
}

func (f *fakeRemote) EndIndex(ctx context.Context, docID, cred string) (int, error) {
	if err := f.record(ctx, "endIndex"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[docID]
	if !ok {
		return 0, fmt.Errorf("document %s not found", docID)
	}
	return d.EndIndex(), nil
}

func (f *fakeRemote) BatchUpdate(ctx context.Context, docID string, cmds []convert.Command, cred string) error {
	op := "insert"
	if len(cmds) == 1 {
		if _, ok := cmds[0].(convert.DeleteRange); ok {
			op = "clear"
		}
	}
	if err := f.record(ctx, op); err != nil {
		return err
	}

	f.mu.Lock()
	f.active[docID]++
	if f.active[docID] > 1 {
		f.overlap = true
	}
	f.mu.Unlock()

	time.Sleep(f.delay)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.active[docID]--
	d, ok := f.docs[docID]
	if !ok {
		return fmt.Errorf("document %s not found", docID)
	}
	f.batches[docID] = append(f.batches[docID], cmds)
	return d.Apply(cmds)
}

func (f *fakeRemote) DeleteFile(ctx context.Context, fileID, cred string) error {
	if err := f.record(ctx, "delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, fileID)
	return nil
}

func (f *fakeRemote) text(id string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[id].Text()
}

// fakeFolders hands out a single folder id.
type fakeFolders struct {
	calls int
	err   error
}

func (f *fakeFolders) GetOrCreate(_ context.Context, name, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "folder-" + name, nil
}

// fakeStore is an in-memory DocumentStore.
type fakeStore struct {
	mu           sync.Mutex
	docs         map[string]types.Document
	setRemoteErr error
	touched      int
}

func newFakeStore(docs ...types.Document) *fakeStore {
	s := &fakeStore{docs: map[string]types.Document{}}
	for _, d := range docs {
		s.docs[d.ID] = d
	}
	return s
}

func (s *fakeStore) Get(_ context.Context, id string) (types.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.docs[id]
	if !ok {
		return types.Document{}, store.ErrNotFound
	}
	return d, nil
}

func (s *fakeStore) GetForUser(ctx context.Context, id, userID string) (types.Document, error) {
	d, err := s.Get(ctx, id)
	if err != nil || d.UserID != userID {
		return types.Document{}, store.ErrNotFound
	}
	return d, nil
}

func (s *fakeStore) SetRemoteID(_ context.Context, id, remoteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setRemoteErr != nil {
		return s.setRemoteErr
	}
	d := s.docs[id]
	d.RemoteID = remoteID
	s.docs[id] = d
	return nil
}

func (s *fakeStore) Touch(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched++
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.docs[id]; !ok || d.UserID != userID {
		return store.ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

func (s *fakeStore) setContent(id, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.docs[id]
	d.Content = content
	s.docs[id] = d
}
