// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package folder resolves the Drive folder that uploaded documents live in.
package folder

import (
	"context"
	"fmt"
)

// DefaultName is the folder new documents are created in.
const DefaultName = "DriveNote"

// Store is the part of the Drive API the resolver needs.
type Store interface {
	FindFolder(ctx context.Context, name, cred string) (id string, ok bool, err error)
	CreateFolder(ctx context.Context, name, cred string) (string, error)
}

// Resolver finds or creates folders by name.
//
// Two concurrent GetOrCreate calls for a name that does not exist yet may
// both create it, leaving two folders with the same name. Later lookups
// return whichever Drive lists first. Callers that need a single folder
// must serialize calls per name.
type Resolver struct {
	store Store
}

// NewResolver returns a Resolver backed by store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// GetOrCreate returns the id of the non-trashed folder called name,
// creating it when none exists.
func (r *Resolver) GetOrCreate(ctx context.Context, name, cred string) (string, error) {
	if name == "" {
		name = DefaultName
	}

	id, ok, err := r.store.FindFolder(ctx, name, cred)
	if err != nil {
		return "", fmt.Errorf("finding folder %q: %w", name, err)
	}
	if ok {
		return id, nil
	}

	id, err = r.store.CreateFolder(ctx, name, cred)
	if err != nil {
		return "", fmt.Errorf("creating folder %q: %w", name, err)
	}
	return id, nil
}
