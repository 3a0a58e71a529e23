// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sourcestore keeps annotated source documents after
// extraction so the passages behind stored statements can be recovered
// for citations.
// Implements: prd005-source-store (R1-R3); docs/ARCHITECTURE § Source Store.
package sourcestore

import (
	"context"
	"errors"

	"github.com/pdiddy/medgraph/pkg/types"
)

// ErrNotFound reports an unknown source document.
var ErrNotFound = errors.New("source document not found")

// Store is the document store contract.
type Store interface {
	// Put saves doc under sourceID, replacing any previous version.
	Put(ctx context.Context, sourceID string, doc *types.Document) error

	// Get returns the document stored under sourceID. Unknown
	// identifiers return ErrNotFound.
	Get(ctx context.Context, sourceID string) (*types.Document, error)

	// Close releases backend resources.
	Close() error
}
