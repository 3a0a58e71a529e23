// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sourcestore

import (
	"context"
	"fmt"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pdiddy/medgraph/pkg/types"
)

// Memory is the in-memory Store. Documents never expire; the store
// lives as long as the process.
type Memory struct {
	cache *gocache.Cache
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{cache: gocache.New(gocache.NoExpiration, 0)}
}

func cacheKey(sourceID string) string { return "source:" + sourceID }

// Put saves doc under sourceID, replacing any previous version.
func (m *Memory) Put(ctx context.Context, sourceID string, doc *types.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.cache.Set(cacheKey(sourceID), doc, gocache.NoExpiration)
	return nil
}

// Get returns the document stored under sourceID.
func (m *Memory) Get(ctx context.Context, sourceID string) (*types.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	val, found := m.cache.Get(cacheKey(sourceID))
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, sourceID)
	}
	return val.(*types.Document), nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error { return nil }
