// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package embed provides the optional embedding capability retrieval
// uses to blend semantic similarity into source scores.
// Implements: prd004-retrieval (R4); docs/ARCHITECTURE § Retrieval.
package embed

import (
	"context"
	"math"
)

// Embedder turns one text into a vector. Implementations call an
// external model; callers bound each call with the context.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Cosine returns the cosine similarity of two vectors. Mismatched
// lengths or zero magnitude yield 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
