// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sourcestore

import (
	"context"
	"fmt"
	"strings"
)

// Trace recovers the passage behind a stored statement: the sentences
// covering the token span [start, end] inside sourceID, widened by
// before/after sentences and clamped to the document.
func Trace(ctx context.Context, s Store, sourceID string, start, end, before, after int) (string, error) {
	doc, err := s.Get(ctx, sourceID)
	if err != nil {
		return "", err
	}
	if len(doc.Sentences) == 0 {
		return "", fmt.Errorf("document %s has no sentences", sourceID)
	}

	first := doc.SentenceIndexOf(start)
	last := doc.SentenceIndexOf(end)
	if first == -1 && last == -1 {
		return "", fmt.Errorf("token span [%d, %d] outside document %s", start, end, sourceID)
	}
	if first == -1 {
		first = 0
	}
	if last == -1 {
		last = len(doc.Sentences) - 1
	}

	first -= before
	last += after
	if first < 0 {
		first = 0
	}
	if last >= len(doc.Sentences) {
		last = len(doc.Sentences) - 1
	}

	parts := make([]string, 0, last-first+1)
	for i := first; i <= last; i++ {
		parts = append(parts, strings.TrimSpace(doc.Sentences[i].Text))
	}
	return strings.Join(parts, " "), nil
}
