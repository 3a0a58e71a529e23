// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"github.com/pdiddy/medgraph/internal/graph"
	"github.com/pdiddy/medgraph/pkg/types"
)

// Placeholders for result rows missing an identifier or label column.
const (
	unknownID     = "unknown"
	untitledLabel = "(untitled)"
)

// sourcesFromResult converts a query result into evidence records: one
// per row for tabular results, one per triple for graph-shaped results.
// Row records read the identifier from uri or id, the title from label
// or title, and the content from abstract, description, or content,
// falling back to placeholders when nothing is bound. Triple records
// map subject, predicate, and object onto id, title, and content.
func sourcesFromResult(res *graph.Result) []*types.DocSource {
	if res == nil {
		return nil
	}

	if len(res.Triples) > 0 {
		out := make([]*types.DocSource, len(res.Triples))
		for i, t := range res.Triples {
			out[i] = &types.DocSource{
				ID:         t.Subject,
				Title:      t.Predicate,
				Content:    t.Object,
				SourceType: types.SourceStructuredTriple,
			}
		}
		return out
	}

	var out []*types.DocSource
	for _, row := range res.Rows {
		id := firstOf(row, "uri", "id")
		if id == "" {
			id = unknownID
		}
		title := firstOf(row, "label", "title")
		if title == "" {
			title = untitledLabel
		}
		out = append(out, &types.DocSource{
			ID:         id,
			Title:      title,
			Content:    firstOf(row, "abstract", "description", "content"),
			SourceType: types.SourceStructuredQuery,
		})
	}
	return out
}

// firstOf returns the first non-empty value bound to any of the keys.
func firstOf(row graph.Row, keys ...string) string {
	for _, k := range keys {
		if v := row[k]; v != "" {
			return v
		}
	}
	return ""
}
