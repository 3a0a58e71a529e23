// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Source types carried by DocSource records, identifying which
// retrieval path produced the record.
const (
	// SourceStructuredQuery marks a record built from one row of a
	// tabular structured-query result.
	SourceStructuredQuery = "structured-query"

	// SourceStructuredTriple marks a record built from one triple of a
	// graph-shaped structured-query result.
	SourceStructuredTriple = "structured-triple"

	// SourceLexicalFallback marks a record produced by the BM25
	// lexical fallback when the structured path yields nothing.
	SourceLexicalFallback = "lexical-fallback"
)

// DocSource is one piece of retrieved evidence. Records are created
// per retrieval call and never persisted.
type DocSource struct {
	// ID identifies the graph subject or result row the record came from.
	ID string `json:"id" yaml:"id"`

	// Title is the human-readable label of the record, when one is
	// bound; "(untitled)" otherwise.
	Title string `json:"title" yaml:"title"`

	// Content is the literal evidence text.
	Content string `json:"content" yaml:"content"`

	// SourceType tags the retrieval path: structured-query,
	// structured-triple, or lexical-fallback.
	SourceType string `json:"source_type" yaml:"source_type"`

	// Score is the relevance score assigned during retrieval. Nil when
	// the record has not been scored yet.
	Score *float64 `json:"score,omitempty" yaml:"score,omitempty"`
}

// RetrievalOutput is the full answer package returned for one question.
type RetrievalOutput struct {
	// Summary is a plain-text description of what the structured query
	// returned, or a refusal when nothing was found.
	Summary string `json:"summary" yaml:"summary"`

	// Sources lists the deduplicated evidence records, sorted by
	// descending score.
	Sources []*DocSource `json:"sources" yaml:"sources"`

	// GroundedAnswer is the cited answer assembled from Sources, or a
	// refusal string when the evidence is missing or low-confidence.
	GroundedAnswer string `json:"grounded_answer" yaml:"grounded_answer"`
}
