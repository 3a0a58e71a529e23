// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieval answers natural-language questions against the
// knowledge graph. It compiles each annotated question into a
// structured query, executes it, converts the result into scored
// evidence records, falls back to BM25 lexical search when the
// structured path finds nothing, and assembles a grounded answer that
// cites every source it used. Missing evidence produces a refusal,
// never an invented answer.
//
// Implements: prd004-retrieval (R1-R6);
//
//	docs/ARCHITECTURE § Retrieval.
package retrieval

import (
	"context"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/pdiddy/medgraph/internal/embed"
	"github.com/pdiddy/medgraph/internal/graph"
	"github.com/pdiddy/medgraph/internal/query"
	"github.com/pdiddy/medgraph/pkg/types"
)

// defaultFallbackLimit caps the lexical fallback when the configuration
// leaves FallbackLimit unset.
const defaultFallbackLimit = 10

// Engine answers questions against a graph store. The embedder is
// optional: when nil, scoring is lexical overlap alone.
type Engine struct {
	store    graph.Store
	embedder embed.Embedder
	cfg      types.RetrievalConfig
	logger   *log.Logger
}

// NewEngine builds a retrieval engine. embedder may be nil to disable
// semantic scoring; logger may be nil to discard diagnostics.
func NewEngine(store graph.Store, embedder embed.Embedder, cfg types.RetrievalConfig, logger *log.Logger) *Engine {
	if cfg.FallbackLimit <= 0 {
		cfg.FallbackLimit = defaultFallbackLimit
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{store: store, embedder: embedder, cfg: cfg, logger: logger}
}

// Answer runs the full retrieval pipeline for one annotated question.
// Degraded paths do not fail the call: a query execution error logs a
// warning and continues with an empty result, and missing evidence
// surfaces as refusal text in the output itself.
func (e *Engine) Answer(ctx context.Context, doc *types.Document) *types.RetrievalOutput {
	question := strings.TrimSpace(doc.Text)
	q := query.Compile(doc)

	res, err := e.store.Select(ctx, q)
	if err != nil {
		e.logger.Warn("structured query failed", "query", truncate(q.String(), 120), "err", err)
		res = nil
	}

	summary := summarize(res)
	sources := sourcesFromResult(res)
	e.score(ctx, question, sources)

	if len(sources) == 0 {
		sources = e.lexicalFallback(ctx, question)
	}

	sources = dedupe(sources)
	sortSources(sources)

	if len(sources) == 0 {
		summary = refusalNoEvidence
	}

	return &types.RetrievalOutput{
		Summary:        summary,
		Sources:        sources,
		GroundedAnswer: e.groundedAnswer(question, sources),
	}
}

// dedupe collapses records sharing all identity fields, keeping the
// higher-scored one. Running it on its own output changes nothing.
func dedupe(sources []*types.DocSource) []*types.DocSource {
	type key struct {
		id, title, content, sourceType string
	}
	index := make(map[key]int, len(sources))
	out := make([]*types.DocSource, 0, len(sources))
	for _, s := range sources {
		k := key{s.ID, s.Title, s.Content, s.SourceType}
		if i, ok := index[k]; ok {
			if scoreOf(s) > scoreOf(out[i]) {
				out[i] = s
			}
			continue
		}
		index[k] = len(out)
		out = append(out, s)
	}
	return out
}

// sortSources orders records by descending score, breaking ties by
// source type and then id so equal-scored runs are deterministic.
func sortSources(sources []*types.DocSource) {
	sort.SliceStable(sources, func(i, j int) bool {
		si, sj := scoreOf(sources[i]), scoreOf(sources[j])
		if si != sj {
			return si > sj
		}
		if sources[i].SourceType != sources[j].SourceType {
			return sources[i].SourceType < sources[j].SourceType
		}
		return sources[i].ID < sources[j].ID
	})
}

// scoreOf treats an unscored record as ranking below every scored one.
func scoreOf(s *types.DocSource) float64 {
	if s.Score == nil {
		return math.Inf(-1)
	}
	return *s.Score
}

// truncate caps s for log lines.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
