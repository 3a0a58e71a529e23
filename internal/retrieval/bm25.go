// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"context"
	"math"

	"github.com/pdiddy/medgraph/internal/graph"
	"github.com/pdiddy/medgraph/pkg/types"
)

// Okapi BM25 parameters.
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// lexicalFallback ranks every graph subject against the question with
// BM25, treating each subject's literal values as one pseudo-document,
// and returns the positive scorers best-first, capped at the fallback
// limit. It runs only when the structured path produced no sources.
func (e *Engine) lexicalFallback(ctx context.Context, question string) []*types.DocSource {
	docs, err := e.store.SubjectLiterals(ctx)
	if err != nil {
		e.logger.Warn("lexical fallback failed", "err", err)
		return nil
	}
	tokens := queryTokens(question)
	if len(docs) == 0 || len(tokens) == 0 {
		return nil
	}

	// Corpus statistics: per-token document frequency and average
	// pseudo-document length.
	docTokens := make([][]string, len(docs))
	df := make(map[string]int, len(tokens))
	totalLen := 0
	for i, d := range docs {
		docTokens[i] = tokenize(d.Text())
		totalLen += len(docTokens[i])
		for _, tok := range tokens {
			if containsToken(docTokens[i], tok) {
				df[tok]++
			}
		}
	}
	avgdl := float64(totalLen) / float64(len(docs))

	var out []*types.DocSource
	for i, d := range docs {
		score := bm25(tokens, docTokens[i], df, len(docs), avgdl)
		if score <= 0 {
			continue
		}
		sc := score
		out = append(out, &types.DocSource{
			ID:         d.Subject,
			Title:      titleOf(d),
			Content:    representative(d),
			SourceType: types.SourceLexicalFallback,
			Score:      &sc,
		})
	}

	sortSources(out)
	if len(out) > e.cfg.FallbackLimit {
		out = out[:e.cfg.FallbackLimit]
	}
	return out
}

// bm25 scores one pseudo-document against the query tokens with the
// standard Okapi formulation. Documents matching no token score zero.
func bm25(queryToks, docToks []string, df map[string]int, n int, avgdl float64) float64 {
	if len(docToks) == 0 || avgdl == 0 {
		return 0
	}
	tf := make(map[string]int, len(docToks))
	for _, tok := range docToks {
		tf[tok]++
	}
	dl := float64(len(docToks))
	score := 0.0
	for _, tok := range queryToks {
		f := float64(tf[tok])
		if f == 0 {
			continue
		}
		idf := math.Log(1 + (float64(n)-float64(df[tok])+0.5)/(float64(df[tok])+0.5))
		score += idf * (f * (bm25K1 + 1)) / (f + bm25K1*(1-bm25B+bm25B*dl/avgdl))
	}
	return score
}

// titleOf picks the subject's label literal, or its identifier when no
// label edge exists.
func titleOf(d graph.SubjectDoc) string {
	if lbl := d.Label(); lbl != "" {
		return lbl
	}
	return d.Subject
}

// representative picks one predicate/object pair to show as the
// record's content: the first fact edge, or the label edge when the
// subject has nothing else.
func representative(d graph.SubjectDoc) string {
	for _, p := range d.Pairs {
		if p.Predicate != graph.PredLabel {
			return p.Predicate + ": " + p.Object
		}
	}
	if len(d.Pairs) > 0 {
		return d.Pairs[0].Predicate + ": " + d.Pairs[0].Object
	}
	return ""
}

func containsToken(tokens []string, tok string) bool {
	for _, t := range tokens {
		if t == tok {
			return true
		}
	}
	return false
}
