// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/medgraph/internal/embed"
	"github.com/pdiddy/medgraph/pkg/types"
)

// tokenize returns the lowercased alphanumeric runs of s longer than
// two runes. Shorter runs are noise words ("is", "a", "of").
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) > 2 {
			out = append(out, f)
		}
	}
	return out
}

// queryTokens returns the distinct question tokens in first-seen order.
func queryTokens(question string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range tokenize(question) {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// lexicalScore counts how many query tokens occur in text.
func lexicalScore(tokens []string, text string) float64 {
	lower := strings.ToLower(text)
	n := 0
	for _, tok := range tokens {
		if strings.Contains(lower, tok) {
			n++
		}
	}
	return float64(n)
}

// score assigns each unscored record its lexical overlap with the
// question, then blends in embedding similarity when an embedder is
// configured. A failed question embedding disables the blend for the
// whole call; a failed source embedding skips that record only.
func (e *Engine) score(ctx context.Context, question string, sources []*types.DocSource) {
	tokens := queryTokens(question)

	var qvec []float32
	if e.embedder != nil && len(sources) > 0 {
		var err error
		qvec, err = e.embedder.Embed(ctx, question)
		if err != nil {
			e.logger.Warn("question embedding failed", "err", err)
			qvec = nil
		}
	}

	for _, s := range sources {
		text := s.Title + " " + s.Content
		if s.Score == nil {
			sc := lexicalScore(tokens, text)
			s.Score = &sc
		}
		if qvec == nil {
			continue
		}
		svec, err := e.embedder.Embed(ctx, text)
		if err != nil {
			e.logger.Warn("source embedding failed", "id", s.ID, "err", err)
			continue
		}
		*s.Score += embed.Cosine(qvec, svec)
	}
}
