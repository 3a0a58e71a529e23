// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"fmt"
	"strings"

	"github.com/pdiddy/medgraph/pkg/types"
)

// Refusal strings returned instead of an answer when the evidence does
// not support one.
const (
	// refusalNoEvidence: retrieval produced no sources at all.
	refusalNoEvidence = "Not enough evidence to answer the question based on available sources."

	// refusalLowConfidence: sources exist but every scored one fell
	// below the confidence threshold.
	refusalLowConfidence = "Not enough high-confidence evidence to answer the question."
)

// groundedAnswer renders the cited answer for the ranked sources, or a
// refusal when evidence is missing or entirely below the confidence
// threshold. Unscored sources always pass the filter.
func (e *Engine) groundedAnswer(question string, sources []*types.DocSource) string {
	if len(sources) == 0 {
		return refusalNoEvidence
	}

	var cited []*types.DocSource
	for _, s := range sources {
		if s.Score == nil || *s.Score >= e.cfg.ScoreThreshold {
			cited = append(cited, s)
		}
	}
	if len(cited) == 0 {
		return refusalLowConfidence
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on the retrieved evidence, here is a summary for: %s", strings.TrimSpace(question))
	for i, s := range cited {
		title := s.Title
		if title == "" {
			title = s.ID
		}
		fmt.Fprintf(&b, "\n[%d] %s: %s", i+1, title, s.Content)
	}
	return b.String()
}
