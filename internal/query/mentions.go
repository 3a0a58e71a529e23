// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package query

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/medgraph/pkg/types"
)

// stopMentions are strings we never want as the query subject:
// question words and generic category nouns.
var stopMentions = map[string]bool{
	"which enzyme": true,
	"what":         true,
	"which":        true,
	"who":          true,
	"where":        true,
	"when":         true,
	"why":          true,
	"enzyme":       true,
	"drug":         true,
	"medicine":     true,
	"do":           true,
	"does":         true,
	"did":          true,
	"is":           true,
	"are":          true,
	"was":          true,
	"were":         true,
	"can":          true,
	"could":        true,
	"would":        true,
	"should":       true,
	"may":          true,
	"might":        true,
	"will":         true,
	"shall":        true,
}

// wordLike matches tokens worth considering as standalone mentions,
// including Greek-lettered compound names.
var wordLike = regexp.MustCompile(`[A-Za-z0-9α-ωΑ-Ω-]+`)

// subjectShapes are the token shapes the standalone-token heuristic
// keeps: short capitalized words and two- or three-letter
// abbreviations.
var subjectShapes = map[string]bool{"Xxxx": true, "XX": true, "XXX": true, "Xx": true}

// biomedicalCue marks mentions that look like drug names, gene
// symbols, or identifiers.
var biomedicalCue = regexp.MustCompile(`[A-Z0-9-]`)

// extractMentions gathers candidate subject mentions from a question:
// named entities first, then noun chunks, then standalone tokens that
// look like chemical names. Candidates deduplicate case-insensitively
// keeping the first spelling seen, then sort longest-first with ties
// broken by first appearance.
func extractMentions(doc *types.Document) []string {
	type cand struct {
		text string
		pos  int
	}
	var cands []cand
	seen := make(map[string]bool)
	add := func(s string, pos int) {
		s = strings.TrimSpace(s)
		// Very short fragments tend to be auxiliaries like "Do", "Is".
		if len(s) < 3 || len(s) > 80 {
			return
		}
		k := strings.ToLower(s)
		if seen[k] {
			return
		}
		seen[k] = true
		cands = append(cands, cand{text: s, pos: pos})
	}

	pos := 0
	for _, ent := range doc.Entities {
		add(ent.Text, pos)
		pos++
	}
	for _, chunk := range doc.NounChunks {
		add(chunk.Text, pos)
		pos++
	}
	for _, t := range doc.Tokens {
		if wordLike.MatchString(t.Text) &&
			(subjectShapes[wordShape(t.Text)] || strings.Contains(t.Text, "-")) {
			add(t.Text, pos)
			pos++
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if len(cands[i].text) != len(cands[j].text) {
			return len(cands[i].text) > len(cands[j].text)
		}
		return cands[i].pos < cands[j].pos
	})
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.text
	}
	return out
}

// expandAbbreviations replaces mentions matching a detected short form
// with its long form, deduplicating while preserving order.
func expandAbbreviations(mentions []string, abbrevs []types.Abbreviation) []string {
	if len(abbrevs) == 0 {
		return mentions
	}
	long := make(map[string]string, len(abbrevs))
	for _, ab := range abbrevs {
		long[ab.Short] = ab.Long
	}
	out := make([]string, 0, len(mentions))
	seen := make(map[string]bool, len(mentions))
	for _, m := range mentions {
		if l, ok := long[m]; ok {
			m = l
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// pickBestMention chooses the subject mention: first a candidate
// carrying uppercase, digits, or hyphens, then any non-stop candidate.
// Empty when nothing usable remains.
func pickBestMention(mentions []string) string {
	for _, m := range mentions {
		m = strings.TrimSpace(m)
		if m == "" || stopMentions[strings.ToLower(m)] {
			continue
		}
		if biomedicalCue.MatchString(m) {
			return m
		}
	}
	for _, m := range mentions {
		m = strings.TrimSpace(m)
		if m != "" && !stopMentions[strings.ToLower(m)] {
			return m
		}
	}
	return ""
}

// sanitizeMention strips double quotes and backslashes and collapses
// whitespace runs, so the mention embeds safely in rendered queries.
func sanitizeMention(m string) string {
	m = strings.Map(func(r rune) rune {
		if r == '"' || r == '\\' {
			return ' '
		}
		return r
	}, m)
	return strings.Join(strings.Fields(m), " ")
}

// wordShape maps letters to X/x and digits to d, keeping other runes
// and truncating same-character runs past four, the annotator's shape
// convention.
func wordShape(text string) string {
	var b strings.Builder
	var last rune
	seq := 0
	for _, r := range text {
		var c rune
		switch {
		case unicode.IsUpper(r):
			c = 'X'
		case unicode.IsLetter(r):
			c = 'x'
		case unicode.IsDigit(r):
			c = 'd'
		default:
			c = r
		}
		if c == last {
			seq++
		} else {
			seq = 0
			last = c
		}
		if seq < 4 {
			b.WriteRune(c)
		}
	}
	return b.String()
}
