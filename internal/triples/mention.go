// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package triples

import "github.com/pdiddy/medgraph/pkg/types"

// mentionKind discriminates the surface form behind a Mention.
type mentionKind int

const (
	mentionToken mentionKind = iota
	mentionSpan
	mentionText
)

// Mention is one surface mention of a value: a single token (with the
// noun chunk it heads, when there is one), a token span, or raw text
// with no position. Mentions normalize to lemma text plus an optional
// token range before entering the store.
type Mention struct {
	kind  mentionKind
	token types.Token
	chunk *types.Span
	span  types.Span
	text  string
}

// TokenMention builds a mention from one token. When chunk is non-nil
// the token heads that noun chunk, and the chunk's full text stands in
// for the bare token.
func TokenMention(tok types.Token, chunk *types.Span) Mention {
	return Mention{kind: mentionToken, token: tok, chunk: chunk}
}

// SpanMention builds a mention from a token span.
func SpanMention(span types.Span) Mention {
	return Mention{kind: mentionSpan, span: span}
}

// TextMention builds a positionless mention from raw text.
func TextMention(text string) Mention {
	return Mention{kind: mentionText, text: text}
}

// normalize resolves the mention to its lemma text and inclusive token
// range. located is false for raw-text mentions.
func (m Mention) normalize() (text string, start, end int, located bool) {
	switch m.kind {
	case mentionToken:
		if m.chunk != nil {
			return spanText(*m.chunk), m.chunk.Start, m.chunk.End - 1, true
		}
		text = m.token.Lemma
		if text == "" {
			text = m.token.Text
		}
		return text, m.token.I, m.token.I, true
	case mentionSpan:
		return spanText(m.span), m.span.Start, m.span.End - 1, true
	default:
		return m.text, 0, 0, false
	}
}

func spanText(s types.Span) string {
	if s.Lemma != "" {
		return s.Lemma
	}
	return s.Text
}
