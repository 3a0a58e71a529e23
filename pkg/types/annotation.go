// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Span marks a contiguous token range [Start, End) inside a document,
// such as a noun chunk or a named entity.
type Span struct {
	// Start is the index of the first token in the span.
	Start int `json:"start" yaml:"start"`

	// End is the index one past the last token in the span.
	End int `json:"end" yaml:"end"`

	// Text is the surface text of the span.
	Text string `json:"text" yaml:"text"`

	// Lemma is the lemmatized text of the span, when the annotator
	// provides one. Falls back to Text when empty.
	Lemma string `json:"lemma,omitempty" yaml:"lemma,omitempty"`

	// Label is the entity label (e.g. "CONDITION", "CHEMICAL") for
	// named-entity spans. Empty for noun chunks.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Root is the index of the token that syntactically heads the span.
	Root int `json:"root" yaml:"root"`
}

// Token is one annotated token. Head references the parent token by
// index; the sentence root points at itself.
type Token struct {
	// I is the token's position in the document, 0-indexed.
	I int `json:"i" yaml:"i"`

	// Text is the original surface text.
	Text string `json:"text" yaml:"text"`

	// Lemma is the grammatical root form of the token.
	Lemma string `json:"lemma" yaml:"lemma"`

	// POS is the coarse universal part-of-speech tag (NOUN, VERB, ...).
	POS string `json:"pos" yaml:"pos"`

	// Dep is the dependency label relating the token to its head
	// (nsubj, attr, dobj, appos, ...).
	Dep string `json:"dep" yaml:"dep"`

	// Head is the index of the token's syntactic parent. A sentence
	// root carries its own index here.
	Head int `json:"head" yaml:"head"`

	// EntType is the named-entity label of the token, if any.
	EntType string `json:"ent_type,omitempty" yaml:"ent_type,omitempty"`
}

// Sentence is a token range [Start, End) with its own surface text,
// kept so source passages can be recovered for citations without
// re-annotating the document.
type Sentence struct {
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	Text  string `json:"text" yaml:"text"`
}

// Abbreviation pairs a short form detected in the document with its
// expanded long form (e.g. "HTN" -> "hypertension").
type Abbreviation struct {
	Short string `json:"short" yaml:"short"`
	Long  string `json:"long" yaml:"long"`
}

// Document is one annotated document as produced by an external
// linguistic annotator. It is the input contract of the extraction and
// question-compilation pipelines: this repository consumes annotated
// documents but never produces them from raw text itself.
type Document struct {
	// Text is the original raw text.
	Text string `json:"text" yaml:"text"`

	// Tokens lists every token in document order.
	Tokens []Token `json:"tokens" yaml:"tokens"`

	// Sentences lists sentence boundaries in document order.
	Sentences []Sentence `json:"sentences" yaml:"sentences"`

	// Entities lists named-entity spans, if the annotator found any.
	Entities []Span `json:"entities,omitempty" yaml:"entities,omitempty"`

	// NounChunks lists base noun-phrase spans.
	NounChunks []Span `json:"noun_chunks,omitempty" yaml:"noun_chunks,omitempty"`

	// Abbreviations lists short/long form pairs detected by the
	// annotator's abbreviation component, if present.
	Abbreviations []Abbreviation `json:"abbreviations,omitempty" yaml:"abbreviations,omitempty"`
}

// ChunkHeadedBy returns the noun chunk whose syntactic root is token i,
// or nil when token i heads no chunk.
func (d *Document) ChunkHeadedBy(i int) *Span {
	for k := range d.NounChunks {
		if d.NounChunks[k].Root == i {
			return &d.NounChunks[k]
		}
	}
	return nil
}

// SentenceIndexOf returns the index of the sentence containing token i,
// or -1 when i falls outside every sentence.
func (d *Document) SentenceIndexOf(i int) int {
	for k, s := range d.Sentences {
		if i >= s.Start && i < s.End {
			return k
		}
	}
	return -1
}

// RootOf returns the index of the syntactic root of sentence s: the
// token whose head is itself. Returns -1 when the sentence has no root,
// which callers treat as an annotation gap.
func (d *Document) RootOf(s Sentence) int {
	for i := s.Start; i < s.End && i < len(d.Tokens); i++ {
		if d.Tokens[i].Head == i {
			return i
		}
	}
	return -1
}
