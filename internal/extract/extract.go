// Package extract turns dependency-annotated documents into triples.
// One pass over each sentence tree picks a verb-rooted subject,
// relation, and object, records all-caps appositives as alias pairs,
// lifts relative clauses into secondary statements, and keeps token
// provenance so every fact can be traced back to its source passage.
// Implements: prd001-extraction (R1-R4); docs/ARCHITECTURE § Extraction.
package extract

import (
	"unicode"

	"github.com/pdiddy/medgraph/internal/triples"
	"github.com/pdiddy/medgraph/pkg/types"
)

// Dependency labels consumed by the tree walk.
const (
	depNSubj     = "nsubj"
	depNSubjPass = "nsubjpass"
	depAttr      = "attr"
	depDObj      = "dobj"
	depPObj      = "pobj"
	depOPrd      = "oprd"
	depAppos     = "appos"
)

// Part-of-speech tags consumed by the tree walk.
const (
	posNoun = "NOUN"
	posVerb = "VERB"
)

// Extract walks every sentence of doc and returns the triples found.
// sourceID labels provenance locations and is typically the identifier
// the document was stored under. Sentences that do not yield a full
// statement are skipped.
func Extract(doc *types.Document, sourceID string) *triples.TripleSet {
	w := &walker{
		doc:      doc,
		sourceID: sourceID,
		set:      triples.NewSet(),
		children: childIndex(doc),
	}
	for _, sent := range doc.Sentences {
		w.sentence(sent)
	}
	return w.set
}

// walker carries per-document extraction state. head is the subject of
// the last sentence that produced one; passive sentences without their
// own subject reuse it, so "X ... . It is also called Y." attributes Y
// to X.
type walker struct {
	doc      *types.Document
	sourceID string
	set      *triples.TripleSet
	children [][]int
	head     *triples.Node
}

// childIndex builds a child adjacency list from head references. A
// root token heads itself and is not its own child.
func childIndex(doc *types.Document) [][]int {
	children := make([][]int, len(doc.Tokens))
	for i, tok := range doc.Tokens {
		if tok.Head == i || tok.Head < 0 || tok.Head >= len(doc.Tokens) {
			continue
		}
		children[tok.Head] = append(children[tok.Head], i)
	}
	return children
}

// sentence extracts statements from one sentence tree.
func (w *walker) sentence(sent types.Sentence) {
	rootIdx := w.doc.RootOf(sent)
	if rootIdx < 0 {
		return
	}

	var subject, object *triples.Node
	for _, c := range w.children[rootIdx] {
		tok := w.doc.Tokens[c]
		switch tok.Dep {
		case depNSubj:
			subject = w.node(tok)
		case depNSubjPass:
			subject = w.head
		case depAttr, depDObj, depPObj, depOPrd:
			object = w.node(tok)
		}
	}
	if subject != nil {
		w.head = subject
	}

	w.aliases(rootIdx)

	// Relative clauses under a nominal argument contribute a second
	// statement: "X is a condition that affects Y" also yields
	// (X, affect, Y).
	if subject != nil {
		w.clauses(rootIdx, subject)
	}

	if subject == nil || object == nil {
		return
	}
	pred := w.set.CreatePredicate(triples.TokenMention(w.doc.Tokens[rootIdx], nil))
	w.set.CreateTriple(subject, pred, object, true, w.span(subject, rootIdx, object))
}

// node resolves a token to its store node, substituting the noun chunk
// the token heads, when there is one.
func (w *walker) node(tok types.Token) *triples.Node {
	return w.set.GetOrCreateNode(triples.TokenMention(tok, w.doc.ChunkHeadedBy(tok.I)), w.sourceID)
}

// aliases records all-caps appositives as abbreviation pairs:
// "Hypertension (HTN)" yields (Hypertension, alias, HTN) plus the
// inverse (HTN, alias for, Hypertension). The inverse edge skips root
// resolution so it cannot collapse onto itself.
func (w *walker) aliases(rootIdx int) {
	for _, c := range w.children[rootIdx] {
		for _, d := range w.descendants(c) {
			tok := w.doc.Tokens[d]
			if tok.Dep != depAppos || !uppercase(tok.Text) {
				continue
			}
			long := w.node(w.doc.Tokens[tok.Head])
			short := w.node(tok)
			loc := w.span(long, -1, short)
			w.set.CreateTriple(long, w.set.CreatePredicate(triples.TextMention(triples.PredAlias)), short, true, loc)
			w.set.CreateTriple(short, w.set.CreatePredicate(triples.TextMention(triples.PredAliasFor)), long, false, loc)
		}
	}
}

// clauses scans the root's NOUN children for an embedded verb with a
// NOUN argument and emits each pair as a statement about the current
// subject.
func (w *walker) clauses(rootIdx int, subject *triples.Node) {
	for _, c := range w.children[rootIdx] {
		if w.doc.Tokens[c].POS != posNoun {
			continue
		}
		for _, v := range w.children[c] {
			if w.doc.Tokens[v].POS != posVerb {
				continue
			}
			for _, o := range w.children[v] {
				if w.doc.Tokens[o].POS != posNoun {
					continue
				}
				object := w.node(w.doc.Tokens[o])
				pred := w.set.CreatePredicate(triples.TokenMention(w.doc.Tokens[v], nil))
				w.set.CreateTriple(subject, pred, object, true, w.span(subject, v, object))
			}
		}
	}
}

// descendants returns c and every token below it in the tree.
func (w *walker) descendants(c int) []int {
	out := []int{c}
	for i := 0; i < len(out); i++ {
		out = append(out, w.children[out[i]]...)
	}
	return out
}

// span returns the provenance covering every located part of a
// statement, or nil when none carry positions. predIdx < 0 means the
// relation has no token of its own.
func (w *walker) span(subject *triples.Node, predIdx int, object *triples.Node) *triples.Loc {
	start, end, ok := 0, 0, false
	add := func(s, e int) {
		if !ok {
			start, end, ok = s, e, true
			return
		}
		if s < start {
			start = s
		}
		if e > end {
			end = e
		}
	}
	if subject != nil && subject.Loc != nil && subject.Loc.SourceID == w.sourceID {
		add(subject.Loc.Start, subject.Loc.End)
	}
	if predIdx >= 0 {
		add(predIdx, predIdx)
	}
	if object != nil && object.Loc != nil && object.Loc.SourceID == w.sourceID {
		add(object.Loc.Start, object.Loc.End)
	}
	if !ok {
		return nil
	}
	return &triples.Loc{SourceID: w.sourceID, Start: start, End: end}
}

// uppercase reports whether s contains at least one letter and no
// lowercase letters, the annotator's notion of an all-caps
// abbreviation ("HTN", "COVID-19").
func uppercase(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
