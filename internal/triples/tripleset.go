// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package triples

import (
	"errors"
	"strings"
)

// ErrEmptyPattern rejects lookups that leave every pattern position a
// wildcard.
var ErrEmptyPattern = errors.New("pattern requires at least one of subject, predicate, or object")

// TripleSet is an append-only collection of triples with a node
// registry that deduplicates values case-insensitively. It is not safe
// for concurrent use; extraction builds one set per document.
type TripleSet struct {
	triples []*Triple
	nodes   map[string]*Node
}

// NewSet returns an empty TripleSet.
func NewSet() *TripleSet {
	return &TripleSet{nodes: make(map[string]*Node)}
}

// Count returns the number of triples in the set.
func (ts *TripleSet) Count() int { return len(ts.triples) }

// Triples returns the triples in insertion order.
func (ts *TripleSet) Triples() []*Triple { return ts.triples }

// GetOrCreateNode resolves a mention to its node, creating one when the
// mention text is new. Lookup is case-insensitive and the first
// spelling seen wins; the node keeps the location of its first mention.
func (ts *TripleSet) GetOrCreateNode(m Mention, sourceID string) *Node {
	text, start, end, located := m.normalize()
	key := strings.ToLower(text)
	if n, ok := ts.nodes[key]; ok {
		return n
	}
	n := &Node{Slot: TextSlot(text)}
	if located && sourceID != "" {
		n.Loc = &Loc{SourceID: sourceID, Start: start, End: end}
	}
	ts.nodes[key] = n
	return n
}

// CreatePredicate resolves a mention to a fresh predicate. Predicates
// are never registered: each triple owns its own, so that per-statement
// provenance can hang off it.
func (ts *TripleSet) CreatePredicate(m Mention) *Predicate {
	text, _, _, _ := m.normalize()
	return &Predicate{Slot: TextSlot(text)}
}

// CreateTriple appends a new triple. When resolveRoot is set the
// subject is first replaced by the root of its alias chain, so facts
// stated about an abbreviation land on its expanded form. loc becomes
// the predicate's provenance and is expected to cover the token span of
// the whole statement.
func (ts *TripleSet) CreateTriple(subject *Node, predicate *Predicate, object *Node, resolveRoot bool, loc *Loc) *Triple {
	if resolveRoot {
		subject = ts.resolveRootNode(subject)
	}
	if loc != nil {
		predicate.Loc = loc
	}
	t := &Triple{Subject: subject, Predicate: predicate, Object: object}
	ts.triples = append(ts.triples, t)
	return t
}

// First returns the earliest triple matching the pattern, or nil when
// nothing matches. With resolveRoot set, a subject constraint is first
// rewritten to the root of its alias chain. An all-wildcard pattern is
// rejected with ErrEmptyPattern.
func (ts *TripleSet) First(pat Pattern, resolveRoot bool) (*Triple, error) {
	if pat.empty() {
		return nil, ErrEmptyPattern
	}
	if resolveRoot && pat.Subject != nil {
		root := ts.resolveRootSlot(*pat.Subject)
		pat.Subject = &root
	}
	for _, t := range ts.triples {
		if t.Match(pat) {
			return t, nil
		}
	}
	return nil, nil
}

// Filter returns a new set holding every triple matching the pattern,
// in insertion order. The result shares triples with the parent and
// starts with an empty node registry. An all-wildcard pattern is
// rejected with ErrEmptyPattern.
func (ts *TripleSet) Filter(pat Pattern, resolveRoot bool) (*TripleSet, error) {
	if pat.empty() {
		return nil, ErrEmptyPattern
	}
	if resolveRoot && pat.Subject != nil {
		root := ts.resolveRootSlot(*pat.Subject)
		pat.Subject = &root
	}
	out := NewSet()
	for _, t := range ts.triples {
		if t.Match(pat) {
			out.triples = append(out.triples, t)
		}
	}
	return out, nil
}

// resolveRootNode walks alias edges from n back to the expanded form:
// an (x, "alias", y) triple names y as an alias of x. The walk stops at
// the first value with no incoming alias edge, or as soon as a value
// repeats, so alias cycles terminate.
func (ts *TripleSet) resolveRootNode(n *Node) *Node {
	visited := make(map[string]bool)
	for {
		key := n.Slot.String()
		if visited[key] {
			return n
		}
		visited[key] = true
		next := ts.aliasSource(n.Slot)
		if next == nil {
			return n
		}
		n = next
	}
}

// resolveRootSlot is resolveRootNode for bare pattern slots.
func (ts *TripleSet) resolveRootSlot(s Slot) Slot {
	visited := make(map[string]bool)
	for {
		key := s.String()
		if visited[key] {
			return s
		}
		visited[key] = true
		next := ts.aliasSource(s)
		if next == nil {
			return s
		}
		s = next.Slot
	}
}

// aliasSource returns the subject of the first (_, "alias", v) triple,
// or nil when v is nobody's alias.
func (ts *TripleSet) aliasSource(v Slot) *Node {
	for _, t := range ts.triples {
		if t.Predicate.Slot.Equal(aliasSlot) && t.Object.Slot.Equal(v) {
			return t.Subject
		}
	}
	return nil
}

var aliasSlot = TextSlot(PredAlias)
