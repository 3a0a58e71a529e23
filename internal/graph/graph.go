// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph persists extracted triples and executes compiled
// structured queries over them. Two interchangeable backends exist: an
// in-memory store for tests and one-shot pipelines, and a SQLite store
// for graphs that outlive a process.
// Implements: prd002-knowledge-graph (R1-R5);
//
//	docs/ARCHITECTURE § Knowledge Graph.
package graph

import (
	"context"
	"strconv"
	"strings"

	"github.com/pdiddy/medgraph/internal/query"
	"github.com/pdiddy/medgraph/internal/triples"
)

// PredLabel is the reserved predicate holding a subject's surface
// form. Every subject carries one label edge; compiled queries bind
// subjects by label containment.
const PredLabel = "label"

// Triple is one stored edge. Subjects are normalized identifiers;
// objects are literal values, which reference another subject when
// the value equals that subject's identifier.
type Triple struct {
	Subject   string `json:"subject" yaml:"subject"`
	Predicate string `json:"predicate" yaml:"predicate"`
	Object    string `json:"object" yaml:"object"`

	// SourceID names the document the statement was extracted from.
	// Empty when provenance is unknown.
	SourceID string `json:"source_id,omitempty" yaml:"source_id,omitempty"`

	// Start and End are the inclusive token range of the originating
	// statement within SourceID.
	Start int `json:"start,omitempty" yaml:"start,omitempty"`
	End   int `json:"end,omitempty" yaml:"end,omitempty"`
}

// Row is one select-query result row, variable name to bound value.
// Unbound variables are absent from the map.
type Row map[string]string

// resultVars is the projection of compiled select queries, in render
// order.
var resultVars = []string{"uri", "relation", "content", "label"}

// Result is a query execution result. Select-form queries fill Vars
// and Rows; describe-form queries fill Triples.
type Result struct {
	Vars    []string `json:"vars,omitempty" yaml:"vars,omitempty"`
	Rows    []Row    `json:"rows,omitempty" yaml:"rows,omitempty"`
	Triples []Triple `json:"triples,omitempty" yaml:"triples,omitempty"`
}

// LiteralPair is one predicate/literal edge of a subject.
type LiteralPair struct {
	Predicate string `json:"predicate" yaml:"predicate"`
	Object    string `json:"object" yaml:"object"`
}

// SubjectDoc gathers one subject's literal values: its label edge plus
// every object that does not reference another subject. The lexical
// fallback searches each SubjectDoc as one pseudo-document.
type SubjectDoc struct {
	Subject string        `json:"subject" yaml:"subject"`
	Pairs   []LiteralPair `json:"pairs" yaml:"pairs"`
}

// Label returns the subject's label literal, or empty when the subject
// has no label edge.
func (d SubjectDoc) Label() string {
	for _, p := range d.Pairs {
		if p.Predicate == PredLabel {
			return p.Object
		}
	}
	return ""
}

// Text returns the subject's literal values joined for lexical
// matching.
func (d SubjectDoc) Text() string {
	parts := make([]string, len(d.Pairs))
	for i, p := range d.Pairs {
		parts[i] = p.Object
	}
	return strings.Join(parts, " ")
}

// Store is the graph backend contract. Implementations are safe for
// concurrent readers.
type Store interface {
	// Insert adds triples. Exact (subject, predicate, object)
	// duplicates are ignored, so re-ingesting a document is
	// idempotent.
	Insert(ctx context.Context, ts []Triple) error

	// Select executes a compiled query. Select-form queries return
	// projected rows; describe-form queries return the subject's
	// triples.
	Select(ctx context.Context, q query.Query) (*Result, error)

	// SubjectLiterals returns one SubjectDoc per subject holding at
	// least one literal value.
	SubjectLiterals(ctx context.Context) ([]SubjectDoc, error)

	// Dump returns every stored triple in insertion order.
	Dump(ctx context.Context) ([]Triple, error)

	// Close releases backend resources.
	Close() error
}

// FromTripleSet flattens an extracted TripleSet into graph triples.
// Each distinct subject contributes one label edge carrying its
// surface text, emitted before the subject's first fact edge. Subject
// identifiers are normalized; objects stay verbatim so values naming
// another subject still match that subject's identifier. Fact
// provenance comes from the statement's predicate, label provenance
// from the subject node's first mention.
func FromTripleSet(ts *triples.TripleSet) []Triple {
	var out []Triple
	labeled := make(map[string]bool)
	for _, t := range ts.Triples() {
		text := slotValue(t.Subject.Slot)
		subj := triples.NormalizeID(text)
		if subj == "" {
			continue
		}
		if !labeled[subj] {
			labeled[subj] = true
			label := Triple{Subject: subj, Predicate: PredLabel, Object: text}
			if loc := t.Subject.Loc; loc != nil {
				label.SourceID, label.Start, label.End = loc.SourceID, loc.Start, loc.End
			}
			out = append(out, label)
		}
		edge := Triple{
			Subject:   subj,
			Predicate: t.Predicate.RelationID(),
			Object:    slotValue(t.Object.Slot),
		}
		if loc := t.Predicate.Loc; loc != nil {
			edge.SourceID, edge.Start, edge.End = loc.SourceID, loc.Start, loc.End
		}
		out = append(out, edge)
	}
	return out
}

// slotValue renders a slot as literal text.
func slotValue(s triples.Slot) string {
	switch s.Kind {
	case triples.SlotText:
		return s.Text
	case triples.SlotInt:
		return strconv.Itoa(s.Int)
	default:
		if s.Ref != nil {
			return s.Ref.String()
		}
		return ""
	}
}
