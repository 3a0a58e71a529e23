// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pdiddy/medgraph/internal/query"
	"github.com/pdiddy/medgraph/internal/triples"
)

// Memory is the in-memory Store, used by tests and one-shot pipelines
// that extract and query within a single run.
type Memory struct {
	mu   sync.RWMutex
	rows []Triple
	keys map[[3]string]bool
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{keys: make(map[[3]string]bool)}
}

// Insert appends triples in order, dropping exact
// (subject, predicate, object) duplicates.
func (m *Memory) Insert(ctx context.Context, ts []Triple) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range ts {
		k := [3]string{t.Subject, t.Predicate, t.Object}
		if m.keys[k] {
			continue
		}
		m.keys[k] = true
		m.rows = append(m.rows, t)
	}
	return nil
}

// Select executes a compiled query against the stored triples.
func (m *Memory) Select(ctx context.Context, q query.Query) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	switch q.Form {
	case query.FormDescribe:
		return m.describe(q)
	case query.FormSelect:
		return m.selectRows(q), nil
	default:
		return nil, fmt.Errorf("unsupported query form %q", q.Form)
	}
}

// selectRows binds subjects whose label contains the mention, then
// projects their edges: relation-filtered rows first, the unfiltered
// branch after, deduplicated with the row cap applied last.
func (m *Memory) selectRows(q query.Query) *Result {
	res := &Result{Vars: resultVars}
	if q.Empty() {
		return res
	}

	bound := m.boundSubjects(q.Mention)
	labels := m.labelIndex()
	seen := make(map[[3]string]bool)
	add := func(t Triple) {
		k := [3]string{t.Subject, t.Predicate, t.Object}
		if seen[k] {
			return
		}
		seen[k] = true
		row := Row{"uri": t.Subject, "relation": t.Predicate, "content": t.Object}
		if lbl, ok := labels[t.Object]; ok {
			row["label"] = lbl
		}
		res.Rows = append(res.Rows, row)
	}

	if len(q.RelationKeywords) > 0 {
		for _, t := range m.rows {
			if bound[t.Subject] && relationMatches(t.Predicate, q.RelationKeywords) {
				add(t)
			}
		}
	}
	for _, t := range m.rows {
		if bound[t.Subject] {
			add(t)
		}
	}

	if q.Limit > 0 && len(res.Rows) > q.Limit {
		res.Rows = res.Rows[:q.Limit]
	}
	return res
}

// describe returns every triple of the subject matched by identifier
// or by exact label, case-insensitively.
func (m *Memory) describe(q query.Query) (*Result, error) {
	if q.Empty() {
		return nil, errors.New("describe query has no subject")
	}
	id := triples.NormalizeID(q.Mention)
	needle := strings.ToLower(q.Mention)

	subjects := make(map[string]bool)
	for _, t := range m.rows {
		if t.Subject == id {
			subjects[t.Subject] = true
		}
		if t.Predicate == PredLabel && strings.ToLower(t.Object) == needle {
			subjects[t.Subject] = true
		}
	}

	res := &Result{}
	for _, t := range m.rows {
		if !subjects[t.Subject] {
			continue
		}
		res.Triples = append(res.Triples, t)
		if q.Limit > 0 && len(res.Triples) >= q.Limit {
			break
		}
	}
	return res, nil
}

// SubjectLiterals groups literal values by subject in first-seen
// order. Objects referencing another subject are skipped; label edges
// always count as literals.
func (m *Memory) SubjectLiterals(ctx context.Context) ([]SubjectDoc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	isSubject := make(map[string]bool, len(m.rows))
	for _, t := range m.rows {
		isSubject[t.Subject] = true
	}

	var order []string
	pairs := make(map[string][]LiteralPair)
	for _, t := range m.rows {
		if t.Predicate != PredLabel && isSubject[t.Object] {
			continue
		}
		if _, ok := pairs[t.Subject]; !ok {
			order = append(order, t.Subject)
		}
		pairs[t.Subject] = append(pairs[t.Subject], LiteralPair{Predicate: t.Predicate, Object: t.Object})
	}

	docs := make([]SubjectDoc, len(order))
	for i, s := range order {
		docs[i] = SubjectDoc{Subject: s, Pairs: pairs[s]}
	}
	return docs, nil
}

// Dump returns a copy of the stored triples in insertion order.
func (m *Memory) Dump(ctx context.Context) ([]Triple, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Triple, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

// Close is a no-op for the in-memory store.
func (m *Memory) Close() error { return nil }

// boundSubjects returns the subjects whose label literal contains the
// mention, case-insensitively.
func (m *Memory) boundSubjects(mention string) map[string]bool {
	needle := strings.ToLower(mention)
	bound := make(map[string]bool)
	for _, t := range m.rows {
		if t.Predicate == PredLabel && strings.Contains(strings.ToLower(t.Object), needle) {
			bound[t.Subject] = true
		}
	}
	return bound
}

// labelIndex maps each subject to its first label literal.
func (m *Memory) labelIndex() map[string]string {
	labels := make(map[string]string)
	for _, t := range m.rows {
		if t.Predicate != PredLabel {
			continue
		}
		if _, ok := labels[t.Subject]; !ok {
			labels[t.Subject] = t.Object
		}
	}
	return labels
}

// relationMatches reports whether the relation name contains any of
// the keyword fragments.
func relationMatches(predicate string, keywords []string) bool {
	lp := strings.ToLower(predicate)
	for _, kw := range keywords {
		if strings.Contains(lp, kw) {
			return true
		}
	}
	return false
}
