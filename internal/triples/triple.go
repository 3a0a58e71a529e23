// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package triples implements the in-memory subject-predicate-object store
// populated by dependency-tree extraction: typed slots, provenance-carrying
// nodes and predicates, and wildcard pattern matching with alias-chain
// resolution.
// Implements: prd001-extraction (R2-R4); docs/ARCHITECTURE § Triple Store.
package triples

import (
	"fmt"
	"strings"
	"unicode"
)

// Reserved predicate names linking surface forms detected as
// abbreviations to their expanded forms.
const (
	// PredAlias relates an expanded form to one of its aliases:
	// (long form, "alias", short form).
	PredAlias = "alias"

	// PredAliasFor is the inverse edge: (short form, "alias for", long form).
	PredAliasFor = "alias for"
)

// SlotKind discriminates the value held by a Slot.
type SlotKind int

const (
	// SlotText holds a surface or lemma string.
	SlotText SlotKind = iota

	// SlotInt holds an integer value, used by numeric annotations.
	SlotInt

	// SlotRef holds a reference to another triple, allowing statements
	// about statements.
	SlotRef
)

// Slot is one typed value in a triple position.
type Slot struct {
	Kind SlotKind
	Text string
	Int  int
	Ref  *Triple
}

// TextSlot returns a Slot holding s.
func TextSlot(s string) Slot { return Slot{Kind: SlotText, Text: s} }

// IntSlot returns a Slot holding i.
func IntSlot(i int) Slot { return Slot{Kind: SlotInt, Int: i} }

// RefSlot returns a Slot referencing triple t.
func RefSlot(t *Triple) Slot { return Slot{Kind: SlotRef, Ref: t} }

// Text returns a pattern slot matching exactly the text s.
func Text(s string) *Slot {
	sl := TextSlot(s)
	return &sl
}

// Int returns a pattern slot matching the integer i.
func Int(i int) *Slot {
	sl := IntSlot(i)
	return &sl
}

// Equal reports whether two slots hold the same kind and value.
// Text slots compare case-sensitively.
func (s Slot) Equal(o Slot) bool {
	if s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case SlotText:
		return s.Text == o.Text
	case SlotInt:
		return s.Int == o.Int
	default:
		return s.Ref == o.Ref
	}
}

func (s Slot) String() string {
	switch s.Kind {
	case SlotText:
		return fmt.Sprintf("%q", s.Text)
	case SlotInt:
		return fmt.Sprintf("%d", s.Int)
	default:
		return fmt.Sprintf("ref(%v)", s.Ref)
	}
}

// Loc records where a value was found: an inclusive token index range
// [Start, End] inside one source document.
type Loc struct {
	SourceID string
	Start    int
	End      int
}

// Node is a subject or object value. Loc, when present, marks the
// tokens of the node's first mention.
type Node struct {
	Slot
	Loc *Loc
}

// Predicate is a relation value. Loc, when present, covers the full
// token span of the statement the predicate belongs to.
type Predicate struct {
	Slot
	Loc *Loc
}

// RelationID returns the predicate text normalized to a graph relation
// identifier.
func (p *Predicate) RelationID() string { return NormalizeID(p.Text) }

// NormalizeID lowercases text, joins words with underscores, and drops
// any other punctuation: "alias for" becomes "alias_for",
// "the body's artery" becomes "the_bodys_artery".
func NormalizeID(text string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case unicode.IsSpace(r):
			pendingSep = b.Len() > 0
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			if pendingSep {
				b.WriteByte('_')
				pendingSep = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Triple is one subject-predicate-object statement.
type Triple struct {
	Subject   *Node
	Predicate *Predicate
	Object    *Node
}

func (t *Triple) String() string {
	return fmt.Sprintf("(%s, %s, %s)", t.Subject.Slot, t.Predicate.Slot, t.Object.Slot)
}

// Pattern is a partial triple: nil positions are wildcards, non-nil
// positions must equal the stored slot value.
type Pattern struct {
	Subject   *Slot
	Predicate *Slot
	Object    *Slot
}

// empty reports whether every position is a wildcard.
func (p Pattern) empty() bool {
	return p.Subject == nil && p.Predicate == nil && p.Object == nil
}

// Match reports whether t satisfies the pattern.
func (t *Triple) Match(p Pattern) bool {
	if p.Subject != nil && !t.Subject.Slot.Equal(*p.Subject) {
		return false
	}
	if p.Predicate != nil && !t.Predicate.Slot.Equal(*p.Predicate) {
		return false
	}
	if p.Object != nil && !t.Object.Slot.Equal(*p.Object) {
		return false
	}
	return true
}
