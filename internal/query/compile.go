// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package query compiles annotated natural-language questions into
// structured graph queries: detect the question's intent, pick the
// best subject mention, and bind it by label with an optional relation
// filter.
// Implements: prd003-question-compiler (R1-R4); docs/ARCHITECTURE § Question Compiler.
package query

import (
	"fmt"
	"strings"

	"github.com/pdiddy/medgraph/pkg/types"
)

// Form is the shape of a compiled query.
type Form string

const (
	// FormSelect binds subjects by label and projects their edges.
	FormSelect Form = "select"

	// FormDescribe returns every stored triple of one subject.
	FormDescribe Form = "describe"
)

// defaultLimit caps result rows for compiled queries.
const defaultLimit = 100

// Query is one compiled structured query. Graph stores execute the
// struct directly; String renders the equivalent query text for logs
// and inspection.
type Query struct {
	// Form is the query shape.
	Form Form

	// Mention is the sanitized subject mention the query binds by
	// label, case-insensitively. Empty compiles to the always-empty
	// query.
	Mention string

	// RelationKeywords filter relation names in the first branch of
	// the union. Empty means the query runs unfiltered.
	RelationKeywords []string

	// Limit caps result rows. Zero means unlimited.
	Limit int
}

// Empty reports whether the query binds no subject and can only
// produce an empty result.
func (q Query) Empty() bool { return q.Mention == "" }

// Compile turns an annotated question into a structured query. The
// subject mention comes from entities, noun chunks, and
// chemical-looking tokens, expanded through detected abbreviations;
// the intent decides the relation filter. Questions yielding no usable
// mention compile to the empty query rather than failing.
func Compile(doc *types.Document) Query {
	mentions := expandAbbreviations(extractMentions(doc), doc.Abbreviations)
	chosen := pickBestMention(mentions)
	if chosen == "" {
		return Query{Form: FormSelect, Limit: defaultLimit}
	}
	intent := detectIntent(doc.Text)
	return Query{
		Form:             FormSelect,
		Mention:          sanitizeMention(chosen),
		RelationKeywords: relationKeywords[intent],
		Limit:            defaultLimit,
	}
}

// Describe builds a query returning every triple of one subject, bound
// by identifier or label.
func Describe(subject string) Query {
	return Query{Form: FormDescribe, Mention: sanitizeMention(subject), Limit: defaultLimit}
}

// String renders the query in a SPARQL-like surface form: a SELECT
// over the subject's edges with an optional relation-filtered branch
// unioned in, OPTIONAL object labels, and a row limit. Execution works
// off the struct fields; this text is for humans.
func (q Query) String() string {
	var b strings.Builder
	b.WriteString("PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>\n")
	switch {
	case q.Form == FormDescribe:
		fmt.Fprintf(&b, "DESCRIBE ?uri WHERE { ?uri rdfs:label %q . }", q.Mention)
	case q.Empty():
		b.WriteString("SELECT ?uri ?relation ?content ?label WHERE { VALUES ?uri { } }")
	case len(q.RelationKeywords) > 0:
		b.WriteString("SELECT ?uri ?relation ?content ?label WHERE {\n  {\n")
		q.writeGroup(&b, "    ", true)
		b.WriteString("  }\n  UNION\n  {\n")
		q.writeGroup(&b, "    ", false)
		b.WriteString("  }\n}")
		fmt.Fprintf(&b, "\nLIMIT %d", q.Limit)
	default:
		b.WriteString("SELECT ?uri ?relation ?content ?label WHERE {\n")
		q.writeGroup(&b, "  ", false)
		b.WriteString("}")
		fmt.Fprintf(&b, "\nLIMIT %d", q.Limit)
	}
	return b.String()
}

func (q Query) writeGroup(b *strings.Builder, indent string, filtered bool) {
	fmt.Fprintf(b, "%s?uri rdfs:label ?lbl .\n", indent)
	fmt.Fprintf(b, "%sFILTER( CONTAINS(LCASE(STR(?lbl)), LCASE(%q)) )\n", indent, q.Mention)
	fmt.Fprintf(b, "%s?uri ?relation ?content .\n", indent)
	if filtered {
		terms := make([]string, len(q.RelationKeywords))
		for i, kw := range q.RelationKeywords {
			terms[i] = fmt.Sprintf("CONTAINS(LCASE(STR(?relation)), %q)", kw)
		}
		fmt.Fprintf(b, "%sFILTER( %s )\n", indent, strings.Join(terms, " || "))
	}
	fmt.Fprintf(b, "%sOPTIONAL { ?content rdfs:label ?label . }\n", indent)
}
