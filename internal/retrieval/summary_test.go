package retrieval

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pdiddy/medgraph/internal/graph"
)

func TestSummarizeNilResult(t *testing.T) {
	if got := summarize(nil); got != "No RDF result object provided." {
		t.Errorf("got %q", got)
	}
}

func TestSummarizeEmptySelect(t *testing.T) {
	res := &graph.Result{Vars: []string{"uri", "relation", "content", "label"}}
	if got := summarize(res); got != "The SELECT query returned no results." {
		t.Errorf("got %q", got)
	}
}

func TestSummarizeRows(t *testing.T) {
	res := &graph.Result{
		Vars: []string{"uri", "relation", "content", "label"},
		Rows: []graph.Row{
			{"uri": "insulin", "relation": "treats", "content": "diabetes therapy", "label": "Insulin"},
			{"uri": "flu-1", "relation": "causes", "content": "Influenza infection"},
		},
	}

	want := strings.Join([]string{
		"Found 2 record(s).",
		"Variables: uri, relation, content, label",
		"",
		"Showing first 2 record(s):",
		"  1. uri: insulin, relation: treats, content: diabetes therapy, label: Insulin",
		"  2. uri: flu-1, relation: causes, content: Influenza infection, label: -",
		"",
		"Extracted Medical Entities:",
		"  - Disease: Influenza infection, flu-1",
		"  - Drug: Insulin, diabetes therapy, insulin",
	}, "\n")

	if got := summarize(res); got != want {
		t.Errorf("summarize:\n%s\nwant:\n%s", got, want)
	}
}

func TestSummarizeRowLimit(t *testing.T) {
	res := &graph.Result{Vars: []string{"uri"}}
	for i := 0; i < 7; i++ {
		res.Rows = append(res.Rows, graph.Row{"uri": fmt.Sprintf("s%d", i)})
	}

	got := summarize(res)
	if !strings.Contains(got, "Found 7 record(s).") {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(got, "Showing first 5 record(s):") {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(got, "  5. uri: s4") {
		t.Errorf("got %q", got)
	}
	if strings.Contains(got, "s5") || strings.Contains(got, "s6") {
		t.Errorf("rows past the cap rendered: %q", got)
	}
	if !strings.Contains(got, "  ... and 2 more result(s).") {
		t.Errorf("got %q", got)
	}
}

func TestSummarizeTriples(t *testing.T) {
	res := &graph.Result{}
	for i := 0; i < 6; i++ {
		res.Triples = append(res.Triples, graph.Triple{
			Subject:   fmt.Sprintf("s%d", i),
			Predicate: "treats",
			Object:    "hypertension",
		})
	}

	got := summarize(res)
	if !strings.HasPrefix(got, "Retrieved 6 RDF triple(s). Showing up to 5:") {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(got, "  1. s0 — treats → hypertension") {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(got, "  ... and 1 additional triple(s).") {
		t.Errorf("got %q", got)
	}
	if strings.Contains(got, "s5 —") {
		t.Errorf("triple past the cap rendered: %q", got)
	}
}

func TestSummarizeEmptyTriples(t *testing.T) {
	if got := summarize(&graph.Result{}); got != "No RDF triples returned." {
		t.Errorf("got %q", got)
	}
}
