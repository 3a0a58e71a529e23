// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/medgraph/internal/graph"
)

// summaryRows caps how many records the summary prints in full.
const summaryRows = 5

// entityCues buckets displayed values into medical categories for the
// summary tail. Categories render in this order; a value may land in
// several.
var entityCues = []struct {
	category string
	cues     []string
}{
	{"Disease", []string{"disease", "syndrome", "disorder", "infection", "cancer", "flu"}},
	{"Drug", []string{"drug", "compound", "insulin", "aspirin", "therapy", "treatment"}},
	{"Gene", []string{"gene", "protein", "enzyme", "mutation"}},
	{"Symptom", []string{"symptom", "pain", "fever", "nausea"}},
}

// summarize renders a query result as readable text: the record count,
// the projected variables, the first few rows, and a keyword bucketing
// of bound values into medical categories. Graph-shaped results render
// as triples instead. A nil result stands for a failed execution.
func summarize(res *graph.Result) string {
	if res == nil {
		return "No RDF result object provided."
	}

	if len(res.Vars) == 0 {
		return summarizeTriples(res.Triples)
	}

	if len(res.Rows) == 0 {
		return "The SELECT query returned no results."
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("Found %d record(s).", len(res.Rows)))
	lines = append(lines, "Variables: "+strings.Join(res.Vars, ", "))

	limit := summaryRows
	if len(res.Rows) < limit {
		limit = len(res.Rows)
	}
	lines = append(lines, fmt.Sprintf("\nShowing first %d record(s):", limit))
	for i := 0; i < limit; i++ {
		pairs := make([]string, len(res.Vars))
		for j, v := range res.Vars {
			pairs[j] = v + ": " + displayValue(res.Rows[i], v)
		}
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, strings.Join(pairs, ", ")))
	}
	if len(res.Rows) > limit {
		lines = append(lines, fmt.Sprintf("  ... and %d more result(s).", len(res.Rows)-limit))
	}

	if buckets := medicalEntities(res.Rows); len(buckets) > 0 {
		lines = append(lines, "\nExtracted Medical Entities:")
		lines = append(lines, buckets...)
	}

	return strings.Join(lines, "\n")
}

// displayValue renders one variable of a row, "-" when unbound.
func displayValue(row graph.Row, v string) string {
	if val, ok := row[v]; ok {
		return val
	}
	return "-"
}

func summarizeTriples(ts []graph.Triple) string {
	if len(ts) == 0 {
		return "No RDF triples returned."
	}
	lines := []string{fmt.Sprintf("Retrieved %d RDF triple(s). Showing up to %d:", len(ts), summaryRows)}
	limit := summaryRows
	if len(ts) < limit {
		limit = len(ts)
	}
	for i := 0; i < limit; i++ {
		t := ts[i]
		lines = append(lines, fmt.Sprintf("  %d. %s — %s → %s", i+1, t.Subject, t.Predicate, t.Object))
	}
	if len(ts) > limit {
		lines = append(lines, fmt.Sprintf("  ... and %d additional triple(s).", len(ts)-limit))
	}
	return strings.Join(lines, "\n")
}

// medicalEntities buckets bound row values by keyword cue, returning
// one rendered line per non-empty category.
func medicalEntities(rows []graph.Row) []string {
	found := make(map[string]map[string]bool)
	for _, row := range rows {
		for _, val := range row {
			if val == "" {
				continue
			}
			lower := strings.ToLower(val)
			for _, bucket := range entityCues {
				for _, cue := range bucket.cues {
					if strings.Contains(lower, cue) {
						if found[bucket.category] == nil {
							found[bucket.category] = make(map[string]bool)
						}
						found[bucket.category][val] = true
						break
					}
				}
			}
		}
	}

	var lines []string
	for _, bucket := range entityCues {
		vals := found[bucket.category]
		if len(vals) == 0 {
			continue
		}
		terms := make([]string, 0, len(vals))
		for v := range vals {
			terms = append(terms, v)
		}
		sort.Strings(terms)
		lines = append(lines, fmt.Sprintf("  - %s: %s", bucket.category, strings.Join(terms, ", ")))
	}
	return lines
}
