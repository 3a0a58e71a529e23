package graph

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/medgraph/internal/query"
	"github.com/pdiddy/medgraph/internal/triples"
)

// --- test helpers ---

func newSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "graph.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// backends returns one store per implementation so every test runs
// against both.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": newSQLite(t),
	}
}

func sampleTriples() []Triple {
	return []Triple{
		{Subject: "hypertension", Predicate: "label", Object: "hypertension", SourceID: "doc-1", Start: 0, End: 0},
		{Subject: "hypertension", Predicate: "has_title", Object: "Hypertension Overview", SourceID: "doc-1", Start: 0, End: 5},
		{Subject: "hypertension", Predicate: "has_abstract", Object: "High blood pressure condition.", SourceID: "doc-1", Start: 6, End: 12},
		{Subject: "hypertension", Predicate: "inhibits", Object: "renin activity", SourceID: "doc-1", Start: 13, End: 18},
		{Subject: "aspirin", Predicate: "label", Object: "Aspirin", SourceID: "doc-2", Start: 0, End: 0},
		{Subject: "aspirin", Predicate: "treats", Object: "hypertension", SourceID: "doc-2", Start: 0, End: 6},
	}
}

func seed(t *testing.T, s Store) {
	t.Helper()
	if err := s.Insert(context.Background(), sampleTriples()); err != nil {
		t.Fatal(err)
	}
}

func selectQuery(mention string, keywords []string) query.Query {
	return query.Query{Form: query.FormSelect, Mention: mention, RelationKeywords: keywords, Limit: 100}
}

// --- insert tests ---

func TestInsertIdempotent(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s)
			seed(t, s)

			ts, err := s.Dump(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if len(ts) != len(sampleTriples()) {
				t.Errorf("got %d triples after double insert, want %d", len(ts), len(sampleTriples()))
			}
		})
	}
}

func TestDumpPreservesProvenance(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s)

			ts, err := s.Dump(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(ts, sampleTriples()) {
				t.Errorf("dump = %+v, want seed order and fields intact", ts)
			}
		})
	}
}

// --- select tests ---

func TestSelectBindsByLabel(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s)

			res, err := s.Select(context.Background(), selectQuery("hypertension", nil))
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Rows) != 4 {
				t.Fatalf("got %d rows, want 4: %v", len(res.Rows), res.Rows)
			}
			for _, row := range res.Rows {
				if row["uri"] != "hypertension" {
					t.Errorf("row bound subject %q, want hypertension", row["uri"])
				}
			}
			if !reflect.DeepEqual(res.Vars, []string{"uri", "relation", "content", "label"}) {
				t.Errorf("vars = %v", res.Vars)
			}
		})
	}
}

func TestSelectMatchesCaseInsensitively(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s)

			res, err := s.Select(context.Background(), selectQuery("HYPERTENSION", nil))
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Rows) != 4 {
				t.Errorf("got %d rows, want 4", len(res.Rows))
			}
		})
	}
}

func TestSelectBindsObjectLabel(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s)

			res, err := s.Select(context.Background(), selectQuery("aspirin", nil))
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Rows) != 2 {
				t.Fatalf("got %d rows, want 2: %v", len(res.Rows), res.Rows)
			}
			// (aspirin, treats, hypertension): the object names another
			// subject, so its label binds.
			var treats Row
			for _, row := range res.Rows {
				if row["relation"] == "treats" {
					treats = row
				}
			}
			if treats == nil {
				t.Fatalf("treats row missing: %v", res.Rows)
			}
			if treats["label"] != "hypertension" {
				t.Errorf("object label = %q, want hypertension", treats["label"])
			}
			// "renin activity" names no subject; its row has no label.
			res, err = s.Select(context.Background(), selectQuery("hypertension", nil))
			if err != nil {
				t.Fatal(err)
			}
			for _, row := range res.Rows {
				if row["relation"] == "inhibits" {
					if _, ok := row["label"]; ok {
						t.Errorf("inhibits row should not bind a label: %v", row)
					}
				}
			}
		})
	}
}

func TestSelectFilteredBranchFirst(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s)

			res, err := s.Select(context.Background(), selectQuery("hypertension", []string{"inhibit"}))
			if err != nil {
				t.Fatal(err)
			}
			// The filtered branch leads, the unfiltered branch follows,
			// and the row both produce appears once.
			if len(res.Rows) != 4 {
				t.Fatalf("got %d rows, want 4: %v", len(res.Rows), res.Rows)
			}
			if res.Rows[0]["relation"] != "inhibits" {
				t.Errorf("first row relation = %q, want inhibits", res.Rows[0]["relation"])
			}
			count := 0
			for _, row := range res.Rows {
				if row["relation"] == "inhibits" {
					count++
				}
			}
			if count != 1 {
				t.Errorf("inhibits row appears %d times, want 1", count)
			}
		})
	}
}

func TestSelectRespectsLimit(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s)

			q := selectQuery("hypertension", nil)
			q.Limit = 2
			res, err := s.Select(context.Background(), q)
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Rows) != 2 {
				t.Errorf("got %d rows, want 2", len(res.Rows))
			}
		})
	}
}

func TestSelectEmptyQuery(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s)

			res, err := s.Select(context.Background(), selectQuery("", nil))
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Rows) != 0 {
				t.Errorf("empty query returned %d rows", len(res.Rows))
			}
			if len(res.Vars) == 0 {
				t.Error("empty query result should still carry vars")
			}
		})
	}
}

func TestSelectNoMatch(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s)

			res, err := s.Select(context.Background(), selectQuery("warfarin", nil))
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Rows) != 0 {
				t.Errorf("got %d rows, want 0", len(res.Rows))
			}
		})
	}
}

// --- backend agreement ---

func TestBackendsAgree(t *testing.T) {
	queries := []struct {
		name string
		q    query.Query
	}{
		{"unfiltered", selectQuery("hypertension", nil)},
		{"filtered", selectQuery("hypertension", []string{"inhibit", "mechanism"})},
		{"object label", selectQuery("aspirin", nil)},
		{"no match", selectQuery("warfarin", nil)},
		{"describe", query.Describe("Aspirin")},
	}

	for _, tq := range queries {
		t.Run(tq.name, func(t *testing.T) {
			mem := NewMemory()
			sqt := newSQLite(t)
			seed(t, mem)
			seed(t, sqt)

			memRes, err := mem.Select(context.Background(), tq.q)
			if err != nil {
				t.Fatal(err)
			}
			sqtRes, err := sqt.Select(context.Background(), tq.q)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(memRes.Rows, sqtRes.Rows) {
				t.Errorf("rows disagree:\nmemory: %v\nsqlite: %v", memRes.Rows, sqtRes.Rows)
			}
			if !reflect.DeepEqual(memRes.Triples, sqtRes.Triples) {
				t.Errorf("triples disagree:\nmemory: %v\nsqlite: %v", memRes.Triples, sqtRes.Triples)
			}
		})
	}
}

// --- describe tests ---

func TestDescribe(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s)

			res, err := s.Select(context.Background(), query.Describe("aspirin"))
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Triples) != 2 {
				t.Fatalf("got %d triples, want 2: %v", len(res.Triples), res.Triples)
			}
			for _, tr := range res.Triples {
				if tr.Subject != "aspirin" {
					t.Errorf("subject = %q, want aspirin", tr.Subject)
				}
				if tr.SourceID != "doc-2" {
					t.Errorf("source = %q, want doc-2", tr.SourceID)
				}
			}

			// Any case variant normalizes onto the same identifier.
			res, err = s.Select(context.Background(), query.Describe("Hypertension"))
			if err != nil {
				t.Fatal(err)
			}
			if len(res.Triples) != 4 {
				t.Errorf("got %d triples, want 4", len(res.Triples))
			}
		})
	}
}

func TestDescribeRequiresSubject(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s)

			if _, err := s.Select(context.Background(), query.Describe("")); err == nil {
				t.Error("describe without a subject should fail")
			}
		})
	}
}

// --- subject literals ---

func TestSubjectLiterals(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, s)

			docs, err := s.SubjectLiterals(context.Background())
			if err != nil {
				t.Fatal(err)
			}
			if len(docs) != 2 {
				t.Fatalf("got %d subject docs, want 2: %v", len(docs), docs)
			}

			byID := make(map[string]SubjectDoc)
			for _, d := range docs {
				byID[d.Subject] = d
			}

			ht := byID["hypertension"]
			if ht.Label() != "hypertension" {
				t.Errorf("label = %q", ht.Label())
			}
			if len(ht.Pairs) != 4 {
				t.Errorf("got %d pairs, want 4: %v", len(ht.Pairs), ht.Pairs)
			}

			// The treats edge references another subject, so aspirin
			// keeps only its label literal.
			asp := byID["aspirin"]
			want := []LiteralPair{{Predicate: "label", Object: "Aspirin"}}
			if !reflect.DeepEqual(asp.Pairs, want) {
				t.Errorf("aspirin pairs = %v, want %v", asp.Pairs, want)
			}
		})
	}
}

// --- triple set mapping ---

func TestFromTripleSet(t *testing.T) {
	set := triples.NewSet()
	subj := set.GetOrCreateNode(triples.TextMention("High Blood Pressure"), "doc-9")
	obj := set.GetOrCreateNode(triples.TextMention("Hypertension"), "doc-9")
	pred := set.CreatePredicate(triples.TextMention("alias for"))
	loc := &triples.Loc{SourceID: "doc-9", Start: 0, End: 6}
	set.CreateTriple(subj, pred, obj, false, loc)

	second := set.CreatePredicate(triples.TextMention("affect"))
	target := set.GetOrCreateNode(triples.TextMention("the body's artery"), "doc-9")
	set.CreateTriple(subj, second, target, false, &triples.Loc{SourceID: "doc-9", Start: 7, End: 12})

	got := FromTripleSet(set)
	want := []Triple{
		{Subject: "high_blood_pressure", Predicate: "label", Object: "High Blood Pressure"},
		{Subject: "high_blood_pressure", Predicate: "alias_for", Object: "Hypertension", SourceID: "doc-9", Start: 0, End: 6},
		{Subject: "high_blood_pressure", Predicate: "affect", Object: "the body's artery", SourceID: "doc-9", Start: 7, End: 12},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FromTripleSet:\ngot  %+v\nwant %+v", got, want)
	}
}

// --- export tests ---

func TestExportYAML(t *testing.T) {
	s := NewMemory()
	seed(t, s)

	path := filepath.Join(t.TempDir(), "graph.yaml")
	if err := ExportYAML(context.Background(), s, path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var ts []Triple
	if err := yaml.Unmarshal(data, &ts); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if len(ts) != len(sampleTriples()) {
		t.Errorf("got %d triples, want %d", len(ts), len(sampleTriples()))
	}
	// Export is subject-ordered for stable diffs.
	if ts[0].Subject != "aspirin" {
		t.Errorf("first subject = %q, want aspirin", ts[0].Subject)
	}
}

func TestExportJSON(t *testing.T) {
	s := NewMemory()
	seed(t, s)

	path := filepath.Join(t.TempDir(), "graph.json")
	if err := ExportJSON(context.Background(), s, path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var ts []Triple
	if err := json.Unmarshal(data, &ts); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(ts) != len(sampleTriples()) {
		t.Errorf("got %d triples, want %d", len(ts), len(sampleTriples()))
	}
}

// --- stats ---

func TestCollectStats(t *testing.T) {
	s := NewMemory()
	seed(t, s)

	stats, err := CollectStats(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	want := Stats{Triples: 6, Subjects: 2, Predicates: 5, Sources: 2}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}
