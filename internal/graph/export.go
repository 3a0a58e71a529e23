// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes every stored triple to path as YAML, ordered by
// subject, predicate, object for stable diffs.
func ExportYAML(ctx context.Context, s Store, path string) error {
	ts, err := exportTriples(ctx, s)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(ts)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ExportJSON writes every stored triple to path as indented JSON,
// ordered like ExportYAML.
func ExportJSON(ctx context.Context, s Store, path string) error {
	ts, err := exportTriples(ctx, s)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(ts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

func exportTriples(ctx context.Context, s Store) ([]Triple, error) {
	ts, err := s.Dump(ctx)
	if err != nil {
		return nil, fmt.Errorf("dumping graph: %w", err)
	}
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].Subject != ts[j].Subject {
			return ts[i].Subject < ts[j].Subject
		}
		if ts[i].Predicate != ts[j].Predicate {
			return ts[i].Predicate < ts[j].Predicate
		}
		return ts[i].Object < ts[j].Object
	})
	return ts, nil
}

// Stats summarizes a stored graph.
type Stats struct {
	Triples    int `json:"triples" yaml:"triples"`
	Subjects   int `json:"subjects" yaml:"subjects"`
	Predicates int `json:"predicates" yaml:"predicates"`
	Sources    int `json:"sources" yaml:"sources"`
}

// CollectStats counts stored triples and their distinct subjects,
// predicates, and source documents.
func CollectStats(ctx context.Context, s Store) (Stats, error) {
	ts, err := s.Dump(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("dumping graph: %w", err)
	}
	subjects := make(map[string]bool)
	predicates := make(map[string]bool)
	sources := make(map[string]bool)
	for _, t := range ts {
		subjects[t.Subject] = true
		predicates[t.Predicate] = true
		if t.SourceID != "" {
			sources[t.SourceID] = true
		}
	}
	return Stats{
		Triples:    len(ts),
		Subjects:   len(subjects),
		Predicates: len(predicates),
		Sources:    len(sources),
	}, nil
}
