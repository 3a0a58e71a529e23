// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package annotate loads annotated documents produced by the external
// linguistic annotator, either from files exported ahead of time or
// live over HTTP, and validates their structural integrity before the
// extraction and question pipelines consume them.
// Implements: prd001-extraction (R5);
//
//	docs/ARCHITECTURE § Extraction.
package annotate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/medgraph/pkg/types"
)

// Decode reads one annotated document from r and validates it. JSON
// and YAML payloads are both accepted.
func Decode(r io.Reader) (*types.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeBytes parses one annotated document and validates it. A
// payload whose first significant byte is '{' parses as JSON,
// anything else as YAML.
func DecodeBytes(data []byte) (*types.Document, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("document is empty")
	}

	var doc types.Document
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("parsing JSON document: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("parsing YAML document: %w", err)
		}
	}

	if err := Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DecodeFile loads one annotated document from path.
func DecodeFile(path string) (*types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	doc, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Validate checks the document's internal references: token positions
// and heads, sentence boundaries, and span boundaries. The pipelines
// index into Tokens by these values, so a bad document must be
// rejected at the door rather than panic later.
func Validate(doc *types.Document) error {
	n := len(doc.Tokens)
	for i, t := range doc.Tokens {
		if t.I != i {
			return fmt.Errorf("token %d: position field is %d", i, t.I)
		}
		if t.Head < 0 || t.Head >= n {
			return fmt.Errorf("token %d: head %d out of range [0, %d)", i, t.Head, n)
		}
	}

	for i, s := range doc.Sentences {
		if s.Start < 0 || s.End > n || s.Start >= s.End {
			return fmt.Errorf("sentence %d: bounds [%d, %d) invalid for %d tokens", i, s.Start, s.End, n)
		}
	}

	if err := validateSpans("entity", doc.Entities, n); err != nil {
		return err
	}
	return validateSpans("noun chunk", doc.NounChunks, n)
}

func validateSpans(kind string, spans []types.Span, n int) error {
	for i, s := range spans {
		if s.Start < 0 || s.End > n || s.Start >= s.End {
			return fmt.Errorf("%s %d: bounds [%d, %d) invalid for %d tokens", kind, i, s.Start, s.End, n)
		}
		if s.Root < s.Start || s.Root >= s.End {
			return fmt.Errorf("%s %d: root %d outside span [%d, %d)", kind, i, s.Root, s.Start, s.End)
		}
	}
	return nil
}
