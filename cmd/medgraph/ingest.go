// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/cobra"

	"github.com/pdiddy/medgraph/internal/annotate"
	"github.com/pdiddy/medgraph/internal/extract"
	"github.com/pdiddy/medgraph/internal/graph"
	"github.com/pdiddy/medgraph/internal/sourcestore"
	"github.com/pdiddy/medgraph/pkg/types"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Extract triples from annotated documents into the graph",
	Long: `Ingest reads annotated documents (JSON or YAML, as produced by the
annotator service), extracts subject-predicate-object triples from
their dependency trees, and stores them in the knowledge graph. The
documents themselves are kept in the source store so extracted facts
can later be traced back to their sentences.

With --text, each argument is raw text sent to the annotator service
first; the source identifier is generated.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().String("graph-db", "", "SQLite graph database path (overrides config)")
	ingestCmd.Flags().String("sources-db", "", "source store path (overrides config; empty = in-memory)")
	ingestCmd.Flags().String("source-id", "", "source identifier for a single input (default: file name or generated)")
	ingestCmd.Flags().Bool("text", false, "treat arguments as raw text and call the annotator")
	ingestCmd.Flags().String("annotator-url", "", "annotator service URL (overrides config)")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more annotated document files (or raw text with --text)")
	}

	sourceID, _ := cmd.Flags().GetString("source-id")
	if sourceID != "" && len(args) > 1 {
		return fmt.Errorf("--source-id applies to a single input, got %d", len(args))
	}

	cfg := pipelineConfig()

	gs, err := openGraph(cmd, cfg.Graph)
	if err != nil {
		return err
	}
	defer gs.Close()

	ss, err := openSources(cmd, cfg.Sources)
	if err != nil {
		return err
	}
	defer ss.Close()

	asText, _ := cmd.Flags().GetBool("text")
	ctx := cmd.Context()

	total := 0
	for _, arg := range args {
		doc, id, err := loadInput(ctx, cmd, cfg.Annotator, arg, asText)
		if err != nil {
			return err
		}
		if sourceID != "" {
			id = sourceID
		}

		n, err := ingestDocument(ctx, gs, ss, doc, id)
		if err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		fmt.Fprintf(os.Stdout, "%s: %d triple(s)\n", id, n)
		total += n
	}

	fmt.Fprintf(os.Stdout, "Ingested %d triple(s) from %d document(s).\n", total, len(args))
	return nil
}

// loadInput resolves one ingest argument into an annotated document
// and its source identifier: a file path by default, raw annotator
// input with --text.
func loadInput(ctx context.Context, cmd *cobra.Command, cfg types.AnnotatorConfig, arg string, asText bool) (*types.Document, string, error) {
	if asText {
		if cmd.Flags().Changed("annotator-url") {
			cfg.URL, _ = cmd.Flags().GetString("annotator-url")
		}
		client, err := annotate.NewClient(cfg)
		if err != nil {
			return nil, "", err
		}
		doc, err := client.Annotate(ctx, arg)
		if err != nil {
			return nil, "", err
		}
		id, err := gonanoid.New()
		if err != nil {
			return nil, "", fmt.Errorf("generating source id: %w", err)
		}
		return doc, id, nil
	}

	doc, err := annotate.DecodeFile(arg)
	if err != nil {
		return nil, "", err
	}
	// File name as source id keeps re-ingesting the same file
	// idempotent.
	id := strings.TrimSuffix(filepath.Base(arg), filepath.Ext(arg))
	return doc, id, nil
}

func ingestDocument(ctx context.Context, gs graph.Store, ss sourcestore.Store, doc *types.Document, sourceID string) (int, error) {
	set := extract.Extract(doc, sourceID)
	rows := graph.FromTripleSet(set)
	if err := gs.Insert(ctx, rows); err != nil {
		return 0, err
	}
	if err := ss.Put(ctx, sourceID, doc); err != nil {
		return 0, err
	}
	logger.Debug("ingested document", "source", sourceID, "triples", len(rows))
	return len(rows), nil
}
