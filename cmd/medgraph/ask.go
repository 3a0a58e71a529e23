// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/medgraph/internal/annotate"
	"github.com/pdiddy/medgraph/internal/embed"
	"github.com/pdiddy/medgraph/internal/retrieval"
	"github.com/pdiddy/medgraph/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the knowledge graph with cited evidence",
	Long: `Ask compiles a natural-language question into a structured graph query,
retrieves and ranks the supporting evidence, and prints a grounded
answer citing each source. When the graph holds no supporting evidence
the answer is an explicit refusal rather than a guess.

The question is annotated by the external annotator service unless
--input points at a pre-annotated question document.`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("input", "", "pre-annotated question document (JSON or YAML)")
	askCmd.Flags().String("annotator-url", "", "annotator service URL (overrides config)")
	askCmd.Flags().String("graph-db", "", "SQLite graph database path (overrides config)")
	askCmd.Flags().Float64("score-threshold", 0, "minimum source score for citation (overrides config)")
	askCmd.Flags().Int("fallback-limit", 0, "maximum lexical-fallback sources (overrides config)")
	askCmd.Flags().Bool("json", false, "output the full retrieval result as JSON")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	if input == "" && len(args) == 0 {
		return fmt.Errorf("provide a question (or --input with a pre-annotated document)")
	}

	cfg := pipelineConfig()
	if cmd.Flags().Changed("score-threshold") {
		cfg.Retrieval.ScoreThreshold, _ = cmd.Flags().GetFloat64("score-threshold")
	}
	if cmd.Flags().Changed("fallback-limit") {
		cfg.Retrieval.FallbackLimit, _ = cmd.Flags().GetInt("fallback-limit")
	}

	gs, err := openGraph(cmd, cfg.Graph)
	if err != nil {
		return err
	}
	defer gs.Close()

	ctx := cmd.Context()
	doc, err := questionDocument(ctx, cmd, cfg.Annotator, input, args)
	if err != nil {
		return err
	}

	var embedder embed.Embedder
	if cfg.Embedding.APIKey != "" {
		embedder, err = embed.NewOpenAI(cfg.Embedding)
		if err != nil {
			return err
		}
		logger.Debug("embedding enabled", "model", cfg.Embedding.Model)
	}

	engine := retrieval.NewEngine(gs, embedder, cfg.Retrieval, logger)
	out := engine.Answer(ctx, doc)

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	printAnswer(os.Stdout, out)
	return nil
}

// questionDocument loads the annotated question: from --input when
// given, otherwise by sending the joined arguments to the annotator.
func questionDocument(ctx context.Context, cmd *cobra.Command, cfg types.AnnotatorConfig, input string, args []string) (*types.Document, error) {
	if input != "" {
		return annotate.DecodeFile(input)
	}

	if cmd.Flags().Changed("annotator-url") {
		cfg.URL, _ = cmd.Flags().GetString("annotator-url")
	}
	client, err := annotate.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return client.Annotate(ctx, strings.Join(args, " "))
}

func printAnswer(w io.Writer, out *types.RetrievalOutput) {
	fmt.Fprintln(w, out.Summary)
	fmt.Fprintln(w)
	fmt.Fprintln(w, out.GroundedAnswer)

	if len(out.Sources) == 0 {
		return
	}
	fmt.Fprintf(w, "\nSources (%d):\n", len(out.Sources))
	for i, s := range out.Sources {
		score := "-"
		if s.Score != nil {
			score = fmt.Sprintf("%.3f", *s.Score)
		}
		fmt.Fprintf(w, "  %d. [%s] %s (%s, score %s)\n", i+1, s.SourceType, s.Title, s.ID, score)
	}
}
