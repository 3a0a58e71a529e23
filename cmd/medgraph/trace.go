// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/medgraph/internal/query"
	"github.com/pdiddy/medgraph/internal/sourcestore"
)

var traceCmd = &cobra.Command{
	Use:   "trace [subject]",
	Short: "Show the source passages behind a subject's triples",
	Long: `Trace resolves each stored triple of a subject back to the sentences it
was extracted from, using the token spans recorded at ingest time.
Widen the window with --before and --after.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().String("graph-db", "", "SQLite graph database path (overrides config)")
	traceCmd.Flags().String("sources-db", "", "SQLite source database path (overrides config)")
	traceCmd.Flags().Int("before", 0, "extra sentences before the matched span")
	traceCmd.Flags().Int("after", 0, "extra sentences after the matched span")
	traceCmd.Flags().Int("limit", 10, "maximum triples to trace")

	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	before, _ := cmd.Flags().GetInt("before")
	after, _ := cmd.Flags().GetInt("after")
	limit, _ := cmd.Flags().GetInt("limit")

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

	q := query.Describe(args[0])
	if limit > 0 {
		q.Limit = limit
	}

	ctx := cmd.Context()
	res, err := gs.Select(ctx, q)
	if err != nil {
		return err
	}
	if len(res.Triples) == 0 {
		return fmt.Errorf("no triples found for subject %q", args[0])
	}

	traced := 0
	for _, t := range res.Triples {
		if t.SourceID == "" {
			continue
		}
		passage, err := sourcestore.Trace(ctx, ss, t.SourceID, t.Start, t.End, before, after)
		if err != nil {
			logger.Warn("trace failed", "source", t.SourceID, "subject", t.Subject, "err", err)
			continue
		}
		traced++
		fmt.Printf("%s — %s → %s\n  %s [%d, %d]: %s\n", t.Subject, t.Predicate, t.Object, t.SourceID, t.Start, t.End, passage)
	}
	if traced == 0 {
		return fmt.Errorf("no traceable provenance for subject %q", args[0])
	}
	return nil
}
