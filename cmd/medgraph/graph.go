// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/medgraph/internal/graph"
	"github.com/pdiddy/medgraph/internal/query"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Inspect and export the knowledge graph",
	Long: `Graph inspects a stored knowledge graph. Use subcommands to export
triples, print graph statistics, or describe a single subject.`,
}

// --- export subcommand ---

var graphExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all stored triples to YAML or JSON",
	Long: `Export writes every stored triple, ordered by subject, predicate, and
object, to a YAML or JSON file for inspection or downstream tooling.`,
	RunE: runGraphExport,
}

func runGraphExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	gs, err := openGraph(cmd, pipelineConfig().Graph)
	if err != nil {
		return err
	}
	defer gs.Close()

	ctx := cmd.Context()
	switch format {
	case "yaml", "":
		if out == "" {
			out = "medgraph-export.yaml"
		}
		if err := graph.ExportYAML(ctx, gs, out); err != nil {
			return err
		}
	case "json":
		if out == "" {
			out = "medgraph-export.json"
		}
		if err := graph.ExportJSON(ctx, gs, out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	fmt.Printf("Exported to %s\n", out)
	return nil
}

// --- stats subcommand ---

var graphStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print knowledge graph statistics",
	RunE:  runGraphStats,
}

func runGraphStats(cmd *cobra.Command, args []string) error {
	gs, err := openGraph(cmd, pipelineConfig().Graph)
	if err != nil {
		return err
	}
	defer gs.Close()

	stats, err := graph.CollectStats(cmd.Context(), gs)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	fmt.Printf("Triples:    %d\n", stats.Triples)
	fmt.Printf("Subjects:   %d\n", stats.Subjects)
	fmt.Printf("Predicates: %d\n", stats.Predicates)
	fmt.Printf("Sources:    %d\n", stats.Sources)
	return nil
}

// --- describe subcommand ---

var graphDescribeCmd = &cobra.Command{
	Use:   "describe [subject]",
	Short: "Print every triple of one subject",
	Long: `Describe prints every stored triple whose subject matches the given
identifier or label, with token-level provenance where recorded.`,
	Args: cobra.ExactArgs(1),
	RunE: runGraphDescribe,
}

func runGraphDescribe(cmd *cobra.Command, args []string) error {
	gs, err := openGraph(cmd, pipelineConfig().Graph)
	if err != nil {
		return err
	}
	defer gs.Close()

	q := query.Describe(args[0])
	if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
		q.Limit = limit
	}

	res, err := gs.Select(cmd.Context(), q)
	if err != nil {
		return err
	}
	if len(res.Triples) == 0 {
		fmt.Printf("No triples found for %q.\n", args[0])
		return nil
	}

	for _, t := range res.Triples {
		fmt.Printf("%s — %s → %s\n", t.Subject, t.Predicate, t.Object)
		if t.SourceID != "" {
			fmt.Printf("  (%s [%d, %d])\n", t.SourceID, t.Start, t.End)
		}
	}
	return nil
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	graphCmd.PersistentFlags().String("graph-db", "", "SQLite graph database path (overrides config)")

	// Export flags.
	graphExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	graphExportCmd.Flags().String("out", "", "output file (default medgraph-export.yaml or .json)")

	// Stats flags.
	graphStatsCmd.Flags().Bool("json", false, "output statistics as JSON")

	// Describe flags.
	graphDescribeCmd.Flags().Int("limit", 0, "maximum triples to print (0 = query default)")

	// Wire subcommands.
	graphCmd.AddCommand(graphExportCmd)
	graphCmd.AddCommand(graphStatsCmd)
	graphCmd.AddCommand(graphDescribeCmd)

	rootCmd.AddCommand(graphCmd)
}
