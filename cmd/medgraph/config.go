// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/medgraph/internal/graph"
	"github.com/pdiddy/medgraph/internal/sourcestore"
	"github.com/pdiddy/medgraph/pkg/types"
)

// setDefaults registers the configuration defaults read by
// pipelineConfig. Keys mirror the PipelineConfig YAML layout, so a
// config file section like "graph: {path: ...}" and the environment
// variable MEDGRAPH_GRAPH_PATH address the same setting.
func setDefaults() {
	viper.SetDefault("annotator.url", "http://localhost:8090/annotate")
	viper.SetDefault("annotator.timeout", 30*time.Second)
	viper.SetDefault("annotator.max_retries", 3)
	viper.SetDefault("annotator.user_agent", "medgraph/0.1")
	viper.SetDefault("graph.path", "medgraph.db")
	viper.SetDefault("sources.path", "medgraph-sources.db")
	viper.SetDefault("embedding.model", "")
	viper.SetDefault("embedding.api_key", "")
	viper.SetDefault("embedding.base_url", "")
	viper.SetDefault("embedding.timeout", 30*time.Second)
	viper.SetDefault("retrieval.fallback_limit", 10)
	viper.SetDefault("retrieval.score_threshold", 0.0)
}

// pipelineConfig assembles the component configuration from viper:
// config file, MEDGRAPH_* environment, then defaults.
func pipelineConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Annotator: types.AnnotatorConfig{
			URL:        viper.GetString("annotator.url"),
			Timeout:    viper.GetDuration("annotator.timeout"),
			MaxRetries: viper.GetInt("annotator.max_retries"),
			UserAgent:  viper.GetString("annotator.user_agent"),
		},
		Graph:   types.GraphConfig{Path: viper.GetString("graph.path")},
		Sources: types.SourceStoreConfig{Path: viper.GetString("sources.path")},
		Embedding: types.EmbeddingConfig{
			Model:   viper.GetString("embedding.model"),
			APIKey:  secretDefault("embedding-api-key", viper.GetString("embedding.api_key")),
			BaseURL: viper.GetString("embedding.base_url"),
			Timeout: viper.GetDuration("embedding.timeout"),
		},
		Retrieval: types.RetrievalConfig{
			FallbackLimit:  viper.GetInt("retrieval.fallback_limit"),
			ScoreThreshold: viper.GetFloat64("retrieval.score_threshold"),
		},
	}
}

// openGraph opens the SQLite graph store at the configured path. The
// --graph-db flag overrides the config file.
func openGraph(cmd *cobra.Command, cfg types.GraphConfig) (graph.Store, error) {
	if cmd.Flags().Changed("graph-db") {
		cfg.Path, _ = cmd.Flags().GetString("graph-db")
	}
	return graph.OpenSQLite(cfg.Path)
}

// openSources opens the source document store. An empty path selects
// the in-memory store, which lives only for this process.
func openSources(cmd *cobra.Command, cfg types.SourceStoreConfig) (sourcestore.Store, error) {
	if cmd.Flags().Changed("sources-db") {
		cfg.Path, _ = cmd.Flags().GetString("sources-db")
	}
	if cfg.Path == "" {
		return sourcestore.NewMemory(), nil
	}
	return sourcestore.OpenSQLite(cfg.Path)
}
