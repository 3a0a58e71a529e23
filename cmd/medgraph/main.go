// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the medgraph CLI.
// Implements: prd001-extraction, prd002-knowledge-graph,
//             prd003-question-compiler, prd004-retrieval,
//             prd005-source-store (CLI surface).
// See docs/ARCHITECTURE § Command-Line Interface.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/medgraph/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// logger carries diagnostics to stderr; command output goes to stdout.
var logger = log.NewWithOptions(os.Stderr, log.Options{})

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns fallback when set, else the secret value for
// key if one was loaded.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the medgraph CLI.
var rootCmd = &cobra.Command{
	Use:   "medgraph",
	Short: "Knowledge extraction and retrieval over annotated medical text",
	Long: `medgraph builds a triple-based knowledge graph from linguistically
annotated medical text and answers natural-language questions against it.

Annotated documents (produced by an external annotator service) are
ingested into subject-predicate-object triples with token-level
provenance. Questions compile into structured graph queries; answers
cite the evidence they are grounded in and refuse when the graph holds
none.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logger.SetLevel(log.DebugLevel)
		}
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", "keys", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./medgraph.yaml or ~/.config/medgraph/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("medgraph")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "medgraph"))
		}
	}

	viper.SetEnvPrefix("MEDGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
