package types

import "time"

// AnnotatorConfig holds settings for the external linguistic annotator
// service. Per prd001-extraction R5.1-R5.3.
type AnnotatorConfig struct {
	// URL is the base URL of the annotator HTTP endpoint
	// (e.g. "http://localhost:8090/annotate").
	URL string `json:"url" yaml:"url"`

	// Timeout is the HTTP request timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries is the number of retry attempts for failed annotator
	// calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// UserAgent is the User-Agent header sent with annotator requests
	// (e.g. "medgraph/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// GraphConfig holds settings for the knowledge graph store.
// Per prd002-knowledge-graph R1.1, R5.2.
type GraphConfig struct {
	// Path is the SQLite database file backing the graph
	// (default "medgraph.db").
	Path string `json:"path" yaml:"path"`
}

// SourceStoreConfig holds settings for the annotated-document store
// used to recover source passages for citations.
// Per prd005-source-store R1.3.
type SourceStoreConfig struct {
	// Path is the SQLite database file backing the document store.
	// Empty selects the in-memory store, which does not survive the
	// process.
	Path string `json:"path" yaml:"path"`
}

// EmbeddingConfig holds settings for the optional embedding model used
// to blend semantic similarity into retrieval scores.
// Per prd004-retrieval R4.3-R4.4.
type EmbeddingConfig struct {
	// Model is the embedding model identifier
	// (e.g. "text-embedding-3-small").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the embedding API. Empty
	// disables embedding entirely; retrieval then scores by lexical
	// overlap alone.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the embedding API endpoint, for self-hosted
	// OpenAI-compatible servers. Empty uses the provider default.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Timeout is the embedding request timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// RetrievalConfig holds settings for the retrieval engine.
// Per prd004-retrieval R5.1, R6.2.
type RetrievalConfig struct {
	// FallbackLimit is the maximum number of subjects returned by the
	// BM25 lexical fallback (default 10).
	FallbackLimit int `json:"fallback_limit" yaml:"fallback_limit"`

	// ScoreThreshold is the minimum score a source must reach to be
	// cited in the grounded answer (default 0: keep everything).
	ScoreThreshold float64 `json:"score_threshold" yaml:"score_threshold"`
}

// PipelineConfig groups all component configurations.
type PipelineConfig struct {
	Annotator AnnotatorConfig   `json:"annotator" yaml:"annotator"`
	Graph     GraphConfig       `json:"graph" yaml:"graph"`
	Sources   SourceStoreConfig `json:"sources" yaml:"sources"`
	Embedding EmbeddingConfig   `json:"embedding" yaml:"embedding"`
	Retrieval RetrievalConfig   `json:"retrieval" yaml:"retrieval"`
}
