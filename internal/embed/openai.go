// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package embed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/pdiddy/medgraph/pkg/types"
)

// OpenAI is an Embedder backed by the OpenAI embeddings API or any
// compatible endpoint.
type OpenAI struct {
	client  *openai.Client
	model   openai.EmbeddingModel
	timeout time.Duration
}

var _ Embedder = (*OpenAI)(nil)

// NewOpenAI builds an embedder from config. The API key is required;
// BaseURL switches to a self-hosted OpenAI-compatible server.
func NewOpenAI(cfg types.EmbeddingConfig) (*OpenAI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("embedding API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	model := openai.EmbeddingModel(cfg.Model)
	if cfg.Model == "" {
		model = openai.SmallEmbedding3
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &OpenAI{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		timeout: timeout,
	}, nil
}

// Embed returns the embedding vector for text.
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: o.model,
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("embedding response is empty")
	}
	return resp.Data[0].Embedding, nil
}
