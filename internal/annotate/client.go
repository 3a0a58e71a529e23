// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package annotate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/medgraph/internal/httputil"
	"github.com/pdiddy/medgraph/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "medgraph/0.1"
)

// Client calls the external linguistic annotator service over HTTP.
type Client struct {
	httpClient *http.Client
	cfg        types.AnnotatorConfig
}

// NewClient builds an annotator client from its configuration. The URL
// must point at the service's annotate endpoint.
func NewClient(cfg types.AnnotatorConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("annotator URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}, nil
}

// annotateRequest is the wire request of the annotator service.
type annotateRequest struct {
	Text string `json:"text"`
}

// Annotate sends raw text to the annotator and returns the validated
// annotated document. Transient annotator failures are retried by the
// transport.
func (c *Client) Annotate(ctx context.Context, text string) (*types.Document, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("annotate: text is empty")
	}

	payload, err := json.Marshal(annotateRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("encoding annotate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating annotate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.cfg.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("annotator request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("annotator returned HTTP %d", resp.StatusCode)
	}

	var doc types.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing annotator response: %w", err)
	}
	if err := Validate(&doc); err != nil {
		return nil, fmt.Errorf("annotator response: %w", err)
	}
	return &doc, nil
}
