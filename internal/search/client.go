package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// DatasetHeader scopes every request to one dataset
const DatasetHeader = "TR-Dataset"

// Endpoint paths relative to the base URL
const (
	GroupSearchPath = "/chunk_group/group_oriented_search"
	ChunkSearchPath = "/chunk/search"
)

const (
	searchTypeHybrid = "hybrid"
	maxErrorBody     = 512
)

// Request is the body sent to both search endpoints
type Request struct {
	Query               string   `json:"query"`
	SearchType          string   `json:"search_type"`
	HighlightDelimiters []string `json:"highlight_delimiters"`
}

// NewRequest builds a hybrid search request for query
func NewRequest(query string) Request {
	return Request{
		Query:               query,
		SearchType:          searchTypeHybrid,
		HighlightDelimiters: []string{" "},
	}
}

// Client talks to the hosted search service
type Client struct {
	baseURL    string
	apiKey     string
	datasetID  string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the client logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a search service client
func NewClient(baseURL, apiKey, datasetID string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		datasetID:  datasetID,
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("search")
	return c
}

// Post sends body to path and decodes a 2xx response into out.
// The request is aborted when ctx is canceled.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &TransportError{Err: err}
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set(DatasetHeader, c.datasetID)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("sending search request", zap.String("path", path))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &TransportError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to fetch search results: %s", strings.TrimSpace(string(snippet))),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &DecodeError{Err: err}
	}
	return nil
}
