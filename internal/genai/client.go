// Package genai streams completions from the generation gateway.
// It speaks the OpenAI-compatible chunked SSE dialect and hands callers a
// pull-style stream of text deltas; classification of gateway failures
// and the per-key in-flight guard both live here so handlers stay thin.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"creatorlabs.app/internal/sse"
)

// Request describes one generation call.
type Request struct {
	System      string  `json:"system,omitempty"`
	Prompt      string  `json:"prompt"`
	Temperature float64 `json:"temperature,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Stream      bool    `json:"stream"`
}

// Client talks to the generation gateway. Safe for concurrent use.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client

	mu       sync.Mutex
	inflight map[string]struct{}
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient builds a gateway client for the given endpoint.
func NewClient(endpoint, apiKey string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		httpClient: &http.Client{
			// Covers connect and header exchange; streaming bodies are
			// bounded by the request context instead.
			Timeout: 0,
		},
		inflight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate starts a streaming generation under the given request key.
// A second call with the same key while the first is still streaming
// fails with ErrInFlight; the key is released when the stream drains or
// the context ends. Deltas arrive through the returned stream in order.
func (c *Client) Generate(ctx context.Context, key string, req Request) (*sse.Stream, error) {
	if key == "" {
		return nil, fmt.Errorf("genai: empty request key")
	}
	if err := c.acquire(key); err != nil {
		return nil, err
	}

	req.Stream = true
	body, err := json.Marshal(req)
	if err != nil {
		c.release(key)
		return nil, fmt.Errorf("genai: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/completions", bytes.NewReader(body))
	if err != nil {
		c.release(key)
		return nil, fmt.Errorf("genai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.release(key)
		return nil, &Error{Kind: KindTransport, Err: err}
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		c.release(key)
		return nil, classifyStatus(resp.StatusCode, string(snippet))
	}

	deltas := make(chan string)
	errC := make(chan error, 1)
	go c.pump(ctx, key, resp.Body, deltas, errC)
	return sse.NewStream(deltas, errC), nil
}

// pump reads the response body chunk by chunk, decodes frames and feeds
// deltas downstream until the sentinel, EOF or context cancellation.
func (c *Client) pump(ctx context.Context, key string, body io.ReadCloser, deltas chan<- string, errC chan<- error) {
	defer c.release(key)
	defer body.Close()
	defer close(deltas)

	dec := sse.NewDecoder()
	buf := make([]byte, 4096)
	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			for _, delta := range dec.Feed(buf[:n]) {
				select {
				case deltas <- delta:
				case <-ctx.Done():
					errC <- ctx.Err()
					return
				}
			}
		}
		if dec.Done() {
			return
		}
		if readErr != nil {
			if readErr != io.EOF {
				errC <- &Error{Kind: KindTransport, Err: readErr}
			}
			return
		}
	}
}

func (c *Client) acquire(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inflight[key]; busy {
		return ErrInFlight
	}
	c.inflight[key] = struct{}{}
	return nil
}

func (c *Client) release(key string) {
	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
}

// Complete runs a generation to completion and returns the full text.
// Used where the caller needs the whole result before responding.
func (c *Client) Complete(ctx context.Context, key string, req Request) (string, error) {
	stream, err := c.Generate(ctx, key, req)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for stream.Next() {
		b.WriteString(stream.Current())
	}
	if err := stream.Err(); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RequestKey builds the in-flight guard key for a user and tool.
func RequestKey(userID, toolID string) string {
	return userID + "/" + toolID
}
