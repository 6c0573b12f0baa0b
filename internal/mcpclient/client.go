// Package mcpclient is a minimal MCP (Model Context Protocol) client: JSON-RPC
// 2.0 over HTTP POST, with the retry/backoff, SSE-vs-JSON framing detection,
// and cursor pagination owned directly by this package rather than hidden
// inside a third-party SDK's transport.
package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	ProtocolVersion    = "2024-11-05"
	ClientName         = "warden"
	DefaultCallTimeout = 30 * time.Second
)

// Config configures a single MCP server connection.
type Config struct {
	BaseURL     string
	BearerToken string
	Headers     map[string]string // extra headers, e.g. from repeated --header "K: V"

	MaxRetries     int           // default 3
	RetryBaseDelay time.Duration // default 250ms
	CallTimeout    time.Duration // default 30s

	HTTPClient *http.Client // optional override, mainly for tests
}

func (c Config) withDefaults() Config {
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = DefaultCallTimeout
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	return c
}

// ServerInfo is what initialize harvests when it succeeds.
type ServerInfo struct {
	Instructions    string
	ProtocolVersion string
	Name            string
	Version         string
}

// Client speaks JSON-RPC 2.0 to a single MCP server over HTTP. Safe for
// concurrent use; the request id counter is atomic.
type Client struct {
	cfg    Config
	nextID int64
}

// New constructs a Client for cfg, filling in defaults for any zero-valued
// field.
func New(cfg Config) *Client {
	return &Client{cfg: cfg.withDefaults()}
}

// Initialize performs the best-effort MCP handshake. A failure here is
// never fatal to the caller; ok reports whether it succeeded, and info is
// the zero value when it did not.
func (c *Client) Initialize(ctx context.Context) (info ServerInfo, ok bool) {
	params := map[string]any{
		"protocolVersion": ProtocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo": map[string]any{
			"name":    ClientName,
			"version": "1.0.0",
		},
	}

	raw, err := c.Call(ctx, "initialize", params)
	if err != nil {
		return ServerInfo{}, false
	}

	var result struct {
		Instructions    string `json:"instructions"`
		ProtocolVersion string `json:"protocolVersion"`
		ServerInfo      struct {
			Name    string `json:"name"`
			Version string `json:"version"`
		} `json:"serverInfo"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return ServerInfo{}, false
	}

	return ServerInfo{
		Instructions:    result.Instructions,
		ProtocolVersion: result.ProtocolVersion,
		Name:            result.ServerInfo.Name,
		Version:         result.ServerInfo.Version,
	}, true
}

// ReadResource calls resources/read for uri and returns the concatenation of
// every contents[].text field, truncated to maxBytes of UTF-8 encoding.
func (c *Client) ReadResource(ctx context.Context, uri string, maxBytes int) (string, error) {
	raw, err := c.Call(ctx, "resources/read", map[string]any{"uri": uri})
	if err != nil {
		return "", err
	}

	var result struct {
		Contents []struct {
			Text string `json:"text"`
		} `json:"contents"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("mcpclient: decode resources/read result: %w", err)
	}

	var out []byte
	for _, item := range result.Contents {
		out = append(out, item.Text...)
		if maxBytes > 0 && len(out) >= maxBytes {
			break
		}
	}
	if maxBytes > 0 && len(out) > maxBytes {
		out = truncateUTF8(out, maxBytes)
	}
	return string(out), nil
}

func (c *Client) nextRequestID() int64 {
	return atomic.AddInt64(&c.nextID, 1)
}

// truncateUTF8 cuts b to at most n bytes without splitting a multi-byte
// UTF-8 rune.
func truncateUTF8(b []byte, n int) []byte {
	if n >= len(b) {
		return b
	}
	for n > 0 && isUTF8Continuation(b[n]) {
		n--
	}
	return b[:n]
}

func isUTF8Continuation(b byte) bool {
	return b&0xC0 == 0x80
}
