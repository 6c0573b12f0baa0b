package mcpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/agentwarden/warden/internal/scanerrors"
)

// rpcRequest is the JSON-RPC 2.0 request envelope.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// rpcError is the JSON-RPC 2.0 error object.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// rpcResponse is the JSON-RPC 2.0 response envelope.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

// MethodNotFoundCode is the JSON-RPC reserved code for "method not found".
const MethodNotFoundCode = -32601

// Call issues a single JSON-RPC request (with retry) and returns the decoded
// result payload. A -32601 response is surfaced as scanerrors.MCPMethodNotFound
// so callers can treat the feature as absent rather than failed.
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextRequestID(),
		Method:  method,
		Params:  params,
	}

	resp, err := callWithRetry(ctx, c.cfg, func(callCtx context.Context) (rpcResponse, retryClass, error) {
		return c.doOnce(callCtx, req)
	})
	if err != nil {
		return nil, err
	}

	if resp.Error != nil {
		if resp.Error.Code == MethodNotFoundCode {
			return nil, scanerrors.MCPMethodNotFound(method)
		}
		return nil, scanerrors.MCPRPCError(resp.Error.Code, resp.Error.Message)
	}

	return resp.Result, nil
}

// doOnce performs a single HTTP round-trip for req and classifies the
// outcome for the retry policy. It never retries itself; callWithRetry owns
// the loop.
func (c *Client) doOnce(ctx context.Context, req rpcRequest) (rpcResponse, retryClass, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return rpcResponse{}, noRetry, fmt.Errorf("mcpclient: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return rpcResponse{}, noRetry, fmt.Errorf("mcpclient: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json, text/event-stream")
	if c.cfg.BearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)
	}
	for k, v := range c.cfg.Headers {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := c.cfg.HTTPClient.Do(httpReq)
	if err != nil {
		return rpcResponse{}, retryableNetwork, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return rpcResponse{}, retryableNetwork, fmt.Errorf("mcpclient: read response: %w", err)
	}

	if httpResp.StatusCode >= 500 {
		return rpcResponse{}, retryableNetwork, fmt.Errorf("mcpclient: server error %d", httpResp.StatusCode)
	}
	if httpResp.StatusCode >= 400 {
		return rpcResponse{}, noRetry, fmt.Errorf("mcpclient: client error %d", httpResp.StatusCode)
	}

	payload, err := extractJSONPayload(raw)
	if err != nil {
		return rpcResponse{}, noRetry, err
	}

	var resp rpcResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return rpcResponse{}, noRetry, fmt.Errorf("mcpclient: decode response: %w", err)
	}

	return resp, noRetry, nil
}
