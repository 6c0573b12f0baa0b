package mcpclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agentwarden/warden/internal/scanerrors"
)

// MaxListItems caps aggregated results from a paginated list call, to
// prevent a misbehaving or malicious server from exhausting memory.
const MaxListItems = 20000

// ListPage calls method repeatedly, following result.nextCursor, appending
// result[itemsKey] items from each page until the cursor is empty or
// MaxListItems is reached. A -32601 (method not found) response on the
// first page is treated as "feature absent" and returns an empty, non-error
// result; the same error on a later page is returned as a failure, since a
// server that started paginating should not stop supporting the method
// mid-stream.
func (c *Client) ListPage(ctx context.Context, method, itemsKey string) ([]json.RawMessage, error) {
	var (
		out    []json.RawMessage
		cursor string
		first  = true
	)

	for {
		params := map[string]any{}
		if cursor != "" {
			params["cursor"] = cursor
		}

		raw, err := c.Call(ctx, method, params)
		if err != nil {
			if first && isMethodNotFound(err) {
				return nil, nil
			}
			return out, err
		}
		first = false

		var generic map[string]json.RawMessage
		if err := json.Unmarshal(raw, &generic); err != nil {
			return out, fmt.Errorf("mcpclient: decode %s page: %w", method, err)
		}

		var nextCursor string
		if nc, ok := generic["nextCursor"]; ok {
			_ = json.Unmarshal(nc, &nextCursor)
		}

		var items []json.RawMessage
		if itemsRaw, ok := generic[itemsKey]; ok {
			if err := json.Unmarshal(itemsRaw, &items); err != nil {
				return out, fmt.Errorf("mcpclient: decode %s.%s: %w", method, itemsKey, err)
			}
		}

		for _, item := range items {
			if len(out) >= MaxListItems {
				return out, nil
			}
			out = append(out, item)
		}

		if nextCursor == "" {
			return out, nil
		}
		cursor = nextCursor
	}
}

func isMethodNotFound(err error) bool {
	return scanerrors.IsMethodNotFound(err)
}
