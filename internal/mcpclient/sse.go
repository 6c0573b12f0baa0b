package mcpclient

import (
	"bufio"
	"bytes"
	"fmt"
)

// extractJSONPayload returns the JSON object a response body carries,
// whether that body is a bare JSON object or an SSE framing
// (`event: message\ndata: {...}\n`). Only the first `data:` line is read;
// an SSE stream carrying multiple events is not a shape this protocol uses
// for a single JSON-RPC reply.
func extractJSONPayload(raw []byte) ([]byte, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("mcpclient: empty response body")
	}

	if trimmed[0] == '{' || trimmed[0] == '[' {
		return trimmed, nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if data, ok := cutPrefix(line, "data:"); ok {
			return []byte(trimLeftSpace(data)), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("mcpclient: scan SSE body: %w", err)
	}

	return nil, fmt.Errorf("mcpclient: response is neither JSON nor a recognized SSE frame")
}

func cutPrefix(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || s[:len(prefix)] != prefix {
		return "", false
	}
	return s[len(prefix):], true
}

func trimLeftSpace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[i:]
}
