package launcher

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ParseRequest decodes the host's request from the first positional
// argument, falling back to stdin. An empty input is treated as a query
// for the empty string, matching how the host probes a freshly loaded
// plugin.
func ParseRequest(args []string, stdin io.Reader) (Request, error) {
	raw := ""
	if len(args) > 0 {
		raw = strings.TrimSpace(args[0])
	}
	if raw == "" && stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return Request{}, fmt.Errorf("reading request from stdin: %w", err)
		}
		raw = strings.TrimSpace(string(data))
	}

	if raw == "" {
		return Request{Method: MethodQuery, Parameters: []string{""}}, nil
	}

	var req Request
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return Request{}, fmt.Errorf("decoding request: %w", err)
	}
	if req.Method == "" {
		req.Method = MethodQuery
	}

	return req, nil
}
