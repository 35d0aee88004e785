package launcher

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// Write encodes the response to w. If encoding fails, a single-entry
// fallback response is written instead so the host always has something
// to render.
func (r Response) Write(w io.Writer) error {
	data, err := json.Marshal(r)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		data, _ = json.Marshal(Response{Result: []Result{{
			Title:    "Encoding Error",
			SubTitle: fmt.Sprintf("Failed to encode output: %v", err),
		}}})
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("writing response: %w", err)
	}

	return nil
}
