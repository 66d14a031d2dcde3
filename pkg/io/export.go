package io

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteManifestJSON encodes m as indented JSON.
// The output can be re-imported with [ReadJSON].
func WriteManifestJSON(m *Manifest, w io.Writer) error {
	return WriteResultJSON(w, m)
}

// WriteResultJSON encodes v as indented JSON.
func WriteResultJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
