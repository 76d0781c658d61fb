// Package artifact implements the whole-document I/O discipline shared by
// every pipeline stage: read the complete input at the start, write the
// complete output at the end, and only touch disk when content actually
// changed. That write-if-changed rule is what makes repeated runs no-ops.
package artifact

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Exists reports whether path is present on disk.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadJSON reads path and unmarshals it into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// MarshalJSON renders v as two-space-indented JSON with a trailing newline,
// the canonical encoding for every JSON artifact in the pipeline.
func MarshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// WriteJSONIfChanged writes v as canonical JSON to path, creating parent
// directories as needed. Returns true when the file was written.
func WriteJSONIfChanged(path string, v any) (bool, error) {
	data, err := MarshalJSON(v)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", path, err)
	}
	return WriteIfChanged(path, data)
}

// WriteIfChanged writes data to path only when it differs from the current
// content. Parent directories are created as needed.
func WriteIfChanged(path string, data []byte) (bool, error) {
	prev, err := os.ReadFile(path)
	if err == nil && bytes.Equal(prev, data) {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return true, nil
}

// SHA256File returns the hex-encoded SHA-256 of the file at path.
func SHA256File(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
