package forager

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveResults writes results to path as indented JSON. The file is written to
// a temporary sibling and renamed into place.
func SaveResults(path string, results map[string]FetchResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmpFile := path + ".tmp"
	f, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmpFile, err)
	}

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		f.Close()
		os.Remove(tmpFile)
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to move results into place: %w", err)
	}
	return nil
}
