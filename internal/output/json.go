package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spiffcs/pulse/internal/model"
)

// JSONFormatter writes the exhaustive structured record.
type JSONFormatter struct {
	Pretty bool
}

// Format outputs the summary as JSON.
func (f *JSONFormatter) Format(summary *model.ScanSummary, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if f.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(summary)
}

// WriteFile writes the structured record to path, creating parent
// directories as needed.
func WriteFile(summary *model.ScanSummary, path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := (&JSONFormatter{Pretty: true}).Format(summary, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
