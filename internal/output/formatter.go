// Package output renders a ScanSummary as a structured record, a ranked
// digest, or a terminal table.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/spiffcs/pulse/internal/model"
)

// Format represents the output format
type Format string

const (
	FormatJSON   Format = "json"
	FormatDigest Format = "digest"
	FormatTable  Format = "table"
)

// AllFormats lists the supported formats.
var AllFormats = []Format{FormatJSON, FormatDigest, FormatTable}

// Formatter renders a scan summary.
type Formatter interface {
	Format(summary *model.ScanSummary, w io.Writer) error
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllFormats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format: %q (must be json, digest or table)", s)
}

// NewFormatter creates a formatter for the specified format.
// Unknown formats fall back to the digest.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatTable:
		return &TableFormatter{}
	default:
		return &DigestFormatter{}
	}
}
