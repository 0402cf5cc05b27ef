package export

import (
	"fmt"
	"io"

	"claude-warehouse/internal"
)

// Exporter writes a parsed logline document in one output format.
type Exporter interface {
	Export(doc *internal.Document, w io.Writer) error
	Extension() string
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	case "yaml":
		return &YAMLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: jsonl, json, yaml, md)", format)
	}
}
