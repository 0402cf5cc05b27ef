package export

import (
	"encoding/json"
	"fmt"
	"io"

	"claude-warehouse/internal"
)

// JSONLExporter writes one logline per line. This is the persisted canonical
// form consumed by the warehouse ETL; the envelope metadata is not written.
type JSONLExporter struct{}

// Export exports a document to JSONL format
func (e *JSONLExporter) Export(doc *internal.Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	for i := range doc.Loglines {
		if err := enc.Encode(&doc.Loglines[i]); err != nil {
			return fmt.Errorf("failed to encode logline: %w", err)
		}
	}
	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
