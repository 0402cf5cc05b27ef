package export

import (
	"encoding/json"
	"io"

	"claude-warehouse/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter writes the document envelope as YAML.
type YAMLExporter struct{}

// Export exports a document to YAML format
func (e *YAMLExporter) Export(doc *internal.Document, w io.Writer) error {
	// Round-trip through JSON so raw block payloads come out as plain
	// YAML values instead of binary blobs.
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	defer func() { _ = enc.Close() }()

	return enc.Encode(generic)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
