// Package inspect infers the structure of JSON and JSONL files without
// exposing their content. Leaf values are assumed sensitive: only types,
// lengths, and pattern classifications appear in the output, so a schema
// report is always safe to share.
package inspect

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Schema type names.
const (
	TypeNull    = "null"
	TypeBoolean = "boolean"
	TypeInteger = "integer"
	TypeNumber  = "number"
	TypeString  = "string"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeMixed   = "mixed"
)

// DefaultMaxSamples is how many array items are sampled for item-schema
// inference when the caller does not say otherwise.
const DefaultMaxSamples = 5

// Schema describes the inferred structure of a JSON value. Which fields are
// set depends on Type; all optional fields marshal away when empty.
type Schema struct {
	Type           string             `json:"_type"`
	Format         string             `json:"_format,omitempty"`
	Length         *int               `json:"_length,omitempty"`
	LengthMin      *int               `json:"_length_min,omitempty"`
	LengthMax      *int               `json:"_length_max,omitempty"`
	ExamplePattern string             `json:"_example_pattern,omitempty"`
	EnumValues     []string           `json:"_enum_values,omitempty"`
	Formats        map[string]int     `json:"_formats,omitempty"`
	Types          map[string]int     `json:"_types,omitempty"`
	ItemTypes      map[string]int     `json:"_item_types,omitempty"`
	Keys           map[string]*Schema `json:"_keys,omitempty"`
	Items          *Schema            `json:"_items,omitempty"`
	Presence       string             `json:"_presence,omitempty"`
	ExampleInt     *int64             `json:"_example,omitempty"`
}

// InferSchema derives a schema from one decoded JSON value. Decode the input
// with a json.Decoder that has UseNumber set, or integers collapse into
// floats before inference sees them.
func InferSchema(value interface{}, maxSamples int) *Schema {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}

	switch v := value.(type) {
	case nil:
		return &Schema{Type: TypeNull}
	case bool:
		return &Schema{Type: TypeBoolean}
	case json.Number:
		if n, err := v.Int64(); err == nil && !strings.ContainsAny(v.String(), ".eE") {
			return &Schema{Type: TypeInteger, ExampleInt: &n}
		}
		return &Schema{Type: TypeNumber}
	case float64:
		return &Schema{Type: TypeNumber}
	case string:
		return classifyString(v)
	case []interface{}:
		return inferArray(v, maxSamples)
	case map[string]interface{}:
		keys := make(map[string]*Schema, len(v))
		for key, val := range v {
			keys[key] = InferSchema(val, maxSamples)
		}
		return &Schema{Type: TypeObject, Keys: keys}
	default:
		return &Schema{Type: TypeMixed}
	}
}

func inferArray(items []interface{}, maxSamples int) *Schema {
	length := len(items)
	schema := &Schema{Type: TypeArray, Length: &length}
	if length == 0 {
		return schema
	}

	samples := items
	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	itemSchemas := make([]*Schema, len(samples))
	for i, item := range samples {
		itemSchemas[i] = InferSchema(item, maxSamples)
	}

	types := countTypes(itemSchemas)
	if len(types) == 1 {
		switch itemSchemas[0].Type {
		case TypeObject:
			schema.Items = mergeObjectSchemas(itemSchemas)
		case TypeString:
			schema.Items = mergeStringSchemas(itemSchemas)
		default:
			schema.Items = itemSchemas[0]
		}
	} else {
		schema.ItemTypes = types
		schema.Items = itemSchemas[0]
	}
	return schema
}

func countTypes(schemas []*Schema) map[string]int {
	counts := make(map[string]int)
	for _, s := range schemas {
		counts[s.Type]++
	}
	return counts
}

// maxEnumValues bounds how many distinct enum-like tokens are reported
// before the merge falls back to a count only.
const maxEnumValues = 10

func mergeStringSchemas(schemas []*Schema) *Schema {
	if len(schemas) == 0 {
		return &Schema{Type: TypeString}
	}

	min, max := *schemas[0].Length, *schemas[0].Length
	formats := make(map[string]int)
	var enumValues []string
	seen := make(map[string]struct{})

	for _, s := range schemas {
		if *s.Length < min {
			min = *s.Length
		}
		if *s.Length > max {
			max = *s.Length
		}
		formats[s.Format]++
		if s.Format == "enum_like" && s.ExamplePattern != "" {
			if _, ok := seen[s.ExamplePattern]; !ok {
				seen[s.ExamplePattern] = struct{}{}
				enumValues = append(enumValues, s.ExamplePattern)
			}
		}
	}

	merged := &Schema{Type: TypeString, LengthMin: &min, LengthMax: &max}
	if len(formats) == 1 {
		for format := range formats {
			merged.Format = format
		}
	} else {
		merged.Formats = formats
	}
	if len(enumValues) > 0 && len(enumValues) <= maxEnumValues {
		sort.Strings(enumValues)
		merged.EnumValues = enumValues
	}
	return merged
}

func mergeObjectSchemas(schemas []*Schema) *Schema {
	if len(schemas) == 0 {
		return &Schema{Type: TypeObject, Keys: map[string]*Schema{}}
	}

	byKey := make(map[string][]*Schema)
	for _, s := range schemas {
		for key, keySchema := range s.Keys {
			byKey[key] = append(byKey[key], keySchema)
		}
	}

	merged := make(map[string]*Schema, len(byKey))
	total := len(schemas)
	for key, keySchemas := range byKey {
		var m *Schema
		if len(keySchemas) == 1 {
			m = keySchemas[0]
		} else {
			types := countTypes(keySchemas)
			switch {
			case len(types) > 1:
				m = &Schema{Type: TypeMixed, Types: types}
			case keySchemas[0].Type == TypeString:
				m = mergeStringSchemas(keySchemas)
			case keySchemas[0].Type == TypeObject:
				m = mergeObjectSchemas(keySchemas)
			default:
				m = keySchemas[0]
			}
		}
		if len(keySchemas) < total {
			m.Presence = presencePercent(len(keySchemas), total)
		}
		merged[key] = m
	}

	return &Schema{Type: TypeObject, Keys: merged}
}

func presencePercent(count, total int) string {
	pct := int(float64(count)/float64(total)*100 + 0.5)
	return fmt.Sprintf("%d%%", pct)
}

// FileReport wraps a file's inferred schema with its metadata.
type FileReport struct {
	File      string  `json:"file"`
	SizeBytes int64   `json:"size_bytes"`
	Format    string  `json:"format"`
	LineCount int     `json:"line_count,omitempty"`
	Schema    *Schema `json:"schema,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// InspectFile inspects one JSON or JSONL file. The format is chosen by
// extension: .jsonl files are sampled line by line, anything else is decoded
// as a single document.
func InspectFile(path string, maxSamples int) (*FileReport, error) {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	report := &FileReport{
		File:      filepath.Base(path),
		SizeBytes: info.Size(),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".jsonl") {
		report.Format = "jsonl"
		inspectLines(report, data, maxSamples)
		return report, nil
	}

	report.Format = "json"
	value, err := decodeValue(data)
	if err != nil {
		return nil, err
	}
	report.Schema = InferSchema(value, maxSamples)
	return report, nil
}

// inspectLines infers a schema from the first maxSamples*2 parseable lines
// and counts all non-blank lines. Unparseable lines are skipped.
func inspectLines(report *FileReport, data []byte, maxSamples int) {
	var items []interface{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		report.LineCount++
		if len(items) >= maxSamples*2 {
			continue
		}
		value, err := decodeValue(line)
		if err != nil {
			continue
		}
		items = append(items, value)
	}

	if len(items) == 0 {
		report.Error = "no valid JSON lines found"
		return
	}
	report.Schema = InferSchema(items, maxSamples)
}

// InspectDir inspects every *.json file in a directory. A file that fails to
// parse gets an error entry; it never aborts the scan.
func InspectDir(dir string, maxSamples int) (map[string]*FileReport, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	reports := make(map[string]*FileReport)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		report, err := InspectFile(path, maxSamples)
		if err != nil {
			reports[entry.Name()] = &FileReport{File: entry.Name(), Error: err.Error()}
			continue
		}
		reports[entry.Name()] = report
	}
	return reports, nil
}

func decodeValue(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}
	return value, nil
}
