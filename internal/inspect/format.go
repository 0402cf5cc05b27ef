package inspect

import (
	"fmt"
	"sort"
	"strings"
)

// FormatSchema renders a schema as indented human-readable text. Object keys
// print in sorted order so output is stable across runs.
func FormatSchema(schema *Schema) string {
	var b strings.Builder
	writeSchema(&b, schema, 0, "")
	return strings.TrimRight(b.String(), "\n")
}

func writeSchema(b *strings.Builder, schema *Schema, indent int, keyName string) {
	prefix := strings.Repeat("  ", indent)
	if keyName != "" {
		fmt.Fprintf(b, "%s%s: %s", prefix, keyName, schema.Type)
	} else {
		fmt.Fprintf(b, "%s%s", prefix, schema.Type)
	}

	switch schema.Type {
	case TypeString:
		if note := stringAnnotations(schema); note != "" {
			fmt.Fprintf(b, " (%s)", note)
		}
	case TypeArray:
		if schema.Length != nil {
			fmt.Fprintf(b, " [%d items]", *schema.Length)
		}
	case TypeInteger:
		if schema.ExampleInt != nil {
			fmt.Fprintf(b, " (e.g. %d)", *schema.ExampleInt)
		}
	}

	if schema.Presence != "" {
		fmt.Fprintf(b, " (optional, %s)", schema.Presence)
	}
	b.WriteByte('\n')

	switch {
	case schema.Type == TypeObject && len(schema.Keys) > 0:
		for _, key := range sortedKeys(schema.Keys) {
			writeSchema(b, schema.Keys[key], indent+1, key)
		}
	case schema.Type == TypeArray && schema.Items != nil:
		if schema.Items.Type == TypeObject {
			fmt.Fprintf(b, "%s  []: object\n", prefix)
			for _, key := range sortedKeys(schema.Items.Keys) {
				writeSchema(b, schema.Items.Keys[key], indent+2, key)
			}
		} else {
			writeSchema(b, schema.Items, indent+1, "[]")
		}
	}
}

func stringAnnotations(schema *Schema) string {
	var notes []string
	if schema.Format != "" {
		notes = append(notes, schema.Format)
	}
	switch {
	case schema.LengthMin != nil && schema.LengthMax != nil:
		if *schema.LengthMin == *schema.LengthMax {
			notes = append(notes, fmt.Sprintf("%d chars", *schema.LengthMin))
		} else {
			notes = append(notes, fmt.Sprintf("%d-%d chars", *schema.LengthMin, *schema.LengthMax))
		}
	case schema.Length != nil:
		notes = append(notes, fmt.Sprintf("%d chars", *schema.Length))
	}
	if len(schema.EnumValues) > 0 {
		if len(schema.EnumValues) <= 5 {
			notes = append(notes, fmt.Sprintf("values: [%s]", strings.Join(schema.EnumValues, ", ")))
		} else {
			notes = append(notes, fmt.Sprintf("%d unique values", len(schema.EnumValues)))
		}
	}
	return strings.Join(notes, ", ")
}

// FormatReport renders one file report, including its error if inspection
// failed.
func FormatReport(report *FileReport) string {
	var b strings.Builder
	b.WriteString(report.File)
	if report.Format != "" {
		fmt.Fprintf(&b, " (%s", report.Format)
		if report.LineCount > 0 {
			fmt.Fprintf(&b, ", %d lines", report.LineCount)
		}
		fmt.Fprintf(&b, ", %d bytes)", report.SizeBytes)
	}
	b.WriteByte('\n')
	if report.Error != "" {
		fmt.Fprintf(&b, "  error: %s\n", report.Error)
		return b.String()
	}
	if report.Schema != nil {
		for _, line := range strings.Split(FormatSchema(report.Schema), "\n") {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	return b.String()
}

func sortedKeys(m map[string]*Schema) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
