package inspect

import (
	"strings"
	"testing"
)

func TestFormatSchema(t *testing.T) {
	s := inferJSON(t, `{
		"uuid": "9b3a4c1e-2f00-4f6a-9d2b-8a1c5e7f0a12",
		"count": 42,
		"tags": ["alpha", "beta"]
	}`)

	out := FormatSchema(s)

	for _, want := range []string{
		"object",
		"uuid: string (uuid, 36 chars)",
		"count: integer (e.g. 42)",
		"tags: array [2 items]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestFormatSchemaArrayOfObjects(t *testing.T) {
	s := inferJSON(t, `[{"id":"abc_def"},{"id":"ghi"}]`)

	out := FormatSchema(s)
	if !strings.Contains(out, "[]: object") {
		t.Errorf("output missing object item header:\n%s", out)
	}
	if !strings.Contains(out, "id: string") {
		t.Errorf("output missing nested key:\n%s", out)
	}
}

func TestFormatSchemaStableOrder(t *testing.T) {
	s := inferJSON(t, `{"b":1,"a":2,"c":3}`)

	first := FormatSchema(s)
	for i := 0; i < 5; i++ {
		if got := FormatSchema(s); got != first {
			t.Fatal("output order not stable across runs")
		}
	}
	// Sorted keys.
	ai, bi := strings.Index(first, "a:"), strings.Index(first, "b:")
	if ai == -1 || bi == -1 || ai > bi {
		t.Errorf("keys not sorted:\n%s", first)
	}
}

func TestFormatReportWithError(t *testing.T) {
	report := &FileReport{File: "bad.json", Error: "unexpected token"}
	out := FormatReport(report)
	if !strings.Contains(out, "bad.json") || !strings.Contains(out, "error: unexpected token") {
		t.Errorf("got:\n%s", out)
	}
}
