package warehouse

import "testing"

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		parts    []string
		expected string
	}{
		{
			name:     "multi-part key",
			parts:    []string{"project", "/home/user"},
			expected: "c40bc64de4addf478225348a36c4adff",
		},
		{
			name:     "single part",
			parts:    []string{"Write"},
			expected: "1129c0e4d43f2d121652a7302712cff6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Key(tt.parts...)
			if got != tt.expected {
				t.Errorf("Key(%v) = %s, want %s", tt.parts, got, tt.expected)
			}
		})
	}
}

func TestDimensionKeyNilSentinel(t *testing.T) {
	// A nil component hashes as the sentinel, not as empty string.
	got := DimensionKey(nil)
	if got != "feeb252fc9e70eb41c8206cda65afbb5" {
		t.Errorf("DimensionKey(nil) = %s, want md5 of sentinel", got)
	}

	empty := ""
	if DimensionKey(&empty) == DimensionKey(nil) {
		t.Error("nil and empty-string components must produce different keys")
	}
}

func TestKeyDeterminism(t *testing.T) {
	a := Key("project", "alpha")
	b := Key("project", "alpha")
	if a != b {
		t.Errorf("same input produced different keys: %s vs %s", a, b)
	}
	if len(a) != 32 {
		t.Errorf("key length = %d, want 32", len(a))
	}

	if Key("project", "alpha") == Key("project", "beta") {
		t.Error("different inputs produced the same key")
	}
}
