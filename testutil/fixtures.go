// Package testutil holds shared fixtures for package tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteExportDir creates a Claude.ai export directory fixture. Files maps
// filenames (e.g. "conversations.json") to raw content; nothing else is
// created, so leaving a file out of the map leaves it out of the fixture.
func WriteExportDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write fixture %s: %v", name, err)
		}
	}
	return dir
}

// WriteSessionFile writes a session logline fixture, one JSON value per
// line. Each line may be any value marshalable to JSON, or a raw string
// (written verbatim, for malformed-line cases).
func WriteSessionFile(t *testing.T, lines ...interface{}) string {
	t.Helper()
	var b strings.Builder
	for _, line := range lines {
		switch v := line.(type) {
		case string:
			b.WriteString(v)
		default:
			data, err := json.Marshal(v)
			if err != nil {
				t.Fatalf("Failed to marshal fixture line: %v", err)
			}
			b.Write(data)
		}
		b.WriteByte('\n')
	}

	path := filepath.Join(t.TempDir(), "session.jsonl")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		t.Fatalf("Failed to write session fixture: %v", err)
	}
	return path
}

// Logline builds one session record as a map, ready for WriteSessionFile.
// content may be a string or a slice of block maps.
func Logline(msgType, uuid, sessionID, timestamp string, content interface{}) map[string]interface{} {
	role := msgType
	return map[string]interface{}{
		"type":      msgType,
		"uuid":      uuid,
		"sessionId": sessionID,
		"timestamp": timestamp,
		"message": map[string]interface{}{
			"role":    role,
			"content": content,
		},
	}
}

// WithModel sets the model on a logline's message.
func WithModel(line map[string]interface{}, model string) map[string]interface{} {
	line["message"].(map[string]interface{})["model"] = model
	return line
}

// WithSessionMeta sets the session metadata fields on a logline.
func WithSessionMeta(line map[string]interface{}, cwd, gitBranch, version string) map[string]interface{} {
	line["cwd"] = cwd
	line["gitBranch"] = gitBranch
	line["version"] = version
	return line
}

// TextBlock, ToolUseBlock, ToolResultBlock, and ThinkingBlock build content
// block maps for fixtures.

func TextBlock(text string) map[string]interface{} {
	return map[string]interface{}{"type": "text", "text": text}
}

func ThinkingBlock(thinking string) map[string]interface{} {
	return map[string]interface{}{"type": "thinking", "thinking": thinking}
}

func ToolUseBlock(id, name string, input map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"type": "tool_use", "id": id, "name": name, "input": input}
}

func ToolResultBlock(toolUseID string, content interface{}, isError bool) map[string]interface{} {
	return map[string]interface{}{
		"type":        "tool_result",
		"tool_use_id": toolUseID,
		"content":     content,
		"is_error":    isError,
	}
}

// CanonicalSession returns the standard six-message session fixture used by
// the warehouse tests: three user and three assistant messages spanning 25
// seconds on the morning of 2025-01-15, with one Write and one Read tool
// round-trip.
func CanonicalSession(t *testing.T) string {
	t.Helper()

	asst1 := WithModel(Logline("assistant", "asst-001", "sess-fixture", "2025-01-15T10:00:05Z",
		[]map[string]interface{}{
			TextBlock("I'll write that file."),
			ToolUseBlock("toolu_01", "Write", map[string]interface{}{"file_path": "/tmp/a.txt", "content": "hello"}),
		}), "claude-opus-4-5-20251101")
	asst2 := WithModel(Logline("assistant", "asst-002", "sess-fixture", "2025-01-15T10:00:15Z",
		[]map[string]interface{}{
			TextBlock("Now reading it back."),
			ToolUseBlock("toolu_02", "Read", map[string]interface{}{"file_path": "/tmp/a.txt"}),
		}), "claude-opus-4-5-20251101")
	asst3 := WithModel(Logline("assistant", "asst-003", "sess-fixture", "2025-01-15T10:00:25Z",
		[]map[string]interface{}{TextBlock("Done.")}), "claude-sonnet-4-20250514")

	return WriteSessionFile(t,
		WithSessionMeta(
			Logline("user", "user-001", "sess-fixture", "2025-01-15T10:00:00Z", "write hello to a file"),
			"/home/dev/project", "main", "1.0.62"),
		asst1,
		Logline("user", "user-002", "sess-fixture", "2025-01-15T10:00:10Z",
			[]map[string]interface{}{ToolResultBlock("toolu_01", "wrote 5 bytes", false)}),
		asst2,
		Logline("user", "user-003", "sess-fixture", "2025-01-15T10:00:20Z",
			[]map[string]interface{}{ToolResultBlock("toolu_02", "hello", false)}),
		asst3,
	)
}
