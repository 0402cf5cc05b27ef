package internal

import (
	"encoding/json"
	"testing"
)

func TestNormalizeContentBlock(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, b ContentBlock)
	}{
		{
			name: "text block drops vendor metadata",
			raw:  `{"type":"text","text":"hello","citations":[],"start_timestamp":"2025-01-01T00:00:00Z"}`,
			check: func(t *testing.T, b ContentBlock) {
				if b.Type != BlockText || b.Text != "hello" {
					t.Errorf("got (%s, %q)", b.Type, b.Text)
				}
			},
		},
		{
			name: "text block missing text defaults empty",
			raw:  `{"type":"text"}`,
			check: func(t *testing.T, b ContentBlock) {
				if b.Text != "" {
					t.Errorf("text = %q, want empty", b.Text)
				}
			},
		},
		{
			name: "thinking block with raw summaries key",
			raw:  `{"type":"thinking","thinking":"hmm","summaries":[{"summary":"s"}]}`,
			check: func(t *testing.T, b ContentBlock) {
				if b.Thinking != "hmm" || len(b.Summaries) == 0 {
					t.Errorf("got (%q, %s)", b.Thinking, b.Summaries)
				}
			},
		},
		{
			name: "thinking block with canonical summaries key",
			raw:  `{"type":"thinking","thinking":"hmm","_summaries":[1]}`,
			check: func(t *testing.T, b ContentBlock) {
				if string(b.Summaries) != "[1]" {
					t.Errorf("summaries = %s, want [1]", b.Summaries)
				}
			},
		},
		{
			name: "tool_use with id",
			raw:  `{"type":"tool_use","id":"toolu_01","name":"Write","input":{"k":"v"}}`,
			check: func(t *testing.T, b ContentBlock) {
				if b.ID == nil || *b.ID != "toolu_01" || b.Name != "Write" {
					t.Errorf("got (%v, %q)", b.ID, b.Name)
				}
			},
		},
		{
			name: "tool_use null id and missing input",
			raw:  `{"type":"tool_use","id":null,"name":"Bash"}`,
			check: func(t *testing.T, b ContentBlock) {
				if b.ID != nil {
					t.Errorf("id = %v, want nil", b.ID)
				}
				if string(b.Input) != "{}" {
					t.Errorf("input = %s, want {}", b.Input)
				}
			},
		},
		{
			name: "tool_result defaults",
			raw:  `{"type":"tool_result","tool_use_id":"toolu_01"}`,
			check: func(t *testing.T, b ContentBlock) {
				if b.ToolUseID != "toolu_01" || b.IsError {
					t.Errorf("got (%q, err=%v)", b.ToolUseID, b.IsError)
				}
				if string(b.Content) != `""` {
					t.Errorf("content = %s, want empty string", b.Content)
				}
			},
		},
		{
			name: "tool_result error flag",
			raw:  `{"type":"tool_result","tool_use_id":"t","content":"boom","is_error":true}`,
			check: func(t *testing.T, b ContentBlock) {
				if !b.IsError {
					t.Error("is_error = false, want true")
				}
			},
		},
		{
			name: "unknown type passes fields through",
			raw:  `{"type":"attachment","file_name":"a.pdf","extracted_content":"..."}`,
			check: func(t *testing.T, b ContentBlock) {
				if b.Type != "attachment" {
					t.Errorf("type = %q", b.Type)
				}
				if _, ok := b.Extra["file_name"]; !ok {
					t.Error("file_name not preserved")
				}
				if _, ok := b.Extra["type"]; ok {
					t.Error("type duplicated into extras")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, NormalizeContentBlock(json.RawMessage(tt.raw)))
		})
	}
}

func TestNormalizeMessage(t *testing.T) {
	t.Run("human sender becomes user", func(t *testing.T) {
		raw := json.RawMessage(`{
			"sender": "human",
			"uuid": "msg-1",
			"created_at": "2025-01-15T10:00:00Z",
			"content": [{"type":"text","text":"hi"}]
		}`)

		line := NormalizeMessage(raw, "conv-1")
		if line.Type != "user" || line.Message.Role != "user" {
			t.Errorf("type/role = (%s, %s), want (user, user)", line.Type, line.Message.Role)
		}
		if line.SessionID != "conv-1" || line.UUID != "msg-1" {
			t.Errorf("ids = (%s, %s)", line.SessionID, line.UUID)
		}
		if line.Timestamp != "2025-01-15T10:00:00Z" {
			t.Errorf("timestamp = %q", line.Timestamp)
		}
	})

	t.Run("assistant sender passes through", func(t *testing.T) {
		raw := json.RawMessage(`{"sender":"assistant","content":[]}`)
		line := NormalizeMessage(raw, "conv-1")
		if line.Type != "assistant" {
			t.Errorf("type = %q, want assistant", line.Type)
		}
	})

	t.Run("unknown sender passes through", func(t *testing.T) {
		raw := json.RawMessage(`{"sender":"system","content":[]}`)
		if line := NormalizeMessage(raw, "c"); line.Type != "system" {
			t.Errorf("type = %q, want system", line.Type)
		}
	})

	t.Run("non-object content elements skipped", func(t *testing.T) {
		raw := json.RawMessage(`{"sender":"human","content":["stray", 42, {"type":"text","text":"kept"}]}`)
		line := NormalizeMessage(raw, "c")
		if len(line.Message.Content) != 1 || line.Message.Content[0].Text != "kept" {
			t.Errorf("content = %+v", line.Message.Content)
		}
	})

	t.Run("missing fields default empty", func(t *testing.T) {
		line := NormalizeMessage(json.RawMessage(`{}`), "c")
		if line.Timestamp != "" || line.UUID != "" {
			t.Errorf("got (%q, %q), want empty", line.Timestamp, line.UUID)
		}
		if len(line.Message.Content) != 0 {
			t.Errorf("content = %+v, want empty", line.Message.Content)
		}
	})
}

func TestNormalizeConversation(t *testing.T) {
	conv := Conversation{
		UUID: "conv-42",
		ChatMessages: []json.RawMessage{
			json.RawMessage(`{"sender":"human","uuid":"m1","content":[{"type":"text","text":"q"}]}`),
			json.RawMessage(`{"sender":"assistant","uuid":"m2","content":[{"type":"text","text":"a"}]}`),
		},
	}

	lines := NormalizeConversation(conv)
	if len(lines) != 2 {
		t.Fatalf("loglines = %d, want 2", len(lines))
	}
	// Source order and session stamping.
	if lines[0].UUID != "m1" || lines[1].UUID != "m2" {
		t.Errorf("order = (%s, %s)", lines[0].UUID, lines[1].UUID)
	}
	for _, line := range lines {
		if line.SessionID != "conv-42" {
			t.Errorf("sessionId = %q, want conv-42", line.SessionID)
		}
		if line.Type != line.Message.Role {
			t.Errorf("type %q != role %q", line.Type, line.Message.Role)
		}
	}
}
