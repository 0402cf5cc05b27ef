package internal

import "encoding/json"

// Canonical content block types. Anything else is a passthrough block whose
// fields are preserved verbatim.
const (
	BlockText       = "text"
	BlockThinking   = "thinking"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// Defaults for absent block payloads.
var (
	emptyObject = json.RawMessage(`{}`)
	emptyString = json.RawMessage(`""`)
)

// Logline is the canonical message record: one line of a session's JSONL
// stream. Its type always equals its message role.
type Logline struct {
	Type      string      `json:"type"`
	Timestamp string      `json:"timestamp"`
	SessionID string      `json:"sessionId"`
	UUID      string      `json:"uuid"`
	Message   MessageBody `json:"message"`
}

// MessageBody carries the role and ordered content blocks of one logline.
type MessageBody struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// ContentBlock is the tagged union of canonical block shapes. Which fields
// are meaningful depends on Type; Extra holds the fields of passthrough
// blocks.
type ContentBlock struct {
	Type string

	// text
	Text string

	// thinking
	Thinking  string
	Summaries json.RawMessage

	// tool_use
	ID    *string
	Name  string
	Input json.RawMessage

	// tool_result
	ToolUseID string
	Content   json.RawMessage
	IsError   bool

	// passthrough fields for unrecognized types
	Extra map[string]json.RawMessage
}

// MarshalJSON emits the canonical wire shape for each block type. The
// tool_use id key is always present, null when the source had none, so
// consumers can rely on the key existing.
func (b ContentBlock) MarshalJSON() ([]byte, error) {
	switch b.Type {
	case BlockText:
		return json.Marshal(struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{b.Type, b.Text})

	case BlockThinking:
		return json.Marshal(struct {
			Type      string          `json:"type"`
			Thinking  string          `json:"thinking"`
			Summaries json.RawMessage `json:"_summaries,omitempty"`
		}{b.Type, b.Thinking, b.Summaries})

	case BlockToolUse:
		input := b.Input
		if len(input) == 0 {
			input = emptyObject
		}
		return json.Marshal(struct {
			Type  string          `json:"type"`
			ID    *string         `json:"id"`
			Name  string          `json:"name"`
			Input json.RawMessage `json:"input"`
		}{b.Type, b.ID, b.Name, input})

	case BlockToolResult:
		content := b.Content
		if len(content) == 0 {
			content = emptyString
		}
		return json.Marshal(struct {
			Type      string          `json:"type"`
			ToolUseID string          `json:"tool_use_id"`
			Content   json.RawMessage `json:"content"`
			IsError   bool            `json:"is_error"`
		}{b.Type, b.ToolUseID, content, b.IsError})

	default:
		fields := make(map[string]json.RawMessage, len(b.Extra)+1)
		for k, v := range b.Extra {
			fields[k] = v
		}
		typeTag, err := json.Marshal(b.Type)
		if err != nil {
			return nil, err
		}
		fields["type"] = typeTag
		return json.Marshal(fields)
	}
}

// UnmarshalJSON accepts both raw export blocks and previously normalized
// blocks; either way the result is canonical.
func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	*b = NormalizeContentBlock(data)
	return nil
}
