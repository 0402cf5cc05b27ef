package internal

import "encoding/json"

// Normalization of Claude.ai export shapes into canonical loglines.
//
// Source exports are not schema-validated upstream, so every accessor here
// degrades to a type-appropriate empty value instead of failing. A malformed
// block or message never aborts a conversion.

// NormalizeContentBlock converts one raw content block into its canonical
// shape. Vendor metadata (timestamps, citations, display hints) is dropped
// for known types; unrecognized types pass through with all their fields.
func NormalizeContentBlock(raw json.RawMessage) ContentBlock {
	fields := objectFields(raw)
	blockType := stringField(fields, "type")

	switch blockType {
	case BlockText:
		return ContentBlock{
			Type: BlockText,
			Text: stringField(fields, "text"),
		}

	case BlockThinking:
		block := ContentBlock{
			Type:     BlockThinking,
			Thinking: stringField(fields, "thinking"),
		}
		// Normalized blocks carry "_summaries", raw exports "summaries".
		if s, ok := fields["_summaries"]; ok && !isNull(s) {
			block.Summaries = s
		} else if s, ok := fields["summaries"]; ok && !isNull(s) {
			block.Summaries = s
		}
		return block

	case BlockToolUse:
		block := ContentBlock{
			Type:  BlockToolUse,
			Name:  stringField(fields, "name"),
			Input: emptyObject,
		}
		if id, ok := fields["id"]; ok && !isNull(id) {
			var s string
			if json.Unmarshal(id, &s) == nil {
				block.ID = &s
			}
		}
		if input, ok := fields["input"]; ok && !isNull(input) {
			block.Input = input
		}
		return block

	case BlockToolResult:
		block := ContentBlock{
			Type:      BlockToolResult,
			ToolUseID: stringField(fields, "tool_use_id"),
			Content:   emptyString,
			IsError:   boolField(fields, "is_error"),
		}
		if content, ok := fields["content"]; ok && !isNull(content) {
			block.Content = content
		}
		return block

	default:
		extra := make(map[string]json.RawMessage, len(fields))
		for k, v := range fields {
			if k != "type" {
				extra[k] = v
			}
		}
		return ContentBlock{Type: blockType, Extra: extra}
	}
}

// NormalizeMessage converts one raw chat message into a logline. The sender
// label "human" maps to "user"; any other label passes through unchanged so
// future sender kinds need no enum update. Content elements that are not
// JSON objects are skipped.
func NormalizeMessage(raw json.RawMessage, sessionID string) Logline {
	fields := objectFields(raw)
	msgType := normalizeSender(stringField(fields, "sender"))

	var rawContent []json.RawMessage
	if content, ok := fields["content"]; ok {
		_ = json.Unmarshal(content, &rawContent)
	}
	blocks := make([]ContentBlock, 0, len(rawContent))
	for _, element := range rawContent {
		if !isObject(element) {
			continue
		}
		blocks = append(blocks, NormalizeContentBlock(element))
	}

	return Logline{
		Type:      msgType,
		Timestamp: stringField(fields, "created_at"),
		SessionID: sessionID,
		UUID:      stringField(fields, "uuid"),
		Message: MessageBody{
			Role:    msgType,
			Content: blocks,
		},
	}
}

// NormalizeConversation expands a conversation into loglines, one per chat
// message, in source order. Every logline carries the conversation uuid as
// its sessionId.
func NormalizeConversation(conv Conversation) []Logline {
	loglines := make([]Logline, 0, len(conv.ChatMessages))
	for _, msg := range conv.ChatMessages {
		loglines = append(loglines, NormalizeMessage(msg, conv.UUID))
	}
	return loglines
}

// normalizeSender maps the export's sender label to a canonical logline type.
func normalizeSender(sender string) string {
	if sender == "human" {
		return "user"
	}
	return sender
}

// objectFields decodes a JSON object into its top-level fields. Anything
// that is not an object yields an empty map.
func objectFields(raw json.RawMessage) map[string]json.RawMessage {
	fields := make(map[string]json.RawMessage)
	_ = json.Unmarshal(raw, &fields)
	return fields
}

// stringField returns the named string field, or "" when absent, null, or
// not a string.
func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var s string
	_ = json.Unmarshal(raw, &s)
	return s
}

// boolField returns the named bool field, defaulting to false.
func boolField(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}
	var b bool
	_ = json.Unmarshal(raw, &b)
	return b
}

func isNull(raw json.RawMessage) bool {
	trimmed := trimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}

func isObject(raw json.RawMessage) bool {
	trimmed := trimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func trimSpace(raw json.RawMessage) json.RawMessage {
	start := 0
	for start < len(raw) && isJSONSpace(raw[start]) {
		start++
	}
	end := len(raw)
	for end > start && isJSONSpace(raw[end-1]) {
		end--
	}
	return raw[start:end]
}

func isJSONSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
