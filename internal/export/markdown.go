package export

import (
	"encoding/json"
	"fmt"
	"io"

	"claude-warehouse/internal"
)

// MarkdownExporter renders the document as a human-readable transcript,
// one section per session.
type MarkdownExporter struct{}

// Export exports a document to Markdown format
func (e *MarkdownExporter) Export(doc *internal.Document, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# Claude.ai export\n\n")
	_, _ = fmt.Fprintf(w, "**Source:** %s  \n", doc.Metadata.Source)
	_, _ = fmt.Fprintf(w, "**Conversations:** %d  \n", doc.Metadata.ConversationCount)
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(doc.Loglines))

	currentSession := ""
	for i := range doc.Loglines {
		line := &doc.Loglines[i]
		if line.SessionID != currentSession {
			currentSession = line.SessionID
			_, _ = fmt.Fprintf(w, "---\n\n## Session %s\n\n", currentSession)
		}

		timestamp := ""
		if line.Timestamp != "" {
			timestamp = fmt.Sprintf(" (%s)", line.Timestamp)
		}
		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n", line.Type, timestamp)

		for _, block := range line.Message.Content {
			writeBlock(w, block)
		}
	}

	return nil
}

func writeBlock(w io.Writer, block internal.ContentBlock) {
	switch block.Type {
	case internal.BlockText:
		_, _ = fmt.Fprintf(w, "%s\n\n", block.Text)
	case internal.BlockThinking:
		_, _ = fmt.Fprintf(w, "> _thinking:_ %s\n\n", block.Thinking)
	case internal.BlockToolUse:
		_, _ = fmt.Fprintf(w, "```\ntool_use: %s\ninput: %s\n```\n\n", block.Name, compactJSON(block.Input))
	case internal.BlockToolResult:
		marker := ""
		if block.IsError {
			marker = " (error)"
		}
		_, _ = fmt.Fprintf(w, "```\ntool_result%s: %s\n```\n\n", marker, compactJSON(block.Content))
	default:
		_, _ = fmt.Fprintf(w, "```\n%s block\n```\n\n", block.Type)
	}
}

func compactJSON(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	return string(raw)
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
