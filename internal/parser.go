package internal

import "encoding/json"

// Document is the parse result: all loglines from an export plus descriptive
// metadata about the source.
type Document struct {
	Loglines []Logline `json:"loglines"`
	Metadata Metadata  `json:"_metadata"`
}

// Metadata describes the originating export. The side tables are carried
// verbatim; ConversationCount is the raw bundle count, before any filtering.
type Metadata struct {
	Source            string            `json:"source"`
	ExportPath        string            `json:"export_path"`
	Projects          []json.RawMessage `json:"projects"`
	Memories          []json.RawMessage `json:"memories"`
	Users             []json.RawMessage `json:"users"`
	ConversationCount int               `json:"conversation_count"`
}

// ParseOptions controls which conversations and blocks make it into the
// document. The zero value includes everything.
type ParseOptions struct {
	// ConversationIDs restricts output to the listed conversation uuids.
	// Nil means all conversations; an empty non-nil list matches none.
	ConversationIDs []string

	// ExcludeThinking drops thinking blocks from every message after
	// normalization. Messages themselves are never dropped.
	ExcludeThinking bool
}

// ParseExport converts an export directory into the canonical logline
// document, in conversation-then-message order.
func ParseExport(dir string, opts ParseOptions) (*Document, error) {
	bundle, err := LoadExportDir(dir)
	if err != nil {
		return nil, err
	}

	var allowlist map[string]struct{}
	if opts.ConversationIDs != nil {
		allowlist = make(map[string]struct{}, len(opts.ConversationIDs))
		for _, id := range opts.ConversationIDs {
			allowlist[id] = struct{}{}
		}
	}

	loglines := []Logline{}
	for _, conv := range bundle.Conversations {
		if allowlist != nil {
			if _, ok := allowlist[conv.UUID]; !ok {
				continue
			}
		}

		converted := NormalizeConversation(conv)
		if opts.ExcludeThinking {
			for i := range converted {
				converted[i].Message.Content = dropThinking(converted[i].Message.Content)
			}
		}
		loglines = append(loglines, converted...)
	}

	return &Document{
		Loglines: loglines,
		Metadata: Metadata{
			Source:            "claude_ai_export",
			ExportPath:        dir,
			Projects:          bundle.Projects,
			Memories:          bundle.Memories,
			Users:             bundle.Users,
			ConversationCount: len(bundle.Conversations),
		},
	}, nil
}

// dropThinking filters thinking blocks, keeping every other block in order.
func dropThinking(blocks []ContentBlock) []ContentBlock {
	kept := make([]ContentBlock, 0, len(blocks))
	for _, b := range blocks {
		if b.Type == BlockThinking {
			continue
		}
		kept = append(kept, b)
	}
	return kept
}
