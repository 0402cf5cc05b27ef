package internal

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Well-known filenames inside a Claude.ai export directory.
const (
	ConversationsFile = "conversations.json"
	ProjectsFile      = "projects.json"
	UsersFile         = "users.json"
	MemoriesFile      = "memories.json"
)

// Conversation is one raw conversation from conversations.json. Only the
// uuid and the ordered message list matter here; messages stay raw until
// normalization.
type Conversation struct {
	UUID         string            `json:"uuid"`
	ChatMessages []json.RawMessage `json:"chat_messages"`
}

// ExportBundle is the in-memory form of one export directory. Only
// Conversations is mandatory; the side tables default to empty and are kept
// verbatim for the output metadata.
type ExportBundle struct {
	Conversations []Conversation
	Projects      []json.RawMessage
	Users         []json.RawMessage
	Memories      []json.RawMessage
}

// LoadExportDir reads the four well-known files from an export directory.
// A missing conversations.json is fatal; the optional files independently
// default to empty. A present file that fails to parse is fatal for the load.
func LoadExportDir(dir string) (*ExportBundle, error) {
	conversationsPath := filepath.Join(dir, ConversationsFile)
	data, err := os.ReadFile(conversationsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingFileError{Dir: dir, Name: ConversationsFile}
		}
		return nil, &ParseError{Path: conversationsPath, Err: err}
	}

	bundle := &ExportBundle{}
	if err := json.Unmarshal(data, &bundle.Conversations); err != nil {
		return nil, &ParseError{Path: conversationsPath, Err: err}
	}

	if bundle.Projects, err = loadOptional(filepath.Join(dir, ProjectsFile)); err != nil {
		return nil, err
	}
	if bundle.Users, err = loadOptional(filepath.Join(dir, UsersFile)); err != nil {
		return nil, err
	}
	if bundle.Memories, err = loadOptional(filepath.Join(dir, MemoriesFile)); err != nil {
		return nil, err
	}

	return bundle, nil
}

// loadOptional reads a side-table file, returning an empty slice when the
// file is absent. A present but malformed file is still an error.
func loadOptional(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []json.RawMessage{}, nil
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return rows, nil
}
