package warehouse

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"os"
	"time"

	"claude-warehouse/internal"
)

const maxLineSize = 10 * 1024 * 1024 // 10MB

// sessionRecord is the persisted logline shape plus the session metadata
// fields some records carry (working directory, branch, tool version).
type sessionRecord struct {
	Type      string `json:"type"`
	UUID      string `json:"uuid"`
	SessionID string `json:"sessionId"`
	Timestamp string `json:"timestamp"`
	Cwd       string `json:"cwd"`
	GitBranch string `json:"gitBranch"`
	Version   string `json:"version"`
	Message   struct {
		Role    string          `json:"role"`
		Model   string          `json:"model"`
		Content json.RawMessage `json:"content"`
	} `json:"message"`
}

// ETLOptions controls one warehouse load.
type ETLOptions struct {
	// ExcludeThinking drops thinking blocks before any measure or fact is
	// derived from a message.
	ExcludeThinking bool
}

// Stats summarizes one ETL run.
type Stats struct {
	Messages      int
	ContentBlocks int
	ToolCalls     int
	SkippedLines  int
}

// pendingToolCall accumulates a fact_tool_calls row. Output measures are
// backfilled when the matching tool_result arrives, which may be any number
// of messages later.
type pendingToolCall struct {
	id          *string
	messageID   string
	sessionKey  string
	toolKey     string
	dateKey     interface{}
	timeKey     interface{}
	inputChars  int
	outputChars int
	isError     bool
}

// RunETL loads one session's logline stream into the star schema. The
// caller owns the db handle; the whole load runs in a single transaction.
// Malformed lines and unparseable timestamps are absorbed, never fatal.
func RunETL(db *sql.DB, sessionPath, project string, opts ETLOptions) (*Stats, error) {
	f, err := os.Open(sessionPath)
	if err != nil {
		return nil, &internal.ETLError{SessionPath: sessionPath, Op: "open", Err: err}
	}
	defer f.Close()

	tx, err := db.Begin()
	if err != nil {
		return nil, &internal.ETLError{SessionPath: sessionPath, Op: "begin", Err: err}
	}
	defer tx.Rollback()

	run := &etlRun{
		tx:         tx,
		project:    project,
		opts:       opts,
		seenDates:  make(map[int]struct{}),
		seenTimes:  make(map[int]struct{}),
		seenTypes:  make(map[string]struct{}),
		seenModels: make(map[string]struct{}),
		seenTools:  make(map[string]struct{}),
		seenBlocks: make(map[string]struct{}),
		matchByID:  make(map[string]*pendingToolCall),
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		lineNum++

		if err := run.processLine(lineNum, line); err != nil {
			return nil, &internal.ETLError{SessionPath: sessionPath, Op: "insert", Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &internal.ETLError{SessionPath: sessionPath, Op: "read", Err: err}
	}

	if err := run.finish(); err != nil {
		return nil, &internal.ETLError{SessionPath: sessionPath, Op: "insert", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return nil, &internal.ETLError{SessionPath: sessionPath, Op: "commit", Err: err}
	}
	return &run.stats, nil
}

// etlRun carries the per-load state: the per-run dimension dedupe sets, the
// tool-call matching table, and the session aggregates.
type etlRun struct {
	tx      *sql.Tx
	project string
	opts    ETLOptions
	stats   Stats

	projectKey string

	sessionID      string
	sessionKey     string
	sessionCwd     string
	sessionBranch  string
	sessionVersion string
	haveSession    bool

	seenDates  map[int]struct{}
	seenTimes  map[int]struct{}
	seenTypes  map[string]struct{}
	seenModels map[string]struct{}
	seenTools  map[string]struct{}
	seenBlocks map[string]struct{}

	toolCalls []*pendingToolCall
	matchByID map[string]*pendingToolCall

	userMessages      int
	assistantMessages int
	firstTS, lastTS   time.Time
}

func (r *etlRun) processLine(lineNum int, line []byte) error {
	var rec sessionRecord
	parseErr := json.Unmarshal(line, &rec)

	// Stage the raw line first, parseable or not, for traceability.
	if _, err := r.tx.Exec(
		`INSERT INTO stg_raw_messages (session_id, line_number, raw_json) VALUES (?, ?, ?)`,
		rec.SessionID, lineNum, string(line),
	); err != nil {
		return err
	}
	if parseErr != nil {
		r.stats.SkippedLines++
		internal.LogWarn("skipping malformed line %d: %v", lineNum, parseErr)
		return nil
	}

	if err := r.ensureProject(); err != nil {
		return err
	}
	r.captureSessionMeta(&rec)

	sessionKey := Key(rec.SessionID)
	messageTypeKey, err := r.ensureMessageType(rec.Type)
	if err != nil {
		return err
	}

	var modelKey interface{}
	if rec.Type == "assistant" && rec.Message.Model != "" {
		key, err := r.ensureModel(rec.Message.Model)
		if err != nil {
			return err
		}
		modelKey = key
	}

	var dateKey, timeKey interface{}
	if ts, ok := parseTimestamp(rec.Timestamp); ok {
		dk, tk, err := r.ensureDateTime(ts)
		if err != nil {
			return err
		}
		dateKey, timeKey = dk, tk
		if r.firstTS.IsZero() {
			r.firstTS = ts
		}
		r.lastTS = ts
	}

	contentLength, blocks := decodeContent(rec.Message.Content)
	if r.opts.ExcludeThinking {
		blocks = withoutThinking(blocks)
	}

	hasToolUse, hasToolResult, hasThinking := false, false, false
	for _, b := range blocks {
		switch b.Type {
		case internal.BlockToolUse:
			hasToolUse = true
		case internal.BlockToolResult:
			hasToolResult = true
		case internal.BlockThinking:
			hasThinking = true
		}
	}

	if _, err := r.tx.Exec(
		`INSERT INTO fact_messages
		 (message_id, session_key, project_key, message_type_key, model_key,
		  date_key, time_key, timestamp, content_length, content_block_count,
		  has_tool_use, has_tool_result, has_thinking)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UUID, sessionKey, r.projectKey, messageTypeKey, modelKey,
		dateKey, timeKey, rec.Timestamp, contentLength, len(blocks),
		hasToolUse, hasToolResult, hasThinking,
	); err != nil {
		return err
	}
	r.stats.Messages++
	switch rec.Type {
	case "user":
		r.userMessages++
	case "assistant":
		r.assistantMessages++
	}

	for i, block := range blocks {
		if err := r.processBlock(&rec, sessionKey, dateKey, timeKey, i, block); err != nil {
			return err
		}
	}
	return nil
}

func (r *etlRun) processBlock(rec *sessionRecord, sessionKey string, dateKey, timeKey interface{}, index int, block internal.ContentBlock) error {
	blockTypeKey, err := r.ensureBlockType(block.Type)
	if err != nil {
		return err
	}

	if _, err := r.tx.Exec(
		`INSERT INTO fact_content_blocks
		 (message_id, session_key, content_block_type_key, block_index, char_count)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.UUID, sessionKey, blockTypeKey, index, blockCharCount(block),
	); err != nil {
		return err
	}
	r.stats.ContentBlocks++

	switch block.Type {
	case internal.BlockToolUse:
		toolKey, err := r.ensureTool(block.Name)
		if err != nil {
			return err
		}
		call := &pendingToolCall{
			id:         block.ID,
			messageID:  rec.UUID,
			sessionKey: sessionKey,
			toolKey:    toolKey,
			dateKey:    dateKey,
			timeKey:    timeKey,
			inputChars: len(block.Input),
		}
		r.toolCalls = append(r.toolCalls, call)
		if block.ID != nil {
			r.matchByID[*block.ID] = call
		}

	case internal.BlockToolResult:
		if call, ok := r.matchByID[block.ToolUseID]; ok {
			call.outputChars = rawPayloadLength(block.Content)
			call.isError = block.IsError
		}
	}
	return nil
}

// finish inserts the buffered tool-call facts, the session dimension row,
// and the single summary row for this load.
func (r *etlRun) finish() error {
	for _, call := range r.toolCalls {
		var id interface{}
		if call.id != nil {
			id = *call.id
		}
		if _, err := r.tx.Exec(
			`INSERT INTO fact_tool_calls
			 (tool_call_id, message_id, session_key, project_key, tool_key,
			  date_key, time_key, input_char_count, output_char_count, is_error)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, call.messageID, call.sessionKey, r.projectKey, call.toolKey,
			call.dateKey, call.timeKey, call.inputChars, call.outputChars, call.isError,
		); err != nil {
			return err
		}
		r.stats.ToolCalls++
	}

	if r.stats.Messages == 0 {
		return nil
	}

	if _, err := r.tx.Exec(
		`INSERT INTO dim_session (session_key, session_id, cwd, git_branch, version)
		 VALUES (?, ?, ?, ?, ?)`,
		r.sessionKey, r.sessionID, r.sessionCwd, r.sessionBranch, r.sessionVersion,
	); err != nil {
		return err
	}

	duration := int64(0)
	if !r.firstTS.IsZero() && !r.lastTS.IsZero() {
		duration = int64(r.lastTS.Sub(r.firstTS).Seconds())
	}

	_, err := r.tx.Exec(
		`INSERT INTO fact_session_summary
		 (session_key, project_key, total_messages, user_messages,
		  assistant_messages, total_tool_calls, session_duration_seconds)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.sessionKey, r.projectKey, r.stats.Messages, r.userMessages,
		r.assistantMessages, len(r.toolCalls), duration,
	)
	return err
}

func (r *etlRun) ensureProject() error {
	if r.projectKey != "" {
		return nil
	}
	r.projectKey = Key(r.project)
	_, err := r.tx.Exec(
		`INSERT INTO dim_project (project_key, project_name) VALUES (?, ?)`,
		r.projectKey, r.project,
	)
	return err
}

// captureSessionMeta records the session identity and the first metadata
// values seen; later records do not overwrite them.
func (r *etlRun) captureSessionMeta(rec *sessionRecord) {
	if !r.haveSession {
		r.sessionID = rec.SessionID
		r.sessionKey = Key(rec.SessionID)
		r.haveSession = true
	}
	if r.sessionCwd == "" {
		r.sessionCwd = rec.Cwd
	}
	if r.sessionBranch == "" {
		r.sessionBranch = rec.GitBranch
	}
	if r.sessionVersion == "" {
		r.sessionVersion = rec.Version
	}
}

func (r *etlRun) ensureMessageType(messageType string) (string, error) {
	key := Key(messageType)
	if _, ok := r.seenTypes[messageType]; ok {
		return key, nil
	}
	r.seenTypes[messageType] = struct{}{}
	_, err := r.tx.Exec(
		`INSERT INTO dim_message_type (message_type_key, message_type) VALUES (?, ?)`,
		key, messageType,
	)
	return key, err
}

func (r *etlRun) ensureModel(model string) (string, error) {
	key := Key(model)
	if _, ok := r.seenModels[model]; ok {
		return key, nil
	}
	r.seenModels[model] = struct{}{}
	_, err := r.tx.Exec(
		`INSERT INTO dim_model (model_key, model_name, model_family) VALUES (?, ?, ?)`,
		key, model, ModelFamily(model),
	)
	return key, err
}

func (r *etlRun) ensureTool(name string) (string, error) {
	key := Key(name)
	if _, ok := r.seenTools[name]; ok {
		return key, nil
	}
	r.seenTools[name] = struct{}{}
	_, err := r.tx.Exec(
		`INSERT INTO dim_tool (tool_key, tool_name, tool_category) VALUES (?, ?, ?)`,
		key, name, ToolCategory(name),
	)
	return key, err
}

func (r *etlRun) ensureBlockType(blockType string) (string, error) {
	key := Key(blockType)
	if _, ok := r.seenBlocks[blockType]; ok {
		return key, nil
	}
	r.seenBlocks[blockType] = struct{}{}
	_, err := r.tx.Exec(
		`INSERT INTO dim_content_block_type (content_block_type_key, block_type) VALUES (?, ?)`,
		key, blockType,
	)
	return key, err
}

func (r *etlRun) ensureDateTime(ts time.Time) (int, int, error) {
	dateKey := ts.Year()*10000 + int(ts.Month())*100 + ts.Day()
	if _, ok := r.seenDates[dateKey]; !ok {
		r.seenDates[dateKey] = struct{}{}
		weekday := int(ts.Weekday())
		isWeekend := weekday == 0 || weekday == 6
		if _, err := r.tx.Exec(
			`INSERT INTO dim_date
			 (date_key, full_date, year, month, day, day_of_week, day_name,
			  month_name, quarter, is_weekend)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			dateKey, ts.Format("2006-01-02"), ts.Year(), int(ts.Month()), ts.Day(),
			weekday, ts.Weekday().String(), ts.Month().String(),
			(int(ts.Month())-1)/3+1, isWeekend,
		); err != nil {
			return 0, 0, err
		}
	}

	timeKey := ts.Hour()*100 + ts.Minute()
	if _, ok := r.seenTimes[timeKey]; !ok {
		r.seenTimes[timeKey] = struct{}{}
		if _, err := r.tx.Exec(
			`INSERT INTO dim_time (time_key, hour, minute, time_of_day) VALUES (?, ?, ?, ?)`,
			timeKey, ts.Hour(), ts.Minute(), TimeOfDay(ts.Hour()),
		); err != nil {
			return 0, 0, err
		}
	}

	return dateKey, timeKey, nil
}

// decodeContent handles the two persisted content shapes: a plain string
// (older user messages) or an array of content blocks. The length measure
// is the serialized content size in either case.
func decodeContent(raw json.RawMessage) (int, []internal.ContentBlock) {
	if len(raw) == 0 {
		return 0, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return len(s), nil
	}

	var blocks []internal.ContentBlock
	if err := json.Unmarshal(raw, &blocks); err == nil {
		return len(raw), blocks
	}
	return len(raw), nil
}

func withoutThinking(blocks []internal.ContentBlock) []internal.ContentBlock {
	kept := blocks[:0:len(blocks)]
	for _, b := range blocks {
		if b.Type != internal.BlockThinking {
			kept = append(kept, b)
		}
	}
	return kept
}

// blockCharCount measures the block's primary payload.
func blockCharCount(block internal.ContentBlock) int {
	switch block.Type {
	case internal.BlockText:
		return len(block.Text)
	case internal.BlockThinking:
		return len(block.Thinking)
	case internal.BlockToolUse:
		return len(block.Input)
	case internal.BlockToolResult:
		return rawPayloadLength(block.Content)
	default:
		return 0
	}
}

// rawPayloadLength measures tool_result content, which may be a JSON string
// or a nested block array. Strings count their decoded length.
func rawPayloadLength(raw json.RawMessage) int {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return len(s)
	}
	return len(raw)
}

// parseTimestamp tries the timestamp layouts that occur in session files.
func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
