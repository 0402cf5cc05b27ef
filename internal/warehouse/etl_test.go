package warehouse

import (
	"database/sql"
	"path/filepath"
	"testing"

	"claude-warehouse/testutil"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "warehouse.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func countRows(t *testing.T, db *sql.DB, query string, args ...interface{}) int {
	t.Helper()
	var count int
	if err := db.QueryRow(query, args...).Scan(&count); err != nil {
		t.Fatalf("query %q failed: %v", query, err)
	}
	return count
}

func TestRunETLEndToEnd(t *testing.T) {
	db := openTestDB(t)
	sessionPath := testutil.CanonicalSession(t)

	stats, err := RunETL(db, sessionPath, "my-project", ETLOptions{})
	if err != nil {
		t.Fatalf("RunETL failed: %v", err)
	}

	if stats.Messages != 6 {
		t.Errorf("Messages = %d, want 6", stats.Messages)
	}
	if stats.ToolCalls != 2 {
		t.Errorf("ToolCalls = %d, want 2", stats.ToolCalls)
	}
	if stats.SkippedLines != 0 {
		t.Errorf("SkippedLines = %d, want 0", stats.SkippedLines)
	}

	t.Run("staging", func(t *testing.T) {
		if got := countRows(t, db, `SELECT COUNT(*) FROM stg_raw_messages`); got != 6 {
			t.Errorf("staged rows = %d, want 6", got)
		}
	})

	t.Run("messages", func(t *testing.T) {
		if got := countRows(t, db, `SELECT COUNT(*) FROM fact_messages`); got != 6 {
			t.Errorf("fact_messages rows = %d, want 6", got)
		}
		// User messages carry no model.
		if got := countRows(t, db, `SELECT COUNT(*) FROM fact_messages WHERE model_key IS NULL`); got != 3 {
			t.Errorf("NULL model_key rows = %d, want 3", got)
		}
		if got := countRows(t, db, `SELECT COUNT(*) FROM fact_messages WHERE date_key = 20250115`); got != 6 {
			t.Errorf("date_key 20250115 rows = %d, want 6", got)
		}
	})

	t.Run("dates and times", func(t *testing.T) {
		var dayName string
		var isWeekend bool
		err := db.QueryRow(
			`SELECT day_name, is_weekend FROM dim_date WHERE date_key = 20250115`,
		).Scan(&dayName, &isWeekend)
		if err != nil {
			t.Fatalf("dim_date lookup failed: %v", err)
		}
		if dayName != "Wednesday" || isWeekend {
			t.Errorf("dim_date = (%s, weekend=%v), want (Wednesday, false)", dayName, isWeekend)
		}

		if got := countRows(t, db, `SELECT COUNT(*) FROM dim_time WHERE time_of_day = 'morning'`); got != 6 {
			t.Errorf("morning dim_time rows = %d, want 6", got)
		}
	})

	t.Run("tools", func(t *testing.T) {
		if got := countRows(t, db, `SELECT COUNT(*) FROM dim_tool WHERE tool_category = 'file_operations'`); got != 2 {
			t.Errorf("file_operations tools = %d, want 2", got)
		}

		var outputChars int
		var isError bool
		err := db.QueryRow(
			`SELECT f.output_char_count, f.is_error
			 FROM fact_tool_calls f JOIN dim_tool d ON d.tool_key = f.tool_key
			 WHERE d.tool_name = 'Write'`,
		).Scan(&outputChars, &isError)
		if err != nil {
			t.Fatalf("tool call lookup failed: %v", err)
		}
		// Backfilled from the tool_result two lines later.
		if outputChars != len("wrote 5 bytes") || isError {
			t.Errorf("Write call = (%d chars, err=%v), want (%d, false)",
				outputChars, isError, len("wrote 5 bytes"))
		}
	})

	t.Run("models", func(t *testing.T) {
		if got := countRows(t, db, `SELECT COUNT(*) FROM dim_model`); got != 2 {
			t.Errorf("dim_model rows = %d, want 2", got)
		}
		var family string
		err := db.QueryRow(
			`SELECT model_family FROM dim_model WHERE model_name = 'claude-opus-4-5-20251101'`,
		).Scan(&family)
		if err != nil {
			t.Fatalf("dim_model lookup failed: %v", err)
		}
		if family != "opus" {
			t.Errorf("model_family = %q, want opus", family)
		}
	})

	t.Run("session", func(t *testing.T) {
		var cwd, branch, version string
		err := db.QueryRow(
			`SELECT cwd, git_branch, version FROM dim_session WHERE session_id = 'sess-fixture'`,
		).Scan(&cwd, &branch, &version)
		if err != nil {
			t.Fatalf("dim_session lookup failed: %v", err)
		}
		if cwd != "/home/dev/project" || branch != "main" || version != "1.0.62" {
			t.Errorf("session meta = (%s, %s, %s)", cwd, branch, version)
		}

		var total, users, assistants, toolCalls, duration int
		err = db.QueryRow(
			`SELECT total_messages, user_messages, assistant_messages,
			        total_tool_calls, session_duration_seconds
			 FROM fact_session_summary`,
		).Scan(&total, &users, &assistants, &toolCalls, &duration)
		if err != nil {
			t.Fatalf("summary lookup failed: %v", err)
		}
		if total != 6 || users != 3 || assistants != 3 || toolCalls != 2 || duration != 25 {
			t.Errorf("summary = (%d, %d, %d, %d, %ds), want (6, 3, 3, 2, 25s)",
				total, users, assistants, toolCalls, duration)
		}
	})

	t.Run("block order", func(t *testing.T) {
		rows, err := db.Query(
			`SELECT b.block_index, d.block_type
			 FROM fact_content_blocks b
			 JOIN dim_content_block_type d ON d.content_block_type_key = b.content_block_type_key
			 WHERE b.message_id = 'asst-001' ORDER BY b.block_index`)
		if err != nil {
			t.Fatalf("block query failed: %v", err)
		}
		defer rows.Close()

		var got []string
		for rows.Next() {
			var index int
			var blockType string
			if err := rows.Scan(&index, &blockType); err != nil {
				t.Fatalf("scan failed: %v", err)
			}
			if index != len(got) {
				t.Errorf("block_index = %d, want %d", index, len(got))
			}
			got = append(got, blockType)
		}
		if len(got) != 2 || got[0] != "text" || got[1] != "tool_use" {
			t.Errorf("block types = %v, want [text tool_use]", got)
		}
	})
}

func TestRunETLMalformedLines(t *testing.T) {
	db := openTestDB(t)
	sessionPath := testutil.WriteSessionFile(t,
		testutil.Logline("user", "u1", "sess-1", "2025-01-15T10:00:00Z", "hello"),
		"{not valid json",
		testutil.WithModel(testutil.Logline("assistant", "a1", "sess-1", "2025-01-15T10:00:05Z",
			[]map[string]interface{}{testutil.TextBlock("hi")}), "claude-sonnet-4-20250514"),
	)

	stats, err := RunETL(db, sessionPath, "p", ETLOptions{})
	if err != nil {
		t.Fatalf("RunETL failed: %v", err)
	}

	if stats.Messages != 2 {
		t.Errorf("Messages = %d, want 2", stats.Messages)
	}
	if stats.SkippedLines != 1 {
		t.Errorf("SkippedLines = %d, want 1", stats.SkippedLines)
	}
	// The malformed line is still staged.
	if got := countRows(t, db, `SELECT COUNT(*) FROM stg_raw_messages`); got != 3 {
		t.Errorf("staged rows = %d, want 3", got)
	}
}

func TestRunETLUnparseableTimestamps(t *testing.T) {
	db := openTestDB(t)
	sessionPath := testutil.WriteSessionFile(t,
		testutil.Logline("user", "u1", "sess-1", "not-a-timestamp", "hello"),
		testutil.Logline("user", "u2", "sess-1", "", "again"),
	)

	stats, err := RunETL(db, sessionPath, "p", ETLOptions{})
	if err != nil {
		t.Fatalf("RunETL failed: %v", err)
	}
	if stats.Messages != 2 {
		t.Errorf("Messages = %d, want 2", stats.Messages)
	}

	if got := countRows(t, db, `SELECT COUNT(*) FROM fact_messages WHERE date_key IS NULL`); got != 2 {
		t.Errorf("NULL date_key rows = %d, want 2", got)
	}
	var duration int
	if err := db.QueryRow(`SELECT session_duration_seconds FROM fact_session_summary`).Scan(&duration); err != nil {
		t.Fatalf("summary lookup failed: %v", err)
	}
	if duration != 0 {
		t.Errorf("duration = %d, want 0 when no timestamp parses", duration)
	}
}

func TestRunETLExcludeThinking(t *testing.T) {
	db := openTestDB(t)
	sessionPath := testutil.WriteSessionFile(t,
		testutil.WithModel(testutil.Logline("assistant", "a1", "sess-1", "2025-01-15T10:00:00Z",
			[]map[string]interface{}{
				testutil.ThinkingBlock("pondering"),
				testutil.TextBlock("answer"),
			}), "claude-opus-4-5-20251101"),
	)

	if _, err := RunETL(db, sessionPath, "p", ETLOptions{ExcludeThinking: true}); err != nil {
		t.Fatalf("RunETL failed: %v", err)
	}

	if got := countRows(t, db, `SELECT COUNT(*) FROM fact_content_blocks`); got != 1 {
		t.Errorf("content block rows = %d, want 1 after dropping thinking", got)
	}
	if got := countRows(t, db, `SELECT COUNT(*) FROM fact_messages WHERE has_thinking = 1`); got != 0 {
		t.Errorf("has_thinking rows = %d, want 0", got)
	}
	// The remaining block re-indexes from zero.
	if got := countRows(t, db, `SELECT COUNT(*) FROM fact_content_blocks WHERE block_index = 0`); got != 1 {
		t.Errorf("block_index 0 rows = %d, want 1", got)
	}
}

func TestRunETLReloadDuplicates(t *testing.T) {
	db := openTestDB(t)
	sessionPath := testutil.CanonicalSession(t)

	for i := 0; i < 2; i++ {
		if _, err := RunETL(db, sessionPath, "p", ETLOptions{}); err != nil {
			t.Fatalf("RunETL run %d failed: %v", i+1, err)
		}
	}

	// No constraints: a re-load appends everything again.
	if got := countRows(t, db, `SELECT COUNT(*) FROM fact_messages`); got != 12 {
		t.Errorf("fact_messages rows = %d, want 12 after two loads", got)
	}
	if got := countRows(t, db, `SELECT COUNT(*) FROM fact_session_summary`); got != 2 {
		t.Errorf("summary rows = %d, want 2", got)
	}
}

func TestRunETLUnmatchedToolUse(t *testing.T) {
	db := openTestDB(t)
	// A tool_use with a null id still gets a fact row; it just cannot be
	// matched to a result.
	sessionPath := testutil.WriteSessionFile(t,
		testutil.WithModel(testutil.Logline("assistant", "a1", "sess-1", "2025-01-15T10:00:00Z",
			[]map[string]interface{}{
				{"type": "tool_use", "id": nil, "name": "Bash", "input": map[string]interface{}{"command": "ls"}},
			}), "claude-opus-4-5-20251101"),
		testutil.Logline("user", "u1", "sess-1", "2025-01-15T10:00:05Z",
			[]map[string]interface{}{testutil.ToolResultBlock("toolu_missing", "output", true)}),
	)

	stats, err := RunETL(db, sessionPath, "p", ETLOptions{})
	if err != nil {
		t.Fatalf("RunETL failed: %v", err)
	}
	if stats.ToolCalls != 1 {
		t.Errorf("ToolCalls = %d, want 1", stats.ToolCalls)
	}

	var outputChars int
	var toolCallID sql.NullString
	err = db.QueryRow(`SELECT tool_call_id, output_char_count FROM fact_tool_calls`).Scan(&toolCallID, &outputChars)
	if err != nil {
		t.Fatalf("tool call lookup failed: %v", err)
	}
	if toolCallID.Valid {
		t.Errorf("tool_call_id = %q, want NULL", toolCallID.String)
	}
	if outputChars != 0 {
		t.Errorf("output_char_count = %d, want 0 for unmatched call", outputChars)
	}
}

func TestRunETLStringContent(t *testing.T) {
	db := openTestDB(t)
	sessionPath := testutil.WriteSessionFile(t,
		testutil.Logline("user", "u1", "sess-1", "2025-01-15T10:00:00Z", "plain string content"),
	)

	if _, err := RunETL(db, sessionPath, "p", ETLOptions{}); err != nil {
		t.Fatalf("RunETL failed: %v", err)
	}

	var contentLength, blockCount int
	err := db.QueryRow(
		`SELECT content_length, content_block_count FROM fact_messages`,
	).Scan(&contentLength, &blockCount)
	if err != nil {
		t.Fatalf("fact lookup failed: %v", err)
	}
	if contentLength != len("plain string content") {
		t.Errorf("content_length = %d, want %d", contentLength, len("plain string content"))
	}
	if blockCount != 0 {
		t.Errorf("content_block_count = %d, want 0 for string content", blockCount)
	}
}
