package warehouse

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// The star schema deliberately declares no primary keys, foreign keys,
// uniqueness or not-null constraints. Facts reference dimensions by value
// only, so partial, out-of-order, or replayed loads always insert cleanly
// and analytics tolerate missing dimension rows via outer joins. This is a
// product decision: robustness over integrity enforcement.
const schema = `
CREATE TABLE IF NOT EXISTS dim_tool (
    tool_key        TEXT,
    tool_name       TEXT,
    tool_category   TEXT
);

CREATE TABLE IF NOT EXISTS dim_model (
    model_key       TEXT,
    model_name      TEXT,
    model_family    TEXT
);

CREATE TABLE IF NOT EXISTS dim_project (
    project_key     TEXT,
    project_name    TEXT
);

CREATE TABLE IF NOT EXISTS dim_session (
    session_key     TEXT,
    session_id      TEXT,
    cwd             TEXT,
    git_branch      TEXT,
    version         TEXT
);

CREATE TABLE IF NOT EXISTS dim_date (
    date_key        INTEGER,
    full_date       TEXT,
    year            INTEGER,
    month           INTEGER,
    day             INTEGER,
    day_of_week     INTEGER,
    day_name        TEXT,
    month_name      TEXT,
    quarter         INTEGER,
    is_weekend      INTEGER
);

CREATE TABLE IF NOT EXISTS dim_time (
    time_key        INTEGER,
    hour            INTEGER,
    minute          INTEGER,
    time_of_day     TEXT
);

CREATE TABLE IF NOT EXISTS dim_message_type (
    message_type_key    TEXT,
    message_type        TEXT
);

CREATE TABLE IF NOT EXISTS dim_content_block_type (
    content_block_type_key  TEXT,
    block_type              TEXT
);

CREATE TABLE IF NOT EXISTS stg_raw_messages (
    session_id      TEXT,
    line_number     INTEGER,
    raw_json        TEXT
);

CREATE TABLE IF NOT EXISTS fact_messages (
    message_id          TEXT,
    session_key         TEXT,
    project_key         TEXT,
    message_type_key    TEXT,
    model_key           TEXT,
    date_key            INTEGER,
    time_key            INTEGER,
    timestamp           TEXT,
    content_length      INTEGER,
    content_block_count INTEGER,
    has_tool_use        INTEGER,
    has_tool_result     INTEGER,
    has_thinking        INTEGER
);

CREATE TABLE IF NOT EXISTS fact_tool_calls (
    tool_call_id        TEXT,
    message_id          TEXT,
    session_key         TEXT,
    project_key         TEXT,
    tool_key            TEXT,
    date_key            INTEGER,
    time_key            INTEGER,
    input_char_count    INTEGER,
    output_char_count   INTEGER,
    is_error            INTEGER
);

CREATE TABLE IF NOT EXISTS fact_content_blocks (
    message_id              TEXT,
    session_key             TEXT,
    content_block_type_key  TEXT,
    block_index             INTEGER,
    char_count              INTEGER
);

CREATE TABLE IF NOT EXISTS fact_session_summary (
    session_key                 TEXT,
    project_key                 TEXT,
    total_messages              INTEGER,
    user_messages               INTEGER,
    assistant_messages          INTEGER,
    total_tool_calls            INTEGER,
    session_duration_seconds    INTEGER
);
`

// CreateStarSchema creates every dimension, staging, and fact table if it
// does not already exist. Existing rows are never touched, so calling this
// against an initialized store is safe.
func CreateStarSchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("init star schema: %w", err)
	}
	return nil
}

// Open opens (creating if necessary) a warehouse database at path and
// ensures the star schema exists. The caller owns the returned handle.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create warehouse dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open warehouse: %w", err)
	}

	if err := CreateStarSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
