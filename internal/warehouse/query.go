package warehouse

import "database/sql"

// Read-side helpers for the stats report. Every query joins facts to
// dimensions with LEFT JOIN so rows whose dimension is missing still count,
// bucketed under the zero value.

// ToolUsage is one row of the per-category tool report.
type ToolUsage struct {
	Category string
	Tool     string
	Calls    int
	Errors   int
}

// ToolUsageByCategory reports call and error counts per tool, ordered by
// category then call volume.
func ToolUsageByCategory(db *sql.DB) ([]ToolUsage, error) {
	rows, err := db.Query(`
		SELECT COALESCE(d.tool_category, ''), COALESCE(d.tool_name, ''),
		       COUNT(*), SUM(f.is_error)
		FROM fact_tool_calls f
		LEFT JOIN dim_tool d ON d.tool_key = f.tool_key
		GROUP BY d.tool_category, d.tool_name
		ORDER BY d.tool_category, COUNT(*) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usage []ToolUsage
	for rows.Next() {
		var u ToolUsage
		if err := rows.Scan(&u.Category, &u.Tool, &u.Calls, &u.Errors); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

// ModelUsage is one row of the per-family message report.
type ModelUsage struct {
	Family   string
	Model    string
	Messages int
}

// MessagesByModel reports assistant message counts per model. Messages with
// no model (user messages) are excluded.
func MessagesByModel(db *sql.DB) ([]ModelUsage, error) {
	rows, err := db.Query(`
		SELECT COALESCE(d.model_family, ''), COALESCE(d.model_name, ''), COUNT(*)
		FROM fact_messages f
		LEFT JOIN dim_model d ON d.model_key = f.model_key
		WHERE f.model_key IS NOT NULL
		GROUP BY d.model_family, d.model_name
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var usage []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(&u.Family, &u.Model, &u.Messages); err != nil {
			return nil, err
		}
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

// ActivityBucket is one time-of-day band with its message count.
type ActivityBucket struct {
	TimeOfDay string
	Messages  int
}

// ActivityByTimeOfDay reports message counts per time-of-day band.
func ActivityByTimeOfDay(db *sql.DB) ([]ActivityBucket, error) {
	rows, err := db.Query(`
		SELECT COALESCE(d.time_of_day, ''), COUNT(*)
		FROM fact_messages f
		LEFT JOIN dim_time d ON d.time_key = f.time_key
		GROUP BY d.time_of_day
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []ActivityBucket
	for rows.Next() {
		var b ActivityBucket
		if err := rows.Scan(&b.TimeOfDay, &b.Messages); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// SessionSummary is one session's aggregate row joined to its dimension.
type SessionSummary struct {
	SessionID         string
	Project           string
	TotalMessages     int
	UserMessages      int
	AssistantMessages int
	ToolCalls         int
	DurationSeconds   int64
}

// SessionSummaries lists every loaded session, longest first.
func SessionSummaries(db *sql.DB) ([]SessionSummary, error) {
	rows, err := db.Query(`
		SELECT COALESCE(s.session_id, ''), COALESCE(p.project_name, ''),
		       f.total_messages, f.user_messages, f.assistant_messages,
		       f.total_tool_calls, f.session_duration_seconds
		FROM fact_session_summary f
		LEFT JOIN dim_session s ON s.session_key = f.session_key
		LEFT JOIN dim_project p ON p.project_key = f.project_key
		ORDER BY f.session_duration_seconds DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []SessionSummary
	for rows.Next() {
		var s SessionSummary
		if err := rows.Scan(&s.SessionID, &s.Project, &s.TotalMessages,
			&s.UserMessages, &s.AssistantMessages, &s.ToolCalls, &s.DurationSeconds); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
