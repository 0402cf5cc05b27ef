package internal

import "fmt"

// Error messages carry the offending path and a cause, never content values
// from the export itself.

// MissingFileError reports an export directory lacking a required file.
type MissingFileError struct {
	Dir  string
	Name string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s not found in %s: not a valid Claude.ai export directory", e.Name, e.Dir)
}

// ParseError reports a file that exists but could not be parsed as JSON.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ETLError reports a failure while loading a session into the warehouse.
type ETLError struct {
	SessionPath string
	Op          string // "open", "stage", "insert", "commit"
	Err         error
}

func (e *ETLError) Error() string {
	return fmt.Sprintf("etl error: %s %s: %v", e.Op, e.SessionPath, e.Err)
}

func (e *ETLError) Unwrap() error {
	return e.Err
}

// ExportError reports a failure writing normalized output.
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
