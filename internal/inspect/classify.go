package inspect

import "regexp"

// String classification patterns. Classification reports the pattern a value
// matches plus its length, never the value itself; the one exception is
// enum_like, where the value is by definition a short machine token.
var (
	uuidPattern    = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	iso8601Pattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}`)
	datePattern    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	urlPattern     = regexp.MustCompile(`^https?://`)
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	enumPattern    = regexp.MustCompile(`^[a-z_]+$`)
)

// maxEnumLength bounds how long a string can be and still count as an
// enum-like token.
const maxEnumLength = 30

func classifyString(value string) *Schema {
	length := len(value)
	s := &Schema{Type: TypeString, Length: &length}

	switch {
	case uuidPattern.MatchString(value):
		s.Format = "uuid"
	case iso8601Pattern.MatchString(value):
		s.Format = "iso8601"
	case datePattern.MatchString(value):
		s.Format = "date"
	case value == "true" || value == "false":
		s.Format = "boolean_string"
	case urlPattern.MatchString(value):
		s.Format = "url"
	case emailPattern.MatchString(value):
		s.Format = "email"
	case length <= maxEnumLength && enumPattern.MatchString(value):
		s.Format = "enum_like"
		s.ExamplePattern = value
	}

	return s
}
