package warehouse

import "strings"

// Static categorization lookups. All three are pure functions over immutable
// package-level data: identical input always yields identical output, and
// unknown inputs fall back to a catch-all rather than failing.

// toolCategories maps known tool names to analytics categories.
var toolCategories = map[string]string{
	"Read":         "file_operations",
	"Write":        "file_operations",
	"Edit":         "file_operations",
	"MultiEdit":    "file_operations",
	"NotebookRead": "notebook",
	"NotebookEdit": "notebook",
	"Glob":         "search",
	"Grep":         "search",
	"LS":           "search",
	"WebSearch":    "search",
	"WebFetch":     "network",
	"Bash":         "execution",
	"Task":         "execution",
	"TodoRead":     "planning",
	"TodoWrite":    "planning",
	"ExitPlanMode": "planning",
}

// ToolCategory returns the analytics category for a tool name. Unknown tools
// map to "other".
func ToolCategory(name string) string {
	if category, ok := toolCategories[name]; ok {
		return category
	}
	return "other"
}

// modelFamilies lists substring markers checked in order.
var modelFamilies = []string{"opus", "sonnet", "haiku"}

// ModelFamily derives a family label from a model name, e.g.
// "claude-opus-4-5-20251101" -> "opus". Unrecognized names map to "other".
func ModelFamily(name string) string {
	lower := strings.ToLower(name)
	for _, family := range modelFamilies {
		if strings.Contains(lower, family) {
			return family
		}
	}
	return "other"
}

// TimeOfDay buckets an hour of day (0-23) into a named band:
//
//	05-11 morning, 12-16 afternoon, 17-20 evening, 21-04 night
func TimeOfDay(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "morning"
	case hour >= 12 && hour < 17:
		return "afternoon"
	case hour >= 17 && hour < 21:
		return "evening"
	default:
		return "night"
	}
}
