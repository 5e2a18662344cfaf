package applier

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff renders the difference between two versions of a file.
// Identical texts produce an empty string.
func UnifiedDiff(path, oldText, newText string, contextLines int) string {
	if oldText == newText {
		return ""
	}

	u := difflib.UnifiedDiff{
		A:        splitLinesKeepNL(oldText),
		B:        splitLinesKeepNL(newText),
		FromFile: "a" + path,
		ToFile:   "b" + path,
		Context:  contextLines,
	}
	s, err := difflib.GetUnifiedDiffString(u)
	if err != nil || s == "" {
		return fmt.Sprintf("--- a%s\n+++ b%s\n@@\n# diff unavailable\n", path, path)
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s
}

// splitLinesKeepNL splits into lines and keeps newline characters,
// which produces better unified hunks.
func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	lines := strings.SplitAfter(s, "\n")
	last := len(lines) - 1
	if lines[last] == "" {
		return lines[:last]
	}
	// Unified output is line based, so terminate the final line for display.
	lines[last] += "\n"
	return lines
}
