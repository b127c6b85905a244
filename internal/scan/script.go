package scan

import (
	"cmp"
	"strings"
)

// ScriptResult is the output of a single NSE script run.
type ScriptResult struct {
	ID     string
	Output string
}

// Equal reports whether two script results have the same id and output.
func (r ScriptResult) Equal(other ScriptResult) bool {
	return r.ID == other.ID && r.Output == other.Output
}

// CompareScriptResults orders script results by id, then output.
func CompareScriptResults(a, b ScriptResult) int {
	if c := cmp.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	return cmp.Compare(a.Output, b.Output)
}

// Lines renders the script result the way nmap prints it: the first line
// carries the script id, continuation lines are gutter-prefixed, and the
// final line closes the gutter.
func (r ScriptResult) Lines() []string {
	if r.Output == "" {
		return nil
	}
	lines := strings.Split(r.Output, "\n")
	// A trailing newline in the output produces a trailing empty line;
	// drop it so the gutter closes on the last real line.
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	lines[0] = r.ID + ": " + lines[0]

	result := make([]string, 0, len(lines))
	for _, line := range lines[:len(lines)-1] {
		result = append(result, "|  "+line)
	}
	result = append(result, "|_ "+lines[len(lines)-1])
	return result
}
