package diff

import (
	"github.com/anstrom/scandiff/internal/scan"
)

// ScriptResultDiff pairs a script result from each scan. Either side may
// be nil when the script ran in only one scan. It carries no cost of its
// own; parents count their changed pairs.
type ScriptResultDiff struct {
	A, B *scan.ScriptResult
}

// Changed reports whether the pair represents a real difference rather
// than an unchanged result carried along for exhaustive output.
func (d ScriptResultDiff) Changed() bool {
	if d.A == nil || d.B == nil {
		return true
	}
	return !d.A.Equal(*d.B)
}

// diffScriptResults aligns two id-sorted script result lists. Unmatched
// entries become one-sided diffs; matched entries are included when their
// output differs, or unconditionally in verbose mode.
func diffScriptResults(a, b []scan.ScriptResult, verbose bool) []ScriptResultDiff {
	var diffs []ScriptResultDiff
	for _, pair := range MergeJoin(a, b, func(r scan.ScriptResult) string { return r.ID }) {
		switch {
		case !pair.HasB:
			sr := pair.A
			diffs = append(diffs, ScriptResultDiff{A: &sr})
		case !pair.HasA:
			sr := pair.B
			diffs = append(diffs, ScriptResultDiff{B: &sr})
		case pair.A.Output != pair.B.Output || verbose:
			srA, srB := pair.A, pair.B
			diffs = append(diffs, ScriptResultDiff{A: &srA, B: &srB})
		}
	}
	return diffs
}

// countChanged counts the pairs that represent real differences.
func countChanged(diffs []ScriptResultDiff) int {
	n := 0
	for _, d := range diffs {
		if d.Changed() {
			n++
		}
	}
	return n
}
