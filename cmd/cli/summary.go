package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/anstrom/scandiff/internal/diff"
)

// writeSummary prints a per-host change summary table plus section and
// total rows. It goes to stderr so the report on stdout stays parseable.
func writeSummary(w io.Writer, r *diff.Result) {
	table := tablewriter.NewWriter(w)
	table.Header("Host", "Change", "Cost")

	if n := changedCount(r.PreScriptDiffs); n > 0 {
		_ = table.Append([]string{"(pre-scan scripts)", "changed", strconv.Itoa(n)})
	}
	for _, hd := range r.Hosts {
		if hd.Cost == 0 {
			continue
		}
		_ = table.Append([]string{summaryName(hd), summaryChange(hd), strconv.Itoa(hd.Cost)})
	}
	if n := changedCount(r.PostScriptDiffs); n > 0 {
		_ = table.Append([]string{"(post-scan scripts)", "changed", strconv.Itoa(n)})
	}

	_ = table.Render()
	fmt.Fprintf(w, "Total cost: %d\n", r.Cost)
}

func summaryName(hd *diff.HostDiff) string {
	if hd.HostA.State != "" {
		return hd.HostA.FormatName()
	}
	return hd.HostB.FormatName()
}

func summaryChange(hd *diff.HostDiff) string {
	switch {
	case hd.HostA.State == "":
		return "added"
	case hd.HostB.State == "":
		return "removed"
	default:
		return "changed"
	}
}

func changedCount(diffs []diff.ScriptResultDiff) int {
	n := 0
	for _, d := range diffs {
		if d.Changed() {
			n++
		}
	}
	return n
}
