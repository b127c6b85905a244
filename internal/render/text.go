// Package render turns a computed scan diff into output: a line-oriented
// text report or a structured XML document. Both renderers walk the same
// diff tree; lines and elements present only in the "before" scan are
// marked removed, those only in the "after" scan added.
package render

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/anstrom/scandiff/internal/diff"
	"github.com/anstrom/scandiff/internal/scan"
)

const (
	preScriptsTitle  = "Pre-scan script results"
	postScriptsTitle = "Post-scan script results"
	hostScriptsTitle = "Host script results"
)

// Text writes the plain-text report for a comparison result. Unchanged
// lines carry a leading space, removed lines a leading "-", added lines
// a leading "+".
func Text(w io.Writer, r *diff.Result, opts diff.Options) error {
	p := &printer{w: w}

	bannerA := formatBanner(r.ScanA)
	bannerB := formatBanner(r.ScanB)
	if bannerA != bannerB {
		p.printf("-%s\n", bannerA)
		p.printf("+%s\n", bannerB)
	} else if opts.Verbose {
		p.printf(" %s\n", bannerA)
	}

	writeScriptSection(p, preScriptsTitle,
		r.ScanA.PreScriptResults, r.ScanB.PreScriptResults, r.PreScriptDiffs, opts)

	for _, hd := range r.Hosts {
		p.printf("\n")
		writeHostDiff(p, hd, opts)
	}

	writeScriptSection(p, postScriptsTitle,
		r.ScanA.PostScriptResults, r.ScanB.PostScriptResults, r.PostScriptDiffs, opts)

	return p.err
}

// formatBanner formats a startup banner more or less like nmap does.
func formatBanner(s *scan.Scan) string {
	scanner := "Nmap"
	if s.Scanner != "" && s.Scanner != "nmap" {
		scanner = s.Scanner
	}
	parts := []string{scanner}
	if s.Version != "" {
		parts = append(parts, s.Version)
	}
	parts = append(parts, "scan")
	if !s.StartDate.IsZero() {
		parts = append(parts, "initiated "+s.StartDate.Format("Mon Jan 02 15:04:05 2006"))
	}
	if s.Args != "" {
		parts = append(parts, "as: "+s.Args)
	}
	return strings.Join(parts, " ")
}

// printer accumulates the first write error so rendering code stays free
// of per-line error plumbing.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func writeHostDiff(p *printer, hd *diff.HostDiff, opts diff.Options) {
	hostA, hostB := hd.HostA, hd.HostB

	// Names and addresses.
	if hd.IDChanged {
		if hostA.State != "" {
			p.printf("-%s:\n", hostA.FormatName())
		}
		if hostB.State != "" {
			p.printf("+%s:\n", hostB.FormatName())
		}
	} else {
		p.printf(" %s:\n", hostA.FormatName())
	}

	// State.
	if hd.StateChanged {
		if hostA.State != "" {
			p.printf("-Host is %s.\n", hostA.State)
		}
		if hostB.State != "" {
			p.printf("+Host is %s.\n", hostB.State)
		}
	} else if opts.Verbose {
		state := hostB.State
		if state == "" {
			state = "unknown"
		}
		p.printf(" Host is %s.\n", state)
	}

	// Extraports.
	if hd.ExtraPortsChanged {
		if len(hostA.ExtraPorts) > 0 {
			p.printf("-Not shown: %s\n", hostA.ExtraPortsString())
		}
		if len(hostB.ExtraPorts) > 0 {
			p.printf("+Not shown: %s\n", hostB.ExtraPortsString())
		}
	} else if opts.Verbose && len(hostA.ExtraPorts) > 0 {
		p.printf(" Not shown: %s\n", hostA.ExtraPortsString())
	}

	// Port table.
	table := NewTable("** * * *")
	mark := " "
	switch {
	case hostA.State == "":
		mark = "+"
	case hostB.State == "":
		mark = "-"
	}
	table.Append(mark, "PORT", "STATE", "SERVICE", "VERSION")
	for _, pd := range hd.PortDiffs {
		appendPortDiff(table, pd, hostA, hostB, opts)
	}
	if table.Len() > 1 {
		p.printf("%s\n", table)
	}

	// OS changes.
	if hd.OSChanged || opts.Verbose {
		switch {
		case len(hostA.OS) > 0 && len(hostB.OS) > 0:
			p.printf(" OS details:\n")
		case len(hostA.OS) > 0:
			p.printf("-OS details:\n")
		case len(hostB.OS) > 0:
			p.printf("+OS details:\n")
		}
		for _, op := range hd.OSOps {
			if op.Tag == diff.OpReplace || op.Tag == diff.OpDelete {
				for _, name := range hostA.OS[op.I1:op.I2] {
					p.printf("-  %s\n", name)
				}
			}
			if op.Tag == diff.OpReplace || op.Tag == diff.OpInsert {
				for _, name := range hostB.OS[op.J1:op.J2] {
					p.printf("+  %s\n", name)
				}
			}
			if op.Tag == diff.OpEqual {
				for _, name := range hostA.OS[op.I1:op.I2] {
					p.printf("   %s\n", name)
				}
			}
		}
	}

	writeScriptSection(p, hostScriptsTitle,
		hostA.ScriptResults, hostB.ScriptResults, hd.ScriptDiffs, opts)
}

// appendPortDiff adds one port diff to the five-column port table, with
// the diff indicator in the first column. A side whose state is covered
// by its host's extraports is left out of the table.
func appendPortDiff(table *Table, pd *diff.PortDiff, hostA, hostB *scan.Host, opts diff.Options) {
	aCols := portColumns(pd.PortA)
	bCols := portColumns(pd.PortB)
	if slices.Equal(aCols, bCols) {
		table.Append(append([]string{" "}, aCols...)...)
	} else {
		if !hostA.IsExtraPorts(pd.PortA.State) {
			table.Append(append([]string{"-"}, aCols...)...)
		}
		if !hostB.IsExtraPorts(pd.PortB.State) {
			table.Append(append([]string{"+"}, bCols...)...)
		}
	}
	for _, sd := range pd.ScriptDiffs {
		appendScriptDiff(table, sd, opts)
	}
}

func portColumns(p *scan.Port) []string {
	return []string{
		p.SpecString(),
		p.StateString(),
		p.Service.NameString(),
		p.Service.VersionString(),
	}
}

// writeScriptSection prints a titled block of script result diffs. The
// title line carries "-" when the after-scan has no results, "+" when the
// before-scan has none, and a space otherwise.
func writeScriptSection(p *printer, title string, resultsA, resultsB []scan.ScriptResult,
	diffs []diff.ScriptResultDiff, opts diff.Options) {
	table := NewTable("*")
	for _, sd := range diffs {
		appendScriptDiff(table, sd, opts)
	}
	if table.Len() == 0 {
		return
	}
	p.printf("\n")
	switch {
	case len(resultsB) == 0:
		p.printf("-%s:\n", title)
	case len(resultsA) == 0:
		p.printf("+%s:\n", title)
	default:
		p.printf(" %s:\n", title)
	}
	p.printf("%s\n", table)
}

// appendScriptDiff renders one script result pair as raw diff lines:
// the two sides' display lines are sequence-aligned and emitted with
// "-", "+", or " " prefixes.
func appendScriptDiff(table *Table, sd diff.ScriptResultDiff, opts diff.Options) {
	var aLines, bLines []string
	if sd.A != nil {
		aLines = sd.A.Lines()
	}
	if sd.B != nil {
		bLines = sd.B.Lines()
	}
	if slices.Equal(aLines, bLines) && !opts.Verbose {
		return
	}
	for _, op := range difflib.NewMatcher(aLines, bLines).GetOpCodes() {
		if op.Tag == diff.OpReplace || op.Tag == diff.OpDelete {
			for _, line := range aLines[op.I1:op.I2] {
				table.AppendRaw("-" + line)
			}
		}
		if op.Tag == diff.OpReplace || op.Tag == diff.OpInsert {
			for _, line := range bLines[op.J1:op.J2] {
				table.AppendRaw("+" + line)
			}
		}
		if op.Tag == diff.OpEqual {
			for _, line := range aLines[op.I1:op.I2] {
				table.AppendRaw(" " + line)
			}
		}
	}
}
