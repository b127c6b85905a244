// Package diff computes the structural difference between two scans.
// It pairs entities across scans (hosts and script results by id via a
// merge-join, ordered lists via sequence alignment), builds diff objects
// holding both sides plus an additive integer cost, and decides which of
// them are interesting enough to report. Cost 0 means no reportable
// difference; costs compose additively up the tree.
package diff

import (
	"github.com/anstrom/scandiff/internal/scan"
)

// Options configures a comparison run. Verbose keeps unchanged entities
// in the diff tree so renderers can report everything.
type Options struct {
	Verbose bool
}

// Result is one complete comparison of two scans. It is built once by
// Compute and read-only afterwards.
type Result struct {
	ScanA, ScanB *scan.Scan

	PreScriptDiffs  []ScriptResultDiff
	PostScriptDiffs []ScriptResultDiff

	// Hosts holds the host diffs selected for reporting, in ascending
	// host-id order: those with nonzero cost, or all pairs in verbose
	// mode.
	Hosts []*HostDiff

	// Cost totals every atomic difference found, including the pre- and
	// post-scan script sections. Zero means the scans are the same.
	Cost int
}

// Compute compares two scans. Both scans' host lists are sorted by id as
// a side effect.
func Compute(scanA, scanB *scan.Scan, opts Options) *Result {
	scanA.SortHosts()
	scanB.SortHosts()

	r := &Result{ScanA: scanA, ScanB: scanB}

	r.PreScriptDiffs = diffScriptResults(
		scanA.PreScriptResults, scanB.PreScriptResults, opts.Verbose)
	r.Cost += countChanged(r.PreScriptDiffs)

	// Hosts are only ever paired by equal id; a host whose identity
	// changed between scans shows up as a removal plus an addition.
	pairs := MergeJoin(scanA.Hosts, scanB.Hosts, func(h *scan.Host) string { return h.ID() })
	for _, pair := range pairs {
		hostA, hostB := pair.A, pair.B
		if !pair.HasA {
			hostA = scan.NewHost()
		}
		if !pair.HasB {
			hostB = scan.NewHost()
		}
		hd := NewHostDiff(hostA, hostB, opts)
		r.Cost += hd.Cost
		if hd.Cost > 0 || opts.Verbose {
			r.Hosts = append(r.Hosts, hd)
		}
	}

	r.PostScriptDiffs = diffScriptResults(
		scanA.PostScriptResults, scanB.PostScriptResults, opts.Verbose)
	r.Cost += countChanged(r.PostScriptDiffs)

	return r
}
