// Package scan holds the in-memory model of a single nmap run: the scan
// itself plus its hosts, addresses, ports, services, and script results.
// Entities are built once by the loader and read-only afterwards.
package scan

import (
	"cmp"
	"slices"
	"time"
)

// Scan is a single nmap invocation: run metadata plus the hosts it
// reported and any pre/post-scan script results.
type Scan struct {
	Scanner   string
	Version   string
	Args      string
	StartDate time.Time
	EndDate   time.Time

	Hosts             []*Host
	PreScriptResults  []ScriptResult
	PostScriptResults []ScriptResult
}

// NewScan returns an empty scan.
func NewScan() *Scan {
	return &Scan{}
}

// SortHosts orders hosts by their id. The order among hosts with
// colliding ids is unspecified.
func (s *Scan) SortHosts() {
	slices.SortFunc(s.Hosts, func(a, b *Host) int {
		return cmp.Compare(a.ID(), b.ID())
	})
}
