package diff

import (
	"maps"
	"slices"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/anstrom/scandiff/internal/scan"
)

// Opcode tags produced by the sequence aligner.
const (
	OpEqual   = 'e'
	OpInsert  = 'i'
	OpDelete  = 'd'
	OpReplace = 'r'
)

// HostDiff is a diff of two hosts paired by id. Either side may be the
// empty placeholder host, meaning the host is absent from that scan; such
// hosts are reported wholesale instead of being decomposed further.
type HostDiff struct {
	HostA, HostB *scan.Host

	StateChanged      bool
	IDChanged         bool
	OSChanged         bool
	ExtraPortsChanged bool

	// PortDiffs holds the included port diffs in ascending spec order.
	// Ports classified as extraports on both sides are dropped entirely.
	PortDiffs   []*PortDiff
	OSOps       []difflib.OpCode
	ScriptDiffs []ScriptResultDiff

	Cost int
}

// NewHostDiff computes the structural diff of two hosts.
func NewHostDiff(hostA, hostB *scan.Host, opts Options) *HostDiff {
	d := &HostDiff{HostA: hostA, HostB: hostB}

	if hostA.State != hostB.State {
		d.StateChanged = true
		d.Cost++
	}

	if !sameAddressSet(hostA.Addresses, hostB.Addresses) ||
		!sameStringSet(hostA.Hostnames, hostB.Hostnames) {
		d.IDChanged = true
		d.Cost++
	}

	d.diffPorts(opts)

	d.OSOps = difflib.NewMatcher(hostA.OS, hostB.OS).GetOpCodes()
	osCost := osOpsCost(d.OSOps)
	if osCost > 0 {
		d.OSChanged = true
	}
	d.Cost += osCost

	if !maps.Equal(hostA.ExtraPorts, hostB.ExtraPorts) {
		d.ExtraPortsChanged = true
		d.Cost++
	}

	d.ScriptDiffs = diffScriptResults(hostA.ScriptResults, hostB.ScriptResults, opts.Verbose)
	d.Cost += countChanged(d.ScriptDiffs)

	return d
}

// diffPorts walks the union of both hosts' port specs in ascending order
// and keeps the diffs that survive the extraports suppression rule.
// Ports are only compared against the same spec on the other side; a
// service that moved wholesale to another port shows up as one removal
// plus one addition.
func (d *HostDiff) diffPorts(opts Options) {
	specs := d.HostA.SortedSpecs()
	for _, spec := range d.HostB.SortedSpecs() {
		if _, ok := d.HostA.Ports[spec]; !ok {
			specs = append(specs, spec)
		}
	}
	slices.SortFunc(specs, scan.CompareSpecs)

	for _, spec := range specs {
		portA, okA := d.HostA.Ports[spec]
		if !okA {
			portA = scan.NewPort(spec)
		}
		portB, okB := d.HostB.Ports[spec]
		if !okB {
			portB = scan.NewPort(spec)
		}
		pd := newPortDiff(portA, portB, opts.Verbose)
		if d.includePort(pd, opts) {
			d.PortDiffs = append(d.PortDiffs, pd)
			d.Cost += pd.Cost
		}
	}
}

// includePort applies the suppression rule: a diff whose states are
// extraports on both sides is mere membership in a compressed bucket and
// is never reported, not even in verbose mode. The check is per side on
// purpose; a port covered by extraports on only one side still shows.
func (d *HostDiff) includePort(pd *PortDiff, opts Options) bool {
	if d.HostA.IsExtraPorts(pd.PortA.State) && d.HostB.IsExtraPorts(pd.PortB.State) {
		return false
	}
	if opts.Verbose {
		return true
	}
	return pd.Cost > 0
}

// osOpsCost charges one unit per element inside every non-equal run.
func osOpsCost(ops []difflib.OpCode) int {
	cost := 0
	for _, op := range ops {
		switch op.Tag {
		case OpDelete:
			cost += op.I2 - op.I1
		case OpInsert:
			cost += op.J2 - op.J1
		case OpReplace:
			cost += (op.I2 - op.I1) + (op.J2 - op.J1)
		}
	}
	return cost
}

func sameAddressSet(a, b []scan.Address) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[scan.Address]struct{}, len(a))
	for _, addr := range a {
		set[addr] = struct{}{}
	}
	for _, addr := range b {
		if _, ok := set[addr]; !ok {
			return false
		}
	}
	return true
}

func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		if _, ok := set[s]; !ok {
			return false
		}
	}
	return true
}
