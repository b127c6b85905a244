package diff

import (
	"github.com/anstrom/scandiff/internal/scan"
)

// PortDiff is a diff of two ports sharing a spec. Cost 0 means the ports
// are the same. A port missing from one scan appears as a synthesized
// placeholder with unknown state and an empty service.
type PortDiff struct {
	PortA, PortB *scan.Port
	ScriptDiffs  []ScriptResultDiff
	Cost         int
}

func newPortDiff(portA, portB *scan.Port, verbose bool) *PortDiff {
	d := &PortDiff{PortA: portA, PortB: portB}

	if d.PortA.Spec != d.PortB.Spec {
		d.Cost++
	}
	if d.PortA.State != d.PortB.State {
		d.Cost++
	}
	if !d.PortA.Service.Equal(d.PortB.Service) {
		d.Cost++
	}
	d.ScriptDiffs = diffScriptResults(d.PortA.ScriptResults, d.PortB.ScriptResults, verbose)
	d.Cost += countChanged(d.ScriptDiffs)
	return d
}

// Port returns whichever side actually existed in a scan, preferring A.
// Only meaningful for cost-0 diffs, where both sides are equal anyway.
func (d *PortDiff) Port() *scan.Port {
	if d.PortA.State != "" {
		return d.PortA
	}
	return d.PortB
}
