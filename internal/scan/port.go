package scan

import (
	"cmp"
	"fmt"
)

// Spec identifies a port uniquely within a host: its number plus its
// protocol, as in "80/tcp".
type Spec struct {
	Number   uint16
	Protocol string
}

// String returns the "number/protocol" form.
func (s Spec) String() string {
	return fmt.Sprintf("%d/%s", s.Number, s.Protocol)
}

// CompareSpecs orders port specs by number, then protocol.
func CompareSpecs(a, b Spec) int {
	if c := cmp.Compare(a.Number, b.Number); c != 0 {
		return c
	}
	return cmp.Compare(a.Protocol, b.Protocol)
}

// Port is a single scanned port: its spec, its state ("" when unknown),
// the detected service, and any per-port script results sorted by id.
type Port struct {
	Spec          Spec
	State         string
	Service       Service
	ScriptResults []ScriptResult
}

// NewPort returns a port for the given spec with unknown state and an
// empty service. Used both by the loader and as the absent-side
// placeholder during diffing.
func NewPort(spec Spec) *Port {
	return &Port{Spec: spec}
}

// StateString returns the STATE column value, "unknown" when the state
// was not reported.
func (p *Port) StateString() string {
	if p.State == "" {
		return "unknown"
	}
	return p.State
}

// SpecString returns the PORT column value, for example "80/tcp".
func (p *Port) SpecString() string {
	return p.Spec.String()
}
