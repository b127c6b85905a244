package scan

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Host is a single scanned host. State is "" when unknown; a freshly
// constructed Host with no fields set doubles as the "absent from this
// scan" placeholder during diffing.
type Host struct {
	State         string
	Addresses     []Address
	Hostnames     []string
	Ports         map[Spec]*Port
	ExtraPorts    map[string]int
	OS            []string
	ScriptResults []ScriptResult

	// Identity fallback for hosts with no address and no hostname.
	// Unique per instance so such hosts never pair across scans.
	fallbackID string
}

// NewHost returns an empty host with initialized maps.
func NewHost() *Host {
	return &Host{
		Ports:      make(map[Spec]*Port),
		ExtraPorts: make(map[string]int),
		fallbackID: uuid.NewString(),
	}
}

// ID returns the key used to decide whether hosts in different scans are
// the same: the least address if any, else the least hostname, else a
// stable per-instance fallback.
func (h *Host) ID() string {
	if len(h.Addresses) > 0 {
		return slices.MinFunc(h.Addresses, CompareAddresses).String()
	}
	if len(h.Hostnames) > 0 {
		return slices.Min(h.Hostnames)
	}
	return h.fallbackID
}

// FormatName returns a human-readable identifier for the host, such as
// "example.com (10.0.0.1)".
func (h *Host) FormatName() string {
	addrs := make([]string, 0, len(h.Addresses))
	for _, a := range SortedAddresses(h.Addresses) {
		addrs = append(addrs, a.String())
	}
	addressStr := strings.Join(addrs, ", ")

	names := slices.Clone(h.Hostnames)
	slices.Sort(names)
	hostnameStr := strings.Join(names, ", ")

	switch {
	case hostnameStr != "" && addressStr != "":
		return fmt.Sprintf("%s (%s)", hostnameStr, addressStr)
	case hostnameStr != "":
		return hostnameStr
	case addressStr != "":
		return addressStr
	default:
		return "<no name>"
	}
}

// AddPort registers a port under its spec, replacing any previous port
// with the same spec.
func (h *Host) AddPort(p *Port) {
	h.Ports[p.Spec] = p
}

// AddAddress appends an address unless it is already present.
func (h *Host) AddAddress(a Address) {
	if !slices.Contains(h.Addresses, a) {
		h.Addresses = append(h.Addresses, a)
	}
}

// AddHostname appends a hostname unless it is already present.
func (h *Host) AddHostname(name string) {
	if !slices.Contains(h.Hostnames, name) {
		h.Hostnames = append(h.Hostnames, name)
	}
}

// IsExtraPorts reports whether a port state is covered by this host's
// extraports summary. An unknown state always counts as covered.
func (h *Host) IsExtraPorts(state string) bool {
	if state == "" {
		return true
	}
	_, ok := h.ExtraPorts[state]
	return ok
}

// ExtraPortsString formats the extraports summary the way nmap prints it
// after "Not shown:", for example "995 filtered ports, 3 closed ports".
// Entries are ordered by count descending, then state descending.
func (h *Host) ExtraPortsString() string {
	type entry struct {
		state string
		count int
	}
	entries := make([]entry, 0, len(h.ExtraPorts))
	for state, count := range h.ExtraPorts {
		entries = append(entries, entry{state, count})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if a.count != b.count {
			return b.count - a.count
		}
		return strings.Compare(b.state, a.state)
	})

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%d %s ports", e.count, e.state))
	}
	return strings.Join(parts, ", ")
}

// SortedSpecs returns this host's port specs in ascending order.
func (h *Host) SortedSpecs() []Spec {
	specs := make([]Spec, 0, len(h.Ports))
	for spec := range h.Ports {
		specs = append(specs, spec)
	}
	slices.SortFunc(specs, CompareSpecs)
	return specs
}
