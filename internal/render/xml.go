package render

import (
	"encoding/xml"
	"io"
	"slices"
	"strconv"

	"github.com/anstrom/scandiff/internal/diff"
	"github.com/anstrom/scandiff/internal/scan"
)

// xmlVersion is the schema version carried by the nmapdiff root element.
const xmlVersion = "1"

// elem is a lightweight element-tree node. Diff objects are converted to
// trees of these by pure functions and streamed through encoding/xml.
type elem struct {
	name     string
	attrs    []xml.Attr
	children []*elem
}

func newElem(name string, attrs ...xml.Attr) *elem {
	return &elem{name: name, attrs: attrs}
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func (e *elem) add(children ...*elem) *elem {
	for _, c := range children {
		if c != nil {
			e.children = append(e.children, c)
		}
	}
	return e
}

func (e *elem) hasChildren() bool {
	return len(e.children) > 0
}

// wrap puts children inside an "a" or "b" marker element.
func wrap(side string, children ...*elem) *elem {
	return newElem(side).add(children...)
}

func (e *elem) encode(enc *xml.Encoder) error {
	start := xml.StartElement{Name: xml.Name{Local: e.name}, Attr: e.attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range e.children {
		if err := c.encode(enc); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// XML writes the structured report for a comparison result. Changed
// substructure is wrapped in paired sibling "a" (before) and "b" (after)
// elements; unchanged substructure is emitted unwrapped, and only in
// verbose mode.
func XML(w io.Writer, r *diff.Result, opts diff.Options) error {
	root := newElem("nmapdiff", attr("version", xmlVersion))
	scandiff := newElem("scandiff")
	root.add(scandiff)

	if runDiffers(r.ScanA, r.ScanB) {
		scandiff.add(wrap("a", runElem(r.ScanA)))
		scandiff.add(wrap("b", runElem(r.ScanB)))
	} else if opts.Verbose {
		scandiff.add(runElem(r.ScanA))
	}

	if len(r.PreScriptDiffs) > 0 || opts.Verbose {
		scandiff.add(scriptSectionElem("prescript",
			r.ScanA.PreScriptResults, r.ScanB.PreScriptResults, r.PreScriptDiffs))
	}
	for _, hd := range r.Hosts {
		scandiff.add(hostDiffElem(hd, opts))
	}
	if len(r.PostScriptDiffs) > 0 || opts.Verbose {
		scandiff.add(scriptSectionElem("postscript",
			r.ScanA.PostScriptResults, r.ScanB.PostScriptResults, r.PostScriptDiffs))
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.EncodeToken(xml.ProcInst{
		Target: "xml",
		Inst:   []byte(`version="1.0" encoding="UTF-8"`),
	}); err != nil {
		return err
	}
	if err := root.encode(enc); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func runDiffers(a, b *scan.Scan) bool {
	return a.Scanner != b.Scanner ||
		a.Version != b.Version ||
		a.Args != b.Args ||
		!a.StartDate.Equal(b.StartDate) ||
		!a.EndDate.Equal(b.EndDate)
}

func runElem(s *scan.Scan) *elem {
	e := newElem("nmaprun")
	if s.Scanner != "" {
		e.attrs = append(e.attrs, attr("scanner", s.Scanner))
	}
	if s.Args != "" {
		e.attrs = append(e.attrs, attr("args", s.Args))
	}
	if !s.StartDate.IsZero() {
		e.attrs = append(e.attrs, attr("start", strconv.FormatInt(s.StartDate.Unix(), 10)))
		e.attrs = append(e.attrs, attr("startstr", s.StartDate.Format("Mon Jan 02 15:04:05 2006")))
	}
	if s.Version != "" {
		e.attrs = append(e.attrs, attr("version", s.Version))
	}
	return e
}

func stateElem(state string) *elem {
	if state == "" {
		return nil
	}
	return newElem("status", attr("state", state))
}

func addressElem(a scan.Address) *elem {
	return newElem("address", attr("addr", a.Addr), attr("addrtype", a.Type.String()))
}

func hostnameElem(name string) *elem {
	return newElem("hostname", attr("name", name))
}

func extraPortsElems(h *scan.Host) []*elem {
	states := make([]string, 0, len(h.ExtraPorts))
	for state := range h.ExtraPorts {
		states = append(states, state)
	}
	slices.Sort(states)
	elems := make([]*elem, 0, len(states))
	for _, state := range states {
		elems = append(elems, newElem("extraports",
			attr("state", state),
			attr("count", strconv.Itoa(h.ExtraPorts[state]))))
	}
	return elems
}

func osMatchElem(name string) *elem {
	return newElem("osmatch", attr("name", name))
}

func serviceElem(s scan.Service) *elem {
	e := newElem("service")
	for _, f := range []struct{ name, value string }{
		{"name", s.Name},
		{"product", s.Product},
		{"version", s.Version},
		{"extrainfo", s.ExtraInfo},
		{"tunnel", s.Tunnel},
	} {
		if f.value != "" {
			e.attrs = append(e.attrs, attr(f.name, f.value))
		}
	}
	if len(e.attrs) == 0 {
		return nil
	}
	return e
}

func scriptElem(sr scan.ScriptResult) *elem {
	return newElem("script", attr("id", sr.ID), attr("output", sr.Output))
}

func portElem(p *scan.Port) *elem {
	e := newElem("port",
		attr("portid", strconv.Itoa(int(p.Spec.Number))),
		attr("protocol", p.Spec.Protocol))
	if p.State != "" {
		e.add(newElem("state", attr("state", p.State)))
	}
	e.add(serviceElem(p.Service))
	for _, sr := range p.ScriptResults {
		e.add(scriptElem(sr))
	}
	return e
}

// hostElem emits a host's whole subtree, used when the host exists in
// only one of the scans.
func hostElem(h *scan.Host) *elem {
	e := newElem("host")
	e.add(stateElem(h.State))
	for _, a := range h.Addresses {
		e.add(addressElem(a))
	}
	if len(h.Hostnames) > 0 {
		names := newElem("hostnames")
		for _, name := range h.Hostnames {
			names.add(hostnameElem(name))
		}
		e.add(names)
	}

	ports := newElem("ports")
	ports.add(extraPortsElems(h)...)
	for _, spec := range h.SortedSpecs() {
		if port := h.Ports[spec]; !h.IsExtraPorts(port.State) {
			ports.add(portElem(port))
		}
	}
	if ports.hasChildren() {
		e.add(ports)
	}

	if len(h.OS) > 0 {
		os := newElem("os")
		for _, name := range h.OS {
			os.add(osMatchElem(name))
		}
		e.add(os)
	}

	if len(h.ScriptResults) > 0 {
		hostscript := newElem("hostscript")
		for _, sr := range h.ScriptResults {
			hostscript.add(scriptElem(sr))
		}
		e.add(hostscript)
	}
	return e
}

func scriptDiffElems(sd diff.ScriptResultDiff) []*elem {
	if sd.A != nil && sd.B != nil && sd.A.Equal(*sd.B) {
		return []*elem{scriptElem(*sd.A)}
	}
	var elems []*elem
	if sd.A != nil {
		elems = append(elems, wrap("a", scriptElem(*sd.A)))
	}
	if sd.B != nil {
		elems = append(elems, wrap("b", scriptElem(*sd.B)))
	}
	return elems
}

// scriptSectionElem builds a prescript/postscript/hostscript block. A
// section present on only one side is emitted wholesale inside an "a" or
// "b" wrapper.
func scriptSectionElem(name string, resultsA, resultsB []scan.ScriptResult,
	diffs []diff.ScriptResultDiff) *elem {
	section := newElem(name)
	switch {
	case len(resultsA) == 0 && len(resultsB) == 0:
		return nil
	case len(resultsB) == 0:
		for _, sr := range resultsA {
			section.add(scriptElem(sr))
		}
		return wrap("a", section)
	case len(resultsA) == 0:
		for _, sr := range resultsB {
			section.add(scriptElem(sr))
		}
		return wrap("b", section)
	default:
		for _, sd := range diffs {
			section.add(scriptDiffElems(sd)...)
		}
		return section
	}
}

func hostDiffElem(hd *diff.HostDiff, opts diff.Options) *elem {
	hostA, hostB := hd.HostA, hd.HostB
	root := newElem("hostdiff")

	// The host is missing in one scan. Output the whole thing.
	if hostA.State == "" || hostB.State == "" {
		if hostA.State != "" {
			root.add(wrap("a", hostElem(hostA)))
		} else if hostB.State != "" {
			root.add(wrap("b", hostElem(hostB)))
		}
		return root
	}

	host := newElem("host")

	// State.
	if hostA.State == hostB.State {
		if opts.Verbose {
			host.add(stateElem(hostA.State))
		}
	} else {
		host.add(wrap("a", stateElem(hostA.State)))
		host.add(wrap("b", stateElem(hostB.State)))
	}

	// Addresses: shared ones unwrapped, one-sided ones inside a/b.
	shared, onlyA, onlyB := splitAddresses(hostA.Addresses, hostB.Addresses)
	for _, a := range shared {
		host.add(addressElem(a))
	}
	if len(onlyA) > 0 {
		side := newElem("a")
		for _, a := range onlyA {
			side.add(addressElem(a))
		}
		host.add(side)
	}
	if len(onlyB) > 0 {
		side := newElem("b")
		for _, a := range onlyB {
			side.add(addressElem(a))
		}
		host.add(side)
	}

	// Host names.
	names := newElem("hostnames")
	sharedNames, namesA, namesB := splitStrings(hostA.Hostnames, hostB.Hostnames)
	for _, name := range sharedNames {
		names.add(hostnameElem(name))
	}
	if len(namesA) > 0 {
		side := newElem("a")
		for _, name := range namesA {
			side.add(hostnameElem(name))
		}
		names.add(side)
	}
	if len(namesB) > 0 {
		side := newElem("b")
		for _, name := range namesB {
			side.add(hostnameElem(name))
		}
		names.add(side)
	}
	if names.hasChildren() {
		host.add(names)
	}

	// Extraports and the port list.
	ports := newElem("ports")
	if !hd.ExtraPortsChanged {
		ports.add(extraPortsElems(hostA)...)
	} else {
		aSide := newElem("a")
		aSide.add(extraPortsElems(hostA)...)
		ports.add(aSide)
		bSide := newElem("b")
		bSide.add(extraPortsElems(hostB)...)
		ports.add(bSide)
	}
	for _, pd := range hd.PortDiffs {
		if pd.Cost == 0 {
			if opts.Verbose {
				ports.add(portElem(pd.Port()))
			}
		} else {
			ports.add(portDiffElem(pd))
		}
	}
	if ports.hasChildren() {
		host.add(ports)
	}

	// OS changes.
	if hd.OSChanged || opts.Verbose {
		os := newElem("os")
		for _, op := range hd.OSOps {
			if op.Tag == diff.OpReplace || op.Tag == diff.OpDelete {
				side := newElem("a")
				for _, name := range hostA.OS[op.I1:op.I2] {
					side.add(osMatchElem(name))
				}
				os.add(side)
			}
			if op.Tag == diff.OpReplace || op.Tag == diff.OpInsert {
				side := newElem("b")
				for _, name := range hostB.OS[op.J1:op.J2] {
					side.add(osMatchElem(name))
				}
				os.add(side)
			}
			if op.Tag == diff.OpEqual {
				for _, name := range hostA.OS[op.I1:op.I2] {
					os.add(osMatchElem(name))
				}
			}
		}
		if os.hasChildren() {
			host.add(os)
		}
	}

	// Host script changes.
	if len(hd.ScriptDiffs) > 0 || opts.Verbose {
		host.add(scriptSectionElem("hostscript",
			hostA.ScriptResults, hostB.ScriptResults, hd.ScriptDiffs))
	}

	root.add(host)
	return root
}

func portDiffElem(pd *diff.PortDiff) *elem {
	root := newElem("portdiff")
	if pd.PortA.Spec == pd.PortB.Spec && pd.PortA.State == pd.PortB.State {
		port := newElem("port",
			attr("portid", strconv.Itoa(int(pd.PortA.Spec.Number))),
			attr("protocol", pd.PortA.Spec.Protocol))
		if pd.PortA.State != "" {
			port.add(newElem("state", attr("state", pd.PortA.State)))
		}
		if pd.PortA.Service.Equal(pd.PortB.Service) {
			port.add(serviceElem(pd.PortA.Service))
		} else {
			port.add(wrap("a", serviceElem(pd.PortA.Service)))
			port.add(wrap("b", serviceElem(pd.PortB.Service)))
		}
		for _, sd := range pd.ScriptDiffs {
			port.add(scriptDiffElems(sd)...)
		}
		root.add(port)
	} else {
		root.add(wrap("a", portElem(pd.PortA)))
		root.add(wrap("b", portElem(pd.PortB)))
	}
	return root
}

// splitAddresses partitions two address sets into shared, a-only, and
// b-only groups, each sorted for stable output.
func splitAddresses(a, b []scan.Address) (shared, onlyA, onlyB []scan.Address) {
	inB := make(map[scan.Address]struct{}, len(b))
	for _, addr := range b {
		inB[addr] = struct{}{}
	}
	inA := make(map[scan.Address]struct{}, len(a))
	for _, addr := range a {
		inA[addr] = struct{}{}
	}
	for _, addr := range a {
		if _, ok := inB[addr]; ok {
			shared = append(shared, addr)
		} else {
			onlyA = append(onlyA, addr)
		}
	}
	for _, addr := range b {
		if _, ok := inA[addr]; !ok {
			onlyB = append(onlyB, addr)
		}
	}
	slices.SortFunc(shared, scan.CompareAddresses)
	slices.SortFunc(onlyA, scan.CompareAddresses)
	slices.SortFunc(onlyB, scan.CompareAddresses)
	return shared, onlyA, onlyB
}

func splitStrings(a, b []string) (shared, onlyA, onlyB []string) {
	inB := make(map[string]struct{}, len(b))
	for _, s := range b {
		inB[s] = struct{}{}
	}
	inA := make(map[string]struct{}, len(a))
	for _, s := range a {
		inA[s] = struct{}{}
	}
	for _, s := range a {
		if _, ok := inB[s]; ok {
			shared = append(shared, s)
		} else {
			onlyA = append(onlyA, s)
		}
	}
	for _, s := range b {
		if _, ok := inA[s]; !ok {
			onlyB = append(onlyB, s)
		}
	}
	slices.Sort(shared)
	slices.Sort(onlyA)
	slices.Sort(onlyB)
	return shared, onlyA, onlyB
}
