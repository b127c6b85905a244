package scan

import (
	"fmt"
	"os"
	"slices"
	"time"

	nmap "github.com/Ullaakut/nmap/v3"

	"github.com/anstrom/scandiff/internal/errors"
)

// Warnings collects non-fatal problems found while loading a scan.
// Malformed or missing fields never abort a load; the offending element
// is skipped or defaulted and a warning is recorded for the caller.
type Warnings []string

func (w *Warnings) addf(format string, args ...any) {
	*w = append(*w, fmt.Sprintf(format, args...))
}

// LoadFile reads and parses an nmap XML file.
func LoadFile(path string) (*Scan, Warnings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, nil, errors.WrapInputError(errors.CodeFileNotFound,
			"can't open file", path, err)
	}
	s, warnings, err := Parse(data)
	if err != nil {
		return nil, warnings, errors.WrapInputError(errors.CodeParse,
			"can't parse file", path, err)
	}
	return s, warnings, nil
}

// Parse builds a Scan from raw nmap XML.
func Parse(data []byte) (*Scan, Warnings, error) {
	var run nmap.Run
	if err := nmap.Parse(data, &run); err != nil {
		return nil, nil, err
	}

	var warnings Warnings
	s := NewScan()
	s.Scanner = run.Scanner
	s.Version = run.Version
	s.Args = run.Args
	if t := time.Time(run.Start); !t.IsZero() {
		s.StartDate = t
	}
	if t := time.Time(run.Stats.Finished.Time); !t.IsZero() {
		s.EndDate = t
	}

	s.PreScriptResults = convertScripts(run.PreScripts, "prescript", &warnings)
	s.PostScriptResults = convertScripts(run.PostScripts, "postscript", &warnings)

	for i := range run.Hosts {
		s.Hosts = append(s.Hosts, convertHost(&run.Hosts[i], &warnings))
	}
	return s, warnings, nil
}

func convertHost(nh *nmap.Host, warnings *Warnings) *Host {
	h := NewHost()
	h.State = nh.Status.State

	for _, addr := range nh.Addresses {
		if addr.Addr == "" {
			warnings.addf("address element of host %s is missing the "+
				"addr attribute; skipping", h.FormatName())
			continue
		}
		addrType := addr.AddrType
		if addrType == "" {
			addrType = "ipv4"
		}
		a, err := NewAddress(addrType, addr.Addr)
		if err != nil {
			warnings.addf("address %s of host %s: %v; skipping",
				addr.Addr, h.FormatName(), err)
			continue
		}
		h.AddAddress(a)
	}

	for _, hn := range nh.Hostnames {
		if hn.Name == "" {
			warnings.addf("hostname element of host %s is missing the "+
				"name attribute; skipping", h.FormatName())
			continue
		}
		h.AddHostname(hn.Name)
	}

	for _, ep := range nh.ExtraPorts {
		state := ep.State
		if state == "" {
			warnings.addf("extraports element of host %s is missing the "+
				"state attribute; assuming unknown", h.FormatName())
		}
		if _, dup := h.ExtraPorts[state]; dup {
			warnings.addf("duplicate extraports state %q in host %s",
				state, h.FormatName())
		}
		h.ExtraPorts[state] = ep.Count
	}

	for i := range nh.Ports {
		if p := convertPort(&nh.Ports[i], h, warnings); p != nil {
			h.AddPort(p)
		}
	}

	for _, m := range nh.OS.Matches {
		if m.Name == "" {
			warnings.addf("osmatch element of host %s is missing the "+
				"name attribute; skipping", h.FormatName())
			continue
		}
		h.OS = append(h.OS, m.Name)
	}

	h.ScriptResults = convertScripts(nh.HostScripts, "hostscript", warnings)
	return h
}

func convertPort(np *nmap.Port, h *Host, warnings *Warnings) *Port {
	p := NewPort(Spec{Number: np.ID, Protocol: np.Protocol})
	if np.Protocol == "" {
		warnings.addf("port element of host %s is missing the protocol "+
			"attribute; skipping", h.FormatName())
		return nil
	}
	if np.State.State == "" {
		warnings.addf("port %s of host %s has no state; skipping",
			p.SpecString(), h.FormatName())
		return nil
	}
	p.State = np.State.State
	p.Service = Service{
		Name:      np.Service.Name,
		Product:   np.Service.Product,
		Version:   np.Service.Version,
		ExtraInfo: np.Service.ExtraInfo,
		Tunnel:    np.Service.Tunnel,
	}
	p.ScriptResults = convertScripts(np.Scripts, p.SpecString(), warnings)
	return p
}

// convertScripts turns nmap script elements into sorted ScriptResults.
// The sort keeps the merge-based script diffing contract honest even
// when nmap emits scripts out of id order.
func convertScripts(scripts []nmap.Script, where string, warnings *Warnings) []ScriptResult {
	results := make([]ScriptResult, 0, len(scripts))
	for _, sc := range scripts {
		if sc.ID == "" {
			warnings.addf("script element in %s is missing the id "+
				"attribute; skipping", where)
			continue
		}
		results = append(results, ScriptResult{ID: sc.ID, Output: sc.Output})
	}
	slices.SortFunc(results, CompareScriptResults)
	return results
}
