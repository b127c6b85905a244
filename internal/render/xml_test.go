package render

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anstrom/scandiff/internal/diff"
	"github.com/anstrom/scandiff/internal/scan"
)

func renderXML(t *testing.T, scanA, scanB *scan.Scan, opts diff.Options) string {
	t.Helper()
	r := diff.Compute(scanA, scanB, opts)
	var buf strings.Builder
	require.NoError(t, XML(&buf, r, opts))
	out := buf.String()

	// Whatever we emit must at least be well formed.
	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			require.ErrorContains(t, err, "EOF")
			break
		}
	}
	return out
}

func TestXMLEnvelope(t *testing.T) {
	got := renderXML(t, scan.NewScan(), scan.NewScan(), diff.Options{})

	assert.True(t, strings.HasPrefix(got, `<?xml version="1.0" encoding="UTF-8"?>`))
	assert.Contains(t, got, `<nmapdiff version="1">`)
	assert.Contains(t, got, "<scandiff>")
	assert.True(t, strings.HasSuffix(got, "</nmapdiff>\n"))
}

func TestXMLRunMetadataChange(t *testing.T) {
	scanA := scan.NewScan()
	scanA.Scanner = "nmap"
	scanA.Version = "7.91"
	scanB := scan.NewScan()
	scanB.Scanner = "nmap"
	scanB.Version = "7.92"

	got := renderXML(t, scanA, scanB, diff.Options{})

	assert.Contains(t, got, `<nmaprun scanner="nmap" version="7.91">`)
	assert.Contains(t, got, `<nmaprun scanner="nmap" version="7.92">`)
	// Both runs are wrapped in their side markers.
	assert.Contains(t, got, "<a>")
	assert.Contains(t, got, "<b>")
}

func TestXMLHostAdded(t *testing.T) {
	hostB := upHost("10.0.0.9")
	hostB.AddHostname("new.example.com")
	hostB.AddPort(tcpPort(443, "open", "https"))

	got := renderXML(t, scanWith(), scanWith(hostB), diff.Options{})

	assert.Contains(t, got, "<hostdiff>")
	assert.Contains(t, got, "<b>")
	assert.NotContains(t, got, "<a>", "an added host has no before side")
	assert.Contains(t, got, `<status state="up">`)
	assert.Contains(t, got, `<address addr="10.0.0.9" addrtype="ipv4">`)
	assert.Contains(t, got, `<hostname name="new.example.com">`)
	assert.Contains(t, got, `<port portid="443" protocol="tcp">`)
	assert.Contains(t, got, `<service name="https">`)
}

func TestXMLPortStateChange(t *testing.T) {
	hostA := upHost("10.0.0.1")
	hostA.AddPort(tcpPort(80, "open", "http"))
	hostB := upHost("10.0.0.1")
	hostB.AddPort(tcpPort(80, "closed", "http"))

	got := renderXML(t, scanWith(hostA), scanWith(hostB), diff.Options{})

	// Same spec but different state: both sides are emitted wholesale.
	assert.Contains(t, got, "<portdiff>")
	assert.Contains(t, got, `<state state="open">`)
	assert.Contains(t, got, `<state state="closed">`)
}

func TestXMLServiceChange(t *testing.T) {
	hostA := upHost("10.0.0.1")
	hostA.AddPort(tcpPort(80, "open", "http"))
	hostB := upHost("10.0.0.1")
	portB := tcpPort(80, "open", "http")
	portB.Service.Product = "nginx"
	hostB.AddPort(portB)

	got := renderXML(t, scanWith(hostA), scanWith(hostB), diff.Options{})

	// Same spec and state: one merged port element with a/b services.
	assert.Equal(t, 1, strings.Count(got, `<port portid="80" protocol="tcp">`))
	assert.Equal(t, 1, strings.Count(got, `<state state="open">`))
	assert.Contains(t, got, `<service name="http">`)
	assert.Contains(t, got, `<service name="http" product="nginx">`)
}

func TestXMLPreScriptSection(t *testing.T) {
	scanA := scan.NewScan()
	scanA.PreScriptResults = []scan.ScriptResult{{ID: "preScript", Output: "line1"}}

	got := renderXML(t, scanA, scan.NewScan(), diff.Options{})

	assert.Contains(t, got, "<prescript>")
	assert.Contains(t, got, `<script id="preScript" output="line1">`)
	assert.Contains(t, got, "<a>", "a removed section sits inside the before marker")
}

func TestXMLExtraPortsChange(t *testing.T) {
	hostA := upHost("10.0.0.1")
	hostA.ExtraPorts["filtered"] = 99
	hostB := upHost("10.0.0.1")
	hostB.ExtraPorts["filtered"] = 98

	got := renderXML(t, scanWith(hostA), scanWith(hostB), diff.Options{})

	assert.Contains(t, got, `<extraports state="filtered" count="99">`)
	assert.Contains(t, got, `<extraports state="filtered" count="98">`)
}

func TestXMLOSChange(t *testing.T) {
	hostA := upHost("10.0.0.1")
	hostA.OS = []string{"Linux 5.4"}
	hostB := upHost("10.0.0.1")
	hostB.OS = []string{"Linux 5.10"}

	got := renderXML(t, scanWith(hostA), scanWith(hostB), diff.Options{})

	assert.Contains(t, got, "<os>")
	assert.Contains(t, got, `<osmatch name="Linux 5.4">`)
	assert.Contains(t, got, `<osmatch name="Linux 5.10">`)
}

func TestXMLVerboseEqualScans(t *testing.T) {
	build := func() *scan.Scan {
		h := upHost("10.0.0.1")
		h.AddPort(tcpPort(22, "open", "ssh"))
		s := scanWith(h)
		s.Scanner = "nmap"
		s.Version = "7.91"
		return s
	}

	got := renderXML(t, build(), build(), diff.Options{Verbose: true})

	// Nothing changed, so nothing is wrapped.
	assert.NotContains(t, got, "<a>")
	assert.NotContains(t, got, "<b>")
	assert.Contains(t, got, `<nmaprun scanner="nmap" version="7.91">`)
	assert.Contains(t, got, `<port portid="22" protocol="tcp">`)
}

func TestXMLEqualScansMinimal(t *testing.T) {
	build := func() *scan.Scan {
		return scanWith(upHost("10.0.0.1"))
	}

	got := renderXML(t, build(), build(), diff.Options{})

	assert.NotContains(t, got, "<hostdiff>")
	assert.NotContains(t, got, "<nmaprun")
}
