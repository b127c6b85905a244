package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anstrom/scandiff/internal/config"
	"github.com/anstrom/scandiff/internal/diff"
	apperrors "github.com/anstrom/scandiff/internal/errors"
	"github.com/anstrom/scandiff/internal/scan"
)

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name       string
		text, xml  bool
		configured string
		want       string
		wantErr    bool
	}{
		{name: "default is text", want: config.FormatText},
		{name: "text flag", text: true, configured: config.FormatXML, want: config.FormatText},
		{name: "xml flag", xml: true, want: config.FormatXML},
		{name: "configured fallback", configured: config.FormatXML, want: config.FormatXML},
		{name: "both flags contradict", text: true, xml: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveFormat(tt.text, tt.xml, tt.configured)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.CodeFormat, apperrors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWriteSummary(t *testing.T) {
	hostA := scan.NewHost()
	hostA.State = "up"
	hostA.AddAddress(scan.Address{Type: scan.AddrIPv4, Addr: "10.0.0.1"})
	hostA.AddPort(portWithState(80, "open"))
	hostB := scan.NewHost()
	hostB.State = "up"
	hostB.AddAddress(scan.Address{Type: scan.AddrIPv4, Addr: "10.0.0.1"})
	hostB.AddPort(portWithState(80, "closed"))

	scanA := scan.NewScan()
	scanA.Hosts = []*scan.Host{hostA}
	scanA.PreScriptResults = []scan.ScriptResult{{ID: "preScript", Output: "line1"}}
	scanB := scan.NewScan()
	scanB.Hosts = []*scan.Host{hostB}

	result := diff.Compute(scanA, scanB, diff.Options{})

	var buf bytes.Buffer
	writeSummary(&buf, result)
	out := buf.String()

	assert.Contains(t, out, "10.0.0.1")
	assert.Contains(t, out, "(pre-scan scripts)")
	assert.Contains(t, out, "changed")
	assert.Contains(t, out, "Total cost: 2")
}

func TestSummaryChange(t *testing.T) {
	present := scan.NewHost()
	present.State = "up"
	absent := scan.NewHost()

	assert.Equal(t, "added", summaryChange(&diff.HostDiff{HostA: absent, HostB: present}))
	assert.Equal(t, "removed", summaryChange(&diff.HostDiff{HostA: present, HostB: absent}))
	assert.Equal(t, "changed", summaryChange(&diff.HostDiff{HostA: present, HostB: present}))
}

func TestRootCommandArgs(t *testing.T) {
	err := rootCmd.Args(rootCmd, []string{"one.xml"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "2"))

	assert.NoError(t, rootCmd.Args(rootCmd, []string{"one.xml", "two.xml"}))
}

func portWithState(number uint16, state string) *scan.Port {
	p := scan.NewPort(scan.Spec{Number: number, Protocol: "tcp"})
	p.State = state
	p.Service = scan.Service{Name: "http"}
	return p
}
