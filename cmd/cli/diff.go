package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/anstrom/scandiff/internal/config"
	"github.com/anstrom/scandiff/internal/diff"
	apperrors "github.com/anstrom/scandiff/internal/errors"
	"github.com/anstrom/scandiff/internal/logging"
	"github.com/anstrom/scandiff/internal/render"
	"github.com/anstrom/scandiff/internal/scan"
)

// exitCode is set by runDiff and returned by Execute.
var exitCode = apperrors.ExitEqual

func runDiff(cmd *cobra.Command, args []string) error {
	format, err := resolveFormat(textOutput, xmlOutput, appConfig.Output.Format)
	if err != nil {
		return err
	}

	opts := diff.Options{
		Verbose: verbose || appConfig.Output.Verbose,
	}

	scanA, err := loadScan(args[0])
	if err != nil {
		return err
	}
	scanB, err := loadScan(args[1])
	if err != nil {
		return err
	}

	result := diff.Compute(scanA, scanB, opts)

	switch format {
	case config.FormatXML:
		err = render.XML(cmd.OutOrStdout(), result, opts)
	default:
		err = render.Text(cmd.OutOrStdout(), result, opts)
	}
	if err != nil {
		return apperrors.WrapInternalError("failed to render diff", err)
	}

	if summary || appConfig.Output.Summary {
		writeSummary(os.Stderr, result)
	}

	if result.Cost == 0 {
		exitCode = apperrors.ExitEqual
	} else {
		exitCode = apperrors.ExitDifferent
	}
	return nil
}

// resolveFormat picks the output format from the --text/--xml flags,
// falling back to the configured default. Selecting both is a fatal
// usage error, caught before any comparison runs.
func resolveFormat(text, xmlFlag bool, configured string) (string, error) {
	switch {
	case text && xmlFlag:
		return "", apperrors.NewFormatError("contradictory output format options")
	case xmlFlag:
		return config.FormatXML, nil
	case text:
		return config.FormatText, nil
	case configured != "":
		return configured, nil
	default:
		return config.FormatText, nil
	}
}

// loadScan reads one input file, surfacing parse warnings through the
// logger without aborting the run.
func loadScan(path string) (*scan.Scan, error) {
	s, warnings, err := scan.LoadFile(path)
	for _, w := range warnings {
		logging.WarnParse(w, path)
	}
	if err != nil {
		return nil, err
	}
	logging.Debug("loaded scan", "file", path, "hosts", len(s.Hosts))
	return s, nil
}
