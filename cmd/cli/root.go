// Package cli provides the command-line interface for scandiff. It wires
// flag and config handling to the scan loader, the diff engine, and the
// output renderers, and maps outcomes to process exit codes.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/anstrom/scandiff/internal/config"
	apperrors "github.com/anstrom/scandiff/internal/errors"
	"github.com/anstrom/scandiff/internal/logging"
)

var (
	cfgFile    string
	verbose    bool
	textOutput bool
	xmlOutput  bool
	summary    bool
	logLevel   string

	appConfig = config.Default()
)

// Build information - these will be set by ldflags during build.
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// rootCmd represents the base command; scandiff has no subcommands, the
// root command performs the comparison itself.
var rootCmd = &cobra.Command{
	Use:   "scandiff [flags] FILE1 FILE2",
	Short: "Compare two Nmap XML scan files",
	Long: `Scandiff compares two Nmap XML files and displays a list of their
differences: host state changes, port state changes, and changes to
service and OS detection.

The exit code is 0 when the scans are the same, 1 when differences were
found, and 2 on error.`,
	Example: `  scandiff before.xml after.xml
  scandiff --verbose before.xml after.xml
  scandiff --xml before.xml after.xml > diff.xml`,
	Version:       getVersion(),
	Args:          cobra.ExactArgs(2),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDiff,
}

// Execute runs the root command and returns the process exit code:
// 0 no differences, 1 differences found, 2 error.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "scandiff: %v\n", err)
		fmt.Fprintln(os.Stderr, "Try 'scandiff --help' for more information.")
		return apperrors.ExitError
	}
	return exitCode
}

// normalizeFlags accepts underscores in multiword flag names, so both
// --log-level and --log_level work.
func normalizeFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.SetGlobalNormalizationFunc(normalizeFlags)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./scandiff.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "also show hosts and ports that haven't changed")
	rootCmd.Flags().BoolVar(&textOutput, "text", false, "display output in text format (default)")
	rootCmd.Flags().BoolVar(&xmlOutput, "xml", false, "display output in XML format")
	rootCmd.Flags().BoolVar(&summary, "summary", false, "print a per-host change summary table to stderr")

	if err := viper.BindPFlag("output.verbose", rootCmd.Flags().Lookup("verbose")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind verbose flag: %v\n", err)
	}
	if err := viper.BindPFlag("output.summary", rootCmd.Flags().Lookup("summary")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind summary flag: %v\n", err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("scandiff")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("SCANDIFF")

	setConfigDefaults()

	if err := viper.ReadInConfig(); err == nil {
		if verbose {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}

	cfg, err := config.Load(viper.ConfigFileUsed())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		cfg = config.Default()
	}
	appConfig = cfg

	initLogging()
}

// setConfigDefaults sets default values for configuration.
func setConfigDefaults() {
	viper.SetDefault("output.format", config.FormatText)
	viper.SetDefault("output.verbose", false)
	viper.SetDefault("output.summary", false)

	viper.SetDefault("logging.level", "warn")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("logging.output", "stderr")
}

// getVersion returns the version string.
func getVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime)
}

// SetVersion sets the version information (called from main).
func SetVersion(v, c, bt string) {
	version = v
	commit = c
	buildTime = bt
	rootCmd.Version = getVersion()
}

// initLogging initializes structured logging based on configuration.
func initLogging() {
	if logLevel != "" {
		appConfig.Logging.Level = logLevel
	}
	logConfig := logging.Config{
		Level:     logging.LogLevel(appConfig.Logging.Level),
		Format:    logging.LogFormat(appConfig.Logging.Format),
		Output:    appConfig.Logging.Output,
		AddSource: appConfig.Logging.Level == "debug",
	}

	logger, err := logging.New(logConfig)
	if err != nil {
		logger = logging.NewDefault()
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}
	logging.SetDefault(logger)
}
