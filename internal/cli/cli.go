// Package cli parses command-line arguments into an app.Config, following
// the same flag.NewFlagSet-plus-custom-Usage pattern the ambient stack
// uses elsewhere, generalized to dispatch on a subcommand name the way
// original_source's click group dispatches to check/verify/online/offline/walk.
//
// Grounded on _examples/specialistvlad-burstgridgo/internal/cli/cli.go for
// the flag-parsing idiom and ExitError type, and on
// original_source/altwalker/_cli.py / cli.py for which flags each
// subcommand exposes and original_source/altwalker/exceptions.py for the
// exit code taxonomy (1 failed tests, 2 usage error, 3 generator error, 4
// runner error).
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/altwalker/altwalker/internal/config"
)

// ExitError carries the process exit code alongside the message to print.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// Exit codes, mirroring original_source/altwalker/exceptions.py.
const (
	ExitFailedTests   = 1
	ExitUsage         = 2
	ExitGeneratorFail = 3
	ExitRunnerFail    = 4
)

// ModelArg is a --model PATH STOP_CONDITION pair.
type ModelArg struct {
	Path          string
	StopCondition string
}

// Config is the fully parsed configuration for one invocation.
type Config struct {
	Command string // "check", "verify", "online", "offline", "walk"

	Models  []ModelArg
	Blocked bool

	TestPackage  string
	ExecutorType string
	ExecutorURL  string

	GWHost       string
	GWPort       int
	StartElement string
	Verbose      bool
	Unvisited    bool

	ReportFile     string
	ReportPath     bool
	ReportPathFile string
	ReportXML      bool
	ReportXMLFile  string

	OutputFile string // offline: where to write the generated path
	StepsFile  string // walk: pre-generated path to replay

	LogFormat string
	LogLevel  string
}

const usageText = `AltWalker - a model-based test runner.

Usage:
  altwalker <command> [options]

Commands:
  check    Validate model(s) against their stop conditions.
  verify   Verify test code against model(s).
  online   Generate a path on-the-fly with a GraphWalker service and run it.
  offline  Generate a path and write it to a file, without executing tests.
  walk     Execute a pre-generated path against test code.

Run 'altwalker <command> -h' for command-specific options.
`

// Parse parses argv (excluding the program name) into a Config, using
// the package's built-in flag defaults. It is equivalent to
// ParseWithDefaults(args, output, config.Defaults{}).
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	return ParseWithDefaults(args, output, config.Defaults{})
}

// ParseWithDefaults parses argv the same way Parse does, but lets
// defaults (typically loaded from an altwalker.yaml project file)
// replace each flag's hardcoded default where they are set. A flag given
// explicitly on the command line always wins over both.
//
// The second return value is true when help was printed and the caller
// should exit 0 without running anything.
func ParseWithDefaults(args []string, output io.Writer, defaults config.Defaults) (*Config, bool, error) {
	if len(args) == 0 {
		fmt.Fprint(output, usageText)
		return nil, true, nil
	}

	command := args[0]
	rest := args[1:]

	switch command {
	case "check":
		return parseCheck(rest, output, defaults)
	case "verify":
		return parseVerify(rest, output, defaults)
	case "online":
		return parseOnline(rest, output, defaults)
	case "offline":
		return parseOffline(rest, output, defaults)
	case "walk":
		return parseWalk(rest, output, defaults)
	case "-h", "--help", "help":
		fmt.Fprint(output, usageText)
		return nil, true, nil
	default:
		return nil, false, &ExitError{Code: ExitUsage, Message: fmt.Sprintf("unknown command %q\n\n%s", command, usageText)}
	}
}

// modelFlags is a flag.Value collecting repeated -m/--model "path
// stop_condition" pairs.
type modelFlags struct{ values *[]ModelArg }

func (f modelFlags) String() string { return "" }

func (f modelFlags) Set(raw string) error {
	parts := strings.SplitN(raw, " ", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("--model must be given as \"path stop_condition\", got %q", raw)
	}
	*f.values = append(*f.values, ModelArg{Path: parts[0], StopCondition: parts[1]})
	return nil
}

func newFlagSet(name string, output io.Writer, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, usage)
		fs.PrintDefaults()
	}
	return fs
}

// addLogFlags registers the -log-format/-log-level flags shared by every
// subcommand, following the same "one logger config, every subcommand
// gets it" convention the ambient stack uses elsewhere.
func addLogFlags(fs *flag.FlagSet, defaults config.Defaults) (format, level *string) {
	format = fs.String("log-format", config.Or(defaults.Log.Format, "text"), "Log output format. Options: 'text' or 'json'.")
	level = fs.String("log-level", config.Or(defaults.Log.Level, "info"), "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	return format, level
}

func validateLogFlags(format, level string) error {
	format = strings.ToLower(format)
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", format)
	}
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", level)
	}
	return nil
}

func handleParseErr(fs *flag.FlagSet, err error) (bool, error) {
	if err == nil {
		return false, nil
	}
	if err == flag.ErrHelp {
		return true, nil
	}
	return false, &ExitError{Code: ExitUsage, Message: err.Error()}
}

func parseCheck(args []string, output io.Writer, defaults config.Defaults) (*Config, bool, error) {
	fs := newFlagSet("altwalker check", output, "Validate model(s) against their stop conditions.\n\nUsage:\n  altwalker check --model PATH \"STOP_CONDITION\" [--model ...]\n\nOptions:\n")
	cfg := &Config{Command: "check"}
	fs.Var(modelFlags{&cfg.Models}, "model", `A model file and its stop condition, e.g. -model "model.json \"random(never)\""`)
	blocked := fs.Bool("blocked", false, "Filter out elements marked as blocked.")
	logFormat, logLevel := addLogFlags(fs, defaults)

	if exit, err := handleParseErr(fs, fs.Parse(args)); exit || err != nil {
		return nil, exit, err
	}
	cfg.Blocked = *blocked

	if len(cfg.Models) == 0 {
		return nil, false, &ExitError{Code: ExitUsage, Message: "at least one --model is required"}
	}
	if err := validateLogFlags(*logFormat, *logLevel); err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	cfg.LogFormat, cfg.LogLevel = *logFormat, *logLevel
	return cfg, false, nil
}

func parseVerify(args []string, output io.Writer, defaults config.Defaults) (*Config, bool, error) {
	fs := newFlagSet("altwalker verify", output, "Verify test code against model(s).\n\nUsage:\n  altwalker verify TEST_PACKAGE --model PATH \"STOP_CONDITION\" [options]\n\nOptions:\n")
	cfg := &Config{Command: "verify"}
	fs.Var(modelFlags{&cfg.Models}, "model", "A model file and its stop condition.")
	executorType := fs.String("executor", config.Or(defaults.Executor.Type, "http"), "The type of executor to use.")
	executorURL := fs.String("url", config.Or(defaults.Executor.URL, "http://localhost:5000"), "The URL of the executor service.")
	blocked := fs.Bool("blocked", false, "Filter out elements marked as blocked.")
	logFormat, logLevel := addLogFlags(fs, defaults)

	// TEST_PACKAGE comes before the options, as the usage line shows;
	// fs.Parse stops at the first non-flag argument.
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cfg.TestPackage, args = args[0], args[1:]
	}
	if exit, err := handleParseErr(fs, fs.Parse(args)); exit || err != nil {
		return nil, exit, err
	}
	cfg.ExecutorType = *executorType
	cfg.ExecutorURL = *executorURL
	cfg.Blocked = *blocked

	if fs.NArg() > 0 && cfg.TestPackage == "" {
		cfg.TestPackage = fs.Arg(0)
	}
	if len(cfg.Models) == 0 {
		return nil, false, &ExitError{Code: ExitUsage, Message: "at least one --model is required"}
	}
	if err := validateLogFlags(*logFormat, *logLevel); err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	cfg.LogFormat, cfg.LogLevel = *logFormat, *logLevel
	return cfg, false, nil
}

func parseOnline(args []string, output io.Writer, defaults config.Defaults) (*Config, bool, error) {
	fs := newFlagSet("altwalker online", output, "Generate a path on-the-fly and run it against test code.\n\nUsage:\n  altwalker online TEST_PACKAGE --model PATH \"STOP_CONDITION\" [options]\n\nOptions:\n")
	cfg := &Config{Command: "online"}
	fs.Var(modelFlags{&cfg.Models}, "model", "A model file and its stop condition.")
	executorType := fs.String("executor", config.Or(defaults.Executor.Type, "http"), "The type of executor to use.")
	executorURL := fs.String("url", config.Or(defaults.Executor.URL, "http://localhost:5000"), "The URL of the executor service.")
	gwHost := fs.String("host", defaults.Generator.Host, "Connect to an already-running GraphWalker service at this host instead of spawning one.")
	gwPort := fs.Int("port", defaults.Generator.Port, "The port of the GraphWalker service. 0 picks a free port when spawning one.")
	startElement := fs.String("start-element", "", "A starting element for the first model.")
	verbose := fs.Bool("verbose", false, "Include graph data and properties in step output.")
	unvisited := fs.Bool("unvisited", false, "Track unvisited elements in step output.")
	blocked := fs.Bool("blocked", false, "Filter out elements marked as blocked.")
	reportFile := fs.String("report-file", "", "Write a plain-text report to this file.")
	reportPath := fs.Bool("report-path", false, "Write the executed path to path.json.")
	reportPathFile := fs.String("report-path-file", "", "Write the executed path to this file.")
	reportXML := fs.Bool("report-xml", false, "Write a JUnit XML report to report.xml.")
	reportXMLFile := fs.String("report-xml-file", "", "Write a JUnit XML report to this file.")
	logFormat, logLevel := addLogFlags(fs, defaults)

	// TEST_PACKAGE comes before the options, as the usage line shows;
	// fs.Parse stops at the first non-flag argument.
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cfg.TestPackage, args = args[0], args[1:]
	}
	if exit, err := handleParseErr(fs, fs.Parse(args)); exit || err != nil {
		return nil, exit, err
	}
	if fs.NArg() > 0 && cfg.TestPackage == "" {
		cfg.TestPackage = fs.Arg(0)
	}
	if len(cfg.Models) == 0 && *gwHost == "" {
		return nil, false, &ExitError{Code: ExitUsage, Message: "at least one --model is required unless --host is set"}
	}
	if err := validateLogFlags(*logFormat, *logLevel); err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}

	cfg.ExecutorType, cfg.ExecutorURL = *executorType, *executorURL
	cfg.GWHost, cfg.GWPort = *gwHost, *gwPort
	cfg.StartElement = *startElement
	cfg.Verbose, cfg.Unvisited, cfg.Blocked = *verbose, *unvisited, *blocked
	cfg.ReportFile, cfg.ReportPath, cfg.ReportPathFile = *reportFile, *reportPath, *reportPathFile
	cfg.ReportXML, cfg.ReportXMLFile = *reportXML, *reportXMLFile
	cfg.LogFormat, cfg.LogLevel = *logFormat, *logLevel
	return cfg, false, nil
}

func parseOffline(args []string, output io.Writer, defaults config.Defaults) (*Config, bool, error) {
	fs := newFlagSet("altwalker offline", output, "Generate a path and write it to a file, without executing tests.\n\nUsage:\n  altwalker offline --model PATH \"STOP_CONDITION\" [options]\n\nOptions:\n")
	cfg := &Config{Command: "offline"}
	fs.Var(modelFlags{&cfg.Models}, "model", "A model file and its stop condition.")
	outputFile := fs.String("output-file", "", "Write the generated path to this file instead of stdout.")
	startElement := fs.String("start-element", "", "A starting element for the first model.")
	verbose := fs.Bool("verbose", false, "Include graph data and properties in step output.")
	unvisited := fs.Bool("unvisited", false, "Track unvisited elements in step output.")
	blocked := fs.Bool("blocked", false, "Filter out elements marked as blocked.")
	logFormat, logLevel := addLogFlags(fs, defaults)

	if exit, err := handleParseErr(fs, fs.Parse(args)); exit || err != nil {
		return nil, exit, err
	}
	if len(cfg.Models) == 0 {
		return nil, false, &ExitError{Code: ExitUsage, Message: "at least one --model is required"}
	}
	if err := validateLogFlags(*logFormat, *logLevel); err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	cfg.OutputFile = *outputFile
	cfg.StartElement = *startElement
	cfg.Verbose, cfg.Unvisited, cfg.Blocked = *verbose, *unvisited, *blocked
	cfg.LogFormat, cfg.LogLevel = *logFormat, *logLevel
	return cfg, false, nil
}

func parseWalk(args []string, output io.Writer, defaults config.Defaults) (*Config, bool, error) {
	fs := newFlagSet("altwalker walk", output, "Execute a pre-generated path against test code.\n\nUsage:\n  altwalker walk TEST_PACKAGE STEPS_FILE [options]\n\nOptions:\n")
	cfg := &Config{Command: "walk"}
	executorType := fs.String("executor", config.Or(defaults.Executor.Type, "http"), "The type of executor to use.")
	executorURL := fs.String("url", config.Or(defaults.Executor.URL, "http://localhost:5000"), "The URL of the executor service.")
	reportFile := fs.String("report-file", "", "Write a plain-text report to this file.")
	reportPath := fs.Bool("report-path", false, "Write the executed path to path.json.")
	reportPathFile := fs.String("report-path-file", "", "Write the executed path to this file.")
	logFormat, logLevel := addLogFlags(fs, defaults)

	// TEST_PACKAGE and STEPS_FILE come before the options, as the usage
	// line shows; fs.Parse stops at the first non-flag argument.
	var positional []string
	for len(args) > 0 && len(positional) < 2 && !strings.HasPrefix(args[0], "-") {
		positional, args = append(positional, args[0]), args[1:]
	}
	if exit, err := handleParseErr(fs, fs.Parse(args)); exit || err != nil {
		return nil, exit, err
	}
	positional = append(positional, fs.Args()...)
	if len(positional) < 2 {
		return nil, false, &ExitError{Code: ExitUsage, Message: "walk requires TEST_PACKAGE and STEPS_FILE arguments"}
	}
	if err := validateLogFlags(*logFormat, *logLevel); err != nil {
		return nil, false, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	cfg.TestPackage = positional[0]
	cfg.StepsFile = positional[1]
	cfg.ExecutorType, cfg.ExecutorURL = *executorType, *executorURL
	cfg.ReportFile, cfg.ReportPath, cfg.ReportPathFile = *reportFile, *reportPath, *reportPathFile
	cfg.LogFormat, cfg.LogLevel = *logFormat, *logLevel
	return cfg, false, nil
}
