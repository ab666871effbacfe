package app

import (
	"github.com/altwalker/altwalker/internal/cli"
	"github.com/altwalker/altwalker/internal/reporter"
)

// buildReporters assembles the reporter aggregate for a run, mirroring
// original_source's create_reporters: a logging reporter is always
// present, the others are opt-in per flag.
func (a *App) buildReporters(cfg *cli.Config) *reporter.Reporting {
	reporting := reporter.NewReporting()
	_ = reporting.Register("log", reporter.NewLogReporter(a.logger))

	if cfg.ReportFile != "" {
		_ = reporting.Register("file", reporter.NewLogReporter(a.fileLogger(cfg.ReportFile)))
	}

	if cfg.ReportPath || cfg.ReportPathFile != "" {
		file := cfg.ReportPathFile
		if file == "" {
			file = "path.json"
		}
		_ = reporting.Register("path", reporter.NewPathReporter(file, a.logger))
	}

	if cfg.ReportXML || cfg.ReportXMLFile != "" {
		file := cfg.ReportXMLFile
		if file == "" {
			file = "report.xml"
		}
		_ = reporting.Register("junit", reporter.NewJUnitReporter(file, a.logger))
	}

	return reporting
}
