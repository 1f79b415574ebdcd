// Package cli implements the strict command line tool.
package cli

import (
	"fmt"
	"os"

	"github.com/deepnoodle-ai/strict/slogger"
	"github.com/deepnoodle-ai/wonton/cli"
	"github.com/fatih/color"
)

var (
	logLevel string
	app      *cli.App
)

func getLogLevel() slogger.LogLevel {
	return slogger.LevelFromString(logLevel)
}

func newLogger() slogger.Logger {
	return slogger.New(getLogLevel())
}

func Execute() {
	app = cli.New("strict").
		Description("strict validates YAML and JSON documents against typed record schemas").
		Version("0.1.0").
		GlobalFlags(
			cli.String("log-level", "").
				Default("warn").
				Env("STRICT_LOG_LEVEL").
				Help("Log level to use (debug, info, warn, error)"),
			cli.Bool("no-color", "").
				Help("Disable colored output"),
		)

	registerCheckCommand(app)
	registerWatchCommand(app)
	registerDiffCommand(app)
	registerExplainCommand(app)

	if err := app.Execute(); err != nil {
		if cli.IsHelpRequested(err) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}

// parseGlobalFlags extracts global flag values from context
func parseGlobalFlags(ctx *cli.Context) {
	logLevel = ctx.String("log-level")
	if ctx.Bool("no-color") {
		color.NoColor = true
	}
}
