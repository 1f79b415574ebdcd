package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/deepnoodle-ai/strict/internal/tablewriter"
	"github.com/deepnoodle-ai/strict/internal/typeerr"
	"github.com/deepnoodle-ai/strict/internal/validation"
	"github.com/deepnoodle-ai/strict/metrics"
	"github.com/deepnoodle-ai/strict/schema"
	"github.com/deepnoodle-ai/strict/slogger"
	"github.com/deepnoodle-ai/wonton/cli"
)

// CheckOptions holds configuration for the check command
type CheckOptions struct {
	Schema      string
	Record      string
	Patterns    []string
	NonEmpty    bool
	MetricsFile string
	MaxWidth    int
}

// checkResult is the outcome of validating one document.
type checkResult struct {
	Path  string
	Doc   string
	Err   error
	Fatal bool
}

// checkReport summarizes a check run.
type checkReport struct {
	Results []checkResult
}

func (r *checkReport) Failed() int {
	failed := 0
	for _, result := range r.Results {
		if result.Err != nil {
			failed++
		}
	}
	return failed
}

func registerCheckCommand(app *cli.App) {
	app.Command("check").
		Description("Validate documents against a record of a schema").
		Long("Validate every document matched by the given glob patterns. A data file may hold a single mapping, a list of mappings or, for YAML, several documents separated by ---.").
		Flags(
			cli.String("schema", "s").Env("STRICT_SCHEMA").Required().Help("Schema file or directory"),
			cli.String("record", "r").Required().Help("Record the documents must match"),
			cli.Bool("nonempty", "").Help("Reject empty documents"),
			cli.String("metrics-file", "").Help("Write Prometheus metrics to this file"),
			cli.Int("max-width", "").Default(80).Help("Maximum width of a report column"),
		).
		Run(func(ctx *cli.Context) error {
			parseGlobalFlags(ctx)
			if ctx.NArg() == 0 {
				return cli.Errorf("at least one file pattern is required")
			}
			options := CheckOptions{
				Schema:      ctx.String("schema"),
				Record:      ctx.String("record"),
				Patterns:    ctx.Args(),
				NonEmpty:    ctx.Bool("nonempty"),
				MetricsFile: ctx.String("metrics-file"),
				MaxWidth:    ctx.Int("max-width"),
			}
			goCtx := slogger.WithLogger(context.Background(), newLogger())
			report, err := runCheck(goCtx, os.Stdout, options)
			if err != nil {
				return err
			}
			if failed := report.Failed(); failed > 0 {
				return cli.Errorf("%d of %d documents failed validation", failed, len(report.Results))
			}
			return nil
		})
}

// runCheck validates the documents and prints a report table to out.
func runCheck(ctx context.Context, out io.Writer, options CheckOptions) (*checkReport, error) {
	s, err := schema.Load(options.Schema)
	if err != nil {
		return nil, err
	}
	if _, ok := s.Record(options.Record); !ok {
		return nil, fmt.Errorf("schema %s does not declare record %q (declared: %v)", options.Schema, options.Record, s.Records())
	}

	files, err := expandPatterns(options.Patterns)
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewRecorder()
	validationOpts := []validation.Option{
		validation.WithEmptyOK(!options.NonEmpty),
		validation.WithObserver(recorder),
	}

	logger := slogger.Ctx(ctx)
	report := &checkReport{}
	for _, file := range files {
		docs, err := schema.LoadData(file)
		if err != nil {
			logger.Warn("failed to load document", "file", file, "error", err)
			report.Results = append(report.Results, checkResult{Path: file, Doc: "-", Err: err, Fatal: true})
			continue
		}
		for i, doc := range instances(docs) {
			err := s.Validate(ctx, options.Record, doc, validationOpts...)
			if err != nil {
				logger.Debug("document failed validation", "file", file, "doc", i, "error", err)
			}
			report.Results = append(report.Results, checkResult{Path: file, Doc: strconv.Itoa(i), Err: err})
		}
	}

	if err := writeReport(out, report, options.MaxWidth); err != nil {
		return nil, err
	}
	if options.MetricsFile != "" {
		if err := recorder.WriteTextfile(options.MetricsFile); err != nil {
			return nil, err
		}
	}
	return report, nil
}

// expandPatterns returns the sorted, de-duplicated files matching patterns.
// Every pattern must match at least one file.
func expandPatterns(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files, unmatched []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			unmatched = append(unmatched, pattern)
			continue
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				files = append(files, match)
			}
		}
	}
	if len(unmatched) > 0 {
		return nil, fmt.Errorf("no files match %s", strings.Join(unmatched, ", "))
	}
	sort.Strings(files)
	return files, nil
}

// instances flattens documents holding a list of records.
func instances(docs []any) []any {
	var out []any
	for _, doc := range docs {
		if list, ok := doc.([]any); ok {
			out = append(out, list...)
			continue
		}
		out = append(out, doc)
	}
	return out
}

func writeReport(out io.Writer, report *checkReport, maxWidth int) error {
	table := tablewriter.NewWriter(out)
	table.SetMaxWidth(maxWidth)
	table.SetHeader("FILE", "DOC", "RESULT", "ERROR")
	for _, r := range report.Results {
		if r.Err == nil {
			table.Append(r.Path, r.Doc, successStyle.Sprint(checkmark+" ok"), "")
			continue
		}
		kind := "invalid"
		if r.Fatal {
			kind = "unreadable"
		} else if code := typeerr.Code(r.Err); code != "other" {
			kind = code
		}
		table.Append(r.Path, r.Doc, errorStyle.Sprint(xmark+" "+kind), r.Err.Error())
	}
	if err := table.Render(); err != nil {
		return err
	}

	failed := report.Failed()
	summary := fmt.Sprintf("%d documents, %d failed", len(report.Results), failed)
	if failed > 0 {
		summary = errorStyle.Sprint(summary)
	} else {
		summary = successStyle.Sprint(summary)
	}
	_, err := fmt.Fprintln(out, summary)
	return err
}
