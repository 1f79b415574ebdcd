package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/deepnoodle-ai/strict/schema"
	"github.com/deepnoodle-ai/wonton/cli"
	"github.com/pmezard/go-difflib/difflib"
)

// DiffOptions holds configuration for the diff command
type DiffOptions struct {
	OldPath      string
	NewPath      string
	ContextLines int
	ExitCode     bool
}

func registerDiffCommand(app *cli.App) {
	app.Command("diff").
		Description("Compare two schemas by their canonical form").
		Long("Print a unified diff of the canonical form of two schemas. Formatting, key order and shorthand differences do not show up. Use - to read one schema from stdin as YAML.").
		Flags(
			cli.Int("context", "c").Default(3).Help("Number of context lines to show"),
			cli.Bool("exit-code", "").Help("Exit with a non-zero status when the schemas differ"),
		).
		Run(func(ctx *cli.Context) error {
			parseGlobalFlags(ctx)
			if ctx.NArg() != 2 {
				return cli.Errorf("diff needs exactly two schemas, got %d", ctx.NArg())
			}
			options := DiffOptions{
				OldPath:      ctx.Arg(0),
				NewPath:      ctx.Arg(1),
				ContextLines: ctx.Int("context"),
				ExitCode:     ctx.Bool("exit-code"),
			}
			changed, err := runDiff(os.Stdout, os.Stdin, options)
			if err != nil {
				return err
			}
			if changed && options.ExitCode {
				return cli.Errorf("schemas differ")
			}
			return nil
		})
}

// runDiff writes the diff of the two schemas to out and reports whether they
// differ.
func runDiff(out io.Writer, stdin io.Reader, options DiffOptions) (bool, error) {
	oldSchema, err := loadSchema(options.OldPath, stdin)
	if err != nil {
		return false, err
	}
	newSchema, err := loadSchema(options.NewPath, stdin)
	if err != nil {
		return false, err
	}

	diff, err := generateUnifiedDiff(oldSchema.Format(), newSchema.Format(), options.OldPath, options.NewPath, options.ContextLines)
	if err != nil {
		return false, err
	}
	if diff == "" {
		fmt.Fprintln(out, successStyle.Sprint(checkmark+" Schemas are equivalent"))
		return false, nil
	}

	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(out, boldStyle.Sprint(line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprint(out, hunkStyle.Sprint(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprint(out, addedStyle.Sprint(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprint(out, removedStyle.Sprint(line))
		default:
			fmt.Fprint(out, line)
		}
	}
	return true, nil
}

// loadSchema loads a schema from a file or directory, or parses YAML from
// stdin when path is "-".
func loadSchema(path string, stdin io.Reader) (*schema.Schema, error) {
	if path != "-" {
		return schema.Load(path)
	}
	content, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("error reading from stdin: %w", err)
	}
	s, err := schema.Parse(content, "yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema from stdin: %w", err)
	}
	return s, nil
}

// generateUnifiedDiff creates a git-style unified diff between two strings
func generateUnifiedDiff(oldContent, newContent, oldFile, newFile string, contextLines int) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: oldFile,
		ToFile:   newFile,
		FromDate: "original",
		ToDate:   "modified",
		Context:  contextLines,
	}
	result, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to generate diff: %w", err)
	}
	return result, nil
}
