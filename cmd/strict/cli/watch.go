package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/deepnoodle-ai/strict/slogger"
	"github.com/deepnoodle-ai/wonton/cli"
	"github.com/fsnotify/fsnotify"
)

// WatchOptions holds configuration for the watch command
type WatchOptions struct {
	Check          CheckOptions
	Debounce       time.Duration
	IgnorePatterns []string
}

// FileWatcher re-runs a check whenever a watched document or the schema
// changes.
type FileWatcher struct {
	options   WatchOptions
	watcher   *fsnotify.Watcher
	logger    slogger.Logger
	out       io.Writer
	debouncer map[string]time.Time
	now       func() time.Time
	run       func(ctx context.Context, trigger string) error
}

func registerWatchCommand(app *cli.App) {
	app.Command("watch").
		Description("Re-validate documents whenever they or the schema change").
		Long("Watch the files matched by the given glob patterns, plus the schema, and run check again on every write.").
		Flags(
			cli.String("schema", "s").Env("STRICT_SCHEMA").Required().Help("Schema file or directory"),
			cli.String("record", "r").Required().Help("Record the documents must match"),
			cli.Bool("nonempty", "").Help("Reject empty documents"),
			cli.String("metrics-file", "").Help("Write Prometheus metrics to this file after each run"),
			cli.Int("max-width", "").Default(80).Help("Maximum width of a report column"),
			cli.String("debounce", "d").Default("300ms").Help("Ignore repeated events for a file within this duration"),
			cli.Strings("ignore", "i").Help("Glob patterns of files to ignore"),
		).
		Run(func(ctx *cli.Context) error {
			parseGlobalFlags(ctx)
			if ctx.NArg() == 0 {
				return cli.Errorf("at least one file pattern is required")
			}
			debounce, err := time.ParseDuration(ctx.String("debounce"))
			if err != nil {
				return cli.Errorf("invalid debounce duration %q: %v", ctx.String("debounce"), err)
			}
			options := WatchOptions{
				Check: CheckOptions{
					Schema:      ctx.String("schema"),
					Record:      ctx.String("record"),
					Patterns:    ctx.Args(),
					NonEmpty:    ctx.Bool("nonempty"),
					MetricsFile: ctx.String("metrics-file"),
					MaxWidth:    ctx.Int("max-width"),
				},
				Debounce:       debounce,
				IgnorePatterns: ctx.Strings("ignore"),
			}

			watcher, err := NewFileWatcher(options, newLogger(), os.Stdout)
			if err != nil {
				return err
			}
			goCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watcher.Start(goCtx)
		})
}

// NewFileWatcher creates a new file watcher instance
func NewFileWatcher(options WatchOptions, logger slogger.Logger, out io.Writer) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	fw := &FileWatcher{
		options:   options,
		watcher:   watcher,
		logger:    logger,
		out:       out,
		debouncer: make(map[string]time.Time),
		now:       time.Now,
	}
	fw.run = fw.runCheck
	return fw, nil
}

// Start runs an initial check, then re-runs it on every relevant change
// until ctx is cancelled.
func (fw *FileWatcher) Start(ctx context.Context) error {
	defer fw.watcher.Close()

	if err := fw.addWatchPaths(); err != nil {
		return fmt.Errorf("failed to add watch paths: %w", err)
	}

	fmt.Fprintln(fw.out, boldStyle.Sprint("Watching for changes"))
	fmt.Fprintf(fw.out, "Schema: %s\n", fw.options.Check.Schema)
	fmt.Fprintf(fw.out, "Patterns: %s\n", strings.Join(fw.options.Check.Patterns, ", "))
	fmt.Fprintln(fw.out, mutedStyle.Sprint("Press Ctrl+C to stop..."))
	fmt.Fprintln(fw.out)

	if err := fw.run(ctx, "startup"); err != nil {
		fw.logger.Error("Check failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(fw.out, "\nWatcher stopped")
			return nil
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return nil
			}
			if err := fw.handleFileEvent(ctx, event); err != nil {
				fw.logger.Error("Error handling file event", "error", err, "file", event.Name)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return nil
			}
			fw.logger.Error("File watcher error", "error", err)
		}
	}
}

// addWatchPaths watches the directories holding the schema and every file
// matched by the patterns, along with the static prefix of each pattern so
// new files are noticed.
func (fw *FileWatcher) addWatchPaths() error {
	watchedDirs := make(map[string]bool)
	watch := func(dir string) {
		if watchedDirs[dir] {
			return
		}
		if err := fw.watcher.Add(dir); err != nil {
			fw.logger.Warn("Failed to watch directory", "dir", dir, "error", err)
			return
		}
		fw.logger.Debug("Watching directory", "dir", dir)
		watchedDirs[dir] = true
	}

	if info, err := os.Stat(fw.options.Check.Schema); err == nil && info.IsDir() {
		fw.addRecursiveWatch(fw.options.Check.Schema, watch)
	} else {
		watch(filepath.Dir(fw.options.Check.Schema))
	}

	for _, pattern := range fw.options.Check.Patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		if info, err := os.Stat(base); err == nil && info.IsDir() {
			if strings.Contains(pattern, "**") {
				fw.addRecursiveWatch(base, watch)
			} else {
				watch(filepath.Clean(base))
			}
		}

		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		for _, match := range matches {
			watch(filepath.Dir(match))
		}
	}

	if len(watchedDirs) == 0 {
		return fmt.Errorf("no directories found to watch for patterns: %s", strings.Join(fw.options.Check.Patterns, ", "))
	}
	return nil
}

// addRecursiveWatch watches root and all its subdirectories
func (fw *FileWatcher) addRecursiveWatch(root string, watch func(dir string)) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			watch(path)
		}
		return nil
	})
}

// handleFileEvent processes a file system event
func (fw *FileWatcher) handleFileEvent(ctx context.Context, event fsnotify.Event) error {
	if !fw.matchesPatterns(event.Name) {
		return nil
	}
	if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
		return nil
	}

	now := fw.now()
	if lastTime, exists := fw.debouncer[event.Name]; exists {
		if now.Sub(lastTime) < fw.options.Debounce {
			return nil
		}
	}
	fw.debouncer[event.Name] = now

	return fw.run(ctx, fmt.Sprintf("%s %s", event.Op, event.Name))
}

// matchesPatterns checks if a file path is the schema or matches any of the
// watch patterns
func (fw *FileWatcher) matchesPatterns(filePath string) bool {
	slashPath := filepath.ToSlash(filepath.Clean(filePath))
	for _, ignorePattern := range fw.options.IgnorePatterns {
		if matched, _ := doublestar.PathMatch(ignorePattern, filePath); matched {
			return false
		}
	}

	schemaPath := filepath.ToSlash(filepath.Clean(fw.options.Check.Schema))
	if slashPath == schemaPath || strings.HasPrefix(slashPath, schemaPath+"/") {
		return true
	}

	for _, pattern := range fw.options.Check.Patterns {
		if matched, _ := doublestar.PathMatch(pattern, filePath); matched {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) runCheck(ctx context.Context, trigger string) error {
	fmt.Fprintf(fw.out, "%s %s\n", mutedStyle.Sprint(fw.now().Format(time.TimeOnly)), trigger)
	checkCtx := slogger.WithLogger(ctx, fw.logger)
	_, err := runCheck(checkCtx, fw.out, fw.options.Check)
	if err != nil {
		fmt.Fprintln(fw.out, errorStyle.Sprint(err.Error()))
	}
	fmt.Fprintln(fw.out)
	return nil
}
