// Package cli implements the quaff command-line interface.
//
// This package provides commands for loading data directories into a single
// document, inspecting their keys, rendering the key hierarchy and serving a
// directory over HTTP. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - load: Load a directory and print the merged document
//   - file: Decode a single file
//   - keys: List the key path of every file in a directory
//   - browse: Explore a loaded directory interactively
//   - graph: Render the key hierarchy with Graphviz
//   - serve: Serve a directory over HTTP
//   - formats: List the supported file formats
//
// # Configuration
//
// Defaults come from quaff.yaml (or .yml, .toml, .json) in the working
// directory, or the file named by --config. QUAFF_* environment variables
// override the file and flags override both.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
//
// # Example
//
//	import "github.com/matzehuels/quaff/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// newLogger creates a logger that writes to w at the given level, with
// "HH:MM:SS.ms" timestamps (e.g., "14:32:01.45"). Key paths and errors in
// log fields are colored with the CLI palette.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
	logger.SetStyles(logStyles())
	return logger
}

// logStyles extends the default styles for the fields quaff logs most.
func logStyles() *log.Styles {
	styles := log.DefaultStyles()
	styles.Keys["key"] = StyleHighlight
	styles.Values["key"] = StyleHighlight
	styles.Keys["format"] = StyleDim
	styles.Keys["err"] = lipgloss.NewStyle().Foreground(colorRed)
	styles.Values["err"] = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	return styles
}

// progress times one load or render and logs it with its elapsed time as
// structured fields. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg at info level with keyvals and the elapsed time rounded to
// the millisecond, e.g. "Rendered format=svg elapsed=1.234s".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg, p.fields(keyvals)...)
}

// debug is like done at debug level.
func (p *progress) debug(msg string, keyvals ...any) {
	p.logger.Debug(msg, p.fields(keyvals)...)
}

func (p *progress) fields(keyvals []any) []any {
	return append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
}

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger attached by the root command's
// pre-run, or log.Default() for commands run without it.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
