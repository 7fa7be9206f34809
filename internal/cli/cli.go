package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/quaff/pkg/format"
	"github.com/matzehuels/quaff/pkg/observability"
	"github.com/matzehuels/quaff/pkg/quaff"
	"github.com/matzehuels/quaff/pkg/script"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for config files and display.
	appName = "quaff"

	// envPrefix prefixes environment variables that override config keys.
	envPrefix = "QUAFF"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	config     *Config
	configPath string
	hooks      *loadHooks
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	logger := newLogger(w, level)
	return &CLI{
		Logger: logger,
		config: DefaultConfig(),
		hooks:  &loadHooks{logger: logger},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Loader Factory
// =============================================================================

// loaderFlags are the flags shared by every command that reads a directory.
type loaderFlags struct {
	extensions     []string
	includeScripts bool
}

func (f *loaderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.extensions, "ext", nil, "extensions to load (default: all declarative formats)")
	cmd.Flags().BoolVar(&f.includeScripts, "scripts", false, "also load script data sources (.go, .js, ...)")
}

// newLoader builds a loader from the config file, overridden by any flags
// set on cmd. The Go script loader is always registered so single .go
// files can be loaded; directories only pick scripts up with --scripts.
func (c *CLI) newLoader(cmd *cobra.Command, f *loaderFlags) *quaff.Loader {
	exts := c.config.Extensions
	if cmd.Flags().Changed("ext") {
		exts = f.extensions
	}
	include := c.config.IncludeScripts
	if cmd.Flags().Changed("scripts") {
		include = f.includeScripts
	}

	return quaff.New(quaff.Options{
		Logger:         c.Logger,
		Extensions:     exts,
		IncludeScripts: include,
		Scripts:        script.New().Register(map[string]format.ScriptLoader{}),
	})
}

// installHooks routes load events to the CLI. It runs once per process,
// before any command.
func (c *CLI) installHooks() {
	observability.SetLoadHooks(c.hooks)
}

// isTerminal reports whether stderr is attached to a terminal, which decides
// whether the spinner is drawn.
func isTerminal() bool {
	fi, err := os.Stderr.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}
