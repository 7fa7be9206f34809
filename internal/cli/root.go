package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/quaff/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Before any subcommand runs, the config file is loaded, the log level is
// set (debug with --verbose or verbose: true) and the logger is attached to
// the command context, where loggerFromContext finds it.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "quaff loads a directory of data files into one document",
		Long:         `quaff is a CLI tool for loading a directory tree of JSON, YAML, CSV, TSV, TOML and ArchieML files (and Go scripts) into a single nested document keyed by directory path.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := LoadConfig(cmd.Context(), c.configPath)
			if err != nil {
				return err
			}
			c.config = cfg

			level := LogInfo
			if verbose || cfg.Verbose {
				level = LogDebug
			}
			c.SetLogLevel(level)
			if path != "" {
				c.Logger.Debug("loaded config", "path", path)
			}

			c.installHooks()
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./quaff.{yaml,yml,toml,json})")

	// Register all subcommands
	root.AddCommand(c.loadCommand())
	root.AddCommand(c.fileCommand())
	root.AddCommand(c.keysCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.formatsCommand())
	root.AddCommand(c.completionCommand())
	completeFlags(root)

	return root
}
