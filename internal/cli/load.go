package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/quaff/pkg/errors"
	"github.com/matzehuels/quaff/pkg/keypath"
)

// outputOpts holds the flags shared by commands that print a document.
type outputOpts struct {
	output string // output file path; stdout when empty
	format string // json, yaml or toml
}

func (o *outputOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "", "output format: json (default), yaml, toml")
}

// resolve fills the format from the config file unless the flag was set.
func (o *outputOpts) resolve(c *CLI) error {
	if o.format == "" {
		o.format = c.config.Format
	}
	return validateOutputFormat(o.format)
}

// loadCommand creates the load command, which prints a whole directory as
// one document.
func (c *CLI) loadCommand() *cobra.Command {
	var (
		out   outputOpts
		flags loaderFlags
		key   string
	)

	cmd := &cobra.Command{
		Use:   "load [dir]",
		Short: "Load a directory of data files into one document",
		Long: `Load every data file below a directory and print the result as a single
document. Each file is stored under its path relative to the directory,
without the extension: animals/mammals.json becomes animals.mammals.
Use --key to print only the value at one dotted key path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.resolve(c); err != nil {
				return err
			}
			loader := c.newLoader(cmd, &flags)

			v, err := c.withSpinner(cmd.Context(), args[0], func(ctx context.Context) (any, error) {
				return loader.Load(ctx, args[0])
			})
			if err != nil {
				return err
			}
			if key != "" {
				if v, err = lookupKey(v.(map[string]any), key); err != nil {
					return err
				}
			}
			return c.emit(cmd, v, &out)
		},
	}

	out.register(cmd)
	flags.register(cmd)
	cmd.Flags().StringVarP(&key, "key", "k", "", "print only the value at this dotted key path")
	return cmd
}

// fileCommand creates the file command, which decodes a single file.
func (c *CLI) fileCommand() *cobra.Command {
	var out outputOpts

	cmd := &cobra.Command{
		Use:   "file [path]",
		Short: "Decode a single data file",
		Long: `Decode one file with the decoder for its extension and print the result.
Go script files (.go) are evaluated and their Default export is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := out.resolve(c); err != nil {
				return err
			}
			loader := c.newLoader(cmd, &loaderFlags{})

			v, err := loader.LoadFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return c.emit(cmd, v, &out)
		},
	}

	out.register(cmd)
	return cmd
}

// lookupKey returns the value at a dotted key path of a loaded document.
func lookupKey(data map[string]any, key string) (any, error) {
	v, ok := keypath.Get(data, keypath.Parse(key))
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no value at key %q", key)
	}
	return v, nil
}

// emit encodes v and writes it to the command's output or a file.
func (c *CLI) emit(cmd *cobra.Command, v any, out *outputOpts) error {
	data, err := encodeValue(v, out.format)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd.OutOrStdout(), out.output, data); err != nil {
		return err
	}
	if out.output != "" {
		printSuccess("Wrote %s", out.output)
		printFile(out.output)
	}
	return nil
}

// withSpinner runs a load of root while a spinner shows progress on a
// terminal.
func (c *CLI) withSpinner(ctx context.Context, root string, fn func(context.Context) (any, error)) (any, error) {
	p := newProgress(loggerFromContext(ctx))
	if !isTerminal() {
		v, err := fn(ctx)
		if err == nil {
			p.debug("Loaded", "dir", root)
		}
		return v, err
	}

	s := newSpinner(ctx, os.Stderr, "Loading "+root)
	detach := c.hooks.attach(s)
	defer detach()
	s.Start()

	v, err := fn(ctx)
	if err != nil {
		if s.Cancelled() {
			s.Stop()
		} else {
			s.StopWithError("Failed to load " + root)
		}
		return nil, err
	}
	s.StopWithSuccess(fmt.Sprintf("Loaded %s (%d %s)", root, s.Count(), plural(s.Count(), "file", "files")))
	p.debug("Loaded", "dir", root, "files", s.Count())
	return v, nil
}
