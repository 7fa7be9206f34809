package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/quaff/pkg/format"
	"github.com/matzehuels/quaff/pkg/script"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for quaff.

To load completions:

Bash:
  $ source <(quaff completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ quaff completion bash > /etc/bash_completion.d/quaff
  # macOS:
  $ quaff completion bash > $(brew --prefix)/etc/bash_completion.d/quaff

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ quaff completion zsh > "${fpath[1]}/_quaff"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ quaff completion fish | source

  # To load completions for each session, execute once:
  $ quaff completion fish > ~/.config/fish/completions/quaff.fish

PowerShell:
  PS> quaff completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> quaff completion powershell > quaff.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completeFlags registers value completion on every subcommand of root:
// --format offers the formats that command writes, --ext the extensions
// quaff can load, and directory arguments complete to directories only.
func completeFlags(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		if cmd.Flags().Lookup("format") != nil {
			formats := outputFormats
			if cmd.Name() == "graph" {
				formats = graphFormats
			}
			_ = cmd.RegisterFlagCompletionFunc("format", fixedValues(formats))
		}
		if cmd.Flags().Lookup("ext") != nil {
			_ = cmd.RegisterFlagCompletionFunc("ext", fixedValues(loadableExtensions()))
		}
		if cmd.Name() == "file" {
			cmd.ValidArgsFunction = fileArgs(1, cobra.ShellCompDirectiveDefault)
		} else if strings.HasSuffix(cmd.Use, "[dir]") {
			cmd.ValidArgsFunction = fileArgs(1, cobra.ShellCompDirectiveFilterDirs)
		}
	}
}

// loadableExtensions lists every extension a load can be asked for.
func loadableExtensions() []string {
	exts := slices.Concat(format.DeclarativeExtensions, format.ScriptExtensions, []string{script.Extension})
	slices.Sort(exts)
	return exts
}

func fixedValues(vals []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return vals, cobra.ShellCompDirectiveNoFileComp
	}
}

// fileArgs leaves the first n positional arguments to the shell with
// directive and offers nothing after them.
func fileArgs(n int, directive cobra.ShellCompDirective) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) >= n {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return nil, directive
	}
}
