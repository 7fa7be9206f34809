package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/quaff/pkg/format"
	"github.com/matzehuels/quaff/pkg/keypath"
	"github.com/matzehuels/quaff/pkg/quaff"
)

// keysCommand creates the keys command, which lists where each file of a
// directory would be stored without decoding any of them.
func (c *CLI) keysCommand() *cobra.Command {
	var (
		flags  loaderFlags
		plain  bool
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "keys [dir]",
		Short: "List the key path of every file in a directory",
		Long: `List the key path, source file and format of every file a load would read.
Files are not decoded, but key collisions are still reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := c.newLoader(cmd, &flags).Plan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			plan = filterPlan(plan, prefix)
			if plain {
				return writePlainKeys(cmd.OutOrStdout(), plan)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderKeyTable(plan))
			printDetail("%d keys", len(plan))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&plain, "plain", false, "print one key per line without styling")
	cmd.Flags().StringVar(&prefix, "prefix", "", "only list keys at or below this dotted key path")
	return cmd
}

// filterPlan keeps the entries whose key is prefix or lies below it.
func filterPlan(plan []quaff.Entry, prefix string) []quaff.Entry {
	p := keypath.Parse(prefix)
	if len(p) == 0 {
		return plan
	}
	var out []quaff.Entry
	for _, e := range plan {
		if slices.Equal(e.Key, p) || e.Key.HasPrefix(p) {
			out = append(out, e)
		}
	}
	return out
}

func writePlainKeys(w io.Writer, plan []quaff.Entry) error {
	for _, e := range plan {
		if _, err := fmt.Fprintln(w, e.Key.String()); err != nil {
			return err
		}
	}
	return nil
}

func renderKeyTable(plan []quaff.Entry) string {
	rows := make([][]string, len(plan))
	for i, e := range plan {
		rows[i] = []string{e.Key.String(), e.File.Rel, e.Format}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Key", "File", "Format").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight
			case col == 2 && plan[row].Format == format.ScriptFormat:
				return StyleWarning
			default:
				return StyleDim
			}
		})
	return t.Render()
}

// formatsCommand creates the formats command, which lists the supported
// extensions.
func (c *CLI) formatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported file formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := c.newLoader(cmd, &loaderFlags{}).Dispatcher()
			for _, f := range d.Formats() {
				line := fmt.Sprintf("%-10s %s", f.Name, strings.Join(f.Extensions, " "))
				if f.Script {
					line += StyleDim.Render("  (executed; only with --scripts)")
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
