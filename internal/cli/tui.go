package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/quaff/pkg/keypath"
)

// List styles
var (
	listDimStyle     = lipgloss.NewStyle().Foreground(colorDim)
	listPreviewStyle = lipgloss.NewStyle().Foreground(colorWhite).PaddingLeft(2)
)

// previewLines caps the value preview under the key list.
const previewLines = 12

// =============================================================================
// KeyListModel - Interactive key browser
// =============================================================================

// KeyLeaf is one value in a loaded document.
type KeyLeaf struct {
	Key   keypath.Path
	Value any
}

// KeyListModel is the bubbletea model for browsing the values of a loaded
// directory.
type KeyListModel struct {
	Leaves   []KeyLeaf
	Cursor   int
	Selected *KeyLeaf
	Height   int
	Offset   int
}

// NewKeyListModel lists every leaf of data in key order.
func NewKeyListModel(data map[string]any) KeyListModel {
	var leaves []KeyLeaf
	for p, v := range keypath.Leaves(data) {
		leaves = append(leaves, KeyLeaf{Key: p, Value: v})
	}
	return KeyListModel{
		Leaves: leaves,
		Cursor: 0,
		Height: 15,
		Offset: 0,
	}
}

func (m KeyListModel) Init() tea.Cmd {
	return nil
}

func (m KeyListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Leaves)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Leaves) == 0 {
				return m, nil
			}
			leaf := m.Leaves[m.Cursor]
			m.Selected = &leaf
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - previewLines - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m KeyListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Browse Keys"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ print value  q quit"))
	b.WriteString("\n\n")

	if len(m.Leaves) == 0 {
		b.WriteString(listDimStyle.Render("  no values loaded"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Leaves))

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		l := m.Leaves[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, l.Key.String(), describeValue(l.Value)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Key", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			if col == 2 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listPreviewStyle.Render(preview(m.Leaves[m.Cursor].Value, previewLines)))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Leaves))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// describeValue summarizes a value in a few words.
func describeValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return fmt.Sprintf("object (%d keys)", len(t))
	case []any:
		return fmt.Sprintf("list (%d items)", len(t))
	case string:
		if len(t) > 40 {
			return fmt.Sprintf("%q…", t[:40])
		}
		return fmt.Sprintf("%q", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// preview renders v as indented JSON cut to maxLines.
func preview(v any, maxLines int) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) > maxLines {
		lines = append(lines[:maxLines], "…")
	}
	return strings.Join(lines, "\n")
}

// browseCommand creates the browse command, an interactive view of a
// loaded directory.
func (c *CLI) browseCommand() *cobra.Command {
	var flags loaderFlags

	cmd := &cobra.Command{
		Use:   "browse [dir]",
		Short: "Browse the values of a directory interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.newLoader(cmd, &flags).Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			final, err := tea.NewProgram(NewKeyListModel(data), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			m, ok := final.(KeyListModel)
			if !ok || m.Selected == nil {
				return nil
			}
			out, err := encodeValue(m.Selected.Value, outputJSON)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	flags.register(cmd)
	return cmd
}
