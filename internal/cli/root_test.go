package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/quaff/pkg/errors"
	"github.com/matzehuels/quaff/pkg/observability"
)

// execute runs the root command with args and returns what it wrote to its
// output stream.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(observability.Reset)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"load", "file", "keys", "browse", "graph", "serve", "formats", "completion"} {
		require.Contains(t, names, want)
	}
}

func TestLoadCommand(t *testing.T) {
	out, err := execute(t, "load", "testdata/data")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Equal(t, map[string]any{
		"animals": map[string]any{
			"mammals": map[string]any{"dogs": float64(2), "cats": float64(1)},
		},
		"birds": []any{"robin", "wren"},
		"site":  map[string]any{"title": "quaff"},
	}, got)
}

func TestLoadCommandYAML(t *testing.T) {
	out, err := execute(t, "load", "testdata/data", "--format", "yaml", "--ext", ".yaml")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	require.Equal(t, map[string]any{"birds": []any{"robin", "wren"}}, got)
}

func TestLoadCommandOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	out, err := execute(t, "load", "testdata/data", "--ext", ".toml", "-o", path)
	require.NoError(t, err)
	require.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"site": {"title": "quaff"}}`, string(data))
}

func TestLoadCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"duplicate key", []string{"load", "testdata/dup"}, errors.ErrCodeDuplicateKey},
		{"missing dir", []string{"load", "testdata/missing"}, errors.ErrCodeInvalidPath},
		{"bad format", []string{"load", "testdata/data", "--format", "xml"}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			require.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestLoadCommandKey(t *testing.T) {
	out, err := execute(t, "load", "testdata/data", "--key", "animals.mammals")
	require.NoError(t, err)
	require.JSONEq(t, `{"dogs": 2, "cats": 1}`, out)

	_, err = execute(t, "load", "testdata/data", "-k", "animals.reptiles")
	require.True(t, errors.Is(err, errors.ErrCodeNotFound), "got %v", err)
}

func TestFileCommand(t *testing.T) {
	out, err := execute(t, "file", "testdata/data/birds.yaml")
	require.NoError(t, err)
	require.JSONEq(t, `["robin", "wren"]`, out)
}

func TestKeysCommandPlain(t *testing.T) {
	out, err := execute(t, "keys", "testdata/data", "--plain")
	require.NoError(t, err)
	require.Equal(t, "animals.mammals\nbirds\nsite\n", out)
}

func TestKeysCommandPrefix(t *testing.T) {
	out, err := execute(t, "keys", "testdata/data", "--plain", "--prefix", "animals")
	require.NoError(t, err)
	require.Equal(t, "animals.mammals\n", out)

	out, err = execute(t, "keys", "testdata/data", "--plain", "--prefix", "site")
	require.NoError(t, err)
	require.Equal(t, "site\n", out)

	out, err = execute(t, "keys", "testdata/data", "--plain", "--prefix", "si")
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestKeysCommandTable(t *testing.T) {
	out, err := execute(t, "keys", "testdata/data")
	require.NoError(t, err)
	for _, want := range []string{"Key", "animals.mammals", "animals/mammals.json", "yaml"} {
		require.Contains(t, out, want)
	}
}

func TestFormatsCommand(t *testing.T) {
	out, err := execute(t, "formats")
	require.NoError(t, err)
	for _, want := range []string{"json", ".yml", ".tsv", ".aml", "script"} {
		require.Contains(t, out, want)
	}
}

func TestGraphCommandDOT(t *testing.T) {
	out, err := execute(t, "graph", "testdata/data")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "digraph G {"))
	require.Contains(t, out, `"/animals/mammals"`)
	require.Contains(t, out, `"/" -> "/animals"`)
}

func TestGraphCommandBadFormat(t *testing.T) {
	_, err := execute(t, "graph", "testdata/data", "--format", "gif")
	require.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestCompletion(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"load format", []string{"load", "--format", ""}, []string{"json\n", "yaml\n", "toml\n", ":4\n"}},
		{"graph format", []string{"graph", "-f", ""}, []string{"dot\n", "svg\n", "png\n", ":4\n"}},
		{"ext", []string{"keys", "--ext", ""}, []string{".aml\n", ".go\n", ".mjs\n", ".yml\n", ":4\n"}},
		{"dir arg", []string{"serve", ""}, []string{":16\n"}},
		{"file arg", []string{"file", ""}, []string{":0\n"}},
		{"second arg", []string{"load", "testdata", ""}, []string{":4\n"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"__completeNoDesc"}, tt.args...)...)
			require.NoError(t, err)
			for _, want := range tt.want {
				require.Contains(t, out, want)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quaff.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: yaml\ninclude_scripts: true\nserve:\n  addr: \":9090\"\n"), 0o644))

	cfg, used, err := LoadConfig(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, path, used)
	require.Equal(t, "yaml", cfg.Format)
	require.True(t, cfg.IncludeScripts)
	require.Equal(t, ":9090", cfg.Serve.Addr)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, used, err := LoadConfig(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, used)
	require.Empty(t, cfg.Extensions)
	require.False(t, cfg.IncludeScripts)
	require.Equal(t, outputJSON, cfg.Format)
	require.Equal(t, ":8080", cfg.Serve.Addr)
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv("QUAFF_FORMAT", "toml")
	t.Setenv("QUAFF_SERVE_ADDR", "127.0.0.1:7000")

	cfg, _, err := LoadConfig(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, "toml", cfg.Format)
	require.Equal(t, "127.0.0.1:7000", cfg.Serve.Addr)
}

func TestLoadConfigErrors(t *testing.T) {
	_, _, err := LoadConfig(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.True(t, errors.Is(err, errors.ErrCodeInvalidPath))

	t.Setenv("QUAFF_FORMAT", "xml")
	_, _, err = LoadConfig(context.Background(), "")
	require.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = LoadConfig(ctx, "")
	require.ErrorIs(t, err, context.Canceled)
}

func TestEncodeValue(t *testing.T) {
	v := map[string]any{"a": map[string]any{"b": "c"}}

	out, err := encodeValue(v, outputJSON)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"a\": {\n    \"b\": \"c\"\n  }\n}\n", string(out))

	out, err = encodeValue(v, outputYAML)
	require.NoError(t, err)
	require.Equal(t, "a:\n  b: c\n", string(out))

	out, err = encodeValue(v, outputTOML)
	require.NoError(t, err)
	require.Contains(t, string(out), "[a]")

	_, err = encodeValue([]any{1, 2}, outputTOML)
	require.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	_, err = encodeValue(v, "xml")
	require.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestKeyListModel(t *testing.T) {
	m := NewKeyListModel(map[string]any{
		"animals": map[string]any{"dogs": 2, "cats": 1},
		"site":    "quaff",
	})
	require.Len(t, m.Leaves, 3)
	require.Equal(t, "animals.cats", m.Leaves[0].Key.String())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(KeyListModel)
	require.Equal(t, 1, m.Cursor)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(KeyListModel)
	require.Equal(t, 0, m.Cursor)

	next, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	m = next.(KeyListModel)
	require.Equal(t, 5, m.Height)

	view := m.View()
	require.Contains(t, view, "Browse Keys")
	require.Contains(t, view, "animals.cats")
	require.Contains(t, view, "[1/3]")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(KeyListModel)
	require.NotNil(t, cmd)
	require.NotNil(t, m.Selected)
	require.Equal(t, 1, m.Selected.Value)
}

func TestKeyListModelEmpty(t *testing.T) {
	m := NewKeyListModel(map[string]any{})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Nil(t, cmd)
	require.Nil(t, next.(KeyListModel).Selected)
	require.Contains(t, m.View(), "no values loaded")
}

func TestDescribeValue(t *testing.T) {
	tests := []struct {
		v    any
		want string
	}{
		{nil, "null"},
		{map[string]any{"a": 1, "b": 2}, "object (2 keys)"},
		{[]any{1}, "list (1 items)"},
		{"dog", `"dog"`},
		{strings.Repeat("x", 50), `"` + strings.Repeat("x", 40) + `"…`},
		{3.5, "3.5"},
		{true, "true"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, describeValue(tt.v))
	}
}

func TestPreview(t *testing.T) {
	require.Equal(t, "{\n  \"a\": 1\n}", preview(map[string]any{"a": 1}, 10))

	long := make([]any, 20)
	got := preview(long, 3)
	require.Equal(t, "[\n  null,\n  null,\n…", got)
}

func TestDisplayAddr(t *testing.T) {
	require.Equal(t, "localhost:8080", displayAddr(":8080"))
	require.Equal(t, "127.0.0.1:9000", displayAddr("127.0.0.1:9000"))
	require.Equal(t, "", displayAddr(""))
}
