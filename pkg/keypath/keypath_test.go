package keypath

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromRel(t *testing.T) {
	tests := []struct {
		rel  string
		want Path
	}{
		{"corgis.json", Path{"corgis"}},
		{"animals/mammals.json", Path{"animals", "mammals"}},
		{"a/b/c/d.toml", Path{"a", "b", "c", "d"}},
		{"./animals//birds.yaml", Path{"animals", "birds"}},
		{"archive.tar.csv", Path{"archive.tar"}},
		{".json", Path{""}},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			got := FromRel(filepath.FromSlash(tt.rel))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FromRel(%q) mismatch (-want +got):\n%s", tt.rel, diff)
			}
		})
	}
}

func TestString(t *testing.T) {
	if got := (Path{"a", "cats"}).String(); got != "a.cats" {
		t.Errorf("String() = %q, want %q", got, "a.cats")
	}
	if got := Parse("a.cats"); !cmp.Equal(got, Path{"a", "cats"}) {
		t.Errorf("Parse() = %v, want [a cats]", got)
	}
	if got := Parse(""); got != nil {
		t.Errorf("Parse(\"\") = %v, want nil", got)
	}
}

func TestHasPrefix(t *testing.T) {
	tests := []struct {
		p, q Path
		want bool
	}{
		{Path{"a", "b"}, Path{"a"}, true},
		{Path{"a"}, Path{"a"}, false},
		{Path{"a"}, Path{"a", "b"}, false},
		{Path{"ab", "c"}, Path{"a"}, false},
		{Path{"a"}, Path{}, true},
	}
	for _, tt := range tests {
		if got := tt.p.HasPrefix(tt.q); got != tt.want {
			t.Errorf("%v.HasPrefix(%v) = %v, want %v", tt.p, tt.q, got, tt.want)
		}
	}
}

func TestSet(t *testing.T) {
	m := map[string]any{}
	steps := []struct {
		path Path
		v    any
	}{
		{Path{"animals", "mammals"}, []any{"corgi"}},
		{Path{"animals", "birds"}, []any{"puffin"}},
		{Path{"top"}, 1},
		{Path{"a", "b", "c"}, "deep"},
	}
	for _, s := range steps {
		if err := Set(m, s.path, s.v); err != nil {
			t.Fatalf("Set(%v) error: %v", s.path, err)
		}
	}

	want := map[string]any{
		"animals": map[string]any{
			"mammals": []any{"corgi"},
			"birds":   []any{"puffin"},
		},
		"top": 1,
		"a":   map[string]any{"b": map[string]any{"c": "deep"}},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("Set() mismatch (-want +got):\n%s", diff)
	}
}

func TestSetErrors(t *testing.T) {
	m := map[string]any{"a": "leaf"}
	if err := Set(m, Path{"a", "b"}, 1); err == nil {
		t.Error("Set() through a non-map value: expected error, got nil")
	}
	if err := Set(m, nil, 1); err == nil {
		t.Error("Set() with empty path: expected error, got nil")
	}
}

func TestGet(t *testing.T) {
	m := map[string]any{
		"animals": map[string]any{"mammals": []any{"corgi"}},
		"nil":     nil,
	}

	tests := []struct {
		path   Path
		want   any
		wantOK bool
	}{
		{Path{"animals", "mammals"}, []any{"corgi"}, true},
		{Path{"animals"}, map[string]any{"mammals": []any{"corgi"}}, true},
		{nil, m, true},
		{Path{"nil"}, nil, true},
		{Path{"animals", "birds"}, nil, false},
		{Path{"animals", "mammals", "0"}, nil, false},
	}
	for _, tt := range tests {
		got, ok := Get(m, tt.path)
		if ok != tt.wantOK {
			t.Errorf("Get(%v) ok = %v, want %v", tt.path, ok, tt.wantOK)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("Get(%v) mismatch (-want +got):\n%s", tt.path, diff)
		}
	}
}

func TestLeaves(t *testing.T) {
	m := map[string]any{
		"b": map[string]any{"y": 2, "x": 1},
		"a": []any{1},
		"c": map[string]any{},
	}

	var got []string
	for p := range Leaves(m) {
		got = append(got, p.String())
	}
	want := []string{"a", "b.x", "b.y", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Leaves() mismatch (-want +got):\n%s", diff)
	}
}
