package script

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/quaff/pkg/errors"
	"github.com/matzehuels/quaff/pkg/format"
)

func newDispatcher() *format.Dispatcher {
	return format.New(format.Options{Scripts: New().Register(nil)})
}

func TestLoadScript(t *testing.T) {
	tests := []struct {
		name string
		path string
		want any
	}{
		{
			name: "value export",
			path: "testdata/value.go",
			want: map[string]any{"name": "Corgi", "legs": 4},
		},
		{
			name: "function export",
			path: "testdata/sync.go",
			want: []string{"corgi", "malamute"},
		},
		{
			name: "context function export",
			path: "testdata/async.go",
			want: map[string]any{"count": 2},
		},
	}

	d := newDispatcher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Decode(context.Background(), tt.path)
			if err != nil {
				t.Fatalf("Decode(%q) error: %v", tt.path, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode(%q) mismatch (-want +got):\n%s", tt.path, diff)
			}
		})
	}
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		wantCode errors.Code
		wantMsg  string
	}{
		{name: "returned error", path: "testdata/fails.go", wantMsg: "no pets today"},
		{name: "missing export", path: "testdata/noexport.go", wantCode: errors.ErrCodeScriptFailed, wantMsg: "no Default export"},
		{name: "foreign import", path: "testdata/badimport.go", wantCode: errors.ErrCodeScriptFailed, wantMsg: "github.com/example/pets"},
		{name: "syntax error", path: "testdata/syntax.go", wantCode: errors.ErrCodeScriptFailed},
		{name: "missing file", path: "testdata/missing.go", wantCode: errors.ErrCodeScriptFailed},
	}

	d := newDispatcher()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.Decode(context.Background(), tt.path)
			if err == nil {
				t.Fatalf("Decode(%q) = %v, want error", tt.path, got)
			}
			if code := errors.GetCode(err); code != tt.wantCode {
				t.Errorf("GetCode() = %q, want %q (err: %v)", code, tt.wantCode, err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	l := New()
	scripts := l.Register(map[string]format.ScriptLoader{})
	if scripts[Extension] != l {
		t.Errorf("Register() did not add loader under %q", Extension)
	}
	if !format.New(format.Options{Scripts: scripts}).IsScript(".go") {
		t.Error("IsScript(.go) = false after Register")
	}
}
