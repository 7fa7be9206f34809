// Package script evaluates Go source files as data sources.
//
// A script is a single Go file in any package that declares a package-level
// identifier named Default. Default may be a value, or a function that the
// format package calls to produce the value:
//
//	package pets
//
//	import "context"
//
//	func Default(ctx context.Context) (map[string]any, error) {
//	    return map[string]any{"count": 2}, nil
//	}
//
// Scripts run in a yaegi interpreter with the standard library available.
// Imports outside the standard library are rejected before evaluation.
package script

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path"
	"strconv"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/matzehuels/quaff/pkg/format"
)

// Extension is the file extension scripts are registered under.
const Extension = ".go"

// ExportName is the identifier read from every script.
const ExportName = "Default"

// Loader implements [format.ScriptLoader] for Go source files. Each call
// uses a fresh interpreter, so scripts cannot observe each other.
type Loader struct{}

// New returns a Loader.
func New() *Loader { return &Loader{} }

// Register adds the loader to a script table under [Extension] and returns
// the table, allocating it if needed.
func (l *Loader) Register(scripts map[string]format.ScriptLoader) map[string]format.ScriptLoader {
	if scripts == nil {
		scripts = make(map[string]format.ScriptLoader)
	}
	scripts[Extension] = l
	return scripts
}

// LoadScript interprets the file at p and returns the value of its Default
// identifier.
func (l *Loader) LoadScript(ctx context.Context, p string) (any, error) {
	//nolint:gosec // the script path is chosen by the caller.
	src, err := os.ReadFile(p)
	if err != nil {
		return nil, &format.ScriptError{Path: p, Err: err}
	}

	pkg, err := checkImports(p, src)
	if err != nil {
		return nil, &format.ScriptError{Path: p, Err: err}
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, &format.ScriptError{Path: p, Err: fmt.Errorf("load stdlib: %w", err)}
	}
	if _, err := i.EvalWithContext(ctx, string(src)); err != nil {
		return nil, &format.ScriptError{Path: p, Err: fmt.Errorf("evaluate: %w", err)}
	}

	v, err := i.EvalWithContext(ctx, pkg+"."+ExportName)
	if err != nil {
		return nil, &format.ScriptError{Path: p, Err: fmt.Errorf("no %s export: %w", ExportName, err)}
	}
	if !v.IsValid() {
		return nil, nil
	}
	return v.Interface(), nil
}

// checkImports parses the file header and returns the package name. Every
// import must be a standard library package the interpreter can provide.
func checkImports(p string, src []byte) (string, error) {
	f, err := parser.ParseFile(token.NewFileSet(), p, src, parser.ImportsOnly)
	if err != nil {
		return "", err
	}
	for _, imp := range f.Imports {
		ip, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			return "", err
		}
		if _, ok := stdlib.Symbols[ip+"/"+path.Base(ip)]; !ok {
			return "", fmt.Errorf("import %q is not available to scripts", ip)
		}
	}
	return f.Name.Name, nil
}
