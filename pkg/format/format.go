package format

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"github.com/matzehuels/quaff/pkg/errors"
)

// DeclarativeExtensions are the extensions decoded from text, in the order
// they are documented. Directory loads pick up these files by default.
var DeclarativeExtensions = []string{".json", ".yaml", ".yml", ".csv", ".tsv", ".toml", ".aml"}

// ScriptExtensions are always routed to the script branch, whether or not a
// loader is registered for them.
var ScriptExtensions = []string{".js", ".cjs", ".mjs"}

// ScriptFormat is the format name reported for script data sources.
const ScriptFormat = "script"

// Decoder turns the raw contents of one file into a value.
type Decoder interface {
	// Name returns the format identifier (e.g., "json", "toml").
	Name() string
	// Extensions lists the file extensions, with leading dot, this decoder handles.
	Extensions() []string
	// Decode parses data.
	Decode(data []byte) (any, error)
}

// ScriptLoader evaluates an executable data source and returns its default
// export, which may be a plain value or a function producing one.
type ScriptLoader interface {
	LoadScript(ctx context.Context, path string) (any, error)
}

// FileReader reads whole files. It allows serving fixtures from memory in
// tests; fstest.MapFS satisfies it.
type FileReader interface {
	ReadFile(name string) ([]byte, error)
}

// OSFileReader reads files from the local filesystem.
type OSFileReader struct{}

// ReadFile reads the named file.
func (OSFileReader) ReadFile(name string) ([]byte, error) {
	//nolint:gosec // reading caller-selected data files is the point.
	return os.ReadFile(name)
}

// Options configures a [Dispatcher].
type Options struct {
	// Decoders replaces the default declarative decoders when non-nil.
	Decoders []Decoder
	// Scripts maps an extension (".js", ".go", ...) to the loader for it.
	Scripts map[string]ScriptLoader
	// Reader reads declarative files. Defaults to [OSFileReader].
	Reader FileReader
}

// Format describes one entry of a dispatcher's extension table.
type Format struct {
	Name       string
	Extensions []string
	Script     bool
}

// Dispatcher selects and runs the decoder for a file. It holds no per-call
// state and is safe for concurrent use if its decoders and loaders are.
type Dispatcher struct {
	decoders map[string]Decoder
	order    []Decoder
	scripts  map[string]ScriptLoader
	reader   FileReader
}

// DefaultDecoders returns the decoders for every declarative extension.
func DefaultDecoders() []Decoder {
	return []Decoder{
		JSONDecoder{},
		YAMLDecoder{},
		CSVDecoder{Comma: ','},
		CSVDecoder{Comma: '\t'},
		TOMLDecoder{},
		ArchieMLDecoder{},
	}
}

// New creates a Dispatcher from opts.
func New(opts Options) *Dispatcher {
	decs := opts.Decoders
	if decs == nil {
		decs = DefaultDecoders()
	}
	reader := opts.Reader
	if reader == nil {
		reader = OSFileReader{}
	}

	d := &Dispatcher{
		decoders: make(map[string]Decoder),
		order:    decs,
		scripts:  make(map[string]ScriptLoader, len(opts.Scripts)),
		reader:   reader,
	}
	for _, dec := range decs {
		for _, ext := range dec.Extensions() {
			d.decoders[ext] = dec
		}
	}
	for ext, l := range opts.Scripts {
		if l != nil {
			d.scripts[ext] = l
		}
	}
	return d
}

// IsScript reports whether files with extension ext are executed rather
// than parsed.
func (d *Dispatcher) IsScript(ext string) bool {
	if _, ok := d.scripts[ext]; ok {
		return true
	}
	return slices.Contains(ScriptExtensions, ext)
}

// Supports reports whether ext has a declarative decoder or is a script
// extension.
func (d *Dispatcher) Supports(ext string) bool {
	_, ok := d.decoders[ext]
	return ok || d.IsScript(ext)
}

// FormatName returns the format that handles ext, or "" if none does.
func (d *Dispatcher) FormatName(ext string) string {
	if d.IsScript(ext) {
		return ScriptFormat
	}
	if dec, ok := d.decoders[ext]; ok {
		return dec.Name()
	}
	return ""
}

// Extensions returns the declarative extensions in registration order.
func (d *Dispatcher) Extensions() []string {
	var exts []string
	for _, dec := range d.order {
		exts = append(exts, dec.Extensions()...)
	}
	return exts
}

// ScriptExtensions returns every extension routed to the script branch,
// sorted.
func (d *Dispatcher) ScriptExtensions() []string {
	exts := slices.Clone(ScriptExtensions)
	for ext := range d.scripts {
		if !slices.Contains(exts, ext) {
			exts = append(exts, ext)
		}
	}
	slices.Sort(exts)
	return exts
}

// Formats describes every supported format, declarative ones first.
func (d *Dispatcher) Formats() []Format {
	out := make([]Format, 0, len(d.order)+1)
	for _, dec := range d.order {
		out = append(out, Format{Name: dec.Name(), Extensions: dec.Extensions()})
	}
	return append(out, Format{Name: ScriptFormat, Extensions: d.ScriptExtensions(), Script: true})
}

// Decode loads the file at path and returns its decoded value.
//
// Declarative files are read in full and handed to their decoder. Script
// files are passed to the registered [ScriptLoader]; see the package
// documentation for how callable exports are resolved.
func (d *Dispatcher) Decode(ctx context.Context, path string) (any, error) {
	ext := filepath.Ext(path)
	if d.IsScript(ext) {
		return d.runScript(ctx, path, ext)
	}

	dec, ok := d.decoders[ext]
	if !ok {
		return nil, &UnsupportedExtensionError{Path: path, Ext: ext}
	}

	data, err := d.reader.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", path)
	}
	return decodeWith(dec, path, ext, data)
}

// DecodeBytes decodes contents that were already read from path. Only the
// extension of path is used. Script extensions are rejected because their
// value cannot be obtained from text.
func (d *Dispatcher) DecodeBytes(path string, data []byte) (any, error) {
	ext := filepath.Ext(path)
	dec, ok := d.decoders[ext]
	if !ok || d.IsScript(ext) {
		return nil, &UnsupportedExtensionError{Path: path, Ext: ext}
	}
	return decodeWith(dec, path, ext, data)
}

func decodeWith(dec Decoder, path, ext string, data []byte) (any, error) {
	v, err := dec.Decode(data)
	if err != nil {
		return nil, &DecodeError{Path: path, Ext: ext, Format: dec.Name(), Err: err}
	}
	return v, nil
}

func (d *Dispatcher) runScript(ctx context.Context, path, ext string) (any, error) {
	loader, ok := d.scripts[ext]
	if !ok {
		return nil, errors.New(errors.ErrCodeScriptUnavailable,
			"no script loader registered for %q extension (%s)", ext, path)
	}

	exported, err := loader.LoadScript(ctx, path)
	if err != nil {
		return nil, err
	}
	return callDefault(ctx, path, exported)
}
