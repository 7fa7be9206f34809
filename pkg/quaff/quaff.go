package quaff

import (
	"context"
	"io"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/quaff/pkg/errors"
	"github.com/matzehuels/quaff/pkg/format"
	"github.com/matzehuels/quaff/pkg/keypath"
	"github.com/matzehuels/quaff/pkg/observability"
	"github.com/matzehuels/quaff/pkg/walk"
)

// Options configures a [Loader]. The zero value loads every declarative
// format and logs nothing.
type Options struct {
	// Logger receives one debug line per file and per load. Defaults to a
	// logger that discards output.
	Logger *log.Logger

	// Extensions restricts which files a directory load picks up. Empty
	// means [format.DeclarativeExtensions]. Extensions without a decoder are
	// still walked and fail the load when found.
	Extensions []string

	// IncludeScripts adds every script extension to the walked set.
	IncludeScripts bool

	// Scripts registers script loaders by extension.
	Scripts map[string]format.ScriptLoader

	// Decoders replaces the default declarative decoders when non-nil.
	Decoders []format.Decoder
}

// Entry is one file of a planned load.
type Entry struct {
	Key    keypath.Path
	File   walk.File
	Format string
}

// Loader loads files and directories.
type Loader struct {
	dispatcher *format.Dispatcher
	exts       []string
	logger     *log.Logger
}

// New creates a Loader from opts.
func New(opts Options) *Loader {
	d := format.New(format.Options{Decoders: opts.Decoders, Scripts: opts.Scripts})

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = format.DeclarativeExtensions
	}
	exts = slices.Clone(exts)
	if opts.IncludeScripts {
		for _, ext := range d.ScriptExtensions() {
			if !slices.Contains(exts, ext) {
				exts = append(exts, ext)
			}
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{dispatcher: d, exts: exts, logger: logger}
}

var defaultLoader = New(Options{})

// LoadFile decodes a single file with the default loader.
func LoadFile(ctx context.Context, path string) (any, error) {
	return defaultLoader.LoadFile(ctx, path)
}

// Load loads a directory with the default loader.
func Load(ctx context.Context, root string) (map[string]any, error) {
	return defaultLoader.Load(ctx, root)
}

// Dispatcher returns the format dispatcher backing l.
func (l *Loader) Dispatcher() *format.Dispatcher { return l.dispatcher }

// Extensions returns the extensions a directory load walks.
func (l *Loader) Extensions() []string { return slices.Clone(l.exts) }

// LoadFile decodes the file at path, choosing the decoder by extension.
func (l *Loader) LoadFile(ctx context.Context, path string) (any, error) {
	return l.dispatcher.Decode(ctx, path)
}

// Load walks root and returns the decoded value of every matching file,
// nested by key path. On any error it returns nil and the error.
func (l *Loader) Load(ctx context.Context, root string) (_ map[string]any, err error) {
	root = filepath.Clean(root)
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	start := time.Now()
	var files int
	observability.Load().OnLoadStart(ctx, root)
	defer func() {
		observability.Load().OnLoadComplete(ctx, root, files, time.Since(start), err)
	}()

	out := make(map[string]any)
	for e, err := range l.entries(ctx, root) {
		if err != nil {
			return nil, err
		}

		fileStart := time.Now()
		v, err := l.dispatcher.Decode(ctx, e.File.Path)
		observability.Load().OnFileDecoded(ctx, e.Key.String(), e.File.Path, e.Format, time.Since(fileStart), err)
		if err != nil {
			return nil, err
		}
		if err := keypath.Set(out, e.Key, v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "insert %s", e.File.Path)
		}
		files++
		l.logger.Debug("loaded file", "key", e.Key.String(), "path", e.File.Path, "format", e.Format)
	}

	l.logger.Debug("loaded directory", "root", root, "files", files, "duration", time.Since(start).Round(time.Millisecond))
	return out, nil
}

// Plan walks root and returns the entries Load would decode, in order,
// without reading any file. It fails on the same key collisions Load does.
func (l *Loader) Plan(ctx context.Context, root string) ([]Entry, error) {
	root = filepath.Clean(root)
	if err := checkRoot(root); err != nil {
		return nil, err
	}

	var plan []Entry
	for e, err := range l.entries(ctx, root) {
		if err != nil {
			return nil, err
		}
		plan = append(plan, e)
	}
	return plan, nil
}

// entries yields each walked file with its key path, checking for
// collisions against every file yielded before it.
func (l *Loader) entries(ctx context.Context, root string) iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		c := newClaims()
		for f, err := range walk.Files(root, l.exts) {
			if err != nil {
				yield(Entry{}, errors.Wrap(errors.ErrCodeInvalidPath, err, "walk %s", root))
				return
			}
			if err := ctx.Err(); err != nil {
				yield(Entry{}, err)
				return
			}

			// A base name that is only an extension (".json") has no
			// extension of its own and no key.
			key := keypath.FromRel(f.Rel)
			if key[len(key)-1] == "" {
				yield(Entry{}, &format.UnsupportedExtensionError{Path: f.Path})
				return
			}

			if err := c.claim(key, f.Path); err != nil {
				yield(Entry{}, err)
				return
			}
			if !yield(Entry{Key: key, File: f, Format: l.dispatcher.FormatName(f.Ext)}, nil) {
				return
			}
		}
	}
}

type claimant struct {
	key  keypath.Path
	path string
}

// claims tracks the key paths taken during one load. Duplicates are found
// by dotted identity; nesting conflicts by exact segments.
type claims struct {
	ids     map[string]string   // dotted identity -> file
	leaves  map[string]claimant // segments -> file stored there
	parents map[string]claimant // proper prefix segments -> first file below it
}

func newClaims() *claims {
	return &claims{
		ids:     make(map[string]string),
		leaves:  make(map[string]claimant),
		parents: make(map[string]claimant),
	}
}

func segments(p keypath.Path) string { return strings.Join(p, "\x00") }

func (c *claims) claim(key keypath.Path, path string) error {
	id := key.String()
	if prev, ok := c.ids[id]; ok {
		return &DuplicateKeyError{Key: id, First: prev, Path: path}
	}
	if below, ok := c.parents[segments(key)]; ok {
		return &KeyConflictError{Key: key, File: path, Nested: below.key, NestedIn: below.path}
	}
	for i := 1; i < len(key); i++ {
		if above, ok := c.leaves[segments(key[:i])]; ok {
			return &KeyConflictError{Key: above.key, File: above.path, Nested: key, NestedIn: path}
		}
	}

	c.ids[id] = path
	c.leaves[segments(key)] = claimant{key: key, path: path}
	for i := 1; i < len(key); i++ {
		if _, ok := c.parents[segments(key[:i])]; !ok {
			c.parents[segments(key[:i])] = claimant{key: key, path: path}
		}
	}
	return nil
}

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "load %s", root)
	}
	if !info.IsDir() {
		return errors.New(errors.ErrCodeInvalidPath, "load %s: not a directory", root)
	}
	return nil
}
