// Package walk enumerates data files under a directory.
package walk

import (
	"io/fs"
	"iter"
	"path/filepath"
	"slices"
)

// File describes one regular file found by [Files].
type File struct {
	// Path is the file path as walked: root joined with Rel.
	Path string
	// Rel is the path relative to the walk root, using the OS separator.
	Rel string
	// Ext is the extension including the leading dot, in its original case.
	Ext string
}

// Files returns a lazy sequence of the regular files below root whose
// extension is exactly one of exts. Files are yielded in lexical order,
// directory by directory, as [filepath.WalkDir] visits them. A symbolic link
// at root is resolved; links below it are not followed.
//
// The first walk error is yielded with a zero File and ends the sequence.
// Each range over the sequence walks the tree again.
func Files(root string, exts []string) iter.Seq2[File, error] {
	return func(yield func(File, error) bool) {
		resolved, err := filepath.EvalSymlinks(root)
		if err != nil {
			yield(File{}, err)
			return
		}

		err = filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.Type().IsRegular() {
				return nil
			}
			ext := filepath.Ext(path)
			if !slices.Contains(exts, ext) {
				return nil
			}
			rel, err := filepath.Rel(resolved, path)
			if err != nil {
				return err
			}
			if !yield(File{Path: filepath.Join(root, rel), Rel: rel, Ext: ext}, nil) {
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			yield(File{}, err)
		}
	}
}
