// Package keypath derives nested map keys from file paths and reads and
// writes values at those keys.
package keypath

import (
	"fmt"
	"iter"
	"path/filepath"
	"slices"
	"strings"
)

// Sep joins segments in the string form of a [Path].
const Sep = "."

// Path is an ordered list of map keys from the root of an aggregate down to
// one value.
type Path []string

// FromRel derives the Path of a file from its path relative to the load
// root: every non-empty directory segment, then the base name without its
// extension. The final segment is empty when the base name is only an
// extension (".json").
func FromRel(rel string) Path {
	dir, base := filepath.Split(filepath.Clean(rel))
	var p Path
	for _, seg := range strings.Split(filepath.ToSlash(dir), "/") {
		if seg != "" && seg != "." {
			p = append(p, seg)
		}
	}
	return append(p, strings.TrimSuffix(base, filepath.Ext(base)))
}

// Parse splits a dotted identity back into a Path. It is the inverse of
// String only when no segment contains [Sep].
func Parse(s string) Path {
	if s == "" {
		return nil
	}
	return strings.Split(s, Sep)
}

// String joins the segments with [Sep]. Two files collide when their paths
// have the same string form.
func (p Path) String() string {
	return strings.Join(p, Sep)
}

// HasPrefix reports whether q is a proper prefix of p.
func (p Path) HasPrefix(q Path) bool {
	return len(q) < len(p) && slices.Equal(p[:len(q)], q)
}

// Set stores v in m at p, creating intermediate maps as needed. An
// intermediate key that already holds a non-map value is an error.
func Set(m map[string]any, p Path, v any) error {
	if len(p) == 0 {
		return fmt.Errorf("set: empty key path")
	}
	cur := m
	for i, seg := range p[:len(p)-1] {
		switch next := cur[seg].(type) {
		case map[string]any:
			cur = next
		case nil:
			child := make(map[string]any)
			cur[seg] = child
			cur = child
		default:
			return fmt.Errorf("set %s: %s holds a %T, not a map", p, p[:i+1], next)
		}
	}
	cur[p[len(p)-1]] = v
	return nil
}

// Get returns the value at p. An empty path returns m itself.
func Get(m map[string]any, p Path) (any, bool) {
	var cur any = m
	for _, seg := range p {
		node, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = node[seg]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Leaves yields every non-map value in m with its path, visiting keys in
// sorted order. Empty maps are yielded as leaves.
func Leaves(m map[string]any) iter.Seq2[Path, any] {
	return func(yield func(Path, any) bool) {
		leaves(m, nil, yield)
	}
}

func leaves(m map[string]any, prefix Path, yield func(Path, any) bool) bool {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		p := append(slices.Clip(prefix), k)
		if child, ok := m[k].(map[string]any); ok && len(child) > 0 {
			if !leaves(child, p, yield) {
				return false
			}
			continue
		}
		if !yield(p, m[k]) {
			return false
		}
	}
	return true
}
