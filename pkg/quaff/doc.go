// Package quaff loads a directory of data files into one nested map.
//
// Every file below the root whose extension has a decoder becomes a value
// in the result. Its key path is the file's directory segments relative to
// the root followed by the file name without extension:
//
//	data/
//	  animals/
//	    mammals.json   ["corgi"]
//	    birds.yaml     ["puffin"]
//	  site.toml        title = "Pets"
//
// loads as
//
//	map[string]any{
//	    "animals": map[string]any{"mammals": []any{"corgi"}, "birds": []any{"puffin"}},
//	    "site":    map[string]any{"title": "Pets"},
//	}
//
// # Collisions
//
// Two files may not claim the same key path. "mammals.json" next to
// "mammals.yaml" fails the load with a [*DuplicateKeyError]. A file whose key
// path is a prefix of another's ("animals.json" next to "animals/") fails
// with a [*KeyConflictError], since one map entry cannot hold both a value and
// a sub-tree. Nothing is merged. Callers that handle [*DuplicateKeyError]
// should handle [*KeyConflictError] as well, or match both through
// errors.GetCode (DUPLICATE_KEY and KEY_CONFLICT).
//
// A file named only by an extension (".json") has no key and fails the load
// with a [*format.UnsupportedExtensionError]. A symbolic link given as the
// root is followed; links inside the tree are not.
//
// # Usage
//
//	data, err := quaff.Load(ctx, "./data")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Use [New] to attach a logger, restrict extensions or enable script data
// sources:
//
//	l := quaff.New(quaff.Options{
//	    Logger:         logger,
//	    IncludeScripts: true,
//	    Scripts:        script.New().Register(nil),
//	})
//	data, err := l.Load(ctx, "./data")
//
// Loads run sequentially and stop at the first error; a failed load returns
// a nil map. A [Loader] keeps no per-load state and may be shared.
package quaff
