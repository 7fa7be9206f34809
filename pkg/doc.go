// Package pkg provides the core libraries for quaff.
//
// # Overview
//
// quaff turns a directory of data files into one nested document, keyed by
// each file's path relative to the directory. The pkg directory is organized
// into these areas:
//
//  1. [quaff] - The directory aggregator (Load, LoadFile, Plan)
//  2. [format] - Extension dispatch and the declarative decoders
//  3. [script] - Go source files evaluated as data sources
//  4. [walk], [keypath] - Directory traversal and nested key paths
//  5. [render] - Graphviz views of the key hierarchy
//  6. [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Architecture
//
// The data flow of a directory load:
//
//	Directory tree
//	     ↓
//	[walk] package (regular files with a selected extension)
//	     ↓
//	[quaff] package (key path per file, duplicate and conflict checks)
//	     ↓
//	[format] package (decode or run the file)
//	     ↓
//	[keypath] package (store the value in the result)
//	     ↓
//	map[string]any
//
// # Quick Start
//
//	data, err := quaff.Load(ctx, "./data")
//	if err != nil {
//	    return err
//	}
//	mammals := data["animals"].(map[string]any)["mammals"]
package pkg
