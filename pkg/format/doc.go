// Package format decodes a single data file into a Go value, choosing the
// decoder by file extension.
//
// # Overview
//
// A [Dispatcher] maps extensions to decoders:
//
//	.json         JSON ([JSONDecoder])
//	.yaml, .yml   YAML ([YAMLDecoder])
//	.csv          comma separated records with a header row ([CSVDecoder])
//	.tsv          tab separated records with a header row ([CSVDecoder])
//	.toml         TOML ([TOMLDecoder])
//	.aml          ArchieML ([ArchieMLDecoder])
//
// Matching is exact and case-sensitive: "data.JSON" is not a JSON file.
//
// # Script Data Sources
//
// Files with a script extension (.js, .cjs, .mjs, plus any extension a
// [ScriptLoader] is registered for) are not read as text. The registered
// loader evaluates the module and returns its default export. When that
// export is a function taking no arguments, or only a [context.Context], it
// is called and its result used instead. A second error result, if present,
// fails the decode.
//
// The package does not bundle a JavaScript runtime. Without a loader for
// ".js", decoding a .js file fails with [errors.ErrCodeScriptUnavailable].
// The script package provides a loader that interprets Go source files.
//
// # Errors
//
// Decoding returns [*UnsupportedExtensionError] for unknown extensions and
// [*DecodeError] for malformed content; the latter wraps the parser's own
// error, so errors.As still reaches a *json.SyntaxError or a toml.ParseError.
// Errors returned by a script or its loader are passed through untouched.
//
// [errors.ErrCodeScriptUnavailable]: github.com/matzehuels/quaff/pkg/errors
package format
