// Package archieml decodes ArchieML, the plain-text markup for structured data
// written by humans.
//
// # Grammar
//
// The decoder understands the commands used by most ArchieML documents:
//
//   - key: value            assigns a string; dotted keys create nested objects
//   - :end                  extends the previous value across several lines
//   - {scope} ... {}        opens and closes an object scope
//   - [array] ... []        opens an array of objects or, with "* item" lines,
//     an array of strings
//   - [+freeform] ... []    opens an array where text lines become
//     {"type": "text", "value": ...} and key lines become {"type": key, "value": ...}
//   - {.nested} / [.nested] opens a scope relative to the current one
//   - :skip / :endskip      ignores everything in between
//   - :ignore               stops parsing
//
// Text that is not a command is ignored unless it belongs to a multi-line
// value or a freeform array. Backslashes at the start of a line inside a
// multi-line value escape lines that would otherwise be read as commands.
//
// # Output
//
// [Unmarshal] returns a map[string]any whose leaves are strings, whose objects
// are map[string]any and whose arrays are []any. The shape matches the
// reference ArchieML parser, so documents round-trip through JSON tooling
// unchanged.
package archieml
