// Package render turns dependent reports into terminal tables, markdown,
// JSON, Graphviz DOT and SVG.
//
// # Rows
//
// Every tabular format is built from [Rows], which flattens a report tree
// into display rows. The same [Options] apply at every level of the tree:
// excluded names are dropped first, then each level is truncated to
// Options.Number entries. Rows carry a dotted rank ("2.1" is the first
// dependent of the second top-level dependent) and their depth, which the
// table renderers use for indentation.
//
// # Formats
//
//   - ci: colored table for terminals ([Table])
//   - md: GitHub-flavored markdown table ([Markdown])
//   - json: the pruned report as a report file ([JSON])
//   - dot: Graphviz source ([DOT])
//   - svg: Graphviz-rendered image ([SVG])
//
// [Render] dispatches on the format name; [ParseFormat] validates user input.
package render
