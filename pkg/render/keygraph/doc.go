// Package keygraph renders the key hierarchy of a data directory as a
// Graphviz diagram.
//
// # Usage
//
// Plan a load, then convert the entries to DOT and render them:
//
//	plan, err := loader.Plan(ctx, "./data")
//	dot := keygraph.ToDOT("data", keygraph.FromPlan(plan), keygraph.Options{})
//	svg, err := keygraph.RenderSVG(dot)
//
// Each directory segment becomes a folder-shaped node and each file a box
// labeled with its final key segment. With [Options].Detailed set, file
// boxes also show the decoding format and source path.
//
// For PDF or PNG output, use [RenderPDF] or [RenderPNG], which need
// rsvg-convert from librsvg on the PATH.
package keygraph
