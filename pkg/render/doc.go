// Package render converts rendered diagrams between output formats.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := keygraph.RenderSVG(dot)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
//
// # Key Graphs
//
// The [keygraph] subpackage draws the key hierarchy of a data directory as a
// Graphviz diagram: directories become folders, files become boxes.
//
// [keygraph]: github.com/matzehuels/quaff/pkg/render/keygraph
package render
