package keygraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/quaff/pkg/format"
	"github.com/matzehuels/quaff/pkg/keypath"
	"github.com/matzehuels/quaff/pkg/quaff"
	"github.com/matzehuels/quaff/pkg/render"
)

// Options configures key graph rendering.
type Options struct {
	// Detailed adds the format and source file to file labels.
	// When false, only the final key segment is shown.
	Detailed bool
}

// Leaf is one file in the key hierarchy.
type Leaf struct {
	Key    keypath.Path
	File   string
	Format string
}

// FromPlan converts planned load entries to leaves.
func FromPlan(plan []quaff.Entry) []Leaf {
	leaves := make([]Leaf, len(plan))
	for i, e := range plan {
		leaves[i] = Leaf{Key: e.Key, File: e.File.Rel, Format: e.Format}
	}
	return leaves
}

// ToDOT converts leaves to Graphviz DOT source rooted at a node labeled
// root. Intermediate key segments are emitted once, in first-seen order.
func ToDOT(root string, leaves []Leaf, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, shape=folder, fillcolor=lightgrey];\n", nodeID(nil), root)

	var edges []string
	dirs := map[string]bool{}
	for _, l := range leaves {
		for i := 1; i < len(l.Key); i++ {
			id := nodeID(l.Key[:i])
			if dirs[id] {
				continue
			}
			dirs[id] = true
			fmt.Fprintf(&buf, "  %q [label=%q, shape=folder, fillcolor=lightgrey];\n", id, l.Key[i-1])
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", nodeID(l.Key[:i-1]), id))
		}
		id := nodeID(l.Key)
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(fmtAttrs(l, opts.Detailed), ", "))
		edges = append(edges, fmt.Sprintf("  %q -> %q;\n", nodeID(l.Key[:len(l.Key)-1]), id))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeID joins segments with "/" since segments may contain dots.
func nodeID(p keypath.Path) string {
	return "/" + strings.Join(p, "/")
}

func fmtLabel(l Leaf, detailed bool) string {
	name := l.Key[len(l.Key)-1]
	if !detailed {
		return name
	}
	return name + "\nformat: " + l.Format + "\nfile: " + l.File
}

func fmtAttrs(l Leaf, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(l, detailed))}
	if l.Format == format.ScriptFormat {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightyellow")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion at the given scale.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
