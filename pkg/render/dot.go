package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dependents/pkg/dependents"
)

// DOT converts a report to Graphviz DOT format. The target package is the
// single root and every edge points from a package to one of its
// dependents. Nodes are keyed by their rank, so a package that appears in
// several subtrees is drawn once per occurrence.
func DOT(r *dependents.Report, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	root := r.Package.Name + "@" + r.Package.Version
	fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightblue];\n", "root", root)
	writeDOT(&buf, r.Dependents, opts, "root", "")

	buf.WriteString("}\n")
	return buf.String()
}

func writeDOT(buf *bytes.Buffer, nodes []*dependents.Node, opts Options, parent, prefix string) {
	for i, n := range visible(nodes, opts) {
		id := prefix + strconv.Itoa(i+1)
		fmt.Fprintf(buf, "  %q [%s];\n", id, dotAttrs(n))
		fmt.Fprintf(buf, "  %q -> %q;\n", parent, id)
		writeDOT(buf, n.Children, opts, id, id+".")
	}
}

func dotAttrs(n *dependents.Node) string {
	label := n.Name + "\n" + humanize.Comma(n.Downloads) + " downloads"
	attrs := fmt.Sprintf("label=%q", label)
	if n.Dev {
		attrs += ", style=\"rounded,filled,dashed\", fillcolor=lightgrey"
	}
	return attrs
}

// SVG renders a DOT graph to SVG using Graphviz.
func SVG(dot string) ([]byte, error) {
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

// normalizeViewBox replaces Graphviz's point-based svg header with one that
// scales to its container.
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

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
