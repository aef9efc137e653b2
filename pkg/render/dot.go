package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/shapereach/pkg/derive"
)

// Options configures chart generation.
type Options struct {
	// Detailed draws every shape with one layer per line, top layer first.
	// When false, nodes show the plain shape code.
	Detailed bool
}

var verdictColors = map[derive.Verdict]string{
	derive.VerdictInvalidQuadrant: "mistyrose",
	derive.VerdictSeparable:       "honeydew",
	derive.VerdictDerived:         "lightblue",
	derive.VerdictDecomposed:      "lightyellow",
	derive.VerdictNotCreatable:    "mistyrose",
}

// ToDOT converts a derivation to Graphviz DOT. Results without steps render
// as a single node carrying the verdict.
func ToDOT(res *derive.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"monospace\", fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontname=\"monospace\", fontsize=12];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("\n")

	if len(res.Steps) == 0 {
		label := fmtLabel(res.Input, opts.Detailed) + "\n" + verdictNote(res)
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%s];\n", res.Input, label, verdictColors[res.Verdict])
		buf.WriteString("}\n")
		return buf.String()
	}

	fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,dashed\", fillcolor=honeydew];\n",
		res.Base, fmtLabel(res.Base, opts.Detailed))
	last := res.Steps[len(res.Steps)-1].Shape
	for _, s := range res.Steps {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(s.Shape, opts.Detailed))}
		if s.Shape == last {
			attrs = append(attrs, "fillcolor="+verdictColors[res.Verdict], "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", s.Shape, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, s := range res.Steps {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", s.From, s.Shape, edgeLabel(s))
	}
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(code string, detailed bool) string {
	if code == "" {
		return "(empty)"
	}
	if !detailed {
		return code
	}
	layers := strings.Split(code, ":")
	for i, j := 0, len(layers)-1; i < j; i, j = i+1, j-1 {
		layers[i], layers[j] = layers[j], layers[i]
	}
	return strings.Join(layers, "\n")
}

func edgeLabel(s derive.Step) string {
	switch s.Op {
	case derive.OpPin:
		return "pin"
	case derive.OpStack:
		label := "stack " + s.With
		if s.Method != nil {
			label = fmt.Sprintf("stack #%d %s", uint64(*s.Method), s.With)
		}
		if s.Rotation != 0 {
			label += fmt.Sprintf(" (rot %d)", s.Rotation)
		}
		return label
	default:
		return "layer " + s.With
	}
}

func verdictNote(res *derive.Result) string {
	if res.Verdict == derive.VerdictSeparable {
		return fmt.Sprintf("separable (axis %d)", res.Axis)
	}
	return strings.ReplaceAll(string(res.Verdict), "_", " ")
}

// RenderSVG renders DOT source to SVG.
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

// normalizeViewBox replaces graphviz's point-sized svg tag with one whose
// width and height match the viewBox, so browsers scale the chart.
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
	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
