package dot

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/matzehuels/erdot/pkg/er"
)

// Options configures DOT generation.
type Options struct {
	// Styled projects the diagram's formatting options into the output.
	// When false, only names, fields and cardinalities are emitted.
	Styled bool
}

// ToDOT converts a diagram to Graphviz DOT source. Entities and relations are
// emitted in declaration order, so equal diagrams give identical output.
// Duplicate entity names share one node ID; Graphviz keeps the last label.
func ToDOT(d *er.Diagram, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	if opts.Styled {
		writeTitle(&buf, d.Title)
	}
	buf.WriteString("  node [shape=plaintext];\n")

	if len(d.Entities) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range d.Entities {
		writeEntity(&buf, d, e, opts.Styled)
	}

	if len(d.Relations) > 0 {
		buf.WriteString("\n")
	}
	for _, r := range d.Relations {
		attrs := []string{
			"taillabel=" + quoteID(r.Card1.String()),
			"headlabel=" + quoteID(r.Card2.String()),
		}
		if opts.Styled {
			attrs = append(attrs, edgeStyle(d.RelationStyle(r))...)
		}
		fmt.Fprintf(&buf, "  %s -> %s [%s];\n", quoteID(r.Entity1), quoteID(r.Entity2), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func writeTitle(buf *bytes.Buffer, title er.Options) {
	label, ok := title["label"]
	if !ok {
		return
	}
	fmt.Fprintf(buf, "  label=%s;\n", quoteID(label.String()))
	buf.WriteString("  labelloc=t;\n")
	for _, attr := range fontAttrs(title) {
		fmt.Fprintf(buf, "  %s;\n", attr)
	}
}

func writeEntity(buf *bytes.Buffer, d *er.Diagram, e er.Entity, styled bool) {
	fmt.Fprintf(buf, "  %s [label=<\n", quoteID(e.Name))
	if !styled {
		buf.WriteString("    <TABLE BORDER=\"0\" CELLBORDER=\"1\" CELLSPACING=\"0\">\n")
		fmt.Fprintf(buf, "      <TR><TD><B>%s</B></TD></TR>\n", html.EscapeString(e.Name))
		for _, a := range e.Attributes {
			fmt.Fprintf(buf, "      <TR><TD>%s</TD></TR>\n", html.EscapeString(a.Field))
		}
		buf.WriteString("    </TABLE>\n  >];\n")
		return
	}

	style := d.EntityStyle(e)
	fmt.Fprintf(buf, "    <TABLE%s>\n", htmlAttrs(style, tableAttrs))

	header := er.Merge(e.HeaderOptions, style)
	name := e.Name
	if label, ok := e.Options["label"]; ok {
		name = label.String()
	}
	fmt.Fprintf(buf, "      <TR><TD%s>%s</TD></TR>\n",
		htmlAttrs(e.HeaderOptions, cellAttrs),
		wrapFont(header, "<B>"+html.EscapeString(name)+"</B>"))

	for _, a := range e.Attributes {
		attrStyle := d.AttributeStyle(a)
		text := html.EscapeString(a.Field)
		if label, ok := a.Options["label"]; ok {
			text += " [" + html.EscapeString(label.String()) + "]"
		}
		if a.PrimaryKey {
			text = "<U>" + text + "</U>"
		}
		if a.ForeignKey {
			text = "<I>" + text + "</I>"
		}
		fmt.Fprintf(buf, "      <TR><TD%s>%s</TD></TR>\n",
			htmlAttrs(attrStyle, cellAttrs),
			wrapFont(er.Merge(attrStyle, style), text))
	}
	buf.WriteString("    </TABLE>\n  >];\n")
}

// =============================================================================
// Option projection
// =============================================================================

// HTML-like label attribute names per option key. TABLE and TD accept
// different subsets.
var (
	tableAttrs = map[string]string{
		"bgcolor":      "BGCOLOR",
		"border":       "BORDER",
		"border-color": "COLOR",
		"cellborder":   "CELLBORDER",
		"cellpadding":  "CELLPADDING",
		"cellspacing":  "CELLSPACING",
	}
	cellAttrs = map[string]string{
		"bgcolor":        "BGCOLOR",
		"border":         "BORDER",
		"border-color":   "COLOR",
		"cellpadding":    "CELLPADDING",
		"cellspacing":    "CELLSPACING",
		"text-alignment": "ALIGN",
	}
)

func htmlAttrs(opts er.Options, names map[string]string) string {
	var sb strings.Builder
	sel := er.Select(er.IsHTMLOption, opts)
	for _, k := range sel.Keys() {
		name, ok := names[k]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, " %s=\"%s\"", name, html.EscapeString(sel[k].String()))
	}
	return sb.String()
}

var fontTagAttrs = map[string]string{"color": "COLOR", "font": "FACE", "size": "POINT-SIZE"}

// wrapFont wraps text in a FONT tag built from the font options in opts.
func wrapFont(opts er.Options, text string) string {
	sel := er.Select(er.IsFontOption, opts)
	if len(sel) == 0 {
		return text
	}
	var sb strings.Builder
	sb.WriteString("<FONT")
	for _, k := range sel.Keys() {
		fmt.Fprintf(&sb, " %s=\"%s\"", fontTagAttrs[k], html.EscapeString(sel[k].String()))
	}
	sb.WriteString(">" + text + "</FONT>")
	return sb.String()
}

var fontGraphAttrs = map[string]string{"color": "fontcolor", "font": "fontname", "size": "fontsize"}

// fontAttrs returns graph or edge font attributes for the font options in opts.
func fontAttrs(opts er.Options) []string {
	sel := er.Select(er.IsFontOption, opts)
	var attrs []string
	for _, k := range sel.Keys() {
		attrs = append(attrs, fontGraphAttrs[k]+"="+quoteID(sel[k].String()))
	}
	return attrs
}

func edgeStyle(opts er.Options) []string {
	var attrs []string
	for _, v := range er.Select(er.IsLabelOption, opts) {
		attrs = append(attrs, "label="+quoteID(v.String()))
	}
	return append(attrs, fontAttrs(opts)...)
}

// quoteID writes s as a double-quoted DOT ID.
func quoteID(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
