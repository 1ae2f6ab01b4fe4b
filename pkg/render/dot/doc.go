// Package dot renders ER diagrams as Graphviz DOT source.
//
// # Overview
//
// Each entity becomes a plaintext node whose label is an HTML-like table: a
// header row with the entity name followed by one row per attribute. Each
// relation becomes a directed edge from its first entity to its second, with
// the cardinalities written as tail and head labels:
//
//	?  {0,1}
//	1  1
//	*  0..N
//	+  1..N
//
// # Usage
//
//	d, err := er.Parse(src)
//	if err != nil {
//	    return err
//	}
//	out := dot.ToDOT(d, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, out)
//
// # Options
//
// By default formatting options parsed from the file are not projected into
// the output. Setting [Options.Styled] applies them: HTML table options become
// TABLE and TD attributes, font options become FONT tags and edge font
// attributes, and labels become the graph title, attribute annotations and
// edge labels. Styled output also underlines primary keys and italicizes
// foreign keys.
//
// # Dependencies
//
// [ToDOT] is pure and never fails. The Render functions use
// [github.com/goccy/go-graphviz], which runs Graphviz in-process.
package dot
