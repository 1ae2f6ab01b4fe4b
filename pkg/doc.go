// Package pkg provides the core libraries for erdot.
//
// # Overview
//
// erdot turns a small plain-text entity-relationship language into Graphviz
// diagrams. The pkg directory is organized around the three stages of that
// conversion plus the plumbing shared by every entry point:
//
//  1. [grammar] - Recognize ER source and build a rule-tagged parse tree
//  2. [er] - Assemble the parse tree into the diagram model
//  3. [render/dot] - Render the model as DOT and lay it out with Graphviz
//  4. [pipeline] - Orchestration (parse → render) shared by CLI and tests
//
// # Architecture
//
// The data flow through erdot:
//
//	ER source text
//	     ↓
//	[grammar] package (parse tree or located syntax error)
//	     ↓
//	[er] package (entities, attributes, relations, option sets)
//	     ↓
//	[render/dot] package (DOT text, then SVG/PNG/JPG)
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/erdot/pkg/er"
//	    "github.com/matzehuels/erdot/pkg/render/dot"
//	)
//
//	d, err := er.Parse("[Person]\n*id\n[Place]\n*id\nPerson *--1 Place\n")
//	if err != nil {
//	    return err
//	}
//	src := dot.ToDOT(d, dot.Options{})
//	svg, err := dot.RenderSVG(ctx, src)
//
// # Supporting Packages
//
// [io] - JSON import and export of assembled diagrams, and a text dump of
// parse trees.
//
// [cache] - File cache for rendered Graphviz images, keyed by DOT source and
// format.
//
// [errors] - Structured errors with codes (SYNTAX_ERROR, UNKNOWN_OPTION, ...)
// for programmatic handling.
//
// [observability] - Hooks for parse, render and Graphviz layout events.
//
// [buildinfo] - Version information set at build time.
//
// [grammar]: https://pkg.go.dev/github.com/matzehuels/erdot/pkg/grammar
// [er]: https://pkg.go.dev/github.com/matzehuels/erdot/pkg/er
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/erdot/pkg/render/dot
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/erdot/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/erdot/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/erdot/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/erdot/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/erdot/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/erdot/pkg/buildinfo
package pkg
