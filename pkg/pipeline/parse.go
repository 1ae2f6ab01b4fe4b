package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/erdot/pkg/er"
	"github.com/matzehuels/erdot/pkg/observability"
)

// Parse parses and assembles ER source, reporting to the pipeline hooks.
func Parse(ctx context.Context, src string, opts Options) (*er.Diagram, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts.SetDefaults()

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.Source)
	start := time.Now()

	d, err := er.Parse(src)

	var entities, relations int
	if d != nil {
		entities, relations = len(d.Entities), len(d.Relations)
	}
	hooks.OnParseComplete(ctx, opts.Source, entities, relations, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	opts.Logger.Debugf("assembled %d entities and %d relations from %s", entities, relations, opts.Source)
	return d, nil
}
