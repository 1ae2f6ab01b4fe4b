package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/erdot/pkg/er"
	"github.com/matzehuels/erdot/pkg/observability"
)

// Runner executes the pipeline with a shared logger.
//
// The Runner is stateless except for the logger - it doesn't store pipeline
// results. Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete parse → render pipeline on ER source.
func (r *Runner) Execute(ctx context.Context, src string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Stage 1: Parse
	parseStart := time.Now()
	d, err := Parse(ctx, src, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", opts.Source, err)
	}
	parseTime := time.Since(parseStart)

	r.Logger.Info("parsed diagram",
		"source", opts.Source,
		"entities", len(d.Entities),
		"relations", len(d.Relations),
		"duration", parseTime)

	// Stage 2: Render
	result, err := r.RenderDiagram(ctx, d, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ParseTime = parseTime
	return result, nil
}

// RenderDiagram runs the render stage on an assembled diagram.
func (r *Runner) RenderDiagram(ctx context.Context, d *er.Diagram, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Diagram: d,
		Stats:   statsFor(d),
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	src, artifacts, err := Render(ctx, d, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.DOT = src
	result.Artifacts = artifacts

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func statsFor(d *er.Diagram) Stats {
	s := Stats{EntityCount: len(d.Entities), RelationCount: len(d.Relations)}
	for _, e := range d.Entities {
		s.AttributeCount += len(e.Attributes)
	}
	return s
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
