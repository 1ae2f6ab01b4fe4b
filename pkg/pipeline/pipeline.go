// Package pipeline provides the parse → render pipeline for erdot.
//
// The CLI and tests share this package so every entry point parses, assembles
// and renders the same way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Parse: Recognize ER source and assemble the diagram model
//  2. Render: Generate DOT, then any Graphviz images or JSON requested
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(logger)
//	opts := pipeline.Options{
//	    Source:  "shop.er",
//	    Formats: []string{"dot", "svg"},
//	}
//	result, err := runner.Execute(ctx, src, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Render a diagram that was already assembled (for example, read from JSON):
//
//	result, err := runner.RenderDiagram(ctx, d, opts)
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/erdot/pkg/cache"
	"github.com/matzehuels/erdot/pkg/er"
	errs "github.com/matzehuels/erdot/pkg/errors"
)

// Format constants for output formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatJPG  = "jpg"
	FormatJSON = "json"
)

// DefaultFormat is used when no format is requested.
const DefaultFormat = FormatDOT

// DefaultSource names input that did not come from a file.
const DefaultSource = "-"

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatJPG:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
type Options struct {
	// Source names the input in logs and hook events.
	Source string `json:"source,omitempty"`

	// Formats lists the artifacts to produce.
	Formats []string `json:"formats,omitempty"`

	// Styled projects formatting options into the DOT output.
	Styled bool `json:"styled,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	Cache  cache.Cache `json:"-"` // Graphviz artifacts; nil disables caching

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the assembled diagram.
	Diagram *er.Diagram

	// DOT is the Graphviz source every image format was rendered from.
	DOT string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	EntityCount    int
	AttributeCount int
	RelationCount  int
	ParseTime      time.Duration
	RenderTime     time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(formatNames(), ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, dropping blanks and
// duplicates while keeping the first-seen order.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" && !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

func formatNames() []string {
	return []string{FormatDOT, FormatSVG, FormatPNG, FormatJPG, FormatJSON}
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults fills in the source name, formats, logger and cache.
func (o *Options) SetDefaults() {
	if o.Source == "" {
		o.Source = DefaultSource
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Cache == nil {
		o.Cache = cache.NewNullCache()
	}
}

// NeedsGraphviz reports whether any requested format is a Graphviz image.
func (o *Options) NeedsGraphviz() bool {
	for _, f := range o.Formats {
		switch f {
		case FormatSVG, FormatPNG, FormatJPG:
			return true
		}
	}
	return false
}

// String summarizes the options for log lines.
func (o Options) String() string {
	return fmt.Sprintf("source=%s formats=%s styled=%t", o.Source, strings.Join(o.Formats, ","), o.Styled)
}
