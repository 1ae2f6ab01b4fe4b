package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/erdot/pkg/cache"
	"github.com/matzehuels/erdot/pkg/er"
	pkgio "github.com/matzehuels/erdot/pkg/io"
	"github.com/matzehuels/erdot/pkg/observability"
	"github.com/matzehuels/erdot/pkg/render/dot"
)

// Render generates the DOT source for d and every artifact in opts.Formats.
// Image formats are rendered from the same DOT source.
func Render(ctx context.Context, d *er.Diagram, opts Options) (string, map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return "", nil, err
	}
	opts.SetDefaults()

	src := dot.ToDOT(d, dot.Options{Styled: opts.Styled})
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return "", nil, err
		}

		var data []byte
		var err error

		switch format {
		case FormatDOT:
			data = []byte(src)
		case FormatJSON:
			var buf bytes.Buffer
			err = pkgio.WriteJSON(d, &buf)
			data = buf.Bytes()
		case FormatSVG, FormatPNG, FormatJPG:
			data, err = renderGraphviz(ctx, src, format, opts)
		default:
			return "", nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return "", nil, fmt.Errorf("render %s: %w", format, err)
		}
		opts.Logger.Debugf("rendered %s (%d bytes)", format, len(data))
		artifacts[format] = data
	}

	return src, artifacts, nil
}

// artifactTTL bounds how long a rendered image stays in the cache.
const artifactTTL = 30 * 24 * time.Hour

// renderGraphviz lays out src with the embedded Graphviz, reusing a cached
// artifact when the same source was rendered to format before.
func renderGraphviz(ctx context.Context, src, format string, opts Options) ([]byte, error) {
	key := cache.ArtifactKey(src, format)
	if data, hit, err := opts.Cache.Get(ctx, key); err != nil {
		opts.Logger.Warnf("cache read failed: %v", err)
	} else if hit {
		opts.Logger.Debugf("cache hit for %s", format)
		return data, nil
	}

	hooks := observability.Graphviz()
	hooks.OnLayoutStart(ctx, format)
	start := time.Now()
	data, err := dot.Render(ctx, src, format)
	hooks.OnLayoutComplete(ctx, format, len(data), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if err := opts.Cache.Set(ctx, key, data, artifactTTL); err != nil {
		opts.Logger.Warnf("cache write failed: %v", err)
	}
	return data, nil
}
