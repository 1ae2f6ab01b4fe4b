// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about pipeline stages and Graphviz rendering.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, never by library packages, so the parser and
// renderer stay free of any observability backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetGraphvizHooks(&myGraphvizHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnParseStart(ctx, source)
//	// ... do parsing ...
//	observability.Pipeline().OnParseComplete(ctx, source, entities, relations, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the parse and render stages.
type PipelineHooks interface {
	// Parse events. source names the input (a file name or "-" for stdin).
	OnParseStart(ctx context.Context, source string)
	OnParseComplete(ctx context.Context, source string, entities, relations int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Graphviz Hooks
// =============================================================================

// GraphvizHooks receives events from in-process Graphviz rendering.
type GraphvizHooks interface {
	// OnLayoutStart records the start of a Graphviz run for one format.
	OnLayoutStart(ctx context.Context, format string)

	// OnLayoutComplete records the end of a Graphviz run and the output size.
	OnLayoutComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string)                                    {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                                 {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)        {}

// NoopGraphvizHooks is a no-op implementation of GraphvizHooks.
type NoopGraphvizHooks struct{}

func (NoopGraphvizHooks) OnLayoutStart(context.Context, string)                               {}
func (NoopGraphvizHooks) OnLayoutComplete(context.Context, string, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	graphvizHooks GraphvizHooks = NoopGraphvizHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline operations.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetGraphvizHooks registers custom Graphviz hooks.
func SetGraphvizHooks(h GraphvizHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		graphvizHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Graphviz returns the registered Graphviz hooks.
func Graphviz() GraphvizHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return graphvizHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	graphvizHooks = NoopGraphvizHooks{}
}
