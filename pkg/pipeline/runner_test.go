package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/erdot/pkg/cache"
	"github.com/matzehuels/erdot/pkg/er"
	errs "github.com/matzehuels/erdot/pkg/errors"
	"github.com/matzehuels/erdot/pkg/grammar"
	"github.com/matzehuels/erdot/pkg/observability"
)

const shop = `title { label: "Shop" }
[Customer]
  *id
  name
[Order]
  *id
  +customer_id
Customer 1--* Order
`

func quietRunner() *Runner {
	return NewRunner(log.NewWithOptions(&bytes.Buffer{}, log.Options{}))
}

func TestExecuteDOT(t *testing.T) {
	res, err := quietRunner().Execute(context.Background(), shop, Options{Source: "shop.er"})
	require.NoError(t, err)

	assert.Equal(t, []string{"dot"}, keys(res.Artifacts))
	assert.Equal(t, res.DOT, string(res.Artifacts["dot"]))
	assert.Contains(t, res.DOT, `"Customer" -> "Order" [taillabel="1", headlabel="0..N"];`)

	assert.Equal(t, 2, res.Stats.EntityCount)
	assert.Equal(t, 4, res.Stats.AttributeCount)
	assert.Equal(t, 1, res.Stats.RelationCount)
	require.NotNil(t, res.Diagram)
	assert.Equal(t, "Order", res.Diagram.Entities[1].Name)
}

func TestExecuteJSON(t *testing.T) {
	res, err := quietRunner().Execute(context.Background(), shop, Options{Formats: []string{"json", "dot"}})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(res.Artifacts["json"], &decoded))
	assert.Len(t, decoded["entities"], 2)
	assert.NotEmpty(t, res.Artifacts["dot"])
}

func TestExecuteStyled(t *testing.T) {
	res, err := quietRunner().Execute(context.Background(), shop, Options{Styled: true})
	require.NoError(t, err)
	assert.Contains(t, res.DOT, `label="Shop";`)

	plain, err := quietRunner().Execute(context.Background(), shop, Options{})
	require.NoError(t, err)
	assert.NotContains(t, plain.DOT, `label="Shop";`)
}

func TestExecuteParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errs.Code
	}{
		{"syntax", "[Person\n", errs.ErrCodeSyntax},
		{"number", `title { size: "huge" }`, errs.ErrCodeInvalidNumber},
		{"option", `title { weight: "bold" }`, errs.ErrCodeUnknownOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := quietRunner().Execute(context.Background(), tt.src, Options{Source: "bad.er"})
			require.Error(t, err)
			assert.Nil(t, res)
			assert.Equal(t, tt.code, errs.GetCode(err))
			assert.True(t, strings.HasPrefix(err.Error(), "parse bad.er: "))
		})
	}

	_, err := quietRunner().Execute(context.Background(), "[Person\n", Options{})
	var syn *grammar.SyntaxError
	assert.True(t, errors.As(err, &syn))
}

func TestExecuteInvalidFormat(t *testing.T) {
	_, err := quietRunner().Execute(context.Background(), shop, Options{Formats: []string{"bmp"}})
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidFormat))
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := quietRunner().Execute(ctx, shop, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderDiagram(t *testing.T) {
	d, err := er.Parse("[A]\nx\n")
	require.NoError(t, err)

	res, err := quietRunner().RenderDiagram(context.Background(), d, Options{})
	require.NoError(t, err)
	assert.Same(t, d, res.Diagram)
	assert.Zero(t, res.Stats.ParseTime)
	assert.Equal(t, 1, res.Stats.AttributeCount)
}

func TestRunnerUsesLogger(t *testing.T) {
	var buf bytes.Buffer
	r := NewRunner(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))

	_, err := r.Execute(context.Background(), shop, Options{Source: "shop.er"})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "parsed diagram")
	assert.Contains(t, out, "rendered outputs")
	assert.Contains(t, out, "assembled 2 entities and 1 relations from shop.er")
}

func TestHooksReceiveEvents(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetPipelineHooks(rec)
	defer observability.Reset()

	_, err := quietRunner().Execute(context.Background(), shop, Options{Source: "shop.er"})
	require.NoError(t, err)
	_, err = quietRunner().Execute(context.Background(), "[broken", Options{Source: "broken.er"})
	require.Error(t, err)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	assert.Equal(t, []string{
		"parse-start shop.er",
		"parse-complete shop.er 2 1 <nil>",
		"render-start [dot]",
		"render-complete [dot] <nil>",
		"parse-start broken.er",
		"parse-complete broken.er 0 0 error",
	}, rec.events)
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) add(s string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, s)
}

func (h *recordingHooks) OnParseStart(_ context.Context, source string) {
	h.add("parse-start " + source)
}

func (h *recordingHooks) OnParseComplete(_ context.Context, source string, entities, relations int, _ time.Duration, err error) {
	h.add("parse-complete " + source + " " + strconv.Itoa(entities) + " " + strconv.Itoa(relations) + " " + errString(err))
}

func (h *recordingHooks) OnRenderStart(_ context.Context, formats []string) {
	h.add("render-start [" + strings.Join(formats, " ") + "]")
}

func (h *recordingHooks) OnRenderComplete(_ context.Context, formats []string, _ time.Duration, err error) {
	h.add("render-complete [" + strings.Join(formats, " ") + "] " + errString(err))
}

func errString(err error) string {
	if err == nil {
		return "<nil>"
	}
	return "error"
}

func keys(m map[string][]byte) []string {
	return slices.Sorted(maps.Keys(m))
}

type mapCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *mapCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *mapCache) Close() error { return nil }

func TestRenderUsesArtifactCache(t *testing.T) {
	ctx := context.Background()
	r := quietRunner()

	first, err := r.Execute(ctx, shop, Options{})
	require.NoError(t, err)

	c := &mapCache{data: map[string][]byte{
		cache.ArtifactKey(first.DOT, FormatSVG): []byte("<svg>cached</svg>"),
	}}
	result, err := r.Execute(ctx, shop, Options{Formats: []string{FormatSVG}, Cache: c})
	require.NoError(t, err)

	assert.Equal(t, "<svg>cached</svg>", string(result.Artifacts[FormatSVG]))
	assert.Zero(t, c.sets, "a cache hit must not be written back")
}
