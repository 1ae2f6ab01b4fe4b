package io

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/erdot/pkg/er"
	"github.com/matzehuels/erdot/pkg/grammar"
)

const shop = `title { label: "Shop" }
header { bgcolor: "#eee" }
[Person] { cellpadding: "6" }
  *name
  height { size: "9.5" }
[Pet]
  *+owner
Person 1--* Pet { label: "owns" }
`

func TestJSONRoundTrip(t *testing.T) {
	d, err := er.Parse(shop)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(d, &buf))

	back, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, d, back)
}

func TestJSONRoundTripNonFiniteSize(t *testing.T) {
	for _, text := range []string{"NaN", "+Inf", "-inf"} {
		t.Run(text, func(t *testing.T) {
			d, err := er.Parse("[A]\n x { size: \"" + text + "\" }\n")
			require.NoError(t, err)
			want := d.Entities[0].Attributes[0].Options["size"].Num

			var buf bytes.Buffer
			require.NoError(t, WriteJSON(d, &buf))
			back, err := ReadJSON(&buf)
			require.NoError(t, err)

			got := back.Entities[0].Attributes[0].Options["size"]
			assert.Equal(t, er.KindNumber, got.Kind)
			if math.IsNaN(want) {
				assert.True(t, math.IsNaN(got.Num), "size = %v, want NaN", got.Num)
			} else {
				assert.Equal(t, want, got.Num)
			}
		})
	}
}

func TestWriteJSONShape(t *testing.T) {
	d, err := er.Parse("[A] { border: \"2\", color: \"red\" }\nA ?--+ B\n")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(d, &buf))
	out := buf.String()

	assert.Contains(t, out, `"border": 2`)
	assert.Contains(t, out, `"color": "red"`)
	assert.Contains(t, out, `"card1": "zero-one"`)
	assert.Contains(t, out, `"card2": "one-plus"`)
	assert.Less(t, strings.Index(out, `"border"`), strings.Index(out, `"color"`), "sorted keys")
}

func TestExportImportFile(t *testing.T) {
	d, err := er.Parse(shop)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "shop.json")
	require.NoError(t, ExportJSON(d, path))

	back, err := ImportJSON(path)
	require.NoError(t, err)
	assert.Equal(t, d.Entities, back.Entities)
	assert.Equal(t, d.Relations, back.Relations)

	_, err = ImportJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestReadJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"malformed", `{`, "decode"},
		{"unknown option", `{"entities":[{"name":"A","options":{"colour":"red"}}]}`, "colour"},
		{"text given as number", `{"entities":[{"name":"A","options":{"color":3}}]}`, "option color"},
		{"number given as text", `{"title":{"size":"big"}}`, "title"},
		{"uint8 out of range", `{"entities":[{"name":"A","options":{"border":300}}]}`, "border"},
		{"missing cardinality", `{"relations":[{"entity1":"A","entity2":"B","card1":"one"}]}`, "missing cardinality"},
		{"unknown cardinality", `{"relations":[{"entity1":"A","entity2":"B","card1":"many","card2":"one"}]}`, "many"},
		{"unknown directive", `{"directives":{"footer":{}}}`, "footer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReadJSONDefaultsTitle(t *testing.T) {
	d, err := ReadJSON(strings.NewReader(`{"entities":[{"name":"A"}]}`))
	require.NoError(t, err)
	assert.Equal(t, er.DefaultTitleOptions(), d.Title)
	assert.Equal(t, "A", d.Entities[0].Name)
	assert.Empty(t, d.Entities[0].Options)
}

func TestWriteTree(t *testing.T) {
	root, err := grammar.Parse("[Person]\n *name\n")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteTree(&buf, root))

	want := strings.Join([]string{
		"document 1:1",
		"  head 1:1",
		"  body 1:1",
		"    entity 1:1",
		"      ident 1:2",
		`        bare_ident 1:2 "Person"`,
		"      attribute 2:2",
		`        pk 2:2 "*"`,
		"        ident 2:3",
		`          bare_ident 2:3 "name"`,
		"  EOI 3:1",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}
