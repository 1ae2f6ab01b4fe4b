package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/erdot/pkg/er"
)

type options map[string]json.RawMessage

type diagram struct {
	Directives map[er.Directive]options `json:"directives"`
	Title      options                  `json:"title"`
	Entities   []entity                 `json:"entities"`
	Relations  []relation               `json:"relations"`
}

type entity struct {
	Name          string      `json:"name"`
	Attributes    []attribute `json:"attributes"`
	HeaderOptions options     `json:"header_options"`
	Options       options     `json:"options"`
}

type attribute struct {
	Field      string  `json:"field"`
	PrimaryKey bool    `json:"pk"`
	ForeignKey bool    `json:"fk"`
	Options    options `json:"options"`
}

type relation struct {
	Entity1 string         `json:"entity1"`
	Entity2 string         `json:"entity2"`
	Card1   er.Cardinality `json:"card1"`
	Card2   er.Cardinality `json:"card2"`
	Options options        `json:"options"`
}

// ReadJSON decodes a diagram written by [WriteJSON].
//
// Option values are converted by key with [er.ParseValue], so unknown keys
// and out-of-range numbers fail as they would in an ER file. A relation must
// carry both cardinalities. A missing title resolves to the title defaults.
func ReadJSON(r io.Reader) (*er.Diagram, error) {
	var data diagram
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	d := &er.Diagram{Directives: map[er.Directive]er.Options{}}
	for kind, raw := range data.Directives {
		switch kind {
		case er.DirectiveTitle, er.DirectiveHeader, er.DirectiveEntity, er.DirectiveRelationship:
		default:
			return nil, fmt.Errorf("unknown directive %q", kind)
		}
		opts, err := raw.decode()
		if err != nil {
			return nil, fmt.Errorf("directive %s: %w", kind, err)
		}
		d.Directives[kind] = opts
	}

	title, err := data.Title.decode()
	if err != nil {
		return nil, fmt.Errorf("title: %w", err)
	}
	d.Title = er.Merge(title, er.DefaultTitleOptions())

	for i, e := range data.Entities {
		ent, err := e.decode()
		if err != nil {
			return nil, fmt.Errorf("entity %d (%s): %w", i, e.Name, err)
		}
		d.Entities = append(d.Entities, ent)
	}
	for i, rel := range data.Relations {
		if !rel.Card1.Valid() || !rel.Card2.Valid() {
			return nil, fmt.Errorf("relation %d (%s-%s): missing cardinality", i, rel.Entity1, rel.Entity2)
		}
		opts, err := rel.Options.decode()
		if err != nil {
			return nil, fmt.Errorf("relation %d (%s-%s): %w", i, rel.Entity1, rel.Entity2, err)
		}
		d.Relations = append(d.Relations, er.Relation{
			Entity1: rel.Entity1,
			Entity2: rel.Entity2,
			Card1:   rel.Card1,
			Card2:   rel.Card2,
			Options: opts,
		})
	}
	return d, nil
}

// ImportJSON reads a JSON diagram file at path.
func ImportJSON(path string) (*er.Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func (e entity) decode() (er.Entity, error) {
	opts, err := e.Options.decode()
	if err != nil {
		return er.Entity{}, err
	}
	header, err := e.HeaderOptions.decode()
	if err != nil {
		return er.Entity{}, fmt.Errorf("header: %w", err)
	}
	out := er.Entity{Name: e.Name, Options: opts, HeaderOptions: header}
	for _, a := range e.Attributes {
		attrOpts, err := a.Options.decode()
		if err != nil {
			return er.Entity{}, fmt.Errorf("attribute %s: %w", a.Field, err)
		}
		out.Attributes = append(out.Attributes, er.Attribute{
			Field:      a.Field,
			PrimaryKey: a.PrimaryKey,
			ForeignKey: a.ForeignKey,
			Options:    attrOpts,
		})
	}
	return out, nil
}

// decode converts raw JSON values into typed options. Text keys take JSON
// strings; numeric keys take JSON numbers. A size may also be a string, which
// is how NaN and infinities are written.
func (o options) decode() (er.Options, error) {
	out := er.Options{}
	for key, raw := range o {
		kind, ok := er.KnownOption(key)
		if !ok {
			return nil, &er.UnknownOptionError{Key: key}
		}
		var text string
		if kind == er.KindText || kind == er.KindNumber && isJSONString(raw) {
			if err := json.Unmarshal(raw, &text); err != nil {
				return nil, fmt.Errorf("option %s: %w", key, err)
			}
		} else {
			var n json.Number
			if err := json.Unmarshal(raw, &n); err != nil {
				return nil, fmt.Errorf("option %s: %w", key, err)
			}
			text = n.String()
		}
		v, err := er.ParseValue(key, text)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	return out, nil
}

func isJSONString(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '"'
}
