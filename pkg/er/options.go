package er

import (
	"encoding/json"
	"maps"
	"math"
	"slices"
	"strconv"

	"github.com/matzehuels/erdot/pkg/grammar"
)

// ValueKind is the type of an option value.
type ValueKind string

const (
	KindText   ValueKind = "text"
	KindNumber ValueKind = "number"
	KindUint8  ValueKind = "uint8"
)

// optionKinds lists every recognized option key with its value kind.
var optionKinds = map[string]ValueKind{
	"label":          KindText,
	"color":          KindText,
	"bgcolor":        KindText,
	"size":           KindNumber,
	"font":           KindText,
	"border":         KindUint8,
	"border-color":   KindText,
	"cellspacing":    KindUint8,
	"cellborder":     KindUint8,
	"cellpadding":    KindUint8,
	"text-alignment": KindText,
}

// KnownOption reports whether key is a recognized option and returns its kind.
func KnownOption(key string) (ValueKind, bool) {
	k, ok := optionKinds[key]
	return k, ok
}

// Value is a typed option value. Only the field matching Kind is set.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Uint uint8
}

func TextValue(s string) Value    { return Value{Kind: KindText, Str: s} }
func NumberValue(f float64) Value { return Value{Kind: KindNumber, Num: f} }
func Uint8Value(u uint8) Value    { return Value{Kind: KindUint8, Uint: u} }

// String formats the value the way it is written into DOT attributes.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case KindUint8:
		return strconv.FormatUint(uint64(v.Uint), 10)
	default:
		return v.Str
	}
}

// MarshalJSON encodes text as a JSON string and numbers as JSON numbers.
// Non-finite numbers fall back to strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindUint8:
		return []byte(v.String()), nil
	case KindNumber:
		if !math.IsNaN(v.Num) && !math.IsInf(v.Num, 0) {
			return []byte(v.String()), nil
		}
		return json.Marshal(v.String())
	default:
		return json.Marshal(v.Str)
	}
}

// ParseValue converts the unquoted text of an option value according to the
// kind of key.
func ParseValue(key, text string) (Value, error) {
	kind, ok := optionKinds[key]
	if !ok {
		return Value{}, &UnknownOptionError{Key: key}
	}
	switch kind {
	case KindNumber:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, &NumericConversionError{Key: key, Text: text, Err: err}
		}
		return NumberValue(f), nil
	case KindUint8:
		u, err := strconv.ParseUint(text, 10, 8)
		if err != nil {
			return Value{}, &NumericConversionError{Key: key, Text: text, Err: err}
		}
		return Uint8Value(uint8(u)), nil
	default:
		return TextValue(text), nil
	}
}

// Options maps option keys to typed values.
type Options map[string]Value

// Keys returns the keys of o in sorted order.
func (o Options) Keys() []string {
	return slices.Sorted(maps.Keys(o))
}

// Clone returns a shallow copy of o. The copy of a nil set is empty, not nil.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	maps.Copy(out, o)
	return out
}

// ParseOptions folds an options node into a set. Pairs are applied in source
// order, so the last of several duplicate keys wins. A nil node yields an
// empty set.
func ParseOptions(n *grammar.Node) (Options, error) {
	opts := Options{}
	if n == nil {
		return opts, nil
	}
	for _, pair := range n.ChildrenOf(grammar.RuleOption) {
		keyNode := pair.Child(grammar.RuleOptionKey)
		valueNode := pair.Child(grammar.RuleOptionValue)
		if keyNode == nil || valueNode == nil {
			continue
		}
		v, err := ParseValue(keyNode.Text, unquote(valueNode.Text))
		if err != nil {
			switch e := err.(type) {
			case *NumericConversionError:
				e.Pos = valueNode.Pos
			case *UnknownOptionError:
				e.Pos = keyNode.Pos
			}
			return nil, err
		}
		opts[keyNode.Text] = v
	}
	return opts, nil
}

// Merge returns a new set holding secondary overlaid by primary. Keys present
// in both take the primary value.
func Merge(primary, secondary Options) Options {
	out := secondary.Clone()
	maps.Copy(out, primary)
	return out
}

// Predicate selects options by key and value.
type Predicate func(key string, v Value) bool

// Select returns the subset of opts accepted by pred.
func Select(pred Predicate, opts Options) Options {
	out := Options{}
	for k, v := range opts {
		if pred(k, v) {
			out[k] = v
		}
	}
	return out
}

// IsFontOption selects options that style text: color, font and size.
func IsFontOption(key string, _ Value) bool {
	switch key {
	case "color", "font", "size":
		return true
	}
	return false
}

// IsHTMLOption selects options that style HTML-like tables and cells.
func IsHTMLOption(key string, _ Value) bool {
	switch key {
	case "bgcolor", "border", "border-color", "cellspacing", "cellborder", "cellpadding", "text-alignment":
		return true
	}
	return false
}

// IsLabelOption selects the label option.
func IsLabelOption(key string, _ Value) bool {
	return key == "label"
}
