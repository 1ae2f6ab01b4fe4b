package er

import "fmt"

// Cardinality is the multiplicity on one side of a relation. The zero value
// is not a valid cardinality.
type Cardinality int

const (
	ZeroOne  Cardinality = iota + 1 // 0 or 1, written ?
	One                             // exactly one, written 1
	ZeroPlus                        // 0 or more, written *
	OnePlus                         // 1 or more, written +
)

var cardinalities = []struct {
	card    Cardinality
	symbol  string
	name    string
	display string
}{
	{ZeroOne, "?", "zero-one", "{0,1}"},
	{One, "1", "one", "1"},
	{ZeroPlus, "*", "zero-plus", "0..N"},
	{OnePlus, "+", "one-plus", "1..N"},
}

// CardinalityFromSymbol maps a source symbol (?, 1, * or +) to its
// cardinality.
func CardinalityFromSymbol(symbol string) (Cardinality, bool) {
	for _, c := range cardinalities {
		if c.symbol == symbol {
			return c.card, true
		}
	}
	return 0, false
}

// Valid reports whether c is one of the four cardinalities.
func (c Cardinality) Valid() bool {
	return c >= ZeroOne && c <= OnePlus
}

// Symbol returns the source symbol for c.
func (c Cardinality) Symbol() string {
	if !c.Valid() {
		return ""
	}
	return cardinalities[c-1].symbol
}

// String returns the display form used on diagram edges.
func (c Cardinality) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Cardinality(%d)", int(c))
	}
	return cardinalities[c-1].display
}

func (c Cardinality) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid cardinality %d", int(c))
	}
	return []byte(cardinalities[c-1].name), nil
}

func (c *Cardinality) UnmarshalText(text []byte) error {
	for _, e := range cardinalities {
		if e.name == string(text) {
			*c = e.card
			return nil
		}
	}
	return fmt.Errorf("unknown cardinality %q", text)
}
