package er

// Directive names a kind of object whose default options can be set in the
// head of an ER file.
type Directive string

const (
	DirectiveTitle        Directive = "title"
	DirectiveHeader       Directive = "header"
	DirectiveEntity       Directive = "entity"
	DirectiveRelationship Directive = "relationship"
)

// Diagram is the assembled form of one ER file.
type Diagram struct {
	// Directives holds the options given by each head directive, as written.
	Directives map[Directive]Options `json:"directives"`
	Entities   []Entity              `json:"entities"`
	Relations  []Relation            `json:"relations"`
	// Title is the title directive resolved over the title defaults.
	Title Options `json:"title"`
}

// Entity is a table-like record with ordered attributes.
type Entity struct {
	Name       string      `json:"name"`
	Attributes []Attribute `json:"attributes"`
	// HeaderOptions is the header directive resolved over the header defaults.
	HeaderOptions Options `json:"header_options"`
	// Options is the entity's own option block, empty when absent.
	Options Options `json:"options"`
}

// Attribute is one field of an entity.
type Attribute struct {
	Field      string  `json:"field"`
	PrimaryKey bool    `json:"pk"`
	ForeignKey bool    `json:"fk"`
	Options    Options `json:"options"`
}

// Relation connects two entities by name.
type Relation struct {
	Entity1 string      `json:"entity1"`
	Entity2 string      `json:"entity2"`
	Card1   Cardinality `json:"card1"`
	Card2   Cardinality `json:"card2"`
	Options Options     `json:"options"`
}

// EntityStyle returns the effective options of e: its own options over the
// entity directive over the entity defaults.
func (d *Diagram) EntityStyle(e Entity) Options {
	return Merge(e.Options, Merge(d.Directives[DirectiveEntity], DefaultEntityOptions()))
}

// AttributeStyle returns the effective options of a. There is no attribute
// directive, so only the attribute defaults are inherited.
func (d *Diagram) AttributeStyle(a Attribute) Options {
	return Merge(a.Options, DefaultAttributeOptions())
}

// RelationStyle returns the effective options of r: its own options over the
// relationship directive over the relationship defaults.
func (d *Diagram) RelationStyle(r Relation) Options {
	return Merge(r.Options, Merge(d.Directives[DirectiveRelationship], DefaultRelationshipOptions()))
}
