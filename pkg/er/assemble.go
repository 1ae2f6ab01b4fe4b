package er

import (
	errs "github.com/matzehuels/erdot/pkg/errors"
	"github.com/matzehuels/erdot/pkg/grammar"
)

// Parse parses and assembles an ER source. Failures are *errs.Error values
// coded SYNTAX_ERROR, INVALID_NUMBER or UNKNOWN_OPTION.
func Parse(src string) (*Diagram, error) {
	root, err := grammar.Parse(src)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeSyntax, err, "invalid ER source")
	}
	return Assemble(root)
}

// Assemble builds a Diagram from a document parse tree in a single pass.
// Assembly stops at the first error; no partial Diagram is returned.
func Assemble(root *grammar.Node) (*Diagram, error) {
	if root == nil || root.Rule != grammar.RuleDocument {
		return nil, errs.New(errs.ErrCodeInternal, "assemble: root is not a %s node", grammar.RuleDocument)
	}

	d := &Diagram{Directives: map[Directive]Options{}}
	if head := root.Child(grammar.RuleHead); head != nil {
		for _, n := range head.ChildrenOf(grammar.RuleDirective) {
			if err := d.addDirective(n); err != nil {
				return nil, err
			}
		}
	}
	d.Title = Merge(d.Directives[DirectiveTitle], DefaultTitleOptions())
	header := Merge(d.Directives[DirectiveHeader], DefaultHeaderOptions())

	body := root.Child(grammar.RuleBody)
	if body == nil {
		return d, nil
	}
	for _, n := range body.Children {
		switch n.Rule {
		case grammar.RuleEntity:
			e, err := buildEntity(n)
			if err != nil {
				return nil, err
			}
			e.HeaderOptions = header.Clone()
			d.Entities = append(d.Entities, e)
		case grammar.RuleRelationship:
			r, err := buildRelation(n)
			if err != nil {
				return nil, err
			}
			d.Relations = append(d.Relations, r)
		default:
			return nil, errs.New(errs.ErrCodeInternal, "assemble: unexpected %s node in body", n.Rule)
		}
	}
	return d, nil
}

// addDirective stores a directive's options. A repeated directive overlays
// the earlier one.
func (d *Diagram) addDirective(n *grammar.Node) error {
	opts := n.Child(grammar.RuleOptions)
	if opts == nil {
		return nil
	}
	kw := n.Child(grammar.RuleKeyword)
	if kw == nil {
		return errs.New(errs.ErrCodeInternal, "assemble: directive without keyword")
	}
	parsed, err := parseOptions(opts)
	if err != nil {
		return err
	}
	kind := Directive(kw.Text)
	d.Directives[kind] = Merge(parsed, d.Directives[kind])
	return nil
}

func buildEntity(n *grammar.Node) (Entity, error) {
	opts, err := parseOptions(n.Child(grammar.RuleOptions))
	if err != nil {
		return Entity{}, err
	}
	e := Entity{Name: identName(n.Child(grammar.RuleIdent)), Options: opts}
	for _, a := range n.ChildrenOf(grammar.RuleAttribute) {
		attr, err := buildAttribute(a)
		if err != nil {
			return Entity{}, err
		}
		e.Attributes = append(e.Attributes, attr)
	}
	return e, nil
}

func buildAttribute(n *grammar.Node) (Attribute, error) {
	opts, err := parseOptions(n.Child(grammar.RuleOptions))
	if err != nil {
		return Attribute{}, err
	}
	return Attribute{
		Field:      identName(n.Child(grammar.RuleIdent)),
		PrimaryKey: n.Child(grammar.RulePrimaryKey) != nil,
		ForeignKey: n.Child(grammar.RuleForeignKey) != nil,
		Options:    opts,
	}, nil
}

func buildRelation(n *grammar.Node) (Relation, error) {
	idents := n.ChildrenOf(grammar.RuleIdent)
	cards := n.ChildrenOf(grammar.RuleCardinality)
	if len(idents) != 2 || len(cards) != 2 {
		return Relation{}, errs.New(errs.ErrCodeInternal, "assemble: malformed relationship at %s", n.Pos)
	}
	card1, ok1 := CardinalityFromSymbol(cards[0].Text)
	card2, ok2 := CardinalityFromSymbol(cards[1].Text)
	if !ok1 || !ok2 {
		return Relation{}, errs.New(errs.ErrCodeInternal, "assemble: bad cardinality in %q at %s", n.Text, n.Pos)
	}
	opts, err := parseOptions(n.Child(grammar.RuleOptions))
	if err != nil {
		return Relation{}, err
	}
	return Relation{
		Entity1: identName(idents[0]),
		Entity2: identName(idents[1]),
		Card1:   card1,
		Card2:   card2,
		Options: opts,
	}, nil
}

// parseOptions is ParseOptions with its errors coded.
func parseOptions(n *grammar.Node) (Options, error) {
	opts, err := ParseOptions(n)
	switch err.(type) {
	case nil:
		return opts, nil
	case *NumericConversionError:
		return nil, errs.Wrap(errs.ErrCodeInvalidNumber, err, "invalid option value")
	case *UnknownOptionError:
		return nil, errs.Wrap(errs.ErrCodeUnknownOption, err, "invalid option block")
	default:
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "assemble options")
	}
}

// identName returns the identifier text with any quoting removed.
func identName(n *grammar.Node) string {
	if n == nil || len(n.Children) == 0 {
		return ""
	}
	inner := n.Children[0]
	switch inner.Rule {
	case grammar.RuleBacktickIdent, grammar.RuleQuotedIdent:
		return unquote(inner.Text)
	default:
		return inner.Text
	}
}

// unquote drops the first and last byte of a delimited token.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	return s[1 : len(s)-1]
}
