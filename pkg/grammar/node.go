package grammar

import "fmt"

// Rule tags a parse tree node with the grammar rule that produced it.
type Rule int

const (
	RuleDocument Rule = iota
	RuleHead
	RuleBody
	RuleEOI
	RuleDirective
	RuleKeyword
	RuleEntity
	RuleAttribute
	RulePrimaryKey
	RuleForeignKey
	RuleRelationship
	RuleCardinality
	RuleIdent
	RuleBareIdent
	RuleBacktickIdent
	RuleQuotedIdent
	RuleOptions
	RuleOption
	RuleOptionKey
	RuleOptionValue
)

var ruleNames = map[Rule]string{
	RuleDocument:      "document",
	RuleHead:          "head",
	RuleBody:          "body",
	RuleEOI:           "EOI",
	RuleDirective:     "directive",
	RuleKeyword:       "keyword",
	RuleEntity:        "entity",
	RuleAttribute:     "attribute",
	RulePrimaryKey:    "pk",
	RuleForeignKey:    "fk",
	RuleRelationship:  "relationship",
	RuleCardinality:   "cardinality",
	RuleIdent:         "ident",
	RuleBareIdent:     "bare_ident",
	RuleBacktickIdent: "backtick_ident",
	RuleQuotedIdent:   "quoted_ident",
	RuleOptions:       "options",
	RuleOption:        "option",
	RuleOptionKey:     "option_key",
	RuleOptionValue:   "option_value",
}

func (r Rule) String() string {
	if name, ok := ruleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("rule(%d)", int(r))
}

// Position is a location in the source text.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column, counted in bytes
	Offset int // 0-based byte offset
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Node is one rule match in the parse tree. Children are in source order.
type Node struct {
	Rule     Rule
	Text     string // source slice matched by the rule
	Pos      Position
	Children []*Node
}

// Child returns the first direct child tagged with rule, or nil.
func (n *Node) Child(rule Rule) *Node {
	for _, c := range n.Children {
		if c.Rule == rule {
			return c
		}
	}
	return nil
}

// ChildrenOf returns the direct children tagged with rule, in order.
func (n *Node) ChildrenOf(rule Rule) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Rule == rule {
			out = append(out, c)
		}
	}
	return out
}

// Walk visits n and its descendants depth-first in source order. The depth of
// the root is 0. Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(n *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}
