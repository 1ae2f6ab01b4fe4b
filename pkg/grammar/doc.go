// Package grammar recognizes the textual structure of the ER description
// language and produces an ordered tree of rule-tagged nodes.
//
// # Language
//
// An ER file has a head of formatting directives followed by a body of entity
// blocks and relationships:
//
//	title { label: "Shop", size: "20" }   # directives come first
//	header { bgcolor: "#663399" }
//
//	[Person]
//	  *name
//	  +group_id { label: "int" }
//	  `birth date`
//
//	[`Birth Place`]
//	  *id
//
//	Person *--1 `Birth Place`
//
// Cardinalities are written with one symbol per side: ? (0 or 1), 1 (exactly
// one), * (0 or more) and + (1 or more).
//
// # Layout rules
//
// Leading whitespace is never significant and # starts a comment that runs to
// the end of the line, except inside a double-quoted option value. An option
// block must open on the same line as the construct it decorates. It may close
// on a later line, but only a comment may follow the closing brace.
//
// Directives are only recognized before the first entity or relationship.
// After an entity, a directive-shaped line is an ordinary attribute of that
// entity; after a relationship it is a syntax error.
//
// # Parse tree
//
// [Parse] returns a [Node] tagged [RuleDocument] whose children are the head,
// the body and the end of input. Each node records the exact source slice it
// matched, so consumers strip quoting themselves. On failure Parse returns a
// [*SyntaxError] describing the furthest position reached and what was
// expected there; no partial tree is returned.
//
// The parser is a hand-written recursive-descent recognizer with ordered
// choice. Alternatives backtrack at most one statement, which keeps parsing
// linear in the size of the input.
package grammar
