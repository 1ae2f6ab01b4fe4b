// Package io serializes ER diagrams and parse trees.
//
// # Overview
//
// This package provides:
//
//   - JSON export and import of assembled diagrams ([WriteJSON], [ReadJSON])
//   - A readable dump of grammar parse trees ([WriteTree])
//
// JSON lets other tools consume a parsed schema, and lets a diagram be
// re-rendered without the original ER source.
//
// # JSON Format
//
//	{
//	  "directives": {"header": {"bgcolor": "#eee"}},
//	  "title": {"size": 30},
//	  "entities": [
//	    {
//	      "name": "Person",
//	      "header_options": {"size": 16},
//	      "options": {},
//	      "attributes": [
//	        {"field": "name", "pk": true, "fk": false, "options": {}}
//	      ]
//	    }
//	  ],
//	  "relations": [
//	    {"entity1": "Person", "entity2": "Pet", "card1": "one", "card2": "zero-plus", "options": {}}
//	  ]
//	}
//
// Option values are JSON strings for text keys and JSON numbers for size,
// border and the cell keys. Cardinalities are one of zero-one, one,
// zero-plus and one-plus.
//
// [ReadJSON] checks option keys and value types the same way the ER parser
// does and rejects relations without both cardinalities.
//
// # Parse Trees
//
// [WriteTree] prints one line per node, indented by depth, with the rule name,
// position and the matched text of leaf rules:
//
//	document 1:1
//	  head 1:1
//	  body 1:1
//	    entity 1:1
//	      ident 1:2
//	        bare_ident 1:2 "Person"
//	  EOI 1:9
package io
