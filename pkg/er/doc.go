// Package er holds the diagram model built from an ER source file and the
// assembler that builds it from a grammar parse tree.
//
// # Model
//
// A [Diagram] keeps its entities and relations in declaration order. Entity
// names need not be unique, and a [Relation] names its entities by string
// only; relations that mention undeclared entities are accepted as written.
//
// Formatting options are typed by key: size is a number; border, cellborder,
// cellspacing and cellpadding are small unsigned integers; all other
// recognized keys are text. An unrecognized key is an error.
//
// # Option inheritance
//
// Options are resolved in three layers, the nearest winning:
//
//  1. options written on the object itself
//  2. the matching directive in the file head (title, header, entity,
//     relationship)
//  3. the hard-coded defaults returned by the Default*Options functions
//
// Assembly stores inline options exactly as written. [Diagram.Title] and
// [Entity.HeaderOptions] are resolved during assembly; the effective style of
// entities, attributes and relations is available through
// [Diagram.EntityStyle], [Diagram.AttributeStyle] and [Diagram.RelationStyle].
//
// # Errors
//
// [Parse] returns a *errors.Error from the erdot errors package. Its code
// is SYNTAX_ERROR, INVALID_NUMBER or UNKNOWN_OPTION, and its cause is the
// matching *grammar.SyntaxError, *NumericConversionError or
// *UnknownOptionError.
package er
