package er

import (
	"fmt"

	"github.com/matzehuels/erdot/pkg/grammar"
)

// NumericConversionError reports an option value that could not be converted
// to the number type of its key.
type NumericConversionError struct {
	Key  string
	Text string
	Pos  grammar.Position // zero when the value did not come from a parse tree
	Err  error
}

func (e *NumericConversionError) Error() string {
	msg := fmt.Sprintf("option %s: cannot convert %q to %s: %v", e.Key, e.Text, optionKinds[e.Key], e.Err)
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d, col %d: %s", e.Pos.Line, e.Pos.Column, msg)
	}
	return msg
}

func (e *NumericConversionError) Unwrap() error { return e.Err }

// UnknownOptionError reports an option key outside the recognized set.
type UnknownOptionError struct {
	Key string
	Pos grammar.Position
}

func (e *UnknownOptionError) Error() string {
	msg := fmt.Sprintf("unknown formatting option %q", e.Key)
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d, col %d: %s", e.Pos.Line, e.Pos.Column, msg)
	}
	return msg
}
