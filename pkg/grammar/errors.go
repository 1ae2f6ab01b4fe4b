package grammar

import (
	"fmt"
	"strings"
)

// SyntaxError reports input that does not conform to the grammar. Pos is the
// furthest position the parser reached; Expected lists what would have been
// accepted there. Hint, when set, names a likely cause.
type SyntaxError struct {
	Pos      Position
	Expected []string
	Got      string
	Hint     string
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("line %d, col %d: expected %s, got %s",
		e.Pos.Line, e.Pos.Column, joinAlternatives(e.Expected), e.Got)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func joinAlternatives(alts []string) string {
	switch len(alts) {
	case 0:
		return "valid input"
	case 1:
		return alts[0]
	default:
		return strings.Join(alts[:len(alts)-1], ", ") + " or " + alts[len(alts)-1]
	}
}
