package grammar

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Keywords accepted as directives, in match order.
var keywords = []string{"title", "header", "entity", "relationship"}

const expectCardinality = "cardinality (?, 1, * or +)"

// Parse recognizes src and returns its parse tree rooted at a [RuleDocument]
// node. It returns a *SyntaxError when src does not conform to the grammar.
func Parse(src string) (*Node, error) {
	p := newParser(src)
	doc := p.document()
	if doc == nil {
		return nil, p.syntaxError()
	}
	return doc, nil
}

type parser struct {
	src   string
	pos   int
	lines []int // byte offset of each line start

	// furthest failure seen so far, for error reporting
	failPos  int
	expected []string
}

func newParser(src string) *parser {
	lines := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			lines = append(lines, i+1)
		}
	}
	return &parser{src: src, lines: lines, failPos: -1}
}

func (p *parser) position(offset int) Position {
	i := sort.Search(len(p.lines), func(i int) bool { return p.lines[i] > offset }) - 1
	return Position{Line: i + 1, Column: offset - p.lines[i] + 1, Offset: offset}
}

func (p *parser) node(rule Rule, start, end int, children ...*Node) *Node {
	return &Node{Rule: rule, Text: p.src[start:end], Pos: p.position(start), Children: children}
}

// fail records that what was expected at the current position.
func (p *parser) fail(what string) {
	switch {
	case p.pos > p.failPos:
		p.failPos = p.pos
		p.expected = []string{what}
	case p.pos == p.failPos && !slices.Contains(p.expected, what):
		p.expected = append(p.expected, what)
	}
}

func (p *parser) syntaxError() *SyntaxError {
	at := p.failPos
	if at < 0 {
		at = p.pos
	}
	return &SyntaxError{
		Pos:      p.position(at),
		Expected: p.expected,
		Got:      describe(p.src[at:]),
		Hint:     p.hint(at),
	}
}

// hint explains the common mistake of writing a relationship without spaces,
// as in "Foo1--1 Bar": the bare name swallows the cardinalities and the
// line then fails as an attribute.
func (p *parser) hint(at int) string {
	lineStart := p.lines[p.position(at).Line-1]
	words := strings.Fields(p.src[lineStart:at])
	if len(words) != 1 {
		return ""
	}
	w := words[0]
	i := strings.Index(w, "--")
	if i < 1 || i+2 >= len(w) || !isCardinality(w[i-1]) || !isCardinality(w[i+2]) {
		return ""
	}
	return fmt.Sprintf("%q was read as one name; separate the entity from its cardinality, e.g. %q",
		w, w[:i-1]+" "+w[i-1:])
}

func isCardinality(c byte) bool { return strings.IndexByte("?1*+", c) >= 0 }

func describe(rest string) string {
	if rest == "" {
		return "end of input"
	}
	r, _ := utf8.DecodeRuneInString(rest)
	if r == '\n' {
		return "end of line"
	}
	return fmt.Sprintf("%q", r)
}

// =============================================================================
// Character level
// =============================================================================

func (p *parser) atEnd() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) accept(c byte) bool {
	if p.peek() == c && !p.atEnd() {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(c byte, what string) bool {
	if p.accept(c) {
		return true
	}
	p.fail(what)
	return false
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\r' }

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.'
}

func isKeyByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_'
}

// skipWS skips spaces and tabs without crossing a line break.
func (p *parser) skipWS() {
	for !p.atEnd() && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) skipComment() {
	if p.peek() != '#' {
		return
	}
	for !p.atEnd() && p.src[p.pos] != '\n' {
		p.pos++
	}
}

// skipBlank skips whitespace, line breaks and comments.
func (p *parser) skipBlank() {
	for !p.atEnd() {
		switch c := p.src[p.pos]; {
		case isSpace(c) || c == '\n':
			p.pos++
		case c == '#':
			p.skipComment()
		default:
			return
		}
	}
}

// eol consumes trailing whitespace, an optional comment and the line break.
// End of input also terminates a line.
func (p *parser) eol() bool {
	p.skipWS()
	p.skipComment()
	if p.atEnd() || p.accept('\n') {
		return true
	}
	p.fail("end of line")
	return false
}

// =============================================================================
// Structure
// =============================================================================

func (p *parser) document() *Node {
	p.skipBlank()
	head := p.head()
	body := p.body()
	p.skipBlank()
	if !p.atEnd() {
		p.fail("end of input")
		return nil
	}
	eoi := p.node(RuleEOI, p.pos, p.pos)
	return p.node(RuleDocument, 0, p.pos, head, body, eoi)
}

func (p *parser) head() *Node {
	start := p.pos
	var directives []*Node
	for {
		d := p.directive()
		if d == nil {
			break
		}
		directives = append(directives, d)
		p.skipBlank()
	}
	return p.node(RuleHead, start, p.pos, directives...)
}

func (p *parser) body() *Node {
	start := p.pos
	var items []*Node
	for {
		item := p.entity()
		if item == nil {
			item = p.relationship()
		}
		if item == nil {
			break
		}
		items = append(items, item)
		p.skipBlank()
	}
	return p.node(RuleBody, start, p.pos, items...)
}

func (p *parser) directive() *Node {
	start := p.pos
	kw := p.keyword()
	if kw == nil {
		return nil
	}
	children, end, ok := p.finishLine([]*Node{kw})
	if !ok {
		p.pos = start
		return nil
	}
	return p.node(RuleDirective, start, end, children...)
}

func (p *parser) keyword() *Node {
	start := p.pos
	rest := p.src[p.pos:]
	for _, kw := range keywords {
		if !strings.HasPrefix(rest, kw) {
			continue
		}
		if r, _ := utf8.DecodeRuneInString(rest[len(kw):]); len(rest) > len(kw) && isIdentRune(r) {
			continue
		}
		p.pos += len(kw)
		return p.node(RuleKeyword, start, p.pos)
	}
	p.fail("directive")
	return nil
}

func (p *parser) entity() *Node {
	start := p.pos
	if !p.expect('[', "'['") {
		return nil
	}
	p.skipWS()
	name := p.ident()
	if name == nil {
		p.pos = start
		return nil
	}
	p.skipWS()
	if !p.expect(']', "']'") {
		p.pos = start
		return nil
	}
	children, end, ok := p.finishLine([]*Node{name})
	if !ok {
		p.pos = start
		return nil
	}
	for {
		save := p.pos
		p.skipBlank()
		attr := p.attribute()
		if attr == nil {
			p.pos = save
			break
		}
		children = append(children, attr)
		end = attr.Pos.Offset + len(attr.Text)
	}
	return p.node(RuleEntity, start, end, children...)
}

func (p *parser) attribute() *Node {
	start := p.pos
	var children []*Node
	if p.accept('*') {
		children = append(children, p.node(RulePrimaryKey, p.pos-1, p.pos))
	}
	if p.accept('+') {
		children = append(children, p.node(RuleForeignKey, p.pos-1, p.pos))
	}
	name := p.ident()
	if name == nil {
		p.pos = start
		return nil
	}
	children, end, ok := p.finishLine(append(children, name))
	if !ok {
		p.pos = start
		return nil
	}
	return p.node(RuleAttribute, start, end, children...)
}

func (p *parser) relationship() *Node {
	start := p.pos
	e1 := p.ident()
	if e1 == nil {
		return nil
	}
	p.skipWS()
	c1 := p.cardinality()
	if c1 == nil {
		p.pos = start
		return nil
	}
	if !strings.HasPrefix(p.src[p.pos:], "--") {
		p.fail("'--'")
		p.pos = start
		return nil
	}
	p.pos += 2
	c2 := p.cardinality()
	if c2 == nil {
		p.pos = start
		return nil
	}
	p.skipWS()
	e2 := p.ident()
	if e2 == nil {
		p.pos = start
		return nil
	}
	children, end, ok := p.finishLine([]*Node{e1, c1, c2, e2})
	if !ok {
		p.pos = start
		return nil
	}
	return p.node(RuleRelationship, start, end, children...)
}

func (p *parser) cardinality() *Node {
	switch p.peek() {
	case '?', '1', '*', '+':
		p.pos++
		return p.node(RuleCardinality, p.pos-1, p.pos)
	}
	p.fail(expectCardinality)
	return nil
}

// finishLine parses the optional same-line option block and the end of the
// line. It returns the children extended with the option block and the offset
// where the construct ends (before any trailing comment).
func (p *parser) finishLine(children []*Node) ([]*Node, int, bool) {
	save := p.pos
	p.skipWS()
	if p.peek() == '{' {
		opts := p.options()
		if opts == nil {
			return nil, 0, false
		}
		children = append(children, opts)
	} else {
		p.fail("option block")
		p.pos = save
	}
	end := p.pos
	if !p.eol() {
		return nil, 0, false
	}
	return children, end, true
}

// =============================================================================
// Identifiers
// =============================================================================

// ident matches a backtick-quoted, single/double-quoted or bare identifier,
// trying the quoted forms first.
func (p *parser) ident() *Node {
	start := p.pos
	var inner *Node
	switch c := p.peek(); c {
	case '`':
		inner = p.delimited(RuleBacktickIdent, c)
	case '"', '\'':
		inner = p.delimited(RuleQuotedIdent, c)
	default:
		inner = p.bareIdent()
	}
	if inner == nil {
		p.pos = start
		return nil
	}
	return p.node(RuleIdent, start, p.pos, inner)
}

func (p *parser) delimited(rule Rule, quote byte) *Node {
	start := p.pos
	p.pos++
	for !p.atEnd() && p.src[p.pos] != quote && p.src[p.pos] != '\n' {
		p.pos++
	}
	switch {
	case p.pos == start+1 && p.peek() == quote:
		p.fail("identifier")
	case p.accept(quote):
		return p.node(rule, start, p.pos)
	default:
		p.fail(fmt.Sprintf("closing %c", quote))
	}
	p.pos = start
	return nil
}

func (p *parser) bareIdent() *Node {
	start := p.pos
	for !p.atEnd() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if !isIdentRune(r) {
			break
		}
		p.pos += size
	}
	if p.pos == start {
		p.fail("identifier")
		return nil
	}
	return p.node(RuleBareIdent, start, p.pos)
}

// =============================================================================
// Option blocks
// =============================================================================

func (p *parser) options() *Node {
	start := p.pos
	if !p.expect('{', "'{'") {
		return nil
	}
	p.skipBlank()
	first := p.option()
	if first == nil {
		p.pos = start
		return nil
	}
	pairs := []*Node{first}
	for {
		save := p.pos
		p.skipBlank()
		if !p.accept(',') {
			p.fail("','")
			p.pos = save
			break
		}
		p.skipBlank()
		next := p.option()
		if next == nil {
			break // trailing comma
		}
		pairs = append(pairs, next)
	}
	p.skipBlank()
	if !p.expect('}', "'}'") {
		p.pos = start
		return nil
	}
	return p.node(RuleOptions, start, p.pos, pairs...)
}

func (p *parser) option() *Node {
	start := p.pos
	key := p.optionKey()
	if key == nil {
		return nil
	}
	p.skipWS()
	if !p.expect(':', "':'") {
		p.pos = start
		return nil
	}
	p.skipWS()
	value := p.optionValue()
	if value == nil {
		p.pos = start
		return nil
	}
	return p.node(RuleOption, start, p.pos, key, value)
}

func (p *parser) optionKey() *Node {
	start := p.pos
	if c := p.peek(); !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
		p.fail("option name")
		return nil
	}
	for !p.atEnd() && isKeyByte(p.src[p.pos]) {
		p.pos++
	}
	return p.node(RuleOptionKey, start, p.pos)
}

// optionValue matches a double-quoted value on a single line. Inside the
// quotes # is an ordinary character.
func (p *parser) optionValue() *Node {
	start := p.pos
	if !p.expect('"', "double-quoted value") {
		return nil
	}
	for !p.atEnd() && p.src[p.pos] != '"' && p.src[p.pos] != '\n' {
		p.pos++
	}
	if !p.accept('"') {
		p.fail(`closing '"'`)
		p.pos = start
		return nil
	}
	return p.node(RuleOptionValue, start, p.pos)
}
