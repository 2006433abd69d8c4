// Package syntax parses textual query expressions into specification terms
// for the compiler. The expression language exists for the CLI and the
// conformance harness; programs embedding the engine build terms directly.
//
// Grammar:
//
//	spec   := term { "," term }
//	term   := "!" ident                 negated attribute requirement
//	        | ident "(" [spec] ")"      filter: parent links to child via ident
//	        | "^" ident "(" [spec] ")"  filter: child links to parent via ident
//	        | "~" ident "(" [spec] ")"  filter: shared link target, not self
//	        | ident                     attribute requirement
//
// Example: "A, parent-of(B, parent-of(C))" selects entities with A linked to
// an entity with B that is in turn linked to an entity with C.
//
// Identifiers may contain letters, digits, '_', '-' and '.' and are
// NFC-normalized, matching the fixture loader.
package syntax

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/sift/internal/query"
	"github.com/roach88/sift/internal/world"
)

// Parse turns an expression into specification terms consumable by
// query.Compile.
func Parse(input string) ([]query.Term, error) {
	p := &parser{input: input}
	terms, err := p.parseSpec()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.input) {
		return nil, p.errorf("unexpected %q", rune(p.input[p.pos]))
	}
	return terms, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("offset %d: %s", p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) parseSpec() ([]query.Term, error) {
	var terms []query.Term
	for {
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)

		p.skipSpace()
		if !p.consume(',') {
			return terms, nil
		}
	}
}

func (p *parser) parseTerm() (query.Term, error) {
	p.skipSpace()

	negated := p.consume('!')
	inverse := !negated && p.consume('^')
	shared := !negated && !inverse && p.consume('~')

	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	if !p.consume('(') {
		if inverse || shared {
			return nil, p.errorf("relation %q requires an argument list", name)
		}
		if negated {
			return query.Not(query.Attr(name)), nil
		}
		return query.Has(query.Attr(name)), nil
	}
	if negated {
		return nil, p.errorf("cannot negate relation %q", name)
	}

	var nested []query.Term
	p.skipSpace()
	if !p.consume(')') {
		nested, err = p.parseSpec()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.consume(')') {
			return nil, p.errorf("expected ')' closing relation %q", name)
		}
	}

	var pred query.Predicate
	switch {
	case inverse:
		pred = world.LinkedBy(name)
	case shared:
		pred = world.SharesTarget(name)
	default:
		pred = world.Linked(name)
	}
	return query.NewRelation(pred)(nested...), nil
}

func (p *parser) parseIdent() (string, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.input) {
		r, size := utf8.DecodeRuneInString(p.input[p.pos:])
		if !identRune(r) {
			break
		}
		p.pos += size
	}
	if p.pos == start {
		return "", p.errorf("expected identifier")
	}
	return norm.NFC.String(p.input[start:p.pos]), nil
}

func identRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.'
}

func (p *parser) consume(b byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == b {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	p.pos += len(p.input[p.pos:]) - len(strings.TrimLeft(p.input[p.pos:], " \t\n"))
}
