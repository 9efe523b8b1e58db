package expr

import (
	"strconv"
)

// Parser builds an expression AST from a token stream using a
// fixed-precedence grammar. Precedence, highest to lowest:
//
//	unary (! not -)
//	^ (right-associative)
//	* / %
//	+ -
//	< > <= >=
//	= !=
//	&& and
//	|| or
type Parser struct {
	toks []Token
	pos  int
}

// NewParser creates a Parser over a token sequence produced by Tokenize.
func NewParser(toks []Token) *Parser {
	return &Parser{toks: toks}
}

// Parse tokenizes and parses an expression string in one step.
// Parsing is deterministic: the same source always yields a
// structurally identical AST.
func Parse(source string) (Node, error) {
	toks, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks)
}

// ParseTokens parses a token sequence into an AST. It returns a
// *ParseError on malformed input.
func ParseTokens(toks []Token) (Node, error) {
	p := NewParser(toks)
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.cur(); tok.Type != TokenEOF {
		return nil, &ParseError{Pos: tok.Pos, Expected: "end of expression", Got: tok.Literal}
	}
	return node, nil
}

func (p *Parser) cur() Token {
	if p.pos >= len(p.toks) {
		return Token{Type: TokenEOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() Token {
	tok := p.cur()
	p.pos++
	return tok
}

// parseOr parses || expressions (lowest precedence).
func (p *Parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: "||", Left: left, Right: right}
	}
	return left, nil
}

// parseAnd parses && expressions.
func (p *Parser) parseAnd() (Node, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == TokenAnd {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &Logical{Op: "&&", Left: left, Right: right}
	}
	return left, nil
}

// parseEquality parses = and != expressions.
func (p *Parser) parseEquality() (Node, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.cur().Type {
		case TokenEQ:
			op = "="
		case TokenNE:
			op = "!="
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

// parseRelational parses < > <= >= expressions.
func (p *Parser) parseRelational() (Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.cur().Type {
		case TokenLT:
			op = "<"
		case TokenGT:
			op = ">"
		case TokenLE:
			op = "<="
		case TokenGE:
			op = ">="
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

// parseAdditive parses + and - expressions. + doubles as string
// concatenation when either operand is textual.
func (p *Parser) parseAdditive() (Node, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.cur().Type {
		case TokenPlus:
			op = "+"
		case TokenMinus:
			op = "-"
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

// parseMultiplicative parses * / % expressions.
func (p *Parser) parseMultiplicative() (Node, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for {
		var op string
		switch p.cur().Type {
		case TokenStar:
			op = "*"
		case TokenSlash:
			op = "/"
		case TokenPercent:
			op = "%"
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
}

// parsePower parses right-associative ^ expressions.
func (p *Parser) parsePower() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.cur().Type == TokenCaret {
		p.advance()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return &Binary{Op: "^", Left: left, Right: right}, nil
	}
	return left, nil
}

// parseUnary parses prefix ! not - expressions.
func (p *Parser) parseUnary() (Node, error) {
	switch p.cur().Type {
	case TokenNot:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: "!", Operand: operand}, nil
	case TokenMinus:
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: "-", Operand: operand}, nil
	}
	return p.parsePrimary()
}

// parsePrimary parses literals, references, calls and parenthesized
// expressions.
func (p *Parser) parsePrimary() (Node, error) {
	tok := p.cur()
	switch tok.Type {
	case TokenLParen:
		p.advance()
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.cur().Type != TokenRParen {
			return nil, &ParseError{Pos: p.cur().Pos, Expected: ")", Got: p.cur().Literal}
		}
		p.advance()
		return inner, nil

	case TokenRef:
		p.advance()
		path, err := ParsePath(tok.Literal)
		if err != nil {
			return nil, &ParseError{Pos: tok.Pos, Expected: "reference path", Got: tok.Literal}
		}
		return &Ref{Path: path}, nil

	case TokenNumber:
		p.advance()
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, &ParseError{Pos: tok.Pos, Expected: "number", Got: tok.Literal}
		}
		return &Literal{Value: Number(f)}, nil

	case TokenString:
		p.advance()
		return &Literal{Value: Text(tok.Literal)}, nil

	case TokenBool:
		p.advance()
		return &Literal{Value: Bool(tok.Literal == "true")}, nil

	case TokenIdent:
		return p.parseCall()

	case TokenEOF:
		return nil, &ParseError{Pos: tok.Pos, Expected: "expression", Got: "end of input"}

	default:
		return nil, &ParseError{Pos: tok.Pos, Expected: "expression", Got: tok.Literal}
	}
}

// parseCall parses a function call. A bare identifier must be followed
// by an argument list.
func (p *Parser) parseCall() (Node, error) {
	name := p.advance()
	if p.cur().Type != TokenLParen {
		return nil, &ParseError{Pos: p.cur().Pos, Expected: "( after " + name.Literal, Got: p.cur().Literal}
	}
	p.advance()

	var args []Node
	if p.cur().Type != TokenRParen {
		for {
			arg, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.cur().Type != TokenComma {
				break
			}
			p.advance()
		}
	}
	if p.cur().Type != TokenRParen {
		return nil, &ParseError{Pos: p.cur().Pos, Expected: ")", Got: p.cur().Literal}
	}
	p.advance()
	return &Call{Name: name.Literal, Args: args}, nil
}
