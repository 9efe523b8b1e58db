package expr

import (
	"strings"
	"unicode"
)

// Lexer tokenizes expression strings.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // current reading position (after current char)
	ch      byte // current char under examination
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// Tokenize converts the whole source string into a token sequence,
// terminated by a TokenEOF token. It returns a *LexError on an
// unterminated string literal or an unrecognized character.
func Tokenize(source string) ([]Token, error) {
	l := NewLexer(source)
	var toks []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks, nil
		}
	}
}

// readChar reads the next character and advances the position.
func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0 // ASCII NUL signifies EOF
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
}

// peekChar returns the next character without advancing the position.
func (l *Lexer) peekChar() byte {
	if l.readPos >= len(l.input) {
		return 0
	}
	return l.input[l.readPos]
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	pos := l.pos
	var tok Token

	switch l.ch {
	case '+':
		tok = Token{Type: TokenPlus, Literal: "+", Pos: pos}
	case '-':
		tok = Token{Type: TokenMinus, Literal: "-", Pos: pos}
	case '*':
		tok = Token{Type: TokenStar, Literal: "*", Pos: pos}
	case '/':
		tok = Token{Type: TokenSlash, Literal: "/", Pos: pos}
	case '%':
		tok = Token{Type: TokenPercent, Literal: "%", Pos: pos}
	case '^':
		tok = Token{Type: TokenCaret, Literal: "^", Pos: pos}
	case '(':
		tok = Token{Type: TokenLParen, Literal: "(", Pos: pos}
	case ')':
		tok = Token{Type: TokenRParen, Literal: ")", Pos: pos}
	case ',':
		tok = Token{Type: TokenComma, Literal: ",", Pos: pos}
	case '=':
		// Both = and == mean equality.
		if l.peekChar() == '=' {
			l.readChar()
		}
		tok = Token{Type: TokenEQ, Literal: "=", Pos: pos}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenNE, Literal: "!=", Pos: pos}
		} else {
			tok = Token{Type: TokenNot, Literal: "!", Pos: pos}
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenLE, Literal: "<=", Pos: pos}
		} else {
			tok = Token{Type: TokenLT, Literal: "<", Pos: pos}
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = Token{Type: TokenGE, Literal: ">=", Pos: pos}
		} else {
			tok = Token{Type: TokenGT, Literal: ">", Pos: pos}
		}
	case '&':
		if l.peekChar() != '&' {
			return Token{}, &LexError{Pos: pos, Message: "unexpected character '&'"}
		}
		l.readChar()
		tok = Token{Type: TokenAnd, Literal: "&&", Pos: pos}
	case '|':
		if l.peekChar() != '|' {
			return Token{}, &LexError{Pos: pos, Message: "unexpected character '|'"}
		}
		l.readChar()
		tok = Token{Type: TokenOr, Literal: "||", Pos: pos}
	case '{':
		return l.readRef()
	case '\'', '"':
		return l.readString()
	case 0:
		return Token{Type: TokenEOF, Literal: "", Pos: pos}, nil
	default:
		if isDigit(l.ch) {
			return l.readNumber(), nil
		}
		if isLetter(l.ch) {
			return l.readIdentifier(), nil
		}
		return Token{}, &LexError{Pos: pos, Message: "unrecognized character " + quoteChar(l.ch)}
	}

	l.readChar()
	return tok, nil
}

// skipWhitespace skips whitespace characters.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

// readIdentifier reads an identifier or word operator.
func (l *Lexer) readIdentifier() Token {
	pos := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	literal := l.input[pos:l.pos]
	switch strings.ToLower(literal) {
	case "and":
		return Token{Type: TokenAnd, Literal: literal, Pos: pos}
	case "or":
		return Token{Type: TokenOr, Literal: literal, Pos: pos}
	case "not":
		return Token{Type: TokenNot, Literal: literal, Pos: pos}
	case "true", "false":
		return Token{Type: TokenBool, Literal: strings.ToLower(literal), Pos: pos}
	}
	return Token{Type: TokenIdent, Literal: literal, Pos: pos}
}

// readNumber reads an integer or decimal literal.
func (l *Lexer) readNumber() Token {
	pos := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return Token{Type: TokenNumber, Literal: l.input[pos:l.pos], Pos: pos}
}

// readString reads a single- or double-quoted string literal.
func (l *Lexer) readString() (Token, error) {
	pos := l.pos
	quote := l.ch
	l.readChar() // consume opening quote

	start := l.pos
	for l.ch != quote {
		if l.ch == 0 {
			return Token{}, &LexError{Pos: pos, Message: "unterminated string literal"}
		}
		l.readChar()
	}
	literal := l.input[start:l.pos]
	l.readChar() // consume closing quote
	return Token{Type: TokenString, Literal: literal, Pos: pos}, nil
}

// readRef reads a braced question reference {name}, {name[0]} or {row.col}.
// The token literal is the inner path text without braces.
func (l *Lexer) readRef() (Token, error) {
	pos := l.pos
	l.readChar() // consume '{'

	start := l.pos
	for l.ch != '}' {
		if l.ch == 0 {
			return Token{}, &LexError{Pos: pos, Message: "unterminated reference"}
		}
		l.readChar()
	}
	literal := l.input[start:l.pos]
	l.readChar() // consume '}'
	if strings.TrimSpace(literal) == "" {
		return Token{}, &LexError{Pos: pos, Message: "empty reference"}
	}
	return Token{Type: TokenRef, Literal: strings.TrimSpace(literal), Pos: pos}, nil
}

func isLetter(ch byte) bool {
	return unicode.IsLetter(rune(ch)) || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func quoteChar(ch byte) string {
	return "'" + string(ch) + "'"
}
