package expr

// TokenType represents the type of a lexical token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota

	// Literals
	TokenNumber // integer or decimal literal
	TokenString // quoted string literal
	TokenBool   // true/false
	TokenIdent  // bare identifier (function name)

	// Question reference: {name}, {name[0]}, {row.col}
	TokenRef

	// Arithmetic operators
	TokenPlus    // +
	TokenMinus   // -
	TokenStar    // *
	TokenSlash   // /
	TokenPercent // %
	TokenCaret   // ^

	// Comparison operators
	TokenEQ // =
	TokenNE // !=
	TokenLT // <
	TokenGT // >
	TokenLE // <=
	TokenGE // >=

	// Logical operators
	TokenAnd // && / and
	TokenOr  // || / or
	TokenNot // ! / not

	// Delimiters
	TokenLParen // (
	TokenRParen // )
	TokenComma  // ,
)

// String returns the string representation of the token type.
func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenNumber:
		return "NUMBER"
	case TokenString:
		return "STRING"
	case TokenBool:
		return "BOOL"
	case TokenIdent:
		return "IDENT"
	case TokenRef:
		return "REF"
	case TokenPlus:
		return "+"
	case TokenMinus:
		return "-"
	case TokenStar:
		return "*"
	case TokenSlash:
		return "/"
	case TokenPercent:
		return "%"
	case TokenCaret:
		return "^"
	case TokenEQ:
		return "="
	case TokenNE:
		return "!="
	case TokenLT:
		return "<"
	case TokenGT:
		return ">"
	case TokenLE:
		return "<="
	case TokenGE:
		return ">="
	case TokenAnd:
		return "AND"
	case TokenOr:
		return "OR"
	case TokenNot:
		return "NOT"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenComma:
		return ","
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token.
// Tokens are produced by the Lexer and consumed immediately by the Parser.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int // byte offset in the source string
}
