package expr

import "fmt"

// TokenType identifies the kind of a lexed token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNumber
	TokenIdent
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenDot
	TokenComma
	TokenLParen
	TokenRParen
	TokenError
)

var tokenNames = map[TokenType]string{
	TokenEOF:    "EOF",
	TokenNumber: "number",
	TokenIdent:  "identifier",
	TokenPlus:   "'+'",
	TokenMinus:  "'-'",
	TokenStar:   "'*'",
	TokenSlash:  "'/'",
	TokenDot:    "'.'",
	TokenComma:  "','",
	TokenLParen: "'('",
	TokenRParen: "')'",
	TokenError:  "error",
}

// String returns a human-readable name for the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// Token is a single lexical unit of an expression.
type Token struct {
	Type    TokenType
	Literal string
	Line    int // 1-based
	Column  int // 1-based
}

// Position locates a token within the source text for error reporting.
type Position struct {
	Line   int
	Column int
}

// String formats the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
