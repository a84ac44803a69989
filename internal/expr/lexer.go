package expr

import "unicode/utf8"

// Lexer tokenizes expression text.
type Lexer struct {
	source  string
	pos     int  // current position in source
	readPos int  // next position to read
	ch      rune // current character
	line    int  // current line (1-based)
	column  int  // current column (1-based)

	// Track the start position of the current token
	tokenLine   int
	tokenColumn int

	errors *ErrorList
}

// NewLexer creates a new Lexer for the given source.
func NewLexer(source string) *Lexer {
	l := &Lexer{
		source: source,
		line:   1,
		column: 0,
		errors: NewErrorList(),
	}
	l.readChar()
	return l
}

// Errors returns any errors encountered during lexing.
func (l *Lexer) Errors() *ErrorList {
	return l.errors
}

// readChar advances to the next character in the source.
func (l *Lexer) readChar() {
	prevWasNewline := l.ch == '\n'

	if l.readPos >= len(l.source) {
		l.ch = 0 // EOF
		l.pos = l.readPos
	} else {
		r, size := utf8.DecodeRuneInString(l.source[l.readPos:])
		l.ch = r
		l.pos = l.readPos
		l.readPos += size
	}

	if prevWasNewline {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

// peekChar returns the next character without advancing.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.source) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.source[l.readPos:])
	return r
}

// startToken marks the beginning of a new token.
func (l *Lexer) startToken() {
	l.tokenLine = l.line
	l.tokenColumn = l.column
}

// makeToken creates a token with the current start position.
func (l *Lexer) makeToken(typ TokenType, literal string) Token {
	return Token{
		Type:    typ,
		Literal: literal,
		Line:    l.tokenLine,
		Column:  l.tokenColumn,
	}
}

// position returns the current token's Position for error reporting.
func (l *Lexer) position() Position {
	return Position{Line: l.tokenLine, Column: l.tokenColumn}
}

// skipWhitespace consumes spaces, tabs, and newlines.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' {
		l.readChar()
	}
}

// Next returns the next token from the source.
func (l *Lexer) Next() Token {
	l.skipWhitespace()
	l.startToken()

	switch l.ch {
	case 0:
		return l.makeToken(TokenEOF, "")

	case '+':
		l.readChar()
		return l.makeToken(TokenPlus, "+")

	case '-':
		l.readChar()
		return l.makeToken(TokenMinus, "-")

	case '*':
		l.readChar()
		return l.makeToken(TokenStar, "*")

	case '/':
		l.readChar()
		return l.makeToken(TokenSlash, "/")

	case ',':
		l.readChar()
		return l.makeToken(TokenComma, ",")

	case '(':
		l.readChar()
		return l.makeToken(TokenLParen, "(")

	case ')':
		l.readChar()
		return l.makeToken(TokenRParen, ")")

	case '.':
		// Could be member access or a number like .5
		if isDigit(l.peekChar()) {
			return l.readNumber()
		}
		l.readChar()
		return l.makeToken(TokenDot, ".")

	default:
		if isLetter(l.ch) {
			return l.readIdentifier()
		}
		if isDigit(l.ch) {
			return l.readNumber()
		}

		ch := l.ch
		l.readChar()
		l.errors.AddErrorf(l.position(), "unexpected character %q", ch)
		return l.makeToken(TokenError, string(ch))
	}
}

// readIdentifier reads a symbol name: a letter or underscore followed by
// letters, digits, or underscores. Qualified names ("other.right") are lexed
// as identifier, dot, identifier and assembled by the parser.
func (l *Lexer) readIdentifier() Token {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.makeToken(TokenIdent, l.source[start:l.pos])
}

// readNumber reads a decimal literal with an optional fraction and exponent.
func (l *Lexer) readNumber() Token {
	start := l.pos

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume .
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if !isDigit(l.ch) {
			l.errors.AddErrorf(l.position(), "malformed numeric literal %q", l.source[start:l.pos])
			return l.makeToken(TokenError, l.source[start:l.pos])
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	return l.makeToken(TokenNumber, l.source[start:l.pos])
}

func isLetter(ch rune) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
