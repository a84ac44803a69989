package expr

import "strconv"

// Parser parses expression text into Expression trees.
//
// Grammar:
//
//	expr   := term (('+' | '-') term)*
//	term   := factor (('*' | '/') factor)*
//	factor := number | symbol | '(' expr ')' | '-' factor | symbol '(' expr (',' expr)* ')'
//	symbol := identifier ('.' identifier)?
type Parser struct {
	lexer   *Lexer
	current Token
	peek    Token
	errors  *ErrorList
	folded  int
}

// NewParser creates a Parser for the given source text.
func NewParser(source string) *Parser {
	p := &Parser{
		lexer:  NewLexer(source),
		errors: NewErrorList(),
	}
	// Read two tokens to initialize current and peek
	p.advance()
	p.advance()
	return p
}

// Parse parses the source as a single expression, requiring the whole input
// to be consumed.
func Parse(source string) (Expression, error) {
	p := NewParser(source)
	e := p.parseExpr()
	if p.current.Type != TokenEOF && !p.errors.HasErrors() {
		p.errors.AddErrorf(p.position(), "unexpected %s after expression", p.current.Type)
	}
	if err := p.Err(); err != nil {
		return Expression{}, err
	}
	return e, nil
}

// Errors returns any errors encountered during parsing.
func (p *Parser) Errors() *ErrorList {
	return p.errors
}

// Err folds lexer and parser errors into a single error, or nil. Lexer
// errors are folded once even when called repeatedly across chained parses.
func (p *Parser) Err() error {
	lexErrs := p.lexer.Errors().Errors()
	for _, e := range lexErrs[p.folded:] {
		p.errors.Add(e)
	}
	p.folded = len(lexErrs)
	return p.errors.Err()
}

// AtEOF reports whether the whole input has been consumed.
func (p *Parser) AtEOF() bool {
	return p.current.Type == TokenEOF
}

// ParseChained parses one expression and consumes a single optional trailing
// comma, leaving the parser positioned at the next expression. Callers use it
// to read several comma-separated expressions from one buffer.
func (p *Parser) ParseChained() (Expression, error) {
	e := p.parseExpr()
	if p.current.Type == TokenComma {
		p.advance()
	}
	if err := p.Err(); err != nil {
		return Expression{}, err
	}
	return e, nil
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.current = p.peek
	p.peek = p.lexer.Next()
}

// position returns the current token's position.
func (p *Parser) position() Position {
	return Position{Line: p.current.Line, Column: p.current.Column}
}

// expect checks that the current token matches the expected type and
// advances. Returns false (and records an error) otherwise.
func (p *Parser) expect(typ TokenType) bool {
	if p.current.Type == typ {
		p.advance()
		return true
	}
	p.errors.AddErrorf(p.position(), "expected %s, got %s", typ, p.current.Type)
	return false
}

func (p *Parser) parseExpr() Expression {
	left := p.parseTerm()
	for p.current.Type == TokenPlus || p.current.Type == TokenMinus {
		op := p.current.Literal
		p.advance()
		right := p.parseTerm()
		left = newOperator(op, left, right)
	}
	return left
}

func (p *Parser) parseTerm() Expression {
	left := p.parseFactor()
	for p.current.Type == TokenStar || p.current.Type == TokenSlash {
		op := p.current.Literal
		p.advance()
		right := p.parseFactor()
		left = newOperator(op, left, right)
	}
	return left
}

func (p *Parser) parseFactor() Expression {
	switch p.current.Type {
	case TokenNumber:
		return p.parseNumber()

	case TokenMinus:
		p.advance()
		return negate(p.parseFactor())

	case TokenLParen:
		p.advance()
		e := p.parseExpr()
		p.expect(TokenRParen)
		return e

	case TokenIdent:
		return p.parseSymbol()

	case TokenEOF, TokenComma, TokenRParen:
		p.errors.AddErrorf(p.position(), "expected an operand, got %s", p.current.Type)
		return Expression{}

	default:
		p.errors.AddErrorf(p.position(), "unexpected %s", p.current.Type)
		p.advance()
		return Expression{}
	}
}

func (p *Parser) parseNumber() Expression {
	lit := p.current.Literal
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		p.errors.AddErrorf(p.position(), "malformed numeric literal %q", lit)
		p.advance()
		return Expression{}
	}
	p.advance()
	return Constant(v)
}

// parseSymbol parses a bare symbol, a qualified reference ("other.right",
// built as a member-access operator), or a function call.
func (p *Parser) parseSymbol() Expression {
	name := p.current.Literal

	if p.peek.Type == TokenDot {
		p.advance() // onto '.'
		p.advance() // onto attribute
		if p.current.Type != TokenIdent {
			p.errors.AddErrorf(p.position(), "expected an attribute name after %q.", name)
			return Expression{}
		}
		attr := p.current.Literal
		p.advance()
		return newOperator(OpMemberAccess, Symbol(name), Symbol(attr))
	}

	if p.peek.Type == TokenLParen {
		p.advance() // onto '('
		p.advance() // past '('
		var args []Expression
		if p.current.Type != TokenRParen {
			args = append(args, p.parseExpr())
			for p.current.Type == TokenComma {
				p.advance()
				args = append(args, p.parseExpr())
			}
		}
		p.expect(TokenRParen)
		return Function(name, args...)
	}

	p.advance()
	return Symbol(name)
}
