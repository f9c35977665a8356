package tagql

// Parser parses tag queries into an AST.
type Parser struct {
	lexer *Lexer
	// open holds the offsets of unclosed parentheses.
	open []int
}

// Parse parses the input string and returns the AST root node.
// Precedence from loosest to tightest is OR, AND, NOT, comparison; both
// binary operators are left-associative.
func Parse(input string, v Variant) (Node, error) {
	p := &Parser{lexer: NewLexer(input, v)}
	if p.lexer.AtEOF() {
		return nil, syntaxError(ErrEmptyQuery, 0)
	}
	node, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	tok := p.lexer.PeekOperator()
	switch {
	case tok.Type == TokenEOF:
	case tok.Type == TokenIllegal && !p.lexer.isQueryRune([]rune(tok.Value)[0]):
		return nil, syntaxErrorf(ErrUnexpectedCharacter, tok.Pos, "unexpected %q", tok.Value)
	default:
		return nil, syntaxErrorf(ErrTrailingInput, tok.Pos, "unexpected %q after expression", tok.Value)
	}
	return node, nil
}

// parseOr handles OR expressions (lowest precedence).
func (p *Parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.lexer.PeekOperator()
		if tok.Type != TokenOr {
			return left, nil
		}
		p.lexer.Consume(tok)
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: OpOr, Left: left, Right: right}
	}
}

// parseAnd handles AND expressions.
func (p *Parser) parseAnd() (Node, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.lexer.PeekOperator()
		if tok.Type != TokenAnd {
			return left, nil
		}
		p.lexer.Consume(tok)
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: OpAnd, Left: left, Right: right}
	}
}

// parseNot handles NOT expressions. Double negation is kept as two nodes.
func (p *Parser) parseNot() (Node, error) {
	tok, err := p.lexer.PeekOperand()
	if err != nil {
		return nil, err
	}
	if tok.Type == TokenNot {
		p.lexer.Consume(tok)
		expr, err := p.parseNot() // NOT is right-associative
		if err != nil {
			return nil, err
		}
		return NotExpr{Expr: expr}, nil
	}
	return p.parseComparison(tok)
}

// parseComparison handles pattern OP value, falling back to a primary.
func (p *Parser) parseComparison(tok Token) (Node, error) {
	if tok.Type != TokenPattern {
		return p.parsePrimary(tok)
	}
	p.lexer.Consume(tok)

	cmp, ok, err := p.lexer.PeekCompare()
	if err != nil {
		return nil, err
	}
	if !ok {
		return TagExpr{Pattern: tok.Value}, nil
	}
	p.lexer.Consume(cmp)

	value, err := p.lexer.PeekValue()
	if err != nil {
		return nil, err
	}
	p.lexer.Consume(value)
	return CompareExpr{Pattern: tok.Value, Op: cmp.Op, Value: value.Value}, nil
}

// parsePrimary handles (expr) and {bookmark}.
func (p *Parser) parsePrimary(tok Token) (Node, error) {
	switch tok.Type {
	case TokenLParen:
		p.lexer.Consume(tok)
		p.open = append(p.open, tok.Pos)
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		closing := p.lexer.PeekOperator()
		switch closing.Type {
		case TokenRParen:
		case TokenEOF:
			return nil, syntaxErrorf(ErrUnterminatedGroup, tok.Pos, "missing ')'")
		default:
			return nil, syntaxErrorf(ErrUnexpectedCharacter, closing.Pos, "expected ')' but found %q", closing.Value)
		}
		p.lexer.Consume(closing)
		p.open = p.open[:len(p.open)-1]
		return expr, nil

	case TokenBookmark:
		p.lexer.Consume(tok)
		return BookmarkExpr{Path: tok.Value}, nil

	case TokenEOF:
		if n := len(p.open); n > 0 {
			return nil, syntaxErrorf(ErrUnexpectedEOF, tok.Pos, "expected operand inside group opened at offset %d", p.open[n-1])
		}
		return nil, syntaxErrorf(ErrUnexpectedEOF, tok.Pos, "expected operand")

	default:
		return nil, syntaxErrorf(ErrUnexpectedCharacter, tok.Pos, "unexpected %q", tok.Value)
	}
}
