package tagql

import (
	"strings"
	"unicode/utf8"
)

// TokenType represents the type of a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal
	TokenPattern  // tag or value pattern, e.g. f(ab|cd).*e
	TokenBookmark // {path}; Value holds the path
	TokenLParen
	TokenRParen
	TokenAnd
	TokenOr
	TokenNot
	TokenCompare // ==, !=, <, <=, >, >=
)

var tokenNames = [...]string{
	TokenEOF:      "EOF",
	TokenIllegal:  "ILLEGAL",
	TokenPattern:  "PATTERN",
	TokenBookmark: "BOOKMARK",
	TokenLParen:   "(",
	TokenRParen:   ")",
	TokenAnd:      "AND",
	TokenOr:       "OR",
	TokenNot:      "NOT",
	TokenCompare:  "COMPARE",
}

func (t TokenType) String() string {
	if t < 0 || int(t) >= len(tokenNames) {
		return "UNKNOWN"
	}
	return tokenNames[t]
}

// Token represents a lexical token. Pos and End are byte offsets into the
// input; End is exclusive.
type Token struct {
	Type  TokenType
	Value string
	Op    CompareOp // set for TokenCompare
	Pos   int
	End   int
}

const eof = -1

// Lexer tokenizes query input. Which tokens are recognised depends on
// whether the parser expects an operand or an operator, because tag
// patterns may contain characters such as | and ( verbatim. The Peek
// methods never move the lexer; Consume does.
type Lexer struct {
	input   string
	pos     int
	variant Variant
}

// NewLexer creates a new Lexer for the given input.
func NewLexer(input string, v Variant) *Lexer {
	return &Lexer{input: input, variant: v}
}

// Pos returns the current byte offset.
func (l *Lexer) Pos() int {
	return l.pos
}

// Consume moves the lexer past tok.
func (l *Lexer) Consume(tok Token) {
	l.pos = tok.End
}

// AtEOF reports whether only spaces remain.
func (l *Lexer) AtEOF() bool {
	return l.skipSpace(l.pos) == len(l.input)
}

func (l *Lexer) skipSpace(pos int) int {
	for pos < len(l.input) && l.input[pos] == ' ' {
		pos++
	}
	return pos
}

func (l *Lexer) runeAt(pos int) (rune, int) {
	if pos >= len(l.input) {
		return eof, 0
	}
	return utf8.DecodeRuneInString(l.input[pos:])
}

// word returns the end of the run of name runes starting at pos.
func (l *Lexer) word(pos int) int {
	for {
		r, size := l.runeAt(pos)
		if r == eof || !l.variant.isNameRune(r) {
			return pos
		}
		pos += size
	}
}

// PeekOperand returns the token starting the next operand: a pattern, a
// bookmark, an opening parenthesis or NOT.
func (l *Lexer) PeekOperand() (Token, error) {
	pos := l.skipSpace(l.pos)
	r, size := l.runeAt(pos)
	switch {
	case r == eof:
		return Token{Type: TokenEOF, Pos: pos, End: pos}, nil
	case r == '!':
		return Token{Type: TokenNot, Value: "!", Pos: pos, End: pos + 1}, nil
	case r == '{' && l.variant.Bookmarks:
		return l.scanBookmark(pos)
	case r == '(':
		// A complete pattern such as (foo|bar) wins over a parenthesised
		// expression.
		if end, err := l.scanPattern(pos); err == nil {
			return Token{Type: TokenPattern, Value: l.input[pos:end], Pos: pos, End: end}, nil
		}
		return Token{Type: TokenLParen, Value: "(", Pos: pos, End: pos + 1}, nil
	case l.variant.isNameRune(r):
		if end := l.word(pos); strings.EqualFold(l.input[pos:end], "not") && l.startsOperand(end) {
			return Token{Type: TokenNot, Value: l.input[pos:end], Pos: pos, End: end}, nil
		}
		fallthrough
	case isMetaRune(r):
		end, err := l.scanPattern(pos)
		if err != nil {
			return Token{}, err
		}
		return Token{Type: TokenPattern, Value: l.input[pos:end], Pos: pos, End: end}, nil
	}
	return Token{Type: TokenIllegal, Value: l.input[pos : pos+size], Pos: pos, End: pos + size}, nil
}

// startsOperand reports whether an operand begins at pos, after spaces.
// It decides whether a leading "not" is the operator or a tag name.
func (l *Lexer) startsOperand(pos int) bool {
	pos = l.skipSpace(pos)
	if rest := l.input[pos:]; strings.HasPrefix(rest, "||") || strings.HasPrefix(rest, "!=") {
		return false
	}
	r, _ := l.runeAt(pos)
	return r == '(' || r == '!' || r == '{' || l.variant.isNameRune(r) || isMetaRune(r)
}

// PeekOperator returns the binary operator, closing parenthesis or EOF that
// follows an operand. Anything else is returned as TokenIllegal.
func (l *Lexer) PeekOperator() Token {
	pos := l.skipSpace(l.pos)
	rest := l.input[pos:]
	switch {
	case rest == "":
		return Token{Type: TokenEOF, Pos: pos, End: pos}
	case strings.HasPrefix(rest, "&&"):
		return Token{Type: TokenAnd, Value: "&&", Pos: pos, End: pos + 2}
	case strings.HasPrefix(rest, "||"):
		return Token{Type: TokenOr, Value: "||", Pos: pos, End: pos + 2}
	case rest[0] == ')':
		return Token{Type: TokenRParen, Value: ")", Pos: pos, End: pos + 1}
	}
	end := l.word(pos)
	switch w := l.input[pos:end]; {
	case strings.EqualFold(w, "and"):
		return Token{Type: TokenAnd, Value: w, Pos: pos, End: end}
	case strings.EqualFold(w, "or"):
		return Token{Type: TokenOr, Value: w, Pos: pos, End: end}
	}
	_, size := l.runeAt(pos)
	return Token{Type: TokenIllegal, Value: rest[:size], Pos: pos, End: pos + size}
}

// isQueryRune reports whether r can appear anywhere in a query of the
// lexer's variant.
func (l *Lexer) isQueryRune(r rune) bool {
	switch r {
	case ' ', '(', ')', '!', '=', '<', '>', '&':
		return true
	}
	return l.variant.isNameRune(r) || isMetaRune(r)
}

// PeekCompare returns the comparison operator following a pattern, if any.
func (l *Lexer) PeekCompare() (Token, bool, error) {
	pos := l.skipSpace(l.pos)
	rest := l.input[pos:]
	var (
		op  CompareOp
		n   = 2
		tok string
	)
	switch {
	case strings.HasPrefix(rest, "=="):
		op = OpEq
	case strings.HasPrefix(rest, "!="):
		if !l.variant.NotEqual {
			return Token{}, false, syntaxErrorf(ErrUnexpectedCharacter, pos, "operator != is not supported by the %s grammar", l.variant)
		}
		op = OpNotEq
	case strings.HasPrefix(rest, "<="):
		op = OpLtEq
	case strings.HasPrefix(rest, ">="):
		op = OpGtEq
	case strings.HasPrefix(rest, "<"):
		op, n = OpLt, 1
	case strings.HasPrefix(rest, ">"):
		op, n = OpGt, 1
	default:
		return Token{}, false, nil
	}
	tok = rest[:n]
	return Token{Type: TokenCompare, Value: tok, Op: op, Pos: pos, End: pos + n}, true, nil
}

// PeekValue returns the value pattern on the right of a comparison.
func (l *Lexer) PeekValue() (Token, error) {
	pos := l.skipSpace(l.pos)
	r, size := l.runeAt(pos)
	if r == eof {
		return Token{}, syntaxErrorf(ErrUnexpectedEOF, pos, "expected value pattern")
	}
	end, err := l.scanPattern(pos)
	if err != nil {
		return Token{}, err
	}
	if end == pos {
		return Token{}, syntaxErrorf(ErrUnexpectedCharacter, pos, "expected value pattern, found %q", l.input[pos:pos+size])
	}
	return Token{Type: TokenPattern, Value: l.input[pos:end], Pos: pos, End: end}, nil
}

// scanPattern scans one-or-more pattern fragments starting at pos and
// returns the end offset. It returns pos itself if no fragment starts there.
func (l *Lexer) scanPattern(pos int) (int, *Error) {
	for {
		r, size := l.runeAt(pos)
		switch {
		case r == eof:
			return pos, nil
		case r == '(':
			end, err := l.scanGroup(pos)
			if err != nil {
				return pos, err
			}
			pos = end
		case l.variant.isNameRune(r) || isMetaRune(r):
			pos += size
		default:
			return pos, nil
		}
	}
}

// scanGroup scans a regex group "(" fragments ")" starting at the "(".
func (l *Lexer) scanGroup(start int) (int, *Error) {
	end, err := l.scanPattern(start + 1)
	if err != nil {
		return start, err
	}
	r, _ := l.runeAt(end)
	switch {
	case r == ')' && end > start+1:
		return end + 1, nil
	case r == ')':
		return start, syntaxErrorf(ErrUnexpectedCharacter, end, "empty group")
	}
	return start, syntaxError(ErrUnterminatedGroup, start)
}

func (l *Lexer) scanBookmark(start int) (Token, error) {
	i := strings.IndexByte(l.input[start+1:], '}')
	switch {
	case i < 0:
		return Token{}, syntaxErrorf(ErrUnterminatedGroup, start, "bookmark is missing '}'")
	case i == 0:
		return Token{}, syntaxErrorf(ErrUnexpectedCharacter, start+1, "empty bookmark")
	}
	end := start + 1 + i + 1
	return Token{Type: TokenBookmark, Value: l.input[start+1 : end-1], Pos: start, End: end}, nil
}
