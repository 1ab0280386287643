package syntax

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"bcc/report"
)

// Lexer splits B source text into tokens.  Positions are zero-indexed and a tab
// counts as four columns, matching how source excerpts are displayed.
type Lexer struct {
	src    *bufio.Reader
	lexeme strings.Builder

	line, col           int
	startLine, startCol int
}

// NewLexer returns a lexer reading from src.
func NewLexer(src *bufio.Reader) *Lexer {
	return &Lexer{src: src}
}

// NextToken returns the next token of the source.  Once the source is
// exhausted, every call returns an EOF token.
func (l *Lexer) NextToken() (*Token, error) {
	for {
		c, err := l.lookahead()
		if err != nil {
			return nil, err
		}

		switch {
		case c == -1:
			l.begin()
			return &Token{Kind: TOK_EOF, Span: l.span()}, nil
		case unicode.IsSpace(c):
			l.advance(false)
		case c == '/':
			// comments produce no token: keep scanning
			if tok, err := l.lexSlash(); tok != nil || err != nil {
				return tok, err
			}
		case c == '\'':
			return l.lexChar()
		case c == '"':
			l.begin()
			l.advance(false)
			return nil, report.Raise(l.span(), "string literals are not supported")
		case isDigit(c):
			return l.lexNumber()
		case isWordStart(c):
			return l.lexWord()
		default:
			return l.lexSymbol()
		}
	}
}

// -----------------------------------------------------------------------------

// symbols holds every operator and punctuation lexeme.  `/` is absent since it
// may also open a comment.
var symbols = map[string]int{
	"+":  TOK_PLUS,
	"-":  TOK_MINUS,
	"*":  TOK_STAR,
	"==": TOK_EQ,
	"!=": TOK_NEQ,
	"<":  TOK_LT,
	"<=": TOK_LTEQ,
	">":  TOK_GT,
	">=": TOK_GTEQ,
	"!":  TOK_NOT,
	"=":  TOK_ASSIGN,
	"++": TOK_INC,
	"--": TOK_DEC,
	"(":  TOK_LPAREN,
	")":  TOK_RPAREN,
	"{":  TOK_LBRACE,
	"}":  TOK_RBRACE,
	"[":  TOK_LBRACKET,
	"]":  TOK_RBRACKET,
	",":  TOK_COMMA,
	";":  TOK_SEMI,
	":":  TOK_COLON,
}

// lexSymbol lexes the longest operator or punctuation symbol at the current
// position.
func (l *Lexer) lexSymbol() (*Token, error) {
	l.begin()
	l.advance(true)

	kind, ok := symbols[l.lexeme.String()]
	if !ok {
		return nil, report.Raise(l.span(), "unknown rune: `%s`", l.lexeme.String())
	}

	for {
		c, err := l.lookahead()
		if err != nil {
			return nil, err
		} else if c == -1 {
			break
		}

		longer, ok := symbols[l.lexeme.String()+string(c)]
		if !ok {
			break
		}

		l.advance(true)
		kind = longer
	}

	return l.emit(kind), nil
}

// -----------------------------------------------------------------------------

// keywords maps the reserved words to their token kinds.
var keywords = map[string]int{
	"auto":   TOK_AUTO,
	"extrn":  TOK_EXTRN,
	"if":     TOK_IF,
	"else":   TOK_ELSE,
	"while":  TOK_WHILE,
	"goto":   TOK_GOTO,
	"return": TOK_RETURN,
}

// lexWord lexes an identifier or a keyword.
func (l *Lexer) lexWord() (*Token, error) {
	l.begin()
	if err := l.advanceWhile(func(c rune) bool { return isWordStart(c) || isDigit(c) }); err != nil {
		return nil, err
	}

	if kind, ok := keywords[l.lexeme.String()]; ok {
		return l.emit(kind), nil
	}

	return l.emit(TOK_IDENT), nil
}

// -----------------------------------------------------------------------------

// lexNumber lexes a numeric literal.  A leading zero makes the literal octal;
// the digits are checked against the base by the parser.
func (l *Lexer) lexNumber() (*Token, error) {
	l.begin()
	if err := l.advanceWhile(isDigit); err != nil {
		return nil, err
	}

	c, err := l.lookahead()
	if err != nil {
		return nil, err
	} else if isWordStart(c) {
		l.advance(true)
		return nil, report.Raise(l.span(), "malformed numeric literal")
	}

	return l.emit(TOK_NUMLIT), nil
}

// maxCharLitLen is the number of characters that fit in a word.
const maxCharLitLen = 8

// escapes maps the character following a `*` to the character it stands for.
var escapes = map[rune]rune{
	'0':  0,
	'e':  4,
	'(':  '{',
	')':  '}',
	'<':  '[',
	'>':  ']',
	't':  '\t',
	'b':  '\b',
	'f':  '\f',
	'v':  '\v',
	'*':  '*',
	'\'': '\'',
	'"':  '"',
	'n':  '\n',
	'r':  '\r',
}

// lexChar lexes a character constant.  The token value holds the decoded
// characters without the quotes.
func (l *Lexer) lexChar() (*Token, error) {
	l.begin()
	l.advance(false)

	for n := 0; ; n++ {
		c, err := l.advance(false)
		if err != nil {
			return nil, err
		}

		switch c {
		case -1, '\n':
			return nil, report.Raise(l.span(), "unclosed character constant")
		case '\'':
			if n == 0 {
				return nil, report.Raise(l.span(), "empty character constant")
			}

			return l.emit(TOK_CHARLIT), nil
		case '*':
			esc, err := l.advance(false)
			if err != nil {
				return nil, err
			}

			decoded, ok := escapes[esc]
			if !ok {
				return nil, report.Raise(l.span(), "invalid escape sequence: `*%c`", esc)
			}

			c = decoded
		}

		if n == maxCharLitLen {
			return nil, report.Raise(l.span(), "character constant too long")
		}

		l.lexeme.WriteRune(c)
	}
}

// -----------------------------------------------------------------------------

// lexSlash lexes a division operator or skips a comment.  A nil token with a
// nil error means a comment was skipped.
func (l *Lexer) lexSlash() (*Token, error) {
	l.begin()
	l.advance(false)

	c, err := l.lookahead()
	if err != nil {
		return nil, err
	}

	switch c {
	case '/':
		err := l.advanceWhile(func(c rune) bool { return c != '\n' })
		l.lexeme.Reset()
		return nil, err
	case '*':
		l.advance(false)

		var prev rune
		for {
			c, err := l.advance(false)
			if err != nil {
				return nil, err
			} else if c == -1 {
				return nil, report.Raise(l.span(), "unclosed comment")
			} else if prev == '*' && c == '/' {
				return nil, nil
			}

			prev = c
		}
	}

	l.lexeme.WriteByte('/')
	return l.emit(TOK_DIV), nil
}

// -----------------------------------------------------------------------------

// begin marks the current position as the start of a token.
func (l *Lexer) begin() {
	l.startLine, l.startCol = l.line, l.col
}

// emit builds a token of kind from the collected lexeme and clears it.
func (l *Lexer) emit(kind int) *Token {
	tok := &Token{Kind: kind, Value: l.lexeme.String(), Span: l.span()}
	l.lexeme.Reset()
	return tok
}

// span returns the span from the start of the token to the current position.
func (l *Lexer) span() *report.TextSpan {
	return &report.TextSpan{
		StartLine: l.startLine,
		StartCol:  l.startCol,
		EndLine:   l.line,
		EndCol:    l.col,
	}
}

// -----------------------------------------------------------------------------

// advance consumes one rune, adding it to the lexeme if keep is set.  At the
// end of the source it returns -1.
func (l *Lexer) advance(keep bool) (rune, error) {
	c, _, err := l.src.ReadRune()
	if err == io.EOF {
		return -1, nil
	} else if err != nil {
		return 0, err
	}

	switch c {
	case '\n':
		l.line++
		l.col = 0
	case '\t':
		l.col += 4
	default:
		l.col++
	}

	if keep {
		l.lexeme.WriteRune(c)
	}

	return c, nil
}

// advanceWhile consumes runes into the lexeme as long as they satisfy pred.
func (l *Lexer) advanceWhile(pred func(rune) bool) error {
	for {
		c, err := l.lookahead()
		if err != nil {
			return err
		} else if c == -1 || !pred(c) {
			return nil
		}

		l.advance(true)
	}
}

// lookahead returns the next rune without consuming it: -1 at the end of the
// source.
func (l *Lexer) lookahead() (rune, error) {
	c, _, err := l.src.ReadRune()
	if err == io.EOF {
		return -1, nil
	} else if err != nil {
		return 0, err
	}

	return c, l.src.UnreadRune()
}

func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}

func isWordStart(c rune) bool {
	return c == '_' || unicode.IsLetter(c)
}
