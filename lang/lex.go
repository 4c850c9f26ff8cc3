package lang

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"unicode/utf8"
)

// Lex converts text into a sequence of tokens.
//
// At each position the longest matching token is taken. Whitespace is
// skipped. The first byte that begins no token aborts lexing with [ErrLex].
func Lex(text string) ([]Token, error) {
	l := &lexer{input: []byte(text), line: 1, col: 1}

	var tokens []Token

	for {
		l.skipWhitespace()

		if l.eof() {
			return tokens, nil
		}

		tok, err := l.next()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, tok)
	}
}

// LexContext is [Lex] with trace logging through the configured logger.
func LexContext(ctx context.Context, text string, opts ...Option) ([]Token, error) {
	cfg := makeConfig(opts...)

	tokens, err := Lex(text)
	if err != nil {
		cfg.logger.TraceContext(ctx, "lex failed", slog.Any("error", err))

		return nil, err
	}

	cfg.logger.TraceContext(ctx, "lex complete",
		slog.Int("source_length", len(text)),
		slog.Int("token_count", len(tokens)))

	return tokens, nil
}

// lexer holds the scanner state.
type lexer struct {
	input []byte
	pos   int
	line  int
	col   int
}

func (l *lexer) next() (Token, error) {
	pos := l.position()
	ch := l.input[l.pos]

	switch {
	case isDigit(ch):
		return l.number(pos)

	case ch == '.' && isDigit(l.peekAt(1)):
		return l.number(pos)

	case isIdentStart(ch):
		start := l.pos
		for !l.eof() && isIdentContinue(l.input[l.pos]) {
			l.advance(1)
		}

		return Token{
			Kind: KindIdent,
			Text: string(l.input[start:l.pos]),
			Pos:  pos,
		}, nil
	}

	for _, f := range fixed {
		if bytes.HasPrefix(l.input[l.pos:], []byte(f.text)) {
			l.advance(len(f.text))

			return Token{Kind: f.kind, Text: f.text, Pos: pos}, nil
		}
	}

	_, size := utf8.DecodeRune(l.input[l.pos:])

	return Token{}, ErrLex.WithPosition(pos).
		Wrap(fmt.Errorf("unexpected %q", l.input[l.pos:l.pos+size]))
}

// number scans an integer or float literal. A float requires a decimal
// point followed by at least one digit; the integer part is optional.
func (l *lexer) number(pos Position) (Token, error) {
	start := l.pos
	for !l.eof() && isDigit(l.input[l.pos]) {
		l.advance(1)
	}

	if l.peekAt(0) == '.' && isDigit(l.peekAt(1)) {
		l.advance(1)

		for !l.eof() && isDigit(l.input[l.pos]) {
			l.advance(1)
		}

		text := string(l.input[start:l.pos])

		f, err := strconv.ParseFloat(text, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return Token{}, ErrLex.WithPosition(pos).Wrap(err)
		}

		return Token{Kind: KindFloat, Text: text, Float: f, Pos: pos}, nil
	}

	text := string(l.input[start:l.pos])

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, ErrIntegerRange.WithPosition(pos).
			With(slog.String("literal", text)).
			Wrap(fmt.Errorf("%q", text))
	}

	return Token{Kind: KindInt, Text: text, Int: n, Pos: pos}, nil
}

func (l *lexer) peekAt(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}

	return l.input[l.pos+n]
}

func (l *lexer) advance(n int) {
	for range n {
		if l.eof() {
			return
		}

		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}

		l.pos++
	}
}

func (l *lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

func (l *lexer) skipWhitespace() {
	for !l.eof() && isSpace(l.input[l.pos]) {
		l.advance(1)
	}
}

// Character classification

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentContinue(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
