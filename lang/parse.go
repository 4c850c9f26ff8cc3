package lang

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/klauspost/readahead"
)

// ParseReader reads all of r and parses it as one expression.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (Expr, error) {
	// Wrap reader with async read-ahead so large inputs are fetched while
	// earlier chunks are copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseString lexes and parses s as one expression.
// Results are cached by source text and options.
func ParseString(ctx context.Context, s string, opts ...Option) (Expr, error) {
	cfg := makeConfig(opts...)

	cfg.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(s)))

	expr, err := parseCached(ctx, s, cfg)
	if err != nil {
		cfg.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.Int("node_count", Count(expr)),
		slog.String("kind", expr.Kind()))

	return expr, nil
}

// Parse builds one expression from tokens. The whole sequence must be
// consumed; anything left over is an error.
func Parse(tokens []Token, opts ...Option) (Expr, error) {
	return parseTokens(tokens, makeConfig(opts...))
}

func parseTokens(tokens []Token, cfg config) (Expr, error) {
	p := &parser{tokens: tokens, maxDepth: cfg.maxDepth}

	expr, err := p.expr()
	if err != nil {
		return nil, err
	}

	if tok, ok := p.peek(); ok {
		return nil, ErrTrailingInput.WithPosition(tok.Pos).
			With(slog.String("token", tok.String())).
			Wrap(fmt.Errorf("cannot handle '%s' at the end of input", tok))
	}

	return expr, nil
}

// parser holds the parser state.
type parser struct {
	tokens   []Token
	idx      int
	depth    int
	maxDepth int
}

// expr parses: Term (('+' | '-') Term)*.
func (p *parser) expr() (Expr, error) {
	return p.binary(p.term, KindAdd, KindSub)
}

// term parses: Power (('*' | '/') Power)*.
func (p *parser) term() (Expr, error) {
	return p.binary(p.power, KindMul, KindDiv)
}

// power parses: Unary ('^' Unary)*.
func (p *parser) power() (Expr, error) {
	return p.binary(p.unary, KindPow)
}

// binary parses one left-associative level whose operands are parsed by
// next and whose operators are ops. Each operator nests the tree one level
// deeper and counts against the depth limit.
func (p *parser) binary(next func() (Expr, error), ops ...Kind) (Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	var folds int
	defer func() { p.depth -= folds }()

	for {
		tok, ok := p.peek()
		if !ok || !slices.Contains(ops, tok.Kind) {
			return left, nil
		}

		folds++
		if err := p.enter(tok); err != nil {
			return nil, err
		}

		p.advance()

		right, err := next()
		if err != nil {
			return nil, err
		}

		left = &Binary{Op: tok.Kind, Left: left, Right: right}
	}
}

// unary parses: ('+' | '-') Unary | Fraction.
func (p *parser) unary() (Expr, error) {
	tok, ok := p.peek()
	if !ok || (tok.Kind != KindAdd && tok.Kind != KindSub) {
		return p.fraction()
	}

	if err := p.enter(tok); err != nil {
		return nil, err
	}
	defer p.leave()

	p.advance()

	operand, err := p.unary()
	if err != nil {
		return nil, err
	}

	return &Unary{Op: tok.Kind, Operand: operand}, nil
}

// fraction parses: Percent '!'*.
func (p *parser) fraction() (Expr, error) {
	return p.postfix(p.percent, KindFraction)
}

// percent parses: Atom '%'*.
func (p *parser) percent() (Expr, error) {
	return p.postfix(p.atom, KindPercent)
}

// postfix parses an operand of next followed by any number of op, each
// counted against the depth limit.
func (p *parser) postfix(next func() (Expr, error), op Kind) (Expr, error) {
	operand, err := next()
	if err != nil {
		return nil, err
	}

	var folds int
	defer func() { p.depth -= folds }()

	for {
		tok, ok := p.peek()
		if !ok || tok.Kind != op {
			return operand, nil
		}

		folds++
		if err := p.enter(tok); err != nil {
			return nil, err
		}

		p.advance()

		operand = &Postfix{Op: op, Operand: operand}
	}
}

// atom parses a group, set, absolute value, or leaf.
func (p *parser) atom() (Expr, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, ErrUnexpectedEnd.WithPosition(p.end())
	}

	switch tok.Kind {
	case KindGroupOpen:
		return p.group(tok)

	case KindSetOpen:
		return p.set(tok)

	case KindPipe:
		return p.absolute(tok)

	case KindIdent:
		p.advance()

		return &Ident{Name: tok.Text}, nil

	case KindInt:
		p.advance()

		return &Int{Value: tok.Int}, nil

	case KindFloat:
		p.advance()

		return &Float{Value: tok.Float}, nil

	case KindContinue:
		p.advance()

		return &Continue{}, nil

	default:
		return nil, ErrUnexpectedToken.WithPosition(tok.Pos).
			With(slog.String("token", tok.String())).
			Wrap(fmt.Errorf("'%s'", tok))
	}
}

// group parses a parenthesized expression or a vector literal.
func (p *parser) group(open Token) (Expr, error) {
	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()

	p.advance()

	first, err := p.expr()
	if err != nil {
		return nil, err
	}

	if tok, ok := p.peek(); ok && tok.closes(open) {
		p.advance()

		return first, nil
	}

	elems := []Expr{first}

	p.match(KindSeparator)

	for {
		tok, ok := p.peek()
		if !ok || tok.Kind == KindGroupClose {
			break
		}

		e, err := p.expr()
		if err != nil {
			return nil, err
		}

		elems = append(elems, e)

		p.match(KindSeparator)
	}

	if err := p.expectClose(open); err != nil {
		return nil, err
	}

	return &VectorLit{Elems: elems}, nil
}

// set parses: '{' (Expr Sep?)* '}'.
func (p *parser) set(open Token) (Expr, error) {
	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()

	p.advance()

	elems := []Expr{}

	for {
		tok, ok := p.peek()
		if !ok || tok.Kind == KindSetClose {
			break
		}

		e, err := p.expr()
		if err != nil {
			return nil, err
		}

		elems = append(elems, e)

		p.match(KindSeparator)
	}

	if err := p.expect(KindSetClose); err != nil {
		return nil, err
	}

	return &SetLit{Elems: elems}, nil
}

// absolute parses: '|' Expr '|'.
func (p *parser) absolute(open Token) (Expr, error) {
	if err := p.enter(open); err != nil {
		return nil, err
	}
	defer p.leave()

	p.advance()

	operand, err := p.expr()
	if err != nil {
		return nil, err
	}

	if err := p.expect(KindPipe); err != nil {
		return nil, err
	}

	return &Absolute{Operand: operand}, nil
}

// Helper methods

func (p *parser) peek() (Token, bool) {
	if p.idx >= len(p.tokens) {
		return Token{}, false
	}

	return p.tokens[p.idx], true
}

func (p *parser) advance() {
	if p.idx < len(p.tokens) {
		p.idx++
	}
}

// match consumes the next token if it has kind k.
func (p *parser) match(k Kind) bool {
	if tok, ok := p.peek(); ok && tok.Kind == k {
		p.advance()

		return true
	}

	return false
}

func (p *parser) expect(k Kind) error {
	return p.expectToken(Token{Kind: k, Text: k.Symbol()}, func(t Token) bool {
		return t.Kind == k
	})
}

func (p *parser) expectClose(open Token) error {
	want := Token{Kind: KindGroupClose, Text: ")"}
	if open.Text == "[" {
		want.Text = "]"
	}

	return p.expectToken(want, func(t Token) bool { return t.closes(open) })
}

func (p *parser) expectToken(want Token, ok func(Token) bool) error {
	tok, more := p.peek()
	if !more {
		return ErrUnexpectedEnd.WithPosition(p.end()).
			With(slog.String("expected", want.String())).
			Wrap(fmt.Errorf("expected token '%s'", want))
	}

	if !ok(tok) {
		return ErrUnexpectedToken.WithPosition(tok.Pos).
			With(slog.String("expected", want.String()),
				slog.String("token", tok.String())).
			Wrap(fmt.Errorf("expected token '%s', got '%s'", want, tok))
	}

	p.advance()

	return nil
}

// end returns the position just past the last token.
func (p *parser) end() Position {
	if len(p.tokens) == 0 {
		return Position{Line: 1, Column: 1}
	}

	last := p.tokens[len(p.tokens)-1]
	n := len(last.String())

	return Position{
		Offset: last.Pos.Offset + n,
		Line:   last.Pos.Line,
		Column: last.Pos.Column + n,
	}
}

// enter descends one nesting level at tok.
func (p *parser) enter(tok Token) error {
	p.depth++

	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return ErrMaxDepthExceeded.WithPosition(tok.Pos).
			With(slog.Int("max_depth", p.maxDepth))
	}

	return nil
}

func (p *parser) leave() { p.depth-- }
