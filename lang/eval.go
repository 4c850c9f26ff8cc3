package lang

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ReturnKind classifies the outcome of an evaluation.
type ReturnKind int

const (
	// ReturnNone is an explicitly empty result.
	ReturnNone ReturnKind = iota
	// ReturnValue is a fully resolved [Value].
	ReturnValue
	// ReturnExpr is an expression that could not be fully resolved.
	ReturnExpr
)

func (k ReturnKind) String() string {
	switch k {
	case ReturnValue:
		return "value"
	case ReturnExpr:
		return "expression"
	default:
		return "nothing"
	}
}

// Return is the result of evaluating an expression: a [Value], an
// unresolved [Expr], or nothing. The zero Return is nothing.
type Return struct {
	value Value
	expr  Expr
}

// Resolved returns a Return holding v.
func Resolved(v Value) Return { return Return{value: v} }

// Symbolic returns a Return holding the unresolved expression e.
func Symbolic(e Expr) Return { return Return{expr: e} }

// Nothing returns the empty Return.
func Nothing() Return { return Return{} }

// Kind reports which of the three outcomes r holds.
func (r Return) Kind() ReturnKind {
	switch {
	case r.value != nil:
		return ReturnValue
	case r.expr != nil:
		return ReturnExpr
	default:
		return ReturnNone
	}
}

// Value returns the resolved value, if any.
func (r Return) Value() (Value, bool) { return r.value, r.value != nil }

// Expr returns the unresolved expression, if any.
func (r Return) Expr() (Expr, bool) {
	if r.value != nil {
		return nil, false
	}

	return r.expr, r.expr != nil
}

// String describes r, as in "the value 3" or "the expression (x + 1)".
func (r Return) String() string {
	switch r.Kind() {
	case ReturnValue:
		return "the value " + r.value.String()
	case ReturnExpr:
		return "the expression " + r.expr.String()
	default:
		return "nothing"
	}
}

// Display renders r bare, the way an interactive shell echoes it. An empty
// result renders as the empty string.
func (r Return) Display() string {
	switch r.Kind() {
	case ReturnValue:
		return r.value.String()
	case ReturnExpr:
		return r.expr.String()
	default:
		return ""
	}
}

// Run lexes, parses, and evaluates one line of text. With [WithVerify], a
// resolved result is also checked by [Verify], and a mismatch is returned
// as an error along with the result.
func Run(ctx context.Context, text string, opts ...Option) (Return, error) {
	expr, err := ParseString(ctx, text, opts...)
	if err != nil {
		return Return{}, err
	}

	cfg := makeConfig(opts...)

	ret, err := Evaluate(expr)
	if err != nil {
		cfg.logger.TraceContext(ctx, "evaluate failed", slog.Any("error", err))

		return Return{}, err
	}

	cfg.logger.TraceContext(ctx, "evaluate complete",
		slog.String("result", ret.Kind().String()))

	if cfg.verify {
		checked, err := Verify(expr, ret)
		if err != nil {
			return ret, err
		}

		cfg.logger.TraceContext(ctx, "verify complete", slog.Bool("checked", checked))
	}

	return ret, nil
}

// Evaluate reduces e as far as possible.
//
// Identifiers are never bound, so any expression containing one evaluates
// to an equivalent expression rather than a value. Evaluation is pure: it
// neither mutates e nor depends on any state outside of it.
func Evaluate(e Expr) (Return, error) {
	switch n := e.(type) {
	case *Ident:
		return Symbolic(n), nil

	case *Int:
		return Resolved(Number(n.Value)), nil

	case *Float:
		return Resolved(Number(n.Value)), nil

	case *Continue:
		return Return{}, ErrUnexpectedContinuation

	case *Binary:
		return evalBinary(n)

	case *Unary:
		return evalOperand(n.Operand,
			func(v Value) (Value, error) { return UnaryOp(n.Op, v) },
			func(x Expr) Expr { return &Unary{Op: n.Op, Operand: x} })

	case *Postfix:
		return evalOperand(n.Operand,
			func(v Value) (Value, error) { return UnaryOp(n.Op, v) },
			func(x Expr) Expr { return &Postfix{Op: n.Op, Operand: x} })

	case *Absolute:
		return evalOperand(n.Operand, Abs,
			func(x Expr) Expr { return &Absolute{Operand: x} })

	case *VectorLit:
		elems, typ, err := evalElems(n.Elems)
		if err != nil || len(elems) == 0 {
			return Return{}, err
		}

		return Resolved(NewVector(typ, elems...)), nil

	case *SetLit:
		elems, typ, err := evalElems(n.Elems)
		if err != nil || len(elems) == 0 {
			return Return{}, err
		}

		return Resolved(NewSet(typ, elems...)), nil

	default:
		return Return{}, ErrExpectedValue.Wrap(
			fmt.Errorf("cannot evaluate %T", e))
	}
}

// evalOperand evaluates the single operand of a unary node. A resolved
// operand is transformed by apply. An unresolved one is wrapped again by
// rebuild without simplification.
func evalOperand(
	operand Expr,
	apply func(Value) (Value, error),
	rebuild func(Expr) Expr,
) (Return, error) {
	ret, err := Evaluate(operand)
	if err != nil {
		return Return{}, err
	}

	switch ret.Kind() {
	case ReturnValue:
		v, err := apply(ret.value)
		if err != nil {
			return Return{}, err
		}

		return Resolved(v), nil

	case ReturnExpr:
		return Symbolic(rebuild(ret.expr)), nil

	default:
		return Return{}, errNothing
	}
}

var errNothing = ErrExpectedValue.Wrap(errors.New("got nothing"))

// evalElems evaluates the elements of a container literal. Every element
// must resolve to a value of the type established by the first one.
func evalElems(exprs []Expr) ([]Value, Type, error) {
	var typ Type

	values := make([]Value, 0, len(exprs))

	for i, e := range exprs {
		ret, err := Evaluate(e)
		if err != nil {
			return nil, Type{}, err
		}

		v, ok := ret.Value()
		if !ok {
			return nil, Type{}, ErrExpectedValue.Wrap(fmt.Errorf("got %s", ret))
		}

		if i == 0 {
			typ = v.Type()
		} else if t := v.Type(); !t.Equal(typ) {
			return nil, Type{}, mismatch(typ, t)
		}

		values = append(values, v)
	}

	return values, typ, nil
}

// evalBinary evaluates both operands and combines them according to which
// of them resolved.
func evalBinary(n *Binary) (Return, error) {
	l, err := Evaluate(n.Left)
	if err != nil {
		return Return{}, err
	}

	r, err := Evaluate(n.Right)
	if err != nil {
		return Return{}, err
	}

	if l.Kind() == ReturnNone || r.Kind() == ReturnNone {
		return Return{}, errNothing
	}

	lv, lok := l.Value()
	rv, rok := r.Value()

	switch {
	case lok && rok:
		v, err := BinaryOp(n.Op, lv, rv)
		if err != nil {
			return Return{}, err
		}

		return Resolved(v), nil

	case !lok && !rok:
		return Symbolic(&Binary{Op: n.Op, Left: l.expr, Right: r.expr}), nil

	case lok:
		return Symbolic(reassociate(n.Op, lv, r.expr, false)), nil

	default:
		return Symbolic(reassociate(n.Op, rv, l.expr, true)), nil
	}
}

// reassociate combines the value v with the unresolved expression s under
// op. symLeft reports whether s is the left operand.
//
// When op is '+' or '-', v is a number, and s is an addition or subtraction
// of a term and a numeric literal, the two constants are folded so that the
// result holds the term exactly once:
//
//	(x + 1) - 2  →  (x - 1)
//	2 - (x + 1)  →  (1 - x)
//
// Otherwise the result is a new binary node with v as a literal.
func reassociate(op Kind, v Value, s Expr, symLeft bool) Expr {
	num, isNum := v.(Number)

	if isNum && (op == KindAdd || op == KindSub) {
		if term, sign, c, ok := splitAffine(s); ok {
			k := float64(num)

			switch {
			case symLeft && op == KindAdd:
				k = c + k
			case symLeft:
				k = c - k
			case op == KindAdd:
				k += c
			default:
				k -= c
				sign = -sign
			}

			return affine(term, sign, k)
		}
	}

	if symLeft {
		return &Binary{Op: op, Left: s, Right: ToExpr(v)}
	}

	return &Binary{Op: op, Left: ToExpr(v), Right: s}
}

// splitAffine decomposes s into sign*term + c when s is a sum or difference
// of a non-literal term and a numeric literal.
func splitAffine(s Expr) (term Expr, sign, c float64, ok bool) {
	b, isBinary := s.(*Binary)
	if !isBinary || (b.Op != KindAdd && b.Op != KindSub) {
		return nil, 0, 0, false
	}

	switch {
	case isLiteral(b.Right) && !isLiteral(b.Left):
		c = literal(b.Right)
		if b.Op == KindSub {
			c = -c
		}

		return b.Left, 1, c, true

	case isLiteral(b.Left) && !isLiteral(b.Right):
		sign = 1
		if b.Op == KindSub {
			sign = -1
		}

		return b.Right, sign, literal(b.Left), true

	default:
		return nil, 0, 0, false
	}
}

// affine builds sign*term + k using only addition and subtraction.
func affine(term Expr, sign, k float64) Expr {
	switch {
	case sign < 0:
		return &Binary{Op: KindSub, Left: ToExpr(Number(k)), Right: term}
	case k == 0:
		return term
	case k < 0:
		return &Binary{Op: KindSub, Left: term, Right: ToExpr(Number(-k))}
	default:
		return &Binary{Op: KindAdd, Left: term, Right: ToExpr(Number(k))}
	}
}
