package lang

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/expr-lang/expr"
)

// VerifyTolerance is the relative tolerance used by [Verify].
const VerifyTolerance = 1e-9

// Verify recomputes a resolved numeric result with an independent
// expression engine and reports [ErrVerifyMismatch] if the two disagree.
//
// Only scalar arithmetic is checked: expressions containing identifiers,
// containers, factorials, or continuations, and results other than a
// single number, are skipped. The checked result reports whether a
// comparison took place.
func Verify(e Expr, r Return) (checked bool, err error) {
	v, ok := r.Value()
	if !ok {
		return false, nil
	}

	want, ok := v.(Number)
	if !ok {
		return false, nil
	}

	var sb strings.Builder
	if !writeExprSource(&sb, e) {
		return false, nil
	}

	source := sb.String()

	program, err := expr.Compile(source, expr.AsFloat64())
	if err != nil {
		return true, ErrVerifyMismatch.Wrap(err).
			With(slog.String("source", source))
	}

	out, err := expr.Run(program, nil)
	if err != nil {
		return true, ErrVerifyMismatch.Wrap(err).
			With(slog.String("source", source))
	}

	got, ok := out.(float64)
	if !ok {
		return true, ErrVerifyMismatch.
			With(slog.String("source", source)).
			Wrap(fmt.Errorf("unexpected result type %T", out))
	}

	if !closeEnough(float64(want), got) {
		return true, ErrVerifyMismatch.
			With(slog.String("source", source)).
			Wrap(fmt.Errorf("evaluated %s, expected %s", want, Number(got)))
	}

	return true, nil
}

// closeEnough compares a and b within [VerifyTolerance], treating NaN as
// equal to itself and infinities as equal only to themselves.
func closeEnough(a, b float64) bool {
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		return math.IsNaN(a) && math.IsNaN(b)
	case math.IsInf(a, 0) || math.IsInf(b, 0):
		return a == b
	}

	scale := max(1, math.Abs(a), math.Abs(b))

	return math.Abs(a-b) <= VerifyTolerance*scale
}

// writeExprSource renders e in expr-lang syntax. Every number is written as
// a float so that no integer arithmetic takes place. It reports false if e
// contains a construct with no scalar counterpart.
func writeExprSource(sb *strings.Builder, e Expr) bool {
	switch n := e.(type) {
	case *Int:
		sb.WriteString(floatSource(float64(n.Value)))

	case *Float:
		sb.WriteString(floatSource(n.Value))

	case *Binary:
		op := n.Op.Symbol()
		if n.Op == KindPow {
			op = "**"
		}

		sb.WriteByte('(')

		if !writeExprSource(sb, n.Left) {
			return false
		}

		sb.WriteString(" " + op + " ")

		if !writeExprSource(sb, n.Right) {
			return false
		}

		sb.WriteByte(')')

	case *Unary:
		if n.Op != KindAdd && n.Op != KindSub {
			return false
		}

		sb.WriteString(n.Op.Symbol() + "(")

		if !writeExprSource(sb, n.Operand) {
			return false
		}

		sb.WriteByte(')')

	case *Postfix:
		if n.Op != KindPercent {
			return false
		}

		sb.WriteByte('(')

		if !writeExprSource(sb, n.Operand) {
			return false
		}

		sb.WriteString(" / 100.0)")

	case *Absolute:
		sb.WriteString("abs(")

		if !writeExprSource(sb, n.Operand) {
			return false
		}

		sb.WriteByte(')')

	default:
		return false
	}

	return true
}

// floatSource renders f as an expr-lang float literal.
func floatSource(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "(" + infSource(f) + ")"
	}

	s := formatNumber(f)
	if !strings.Contains(s, ".") {
		s += ".0"
	}

	if f < 0 {
		return "(" + s + ")"
	}

	return s
}

// infSource spells a non-finite float as an expr-lang expression.
func infSource(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "1.0 / 0.0"
	case math.IsInf(f, -1):
		return "-1.0 / 0.0"
	default:
		return "0.0 / 0.0"
	}
}
