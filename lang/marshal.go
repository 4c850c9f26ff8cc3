package lang

import (
	"encoding/json"
	"math"
)

// MarshalJSON implements json.Marshaler for Return.
func (r Return) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToMap())
}

// ToMap converts r to a native Go map structure.
//
// Every map has a "result" key holding "value", "expression", or "nothing".
// A value adds "type" and "value"; an expression adds "expression" (its
// rendering) and "tree" (see [ExprToMap]).
func (r Return) ToMap() map[string]any {
	result := map[string]any{"result": r.Kind().String()}

	switch r.Kind() {
	case ReturnValue:
		result["type"] = r.value.Type().String()
		result["value"] = ToNative(r.value)

	case ReturnExpr:
		result["expression"] = r.expr.String()
		result["tree"] = ExprToMap(r.expr)
	}

	return result
}

// ToNative converts a Value to its native Go type.
//
// Integral numbers become int64 and other finite numbers float64. Infinities
// and NaN become the strings "inf", "-inf", and "NaN" since neither JSON nor
// YAML encoders agree on a representation for them. Containers become
// []any.
func ToNative(v Value) any {
	switch x := v.(type) {
	case Number:
		f := float64(x)

		switch {
		case math.IsInf(f, 0) || math.IsNaN(f):
			return x.String()
		case f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64:
			return int64(f)
		default:
			return f
		}

	case *Vector:
		out := make([]any, len(x.Elems))
		for i, e := range x.Elems {
			out[i] = ToNative(e)
		}

		return out

	case *Set:
		out := make([]any, 0, x.Len())
		for e := range x.Values() {
			out = append(out, ToNative(e))
		}

		return out

	default:
		return nil
	}
}

// ExprToMap converts an expression tree to nested maps. Every node has a
// "node" key naming its type; the remaining keys depend on the type.
func ExprToMap(e Expr) map[string]any {
	m := map[string]any{"node": e.Kind()}

	switch n := e.(type) {
	case *Ident:
		m["name"] = n.Name

	case *Int:
		m["value"] = n.Value

	case *Float:
		m["value"] = ToNative(Number(n.Value))

	case *Binary:
		m["op"] = n.Op.Symbol()
		m["left"] = ExprToMap(n.Left)
		m["right"] = ExprToMap(n.Right)

	case *Unary:
		m["op"] = n.Op.Symbol()
		m["operand"] = ExprToMap(n.Operand)

	case *Postfix:
		m["op"] = n.Op.Symbol()
		m["operand"] = ExprToMap(n.Operand)

	case *Absolute:
		m["operand"] = ExprToMap(n.Operand)

	case *VectorLit:
		m["elems"] = exprsToMaps(n.Elems)

	case *SetLit:
		m["elems"] = exprsToMaps(n.Elems)
	}

	return m
}

func exprsToMaps(exprs []Expr) []any {
	out := make([]any, len(exprs))
	for i, e := range exprs {
		out[i] = ExprToMap(e)
	}

	return out
}
