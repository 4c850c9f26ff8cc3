package lang

import (
	"iter"
	"strconv"
	"strings"
)

// Expr is a node of the expression tree.
//
// The set of node types is closed: [*Ident], [*Int], [*Float], [*Continue],
// [*Binary], [*Unary], [*Postfix], [*VectorLit], [*SetLit], and [*Absolute].
// Nodes are never mutated after construction and each node exclusively owns
// its children.
type Expr interface {
	// String renders the node fully parenthesized.
	String() string
	// Kind returns a short human-readable name of the node type.
	Kind() string

	isExpr()
}

// Ident is a reference to a free identifier.
type Ident struct{ Name string }

// Int is an integer literal.
type Int struct{ Value int64 }

// Float is a floating-point literal.
type Float struct{ Value float64 }

// Continue is the continuation marker "...".
type Continue struct{}

// Binary is an infix operation.
type Binary struct {
	Left  Expr
	Right Expr
	Op    Kind
}

// Unary is a prefix operation.
type Unary struct {
	Operand Expr
	Op      Kind
}

// Postfix is a suffix operation.
type Postfix struct {
	Operand Expr
	Op      Kind
}

// VectorLit is an ordered vector literal.
type VectorLit struct{ Elems []Expr }

// SetLit is a set literal. Element order carries no meaning.
type SetLit struct{ Elems []Expr }

// Absolute is an absolute value "| x |".
type Absolute struct{ Operand Expr }

func (*Ident) isExpr()     {}
func (*Int) isExpr()       {}
func (*Float) isExpr()     {}
func (*Continue) isExpr()  {}
func (*Binary) isExpr()    {}
func (*Unary) isExpr()     {}
func (*Postfix) isExpr()   {}
func (*VectorLit) isExpr() {}
func (*SetLit) isExpr()    {}
func (*Absolute) isExpr()  {}

func (*Ident) Kind() string     { return "identifier" }
func (*Int) Kind() string       { return "integer" }
func (*Float) Kind() string     { return "number" }
func (*Continue) Kind() string  { return "continuation" }
func (*Binary) Kind() string    { return "binary operation" }
func (*Unary) Kind() string     { return "unary operation" }
func (*Postfix) Kind() string   { return "unary operation (right sided)" }
func (*VectorLit) Kind() string { return "vector" }
func (*SetLit) Kind() string    { return "set" }
func (*Absolute) Kind() string  { return "absolute expression" }

func (e *Ident) String() string  { return e.Name }
func (e *Int) String() string    { return strconv.FormatInt(e.Value, 10) }
func (e *Float) String() string  { return formatNumber(e.Value) }
func (*Continue) String() string { return "..." }

func (e *Binary) String() string {
	return "(" + e.Left.String() + " " + e.Op.Symbol() + " " + e.Right.String() + ")"
}

func (e *Unary) String() string {
	return "(" + e.Op.Symbol() + " " + e.Operand.String() + ")"
}

func (e *Postfix) String() string {
	return "(" + e.Operand.String() + " " + e.Op.Symbol() + ")"
}

func (e *VectorLit) String() string { return enclose("(", e.Elems, ")") }
func (e *SetLit) String() string    { return enclose("{", e.Elems, "}") }

func (e *Absolute) String() string {
	return "| " + e.Operand.String() + " |"
}

// enclose renders "left a b c right", separating every part by one space.
func enclose[T interface{ String() string }](left string, elems []T, right string) string {
	var sb strings.Builder

	sb.WriteString(left)

	for _, e := range elems {
		sb.WriteByte(' ')
		sb.WriteString(e.String())
	}

	sb.WriteByte(' ')
	sb.WriteString(right)

	return sb.String()
}

// Children returns an iterator over the immediate children of e.
func Children(e Expr) iter.Seq[Expr] {
	return func(yield func(Expr) bool) {
		var kids []Expr

		switch n := e.(type) {
		case *Binary:
			kids = []Expr{n.Left, n.Right}
		case *Unary:
			kids = []Expr{n.Operand}
		case *Postfix:
			kids = []Expr{n.Operand}
		case *Absolute:
			kids = []Expr{n.Operand}
		case *VectorLit:
			kids = n.Elems
		case *SetLit:
			kids = n.Elems
		}

		for _, k := range kids {
			if !yield(k) {
				return
			}
		}
	}
}

// Walk returns a pre-order iterator over e and all of its descendants.
func Walk(e Expr) iter.Seq[Expr] {
	return func(yield func(Expr) bool) {
		walk(e, yield)
	}
}

func walk(e Expr, yield func(Expr) bool) bool {
	if !yield(e) {
		return false
	}

	for c := range Children(e) {
		if !walk(c, yield) {
			return false
		}
	}

	return true
}

// Count returns the number of nodes in the tree rooted at e.
func Count(e Expr) int {
	n := 0
	for range Walk(e) {
		n++
	}

	return n
}

// Depth returns the number of nodes on the longest root-to-leaf path.
func Depth(e Expr) int {
	d := 0
	for c := range Children(e) {
		d = max(d, Depth(c))
	}

	return d + 1
}

// isLiteral reports whether e is a numeric literal.
func isLiteral(e Expr) bool {
	switch e.(type) {
	case *Int, *Float:
		return true
	default:
		return false
	}
}

// literal returns the numeric value of an [*Int] or [*Float].
func literal(e Expr) float64 {
	switch n := e.(type) {
	case *Int:
		return float64(n.Value)
	case *Float:
		return n.Value
	default:
		return 0
	}
}
