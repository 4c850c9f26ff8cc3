package lang

import (
	"fmt"
	"iter"
	"math"
	"slices"
	"strconv"
)

// TypeKind identifies the shape of a [Type].
type TypeKind int

const (
	TypeNumber TypeKind = iota
	TypeVector
	TypeSet
)

// Type is the structural type of a [Value].
// Elem is set only for containers.
type Type struct {
	Elem *Type
	Kind TypeKind
}

// NumberType returns the type of a [Number].
func NumberType() Type { return Type{Kind: TypeNumber} }

// VectorOf returns the type of a [*Vector] whose elements have type elem.
func VectorOf(elem Type) Type { return Type{Kind: TypeVector, Elem: &elem} }

// SetOf returns the type of a [*Set] whose elements have type elem.
func SetOf(elem Type) Type { return Type{Kind: TypeSet, Elem: &elem} }

// Equal reports whether t and u describe the same structure.
func (t Type) Equal(u Type) bool {
	if t.Kind != u.Kind {
		return false
	}

	if t.Elem == nil || u.Elem == nil {
		return t.Elem == u.Elem
	}

	return t.Elem.Equal(*u.Elem)
}

// String returns a description such as "vector of set of number".
func (t Type) String() string {
	switch t.Kind {
	case TypeNumber:
		return "number"
	case TypeVector:
		return "vector of " + t.elem().String()
	case TypeSet:
		return "set of " + t.elem().String()
	default:
		return "TypeKind(" + strconv.Itoa(int(t.Kind)) + ")"
	}
}

func (t Type) elem() Type {
	if t.Elem == nil {
		return NumberType()
	}

	return *t.Elem
}

// Value is a concrete runtime value: a [Number], [*Vector], or [*Set].
type Value interface {
	Type() Type
	String() string

	isValue()
}

// Number is a double-precision floating-point number.
type Number float64

// Vector is an ordered, homogeneous sequence of values.
type Vector struct {
	Elems []Value
	Elem  Type
}

// Set is a homogeneous collection of distinct values.
// Iteration follows first-insertion order.
type Set struct {
	index map[uint64][]int
	elems []Value
	Elem  Type
}

func (Number) isValue()  {}
func (*Vector) isValue() {}
func (*Set) isValue()    {}

func (Number) Type() Type    { return NumberType() }
func (v *Vector) Type() Type { return VectorOf(v.Elem) }
func (s *Set) Type() Type    { return SetOf(s.Elem) }

func (n Number) String() string  { return formatNumber(float64(n)) }
func (v *Vector) String() string { return enclose("(", v.Elems, ")") }
func (s *Set) String() string    { return enclose("{", s.elems, "}") }

// NewVector returns a vector of elems with element type elem.
func NewVector(elem Type, elems ...Value) *Vector {
	return &Vector{Elem: elem, Elems: elems}
}

// NewSet returns a set of the distinct values among elems.
func NewSet(elem Type, elems ...Value) *Set {
	s := &Set{Elem: elem, index: make(map[uint64][]int, len(elems))}

	for _, v := range elems {
		s.Add(v)
	}

	return s
}

// Add inserts v unless an equal value is already present.
// It reports whether v was inserted.
func (s *Set) Add(v Value) bool {
	if s.index == nil {
		s.index = make(map[uint64][]int)
	}

	h := Hash(v)

	for _, i := range s.index[h] {
		if Equal(s.elems[i], v) {
			return false
		}
	}

	s.index[h] = append(s.index[h], len(s.elems))
	s.elems = append(s.elems, v)

	return true
}

// Contains reports whether a value equal to v is in the set.
func (s *Set) Contains(v Value) bool {
	for _, i := range s.index[Hash(v)] {
		if Equal(s.elems[i], v) {
			return true
		}
	}

	return false
}

// Len returns the number of elements.
func (s *Set) Len() int { return len(s.elems) }

// Values returns an iterator over the elements in insertion order.
func (s *Set) Values() iter.Seq[Value] {
	return slices.Values(s.elems)
}

// Equal reports whether a and b are structurally equal.
//
// Numbers compare by value, except that NaN equals NaN. Vectors compare
// element-wise in order and sets compare as unordered collections.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Number:
		y, ok := b.(Number)
		if !ok {
			return false
		}

		return x == y || (math.IsNaN(float64(x)) && math.IsNaN(float64(y)))

	case *Vector:
		y, ok := b.(*Vector)
		if !ok || !x.Elem.Equal(y.Elem) || len(x.Elems) != len(y.Elems) {
			return false
		}

		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}

		return true

	case *Set:
		y, ok := b.(*Set)
		if !ok || !x.Elem.Equal(y.Elem) || x.Len() != y.Len() {
			return false
		}

		for v := range x.Values() {
			if !y.Contains(v) {
				return false
			}
		}

		return true

	default:
		return false
	}
}

// BinaryOp applies the infix operator op to l and r.
//
// Numbers support '+', '-', '*', '/', and '^' with IEEE 754 semantics, so
// division by zero yields an infinity or NaN rather than an error. When
// either operand is a vector the operator is broadcast over its elements,
// the left operand taking priority.
func BinaryOp(op Kind, l, r Value) (Value, error) {
	if lv, ok := l.(*Vector); ok {
		return mapVector(lv, func(e Value) (Value, error) {
			return BinaryOp(op, e, r)
		})
	}

	if rv, ok := r.(*Vector); ok {
		return mapVector(rv, func(e Value) (Value, error) {
			return BinaryOp(op, l, e)
		})
	}

	ln, lok := l.(Number)
	rn, rok := r.(Number)

	if !lok || !rok {
		return nil, ErrIllegalOperator.Wrap(fmt.Errorf(
			"binary operator '%s' is not defined for %s and %s",
			op.Symbol(), l.Type(), r.Type()))
	}

	switch op {
	case KindAdd:
		return ln + rn, nil
	case KindSub:
		return ln - rn, nil
	case KindMul:
		return ln * rn, nil
	case KindDiv:
		return ln / rn, nil
	case KindPow:
		return Number(math.Pow(float64(ln), float64(rn))), nil
	default:
		return nil, ErrIllegalOperator.Wrap(
			fmt.Errorf("illegal binary operator '%s'", op.Symbol()))
	}
}

// UnaryOp applies the prefix or postfix operator op to v.
//
// On a number, '-' negates, '+' is the identity, '%' divides by 100, and
// '!' computes the factorial. Containers apply op to every element; a set
// is rebuilt so that elements made equal by op collapse into one.
func UnaryOp(op Kind, v Value) (Value, error) {
	switch x := v.(type) {
	case Number:
		switch op {
		case KindSub:
			return -x, nil
		case KindAdd:
			return x, nil
		case KindPercent:
			return x / 100, nil
		case KindFraction:
			return Factorial(x)
		default:
			return nil, ErrIllegalOperator.Wrap(
				fmt.Errorf("illegal unary operator '%s'", op.Symbol()))
		}

	case *Vector:
		return mapVector(x, func(e Value) (Value, error) { return UnaryOp(op, e) })

	case *Set:
		return mapSet(x, func(e Value) (Value, error) { return UnaryOp(op, e) })

	default:
		return nil, ErrIllegalOperator.Wrap(
			fmt.Errorf("illegal unary operator '%s'", op.Symbol()))
	}
}

// Abs returns the absolute value of v, element-wise for containers.
func Abs(v Value) (Value, error) {
	switch x := v.(type) {
	case Number:
		return Number(math.Abs(float64(x))), nil
	case *Vector:
		return mapVector(x, Abs)
	case *Set:
		return mapSet(x, Abs)
	default:
		return nil, ErrTypeMismatch.Wrap(
			fmt.Errorf("cannot take the absolute value of %v", v))
	}
}

// maxFactorial is the largest n whose factorial is finite as a float64.
const maxFactorial = 170

// Factorial returns n! for a non-negative integral n.
// Results too large for a float64 are +Inf.
func Factorial(n Number) (Number, error) {
	f := float64(n)
	if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, ErrDomain.Wrap(
			fmt.Errorf("factorial is undefined for %s", n))
	}

	if f > maxFactorial {
		return Number(math.Inf(1)), nil
	}

	r := 1.0
	for i := 2.0; i <= f; i++ {
		r *= i
	}

	return Number(r), nil
}

// mapVector applies fn to every element of v. The element type of the
// result is taken from the mapped elements.
func mapVector(v *Vector, fn func(Value) (Value, error)) (Value, error) {
	out := &Vector{Elem: v.Elem, Elems: make([]Value, len(v.Elems))}

	for i, e := range v.Elems {
		r, err := fn(e)
		if err != nil {
			return nil, err
		}

		if i == 0 {
			out.Elem = r.Type()
		} else if t := r.Type(); !t.Equal(out.Elem) {
			return nil, mismatch(out.Elem, t)
		}

		out.Elems[i] = r
	}

	return out, nil
}

// mapSet applies fn to every element of s and deduplicates the results.
func mapSet(s *Set, fn func(Value) (Value, error)) (Value, error) {
	out := NewSet(s.Elem)

	for i, e := range s.elems {
		r, err := fn(e)
		if err != nil {
			return nil, err
		}

		if i == 0 {
			out.Elem = r.Type()
		} else if t := r.Type(); !t.Equal(out.Elem) {
			return nil, mismatch(out.Elem, t)
		}

		out.Add(r)
	}

	return out, nil
}

func mismatch(want, got Type) error {
	return ErrTypeMismatch.Wrap(fmt.Errorf("expected type %s, got %s", want, got))
}

// ToExpr converts v into an equivalent literal expression.
//
// Integral numbers within the range of int64 become [*Int] literals and all
// other numbers become [*Float]. Containers become literals of their
// converted elements.
//
// Evaluating the result yields v again, except for an empty [*Vector] or
// [*Set]: an empty literal has no element type and evaluates to nothing,
// the same as "{}" typed by hand. The parser never builds an empty vector.
func ToExpr(v Value) Expr {
	switch x := v.(type) {
	case Number:
		f := float64(x)
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return &Int{Value: int64(f)}
		}

		return &Float{Value: f}

	case *Vector:
		elems := make([]Expr, len(x.Elems))
		for i, e := range x.Elems {
			elems[i] = ToExpr(e)
		}

		return &VectorLit{Elems: elems}

	case *Set:
		elems := make([]Expr, 0, x.Len())
		for e := range x.Values() {
			elems = append(elems, ToExpr(e))
		}

		return &SetLit{Elems: elems}

	default:
		return nil
	}
}

// formatNumber renders f in the shortest decimal form that round-trips,
// without an exponent.
func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
