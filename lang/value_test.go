package lang

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func numbers(fs ...float64) []Value {
	vs := make([]Value, len(fs))
	for i, f := range fs {
		vs[i] = Number(f)
	}

	return vs
}

func TestBinaryOp_Numbers(t *testing.T) {
	tests := []struct {
		name string
		op   Kind
		l, r float64
		want float64
	}{
		{"add", KindAdd, 1, 2, 3},
		{"subtract", KindSub, 1, 2, -1},
		{"multiply", KindMul, 3, 4, 12},
		{"divide", KindDiv, 7, 2, 3.5},
		{"power", KindPow, 2, 10, 1024},
		{"fractional power", KindPow, 9, 0.5, 3},
		{"divide by zero", KindDiv, 1, 0, math.Inf(1)},
		{"negative divide by zero", KindDiv, -1, 0, math.Inf(-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BinaryOp(tt.op, Number(tt.l), Number(tt.r))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != Number(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	got, err := BinaryOp(KindDiv, Number(0), Number(0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n, ok := got.(Number); !ok || !math.IsNaN(float64(n)) {
		t.Errorf("expected NaN, got %v", got)
	}
}

func TestBinaryOp_Illegal(t *testing.T) {
	_, err := BinaryOp(KindNot, Number(1), Number(2))
	if !errors.Is(err, ErrIllegalOperator) {
		t.Errorf("expected ErrIllegalOperator, got %v", err)
	}

	set := NewSet(NumberType(), numbers(1, 2)...)

	tests := []struct {
		name string
		l, r Value
		msg  string
	}{
		{"set and number", set, Number(1), "set of number and number"},
		{"number and set", Number(1), set, "number and set of number"},
		{"set and set", set, set, "set of number and set of number"},
		{"vector of sets", NewVector(SetOf(NumberType()), set), Number(1), "set of number and number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BinaryOp(KindAdd, tt.l, tt.r)
			if !errors.Is(err, ErrIllegalOperator) {
				t.Fatalf("expected ErrIllegalOperator, got %v", err)
			}

			if !strings.Contains(err.Error(), tt.msg) {
				t.Errorf("expected message containing %q, got %q", tt.msg, err.Error())
			}
		})
	}
}

func TestBinaryOp_Broadcast(t *testing.T) {
	vec := NewVector(NumberType(), numbers(1, 2, 3)...)

	tests := []struct {
		name string
		op   Kind
		l, r Value
		want string
		typ  string
	}{
		{
			name: "vector times number",
			op:   KindMul, l: vec, r: Number(2),
			want: "( 2 4 6 )", typ: "vector of number",
		},
		{
			name: "number minus vector keeps operand order",
			op:   KindSub, l: Number(10), r: vec,
			want: "( 9 8 7 )", typ: "vector of number",
		},
		{
			name: "vector plus vector nests",
			op:   KindAdd,
			l:    NewVector(NumberType(), numbers(1, 2)...),
			r:    NewVector(NumberType(), numbers(10, 20)...),
			want: "( ( 11 21 ) ( 12 22 ) )", typ: "vector of vector of number",
		},
		{
			name: "nested vector",
			op:   KindAdd,
			l: NewVector(VectorOf(NumberType()),
				NewVector(NumberType(), numbers(1, 2)...),
				NewVector(NumberType(), numbers(3, 4)...)),
			r:    Number(1),
			want: "( ( 2 3 ) ( 4 5 ) )", typ: "vector of vector of number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BinaryOp(tt.op, tt.l, tt.r)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}

			if got.Type().String() != tt.typ {
				t.Errorf("expected type %s, got %s", tt.typ, got.Type())
			}
		})
	}
}

func TestUnaryOp(t *testing.T) {
	tests := []struct {
		name string
		op   Kind
		in   Value
		want string
	}{
		{"negate", KindSub, Number(3), "-3"},
		{"identity", KindAdd, Number(3), "3"},
		{"percent", KindPercent, Number(50), "0.5"},
		{"factorial", KindFraction, Number(5), "120"},
		{"zero factorial", KindFraction, Number(0), "1"},
		{"factorial overflow", KindFraction, Number(171), "inf"},
		{"vector", KindSub, NewVector(NumberType(), numbers(1, -2)...), "( -1 2 )"},
		{"set", KindSub, NewSet(NumberType(), numbers(1, 2)...), "{ -1 -2 }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnaryOp(tt.op, tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestUnaryOp_Errors(t *testing.T) {
	tests := []struct {
		name    string
		op      Kind
		in      Value
		wantErr error
	}{
		{"illegal operator", KindMul, Number(1), ErrIllegalOperator},
		{"not", KindNot, Number(1), ErrIllegalOperator},
		{"negative factorial", KindFraction, Number(-1), ErrDomain},
		{"fractional factorial", KindFraction, Number(2.5), ErrDomain},
		{"NaN factorial", KindFraction, Number(math.NaN()), ErrDomain},
		{"factorial in vector", KindFraction, NewVector(NumberType(), numbers(3, 0.5)...), ErrDomain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnaryOp(tt.op, tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAbs(t *testing.T) {
	got, err := Abs(Number(-2.5))
	if err != nil || got != Number(2.5) {
		t.Errorf("expected 2.5, got %v (%v)", got, err)
	}

	got, err = Abs(NewSet(NumberType(), numbers(-1, 1, 2)...))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s, ok := got.(*Set)
	if !ok {
		t.Fatalf("expected *Set, got %T", got)
	}

	if s.Len() != 2 {
		t.Errorf("expected duplicates to collapse, got %v", s)
	}
}

func TestSet(t *testing.T) {
	s := NewSet(NumberType(), numbers(3, 1, 3, 2, 1)...)

	if s.Len() != 3 {
		t.Errorf("expected 3 elements, got %d", s.Len())
	}

	if got := s.String(); got != "{ 3 1 2 }" {
		t.Errorf("expected insertion order, got %s", got)
	}

	if !s.Contains(Number(2)) || s.Contains(Number(4)) {
		t.Error("unexpected membership")
	}

	if s.Add(Number(1)) {
		t.Error("expected duplicate insert to be rejected")
	}

	if !s.Add(Number(4)) || s.Len() != 4 {
		t.Error("expected new element to be inserted")
	}

	nan := NewSet(NumberType(), numbers(math.NaN(), math.NaN())...)
	if nan.Len() != 1 {
		t.Errorf("expected NaN to deduplicate, got %d elements", nan.Len())
	}

	zero := NewSet(NumberType(), Number(0), Number(math.Copysign(0, -1)))
	if zero.Len() != 1 {
		t.Errorf("expected -0 and 0 to deduplicate, got %d elements", zero.Len())
	}
}

func TestEqual(t *testing.T) {
	vec := func(fs ...float64) Value { return NewVector(NumberType(), numbers(fs...)...) }
	set := func(fs ...float64) Value { return NewSet(NumberType(), numbers(fs...)...) }

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"equal numbers", Number(1), Number(1), true},
		{"different numbers", Number(1), Number(2), false},
		{"NaN", Number(math.NaN()), Number(math.NaN()), true},
		{"vectors", vec(1, 2), vec(1, 2), true},
		{"vector order", vec(1, 2), vec(2, 1), false},
		{"vector length", vec(1), vec(1, 1), false},
		{"sets ignore order", set(1, 2), set(2, 1), true},
		{"different sets", set(1, 2), set(1, 3), false},
		{"vector and set", vec(1), set(1), false},
		{"number and vector", Number(1), vec(1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}

			if tt.want && Hash(tt.a) != Hash(tt.b) {
				t.Error("equal values hash differently")
			}
		})
	}
}

func TestType(t *testing.T) {
	nested := VectorOf(SetOf(NumberType()))

	if got := nested.String(); got != "vector of set of number" {
		t.Errorf("unexpected type string %q", got)
	}

	if !nested.Equal(VectorOf(SetOf(NumberType()))) {
		t.Error("expected structural equality")
	}

	if nested.Equal(VectorOf(VectorOf(NumberType()))) {
		t.Error("expected different element types to differ")
	}

	if NumberType().Equal(VectorOf(NumberType())) {
		t.Error("expected number to differ from vector")
	}
}

func TestToExpr(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want string
		kind string
	}{
		{"integral", Number(3), "3", "integer"},
		{"negative integral", Number(-4), "-4", "integer"},
		{"fractional", Number(2.5), "2.5", "number"},
		{"infinite", Number(math.Inf(1)), "inf", "number"},
		{"huge", Number(1e300), Number(1e300).String(), "number"},
		{"vector", NewVector(NumberType(), numbers(1, 0.5)...), "( 1 0.5 )", "vector"},
		{"set", NewSet(NumberType(), numbers(2, 1)...), "{ 2 1 }", "set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ToExpr(tt.in)

			if got := e.String(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}

			if got := e.Kind(); got != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, got)
			}
		})
	}
}

func TestNumber_String(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{0.1, "0.1"},
		{-2.5, "-2.5"},
		{1e21, "1000000000000000000000"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Number(tt.in).String(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
