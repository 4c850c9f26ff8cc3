package lang

import (
	"strconv"
)

// Kind identifies the lexical category of a [Token].
type Kind int

const (
	KindError Kind = iota // error

	KindIdent // identifier
	KindInt   // integer
	KindFloat // float

	KindGroupOpen  // group open
	KindGroupClose // group close
	KindSetOpen    // set open
	KindSetClose   // set close

	KindSeparator // separator
	KindRepresent // represent
	KindAddress   // address
	KindHash      // hash
	KindPercent   // percent
	KindPipe      // pipe
	KindContinue  // continuation

	KindAdd      // add
	KindSub      // subtract
	KindMul      // multiply
	KindDiv      // divide
	KindPow      // power
	KindFraction // fraction
	KindNot      // not

	KindEqual        // equal
	KindStore        // store
	KindInto         // into
	KindLessEqual    // less or equal
	KindGreaterEqual // greater or equal
	KindLess         // less
	KindGreater      // greater
)

var kindName = [...]string{
	KindError:        "error",
	KindIdent:        "identifier",
	KindInt:          "integer",
	KindFloat:        "float",
	KindGroupOpen:    "group open",
	KindGroupClose:   "group close",
	KindSetOpen:      "set open",
	KindSetClose:     "set close",
	KindSeparator:    "separator",
	KindRepresent:    "represent",
	KindAddress:      "address",
	KindHash:         "hash",
	KindPercent:      "percent",
	KindPipe:         "pipe",
	KindContinue:     "continuation",
	KindAdd:          "add",
	KindSub:          "subtract",
	KindMul:          "multiply",
	KindDiv:          "divide",
	KindPow:          "power",
	KindFraction:     "fraction",
	KindNot:          "not",
	KindEqual:        "equal",
	KindStore:        "store",
	KindInto:         "into",
	KindLessEqual:    "less or equal",
	KindGreaterEqual: "greater or equal",
	KindLess:         "less",
	KindGreater:      "greater",
}

// String returns the name of the token category.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindName) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}

	return kindName[k]
}

// Symbol returns the canonical spelling of a fixed-string token category,
// or the empty string for categories whose spelling varies.
func (k Kind) Symbol() string {
	for _, f := range fixed {
		if f.kind == k {
			return f.text
		}
	}

	return ""
}

// fixed lists every fixed-string token. Longer spellings precede their
// prefixes so the first match is the longest one. Where a category has
// two spellings the canonical one comes first.
var fixed = [...]struct {
	text string
	kind Kind
}{
	{"...", KindContinue},
	{"<-", KindStore},
	{"->", KindInto},
	{"<=", KindLessEqual},
	{">=", KindGreaterEqual},
	{"(", KindGroupOpen},
	{"[", KindGroupOpen},
	{")", KindGroupClose},
	{"]", KindGroupClose},
	{"{", KindSetOpen},
	{"}", KindSetClose},
	{",", KindSeparator},
	{":", KindRepresent},
	{"@", KindAddress},
	{"#", KindHash},
	{"%", KindPercent},
	{"|", KindPipe},
	{"+", KindAdd},
	{"-", KindSub},
	{"*", KindMul},
	{"/", KindDiv},
	{"^", KindPow},
	{"!", KindFraction},
	{"~", KindNot},
	{"=", KindEqual},
	{"<", KindLess},
	{">", KindGreater},
}

// Position represents a location in source text.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // line number, 1-based
	Column int // column number, 1-based
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is a single lexeme.
// Int is set for [KindInt] and Float for [KindFloat].
type Token struct {
	Text  string
	Float float64
	Int   int64
	Pos   Position
	Kind  Kind
}

// String returns the token as it appeared in the source.
func (t Token) String() string {
	if t.Text != "" {
		return t.Text
	}

	switch t.Kind {
	case KindInt:
		return strconv.FormatInt(t.Int, 10)
	case KindFloat:
		return formatNumber(t.Float)
	default:
		return t.Kind.Symbol()
	}
}

// closes reports whether t is the closing delimiter matching the group
// opened by open. Brackets pair by spelling.
func (t Token) closes(open Token) bool {
	if t.Kind != KindGroupClose {
		return false
	}

	if open.Text == "" || t.Text == "" {
		return true
	}

	return (open.Text == "[") == (t.Text == "]")
}
