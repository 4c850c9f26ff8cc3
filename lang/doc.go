// Package lang implements the vac expression language: a lexer, a
// recursive descent parser producing an expression tree, and an evaluator
// that either reduces an expression to a concrete [Value] or partially
// evaluates it when free identifiers are present.
//
// # Pipeline
//
//	text → [Lex] → []Token → [Parse] → Expr → [Evaluate] → Return
//
// [Run] performs all three stages on a single line of input.
//
// # Grammar
//
// Informal EBNF, lowest precedence first:
//
//	Expr     → Term (('+' | '-') Term)*
//	Term     → Power (('*' | '/') Power)*
//	Power    → Unary ('^' Unary)*
//	Unary    → ('+' | '-') Unary | Fraction
//	Fraction → Percent '!'*
//	Percent  → Atom '%'*
//	Atom     → Group | Set | Abs | Identifier | Integer | Float | '...'
//	Group    → Open Expr Close
//	         | Open Expr Sep? (Expr Sep?)* Close
//	Set      → '{' (Expr Sep?)* '}'
//	Abs      → '|' Expr '|'
//	Open     → '(' | '['
//	Close    → ')' | ']'
//	Sep      → ','
//
// Every binary level is left-associative, including '^'. A group holding a
// single expression and no separator is plain grouping; anything else is a
// vector literal, so "(5)" is the number 5 while "(5,)" is a one-element
// vector.
//
// # Evaluation
//
// Identifiers are never bound. An expression containing one evaluates to a
// [Return] holding an equivalent, possibly rewritten, [Expr]:
//
//	x + 1 - 2   →   (x - 1)
//
// Only chains of addition and subtraction are re-associated. Every other
// mixture of a value and a symbolic operand is rebuilt as a binary node with
// the value converted back to a literal.
//
// # Values
//
// A [Number] is a float64. A [Vector] is an ordered sequence and a [Set] a
// deduplicated collection; both are homogeneous, every element sharing one
// [Type]. Binary operators broadcast over vectors.
package lang
