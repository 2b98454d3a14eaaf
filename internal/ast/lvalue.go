package ast

import "nestedlang/nlc/internal/types"

// LValueKind discriminates the three addressable forms: a bare identifier, a
// string literal (addressable as an anonymous char array constant), and an
// index applied to some other LValueKind.
type LValueKind interface {
	lvalueKind()
}

// IdKind names a variable or parameter (calls name their callee through
// CallExpr.Name instead).
type IdKind struct {
	Name string
}

func (IdKind) lvalueKind() {}

// StringKind is a string literal used where an lvalue is expected, e.g. as a
// by-reference char-array argument to writeString.
type StringKind struct {
	Value string
}

func (StringKind) lvalueKind() {}

// IndexKind applies one subscript to an enclosing lvalue; multi-dimensional
// indexing is represented as IndexKind wrapping IndexKind, outermost last.
type IndexKind struct {
	Base  LValueKind
	Index Expr
}

func (IndexKind) lvalueKind() {}

// LValue is an addressable expression: its Kind determines how the IR
// emitter computes an address, and its LType annotation (filled by the
// semantic analyzer, once, per spec §4.2's lvalue-typing rules) determines
// what that address holds.
type LValue struct {
	Pos  *Pos
	Kind LValueKind
	LType types.Type // the type of the value denoted once every Index has been applied so far
}

// IsArray reports whether the lvalue, at its current level of indexing,
// still denotes an array (as opposed to a scalar Int or Char).
func (lv *LValue) IsArray() bool {
	_, ok := lv.LType.(types.Array)
	return ok
}

// ArrayType returns the lvalue's type as an Array, when IsArray is true.
func (lv *LValue) ArrayType() (types.Array, bool) {
	a, ok := lv.LType.(types.Array)
	return a, ok
}
