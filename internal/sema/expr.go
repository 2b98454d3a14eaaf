package sema

import (
	"nestedlang/nlc/internal/ast"
	"nestedlang/nlc/internal/report"
	"nestedlang/nlc/internal/symtab"
	"nestedlang/nlc/internal/types"
)

func isInt(t types.Type) bool {
	_, ok := t.(types.Int)
	return ok
}

// typeOfExpr implements the literal/signed/binary/lvalue/call rules of spec
// §4.2 "Type inference & checks", annotating e with its result type exactly
// once.
func (a *Analyzer) typeOfExpr(e ast.Expr) types.Type {
	var t types.Type
	switch v := e.(type) {
	case *ast.IntLit:
		t = types.Int{}
	case *ast.CharLit:
		t = types.Char{}
	case *ast.ParenExpr:
		t = a.typeOfExpr(v.Inner)
	case *ast.SignedExpr:
		ot := a.typeOfExpr(v.Operand)
		if !isInt(ot) {
			report.Fatal(report.KindType, nil, "unary +/- requires an integer operand, got %s", ot.Repr())
		}
		t = types.Int{}
	case *ast.BinaryExpr:
		lt := a.typeOfExpr(v.Left)
		rt := a.typeOfExpr(v.Right)
		if !isInt(lt) || !isInt(rt) {
			report.Fatal(report.KindType, nil, "arithmetic requires integer operands, got %s and %s", lt.Repr(), rt.Repr())
		}
		t = types.Int{}
	case *ast.LValueExpr:
		t = a.typeOfLValue(v.LV)
	case *ast.CallExpr:
		rt := a.checkCall(v)
		if types.IsNone(rt) {
			report.Fatal(report.KindType, nil, "cannot use the result of %q (which returns none) as a value", v.Name)
		}
		t = rt
	default:
		report.Internal("sema: unhandled expression type %T", e)
	}
	e.SetType(t)
	return t
}

// typeOfLValue implements spec §4.2's lvalue-typing rules for Id, String,
// and Index, annotating lv.LType exactly once.
func (a *Analyzer) typeOfLValue(lv *ast.LValue) types.Type {
	t := a.typeOfKind(lv.Kind)
	lv.LType = t
	return t
}

func (a *Analyzer) typeOfKind(k ast.LValueKind) types.Type {
	switch v := k.(type) {
	case ast.IdKind:
		entry, ok := a.table.Lookup(v.Name)
		if !ok {
			report.Fatal(report.KindName, nil, "undefined identifier %q", v.Name)
		}
		if entry.Kind == symtab.KindFunction {
			report.Fatal(report.KindType, nil, "cannot use function %q as a value", v.Name)
		}
		return entry.Type

	case ast.StringKind:
		return types.Array{Elem: types.Char{}, Size: len(v.Value) + 1}

	case ast.IndexKind:
		idxType := a.typeOfExpr(v.Index)
		if !isInt(idxType) {
			report.Fatal(report.KindType, nil, "array index must be an integer, got %s", idxType.Repr())
		}
		baseType := a.typeOfKind(v.Base)
		arr, ok := baseType.(types.Array)
		if !ok {
			report.Fatal(report.KindType, nil, "cannot index a non-array value of type %s", baseType.Repr())
		}
		if arr.Size != types.OpenDim {
			if n, ok := constExprValue(v.Index); ok && (n < 0 || n >= int64(arr.Size)) {
				report.Fatal(report.KindValue, nil, "array index %d is out of bounds for dimension %d", n, arr.Size)
			}
		}
		return arr.Elem
	}

	report.Internal("sema: unhandled lvalue kind %T", k)
	return types.None{}
}

// stringRooted reports whether k ultimately indexes into a string literal,
// used to reject assignment to one of its elements.
func stringRooted(k ast.LValueKind) bool {
	switch v := k.(type) {
	case ast.StringKind:
		return true
	case ast.IndexKind:
		return stringRooted(v.Base)
	default:
		return false
	}
}

// unwrapLValue strips any number of enclosing parentheses and reports
// whether e is, at its core, an LValueExpr -- the addressability test for
// by-reference call arguments (spec §4.2 "each argument corresponding to a
// by-reference parameter must itself be an lvalue, possibly under
// parentheses").
func unwrapLValue(e ast.Expr) (*ast.LValueExpr, bool) {
	switch v := e.(type) {
	case *ast.LValueExpr:
		return v, true
	case *ast.ParenExpr:
		return unwrapLValue(v.Inner)
	default:
		return nil, false
	}
}

// checkCall resolves call against the symbol table, validates its argument
// count/types/passing-mode compatibility, and records its resolved comp_id,
// per spec §4.2 "Function call".
func (a *Analyzer) checkCall(call *ast.CallExpr) types.Type {
	entry, ok := a.table.Lookup(call.Name)
	if !ok {
		report.Fatal(report.KindName, nil, "undefined function %q", call.Name)
	}
	if entry.Kind != symtab.KindFunction {
		report.Fatal(report.KindName, nil, "%q is not a function", call.Name)
	}
	call.CompID = entry.CompID

	if len(call.Args) != len(entry.Params) {
		report.Fatal(report.KindShape, nil, "%q expects %d argument(s), got %d", call.Name, len(entry.Params), len(call.Args))
	}

	for i, argExpr := range call.Args {
		param := entry.Params[i]
		argType := a.typeOfExpr(argExpr)

		if param.Passing == symtab.ByReference {
			if _, ok := unwrapLValue(argExpr); !ok {
				report.Fatal(report.KindParam, nil, "argument %d to %q must be a variable (the parameter is passed by reference)", i+1, call.Name)
			}
		}
		if !types.Equal(argType, param.Type) {
			report.Fatal(report.KindType, nil, "argument %d to %q has type %s, expected %s", i+1, call.Name, argType.Repr(), param.Type.Repr())
		}
	}

	return entry.ReturnType
}

// checkCond implements comparison/and/or/not/paren condition checking (spec
// §4.2's typing rules extended to conditions: comparison operands must
// share a type).
func (a *Analyzer) checkCond(c ast.Cond) {
	switch v := c.(type) {
	case *ast.CompareCond:
		lt := a.typeOfExpr(v.Left)
		rt := a.typeOfExpr(v.Right)
		if !types.Equal(lt, rt) {
			report.Fatal(report.KindType, nil, "comparison operands have different types (%s vs %s)", lt.Repr(), rt.Repr())
		}
	case *ast.AndCond:
		a.checkCond(v.Left)
		a.checkCond(v.Right)
	case *ast.OrCond:
		a.checkCond(v.Left)
		a.checkCond(v.Right)
	case *ast.NotCond:
		a.checkCond(v.Operand)
	case *ast.ParenCond:
		a.checkCond(v.Inner)
	default:
		report.Internal("sema: unhandled condition type %T", c)
	}
}

// -----------------------------------------------------------------------------
// Constant evaluation (spec §4.2 "Constant evaluation"): folds literals for
// bounds checks and dead-branch reachability; undefined for anything
// involving identifiers or calls.

func constExprValue(e ast.Expr) (int64, bool) {
	switch v := e.(type) {
	case *ast.IntLit:
		return v.Value, true
	case *ast.ParenExpr:
		return constExprValue(v.Inner)
	case *ast.SignedExpr:
		val, ok := constExprValue(v.Operand)
		if !ok {
			return 0, false
		}
		if v.Negative {
			return -val, true
		}
		return val, true
	case *ast.BinaryExpr:
		l, lok := constExprValue(v.Left)
		r, rok := constExprValue(v.Right)
		if !lok || !rok {
			return 0, false
		}
		switch v.Op {
		case ast.OpAdd:
			return l + r, true
		case ast.OpSub:
			return l - r, true
		case ast.OpMul:
			return l * r, true
		case ast.OpDiv:
			if r == 0 {
				return 0, false
			}
			return l / r, true
		case ast.OpMod:
			if r == 0 {
				return 0, false
			}
			return l % r, true
		}
	}
	return 0, false
}

func constCondValue(c ast.Cond) (bool, bool) {
	switch v := c.(type) {
	case *ast.CompareCond:
		l, lok := constExprValue(v.Left)
		r, rok := constExprValue(v.Right)
		if !lok || !rok {
			return false, false
		}
		switch v.Op {
		case ast.CmpEq:
			return l == r, true
		case ast.CmpNe:
			return l != r, true
		case ast.CmpLt:
			return l < r, true
		case ast.CmpLe:
			return l <= r, true
		case ast.CmpGt:
			return l > r, true
		case ast.CmpGe:
			return l >= r, true
		}
	case *ast.AndCond:
		l, lok := constCondValue(v.Left)
		if lok && !l {
			return false, true
		}
		r, rok := constCondValue(v.Right)
		if lok && rok {
			return l && r, true
		}
		return false, false
	case *ast.OrCond:
		l, lok := constCondValue(v.Left)
		if lok && l {
			return true, true
		}
		r, rok := constCondValue(v.Right)
		if lok && rok {
			return l || r, true
		}
		return false, false
	case *ast.NotCond:
		v2, ok := constCondValue(v.Operand)
		if !ok {
			return false, false
		}
		return !v2, true
	case *ast.ParenCond:
		return constCondValue(v.Inner)
	}
	return false, false
}
