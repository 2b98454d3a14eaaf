package sema

import (
	"nestedlang/nlc/internal/ast"
	"nestedlang/nlc/internal/report"
	"nestedlang/nlc/internal/types"
)

// analyzeStmt type-checks s and computes its type_of_stmt contribution to
// control-flow analysis (spec §4.2 "Control-flow typing"), annotating s's
// ReturnType exactly once when it definitely returns.
func (a *Analyzer) analyzeStmt(s ast.Stmt) (types.Type, bool) {
	rt, definite := a.analyzeStmtInner(s)
	if definite {
		s.SetReturnType(rt)
	}
	return rt, definite
}

func (a *Analyzer) analyzeStmtInner(s ast.Stmt) (types.Type, bool) {
	switch v := s.(type) {
	case *ast.AssignStmt:
		a.checkAssign(v)
		return nil, false

	case *ast.CallStmt:
		rt := a.checkCall(v.Call)
		v.Call.SetType(rt)
		if !types.IsNone(rt) {
			report.Warn(report.KindValue, nil, "unused return value of call to %q", v.Call.Name)
		}
		return nil, false

	case *ast.Block:
		return a.analyzeBlock(v)

	case *ast.IfStmt:
		a.checkCond(v.Cond)
		rt, definite := a.analyzeStmt(v.Then)
		if cv, ok := constCondValue(v.Cond); ok && cv && definite {
			return rt, true
		}
		return nil, false

	case *ast.IfElseStmt:
		a.checkCond(v.Cond)
		rtThen, defThen := a.analyzeStmt(v.Then)
		rtElse, defElse := a.analyzeStmt(v.Else)
		if defThen && defElse {
			if !types.Equal(rtThen, rtElse) {
				report.Fatal(report.KindType, nil, "if/else branches return different types (%s vs %s)", rtThen.Repr(), rtElse.Repr())
			}
			return rtThen, true
		}
		return nil, false

	case *ast.WhileStmt:
		a.checkCond(v.Cond)
		rt, definite := a.analyzeStmt(v.Body)
		if cv, ok := constCondValue(v.Cond); ok && cv {
			if definite {
				return rt, true
			}
			report.Warn(report.KindValue, nil, "infinite loop: condition is always true and the body never returns")
			return nil, false
		}
		return nil, false

	case *ast.ReturnStmt:
		if v.Value == nil {
			return types.None{}, true
		}
		return a.typeOfExpr(v.Value), true

	case *ast.EmptyStmt:
		return nil, false
	}

	report.Internal("sema: unhandled statement type %T", s)
	return nil, false
}

// analyzeBlock walks a statement sequence, computing type_of_block: the
// first sub-statement's definite return type, if any, and a single
// "unreachable code" warning for everything after it.
func (a *Analyzer) analyzeBlock(b *ast.Block) (types.Type, bool) {
	var resultType types.Type
	found := false
	warned := false

	for _, s := range b.Stmts {
		rt, definite := a.analyzeStmt(s)

		if found {
			if !warned {
				report.Warn(report.KindValue, nil, "unreachable code after a returning statement")
				warned = true
			}
			continue
		}

		if definite {
			resultType = rt
			found = true
		}
	}

	return resultType, found
}

// checkAssign implements spec §4.2 "Assignment": the left-hand side must be
// a scalar (Int or Char, never an array), and the right-hand side's type
// must equal it exactly.
func (a *Analyzer) checkAssign(s *ast.AssignStmt) {
	lhsType := a.typeOfLValue(s.LV)

	if stringRooted(s.LV.Kind) {
		report.Fatal(report.KindType, nil, "cannot assign to a string literal's element")
	}
	if _, isArr := lhsType.(types.Array); isArr {
		report.Fatal(report.KindType, nil, "cannot assign to an array")
	}

	rhsType := a.typeOfExpr(s.RHS)
	if !types.Equal(lhsType, rhsType) {
		report.Fatal(report.KindType, nil, "cannot assign a value of type %s to a variable of type %s", rhsType.Repr(), lhsType.Repr())
	}
}
