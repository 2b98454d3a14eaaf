package sema

import (
	"testing"

	"github.com/nalgeon/be"

	"nestedlang/nlc/internal/ast"
	"nestedlang/nlc/internal/report"
	"nestedlang/nlc/internal/types"
)

// intLit/idExpr/block/retNone/mainFunc are small hand-construction helpers, since
// this package has no parser to build fixtures with.

func intLit(v int64) *ast.IntLit { return &ast.IntLit{Value: v} }

func idExpr(name string) *ast.LValueExpr {
	return &ast.LValueExpr{LV: &ast.LValue{Kind: ast.IdKind{Name: name}}}
}

func block(stmts ...ast.Stmt) *ast.Block { return &ast.Block{Stmts: stmts} }

func retNone() *ast.ReturnStmt { return &ast.ReturnStmt{} }

func mainFunc(locals []ast.LocalDef, body *ast.Block) *ast.FuncDef {
	return &ast.FuncDef{
		Header: ast.Header{ID: "main", RetType: types.None{}},
		Locals: locals,
		Body:   body,
	}
}

func TestRootMustReturnNone(t *testing.T) {
	root := &ast.FuncDef{
		Header: ast.Header{ID: "main", RetType: types.Int{}},
		Body:   block(retNone()),
	}
	be.True(t, fatalPanics(func() { Analyze(root) }))
}

func TestRootMustTakeNoParameters(t *testing.T) {
	root := &ast.FuncDef{
		Header: ast.Header{ID: "main", RetType: types.None{}, FParDefs: []ast.FParDef{
			{Names: []string{"x"}, Type: types.Int{}},
		}},
		Body: block(retNone()),
	}
	be.True(t, fatalPanics(func() { Analyze(root) }))
}

func TestDuplicateParameterNameIsFatal(t *testing.T) {
	root := mainFunc(nil, block(retNone()))
	nested := &ast.FuncDef{
		Header: ast.Header{ID: "f", RetType: types.None{}, FParDefs: []ast.FParDef{
			{Names: []string{"a", "a"}, Type: types.Int{}},
		}},
		Body: block(retNone()),
	}
	root.Locals = []ast.LocalDef{nested}
	be.True(t, fatalPanics(func() { Analyze(root) }))
}

func TestForwardDeclarationWithoutDefinitionIsFatal(t *testing.T) {
	decl := &ast.FuncDecl{Header: ast.Header{ID: "f", RetType: types.None{}}}
	root := mainFunc([]ast.LocalDef{decl}, block(retNone()))
	be.True(t, fatalPanics(func() { Analyze(root) }))
}

func TestMutualRecursionResolvesViaForwardDeclaration(t *testing.T) {
	// func f() -> none is declared, then g calls it, then f is defined
	// calling g -- resolvable only because the forward declaration entered
	// f's signature before g's body was analyzed.
	fDecl := &ast.FuncDecl{Header: ast.Header{ID: "f", RetType: types.None{}}}

	gDef := &ast.FuncDef{
		Header: ast.Header{ID: "g", RetType: types.None{}},
		Body: block(&ast.CallStmt{Call: &ast.CallExpr{Name: "f"}}, retNone()),
	}

	fDef := &ast.FuncDef{
		Header: ast.Header{ID: "f", RetType: types.None{}},
		Body: block(&ast.CallStmt{Call: &ast.CallExpr{Name: "g"}}, retNone()),
	}

	root := mainFunc([]ast.LocalDef{fDecl, gDef, fDef}, block(retNone()))

	be.True(t, !fatalPanics(func() { Analyze(root) }))
	be.True(t, fDef.Header.CompID != "")
	be.True(t, fDecl.FuncDefRef == fDef)
}

func TestForwardDeclarationAfterItsOwnDefinitionIsFatal(t *testing.T) {
	// def precedes decl here, so the decl has no *following* definition in
	// the same scope even though an earlier FuncDef with the same name
	// exists -- scanning the whole list instead of just the remainder would
	// wrongly resolve this.
	def := &ast.FuncDef{Header: ast.Header{ID: "f", RetType: types.None{}}, Body: block(retNone())}
	decl := &ast.FuncDecl{Header: ast.Header{ID: "f", RetType: types.None{}}}
	root := mainFunc([]ast.LocalDef{def, decl}, block(retNone()))
	be.True(t, fatalPanics(func() { Analyze(root) }))
}

func TestRedundantForwardDeclarationWarnsNotFatal(t *testing.T) {
	decl1 := &ast.FuncDecl{Header: ast.Header{ID: "f", RetType: types.None{}}}
	decl2 := &ast.FuncDecl{Header: ast.Header{ID: "f", RetType: types.None{}}}
	def := &ast.FuncDef{Header: ast.Header{ID: "f", RetType: types.None{}}, Body: block(retNone())}

	root := mainFunc([]ast.LocalDef{decl1, decl2, def}, block(retNone()))
	be.True(t, !fatalPanics(func() { Analyze(root) }))
	be.True(t, decl2.IsRedundant)
	be.True(t, !decl1.IsRedundant)
}

func TestOverloadingByParameterCountIsRejected(t *testing.T) {
	decl := &ast.FuncDecl{Header: ast.Header{ID: "f", RetType: types.None{}}}
	def := &ast.FuncDef{
		Header: ast.Header{ID: "f", RetType: types.None{}, FParDefs: []ast.FParDef{
			{Names: []string{"x"}, Type: types.Int{}},
		}},
		Body: block(retNone()),
	}
	root := mainFunc([]ast.LocalDef{decl, def}, block(retNone()))
	be.True(t, fatalPanics(func() { Analyze(root) }))
}

func TestAccessLinkNestingSetsParentFunc(t *testing.T) {
	inner := &ast.FuncDef{Header: ast.Header{ID: "inner", RetType: types.None{}}, Body: block(retNone())}
	outer := &ast.FuncDef{
		Header: ast.Header{ID: "outer", RetType: types.None{}},
		Locals: []ast.LocalDef{inner},
		Body:   block(retNone()),
	}
	root := mainFunc([]ast.LocalDef{outer}, block(retNone()))

	be.True(t, !fatalPanics(func() { Analyze(root) }))
	be.True(t, inner.ParentFunc == outer)
	be.True(t, outer.ParentFunc == root)
	be.True(t, root.ParentFunc == nil)
}

func TestAssignTypeMismatchIsFatal(t *testing.T) {
	varDef := &ast.VarDef{Names: []string{"x"}, Type: types.Int{}}
	assign := &ast.AssignStmt{LV: &ast.LValue{Kind: ast.IdKind{Name: "x"}}, RHS: &ast.CharLit{Value: 'a'}}
	root := mainFunc([]ast.LocalDef{varDef}, block(assign, retNone()))
	be.True(t, fatalPanics(func() { Analyze(root) }))
}

func TestAssignToArrayIsFatal(t *testing.T) {
	varDef := &ast.VarDef{Names: []string{"x"}, Type: types.Array{Elem: types.Int{}, Size: 3}}
	assign := &ast.AssignStmt{LV: &ast.LValue{Kind: ast.IdKind{Name: "x"}}, RHS: intLit(1)}
	root := mainFunc([]ast.LocalDef{varDef}, block(assign, retNone()))
	be.True(t, fatalPanics(func() { Analyze(root) }))
}

func TestByReferenceArgumentMustBeLValue(t *testing.T) {
	decl := &ast.FuncDecl{Header: ast.Header{ID: "f", RetType: types.None{}, FParDefs: []ast.FParDef{
		{Names: []string{"n"}, Type: types.Int{}, Passing: ast.ByReference},
	}}}
	def := &ast.FuncDef{
		Header: ast.Header{ID: "f", RetType: types.None{}, FParDefs: []ast.FParDef{
			{Names: []string{"n"}, Type: types.Int{}, Passing: ast.ByReference},
		}},
		Body: block(retNone()),
	}
	badCall := &ast.CallStmt{Call: &ast.CallExpr{Name: "f", Args: []ast.Expr{intLit(1)}}}
	root := mainFunc([]ast.LocalDef{decl, def}, block(badCall, retNone()))
	be.True(t, fatalPanics(func() { Analyze(root) }))
}

func TestIfElseBothDefiniteAgreeingTypesPropagates(t *testing.T) {
	fn := &ast.FuncDef{
		Header: ast.Header{ID: "f", RetType: types.Int{}},
		Body: block(&ast.IfElseStmt{
			Cond: &ast.CompareCond{Op: ast.CmpEq, Left: intLit(1), Right: intLit(1)},
			Then: &ast.ReturnStmt{Value: intLit(1)},
			Else: &ast.ReturnStmt{Value: intLit(2)},
		}),
	}
	root := mainFunc([]ast.LocalDef{fn}, block(retNone()))
	be.True(t, !fatalPanics(func() { Analyze(root) }))
}

func TestIfElseBranchesDisagreeingTypesIsFatal(t *testing.T) {
	fn := &ast.FuncDef{
		Header: ast.Header{ID: "f", RetType: types.Int{}},
		Body: block(&ast.IfElseStmt{
			Cond: &ast.CompareCond{Op: ast.CmpEq, Left: intLit(1), Right: intLit(1)},
			Then: &ast.ReturnStmt{Value: intLit(1)},
			Else: &ast.ReturnStmt{Value: &ast.CharLit{Value: 'a'}},
		}),
	}
	root := mainFunc([]ast.LocalDef{fn}, block(retNone()))
	be.True(t, fatalPanics(func() { Analyze(root) }))
}

func TestWhileWithConstantFalseGuardDoesNotPropagateReturn(t *testing.T) {
	fn := &ast.FuncDef{
		Header: ast.Header{ID: "f", RetType: types.Int{}},
		Body: block(&ast.WhileStmt{
			Cond: &ast.CompareCond{Op: ast.CmpEq, Left: intLit(0), Right: intLit(1)},
			Body: &ast.ReturnStmt{Value: intLit(1)},
		}, &ast.ReturnStmt{Value: intLit(2)}),
	}
	root := mainFunc([]ast.LocalDef{fn}, block(retNone()))
	// while's condition here is constant-false, so it never definitely
	// returns and the trailing return is what makes the function's body
	// definite; this exercises the reachability merge without hitting the
	// infinite-loop warning path.
	be.True(t, !fatalPanics(func() { Analyze(root) }))
}

func TestFunctionBodyMustProvablyReturn(t *testing.T) {
	fn := &ast.FuncDef{
		Header: ast.Header{ID: "f", RetType: types.Int{}},
		Body:   block(),
	}
	root := mainFunc([]ast.LocalDef{fn}, block(retNone()))
	be.True(t, fatalPanics(func() { Analyze(root) }))
}

func TestOpenArrayCallAcceptsAnyFixedDimension(t *testing.T) {
	decl := &ast.FuncDecl{Header: ast.Header{ID: "f", RetType: types.None{}, FParDefs: []ast.FParDef{
		{Names: []string{"s"}, Type: types.Array{Elem: types.Char{}, Size: types.OpenDim}, Passing: ast.ByReference},
	}}}
	def := &ast.FuncDef{
		Header: ast.Header{ID: "f", RetType: types.None{}, FParDefs: []ast.FParDef{
			{Names: []string{"s"}, Type: types.Array{Elem: types.Char{}, Size: types.OpenDim}, Passing: ast.ByReference},
		}},
		Body: block(retNone()),
	}
	buf := &ast.VarDef{Names: []string{"buf"}, Type: types.Array{Elem: types.Char{}, Size: 10}}
	call := &ast.CallStmt{Call: &ast.CallExpr{Name: "f", Args: []ast.Expr{idExpr("buf")}}}

	root := mainFunc([]ast.LocalDef{decl, def, buf}, block(call, retNone()))
	be.True(t, !fatalPanics(func() { Analyze(root) }))
}

// fatalPanics runs fn and reports whether it panicked with a
// *report.Diagnostic, the shape every report.Fatal call produces.
func fatalPanics(fn func()) (panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(*report.Diagnostic); !ok {
				panic(r)
			}
			panicked = true
		}
	}()
	fn()
	return false
}
