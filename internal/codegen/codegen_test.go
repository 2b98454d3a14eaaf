package codegen

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"

	"nestedlang/nlc/internal/ast"
	"nestedlang/nlc/internal/frame"
	"nestedlang/nlc/internal/types"
)

func TestGenerateEmitsRootFunctionAndFrameStruct(t *testing.T) {
	root := &ast.FuncDef{
		Header: ast.Header{ID: "main", CompID: "main", RetType: types.None{}},
		Body:   &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{}}},
	}
	frame.Plan(root)

	mod := Generate(root)
	text := mod.String()

	be.True(t, strings.Contains(text, "define"))
	be.True(t, strings.Contains(text, "@main"))
	be.True(t, strings.Contains(text, "%frame_main"))
}

func TestGenerateWiresNestedAccessLink(t *testing.T) {
	inner := &ast.FuncDef{
		Header: ast.Header{ID: "inner", CompID: "inner_1", RetType: types.None{}},
		Body:   &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{}}},
	}
	root := &ast.FuncDef{
		Header: ast.Header{ID: "main", CompID: "main", RetType: types.None{}},
		Locals: []ast.LocalDef{inner},
		Body:   &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{}}},
	}
	inner.ParentFunc = root
	frame.Plan(root)

	mod := Generate(root)
	text := mod.String()

	be.True(t, strings.Contains(text, "@inner_1"))
	be.True(t, strings.Contains(text, "%frame_main*"))
}

func TestGenerateDeclaresLibraryRoutines(t *testing.T) {
	root := &ast.FuncDef{
		Header: ast.Header{ID: "main", CompID: "main", RetType: types.None{}},
		Body:   &ast.Block{Stmts: []ast.Stmt{&ast.ReturnStmt{}}},
	}
	frame.Plan(root)

	mod := Generate(root)
	text := mod.String()

	be.True(t, strings.Contains(text, "@writeInteger"))
	be.True(t, strings.Contains(text, "@strcmp"))
}

func TestLowerValueTypeArrayIsBarePointer(t *testing.T) {
	arr := types.Array{Elem: types.Array{Elem: types.Char{}, Size: 4}, Size: 3}
	lt := lowerValueType(arr)
	be.True(t, strings.Contains(lt.String(), "i8*"))
}
