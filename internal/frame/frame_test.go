package frame

import (
	"testing"

	"github.com/nalgeon/be"

	"nestedlang/nlc/internal/ast"
	"nestedlang/nlc/internal/types"
)

func TestRootFrameHasNoAccessLink(t *testing.T) {
	root := &ast.FuncDef{Header: ast.Header{ID: "main", CompID: "main"}, Body: &ast.Block{}}
	fr := Plan(root)
	be.True(t, !fr.HasAccessLink)
	be.Equal(t, 0, fr.ParamCount)
}

func TestNestedFrameReservesAccessLinkSlotZero(t *testing.T) {
	inner := &ast.FuncDef{
		Header: ast.Header{ID: "inner", CompID: "inner_1"},
		Body:   &ast.Block{},
	}
	outer := &ast.FuncDef{
		Header: ast.Header{ID: "outer", CompID: "outer"},
		Locals: []ast.LocalDef{inner},
		Body:   &ast.Block{},
	}
	outer.ParentFunc = nil
	inner.ParentFunc = outer

	Plan(outer)

	fr := Of(inner)
	be.True(t, fr.HasAccessLink)
	be.Equal(t, AccessLinkSlot, 0)
	be.Equal(t, "$link", fr.Slots[0].Name)
	be.Equal(t, 1, fr.ParamCount)
}

func TestParamCountExcludesLocals(t *testing.T) {
	fn := &ast.FuncDef{
		Header: ast.Header{ID: "f", CompID: "f", FParDefs: []ast.FParDef{
			{Names: []string{"a", "b"}, Type: types.Int{}},
		}},
		Locals: []ast.LocalDef{
			&ast.VarDef{Names: []string{"x"}, Type: types.Int{}},
		},
		Body: &ast.Block{},
	}

	fr := Plan(fn)
	be.Equal(t, 2, fr.ParamCount)
	be.Equal(t, 3, fr.Length)
	be.Equal(t, len(fr.Slots), fr.Length)
}

func TestArrayParameterIsAlwaysByReference(t *testing.T) {
	fn := &ast.FuncDef{
		Header: ast.Header{ID: "f", CompID: "f", FParDefs: []ast.FParDef{
			{Names: []string{"s"}, Type: types.Array{Elem: types.Char{}, Size: types.OpenDim}, Passing: ast.ByValue},
		}},
		Body: &ast.Block{},
	}
	fr := Plan(fn)
	slot, ok := fr.FindSlot("s")
	be.True(t, ok)
	be.True(t, slot.IsRef)
	be.True(t, slot.IsArray)
}

func TestPlanRecursesIntoNestedFunctions(t *testing.T) {
	grandchild := &ast.FuncDef{Header: ast.Header{ID: "gc", CompID: "gc"}, Body: &ast.Block{}}
	child := &ast.FuncDef{
		Header: ast.Header{ID: "c", CompID: "c"},
		Locals: []ast.LocalDef{grandchild},
		Body:   &ast.Block{},
	}
	root := &ast.FuncDef{
		Header: ast.Header{ID: "main", CompID: "main"},
		Locals: []ast.LocalDef{child},
		Body:   &ast.Block{},
	}
	child.ParentFunc = root
	grandchild.ParentFunc = child

	Plan(root)

	be.True(t, func() bool { _, ok := grandchild.Frame.(*Frame); return ok }())
}
