package codegen

import (
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"nestedlang/nlc/internal/ast"
	"nestedlang/nlc/internal/frame"
	"nestedlang/nlc/internal/report"
	"nestedlang/nlc/internal/types"
)

// findOwner walks fn's static ParentFunc chain looking for a frame slot
// named name, returning the function whose frame owns it and how many
// access-link hops separate fn's frame from that owner's frame.
func findOwner(fn *ast.FuncDef, name string) (*ast.FuncDef, frame.Slot, int) {
	hops := 0
	for f := fn; f != nil; f = f.ParentFunc {
		if s, ok := frame.Of(f).FindSlot(name); ok {
			return f, s, hops
		}
		hops++
	}
	return nil, frame.Slot{}, 0
}

// addrOfIdentifier walks the access-link chain from the current function's
// frame to the frame that declares name, then returns the address (and
// declared type) of its slot, per spec §4.4 "lvalue addressing".
func (e *Emitter) addrOfIdentifier(name string) (value.Value, types.Type) {
	owner, slot, hops := findOwner(e.curFn, name)
	if owner == nil {
		report.Internal("codegen: unresolved identifier %q in %q", name, e.curFn.Header.ID)
	}

	framePtr := e.frameAlloca
	frameType := e.frameTypes[e.curFn.Header.CompID]
	cur := e.curFn
	for i := 0; i < hops; i++ {
		linkPtr := e.block.NewGetElementPtr(frameType, framePtr, i32(0), i32(0))
		parentType := e.frameTypes[cur.ParentFunc.Header.CompID]
		framePtr = e.block.NewLoad(lltypes.NewPointer(parentType), linkPtr)
		frameType = parentType
		cur = cur.ParentFunc
	}

	slotPtr := e.block.NewGetElementPtr(frameType, framePtr, i32(0), i32(slot.Index))
	switch {
	case slot.IsArray:
		return e.block.NewLoad(slotLLType(slot), slotPtr), slot.Type
	case slot.IsRef:
		return e.block.NewLoad(slotLLType(slot), slotPtr), slot.Type
	default:
		return slotPtr, slot.Type
	}
}

// flattenIndices walks a chain of nested IndexKind nodes down to its root
// (an IdKind or StringKind), collecting the index expressions in
// outermost-first order.
func flattenIndices(k ast.LValueKind) (ast.LValueKind, []ast.Expr) {
	if idx, ok := k.(ast.IndexKind); ok {
		root, rest := flattenIndices(idx.Base)
		return root, append(rest, idx.Index)
	}
	return k, nil
}

// addrOfLValue computes the address of lv, applying spec §4.4's
// dimension-flattening arithmetic for any applied Index nodes. It returns
// only the address; lv's own (possibly array) type is lv.LType.
func (e *Emitter) addrOfLValue(lv *ast.LValue) value.Value {
	root, indices := flattenIndices(lv.Kind)

	var basePtr value.Value
	var rootType types.Type
	switch v := root.(type) {
	case ast.IdKind:
		basePtr, rootType = e.addrOfIdentifier(v.Name)
	case ast.StringKind:
		g := e.internString(v.Value)
		basePtr = e.block.NewBitCast(g, lltypes.NewPointer(lltypes.I8))
		rootType = types.Array{Elem: types.Char{}, Size: len(v.Value) + 1}
	default:
		report.Internal("codegen: unhandled lvalue root %T", root)
	}

	if len(indices) == 0 {
		return basePtr
	}

	arr, ok := rootType.(types.Array)
	if !ok {
		report.Internal("codegen: indexing into non-array root of type %s", rootType.Repr())
	}
	dims := types.Dims(arr)

	offset := e.computeIndexOffset(dims, indices)
	elemType := lowerValueType(types.InnermostElem(arr))
	return e.block.NewGetElementPtr(elemType, basePtr, offset)
}

// computeIndexOffset implements the row-major flattening formula of spec
// §4.4: for m supplied indices into a k-dimensional array, offset = sum
// over j of i_j * product(dims[j+1:k]). A partial index (m < k) yields the
// start of the corresponding sub-array, matching the "unconsumed innermost
// dimensions are preserved as the result's array type" rule. dims[0] (which
// may be the open-array sentinel) only enters suffix[0], which is never
// used, so it never contributes to the offset.
func (e *Emitter) computeIndexOffset(dims []int, indexExprs []ast.Expr) value.Value {
	k := len(dims)
	suffix := make([]int64, k+1)
	suffix[k] = 1
	for j := k - 1; j >= 0; j-- {
		suffix[j] = suffix[j+1] * int64(dims[j])
	}

	offset := e.genExpr(indexExprs[0])
	if suffix[1] != 1 {
		offset = e.block.NewMul(offset, constI64(suffix[1]))
	}
	for j := 1; j < len(indexExprs); j++ {
		term := e.genExpr(indexExprs[j])
		if suffix[j+1] != 1 {
			term = e.block.NewMul(term, constI64(suffix[j+1]))
		}
		offset = e.block.NewAdd(offset, term)
	}
	return offset
}
