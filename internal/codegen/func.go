package codegen

import (
	lltypes "github.com/llir/llvm/ir/types"

	"nestedlang/nlc/internal/ast"
	"nestedlang/nlc/internal/frame"
	"nestedlang/nlc/internal/types"
)

// genFuncBody lowers fn's body into its already-declared *ir.Func, then
// recurses into every nested FuncDef. Declaration (genFuncBody's sibling
// pass, declareFuncs) has already run over the whole tree, so every callee
// and access-link frame type this body references already exists.
func (e *Emitter) genFuncBody(fn *ast.FuncDef) {
	fr := frame.Of(fn)
	llFn := e.funcs[fn.Header.CompID]
	frameType := e.frameTypes[fn.Header.CompID]

	e.curFn, e.curLL, e.curFrame = fn, llFn, fr
	e.blockCounter = 0

	entry := llFn.NewBlock("entry")
	retBlock := llFn.NewBlock("return")
	e.retBlock = retBlock
	e.block = entry

	frameAlloca := entry.NewAlloca(frameType)
	e.frameAlloca = frameAlloca

	// Store every incoming parameter (access link included) into its frame
	// slot, per spec §4.4's prologue.
	for i, p := range llFn.Params {
		slotPtr := entry.NewGetElementPtr(frameType, frameAlloca, i32(0), i32(i))
		entry.NewStore(p, slotPtr)
	}

	// Allocate storage for array locals and store their base pointer into
	// the frame slot (array parameters already hold a caller-owned pointer
	// and need no allocation here).
	for _, s := range fr.Slots[fr.ParamCount:] {
		if !s.IsArray {
			continue
		}
		arr := s.Type.(types.Array)
		total := int64(1)
		for _, d := range types.Dims(arr) {
			total *= int64(d)
		}
		elemType := lowerValueType(types.InnermostElem(arr))
		storage := entry.NewAlloca(lltypes.NewArray(uint64(total), elemType))
		basePtr := entry.NewGetElementPtr(storage.ElemType, storage, i32(0), i32(0))
		slotPtr := entry.NewGetElementPtr(frameType, frameAlloca, i32(0), i32(s.Index))
		entry.NewStore(basePtr, slotPtr)
	}

	if !types.IsNone(fn.Header.RetType) {
		e.retSlot = entry.NewAlloca(lowerValueType(fn.Header.RetType))
	} else {
		e.retSlot = nil
	}

	e.genStmtBlock(fn.Body)
	e.branchIfOpen(retBlock)

	if e.retSlot != nil {
		rt := lowerValueType(fn.Header.RetType)
		retBlock.NewRet(retBlock.NewLoad(rt, e.retSlot))
	} else {
		retBlock.NewRet(nil)
	}

	for _, ld := range fn.Locals {
		if nested, ok := ld.(*ast.FuncDef); ok {
			e.genFuncBody(nested)
		}
	}
}
