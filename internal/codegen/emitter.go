// Package codegen is the IR emitter: it lowers a fully-analyzed,
// frame-planned AST to github.com/llir/llvm IR, following the per-function
// prologue, static-link lvalue addressing, short-circuit condition, and
// call-sequence rules of spec §4.4.
//
// Grounded on bootstrap/generate's Generator: a single struct carrying the
// in-progress *ir.Module plus per-function-body cursor state (current
// block, current function), built with real llir/llvm constructors
// (mod.NewFunc, block.NewAlloca/NewStore/NewLoad/NewGetElementPtr/NewCall,
// enum.LinkageExternal/Internal) rather than a hand-rolled IR package.
package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"nestedlang/nlc/internal/ast"
	"nestedlang/nlc/internal/frame"
	"nestedlang/nlc/internal/report"
	"nestedlang/nlc/internal/symtab"
	"nestedlang/nlc/internal/types"
)

// Emitter carries the module under construction plus the bookkeeping tables
// built during the declaration pass (frame struct types, callable *ir.Func
// values, and their parameter passing modes) and the cursor state for
// whichever function body is currently being lowered.
type Emitter struct {
	mod *ir.Module

	frameTypes map[string]lltypes.Type   // by comp_id
	funcs      map[string]*ir.Func       // by comp_id (non-library)
	funcDefs   map[string]*ast.FuncDef   // by comp_id, for access-link resolution
	libFuncs   map[string]*ir.Func       // by raw library name
	paramRef   map[string][]bool         // by comp_id (or library name): is-by-reference per parameter

	strings       map[string]*ir.Global // interned string-literal globals, keyed by content
	stringCounter int
	blockCounter  int

	// Per-function-body cursor, valid only while lowering the body of curFn.
	curFn       *ast.FuncDef
	curLL       *ir.Func
	curFrame    *frame.Frame
	frameAlloca value.Value
	retSlot     value.Value
	retBlock    *ir.Block
	block       *ir.Block
}

func newEmitter() *Emitter {
	return &Emitter{
		mod:        ir.NewModule(),
		frameTypes: make(map[string]lltypes.Type),
		funcs:      make(map[string]*ir.Func),
		funcDefs:   make(map[string]*ast.FuncDef),
		libFuncs:   make(map[string]*ir.Func),
		paramRef:   make(map[string][]bool),
		strings:    make(map[string]*ir.Global),
	}
}

// Generate is the IR emitter's entry point: fn must already carry frame
// descriptors from frame.Plan. It declares the runtime library and every
// user function's signature and frame struct type before lowering any
// body, so mutual recursion and forward calls resolve regardless of
// declaration order (spec's end-to-end scenario 3).
func Generate(root *ast.FuncDef) *Module {
	e := newEmitter()
	e.declareLibrary()
	e.declareFuncs(root)
	e.genFuncBody(root)
	return &Module{mod: e.mod}
}

// declareLibrary declares the runtime routines of spec §6 as external
// functions with no body and no access link (they are not nested in the
// source program).
func (e *Emitter) declareLibrary() {
	for _, f := range symtab.Library {
		var params []*ir.Param
		refFlags := make([]bool, len(f.Params))
		for i, p := range f.Params {
			isRef := p.Passing == symtab.ByReference
			refFlags[i] = isRef
			params = append(params, ir.NewParam(p.Name, lowerParamType(p.Type, isRef)))
		}
		llFn := e.mod.NewFunc(f.Name, lowerValueType(f.Return), params...)
		llFn.Linkage = enum.LinkageExternal
		e.libFuncs[f.Name] = llFn
		e.paramRef[f.Name] = refFlags
	}
}

// declareFuncs recursively declares fn's frame struct type and its *ir.Func
// signature, then recurses into every nested FuncDef, all before any body
// is lowered.
func (e *Emitter) declareFuncs(fn *ast.FuncDef) {
	fr := frame.Of(fn)
	frameType := e.frameStructType(fn, fr)
	e.funcDefs[fn.Header.CompID] = fn

	var params []*ir.Param
	refFlags := make([]bool, 0, len(fr.Slots[:fr.ParamCount]))
	for i, s := range fr.Slots[:fr.ParamCount] {
		if i == 0 && fr.HasAccessLink {
			params = append(params, ir.NewParam(s.Name, lltypes.NewPointer(e.frameStructType(fn.ParentFunc, frame.Of(fn.ParentFunc)))))
			continue
		}
		params = append(params, ir.NewParam(s.Name, slotLLType(s)))
		refFlags = append(refFlags, s.IsRef)
	}
	e.paramRef[fn.Header.CompID] = refFlags

	llFn := e.mod.NewFunc(fn.Header.CompID, lowerValueType(fn.Header.RetType), params...)
	if fn.IsRoot() {
		llFn.Linkage = enum.LinkageExternal
	} else {
		llFn.Linkage = enum.LinkageInternal
	}
	e.funcs[fn.Header.CompID] = llFn
	_ = frameType

	for _, ld := range fn.Locals {
		if nested, ok := ld.(*ast.FuncDef); ok {
			e.declareFuncs(nested)
		}
	}
}

// frameStructType builds (and memoizes) the opaque struct type for fn's
// frame, recursing to the parent's frame type first when fn has an access
// link (spec §4.3's "fresh opaque struct type identifier frame_<f.id>").
func (e *Emitter) frameStructType(fn *ast.FuncDef, fr *frame.Frame) lltypes.Type {
	if t, ok := e.frameTypes[fn.Header.CompID]; ok {
		return t
	}

	fields := make([]lltypes.Type, 0, len(fr.Slots))
	for i, s := range fr.Slots {
		if i == 0 && fr.HasAccessLink {
			parentFr := frame.Of(fn.ParentFunc)
			fields = append(fields, lltypes.NewPointer(e.frameStructType(fn.ParentFunc, parentFr)))
			continue
		}
		fields = append(fields, slotLLType(s))
	}

	named := e.mod.NewTypeDef(fr.FuncID, lltypes.NewStruct(fields...))
	e.frameTypes[fn.Header.CompID] = named
	return named
}

func (e *Emitter) appendBlock() *ir.Block {
	e.blockCounter++
	return e.curLL.NewBlock(fmt.Sprintf("b%d", e.blockCounter))
}

// internString returns the module-global constant byte string (including a
// trailing null) for a string literal, creating it on first use (spec §4.4
// "For String s").
func (e *Emitter) internString(s string) *ir.Global {
	if g, ok := e.strings[s]; ok {
		return g
	}
	g := e.mod.NewGlobalDef(fmt.Sprintf("__str.%d", e.stringCounter), constant.NewCharArrayFromString(s+"\x00"))
	e.stringCounter++
	e.strings[s] = g
	return g
}

func i32(n int) *constant.Int { return constant.NewInt(lltypes.I32, int64(n)) }

func constI64(n int64) *constant.Int { return constant.NewInt(lltypes.I64, n) }

func lowerValueType(t types.Type) lltypes.Type {
	switch v := t.(type) {
	case types.Int:
		return lltypes.I64
	case types.Char:
		return lltypes.I8
	case types.None:
		return lltypes.Void
	case types.Array:
		return lltypes.NewPointer(lowerValueType(types.InnermostElem(v)))
	default:
		report.Internal("codegen: cannot lower type %s", t.Repr())
		return lltypes.Void
	}
}

// lowerParamType applies the by-reference pointer wrap on top of
// lowerValueType, except for arrays: an array's value type is already a
// bare pointer to its element type, so "by reference" adds no further
// indirection (spec §4.3 step 3).
func lowerParamType(t types.Type, byRef bool) lltypes.Type {
	base := lowerValueType(t)
	if _, isArray := t.(types.Array); byRef && !isArray {
		return lltypes.NewPointer(base)
	}
	return base
}

func slotLLType(s frame.Slot) lltypes.Type {
	return lowerParamType(s.Type, s.IsRef)
}
