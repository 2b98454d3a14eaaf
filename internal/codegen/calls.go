package codegen

import (
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"nestedlang/nlc/internal/ast"
	"nestedlang/nlc/internal/report"
	"nestedlang/nlc/internal/symtab"
)

// argValue lowers one call argument: by-reference parameters receive the
// argument lvalue's address (no load), everything else its value.
func (e *Emitter) argValue(argExpr ast.Expr, byRef bool) value.Value {
	if !byRef {
		return e.genExpr(argExpr)
	}
	lv, ok := unwrapLValueExpr(argExpr)
	if !ok {
		report.Internal("codegen: by-reference argument is not an lvalue")
	}
	return e.addrOfLValue(lv.LV)
}

func unwrapLValueExpr(e ast.Expr) (*ast.LValueExpr, bool) {
	switch v := e.(type) {
	case *ast.LValueExpr:
		return v, true
	case *ast.ParenExpr:
		return unwrapLValueExpr(v.Inner)
	default:
		return nil, false
	}
}

// genCall lowers a call, dispatching to the runtime library (no access
// link, no mutual recursion to worry about) or to a user function (access
// link computed by walking the caller's static chain), per spec §4.4 "Call
// sequences".
func (e *Emitter) genCall(call *ast.CallExpr) value.Value {
	if symtab.IsLibraryFunc(call.Name) {
		refFlags := e.paramRef[call.Name]
		args := make([]value.Value, len(call.Args))
		for i, argExpr := range call.Args {
			args[i] = e.argValue(argExpr, i < len(refFlags) && refFlags[i])
		}
		return e.block.NewCall(e.libFuncs[call.Name], args...)
	}

	refFlags := e.paramRef[call.CompID]
	args := make([]value.Value, len(call.Args))
	for i, argExpr := range call.Args {
		args[i] = e.argValue(argExpr, i < len(refFlags) && refFlags[i])
	}

	if link := e.computeAccessLinkArg(call.CompID); link != nil {
		args = append([]value.Value{link}, args...)
	}
	return e.block.NewCall(e.funcs[call.CompID], args...)
}

// computeAccessLinkArg finds the callee's owning function (the function it
// is nested directly inside) and walks the caller's own access-link chain
// up to that owner's frame, per spec §4.4: if the callee is local to the
// caller's current function, that is zero hops and the caller's own frame
// is passed unchanged.
func (e *Emitter) computeAccessLinkArg(calleeCompID string) value.Value {
	calleeDef, ok := e.funcDefs[calleeCompID]
	if !ok || calleeDef.IsRoot() {
		return nil
	}
	targetOwner := calleeDef.ParentFunc

	framePtr := e.frameAlloca
	frameType := e.frameTypes[e.curFn.Header.CompID]
	cur := e.curFn
	for cur != targetOwner {
		if cur.ParentFunc == nil {
			report.Internal("codegen: no access-link path to %q from %q", calleeCompID, e.curFn.Header.ID)
		}
		linkPtr := e.block.NewGetElementPtr(frameType, framePtr, i32(0), i32(0))
		parentType := e.frameTypes[cur.ParentFunc.Header.CompID]
		framePtr = e.block.NewLoad(lltypes.NewPointer(parentType), linkPtr)
		frameType = parentType
		cur = cur.ParentFunc
	}
	return framePtr
}
