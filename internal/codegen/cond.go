package codegen

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"nestedlang/nlc/internal/ast"
	"nestedlang/nlc/internal/report"
)

func cmpPred(op ast.CompareOp) enum.IPred {
	switch op {
	case ast.CmpEq:
		return enum.IPredEQ
	case ast.CmpNe:
		return enum.IPredNE
	case ast.CmpLt:
		return enum.IPredSLT
	case ast.CmpLe:
		return enum.IPredSLE
	case ast.CmpGt:
		return enum.IPredSGT
	case ast.CmpGe:
		return enum.IPredSGE
	}
	report.Internal("codegen: unhandled comparison operator")
	return enum.IPredEQ
}

// genCond lowers a condition to an i1 value. Comparisons become a single
// icmp; and/or lower to explicit branches through a dedicated boolean slot
// rather than a phi node, per spec §4.4's short-circuit rule.
func (e *Emitter) genCond(c ast.Cond) value.Value {
	switch v := c.(type) {
	case *ast.CompareCond:
		l := e.genExpr(v.Left)
		r := e.genExpr(v.Right)
		return e.block.NewICmp(cmpPred(v.Op), l, r)
	case *ast.ParenCond:
		return e.genCond(v.Inner)
	case *ast.NotCond:
		inner := e.genCond(v.Operand)
		return e.block.NewXor(inner, constant.NewInt(lltypes.I1, 1))
	case *ast.AndCond, *ast.OrCond:
		return e.genShortCircuit(c)
	}
	report.Internal("codegen: unhandled condition type %T", c)
	return nil
}

// genShortCircuit lowers c.Left op c.Right (op in and/or) to a short-circuit
// value slot: evaluate the left operand; if it already determines the
// result (false for and, true for or), skip the right operand and store it
// directly; otherwise evaluate the right operand and store that. Both paths
// join at a merge block that loads the final result.
func (e *Emitter) genShortCircuit(c ast.Cond) value.Value {
	var left, right ast.Cond
	var isAnd bool
	switch v := c.(type) {
	case *ast.AndCond:
		left, right, isAnd = v.Left, v.Right, true
	case *ast.OrCond:
		left, right, isAnd = v.Left, v.Right, false
	}

	resultSlot := e.block.NewAlloca(lltypes.I1)
	continueBlock := e.appendBlock()
	shortCircuitBlock := e.appendBlock()
	mergeBlock := e.appendBlock()

	lval := e.genCond(left)
	if isAnd {
		e.block.NewCondBr(lval, continueBlock, shortCircuitBlock)
	} else {
		e.block.NewCondBr(lval, shortCircuitBlock, continueBlock)
	}

	e.block = shortCircuitBlock
	e.block.NewStore(lval, resultSlot)
	e.block.NewBr(mergeBlock)

	e.block = continueBlock
	rval := e.genCond(right)
	e.block.NewStore(rval, resultSlot)
	e.block.NewBr(mergeBlock)

	e.block = mergeBlock
	return e.block.NewLoad(lltypes.I1, resultSlot)
}
