package codegen

import (
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"nestedlang/nlc/internal/ast"
	"nestedlang/nlc/internal/report"
)

// genExpr lowers an expression to its value, per spec §4.4 "Expression
// lowering". Unary minus is emitted as 0 - x, since llir has no dedicated
// negate instruction for integers.
func (e *Emitter) genExpr(expr ast.Expr) value.Value {
	switch v := expr.(type) {
	case *ast.IntLit:
		return constant.NewInt(lltypes.I64, v.Value)

	case *ast.CharLit:
		return constant.NewInt(lltypes.I8, int64(v.Value))

	case *ast.ParenExpr:
		return e.genExpr(v.Inner)

	case *ast.SignedExpr:
		val := e.genExpr(v.Operand)
		if v.Negative {
			return e.block.NewSub(constant.NewInt(lltypes.I64, 0), val)
		}
		return val

	case *ast.BinaryExpr:
		l := e.genExpr(v.Left)
		r := e.genExpr(v.Right)
		switch v.Op {
		case ast.OpAdd:
			return e.block.NewAdd(l, r)
		case ast.OpSub:
			return e.block.NewSub(l, r)
		case ast.OpMul:
			return e.block.NewMul(l, r)
		case ast.OpDiv:
			return e.block.NewSDiv(l, r)
		case ast.OpMod:
			return e.block.NewSRem(l, r)
		}

	case *ast.LValueExpr:
		addr := e.addrOfLValue(v.LV)
		return e.block.NewLoad(lowerValueType(v.LV.LType), addr)

	case *ast.CallExpr:
		return e.genCall(v)
	}

	report.Internal("codegen: unhandled expression type %T", expr)
	return nil
}
