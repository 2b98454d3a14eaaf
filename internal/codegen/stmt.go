package codegen

import (
	"github.com/llir/llvm/ir"

	"nestedlang/nlc/internal/ast"
	"nestedlang/nlc/internal/report"
)

// genStmt lowers one statement, per spec §4.4 "Statement lowering".
func (e *Emitter) genStmt(s ast.Stmt) {
	switch v := s.(type) {
	case *ast.AssignStmt:
		val := e.genExpr(v.RHS)
		addr := e.addrOfLValue(v.LV)
		e.block.NewStore(val, addr)

	case *ast.CallStmt:
		e.genCall(v.Call)

	case *ast.Block:
		e.genStmtBlock(v)

	case *ast.IfStmt:
		cond := e.genCond(v.Cond)
		thenBlock := e.appendBlock()
		contBlock := e.appendBlock()
		e.block.NewCondBr(cond, thenBlock, contBlock)

		e.block = thenBlock
		e.genStmt(v.Then)
		e.branchIfOpen(contBlock)

		e.block = contBlock

	case *ast.IfElseStmt:
		cond := e.genCond(v.Cond)
		thenBlock := e.appendBlock()
		elseBlock := e.appendBlock()
		contBlock := e.appendBlock()
		e.block.NewCondBr(cond, thenBlock, elseBlock)

		e.block = thenBlock
		e.genStmt(v.Then)
		e.branchIfOpen(contBlock)

		e.block = elseBlock
		e.genStmt(v.Else)
		e.branchIfOpen(contBlock)

		e.block = contBlock

	case *ast.WhileStmt:
		headerBlock := e.appendBlock()
		bodyBlock := e.appendBlock()
		contBlock := e.appendBlock()

		e.block.NewBr(headerBlock)

		e.block = headerBlock
		cond := e.genCond(v.Cond)
		e.block.NewCondBr(cond, bodyBlock, contBlock)

		e.block = bodyBlock
		e.genStmt(v.Body)
		e.branchIfOpen(headerBlock)

		e.block = contBlock

	case *ast.ReturnStmt:
		if v.Value != nil {
			val := e.genExpr(v.Value)
			e.block.NewStore(val, e.retSlot)
		}
		e.block.NewBr(e.retBlock)

	case *ast.EmptyStmt:
		// no-op

	default:
		report.Internal("codegen: unhandled statement type %T", s)
	}
}

// branchIfOpen terminates the current block with a branch to target unless
// it is already terminated (a nested return already branched to the
// function's shared return block).
func (e *Emitter) branchIfOpen(target *ir.Block) {
	if e.block.Term == nil {
		e.block.NewBr(target)
	}
}

// genStmtBlock lowers a statement sequence, stopping after the first
// statement that definitely returns -- anything after it was already
// flagged unreachable by the semantic analyzer and would emit dead,
// unterminated-block IR if lowered.
func (e *Emitter) genStmtBlock(b *ast.Block) {
	for _, s := range b.Stmts {
		e.genStmt(s)
		if _, definite := s.ReturnType(); definite {
			break
		}
	}
}
