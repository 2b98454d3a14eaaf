// Package ast defines the tree the (out-of-scope) parser hands the rest of
// the compiler: function definitions, statements, conditions, expressions,
// and lvalues, plus the mutable annotation fields the semantic analyzer and
// the stack-frame planner attach as they run. No node is freed mid-pipeline;
// the IR emitter is the tree's last owner (spec §3 "Lifecycles").
//
// Grounded on chai/sem's HIRExpr/ExprBase split (sem/hir_expr.go) for the
// annotation-cell pattern: a small embeddable base struct holding a
// set-once-during-analysis field, exactly mirroring "mutable semantic
// annotations... modeled as option-typed cells set exactly once" (spec §9).
package ast

import "nestedlang/nlc/internal/types"

// Pos is a source position, when the (external) parser supplies one.
type Pos struct {
	Line, Col int
}

// Expr is any value-producing expression node.  Its type annotation is set
// exactly once, by the semantic analyzer, and is read-only thereafter.
type Expr interface {
	Position() *Pos
	Type() types.Type
	SetType(types.Type)
}

// ExprBase is embedded by every Expr implementation.
type ExprBase struct {
	Pos *Pos
	typ types.Type
}

func (b *ExprBase) Position() *Pos        { return b.Pos }
func (b *ExprBase) Type() types.Type      { return b.typ }
func (b *ExprBase) SetType(t types.Type)  { b.typ = t }

// Cond is any boolean-valued condition node (used by if/while guards).
type Cond interface {
	Position() *Pos
}

// CondBase is embedded by every Cond implementation.
type CondBase struct {
	Pos *Pos
}

func (b *CondBase) Position() *Pos { return b.Pos }

// Stmt is any statement node.  ReturnType is the control-flow annotation
// computed by type_of_stmt (spec §4.2.4): nil when the statement does not
// definitely return on every path, non-nil (types.None{} for a bare
// `return`) when it does.
type Stmt interface {
	Position() *Pos
	ReturnType() (types.Type, bool)
	SetReturnType(types.Type)
}

// StmtBase is embedded by every Stmt implementation.
type StmtBase struct {
	Pos   *Pos
	rt    types.Type
	rtSet bool
}

func (b *StmtBase) Position() *Pos { return b.Pos }

func (b *StmtBase) ReturnType() (types.Type, bool) { return b.rt, b.rtSet }

func (b *StmtBase) SetReturnType(t types.Type) {
	b.rt = t
	b.rtSet = true
}
