package ast

// CompareOp is a relational operator.
type CompareOp int

const (
	CmpEq CompareOp = iota
	CmpNe
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

// CompareCond compares two arithmetic expressions.
type CompareCond struct {
	CondBase
	Op          CompareOp
	Left, Right Expr
}

// AndCond is a short-circuiting conjunction: Right is not evaluated once
// Left is known false (spec §4.4 "Short-circuit evaluation").
type AndCond struct {
	CondBase
	Left, Right Cond
}

// OrCond is a short-circuiting disjunction: Right is not evaluated once Left
// is known true.
type OrCond struct {
	CondBase
	Left, Right Cond
}

// NotCond negates its operand.
type NotCond struct {
	CondBase
	Operand Cond
}

// ParenCond is a parenthesized sub-condition.
type ParenCond struct {
	CondBase
	Inner Cond
}
