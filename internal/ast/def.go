package ast

import "nestedlang/nlc/internal/types"

// LocalDef is anything that can appear in a function's local-definition
// list: a variable group, a forward declaration, or a nested definition.
type LocalDef interface {
	localDef()
}

// FParDef is one formal-parameter group sharing a passing mode and element
// type, e.g. "ref a, b : int" or "s : char[]" (spec §3's fpar_defs).
type FParDef struct {
	Names   []string
	Type    types.Type
	Passing Passing
}

// Passing mirrors symtab.PassMode at the AST layer, kept distinct so this
// package has no dependency on symtab (the analyzer is what bridges them).
type Passing int

const (
	ByValue Passing = iota
	ByReference
)

// VarDef declares one or more local variables of the same type.
type VarDef struct {
	Names []string
	Type  types.Type
}

func (*VarDef) localDef() {}

// Header is a function's name, formal-parameter list, and return type,
// shared verbatim between a FuncDecl and its matching FuncDef.
type Header struct {
	ID       string
	FParDefs []FParDef
	RetType  types.Type

	// CompID is the resolved, possibly-mangled compile-time identifier for
	// this function, filled in once by the analyzer (spec §4.2 "Header
	// processing"). It is what call sites and the IR emitter address.
	CompID string
}

// FuncDecl is a forward declaration: "header;" with no body. IsRedundant and
// FuncDefRef are filled in by the analyzer once the matching FuncDef (if
// any) is found in the same local-definition list (spec §4.2's
// forward-declaration protocol).
type FuncDecl struct {
	Header      Header
	IsRedundant bool
	FuncDefRef  *FuncDef
}

func (*FuncDecl) localDef() {}

// FuncDef is a full function definition: header, local declarations, body.
// ParentFunc and Frame are annotations filled in during analysis and frame
// planning, respectively; Frame is declared as `any` here (rather than a
// concrete struct) purely to avoid an import cycle with the frame package,
// which owns the concrete type and is solely responsible for setting it.
type FuncDef struct {
	Header Header
	Locals []LocalDef
	Body   *Block

	ParentFunc *FuncDef
	Frame      any
}

func (*FuncDef) localDef() {}

// IsRoot reports whether this is the outermost (main) function.
func (f *FuncDef) IsRoot() bool { return f.ParentFunc == nil }
