// Package symtab implements the compiler's symbol table: a forest of nested
// lexical scopes holding variable, parameter, and function entries.  It is
// grounded on the scope-stack/lookup pattern of chai/walk's symbol table
// (push/pop a scope stack, search innermost-to-outermost, fall back to a
// pre-seeded global table of library entries).
package symtab

import (
	"fmt"

	"nestedlang/nlc/internal/types"
)

// PassMode is how a parameter is passed to its function.
type PassMode int

const (
	ByValue PassMode = iota
	ByReference
)

// FuncState tracks the forward-declaration lifecycle of a function entry.
type FuncState int

const (
	Declared FuncState = iota
	Defined
)

// Kind discriminates the three entry shapes a scope can hold.
type Kind int

const (
	KindVariable Kind = iota
	KindParameter
	KindFunction
)

// Param describes a single formal parameter of a function entry -- used both
// for matching a header against an existing declaration and, later, by the
// frame planner and call-site argument checking.
type Param struct {
	Name    string
	Type    types.Type
	Passing PassMode
}

// Entry is a single declaration visible in some Scope.
type Entry struct {
	ID    string // stable identifier string (the source name)
	Name  string
	Scope *Scope
	Kind  Kind

	// Variable / Parameter
	Type    types.Type
	Passing PassMode // meaningful only for Kind == KindParameter

	// Function
	Params     []Param
	ReturnType types.Type
	State      FuncState
	CompID     string // mangled identifier; meaningful only for Kind == KindFunction
}

// Scope is one lexical scope: the owning function's name (or "root" for the
// outermost, pre-function scope), a parent link, a depth counter, and its
// entries in declaration order.
type Scope struct {
	Name    string
	Parent  *Scope
	Depth   int
	order   []*Entry
	byName  map[string]*Entry
}

func newScope(name string, parent *Scope, depth int) *Scope {
	return &Scope{Name: name, Parent: parent, Depth: depth, byName: make(map[string]*Entry)}
}

// Entries returns the scope's entries in declaration order.
func (s *Scope) Entries() []*Entry { return s.order }

// Table is the symbol table for one compilation: a single current-scope
// cursor backed by parent links, exactly as chai/walk keeps one *Walker per
// file with a scope stack rather than a separate tree structure.
type Table struct {
	root    *Scope
	current *Scope
}

// New creates a table with its depth-0 root scope open and current.
func New() *Table {
	root := newScope("root", nil, 0)
	return &Table{root: root, current: root}
}

// CurrentScope returns the innermost open scope.
func (t *Table) CurrentScope() *Scope { return t.current }

// Depth returns the depth of the innermost open scope.
func (t *Table) Depth() int { return t.current.Depth }

// OpenScope pushes a new scope named after the function being entered.
func (t *Table) OpenScope(name string) {
	t.current = newScope(name, t.current, t.current.Depth+1)
}

// CloseScope pops the innermost scope, discarding it.
func (t *Table) CloseScope() {
	if t.current.Parent == nil {
		panic("symtab: CloseScope called on root scope")
	}
	t.current = t.current.Parent
}

// DuplicateError reports that name collides with an existing entry in the
// same scope.
type DuplicateError struct {
	Name string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("identifier `%s` is already declared in this scope", e.Name)
}

func (t *Table) define(e *Entry) (*Entry, error) {
	if _, ok := t.current.byName[e.Name]; ok {
		return nil, &DuplicateError{Name: e.Name}
	}
	e.Scope = t.current
	t.current.byName[e.Name] = e
	t.current.order = append(t.current.order, e)
	return e, nil
}

// EnterVariable declares a local variable in the current scope.
func (t *Table) EnterVariable(name string, typ types.Type) (*Entry, error) {
	return t.define(&Entry{ID: name, Name: name, Kind: KindVariable, Type: typ})
}

// EnterParameter declares a formal parameter in the current scope.
func (t *Table) EnterParameter(name string, typ types.Type, passing PassMode) (*Entry, error) {
	return t.define(&Entry{ID: name, Name: name, Kind: KindParameter, Type: typ, Passing: passing})
}

// EnterFunction declares or defines (per state) a function entry in the
// current scope, with its bare name as its comp_id.
func (t *Table) EnterFunction(name string, params []Param, ret types.Type, state FuncState) (*Entry, error) {
	return t.EnterFunctionWithCompID(name, name, params, ret, state)
}

// EnterFunctionWithCompID is EnterFunction with an explicit, already-mangled
// compile-time identifier (spec §4.2 "Header processing").
func (t *Table) EnterFunctionWithCompID(name, compID string, params []Param, ret types.Type, state FuncState) (*Entry, error) {
	return t.define(&Entry{
		ID: name, Name: name, Kind: KindFunction,
		Params: params, ReturnType: ret, State: state, CompID: compID,
	})
}

// SetFuncDefined transitions a function entry from Declared to Defined.
func (t *Table) SetFuncDefined(e *Entry) {
	e.State = Defined
}

// Lookup searches the current scope, then walks parents, returning the
// innermost enclosing declaration (or false if none exists).
func (t *Table) Lookup(name string) (*Entry, bool) {
	for s := t.current; s != nil; s = s.Parent {
		if e, ok := s.byName[name]; ok {
			return e, true
		}
	}
	return nil, false
}

// LookupIn searches a specific scope only (no parent walk); used by header
// processing (spec §4.2 "Header processing"), which matches a function
// header only against an entry of the same name in the current scope.
func (s *Scope) LookupIn(name string) (*Entry, bool) {
	e, ok := s.byName[name]
	return e, ok
}

// GetUndefinedFunctions returns the names of every function entry visible in
// the current scope (not its ancestors) whose state is still Declared.
func (t *Table) GetUndefinedFunctions() []string {
	var names []string
	for _, e := range t.current.order {
		if e.Kind == KindFunction && e.State == Declared {
			names = append(names, e.Name)
		}
	}
	return names
}

// SeedLibrary pre-populates the depth-0 root scope with the built-in runtime
// functions of spec §6, so that lookups for them from any depth resolve
// exactly the way a user function declared in an enclosing scope would.
func (t *Table) SeedLibrary(funcs []LibraryFunc) {
	for _, f := range funcs {
		if _, err := t.define(&Entry{
			ID: f.Name, Name: f.Name, Kind: KindFunction,
			Params: f.Params, ReturnType: f.Return, State: Defined, CompID: f.Name,
		}); err != nil {
			panic(fmt.Sprintf("symtab: duplicate library function %q", f.Name))
		}
	}
}

// LibraryFunc describes one pre-declared runtime routine for SeedLibrary.
type LibraryFunc struct {
	Name   string
	Params []Param
	Return types.Type
}
