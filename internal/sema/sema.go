// Package sema is the semantic analyzer: name resolution across nested
// scopes, the forward-declaration/overload policy for functions, type
// checking of expressions and statements, reachability/return-type
// analysis, and constant-expression evaluation for bounds and dead-branch
// reasoning.
//
// Grounded on bootstrap/walk's Walker (localScopes/enclosingReturnType/
// panic-based w.error), adapted from its Hindley-Milner-flavored constraint
// walk to this language's much simpler declared-type checking, and on
// chai/walk/symbol_table.go for the scope-stack shape.
package sema

import (
	"fmt"
	"hash/fnv"

	"nestedlang/nlc/internal/ast"
	"nestedlang/nlc/internal/report"
	"nestedlang/nlc/internal/symtab"
	"nestedlang/nlc/internal/types"
)

// Analyzer holds the mutable state threaded through one analysis run: the
// symbol table and the ancestor stack used both for parent_func annotation
// and comp_id mangling.
type Analyzer struct {
	table     *symtab.Table
	ancestors []*ast.FuncDef // LIFO; nil entries are the outermost sentinel
}

// Analyze is the entry point (spec §4.2): seed the library, push the
// sentinel ancestor, and recursively analyze the root function. It recovers
// nothing itself -- a fatal diagnostic's panic is expected to propagate to
// the driver, which owns the top-level recover (spec §7 "no local
// recovery").
func Analyze(root *ast.FuncDef) *symtab.Table {
	table := symtab.New()
	table.SeedLibrary(symtab.Library)

	a := &Analyzer{table: table, ancestors: []*ast.FuncDef{nil}}
	a.analyzeFunc(root)

	return table
}

// analyzeFunc runs the eleven-step per-function analysis of spec §4.2 on fn.
func (a *Analyzer) analyzeFunc(fn *ast.FuncDef) {
	// 1. Record parent_func from the top of the ancestor stack.
	fn.ParentFunc = a.ancestors[len(a.ancestors)-1]

	if fn.IsRoot() {
		if !types.IsNone(fn.Header.RetType) {
			report.Fatal(report.KindShape, nil, "the main function must return none")
		}
		if len(fn.Header.FParDefs) > 0 {
			report.Fatal(report.KindShape, nil, "the main function must take no parameters")
		}
	}

	// 2. Process the header in the current (enclosing) scope.
	a.analyzeHeader(&fn.Header, true)

	// 3. Open a new scope named after the function.
	a.table.OpenScope(fn.Header.ID)

	// 4. Enter every parameter into the new scope.
	for _, fp := range fn.Header.FParDefs {
		passing := symtab.ByValue
		if fp.Passing == ast.ByReference {
			passing = symtab.ByReference
		}
		for _, name := range fp.Names {
			if _, err := a.table.EnterParameter(name, fp.Type, passing); err != nil {
				report.Fatal(report.KindName, nil, "duplicate parameter name %q in function %q", name, fn.Header.ID)
			}
		}
	}

	// 5. Push the current function onto the ancestor stack.
	a.ancestors = append(a.ancestors, fn)

	// 6. Analyze the local-definitions list in order.
	a.analyzeLocals(fn)

	// 7. Pop the ancestor stack.
	a.ancestors = a.ancestors[:len(a.ancestors)-1]

	// 8. Duplicate-name validation is enforced inline as each parameter and
	// local is entered into the scope (symtab.define rejects same-scope
	// collisions), which covers (a), (b), and (c) uniformly.

	// 9. If this is the root function, check that no declared-but-undefined
	// functions remain in its scope. The forward-declaration protocol in
	// analyzeLocals already raises a fatal error the moment a FuncDecl with
	// no matching FuncDef is found, so this is a closing invariant check
	// rather than the primary enforcement point.
	if fn.IsRoot() {
		for _, name := range a.table.GetUndefinedFunctions() {
			report.Fatal(report.KindName, nil, "function %q is declared but never defined", name)
		}
	}

	// 10. Compute the block's return-producing type and check it against
	// the header's declared return type.
	bodyType, definite := a.analyzeBlock(fn.Body)
	if !definite {
		bodyType = types.None{}
	}
	if !types.Equal(bodyType, fn.Header.RetType) {
		report.Fatal(report.KindType, nil,
			"function %q's body does not provably return %s on every path", fn.Header.ID, fn.Header.RetType.Repr())
	}

	// 11. Close the scope.
	a.table.CloseScope()
}

// analyzeLocals walks fn's local-definition list, applying the
// forward-declaration protocol to FuncDecl nodes and recursing into nested
// FuncDef nodes (whose own analyzeFunc call performs their header
// processing in fn's now-current scope).
func (a *Analyzer) analyzeLocals(fn *ast.FuncDef) {
	firstDecl := map[string]*ast.FuncDecl{}

	for i, ld := range fn.Locals {
		switch d := ld.(type) {
		case *ast.VarDef:
			for _, name := range d.Names {
				if _, err := a.table.EnterVariable(name, d.Type); err != nil {
					report.Fatal(report.KindName, nil, "duplicate local variable %q in function %q", name, fn.Header.ID)
				}
			}

		case *ast.FuncDecl:
			a.analyzeHeader(&d.Header, false)

			if _, seen := firstDecl[d.Header.ID]; seen {
				d.IsRedundant = true
				report.Warn(report.KindName, nil, "redundant forward declaration of %q", d.Header.ID)
			} else {
				firstDecl[d.Header.ID] = d
			}

			found := false
			for _, other := range fn.Locals[i+1:] {
				if fd, ok := other.(*ast.FuncDef); ok && fd.Header.ID == d.Header.ID {
					d.FuncDefRef = fd
					found = true
					break
				}
			}
			if !found {
				report.Fatal(report.KindName, nil, "function %q is declared but never defined in this scope", d.Header.ID)
			}

		case *ast.FuncDef:
			a.analyzeFunc(d)
		}
	}
}

// analyzeHeader matches or creates the function entry named by hdr in the
// current scope, per spec §4.2 "Header processing".
func (a *Analyzer) analyzeHeader(hdr *ast.Header, isDefinition bool) *symtab.Entry {
	hdr.CompID = a.mangle(hdr.ID)

	scope := a.table.CurrentScope()
	params := toParams(hdr.FParDefs)

	existing, ok := scope.LookupIn(hdr.ID)
	if !ok {
		state := symtab.Declared
		if isDefinition {
			state = symtab.Defined
		}
		entry, err := a.table.EnterFunctionWithCompID(hdr.ID, hdr.CompID, params, hdr.RetType, state)
		if err != nil {
			report.Fatal(report.KindName, nil, "%v", err)
		}
		return entry
	}

	if existing.Kind != symtab.KindFunction {
		report.Fatal(report.KindName, nil, "%q is already declared as a variable and cannot also name a function", hdr.ID)
	}
	if len(existing.Params) != len(params) {
		report.Fatal(report.KindShape, nil, "function %q is declared with %d parameter(s) elsewhere but %d here (overloading is not permitted)",
			hdr.ID, len(existing.Params), len(params))
	}
	if !types.Equal(existing.ReturnType, hdr.RetType) {
		report.Fatal(report.KindType, nil, "function %q's return type disagrees with its earlier declaration", hdr.ID)
	}
	for i, p := range params {
		ep := existing.Params[i]
		if !types.Equal(ep.Type, p.Type) || ep.Passing != p.Passing {
			report.Fatal(report.KindParam, nil, "function %q's parameter %q disagrees with its earlier declaration", hdr.ID, p.Name)
		}
	}

	if isDefinition {
		if existing.State == symtab.Defined {
			report.Fatal(report.KindName, nil, "function %q is already defined", hdr.ID)
		}
		a.table.SetFuncDefined(existing)
	}

	return existing
}

func toParams(fps []ast.FParDef) []symtab.Param {
	var out []symtab.Param
	for _, fp := range fps {
		passing := symtab.ByValue
		if fp.Passing == ast.ByReference {
			passing = symtab.ByReference
		}
		for _, name := range fp.Names {
			out = append(out, symtab.Param{Name: name, Type: fp.Type, Passing: passing})
		}
	}
	return out
}

// mangle computes comp_id: the raw name for the root function or a library
// routine, and name + "_" + fnv-hash(ancestor names) for any nested
// function, per spec §9's design note on comp_id hashing.
func (a *Analyzer) mangle(name string) string {
	names := a.ancestorNames()
	if len(names) == 0 {
		return name
	}
	h := fnv.New32a()
	for _, n := range names {
		fmt.Fprint(h, n)
	}
	return fmt.Sprintf("%s_%x", name, h.Sum32())
}

func (a *Analyzer) ancestorNames() []string {
	var names []string
	for _, f := range a.ancestors {
		if f != nil {
			names = append(names, f.Header.ID)
		}
	}
	return names
}
