// Package frame assigns each function a stack-frame descriptor: an ordered
// list of slots (access link, then parameters, then locals) that the IR
// emitter turns into an actual struct type and addressing arithmetic.
//
// Grounded on bootstrap/depm's flat, precomputed-layout style (rather than
// chai/walk's on-the-fly symbol lookups): frame layout is data computed once,
// in one downward pass, and consumed read-only afterward -- the same shape
// as StructType.NewStruct's offset table in bootstrap/ir/types.go.
package frame

import (
	"nestedlang/nlc/internal/ast"
	"nestedlang/nlc/internal/types"
)

// Slot is one entry of a frame's layout: (name, slot_index, is_ref,
// is_array) plus the source-level type it holds, exactly the var_records
// quadruple of spec §4.3 step 5.
type Slot struct {
	Name    string
	Index   int
	IsRef   bool
	IsArray bool
	Type    types.Type
}

// AccessLinkSlot is the fixed index of the access-link slot in any frame
// that has one.
const AccessLinkSlot = 0

// Frame is the stack-frame descriptor attached to a FuncDef's Frame field.
// FuncID names the opaque struct type ("frame_<f.id>"); Slots are in the
// deterministic layout order of §4.3: access link (if any), then
// parameters in source order (one slot per identifier, groups expanded),
// then locals the same way.
type Frame struct {
	FuncID        string
	HasAccessLink bool
	Slots         []Slot
	Length        int

	// ParamCount is how many leading Slots came from the access link plus
	// the header's parameters, as opposed to local variables -- exactly the
	// slots that also appear as incoming arguments to the emitted function.
	ParamCount int
}

// FindSlot returns the slot for name in this frame only (no parent walk;
// that walk belongs to the IR emitter's lvalue addressing, §4.4).
func (f *Frame) FindSlot(name string) (Slot, bool) {
	for _, s := range f.Slots {
		if s.Name == name {
			return s, true
		}
	}
	return Slot{}, false
}

// Plan assigns fn (and, recursively, every function nested inside it) a
// Frame descriptor, following spec §4.3 exactly: fresh struct id, access
// link when fn has a parent, one slot per parameter identifier, one slot
// per local-variable identifier, then recurse into nested FuncDefs. It
// installs the result into fn.Frame (and each descendant's) as it goes.
func Plan(fn *ast.FuncDef) *Frame {
	f := &Frame{
		FuncID:        "frame_" + fn.Header.CompID,
		HasAccessLink: !fn.IsRoot(),
	}

	idx := 0
	if f.HasAccessLink {
		f.Slots = append(f.Slots, Slot{Name: accessLinkName, Index: 0})
		idx = 1
	}

	for _, fp := range fn.Header.FParDefs {
		isArray := isArrayType(fp.Type)
		// Array parameters are always by-reference, regardless of how the
		// header spelled the passing mode (spec §4.3 step 3).
		isRef := fp.Passing == ast.ByReference || isArray
		for _, name := range fp.Names {
			f.Slots = append(f.Slots, Slot{Name: name, Index: idx, IsRef: isRef, IsArray: isArray, Type: fp.Type})
			idx++
		}
	}

	f.ParamCount = idx

	for _, ld := range fn.Locals {
		vd, ok := ld.(*ast.VarDef)
		if !ok {
			continue
		}
		isArray := isArrayType(vd.Type)
		for _, name := range vd.Names {
			f.Slots = append(f.Slots, Slot{Name: name, Index: idx, IsArray: isArray, Type: vd.Type})
			idx++
		}
	}

	f.Length = idx
	fn.Frame = f

	for _, ld := range fn.Locals {
		if nested, ok := ld.(*ast.FuncDef); ok {
			Plan(nested)
		}
	}

	return f
}

// accessLinkName is the reserved slot-0 identifier; it can never collide
// with a source identifier because the language's names don't start with
// '$' (an out-of-scope lexer guarantee we rely on here, same as chai's
// reserved compiler-internal prefixes).
const accessLinkName = "$link"

func isArrayType(t types.Type) bool {
	_, ok := t.(types.Array)
	return ok
}

// Of returns fn's already-planned Frame, panicking if Plan was never run --
// an internal-compiler-error condition per spec §4.4 "Failure semantics".
func Of(fn *ast.FuncDef) *Frame {
	f, ok := fn.Frame.(*Frame)
	if !ok {
		panic("frame: FuncDef has no planned frame")
	}
	return f
}
