package symtab

import (
	"testing"

	"github.com/nalgeon/be"

	"nestedlang/nlc/internal/types"
)

func TestEnterVariableRejectsDuplicate(t *testing.T) {
	tab := New()
	_, err := tab.EnterVariable("x", types.Int{})
	be.Err(t, err, nil)

	_, err = tab.EnterVariable("x", types.Char{})
	be.True(t, err != nil)
	var dup *DuplicateError
	be.True(t, errorsAs(err, &dup))
}

func TestLookupWalksParentScopes(t *testing.T) {
	tab := New()
	_, err := tab.EnterVariable("outer", types.Int{})
	be.Err(t, err, nil)

	tab.OpenScope("inner")
	_, ok := tab.Lookup("outer")
	be.True(t, ok)

	tab.CloseScope()
	_, ok = tab.Lookup("outer")
	be.True(t, ok)
}

func TestLookupInDoesNotWalkParents(t *testing.T) {
	tab := New()
	_, err := tab.EnterVariable("outer", types.Int{})
	be.Err(t, err, nil)

	tab.OpenScope("inner")
	_, ok := tab.CurrentScope().LookupIn("outer")
	be.True(t, !ok)
}

func TestGetUndefinedFunctionsTracksDeclaredOnly(t *testing.T) {
	tab := New()
	_, err := tab.EnterFunction("f", nil, types.None{}, Declared)
	be.Err(t, err, nil)
	_, err = tab.EnterFunction("g", nil, types.None{}, Defined)
	be.Err(t, err, nil)

	undefined := tab.GetUndefinedFunctions()
	be.Equal(t, []string{"f"}, undefined)

	entry, _ := tab.CurrentScope().LookupIn("f")
	tab.SetFuncDefined(entry)
	be.Equal(t, 0, len(tab.GetUndefinedFunctions()))
}

func TestSeedLibraryIsVisibleFromAnyDepth(t *testing.T) {
	tab := New()
	tab.SeedLibrary(Library)

	tab.OpenScope("main")
	tab.OpenScope("nested")

	entry, ok := tab.Lookup("writeInteger")
	be.True(t, ok)
	be.Equal(t, KindFunction, entry.Kind)
	be.Equal(t, Defined, entry.State)
}

func TestEnterFunctionWithCompIDIsPreserved(t *testing.T) {
	tab := New()
	entry, err := tab.EnterFunctionWithCompID("f", "f_deadbeef", nil, types.None{}, Defined)
	be.Err(t, err, nil)
	be.Equal(t, "f_deadbeef", entry.CompID)
}

func errorsAs(err error, target **DuplicateError) bool {
	d, ok := err.(*DuplicateError)
	if ok {
		*target = d
	}
	return ok
}
