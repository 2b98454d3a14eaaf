package symtab

import "nestedlang/nlc/internal/types"

// openCharArray is the "char[]" open-array-by-reference parameter type used
// throughout the runtime library table below (spec §6).
func openCharArray() types.Type {
	return types.Array{Elem: types.Char{}, Size: types.OpenDim}
}

// Library is the static table of built-in I/O and string routines consulted
// at startup, grounded on depm.Universe.IntrinsicFuncs: a fixed list rather
// than something constructed ad-hoc per compilation (spec §9 "Library
// signatures"). Library functions receive no access link: they are not
// nested in the source program.
var Library = []LibraryFunc{
	{Name: "writeInteger", Params: []Param{{Name: "n", Type: types.Int{}, Passing: ByValue}}, Return: types.None{}},
	{Name: "writeChar", Params: []Param{{Name: "c", Type: types.Char{}, Passing: ByValue}}, Return: types.None{}},
	{Name: "writeString", Params: []Param{{Name: "s", Type: openCharArray(), Passing: ByReference}}, Return: types.None{}},
	{Name: "readInteger", Params: nil, Return: types.Int{}},
	{Name: "readChar", Params: nil, Return: types.Char{}},
	{Name: "readString", Params: []Param{
		{Name: "size", Type: types.Int{}, Passing: ByValue},
		{Name: "s", Type: openCharArray(), Passing: ByReference},
	}, Return: types.None{}},
	{Name: "ascii", Params: []Param{{Name: "c", Type: types.Char{}, Passing: ByValue}}, Return: types.Int{}},
	{Name: "chr", Params: []Param{{Name: "n", Type: types.Int{}, Passing: ByValue}}, Return: types.Char{}},
	{Name: "strlen", Params: []Param{{Name: "s", Type: openCharArray(), Passing: ByReference}}, Return: types.Int{}},
	{Name: "strcmp", Params: []Param{
		{Name: "s1", Type: openCharArray(), Passing: ByReference},
		{Name: "s2", Type: openCharArray(), Passing: ByReference},
	}, Return: types.Int{}},
	{Name: "strcpy", Params: []Param{
		{Name: "dst", Type: openCharArray(), Passing: ByReference},
		{Name: "src", Type: openCharArray(), Passing: ByReference},
	}, Return: types.None{}},
	{Name: "strcat", Params: []Param{
		{Name: "dst", Type: openCharArray(), Passing: ByReference},
		{Name: "src", Type: openCharArray(), Passing: ByReference},
	}, Return: types.None{}},
}

// IsLibraryFunc reports whether name identifies one of the pre-seeded
// runtime routines, used by the IR emitter to skip access-link computation
// for calls to it (spec §4.4 "Calls" step 2).
func IsLibraryFunc(name string) bool {
	for _, f := range Library {
		if f.Name == name {
			return true
		}
	}
	return false
}
