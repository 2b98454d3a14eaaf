package types

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestEqualOpenDimWildcard(t *testing.T) {
	open := Array{Elem: Char{}, Size: OpenDim}
	three := Array{Elem: Char{}, Size: 3}
	five := Array{Elem: Char{}, Size: 5}

	be.True(t, Equal(open, three))
	be.True(t, Equal(open, five))
	be.True(t, !Equal(three, five))
}

func TestEqualNonTransitiveThroughElement(t *testing.T) {
	// Array(-1, char[3]) matches Array(2, char[3]) and Array(2, char[5])
	// individually only when the element itself matches; the wildcard
	// applies at the outermost level only.
	a := Array{Elem: Array{Elem: Char{}, Size: 3}, Size: OpenDim}
	b := Array{Elem: Array{Elem: Char{}, Size: 3}, Size: 2}
	c := Array{Elem: Array{Elem: Char{}, Size: 5}, Size: 2}

	be.True(t, Equal(a, b))
	be.True(t, !Equal(a, c))
}

func TestStrictEqualRejectsWildcard(t *testing.T) {
	open := Array{Elem: Char{}, Size: OpenDim}
	three := Array{Elem: Char{}, Size: 3}
	be.True(t, !StrictEqual(open, three))
}

func TestDims(t *testing.T) {
	arr := Array{Elem: Array{Elem: Int{}, Size: 4}, Size: 3}
	be.Equal(t, []int{3, 4}, Dims(arr))
}

func TestInnermostElem(t *testing.T) {
	arr := Array{Elem: Array{Elem: Char{}, Size: 4}, Size: 3}
	be.Equal(t, Type(Char{}), InnermostElem(arr))
}

func TestIsNone(t *testing.T) {
	be.True(t, IsNone(None{}))
	be.True(t, !IsNone(Int{}))
}
