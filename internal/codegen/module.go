package codegen

import (
	"io"

	"github.com/llir/llvm/ir"
)

// Module wraps the generated *ir.Module. Assembling, optimizing, and linking
// the resulting textual IR into an executable is out of scope; a driver
// hands WriteTo's output to an external toolchain.
type Module struct {
	mod *ir.Module
}

func (m *Module) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write([]byte(m.mod.String()))
	return int64(n), err
}

func (m *Module) String() string {
	return m.mod.String()
}
