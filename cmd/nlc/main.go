// Command nlc is the compiler's entry point: it parses argv into a
// driver.Config and hands off to driver.Compiler, exiting with its
// returned code (spec §6 "Exit codes").
package main

import (
	"fmt"
	"os"

	"nestedlang/nlc/internal/ast"
	"nestedlang/nlc/internal/driver"
)

// stubFrontend stands in for the lexer/parser, which spec §1 places out of
// scope for this compiler: everything downstream of a parsed AST is
// implemented, but no concrete grammar/tokenizer ships with nlc.
type stubFrontend struct{}

func (stubFrontend) Parse(sourceName string, src []byte) (*ast.FuncDef, error) {
	return nil, fmt.Errorf("nlc: no lexer/parser is wired in; %s (%d bytes) was never tokenized", sourceName, len(src))
}

func main() {
	cfg, err := driver.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	c := driver.NewCompiler(cfg, stubFrontend{})
	os.Exit(c.Run())
}
