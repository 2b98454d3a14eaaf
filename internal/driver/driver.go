// Package driver is the compiler's CLI surface and phase orchestrator.
//
// Grounded on chai/cmd/execute.go: an olive.CLI built once, parsed with
// olive.ParseArgs, and a thin dispatcher from the parsed result into a
// Compiler that runs the phases in order, reporting through internal/report
// exactly as chai's execBuildCommand threads its own logging package
// through Compiler.Compile. Lexing/parsing is this compiler's one external
// collaborator (spec §1's scope boundary) and is injected as a Frontend
// rather than implemented here.
package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ComedicChimera/olive"

	"nestedlang/nlc/internal/ast"
	"nestedlang/nlc/internal/codegen"
	"nestedlang/nlc/internal/frame"
	"nestedlang/nlc/internal/report"
	"nestedlang/nlc/internal/sema"
)

// Frontend turns source text into the AST this compiler actually analyzes.
// Lexing and parsing are out of scope (spec §1); nlc has no real
// implementation built in, and main wires in a stub that rejects every input.
type Frontend interface {
	Parse(sourceName string, src []byte) (*ast.FuncDef, error)
}

// Config is the parsed CLI surface of spec §6.
type Config struct {
	SourcePath string // empty when ReadStdin is set
	Optimize   bool   // -O
	ReadStdin  bool   // -f: read stdin, write IR text to stdout (no assembly is produced)
	EmitIRText bool   // -i: read stdin, emit IR text to stdout
}

// ParseArgs builds the olive CLI (one positional source path, -O/-f/-i
// flags) and parses argv, per spec §6's "CLI surface".
func ParseArgs(argv []string) (*Config, error) {
	cli := olive.NewCLI("nlc", "nlc compiles the nested-procedure language to native code", true)
	cli.AddPrimaryArg("source", "the path to the source file to compile", false)
	cli.AddFlag("O", "O", "enable back-end optimization passes")
	cli.AddFlag("f", "f", "read source from standard input; emit IR text to standard output (not assembled)")
	cli.AddFlag("i", "i", "read source from standard input; emit IR text to standard output")

	// olive.ParseArgs trims off argv[0] as the conventional program name
	// before parsing, so prepend one here since argv is the raw flag/arg list.
	result, err := olive.ParseArgs(cli, append([]string{"nlc"}, argv...))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Optimize:   result.HasFlag("O"),
		ReadStdin:  result.HasFlag("f"),
		EmitIRText: result.HasFlag("i"),
	}
	if cfg.ReadStdin && cfg.EmitIRText {
		return nil, fmt.Errorf("-f and -i are mutually exclusive")
	}
	if path, ok := result.PrimaryArg(); ok {
		cfg.SourcePath = path
	} else if !cfg.ReadStdin && !cfg.EmitIRText {
		return nil, fmt.Errorf("missing source file path (or pass -f/-i to read standard input)")
	}

	return cfg, nil
}

// Compiler runs the pipeline (Parse → Analyze → Plan frames → Generate IR →
// [external assemble/link, out of scope]) for one Config.
type Compiler struct {
	Config   *Config
	Frontend Frontend
	Stdout   io.Writer
	Stderr   io.Writer
}

func NewCompiler(cfg *Config, fe Frontend) *Compiler {
	return &Compiler{Config: cfg, Frontend: fe, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes the full pipeline and returns the process exit code of spec
// §6: 0 on success, non-zero on any lexical, syntactic, semantic, or
// internal error. It is the sole recover point for report.Fatal's panicked
// *report.Diagnostic (spec §7 "no local recovery").
func (c *Compiler) Run() (exitCode int) {
	report.Init(false)

	defer func() {
		if r := recover(); r != nil {
			report.EndPhase(false)
			if d, ok := r.(*report.Diagnostic); ok {
				report.DisplayFatal(d)
			} else {
				panic(r)
			}
			report.FlushWarnings()
			report.Summary()
			exitCode = 1
		}
	}()

	src, sourceName, err := c.readSource()
	if err != nil {
		fmt.Fprintln(c.Stderr, err)
		return 1
	}

	report.BeginPhase("Parsing")
	root, err := c.Frontend.Parse(sourceName, src)
	if err != nil {
		report.EndPhase(false)
		fmt.Fprintln(c.Stderr, err)
		return 1
	}
	report.EndPhase(true)

	report.BeginPhase("Analyzing")
	sema.Analyze(root)
	report.EndPhase(true)

	report.BeginPhase("Planning frames")
	frame.Plan(root)
	report.EndPhase(true)

	report.BeginPhase("Generating IR")
	mod := codegen.Generate(root)
	report.EndPhase(true)

	if err := c.emit(mod, sourceName); err != nil {
		fmt.Fprintln(c.Stderr, err)
		report.FlushWarnings()
		report.Summary()
		return 1
	}

	report.FlushWarnings()
	report.Summary()
	if !report.ShouldProceed() {
		return 1
	}
	return 0
}

func (c *Compiler) readSource() ([]byte, string, error) {
	if c.Config.ReadStdin || c.Config.EmitIRText {
		src, err := io.ReadAll(os.Stdin)
		return src, "<stdin>", err
	}
	src, err := os.ReadFile(c.Config.SourcePath)
	return src, c.Config.SourcePath, err
}

// emit implements spec §6's three output modes. `-f`/`-i` write to stdout;
// with neither, an IR file and an assembly file are written next to the
// source, then an executable is produced -- the last two steps shell out to
// an external assembler/linker and are out of scope here, so nlc writes the
// `.imm` file and stops.
func (c *Compiler) emit(mod *codegen.Module, sourceName string) error {
	switch {
	case c.Config.EmitIRText:
		_, err := mod.WriteTo(c.Stdout)
		return err
	case c.Config.ReadStdin:
		// Assembling IR to machine assembly is the external optimizer/
		// assembler's job (spec §1 non-goal); nlc's contribution to this
		// mode is handing it well-formed IR text on stdout.
		_, err := mod.WriteTo(c.Stdout)
		return err
	default:
		stem := strings.TrimSuffix(sourceName, filepath.Ext(sourceName))
		f, err := os.Create(stem + ".imm")
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = mod.WriteTo(f)
		return err
	}
}
