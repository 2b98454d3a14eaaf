package driver

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"

	"nestedlang/nlc/internal/ast"
)

func TestParseArgsRejectsStdinFlagCombination(t *testing.T) {
	_, err := ParseArgs([]string{"-f", "-i"})
	be.True(t, err != nil)
}

func TestParseArgsRequiresSourceOrStdinFlag(t *testing.T) {
	_, err := ParseArgs([]string{})
	be.True(t, err != nil)
}

func TestParseArgsAcceptsPositionalSource(t *testing.T) {
	cfg, err := ParseArgs([]string{"prog.nl"})
	be.Err(t, err, nil)
	be.Equal(t, "prog.nl", cfg.SourcePath)
	be.True(t, !cfg.ReadStdin)
	be.True(t, !cfg.EmitIRText)
	be.True(t, !cfg.Optimize)
}

func TestParseArgsSetsOptimizeFlag(t *testing.T) {
	cfg, err := ParseArgs([]string{"-O", "prog.nl"})
	be.Err(t, err, nil)
	be.True(t, cfg.Optimize)
}

func TestParseArgsEmitIRTextNeedsNoPositionalSource(t *testing.T) {
	cfg, err := ParseArgs([]string{"-i"})
	be.Err(t, err, nil)
	be.True(t, cfg.EmitIRText)
	be.Equal(t, "", cfg.SourcePath)
}

// failingFrontend always rejects its input, exercising Run's "Parsing"
// phase failure path without needing a real lexer/parser.
type failingFrontend struct{}

func (failingFrontend) Parse(sourceName string, src []byte) (*ast.FuncDef, error) {
	return nil, errors.New("no lexer/parser wired in")
}

func TestRunReportsFrontendErrorAsExitOne(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.nl")
	be.Err(t, os.WriteFile(path, []byte("whatever"), 0o644), nil)

	cfg := &Config{SourcePath: path}
	c := NewCompiler(cfg, failingFrontend{})
	var stdout, stderr bytes.Buffer
	c.Stdout, c.Stderr = &stdout, &stderr

	code := c.Run()
	be.Equal(t, 1, code)
}

func TestRunMissingSourceFileReturnsExitOne(t *testing.T) {
	cfg := &Config{SourcePath: "/nonexistent/path/prog.nl"}
	c := NewCompiler(cfg, failingFrontend{})
	var stdout, stderr bytes.Buffer
	c.Stdout, c.Stderr = &stdout, &stderr

	code := c.Run()
	be.Equal(t, 1, code)
}
