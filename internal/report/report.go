// Package report is the compiler's diagnostics sink: colored error/warning
// banners, a per-phase progress spinner, and a closing summary line, grounded
// on chai/logging's Logger/display split (logging/logger.go, logging/display.go).
//
// Fatal diagnostics panic with a *Diagnostic; the driver recovers it at the
// top of the pipeline. This gives the "first fatal error aborts compilation"
// rule of spec §7 for free from Go's ordinary panic/recover unwinding rather
// than needing an error return threaded through every analyzer call.
package report

import (
	"fmt"
	"os"
	"sync"

	"github.com/pterm/pterm"
)

// Position is a source location attached to a diagnostic, when one is known.
// The parser is an external collaborator (spec §1); until it is wired in,
// most internal diagnostics carry a nil Position and are identified by
// message text alone.
type Position struct {
	Line, Col int
}

// Kind classifies a diagnostic for the banner label.
type Kind int

const (
	KindName Kind = iota
	KindType
	KindShape
	KindParam
	KindValue
	KindInternal
)

var kindNames = map[Kind]string{
	KindName:     "Name",
	KindType:     "Type",
	KindShape:    "Shape",
	KindParam:    "Parameter",
	KindValue:    "Value",
	KindInternal: "Internal",
}

// Diagnostic is a single error or warning.
type Diagnostic struct {
	Kind     Kind
	Message  string
	Position *Position
	IsError  bool
}

func (d *Diagnostic) Error() string { return d.Message }

// Reporter accumulates warnings and counts errors across a run.  It is
// synchronized with a mutex, matching chai's Logger, even though spec §5
// guarantees the compiler itself is single-threaded: the reporter is process-
// wide state and cheap to make safe regardless.
type Reporter struct {
	m          sync.Mutex
	errorCount int
	warnings   []*Diagnostic
	silent     bool
}

var active = &Reporter{}

// Init resets the global reporter for a new compilation run.
func Init(silent bool) {
	active = &Reporter{silent: silent}
}

// ErrorCount returns the number of fatal errors reported so far.
func ErrorCount() int {
	active.m.Lock()
	defer active.m.Unlock()
	return active.errorCount
}

// ShouldProceed reports whether no errors have been recorded yet.
func ShouldProceed() bool { return ErrorCount() == 0 }

// Warn records a non-fatal diagnostic (spec §7.6); warnings are displayed at
// the end of the run rather than immediately, matching Logger.warnings.
func Warn(kind Kind, pos *Position, format string, args ...interface{}) {
	d := &Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Position: pos}
	active.m.Lock()
	active.warnings = append(active.warnings, d)
	active.m.Unlock()
}

// Fatal raises a fatal diagnostic and unwinds the current compilation phase
// via panic; the driver's recover converts it into a printed message and a
// non-zero exit code (spec §7: "No local recovery: the first fatal error
// aborts compilation").
func Fatal(kind Kind, pos *Position, format string, args ...interface{}) {
	d := &Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Position: pos, IsError: true}
	active.m.Lock()
	active.errorCount++
	active.m.Unlock()
	panic(d)
}

// Internal raises an internal-compiler-error diagnostic: spec §4.4 "Failure
// semantics" treats any inconsistency discovered during IR lowering (an
// unresolved name, mismatched frame metadata) this way, as distinct from a
// user-facing semantic error.
func Internal(format string, args ...interface{}) {
	Fatal(KindInternal, nil, format, args...)
}

// -----------------------------------------------------------------------------
// Display, grounded on chai/logging/display.go.

var (
	errorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	errorColorFG = pterm.FgRed
	warnStyleBG  = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	warnColorFG  = pterm.FgYellow
	infoColorFG  = pterm.FgLightGreen
)

// DisplayDiagnostic prints one diagnostic with its banner.
func DisplayDiagnostic(d *Diagnostic) {
	if active.silent {
		return
	}

	label := kindNames[d.Kind]
	fmt.Fprint(os.Stderr, "\n-- ")
	if d.IsError {
		fmt.Fprint(os.Stderr, errorStyleBG.Sprint(label+" Error"))
	} else {
		fmt.Fprint(os.Stderr, warnStyleBG.Sprint(label+" Warning"))
	}
	fmt.Fprintln(os.Stderr, " --")

	if d.IsError {
		fmt.Fprintln(os.Stderr, errorColorFG.Sprint(d.Message))
	} else {
		fmt.Fprintln(os.Stderr, warnColorFG.Sprint(d.Message))
	}

	if d.Position != nil {
		fmt.Fprintf(os.Stderr, "  at line %d, column %d\n", d.Position.Line, d.Position.Col)
	}
}

// DisplayFatal prints a fatal diagnostic recovered from a panic at the top of
// the driver.
func DisplayFatal(d *Diagnostic) {
	DisplayDiagnostic(d)
}

// FlushWarnings prints every warning accumulated during the run, then clears
// them (so a second call, e.g. in tests, is a no-op).
func FlushWarnings() {
	active.m.Lock()
	ws := active.warnings
	active.warnings = nil
	active.m.Unlock()

	for _, w := range ws {
		DisplayDiagnostic(w)
	}
}

// WarningCount returns the number of accumulated, not-yet-flushed warnings.
func WarningCount() int {
	active.m.Lock()
	defer active.m.Unlock()
	return len(active.warnings)
}

// -----------------------------------------------------------------------------
// Phase progress, grounded on chai/logging's phaseSpinner.

var phaseSpinner *pterm.SpinnerPrinter

// BeginPhase starts the progress spinner for a named compiler phase
// ("Parsing", "Analyzing", "Planning frames", "Generating IR").
func BeginPhase(name string) {
	if active.silent {
		return
	}
	phaseSpinner, _ = pterm.DefaultSpinner.WithStyle(pterm.NewStyle(infoColorFG)).Start(name + "...")
}

// EndPhase stops the progress spinner, marking it succeeded or failed.
func EndPhase(success bool) {
	if phaseSpinner == nil {
		return
	}
	if success {
		phaseSpinner.Success()
	} else {
		phaseSpinner.Fail()
	}
	phaseSpinner = nil
}

// Summary prints the closing "N errors, M warnings" line (spec §6: progress
// messages go to standard output; errors to standard error).
func Summary() {
	if active.silent {
		return
	}
	errs := ErrorCount()
	warns := WarningCount()

	if errs == 0 {
		pterm.FgLightGreen.Println("Successful compilation.")
	} else {
		pterm.FgRed.Println("Compilation failed.")
	}
	fmt.Printf("(%d error(s), %d warning(s))\n", errs, warns)
}
