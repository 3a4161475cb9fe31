package verify

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/bfi/config"
	"github.com/sarchlab/bfi/core"
	"github.com/sarchlab/bfi/instr"
	"github.com/sarchlab/bfi/program"
)

const (
	compareHead   = 1 << 16
	compareTail   = 1 << 10
	compareWindow = 1 << 10
	maxMismatches = 10
)

// VerificationReport represents a complete verification report
type VerificationReport struct {
	SourceLength int
	Config       config.Config
	Operators    program.OperatorSet

	Program  *instr.Program
	ParseErr error

	LintIssues   []Issue
	IssuesByType map[IssueType][]Issue

	Reference    *Result
	ReferenceErr error

	OptimizedOutput []byte
	OptimizedState  *core.State
	OptimizedErr    error

	// Compared is false when the reference run did not finish, in which case
	// the optimized run is skipped.
	Compared   bool
	Mismatches []string
}

// GenerateReport parses the source, lints the result, and runs it on both the
// functional simulator and the optimized interpreter.
func GenerateReport(
	source string,
	cfg config.Config,
	ops program.OperatorSet,
	input []byte,
	maxSteps uint64,
) *VerificationReport {
	report := &VerificationReport{
		SourceLength: len(source),
		Config:       cfg,
		Operators:    ops,
		IssuesByType: make(map[IssueType][]Issue),
	}

	// Stage 1: parse and lint
	report.Program, report.ParseErr = program.Parse(source, ops)
	if report.ParseErr == nil {
		report.LintIssues = RunLint(report.Program)
		for _, issue := range report.LintIssues {
			report.IssuesByType[issue.Type] = append(report.IssuesByType[issue.Type], issue)
		}
	}

	// Stage 2: reference run
	fs := NewFunctionalSimulator(cfg, ops, maxSteps)
	report.Reference, report.ReferenceErr = fs.Run(source, input)

	if report.ParseErr != nil || report.ReferenceErr != nil {
		return report
	}

	// Stage 3: optimized run and comparison
	var out bytes.Buffer
	c := core.NewBuilder().WithConfig(cfg).Build("Verify.Core")
	report.OptimizedState, report.OptimizedErr = c.Execute(
		report.Program, bytes.NewReader(input), &out)
	report.OptimizedOutput = out.Bytes()

	report.Compared = true
	report.compare()

	return report
}

func (r *VerificationReport) compare() {
	if r.OptimizedErr != nil {
		r.mismatch("optimized run failed: %v", r.OptimizedErr)
		return
	}

	ref := r.Reference
	if !bytes.Equal(ref.Output, r.OptimizedOutput) {
		r.mismatch("output differs: reference %q, optimized %q",
			ref.Output, r.OptimizedOutput)
	}

	if ref.State.Pointer != r.OptimizedState.Pointer {
		r.mismatch("pointer differs: reference %d, optimized %d",
			ref.State.Pointer, r.OptimizedState.Pointer)
	}

	for _, addr := range compareAddresses(ref.State, r.OptimizedState) {
		want := ref.State.Tape.Get(addr)
		got := r.OptimizedState.Tape.Get(addr)
		if want != got {
			r.mismatch("cell %d differs: reference %d, optimized %d", addr, want, got)
		}

		if len(r.Mismatches) >= maxMismatches {
			return
		}
	}
}

func (r *VerificationReport) mismatch(format string, args ...interface{}) {
	r.Mismatches = append(r.Mismatches, fmt.Sprintf(format, args...))
}

// compareAddresses lists the cells worth comparing: the start of the tape,
// its end, and the neighborhood of both final pointers. Small tapes are
// compared whole.
func compareAddresses(a, b *core.State) []uint64 {
	cells := a.TapeMask + 1
	if cells <= compareHead {
		addrs := make([]uint64, cells)
		for i := range addrs {
			addrs[i] = uint64(i)
		}

		return addrs
	}

	seen := make(map[uint64]bool)
	var addrs []uint64
	add := func(addr uint64) {
		addr &= a.TapeMask
		if !seen[addr] {
			seen[addr] = true
			addrs = append(addrs, addr)
		}
	}

	for i := uint64(0); i < compareHead; i++ {
		add(i)
	}
	for i := uint64(1); i <= compareTail; i++ {
		add(cells - i)
	}
	for _, p := range []uint64{a.Pointer, b.Pointer} {
		for i := uint64(0); i < 2*compareWindow; i++ {
			add(p - compareWindow + i)
		}
	}

	return addrs
}

// Unfinished tells if the reference run hit its step limit.
func (r *VerificationReport) Unfinished() bool {
	return errors.Is(r.ReferenceErr, ErrStepLimit)
}

// Passed tells if the program parsed cleanly, passed lint, and produced the
// same result on both interpreters.
func (r *VerificationReport) Passed() bool {
	return r.ParseErr == nil &&
		len(r.LintIssues) == 0 &&
		r.Compared &&
		len(r.Mismatches) == 0
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)
	dash := strings.Repeat("-", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "PROGRAM VERIFICATION REPORT")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\nSource: %d bytes, operators %q\n",
		r.SourceLength, r.Operators.String())
	fmt.Fprintf(w, "Tape: %s, cells: %s, EOF: %s\n",
		r.Config.TapeSize, r.Config.CellSize, r.Config.EOF)

	// STAGE 1: PARSE AND LINT
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: PARSE AND STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	switch {
	case r.ParseErr != nil:
		fmt.Fprintf(w, "⚠ Parse error: %v\n", r.ParseErr)
	case len(r.LintIssues) == 0:
		fmt.Fprintf(w, "✓ Parsed %d instructions, no lint issues found!\n",
			r.Program.Len())
	default:
		fmt.Fprintf(w, "⚠ Found %d lint issues:\n", len(r.LintIssues))

		for _, t := range []IssueType{IssueArena, IssueStruct, IssueLoop, IssueCopy} {
			issues := r.IssuesByType[t]
			if len(issues) == 0 {
				continue
			}

			fmt.Fprintf(w, "\n%s ISSUES (%d):\n", t, len(issues))
			fmt.Fprintln(w, dash)
			for _, issue := range issues {
				fmt.Fprintf(w, "  [#%d %s] %s\n", issue.Index, issue.Opcode, issue.Message)
			}
		}
	}

	if r.Program != nil && r.ParseErr == nil {
		fmt.Fprintln(w)
		r.writeOpcodeTable(w)
	}

	// STAGE 2: REFERENCE RUN
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: FUNCTIONAL SIMULATION")
	fmt.Fprintln(w, separator)

	switch {
	case r.ReferenceErr != nil:
		fmt.Fprintf(w, "⚠ Simulation error: %v\n", r.ReferenceErr)
	default:
		fmt.Fprintf(w, "✓ Simulation completed in %d steps, %d bytes of output\n",
			r.Reference.Steps, len(r.Reference.Output))
	}

	// STAGE 3: COMPARISON
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 3: OPTIMIZED RUN")
	fmt.Fprintln(w, separator)

	switch {
	case !r.Compared:
		fmt.Fprintln(w, "- Skipped")
	case len(r.Mismatches) == 0:
		fmt.Fprintln(w, "✓ Output, pointer and tape match the simulation")
	default:
		fmt.Fprintf(w, "⚠ Found %d mismatches:\n", len(r.Mismatches))
		fmt.Fprintln(w, dash)
		for _, m := range r.Mismatches {
			fmt.Fprintf(w, "  %s\n", m)
		}
	}

	// SUMMARY
	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "VERIFICATION SUMMARY")
	fmt.Fprintln(w, separator)

	switch {
	case r.Passed():
		fmt.Fprintln(w, "✓ PROGRAM PASSED ALL CHECKS")
	case r.Unfinished():
		fmt.Fprintln(w, "⚠ UNVERIFIED")
		fmt.Fprintln(w, "The simulation did not finish within its step limit.")
		fmt.Fprintln(w, "Raise the limit or give the program input that ends it.")
	case r.ParseErr != nil:
		fmt.Fprintln(w, "⚠ PROGRAM DOES NOT PARSE")
	default:
		fmt.Fprintln(w, "⚠ VERIFICATION FAILED")
	}

	fmt.Fprintln(w)
}

func (r *VerificationReport) writeOpcodeTable(w io.Writer) {
	counts := make(map[instr.Opcode]int)
	var order []instr.Opcode

	for _, op := range r.Program.Opcodes() {
		if counts[op] == 0 {
			order = append(order, op)
		}
		counts[op]++
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Opcode", "Count"})

	for _, op := range order {
		t.AppendRow(table.Row{op.String(), counts[op]})
	}

	t.AppendFooter(table.Row{"Total", r.Program.Len()})
	t.Render()
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)

	return nil
}
