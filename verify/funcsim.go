package verify

import (
	"errors"
	"fmt"

	"github.com/sarchlab/bfi/config"
	"github.com/sarchlab/bfi/core"
	"github.com/sarchlab/bfi/program"
)

// Errors reported by the functional simulator.
var (
	ErrStepLimit  = errors.New("step limit reached")
	ErrUnbalanced = errors.New("unbalanced loops")
)

// FunctionalSimulator executes program text one operator at a time. Loops
// jump through a precomputed bracket table and nothing is merged or
// rewritten, so its result is the reference the optimized interpreter is
// compared against.
type FunctionalSimulator struct {
	cfg      config.Config
	ops      program.OperatorSet
	maxSteps uint64

	// TraceStep is called before each operator when set.
	TraceStep func(pc int, op rune, state *core.State)
}

// Result is what one functional run produced.
type Result struct {
	Output []byte
	State  *core.State
	Steps  uint64
}

// NewFunctionalSimulator creates a simulator that gives up after maxSteps
// operators. A maxSteps of zero means no limit.
func NewFunctionalSimulator(
	cfg config.Config,
	ops program.OperatorSet,
	maxSteps uint64,
) *FunctionalSimulator {
	return &FunctionalSimulator{
		cfg:      cfg,
		ops:      ops,
		maxSteps: maxSteps,
	}
}

// Run executes the source against the given input. When the step limit is
// hit, the partial result is returned together with ErrStepLimit.
func (fs *FunctionalSimulator) Run(source string, input []byte) (*Result, error) {
	if err := fs.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := fs.ops.Validate(); err != nil {
		return nil, err
	}

	code := fs.strip(source)
	jumps, err := fs.jumpTable(code)
	if err != nil {
		return nil, err
	}

	res := &Result{State: core.NewState(fs.cfg.TapeSize, fs.cfg.CellSize)}
	st := res.State

	for pc := 0; pc < len(code); pc++ {
		if fs.maxSteps > 0 && res.Steps >= fs.maxSteps {
			return res, fmt.Errorf("%w after %d steps", ErrStepLimit, res.Steps)
		}
		res.Steps++

		if fs.TraceStep != nil {
			fs.TraceStep(pc, code[pc], st)
		}

		cell := st.Tape.Get(st.Pointer)

		switch code[pc] {
		case fs.ops.PointerRight:
			st.Pointer = (st.Pointer + 1) & st.TapeMask
		case fs.ops.PointerLeft:
			st.Pointer = (st.Pointer - 1) & st.TapeMask
		case fs.ops.Increase:
			st.Tape.Set(st.Pointer, (cell+1)&st.CellMask)
		case fs.ops.Decrease:
			st.Tape.Set(st.Pointer, (cell-1)&st.CellMask)
		case fs.ops.LoopStart:
			if cell == 0 {
				pc = jumps[pc]
			}
		case fs.ops.LoopEnd:
			if cell != 0 {
				pc = jumps[pc]
			}
		case fs.ops.Output:
			res.Output = append(res.Output, byte(cell))
		case fs.ops.Input:
			if len(input) > 0 {
				st.Tape.Set(st.Pointer, uint64(input[0])&st.CellMask)
				input = input[1:]
			} else if fs.cfg.EOF != config.EOFIgnore {
				st.Tape.Set(st.Pointer, fs.cfg.EOF.Value()&st.CellMask)
			}
		}
	}

	return res, nil
}

// strip drops every character that is not an operator.
func (fs *FunctionalSimulator) strip(source string) []rune {
	known := map[rune]bool{
		fs.ops.PointerRight: true,
		fs.ops.PointerLeft:  true,
		fs.ops.Increase:     true,
		fs.ops.Decrease:     true,
		fs.ops.LoopStart:    true,
		fs.ops.LoopEnd:      true,
		fs.ops.Output:       true,
		fs.ops.Input:        true,
	}

	code := make([]rune, 0, len(source))
	for _, r := range source {
		if known[r] {
			code = append(code, r)
		}
	}

	return code
}

// jumpTable maps every bracket to the position of its partner.
func (fs *FunctionalSimulator) jumpTable(code []rune) ([]int, error) {
	jumps := make([]int, len(code))
	var open []int

	for pc, r := range code {
		switch r {
		case fs.ops.LoopStart:
			open = append(open, pc)
		case fs.ops.LoopEnd:
			if len(open) == 0 {
				return nil, fmt.Errorf("%w: loop end at operator %d has no start",
					ErrUnbalanced, pc)
			}

			start := open[len(open)-1]
			open = open[:len(open)-1]
			jumps[start] = pc
			jumps[pc] = start
		}
	}

	if len(open) > 0 {
		return nil, fmt.Errorf("%w: %d loops are never closed",
			ErrUnbalanced, len(open))
	}

	return jumps, nil
}
