package core

import (
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/bfi/config"
	"github.com/sarchlab/bfi/instr"
)

// Runtime errors reported by the interpreter.
var (
	ErrUnknownOpcode = errors.New("unknown opcode")
	ErrInfiniteLoop  = errors.New("infinite loop")
	ErrOutputFailed  = errors.New("output failed")
)

// State is the memory of one run: the tape, the tape pointer, and the masks
// that bound them.
type State struct {
	Tape     Tape
	Pointer  uint64
	TapeMask uint64
	CellMask uint64
}

// NewState allocates a zeroed tape of tapeSize+1 cells.
func NewState(tapeSize, cellSize config.Size) *State {
	return &State{
		Tape:     NewTape(tapeSize.Mask() + 1),
		TapeMask: tapeSize.Mask(),
		CellMask: cellSize.Mask(),
	}
}

// Cell returns the value under the tape pointer.
func (s *State) Cell() uint64 {
	return s.Tape.Get(s.Pointer)
}

func (s *State) setCell(v uint64) {
	s.Tape.Set(s.Pointer, v&s.CellMask)
}

// magnitude returns |v| without overflowing on math.MinInt64.
func magnitude(v int64) uint64 {
	if v < 0 {
		return uint64(-v)
	}

	return uint64(v)
}

// wrapAdd adds a signed amount to x modulo mask+1. A negative amount is
// subtracted by its magnitude so that no negative value is ever masked.
func wrapAdd(x uint64, v int64, mask uint64) uint64 {
	if v < 0 {
		return (x - (magnitude(v) & mask)) & mask
	}

	return (x + (uint64(v) & mask)) & mask
}

func wrapOutputErr(err error) error {
	return fmt.Errorf("%w: %w", ErrOutputFailed, err)
}

type instEmulator struct {
	eof config.EOFPolicy
	in  io.ByteReader
	out io.Writer
}

// RunInst executes the instruction at cur and returns the index of the
// instruction to run next.
func (i instEmulator) RunInst(
	prog *instr.Program,
	cur instr.Index,
	state *State,
) (instr.Index, error) {
	inst := prog.Node(cur)

	switch inst.Opcode {
	case instr.OpMove:
		state.Pointer = wrapAdd(state.Pointer, inst.Delta, state.TapeMask)
	case instr.OpAdd:
		state.setCell(wrapAdd(state.Cell(), inst.Delta, state.CellMask))
	case instr.OpLoopStart:
		if state.Cell() == 0 {
			return prog.Node(inst.Match).Next, nil
		}
	case instr.OpLoopEnd:
		if state.Cell() != 0 {
			return prog.Node(inst.Match).Next, nil
		}
	case instr.OpInput:
		if err := i.runInput(state); err != nil {
			return instr.Nil, err
		}
	case instr.OpOutput:
		if err := i.runOutput(state); err != nil {
			return instr.Nil, err
		}
	case instr.OpClear:
		state.setCell(0)
	case instr.OpScanRight:
		if err := i.runScan(state, 1); err != nil {
			return instr.Nil, err
		}
	case instr.OpScanLeft:
		if err := i.runScan(state, -1); err != nil {
			return instr.Nil, err
		}
	case instr.OpCopy:
		i.runCopy(inst, state)
	default:
		return instr.Nil, fmt.Errorf("%w %s at instruction %d",
			ErrUnknownOpcode, inst.Opcode, cur)
	}

	return inst.Next, nil
}

// runOutput hands the cell's low byte to the writer right away.
func (i instEmulator) runOutput(state *State) error {
	n, err := i.out.Write([]byte{byte(state.Cell())})
	if err == nil && n != 1 {
		err = io.ErrShortWrite
	}

	if err != nil {
		return wrapOutputErr(err)
	}

	return nil
}

func (i instEmulator) runInput(state *State) error {
	b, err := i.in.ReadByte()
	if err != nil {
		// Any read failure ends the input.
		if i.eof != config.EOFIgnore {
			state.setCell(i.eof.Value())
		}

		return nil
	}

	state.setCell(uint64(b))

	return nil
}

func (i instEmulator) runScan(state *State, dir int64) error {
	start := state.Pointer

	for state.Cell() != 0 {
		state.Pointer = wrapAdd(state.Pointer, dir, state.TapeMask)

		if state.Pointer == start {
			return fmt.Errorf("%w: no zero cell on the tape, scan started at %d",
				ErrInfiniteLoop, start)
		}
	}

	return nil
}

func (i instEmulator) runCopy(inst *instr.Instruction, state *State) {
	src := state.Cell()
	if src == 0 {
		return
	}

	for _, t := range inst.Copies {
		target := wrapAdd(state.Pointer, t.Offset, state.TapeMask)
		amount := (src * (magnitude(t.Multiplier) & state.CellMask)) & state.CellMask
		value := state.Tape.Get(target)

		if t.Multiplier < 0 {
			value -= amount
		} else {
			value += amount
		}

		state.Tape.Set(target, value&state.CellMask)
	}

	state.setCell(0)
}
