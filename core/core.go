// Package core executes instruction graphs on a wrapping tape.
package core

import (
	"bufio"
	"bytes"
	"io"
	"time"

	"github.com/sarchlab/bfi/config"
	"github.com/sarchlab/bfi/instr"
)

// Core is an interpreter with a fixed tape size, cell size, and EOF policy.
// Every run gets a fresh tape. A Core must not be used by several goroutines
// at the same time.
type Core struct {
	name     string
	tapeSize config.Size
	cellSize config.Size
	eof      config.EOFPolicy
}

// Name returns the name given to the core at build time.
func (c *Core) Name() string {
	return c.name
}

// Config returns the settings the core runs with.
func (c *Core) Config() config.Config {
	return config.Config{
		TapeSize: c.tapeSize,
		CellSize: c.cellSize,
		EOF:      c.eof,
	}
}

// NewState allocates a zeroed state that fits the core.
func (c *Core) NewState() *State {
	return NewState(c.tapeSize, c.cellSize)
}

// Run executes the program from its root until it falls off the end. A nil
// reader behaves like an empty input and a nil writer discards the output.
func (c *Core) Run(prog *instr.Program, in io.Reader, out io.Writer) error {
	_, err := c.Execute(prog, in, out)
	return err
}

// Execute is Run that also returns the state of the tape after the run, also
// when the run failed.
func (c *Core) Execute(
	prog *instr.Program,
	in io.Reader,
	out io.Writer,
) (*State, error) {
	state := c.NewState()
	err := c.ExecuteOn(state, prog, in, out)

	return state, err
}

// ExecuteOn runs the program against a state prepared by the caller.
func (c *Core) ExecuteOn(
	state *State,
	prog *instr.Program,
	in io.Reader,
	out io.Writer,
) error {
	if in == nil {
		in = bytes.NewReader(nil)
	}
	if out == nil {
		out = io.Discard
	}

	br, ok := in.(io.ByteReader)
	if !ok {
		br = bufio.NewReader(in)
	}

	emu := instEmulator{
		eof: c.eof,
		in:  br,
		out: out,
	}

	Trace("Run",
		"Core", c.name,
		"Behavior", "Start",
		"Instructions", prog.Len(),
		"TapeSize", c.tapeSize,
		"CellSize", c.cellSize,
		"EOF", c.eof,
	)

	start := time.Now()
	steps := uint64(0)
	err := c.loop(emu, prog, state, &steps)

	Trace("Run",
		"Core", c.name,
		"Behavior", "Finish",
		"Steps", steps,
		"Pointer", state.Pointer,
		"Elapsed", time.Since(start),
		"Error", err,
	)

	return err
}

func (c *Core) loop(
	emu instEmulator,
	prog *instr.Program,
	state *State,
	steps *uint64,
) error {
	for cur := instr.Root; cur != instr.Nil; *steps++ {
		next, err := emu.RunInst(prog, cur, state)
		if err != nil {
			return err
		}

		cur = next
	}

	return nil
}
