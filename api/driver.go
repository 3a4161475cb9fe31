// Package api defines the driver API that parses and runs programs.
//
// Every run logs its start and finish through core.Trace. core.LevelTrace is
// slog.LevelInfo+1, so the default slog logger prints these lines to stderr.
// Callers that do not want them install a handler with a higher level, for
// example slog.LevelWarn, before running.
package api

import (
	"errors"
	"io"
	"log/slog"

	"github.com/sarchlab/bfi/core"
	"github.com/sarchlab/bfi/instr"
	"github.com/sarchlab/bfi/program"
)

// ErrNoProgram is returned by Run when no program has been mapped.
var ErrNoProgram = errors.New("no program mapped")

// Driver provides the interface to control an interpreter.
type Driver interface {
	// MapProgram parses the program text. The parsed program replaces the
	// previous one only if parsing succeeds.
	MapProgram(source string) error

	// FeedIn adds a stream to the input of the next runs. Streams are read
	// one after the other in the order they are fed in.
	FeedIn(in io.Reader)

	// Collect adds a stream that receives the output of the next runs. Every
	// collecting stream receives all the output.
	Collect(out io.Writer)

	// Run executes the mapped program on a fresh tape.
	Run() error

	// State returns the tape of the last run, or nil before the first run.
	State() *core.State

	// Program returns the mapped program, or nil.
	Program() *instr.Program
}

type driverImpl struct {
	name      string
	operators program.OperatorSet
	core      interpreter

	prog    *instr.Program
	inputs  []io.Reader
	outputs []io.Writer
	state   *core.State
}

// MapProgram parses the program text with the driver's operators.
func (d *driverImpl) MapProgram(source string) error {
	prog, err := program.Parse(source, d.operators)
	if err != nil {
		slog.Debug("MapProgram", "Driver", d.name, "Error", err)
		return err
	}

	d.prog = prog

	core.Trace("MapProgram",
		"Driver", d.name,
		"Core", d.core.Name(),
		"Instructions", prog.Len(),
		"Loops", prog.Count(instr.OpLoopStart),
		"Copies", prog.Count(instr.OpCopy),
	)

	return nil
}

func (d *driverImpl) FeedIn(in io.Reader) {
	d.inputs = append(d.inputs, in)
}

func (d *driverImpl) Collect(out io.Writer) {
	d.outputs = append(d.outputs, out)
}

func (d *driverImpl) input() io.Reader {
	switch len(d.inputs) {
	case 0:
		return nil
	case 1:
		return d.inputs[0]
	default:
		return io.MultiReader(d.inputs...)
	}
}

func (d *driverImpl) output() io.Writer {
	switch len(d.outputs) {
	case 0:
		return nil
	case 1:
		return d.outputs[0]
	default:
		return io.MultiWriter(d.outputs...)
	}
}

// Run runs the mapped program.
func (d *driverImpl) Run() error {
	if d.prog == nil {
		return ErrNoProgram
	}

	state, err := d.core.Execute(d.prog, d.input(), d.output())
	d.state = state

	if state != nil {
		core.LogState(state)
	}

	return err
}

func (d *driverImpl) State() *core.State {
	return d.state
}

func (d *driverImpl) Program() *instr.Program {
	return d.prog
}
