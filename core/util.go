package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/bfi/instr"
)

const (
	LevelTrace slog.Level = slog.LevelInfo + 1
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// PrintState writes the cells around the tape pointer as a table, window
// cells on each side. The pointer's cell is marked with an arrow.
func PrintState(w io.Writer, state *State, window uint64) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Tape (pointer %d of %d cells)",
		state.Pointer, state.TapeMask+1))
	t.AppendHeader(table.Row{"", "Address", "Value", "Char"})

	span := 2*window + 1
	if span > state.TapeMask+1 {
		span = state.TapeMask + 1
		window = state.Pointer
	}

	addr := (state.Pointer - window) & state.TapeMask
	for n := uint64(0); n < span; n++ {
		marker := ""
		if addr == state.Pointer {
			marker = "->"
		}

		v := state.Tape.Get(addr)
		t.AppendRow(table.Row{marker, addr, v, printable(v)})

		addr = (addr + 1) & state.TapeMask
	}

	t.Render()
}

func printable(v uint64) string {
	if v >= 0x20 && v < 0x7f {
		return string(rune(v))
	}

	return ""
}

// PrintProgram writes the live instructions of a program as a table.
func PrintProgram(w io.Writer, prog *instr.Program) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(fmt.Sprintf("Program (%d instructions)", prog.Len()))
	t.AppendHeader(table.Row{"Index", "Instruction", "Match"})

	prog.Walk(func(i instr.Index, inst *instr.Instruction) bool {
		match := ""
		if inst.Match != instr.Nil {
			match = fmt.Sprintf("%d", inst.Match)
		}

		t.AppendRow(table.Row{i, inst.String(), match})

		return true
	})

	t.Render()
}

func LogState(state *State) {
	slog.Debug("StateCheckpoint",
		"Pointer", state.Pointer,
		"Cell", state.Cell(),
		"TapeMask", state.TapeMask,
		"CellMask", state.CellMask,
	)
}
